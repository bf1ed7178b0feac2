package document

import (
	"fmt"
	"os"

	"github.com/getkin/kin-openapi/openapi3"
	"gopkg.in/yaml.v3"
)

// Document is a loaded API description. It keeps both the validated
// kin-openapi model and a raw JSON-shaped tree; reference resolution and
// sample synthesis walk the raw tree, while the typed model supplies
// metadata such as the document title.
type Document struct {
	OAS *openapi3.T
	Raw map[string]interface{}
}

// Load parses an OpenAPI document from JSON or YAML bytes
func Load(data []byte) (*Document, error) {
	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("failed to parse OpenAPI doc: %v", err)
	}

	if doc.Paths == nil || doc.Paths.Len() == 0 {
		return nil, fmt.Errorf("invalid OpenAPI document: no paths defined")
	}

	var raw map[string]interface{}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("failed to decode document tree: %v", err)
	}

	return &Document{OAS: doc, Raw: raw}, nil
}

// LoadFile parses an OpenAPI document from a file on disk
func LoadFile(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read spec file: %v", err)
	}
	return Load(data)
}

// Title returns the document's declared title, or a fallback when absent
func (d *Document) Title() string {
	if d.OAS != nil && d.OAS.Info != nil && d.OAS.Info.Title != "" {
		return d.OAS.Info.Title
	}
	return "api"
}

// Version returns the document's declared version, or a fallback when absent
func (d *Document) Version() string {
	if d.OAS != nil && d.OAS.Info != nil && d.OAS.Info.Version != "" {
		return d.OAS.Info.Version
	}
	return "0.0.0"
}

// Paths returns the raw path table of the document
func (d *Document) Paths() map[string]interface{} {
	paths, _ := d.Raw["paths"].(map[string]interface{})
	return paths
}
