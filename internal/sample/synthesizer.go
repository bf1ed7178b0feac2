package sample

import (
	"sort"
	"strings"
)

// placeholderUUID is emitted for uuid-formatted properties that are not
// recognized as foreign keys
const placeholderUUID = "123e4567-e89b-12d3-a456-426614174000"

// HintProvider supplies domain-specific sample values ahead of the built-in
// heuristics. Explicit schema examples and enums still win unconditionally.
type HintProvider interface {
	SampleValue(property string, propertySchema map[string]interface{}, endpoint string) (interface{}, bool)
}

// registryLookup answers whether an endpoint name exists; satisfied by
// endpoint.Registry
type registryLookup interface {
	Has(name string) bool
}

// Synthesizer produces plausible sample values for resolved schemas,
// emitting dynamic foreign-key markers where a reference is detected
type Synthesizer struct {
	registry registryLookup
	hints    HintProvider
}

// NewSynthesizer creates a new instance of Synthesizer. hints may be nil.
func NewSynthesizer(registry registryLookup, hints HintProvider) *Synthesizer {
	return &Synthesizer{
		registry: registry,
		hints:    hints,
	}
}

// Value synthesizes a value for a single schema property. An explicit example
// wins unconditionally, then the first enum entry, then the hint provider,
// then the type heuristics.
func (s *Synthesizer) Value(property string, propertySchema map[string]interface{}, endpointName string) interface{} {
	if propertySchema == nil {
		return nil
	}

	if example, ok := propertySchema["example"]; ok {
		return example
	}
	if enum, ok := propertySchema["enum"].([]interface{}); ok && len(enum) > 0 {
		return enum[0]
	}
	if s.hints != nil {
		if value, ok := s.hints.SampleValue(property, propertySchema, endpointName); ok {
			return value
		}
	}

	switch propertySchema["type"] {
	case "string":
		return s.stringValue(property, propertySchema)
	case "integer", "number":
		if min, ok := propertySchema["minimum"]; ok {
			return min
		}
		return 10
	case "boolean":
		return true
	case "array":
		items, ok := propertySchema["items"].(map[string]interface{})
		if !ok {
			return []interface{}{}
		}
		return []interface{}{s.Value(property+"_item", items, endpointName)}
	case "object":
		return s.Object(propertySchema, endpointName)
	}
	return nil
}

// Object synthesizes a full object payload: required properties first, then
// the remaining ones, always skipping read-only properties
func (s *Synthesizer) Object(objectSchema map[string]interface{}, endpointName string) map[string]interface{} {
	out := make(map[string]interface{})
	if objectSchema == nil {
		return out
	}

	props, _ := objectSchema["properties"].(map[string]interface{})
	required := requiredSet(objectSchema)

	names := make([]string, 0, len(props))
	for name := range props {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		if required[name] {
			s.fill(out, name, props[name], endpointName)
		}
	}
	for _, name := range names {
		if !required[name] {
			s.fill(out, name, props[name], endpointName)
		}
	}
	return out
}

func (s *Synthesizer) fill(out map[string]interface{}, name string, prop interface{}, endpointName string) {
	propertySchema, ok := prop.(map[string]interface{})
	if !ok {
		return
	}
	if readOnly, _ := propertySchema["readOnly"].(bool); readOnly {
		return
	}
	out[name] = s.Value(name, propertySchema, endpointName)
}

// stringValue applies the format and property-name heuristics for strings
func (s *Synthesizer) stringValue(property string, propertySchema map[string]interface{}) interface{} {
	format, _ := propertySchema["format"].(string)
	switch format {
	case "email":
		return "test@example.com"
	case "date":
		return "2024-01-01"
	case "date-time":
		return "2024-01-01T12:00:00Z"
	case "uuid":
		if target, ok := DetectForeignKey(property, propertySchema, s.has); ok {
			return Marker(target)
		}
		return placeholderUUID
	case "password":
		return "TestPassword123!"
	case "uri":
		return "https://example.com"
	}

	name := strings.ToLower(property)
	switch {
	case strings.Contains(name, "email"):
		return "test@example.com"
	case strings.Contains(name, "firstname"), strings.Contains(name, "first_name"):
		return "John"
	case strings.Contains(name, "lastname"), strings.Contains(name, "last_name"):
		return "Doe"
	case strings.Contains(name, "fullname"):
		return "John Doe"
	case strings.Contains(name, "username"):
		return "testuser"
	case strings.Contains(name, "title"):
		return "Test Title"
	case strings.Contains(name, "description"):
		return "This is a test description"
	case strings.Contains(name, "content"):
		return "This is test content"
	case strings.Contains(name, "phone"):
		return "+1-555-0100"
	case strings.Contains(name, "address"):
		return "123 Test Street"
	case strings.Contains(name, "city"):
		return "Test City"
	case strings.Contains(name, "country"):
		return "US"
	case strings.Contains(name, "zip"), strings.Contains(name, "postal"):
		return "12345"
	case strings.Contains(name, "name"):
		return "Test Name"
	}
	return "test_" + name
}

func (s *Synthesizer) has(name string) bool {
	return s.registry != nil && s.registry.Has(name)
}

func requiredSet(objectSchema map[string]interface{}) map[string]bool {
	out := make(map[string]bool)
	required, _ := objectSchema["required"].([]interface{})
	for _, entry := range required {
		if name, ok := entry.(string); ok {
			out[name] = true
		}
	}
	return out
}
