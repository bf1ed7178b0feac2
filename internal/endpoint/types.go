package endpoint

import "sort"

// OperationKey identifies one HTTP verb behavior on an endpoint. Collection
// and item GET are distinct keys even though both originate from GET.
type OperationKey string

const (
	OpGet           OperationKey = "GET"
	OpGetCollection OperationKey = "GET_COLLECTION"
	OpPost          OperationKey = "POST"
	OpPut           OperationKey = "PUT"
	OpPatch         OperationKey = "PATCH"
	OpDelete        OperationKey = "DELETE"
)

// Operation describes a single HTTP operation on an endpoint
type Operation struct {
	OperationID  string
	Summary      string
	Description  string
	Parameters   []interface{}
	RequestBody  map[string]interface{}
	Responses    map[string]interface{}
	Path         string
	Method       string
	IsCollection bool
}

// Endpoint is a logical resource grouping the HTTP operations that share a
// path template. Path holds the collection (non-parameterized) template
// whenever one exists; item-only endpoints keep the parameterized template.
type Endpoint struct {
	Name       string
	Path       string
	Methods    map[string]bool
	Operations map[OperationKey]*Operation
	Schema     map[string]interface{}
}

// Registry maps endpoint names to their models
type Registry map[string]*Endpoint

// Has reports whether an endpoint with the given name exists
func (r Registry) Has(name string) bool {
	_, ok := r[name]
	return ok
}

// Names returns all endpoint names in sorted order
func (r Registry) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
