package workflow

// Reserved argument keys understood by the execution engine and the tool
// dispatcher. They ride alongside the payload fields in step arguments.
const (
	KeySaveToContext      = "saveToContext"
	KeyFromContext        = "fromContext"
	KeyDynamicForeignKeys = "_dynamicForeignKeys"
	KeyData               = "data"
	KeyQueryParams        = "queryParams"
)

// Legacy single-purpose marker, kept for backward compatibility with older
// generated payloads
const (
	legacyUserMarker     = "{{EXISTING_USER_ID}}"
	legacyUserContextKey = "existing_users"
)

// Step is a single tool invocation within a workflow
type Step struct {
	Action      string                 `json:"action"`
	Description string                 `json:"description,omitempty"`
	Args        map[string]interface{} `json:"args,omitempty"`
}

// Workflow is an ordered sequence of tool invocations exercising the full
// CRUD lifecycle of one endpoint. Definitions are immutable and may be
// executed any number of times.
type Workflow struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Steps       []Step `json:"steps"`
}

// Store is the key-value context store collaborator used to pass prior step
// results into later steps
type Store interface {
	Get(key string) (interface{}, bool)
	Set(key string, value interface{})
	Has(key string) bool
}
