package endpoint

import "strings"

// EndpointName derives the logical endpoint name from a path template: strip
// the leading slash, truncate at the first {param} segment, drop a trailing
// slash, and replace remaining slashes and hyphens with underscores.
func EndpointName(template string) string {
	name := strings.TrimPrefix(template, "/")
	if idx := strings.Index(name, "{"); idx >= 0 {
		name = name[:idx]
	}
	name = strings.TrimSuffix(name, "/")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "-", "_")
	if name == "" {
		return "root"
	}
	return name
}

// EndsInParam reports whether the path template's last segment is a
// {param} placeholder
func EndsInParam(template string) bool {
	segments := strings.Split(strings.Trim(template, "/"), "/")
	last := segments[len(segments)-1]
	return strings.HasPrefix(last, "{")
}

// Singularize strips a trailing s unless it is preceded by another s.
// The heuristic is deliberately simple: users -> user, addresses -> addresse.
func Singularize(name string) string {
	if strings.HasSuffix(name, "s") && !strings.HasSuffix(name, "ss") {
		return name[:len(name)-1]
	}
	return name
}

// GenerateOperationID builds an operation ID for operations that do not
// declare one, from the last non-parameter path segment
func GenerateOperationID(method, path string) string {
	segment := "root"
	segments := strings.Split(strings.Trim(path, "/"), "/")
	for i := len(segments) - 1; i >= 0; i-- {
		if segments[i] != "" && !strings.HasPrefix(segments[i], "{") {
			segment = segments[i]
			break
		}
	}

	switch strings.ToLower(method) {
	case "get":
		if EndsInParam(path) {
			return "get_" + Singularize(segment)
		}
		return "list_" + segment
	case "post":
		return "create_" + segment
	case "put":
		return "update_" + Singularize(segment)
	case "patch":
		return "patch_" + Singularize(segment)
	case "delete":
		return "delete_" + segment
	}
	return strings.ToLower(method) + "_" + segment
}
