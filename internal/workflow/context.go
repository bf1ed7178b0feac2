package workflow

import (
	"fmt"
	"strings"

	"auto-api-agent/internal/sample"
)

// ResolveArgs prepares a single call's arguments for dispatch: merges data
// referenced via fromContext, substitutes dynamic foreign-key markers from
// cached lists, and applies the legacy user marker. The input map is never
// mutated; the returned map has the control keys consumed here stripped.
func ResolveArgs(args map[string]interface{}, store Store) map[string]interface{} {
	resolved, _ := deepCopyValue(args).(map[string]interface{})
	if resolved == nil {
		resolved = make(map[string]interface{})
	}

	// Merge stored fields under the arguments; explicit arguments win. A
	// stored id is adopted when the call did not supply one.
	if key, ok := resolved[KeyFromContext].(string); ok {
		if value, found := store.Get(key); found {
			if stored, ok := value.(map[string]interface{}); ok {
				merged := make(map[string]interface{}, len(stored)+len(resolved))
				for k, v := range stored {
					merged[k] = deepCopyValue(v)
				}
				for k, v := range resolved {
					merged[k] = v
				}
				if id, ok := stored["id"]; ok {
					if _, explicit := args["id"]; !explicit {
						merged["id"] = id
					}
				}
				resolved = merged
			}
		}
		delete(resolved, KeyFromContext)
	}

	// Replace each dependency's marker with the first cached id of its
	// target. A target with no cached data leaves the marker in place.
	for _, dep := range dependencyList(resolved[KeyDynamicForeignKeys]) {
		value, found := store.Get("existing_" + dep.TargetEndpoint)
		if !found {
			continue
		}
		id, ok := firstID(value)
		if !ok {
			continue
		}
		substituteMarker(resolved, dep.Marker, id)
	}
	delete(resolved, KeyDynamicForeignKeys)

	// Legacy single-purpose marker
	if value, found := store.Get(legacyUserContextKey); found {
		if id, ok := firstID(value); ok {
			substituteMarker(resolved, legacyUserMarker, id)
		}
	}

	return resolved
}

// dependencyList normalizes the _dynamicForeignKeys argument, which may be
// typed (fresh from synthesis) or generic maps (after a JSON round trip)
func dependencyList(value interface{}) []sample.Dependency {
	switch deps := value.(type) {
	case []sample.Dependency:
		return deps
	case []interface{}:
		out := make([]sample.Dependency, 0, len(deps))
		for _, entry := range deps {
			m, ok := entry.(map[string]interface{})
			if !ok {
				continue
			}
			dep := sample.Dependency{}
			dep.SourceProperty, _ = m["sourceProperty"].(string)
			dep.TargetEndpoint, _ = m["targetEndpoint"].(string)
			dep.Marker, _ = m["marker"].(string)
			out = append(out, dep)
		}
		return out
	}
	return nil
}

// firstID extracts the id of the first entry of a cached list response,
// unwrapping common envelope keys
func firstID(value interface{}) (string, bool) {
	list, ok := value.([]interface{})
	if !ok {
		wrapper, isMap := value.(map[string]interface{})
		if !isMap {
			return "", false
		}
		for _, key := range []string{"data", "items", "results"} {
			if inner, isList := wrapper[key].([]interface{}); isList {
				list = inner
				ok = true
				break
			}
		}
	}
	if !ok || len(list) == 0 {
		return "", false
	}
	entry, ok := list[0].(map[string]interface{})
	if !ok {
		return "", false
	}
	id, ok := entry["id"]
	if !ok {
		return "", false
	}
	return fmt.Sprintf("%v", id), true
}

// substituteMarker replaces every occurrence of the marker string anywhere in
// the argument tree
func substituteMarker(node map[string]interface{}, marker, id string) {
	for key, value := range node {
		node[key] = substituteInValue(value, marker, id)
	}
}

func substituteInValue(value interface{}, marker, id string) interface{} {
	switch v := value.(type) {
	case string:
		if strings.Contains(v, marker) {
			return strings.ReplaceAll(v, marker, id)
		}
	case map[string]interface{}:
		substituteMarker(v, marker, id)
	case []interface{}:
		for i, item := range v {
			v[i] = substituteInValue(item, marker, id)
		}
	}
	return value
}

// deepCopyValue copies maps and slices so that marker substitution never
// mutates the immutable workflow definitions
func deepCopyValue(value interface{}) interface{} {
	switch v := value.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(v))
		for k, item := range v {
			out[k] = deepCopyValue(item)
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(v))
		for i, item := range v {
			out[i] = deepCopyValue(item)
		}
		return out
	}
	return value
}
