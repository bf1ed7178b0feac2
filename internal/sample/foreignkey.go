package sample

import (
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// Dependency records a foreign-key reference discovered in a sample payload:
// which property carries the marker and which endpoint must supply a real ID
// at execution time.
type Dependency struct {
	SourceProperty string `json:"sourceProperty"`
	TargetEndpoint string `json:"targetEndpoint"`
	Marker         string `json:"marker"`
}

var markerPattern = regexp.MustCompile(`DYNAMIC_([A-Z0-9_]+)_ID`)

// fkAliases maps common reference words to their endpoint names
var fkAliases = map[string]string{
	"author":   "users",
	"user":     "users",
	"owner":    "users",
	"creator":  "users",
	"category": "categories",
	"tag":      "tags",
}

// Marker builds the dynamic marker string for a foreign-key target
func Marker(target string) string {
	return fmt.Sprintf("DYNAMIC_%s_ID", strings.ToUpper(target))
}

// DetectForeignKey decides whether a property is a foreign-key reference. The
// property must be uuid-formatted, carry a recognized reference name shape,
// and its target endpoint must already exist in the registry; otherwise no
// marker is emitted and a literal UUID is used instead.
func DetectForeignKey(property string, propertySchema map[string]interface{}, known func(name string) bool) (string, bool) {
	if format, _ := propertySchema["format"].(string); format != "uuid" {
		return "", false
	}

	word, ok := foreignKeyWord(property)
	if !ok {
		return "", false
	}

	target, ok := fkAliases[word]
	if !ok {
		target = Pluralize(word)
	}
	if known == nil || !known(target) {
		return "", false
	}
	return target, true
}

// foreignKeyWord extracts the reference word from property names shaped like
// authorId, author_id or id_author
func foreignKeyWord(property string) (string, bool) {
	lower := strings.ToLower(property)
	switch {
	case strings.HasSuffix(property, "Id") && len(property) > 2:
		return strings.ToLower(strings.TrimSuffix(property, "Id")), true
	case strings.HasSuffix(lower, "_id") && len(lower) > 3:
		return lower[:len(lower)-3], true
	case strings.HasPrefix(lower, "id_") && len(lower) > 3:
		return lower[3:], true
	}
	return "", false
}

// Pluralize applies simple English pluralization rules
func Pluralize(word string) string {
	switch {
	case strings.HasSuffix(word, "y"):
		return word[:len(word)-1] + "ies"
	case strings.HasSuffix(word, "s"), strings.HasSuffix(word, "x"), strings.HasSuffix(word, "z"),
		strings.HasSuffix(word, "ch"), strings.HasSuffix(word, "sh"):
		return word + "es"
	default:
		return word + "s"
	}
}

// AnalyzeDependencies scans a synthesized sample payload for dynamic markers
// and reports the source property and target endpoint of each occurrence.
// Callers deduplicate before attaching dependencies to a workflow step.
func AnalyzeDependencies(sampleData map[string]interface{}) []Dependency {
	payload, err := json.Marshal(sampleData)
	if err != nil {
		return nil
	}

	var deps []Dependency
	for _, match := range markerPattern.FindAllStringSubmatch(string(payload), -1) {
		marker := match[0]
		deps = append(deps, Dependency{
			SourceProperty: findPropertyWithValue(sampleData, marker),
			TargetEndpoint: strings.ToLower(match[1]),
			Marker:         marker,
		})
	}
	return deps
}

// DedupeByMarker keeps the first dependency per distinct marker
func DedupeByMarker(deps []Dependency) []Dependency {
	seen := make(map[string]bool)
	out := make([]Dependency, 0, len(deps))
	for _, dep := range deps {
		if seen[dep.Marker] {
			continue
		}
		seen[dep.Marker] = true
		out = append(out, dep)
	}
	return out
}

// DedupeByTarget keeps the first dependency per distinct target endpoint,
// in first-seen order
func DedupeByTarget(deps []Dependency) []Dependency {
	seen := make(map[string]bool)
	out := make([]Dependency, 0, len(deps))
	for _, dep := range deps {
		if seen[dep.TargetEndpoint] {
			continue
		}
		seen[dep.TargetEndpoint] = true
		out = append(out, dep)
	}
	return out
}

// findPropertyWithValue locates the first property in the payload tree whose
// value equals the given marker string
func findPropertyWithValue(node map[string]interface{}, marker string) string {
	keys := make([]string, 0, len(node))
	for key := range node {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	for _, key := range keys {
		switch value := node[key].(type) {
		case string:
			if value == marker {
				return key
			}
		case map[string]interface{}:
			if found := findPropertyWithValue(value, marker); found != "" {
				return found
			}
		case []interface{}:
			for _, item := range value {
				if nested, ok := item.(map[string]interface{}); ok {
					if found := findPropertyWithValue(nested, marker); found != "" {
						return found
					}
				}
			}
		}
	}
	return ""
}
