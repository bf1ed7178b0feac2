package schema

import (
	"log/slog"
	"strings"
)

// Resolver dereferences $ref pointers in a raw OpenAPI document tree.
// Composition keywords (allOf/oneOf/anyOf) are passed through unmerged; only
// $ref, object properties and array items are resolved recursively.
type Resolver struct {
	root   map[string]interface{}
	logger *slog.Logger
}

// NewResolver creates a new resolver rooted at the given document
func NewResolver(root map[string]interface{}, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{
		root:   root,
		logger: logger,
	}
}

// Resolve returns a copy of the schema node with every reachable $ref
// replaced by its target. A nil node, or a reference that cannot be located,
// resolves to nil; resolution failure is non-fatal and only logged. A
// reference that recurses into itself resolves to nil at the point of
// recursion, so self-referential schemas terminate.
func (r *Resolver) Resolve(node map[string]interface{}) map[string]interface{} {
	return r.resolve(node, make(map[string]bool))
}

// resolve carries the set of references on the current expansion path. A
// reference already on the path is a cycle; a reference reused by a sibling
// branch is not, so entries are removed once their subtree is done.
func (r *Resolver) resolve(node map[string]interface{}, seen map[string]bool) map[string]interface{} {
	if node == nil {
		return nil
	}

	if ref, ok := node["$ref"].(string); ok {
		if seen[ref] {
			r.logger.Warn("cyclic schema reference", "ref", ref)
			return nil
		}
		target := r.lookup(ref)
		if target == nil {
			return nil
		}
		// The target may itself be, or contain, a reference
		seen[ref] = true
		out := r.resolve(target, seen)
		delete(seen, ref)
		return out
	}

	if node["type"] == "object" {
		if props, ok := node["properties"].(map[string]interface{}); ok {
			out := shallowCopy(node)
			resolved := make(map[string]interface{}, len(props))
			for name, prop := range props {
				if propMap, ok := prop.(map[string]interface{}); ok {
					resolved[name] = r.resolve(propMap, seen)
				} else {
					resolved[name] = prop
				}
			}
			out["properties"] = resolved
			return out
		}
	}

	if node["type"] == "array" {
		if items, ok := node["items"].(map[string]interface{}); ok {
			out := shallowCopy(node)
			out["items"] = r.resolve(items, seen)
			return out
		}
	}

	return node
}

// lookup walks a reference path such as #/components/schemas/User from the
// document root
func (r *Resolver) lookup(ref string) map[string]interface{} {
	var cur interface{} = r.root

	for _, segment := range strings.Split(ref, "/") {
		if segment == "#" || segment == "" {
			continue
		}
		node, ok := cur.(map[string]interface{})
		if !ok {
			r.logger.Warn("failed to resolve schema reference", "ref", ref, "segment", segment)
			return nil
		}
		next, ok := node[segment]
		if !ok {
			r.logger.Warn("failed to resolve schema reference", "ref", ref, "segment", segment)
			return nil
		}
		cur = next
	}

	target, ok := cur.(map[string]interface{})
	if !ok {
		r.logger.Warn("schema reference target is not an object", "ref", ref)
		return nil
	}
	return target
}

func shallowCopy(node map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(node))
	for k, v := range node {
		out[k] = v
	}
	return out
}
