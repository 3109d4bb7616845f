package schema

import (
	"fmt"
	"strings"
)

// Keys whose values are maps of name -> schema rather than a schema.
var namedSchemaKeys = map[string]bool{
	"properties":        true,
	"patternProperties": true,
	"$defs":             true,
	"definitions":       true,
}

// Keys whose values are instance data and must never be rewritten.
var dataKeys = map[string]bool{
	"default":  true,
	"enum":     true,
	"const":    true,
	"examples": true,
}

// walk rebuilds v bottom-up, calling fn on every schema object after its
// children have been rebuilt. The input is never modified.
func walk(v any, fn func(Dict) Dict) any {
	switch x := v.(type) {
	case map[string]any:
		out := make(Dict, len(x))
		for k, vv := range x {
			switch {
			case dataKeys[k]:
				out[k] = vv
			case namedSchemaKeys[k]:
				if m, ok := vv.(map[string]any); ok {
					named := make(Dict, len(m))
					for name, s := range m {
						named[name] = walk(s, fn)
					}
					out[k] = named
					continue
				}
				out[k] = walk(vv, fn)
			default:
				out[k] = walk(vv, fn)
			}
		}
		return fn(out)
	case []any:
		out := make([]any, len(x))
		for i, vv := range x {
			out[i] = walk(vv, fn)
		}
		return out
	default:
		return v
	}
}

func walkDict(d Dict, fn func(Dict) Dict) Dict {
	out, _ := walk(d, fn).(Dict)
	return out
}

// StripKeyword removes kw from every schema object. Property names equal
// to kw are kept.
func StripKeyword(d Dict, kw string) Dict {
	return walkDict(d, func(s Dict) Dict {
		delete(s, kw)
		return s
	})
}

// CollapseAllOf replaces {"allOf": [X], ...} with X merged over the
// remaining keys.
func CollapseAllOf(d Dict) Dict {
	return walkDict(d, func(s Dict) Dict {
		all, ok := s["allOf"].([]any)
		if !ok || len(all) != 1 {
			return s
		}
		only, ok := all[0].(map[string]any)
		if !ok {
			return s
		}
		delete(s, "allOf")
		for k, v := range only {
			s[k] = v
		}
		return s
	})
}

// CollapseAnyOf replaces {"anyOf": [X, ...], ...} with X merged over the
// remaining keys. Alternatives after the first are discarded.
func CollapseAnyOf(d Dict) Dict {
	return walkDict(d, func(s Dict) Dict {
		alts, ok := s["anyOf"].([]any)
		if !ok {
			return s
		}
		delete(s, "anyOf")
		if len(alts) == 0 {
			return s
		}
		if first, ok := alts[0].(map[string]any); ok {
			for k, v := range first {
				s[k] = v
			}
		}
		return s
	})
}

// DropDefs removes the top-level definitions containers.
func DropDefs(d Dict) Dict {
	out := make(Dict, len(d))
	for k, v := range d {
		if k == "$defs" || k == "definitions" {
			continue
		}
		out[k] = v
	}
	return out
}

// InlineRefs replaces every local "$ref" with a copy of its target from the
// root's $defs (or definitions). Keys next to a $ref override the target's.
func InlineRefs(root Dict) (Dict, error) {
	defs := map[string]any{}
	for _, key := range []string{"definitions", "$defs"} {
		if m, ok := root[key].(map[string]any); ok {
			for name, s := range m {
				defs["#/"+key+"/"+name] = s
			}
		}
	}
	r := &refResolver{defs: defs}
	out, err := r.resolve(root, nil)
	if err != nil {
		return nil, err
	}
	d, _ := out.(Dict)
	return d, nil
}

type refResolver struct {
	defs map[string]any
}

func (r *refResolver) resolve(v any, stack []string) (any, error) {
	switch x := v.(type) {
	case map[string]any:
		if ref, ok := x["$ref"].(string); ok {
			return r.inline(ref, x, stack)
		}
		out := make(Dict, len(x))
		for k, vv := range x {
			if dataKeys[k] {
				out[k] = vv
				continue
			}
			rv, err := r.resolve(vv, stack)
			if err != nil {
				return nil, err
			}
			out[k] = rv
		}
		return out, nil
	case []any:
		out := make([]any, len(x))
		for i, vv := range x {
			rv, err := r.resolve(vv, stack)
			if err != nil {
				return nil, err
			}
			out[i] = rv
		}
		return out, nil
	default:
		return v, nil
	}
}

func (r *refResolver) inline(ref string, node map[string]any, stack []string) (any, error) {
	for _, seen := range stack {
		if seen == ref {
			return nil, fmt.Errorf("%w: %s -> %s", ErrRecursiveRef, strings.Join(stack, " -> "), ref)
		}
	}
	target, ok := r.defs[ref]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnresolvedRef, ref)
	}
	next := append(append([]string(nil), stack...), ref)
	resolved, err := r.resolve(target, next)
	if err != nil {
		return nil, err
	}
	out := Dict{}
	if m, ok := resolved.(map[string]any); ok {
		for k, v := range m {
			out[k] = v
		}
	}
	for k, v := range node {
		if k == "$ref" {
			continue
		}
		if dataKeys[k] {
			out[k] = v
			continue
		}
		rv, err := r.resolve(v, stack)
		if err != nil {
			return nil, err
		}
		out[k] = rv
	}
	return out, nil
}
