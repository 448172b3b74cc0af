package provider

import (
	"reflect"
	"strings"

	"github.com/luadts/luadts/luagen/ir"
)

// MergeOverloads fuses two function declarations that collide on the same
// qualified name into one conservative signature. Two physically distinct
// bodies sharing a name is the usual polymorphic-redefinition pattern; the
// merged signature accepts either call shape.
//
// Parameters are merged pairwise by position up to the longer list. Where
// both sides have a parameter, the merged type is the union of the two and
// the merged name joins both names with "_or_" (identical names are kept
// as-is). Where only one side has a parameter, its name gains a "?" suffix
// to signal optionality through the naming convention. Callers always merge
// the later definition into the first-seen one, so insertion order decides
// naming.
func MergeOverloads(existing, incoming *ir.FunctionDecl) *ir.FunctionDecl {
	merged := &ir.FunctionDecl{
		Name:     existing.Name,
		Static:   existing.Static,
		Generics: mergeGenerics(existing.Generics, incoming.Generics),
		Return:   existing.Return,
	}
	merged.Documentation = existing.Documentation
	merged.Source = existing.Source
	if merged.Return == nil {
		merged.Return = incoming.Return
	}

	n := len(existing.Params)
	if len(incoming.Params) > n {
		n = len(incoming.Params)
	}
	for i := 0; i < n; i++ {
		switch {
		case i < len(existing.Params) && i < len(incoming.Params):
			a, b := existing.Params[i], incoming.Params[i]
			merged.Params = append(merged.Params, ir.Param{
				Name:     mergeName(a.Name, b.Name),
				Type:     mergeType(a.Type, b.Type),
				Variadic: a.Variadic && b.Variadic,
			})
		case i < len(existing.Params):
			merged.Params = append(merged.Params, optionalParam(existing.Params[i]))
		default:
			merged.Params = append(merged.Params, optionalParam(incoming.Params[i]))
		}
	}
	return merged
}

func mergeName(a, b string) string {
	if strings.TrimSuffix(a, "?") == strings.TrimSuffix(b, "?") {
		// Same parameter, possibly marked optional by an earlier merge.
		// Keep the marker.
		if strings.HasSuffix(a, "?") {
			return a
		}
		return b
	}
	return a + "_or_" + b
}

func mergeType(a, b ir.TypeDescriptor) ir.TypeDescriptor {
	if reflect.DeepEqual(a, b) {
		return a
	}
	return ir.Union(a, b)
}

func optionalParam(p ir.Param) ir.Param {
	if p.Variadic || strings.HasSuffix(p.Name, "?") {
		return p
	}
	p.Name += "?"
	return p
}

func mergeGenerics(a, b []string) []string {
	out := append([]string(nil), a...)
	for _, g := range b {
		seen := false
		for _, have := range out {
			if have == g {
				seen = true
				break
			}
		}
		if !seen {
			out = append(out, g)
		}
	}
	return out
}
