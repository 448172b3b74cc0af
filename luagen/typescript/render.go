package typescript

import (
	"fmt"
	"strings"

	"github.com/luadts/luadts/luagen/ir"
)

// tsBuiltins are type names emitted verbatim, never imported or stubbed.
var tsBuiltins = map[string]bool{
	"number": true, "string": true, "boolean": true, "null": true,
	"any": true, "unknown": true, "void": true, "never": true,
	"undefined": true, "object": true, "Function": true, "Record": true,
	"true": true, "false": true,
}

// RenderType renders a type descriptor as a TypeScript type expression.
func RenderType(t ir.TypeDescriptor) string {
	switch d := t.(type) {
	case *ir.SimpleDescriptor:
		return renderName(d.Name)
	case *ir.OptionalDescriptor:
		return renderGrouped(d.Inner) + " | null"
	case *ir.GenericDescriptor:
		args := make([]string, len(d.Params))
		for i, p := range d.Params {
			args[i] = RenderType(p)
		}
		return renderName(d.Base) + "<" + strings.Join(args, ", ") + ">"
	case *ir.UnionDescriptor:
		parts := make([]string, len(d.Options))
		for i, o := range d.Options {
			parts[i] = renderGrouped(o)
		}
		return strings.Join(parts, " | ")
	case *ir.FunctionDescriptor:
		params := make([]string, len(d.Params))
		for i, p := range d.Params {
			params[i] = renderParam(p)
		}
		ret := "void"
		if d.Return != nil {
			ret = RenderType(d.Return)
		}
		return "(" + strings.Join(params, ", ") + ") => " + ret
	case *ir.TableDescriptor:
		if len(d.Entries) == 0 {
			return "Record<string, unknown>"
		}
		parts := make([]string, len(d.Entries))
		for i, e := range d.Entries {
			parts[i] = fmt.Sprintf("[key: %s]: %s", RenderType(e.Key), RenderType(e.Value))
		}
		return "{ " + strings.Join(parts, "; ") + " }"
	case *ir.ArrayDescriptor:
		return renderGrouped(d.Element) + "[]"
	case *ir.TupleDescriptor:
		parts := make([]string, len(d.Elements))
		for i, e := range d.Elements {
			parts[i] = RenderType(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	default:
		return "unknown"
	}
}

// renderGrouped parenthesizes compound types in positions where operator
// precedence would otherwise change the meaning (union members, optional
// inners, array elements).
func renderGrouped(t ir.TypeDescriptor) string {
	switch t.Kind() {
	case ir.KindUnion, ir.KindFunction, ir.KindOptional:
		return "(" + RenderType(t) + ")"
	}
	return RenderType(t)
}

// renderParam renders a function-type parameter. A trailing `?` on the
// name (overload-merge convention) and an optional-typed parameter both
// render with the TypeScript optional marker.
func renderParam(p ir.ParamDescriptor) string {
	if p.Variadic {
		return "..." + paramName(p.Name) + ": " + renderGrouped(p.Type) + "[]"
	}
	name := p.Name
	if name == "" {
		name = "arg"
	}
	if opt, ok := p.Type.(*ir.OptionalDescriptor); ok {
		return paramName(strings.TrimSuffix(name, "?")) + "?: " + RenderType(opt.Inner)
	}
	if strings.HasSuffix(name, "?") {
		return paramName(strings.TrimSuffix(name, "?")) + "?: " + RenderType(p.Type)
	}
	return paramName(name) + ": " + RenderType(p.Type)
}

// paramName sanitizes a parameter name for output.
func paramName(name string) string {
	return sanitizeIdentifier(name)
}

// renderName renders a type reference. Builtins and string/number literal
// types pass through verbatim; user names are sanitized so dotted Lua
// names stay valid TypeScript identifiers.
func renderName(name string) string {
	if name == "" {
		return "unknown"
	}
	if tsBuiltins[name] {
		return name
	}
	if c := name[0]; c == '"' || c == '-' || c >= '0' && c <= '9' {
		return name
	}
	return sanitizeIdentifier(name)
}

// FreeNames filters a used-name list down to the names that actually need
// resolution: builtins, literals and locally bound generic parameters are
// dropped.
func FreeNames(used []string, bound map[string]bool) []string {
	var out []string
	for _, name := range used {
		if name == "" || tsBuiltins[name] || bound[name] {
			continue
		}
		if c := name[0]; c == '"' || c == '\'' || c == '-' || c >= '0' && c <= '9' {
			continue
		}
		out = append(out, name)
	}
	return out
}
