// Package typeexpr parses annotation type expressions into IR type
// descriptors. The grammar covers unions, optionals, generics, function
// signatures, table shapes, arrays and fixed-size tuples, as written in
// LuaLS-style documentation comments.
package typeexpr

import (
	"fmt"
	"strings"

	"github.com/luadts/luadts/luagen/ir"
)

// MalformedTypeError reports a type expression the grammar rejects.
type MalformedTypeError struct {
	// Line is the source line the expression came from, when known.
	Line int

	// Text is the offending expression.
	Text string

	// Reason describes the violation.
	Reason string
}

func (e *MalformedTypeError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("malformed type %q at line %d: %s", e.Text, e.Line, e.Reason)
	}
	return fmt.Sprintf("malformed type %q: %s", e.Text, e.Reason)
}

// canonicalNames maps annotation grammar primitives to their TypeScript
// equivalents. This is a fixed table, never inferred; names not listed pass
// through verbatim and resolve (or not) at emission time.
var canonicalNames = map[string]string{
	"integer":  "number",
	"int":      "number",
	"uint":     "number",
	"float":    "number",
	"double":   "number",
	"number":   "number",
	"nil":      "null",
	"bool":     "boolean",
	"boolean":  "boolean",
	"string":   "string",
	"any":      "any",
	"unknown":  "unknown",
	"void":     "void",
	"function": "Function",

	// Opaque binary/userdata handles have no structural equivalent.
	"userdata":      "unknown",
	"lightuserdata": "unknown",
}

// builtinNames are names that never count as free references: canonical
// primitives plus the TS-side forms the canonicalization produces.
var builtinNames = map[string]bool{
	"number": true, "string": true, "boolean": true, "null": true,
	"any": true, "unknown": true, "void": true, "never": true,
	"undefined": true, "object": true, "Function": true, "Record": true,
	"true": true, "false": true,
}

// Parse parses one annotation type expression. It returns the descriptor
// together with every free (non-builtin) type name the expression uses, in
// first-use order. line is used for error reporting only.
func Parse(text string, line int) (ir.TypeDescriptor, []string, error) {
	p := &parser{line: line}
	node, err := p.parse(text)
	if err != nil {
		return nil, nil, err
	}
	return node, p.used, nil
}

// parser threads the used-name accumulator through one Parse call. Each
// call gets its own parser, so concurrent per-file parsing shares nothing.
type parser struct {
	line int
	used []string
}

func (p *parser) fail(text, reason string) error {
	return &MalformedTypeError{Line: p.line, Text: text, Reason: reason}
}

func (p *parser) use(name string) {
	if name == "" || builtinNames[name] {
		return
	}
	// Literal types ("on", 42, -1) are values, not references.
	if c := name[0]; c == '"' || c == '\'' || c == '-' || c >= '0' && c <= '9' {
		return
	}
	for _, have := range p.used {
		if have == name {
			return
		}
	}
	p.used = append(p.used, name)
}

func (p *parser) parse(text string) (ir.TypeDescriptor, error) {
	s := strings.TrimSpace(text)
	if s == "" {
		return nil, p.fail(text, "empty type expression")
	}
	if balancedDepth(s) != 0 {
		return nil, p.fail(s, "unterminated brackets")
	}

	// Unions are split before any other dispatch so that each arm is
	// parsed independently.
	if opts := SplitTop(s, '|'); len(opts) > 1 {
		members := make([]ir.TypeDescriptor, 0, len(opts))
		for _, o := range opts {
			m, err := p.parse(o)
			if err != nil {
				return nil, err
			}
			members = append(members, m)
		}
		return ir.Union(members...), nil
	}

	// Trailing ? wraps the prefix in an optional.
	if strings.HasSuffix(s, "?") {
		inner, err := p.parse(s[:len(s)-1])
		if err != nil {
			return nil, err
		}
		return ir.Opt(inner), nil
	}

	// A top-level comma with no enclosing bracket form is a tuple, e.g. a
	// multi-value return annotation.
	if parts := SplitTop(s, ','); len(parts) > 1 {
		elems := make([]ir.TypeDescriptor, 0, len(parts))
		for _, part := range parts {
			e, err := p.parse(part)
			if err != nil {
				return nil, err
			}
			elems = append(elems, e)
		}
		return ir.Tuple(elems...), nil
	}

	if strings.HasSuffix(s, "[]") {
		elem, err := p.parse(s[:len(s)-2])
		if err != nil {
			return nil, err
		}
		return ir.Array(elem), nil
	}

	// A parenthesized group is transparent; it only exists to bind an
	// array or optional suffix to a compound type.
	if wrapped(s, '(', ')') {
		return p.parse(s[1 : len(s)-1])
	}

	if wrapped(s, '{', '}') {
		return p.parseTable(s)
	}

	if rest, ok := strings.CutPrefix(s, "fun"); ok && strings.HasPrefix(strings.TrimSpace(rest), "(") {
		return p.parseFunction(strings.TrimSpace(rest))
	}

	if base, args, ok := genericForm(s); ok {
		return p.parseGeneric(base, args)
	}

	return p.parseSimple(s), nil
}

// parseSimple canonicalizes primitive names and records free references.
func (p *parser) parseSimple(name string) ir.TypeDescriptor {
	if canon, ok := canonicalNames[name]; ok {
		name = canon
	}
	if name == "table" {
		// A bare table keyword is an opaque string-keyed record.
		return ir.Generic("Record", ir.Simple("string"), ir.Simple("any"))
	}
	p.use(name)
	return ir.Simple(name)
}

// parseTable parses a {[key]: value, ...} shape.
func (p *parser) parseTable(s string) (ir.TypeDescriptor, error) {
	inner := strings.TrimSpace(s[1 : len(s)-1])
	if inner == "" {
		return ir.Table(), nil
	}
	var entries []ir.TableEntry
	for _, raw := range SplitTop(inner, ',') {
		entry := strings.TrimSpace(raw)
		if !strings.HasPrefix(entry, "[") {
			return nil, p.fail(entry, "table entry must have [key]: value shape")
		}
		close := matchingBracket(entry, 0, '[', ']')
		if close < 0 {
			return nil, p.fail(entry, "unterminated table key")
		}
		rest := strings.TrimSpace(entry[close+1:])
		if !strings.HasPrefix(rest, ":") {
			return nil, p.fail(entry, "table entry must have [key]: value shape")
		}
		key, err := p.parse(entry[1:close])
		if err != nil {
			return nil, err
		}
		value, err := p.parse(rest[1:])
		if err != nil {
			return nil, err
		}
		entries = append(entries, ir.TableEntry{Key: key, Value: value})
	}
	return ir.Table(entries...), nil
}

// parseFunction parses a parenthesized parameter list plus an optional
// `: return` trailer. s starts at the opening parenthesis.
func (p *parser) parseFunction(s string) (ir.TypeDescriptor, error) {
	close := matchingBracket(s, 0, '(', ')')
	if close < 0 {
		return nil, p.fail(s, "unterminated parameter list")
	}
	inner := strings.TrimSpace(s[1:close])

	var params []ir.ParamDescriptor
	if inner != "" {
		for _, raw := range SplitTop(inner, ',') {
			param := strings.TrimSpace(raw)
			switch {
			case param == "...":
				params = append(params, ir.ParamDescriptor{
					Name:     "args",
					Type:     ir.Simple("any"),
					Variadic: true,
				})
			case strings.Contains(param, ":"):
				name, typeText, _ := strings.Cut(param, ":")
				typ, err := p.parse(typeText)
				if err != nil {
					return nil, err
				}
				params = append(params, ir.ParamDescriptor{
					Name: strings.TrimSpace(name),
					Type: typ,
				})
			default:
				// A bare identifier defaults to the permissive
				// catch-all type.
				params = append(params, ir.ParamDescriptor{
					Name: param,
					Type: ir.Simple("any"),
				})
			}
		}
	}

	ret := ir.TypeDescriptor(ir.Simple("void"))
	trailer := strings.TrimSpace(s[close+1:])
	if trailer != "" {
		rest, ok := strings.CutPrefix(trailer, ":")
		if !ok {
			return nil, p.fail(s, "unexpected text after parameter list")
		}
		var err error
		ret, err = p.parse(rest)
		if err != nil {
			return nil, err
		}
	}
	return ir.Fn(params, ret), nil
}

// parseGeneric parses the argument list of a Name<...> form.
func (p *parser) parseGeneric(base, args string) (ir.TypeDescriptor, error) {
	if base == "table" {
		base = "Record"
	} else {
		p.use(base)
	}
	var params []ir.TypeDescriptor
	for _, raw := range SplitTop(args, ',') {
		t, err := p.parse(raw)
		if err != nil {
			return nil, err
		}
		params = append(params, t)
	}
	if len(params) == 0 {
		return nil, p.fail(base+"<"+args+">", "empty type argument list")
	}
	return ir.Generic(base, params...), nil
}

// wrapped reports whether s is entirely enclosed by one open/close pair:
// the closer matching the leading opener must be the final byte.
func wrapped(s string, open, close byte) bool {
	if len(s) < 2 || s[0] != open {
		return false
	}
	return matchingBracket(s, 0, open, close) == len(s)-1
}

// matchingBracket returns the index of the closer matching the opener at
// position i, or -1. Only the given bracket pair adjusts the depth, which
// is sufficient because the caller has already verified overall balance.
func matchingBracket(s string, i int, open, close byte) int {
	depth := 0
	for ; i < len(s); i++ {
		switch s[i] {
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

// genericForm matches the Name<args> shape: a leading identifier (dots
// allowed for namespaced names) immediately followed by an angle-bracket
// group that closes at the end of the string.
func genericForm(s string) (base, args string, ok bool) {
	lt := strings.IndexByte(s, '<')
	if lt <= 0 || !strings.HasSuffix(s, ">") {
		return "", "", false
	}
	base = s[:lt]
	for i := 0; i < len(base); i++ {
		c := base[i]
		if !(c == '_' || c == '.' ||
			c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
			i > 0 && c >= '0' && c <= '9') {
			return "", "", false
		}
	}
	if matchingBracket(s, lt, '<', '>') != len(s)-1 {
		return "", "", false
	}
	return base, s[lt+1 : len(s)-1], true
}
