package annotation

import (
	"regexp"
	"strings"

	"github.com/luadts/luadts/luagen/ir"
	"github.com/luadts/luadts/luagen/typeexpr"
)

const (
	commentMarker   = "---"
	directiveMarker = "---@"
	variantMarker   = "---|"
)

// classClauseRe matches the @class header: Name, an optional <G, ...>
// generic clause, and an optional `: Supertype` trailer.
var classClauseRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.]*)\s*(?:<([^>]+)>)?\s*(?::\s*([A-Za-z_][A-Za-z0-9_.]*))?$`)

// nameRe matches a plain directive name.
var nameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// Parse scans comment lines in order and produces the flat directive list.
// Lines that carry no recognizable tag are skipped; a tagless `---` line
// becomes a comment directive. The only multi-line form is @alias followed
// by `---|` variant lines, which fold into a single union-typed alias.
func Parse(lines []Line) ([]Directive, error) {
	var out []Directive
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		text := strings.TrimSpace(line.Text)

		switch {
		case strings.HasPrefix(text, variantMarker):
			// Variant lines are consumed by the preceding @alias;
			// one without an alias is ignored.
			continue

		case strings.HasPrefix(text, directiveMarker):
			rest := strings.TrimSpace(strings.TrimPrefix(text, directiveMarker))
			tag, remainder, _ := strings.Cut(rest, " ")
			remainder = strings.TrimSpace(remainder)

			d, consumed, err := parseTag(Kind(tag), remainder, line.Number, lines[i+1:])
			if err != nil {
				return nil, err
			}
			i += consumed
			if d != nil {
				out = append(out, *d)
			}

		case strings.HasPrefix(text, commentMarker):
			body := strings.TrimSpace(strings.TrimPrefix(text, commentMarker))
			out = append(out, Directive{
				Kind:        KindComment,
				Line:        line.Number,
				Description: body,
			})
		}
	}
	return out, nil
}

// parseTag parses one directive line. following holds the lines after it,
// for the alias variant lookahead; consumed reports how many of them were
// folded into this directive. Unrecognized tags yield a nil directive.
func parseTag(tag Kind, remainder string, lineNo int, following []Line) (*Directive, int, error) {
	switch tag {
	case KindClass:
		m := classClauseRe.FindStringSubmatch(remainder)
		if m == nil {
			return nil, 0, &MalformedDirectiveError{
				Line: lineNo, Text: remainder,
				Reason: "@class must match Name<G,...>? : Supertype?",
			}
		}
		d := &Directive{Kind: KindClass, Line: lineNo, Name: m[1], Extends: m[3]}
		if m[2] != "" {
			for _, g := range strings.Split(m[2], ",") {
				d.Generics = append(d.Generics, strings.TrimSpace(g))
			}
		}
		return d, 0, nil

	case KindField, KindParam:
		name, rest, _ := strings.Cut(remainder, " ")
		if name == "" || rest == "" {
			return nil, 0, &MalformedDirectiveError{
				Line: lineNo, Text: remainder,
				Reason: "@" + string(tag) + " requires a name and a type",
			}
		}
		optional := false
		if name != "..." && strings.HasSuffix(name, "?") {
			optional = true
			name = strings.TrimSuffix(name, "?")
		}
		typeText, desc := typeexpr.CutDescription(rest)
		typ, used, err := typeexpr.Parse(typeText, lineNo)
		if err != nil {
			return nil, 0, &MalformedDirectiveError{
				Line: lineNo, Text: remainder,
				Reason: "invalid type expression", Err: err,
			}
		}
		if optional {
			typ = ir.Opt(typ)
		}
		return &Directive{
			Kind: tag, Line: lineNo, Name: name,
			Type: typ, UsedNames: used, Description: desc,
		}, 0, nil

	case KindReturn:
		typeText, desc := typeexpr.CutDescription(remainder)
		typ, used, err := typeexpr.Parse(typeText, lineNo)
		if err != nil {
			return nil, 0, &MalformedDirectiveError{
				Line: lineNo, Text: remainder,
				Reason: "invalid type expression", Err: err,
			}
		}
		return &Directive{
			Kind: KindReturn, Line: lineNo,
			Type: typ, UsedNames: used, Description: desc,
		}, 0, nil

	case KindAlias:
		return parseAlias(remainder, lineNo, following)

	case KindEnum:
		if !nameRe.MatchString(remainder) {
			return nil, 0, &MalformedDirectiveError{
				Line: lineNo, Text: remainder,
				Reason: "@enum requires a name",
			}
		}
		return &Directive{Kind: KindEnum, Line: lineNo, Name: remainder}, 0, nil

	case KindGeneric:
		name, _, _ := strings.Cut(remainder, ":")
		name = strings.TrimSpace(name)
		if !nameRe.MatchString(name) {
			return nil, 0, &MalformedDirectiveError{
				Line: lineNo, Text: remainder,
				Reason: "@generic requires a type parameter name",
			}
		}
		return &Directive{Kind: KindGeneric, Line: lineNo, Name: name}, 0, nil

	case KindMeta:
		return &Directive{Kind: KindMeta, Line: lineNo, Description: remainder}, 0, nil

	default:
		// Unknown tags are not an error; the dialect is open-ended.
		return nil, 0, nil
	}
}

// parseAlias handles the single-line `@alias Name type` form and the
// multi-line variant-list form where contiguous `---|` lines build a union.
func parseAlias(remainder string, lineNo int, following []Line) (*Directive, int, error) {
	name, rest, _ := strings.Cut(remainder, " ")
	if !nameRe.MatchString(name) {
		return nil, 0, &MalformedDirectiveError{
			Line: lineNo, Text: remainder,
			Reason: "@alias requires a name",
		}
	}
	rest = strings.TrimSpace(rest)

	if rest != "" {
		typ, used, err := typeexpr.Parse(rest, lineNo)
		if err != nil {
			return nil, 0, &MalformedDirectiveError{
				Line: lineNo, Text: remainder,
				Reason: "invalid type expression", Err: err,
			}
		}
		return &Directive{
			Kind: KindAlias, Line: lineNo, Name: name,
			Type: typ, UsedNames: used,
		}, 0, nil
	}

	// Variant-list form: consume strictly contiguous ---| lines.
	var options []ir.TypeDescriptor
	var used []string
	consumed := 0
	prev := lineNo
	for _, next := range following {
		text := strings.TrimSpace(next.Text)
		if next.Number != prev+1 || !strings.HasPrefix(text, variantMarker) {
			break
		}
		value := strings.TrimSpace(strings.TrimPrefix(text, variantMarker))
		// A variant may carry a trailing description after the value.
		value, _ = typeexpr.CutDescription(value)
		options = append(options, variantType(value))
		if free := freeVariantName(value); free != "" {
			used = appendUnique(used, free)
		}
		consumed++
		prev = next.Number
	}
	if len(options) == 0 {
		return nil, 0, &MalformedDirectiveError{
			Line: lineNo, Text: remainder,
			Reason: "@alias requires a type or a variant list",
		}
	}
	typ := options[0]
	if len(options) > 1 {
		typ = ir.Union(options...)
	}
	return &Directive{
		Kind: KindAlias, Line: lineNo, Name: name,
		Type: typ, UsedNames: used,
	}, consumed, nil
}

// variantType converts one ---| value into a descriptor. Quoted values
// become string literal types; anything else is carried as a simple name
// (numeric literals render verbatim).
func variantType(value string) ir.TypeDescriptor {
	if len(value) >= 2 && value[0] == '\'' && value[len(value)-1] == '\'' {
		inner := value[1 : len(value)-1]
		// A single-quoted variant may already carry double quotes,
		// as in ---| '"r"'. Keep the inner literal as is.
		if len(inner) >= 2 && inner[0] == '"' && inner[len(inner)-1] == '"' {
			return ir.Simple(inner)
		}
		return ir.Simple(`"` + inner + `"`)
	}
	return ir.Simple(value)
}

// freeVariantName returns the variant value when it is a bare type name
// rather than a literal.
func freeVariantName(value string) string {
	if value == "" {
		return ""
	}
	if c := value[0]; c == '"' || c == '\'' || c == '-' || c >= '0' && c <= '9' {
		return ""
	}
	if nameRe.MatchString(value) && !isBuiltinVariant(value) {
		return value
	}
	return ""
}

func isBuiltinVariant(value string) bool {
	switch value {
	case "number", "string", "boolean", "null", "nil", "any", "unknown", "integer", "true", "false":
		return true
	}
	return false
}

func appendUnique(set []string, name string) []string {
	for _, have := range set {
		if have == name {
			return set
		}
	}
	return append(set, name)
}
