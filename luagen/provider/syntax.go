package provider

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/luadts/luadts/luagen/annotation"
)

// StatementKind classifies a top-level structural statement.
type StatementKind int

const (
	StmtAssign   StatementKind = iota // target = value (local or global)
	StmtFunction                      // function definition
	StmtReturn                        // return statement
	StmtOther                         // anything the synthesizer ignores
)

// TableField is one `key = value` entry of a table constructor literal.
type TableField struct {
	Key string

	// Value is the literal text with string quotes stripped.
	Value string

	// Quoted is true when the value was a string literal.
	Quoted bool

	// Numeric is true when the value parses as a number (a unary minus
	// prefix is preserved in Value).
	Numeric bool
}

// Statement is the normalized view of one top-level Lua statement. The
// synthesizer consumes these instead of raw syntax nodes, so everything
// downstream of extraction is independent of the structural parser.
type Statement struct {
	Kind      StatementKind
	StartLine int
	EndLine   int

	// Text is the raw statement text, for diagnostics.
	Text string

	// Target is the assignment target with any `local` keyword stripped.
	Target string

	// IsTable is true when the assigned value is a table constructor.
	IsTable bool

	// TableFields holds the literal's key/value entries, in source order.
	TableFields []TableField

	// Name is the qualified function name (Owner:method, Owner.method,
	// or a bare name) for function statements.
	Name string

	// Params are the structural parameter names, "..." included.
	Params []string

	// ReturnName is the bare name argument of a return statement, empty
	// when the return expression is anything else.
	ReturnName string
}

// extract walks a parsed syntax tree and produces normalized statements
// plus the raw comment lines, both ordered by source line. Node types the
// extractor does not recognize are classified StmtOther and otherwise
// ignored, so grammar revisions cannot break it.
func extract(root *sitter.Node, source []byte) ([]Statement, []annotation.Line) {
	var comments []annotation.Line
	collectComments(root, source, &comments)

	var stmts []Statement
	for i := 0; i < int(root.NamedChildCount()); i++ {
		n := root.NamedChild(i)
		if n.Type() == "comment" {
			continue
		}
		stmts = append(stmts, classify(n, source))
	}
	return stmts, comments
}

// collectComments gathers single-line comment nodes from the whole tree.
// Block comments are not directive material and are dropped.
func collectComments(n *sitter.Node, source []byte, out *[]annotation.Line) {
	if n.Type() == "comment" {
		if n.StartPoint().Row == n.EndPoint().Row {
			*out = append(*out, annotation.Line{
				Number: int(n.StartPoint().Row) + 1,
				Text:   n.Content(source),
			})
		}
		return
	}
	for i := 0; i < int(n.NamedChildCount()); i++ {
		collectComments(n.NamedChild(i), source, out)
	}
}

// classify normalizes one statement node. Classification is driven by the
// statement text rather than grammar node names: the tree supplies spans
// and ordering, the text supplies the shape.
func classify(n *sitter.Node, source []byte) Statement {
	text := n.Content(source)
	stmt := Statement{
		Kind:      StmtOther,
		StartLine: int(n.StartPoint().Row) + 1,
		EndLine:   int(n.EndPoint().Row) + 1,
		Text:      text,
	}

	trimmed := strings.TrimSpace(text)
	switch {
	case strings.HasPrefix(trimmed, "local function ") || strings.HasPrefix(trimmed, "function "):
		classifyFunction(&stmt, trimmed)
	case strings.HasPrefix(trimmed, "return"):
		classifyReturn(&stmt, trimmed)
	default:
		classifyAssign(&stmt, trimmed)
	}
	return stmt
}

func classifyFunction(stmt *Statement, text string) {
	text = strings.TrimPrefix(text, "local ")
	text = strings.TrimPrefix(text, "function")
	open := strings.IndexByte(text, '(')
	if open < 0 {
		return
	}
	name := strings.TrimSpace(text[:open])
	if name == "" || !isLuaName(name) {
		return
	}
	close := matchingParen(text, open)
	if close < 0 {
		return
	}
	stmt.Kind = StmtFunction
	stmt.Name = name
	inner := strings.TrimSpace(text[open+1 : close])
	if inner != "" {
		for _, p := range strings.Split(inner, ",") {
			stmt.Params = append(stmt.Params, strings.TrimSpace(p))
		}
	}
}

func classifyReturn(stmt *Statement, text string) {
	rest := strings.TrimSpace(strings.TrimPrefix(text, "return"))
	stmt.Kind = StmtReturn
	if isBareIdent(rest) {
		stmt.ReturnName = rest
	}
}

func classifyAssign(stmt *Statement, text string) {
	eq := indexTop(text, '=')
	if eq <= 0 {
		return
	}
	target := strings.TrimSpace(text[:eq])
	target = strings.TrimSpace(strings.TrimPrefix(target, "local "))
	if !isLuaName(target) {
		return
	}
	value := strings.TrimSpace(text[eq+1:])
	stmt.Kind = StmtAssign
	stmt.Target = target
	if strings.HasPrefix(value, "{") {
		stmt.IsTable = true
		stmt.TableFields = parseTableFields(value)
	}
}

// parseTableFields extracts `key = value` entries from a table constructor.
// Array-part entries (no key) and nested constructors are skipped.
func parseTableFields(text string) []TableField {
	close := matchingBrace(text, 0)
	if close < 0 {
		close = len(text)
	}
	inner := text[1:close]

	var fields []TableField
	for _, raw := range splitTableEntries(inner) {
		entry := strings.TrimSpace(raw)
		if entry == "" {
			continue
		}
		eq := indexTop(entry, '=')
		if eq <= 0 {
			continue
		}
		key := strings.TrimSpace(entry[:eq])
		key = strings.TrimPrefix(key, "[")
		key = strings.TrimSuffix(key, "]")
		key = trimQuotes(strings.TrimSpace(key))
		if key == "" || key[0] >= '0' && key[0] <= '9' {
			// Array-part index, not a member name.
			continue
		}

		value := strings.TrimSpace(entry[eq+1:])
		field := TableField{Key: key}
		switch {
		case isQuoted(value):
			field.Value = trimQuotes(value)
			field.Quoted = true
		case isNumeric(value):
			field.Value = value
			field.Numeric = true
		default:
			// Non-literal values are carried as their source text.
			field.Value = value
		}
		fields = append(fields, field)
	}
	return fields
}

// splitTableEntries splits a constructor body on top-level `,` and `;`.
func splitTableEntries(s string) []string {
	var parts []string
	depth := 0
	inString := byte(0)
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		if inString != 0 {
			if c == inString && (i == 0 || s[i-1] != '\\') {
				inString = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			inString = c
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		case ',', ';':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// indexTop returns the index of the first c at depth zero outside string
// literals, or -1.
func indexTop(s string, c byte) int {
	depth := 0
	inString := byte(0)
	for i := 0; i < len(s); i++ {
		b := s[i]
		if inString != 0 {
			if b == inString && s[i-1] != '\\' {
				inString = 0
			}
			continue
		}
		switch b {
		case '"', '\'':
			inString = b
		case '{', '(', '[':
			depth++
		case '}', ')', ']':
			depth--
		default:
			if b == c && depth == 0 {
				return i
			}
		}
	}
	return -1
}

func matchingParen(s string, open int) int {
	depth := 0
	for i := open; i < len(s); i++ {
		switch s[i] {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func matchingBrace(s string, open int) int {
	depth := 0
	inString := byte(0)
	for i := open; i < len(s); i++ {
		c := s[i]
		if inString != 0 {
			if c == inString && s[i-1] != '\\' {
				inString = 0
			}
			continue
		}
		switch c {
		case '"', '\'':
			inString = c
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i
			}
		}
	}
	return -1
}

func isBareIdent(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
			i > 0 && c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

// isLuaName accepts identifiers possibly qualified with `.` or `:`.
func isLuaName(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c == '_' || c == '.' || c == ':' ||
			c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' ||
			i > 0 && c >= '0' && c <= '9') {
			return false
		}
	}
	return true
}

func isQuoted(s string) bool {
	return len(s) >= 2 &&
		(s[0] == '"' && s[len(s)-1] == '"' || s[0] == '\'' && s[len(s)-1] == '\'')
}

func trimQuotes(s string) string {
	if isQuoted(s) {
		return s[1 : len(s)-1]
	}
	return s
}

func isNumeric(s string) bool {
	if s == "" {
		return false
	}
	i := 0
	if s[0] == '-' {
		i = 1
		if len(s) == 1 {
			return false
		}
	}
	dot := false
	for ; i < len(s); i++ {
		c := s[i]
		if c == '.' && !dot {
			dot = true
			continue
		}
		if c == 'x' || c == 'X' {
			// Hex literals pass through verbatim.
			continue
		}
		if !(c >= '0' && c <= '9' || c >= 'a' && c <= 'f' || c >= 'A' && c <= 'F') {
			return false
		}
	}
	return true
}
