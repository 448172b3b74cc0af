package typeexpr

import "strings"

// bracketDepth tracks nesting over the three bracket classes of the
// annotation grammar: <>, {} and (). The same depth logic backs both the
// type grammar splitter and the directive line's type/description cutter,
// so the two cannot drift apart.
type bracketDepth int

func (d *bracketDepth) step(c byte) {
	switch c {
	case '<', '{', '(':
		*d++
	case '>', '}', ')':
		*d--
	}
}

// SplitTop splits s on sep, considering only separators at bracket depth
// zero. Empty segments are preserved; callers trim.
func SplitTop(s string, sep byte) []string {
	var parts []string
	var depth bracketDepth
	start := 0
	for i := 0; i < len(s); i++ {
		c := s[i]
		depth.step(c)
		if c == sep && depth == 0 {
			parts = append(parts, s[start:i])
			start = i + 1
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// CutDescription splits a directive remainder into its leading type
// expression and the trailing free-text description. The type expression
// ends at the first space at depth zero that does not immediately follow a
// comma or colon (a comma keeps multi-value expressions like "string,
// number" together; a colon keeps function return annotations like
// "fun(): boolean" together). The description may be empty.
func CutDescription(s string) (expr, desc string) {
	s = strings.TrimSpace(s)
	var depth bracketDepth
	lastNonSpace := byte(0)
	for i := 0; i < len(s); i++ {
		c := s[i]
		depth.step(c)
		if c == ' ' && depth == 0 && lastNonSpace != ',' && lastNonSpace != ':' {
			return s[:i], strings.TrimSpace(s[i+1:])
		}
		if c != ' ' {
			lastNonSpace = c
		}
	}
	return s, ""
}

// balancedDepth returns the final bracket depth of s, or -1 if the depth
// ever goes negative (a closer without an opener).
func balancedDepth(s string) int {
	var depth bracketDepth
	for i := 0; i < len(s); i++ {
		depth.step(s[i])
		if depth < 0 {
			return -1
		}
	}
	return int(depth)
}
