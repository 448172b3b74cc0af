package typescript

import (
	"testing"

	"github.com/luadts/luadts/luagen/typeexpr"
)

// TestRenderParsedExpressions feeds annotation type expressions through the
// parser and renders the result, checking the output is the expression's
// TypeScript form under primitive-name canonicalization.
func TestRenderParsedExpressions(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"string", "string"},
		{"integer", "number"},
		{"nil", "null"},
		{"bool", "boolean"},
		{"userdata", "unknown"},
		{"A|B", "A | B"},
		{"string|nil", "string | null"},
		{"Config?", "Config | null"},
		{"number[]", "number[]"},
		{"(string|nil)[]", "(string | null)[]"},
		{"table", "Record<string, any>"},
		{"table<string, Entity>", "Record<string, Entity>"},
		{"{[number]: string}", "{ [key: number]: string }"},
		{"{}", "Record<string, unknown>"},
		{"fun(a: string, b: number): boolean", "(a: string, b: number) => boolean"},
		{"fun(x)", "(x: any) => void"},
		{"fun(...): nil", "(...args: any[]) => null"},
		{"string, number", "[string, number]"},
		{"Promise<table<string, integer>>", "Promise<Record<string, number>>"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			node, _, err := typeexpr.Parse(tt.in, 1)
			if err != nil {
				t.Fatalf("Parse(%q): %v", tt.in, err)
			}
			if got := RenderType(node); got != tt.want {
				t.Errorf("RenderType(Parse(%q)) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
