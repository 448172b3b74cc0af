package typeexpr

import (
	"errors"
	"reflect"
	"testing"

	"github.com/luadts/luadts/luagen/ir"
)

func TestParse(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		want     ir.TypeDescriptor
		wantUsed []string
	}{
		{
			name: "simple builtin",
			text: "string",
			want: ir.Simple("string"),
		},
		{
			name: "integer canonicalizes to number",
			text: "integer",
			want: ir.Simple("number"),
		},
		{
			name: "nil canonicalizes to null",
			text: "nil",
			want: ir.Simple("null"),
		},
		{
			name: "userdata canonicalizes to unknown",
			text: "userdata",
			want: ir.Simple("unknown"),
		},
		{
			name:     "user type is a free reference",
			text:     "Vector3",
			want:     ir.Simple("Vector3"),
			wantUsed: []string{"Vector3"},
		},
		{
			name: "union of primitives",
			text: "string|number",
			want: ir.Union(ir.Simple("string"), ir.Simple("number")),
		},
		{
			name:     "union with user types collects each once",
			text:     "Foo|Bar|Foo",
			want:     ir.Union(ir.Simple("Foo"), ir.Simple("Bar"), ir.Simple("Foo")),
			wantUsed: []string{"Foo", "Bar"},
		},
		{
			name: "trailing question mark wraps in optional",
			text: "string?",
			want: ir.Opt(ir.Simple("string")),
		},
		{
			name:     "optional of user type",
			text:     "Config?",
			want:     ir.Opt(ir.Simple("Config")),
			wantUsed: []string{"Config"},
		},
		{
			name:     "array suffix",
			text:     "Entity[]",
			want:     ir.Array(ir.Simple("Entity")),
			wantUsed: []string{"Entity"},
		},
		{
			name: "nested array",
			text: "number[][]",
			want: ir.Array(ir.Array(ir.Simple("number"))),
		},
		{
			name: "top level comma is a tuple",
			text: "string, number",
			want: ir.Tuple(ir.Simple("string"), ir.Simple("number")),
		},
		{
			name: "bare table is a string record",
			text: "table",
			want: ir.Generic("Record", ir.Simple("string"), ir.Simple("any")),
		},
		{
			name: "parameterized table is a record",
			text: "table<string, number>",
			want: ir.Generic("Record", ir.Simple("string"), ir.Simple("number")),
		},
		{
			name:     "named generic",
			text:     "Promise<Result>",
			want:     ir.Generic("Promise", ir.Simple("Result")),
			wantUsed: []string{"Promise", "Result"},
		},
		{
			name: "empty table shape",
			text: "{}",
			want: ir.Table(),
		},
		{
			name: "table shape with index signature",
			text: "{[number]: string}",
			want: ir.Table(ir.TableEntry{Key: ir.Simple("number"), Value: ir.Simple("string")}),
		},
		{
			name:     "table value is a free reference",
			text:     "{[number]: T}",
			want:     ir.Table(ir.TableEntry{Key: ir.Simple("number"), Value: ir.Simple("T")}),
			wantUsed: []string{"T"},
		},
		{
			name: "function with typed params and return",
			text: "fun(a: string, b: number): boolean",
			want: ir.Fn([]ir.ParamDescriptor{
				{Name: "a", Type: ir.Simple("string")},
				{Name: "b", Type: ir.Simple("number")},
			}, ir.Simple("boolean")),
		},
		{
			name: "function without return defaults to void",
			text: "fun(x: string)",
			want: ir.Fn([]ir.ParamDescriptor{
				{Name: "x", Type: ir.Simple("string")},
			}, ir.Simple("void")),
		},
		{
			name: "function with untyped param",
			text: "fun(x): number",
			want: ir.Fn([]ir.ParamDescriptor{
				{Name: "x", Type: ir.Simple("any")},
			}, ir.Simple("number")),
		},
		{
			name: "function with variadic",
			text: "fun(...): void",
			want: ir.Fn([]ir.ParamDescriptor{
				{Name: "args", Type: ir.Simple("any"), Variadic: true},
			}, ir.Simple("void")),
		},
		{
			name: "union arm containing function",
			text: "fun(): void|nil",
			// The union binds looser than the return annotation, so the
			// whole expression is a union of a function and null.
			want: ir.Union(
				ir.Fn(nil, ir.Simple("void")),
				ir.Simple("null"),
			),
		},
		{
			name:     "generic inside array inside union",
			text:     "table<string, Entity>[]|nil",
			want:     ir.Union(ir.Array(ir.Generic("Record", ir.Simple("string"), ir.Simple("Entity"))), ir.Simple("null")),
			wantUsed: []string{"Entity"},
		},
		{
			name: "string literal type",
			text: `"on"|"off"`,
			want: ir.Union(ir.Simple(`"on"`), ir.Simple(`"off"`)),
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, used, err := Parse(tt.text, 1)
			if err != nil {
				t.Fatalf("Parse(%q) error: %v", tt.text, err)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Parse(%q) = %#v, want %#v", tt.text, got, tt.want)
			}
			if !reflect.DeepEqual(used, tt.wantUsed) {
				t.Errorf("Parse(%q) used = %v, want %v", tt.text, used, tt.wantUsed)
			}
		})
	}
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"empty", ""},
		{"blank", "   "},
		{"unterminated generic", "table<string"},
		{"unterminated function params", "fun(a: string"},
		{"table entry without bracketed key", "{name: string}"},
		{"table entry without value", "{[number]}"},
		{"empty generic arguments", "Promise<>"},
		{"text after parameter list", "fun() number"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := Parse(tt.text, 7)
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.text)
			}
			var malformed *MalformedTypeError
			if !errors.As(err, &malformed) {
				t.Fatalf("Parse(%q) error = %T, want *MalformedTypeError", tt.text, err)
			}
			if malformed.Line != 7 {
				t.Errorf("error line = %d, want 7", malformed.Line)
			}
		})
	}
}

func TestSplitTop(t *testing.T) {
	tests := []struct {
		text string
		sep  byte
		want []string
	}{
		{"a|b|c", '|', []string{"a", "b", "c"}},
		{"table<a, b>|nil", '|', []string{"table<a, b>", "nil"}},
		{"fun(a, b), number", ',', []string{"fun(a, b)", " number"}},
		{"{[string]: a|b}", '|', []string{"{[string]: a|b}"}},
		{"plain", '|', []string{"plain"}},
	}
	for _, tt := range tests {
		got := SplitTop(tt.text, tt.sep)
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitTop(%q, %q) = %q, want %q", tt.text, tt.sep, got, tt.want)
		}
	}
}

func TestCutDescription(t *testing.T) {
	tests := []struct {
		text     string
		wantExpr string
		wantDesc string
	}{
		{"string the player name", "string", "the player name"},
		{"table<string, number> score map", "table<string, number>", "score map"},
		{"fun(a: string, b: number): boolean callback", "fun(a: string, b: number): boolean", "callback"},
		{"number", "number", ""},
	}
	for _, tt := range tests {
		expr, desc := CutDescription(tt.text)
		if expr != tt.wantExpr || desc != tt.wantDesc {
			t.Errorf("CutDescription(%q) = (%q, %q), want (%q, %q)", tt.text, expr, desc, tt.wantExpr, tt.wantDesc)
		}
	}
}
