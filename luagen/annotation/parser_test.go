package annotation

import (
	"errors"
	"reflect"
	"testing"

	"github.com/luadts/luadts/luagen/ir"
)

func mkLines(start int, texts ...string) []Line {
	lines := make([]Line, len(texts))
	for i, t := range texts {
		lines[i] = Line{Number: start + i, Text: t}
	}
	return lines
}

func TestParseClass(t *testing.T) {
	tests := []struct {
		name string
		text string
		want Directive
	}{
		{
			name: "plain class",
			text: "---@class Player",
			want: Directive{Kind: KindClass, Line: 1, Name: "Player"},
		},
		{
			name: "class with supertype",
			text: "---@class Player : Entity",
			want: Directive{Kind: KindClass, Line: 1, Name: "Player", Extends: "Entity"},
		},
		{
			name: "class with generics",
			text: "---@class Stack<T>",
			want: Directive{Kind: KindClass, Line: 1, Name: "Stack", Generics: []string{"T"}},
		},
		{
			name: "class with generics and supertype",
			text: "---@class Map<K, V> : Container",
			want: Directive{Kind: KindClass, Line: 1, Name: "Map", Generics: []string{"K", "V"}, Extends: "Container"},
		},
		{
			name: "dotted class name",
			text: "---@class ui.Button",
			want: Directive{Kind: KindClass, Line: 1, Name: "ui.Button"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Parse(mkLines(1, tt.text))
			if err != nil {
				t.Fatalf("Parse error: %v", err)
			}
			if len(got) != 1 || !reflect.DeepEqual(got[0], tt.want) {
				t.Errorf("Parse = %+v, want [%+v]", got, tt.want)
			}
		})
	}
}

func TestParseFieldAndParam(t *testing.T) {
	got, err := Parse(mkLines(10,
		"---@field health integer current health",
		"---@field name? string",
		"---@param target Entity the thing to hit",
		"---@param ... any",
	))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("got %d directives, want 4", len(got))
	}

	if got[0].Name != "health" || got[0].Description != "current health" {
		t.Errorf("field = %+v", got[0])
	}
	if !reflect.DeepEqual(got[0].Type, ir.Simple("number")) {
		t.Errorf("health type = %#v, want number", got[0].Type)
	}

	// A ? on the field name wraps the type in an optional.
	if !reflect.DeepEqual(got[1].Type, ir.Opt(ir.Simple("string"))) {
		t.Errorf("name type = %#v, want string?", got[1].Type)
	}
	if got[1].Name != "name" {
		t.Errorf("optional field keeps the bare name, got %q", got[1].Name)
	}

	if got[2].Kind != KindParam || got[2].Name != "target" {
		t.Errorf("param = %+v", got[2])
	}
	if !reflect.DeepEqual(got[2].UsedNames, []string{"Entity"}) {
		t.Errorf("param used = %v, want [Entity]", got[2].UsedNames)
	}

	if got[3].Name != "..." {
		t.Errorf("variadic param name = %q, want ...", got[3].Name)
	}
}

func TestParseReturn(t *testing.T) {
	got, err := Parse(mkLines(1, "---@return boolean ok whether it worked"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(got) != 1 || got[0].Kind != KindReturn {
		t.Fatalf("got %+v", got)
	}
	if !reflect.DeepEqual(got[0].Type, ir.Simple("boolean")) {
		t.Errorf("return type = %#v", got[0].Type)
	}
	if got[0].Description != "ok whether it worked" {
		t.Errorf("return description = %q", got[0].Description)
	}
}

func TestParseAliasInline(t *testing.T) {
	got, err := Parse(mkLines(1, "---@alias Id string|number"))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(got) != 1 || got[0].Kind != KindAlias || got[0].Name != "Id" {
		t.Fatalf("got %+v", got)
	}
	want := ir.Union(ir.Simple("string"), ir.Simple("number"))
	if !reflect.DeepEqual(got[0].Type, want) {
		t.Errorf("alias type = %#v, want %#v", got[0].Type, want)
	}
}

func TestParseAliasVariants(t *testing.T) {
	got, err := Parse(mkLines(1,
		"---@alias Mode",
		"---| 'fast' prefers speed",
		"---| 'safe'",
		"---| Custom",
	))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d directives, want 1 (variants folded)", len(got))
	}
	want := ir.Union(ir.Simple(`"fast"`), ir.Simple(`"safe"`), ir.Simple("Custom"))
	if !reflect.DeepEqual(got[0].Type, want) {
		t.Errorf("alias type = %#v, want %#v", got[0].Type, want)
	}
	if !reflect.DeepEqual(got[0].UsedNames, []string{"Custom"}) {
		t.Errorf("used = %v, want [Custom]", got[0].UsedNames)
	}
}

func TestParseAliasVariantsQuotedLiteral(t *testing.T) {
	// The '"r"' style wraps a double-quoted literal in single quotes; the
	// inner literal must come through with exactly one pair of quotes.
	got, err := Parse(mkLines(1,
		"---@alias OpenMode",
		`---| '"r"' read mode`,
		`---| '"w"'`,
	))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("got %d directives, want 1", len(got))
	}
	want := ir.Union(ir.Simple(`"r"`), ir.Simple(`"w"`))
	if !reflect.DeepEqual(got[0].Type, want) {
		t.Errorf("alias type = %#v, want %#v", got[0].Type, want)
	}
}

func TestParseAliasVariantsStopAtGap(t *testing.T) {
	// The variant on line 3 is not contiguous with the alias block, so it
	// does not join the union.
	_, err := Parse([]Line{
		{Number: 1, Text: "---@alias Mode"},
		{Number: 3, Text: "---| 'fast'"},
	})
	if err == nil {
		t.Fatal("want error for alias with no contiguous variants")
	}
}

func TestParseMiscDirectives(t *testing.T) {
	got, err := Parse(mkLines(1,
		"---@enum Color",
		"---@generic T : table",
		"---@meta",
		"--- Frobnicates the widget.",
		"---@undocumented-extension whatever",
	))
	if err != nil {
		t.Fatalf("Parse error: %v", err)
	}
	// The unknown tag is skipped, everything else survives.
	if len(got) != 4 {
		t.Fatalf("got %d directives, want 4: %+v", len(got), got)
	}
	if got[0].Kind != KindEnum || got[0].Name != "Color" {
		t.Errorf("enum = %+v", got[0])
	}
	if got[1].Kind != KindGeneric || got[1].Name != "T" {
		t.Errorf("generic = %+v", got[1])
	}
	if got[2].Kind != KindMeta {
		t.Errorf("meta = %+v", got[2])
	}
	if got[3].Kind != KindComment || got[3].Description != "Frobnicates the widget." {
		t.Errorf("comment = %+v", got[3])
	}
}

func TestParseMalformed(t *testing.T) {
	tests := []struct {
		name string
		text string
	}{
		{"class with bad name", "---@class 3Player"},
		{"field without type", "---@field health"},
		{"param with bad type", "---@param x table<string"},
		{"enum without name", "---@enum"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(mkLines(5, tt.text))
			if err == nil {
				t.Fatalf("Parse(%q) succeeded, want error", tt.text)
			}
			var malformed *MalformedDirectiveError
			if !errors.As(err, &malformed) {
				t.Fatalf("error = %T, want *MalformedDirectiveError", err)
			}
			if malformed.Line != 5 {
				t.Errorf("error line = %d, want 5", malformed.Line)
			}
		})
	}
}
