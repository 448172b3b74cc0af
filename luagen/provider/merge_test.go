package provider

import (
	"reflect"
	"testing"

	"github.com/luadts/luadts/luagen/ir"
)

func TestMergeOverloadsArity(t *testing.T) {
	// f(a) followed by f(a, b): the extra parameter becomes optional.
	existing := &ir.FunctionDecl{
		Name:   "f",
		Static: true,
		Params: []ir.Param{{Name: "a", Type: ir.Simple("string")}},
		Return: ir.Simple("number"),
	}
	incoming := &ir.FunctionDecl{
		Name:   "f",
		Static: true,
		Params: []ir.Param{
			{Name: "a", Type: ir.Simple("string")},
			{Name: "b", Type: ir.Simple("boolean")},
		},
	}

	merged := MergeOverloads(existing, incoming)
	if len(merged.Params) != 2 {
		t.Fatalf("merged params = %d, want 2", len(merged.Params))
	}
	if merged.Params[0].Name != "a" || !reflect.DeepEqual(merged.Params[0].Type, ir.Simple("string")) {
		t.Errorf("param 0 = %+v, want unchanged a: string", merged.Params[0])
	}
	if merged.Params[1].Name != "b?" {
		t.Errorf("param 1 name = %q, want b? (optional by naming convention)", merged.Params[1].Name)
	}
	if !reflect.DeepEqual(merged.Return, ir.Simple("number")) {
		t.Errorf("merged return = %#v, want the first definition's", merged.Return)
	}
}

func TestMergeOverloadsRepeatedArity(t *testing.T) {
	// f(a), f(a, b, c), then f(a, b): b and c go optional in the first
	// merge and must not pick up another suffix, or an _or_ join against
	// their own unmarked name, in the second.
	one := &ir.FunctionDecl{
		Name:   "f",
		Params: []ir.Param{{Name: "a", Type: ir.Simple("string")}},
	}
	two := &ir.FunctionDecl{
		Name: "f",
		Params: []ir.Param{
			{Name: "a", Type: ir.Simple("string")},
			{Name: "b", Type: ir.Simple("number")},
			{Name: "c", Type: ir.Simple("boolean")},
		},
	}
	three := &ir.FunctionDecl{
		Name: "f",
		Params: []ir.Param{
			{Name: "a", Type: ir.Simple("string")},
			{Name: "b", Type: ir.Simple("number")},
		},
	}

	merged := MergeOverloads(MergeOverloads(one, two), three)
	if len(merged.Params) != 3 {
		t.Fatalf("merged params = %d, want 3", len(merged.Params))
	}
	if merged.Params[1].Name != "b?" {
		t.Errorf("param 1 name = %q, want b?", merged.Params[1].Name)
	}
	if merged.Params[2].Name != "c?" {
		t.Errorf("param 2 name = %q, want c?", merged.Params[2].Name)
	}
}

func TestMergeOverloadsTypeConflict(t *testing.T) {
	existing := &ir.FunctionDecl{
		Name:   "get",
		Params: []ir.Param{{Name: "key", Type: ir.Simple("string")}},
	}
	incoming := &ir.FunctionDecl{
		Name:   "get",
		Params: []ir.Param{{Name: "index", Type: ir.Simple("number")}},
	}

	merged := MergeOverloads(existing, incoming)
	if merged.Params[0].Name != "key_or_index" {
		t.Errorf("merged name = %q, want key_or_index", merged.Params[0].Name)
	}
	want := ir.Union(ir.Simple("string"), ir.Simple("number"))
	if !reflect.DeepEqual(merged.Params[0].Type, want) {
		t.Errorf("merged type = %#v, want string|number union", merged.Params[0].Type)
	}
}

func TestMergeOverloadsGenericsAndReturn(t *testing.T) {
	existing := &ir.FunctionDecl{Name: "map", Generics: []string{"T"}}
	incoming := &ir.FunctionDecl{
		Name:     "map",
		Generics: []string{"T", "U"},
		Return:   ir.Simple("number"),
	}

	merged := MergeOverloads(existing, incoming)
	if !reflect.DeepEqual(merged.Generics, []string{"T", "U"}) {
		t.Errorf("generics = %v, want [T U]", merged.Generics)
	}
	// The first definition had no return, so the later one fills it in.
	if !reflect.DeepEqual(merged.Return, ir.Simple("number")) {
		t.Errorf("return = %#v, want number", merged.Return)
	}
}
