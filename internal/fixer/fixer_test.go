package fixer

import "testing"

func TestApply(t *testing.T) {
	set := New([]Rule{
		{Name: "strip-macro", File: "gen.lua", Find: "@@VERSION@@", Replace: "1.0"},
		{Name: "everywhere", File: "*", Find: "GLOBAL", Replace: "LOCAL"},
		{Name: "unscoped", Find: "aaa", Replace: "bbb"},
	})

	got := set.Apply("src/gen.lua", []byte("v = '@@VERSION@@' -- GLOBAL aaa"))
	if string(got) != "v = '1.0' -- LOCAL bbb" {
		t.Errorf("Apply = %q", got)
	}

	// The file-scoped rule only fires on its file; the others always do.
	got = set.Apply("src/other.lua", []byte("@@VERSION@@ GLOBAL aaa"))
	if string(got) != "@@VERSION@@ LOCAL bbb" {
		t.Errorf("Apply = %q", got)
	}
}

func TestApplyOrder(t *testing.T) {
	// Rules chain in declaration order.
	set := New([]Rule{
		{Name: "first", Find: "a", Replace: "b"},
		{Name: "second", Find: "b", Replace: "c"},
	})
	if got := set.Apply("x.lua", []byte("a")); string(got) != "c" {
		t.Errorf("Apply = %q", got)
	}
}

func TestApplyEmptySet(t *testing.T) {
	set := New(nil)
	src := []byte("unchanged")
	if got := set.Apply("x.lua", src); string(got) != "unchanged" {
		t.Errorf("Apply = %q", got)
	}
}
