package cache

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestSkipUnchanged(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	src := []byte("---@class Foo\nlocal Foo = {}\n")

	c := Load(path, "1.0")
	if c.ShouldSkip("foo.lua", src) {
		t.Error("empty cache must not skip anything")
	}
	c.Record("foo.lua", src, []string{"Foo"}, nil, nil, "")
	if !c.ShouldSkip("foo.lua", src) {
		t.Error("recorded file with unchanged content must skip")
	}
	if err := c.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded := Load(path, "1.0")
	if !reloaded.ShouldSkip("foo.lua", src) {
		t.Error("skip decision must survive a reload")
	}
}

func TestOneCharacterChangeInvalidates(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "cache.json"), "1.0")
	src := []byte("---@class Foo\nlocal Foo = {}\n")
	c.Record("foo.lua", src, []string{"Foo"}, nil, nil, "")

	changed := []byte("---@class Fop\nlocal Foo = {}\n")
	if c.ShouldSkip("foo.lua", changed) {
		t.Error("changed content must not skip")
	}
}

func TestVersionSaltInvalidates(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	src := []byte("x")

	c := Load(path, "1.0")
	c.Record("foo.lua", src, nil, nil, nil, "")
	if err := c.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	upgraded := Load(path, "2.0")
	if upgraded.ShouldSkip("foo.lua", src) {
		t.Error("a tool upgrade must invalidate every entry")
	}
}

func TestCorruptCacheLoadsEmpty(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatal(err)
	}
	c := Load(path, "1.0")
	if c.ShouldSkip("foo.lua", []byte("x")) {
		t.Error("corrupt cache must behave as empty")
	}
}

func TestSymbolSetsRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "cache.json")
	c := Load(path, "1.0")
	c.Record("player.lua", []byte("a"), []string{"Player", "PlayerState"}, []string{"Entity"}, []string{"userdata"}, "out")
	if err := c.Save(); err != nil {
		t.Fatalf("Save: %v", err)
	}

	reloaded := Load(path, "1.0")
	exports, imports, missing := reloaded.Sets("player.lua")
	if !reflect.DeepEqual(exports, []string{"Player", "PlayerState"}) {
		t.Errorf("exports = %v", exports)
	}
	if !reflect.DeepEqual(imports, []string{"Entity"}) {
		t.Errorf("imports = %v", imports)
	}
	if !reflect.DeepEqual(missing, []string{"userdata"}) {
		t.Errorf("missing = %v", missing)
	}
}

func TestOwnerOfIsDeterministic(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "cache.json"), "1.0")
	// Two files claim the same name; sorted path order decides.
	c.Record("b.lua", []byte("b"), []string{"Thing"}, nil, nil, "")
	c.Record("a.lua", []byte("a"), []string{"Thing"}, nil, nil, "")

	owner, ok := c.OwnerOf("Thing")
	if !ok || owner != "a.lua" {
		t.Errorf("owner = %q, %v, want a.lua", owner, ok)
	}
	if _, ok := c.OwnerOf("Missing"); ok {
		t.Error("unknown name must not resolve")
	}
}

func TestForget(t *testing.T) {
	c := Load(filepath.Join(t.TempDir(), "cache.json"), "1.0")
	src := []byte("x")
	c.Record("foo.lua", src, nil, nil, nil, "")
	c.Forget("foo.lua")
	if c.ShouldSkip("foo.lua", src) {
		t.Error("forgotten entry must not skip")
	}
}
