package sink

import (
	"context"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestFilesystemSinkWritesNestedPaths(t *testing.T) {
	dir := t.TempDir()
	s := NewFilesystemSink(dir)

	if err := s.WriteFile(context.Background(), "sub/dir/a.d.ts", []byte("export {};\n")); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	got, err := os.ReadFile(filepath.Join(dir, "sub", "dir", "a.d.ts"))
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(got) != "export {};\n" {
		t.Errorf("content = %q", got)
	}

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Join(dir, "sub", "dir"))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("leftover files: %v", entries)
	}
}

func TestFilesystemSinkOverwrites(t *testing.T) {
	dir := t.TempDir()
	s := NewFilesystemSink(dir)
	ctx := context.Background()

	if err := s.WriteFile(ctx, "a.d.ts", []byte("old")); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteFile(ctx, "a.d.ts", []byte("new")); err != nil {
		t.Fatal(err)
	}
	got, _ := os.ReadFile(filepath.Join(dir, "a.d.ts"))
	if string(got) != "new" {
		t.Errorf("content = %q", got)
	}
}

func TestFilesystemSinkRejectsEscapingPaths(t *testing.T) {
	s := NewFilesystemSink(t.TempDir())
	for _, p := range []string{"../evil.d.ts", "/abs.d.ts", ""} {
		if err := s.WriteFile(context.Background(), p, []byte("x")); err == nil {
			t.Errorf("WriteFile(%q) succeeded, want error", p)
		}
	}
}

func TestFilesystemSinkCancelled(t *testing.T) {
	s := NewFilesystemSink(t.TempDir())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if err := s.WriteFile(ctx, "a.d.ts", []byte("x")); err == nil {
		t.Error("cancelled context must fail the write")
	}
}

func TestMemorySink(t *testing.T) {
	s := NewMemorySink()
	ctx := context.Background()

	if err := s.WriteFile(ctx, "b.d.ts", []byte("bee")); err != nil {
		t.Fatal(err)
	}
	if err := s.WriteFile(ctx, "a.d.ts", []byte("ay")); err != nil {
		t.Fatal(err)
	}

	if got := s.Get("b.d.ts"); string(got) != "bee" {
		t.Errorf("Get = %q", got)
	}
	if got := s.Get("missing"); got != nil {
		t.Errorf("Get(missing) = %q, want nil", got)
	}
	if got := s.Paths(); !reflect.DeepEqual(got, []string{"a.d.ts", "b.d.ts"}) {
		t.Errorf("Paths = %v, want sorted", got)
	}
}
