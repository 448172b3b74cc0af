package typescript

import (
	"fmt"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/luadts/luadts/luagen/ir"
)

// SymbolIndex answers ownership queries for files that were not rendered
// this run (the incremental cache's persisted symbol graph).
type SymbolIndex interface {
	// OwnerOf returns the input path of the file exporting name.
	OwnerOf(name string) (string, bool)
}

// emptyIndex resolves nothing.
type emptyIndex struct{}

func (emptyIndex) OwnerOf(string) (string, bool) { return "", false }

// fallbackStubs declares well-known external handle-like types that never
// have a defining file. Preferred verbatim over the generic placeholder.
var fallbackStubs = map[string]string{
	"userdata":      "type userdata = unknown;",
	"lightuserdata": "type lightuserdata = unknown;",
	"thread":        "type thread = unknown;",
	"coroutinelib":  "type coroutinelib = Record<string, Function>;",
	"file":          "type file = { close(): void; read(...args: unknown[]): unknown; write(...args: unknown[]): unknown };",
}

// Resolved is one fully linked output file.
type Resolved struct {
	OutPath string
	Content string

	// Imported lists the names pulled in from other files.
	Imported []string

	// Unresolved lists the names stubbed with placeholders.
	Unresolved []string
}

// Link resolves every file's foreign names against the other files'
// exports, falling back to index (the persisted graph) and finally to
// local stubs. outPathOf maps input paths to output paths for files known
// only through the index. Resolution is global, so Link runs after all
// files are rendered, single-threaded behind the scatter barrier.
func Link(outputs []*FileOutput, index SymbolIndex, outPathOf func(string) string, warnings *[]ir.Warning) []Resolved {
	if index == nil {
		index = emptyIndex{}
	}

	// Export table across this run's files. Later files win name
	// collisions; the collision itself is surfaced as a warning.
	owners := make(map[string]*FileOutput)
	for _, out := range outputs {
		for _, name := range out.Exported {
			if prev, ok := owners[name]; ok && prev != out {
				*warnings = append(*warnings, ir.Warning{
					Code:    ir.WarnDuplicateExport,
					Message: fmt.Sprintf("%s exported by both %s and %s, later wins", name, prev.Path, out.Path),
					Symbol:  name,
				})
			}
			owners[name] = out
		}
	}

	var resolved []Resolved
	for _, out := range outputs {
		r := link(out, owners, index, outPathOf)
		for _, name := range r.Unresolved {
			*warnings = append(*warnings, ir.Warning{
				Code:    ir.WarnUnresolvedSymbol,
				Message: fmt.Sprintf("%s: type %s not found in any processed file, local stub emitted", out.Path, name),
				Symbol:  name,
			})
		}
		resolved = append(resolved, r)
	}
	return resolved
}

func link(out *FileOutput, owners map[string]*FileOutput, index SymbolIndex, outPathOf func(string) string) Resolved {
	imports := make(map[string][]string) // out path of owner -> names
	var imported []string
	var stubs []string
	var unresolved []string

	for _, name := range out.Foreign {
		if owner, ok := owners[name]; ok && owner != out {
			imports[owner.OutPath] = append(imports[owner.OutPath], name)
			imported = append(imported, name)
			continue
		}
		if ownerPath, ok := index.OwnerOf(name); ok && ownerPath != out.Path {
			imports[outPathOf(ownerPath)] = append(imports[outPathOf(ownerPath)], name)
			imported = append(imported, name)
			continue
		}
		if stub, ok := fallbackStubs[name]; ok {
			stubs = append(stubs, stub)
			continue
		}
		// Unconstrained local placeholder keeps the file
		// self-consistent.
		stubs = append(stubs, fmt.Sprintf("type %s = unknown;", sanitizeIdentifier(name)))
		unresolved = append(unresolved, name)
	}

	var b strings.Builder
	from := make([]string, 0, len(imports))
	for p := range imports {
		from = append(from, p)
	}
	sort.Strings(from)
	for _, p := range from {
		names := imports[p]
		sort.Strings(names)
		for i, n := range names {
			names[i] = sanitizeIdentifier(n)
		}
		fmt.Fprintf(&b, "import type { %s } from %q;\n", strings.Join(names, ", "), relativeModule(out.OutPath, p))
	}
	if len(from) > 0 {
		b.WriteString("\n")
	}
	sort.Strings(stubs)
	for _, s := range stubs {
		b.WriteString(s + "\n")
	}
	if len(stubs) > 0 {
		b.WriteString("\n")
	}
	b.WriteString(out.Body)

	return Resolved{OutPath: out.OutPath, Content: b.String(), Imported: imported, Unresolved: unresolved}
}

// relativeModule computes the import specifier for target as seen from the
// directory of from. The result is always explicitly relative and has the
// .d.ts extension stripped.
func relativeModule(from, target string) string {
	rel, err := filepath.Rel(path.Dir(from), target)
	if err != nil {
		rel = target
	}
	rel = filepath.ToSlash(rel)
	rel = strings.TrimSuffix(rel, ".d.ts")
	if !strings.HasPrefix(rel, ".") {
		rel = "./" + rel
	}
	return rel
}

// Index renders the aggregate index.d.ts re-exporting every output file.
func Index(outPaths []string) string {
	sorted := append([]string(nil), outPaths...)
	sort.Strings(sorted)
	var b strings.Builder
	for _, p := range sorted {
		spec := "./" + strings.TrimSuffix(filepath.ToSlash(p), ".d.ts")
		fmt.Fprintf(&b, "export * from %q;\n", spec)
	}
	return b.String()
}
