// Package provider extracts declarations from annotated Lua source. It
// parses the structural tree with tree-sitter, associates comment blocks
// with the statements they document, and synthesizes declaration records
// from the combination.
package provider

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/lua"

	"github.com/luadts/luadts/luagen/annotation"
	"github.com/luadts/luadts/luagen/ir"
)

// SourceProvider builds per-file declaration sets from Lua source text.
// The zero value is ready to use. BuildFile may be called concurrently:
// each call creates its own tree-sitter parser, which is not shareable.
type SourceProvider struct{}

// BuildFile parses one Lua file and returns its declarations, used type
// names and warnings. Malformed annotations are fatal for the file; the
// returned error carries the path, line and offending text.
func (p *SourceProvider) BuildFile(ctx context.Context, path string, source []byte) (*ir.File, error) {
	parser := sitter.NewParser()
	parser.SetLanguage(lua.GetLanguage())

	tree, err := parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("%s: parse: %w", path, err)
	}
	defer tree.Close()

	stmts, comments := extract(tree.RootNode(), source)
	return Synthesize(path, stmts, comments)
}

// Synthesize runs comment association and declaration synthesis over an
// already extracted statement list. Split out from BuildFile so the
// pipeline downstream of the structural parser is testable without
// tree-sitter.
func Synthesize(path string, stmts []Statement, comments []annotation.Line) (*ir.File, error) {
	file := &ir.File{Path: path}

	attached, orphans, err := associate(stmts, comments)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}

	syn := newSynthesizer(file)
	for i := range stmts {
		syn.synthesize(&stmts[i], attached[i])
	}
	// Orphaned blocks still yield module-level declarations (bare
	// aliases, forward-declared classes, enum shapes).
	for _, b := range orphans {
		syn.synthesize(nil, b)
	}
	return file, nil
}
