package luagen

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/luadts/luadts/internal/fixer"
	"github.com/luadts/luadts/luagen/cache"
	"github.com/luadts/luadts/luagen/ir"
	"github.com/luadts/luadts/luagen/provider"
	"github.com/luadts/luadts/luagen/sink"
	"github.com/luadts/luadts/luagen/typescript"
)

// Version identifies the tool release. It salts cache hashes, so bumping
// it invalidates every cached entry.
const Version = "0.3.0"

// Result summarizes one generation run.
type Result struct {
	// Written are the output paths produced this run, index included.
	Written []string

	// Skipped are the input paths left alone because their cached hash
	// matched.
	Skipped []string

	// Warnings are all non-fatal issues, across every file.
	Warnings []ir.Warning
}

// input is one Lua file after glob expansion and fixer application.
type input struct {
	path    string
	source  []byte
	outPath string
}

// Generate runs the full pipeline: expand globs, parse and render each
// changed file concurrently, then resolve cross-file references globally
// and write the output tree. The cache is saved only after every file
// succeeded, so a failed run never poisons the next one.
func Generate(ctx context.Context, cfg *Config) (*Result, error) {
	cfg = applyConfigDefaults(cfg)
	if err := validateConfig(cfg); err != nil {
		return nil, err
	}
	log := cfg.Logger

	out := cfg.Sink
	if out == nil {
		out = sink.NewFilesystemSink(cfg.OutDir)
	}

	paths, err := expandGlobs(cfg.Globs)
	if err != nil {
		return nil, err
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no input files match %v", cfg.Globs)
	}

	fix := fixer.New(cfg.Fixers)

	cachePath := cfg.CacheFile
	if cfg.NoCache {
		cachePath = ""
	}
	bc := cache.Load(cachePath, Version)

	var work []input
	var skipped []input
	for _, p := range paths {
		src, err := os.ReadFile(p)
		if err != nil {
			return nil, fmt.Errorf("read %s: %w", p, err)
		}
		src = fix.Apply(p, src)
		in := input{path: p, source: src, outPath: outPathFor(cfg.BaseDir, p)}
		if !cfg.NoCache && bc.ShouldSkip(p, src) {
			skipped = append(skipped, in)
			continue
		}
		work = append(work, in)
	}
	log.Info("inputs expanded", "total", len(paths), "changed", len(work), "unchanged", len(skipped))

	// Scatter: per-file parse, synthesis and rendering are independent,
	// so they run concurrently. Results land at fixed indexes; order is
	// preserved without coordination.
	files := make([]*ir.File, len(work))
	outputs := make([]*typescript.FileOutput, len(work))
	tsCfg := typescript.Config{EnumStyle: cfg.EnumStyle, EmitComments: cfg.Comments != "none"}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.Workers)
	prov := &provider.SourceProvider{}
	for i, in := range work {
		i, in := i, in
		g.Go(func() error {
			f, err := prov.BuildFile(gctx, in.path, in.source)
			if err != nil {
				return fmt.Errorf("%s: %w", in.path, err)
			}
			files[i] = f
			outputs[i] = typescript.Emit(f, in.outPath, tsCfg)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Gather: cross-file resolution needs every file's export list, so
	// it runs single-threaded behind the barrier. The cache supplies
	// owners for files skipped this run.
	result := &Result{}
	for _, f := range files {
		if f.Meta {
			log.Debug("declarations-only file", "path", f.Path)
		}
		result.Warnings = append(result.Warnings, f.Warnings...)
	}
	for _, o := range outputs {
		result.Warnings = append(result.Warnings, o.Warnings...)
	}
	resolved := typescript.Link(outputs, bc, func(p string) string {
		return outPathFor(cfg.BaseDir, p)
	}, &result.Warnings)

	for _, r := range resolved {
		if err := out.WriteFile(ctx, r.OutPath, []byte(r.Content)); err != nil {
			return nil, fmt.Errorf("write %s: %w", r.OutPath, err)
		}
		result.Written = append(result.Written, r.OutPath)
	}

	// The index barrel covers skipped files too; their outputs from the
	// previous run are still on disk.
	indexed := make([]string, 0, len(resolved)+len(skipped))
	for _, r := range resolved {
		indexed = append(indexed, r.OutPath)
	}
	for _, in := range skipped {
		indexed = append(indexed, in.outPath)
	}
	if err := out.WriteFile(ctx, "index.d.ts", []byte(typescript.Index(indexed))); err != nil {
		return nil, fmt.Errorf("write index: %w", err)
	}
	result.Written = append(result.Written, "index.d.ts")
	result.Skipped = inputPaths(skipped)

	for _, w := range result.Warnings {
		log.Warn(w.Message, "code", w.Code, "symbol", w.Symbol)
	}

	for i, r := range resolved {
		in := work[i]
		outHash := cache.Hash(Version, r.OutPath, []byte(r.Content))
		bc.Record(in.path, in.source, outputs[i].Exported, r.Imported, r.Unresolved, outHash)
	}
	if !cfg.NoCache {
		if err := bc.Save(); err != nil {
			return nil, fmt.Errorf("save cache: %w", err)
		}
	}

	if cfg.DumpSymbols {
		if err := out.WriteFile(ctx, "symbols.debug.txt", []byte(symbolDump(bc))); err != nil {
			return nil, fmt.Errorf("write symbol dump: %w", err)
		}
		result.Written = append(result.Written, "symbols.debug.txt")
	}

	log.Info("generation complete", "written", len(result.Written), "skipped", len(result.Skipped), "warnings", len(result.Warnings))
	return result, nil
}

// expandGlobs resolves every pattern, deduplicates and sorts the union.
// A literal path with no matches is an error; a pattern matching nothing
// is allowed as long as some pattern matches.
func expandGlobs(globs []string) ([]string, error) {
	seen := make(map[string]bool)
	var paths []string
	for _, pattern := range globs {
		matches, err := filepath.Glob(pattern)
		if err != nil {
			return nil, fmt.Errorf("bad glob %q: %w", pattern, err)
		}
		for _, m := range matches {
			if seen[m] {
				continue
			}
			seen[m] = true
			paths = append(paths, m)
		}
	}
	sort.Strings(paths)
	return paths, nil
}

// outPathFor mirrors an input path into the output tree: relative to the
// base directory, extension replaced with .d.ts.
func outPathFor(baseDir, p string) string {
	rel, err := filepath.Rel(baseDir, p)
	if err != nil || strings.HasPrefix(rel, "..") {
		rel = filepath.Base(p)
	}
	rel = filepath.ToSlash(rel)
	return strings.TrimSuffix(rel, filepath.Ext(rel)) + ".d.ts"
}

func inputPaths(ins []input) []string {
	if len(ins) == 0 {
		return nil
	}
	out := make([]string, len(ins))
	for i, in := range ins {
		out[i] = in.path
	}
	return out
}

// symbolDump renders the known symbol graph, one "name\tfile" line per
// symbol, for debugging resolution problems.
func symbolDump(bc *cache.BuildCache) string {
	var b strings.Builder
	for _, pair := range bc.Symbols() {
		b.WriteString(pair[0] + "\t" + pair[1] + "\n")
	}
	return b.String()
}
