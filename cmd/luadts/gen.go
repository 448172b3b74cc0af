package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/fsnotify/fsnotify"

	"github.com/luadts/luadts/luagen"
)

type GenCmd struct {
	Globs       []string `arg:"" optional:"" help:"Lua input file globs. Overrides the config file."`
	Out         string   `help:"Output directory for generated declarations." short:"o"`
	Config      string   `help:"Project config file." default:"luadts.yaml" short:"c"`
	BaseDir     string   `help:"Directory input paths are made relative to."`
	EnumStyle   string   `help:"Enum rendering style: enum, const_enum or union." name:"enum-style"`
	NoComments  bool     `help:"Omit JSDoc comment blocks." name:"no-comments"`
	NoCache     bool     `help:"Rebuild every file, ignoring the incremental cache." name:"no-cache"`
	Workers     int      `help:"Concurrent file workers (0 = number of CPUs)."`
	DumpSymbols bool     `help:"Also write symbols.debug.txt listing every known symbol." name:"dump-symbols"`
	Watch       bool     `help:"Watch input directories and regenerate on change." short:"w"`
	Verbose     bool     `help:"Debug logging." short:"v"`
}

func (c *GenCmd) Run() error {
	cfg, err := c.buildConfig()
	if err != nil {
		return err
	}

	ctx := context.Background()
	if !c.Watch {
		return runOnce(ctx, cfg)
	}
	return watch(ctx, cfg)
}

// buildConfig layers CLI flags over the optional project file. A missing
// default config file is fine; a missing explicit one is an error.
func (c *GenCmd) buildConfig() (*luagen.Config, error) {
	cfg := &luagen.Config{}
	if info, err := os.Stat(c.Config); err == nil && !info.IsDir() {
		loaded, err := luagen.LoadConfigFile(c.Config)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	} else if c.Config != "luadts.yaml" {
		return nil, fmt.Errorf("config file %s not found", c.Config)
	}

	if len(c.Globs) > 0 {
		cfg.Globs = c.Globs
	}
	if c.Out != "" {
		cfg.OutDir = c.Out
	}
	if c.BaseDir != "" {
		cfg.BaseDir = c.BaseDir
	}
	if c.EnumStyle != "" {
		cfg.EnumStyle = c.EnumStyle
	}
	if c.NoComments {
		cfg.Comments = "none"
	}
	if c.NoCache {
		cfg.NoCache = true
	}
	if c.Workers > 0 {
		cfg.Workers = c.Workers
	}
	if c.DumpSymbols {
		cfg.DumpSymbols = true
	}
	if cfg.OutDir == "" {
		return nil, errors.New("no output directory: pass --out or set outDir in luadts.yaml")
	}

	level := slog.LevelInfo
	if c.Verbose {
		level = slog.LevelDebug
	}
	cfg.Logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
	return cfg, nil
}

func runOnce(ctx context.Context, cfg *luagen.Config) error {
	start := time.Now()
	result, err := luagen.Generate(ctx, cfg)
	if err != nil {
		return err
	}
	for _, w := range result.Warnings {
		fmt.Fprintf(os.Stderr, "%s %s\n", color.YellowString("warning:"), w.Message)
	}
	fmt.Fprintf(os.Stderr, "%s %d files written, %d unchanged in %s\n",
		color.GreenString("done:"), len(result.Written), len(result.Skipped), time.Since(start).Round(time.Millisecond))
	return nil
}

// watch regenerates whenever a Lua file under the watched directories
// changes. Events are debounced so editor save bursts trigger one run.
func watch(ctx context.Context, cfg *luagen.Config) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("start watcher: %w", err)
	}
	defer w.Close()

	for _, dir := range watchDirs(cfg.Globs) {
		if err := w.Add(dir); err != nil {
			return fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	if err := runOnce(ctx, cfg); err != nil {
		fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("error:"), err)
	}
	fmt.Fprintln(os.Stderr, "watching for changes, ctrl-c to stop")

	const debounce = 200 * time.Millisecond
	var timer *time.Timer
	pending := make(chan struct{}, 1)
	for {
		select {
		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !strings.HasSuffix(ev.Name, ".lua") {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.AfterFunc(debounce, func() {
				select {
				case pending <- struct{}{}:
				default:
				}
			})
		case <-pending:
			if err := runOnce(ctx, cfg); err != nil {
				fmt.Fprintf(os.Stderr, "%s %v\n", color.RedString("error:"), err)
			}
		case err, ok := <-w.Errors:
			if !ok {
				return nil
			}
			fmt.Fprintf(os.Stderr, "%s watcher: %v\n", color.RedString("error:"), err)
		case <-ctx.Done():
			return ctx.Err()
		}
	}
}

// watchDirs returns the distinct directory prefixes of the glob patterns.
// A glob's non-wildcard leading segment is the directory to watch.
func watchDirs(globs []string) []string {
	seen := make(map[string]bool)
	var dirs []string
	for _, g := range globs {
		dir := filepath.Dir(g)
		if i := strings.IndexAny(dir, "*?["); i >= 0 {
			dir = filepath.Dir(dir[:i])
		}
		if dir == "" {
			dir = "."
		}
		if !seen[dir] {
			seen[dir] = true
			dirs = append(dirs, dir)
		}
	}
	sort.Strings(dirs)
	return dirs
}
