package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fatih/color"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/luadts/luadts/luagen"
	"github.com/luadts/luadts/luagen/sink"
)

type CheckCmd struct {
	Globs   []string `arg:"" optional:"" help:"Lua input file globs. Overrides the config file."`
	Out     string   `help:"Directory holding the committed declarations." short:"o"`
	Config  string   `help:"Project config file." default:"luadts.yaml" short:"c"`
	Verbose bool     `help:"Show full diffs for drifted files." short:"v"`
}

// Run regenerates everything in memory and compares against the committed
// output tree. Exits non-zero on drift, so CI can gate on it.
func (c *CheckCmd) Run() error {
	gen := &GenCmd{Globs: c.Globs, Out: c.Out, Config: c.Config, NoCache: true}
	cfg, err := gen.buildConfig()
	if err != nil {
		return err
	}
	mem := sink.NewMemorySink()
	cfg.Sink = mem

	if _, err := luagen.Generate(context.Background(), cfg); err != nil {
		return err
	}

	drifted := 0
	for _, p := range mem.Paths() {
		want := mem.Get(p)
		have, err := os.ReadFile(filepath.Join(cfg.OutDir, p))
		if err != nil {
			fmt.Fprintf(os.Stderr, "%s %s is missing\n", color.RedString("drift:"), p)
			drifted++
			continue
		}
		if string(have) == string(want) {
			continue
		}
		fmt.Fprintf(os.Stderr, "%s %s is out of date\n", color.RedString("drift:"), p)
		if c.Verbose {
			printDiff(string(have), string(want))
		}
		drifted++
	}

	if drifted > 0 {
		return fmt.Errorf("%d file(s) out of date, run luadts gen", drifted)
	}
	fmt.Fprintf(os.Stderr, "%s declarations are up to date\n", color.GreenString("ok:"))
	return nil
}

func printDiff(have, want string) {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffCleanupSemantic(dmp.DiffMain(have, want, true))
	for _, d := range diffs {
		text := strings.TrimRight(d.Text, "\n")
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			for _, line := range strings.Split(text, "\n") {
				fmt.Fprintln(os.Stderr, color.RedString("- "+line))
			}
		case diffmatchpatch.DiffInsert:
			for _, line := range strings.Split(text, "\n") {
				fmt.Fprintln(os.Stderr, color.GreenString("+ "+line))
			}
		}
	}
}
