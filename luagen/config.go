// Package luagen drives declaration generation: it expands input globs,
// runs the per-file parsing pipeline concurrently, resolves cross-file
// references globally, writes the output tree and maintains the build
// cache.
package luagen

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"runtime"

	"github.com/go-playground/validator/v10"
	"github.com/goccy/go-yaml"

	"github.com/luadts/luadts/internal/fixer"
	"github.com/luadts/luadts/luagen/sink"
)

// Config holds the configuration for a generation run.
type Config struct {
	// Globs select the Lua input files.
	Globs []string `yaml:"globs" validate:"required,min=1"`

	// OutDir is the directory the mirrored .d.ts tree is written to.
	OutDir string `yaml:"outDir" validate:"required"`

	// BaseDir is the directory input paths are made relative to when
	// mirroring them into OutDir. Default ".".
	BaseDir string `yaml:"baseDir"`

	// CacheFile is the incremental build cache location. Default
	// "<OutDir>/.luadts-cache.json".
	CacheFile string `yaml:"cacheFile"`

	// NoCache disables skip detection and cache persistence.
	NoCache bool `yaml:"noCache"`

	// EnumStyle controls enum rendering.
	// Supported values: "enum", "const_enum", "union". Default "enum".
	EnumStyle string `yaml:"enumStyle" validate:"omitempty,oneof=enum const_enum union"`

	// Comments controls whether annotation text becomes JSDoc blocks.
	// Supported values: "default" (emit) and "none". Default "default".
	Comments string `yaml:"comments" validate:"omitempty,oneof=default none"`

	// Workers bounds concurrent per-file parsing. 0 means GOMAXPROCS.
	Workers int `yaml:"workers" validate:"gte=0"`

	// Fixers are pre-parse text substitutions, applied in order.
	Fixers []fixer.Rule `yaml:"fixers"`

	// DumpSymbols additionally writes a symbols.debug.txt artifact
	// listing every known (name, defining file) pair.
	DumpSymbols bool `yaml:"dumpSymbols"`

	// Sink overrides the output destination. Nil means a filesystem
	// sink rooted at OutDir.
	Sink sink.OutputSink `yaml:"-"`

	// Logger receives progress and warnings. Nil means slog.Default().
	Logger *slog.Logger `yaml:"-"`
}

// LoadConfigFile reads a YAML project file (luadts.yaml) into a Config.
func LoadConfigFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}
	return &cfg, nil
}

// applyConfigDefaults fills defaults into a copy of cfg.
func applyConfigDefaults(cfg *Config) *Config {
	result := *cfg
	if result.BaseDir == "" {
		result.BaseDir = "."
	}
	if result.CacheFile == "" {
		result.CacheFile = filepath.Join(result.OutDir, ".luadts-cache.json")
	}
	if result.EnumStyle == "" {
		result.EnumStyle = "enum"
	}
	if result.Comments == "" {
		result.Comments = "default"
	}
	if result.Workers == 0 {
		result.Workers = runtime.GOMAXPROCS(0)
	}
	if result.Logger == nil {
		result.Logger = slog.Default()
	}
	return &result
}

// validateConfig checks cfg with the struct validation tags.
func validateConfig(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	return nil
}
