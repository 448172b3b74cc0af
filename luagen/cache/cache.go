// Package cache persists the per-file content hashes and the symbol graph
// that make incremental runs possible. A file whose hash is unchanged is
// skipped entirely; its recorded export/import/missing sets still feed
// cross-file resolution.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// entry is the persisted record for one input file. Name sets are stored
// comma-joined; an empty string decodes to an empty set.
type entry struct {
	Hash    string `json:"hash"`
	OutHash string `json:"outHash,omitempty"`
	Imports string `json:"imports"`
	Missing string `json:"missing"`
	Exports string `json:"exports"`
}

// BuildCache is the on-disk build state. Load it once per run; Save is
// called exactly once, after every file has succeeded. A failed or
// cancelled run must leave the persisted state untouched so the next run
// does not wrongly skip files whose outputs were never written.
type BuildCache struct {
	path    string
	version string
	entries map[string]entry
}

// Load reads the cache file at path. A missing or corrupt file yields an
// empty cache, never an error. version salts all content hashes, so a tool
// upgrade invalidates every entry.
func Load(path, version string) *BuildCache {
	c := &BuildCache{path: path, version: version, entries: make(map[string]entry)}
	data, err := os.ReadFile(path)
	if err != nil {
		return c
	}
	var entries map[string]entry
	if err := json.Unmarshal(data, &entries); err != nil {
		return c
	}
	c.entries = entries
	return c
}

// Hash digests one input file's identity: tool version, path and content.
// A cryptographic digest avoids false-negative collisions across
// semantically different inputs.
func Hash(version, path string, source []byte) string {
	h := sha256.New()
	fmt.Fprintf(h, "%s\x00%s\x00", version, path)
	h.Write(source)
	return hex.EncodeToString(h.Sum(nil))
}

// ShouldSkip reports whether path's recorded hash matches the current
// source, meaning its previous outputs and symbol sets are still valid.
func (c *BuildCache) ShouldSkip(path string, source []byte) bool {
	e, ok := c.entries[path]
	return ok && e.Hash == Hash(c.version, path, source)
}

// Sets returns the recorded exported, imported and missing name sets for
// path. All three are empty when the path is unknown.
func (c *BuildCache) Sets(path string) (exports, imports, missing []string) {
	e := c.entries[path]
	return splitSet(e.Exports), splitSet(e.Imports), splitSet(e.Missing)
}

// Record stores the result of processing path. outHash may be empty.
func (c *BuildCache) Record(path string, source []byte, exports, imports, missing []string, outHash string) {
	c.entries[path] = entry{
		Hash:    Hash(c.version, path, source),
		OutHash: outHash,
		Exports: joinSet(exports),
		Imports: joinSet(imports),
		Missing: joinSet(missing),
	}
}

// Forget drops the entry for path, forcing a rebuild next run.
func (c *BuildCache) Forget(path string) {
	delete(c.entries, path)
}

// OwnerOf returns the recorded file exporting name. Paths are scanned in
// sorted order so resolution is deterministic across runs.
func (c *BuildCache) OwnerOf(name string) (string, bool) {
	paths := make([]string, 0, len(c.entries))
	for p := range c.entries {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	for _, p := range paths {
		for _, exported := range splitSet(c.entries[p].Exports) {
			if exported == name {
				return p, true
			}
		}
	}
	return "", false
}

// Symbols returns every known (name, defining file) pair, sorted by name,
// for the debug symbol dump.
func (c *BuildCache) Symbols() [][2]string {
	var out [][2]string
	for p, e := range c.entries {
		for _, name := range splitSet(e.Exports) {
			out = append(out, [2]string{name, p})
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i][0] != out[j][0] {
			return out[i][0] < out[j][0]
		}
		return out[i][1] < out[j][1]
	})
	return out
}

// Save atomically rewrites the cache file.
func (c *BuildCache) Save() error {
	data, err := json.MarshalIndent(c.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("encode cache: %w", err)
	}
	dir := filepath.Dir(c.path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create cache directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".luadts-cache-*.tmp")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		_ = os.Remove(tmpPath)
		return fmt.Errorf("write cache: %w", err)
	}
	if err := tmp.Close(); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("close cache: %w", err)
	}
	if err := os.Rename(tmpPath, c.path); err != nil {
		_ = os.Remove(tmpPath)
		return fmt.Errorf("rename cache: %w", err)
	}
	return nil
}

func splitSet(s string) []string {
	if s == "" {
		return nil
	}
	return strings.Split(s, ",")
}

func joinSet(names []string) string {
	return strings.Join(names, ",")
}
