// Package fixer applies named text substitutions to raw source before
// parsing. Fixers paper over known-malformed annotations in inputs the
// author cannot edit, keyed by exact file name or applied to every file.
package fixer

import (
	"path/filepath"
	"strings"
)

// Rule is one substitution pass.
type Rule struct {
	// Name identifies the rule in logs and config.
	Name string `yaml:"name"`

	// File is the base name the rule applies to, or "*" (the default)
	// for every file.
	File string `yaml:"file"`

	// Find is the exact text to replace.
	Find string `yaml:"find"`

	// Replace is the replacement text.
	Replace string `yaml:"replace"`
}

// Set holds an ordered list of rules. Rules apply in declaration order;
// later rules see earlier rules' output.
type Set struct {
	rules []Rule
}

// New builds a Set from rules.
func New(rules []Rule) *Set {
	return &Set{rules: rules}
}

// Apply runs every matching rule over src and returns the result. The
// input slice is never modified.
func (s *Set) Apply(path string, src []byte) []byte {
	if s == nil || len(s.rules) == 0 {
		return src
	}
	base := filepath.Base(path)
	text := string(src)
	changed := false
	for _, r := range s.rules {
		if r.Find == "" {
			continue
		}
		if r.File != "" && r.File != "*" && r.File != base {
			continue
		}
		next := strings.ReplaceAll(text, r.Find, r.Replace)
		if next != text {
			text = next
			changed = true
		}
	}
	if !changed {
		return src
	}
	return []byte(text)
}
