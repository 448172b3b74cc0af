// Package annotation parses documentation-comment directives from Lua
// comment lines.
//
// Directives are comment lines in the form:
//
//	---@class Name<T> : Parent
//	---@field name type description
//	---@param name type description
//	---@return type description
//	---@alias Name type
//	---@enum Name
//	---@generic T
//	---@meta
//
// Plain `---` lines with no tag are carried as comment directives and
// rendered as documentation on the declaration they attach to. Unrecognized
// tags are skipped silently.
package annotation

import (
	"fmt"

	"github.com/luadts/luadts/luagen/ir"
)

// Kind represents the directive tag.
type Kind string

const (
	KindClass   Kind = "class"
	KindField   Kind = "field"
	KindParam   Kind = "param"
	KindReturn  Kind = "return"
	KindAlias   Kind = "alias"
	KindEnum    Kind = "enum"
	KindGeneric Kind = "generic"
	KindMeta    Kind = "meta"
	KindComment Kind = "comment"
)

// Directive is one semantic unit parsed from a documentation-comment tag.
// Directives are immutable once produced.
type Directive struct {
	Kind Kind

	// Line is the 1-based source line of the directive, for diagnostics.
	Line int

	// Name carries the class/alias/enum name, the field or parameter
	// name, or the generic type parameter name. Empty for return, meta
	// and comment directives.
	Name string

	// Type is the parsed type expression for field/param/return/alias
	// directives. Nil otherwise.
	Type ir.TypeDescriptor

	// UsedNames are the free type names Type references.
	UsedNames []string

	// Description is the trailing free text, or the full text for
	// comment directives.
	Description string

	// Generics holds the class directive's angle-clause parameter names.
	Generics []string

	// Extends is the class directive's declared supertype, if any.
	Extends string
}

// Line is one raw comment line from the source, before directive parsing.
type Line struct {
	// Number is the 1-based source line number.
	Number int

	// Text is the comment text including its leading marker.
	Text string
}

// MalformedDirectiveError reports a directive header that cannot be parsed.
type MalformedDirectiveError struct {
	Line   int
	Text   string
	Reason string

	// Err is the underlying type-expression error, when the failure came
	// from the type grammar.
	Err error
}

func (e *MalformedDirectiveError) Error() string {
	return fmt.Sprintf("malformed directive at line %d: %s (%q)", e.Line, e.Reason, e.Text)
}

func (e *MalformedDirectiveError) Unwrap() error { return e.Err }
