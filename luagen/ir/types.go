package ir

// Source represents a source location in a Lua input file.
type Source struct {
	File   string
	Line   int
	Column int
}

// IsZero returns true if the source location is empty.
func (s Source) IsZero() bool {
	return s.File == "" && s.Line == 0 && s.Column == 0
}

// Documentation holds free-text description lines collected from annotation
// comments, rendered as a JSDoc block before the declaration they document.
type Documentation struct {
	// Summary is the first line, suitable for brief descriptions.
	Summary string

	// Body is the complete text, including the summary. May span
	// multiple lines separated by \n.
	Body string
}

// IsZero returns true if the documentation is empty.
func (d Documentation) IsZero() bool {
	return d.Summary == "" && d.Body == ""
}

// Warning represents a non-fatal issue encountered during generation.
type Warning struct {
	// Code is a machine-readable warning identifier.
	Code string

	// Message is a human-readable description.
	Message string

	// Source is the location that triggered the warning, if applicable.
	Source *Source

	// Symbol is the type or function name involved, if applicable.
	Symbol string
}

// Warning codes reported by the provider and emitter.
const (
	WarnUnrecognizedStatement = "unrecognized_statement"
	WarnUnresolvedSymbol      = "unresolved_symbol"
	WarnDuplicateExport       = "duplicate_export"
	WarnDuplicateDecl         = "duplicate_declaration"
	WarnOrphanedComment       = "orphaned_comment"
)
