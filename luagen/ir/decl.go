package ir

import "strings"

// DeclKind identifies the category of a declaration.
type DeclKind int

const (
	DeclClass    DeclKind = iota // Class with fields and member functions
	DeclEnum                     // Enumeration from a table literal
	DeclAlias                    // Type alias
	DeclFunction                 // Free function or class member
	DeclObject                   // Bare table assignment (declared const)
	DeclExport                   // Module export marker (return Name)
)

// String returns the string representation of the declaration kind.
func (k DeclKind) String() string {
	switch k {
	case DeclClass:
		return "Class"
	case DeclEnum:
		return "Enum"
	case DeclAlias:
		return "Alias"
	case DeclFunction:
		return "Function"
	case DeclObject:
		return "Object"
	case DeclExport:
		return "Export"
	default:
		return "Unknown"
	}
}

// Declaration is the base interface for all synthesized declarations.
type Declaration interface {
	// DeclKind returns the declaration kind for type switching.
	DeclKind() DeclKind

	// DeclName returns the declaration's name. For functions this is the
	// qualified name (Owner:method, Owner.method, or a bare name).
	DeclName() string

	// Doc returns associated documentation.
	Doc() Documentation

	// Src returns the source location of the declaring statement.
	Src() Source

	sealedDecl()
}

// declBase carries the fields shared by all declarations.
type declBase struct {
	Documentation Documentation
	Source        Source
}

func (b declBase) Doc() Documentation { return b.Documentation }
func (b declBase) Src() Source        { return b.Source }
func (declBase) sealedDecl()          {}

// FieldDecl is a single @field entry of a class.
type FieldDecl struct {
	Name          string
	Type          TypeDescriptor
	Documentation Documentation
}

// ClassDecl represents an annotated class backed by a table.
type ClassDecl struct {
	declBase

	// Name is the class name from the @class directive.
	Name string

	// Generics are the type parameter names, from the directive's angle
	// clause or the surrounding @generic accumulation.
	Generics []string

	// Extends is the declared supertype name. Empty for root classes.
	Extends string

	// Fields holds the @field entries in source order.
	Fields []FieldDecl

	// AliasOf is non-nil when the declared supertype is a primitive-like
	// name: the class is then emitted as an opaque-handle type alias
	// instead of an interface.
	AliasOf TypeDescriptor
}

// DeclKind returns DeclClass.
func (d *ClassDecl) DeclKind() DeclKind { return DeclClass }

// DeclName returns the class name.
func (d *ClassDecl) DeclName() string { return d.Name }

// RawLiteral is an enum value emitted verbatim, used for numeric literals
// (a unary minus is preserved as written).
type RawLiteral string

// EnumMember is one key/value pair of an enum table.
type EnumMember struct {
	Name string

	// Value is the member's literal: a string is quoted at emission, a
	// RawLiteral is written verbatim, anything else is stringified.
	Value any
}

// EnumDecl represents an @enum table.
type EnumDecl struct {
	declBase

	Name    string
	Members []EnumMember
}

// DeclKind returns DeclEnum.
func (d *EnumDecl) DeclKind() DeclKind { return DeclEnum }

// DeclName returns the enum name.
func (d *EnumDecl) DeclName() string { return d.Name }

// AliasDecl represents an @alias directive.
type AliasDecl struct {
	declBase

	Name string
	Type TypeDescriptor
}

// DeclKind returns DeclAlias.
func (d *AliasDecl) DeclKind() DeclKind { return DeclAlias }

// DeclName returns the alias name.
func (d *AliasDecl) DeclName() string { return d.Name }

// Param is one parameter of a synthesized function declaration.
type Param struct {
	Name        string
	Type        TypeDescriptor
	Description string

	// Variadic marks the trailing ... parameter.
	Variadic bool
}

// FunctionDecl represents a function definition fused with its @param and
// @return directives.
type FunctionDecl struct {
	declBase

	// Name is the qualified name: "Owner:method" for instance methods,
	// "Owner.method" for statics, a bare name for free functions.
	Name string

	// Static is true for Owner.method members and free functions.
	Static bool

	Generics []string
	Params   []Param

	// Return is nil when the function declares no return value.
	Return TypeDescriptor
}

// DeclKind returns DeclFunction.
func (d *FunctionDecl) DeclKind() DeclKind { return DeclFunction }

// DeclName returns the qualified function name.
func (d *FunctionDecl) DeclName() string { return d.Name }

// Owner returns the owning type name and the bare method name. For free
// functions owner is empty and method is the full name.
func (d *FunctionDecl) Owner() (owner, method string) {
	return SplitQualified(d.Name)
}

// ObjectDecl represents a bare table assignment with no class or enum
// directive. Its member functions are attached by qualified-name prefix at
// emission time.
type ObjectDecl struct {
	declBase

	Name string
}

// DeclKind returns DeclObject.
func (d *ObjectDecl) DeclKind() DeclKind { return DeclObject }

// DeclName returns the object name.
func (d *ObjectDecl) DeclName() string { return d.Name }

// ExportDecl marks a name as the module's exported symbol, produced by a
// bare `return Name` statement.
type ExportDecl struct {
	declBase

	Name string
}

// DeclKind returns DeclExport.
func (d *ExportDecl) DeclKind() DeclKind { return DeclExport }

// DeclName returns the exported name.
func (d *ExportDecl) DeclName() string { return d.Name }

// SplitQualified splits a qualified function name on the method (`:`) or
// static (`.`) separator. Owner is empty for free functions.
func SplitQualified(name string) (owner, method string) {
	if i := strings.IndexAny(name, ":."); i >= 0 {
		return name[:i], name[i+1:]
	}
	return "", name
}

// IsMethodName reports whether name uses the instance-method separator.
func IsMethodName(name string) bool {
	return strings.Contains(name, ":")
}

// File is the per-file synthesis result: the unit handed from the provider
// to the emitter. It is built by a single goroutine and read-only afterwards,
// so concurrent per-file processing needs no locking.
type File struct {
	// Path is the input file path as given to the generator.
	Path string

	// Meta is true when the file carries an @meta directive: the file
	// exists only for its declarations and defines no runtime module.
	Meta bool

	// Decls are the synthesized declarations in source order.
	Decls []Declaration

	// UsedNames are all simple type names referenced by this file's
	// declarations, in first-use order without duplicates.
	UsedNames []string

	// Warnings are non-fatal issues found while processing the file.
	Warnings []Warning
}

// AddDecl appends a declaration.
func (f *File) AddDecl(d Declaration) {
	f.Decls = append(f.Decls, d)
}

// AddWarning appends a warning.
func (f *File) AddWarning(w Warning) {
	f.Warnings = append(f.Warnings, w)
}

// AddUsedNames merges names into UsedNames, preserving first-use order.
func (f *File) AddUsedNames(names ...string) {
	for _, n := range names {
		if n == "" {
			continue
		}
		seen := false
		for _, have := range f.UsedNames {
			if have == n {
				seen = true
				break
			}
		}
		if !seen {
			f.UsedNames = append(f.UsedNames, n)
		}
	}
}

// FindFunctions returns the function declarations whose owner matches the
// given name, in source order.
func (f *File) FindFunctions(owner string) []*FunctionDecl {
	var out []*FunctionDecl
	for _, d := range f.Decls {
		fn, ok := d.(*FunctionDecl)
		if !ok {
			continue
		}
		if o, _ := fn.Owner(); o == owner {
			out = append(out, fn)
		}
	}
	return out
}
