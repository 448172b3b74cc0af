// Package ir defines the intermediate representation for annotation type
// expressions and synthesized declarations. These types are produced by the
// annotation parsers and the source provider, and consumed by the TypeScript
// emitter.
package ir

// DescriptorKind identifies the category of a type descriptor.
type DescriptorKind int

const (
	KindSimple   DescriptorKind = iota // Named type (string, number, Foo)
	KindOptional                       // Optional wrapper (T?)
	KindGeneric                        // Generic instantiation (Name<T, U>)
	KindUnion                          // Union of types (T1 | T2 | ...)
	KindFunction                       // Function signature (fun(a: T): R)
	KindTable                          // Table shape ({[K]: V, ...})
	KindArray                          // Array (T[])
	KindTuple                          // Fixed-size tuple (A, B, C)
)

// String returns the string representation of the descriptor kind.
func (k DescriptorKind) String() string {
	switch k {
	case KindSimple:
		return "Simple"
	case KindOptional:
		return "Optional"
	case KindGeneric:
		return "Generic"
	case KindUnion:
		return "Union"
	case KindFunction:
		return "Function"
	case KindTable:
		return "Table"
	case KindArray:
		return "Array"
	case KindTuple:
		return "Tuple"
	default:
		return "Unknown"
	}
}

// TypeDescriptor is the base interface for all type expression descriptors.
// Descriptors are immutable once constructed: every recursive field is itself
// a fully built descriptor, and the annotation grammar cannot express cycles.
type TypeDescriptor interface {
	// Kind returns the descriptor kind for type switching.
	Kind() DescriptorKind

	// Ensure only types in this package can implement TypeDescriptor.
	sealed()
}

// exprBase provides the sealed marker for expression descriptors.
type exprBase struct{}

func (exprBase) sealed() {}
