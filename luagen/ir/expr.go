package ir

// SimpleDescriptor represents a bare named type: a primitive after
// canonicalization ("number", "string", "null") or a reference to a declared
// type ("Foo"). Unknown names are carried verbatim; resolution to a defining
// file happens at emission, not here.
type SimpleDescriptor struct {
	exprBase

	// Name is the type name as it should appear in output.
	Name string
}

// Kind returns KindSimple.
func (d *SimpleDescriptor) Kind() DescriptorKind { return KindSimple }

// Simple returns a SimpleDescriptor for a named type.
func Simple(name string) *SimpleDescriptor {
	return &SimpleDescriptor{Name: name}
}

// OptionalDescriptor represents an optional type (T? in annotation syntax).
// Emitted as `T | null`.
type OptionalDescriptor struct {
	exprBase

	// Inner is the wrapped type.
	Inner TypeDescriptor
}

// Kind returns KindOptional.
func (d *OptionalDescriptor) Kind() DescriptorKind { return KindOptional }

// Opt returns an OptionalDescriptor wrapping inner.
func Opt(inner TypeDescriptor) *OptionalDescriptor {
	return &OptionalDescriptor{Inner: inner}
}

// GenericDescriptor represents a generic instantiation (Name<T, U>).
type GenericDescriptor struct {
	exprBase

	// Base is the generic type's name.
	Base string

	// Params are the type arguments, in source order. Never empty.
	Params []TypeDescriptor
}

// Kind returns KindGeneric.
func (d *GenericDescriptor) Kind() DescriptorKind { return KindGeneric }

// Generic returns a GenericDescriptor for base instantiated with params.
func Generic(base string, params ...TypeDescriptor) *GenericDescriptor {
	return &GenericDescriptor{Base: base, Params: params}
}

// UnionDescriptor represents a union of types (T1 | T2 | ...).
// Options preserves source order and always has at least two members;
// single-option unions collapse to the option itself during parsing.
type UnionDescriptor struct {
	exprBase

	// Options contains the union members.
	Options []TypeDescriptor
}

// Kind returns KindUnion.
func (d *UnionDescriptor) Kind() DescriptorKind { return KindUnion }

// Union returns a UnionDescriptor over the given options.
func Union(options ...TypeDescriptor) *UnionDescriptor {
	return &UnionDescriptor{Options: options}
}

// ParamDescriptor is a single parameter of a function type.
type ParamDescriptor struct {
	// Name is the parameter name. Empty for unnamed positions.
	Name string

	// Type is the parameter type.
	Type TypeDescriptor

	// Variadic marks a `...` parameter. A variadic parameter is always
	// last and its Type describes the element, not the spread.
	Variadic bool
}

// FunctionDescriptor represents a function type (fun(a: T, b: U): R).
type FunctionDescriptor struct {
	exprBase

	// Params are the parameters in declaration order.
	Params []ParamDescriptor

	// Return is the result type. A void-equivalent is filled in by the
	// parser when the annotation omits the `: R` trailer.
	Return TypeDescriptor
}

// Kind returns KindFunction.
func (d *FunctionDescriptor) Kind() DescriptorKind { return KindFunction }

// Fn returns a FunctionDescriptor with the given parameters and return type.
func Fn(params []ParamDescriptor, ret TypeDescriptor) *FunctionDescriptor {
	return &FunctionDescriptor{Params: params, Return: ret}
}

// TableEntry is one `[key]: value` entry of a table type.
type TableEntry struct {
	Key   TypeDescriptor
	Value TypeDescriptor
}

// TableDescriptor represents a table shape ({[K]: V, ...}).
type TableDescriptor struct {
	exprBase

	// Entries preserves source order.
	Entries []TableEntry
}

// Kind returns KindTable.
func (d *TableDescriptor) Kind() DescriptorKind { return KindTable }

// Table returns a TableDescriptor over the given entries.
func Table(entries ...TableEntry) *TableDescriptor {
	return &TableDescriptor{Entries: entries}
}

// ArrayDescriptor represents an array type (T[]).
type ArrayDescriptor struct {
	exprBase

	// Element is the array element type.
	Element TypeDescriptor
}

// Kind returns KindArray.
func (d *ArrayDescriptor) Kind() DescriptorKind { return KindArray }

// Array returns an ArrayDescriptor for element.
func Array(element TypeDescriptor) *ArrayDescriptor {
	return &ArrayDescriptor{Element: element}
}

// TupleDescriptor represents a fixed-size tuple (A, B, C at the top level of
// an annotation, e.g. a multi-value return).
type TupleDescriptor struct {
	exprBase

	// Elements are the tuple members in order. Always at least two.
	Elements []TypeDescriptor
}

// Kind returns KindTuple.
func (d *TupleDescriptor) Kind() DescriptorKind { return KindTuple }

// Tuple returns a TupleDescriptor over the given elements.
func Tuple(elements ...TypeDescriptor) *TupleDescriptor {
	return &TupleDescriptor{Elements: elements}
}
