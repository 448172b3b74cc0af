// Package typescript renders declaration records as TypeScript declaration
// files and resolves cross-file type references into imports.
package typescript

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/luadts/luadts/luagen/ir"
)

// Config controls declaration rendering.
type Config struct {
	// EnumStyle is one of "enum", "const_enum", "union".
	EnumStyle string

	// EmitComments includes JSDoc blocks built from annotation comments.
	EmitComments bool
}

// DefaultConfig returns the default rendering configuration.
func DefaultConfig() Config {
	return Config{EnumStyle: "enum", EmitComments: true}
}

// FileOutput is one rendered file before import resolution. Body holds
// only the declarations; the resolver prepends imports and fallback stubs.
type FileOutput struct {
	// Path is the input file path.
	Path string

	// OutPath is the relative output path (input path with the extension
	// replaced by .d.ts).
	OutPath string

	// Body is the rendered declaration block.
	Body string

	// Exported are the names this file declares, in emission order.
	Exported []string

	// Foreign are referenced names not declared in this file.
	Foreign []string

	// Default is the name of the module's export marker, if any.
	Default string

	// Warnings collected during emission.
	Warnings []ir.Warning
}

// Emit renders one file's declarations in deterministic order: enums,
// aliases, free functions, declared objects, classes, export markers.
// Member functions attach to their owning class or object by qualified
// name prefix.
func Emit(file *ir.File, outPath string, cfg Config) *FileOutput {
	e := &emitter{cfg: cfg}
	out := &FileOutput{Path: file.Path, OutPath: outPath}

	declared := make(map[string]bool)
	bound := make(map[string]bool)
	owners := make(map[string]bool)
	for _, d := range file.Decls {
		switch decl := d.(type) {
		case *ir.ClassDecl:
			owners[decl.Name] = true
			for _, g := range decl.Generics {
				bound[g] = true
			}
		case *ir.ObjectDecl:
			owners[decl.Name] = true
		case *ir.FunctionDecl:
			for _, g := range decl.Generics {
				bound[g] = true
			}
		}
	}

	for _, d := range file.Decls {
		if decl, ok := d.(*ir.EnumDecl); ok {
			e.enum(decl)
			declared[decl.Name] = true
			out.Exported = append(out.Exported, decl.Name)
		}
	}
	for _, d := range file.Decls {
		if decl, ok := d.(*ir.AliasDecl); ok {
			e.alias(decl)
			declared[decl.Name] = true
			out.Exported = append(out.Exported, decl.Name)
		}
	}
	for _, d := range file.Decls {
		decl, ok := d.(*ir.FunctionDecl)
		if !ok {
			continue
		}
		owner, _ := decl.Owner()
		switch {
		case owner == "":
			e.freeFunction(decl)
			declared[decl.Name] = true
			out.Exported = append(out.Exported, decl.Name)
		case !owners[owner]:
			// A qualified definition whose owner never appears as a
			// table; emit standalone under a flattened name.
			out.Warnings = append(out.Warnings, ir.Warning{
				Code:    ir.WarnUnrecognizedStatement,
				Message: fmt.Sprintf("no declaration for owner %s, emitting %s standalone", owner, decl.Name),
				Symbol:  decl.Name,
			})
			e.freeFunction(decl)
		}
	}
	for _, d := range file.Decls {
		if decl, ok := d.(*ir.ObjectDecl); ok {
			e.object(decl, file.FindFunctions(decl.Name))
			declared[decl.Name] = true
			out.Exported = append(out.Exported, decl.Name)
		}
	}
	for _, d := range file.Decls {
		if decl, ok := d.(*ir.ClassDecl); ok {
			e.class(decl, file.FindFunctions(decl.Name))
			declared[decl.Name] = true
			out.Exported = append(out.Exported, decl.Name)
		}
	}
	for _, d := range file.Decls {
		if decl, ok := d.(*ir.ExportDecl); ok {
			if !declared[decl.Name] {
				out.Warnings = append(out.Warnings, ir.Warning{
					Code:    ir.WarnUnresolvedSymbol,
					Message: fmt.Sprintf("export marker %s has no matching declaration", decl.Name),
					Symbol:  decl.Name,
				})
				continue
			}
			out.Default = decl.Name
			e.buf.WriteString("export default " + sanitizeIdentifier(decl.Name) + ";\n\n")
		}
	}

	out.Body = e.buf.String()
	out.Foreign = FreeNames(file.UsedNames, mergeSets(declared, bound))
	return out
}

type emitter struct {
	cfg Config
	buf bytes.Buffer
}

func (e *emitter) enum(d *ir.EnumDecl) {
	e.jsdoc(d.Doc(), nil)
	name := sanitizeIdentifier(d.Name)

	if e.cfg.EnumStyle == "union" {
		parts := make([]string, len(d.Members))
		for i, m := range d.Members {
			parts[i] = formatEnumValue(m.Value)
		}
		if len(parts) == 0 {
			parts = []string{"never"}
		}
		fmt.Fprintf(&e.buf, "export type %s = %s;\n\n", name, strings.Join(parts, " | "))
		return
	}

	kw := "enum"
	if e.cfg.EnumStyle == "const_enum" {
		kw = "const enum"
	}
	fmt.Fprintf(&e.buf, "export %s %s {\n", kw, name)
	for _, m := range d.Members {
		fmt.Fprintf(&e.buf, "  %s = %s,\n", escapeReservedWord(m.Name), formatEnumValue(m.Value))
	}
	e.buf.WriteString("}\n\n")
}

func (e *emitter) alias(d *ir.AliasDecl) {
	e.jsdoc(d.Doc(), nil)
	fmt.Fprintf(&e.buf, "export type %s = %s;\n\n", sanitizeIdentifier(d.Name), RenderType(d.Type))
}

func (e *emitter) freeFunction(d *ir.FunctionDecl) {
	e.jsdoc(d.Doc(), d.Params)
	name := d.Name
	if owner, method := d.Owner(); owner != "" {
		name = owner + "_" + method
	}
	fmt.Fprintf(&e.buf, "export function %s%s;\n\n", sanitizeIdentifier(name), signature(d))
}

func (e *emitter) object(d *ir.ObjectDecl, members []*ir.FunctionDecl) {
	e.jsdoc(d.Doc(), nil)
	name := sanitizeIdentifier(d.Name)
	if len(members) == 0 {
		// Untyped placeholder object.
		fmt.Fprintf(&e.buf, "declare const %s: Record<string, unknown>;\nexport { %s };\n\n", name, name)
		return
	}
	fmt.Fprintf(&e.buf, "export const %s: {\n", name)
	for _, m := range members {
		e.member(m)
	}
	e.buf.WriteString("};\n\n")
}

func (e *emitter) class(d *ir.ClassDecl, members []*ir.FunctionDecl) {
	e.jsdoc(d.Doc(), nil)
	name := sanitizeIdentifier(d.Name)

	if d.AliasOf != nil {
		// Opaque handle classes are renamed primitives.
		fmt.Fprintf(&e.buf, "export type %s = %s;\n\n", name, RenderType(d.AliasOf))
		return
	}

	e.buf.WriteString("export interface " + name)
	if len(d.Generics) > 0 {
		e.buf.WriteString("<" + strings.Join(d.Generics, ", ") + ">")
	}
	if d.Extends != "" {
		e.buf.WriteString(" extends " + sanitizeIdentifier(d.Extends))
	}
	e.buf.WriteString(" {\n")

	for _, f := range d.Fields {
		if e.cfg.EmitComments && !f.Documentation.IsZero() {
			e.buf.WriteString("  ")
			e.jsdocInline(f.Documentation)
		}
		e.buf.WriteString("  ")
		fieldName := f.Name
		if needsQuoting(fieldName) {
			fmt.Fprintf(&e.buf, "%q", fieldName)
		} else {
			e.buf.WriteString(fieldName)
		}
		if opt, ok := f.Type.(*ir.OptionalDescriptor); ok {
			e.buf.WriteString("?: " + RenderType(opt.Inner))
		} else {
			e.buf.WriteString(": " + RenderType(f.Type))
		}
		e.buf.WriteString(";\n")
	}
	for _, m := range members {
		e.member(m)
	}
	e.buf.WriteString("}\n\n")
}

// member renders one attached member function as a method signature.
func (e *emitter) member(d *ir.FunctionDecl) {
	if e.cfg.EmitComments && !d.Doc().IsZero() {
		e.buf.WriteString("  ")
		e.jsdocInline(d.Doc())
	}
	_, method := d.Owner()
	e.buf.WriteString("  ")
	if needsQuoting(method) {
		fmt.Fprintf(&e.buf, "%q", method)
	} else {
		e.buf.WriteString(method)
	}
	e.buf.WriteString(signature(d) + ";\n")
}

// signature renders the generic clause, parameter list and return type.
func signature(d *ir.FunctionDecl) string {
	var b strings.Builder
	if len(d.Generics) > 0 {
		b.WriteString("<" + strings.Join(d.Generics, ", ") + ">")
	}
	b.WriteString("(")
	for i, p := range d.Params {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(renderDeclParam(p))
	}
	b.WriteString("): ")
	if d.Return == nil {
		b.WriteString("void")
	} else {
		b.WriteString(RenderType(d.Return))
	}
	return b.String()
}

func renderDeclParam(p ir.Param) string {
	if p.Variadic {
		return "..." + paramName(p.Name) + ": " + renderGrouped(p.Type) + "[]"
	}
	name := p.Name
	if opt, ok := p.Type.(*ir.OptionalDescriptor); ok {
		return paramName(strings.TrimSuffix(name, "?")) + "?: " + RenderType(opt.Inner)
	}
	if strings.HasSuffix(name, "?") {
		return paramName(strings.TrimSuffix(name, "?")) + "?: " + RenderType(p.Type)
	}
	return paramName(name) + ": " + RenderType(p.Type)
}

// jsdoc emits a documentation block, folding parameter descriptions into
// @param tags.
func (e *emitter) jsdoc(doc ir.Documentation, params []ir.Param) {
	if !e.cfg.EmitComments {
		return
	}
	var tags []string
	for _, p := range params {
		if p.Description != "" {
			tags = append(tags, "@param "+strings.TrimSuffix(p.Name, "?")+" "+p.Description)
		}
	}
	if doc.IsZero() && len(tags) == 0 {
		return
	}

	lines := []string{}
	if !doc.IsZero() {
		lines = strings.Split(doc.Body, "\n")
	}
	if len(lines) == 1 && len(tags) == 0 {
		e.buf.WriteString("/** " + strings.TrimSpace(lines[0]) + " */\n")
		return
	}
	e.buf.WriteString("/**\n")
	for _, line := range lines {
		e.buf.WriteString(" * " + strings.TrimSpace(line) + "\n")
	}
	for _, tag := range tags {
		e.buf.WriteString(" * " + tag + "\n")
	}
	e.buf.WriteString(" */\n")
}

// jsdocInline emits a single-line doc comment for fields and members; the
// caller has already written the indent.
func (e *emitter) jsdocInline(doc ir.Documentation) {
	e.buf.WriteString("/** " + strings.ReplaceAll(strings.TrimSpace(doc.Body), "\n", " ") + " */\n")
}

// formatEnumValue formats an enum member value for output.
func formatEnumValue(value any) string {
	switch v := value.(type) {
	case ir.RawLiteral:
		return string(v)
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

func mergeSets(a, b map[string]bool) map[string]bool {
	out := make(map[string]bool, len(a)+len(b))
	for k := range a {
		out[k] = true
	}
	for k := range b {
		out[k] = true
	}
	return out
}
