package provider

import (
	"strings"

	"github.com/luadts/luadts/luagen/annotation"
	"github.com/luadts/luadts/luagen/ir"
	"github.com/luadts/luadts/luagen/typeexpr"
)

// primitiveLike are supertype names that make an annotated class an opaque
// handle: structurally the class is just a renamed primitive, so it is
// emitted as a type alias instead of an interface.
var primitiveLike = map[string]bool{
	"integer": true, "int": true, "uint": true, "number": true,
	"float": true, "double": true, "string": true, "boolean": true,
	"bool": true, "userdata": true, "lightuserdata": true,
}

// synthesizer turns statement/block pairs into declarations for one file.
// It is created per file and never shared across goroutines.
type synthesizer struct {
	file *ir.File

	// pendingGenerics accumulates module-level @generic directives; a
	// class directive without its own angle clause consumes them.
	pendingGenerics []string

	// fnIndex maps a qualified function name to its declaration index,
	// for overload merging.
	fnIndex map[string]int

	// typeNames tracks declared class/enum/alias names for the
	// one-per-name invariant.
	typeNames map[string]bool
}

func newSynthesizer(file *ir.File) *synthesizer {
	return &synthesizer{
		file:      file,
		fnIndex:   make(map[string]int),
		typeNames: make(map[string]bool),
	}
}

// synthesize produces the declarations for one statement and its block.
// stmt is nil for orphaned blocks. Directive content decides the outcome
// with priority class > enum > object > alias.
func (s *synthesizer) synthesize(stmt *Statement, block *Block) {
	doc, generics := s.digest(block)
	s.pendingGenerics = append(s.pendingGenerics, generics...)

	if d := findDirective(block, annotation.KindClass); d != nil {
		s.class(stmt, block, d, doc)
		return
	}
	if d := findDirective(block, annotation.KindEnum); d != nil {
		if stmt != nil && stmt.Kind == StmtAssign && stmt.IsTable {
			s.enum(stmt, d, doc)
			return
		}
		if stmt == nil {
			// An enum separated from its table by a blank line still
			// declares the type; the members are simply unknown.
			s.enum(nil, d, doc)
			s.aliases(block)
			return
		}
	}

	if stmt != nil {
		switch {
		case stmt.Kind == StmtFunction:
			s.function(stmt, block, doc)
			return
		case stmt.Kind == StmtAssign && stmt.IsTable:
			s.object(stmt, doc)
			s.aliases(block)
			return
		case stmt.Kind == StmtReturn && stmt.ReturnName != "" && !block.hasDirectives():
			decl := &ir.ExportDecl{Name: stmt.ReturnName}
			decl.Source = s.src(stmt.StartLine)
			s.file.AddDecl(decl)
			return
		case stmt.Kind == StmtOther && strings.TrimSpace(stmt.Text) != "" && !block.empty():
			s.file.AddWarning(ir.Warning{
				Code:    ir.WarnUnrecognizedStatement,
				Message: "statement shape not recognized, skipped",
				Source:  ptrSrc(s.src(stmt.StartLine)),
			})
		}
	}

	s.aliases(block)

	if stmt == nil {
		// Statement-bound directives in a block no statement claimed
		// document nothing; the author probably left a blank line.
		for _, d := range block.Directives {
			switch d.Kind {
			case annotation.KindField, annotation.KindParam, annotation.KindReturn:
				s.file.AddWarning(ir.Warning{
					Code:    ir.WarnOrphanedComment,
					Message: "@" + string(d.Kind) + " directive attaches to no statement",
					Source:  ptrSrc(s.src(d.Line)),
				})
			}
		}
	}
}

// digest separates the block's plain comment text from @generic
// accumulation and records @meta.
func (s *synthesizer) digest(block *Block) (ir.Documentation, []string) {
	var commentLines []string
	var generics []string
	for _, d := range block.Directives {
		switch d.Kind {
		case annotation.KindComment:
			if d.Description != "" {
				commentLines = append(commentLines, d.Description)
			}
		case annotation.KindGeneric:
			generics = append(generics, d.Name)
		case annotation.KindMeta:
			s.file.Meta = true
		}
	}
	return makeDoc(commentLines), generics
}

func (s *synthesizer) class(stmt *Statement, block *Block, d *annotation.Directive, doc ir.Documentation) {
	if !s.claimTypeName(d.Name, d.Line) {
		return
	}
	decl := &ir.ClassDecl{
		Name:     d.Name,
		Generics: d.Generics,
		Extends:  d.Extends,
	}
	decl.Documentation = doc
	decl.Source = s.src(d.Line)

	if len(decl.Generics) == 0 && len(s.pendingGenerics) > 0 {
		decl.Generics = s.pendingGenerics
		s.pendingGenerics = nil
	}

	if d.Extends != "" {
		if primitiveLike[d.Extends] {
			// Opaque handle: the class is a renamed primitive.
			typ, _, err := typeexpr.Parse(d.Extends, d.Line)
			if err == nil {
				decl.AliasOf = typ
				decl.Extends = ""
			}
		} else {
			s.file.AddUsedNames(d.Extends)
		}
	}

	for _, fd := range block.Directives {
		if fd.Kind != annotation.KindField {
			continue
		}
		decl.Fields = append(decl.Fields, ir.FieldDecl{
			Name:          fd.Name,
			Type:          fd.Type,
			Documentation: makeDoc(descLines(fd.Description)),
		})
		s.file.AddUsedNames(fd.UsedNames...)
	}
	s.file.AddDecl(decl)
}

func (s *synthesizer) enum(stmt *Statement, d *annotation.Directive, doc ir.Documentation) {
	if !s.claimTypeName(d.Name, d.Line) {
		return
	}
	decl := &ir.EnumDecl{Name: d.Name}
	decl.Documentation = doc
	decl.Source = s.src(d.Line)
	if stmt == nil {
		s.file.AddDecl(decl)
		return
	}
	for _, f := range stmt.TableFields {
		m := ir.EnumMember{Name: f.Key}
		switch {
		case f.Quoted:
			m.Value = f.Value
		case f.Numeric:
			m.Value = ir.RawLiteral(f.Value)
		default:
			// Non-literal values are defensively stringified.
			m.Value = f.Value
		}
		decl.Members = append(decl.Members, m)
	}
	s.file.AddDecl(decl)
}

func (s *synthesizer) function(stmt *Statement, block *Block, doc ir.Documentation) {
	decl := &ir.FunctionDecl{
		Name:   stmt.Name,
		Static: !ir.IsMethodName(stmt.Name),
	}
	decl.Documentation = doc
	decl.Source = s.src(stmt.StartLine)

	if len(s.pendingGenerics) > 0 {
		decl.Generics = s.pendingGenerics
		s.pendingGenerics = nil
	}

	var returns []ir.TypeDescriptor
	hasParamDirectives := false
	for _, d := range block.Directives {
		switch d.Kind {
		case annotation.KindParam:
			hasParamDirectives = true
			if d.Name == "self" {
				// A documented self parameter marks an instance
				// method written with dot syntax.
				decl.Static = false
				continue
			}
			p := ir.Param{Name: d.Name, Type: d.Type, Description: d.Description}
			if d.Name == "..." {
				p = variadicParam(d.Type)
				p.Description = d.Description
			}
			decl.Params = append(decl.Params, p)
			s.file.AddUsedNames(d.UsedNames...)
		case annotation.KindReturn:
			returns = append(returns, d.Type)
			s.file.AddUsedNames(d.UsedNames...)
		}
	}

	if !hasParamDirectives {
		// No directives: lift parameter names from the structural list,
		// typed with the permissive catch-all.
		for _, name := range stmt.Params {
			if name == "self" {
				decl.Static = false
				continue
			}
			if name == "..." {
				decl.Params = append(decl.Params, variadicParam(ir.Simple("any")))
				continue
			}
			decl.Params = append(decl.Params, ir.Param{Name: name, Type: ir.Simple("any")})
		}
	} else if len(stmt.Params) > 0 && stmt.Params[len(stmt.Params)-1] == "..." && !hasVariadic(decl.Params) {
		decl.Params = append(decl.Params, variadicParam(ir.Simple("any")))
	}

	switch len(returns) {
	case 0:
	case 1:
		decl.Return = returns[0]
	default:
		decl.Return = ir.Tuple(returns...)
	}

	if i, ok := s.fnIndex[decl.Name]; ok {
		existing := s.file.Decls[i].(*ir.FunctionDecl)
		s.file.Decls[i] = MergeOverloads(existing, decl)
		return
	}
	s.fnIndex[decl.Name] = len(s.file.Decls)
	s.file.AddDecl(decl)
}

func (s *synthesizer) object(stmt *Statement, doc ir.Documentation) {
	decl := &ir.ObjectDecl{Name: stmt.Target}
	decl.Documentation = doc
	decl.Source = s.src(stmt.StartLine)
	s.file.AddDecl(decl)
}

// aliases synthesizes the block's @alias directives. Aliases are standalone
// module-level declarations, so they survive orphaned blocks too.
func (s *synthesizer) aliases(block *Block) {
	for _, d := range block.Directives {
		if d.Kind != annotation.KindAlias {
			continue
		}
		if !s.claimTypeName(d.Name, d.Line) {
			continue
		}
		decl := &ir.AliasDecl{Name: d.Name, Type: d.Type}
		decl.Source = s.src(d.Line)
		s.file.AddDecl(decl)
		s.file.AddUsedNames(d.UsedNames...)
	}
}

// claimTypeName enforces the one class/enum/alias per name invariant.
func (s *synthesizer) claimTypeName(name string, line int) bool {
	if s.typeNames[name] {
		s.file.AddWarning(ir.Warning{
			Code:    ir.WarnDuplicateDecl,
			Message: "type " + name + " already declared in this file, later declaration skipped",
			Source:  ptrSrc(s.src(line)),
			Symbol:  name,
		})
		return false
	}
	s.typeNames[name] = true
	return true
}

func (s *synthesizer) src(line int) ir.Source {
	return ir.Source{File: s.file.Path, Line: line}
}

func (b *Block) hasDirectives() bool {
	for _, d := range b.Directives {
		if d.Kind != annotation.KindComment {
			return true
		}
	}
	return false
}

func findDirective(b *Block, kind annotation.Kind) *annotation.Directive {
	for i := range b.Directives {
		if b.Directives[i].Kind == kind {
			return &b.Directives[i]
		}
	}
	return nil
}

func variadicParam(elem ir.TypeDescriptor) ir.Param {
	return ir.Param{Name: "args", Type: elem, Variadic: true}
}

func hasVariadic(params []ir.Param) bool {
	for _, p := range params {
		if p.Variadic {
			return true
		}
	}
	return false
}

func makeDoc(lines []string) ir.Documentation {
	if len(lines) == 0 {
		return ir.Documentation{}
	}
	return ir.Documentation{
		Summary: lines[0],
		Body:    strings.Join(lines, "\n"),
	}
}

func descLines(desc string) []string {
	if desc == "" {
		return nil
	}
	return []string{desc}
}

func ptrSrc(s ir.Source) *ir.Source { return &s }
