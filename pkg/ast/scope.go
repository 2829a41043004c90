package ast

// BindingKind classifies how a name was introduced.
type BindingKind int

const (
	BindingVariable BindingKind = iota
	BindingFunction
	BindingClass
	BindingImport
	BindingParam
	BindingType
	BindingEnum
)

func (k BindingKind) String() string {
	switch k {
	case BindingVariable:
		return "variable"
	case BindingFunction:
		return "function"
	case BindingClass:
		return "class"
	case BindingImport:
		return "import"
	case BindingParam:
		return "param"
	case BindingType:
		return "type"
	case BindingEnum:
		return "enum"
	default:
		return "unknown"
	}
}

// Binding is one declared name.
type Binding struct {
	Name string
	Kind BindingKind

	// Identifier is the binding identifier itself.
	Identifier Path

	// Declaration is the declaring node: a variable_declarator, function,
	// class, import_statement, parameter or type declaration.
	Declaration Path

	// Scope is the node whose scope owns the binding.
	Scope Path

	// Source and Imported describe import bindings: the module specifier and
	// the exported name ("default", "*" or a named export).
	Source   string
	Imported string
}

func (b *Binding) inValueSpace() bool { return b.Kind != BindingType }

func (b *Binding) inTypeSpace() bool {
	switch b.Kind {
	case BindingType, BindingEnum, BindingClass, BindingImport:
		return true
	}
	return false
}

// Lookup finds the value binding visible at p for name, or nil.
func (p Path) Lookup(name string) *Binding {
	return p.lookup(name, (*Binding).inValueSpace)
}

// LookupType finds the type binding visible at p for name, or nil.
func (p Path) LookupType(name string) *Binding {
	return p.lookup(name, (*Binding).inTypeSpace)
}

func (p Path) lookup(name string, accept func(*Binding) bool) *Binding {
	if name == "" {
		return nil
	}
	for cur := p; !cur.IsNil(); cur = cur.Parent() {
		if !isScope(cur) {
			continue
		}
		for _, b := range cur.file.scopeTable(cur)[name] {
			if accept(b) {
				return b
			}
		}
	}
	return nil
}

// Assignments returns the right-hand sides of plain `name = value`
// assignments to b in its scope, in source order. Nested functions and
// classes are not searched.
func Assignments(b *Binding) []Path {
	if b == nil || b.Scope.IsNil() {
		return nil
	}
	var out []Path
	root := b.Scope
	Walk(root, func(p Path) bool {
		if !p.Same(root) && (IsFunction(p) || IsClass(p)) {
			return false
		}
		if p.Is(KindAssignment) {
			left := p.Field("left")
			if left.Is(KindIdentifier) && left.Text() == b.Name && left.Lookup(b.Name) == b {
				out = append(out, p.Field("right"))
			}
		}
		return true
	})
	return out
}

func isScope(p Path) bool {
	switch p.Kind() {
	case KindProgram, KindStatementBlock, "catch_clause", "for_statement", "for_in_statement":
		return true
	case KindClass:
		return p.IsNamed() && !p.Field("name").IsNil()
	}
	return IsFunction(p)
}

// scopeTable returns the bindings declared directly by scope.
func (f *File) scopeTable(scope Path) map[string][]*Binding {
	id := scope.Node().Id()

	f.mu.Lock()
	defer f.mu.Unlock()
	if table, ok := f.scopes[id]; ok {
		return table
	}

	table := make(map[string][]*Binding)
	c := collector{scope: scope, table: table}
	c.collect()
	f.scopes[id] = table
	return table
}

type collector struct {
	scope Path
	table map[string][]*Binding
}

func (c *collector) add(b *Binding) {
	b.Scope = c.scope
	c.table[b.Name] = append(c.table[b.Name], b)
}

func (c *collector) collect() {
	s := c.scope
	switch {
	case s.Is(KindProgram):
		c.statements(s, true)
	case s.Is(KindStatementBlock):
		c.statements(s, IsFunction(s.Parent()))
	case s.Is("catch_clause"):
		c.pattern(s.Field("parameter"), s, BindingParam)
	case s.Is("for_statement"):
		c.statement(s.Field("initializer"), true)
	case s.Is("for_in_statement"):
		if s.HasToken("let") || s.HasToken("const") || s.HasToken("var") {
			c.pattern(s.Field("left"), s, BindingVariable)
		}
	case s.Is(KindClass):
		name := s.Field("name")
		c.add(&Binding{Name: name.Text(), Kind: BindingClass, Identifier: name, Declaration: s})
	case IsFunction(s):
		c.function(s)
	}
}

func (c *collector) function(fn Path) {
	if fn.Is(KindFunctionExpression, KindGeneratorFunction) {
		if name := fn.Field("name"); !name.IsNil() {
			c.add(&Binding{Name: name.Text(), Kind: BindingFunction, Identifier: name, Declaration: fn})
		}
	}
	if param := fn.Field("parameter"); !param.IsNil() {
		c.pattern(param, param, BindingParam)
	}
	for _, param := range fn.Field("parameters").NamedChildren() {
		c.pattern(param, param, BindingParam)
	}
}

// statements declares the bindings of a statement list. With hoist set,
// var declarations nested in inner blocks are collected as well.
func (c *collector) statements(container Path, hoist bool) {
	for _, stmt := range container.NamedChildren() {
		c.statement(stmt, hoist)
		if hoist && !stmt.Is(KindVariableDeclaration) {
			c.hoistVars(stmt)
		}
	}
}

func (c *collector) statement(stmt Path, hoist bool) {
	switch stmt.Kind() {
	case KindLexicalDeclaration:
		c.declarators(stmt)
	case KindVariableDeclaration:
		if hoist {
			c.declarators(stmt)
		}
	case KindFunctionDeclaration, KindGeneratorFunctionDeclaration:
		name := stmt.Field("name")
		c.add(&Binding{Name: name.Text(), Kind: BindingFunction, Identifier: name, Declaration: stmt})
	case KindClassDeclaration, KindAbstractClassDeclaration:
		name := stmt.Field("name")
		c.add(&Binding{Name: name.Text(), Kind: BindingClass, Identifier: name, Declaration: stmt})
	case KindTypeAlias, KindInterface:
		name := stmt.Field("name")
		c.add(&Binding{Name: name.Text(), Kind: BindingType, Identifier: name, Declaration: stmt})
	case KindEnum:
		name := stmt.Field("name")
		c.add(&Binding{Name: name.Text(), Kind: BindingEnum, Identifier: name, Declaration: stmt})
	case KindImportStatement:
		c.imports(stmt)
	case KindExportStatement:
		if decl := stmt.Field("declaration"); !decl.IsNil() {
			c.statement(decl, hoist)
		}
	case KindAmbientDeclaration:
		for _, inner := range stmt.NamedChildren() {
			c.statement(inner, hoist)
		}
	}
}

func (c *collector) hoistVars(stmt Path) {
	for _, child := range stmt.NamedChildren() {
		Walk(child, func(p Path) bool {
			if IsFunction(p) || IsClass(p) {
				return false
			}
			if p.Is(KindVariableDeclaration) {
				c.declarators(p)
				return false
			}
			return true
		})
	}
}

func (c *collector) declarators(decl Path) {
	for _, d := range decl.NamedChildren() {
		if d.Is(KindVariableDeclarator) {
			c.pattern(d.Field("name"), d, BindingVariable)
		}
	}
}

// pattern binds every identifier of a binding pattern.
func (c *collector) pattern(p Path, decl Path, kind BindingKind) {
	switch p.Kind() {
	case KindIdentifier, KindShorthandPattern:
		c.add(&Binding{Name: p.Text(), Kind: kind, Identifier: p, Declaration: decl})
	case KindObjectPattern, KindArrayPattern:
		for _, child := range p.NamedChildren() {
			c.pattern(child, decl, kind)
		}
	case KindPairPattern:
		c.pattern(p.Field("value"), decl, kind)
	case KindObjectAssignment, KindAssignmentPattern:
		c.pattern(p.Field("left"), decl, kind)
	case KindRestPattern:
		c.pattern(p.FirstNamedChild(), decl, kind)
	case KindRequiredParameter, KindOptionalParameter:
		c.pattern(p.Field("pattern"), decl, kind)
	}
}

func (c *collector) imports(stmt Path) {
	source, _ := StringValue(stmt.Field("source"))
	for _, child := range stmt.NamedChildren() {
		switch child.Kind() {
		case KindImportClause:
			c.importClause(stmt, child, source)
		case KindImportRequireClause:
			src, _ := StringValue(child.Field("source"))
			id := child.Child(KindIdentifier)
			if !id.IsNil() {
				c.add(&Binding{Name: id.Text(), Kind: BindingImport, Identifier: id,
					Declaration: stmt, Source: src, Imported: "default"})
			}
		}
	}
}

func (c *collector) importClause(stmt, clause Path, source string) {
	for _, part := range clause.NamedChildren() {
		switch part.Kind() {
		case KindIdentifier:
			c.add(&Binding{Name: part.Text(), Kind: BindingImport, Identifier: part,
				Declaration: stmt, Source: source, Imported: "default"})
		case KindNamespaceImport:
			if id := part.Child(KindIdentifier); !id.IsNil() {
				c.add(&Binding{Name: id.Text(), Kind: BindingImport, Identifier: id,
					Declaration: stmt, Source: source, Imported: "*"})
			}
		case KindNamedImports:
			for _, spec := range part.NamedChildren() {
				if !spec.Is(KindImportSpecifier) {
					continue
				}
				name := spec.Field("name")
				local := spec.Field("alias")
				if local.IsNil() {
					local = name
				}
				imported := name.Text()
				if s, ok := StringValue(name); ok {
					imported = s
				}
				c.add(&Binding{Name: local.Text(), Kind: BindingImport, Identifier: local,
					Declaration: stmt, Source: source, Imported: imported})
			}
		}
	}
}
