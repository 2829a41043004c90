package resolve

import (
	"github.com/gnana997/uidocgen/pkg/ast"
	"github.com/gnana997/uidocgen/pkg/parser/queries"
)

// Export is one module-level export.
type Export struct {
	// Name is the exported name: "default", a named export, or "*" for
	// `export * from 'm'`.
	Name string

	// Value is the exported expression or declaration. It is nil for
	// re-exports, which carry Source and Imported instead.
	Value ast.Path

	Source   string
	Imported string

	// Statement is the export statement or CommonJS assignment.
	Statement ast.Path
}

// IsReexport reports whether the export forwards another module's export.
func (e Export) IsReexport() bool { return e.Source != "" }

// Exports lists the ES module and CommonJS exports of f in source order.
// Only module-level CommonJS assignments count.
func Exports(f *ast.File) ([]Export, error) {
	matches, err := f.Query(queries.QueryTypeExports, f.Root())
	if err != nil {
		return nil, err
	}

	var out []Export
	for _, m := range matches {
		if c := m.Capture("export.statement"); c != nil {
			out = append(out, exportStatement(ast.NewPath(f, c.Node))...)
			continue
		}

		var name string
		var value ast.Path
		if c := m.Capture("export.commonjs.default"); c != nil {
			name, value = "default", ast.NewPath(f, c.Node)
		} else if c := m.Capture("export.commonjs.name"); c != nil {
			name = c.Text
			value = ast.NewPath(f, m.Capture("export.commonjs.value").Node)
		} else {
			continue
		}
		assignment := value.Parent()
		if !assignment.EnclosingFunction().IsNil() {
			continue
		}
		out = append(out, Export{Name: name, Value: value, Statement: assignment})
	}
	return out, nil
}

func exportStatement(stmt ast.Path) []Export {
	isDefault := stmt.HasToken("default")

	if decl := stmt.Field("declaration"); !decl.IsNil() {
		if isDefault {
			return []Export{{Name: "default", Value: decl, Statement: stmt}}
		}
		return declarationExports(stmt, decl)
	}

	if value := stmt.Field("value"); !value.IsNil() {
		// `export default expr` and TypeScript's `export = expr`.
		return []Export{{Name: "default", Value: value, Statement: stmt}}
	}

	source, _ := ast.StringValue(stmt.Field("source"))
	if clause := stmt.Child(ast.KindExportClause); !clause.IsNil() {
		var out []Export
		for _, spec := range clause.NamedChildren() {
			if !spec.Is(ast.KindExportSpecifier) {
				continue
			}
			local := spec.Field("name")
			exported := spec.Field("alias")
			if exported.IsNil() {
				exported = local
			}
			e := Export{Name: specifierName(exported), Statement: stmt}
			if source != "" {
				e.Source, e.Imported = source, specifierName(local)
			} else {
				e.Value = local
			}
			out = append(out, e)
		}
		return out
	}
	if ns := stmt.Child(ast.KindNamespaceExport); !ns.IsNil() {
		name := ns.FirstNamedChild()
		return []Export{{Name: specifierName(name), Source: source, Imported: "*", Statement: stmt}}
	}
	if source != "" {
		return []Export{{Name: "*", Source: source, Imported: "*", Statement: stmt}}
	}
	if expr := stmt.FirstNamedChild(); stmt.HasToken("=") && !expr.IsNil() {
		return []Export{{Name: "default", Value: expr, Statement: stmt}}
	}
	return nil
}

func declarationExports(stmt, decl ast.Path) []Export {
	switch decl.Kind() {
	case ast.KindLexicalDeclaration, ast.KindVariableDeclaration:
		var out []Export
		for _, d := range decl.NamedChildren() {
			if name := d.Field("name"); d.Is(ast.KindVariableDeclarator) && name.Is(ast.KindIdentifier) {
				out = append(out, Export{Name: name.Text(), Value: name, Statement: stmt})
			}
		}
		return out
	case ast.KindAmbientDeclaration:
		var out []Export
		for _, inner := range decl.NamedChildren() {
			out = append(out, declarationExports(stmt, inner)...)
		}
		return out
	default:
		if name := ast.NameOf(decl); name != "" {
			return []Export{{Name: name, Value: decl, Statement: stmt}}
		}
	}
	return nil
}

func specifierName(p ast.Path) string {
	if s, ok := ast.StringValue(p); ok {
		return s
	}
	return p.Text()
}
