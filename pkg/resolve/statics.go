package resolve

import (
	"fmt"

	"github.com/gnana997/uidocgen/pkg/ast"
	"github.com/gnana997/uidocgen/pkg/parser/queries"
)

// UnsupportedShapeError reports a definition whose shape the member lookup
// cannot handle.
type UnsupportedShapeError struct {
	Kind   string
	Detail string
}

func (e *UnsupportedShapeError) Error() string {
	return fmt.Sprintf("unsupported %s: %s", e.Kind, e.Detail)
}

// synonyms pairs members that stand in for each other when absent.
var synonyms = map[string]string{
	"defaultProps":    "getDefaultProps",
	"getDefaultProps": "defaultProps",
}

// MemberValuePath returns the value of the static member name of a
// component definition: object literal properties, class fields and
// methods, and `Name.member = value` assignments following the definition.
// Function-valued members are replaced by their first return value.
func MemberValuePath(def ast.Path, name string) (ast.Path, error) {
	return memberValuePath(def, name, 0)
}

func memberValuePath(def ast.Path, name string, depth int) (ast.Path, error) {
	v, err := memberValue(def, name, depth)
	if err != nil {
		return ast.Path{}, err
	}
	if syn, ok := synonyms[name]; ok && v.IsNil() {
		if v, err = memberValue(def, syn, depth); err != nil {
			return ast.Path{}, err
		}
	}
	if ast.IsFunction(v) {
		v = functionReturnValue(v, depth+1)
	}
	return v, nil
}

func memberValue(def ast.Path, name string, depth int) (ast.Path, error) {
	switch {
	case def.Is(ast.KindObject):
		return propertyValue(def, name, depth), nil
	case ast.IsClass(def):
		if v := ClassMember(def, name); !v.IsNil() {
			return v, nil
		}
		return staticValue(def, name)
	case ast.IsFunction(def), def.Is(ast.KindCallExpression):
		return staticValue(def, name)
	default:
		return ast.Path{}, &UnsupportedShapeError{Kind: def.Kind(), Detail: "member lookup is not supported"}
	}
}

func staticValue(def ast.Path, name string) (ast.Path, error) {
	members, err := Statics(def)
	if err != nil {
		return ast.Path{}, err
	}
	var found ast.Path
	for _, m := range members {
		if m.Name == name {
			found = m.Value
		}
	}
	return found, nil
}

// Statics returns the `Name.member = value` statements attached to a
// definition after its declaration. The result is cached on the file.
func Statics(def ast.Path) ([]ast.StaticMember, error) {
	name, err := DefinitionName(def)
	if err != nil || name.IsNil() {
		return nil, err
	}
	b := name.Lookup(name.Text())
	if b == nil {
		return nil, nil
	}
	return def.File().Statics(def, func() []ast.StaticMember {
		return collectStatics(b)
	}), nil
}

func collectStatics(b *ast.Binding) []ast.StaticMember {
	f := b.Scope.File()
	matches, err := f.Query(queries.QueryTypeStatics, b.Scope)
	if err != nil {
		return nil
	}

	home := b.Scope
	if !ast.IsFunction(home) {
		home = home.EnclosingFunction()
	}

	var members []ast.StaticMember
	for _, m := range matches {
		stmt := ast.NewPath(f, m.Capture("static.statement").Node)
		id := ast.NewPath(f, m.Capture("static.class").Node)
		if !stmt.EnclosingFunction().Same(home) || id.Lookup(id.Text()) != b {
			continue
		}
		members = append(members, ast.StaticMember{
			Name:      m.Capture("static.name").Text,
			Value:     ast.NewPath(f, m.Capture("static.value").Node),
			Statement: stmt,
		})
	}
	return members
}

// DefinitionName returns the identifier a definition is reachable by:
// the name of a function or class declaration, or the variable an
// expression is assigned to when declared (`const A = hoc(() => ...)`).
// The zero Path means the definition is anonymous.
func DefinitionName(def ast.Path) (ast.Path, error) {
	switch {
	case def.Is(ast.KindFunctionDeclaration, ast.KindGeneratorFunctionDeclaration,
		ast.KindClassDeclaration, ast.KindAbstractClassDeclaration):
		if name := def.Field("name"); !name.IsNil() {
			return name, nil
		}
		return ast.Path{}, nil
	case def.Is(ast.KindObject, ast.KindMethodDefinition):
		return ast.Path{}, nil
	case ast.IsFunction(def), ast.IsClass(def), def.Is(ast.KindCallExpression):
	default:
		return ast.Path{}, &UnsupportedShapeError{Kind: def.Kind(), Detail: "cannot name definition"}
	}

	for cur := def.Parent(); !cur.IsNil(); cur = cur.Parent() {
		if cur.Is(ast.KindVariableDeclarator) {
			decl := cur.Parent()
			n := 0
			for _, d := range decl.NamedChildren() {
				if d.Is(ast.KindVariableDeclarator) {
					n++
				}
			}
			if n > 1 {
				return ast.Path{}, &UnsupportedShapeError{
					Kind:   decl.Kind(),
					Detail: fmt.Sprintf("expected a single declarator, got %d", n),
				}
			}
			if name := cur.Field("name"); name.Is(ast.KindIdentifier) {
				return name, nil
			}
			return ast.Path{}, nil
		}
		if cur.Is(ast.KindExpressionStatement, ast.KindExportStatement, ast.KindReturnStatement,
			ast.KindStatementBlock, ast.KindProgram) || ast.IsFunction(cur) || ast.IsClass(cur) {
			break
		}
	}
	return ast.Path{}, nil
}
