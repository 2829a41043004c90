// Package resolve follows identifiers, member accesses and imports back to
// the expressions that define them.
package resolve

import (
	"github.com/gnana997/uidocgen/pkg/ast"
)

// maxResolveDepth bounds resolution chains, including import cycles that
// cross files and so escape per-file seen-sets.
const maxResolveDepth = 64

// ToValue resolves p to the expression or declaration that defines its
// value. It never returns the zero Path for a non-nil input: when nothing
// better is known, p itself is returned.
func ToValue(p ast.Path) ast.Path {
	return toValue(p, 0)
}

func toValue(p ast.Path, depth int) ast.Path {
	if p.IsNil() || depth > maxResolveDepth {
		return p
	}

	switch p.Kind() {
	case ast.KindIdentifier, ast.KindTypeIdentifier, ast.KindShorthandProperty:
		return resolveIdentifier(p, depth)

	case ast.KindMemberExpression:
		return resolveMember(p, depth)

	case ast.KindCallExpression:
		if source, ok := requireSource(p); ok {
			if v := p.File().Import(source, "default"); !v.IsNil() {
				return toValue(v, depth+1)
			}
		}
		return p

	case ast.KindParenthesized, ast.KindAsExpression, ast.KindSatisfies, ast.KindNonNull, ast.KindTypeAssertion:
		inner := ast.Unparen(p)
		if inner.Same(p) {
			return p
		}
		return toValue(inner, depth+1)

	case ast.KindAssignment:
		if right := p.Field("right"); !right.IsNil() {
			return toValue(right, depth+1)
		}
	}

	return p
}

func resolveIdentifier(p ast.Path, depth int) ast.Path {
	name := p.Text()
	var b *ast.Binding
	if p.Is(ast.KindTypeIdentifier) {
		b = p.LookupType(name)
	} else {
		b = p.Lookup(name)
	}
	if b == nil {
		return p
	}

	switch b.Kind {
	case ast.BindingVariable:
		return resolveVariable(p, b, depth)
	case ast.BindingImport:
		return resolveImport(b, depth)
	case ast.BindingFunction, ast.BindingClass, ast.BindingType, ast.BindingEnum:
		return b.Declaration
	default:
		return p
	}
}

func resolveVariable(p ast.Path, b *ast.Binding, depth int) ast.Path {
	decl := b.Declaration
	if !decl.Is(ast.KindVariableDeclarator) {
		return p
	}

	if key, ok := destructuredKey(b); ok {
		source := decl.Field("value")
		if source.IsNil() {
			return p
		}
		if spec, ok := requireSource(ast.Unparen(source)); ok {
			if v := p.File().Import(spec, key); !v.IsNil() {
				return toValue(v, depth+1)
			}
			return p
		}
		obj := toValue(source, depth+1)
		if obj.Is(ast.KindObject) {
			if v := propertyValue(obj, key, depth+1); !v.IsNil() {
				return toValue(v, depth+1)
			}
		}
		return p
	}
	if !decl.Field("name").Same(b.Identifier) {
		// Nested or array patterns are not followed.
		return p
	}

	if rhs := ast.Assignments(b); len(rhs) > 0 {
		return toValue(rhs[len(rhs)-1], depth+1)
	}
	if init := decl.Field("value"); !init.IsNil() {
		return toValue(init, depth+1)
	}
	return p
}

func resolveImport(b *ast.Binding, depth int) ast.Path {
	if b.Imported == "*" {
		return b.Declaration
	}
	v := b.Declaration.File().Import(b.Source, b.Imported)
	if v.IsNil() {
		return b.Declaration
	}
	return toValue(v, depth+1)
}

func resolveMember(p ast.Path, depth int) ast.Path {
	object := ast.Unparen(p.Field("object"))
	name := p.Field("property").Text()
	f := p.File()

	if object.Is(ast.KindIdentifier) {
		if b := object.Lookup(object.Text()); b != nil && b.Kind == ast.BindingImport && b.Imported == "*" {
			if v := f.Import(b.Source, name); !v.IsNil() {
				return toValue(v, depth+1)
			}
			return p
		}
	}

	resolved := toValue(object, depth+1)
	switch {
	case resolved.Is(ast.KindObject):
		if v := propertyValue(resolved, name, depth+1); !v.IsNil() {
			return toValue(v, depth+1)
		}
	case resolved.Is(ast.KindCallExpression):
		if source, ok := requireSource(resolved); ok {
			if v := f.Import(source, name); !v.IsNil() {
				return toValue(v, depth+1)
			}
		}
	case ast.IsClass(resolved), ast.IsFunction(resolved):
		if v, err := memberValuePath(resolved, name, depth+1); err == nil && !v.IsNil() {
			return toValue(v, depth+1)
		}
	}
	return p
}

// destructuredKey returns the property read by a binding introduced by
// `const { key } = source` or `const { key: local = def } = source`.
// Only patterns directly under the declarator are recognised.
func destructuredKey(b *ast.Binding) (string, bool) {
	id := b.Identifier
	pattern := b.Declaration.Field("name")
	if !pattern.Is(ast.KindObjectPattern) {
		return "", false
	}

	node := id
	parent := id.Parent()
	if parent.Is(ast.KindObjectAssignment, ast.KindAssignmentPattern) && parent.Field("left").Same(id) {
		node = parent
		parent = parent.Parent()
	}

	var key string
	switch {
	case parent.Is(ast.KindPairPattern) && parent.Field("value").Same(node):
		key = PropertyName(parent.Field("key"))
		parent = parent.Parent()
	case id.Is(ast.KindShorthandPattern):
		key = id.Text()
	default:
		return "", false
	}

	if key == "" || !parent.Same(pattern) {
		return "", false
	}
	return key, true
}
