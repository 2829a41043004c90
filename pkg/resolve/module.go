package resolve

import (
	"github.com/gnana997/uidocgen/pkg/ast"
)

var reactModules = map[string]bool{
	"react":               true,
	"react/addons":        true,
	"legacy-react":        true,
	"legacy-react/addons": true,
	"react-native":        true,
	"proptypes":           true,
	"prop-types":          true,
}

// IsReactModuleName reports whether a module specifier names React or one
// of the packages that re-export its builtins. The match is case-sensitive.
func IsReactModuleName(name string) bool {
	return reactModules[name]
}

// IsRequireCall reports whether p is `require('literal')` with an unbound
// require.
func IsRequireCall(p ast.Path) bool {
	_, ok := requireSource(p)
	return ok
}

func requireSource(p ast.Path) (string, bool) {
	if !p.Is(ast.KindCallExpression) {
		return "", false
	}
	callee := p.Field("function")
	if !callee.Is(ast.KindIdentifier) || callee.Text() != "require" || callee.Lookup("require") != nil {
		return "", false
	}
	args := p.Field("arguments").NamedChildren()
	if len(args) != 1 {
		return "", false
	}
	return ast.StringValue(args[0])
}

// ToModule returns the module specifier p ultimately comes from, or "".
// Relative specifiers are returned as written.
func ToModule(p ast.Path) string {
	return toModule(p, 0)
}

func toModule(p ast.Path, depth int) string {
	if p.IsNil() || depth > maxResolveDepth {
		return ""
	}
	p = ast.Unparen(p)

	switch p.Kind() {
	case ast.KindVariableDeclarator:
		return toModule(p.Field("value"), depth+1)

	case ast.KindCallExpression:
		if source, ok := requireSource(p); ok {
			return source
		}
		return toModule(p.Field("function"), depth+1)

	case ast.KindIdentifier, ast.KindTypeIdentifier, ast.KindShorthandProperty:
		b := p.Lookup(p.Text())
		if b == nil {
			return ""
		}
		if b.Kind == ast.BindingImport {
			return b.Source
		}
		if v := toValue(p, depth+1); !v.Same(p) {
			return toModule(v, depth+1)
		}
		if b.Kind == ast.BindingVariable && b.Declaration.Is(ast.KindVariableDeclarator) {
			// Unresolved destructuring: `const { X } = require('m')`.
			return toModule(b.Declaration.Field("value"), depth+1)
		}

	case ast.KindImportStatement:
		source, _ := ast.StringValue(p.Field("source"))
		return source

	case ast.KindMemberExpression, ast.KindSubscript:
		for p.Is(ast.KindMemberExpression, ast.KindSubscript) {
			p = ast.Unparen(p.Field("object"))
		}
		return toModule(p, depth+1)
	}
	return ""
}

// IsReactBuiltinReference reports whether p refers to the builtin name
// exported by a React module: `React.name`, `import { name } from 'react'`
// or `const { name } = React`.
func IsReactBuiltinReference(p ast.Path, name string) bool {
	return isReactBuiltinReference(p, name, 0)
}

func isReactBuiltinReference(p ast.Path, name string, depth int) bool {
	if depth > maxResolveDepth {
		return false
	}
	p = ast.Unparen(p)

	switch p.Kind() {
	case ast.KindMemberExpression:
		if p.Field("property").Text() != name {
			return false
		}
		return IsReactModuleName(ToModule(p.Field("object")))

	case ast.KindIdentifier:
		b := p.Lookup(p.Text())
		if b == nil {
			return false
		}
		switch b.Kind {
		case ast.BindingImport:
			return b.Imported == name && IsReactModuleName(b.Source)
		case ast.BindingVariable:
			if key, ok := destructuredKey(b); ok {
				return key == name && IsReactModuleName(ToModule(b.Declaration.Field("value")))
			}
			if v := toValue(p, depth+1); !v.Same(p) {
				return isReactBuiltinReference(v, name, depth+1)
			}
		}
	}
	return false
}

// IsReactBuiltinCall reports whether p calls the React builtin name.
func IsReactBuiltinCall(p ast.Path, name string) bool {
	p = ast.Unparen(p)
	if !p.Is(ast.KindCallExpression) {
		return false
	}
	return IsReactBuiltinReference(p.Field("function"), name)
}
