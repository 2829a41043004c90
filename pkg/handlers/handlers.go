// Package handlers fills in a docs.Documentation from a component
// definition. Each handler covers one concern and may observe what the
// handlers before it wrote; Default lists them in the order they must run.
package handlers

import (
	"github.com/gnana997/uidocgen/pkg/ast"
	"github.com/gnana997/uidocgen/pkg/docs"
	"github.com/gnana997/uidocgen/pkg/finder"
	"github.com/gnana997/uidocgen/pkg/resolve"
)

// Handler documents one aspect of the definition def. Errors are limited
// to definitions whose shape the member lookup does not support (see
// resolve.UnsupportedShapeError); anything else degrades silently.
type Handler func(doc *docs.Documentation, def ast.Path) error

// Default returns the standard handlers in the order they run.
func Default() []Handler {
	return []Handler{
		PropTypes,
		ContextTypes,
		ChildContextTypes,
		PropTypeComposition,
		PropDocblock,
		TypeAnnotations,
		DefaultProps,
		ComponentDocblock,
		DisplayName,
		ComponentMethods,
		ComponentMethodsJsDoc,
	}
}

// componentFunction returns the function implementing a stateless or
// forwardRef definition, or the zero Path for classes and createClass
// objects.
func componentFunction(def ast.Path) ast.Path {
	if finder.IsReactForwardRefCall(def) {
		args := ast.Unparen(def).Field("arguments").NamedChildren()
		if inner := resolve.ToValue(args[0]); ast.IsFunction(inner) {
			return inner
		}
		return ast.Path{}
	}
	if ast.IsFunction(def) {
		return def
	}
	return ast.Path{}
}

// propsParam returns the first parameter of a component function.
func propsParam(fn ast.Path) ast.Path {
	params := resolve.Params(fn)
	if len(params) == 0 {
		return ast.Path{}
	}
	return params[0]
}

// paramPattern returns the binding pattern of a parameter, looking through
// TypeScript's required_parameter and optional_parameter wrappers.
func paramPattern(param ast.Path) ast.Path {
	if param.Is(ast.KindRequiredParameter, ast.KindOptionalParameter) {
		return param.Field("pattern")
	}
	return param
}

// objectProperties returns the properties of an object literal, resolving
// spread arguments to object literals recursively. Spreads that do not
// resolve to an object literal are passed to unresolved, which may be nil.
func objectProperties(obj ast.Path, unresolved func(spread ast.Path)) []ast.Path {
	var out []ast.Path
	seen := make(map[ast.Key]bool)
	var walk func(obj ast.Path)
	walk = func(obj ast.Path) {
		if seen[obj.Key()] {
			return
		}
		seen[obj.Key()] = true
		for _, prop := range obj.NamedChildren() {
			switch {
			case prop.Is(ast.KindPair, ast.KindShorthandProperty):
				out = append(out, prop)
			case prop.Is(ast.KindSpreadElement):
				if v := resolve.ToValue(prop.FirstNamedChild()); v.Is(ast.KindObject) {
					walk(v)
				} else if unresolved != nil {
					unresolved(v)
				}
			}
		}
	}
	walk(obj)
	return out
}

// propertyValue returns the value of an object property; shorthand
// properties are their own value.
func propertyValue(prop ast.Path) ast.Path {
	if prop.Is(ast.KindPair) {
		return prop.Field("value")
	}
	return prop
}

// memberObject resolves the static member name of def to an object
// literal, or returns the zero Path.
func memberObject(def ast.Path, name string) (ast.Path, error) {
	v, err := resolve.MemberValuePath(def, name)
	if err != nil || v.IsNil() {
		return ast.Path{}, err
	}
	if v = resolve.ToValue(v); v.Is(ast.KindObject) {
		return v, nil
	}
	return ast.Path{}, nil
}
