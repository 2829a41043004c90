package finder

import (
	"regexp"

	"github.com/gnana997/uidocgen/pkg/ast"
	"github.com/gnana997/uidocgen/pkg/docblock"
	"github.com/gnana997/uidocgen/pkg/resolve"
)

// extendsDocblock marks a class that extends React.Component indirectly.
var extendsDocblock = regexp.MustCompile(`@extends\s+React\.Component\b`)

func callArguments(call ast.Path) []ast.Path {
	return call.Field("arguments").NamedChildren()
}

// IsReactCreateClassCall reports whether p is `React.createClass({...})` or
// a call to the create-react-class module, with exactly one argument.
func IsReactCreateClassCall(p ast.Path) bool {
	p = ast.Unparen(p)
	if !p.Is(ast.KindCallExpression) || len(callArguments(p)) != 1 {
		return false
	}
	callee := p.Field("function")
	if resolve.IsReactBuiltinReference(callee, "createClass") {
		return true
	}
	return resolve.ToModule(callee) == "create-react-class"
}

// IsReactForwardRefCall reports whether p calls React's forwardRef with at
// least one argument.
func IsReactForwardRefCall(p ast.Path) bool {
	p = ast.Unparen(p)
	return resolve.IsReactBuiltinCall(p, "forwardRef") && len(callArguments(p)) > 0
}

// IsReactComponentClass reports whether p is a class component: a class
// extending React's Component or PureComponent, a class without superclass
// that declares render, or a class documented with `@extends React.Component`.
func IsReactComponentClass(p ast.Path) bool {
	if !ast.IsClass(p) {
		return false
	}
	if extendsDocblock.MatchString(docblock.Nearest(p)) {
		return true
	}
	if super := SuperClass(p); !super.IsNil() {
		return resolve.IsReactBuiltinReference(super, "Component") ||
			resolve.IsReactBuiltinReference(super, "PureComponent")
	}
	return hasRender(p)
}

// SuperClass returns the expression a class extends, or the zero Path.
func SuperClass(class ast.Path) ast.Path {
	heritage := class.Child(ast.KindClassHeritage)
	if heritage.IsNil() {
		return ast.Path{}
	}
	if ext := heritage.Child("extends_clause"); !ext.IsNil() {
		return ext.Field("value")
	}
	if !heritage.Child("implements_clause").IsNil() {
		return ast.Path{}
	}
	return heritage.FirstNamedChild()
}

// SuperTypeArguments returns the type arguments of the extended class,
// `Component<Props, State>`, or nil.
func SuperTypeArguments(class ast.Path) []ast.Path {
	ext := class.Child(ast.KindClassHeritage).Child("extends_clause")
	if ext.IsNil() {
		return nil
	}
	return ext.Field("type_arguments").NamedChildren()
}

// hasRender reports whether the class declares an instance render method
// or field.
func hasRender(class ast.Path) bool {
	for _, member := range resolve.ClassBody(class) {
		if resolve.IsStatic(member) {
			continue
		}
		key := resolve.PropertyKey(member)
		if key.Is(ast.KindComputedProperty) || resolve.PropertyName(key) != "render" {
			continue
		}
		switch member.Kind() {
		case ast.KindMethodDefinition:
			if len(resolve.Params(member)) == 0 {
				return true
			}
		case ast.KindFieldDefinition, ast.KindPublicFieldDefinition:
			return true
		}
	}
	return false
}

// IsStatelessComponent reports whether p is a function that returns JSX or
// a React element.
func IsStatelessComponent(p ast.Path) bool {
	if !ast.IsFunction(p) {
		return false
	}
	t := &returnTracer{seen: make(map[ast.Key]bool)}
	return t.function(p, 0)
}

// returnTracer follows returned expressions. Calls are followed into the
// callee's own returns once.
type returnTracer struct {
	seen map[ast.Key]bool
}

func (t *returnTracer) function(fn ast.Path, calls int) bool {
	for _, ret := range resolve.Returns(fn) {
		if t.returnsJSX(ret, calls) {
			return true
		}
	}
	return false
}

func (t *returnTracer) returnsJSX(p ast.Path, calls int) bool {
	p = ast.Unparen(p)
	if p.IsNil() || t.seen[p.Key()] {
		return false
	}
	t.seen[p.Key()] = true

	switch {
	case p.Is(ast.JSXKinds...):
		return true

	case p.Is(ast.KindTernary):
		return t.returnsJSX(p.Field("consequence"), calls) || t.returnsJSX(p.Field("alternative"), calls)

	case p.Is(ast.KindBinaryExpression):
		switch p.Field("operator").Text() {
		case "&&", "||", "??":
			return t.returnsJSX(p.Field("left"), calls) || t.returnsJSX(p.Field("right"), calls)
		}

	case p.Is(ast.KindCallExpression):
		if isReactElementCall(p) {
			return true
		}
		if calls > 0 {
			return false
		}
		if callee := resolve.ToValue(p.Field("function")); ast.IsFunction(callee) {
			return t.function(callee, calls+1)
		}

	case p.Is(ast.KindIdentifier, ast.KindMemberExpression):
		if v := resolve.ToValue(p); !v.Same(p) {
			return t.returnsJSX(v, calls)
		}
	}
	return false
}

// isReactElementCall reports whether call creates or clones an element, or
// goes through React.Children.
func isReactElementCall(call ast.Path) bool {
	if resolve.IsReactBuiltinCall(call, "createElement") || resolve.IsReactBuiltinCall(call, "cloneElement") {
		return true
	}
	callee := ast.Unparen(call.Field("function"))
	return callee.Is(ast.KindMemberExpression) &&
		resolve.IsReactBuiltinReference(callee.Field("object"), "Children")
}

// IsComponentDefinition reports whether p is any kind of component
// definition.
func IsComponentDefinition(p ast.Path) bool {
	return IsReactCreateClassCall(p) || IsReactComponentClass(p) ||
		IsReactForwardRefCall(p) || IsStatelessComponent(p)
}
