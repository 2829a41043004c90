package resolve

import (
	"github.com/gnana997/uidocgen/pkg/ast"
)

// Returns lists the returned expressions of fn in source order. An
// expression-bodied arrow function returns its body. Nested functions and
// classes are not searched.
func Returns(fn ast.Path) []ast.Path {
	body := fn.Field("body")
	if body.IsNil() {
		return nil
	}
	if !body.Is(ast.KindStatementBlock) {
		return []ast.Path{body}
	}

	var out []ast.Path
	ast.Walk(body, func(p ast.Path) bool {
		if ast.IsFunction(p) || ast.IsClass(p) {
			return false
		}
		if p.Is(ast.KindReturnStatement) {
			if arg := p.FirstNamedChild(); !arg.IsNil() {
				out = append(out, arg)
			}
			return false
		}
		return true
	})
	return out
}

// FunctionReturnValue resolves the first value returned by fn, or returns
// the zero Path when fn returns nothing.
func FunctionReturnValue(fn ast.Path) ast.Path {
	return functionReturnValue(fn, 0)
}

func functionReturnValue(fn ast.Path, depth int) ast.Path {
	returns := Returns(fn)
	if len(returns) == 0 {
		return ast.Path{}
	}
	return toValue(returns[0], depth+1)
}

// Params returns the parameter nodes of a function, including the bare
// parameter of `x => ...`.
func Params(fn ast.Path) []ast.Path {
	if p := fn.Field("parameter"); !p.IsNil() {
		return []ast.Path{p}
	}
	return fn.Field("parameters").NamedChildren()
}
