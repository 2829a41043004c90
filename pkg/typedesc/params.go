package typedesc

import (
	"github.com/gnana997/uidocgen/pkg/ast"
)

// TypeParams maps generic parameter names to the actual types bound to them.
type TypeParams map[string]TypeArg

// TypeArg is an actual type argument together with the substitution map in
// effect where it was written.
type TypeArg struct {
	Type   ast.Path
	Params TypeParams
}

// TypeParameters pairs the formal parameters of a generic declaration with
// the actual arguments of an instantiation. Formals without an actual fall
// back to their default; formals with neither are left unbound.
//
// declParams is a type_parameters node; args are the types of a
// type_arguments node, written under params.
func TypeParameters(declParams ast.Path, args []ast.Path, params TypeParams) TypeParams {
	out := TypeParams{}
	i := 0
	for _, tp := range declParams.NamedChildren() {
		if !tp.Is(kindTypeParameter) {
			continue
		}
		name := tp.Field("name").Text()
		switch {
		case i < len(args):
			out[name] = TypeArg{Type: args[i], Params: params}
		default:
			// Defaults may refer to earlier formals of the same declaration.
			if def := tp.Field("value"); !def.IsNil() {
				out[name] = TypeArg{Type: def.FirstNamedChild(), Params: out}
			}
		}
		i++
	}
	return out
}

// typeArguments returns the types of a generic instantiation, or nil.
func typeArguments(p ast.Path) []ast.Path {
	if !p.Is(kindGenericType) {
		return nil
	}
	return p.Field("type_arguments").NamedChildren()
}
