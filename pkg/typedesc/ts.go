package typedesc

import (
	"github.com/gnana997/uidocgen/pkg/ast"
)

// TSType describes a TypeScript type annotation. params binds the generic
// parameters in scope; it may be nil.
func TSType(p ast.Path, params TypeParams) Type {
	return newWalker(tsWalker{}).get(p, params)
}

// TypeOf describes p with the walker matching the dialect of its file.
func TypeOf(p ast.Path, params TypeParams) Type {
	return newWalker(dialectFor(p.File())).get(p, params)
}

type tsWalker struct{}

func (tsWalker) dispatch(w *walker, p ast.Path, params TypeParams) Type {
	switch p.Kind() {
	case kindPredefinedType:
		return w.primitive(p)
	case kindLiteralType:
		return w.literalType(p)
	case kindTemplateLiteralType:
		return literal(p.Text())
	case kindThisType, ast.KindThis:
		return simple("this")
	case kindTypePredicate:
		return simple("boolean")
	case ast.KindTypeIdentifier, kindNestedTypeIdentifier, kindGenericType:
		return w.reference(p, params)
	case kindArrayType:
		return w.array(p, params)
	case kindUnionType:
		return w.elements(p, "union", params)
	case kindIntersectionType:
		return w.elements(p, "intersection", params)
	case kindTupleType:
		return w.tuple(p, params)
	case kindObjectType, kindInterfaceBody:
		return w.objectSignature(p, params)
	case ast.KindInterface:
		return w.interfaceSignature(p, params)
	case ast.KindTypeAlias:
		return w.alias(p, nil, params)
	case kindFunctionType:
		return w.functionSignature(p, params)
	case kindTypeQuery:
		return w.typeQuery(p, params)
	case kindIndexTypeQuery:
		return w.keysOf(p, p.FirstNamedChild(), params)
	case kindLookupType, kindIndexedAccessType:
		return w.indexedAccess(p, params)
	case kindReadonlyType:
		return w.get(p.FirstNamedChild(), params)
	}
	return nil
}

func (tsWalker) builtin(w *walker, ref ast.Path, name string, args []ast.Path, params TypeParams) (Type, bool) {
	switch name {
	case "Array", "ReadonlyArray":
		if len(args) == 1 {
			return w.arrayOf(ref, args, params), true
		}
	}
	return nil, false
}

func (tsWalker) utility(name string) bool {
	return name == "Readonly"
}
