package typedesc

import (
	"github.com/gnana997/uidocgen/pkg/ast"
)

// FlowType describes a Flow type annotation. params binds the generic
// parameters in scope; it may be nil.
func FlowType(p ast.Path, params TypeParams) Type {
	return newWalker(flowWalker{}).get(p, params)
}

type flowWalker struct{}

var flowBuiltins = map[string]string{
	"mixed":    "mixed",
	"empty":    "empty",
	"Object":   "Object",
	"Function": "Function",
}

// flowPrimitives are the primitive type names a bare identifier can spell.
var flowPrimitives = map[string]bool{
	"string":  true,
	"number":  true,
	"boolean": true,
	"bool":    true,
	"bigint":  true,
	"symbol":  true,
	"any":     true,
	"void":    true,
	"null":    true,
}

func (flowWalker) dispatch(w *walker, p ast.Path, params TypeParams) Type {
	switch p.Kind() {
	case kindPredefinedType:
		return w.primitive(p)
	case kindLiteralType:
		return w.literalType(p)
	case kindTemplateLiteralType:
		return literal(p.Text())
	case kindThisType, ast.KindThis:
		return simple("this")
	case kindExistentialType:
		return simple("existential")
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
	case kindLookupType, kindIndexedAccessType:
		return w.indexedAccess(p, params)
	case kindMaybeType:
		return WithNullable(w.get(p.FirstNamedChild(), params))
	}
	return nil
}

func (flowWalker) builtin(w *walker, ref ast.Path, name string, args []ast.Path, params TypeParams) (Type, bool) {
	switch name {
	case "Array", "$ReadOnlyArray":
		if len(args) == 1 {
			return w.arrayOf(ref, args, params), true
		}
	case "$Keys":
		if len(args) == 1 {
			if t := w.keysOf(ref, args[0], params); t != nil {
				return t, true
			}
			return Unknown(), true
		}
	}
	if builtin, ok := flowBuiltins[name]; ok && len(args) == 0 {
		return simple(builtin), true
	}
	return nil, false
}

func (flowWalker) utility(name string) bool {
	return name == "$Exact" || name == "$ReadOnly"
}
