package typedesc

// Type-level node kinds of the TypeScript and TSX grammars. Flow files are
// parsed with the TSX grammar and share them.
const (
	kindPredefinedType       = "predefined_type"
	kindLiteralType          = "literal_type"
	kindTemplateLiteralType  = "template_literal_type"
	kindThisType             = "this_type"
	kindNestedTypeIdentifier = "nested_type_identifier"
	kindGenericType          = "generic_type"
	kindArrayType            = "array_type"
	kindUnionType            = "union_type"
	kindIntersectionType     = "intersection_type"
	kindTupleType            = "tuple_type"
	kindObjectType           = "object_type"
	kindInterfaceBody        = "interface_body"
	kindFunctionType         = "function_type"
	kindParenthesizedType    = "parenthesized_type"
	kindTypeQuery            = "type_query"
	kindIndexTypeQuery       = "index_type_query"
	kindLookupType           = "lookup_type"
	kindIndexedAccessType    = "indexed_access_type"
	kindMaybeType            = "flow_maybe_type"
	kindExistentialType      = "existential_type"
	kindReadonlyType         = "readonly_type"
	kindTypePredicate        = "type_predicate"

	kindPropertySignature  = "property_signature"
	kindMethodSignature    = "method_signature"
	kindCallSignature      = "call_signature"
	kindConstructSignature = "construct_signature"
	kindIndexSignature     = "index_signature"
	kindMappedTypeClause   = "mapped_type_clause"
	kindExtendsTypeClause  = "extends_type_clause"

	kindTypeParameter          = "type_parameter"
	kindTupleParameter         = "tuple_parameter"
	kindOptionalTupleParameter = "optional_tuple_parameter"
	kindOptionalType           = "optional_type"
	kindRestType               = "rest_type"

	kindOptingTypeAnnotation = "opting_type_annotation"
)

// annotationKinds wrap a type after a colon or in a return position.
var annotationKinds = []string{
	"type_annotation",
	"omitting_type_annotation",
	"adding_type_annotation",
	kindOptingTypeAnnotation,
	"type_predicate_annotation",
	"asserts_annotation",
}

// referenceKinds name a type, possibly with type arguments.
var referenceKinds = []string{
	"type_identifier",
	kindNestedTypeIdentifier,
	kindGenericType,
}
