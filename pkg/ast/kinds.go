package ast

// Node kinds shared by the JavaScript, TypeScript and TSX grammars.
const (
	KindProgram            = "program"
	KindComment            = "comment"
	KindIdentifier         = "identifier"
	KindPropertyIdentifier = "property_identifier"
	KindTypeIdentifier     = "type_identifier"
	KindShorthandProperty  = "shorthand_property_identifier"
	KindPrivateProperty    = "private_property_identifier"
	KindThis               = "this"
	KindString             = "string"
	KindTemplateString     = "template_string"
	KindNumber             = "number"
	KindTrue               = "true"
	KindFalse              = "false"
	KindNull               = "null"
	KindUndefined          = "undefined"
	KindRegex              = "regex"
	KindObject             = "object"
	KindArray              = "array"
	KindPair               = "pair"
	KindSpreadElement      = "spread_element"
	KindComputedProperty   = "computed_property_name"
	KindMemberExpression   = "member_expression"
	KindSubscript          = "subscript_expression"
	KindCallExpression     = "call_expression"
	KindNewExpression      = "new_expression"
	KindArguments          = "arguments"
	KindAssignment         = "assignment_expression"
	KindParenthesized      = "parenthesized_expression"
	KindBinaryExpression   = "binary_expression"
	KindUnaryExpression    = "unary_expression"
	KindTernary            = "ternary_expression"
	KindSequence           = "sequence_expression"
	KindAwait              = "await_expression"

	KindVariableDeclarator  = "variable_declarator"
	KindLexicalDeclaration  = "lexical_declaration"
	KindVariableDeclaration = "variable_declaration"
	KindExpressionStatement = "expression_statement"
	KindReturnStatement     = "return_statement"
	KindStatementBlock      = "statement_block"
	KindExportStatement     = "export_statement"
	KindExportClause        = "export_clause"
	KindExportSpecifier     = "export_specifier"
	KindImportStatement     = "import_statement"
	KindImportClause        = "import_clause"
	KindNamedImports        = "named_imports"
	KindImportSpecifier     = "import_specifier"
	KindNamespaceImport     = "namespace_import"
	KindNamespaceExport     = "namespace_export"
	KindImportRequireClause = "import_require_clause"

	KindFunctionDeclaration          = "function_declaration"
	KindGeneratorFunctionDeclaration = "generator_function_declaration"
	KindFunctionExpression           = "function_expression"
	KindGeneratorFunction            = "generator_function"
	KindArrowFunction                = "arrow_function"
	KindMethodDefinition             = "method_definition"
	KindFormalParameters             = "formal_parameters"

	KindClassDeclaration         = "class_declaration"
	KindAbstractClassDeclaration = "abstract_class_declaration"
	KindClass                    = "class"
	KindClassBody                = "class_body"
	KindClassHeritage            = "class_heritage"
	KindFieldDefinition          = "field_definition"
	KindPublicFieldDefinition    = "public_field_definition"

	KindJSXElement            = "jsx_element"
	KindJSXSelfClosingElement = "jsx_self_closing_element"
	KindJSXFragment           = "jsx_fragment"

	KindObjectPattern     = "object_pattern"
	KindArrayPattern      = "array_pattern"
	KindAssignmentPattern = "assignment_pattern"
	KindObjectAssignment  = "object_assignment_pattern"
	KindPairPattern       = "pair_pattern"
	KindRestPattern       = "rest_pattern"
	KindShorthandPattern  = "shorthand_property_identifier_pattern"
	KindRequiredParameter = "required_parameter"
	KindOptionalParameter = "optional_parameter"

	KindTypeAnnotation     = "type_annotation"
	KindTypeAlias          = "type_alias_declaration"
	KindInterface          = "interface_declaration"
	KindEnum               = "enum_declaration"
	KindAmbientDeclaration = "ambient_declaration"
	KindAsExpression       = "as_expression"
	KindSatisfies          = "satisfies_expression"
	KindNonNull            = "non_null_expression"
	KindTypeAssertion      = "type_assertion"
)

// FunctionKinds lists the function-like node kinds.
var FunctionKinds = []string{
	KindFunctionDeclaration,
	KindGeneratorFunctionDeclaration,
	KindFunctionExpression,
	KindGeneratorFunction,
	KindArrowFunction,
	KindMethodDefinition,
}

// ClassKinds lists class declaration and expression kinds.
var ClassKinds = []string{
	KindClassDeclaration,
	KindAbstractClassDeclaration,
	KindClass,
}

// JSXKinds lists node kinds that produce a JSX element.
var JSXKinds = []string{
	KindJSXElement,
	KindJSXSelfClosingElement,
	KindJSXFragment,
}

// IsFunction reports whether p is function-like.
func IsFunction(p Path) bool { return p.IsNamed() && p.Is(FunctionKinds...) }

// IsClass reports whether p is a class declaration or expression. The
// class expression shares its kind with the `class` keyword token.
func IsClass(p Path) bool { return p.IsNamed() && p.Is(ClassKinds...) }

// IsLiteral reports whether p is a primitive literal.
func IsLiteral(p Path) bool {
	return p.Is(KindString, KindTemplateString, KindNumber, KindTrue, KindFalse,
		KindNull, KindUndefined, KindRegex)
}

// Unparen strips parentheses and TypeScript-only expression wrappers
// (`x as T`, `x!`, `<T>x`, `x satisfies T`).
func Unparen(p Path) Path {
	for {
		switch p.Kind() {
		case KindParenthesized, KindAsExpression, KindSatisfies, KindNonNull, KindTypeAssertion:
			inner := p.FirstNamedChild()
			if p.Is(KindTypeAssertion) {
				// <T>expr: the expression follows the type arguments.
				if children := p.NamedChildren(); len(children) > 0 {
					inner = children[len(children)-1]
				}
			}
			if inner.IsNil() {
				return p
			}
			p = inner
		default:
			return p
		}
	}
}

// StringValue returns the unquoted contents of a string literal, or of a
// template literal without substitutions. ok is false for anything else.
func StringValue(p Path) (value string, ok bool) {
	switch p.Kind() {
	case KindString:
		text := p.Text()
		if len(text) >= 2 {
			return text[1 : len(text)-1], true
		}
		return "", true
	case KindTemplateString:
		if p.Child("template_substitution").IsNil() {
			text := p.Text()
			if len(text) >= 2 {
				return text[1 : len(text)-1], true
			}
		}
	}
	return "", false
}

// NameOf returns the identifier text naming a declaration: the name of a
// function, class, variable declarator or type declaration.
func NameOf(p Path) string {
	if p.Is(KindIdentifier, KindTypeIdentifier, KindPropertyIdentifier) {
		return p.Text()
	}
	name := p.Field("name")
	if name.Is(KindIdentifier, KindTypeIdentifier, KindPropertyIdentifier) {
		return name.Text()
	}
	return ""
}
