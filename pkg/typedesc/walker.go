package typedesc

import (
	"strings"

	"github.com/gnana997/uidocgen/pkg/ast"
	"github.com/gnana997/uidocgen/pkg/docblock"
	"github.com/gnana997/uidocgen/pkg/resolve"
)

// maxTypeDepth bounds nesting for chains the cycle checks cannot see, such
// as distinct generic instantiations that keep growing.
const maxTypeDepth = 50

// dialect is the node-kind dispatch of one annotation syntax.
type dialect interface {
	// dispatch describes p, or returns nil for kinds the dialect does not know.
	dispatch(w *walker, p ast.Path, params TypeParams) Type

	// builtin describes type names with a meaning of their own in the
	// dialect. ok is false for ordinary names.
	builtin(w *walker, ref ast.Path, name string, args []ast.Path, params TypeParams) (t Type, ok bool)

	// utility reports whether name is a single-argument wrapper that is
	// described as its argument.
	utility(name string) bool
}

// walker carries the state of one top-level descriptor computation.
type walker struct {
	dialect dialect

	// visiting holds the declarations currently being expanded.
	visiting map[visitKey]bool
	// memo holds completed non-generic aliases.
	memo  map[ast.Key]Type
	depth int
}

func newWalker(d dialect) *walker {
	return &walker{
		dialect:  d,
		visiting: make(map[visitKey]bool),
		memo:     make(map[ast.Key]Type),
	}
}

// visitKey identifies one expansion of a declaration: the declaration and
// the type arguments it was instantiated with, if any. Box<Box<T>> expands
// Box twice under different keys.
type visitKey struct {
	decl ast.Key
	args ast.Key
}

// dialectFor returns the dialect of the annotations in f.
func dialectFor(f *ast.File) dialect {
	if f != nil && f.IsFlow() {
		return flowWalker{}
	}
	return tsWalker{}
}

// get describes p. It never returns nil.
func (w *walker) get(p ast.Path, params TypeParams) Type {
	p = unwrap(p, w.dialect)
	if p.IsNil() || w.depth >= maxTypeDepth {
		return Unknown()
	}
	w.depth++
	defer func() { w.depth-- }()

	if t := w.dialect.dispatch(w, p, params); t != nil {
		return t
	}
	return Unknown()
}

// unwrap strips annotations, parentheses and utility wrappers.
func unwrap(p ast.Path, d dialect) ast.Path {
	for {
		switch {
		case p.Is(annotationKinds...), p.Is(kindParenthesizedType):
			inner := p.FirstNamedChild()
			if inner.IsNil() {
				return p
			}
			p = inner
		case p.Is(kindGenericType) && d.utility(p.Field("name").Text()):
			args := typeArguments(p)
			if len(args) == 0 {
				return p
			}
			p = args[0]
		default:
			return p
		}
	}
}

func (w *walker) primitive(p ast.Path) Type {
	name := strings.Join(strings.Fields(p.Text()), " ")
	if name == "unique symbol" {
		name = "symbol"
	}
	return simple(name)
}

func (w *walker) literalType(p ast.Path) Type {
	switch p.FirstNamedChild().Kind() {
	case ast.KindNull:
		return simple("null")
	case ast.KindUndefined:
		return simple("undefined")
	}
	return literal(p.Text())
}

// referenceName splits a type reference into its name and type arguments.
func referenceName(p ast.Path) (ast.Path, []ast.Path) {
	if p.Is(kindGenericType) {
		return p.Field("name"), typeArguments(p)
	}
	return p, nil
}

// reference describes a named type. Type parameters are substituted,
// aliases are expanded and everything else is described by name.
func (w *walker) reference(p ast.Path, params TypeParams) Type {
	name, args := referenceName(p)
	text := name.Text()

	if name.Is(ast.KindTypeIdentifier) {
		if arg, ok := params[text]; ok {
			if arg.Type.IsNil() {
				return simple(text)
			}
			return w.get(arg.Type, arg.Params)
		}
	}
	if t, ok := w.dialect.builtin(w, p, text, args, params); ok {
		return t
	}
	if name.Is(kindNestedTypeIdentifier) && isReactNamespace(name.Field("module")) {
		return w.nominal("React"+name.Field("name").Text(), p, args, params)
	}

	if decl := lookupType(name); decl.Is(ast.KindTypeAlias) {
		return w.alias(decl, args, params)
	}
	// Interfaces, classes, enums and names that cannot be followed.
	return w.nominal(text, p, args, params)
}

// nominal describes a type by name, with its type arguments if any.
func (w *walker) nominal(name string, p ast.Path, args []ast.Path, params TypeParams) Type {
	if len(args) == 0 {
		if raw := p.Text(); raw != name {
			return &Simple{Name: name, Raw: raw}
		}
		return simple(name)
	}
	elems := make([]Type, len(args))
	for i, arg := range args {
		elems[i] = w.get(arg, params)
	}
	return &Elements{Name: name, Raw: p.Text(), Elements: elems}
}

// alias expands a type alias under the substitution map of its
// instantiation. An alias reached again while it is being expanded is
// described by name.
func (w *walker) alias(decl ast.Path, args []ast.Path, params TypeParams) Type {
	key := visitKey{decl: decl.Key()}
	if len(args) > 0 {
		key.args = args[0].Parent().Key()
	}
	if w.visiting[key] {
		return simple(ast.NameOf(decl))
	}
	formals := decl.Field("type_parameters")
	generic := !formals.IsNil()
	if !generic {
		if t, ok := w.memo[key.decl]; ok {
			return t
		}
	}

	w.visiting[key] = true
	t := w.get(decl.Field("value"), TypeParameters(formals, args, params))
	delete(w.visiting, key)

	if !generic {
		w.memo[key.decl] = t
	}
	return t
}

func (w *walker) array(p ast.Path, params TypeParams) Type {
	return &Elements{
		Name:     "Array",
		Raw:      p.Text(),
		Elements: []Type{w.get(p.FirstNamedChild(), params)},
	}
}

// arrayOf describes Array<T> style references.
func (w *walker) arrayOf(p ast.Path, args []ast.Path, params TypeParams) Type {
	elems := make([]Type, len(args))
	for i, arg := range args {
		elems[i] = w.get(arg, params)
	}
	return &Elements{Name: "Array", Raw: p.Text(), Elements: elems}
}

// elements describes a union or intersection. The grammar nests them as
// binary nodes; they are flattened in source order.
func (w *walker) elements(p ast.Path, name string, params TypeParams) Type {
	var elems []Type
	var flatten func(ast.Path)
	flatten = func(n ast.Path) {
		for _, child := range n.NamedChildren() {
			if child.Is(p.Kind()) {
				flatten(child)
				continue
			}
			elems = append(elems, w.get(child, params))
		}
	}
	flatten(p)
	return &Elements{Name: name, Raw: p.Text(), Elements: elems}
}

func (w *walker) tuple(p ast.Path, params TypeParams) Type {
	elems := []Type{}
	for _, member := range p.NamedChildren() {
		switch member.Kind() {
		case kindTupleParameter, kindOptionalTupleParameter:
			elems = append(elems, w.get(member.Field("type"), params))
		case kindOptionalType, kindRestType:
			elems = append(elems, w.get(member.FirstNamedChild(), params))
		default:
			elems = append(elems, w.get(member, params))
		}
	}
	return &Elements{Name: "tuple", Raw: p.Text(), Elements: elems}
}

func newObjectSignature(raw string) *ObjectSignature {
	return &ObjectSignature{
		Name:      "signature",
		Type:      "object",
		Raw:       raw,
		Signature: ObjectSignatureBody{Properties: []ObjectProperty{}},
	}
}

func (w *walker) objectSignature(p ast.Path, params TypeParams) Type {
	sig := newObjectSignature(p.Text())
	w.members(p, params, sig)
	return sig
}

// members adds the members of an object type or interface body to sig.
func (w *walker) members(body ast.Path, params TypeParams, sig *ObjectSignature) {
	props := &sig.Signature.Properties
	for _, entry := range objectMembers(body) {
		if entry.spread != nil {
			if base := w.spreadSignature(entry.spread, params); base != nil {
				*props = append(*props, base.Signature.Properties...)
			}
			continue
		}
		member := entry.member
		switch member.Kind() {
		case kindPropertySignature, kindMethodSignature:
			value := w.memberType(member, params)
			*props = append(*props, ObjectProperty{
				Key:         MemberName(member),
				Value:       WithRequired(value, !IsOptional(member)),
				Description: docblock.Get(member),
			})
		case kindIndexSignature:
			keyType := w.get(member.Field("index_type"), params)
			if clause := member.Child(kindMappedTypeClause); !clause.IsNil() {
				keyType = w.get(clause.Field("type"), params)
			}
			annotation := member.Field("type")
			*props = append(*props, ObjectProperty{
				KeyType: keyType,
				Value:   WithRequired(w.get(annotation, params), !annotation.Is(kindOptingTypeAnnotation)),
			})
		case kindCallSignature, kindConstructSignature:
			sig.Signature.Constructor = w.functionSignature(member, params)
		}
	}
}

// spreadSignature describes the object type spread into another by
// `...T`. It returns nil when T cannot be followed to an object type.
func (w *walker) spreadSignature(s *objectSpread, params TypeParams) *ObjectSignature {
	if !s.node.IsNil() {
		return w.signature(s.node, params)
	}
	decl := s.declaration(w.dialect)
	var t Type
	switch {
	case decl.Is(ast.KindInterface):
		t = w.get(decl, TypeParameters(decl.Field("type_parameters"), nil, params))
	case decl.Is(ast.KindTypeAlias):
		t = w.alias(decl, nil, params)
	}
	sig, _ := t.(*ObjectSignature)
	return sig
}

func (w *walker) memberType(member ast.Path, params TypeParams) Type {
	if member.Is(kindMethodSignature) {
		return w.functionSignature(member, params)
	}
	return w.get(member.Field("type"), params)
}

// interfaceSignature describes an interface declaration, inlining the
// members of the interfaces it extends first. params is the substitution
// map of the interface's own type parameters.
func (w *walker) interfaceSignature(decl ast.Path, params TypeParams) Type {
	key := visitKey{decl: decl.Key()}
	if w.visiting[key] {
		return simple(ast.NameOf(decl))
	}
	w.visiting[key] = true
	defer delete(w.visiting, key)

	body := decl.Field("body")
	sig := newObjectSignature(body.Text())
	for _, ext := range extendsTypes(decl) {
		name, args := referenceName(ext)
		target := lookupType(name)
		var inherited Type
		switch {
		case target.Is(ast.KindInterface):
			inherited = w.get(target, TypeParameters(target.Field("type_parameters"), args, params))
		case target.Is(ast.KindTypeAlias):
			inherited = w.alias(target, args, params)
		}
		if base, ok := inherited.(*ObjectSignature); ok {
			sig.Signature.Properties = append(sig.Signature.Properties, base.Signature.Properties...)
		}
	}
	w.members(body, params, sig)
	return sig
}

func (w *walker) functionSignature(p ast.Path, params TypeParams) Type {
	sig := &FunctionSignature{
		Name:      "signature",
		Type:      "function",
		Raw:       p.Text(),
		Signature: FunctionSignatureBody{Arguments: []FunctionArgument{}},
	}
	for _, param := range p.Field("parameters").NamedChildren() {
		if !param.Is(ast.KindRequiredParameter, ast.KindOptionalParameter) {
			continue
		}
		pattern := param.Field("pattern")
		var typ Type
		if annotation := param.Field("type"); !annotation.IsNil() {
			typ = w.get(annotation, params)
		}
		if pattern.Is(ast.KindThis) {
			sig.Signature.This = typ
			continue
		}
		if _, flow := w.dialect.(flowWalker); flow && typ == nil && pattern.Is(ast.KindIdentifier) {
			sig.Signature.Arguments = append(sig.Signature.Arguments, FunctionArgument{
				Type: w.unnamedParamType(pattern, params),
			})
			continue
		}
		arg := FunctionArgument{Name: pattern.Text(), Type: typ}
		if pattern.Is(ast.KindRestPattern) {
			arg.Name = pattern.FirstNamedChild().Text()
			arg.Rest = true
		}
		sig.Signature.Arguments = append(sig.Signature.Arguments, arg)
	}

	ret := p.Field("return_type")
	if ret.IsNil() {
		ret = p.Field("type")
	}
	if !ret.IsNil() {
		sig.Signature.Return = w.get(ret, params)
	}
	return sig
}

// unnamedParamType describes a Flow function type parameter written
// without a name, as in `(string, Props) => void`. The grammar reads the
// type as the parameter's pattern.
func (w *walker) unnamedParamType(pattern ast.Path, params TypeParams) Type {
	name := pattern.Text()
	if arg, ok := params[name]; ok {
		if arg.Type.IsNil() {
			return simple(name)
		}
		return w.get(arg.Type, arg.Params)
	}
	if flowPrimitives[name] {
		return simple(name)
	}
	if t, ok := w.dialect.builtin(w, pattern, name, nil, params); ok {
		return t
	}
	if b := pattern.LookupType(name); b != nil && b.Declaration.Is(ast.KindTypeAlias) {
		return w.alias(b.Declaration, nil, params)
	}
	return simple(name)
}

// signature describes p as an object type, looking through interface
// references. It returns nil when p is not object-like.
func (w *walker) signature(p ast.Path, params TypeParams) *ObjectSignature {
	if sig, ok := w.get(p, params).(*ObjectSignature); ok {
		return sig
	}
	p = unwrap(p, w.dialect)
	if !p.Is(referenceKinds...) {
		return nil
	}
	name, args := referenceName(p)
	if name.Is(ast.KindTypeIdentifier) {
		if arg, ok := params[name.Text()]; ok {
			return w.signature(arg.Type, arg.Params)
		}
	}
	if decl := lookupType(name); decl.Is(ast.KindInterface) {
		sig, _ := w.get(decl, TypeParameters(decl.Field("type_parameters"), args, params)).(*ObjectSignature)
		return sig
	}
	return nil
}

// keysOf describes `keyof T` as the union of the literal keys of T. The
// operand may be an object type or `typeof` an object literal. It returns
// nil when the keys cannot be enumerated.
func (w *walker) keysOf(p, operand ast.Path, params TypeParams) Type {
	var keys []string
	if query := unwrap(operand, w.dialect); query.Is(kindTypeQuery) {
		keys = objectKeys(resolve.ToValue(query.FirstNamedChild()), 0)
	} else if sig := w.signature(operand, params); sig != nil {
		for _, prop := range sig.Signature.Properties {
			if prop.KeyType == nil {
				keys = append(keys, prop.Key)
			}
		}
	}
	if len(keys) == 0 {
		return nil
	}

	elems := make([]Type, len(keys))
	for i, key := range keys {
		elems[i] = literal("'" + key + "'")
	}
	return &Elements{Name: "union", Raw: p.Text(), Elements: elems}
}

// objectKeys lists the statically known keys of an object literal.
func objectKeys(obj ast.Path, depth int) []string {
	if !obj.Is(ast.KindObject) || depth > maxTypeDepth {
		return nil
	}
	var keys []string
	for _, prop := range obj.NamedChildren() {
		var name string
		switch prop.Kind() {
		case ast.KindPair, ast.KindMethodDefinition:
			name = resolve.PropertyName(resolve.PropertyKey(prop))
		case ast.KindShorthandProperty:
			name = prop.Text()
		case ast.KindSpreadElement:
			keys = append(keys, objectKeys(resolve.ToValue(prop.FirstNamedChild()), depth+1)...)
		}
		if name != "" && !strings.HasPrefix(name, resolve.ComputedPrefix) {
			keys = append(keys, name)
		}
	}
	return keys
}

// indexedAccess describes `T['key']` as the type of the property key of T.
// It returns nil when the property cannot be found.
func (w *walker) indexedAccess(p ast.Path, params TypeParams) Type {
	children := p.NamedChildren()
	if len(children) != 2 {
		return nil
	}
	key, ok := literalKey(unwrap(children[1], w.dialect))
	if !ok {
		return nil
	}
	sig := w.signature(children[0], params)
	if sig == nil {
		return nil
	}
	props := sig.Signature.Properties
	for i := len(props) - 1; i >= 0; i-- {
		if props[i].KeyType == nil && props[i].Key == key {
			return withoutRequired(props[i].Value)
		}
	}
	return nil
}

func literalKey(index ast.Path) (string, bool) {
	if !index.Is(kindLiteralType) {
		return "", false
	}
	inner := index.FirstNamedChild()
	if s, ok := ast.StringValue(inner); ok {
		return s, true
	}
	if inner.Is(ast.KindNumber) {
		return inner.Text(), true
	}
	return "", false
}

// typeQuery describes `typeof x`: the annotated type of the variable x
// when there is one, else the name of x.
func (w *walker) typeQuery(p ast.Path, params TypeParams) Type {
	target := p.FirstNamedChild()
	if target.Is(ast.KindIdentifier) {
		b := target.Lookup(target.Text())
		if b != nil && b.Kind == ast.BindingVariable && b.Declaration.Field("name").Same(b.Identifier) {
			if annotation := b.Declaration.Field("type"); !annotation.IsNil() {
				return w.get(annotation, params)
			}
		}
	}
	return simple(target.Text())
}

// lookupType resolves a type name to the declaration it refers to,
// following imports. It returns the zero path for names that cannot be
// followed.
func lookupType(name ast.Path) ast.Path {
	switch name.Kind() {
	case ast.KindTypeIdentifier:
		if decl := resolve.ToValue(name); !decl.Same(name) {
			return decl
		}
	case kindNestedTypeIdentifier:
		// ns.Name where ns is `import * as ns`.
		module := name.Field("module")
		if !module.Is(ast.KindIdentifier) {
			return ast.Path{}
		}
		b := module.Lookup(module.Text())
		if b == nil || b.Kind != ast.BindingImport || b.Imported != "*" {
			return ast.Path{}
		}
		if decl := b.Declaration.File().Import(b.Source, name.Field("name").Text()); !decl.IsNil() {
			return resolve.ToValue(decl)
		}
	}
	return ast.Path{}
}

// isReactNamespace reports whether a qualified type's module is React.
func isReactNamespace(module ast.Path) bool {
	if !module.Is(ast.KindIdentifier) {
		return false
	}
	b := module.Lookup(module.Text())
	if b == nil {
		return module.Text() == "React"
	}
	return b.Kind == ast.BindingImport && resolve.IsReactModuleName(b.Source)
}

// extendsTypes returns the types named in an interface's extends clause.
func extendsTypes(decl ast.Path) []ast.Path {
	clause := decl.Child(kindExtendsTypeClause)
	if clause.IsNil() {
		return nil
	}
	if types := clause.Fields("type"); len(types) > 0 {
		return types
	}
	return clause.NamedChildren()
}
