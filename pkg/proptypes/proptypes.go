// Package proptypes infers prop-type descriptors from runtime validator
// expressions such as `PropTypes.arrayOf(PropTypes.string).isRequired`.
package proptypes

import (
	"github.com/gnana997/uidocgen/pkg/ast"
	"github.com/gnana997/uidocgen/pkg/docblock"
	"github.com/gnana997/uidocgen/pkg/resolve"
)

// maxPropTypeDepth bounds combinator nesting reached through resolved values.
const maxPropTypeDepth = 32

// Descriptor describes one validator. Value holds the combinator payload:
// a string (computed or instanceOf values), a *Descriptor (arrayOf,
// objectOf), a []*Descriptor (oneOfType), a map[string]*Descriptor (shape,
// exact) or an []EnumValue (oneOf).
type Descriptor struct {
	Name        string `json:"name"`
	Value       any    `json:"value,omitempty"`
	Raw         string `json:"raw,omitempty"`
	Computed    bool   `json:"computed,omitempty"`
	Required    *bool  `json:"required,omitempty"`
	Description string `json:"description,omitempty"`
}

// EnumValue is one allowed value of a oneOf validator, as written.
type EnumValue struct {
	Value    string `json:"value"`
	Computed bool   `json:"computed"`
}

var simplePropTypes = map[string]bool{
	"array":       true,
	"bool":        true,
	"func":        true,
	"number":      true,
	"object":      true,
	"string":      true,
	"any":         true,
	"element":     true,
	"node":        true,
	"symbol":      true,
	"elementType": true,
}

type combinator func(r *inferrer, arg ast.Path) *Descriptor

var combinators map[string]combinator

func init() {
	combinators = map[string]combinator{
		"oneOf":      (*inferrer).oneOf,
		"oneOfType":  (*inferrer).oneOfType,
		"instanceOf": (*inferrer).instanceOf,
		"arrayOf":    (*inferrer).arrayOf,
		"objectOf":   (*inferrer).objectOf,
		"shape":      (*inferrer).shape,
		"exact":      (*inferrer).exact,
	}
}

// PropType describes the validator expression p. Expressions that are not
// recognized are described as {name: "custom", raw: <source>}.
func PropType(p ast.Path) *Descriptor {
	r := &inferrer{inProgress: make(map[ast.Key]bool)}
	return r.propType(p)
}

// inferrer carries the shapes and expressions being described, so that a
// validator referring to itself is printed instead of expanded.
type inferrer struct {
	inProgress map[ast.Key]bool
	depth      int
}

// Resolve resolves a validator expression to its value. Imports that cannot
// be followed keep their local reference, which still names the validator.
func Resolve(p ast.Path) ast.Path {
	v := resolve.ToValue(p)
	if v.Is(ast.KindImportStatement) {
		return p
	}
	return v
}

func custom(p ast.Path) *Descriptor {
	return &Descriptor{Name: "custom", Raw: resolve.PrintValue(p)}
}

func (r *inferrer) propType(p ast.Path) *Descriptor {
	if p.IsNil() {
		return &Descriptor{Name: "custom"}
	}
	key := p.Key()
	if r.inProgress[key] || r.depth >= maxPropTypeDepth {
		return custom(p)
	}
	r.inProgress[key] = true
	r.depth++
	defer func() {
		delete(r.inProgress, key)
		r.depth--
	}()

	for _, m := range resolve.Members(p, true) {
		name, ok := memberName(m)
		if !ok {
			continue
		}
		if simplePropTypes[name] {
			return &Descriptor{Name: name}
		}
		if fn, ok := combinators[name]; ok && m.Arguments != nil {
			return fn(r, firstArg(m.Arguments))
		}
	}

	// Validators imported by name: `string`, `shape({...})`.
	switch {
	case p.Is(ast.KindIdentifier) && simplePropTypes[importedName(p)]:
		return &Descriptor{Name: importedName(p)}
	case p.Is(ast.KindCallExpression):
		callee := p.Field("function")
		if fn, ok := combinators[callee.Text()]; ok && callee.Is(ast.KindIdentifier) {
			return fn(r, firstArg(p.Field("arguments").NamedChildren()))
		}
	}
	return custom(p)
}

// memberName returns the static name of a chain step: `a.name` or
// `a['name']`.
func memberName(m resolve.Member) (string, bool) {
	if s, ok := ast.StringValue(m.Path); ok {
		return s, true
	}
	if m.Computed {
		return "", false
	}
	switch m.Path.Kind() {
	case ast.KindIdentifier, ast.KindPropertyIdentifier:
		return m.Path.Text(), true
	}
	return "", false
}

// importedName returns the name a prop-types import was exported under, or
// the identifier itself.
func importedName(id ast.Path) string {
	b := id.Lookup(id.Text())
	if b != nil && b.Kind == ast.BindingImport && resolve.IsReactModuleName(b.Source) {
		return b.Imported
	}
	return id.Text()
}

func firstArg(args []ast.Path) ast.Path {
	if len(args) == 0 {
		return ast.Path{}
	}
	return args[0]
}

func (r *inferrer) oneOf(arg ast.Path) *Descriptor {
	d := &Descriptor{Name: "enum"}
	value := resolve.ToValue(arg)
	if value.Is(ast.KindArray) {
		d.Value = r.enumValues(value, 0)
		return d
	}
	if values, ok := objectKeysOrValues(value); ok {
		d.Value = values
		return d
	}
	d.Computed = true
	d.Value = resolve.PrintValue(arg)
	return d
}

func (r *inferrer) enumValues(array ast.Path, depth int) []EnumValue {
	values := []EnumValue{}
	if depth > maxPropTypeDepth {
		return values
	}
	for _, el := range array.NamedChildren() {
		if el.Is(ast.KindSpreadElement) {
			if spread := resolve.ToValue(el.FirstNamedChild()); spread.Is(ast.KindArray) {
				values = append(values, r.enumValues(spread, depth+1)...)
			}
			continue
		}
		v := resolve.ToValue(el)
		values = append(values, EnumValue{Value: resolve.PrintValue(v), Computed: !ast.IsLiteral(v)})
	}
	return values
}

// objectKeysOrValues handles `oneOf(Object.keys(X))` and
// `oneOf(Object.values(X))` where X is an object literal.
func objectKeysOrValues(call ast.Path) ([]EnumValue, bool) {
	if !call.Is(ast.KindCallExpression) {
		return nil, false
	}
	callee := call.Field("function")
	if !callee.Is(ast.KindMemberExpression) || callee.Field("object").Text() != "Object" {
		return nil, false
	}
	method := callee.Field("property").Text()
	if method != "keys" && method != "values" {
		return nil, false
	}
	obj := resolve.ToValue(firstArg(call.Field("arguments").NamedChildren()))
	if !obj.Is(ast.KindObject) {
		return nil, false
	}

	values := []EnumValue{}
	for _, prop := range obj.NamedChildren() {
		if !prop.Is(ast.KindPair, ast.KindShorthandProperty) {
			return nil, false
		}
		if method == "keys" {
			values = append(values, EnumValue{Value: "'" + resolve.PropertyName(resolve.PropertyKey(prop)) + "'"})
			continue
		}
		v := prop
		if prop.Is(ast.KindPair) {
			v = prop.Field("value")
		}
		v = resolve.ToValue(v)
		values = append(values, EnumValue{Value: resolve.PrintValue(v), Computed: !ast.IsLiteral(v)})
	}
	return values, true
}

func (r *inferrer) oneOfType(arg ast.Path) *Descriptor {
	d := &Descriptor{Name: "union"}
	value := resolve.ToValue(arg)
	if !value.Is(ast.KindArray) {
		d.Computed = true
		d.Value = resolve.PrintValue(arg)
		return d
	}
	types := []*Descriptor{}
	for _, el := range value.NamedChildren() {
		types = append(types, r.propType(Resolve(el)))
	}
	d.Value = types
	return d
}

func (r *inferrer) instanceOf(arg ast.Path) *Descriptor {
	return &Descriptor{Name: "instanceOf", Value: resolve.PrintValue(arg)}
}

func (r *inferrer) arrayOf(arg ast.Path) *Descriptor {
	return r.wrapper("arrayOf", arg)
}

func (r *inferrer) objectOf(arg ast.Path) *Descriptor {
	return r.wrapper("objectOf", arg)
}

func (r *inferrer) wrapper(name string, arg ast.Path) *Descriptor {
	d := &Descriptor{Name: name, Description: docblock.Get(arg)}
	if arg.IsNil() {
		d.Computed = true
		return d
	}
	d.Value = r.propType(Resolve(arg))
	return d
}

func (r *inferrer) shape(arg ast.Path) *Descriptor {
	return r.shapeish("shape", arg)
}

func (r *inferrer) exact(arg ast.Path) *Descriptor {
	return r.shapeish("exact", arg)
}

// shapeish describes shape and exact validators property by property.
// Spread properties carry no information and are skipped.
func (r *inferrer) shapeish(name string, arg ast.Path) *Descriptor {
	d := &Descriptor{Name: name}
	obj := arg
	if !obj.Is(ast.KindObject) {
		obj = resolve.ToValue(arg)
	}
	if !obj.Is(ast.KindObject) {
		d.Computed = true
		d.Value = resolve.PrintValue(arg)
		return d
	}

	key := obj.Key()
	r.inProgress[key] = true
	defer delete(r.inProgress, key)

	value := make(map[string]*Descriptor)
	for _, prop := range obj.NamedChildren() {
		if !prop.Is(ast.KindPair, ast.KindShorthandProperty) {
			continue
		}
		propName := resolve.PropertyName(resolve.PropertyKey(prop))
		if propName == "" {
			continue
		}
		valuePath := prop
		if prop.Is(ast.KindPair) {
			valuePath = prop.Field("value")
		}

		var desc *Descriptor
		if r.refersToInProgress(valuePath) {
			desc = custom(valuePath)
		} else {
			desc = r.propType(Resolve(valuePath))
		}
		if doc := docblock.Get(prop); doc != "" {
			desc.Description = doc
		}
		required := IsRequired(valuePath)
		desc.Required = &required
		value[propName] = desc
	}
	d.Value = value
	return d
}

// refersToInProgress reports whether v resolves to a shape object that is
// being described, directly or as an argument of its validator chain.
func (r *inferrer) refersToInProgress(v ast.Path) bool {
	resolved := resolve.ToValue(v)
	if r.inProgress[resolved.Key()] {
		return true
	}
	for _, m := range resolve.Members(resolved, true) {
		for _, arg := range m.Arguments {
			if obj := resolve.ToValue(arg); obj.Is(ast.KindObject) && r.inProgress[obj.Key()] {
				return true
			}
		}
	}
	return false
}

// IsRequired reports whether a validator chain ends in isRequired.
func IsRequired(p ast.Path) bool {
	for _, m := range resolve.Members(p, false) {
		if name, ok := memberName(m); ok && name == "isRequired" {
			return true
		}
	}
	return false
}

// IsPropTypesExpression reports whether p is rooted in a prop-types module.
func IsPropTypesExpression(p ast.Path) bool {
	module := resolve.ToModule(p)
	if module == "" {
		return false
	}
	return resolve.IsReactModuleName(module) || module == "ReactPropTypes"
}
