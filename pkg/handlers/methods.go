package handlers

import (
	"github.com/gnana997/uidocgen/pkg/ast"
	"github.com/gnana997/uidocgen/pkg/docblock"
	"github.com/gnana997/uidocgen/pkg/docs"
	"github.com/gnana997/uidocgen/pkg/resolve"
	"github.com/gnana997/uidocgen/pkg/typedesc"
)

// MethodDescriptor documents one public component method.
type MethodDescriptor struct {
	Name        string        `json:"name"`
	Docblock    string        `json:"docblock,omitempty"`
	Description string        `json:"description,omitempty"`
	Modifiers   []string      `json:"modifiers"`
	Params      []MethodParam `json:"params"`
	Returns     *MethodReturn `json:"returns"`
}

// MethodParam documents one method parameter.
type MethodParam struct {
	Name        string        `json:"name"`
	Optional    bool          `json:"optional,omitempty"`
	Type        typedesc.Type `json:"type,omitempty"`
	Description string        `json:"description,omitempty"`
}

// MethodReturn documents a method's return value.
type MethodReturn struct {
	Type        typedesc.Type `json:"type,omitempty"`
	Description string        `json:"description,omitempty"`
}

// reactMethods are lifecycle and framework methods that are not part of a
// component's public interface.
var reactMethods = map[string]bool{
	"constructor":                      true,
	"render":                           true,
	"getInitialState":                  true,
	"getDefaultProps":                  true,
	"getChildContext":                  true,
	"getDerivedStateFromProps":         true,
	"getDerivedStateFromError":         true,
	"getSnapshotBeforeUpdate":          true,
	"componentWillMount":               true,
	"UNSAFE_componentWillMount":        true,
	"componentDidMount":                true,
	"componentWillReceiveProps":        true,
	"UNSAFE_componentWillReceiveProps": true,
	"shouldComponentUpdate":            true,
	"componentWillUpdate":              true,
	"UNSAFE_componentWillUpdate":       true,
	"componentDidUpdate":               true,
	"componentDidCatch":                true,
	"componentWillUnmount":             true,
}

// method is a function-valued member found on a definition.
type method struct {
	name      string
	fn        ast.Path // the function; a method_definition or function value
	doc       ast.Path // the node carrying the docblock
	modifiers []string
}

// ComponentMethods documents the methods of a component: class methods and
// function-valued fields, createClass object methods, and functions
// assigned as statics after the definition.
func ComponentMethods(doc *docs.Documentation, def ast.Path) error {
	var methods []method
	switch {
	case ast.IsClass(def):
		for _, member := range resolve.ClassBody(def) {
			if m, ok := classMethod(member); ok {
				methods = append(methods, m)
			}
		}
	case def.Is(ast.KindObject):
		for _, prop := range def.NamedChildren() {
			if m, ok := objectMethod(prop); ok {
				methods = append(methods, m)
			}
		}
	}

	if !def.Is(ast.KindObject) {
		statics, err := resolve.Statics(def)
		if err != nil {
			return err
		}
		for _, s := range statics {
			fn := resolve.ToValue(s.Value)
			if !ast.IsFunction(fn) || reactMethods[s.Name] {
				continue
			}
			methods = append(methods, method{
				name:      s.Name,
				fn:        fn,
				doc:       s.Statement,
				modifiers: append([]string{"static"}, functionModifiers(fn)...),
			})
		}
	}

	descriptors := make([]*MethodDescriptor, 0, len(methods))
	for _, m := range methods {
		descriptors = append(descriptors, describeMethod(m))
	}
	doc.Set("methods", descriptors)
	return nil
}

func classMethod(member ast.Path) (method, bool) {
	key := resolve.PropertyKey(member)
	if key.Is(ast.KindComputedProperty, ast.KindPrivateProperty) {
		return method{}, false
	}
	name := resolve.PropertyName(key)
	if name == "" || reactMethods[name] {
		return method{}, false
	}

	var modifiers []string
	if resolve.IsStatic(member) {
		modifiers = append(modifiers, "static")
	}
	switch {
	case member.Is(ast.KindMethodDefinition):
		return method{name: name, fn: member, doc: member, modifiers: append(modifiers, functionModifiers(member)...)}, true
	case member.Is(ast.KindFieldDefinition, ast.KindPublicFieldDefinition):
		value := member.Field("value")
		if !ast.IsFunction(value) {
			return method{}, false
		}
		return method{name: name, fn: value, doc: member, modifiers: append(modifiers, functionModifiers(value)...)}, true
	}
	return method{}, false
}

func objectMethod(prop ast.Path) (method, bool) {
	var fn ast.Path
	switch {
	case prop.Is(ast.KindMethodDefinition):
		fn = prop
	case prop.Is(ast.KindPair) && ast.IsFunction(prop.Field("value")):
		fn = prop.Field("value")
	default:
		return method{}, false
	}
	key := resolve.PropertyKey(prop)
	if resolve.IsComputedKey(key) {
		return method{}, false
	}
	name := resolve.PropertyName(key)
	if name == "" || reactMethods[name] {
		return method{}, false
	}
	return method{name: name, fn: fn, doc: prop, modifiers: functionModifiers(fn)}, true
}

// functionModifiers lists the async, generator and accessor modifiers of a
// function.
func functionModifiers(fn ast.Path) []string {
	var out []string
	if fn.HasToken("async") {
		out = append(out, "async")
	}
	if fn.HasToken("*") || fn.Is(ast.KindGeneratorFunction, ast.KindGeneratorFunctionDeclaration) {
		out = append(out, "generator")
	}
	if fn.HasToken("get") {
		out = append(out, "get")
	}
	if fn.HasToken("set") {
		out = append(out, "set")
	}
	return out
}

func describeMethod(m method) *MethodDescriptor {
	d := &MethodDescriptor{
		Name:      m.name,
		Docblock:  docblock.Get(m.doc),
		Modifiers: m.modifiers,
		Params:    []MethodParam{},
	}
	if d.Modifiers == nil {
		d.Modifiers = []string{}
	}
	for _, param := range resolve.Params(m.fn) {
		d.Params = append(d.Params, describeParam(param))
	}
	if rt := m.fn.Field("return_type"); !rt.IsNil() {
		d.Returns = &MethodReturn{Type: typedesc.TypeOf(rt, nil)}
	}
	return d
}

func describeParam(param ast.Path) MethodParam {
	mp := MethodParam{Optional: param.Is(ast.KindOptionalParameter)}
	if t := param.Field("type"); !t.IsNil() {
		mp.Type = typedesc.TypeOf(t, nil)
	}

	pattern := paramPattern(param)
	if pattern.Is(ast.KindAssignmentPattern) {
		pattern = pattern.Field("left")
	}
	if pattern.Is(ast.KindRestPattern) {
		mp.Name = "..." + pattern.FirstNamedChild().Text()
	} else {
		mp.Name = pattern.Text()
	}
	return mp
}

// ComponentMethodsJsDoc merges @param and @returns tags from method
// docblocks into the descriptors written by ComponentMethods. Annotated
// types take precedence over JSDoc types.
func ComponentMethodsJsDoc(doc *docs.Documentation, _ ast.Path) error {
	v, _ := doc.Get("methods")
	methods, _ := v.([]*MethodDescriptor)
	for _, m := range methods {
		if m.Docblock == "" {
			continue
		}
		jsdoc := docblock.ParseJSDoc(m.Docblock)
		m.Description = jsdoc.Description

		for i := range m.Params {
			p := &m.Params[i]
			tag := jsdoc.Param(p.Name)
			if tag == nil {
				continue
			}
			p.Description = tag.Description
			if p.Type == nil && tag.Type != "" {
				p.Type = &typedesc.Simple{Name: tag.Type}
			}
			if tag.Optional {
				p.Optional = true
			}
		}

		if jsdoc.Returns != nil {
			if m.Returns == nil {
				m.Returns = &MethodReturn{}
			}
			m.Returns.Description = jsdoc.Returns.Description
			if m.Returns.Type == nil && jsdoc.Returns.Type != "" {
				m.Returns.Type = &typedesc.Simple{Name: jsdoc.Returns.Type}
			}
		}
	}
	return nil
}
