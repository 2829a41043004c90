package handlers

import (
	"github.com/gnana997/uidocgen/pkg/ast"
	"github.com/gnana997/uidocgen/pkg/docblock"
	"github.com/gnana997/uidocgen/pkg/docs"
	"github.com/gnana997/uidocgen/pkg/proptypes"
	"github.com/gnana997/uidocgen/pkg/resolve"
)

// PropTypes documents the runtime validators of the propTypes member.
func PropTypes(doc *docs.Documentation, def ast.Path) error {
	return validators(def, "propTypes", doc.GetPropDescriptor)
}

// ContextTypes documents the contextTypes member.
func ContextTypes(doc *docs.Documentation, def ast.Path) error {
	return validators(def, "contextTypes", doc.GetContextDescriptor)
}

// ChildContextTypes documents the childContextTypes member.
func ChildContextTypes(doc *docs.Documentation, def ast.Path) error {
	return validators(def, "childContextTypes", doc.GetChildContextDescriptor)
}

func validators(def ast.Path, member string, descriptor func(string) *docs.PropDescriptor) error {
	obj, err := memberObject(def, member)
	if err != nil || obj.IsNil() {
		return err
	}
	for _, prop := range objectProperties(obj, nil) {
		name := resolve.PropertyName(resolve.PropertyKey(prop))
		if name == "" {
			continue
		}
		value := proptypes.Resolve(propertyValue(prop))
		desc := descriptor(name)
		if !proptypes.IsPropTypesExpression(value) {
			desc.Type = &proptypes.Descriptor{Name: "custom", Raw: resolve.PrintValue(value)}
			continue
		}
		desc.Type = proptypes.PropType(value)
		desc.SetRequired(desc.Type.Name != "custom" && proptypes.IsRequired(value))
	}
	return nil
}

// PropTypeComposition records the modules whose propTypes are spread into
// the component's propTypes, or that provide them wholesale.
func PropTypeComposition(doc *docs.Documentation, def ast.Path) error {
	v, err := resolve.MemberValuePath(def, "propTypes")
	if err != nil || v.IsNil() {
		return err
	}
	v = resolve.ToValue(v)
	if !v.Is(ast.KindObject) {
		addComposes(doc, v)
		return nil
	}
	objectProperties(v, func(spread ast.Path) { addComposes(doc, spread) })
	return nil
}

func addComposes(doc *docs.Documentation, p ast.Path) {
	if module := resolve.ToModule(p); module != "" {
		doc.AddComposes(module)
	}
}

// PropDocblock takes prop descriptions from the docblocks on propTypes
// properties.
func PropDocblock(doc *docs.Documentation, def ast.Path) error {
	obj, err := memberObject(def, "propTypes")
	if err != nil || obj.IsNil() {
		return err
	}
	for _, prop := range objectProperties(obj, nil) {
		name := resolve.PropertyName(resolve.PropertyKey(prop))
		if name == "" {
			continue
		}
		desc := doc.GetPropDescriptor(name)
		if desc.Description == "" {
			desc.Description = docblock.Get(prop)
		}
	}
	return nil
}
