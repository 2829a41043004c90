package handlers

import (
	"github.com/gnana997/uidocgen/pkg/ast"
	"github.com/gnana997/uidocgen/pkg/docs"
	"github.com/gnana997/uidocgen/pkg/resolve"
)

// DefaultProps documents default values from the defaultProps member (or
// the object returned by getDefaultProps) and from defaults in a
// destructured props parameter.
func DefaultProps(doc *docs.Documentation, def ast.Path) error {
	obj, err := memberObject(def, "defaultProps")
	if err != nil {
		return err
	}
	for _, prop := range objectProperties(obj, nil) {
		name := resolve.PropertyName(resolve.PropertyKey(prop))
		if name == "" {
			continue
		}
		if v := defaultValue(propertyValue(prop)); v != nil {
			doc.GetPropDescriptor(name).DefaultValue = v
		}
	}

	pattern := paramPattern(propsParam(componentFunction(def)))
	if !pattern.Is(ast.KindObjectPattern) {
		return nil
	}
	for _, prop := range pattern.NamedChildren() {
		var key, value ast.Path
		switch {
		case prop.Is(ast.KindObjectAssignment):
			// { size = 'md' }
			key, value = prop.Field("left"), prop.Field("right")
		case prop.Is(ast.KindPairPattern) && prop.Field("value").Is(ast.KindAssignmentPattern):
			// { size: s = 'md' }
			key, value = prop.Field("key"), prop.Field("value").Field("right")
		default:
			continue
		}
		name := resolve.PropertyName(key)
		if name == "" {
			continue
		}
		if v := defaultValue(value); v != nil {
			doc.GetPropDescriptor(name).DefaultValue = v
		}
	}
	return nil
}

// defaultValue describes a default as written. Literals are kept verbatim;
// anything else is resolved first, and marked computed when it stays a
// call, member access or identifier. Imported values keep their local name.
func defaultValue(p ast.Path) *docs.DefaultValue {
	if p.IsNil() {
		return nil
	}
	if ast.IsLiteral(p) {
		return &docs.DefaultValue{Value: p.Text()}
	}
	resolved := resolve.ToValue(p)
	if resolved.Is(ast.KindImportStatement) {
		resolved = p
	}
	return &docs.DefaultValue{
		Value: resolve.PrintValue(resolved),
		Computed: resolved.Is(ast.KindCallExpression, ast.KindMemberExpression, ast.KindIdentifier,
			ast.KindShorthandProperty),
	}
}
