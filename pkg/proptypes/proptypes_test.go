package proptypes

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uidocgen/pkg/ast"
	"github.com/gnana997/uidocgen/pkg/parser"
	"github.com/gnana997/uidocgen/pkg/resolve"
	"github.com/gnana997/uidocgen/pkg/util"
)

func parseFile(t *testing.T, name, src string) *ast.File {
	t.Helper()
	pm := parser.NewParserManager(util.Discard())
	t.Cleanup(func() { pm.Close() })

	f, err := ast.Parse(pm, name, []byte(src))
	require.NoError(t, err)
	t.Cleanup(f.Close)
	return f
}

// propTypes describes every property of the object assigned to
// `const propTypes`.
func propTypes(t *testing.T, src string) (map[string]*Descriptor, map[string]bool) {
	t.Helper()
	f := parseFile(t, "a.js", src)

	var obj ast.Path
	ast.Walk(f.Root(), func(p ast.Path) bool {
		if obj.IsNil() && p.Is(ast.KindVariableDeclarator) && ast.NameOf(p) == "propTypes" {
			obj = p.Field("value")
		}
		return obj.IsNil()
	})
	require.True(t, obj.Is(ast.KindObject), "no propTypes object")

	types := make(map[string]*Descriptor)
	required := make(map[string]bool)
	for _, prop := range obj.NamedChildren() {
		if !prop.Is(ast.KindPair) {
			continue
		}
		name := resolve.PropertyName(prop.Field("key"))
		value := prop.Field("value")
		types[name] = PropType(Resolve(value))
		required[name] = IsRequired(value)
	}
	return types, required
}

func boolPtr(b bool) *bool { return &b }

func TestSimpleValidators(t *testing.T) {
	types, required := propTypes(t, `
import PropTypes, { string as str } from 'prop-types';
const propTypes = {
  a: PropTypes.string,
  b: PropTypes.number.isRequired,
  c: PropTypes['bool'],
  d: PropTypes.elementType,
  e: str,
  f: myValidator,
  g: (props) => null,
};
`)

	assert.Equal(t, &Descriptor{Name: "string"}, types["a"])
	assert.Equal(t, &Descriptor{Name: "number"}, types["b"])
	assert.Equal(t, &Descriptor{Name: "bool"}, types["c"])
	assert.Equal(t, &Descriptor{Name: "elementType"}, types["d"])
	assert.Equal(t, &Descriptor{Name: "string"}, types["e"], "renamed import")
	assert.Equal(t, &Descriptor{Name: "custom", Raw: "myValidator"}, types["f"])
	assert.Equal(t, &Descriptor{Name: "custom", Raw: "(props) => null"}, types["g"])

	assert.True(t, required["b"])
	assert.False(t, required["a"])
}

func TestCombinators(t *testing.T) {
	types, _ := propTypes(t, `
import PropTypes from 'prop-types';
const SIZES = ['small', 'large'];
const COLORS = { red: '#f00', blue: BLUE };
const propTypes = {
  size: PropTypes.oneOf(['small', 'large', SOMETHING]),
  spread: PropTypes.oneOf([...SIZES, 'huge']),
  keys: PropTypes.oneOf(Object.keys(COLORS)),
  values: PropTypes.oneOf(Object.values(COLORS)),
  dynamic: PropTypes.oneOf(getSizes()),
  union: PropTypes.oneOfType([PropTypes.string, PropTypes.number]),
  list: PropTypes.arrayOf(PropTypes.string),
  map: PropTypes.objectOf(PropTypes.number),
  instance: PropTypes.instanceOf(Date),
};
`)

	assert.Equal(t, &Descriptor{Name: "enum", Value: []EnumValue{
		{Value: "'small'"}, {Value: "'large'"}, {Value: "SOMETHING", Computed: true},
	}}, types["size"])
	assert.Equal(t, &Descriptor{Name: "enum", Value: []EnumValue{
		{Value: "'small'"}, {Value: "'large'"}, {Value: "'huge'"},
	}}, types["spread"])
	assert.Equal(t, &Descriptor{Name: "enum", Value: []EnumValue{
		{Value: "'red'"}, {Value: "'blue'"},
	}}, types["keys"])
	assert.Equal(t, &Descriptor{Name: "enum", Value: []EnumValue{
		{Value: "'#f00'"}, {Value: "BLUE", Computed: true},
	}}, types["values"])
	assert.Equal(t, &Descriptor{Name: "enum", Value: "getSizes()", Computed: true}, types["dynamic"])

	assert.Equal(t, &Descriptor{Name: "union", Value: []*Descriptor{{Name: "string"}, {Name: "number"}}}, types["union"])
	assert.Equal(t, &Descriptor{Name: "arrayOf", Value: &Descriptor{Name: "string"}}, types["list"])
	assert.Equal(t, &Descriptor{Name: "objectOf", Value: &Descriptor{Name: "number"}}, types["map"])
	assert.Equal(t, &Descriptor{Name: "instanceOf", Value: "Date"}, types["instance"])
}

func TestShape(t *testing.T) {
	types, required := propTypes(t, `
import PropTypes from 'prop-types';
const inner = { x: PropTypes.number };
const propTypes = {
  point: PropTypes.shape({
    /** Horizontal. */
    x: PropTypes.number.isRequired,
    y: PropTypes.number,
    ...inner,
  }).isRequired,
  strict: PropTypes.exact(inner),
  opaque: PropTypes.shape(makeShape()),
};
`)

	assert.Equal(t, &Descriptor{Name: "shape", Value: map[string]*Descriptor{
		"x": {Name: "number", Required: boolPtr(true), Description: "Horizontal."},
		"y": {Name: "number", Required: boolPtr(false)},
	}}, types["point"])
	assert.True(t, required["point"])

	assert.Equal(t, &Descriptor{Name: "exact", Value: map[string]*Descriptor{
		"x": {Name: "number", Required: boolPtr(false)},
	}}, types["strict"])
	assert.Equal(t, &Descriptor{Name: "shape", Value: "makeShape()", Computed: true}, types["opaque"])
}

func TestShapeSelfReference(t *testing.T) {
	types, _ := propTypes(t, `
import PropTypes from 'prop-types';
const Node = PropTypes.shape({
  value: PropTypes.string,
  next: Node,
});
const propTypes = { list: Node };
`)

	assert.Equal(t, &Descriptor{Name: "shape", Value: map[string]*Descriptor{
		"value": {Name: "string", Required: boolPtr(false)},
		"next":  {Name: "custom", Raw: "Node", Required: boolPtr(false)},
	}}, types["list"])
}

func TestSelfReferentialArrayOf(t *testing.T) {
	types, _ := propTypes(t, `
import PropTypes from 'prop-types';
const Tree = PropTypes.arrayOf(Tree);
const propTypes = { tree: Tree };
`)

	tree := types["tree"]
	require.Equal(t, "arrayOf", tree.Name)
	assert.Equal(t, "custom", tree.Value.(*Descriptor).Name)
}

func TestNamedImportCombinators(t *testing.T) {
	types, _ := propTypes(t, `
const { shape, string } = require('prop-types');
const propTypes = { s: shape({ a: string }) };
`)

	assert.Equal(t, &Descriptor{Name: "shape", Value: map[string]*Descriptor{
		"a": {Name: "string", Required: boolPtr(false)},
	}}, types["s"])
}

func TestIsPropTypesExpression(t *testing.T) {
	f := parseFile(t, "a.js", `
import PropTypes from 'prop-types';
import React from 'react';
import Other from 'other';
use(PropTypes.string, React.PropTypes.bool, Other.string, local.string);
`)

	var args []ast.Path
	ast.Walk(f.Root(), func(p ast.Path) bool {
		if p.Is(ast.KindCallExpression) && p.Field("function").Text() == "use" {
			args = p.Field("arguments").NamedChildren()
		}
		return true
	})
	require.Len(t, args, 4)

	assert.True(t, IsPropTypesExpression(args[0]))
	assert.True(t, IsPropTypesExpression(args[1]))
	assert.False(t, IsPropTypesExpression(args[2]))
	assert.False(t, IsPropTypesExpression(args[3]))
}

func TestDescriptorJSON(t *testing.T) {
	d := &Descriptor{Name: "shape", Value: map[string]*Descriptor{
		"a": {Name: "string", Required: boolPtr(false)},
	}}
	data, err := json.Marshal(d)
	require.NoError(t, err)
	assert.JSONEq(t, `{"name":"shape","value":{"a":{"name":"string","required":false}}}`, string(data))
}
