package finder

import (
	"errors"
	"fmt"
	"strings"
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

// named returns the declaration called name: a function or class
// declaration, or the value of a variable declarator.
func named(t *testing.T, f *ast.File, name string) ast.Path {
	t.Helper()
	var found ast.Path
	ast.Walk(f.Root(), func(p ast.Path) bool {
		if !found.IsNil() {
			return false
		}
		switch {
		case p.Is(ast.KindVariableDeclarator) && ast.NameOf(p) == name:
			found = p.Field("value")
		case (ast.IsFunction(p) || ast.IsClass(p)) && ast.NameOf(p) == name:
			found = p
		}
		return found.IsNil()
	})
	require.False(t, found.IsNil(), "no declaration %s", name)
	return found
}

func callArgs(t *testing.T, f *ast.File, callee string) []ast.Path {
	t.Helper()
	var args []ast.Path
	ast.Walk(f.Root(), func(p ast.Path) bool {
		if args == nil && p.Is(ast.KindCallExpression) && p.Field("function").Text() == callee {
			args = p.Field("arguments").NamedChildren()
		}
		return args == nil
	})
	require.NotNil(t, args, "no call to %s", callee)
	return args
}

func kinds(defs []ast.Path) []Kind {
	out := make([]Kind, len(defs))
	for i, d := range defs {
		out[i] = KindOf(d)
	}
	return out
}

func TestIsReactCreateClassCall(t *testing.T) {
	f := parseFile(t, "a.js", `
import React from 'react';
import createReactClass from 'create-react-class';
import Other from 'other';
use(React.createClass({}), createReactClass({}), Other.createClass({}), React.createClass({}, 1), React.createClass());
`)
	args := callArgs(t, f, "use")
	require.Len(t, args, 5)

	assert.True(t, IsReactCreateClassCall(args[0]))
	assert.True(t, IsReactCreateClassCall(args[1]))
	assert.False(t, IsReactCreateClassCall(args[2]))
	assert.False(t, IsReactCreateClassCall(args[3]), "two arguments")
	assert.False(t, IsReactCreateClassCall(args[4]), "no argument")
}

func TestIsReactForwardRefCall(t *testing.T) {
	f := parseFile(t, "a.js", `
import React, { forwardRef } from 'react';
use(React.forwardRef((p, ref) => null), forwardRef(fn), forwardRef(), other.forwardRef(fn));
`)
	args := callArgs(t, f, "use")
	require.Len(t, args, 4)

	assert.True(t, IsReactForwardRefCall(args[0]))
	assert.True(t, IsReactForwardRefCall(args[1]))
	assert.False(t, IsReactForwardRefCall(args[2]))
	assert.False(t, IsReactForwardRefCall(args[3]))
}

func TestIsReactComponentClass(t *testing.T) {
	tests := []struct {
		name string
		src  string
		want bool
	}{
		{"react component", `import React from 'react'; class A extends React.Component {}`, true},
		{"named pure component", `import { PureComponent } from 'react'; class A extends PureComponent {}`, true},
		{"required react", `const React = require('react'); class A extends React.Component {}`, true},
		{"render method", `class A { render() { return null; } }`, true},
		{"render field", `class A { render = () => null; }`, true},
		{"static render", `class A { static render() { return null; } }`, false},
		{"empty class", `class A {}`, false},
		{"unknown base with render", `class A extends Base { render() { return null; } }`, false},
		{"docblock extends", "/** @extends React.Component */\nclass A extends Base {}", true},
		{"other library", `import { Component } from 'preact'; class A extends Component { render() {} }`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := parseFile(t, "a.js", tt.src)
			assert.Equal(t, tt.want, IsReactComponentClass(named(t, f, "A")))
		})
	}
}

func TestIsReactComponentClassTypeScript(t *testing.T) {
	f := parseFile(t, "a.tsx", `
import * as React from 'react';
class A extends React.Component<Props, State> { render() { return null; } }
class B implements Renderable { render() { return null; } }
`)
	a := named(t, f, "A")
	assert.True(t, IsReactComponentClass(a))
	require.Len(t, SuperTypeArguments(a), 2)
	assert.Equal(t, "Props", SuperTypeArguments(a)[0].Text())

	b := named(t, f, "B")
	assert.True(t, SuperClass(b).IsNil())
	assert.True(t, IsReactComponentClass(b))
}

func TestIsStatelessComponent(t *testing.T) {
	f := parseFile(t, "a.js", `
import React from 'react';
function Jsx() { return <div />; }
const Arrow = () => <span />;
function Create() { return React.createElement('div'); }
function Cond({ a }) { return a ? null : <div />; }
function And({ a }) { return a && <div />; }
function helper() { return <div />; }
function Indirect() { return helper(); }
function deeper() { return helper(); }
function TwoLevels() { return deeper(); }
function Nested() { const render = () => <div />; return null; }
function Null() { return null; }
function Variable() { const el = <div />; return el; }
const obj = { render() { return <div />; } };
function Member() { return obj.render(); }
function Kids({ children }) { return React.Children.only(children); }
function Loop() { return Loop(); }
`)

	for name, want := range map[string]bool{
		"Jsx":       true,
		"Arrow":     true,
		"Create":    true,
		"Cond":      true,
		"And":       true,
		"Indirect":  true,
		"TwoLevels": false,
		"Nested":    false,
		"Null":      false,
		"Variable":  true,
		"Member":    true,
		"Kids":      true,
		"Loop":      false,
	} {
		assert.Equal(t, want, IsStatelessComponent(named(t, f, name)), name)
	}
	assert.False(t, IsStatelessComponent(named(t, f, "obj")), "object literal")
}

func TestResolveHOC(t *testing.T) {
	f := parseFile(t, "a.js", `
import React from 'react';
function ComponentFn() { return <div />; }
const A = wrap(ComponentFn);
const B = connect(mapState)(ComponentFn);
const C = withStyles({ root: 1 }, ComponentFn);
const D = compose(first, second);
const E = wrap(E);
const F = React.forwardRef(() => null);
const G = wrap();
const H = memo(wrap(ComponentFn));
`)
	fn := named(t, f, "ComponentFn")

	assert.True(t, ResolveHOC(named(t, f, "A")).Same(fn), "single argument is the component")
	assert.True(t, ResolveHOC(named(t, f, "B")).Same(fn), "curried HOC")
	assert.True(t, ResolveHOC(named(t, f, "C")).Same(fn), "options first, component last")
	assert.Equal(t, "first", ResolveHOC(named(t, f, "D")).Text(), "ambiguous arguments pick the first")
	assert.True(t, ResolveHOC(named(t, f, "E")).Is(ast.KindCallExpression), "self-wrapping terminates")

	forwarded := named(t, f, "F")
	assert.True(t, ResolveHOC(forwarded).Same(forwarded))
	empty := named(t, f, "G")
	assert.True(t, ResolveHOC(empty).Same(empty))
	assert.True(t, ResolveHOC(named(t, f, "H")).Same(fn), "nested HOCs")
}

func TestResolveHOCChainDepth(t *testing.T) {
	const chain = 40
	var src strings.Builder
	src.WriteString("function ComponentFn() { return <div />; }\n")
	fmt.Fprintf(&src, "const W%d = wrap(ComponentFn);\n", chain-1)
	for i := chain - 2; i >= 0; i-- {
		fmt.Fprintf(&src, "const W%d = wrap(W%d);\n", i, i+1)
	}
	f := parseFile(t, "a.js", src.String())
	fn := named(t, f, "ComponentFn")

	tests := []struct {
		start string
		want  string
	}{
		{"W35", "ComponentFn"},
		{"W8", "ComponentFn"},
		{"W0", "W32"},
	}
	for _, tt := range tests {
		t.Run(tt.start, func(t *testing.T) {
			got := ResolveHOC(named(t, f, tt.start))
			if tt.want == "ComponentFn" {
				assert.True(t, got.Same(fn))
				return
			}
			assert.True(t, got.Same(named(t, f, tt.want)), "unwrapping stops after %d calls", maxHOCDepth)
		})
	}
}

func TestFindExported(t *testing.T) {
	t.Run("default class", func(t *testing.T) {
		f := parseFile(t, "a.js", `
import React from 'react';
export default class A extends React.Component { render() { return null; } }
`)
		defs, err := FindExported(f)
		require.NoError(t, err)
		assert.Equal(t, []Kind{KindClass}, kinds(defs))
	})

	t.Run("same component exported twice", func(t *testing.T) {
		f := parseFile(t, "a.js", `
const A = () => <div />;
export default A;
export { A };
`)
		defs, err := FindExported(f)
		require.NoError(t, err)
		require.Len(t, defs, 1)
		assert.True(t, defs[0].Is(ast.KindArrowFunction))
	})

	t.Run("ambiguous", func(t *testing.T) {
		f := parseFile(t, "a.js", `
export const A = () => <div />;
export const B = () => <div />;
`)
		_, err := FindExported(f)
		assert.True(t, errors.Is(err, ErrMultipleDefinitions))
	})

	t.Run("none", func(t *testing.T) {
		f := parseFile(t, "a.js", `export const x = 1;`)
		defs, err := FindExported(f)
		require.NoError(t, err)
		assert.Empty(t, defs)
	})
}

func TestFindAllExported(t *testing.T) {
	t.Run("es modules", func(t *testing.T) {
		f := parseFile(t, "a.js", `
import React from 'react';
import { connect } from 'react-redux';
function Inner() { return <div />; }
export default connect(mapState)(Inner);
export const Named = React.forwardRef((props, ref) => <input ref={ref} />);
export { Inner as Renamed };
const notExported = () => <div />;
export const value = 42;
`)
		defs, err := FindAllExported(f)
		require.NoError(t, err)
		assert.Equal(t, []Kind{KindStateless, KindForwardRef}, kinds(defs))
		assert.True(t, defs[0].Same(named(t, f, "Inner")))
	})

	t.Run("commonjs", func(t *testing.T) {
		f := parseFile(t, "a.js", `
const React = require('react');
function A() { return <div />; }
module.exports = A;
exports.B = class extends React.Component { render() { return null; } };
`)
		defs, err := FindAllExported(f)
		require.NoError(t, err)
		assert.Equal(t, []Kind{KindStateless, KindClass}, kinds(defs))
	})

	t.Run("create class", func(t *testing.T) {
		f := parseFile(t, "a.js", `
import React from 'react';
module.exports = React.createClass({ render() { return <div />; } });
`)
		defs, err := FindAllExported(f)
		require.NoError(t, err)
		require.Equal(t, []Kind{KindCreateClass}, kinds(defs))
		assert.True(t, defs[0].Is(ast.KindObject))
	})
}

func TestFindAll(t *testing.T) {
	f := parseFile(t, "a.js", `
import React from 'react';
import createReactClass from 'create-react-class';
function Outer() {
  const Inner = () => <div />;
  return <Inner />;
}
class Cls extends React.Component { render() { return <div />; } }
const Fancy = (props, ref) => <input ref={ref} />;
const Forwarded = React.forwardRef(Fancy);
const Legacy = createReactClass({ render() { return <div />; } });
const Plain = () => 42;
export default Outer;
`)
	defs, err := FindAll(f)
	require.NoError(t, err)
	assert.Equal(t, []Kind{KindStateless, KindClass, KindForwardRef, KindCreateClass}, kinds(defs))
	assert.True(t, defs[0].Same(named(t, f, "Outer")))
	assert.True(t, defs[2].Same(named(t, f, "Forwarded")), "forwardRef replaces the function it wraps")
}

func TestNormalizeClass(t *testing.T) {
	f := parseFile(t, "a.js", `
import React from 'react';
class A extends React.Component { render() { return null; } }
A.propTypes = { x: 1 };
A.displayName = 'Custom';
`)
	defs, err := FindAll(f)
	require.NoError(t, err)
	require.Len(t, defs, 1)

	members := NormalizeClass(defs[0])
	require.Len(t, members, 2)
	assert.Equal(t, "propTypes", members[0].Name)
	assert.Equal(t, "displayName", members[1].Name)

	v, err := resolve.MemberValuePath(defs[0], "propTypes")
	require.NoError(t, err)
	assert.Equal(t, "{ x: 1 }", v.Text())
}
