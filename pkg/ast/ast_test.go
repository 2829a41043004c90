package ast

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uidocgen/pkg/parser"
	"github.com/gnana997/uidocgen/pkg/util"
)

func parseFile(t *testing.T, name, src string) *File {
	t.Helper()
	pm := parser.NewParserManager(util.Discard())
	t.Cleanup(func() { pm.Close() })

	f, err := Parse(pm, name, []byte(src))
	require.NoError(t, err)
	t.Cleanup(f.Close)
	return f
}

// find returns the nth (0-based) node of kind whose text is text.
func find(t *testing.T, f *File, kind, text string, nth int) Path {
	t.Helper()
	var found Path
	seen := 0
	Walk(f.Root(), func(p Path) bool {
		if !found.IsNil() {
			return false
		}
		if p.Is(kind) && p.Text() == text {
			if seen == nth {
				found = p
				return false
			}
			seen++
		}
		return true
	})
	require.False(t, found.IsNil(), "no %s %q #%d", kind, text, nth)
	return found
}

func TestLookupDeclarations(t *testing.T) {
	f := parseFile(t, "a.js", `
import React, { Component as Base } from 'react';
import * as utils from './utils';
const value = 1;
function fn(a, { b }, ...rest) { return a + b + value; }
class Klass extends Base {}
use(value, fn, Klass, utils);
`)

	use := find(t, f, KindIdentifier, "use", 0)

	b := use.Lookup("value")
	require.NotNil(t, b)
	assert.Equal(t, BindingVariable, b.Kind)
	assert.True(t, b.Declaration.Is(KindVariableDeclarator))

	b = use.Lookup("fn")
	require.NotNil(t, b)
	assert.Equal(t, BindingFunction, b.Kind)

	b = use.Lookup("Klass")
	require.NotNil(t, b)
	assert.True(t, b.Declaration.Is(KindClassDeclaration))

	b = use.Lookup("React")
	require.NotNil(t, b)
	assert.Equal(t, BindingImport, b.Kind)
	assert.Equal(t, "react", b.Source)
	assert.Equal(t, "default", b.Imported)

	b = use.Lookup("Base")
	require.NotNil(t, b)
	assert.Equal(t, "Component", b.Imported)

	b = use.Lookup("utils")
	require.NotNil(t, b)
	assert.Equal(t, "*", b.Imported)
	assert.Equal(t, "./utils", b.Source)

	assert.Nil(t, use.Lookup("missing"))
	assert.Nil(t, use.Lookup("a"), "parameters are not visible outside the function")
}

func TestLookupParamsAndShadowing(t *testing.T) {
	f := parseFile(t, "a.js", `
const a = 1;
function fn(a, { b }, ...rest) {
  inner(a, b, rest);
}
`)
	inner := find(t, f, KindIdentifier, "inner", 0)

	for _, name := range []string{"a", "b", "rest"} {
		b := inner.Lookup(name)
		require.NotNil(t, b, name)
		assert.Equal(t, BindingParam, b.Kind, name)
	}
}

func TestLookupHoistsVar(t *testing.T) {
	f := parseFile(t, "a.js", `
function fn() {
  use(x);
  if (cond) {
    var x = 2;
  }
}
`)
	use := find(t, f, KindIdentifier, "use", 0)
	b := use.Lookup("x")
	require.NotNil(t, b)
	assert.True(t, b.Scope.Is(KindStatementBlock))
	assert.True(t, IsFunction(b.Scope.Parent()))
}

func TestLookupTypeNamespace(t *testing.T) {
	f := parseFile(t, "a.ts", `
type Props = { a: string };
const Props = 1;
interface Other {}
function use(p: Props, o: Other) {}
`)
	ref := find(t, f, KindTypeIdentifier, "Props", 1)

	b := ref.LookupType("Props")
	require.NotNil(t, b)
	assert.Equal(t, BindingType, b.Kind)
	assert.True(t, b.Declaration.Is(KindTypeAlias))

	b = ref.Lookup("Props")
	require.NotNil(t, b)
	assert.Equal(t, BindingVariable, b.Kind)

	b = ref.LookupType("Other")
	require.NotNil(t, b)
	assert.True(t, b.Declaration.Is(KindInterface))
	assert.Nil(t, ref.Lookup("Other"))
}

func TestAssignments(t *testing.T) {
	f := parseFile(t, "a.js", `
let Foo;
Foo = 1;
function g() { Foo = 3; }
Foo = 2;
`)
	b := f.Root().Lookup("Foo")
	require.NotNil(t, b)

	rhs := Assignments(b)
	require.Len(t, rhs, 2)
	assert.Equal(t, "1", rhs[0].Text())
	assert.Equal(t, "2", rhs[1].Text())
}

func TestPathIdentity(t *testing.T) {
	f := parseFile(t, "a.js", `const x = (1);`)

	one := find(t, f, KindNumber, "1", 0)
	again := find(t, f, KindNumber, "1", 0)
	assert.True(t, one.Same(again))
	assert.Equal(t, one.Key(), again.Key())
	assert.False(t, one.Same(one.Parent()))
	assert.True(t, Path{}.Same(Path{}))
	assert.True(t, Path{}.IsNil())
	assert.Equal(t, "", Path{}.Kind())

	paren := one.Parent()
	assert.True(t, paren.Is(KindParenthesized))
	assert.True(t, Unparen(paren).Same(one))
	assert.Equal(t, "value", paren.FieldName())
	assert.True(t, paren.Parent().Contains(one))
}

func TestStringValue(t *testing.T) {
	f := parseFile(t, "a.js", "a('x', `y`, `z${1}`, 2);")

	args := find(t, f, KindArguments, "('x', `y`, `z${1}`, 2)", 0).NamedChildren()
	require.Len(t, args, 4)

	s, ok := StringValue(args[0])
	assert.True(t, ok)
	assert.Equal(t, "x", s)

	s, ok = StringValue(args[1])
	assert.True(t, ok)
	assert.Equal(t, "y", s)

	_, ok = StringValue(args[2])
	assert.False(t, ok)
	_, ok = StringValue(args[3])
	assert.False(t, ok)
}

func TestHasToken(t *testing.T) {
	f := parseFile(t, "a.js", `class A { static x = 1; async m() {} }`)

	body := find(t, f, KindClassBody, "{ static x = 1; async m() {} }", 0)
	members := body.NamedChildren()
	require.Len(t, members, 2)
	assert.True(t, members[0].HasToken("static"))
	assert.True(t, members[1].HasToken("async"))
	assert.False(t, members[1].HasToken("static"))
}

type recordingImporter struct {
	calls []string
	err   error
}

func (r *recordingImporter) Import(source, name string, from *File) (Path, error) {
	r.calls = append(r.calls, source+"#"+name)
	return Path{}, r.err
}

func TestFileImportRecordsError(t *testing.T) {
	f := parseFile(t, "a.js", `1;`)

	assert.True(t, f.Import("./x", "default").IsNil(), "no importer configured")

	imp := &recordingImporter{err: assert.AnError}
	f.Importer = imp
	assert.True(t, f.Import("./x", "default").IsNil())
	assert.True(t, f.Import("./y", "a").IsNil())
	assert.Equal(t, []string{"./x#default", "./y#a"}, imp.calls)
	require.Error(t, f.Err())
	assert.ErrorIs(t, f.Err(), assert.AnError)
	assert.Contains(t, f.Err().Error(), "./x")
}

func TestDialects(t *testing.T) {
	assert.True(t, parseFile(t, "a.js", "// @flow\n1;").IsFlow())
	assert.True(t, parseFile(t, "a.tsx", "1;").IsTypeScript())
	js := parseFile(t, "a.js", "1;")
	assert.False(t, js.IsFlow())
	assert.False(t, js.IsTypeScript())
}
