package typedesc

import (
	"encoding/json"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uidocgen/pkg/ast"
	"github.com/gnana997/uidocgen/pkg/parser"
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

// decl returns the type alias or interface declaration named name.
func decl(t *testing.T, f *ast.File, name string) ast.Path {
	t.Helper()
	var found ast.Path
	ast.Walk(f.Root(), func(p ast.Path) bool {
		if found.IsNil() && p.Is(ast.KindTypeAlias, ast.KindInterface) && ast.NameOf(p) == name {
			found = p
		}
		return found.IsNil()
	})
	require.False(t, found.IsNil(), "no declaration %s", name)
	return found
}

func required(t Type) Type { return WithRequired(t, true) }

func optional(t Type) Type { return WithRequired(t, false) }

func properties(t *testing.T, typ Type) map[string]Type {
	t.Helper()
	sig, ok := typ.(*ObjectSignature)
	require.True(t, ok, "expected object signature, got %#v", typ)
	out := make(map[string]Type)
	for _, prop := range sig.Signature.Properties {
		out[prop.Key] = prop.Value
	}
	return out
}

func TestTSTypeBasics(t *testing.T) {
	f := parseFile(t, "a.ts", `
type U = string | 'a' | 1 | null;
type I = { a: number } & { b: boolean };
type Arr = string[];
type Gen = Array<number>;
type Tup = [string, number?];
type Tpl = `+"`x-${string}`"+`;
type Paren = (any);
type RO = Readonly<{ r: string }>;
`)

	u := TSType(decl(t, f, "U"), nil)
	assert.Equal(t, &Elements{
		Name: "union",
		Raw:  "string | 'a' | 1 | null",
		Elements: []Type{
			&Simple{Name: "string"},
			&Literal{Name: "literal", Value: "'a'"},
			&Literal{Name: "literal", Value: "1"},
			&Simple{Name: "null"},
		},
	}, u)

	i := TSType(decl(t, f, "I"), nil).(*Elements)
	assert.Equal(t, "intersection", i.Name)
	assert.Len(t, i.Elements, 2)

	assert.Equal(t, &Elements{Name: "Array", Raw: "string[]", Elements: []Type{simple("string")}},
		TSType(decl(t, f, "Arr"), nil))
	assert.Equal(t, &Elements{Name: "Array", Raw: "Array<number>", Elements: []Type{simple("number")}},
		TSType(decl(t, f, "Gen"), nil))

	tup := TSType(decl(t, f, "Tup"), nil).(*Elements)
	assert.Equal(t, "tuple", tup.Name)
	assert.Equal(t, []Type{simple("string"), simple("number")}, tup.Elements)

	assert.Equal(t, &Literal{Name: "literal", Value: "`x-${string}`"}, TSType(decl(t, f, "Tpl"), nil))
	assert.Equal(t, simple("any"), TSType(decl(t, f, "Paren"), nil))
	assert.Equal(t, map[string]Type{"r": required(simple("string"))}, properties(t, TSType(decl(t, f, "RO"), nil)))
}

func TestUnknownFallback(t *testing.T) {
	f := parseFile(t, "a.ts", `
type Cond<T> = T extends string ? 1 : 2;
type Key = keyof Foo;
`)

	assert.Equal(t, Unknown(), TSType(decl(t, f, "Cond"), nil))
	assert.Equal(t, Unknown(), TSType(ast.Path{}, nil))
	// keyof is TypeScript syntax; the Flow walker does not know it.
	assert.Equal(t, Unknown(), FlowType(decl(t, f, "Key"), nil))
	assert.True(t, IsUnknown(TSType(decl(t, f, "Key"), nil)), "keys of an unresolvable type")
	assert.True(t, IsUnknown(nil))
}

func TestSelfReference(t *testing.T) {
	f := parseFile(t, "a.ts", `type T = { self: T };`)

	props := properties(t, TSType(decl(t, f, "T"), nil))
	assert.Equal(t, map[string]Type{"self": required(simple("T"))}, props)
}

func TestMutualReference(t *testing.T) {
	f := parseFile(t, "a.ts", `
type A = { b: B };
type B = { a: A; again: A };
`)

	a := properties(t, TSType(decl(t, f, "A"), nil))
	b := properties(t, a["b"])
	assert.Equal(t, required(simple("A")), b["a"])
	assert.Equal(t, required(simple("A")), b["again"])
}

func TestGenericSubstitution(t *testing.T) {
	f := parseFile(t, "a.ts", `
type Box<T> = { value: T };
type P = Box<string>;
type Defaulted<T = number, U = T[]> = { t: T; u: U };
type D = Defaulted;
type Nested<T> = Box<Box<T>>;
type N = Nested<boolean>;
`)

	assert.Equal(t, map[string]Type{"value": required(simple("string"))},
		properties(t, TSType(decl(t, f, "P"), nil)))

	d := properties(t, TSType(decl(t, f, "D"), nil))
	assert.Equal(t, required(simple("number")), d["t"])
	assert.Equal(t, required(&Elements{Name: "Array", Raw: "T[]", Elements: []Type{simple("number")}}), d["u"])

	outer := properties(t, TSType(decl(t, f, "N"), nil))
	inner := properties(t, outer["value"])
	assert.Equal(t, required(simple("boolean")), inner["value"])

	// Without an instantiation the parameter stays nominal.
	assert.Equal(t, map[string]Type{"value": required(simple("T"))},
		properties(t, TSType(decl(t, f, "Box"), nil)))
}

func TestInterfaces(t *testing.T) {
	f := parseFile(t, "a.ts", `
interface Base<T> { v: T; }
/** Docs */
interface I extends Base<string> {
  /** The w. */
  w?: number;
  m(x: string): void;
  [key: string]: any;
}
type Holder = { i: I };
`)

	holder := properties(t, TSType(decl(t, f, "Holder"), nil))
	assert.Equal(t, required(simple("I")), holder["i"], "interfaces are referenced by name")

	sig := TSType(decl(t, f, "I"), nil).(*ObjectSignature)
	require.Len(t, sig.Signature.Properties, 4)
	assert.Equal(t, "v", sig.Signature.Properties[0].Key)
	assert.Equal(t, required(simple("string")), sig.Signature.Properties[0].Value)
	assert.Equal(t, "w", sig.Signature.Properties[1].Key)
	assert.Equal(t, optional(simple("number")), sig.Signature.Properties[1].Value)
	assert.Equal(t, "The w.", sig.Signature.Properties[1].Description)

	m := sig.Signature.Properties[2].Value.(*FunctionSignature)
	assert.Equal(t, []FunctionArgument{{Name: "x", Type: simple("string")}}, m.Signature.Arguments)
	assert.Equal(t, simple("void"), m.Signature.Return)

	index := sig.Signature.Properties[3]
	assert.Equal(t, simple("string"), index.KeyType)
	assert.Equal(t, required(simple("any")), index.Value)
}

func TestFunctionType(t *testing.T) {
	f := parseFile(t, "a.ts", `type F = (this: Window, a: string, b, ...rest: number[]) => void;`)

	fn := TSType(decl(t, f, "F"), nil).(*FunctionSignature)
	assert.Equal(t, "signature", fn.Name)
	assert.Equal(t, "function", fn.Type)
	assert.Equal(t, simple("Window"), fn.Signature.This)
	assert.Equal(t, []FunctionArgument{
		{Name: "a", Type: simple("string")},
		{Name: "b"},
		{Name: "rest", Type: &Elements{Name: "Array", Raw: "number[]", Elements: []Type{simple("number")}}, Rest: true},
	}, fn.Signature.Arguments)
	assert.Equal(t, simple("void"), fn.Signature.Return)
}

func TestKeysAndIndexedAccess(t *testing.T) {
	f := parseFile(t, "a.ts", `
const sizes = { small: 1, 'large': 2, ...{ huge: 3 } };
type Size = keyof typeof sizes;
type Obj = { a: string; b?: number };
type K = keyof Obj;
type A = Obj['a'];
type B = Obj['b'];
type Missing = Obj['zzz'];
interface Iface { c: boolean }
type C = Iface['c'];
`)

	size := TSType(decl(t, f, "Size"), nil).(*Elements)
	assert.Equal(t, "union", size.Name)
	assert.Equal(t, []Type{literal("'small'"), literal("'large'"), literal("'huge'")}, size.Elements)

	k := TSType(decl(t, f, "K"), nil).(*Elements)
	assert.Equal(t, []Type{literal("'a'"), literal("'b'")}, k.Elements)

	assert.Equal(t, simple("string"), TSType(decl(t, f, "A"), nil))
	assert.Equal(t, simple("number"), TSType(decl(t, f, "B"), nil))
	assert.Equal(t, Unknown(), TSType(decl(t, f, "Missing"), nil))
	assert.Equal(t, simple("boolean"), TSType(decl(t, f, "C"), nil))
}

func TestTypeQuery(t *testing.T) {
	f := parseFile(t, "a.ts", `
const typed: number = 1;
const untyped = 'x';
type T1 = typeof typed;
type T2 = typeof untyped;
`)

	assert.Equal(t, simple("number"), TSType(decl(t, f, "T1"), nil))
	assert.Equal(t, simple("untyped"), TSType(decl(t, f, "T2"), nil))
}

func TestReactQualifiedNames(t *testing.T) {
	f := parseFile(t, "a.tsx", `
import * as React from 'react';
type P = { node: React.ReactNode; el: React.ReactElement<Props> };
`)

	props := properties(t, TSType(decl(t, f, "P"), nil))
	assert.Equal(t, required(&Simple{Name: "ReactReactNode", Raw: "React.ReactNode"}), props["node"])
	assert.Equal(t, required(&Elements{
		Name:     "ReactReactElement",
		Raw:      "React.ReactElement<Props>",
		Elements: []Type{simple("Props")},
	}), props["el"])
}

func TestFlowType(t *testing.T) {
	f := parseFile(t, "a.js", `// @flow
type P = {
  a: ?string,
  b?: $ReadOnlyArray<number>,
  c: $Exact<{ d: mixed }>,
  n: React.Node,
  k: $Keys<{ x: 1, y: 2 }>,
};
`)
	require.True(t, f.IsFlow())

	props := properties(t, FlowType(decl(t, f, "P"), nil))
	assert.Equal(t, &Simple{Name: "string", Flags: Flags{Required: boolPtr(true), Nullable: true}}, props["a"])
	assert.Equal(t, optional(&Elements{Name: "Array", Raw: "$ReadOnlyArray<number>", Elements: []Type{simple("number")}}), props["b"])
	assert.Equal(t, map[string]Type{"d": required(simple("mixed"))}, properties(t, props["c"]))
	assert.Equal(t, required(&Simple{Name: "ReactNode", Raw: "React.Node"}), props["n"])

	keys := props["k"].(*Elements)
	assert.Equal(t, []Type{literal("'x'"), literal("'y'")}, keys.Elements)

	// TypeOf picks the Flow walker for Flow files.
	assert.Equal(t, FlowType(decl(t, f, "P"), nil), TypeOf(decl(t, f, "P"), nil))
}

func TestMemoDoesNotShareFlags(t *testing.T) {
	f := parseFile(t, "a.ts", `
type S = string;
type P = { a: S; b?: S };
`)

	props := properties(t, TSType(decl(t, f, "P"), nil))
	assert.Equal(t, required(simple("string")), props["a"])
	assert.Equal(t, optional(simple("string")), props["b"])
}

func TestMarshalJSON(t *testing.T) {
	f := parseFile(t, "a.ts", `type P = { a: 'x' | 'y'; [k: string]: number };`)

	data, err := json.Marshal(TSType(decl(t, f, "P"), nil))
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"name": "signature",
		"type": "object",
		"raw": "{ a: 'x' | 'y'; [k: string]: number }",
		"signature": {
			"properties": [
				{"key": "a", "value": {"name": "union", "raw": "'x' | 'y'", "required": true, "elements": [
					{"name": "literal", "value": "'x'"},
					{"name": "literal", "value": "'y'"}
				]}},
				{"key": {"name": "string"}, "value": {"name": "number", "required": true}}
			]
		}
	}`, string(data))
}

func TestApplyToTypeProperties(t *testing.T) {
	f := parseFile(t, "a.ts", `
interface Base<T> { base: T }
type Extra = { extra: boolean };
interface Props extends Base<string>, External {
  own?: number;
  click(): void;
}
type All = Props & Extra & { inline: string };
type Cyclic = Cyclic & { c: 1 };
`)

	collect := func(p ast.Path) (map[string]Type, []string) {
		got := make(map[string]Type)
		var composes []string
		ApplyToTypeProperties(p, nil, func(member ast.Path, params TypeParams) {
			got[MemberName(member)] = WithRequired(MemberType(member, params), !IsOptional(member))
		}, func(name string) {
			composes = append(composes, name)
		})
		return got, composes
	}

	got, composes := collect(decl(t, f, "All").Field("value"))
	assert.Equal(t, []string{"External"}, composes)
	assert.Equal(t, required(simple("string")), got["base"])
	assert.Equal(t, optional(simple("number")), got["own"])
	assert.IsType(t, &FunctionSignature{}, got["click"])
	assert.Equal(t, required(simple("boolean")), got["extra"])
	assert.Equal(t, required(simple("string")), got["inline"])
	assert.Len(t, got, 5)

	got, _ = collect(decl(t, f, "Cyclic"))
	assert.Equal(t, map[string]Type{"c": required(literal("1"))}, got)
}

func TestFlowObjectSpread(t *testing.T) {
	f := parseFile(t, "a.js", `// @flow
type Base = { a: string };
type P = {...Base, b: number};
type E = {...$Exact<Base>, c: string};
type Partial = {...Missing, z: string};
`)

	tests := []struct {
		name string
		want map[string]Type
	}{
		{"P", map[string]Type{"a": required(simple("string")), "b": required(simple("number"))}},
		{"E", map[string]Type{"a": required(simple("string")), "c": required(simple("string"))}},
		{"Partial", map[string]Type{"z": required(simple("string"))}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, properties(t, FlowType(decl(t, f, tt.name), nil)))

			got := make(map[string]Type)
			var composes []string
			ApplyToTypeProperties(decl(t, f, tt.name), nil, func(member ast.Path, params TypeParams) {
				got[MemberName(member)] = WithRequired(MemberType(member, params), !IsOptional(member))
			}, func(name string) {
				composes = append(composes, name)
			})
			assert.Equal(t, tt.want, got)
			if tt.name == "Partial" {
				assert.Equal(t, []string{"Missing"}, composes)
			} else {
				assert.Empty(t, composes)
			}
		})
	}
}

func TestFlowUnnamedFunctionParams(t *testing.T) {
	f := parseFile(t, "a.js", `// @flow
type Props = { a: string };
type F = (string, number) => void;
type G = (Props, cb: () => void) => boolean;
`)

	fn := FlowType(decl(t, f, "F"), nil).(*FunctionSignature)
	assert.Equal(t, []FunctionArgument{
		{Type: simple("string")},
		{Type: simple("number")},
	}, fn.Signature.Arguments)
	assert.Equal(t, simple("void"), fn.Signature.Return)

	g := FlowType(decl(t, f, "G"), nil).(*FunctionSignature)
	require.Len(t, g.Signature.Arguments, 2)
	assert.Empty(t, g.Signature.Arguments[0].Name)
	assert.Equal(t, map[string]Type{"a": required(simple("string"))}, properties(t, g.Signature.Arguments[0].Type))
	assert.Equal(t, "cb", g.Signature.Arguments[1].Name)
	assert.IsType(t, &FunctionSignature{}, g.Signature.Arguments[1].Type)
}

func TestAliasChainDepth(t *testing.T) {
	const chain = 80
	var src strings.Builder
	for i := 0; i < chain-1; i++ {
		fmt.Fprintf(&src, "type T%d = T%d;\n", i, i+1)
	}
	fmt.Fprintf(&src, "type T%d = string;\n", chain-1)
	f := parseFile(t, "a.ts", src.String())

	assert.Equal(t, Unknown(), TSType(decl(t, f, "T0"), nil))
	assert.Equal(t, simple("string"), TSType(decl(t, f, "T40"), nil))
}

func boolPtr(b bool) *bool { return &b }
