package handlers

import (
	"github.com/gnana997/uidocgen/pkg/ast"
	"github.com/gnana997/uidocgen/pkg/docblock"
	"github.com/gnana997/uidocgen/pkg/docs"
	"github.com/gnana997/uidocgen/pkg/finder"
	"github.com/gnana997/uidocgen/pkg/resolve"
	"github.com/gnana997/uidocgen/pkg/typedesc"
)

// TypeAnnotations documents the props type of the component: Flow types in
// Flow files, TypeScript types otherwise. Plain JavaScript files carry no
// annotations and are skipped.
func TypeAnnotations(doc *docs.Documentation, def ast.Path) error {
	f := def.File()
	if !f.IsFlow() && !f.IsTypeScript() {
		return nil
	}
	propsType := propsTypeOf(def)
	if propsType.IsNil() {
		return nil
	}

	typedesc.ApplyToTypeProperties(propsType, nil,
		func(member ast.Path, params typedesc.TypeParams) {
			name := typedesc.MemberName(member)
			if name == "" {
				return
			}
			desc := doc.GetPropDescriptor(name)
			t := typedesc.MemberType(member, params)
			if f.IsFlow() {
				desc.FlowType = t
			} else {
				desc.TSType = t
			}
			desc.SetRequired(!typedesc.IsOptional(member))
			if desc.Description == "" {
				desc.Description = docblock.Get(member)
			}
		},
		doc.AddComposes)
	return nil
}

// propsTypeOf returns the annotation describing a component's props:
//   - the first type argument of the extended class, `Component<Props>`
//   - the annotation of a class `props` field
//   - the annotation of a function's first parameter
//   - the first type argument of the variable annotation, `const C: FC<Props>`
//   - the second type argument of `forwardRef<Ref, Props>(...)`
func propsTypeOf(def ast.Path) ast.Path {
	if ast.IsClass(def) {
		if args := finder.SuperTypeArguments(def); len(args) > 0 {
			return args[0]
		}
		for _, member := range resolve.ClassBody(def) {
			if !member.Is(ast.KindFieldDefinition, ast.KindPublicFieldDefinition) || resolve.IsStatic(member) {
				continue
			}
			if resolve.PropertyName(resolve.PropertyKey(member)) == "props" {
				return member.Field("type")
			}
		}
		return ast.Path{}
	}

	fn := componentFunction(def)
	if param := propsParam(fn); !param.IsNil() {
		if t := param.Field("type"); !t.IsNil() {
			return t
		}
	}
	if annotated := declaratorTypeArgument(def); !annotated.IsNil() {
		return annotated
	}
	if finder.IsReactForwardRefCall(def) {
		if args := ast.Unparen(def).Field("type_arguments").NamedChildren(); len(args) > 1 {
			return args[1]
		}
	}
	return ast.Path{}
}

// declaratorTypeArgument returns Props in `const C: React.FC<Props> = ...`.
func declaratorTypeArgument(def ast.Path) ast.Path {
	decl := def.Parent()
	if !decl.Is(ast.KindVariableDeclarator) || !decl.Field("value").Same(def) {
		return ast.Path{}
	}
	t := decl.Field("type").FirstNamedChild()
	if !t.Is("generic_type") {
		return ast.Path{}
	}
	args := t.Field("type_arguments").NamedChildren()
	if len(args) == 0 {
		return ast.Path{}
	}
	return args[0]
}
