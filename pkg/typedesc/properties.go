package typedesc

import (
	"github.com/gnana997/uidocgen/pkg/ast"
	"github.com/gnana997/uidocgen/pkg/resolve"
)

// ApplyToTypeProperties calls fn for every property and method member of
// the object type p, together with the substitution map the member must be
// described under. Interfaces contribute the members of the types they
// extend first; intersections and aliases are flattened. Extended types
// that cannot be resolved are passed to composes, which may be nil.
func ApplyToTypeProperties(p ast.Path, params TypeParams, fn func(member ast.Path, params TypeParams), composes func(name string)) {
	a := &applier{
		dialect:  dialectFor(p.File()),
		fn:       fn,
		composes: composes,
		visiting: make(map[ast.Key]bool),
	}
	a.apply(p, params, 0)
}

type applier struct {
	dialect  dialect
	fn       func(ast.Path, TypeParams)
	composes func(string)
	visiting map[ast.Key]bool
}

func (a *applier) apply(p ast.Path, params TypeParams, depth int) {
	p = unwrap(p, a.dialect)
	if p.IsNil() || depth > maxTypeDepth {
		return
	}

	switch {
	case p.Is(kindObjectType, kindInterfaceBody):
		for _, entry := range objectMembers(p) {
			switch {
			case entry.spread != nil:
				if !a.spread(entry.spread, params, depth+1) && a.composes != nil {
					a.composes(entry.spread.text)
				}
			case entry.member.Is(kindPropertySignature, kindMethodSignature):
				a.fn(entry.member, params)
			}
		}

	case p.Is(kindIntersectionType):
		for _, child := range p.NamedChildren() {
			a.apply(child, params, depth+1)
		}

	case p.Is(ast.KindInterface), p.Is(ast.KindTypeAlias):
		key := p.Key()
		if a.visiting[key] {
			return
		}
		a.visiting[key] = true
		defer delete(a.visiting, key)

		if p.Is(ast.KindTypeAlias) {
			a.apply(p.Field("value"), params, depth+1)
			return
		}
		for _, ext := range extendsTypes(p) {
			name, _ := referenceName(ext)
			if !a.reference(ext, params, depth+1) && a.composes != nil {
				a.composes(name.Text())
			}
		}
		a.apply(p.Field("body"), params, depth+1)

	case p.Is(referenceKinds...):
		a.reference(p, params, depth+1)
	}
}

// reference applies to the declaration a type reference resolves to. It
// reports whether the reference could be followed.
func (a *applier) reference(ref ast.Path, params TypeParams, depth int) bool {
	name, args := referenceName(ref)
	if name.Is(ast.KindTypeIdentifier) {
		if arg, ok := params[name.Text()]; ok {
			if arg.Type.IsNil() {
				return false
			}
			a.apply(arg.Type, arg.Params, depth)
			return true
		}
	}
	decl := lookupType(name)
	if !decl.Is(ast.KindInterface, ast.KindTypeAlias) {
		return false
	}
	a.apply(decl, TypeParameters(decl.Field("type_parameters"), args, params), depth)
	return true
}

// spread applies to the object type spread by `...T`. It reports whether T
// could be followed.
func (a *applier) spread(s *objectSpread, params TypeParams, depth int) bool {
	if !s.node.IsNil() {
		node := unwrap(s.node, a.dialect)
		if node.Is(referenceKinds...) {
			return a.reference(node, params, depth)
		}
		a.apply(node, params, depth)
		return true
	}
	decl := s.declaration(a.dialect)
	if decl.IsNil() {
		return false
	}
	a.apply(decl, TypeParameters(decl.Field("type_parameters"), nil, params), depth)
	return true
}

// MemberName returns the key of an object type member.
func MemberName(member ast.Path) string {
	return resolve.PropertyName(member.Field("name"))
}

// IsOptional reports whether an object type member is marked with `?`.
func IsOptional(member ast.Path) bool {
	return member.HasToken("?")
}

// MemberType describes the type of an object type member as visited by
// ApplyToTypeProperties: the annotation of a property, or the signature of
// a method.
func MemberType(member ast.Path, params TypeParams) Type {
	w := newWalker(dialectFor(member.File()))
	if member.Is(kindMethodSignature) {
		return w.functionSignature(member, params)
	}
	return w.get(member.Field("type"), params)
}
