package handlers

import (
	"github.com/gnana997/uidocgen/pkg/ast"
	"github.com/gnana997/uidocgen/pkg/docblock"
	"github.com/gnana997/uidocgen/pkg/docs"
	"github.com/gnana997/uidocgen/pkg/finder"
	"github.com/gnana997/uidocgen/pkg/resolve"
)

// ComponentDocblock sets description to the docblock above the definition.
// For forwardRef definitions the wrapped function's docblock is used when
// the call has none.
func ComponentDocblock(doc *docs.Documentation, def ast.Path) error {
	description := docblock.Nearest(def)
	if description == "" {
		if fn := componentFunction(def); !fn.IsNil() && !fn.Same(def) {
			description = docblock.Nearest(fn)
		}
	}
	doc.Set("description", description)
	return nil
}

// DisplayName sets displayName from an explicit displayName member, or
// else from the name the definition is declared under.
func DisplayName(doc *docs.Documentation, def ast.Path) error {
	v, err := resolve.MemberValuePath(def, "displayName")
	if err != nil {
		return err
	}
	if !v.IsNil() {
		resolved := resolve.ToValue(v)
		if s, ok := ast.StringValue(resolved); ok {
			doc.Set("displayName", s)
		} else {
			doc.Set("displayName", resolve.PrintValue(v))
		}
		return nil
	}

	if name := declaredName(def); name != "" {
		doc.Set("displayName", name)
	}
	return nil
}

// declaredName returns the name a definition is declared under. createClass
// objects are named by the call they are passed to; forwardRef calls fall
// back to the name of the wrapped function.
func declaredName(def ast.Path) string {
	target := def
	if def.Is(ast.KindObject) {
		if call := def.Parent().Parent(); finder.IsReactCreateClassCall(call) {
			target = call
		}
	}
	if name := ast.NameOf(target); name != "" && !target.Is(ast.KindObject) {
		return name
	}
	if id, err := resolve.DefinitionName(target); err == nil && !id.IsNil() {
		return id.Text()
	}
	if fn := componentFunction(def); !fn.IsNil() && !fn.Same(def) {
		return ast.NameOf(fn)
	}
	return ""
}
