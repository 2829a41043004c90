package typedesc

import (
	"strings"

	"github.com/gnana997/uidocgen/pkg/ast"
	"github.com/gnana997/uidocgen/pkg/resolve"
)

const kindError = "ERROR"

// objectMember is one entry of an object type body: a member node, or a
// Flow spread `...T`.
type objectMember struct {
	member ast.Path
	spread *objectSpread
}

// objectSpread is a `...T` entry of a Flow object type. The TSX grammar has
// no object type spreads, so the dots surface as an ERROR node and T is
// recovered from the source text up to the next top-level separator.
type objectSpread struct {
	// text is T as written, e.g. "Base" or "$Exact<Base>".
	text string
	// node is a type node spanning exactly text, when the parser kept one.
	node ast.Path
	// anchor is where names in text are looked up.
	anchor ast.Path
}

// objectMembers lists the entries of an object type or interface body in
// source order. Nodes the parser recovered from inside a spread are folded
// into it.
func objectMembers(body ast.Path) []objectMember {
	var out []objectMember
	var spreadEnd uint
	for _, child := range body.NamedChildren() {
		if child.StartByte() < spreadEnd {
			continue
		}
		if child.Is(kindError) {
			if s, end, ok := parseSpread(body, child); ok {
				out = append(out, objectMember{spread: s})
				spreadEnd = end
			}
			continue
		}
		out = append(out, objectMember{member: child})
	}
	return out
}

// parseSpread reads the spread starting at the ERROR node errNode. It
// returns the spread and the byte offset where it ends.
func parseSpread(body, errNode ast.Path) (*objectSpread, uint, bool) {
	raw := errNode.Text()
	dots := strings.Index(raw, "...")
	if dots < 0 || strings.TrimLeft(raw[:dots], " \t\r\n{,;") != "" {
		return nil, 0, false
	}
	src := body.File().Source
	begin := errNode.StartByte() + uint(dots) + 3
	end := scanSpread(src, begin, body.EndByte())
	text := strings.TrimSpace(string(src[begin:end]))
	if text == "" {
		return nil, 0, false
	}

	s := &objectSpread{text: text, anchor: errNode}
	ast.Walk(body, func(p ast.Path) bool {
		if !s.node.IsNil() || p.EndByte() <= begin || p.StartByte() >= end {
			return false
		}
		if p.IsNamed() && !p.Is(kindError) && p.Text() == text && isTypeNode(p) {
			s.node = p
			return false
		}
		return true
	})
	return s, end, true
}

// scanSpread returns the offset of the first `,` `;` or closing bracket at
// nesting depth zero in src[from:limit], or limit.
func scanSpread(src []byte, from, limit uint) uint {
	depth := 0
	for i := from; i < limit; i++ {
		switch src[i] {
		case '<', '(', '[', '{':
			depth++
		case '>':
			if i > from && src[i-1] == '=' {
				continue // arrow in a function type
			}
			depth--
		case ')', ']', '}':
			depth--
		case ',', ';':
			if depth == 0 {
				return i
			}
		}
		if depth < 0 {
			return i
		}
	}
	return limit
}

func isTypeNode(p ast.Path) bool {
	return p.Is(referenceKinds...) || p.Is(kindObjectType, kindIntersectionType, kindParenthesizedType)
}

// declaration resolves a spread written as a plain or utility-wrapped name,
// such as `Base` or `$Exact<Base>`, to the interface or alias it names.
func (s *objectSpread) declaration(d dialect) ast.Path {
	name := s.text
	for {
		open := strings.IndexByte(name, '<')
		if open < 0 || !strings.HasSuffix(name, ">") {
			break
		}
		if !d.utility(strings.TrimSpace(name[:open])) {
			name = strings.TrimSpace(name[:open])
			break
		}
		name = strings.TrimSpace(name[open+1 : len(name)-1])
	}
	if name == "" || strings.ContainsAny(name, "{}()|&. ") {
		return ast.Path{}
	}

	b := s.anchor.LookupType(name)
	if b == nil {
		return ast.Path{}
	}
	var decl ast.Path
	switch b.Kind {
	case ast.BindingType:
		decl = b.Declaration
	case ast.BindingImport:
		if b.Imported == "*" {
			return ast.Path{}
		}
		decl = resolve.ToValue(b.Declaration.File().Import(b.Source, b.Imported))
	}
	if !decl.Is(ast.KindInterface, ast.KindTypeAlias) {
		return ast.Path{}
	}
	return decl
}
