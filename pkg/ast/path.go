package ast

import (
	ts "github.com/tree-sitter/go-tree-sitter"
)

// Path is a read-only handle to one syntax node of a File.
//
// The zero Path is the absent path. Paths are small values and are compared
// by identity (Same, Key), never by structure.
type Path struct {
	node *ts.Node
	file *File
}

// Key identifies a node position for seen-sets and side tables.
type Key struct {
	file *File
	id   uintptr
}

// NewPath wraps node. A nil node yields the zero Path.
func NewPath(file *File, node *ts.Node) Path {
	if node == nil || file == nil {
		return Path{}
	}
	return Path{node: node, file: file}
}

// IsNil reports whether p is the absent path.
func (p Path) IsNil() bool { return p.node == nil }

// Node returns the underlying tree-sitter node, or nil.
func (p Path) Node() *ts.Node { return p.node }

// File returns the file owning the node.
func (p Path) File() *File { return p.file }

// Kind returns the grammar kind of the node, or "" for the absent path.
func (p Path) Kind() string {
	if p.node == nil {
		return ""
	}
	return p.node.Kind()
}

// Is reports whether the node has one of the given kinds.
func (p Path) Is(kinds ...string) bool {
	if p.node == nil {
		return false
	}
	k := p.node.Kind()
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

// IsNamed reports whether the node is a named grammar node.
func (p Path) IsNamed() bool { return p.node != nil && p.node.IsNamed() }

// Text returns the source text covered by the node.
func (p Path) Text() string {
	if p.node == nil {
		return ""
	}
	return p.node.Utf8Text(p.file.Source)
}

// Key returns the identity of the node.
func (p Path) Key() Key {
	if p.node == nil {
		return Key{}
	}
	return Key{file: p.file, id: p.node.Id()}
}

// Same reports whether p and o denote the same node of the same file.
func (p Path) Same(o Path) bool {
	if p.node == nil || o.node == nil {
		return p.node == nil && o.node == nil
	}
	return p.Key() == o.Key()
}

// StartByte returns the byte offset of the node start.
func (p Path) StartByte() uint {
	if p.node == nil {
		return 0
	}
	return p.node.StartByte()
}

// EndByte returns the byte offset of the node end.
func (p Path) EndByte() uint {
	if p.node == nil {
		return 0
	}
	return p.node.EndByte()
}

// Line returns the 1-based line of the node start.
func (p Path) Line() int {
	if p.node == nil {
		return 0
	}
	return int(p.node.StartPosition().Row) + 1
}

// Contains reports whether o lies within p (p itself included).
func (p Path) Contains(o Path) bool {
	if p.node == nil || o.node == nil || p.file != o.file {
		return false
	}
	return p.StartByte() <= o.StartByte() && o.EndByte() <= p.EndByte()
}

// Parent returns the parent node, or the zero Path at the root.
func (p Path) Parent() Path {
	if p.node == nil {
		return Path{}
	}
	return NewPath(p.file, p.node.Parent())
}

// Field returns the child stored under the grammar field name.
func (p Path) Field(name string) Path {
	if p.node == nil {
		return Path{}
	}
	return NewPath(p.file, p.node.ChildByFieldName(name))
}

// Fields returns every child stored under the grammar field name.
func (p Path) Fields(name string) []Path {
	if p.node == nil {
		return nil
	}
	cursor := p.node.Walk()
	defer cursor.Close()

	nodes := p.node.ChildrenByFieldName(name, cursor)
	out := make([]Path, 0, len(nodes))
	for i := range nodes {
		n := nodes[i]
		out = append(out, NewPath(p.file, &n))
	}
	return out
}

// FieldName returns the grammar field under which p is stored in its parent.
func (p Path) FieldName() string {
	parent := p.Parent()
	if parent.IsNil() {
		return ""
	}
	id := p.node.Id()
	count := parent.node.ChildCount()
	for i := uint(0); i < count; i++ {
		c := parent.node.Child(i)
		if c != nil && c.Id() == id {
			return parent.node.FieldNameForChild(uint32(i))
		}
	}
	return ""
}

// Children returns all children, anonymous tokens included.
func (p Path) Children() []Path {
	if p.node == nil {
		return nil
	}
	count := p.node.ChildCount()
	out := make([]Path, 0, count)
	for i := uint(0); i < count; i++ {
		out = append(out, NewPath(p.file, p.node.Child(i)))
	}
	return out
}

// NamedChildren returns the named children, skipping comments.
func (p Path) NamedChildren() []Path {
	if p.node == nil {
		return nil
	}
	count := p.node.NamedChildCount()
	out := make([]Path, 0, count)
	for i := uint(0); i < count; i++ {
		c := p.node.NamedChild(i)
		if c == nil || c.Kind() == KindComment {
			continue
		}
		out = append(out, NewPath(p.file, c))
	}
	return out
}

// FirstNamedChild returns the first named, non-comment child.
func (p Path) FirstNamedChild() Path {
	for _, c := range p.NamedChildren() {
		return c
	}
	return Path{}
}

// Child returns the first named child of one of the given kinds.
func (p Path) Child(kinds ...string) Path {
	for _, c := range p.NamedChildren() {
		if c.Is(kinds...) {
			return c
		}
	}
	return Path{}
}

// HasToken reports whether an anonymous child token with the given text
// exists, e.g. "static", "async", "?", "*" or "default".
func (p Path) HasToken(token string) bool {
	if p.node == nil {
		return false
	}
	count := p.node.ChildCount()
	for i := uint(0); i < count; i++ {
		c := p.node.Child(i)
		if c != nil && !c.IsNamed() && c.Kind() == token {
			return true
		}
	}
	return false
}

// PrevSibling returns the previous sibling, anonymous tokens and comments included.
func (p Path) PrevSibling() Path {
	if p.node == nil {
		return Path{}
	}
	return NewPath(p.file, p.node.PrevSibling())
}

// Ancestor returns the closest proper ancestor of one of the given kinds.
func (p Path) Ancestor(kinds ...string) Path {
	for cur := p.Parent(); !cur.IsNil(); cur = cur.Parent() {
		if cur.Is(kinds...) {
			return cur
		}
	}
	return Path{}
}

// EnclosingFunction returns the closest function-like ancestor, or the zero
// Path at module level.
func (p Path) EnclosingFunction() Path {
	return p.Ancestor(FunctionKinds...)
}

// Walk visits the subtree rooted at p in pre-order. Returning false from fn
// skips the children of the visited node.
func Walk(p Path, fn func(Path) bool) {
	if p.IsNil() || !fn(p) {
		return
	}
	for _, c := range p.NamedChildren() {
		Walk(c, fn)
	}
}
