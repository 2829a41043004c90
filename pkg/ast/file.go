// Package ast wraps tree-sitter syntax trees with the path, scope and
// binding primitives the analyzers are written against.
package ast

import (
	"fmt"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/uidocgen/pkg/parser"
	"github.com/gnana997/uidocgen/pkg/parser/queries"
)

// Importer resolves a named export of another module.
//
// A zero Path with a nil error means the export was not found. A non-nil
// error is fatal for the file being documented.
type Importer interface {
	Import(source, name string, from *File) (Path, error)
}

// StaticMember is a `Class.name = value` assignment attached to a class.
type StaticMember struct {
	Name      string
	Value     Path
	Statement Path
}

// File is one parsed source file together with its lazily built analysis
// tables. A File may be shared between goroutines once parsed.
type File struct {
	// Path is the file path used for module resolution; may be empty.
	Path string

	// Source is the text the tree was parsed from.
	Source []byte

	// Tree is the tree-sitter syntax tree.
	Tree *ts.Tree

	Grammar parser.Grammar
	Dialect parser.Dialect

	// Importer resolves cross-file references; nil disables them.
	Importer Importer

	// Queries is used for statics and export lookups; nil uses a shared manager.
	Queries *queries.QueryManager

	mu      sync.Mutex
	scopes  map[uintptr]map[string][]*Binding
	statics map[uintptr][]StaticMember
	err     error
}

var sharedQueries = sync.OnceValue(func() *queries.QueryManager {
	return queries.NewQueryManager(nil)
})

// Parse parses source with the grammar selected from filePath and the
// Flow pragma.
func Parse(pm *parser.ParserManager, filePath string, source []byte) (*File, error) {
	tree, dialect, err := pm.ParseFile(source, filePath)
	if err != nil {
		return nil, err
	}
	grammar, _ := parser.Detect(filePath, source)
	return NewFile(filePath, source, tree, grammar, dialect), nil
}

// NewFile wraps an existing tree.
func NewFile(filePath string, source []byte, tree *ts.Tree, grammar parser.Grammar, dialect parser.Dialect) *File {
	return &File{
		Path:    filePath,
		Source:  source,
		Tree:    tree,
		Grammar: grammar,
		Dialect: dialect,
		scopes:  make(map[uintptr]map[string][]*Binding),
		statics: make(map[uintptr][]StaticMember),
	}
}

// Root returns the program node.
func (f *File) Root() Path {
	if f == nil || f.Tree == nil {
		return Path{}
	}
	root := f.Tree.RootNode()
	return NewPath(f, root)
}

// Close releases the syntax tree. Paths into the file are invalid afterwards.
func (f *File) Close() {
	if f.Tree != nil {
		f.Tree.Close()
		f.Tree = nil
	}
}

// IsFlow reports whether type annotations follow Flow rules.
func (f *File) IsFlow() bool { return f.Dialect == parser.DialectFlow }

// IsTypeScript reports whether type annotations follow TypeScript rules.
func (f *File) IsTypeScript() bool { return f.Dialect == parser.DialectTS }

// Import asks the configured importer for name exported by source.
//
// Importer failures are recorded on the file (see Err) and reported as not
// found, so analysis can run to completion before the error surfaces.
func (f *File) Import(source, name string) Path {
	if f.Importer == nil {
		return Path{}
	}
	p, err := f.Importer.Import(source, name, f)
	if err != nil {
		f.SetErr(fmt.Errorf("import %q from %q: %w", name, source, err))
		return Path{}
	}
	return p
}

// SetErr records the first fatal error raised while analyzing the file.
func (f *File) SetErr(err error) {
	if err == nil {
		return
	}
	f.mu.Lock()
	if f.err == nil {
		f.err = err
	}
	f.mu.Unlock()
}

// Err returns the first fatal error recorded by SetErr.
func (f *File) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Query runs a query of the given type over the subtree at root.
func (f *File) Query(qtype queries.QueryType, root Path) ([]queries.QueryMatch, error) {
	if root.IsNil() {
		return nil, nil
	}
	qm := f.Queries
	if qm == nil {
		qm = sharedQueries()
	}
	return qm.Run(f.Grammar, qtype, root.Node(), f.Source)
}

// Statics returns the static members recorded for class, computing them
// once with compute.
func (f *File) Statics(class Path, compute func() []StaticMember) []StaticMember {
	id := class.Node().Id()

	f.mu.Lock()
	members, ok := f.statics[id]
	f.mu.Unlock()
	if ok {
		return members
	}

	// compute may run concurrently for the same class; results are identical.
	members = compute()

	f.mu.Lock()
	if existing, ok := f.statics[id]; ok {
		members = existing
	} else {
		f.statics[id] = members
	}
	f.mu.Unlock()
	return members
}
