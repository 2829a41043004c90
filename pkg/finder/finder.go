// Package finder locates React component definitions in a parsed file.
//
// A definition is one of:
//   - the object literal passed to createClass
//   - a class component (normalized, see NormalizeClass)
//   - a function returning JSX
//   - a forwardRef call
//
// Resolvers pick which definitions a file documents: the single exported
// one, every exported one, or every one.
package finder

import (
	"errors"
	"fmt"

	"github.com/gnana997/uidocgen/pkg/ast"
	"github.com/gnana997/uidocgen/pkg/parser/queries"
	"github.com/gnana997/uidocgen/pkg/resolve"
)

// ErrMultipleDefinitions is returned by FindExported when a file exports
// more than one component.
var ErrMultipleDefinitions = errors.New("multiple exported component definitions found")

// Resolver returns the component definitions of a file, in document order.
type Resolver func(f *ast.File) ([]ast.Path, error)

// Kind classifies a resolved component definition.
type Kind string

const (
	KindCreateClass Kind = "createClass"
	KindClass       Kind = "class"
	KindStateless   Kind = "stateless"
	KindForwardRef  Kind = "ref-forwarding"
	KindUnknown     Kind = "unknown"
)

// KindOf classifies a definition returned by a Resolver.
func KindOf(def ast.Path) Kind {
	switch {
	case def.Is(ast.KindObject):
		return KindCreateClass
	case ast.IsClass(def):
		return KindClass
	case IsReactForwardRefCall(def):
		return KindForwardRef
	case ast.IsFunction(def):
		return KindStateless
	default:
		return KindUnknown
	}
}

// resolveDefinition maps an accepted candidate to the node its handlers
// run against. The zero Path drops the candidate.
func resolveDefinition(def ast.Path) ast.Path {
	switch {
	case IsReactCreateClassCall(def):
		if obj := resolve.ToValue(callArguments(ast.Unparen(def))[0]); obj.Is(ast.KindObject) {
			return obj
		}
		return ast.Path{}
	case IsReactComponentClass(def):
		NormalizeClass(def)
		return def
	case IsReactForwardRefCall(def), IsStatelessComponent(def):
		return def
	}
	return ast.Path{}
}

// definitionSet keeps definitions unique and in insertion order.
type definitionSet struct {
	keys  map[ast.Key]bool
	paths []ast.Path
}

func newDefinitionSet() *definitionSet {
	return &definitionSet{keys: make(map[ast.Key]bool)}
}

func (s *definitionSet) add(p ast.Path) {
	if p.IsNil() || s.keys[p.Key()] {
		return
	}
	s.keys[p.Key()] = true
	s.paths = append(s.paths, p)
}

func (s *definitionSet) remove(p ast.Path) {
	if !s.keys[p.Key()] {
		return
	}
	delete(s.keys, p.Key())
	for i, q := range s.paths {
		if q.Same(p) {
			s.paths = append(s.paths[:i], s.paths[i+1:]...)
			return
		}
	}
}

// exportedDefinition resolves an exported value to a component definition,
// looking through HOCs when the value itself is not one.
func exportedDefinition(value ast.Path) ast.Path {
	if IsComponentDefinition(value) {
		return value
	}
	def := resolve.ToValue(value)
	if IsComponentDefinition(def) {
		return def
	}
	def = resolve.ToValue(ResolveHOC(def))
	if IsComponentDefinition(def) {
		return def
	}
	return ast.Path{}
}

// exportedValues lists the values a file exports. Re-exports are followed
// through the file's importer.
func exportedValues(f *ast.File) ([]ast.Path, error) {
	exports, err := resolve.Exports(f)
	if err != nil {
		return nil, fmt.Errorf("failed to list exports: %w", err)
	}
	var values []ast.Path
	for _, e := range exports {
		if !e.IsReexport() {
			values = append(values, e.Value)
			continue
		}
		if e.Imported == "*" {
			continue
		}
		if v := f.Import(e.Source, e.Imported); !v.IsNil() {
			values = append(values, v)
		}
	}
	return values, nil
}

func findExported(f *ast.File) (*definitionSet, error) {
	values, err := exportedValues(f)
	if err != nil {
		return nil, err
	}
	set := newDefinitionSet()
	for _, v := range values {
		if def := exportedDefinition(v); !def.IsNil() {
			set.add(resolveDefinition(def))
		}
	}
	return set, nil
}

// FindExported returns the single exported component of f. It fails with
// ErrMultipleDefinitions when there is more than one.
func FindExported(f *ast.File) ([]ast.Path, error) {
	set, err := findExported(f)
	if err != nil {
		return nil, err
	}
	if n := len(set.paths); n > 1 {
		return nil, fmt.Errorf("%w: found %d", ErrMultipleDefinitions, n)
	}
	return set.paths, nil
}

// FindAllExported returns every exported component of f.
func FindAllExported(f *ast.File) ([]ast.Path, error) {
	set, err := findExported(f)
	if err != nil {
		return nil, err
	}
	return set.paths, nil
}

// FindAll returns every component defined in f, exported or not. Functions
// and classes are not searched for nested definitions, and neither are the
// arguments of createClass and forwardRef calls.
func FindAll(f *ast.File) ([]ast.Path, error) {
	matches, err := f.Query(queries.QueryTypeDefinitions, f.Root())
	if err != nil {
		return nil, fmt.Errorf("failed to collect definitions: %w", err)
	}

	set := newDefinitionSet()
	// Matches come in pre-order, so a candidate starting before skipUntil
	// lies inside a node that is not descended into.
	var skipUntil uint
	for _, m := range matches {
		c := m.Captures[0]
		p := ast.NewPath(f, c.Node)
		if p.StartByte() < skipUntil {
			continue
		}

		switch c.Field {
		case "class":
			if IsReactComponentClass(p) {
				set.add(resolveDefinition(p))
			}
		case "function":
			if IsStatelessComponent(p) {
				set.add(p)
			}
		case "call":
			switch {
			case IsReactForwardRefCall(p):
				// The wrapped function is documented through the call.
				set.remove(resolve.ToValue(callArguments(p)[0]))
				set.add(p)
			case IsReactCreateClassCall(p):
				set.add(resolveDefinition(p))
			default:
				continue
			}
		default:
			continue
		}
		skipUntil = max(skipUntil, p.EndByte())
	}
	return set.paths, nil
}
