// Package importer resolves names exported by other modules on behalf of
// the value resolver.
package importer

import (
	"github.com/gnana997/uidocgen/pkg/ast"
)

type ignoreImporter struct{}

func (ignoreImporter) Import(string, string, *ast.File) (ast.Path, error) {
	return ast.Path{}, nil
}

// Ignore is the importer that never resolves anything. Imported values
// stay at their import statements.
var Ignore ast.Importer = ignoreImporter{}
