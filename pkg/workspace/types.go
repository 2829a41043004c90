// Package workspace documents many files at once: it discovers component
// sources under a root, runs the generator over them with a worker pool and
// watches the tree for changes.
package workspace

import (
	"time"

	"github.com/gnana997/uidocgen/pkg/ast"
	"github.com/gnana997/uidocgen/pkg/docs"
	"github.com/gnana997/uidocgen/pkg/finder"
	"github.com/gnana997/uidocgen/pkg/util"
)

// Options configures a workspace run.
type Options struct {
	// Include and Exclude are doublestar patterns relative to the root.
	// An empty Include matches every supported source file.
	Include []string
	Exclude []string

	// Workers is the number of files documented in parallel (0 = auto-detect).
	Workers int

	// Resolver and Importer are passed to every docgen.Parse call.
	Resolver finder.Resolver
	Importer ast.Importer

	// Files reads sources; nil reads them from disk directly.
	Files util.FileCache
}

// DefaultOptions returns options covering a typical component library.
func DefaultOptions() Options {
	return Options{
		Include: DefaultInclude(),
		Exclude: DefaultExclude(),
	}
}

// DefaultInclude matches JavaScript and TypeScript sources.
func DefaultInclude() []string {
	return []string{
		"**/*.js",
		"**/*.jsx",
		"**/*.mjs",
		"**/*.cjs",
		"**/*.ts",
		"**/*.tsx",
	}
}

// DefaultExclude skips dependencies, build output and tests.
func DefaultExclude() []string {
	return []string{
		"**/node_modules/**",
		".git/**",
		"dist/**",
		"build/**",
		"coverage/**",
		"out/**",
		".next/**",
		"**/*.d.ts",
		"**/*.test.*",
		"**/*.spec.*",
		"**/*.stories.*",
	}
}

// Result is the outcome of documenting one file. Err is set instead of
// Docs when the file could not be documented.
type Result struct {
	Path string
	Docs []*docs.Documentation
	Err  error
}

// Stats summarizes a workspace run.
type Stats struct {
	FilesDiscovered int
	FilesDocumented int
	FilesFailed     int
	Definitions     int
	WorkerCount     int
	Duration        time.Duration
	Cancelled       bool
}

// ProgressCallback is called after each file with the number of files
// finished so far.
type ProgressCallback func(done, total int, path string)
