package importer

import (
	"bytes"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/gnana997/uidocgen/pkg/ast"
	"github.com/gnana997/uidocgen/pkg/parser"
	"github.com/gnana997/uidocgen/pkg/parser/queries"
	"github.com/gnana997/uidocgen/pkg/resolve"
	"github.com/gnana997/uidocgen/pkg/util"
)

// DefaultExtensions are probed, in order, for specifiers without one.
var DefaultExtensions = []string{".js", ".jsx", ".mjs", ".cjs", ".ts", ".tsx", ".mts", ".cts"}

// esmToTS maps runtime extensions written in TypeScript ESM imports to the
// source extensions they stand for.
var esmToTS = map[string][]string{
	".js":  {".ts", ".tsx"},
	".jsx": {".tsx"},
	".mjs": {".mts"},
	".cjs": {".cts"},
}

// FSOptions configures an FS importer.
type FSOptions struct {
	// Parser parses imported modules. Required.
	Parser *parser.ParserManager

	// Queries is shared with the imported files; nil uses a shared manager.
	Queries *queries.QueryManager

	// Files reads module sources; nil creates an unbounded cache owned by the importer.
	Files util.FileCache

	// Extensions overrides DefaultExtensions.
	Extensions []string

	// MaxCachedResolutions bounds the specifier resolution cache (default 4096).
	MaxCachedResolutions int

	Logger *slog.Logger
}

// FSStats reports importer activity.
type FSStats struct {
	Resolved      int64
	Unresolved    int64
	ModulesParsed int64
	ModulesCached int
}

type resolutionKey struct {
	dir  string
	spec string
}

// FS resolves relative and absolute module specifiers on the local file
// system. Bare specifiers (packages) are reported as not found.
//
// Parsed modules are kept for the lifetime of the importer so that paths
// handed out stay valid; Close releases them. FS is safe for concurrent use.
type FS struct {
	pm         *parser.ParserManager
	qm         *queries.QueryManager
	files      util.FileCache
	ownsFiles  bool
	extensions []string
	logger     *slog.Logger

	resolutions *lru.Cache[resolutionKey, string]

	mu      sync.Mutex
	modules map[string]*ast.File
	retired []*ast.File

	resolved   atomic.Int64
	unresolved atomic.Int64
	parsed     atomic.Int64
}

// NewFS creates a file-system importer.
func NewFS(opts FSOptions) (*FS, error) {
	if opts.Parser == nil {
		return nil, errors.New("importer: parser manager is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	size := opts.MaxCachedResolutions
	if size <= 0 {
		size = 4096
	}
	cache, err := lru.New[resolutionKey, string](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create resolution cache: %w", err)
	}

	files := opts.Files
	owns := false
	if files == nil {
		cfg := util.UnboundedFileCacheConfig()
		cfg.Logger = logger
		files = util.NewFileCache(cfg)
		owns = true
	}
	extensions := opts.Extensions
	if len(extensions) == 0 {
		extensions = DefaultExtensions
	}

	return &FS{
		pm:          opts.Parser,
		qm:          opts.Queries,
		files:       files,
		ownsFiles:   owns,
		extensions:  extensions,
		logger:      logger,
		resolutions: cache,
		modules:     make(map[string]*ast.File),
	}, nil
}

// Import implements ast.Importer.
func (fs *FS) Import(source, name string, from *ast.File) (ast.Path, error) {
	return fs.importName(source, name, from, make(map[string]bool))
}

func (fs *FS) importName(source, name string, from *ast.File, visited map[string]bool) (ast.Path, error) {
	if from == nil || !isPathSpecifier(source) {
		return ast.Path{}, nil
	}
	dir := "."
	if from.Path != "" {
		dir = filepath.Dir(from.Path)
	}

	target := fs.resolvePath(dir, source)
	if target == "" {
		fs.unresolved.Add(1)
		fs.logger.Debug("module not found", "specifier", source, "from", from.Path)
		return ast.Path{}, nil
	}
	fs.resolved.Add(1)

	key := target + "#" + name
	if visited[key] {
		return ast.Path{}, nil
	}
	visited[key] = true

	mod, err := fs.load(target)
	if err != nil {
		return ast.Path{}, err
	}
	return fs.exportValue(mod, name, visited)
}

// exportValue finds the export name of mod, following re-exports.
func (fs *FS) exportValue(mod *ast.File, name string, visited map[string]bool) (ast.Path, error) {
	exports, err := resolve.Exports(mod)
	if err != nil {
		return ast.Path{}, fmt.Errorf("failed to list exports of %s: %w", mod.Path, err)
	}

	var stars []resolve.Export
	var defaultValue ast.Path
	for _, e := range exports {
		if e.Name == "*" && e.IsReexport() {
			stars = append(stars, e)
			continue
		}
		if e.Name == "default" && !e.IsReexport() {
			defaultValue = e.Value
		}
		if e.Name != name {
			continue
		}
		if !e.IsReexport() {
			return e.Value, nil
		}
		if e.Imported == "*" {
			return e.Statement, nil
		}
		return fs.importName(e.Source, e.Imported, mod, visited)
	}

	// `module.exports = { name }` exposes its properties as named exports.
	if name != "default" && !defaultValue.IsNil() {
		if obj := resolve.ToValue(defaultValue); obj.Is(ast.KindObject) {
			if v := resolve.PropertyValue(obj, name); !v.IsNil() {
				return v, nil
			}
		}
	}

	for _, e := range stars {
		v, err := fs.importName(e.Source, name, mod, visited)
		if err != nil || !v.IsNil() {
			return v, err
		}
	}
	return ast.Path{}, nil
}

// resolvePath maps a specifier to an existing file, memoizing the result
// (including misses) per directory.
func (fs *FS) resolvePath(dir, spec string) string {
	key := resolutionKey{dir: dir, spec: spec}
	if target, ok := fs.resolutions.Get(key); ok {
		return target
	}

	base := spec
	if !filepath.IsAbs(base) {
		base = filepath.Join(dir, spec)
	}
	target := fs.probe(base)
	if target != "" {
		if abs, err := filepath.Abs(target); err == nil {
			target = abs
		}
	}
	fs.resolutions.Add(key, target)
	return target
}

func (fs *FS) probe(base string) string {
	ext := filepath.Ext(base)
	if parser.IsSupportedFile(base) && isFile(base) {
		return base
	}
	for _, e := range fs.extensions {
		if isFile(base + e) {
			return base + e
		}
	}
	if alts, ok := esmToTS[ext]; ok {
		stem := strings.TrimSuffix(base, ext)
		for _, alt := range alts {
			if isFile(stem + alt) {
				return stem + alt
			}
		}
	}
	for _, e := range fs.extensions {
		index := filepath.Join(base, "index"+e)
		if isFile(index) {
			return index
		}
	}
	return ""
}

// load returns the parsed module at path, parsing it on first use.
func (fs *FS) load(path string) (*ast.File, error) {
	fs.mu.Lock()
	mod, ok := fs.modules[path]
	fs.mu.Unlock()
	if ok {
		return mod, nil
	}

	data, err := fs.files.Read(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read module %s: %w", path, err)
	}
	// Modules outlive the mapping when the file is invalidated.
	source := bytes.Clone(data)

	mod, err = ast.Parse(fs.pm, path, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse module %s: %w", path, err)
	}
	mod.Importer = fs
	mod.Queries = fs.qm

	fs.mu.Lock()
	defer fs.mu.Unlock()
	if existing, ok := fs.modules[path]; ok {
		mod.Close()
		return existing, nil
	}
	fs.modules[path] = mod
	fs.parsed.Add(1)
	fs.logger.Debug("parsed module", "path", path, "dialect", mod.Dialect.String())
	return mod, nil
}

// Invalidate forgets the parsed module at path so the next import re-reads
// it. Resolutions are dropped too, since files may have been added or
// removed. Paths into the old module stay valid until Close.
func (fs *FS) Invalidate(path string) {
	if abs, err := filepath.Abs(path); err == nil {
		path = abs
	}
	fs.mu.Lock()
	if mod, ok := fs.modules[path]; ok {
		delete(fs.modules, path)
		fs.retired = append(fs.retired, mod)
	}
	fs.mu.Unlock()

	fs.files.Invalidate(path)
	fs.resolutions.Purge()
}

// Stats returns importer counters.
func (fs *FS) Stats() FSStats {
	fs.mu.Lock()
	cached := len(fs.modules)
	fs.mu.Unlock()
	return FSStats{
		Resolved:      fs.resolved.Load(),
		Unresolved:    fs.unresolved.Load(),
		ModulesParsed: fs.parsed.Load(),
		ModulesCached: cached,
	}
}

// Close releases every parsed module. Paths obtained from the importer are
// invalid afterwards.
func (fs *FS) Close() error {
	fs.mu.Lock()
	for _, mod := range fs.modules {
		mod.Close()
	}
	for _, mod := range fs.retired {
		mod.Close()
	}
	fs.modules = make(map[string]*ast.File)
	fs.retired = nil
	fs.mu.Unlock()

	fs.resolutions.Purge()
	if fs.ownsFiles {
		return fs.files.Close()
	}
	return nil
}

// isPathSpecifier reports whether spec names a file rather than a package.
func isPathSpecifier(spec string) bool {
	return strings.HasPrefix(spec, "./") || strings.HasPrefix(spec, "../") ||
		spec == "." || spec == ".." || filepath.IsAbs(spec)
}

func isFile(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.Mode().IsRegular()
}
