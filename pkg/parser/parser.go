package parser

import (
	"fmt"
	"log/slog"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"
	ts_javascript "github.com/tree-sitter/tree-sitter-javascript/bindings/go"
	ts_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// ParserManager manages tree-sitter parsers for the JavaScript, TypeScript and
// TSX grammars with lazy initialization and thread-safe concurrent access.
//
// Memory Management:
// - Parser pools are created lazily on first use per grammar
// - ParserManager owns the pools and must be closed via Close()
// - Callers own Tree instances and must call tree.Close() after use
//
// Thread Safety:
// - Multiple goroutines can parse with the same grammar simultaneously
// - Pool creation is synchronized with a write lock
//
// Example:
//
//	manager := NewParserManager(logger)
//	defer manager.Close()
//
//	tree, dialect, err := manager.ParseFile(src, "Button.tsx")
//	if err != nil {
//	    return err
//	}
//	defer tree.Close()
type ParserManager struct {
	pools map[Grammar]*parserPool
	mutex sync.RWMutex

	// poolSize caps the parsers per grammar; 0 selects the CPU-derived default.
	poolSize int

	logger *slog.Logger

	stats struct {
		parsesCalled int
	}
}

// NewParserManager creates a ParserManager with CPU-derived pool sizes.
//
// The returned manager must be closed via Close() to free resources.
func NewParserManager(logger *slog.Logger) *ParserManager {
	return NewParserManagerWithPoolSize(logger, 0)
}

// NewParserManagerWithPoolSize creates a ParserManager keeping at most poolSize
// parsers per grammar. A poolSize of 0 selects the CPU-derived default.
func NewParserManagerWithPoolSize(logger *slog.Logger, poolSize int) *ParserManager {
	if logger == nil {
		logger = slog.Default()
	}

	return &ParserManager{
		pools:    make(map[Grammar]*parserPool),
		poolSize: poolSize,
		logger:   logger,
	}
}

// Parse parses source with the given grammar.
//
// Returns a Tree that MUST be closed by the caller via tree.Close(). Trees
// containing syntax errors are still returned; partial trees are analysable.
func (pm *ParserManager) Parse(source []byte, grammar Grammar) (*ts.Tree, error) {
	if grammar == GrammarUnknown {
		return nil, fmt.Errorf("cannot parse unknown grammar")
	}

	pm.mutex.Lock()
	pm.stats.parsesCalled++
	pm.mutex.Unlock()

	pool, err := pm.getOrCreatePool(grammar)
	if err != nil {
		return nil, fmt.Errorf("failed to get pool for %s: %w", grammar, err)
	}

	parser, err := pool.acquire()
	if err != nil {
		return nil, fmt.Errorf("failed to acquire parser: %w", err)
	}
	tree := parser.Parse(source, nil)
	pool.release(parser)

	if tree == nil {
		return nil, fmt.Errorf("parser.Parse returned nil tree")
	}

	if tree.RootNode().HasError() {
		pm.logger.Debug("parse tree contains errors", "grammar", grammar.String())
	}

	return tree, nil
}

// ParseFile detects the grammar and dialect of filePath and parses source with it.
//
// Returns a Tree that MUST be closed by the caller via tree.Close().
func (pm *ParserManager) ParseFile(source []byte, filePath string) (*ts.Tree, Dialect, error) {
	grammar, dialect := Detect(filePath, source)
	if grammar == GrammarUnknown {
		return nil, dialect, fmt.Errorf("unsupported file extension: %s", filePath)
	}

	tree, err := pm.Parse(source, grammar)
	if err != nil {
		return nil, dialect, err
	}
	if tree.RootNode().HasError() {
		pm.logger.Warn("parse tree contains errors",
			"file", filePath,
			"grammar", grammar.String())
	}
	return tree, dialect, nil
}

// Close releases all parser pool resources. The manager cannot be used afterwards.
func (pm *ParserManager) Close() error {
	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	pm.logger.Debug("closing ParserManager", "parses_called", pm.stats.parsesCalled)

	for _, pool := range pm.pools {
		pool.close()
	}
	pm.pools = make(map[Grammar]*parserPool)

	return nil
}

// getOrCreatePool returns the pool for grammar, creating it on first use
// with double-checked locking.
func (pm *ParserManager) getOrCreatePool(grammar Grammar) (*parserPool, error) {
	pm.mutex.RLock()
	pool, exists := pm.pools[grammar]
	pm.mutex.RUnlock()
	if exists {
		return pool, nil
	}

	pm.mutex.Lock()
	defer pm.mutex.Unlock()

	if pool, exists = pm.pools[grammar]; exists {
		return pool, nil
	}

	language, err := Language(grammar)
	if err != nil {
		return nil, err
	}

	size := getPoolSize(pm.poolSize)
	pool = newParserPool(grammar, language, size, pm.logger)
	pm.pools[grammar] = pool

	pm.logger.Debug("created new parser pool",
		"grammar", grammar.String(),
		"maxSize", size)

	return pool, nil
}

// Language returns the tree-sitter language for a grammar. Query compilation
// uses it so queries are keyed by the exact grammar a tree was parsed with.
func Language(grammar Grammar) (*ts.Language, error) {
	switch grammar {
	case GrammarTypeScript:
		return ts.NewLanguage(ts_typescript.LanguageTypescript()), nil
	case GrammarTSX:
		return ts.NewLanguage(ts_typescript.LanguageTSX()), nil
	case GrammarJavaScript:
		return ts.NewLanguage(ts_javascript.Language()), nil
	default:
		return nil, fmt.Errorf("unsupported grammar: %s", grammar)
	}
}

// GetStats returns parser usage statistics.
func (pm *ParserManager) GetStats() ParserStats {
	pm.mutex.RLock()
	defer pm.mutex.RUnlock()

	total := 0
	for _, pool := range pm.pools {
		total += pool.createdCount()
	}

	return ParserStats{
		ParsersCreated: total,
		ParsesCalled:   pm.stats.parsesCalled,
	}
}

// ParserStats contains parser usage statistics.
type ParserStats struct {
	// ParsersCreated is the total number of parser instances created
	ParsersCreated int

	// ParsesCalled is the total number of Parse() calls
	ParsesCalled int
}
