// Package queries provides tree-sitter query compilation, caching, and execution.
package queries

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"

	"github.com/gnana997/uidocgen/pkg/parser"
	"github.com/gnana997/uidocgen/pkg/parser/queries/definitions"
	"github.com/gnana997/uidocgen/pkg/parser/queries/exports"
	"github.com/gnana997/uidocgen/pkg/parser/queries/statics"
)

// QueryType identifies which query to execute.
type QueryType int

const (
	// QueryTypeDefinitions collects component definition candidates
	QueryTypeDefinitions QueryType = iota
	// QueryTypeStatics collects `Name.member = value` statements for class normalization
	QueryTypeStatics
	// QueryTypeExports collects ES module and CommonJS export sites
	QueryTypeExports
)

// String returns the string representation of a QueryType.
func (qt QueryType) String() string {
	switch qt {
	case QueryTypeDefinitions:
		return "definitions"
	case QueryTypeStatics:
		return "statics"
	case QueryTypeExports:
		return "exports"
	default:
		return "unknown"
	}
}

// queryKey identifies a compiled query. Queries are compiled per grammar
// because node ids differ between the JavaScript, TypeScript and TSX grammars.
type queryKey struct {
	grammar parser.Grammar
	qtype   QueryType
}

// QueryManager manages tree-sitter query compilation and caching.
//
// Queries are compiled lazily on first use and cached until Close(). All
// methods are safe for concurrent use.
//
// Usage:
//
//	qm := NewQueryManager(logger)
//	defer qm.Close()
//
//	matches, err := qm.Run(parser.GrammarTSX, QueryTypeDefinitions, root, source)
type QueryManager struct {
	cache  map[queryKey]*ts.Query
	mutex  sync.RWMutex
	logger *slog.Logger
}

// NewQueryManager creates a new query manager. Logger can be nil.
func NewQueryManager(logger *slog.Logger) *QueryManager {
	if logger == nil {
		logger = slog.Default()
	}

	return &QueryManager{
		cache:  make(map[queryKey]*ts.Query),
		logger: logger,
	}
}

// GetQuery returns the compiled query for a grammar and query type.
//
// Returns an error if the grammar is unsupported or the query fails to compile.
func (qm *QueryManager) GetQuery(grammar parser.Grammar, qtype QueryType) (*ts.Query, error) {
	key := queryKey{grammar: grammar, qtype: qtype}

	qm.mutex.RLock()
	query, exists := qm.cache[key]
	qm.mutex.RUnlock()
	if exists {
		return query, nil
	}

	qm.mutex.Lock()
	defer qm.mutex.Unlock()

	if query, exists = qm.cache[key]; exists {
		return query, nil
	}

	queryString, err := queryString(grammar, qtype)
	if err != nil {
		return nil, err
	}

	language, err := parser.Language(grammar)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s grammar: %w", grammar, err)
	}

	query, qerr := ts.NewQuery(language, queryString)
	if qerr != nil {
		return nil, fmt.Errorf("failed to compile %s query for %s: %s", qtype, grammar, qerr.Message)
	}

	qm.cache[key] = query
	qm.logger.Debug("compiled query",
		"grammar", grammar.String(),
		"type", qtype.String())

	return query, nil
}

// queryString returns the query source for a grammar and query type.
func queryString(grammar parser.Grammar, qtype QueryType) (string, error) {
	if grammar == parser.GrammarUnknown {
		return "", fmt.Errorf("unsupported grammar for %s queries: %s", qtype, grammar)
	}

	switch qtype {
	case QueryTypeDefinitions:
		if grammar == parser.GrammarJavaScript {
			return definitions.JSQueries, nil
		}
		return definitions.TSQueries, nil
	case QueryTypeStatics:
		return statics.Queries, nil
	case QueryTypeExports:
		return exports.Queries, nil
	default:
		return "", fmt.Errorf("unknown query type: %d", qtype)
	}
}

// Run compiles (or fetches) the query for grammar and qtype and executes it
// over the subtree rooted at root.
func (qm *QueryManager) Run(grammar parser.Grammar, qtype QueryType, root *ts.Node, source []byte) ([]QueryMatch, error) {
	query, err := qm.GetQuery(grammar, qtype)
	if err != nil {
		return nil, err
	}
	return qm.ExecuteQuery(root, query, source)
}

// ExecuteQuery runs a compiled query over the subtree rooted at root and
// returns its matches ordered by the start of their first capture.
//
// Captures named with a leading underscore only feed predicates and are dropped.
func (qm *QueryManager) ExecuteQuery(root *ts.Node, query *ts.Query, source []byte) ([]QueryMatch, error) {
	if root == nil {
		return nil, fmt.Errorf("root node is nil")
	}
	if query == nil {
		return nil, fmt.Errorf("query is nil")
	}

	cursor := ts.NewQueryCursor()
	defer cursor.Close()

	iter := cursor.Matches(query, root, source)
	captureNames := query.CaptureNames()

	var matches []QueryMatch
	for {
		match := iter.Next()
		if match == nil {
			break
		}

		var captures []QueryCapture
		for _, capture := range match.Captures {
			var captureName string
			if int(capture.Index) < len(captureNames) {
				captureName = captureNames[capture.Index]
			}
			if strings.HasPrefix(captureName, "_") {
				continue
			}

			node := capture.Node
			category, field := parseCaptureName(captureName)
			captures = append(captures, QueryCapture{
				Name:     captureName,
				Category: category,
				Field:    field,
				Node:     &node,
				Text:     node.Utf8Text(source),
				Location: nodeLocation(&node),
			})
		}
		if len(captures) == 0 {
			continue
		}

		matches = append(matches, QueryMatch{
			PatternIndex: uint32(match.PatternIndex),
			Captures:     captures,
		})
	}

	// Pre-order: outer nodes sharing a start byte come before inner ones.
	sort.SliceStable(matches, func(i, j int) bool {
		a, b := matches[i].Captures[0].Location, matches[j].Captures[0].Location
		if a.StartByte != b.StartByte {
			return a.StartByte < b.StartByte
		}
		return a.EndByte > b.EndByte
	})

	return matches, nil
}

// Close releases all compiled queries. The manager cannot be used afterwards.
func (qm *QueryManager) Close() error {
	qm.mutex.Lock()
	defer qm.mutex.Unlock()

	qm.logger.Debug("closing QueryManager", "queries_compiled", len(qm.cache))

	for key, query := range qm.cache {
		query.Close()
		delete(qm.cache, key)
	}

	return nil
}

// QueryMatch represents a single pattern match from query execution.
type QueryMatch struct {
	// PatternIndex identifies which query pattern matched
	PatternIndex uint32

	// Captures contains all captured nodes for this match
	Captures []QueryCapture
}

// Capture returns the first capture with the given full name, or nil.
func (m QueryMatch) Capture(name string) *QueryCapture {
	for i := range m.Captures {
		if m.Captures[i].Name == name {
			return &m.Captures[i]
		}
	}
	return nil
}

// QueryCapture represents a single captured node from a query match.
type QueryCapture struct {
	// Name is the full capture name (e.g., "definition.class", "static.value")
	Name string

	// Category is the part before the first dot (e.g., "definition")
	Category string

	// Field is the rest of the name (e.g., "class"); empty without a dot
	Field string

	// Node is the captured syntax node
	Node *ts.Node

	// Text is the source text of the captured node
	Text string

	// Location is the position of the captured node
	Location Location
}

// Location represents a position in source code.
type Location struct {
	StartLine   uint32 // 1-based line number
	StartColumn uint32 // 1-based column number
	EndLine     uint32
	EndColumn   uint32
	StartByte   uint32 // 0-based byte offset
	EndByte     uint32
}

// parseCaptureName splits "definition.class" into ("definition", "class") and
// "export.commonjs.name" into ("export", "commonjs.name").
func parseCaptureName(name string) (category, field string) {
	parts := strings.SplitN(name, ".", 2)
	if len(parts) == 2 {
		return parts[0], parts[1]
	}
	return name, ""
}

// nodeLocation converts tree-sitter's 0-based coordinates to 1-based lines and columns.
func nodeLocation(node *ts.Node) Location {
	start := node.StartPosition()
	end := node.EndPosition()

	return Location{
		StartLine:   uint32(start.Row + 1),
		StartColumn: uint32(start.Column + 1),
		EndLine:     uint32(end.Row + 1),
		EndColumn:   uint32(end.Column + 1),
		StartByte:   uint32(node.StartByte()),
		EndByte:     uint32(node.EndByte()),
	}
}
