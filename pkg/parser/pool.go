package parser

import (
	"fmt"
	"log/slog"
	"sync"

	ts "github.com/tree-sitter/go-tree-sitter"
)

// parserPool hands out tree-sitter parsers bound to one grammar.
//
// Parsers are created lazily up to maxSize and recycled through a buffered
// channel; once maxSize parsers exist, acquire blocks until one is released.
type parserPool struct {
	idle chan *ts.Parser

	grammar  Grammar
	language *ts.Language
	maxSize  int

	mu      sync.Mutex
	created int

	logger *slog.Logger
}

func newParserPool(grammar Grammar, language *ts.Language, maxSize int, logger *slog.Logger) *parserPool {
	return &parserPool{
		idle:     make(chan *ts.Parser, maxSize),
		grammar:  grammar,
		language: language,
		maxSize:  maxSize,
		logger:   logger,
	}
}

// acquire returns an idle parser, creating one while the pool is below maxSize.
func (p *parserPool) acquire() (*ts.Parser, error) {
	select {
	case parser := <-p.idle:
		return parser, nil
	default:
	}

	p.mu.Lock()
	if p.created >= p.maxSize {
		p.mu.Unlock()
		return <-p.idle, nil
	}

	parser := ts.NewParser()
	if parser == nil {
		p.mu.Unlock()
		return nil, fmt.Errorf("failed to create parser")
	}
	if err := parser.SetLanguage(p.language); err != nil {
		parser.Close()
		p.mu.Unlock()
		return nil, fmt.Errorf("failed to set %s grammar: %w", p.grammar, err)
	}
	p.created++
	created := p.created
	p.mu.Unlock()

	p.logger.Debug("created parser in pool",
		"grammar", p.grammar.String(),
		"pool_size", created)

	return parser, nil
}

// release returns a parser to the pool. A parser that does not fit is closed.
func (p *parserPool) release(parser *ts.Parser) {
	if parser == nil {
		return
	}

	select {
	case p.idle <- parser:
	default:
		parser.Close()
		p.logger.Warn("parser pool full, closing excess parser",
			"grammar", p.grammar.String())
	}
}

// close closes every idle parser. The pool cannot be used afterwards.
func (p *parserPool) close() {
	close(p.idle)

	count := 0
	for parser := range p.idle {
		parser.Close()
		count++
	}

	p.logger.Debug("closed parser pool",
		"grammar", p.grammar.String(),
		"parsers_closed", count)
}

func (p *parserPool) createdCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.created
}
