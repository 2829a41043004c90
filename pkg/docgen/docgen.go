// Package docgen extracts documentation records from React component
// source files.
//
// A Generator parses the file, asks a resolver for its component
// definitions and runs the handler chain over each one:
//
//	gen := docgen.New(pm, logger)
//	records, err := gen.Parse(ctx, src, docgen.Options{Filename: "Button.tsx"})
//
// Records are independent of the syntax tree and stay valid after Parse
// returns.
package docgen

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/gnana997/uidocgen/pkg/ast"
	"github.com/gnana997/uidocgen/pkg/docs"
	"github.com/gnana997/uidocgen/pkg/finder"
	"github.com/gnana997/uidocgen/pkg/handlers"
	"github.com/gnana997/uidocgen/pkg/importer"
	"github.com/gnana997/uidocgen/pkg/parser"
)

// Options configures one Parse call. Zero fields take their defaults.
type Options struct {
	// Filename selects the grammar and anchors relative imports.
	// Empty means an inline JavaScript snippet.
	Filename string

	// Resolver picks the definitions to document (default finder.FindExported).
	Resolver finder.Resolver

	// Handlers run in order over each definition (default handlers.Default()).
	Handlers []handlers.Handler

	// Importer resolves values imported from other modules (default importer.Ignore).
	Importer ast.Importer
}

func (o Options) withDefaults() Options {
	if o.Resolver == nil {
		o.Resolver = finder.FindExported
	}
	if o.Handlers == nil {
		o.Handlers = handlers.Default()
	}
	if o.Importer == nil {
		o.Importer = importer.Ignore
	}
	return o
}

// Resolvers maps the resolver names accepted by the CLI and MCP tools.
var Resolvers = map[string]finder.Resolver{
	"exported":     finder.FindExported,
	"all-exported": finder.FindAllExported,
	"all":          finder.FindAll,
}

// ResolverByName returns the named resolver. The empty name selects
// "exported".
func ResolverByName(name string) (finder.Resolver, error) {
	if name == "" {
		return finder.FindExported, nil
	}
	r, ok := Resolvers[name]
	if !ok {
		return nil, fmt.Errorf("unknown resolver %q (want exported, all-exported or all)", name)
	}
	return r, nil
}

// Generator documents source files. It is safe for concurrent use.
type Generator struct {
	pm     *parser.ParserManager
	logger *slog.Logger
}

// New returns a Generator parsing with pm.
func New(pm *parser.ParserManager, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{pm: pm, logger: logger}
}

// Parse documents every definition the resolver finds in src.
//
// It returns ErrNoDefinition when there is none, the resolver's error
// (ErrMultipleDefinitions for the default resolver) and the first importer
// failure recorded during analysis.
func (g *Generator) Parse(ctx context.Context, src []byte, opts Options) (result []*docs.Documentation, err error) {
	opts = opts.withDefaults()
	start := time.Now()

	ctx, span := startParseSpan(ctx, opts.Filename)
	defer span.End()

	dialect := "unknown"
	defer func() {
		setParseSpanResult(span, dialect, len(result), err)
		recordParseMetrics(ctx, time.Since(start), dialect, err == nil)
	}()

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	grammar, d := parser.Detect(opts.Filename, src)
	if grammar == parser.GrammarUnknown {
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedLanguage, opts.Filename)
	}
	dialect = d.String()

	f, err := ast.Parse(g.pm, opts.Filename, src)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", opts.Filename, err)
	}
	defer f.Close()
	f.Importer = opts.Importer

	defs, err := opts.Resolver(f)
	if err != nil {
		return nil, err
	}
	if len(defs) == 0 {
		return nil, ErrNoDefinition
	}

	result = make([]*docs.Documentation, 0, len(defs))
	for _, def := range defs {
		kind := finder.KindOf(def)
		g.logger.Debug("documenting definition",
			"file", opts.Filename,
			"kind", string(kind),
			"line", def.Line())

		doc := docs.New()
		doc.SetKind(string(kind))
		for _, h := range opts.Handlers {
			if err := h(doc, def); err != nil {
				return nil, fmt.Errorf("%s:%d: %w", opts.Filename, def.Line(), err)
			}
		}
		docs.PostProcessProps(doc)
		result = append(result, doc)
	}

	if err := f.Err(); err != nil {
		return nil, err
	}
	return result, nil
}
