package parser

import (
	"log/slog"
	"os"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestManager(t *testing.T) *ParserManager {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
	manager := NewParserManager(logger)
	t.Cleanup(func() { manager.Close() })
	return manager
}

func TestParseGrammars(t *testing.T) {
	manager := newTestManager(t)

	testCases := []struct {
		name    string
		grammar Grammar
		source  string
		contain string
	}{
		{"javascript jsx", GrammarJavaScript, "const A = () => <div>hi</div>;", "jsx_element"},
		{"typescript", GrammarTypeScript, "type P = { x: number };", "type_alias_declaration"},
		{"tsx", GrammarTSX, "const A = (p: P) => <div />;", "jsx_self_closing_element"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			tree, err := manager.Parse([]byte(tc.source), tc.grammar)
			require.NoError(t, err)
			require.NotNil(t, tree)
			defer tree.Close()

			root := tree.RootNode()
			assert.Equal(t, "program", root.Kind())
			assert.Contains(t, root.ToSexp(), tc.contain)
		})
	}
}

func TestParseFileDetectsDialect(t *testing.T) {
	manager := newTestManager(t)

	testCases := []struct {
		path    string
		source  string
		dialect Dialect
	}{
		{"Button.tsx", "export const B = () => <b />;", DialectTS},
		{"util.ts", "export type X = string;", DialectTS},
		{"Button.js", "export const B = () => <b />;", DialectJS},
		{"Typed.js", "// @flow\ntype P = {| a: ?string |};", DialectFlow},
		{"Typed.jsx", "/**\n * @flow strict\n */\nexport default 1;", DialectFlow},
	}

	for _, tc := range testCases {
		t.Run(tc.path, func(t *testing.T) {
			tree, dialect, err := manager.ParseFile([]byte(tc.source), tc.path)
			require.NoError(t, err)
			defer tree.Close()
			assert.Equal(t, tc.dialect, dialect)
		})
	}
}

func TestParseFileUnsupported(t *testing.T) {
	manager := newTestManager(t)

	tree, _, err := manager.ParseFile([]byte("# readme"), "README.md")
	assert.Error(t, err)
	assert.Nil(t, tree)
}

func TestParseUnknownGrammar(t *testing.T) {
	manager := newTestManager(t)

	tree, err := manager.Parse([]byte("x"), GrammarUnknown)
	assert.Error(t, err)
	assert.Nil(t, tree)
}

func TestParseInvalidSyntax(t *testing.T) {
	manager := newTestManager(t)

	tree, err := manager.Parse([]byte("const x: = ;"), GrammarTypeScript)
	require.NoError(t, err, "partial trees are still returned")
	defer tree.Close()
	assert.True(t, tree.RootNode().HasError())
}

func TestLazyInitialization(t *testing.T) {
	manager := newTestManager(t)

	assert.Equal(t, 0, manager.GetStats().ParsersCreated)

	for i := 0; i < 2; i++ {
		tree, err := manager.Parse([]byte("const x = 1;"), GrammarTypeScript)
		require.NoError(t, err)
		tree.Close()
	}
	stats := manager.GetStats()
	assert.Equal(t, 1, stats.ParsersCreated, "parser is reused")
	assert.Equal(t, 2, stats.ParsesCalled)

	tree, err := manager.Parse([]byte("const y = 2;"), GrammarJavaScript)
	require.NoError(t, err)
	tree.Close()
	assert.Equal(t, 2, manager.GetStats().ParsersCreated)
}

func TestConcurrentParsing(t *testing.T) {
	manager := newTestManager(t)

	const perGrammar = 20
	grammars := SupportedGrammars()

	var wg sync.WaitGroup
	errs := make(chan error, perGrammar*len(grammars))
	for _, g := range grammars {
		for i := 0; i < perGrammar; i++ {
			wg.Add(1)
			go func(g Grammar) {
				defer wg.Done()
				tree, err := manager.Parse([]byte("const x = 1;"), g)
				if err != nil {
					errs <- err
					return
				}
				tree.Close()
			}(g)
		}
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		t.Errorf("unexpected parse error: %v", err)
	}
	stats := manager.GetStats()
	assert.Equal(t, perGrammar*len(grammars), stats.ParsesCalled)
	assert.LessOrEqual(t, stats.ParsersCreated, len(grammars)*getPoolSize(0))
}

func TestCloseClearsPools(t *testing.T) {
	manager := NewParserManager(nil)
	for _, g := range SupportedGrammars() {
		tree, err := manager.Parse([]byte("1;"), g)
		require.NoError(t, err)
		tree.Close()
	}
	require.NoError(t, manager.Close())
	assert.Empty(t, manager.pools)
}

func TestHasFlowPragma(t *testing.T) {
	testCases := []struct {
		name   string
		source string
		want   bool
	}{
		{"line comment", "// @flow\n", true},
		{"block comment", "/* @flow strict */ const a = 1;", true},
		{"noflow", "/** @noflow */", true},
		{"not leading", "const a = 1; // @flow", false},
		{"no pragma", "/* flowing */", false},
		{"empty", "", false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, HasFlowPragma([]byte(tc.source)))
		})
	}
}

func TestParseGrammarString(t *testing.T) {
	assert.Equal(t, GrammarTypeScript, ParseGrammarString("TypeScript"))
	assert.Equal(t, GrammarTSX, ParseGrammarString("tsx"))
	assert.Equal(t, GrammarJavaScript, ParseGrammarString("js"))
	assert.Equal(t, GrammarUnknown, ParseGrammarString("python"))
	assert.Equal(t, "tsx", GrammarTSX.String())
	assert.Equal(t, "flow", DialectFlow.String())
}
