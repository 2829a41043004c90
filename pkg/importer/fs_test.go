package importer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gnana997/uidocgen/pkg/ast"
	"github.com/gnana997/uidocgen/pkg/parser"
	"github.com/gnana997/uidocgen/pkg/resolve"
	"github.com/gnana997/uidocgen/pkg/util"
)

type fixture struct {
	dir  string
	pm   *parser.ParserManager
	fs   *FS
	main *ast.File
}

func newFixture(t *testing.T, files map[string]string, mainSrc string) *fixture {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		path := filepath.Join(dir, name)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}

	pm := parser.NewParserManager(util.Discard())
	t.Cleanup(func() { pm.Close() })

	fs, err := NewFS(FSOptions{Parser: pm, Logger: util.Discard()})
	require.NoError(t, err)
	t.Cleanup(func() { fs.Close() })

	main, err := ast.Parse(pm, filepath.Join(dir, "main.js"), []byte(mainSrc))
	require.NoError(t, err)
	main.Importer = fs
	t.Cleanup(main.Close)

	return &fixture{dir: dir, pm: pm, fs: fs, main: main}
}

var library = map[string]string{
	"button.js": `import React from 'react';
export default function Button() { return <button />; }
`,
	"props.ts":        "export type Props = { a: string };\n",
	"index.js":        "export { default as Button } from './button';\nexport * from './consts';\n",
	"consts.js":       "export const SIZE = 'large';\n",
	"cjs.js":          "module.exports = { helper: 1 };\n",
	"cycle_a.js":      "export * from './cycle_b';\n",
	"cycle_b.js":      "export * from './cycle_a';\n",
	"nested/index.ts": "export const deep = 42;\n",
	"esm.ts":          "export const fromTS = true;\n",
	"styles.css":      ".a {}\n",
}

func TestFSImport(t *testing.T) {
	fx := newFixture(t, library, "")

	testCases := []struct {
		name    string
		source  string
		export  string
		kind    string
		text    string
		fromExt string
	}{
		{"default export", "./button", "default", ast.KindFunctionDeclaration, "", "button.js"},
		{"re-exported default", "./index", "Button", ast.KindFunctionDeclaration, "", "button.js"},
		{"star re-export", "./index", "SIZE", ast.KindString, "'large'", "consts.js"},
		{"commonjs object", "./cjs", "helper", ast.KindNumber, "1", "cjs.js"},
		{"type export", "./props", "Props", ast.KindTypeAlias, "", "props.ts"},
		{"directory index", "./nested", "deep", ast.KindNumber, "42", "index.ts"},
		{"esm extension", "./esm.js", "fromTS", ast.KindTrue, "true", "esm.ts"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p, err := fx.fs.Import(tc.source, tc.export, fx.main)
			require.NoError(t, err)
			require.False(t, p.IsNil())

			v := resolve.ToValue(p)
			assert.Equal(t, tc.kind, v.Kind())
			if tc.text != "" {
				assert.Equal(t, tc.text, v.Text())
			}
			assert.Equal(t, tc.fromExt, filepath.Base(v.File().Path))
		})
	}
}

func TestFSImportNotFound(t *testing.T) {
	fx := newFixture(t, library, "")

	for _, spec := range []string{"react", "./missing", "./styles.css", "./cycle_a"} {
		p, err := fx.fs.Import(spec, "x", fx.main)
		assert.NoError(t, err, spec)
		assert.True(t, p.IsNil(), spec)
	}

	p, err := fx.fs.Import("./consts", "NOPE", fx.main)
	assert.NoError(t, err)
	assert.True(t, p.IsNil())

	assert.Positive(t, fx.fs.Stats().Unresolved)
}

func TestFSImportReadError(t *testing.T) {
	fx := newFixture(t, map[string]string{"gone.js": "export default 1;\n"}, "")

	require.NotEmpty(t, fx.fs.resolvePath(fx.dir, "./gone"))
	require.NoError(t, os.Remove(filepath.Join(fx.dir, "gone.js")))

	_, err := fx.fs.Import("./gone", "default", fx.main)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "gone.js")
}

func TestFSCachesModules(t *testing.T) {
	fx := newFixture(t, library, "")

	first, err := fx.fs.Import("./button", "default", fx.main)
	require.NoError(t, err)
	second, err := fx.fs.Import("./button", "default", fx.main)
	require.NoError(t, err)

	assert.True(t, first.Same(second))
	assert.Equal(t, int64(1), fx.fs.Stats().ModulesParsed)
	assert.Equal(t, 1, fx.fs.Stats().ModulesCached)
}

func TestFSInvalidate(t *testing.T) {
	fx := newFixture(t, map[string]string{"value.js": "export const v = 1;\n"}, "")

	p, err := fx.fs.Import("./value", "v", fx.main)
	require.NoError(t, err)
	old := resolve.ToValue(p)
	assert.Equal(t, "1", old.Text())

	path := filepath.Join(fx.dir, "value.js")
	require.NoError(t, os.WriteFile(path, []byte("export const v = 22;\n"), 0o644))
	fx.fs.Invalidate(path)

	p, err = fx.fs.Import("./value", "v", fx.main)
	require.NoError(t, err)
	assert.Equal(t, "22", resolve.ToValue(p).Text())
	assert.Equal(t, "1", old.Text(), "paths into the previous module stay readable")
}

func TestResolveThroughImporter(t *testing.T) {
	fx := newFixture(t, library, `
import Button from './button';
import { SIZE } from './index';
import * as consts from './consts';
use(Button, SIZE, consts.SIZE);
`)

	var args []ast.Path
	ast.Walk(fx.main.Root(), func(p ast.Path) bool {
		if p.Is(ast.KindCallExpression) && p.Field("function").Text() == "use" {
			args = p.Field("arguments").NamedChildren()
		}
		return true
	})
	require.Len(t, args, 3)

	assert.True(t, resolve.ToValue(args[0]).Is(ast.KindFunctionDeclaration))
	assert.Equal(t, "'large'", resolve.ToValue(args[1]).Text())
	assert.Equal(t, "'large'", resolve.ToValue(args[2]).Text())
	assert.NoError(t, fx.main.Err())
}

func TestIgnore(t *testing.T) {
	p, err := Ignore.Import("./anything", "default", nil)
	assert.NoError(t, err)
	assert.True(t, p.IsNil())
}

func TestNewFSRequiresParser(t *testing.T) {
	_, err := NewFS(FSOptions{})
	assert.Error(t, err)
}
