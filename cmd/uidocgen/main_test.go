package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const buttonSource = `
import PropTypes from 'prop-types';
/** Clickable. */
export default function Button({ size = 'md' }) { return <button />; }
Button.propTypes = { size: PropTypes.oneOf(['sm', 'md']), label: PropTypes.string.isRequired };
`

func projectDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"Button.jsx": buttonSource,
		"util.js":    "export const x = 1;\n",
		"notes.md":   "# notes\n",
	}
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func runCmd(args ...string) (int, string, string) {
	var stdout, stderr bytes.Buffer
	code := run(args, &stdout, &stderr)
	return code, stdout.String(), stderr.String()
}

func TestRunParseDirectory(t *testing.T) {
	dir := projectDir(t)
	code, stdout, stderr := runCmd("parse", "-config-dir", dir, dir)
	require.Equal(t, 0, code, stderr)

	var out map[string][]map[string]any
	require.NoError(t, json.Unmarshal([]byte(stdout), &out))
	require.Len(t, out, 1)

	records := out[filepath.Join(dir, "Button.jsx")]
	require.Len(t, records, 1)
	assert.Equal(t, "Clickable.", records[0]["description"])
	props := records[0]["props"].(map[string]any)
	assert.Contains(t, props, "size")
	assert.Contains(t, props, "label")

	assert.Contains(t, stderr, "util.js")
	assert.Contains(t, stderr, "no suitable component definition found")
}

func TestRunParseGlobAndOut(t *testing.T) {
	dir := projectDir(t)
	outPath := filepath.Join(dir, "out", "docs.json")
	require.NoError(t, os.MkdirAll(filepath.Dir(outPath), 0o755))

	code, stdout, stderr := runCmd("parse", "-config-dir", dir, "-pretty", "-out", outPath, filepath.Join(dir, "*.jsx"))
	require.Equal(t, 0, code, stderr)
	assert.Empty(t, stdout)

	data, err := os.ReadFile(outPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "\n  \""+filepath.Join(dir, "Button.jsx"))
}

func TestRunParseFailures(t *testing.T) {
	dir := projectDir(t)

	code, _, stderr := runCmd("parse", "-config-dir", dir, filepath.Join(dir, "util.js"))
	assert.Equal(t, 1, code, "every file failed")
	assert.Contains(t, stderr, "util.js")

	code, _, stderr = runCmd("parse", "-config-dir", dir, filepath.Join(dir, "*.tsx"))
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "no matching files")

	code, _, stderr = runCmd("parse", "-config-dir", dir)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, "no files given")

	code, _, stderr = runCmd("parse", "-config-dir", dir, "-format", "yaml", dir)
	assert.Equal(t, 2, code)
	assert.Contains(t, stderr, `unknown format "yaml"`)

	code, _, stderr = runCmd("parse", "-config-dir", dir, "-resolver", "first", dir)
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, `unknown resolver "first"`)
}

func TestRunInspect(t *testing.T) {
	dir := projectDir(t)
	code, stdout, stderr := runCmd("inspect", "-config-dir", dir, filepath.Join(dir, "Button.jsx"))
	require.Equal(t, 0, code, stderr)
	assert.Contains(t, stdout, "Button  [stateless]")
	assert.Contains(t, stdout, "'sm' | 'md'")
}

func TestRunMisc(t *testing.T) {
	code, stdout, _ := runCmd("version")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "uidocgen ")

	code, stdout, _ = runCmd("help")
	assert.Equal(t, 0, code)
	assert.Contains(t, stdout, "Usage: uidocgen")

	code, _, stderr := runCmd("frobnicate")
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "unknown command: frobnicate")

	code, _, stderr = runCmd()
	assert.Equal(t, 1, code)
	assert.Contains(t, stderr, "Usage: uidocgen")
}
