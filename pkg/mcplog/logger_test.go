package mcplog

import (
	"bufio"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEntries(t *testing.T, path string) []LogEntry {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()

	var out []LogEntry
	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		if scanner.Text() == "" {
			continue
		}
		var e LogEntry
		require.NoError(t, json.Unmarshal(scanner.Bytes(), &e), "torn line %q", scanner.Text())
		out = append(out, e)
	}
	require.NoError(t, scanner.Err())
	return out
}

func TestSanitizeParams(t *testing.T) {
	tests := []struct {
		name  string
		input map[string]any
		want  map[string]any
	}{
		{"nil", nil, map[string]any{}},
		{"short strings kept", map[string]any{"filename": "Button.tsx"}, map[string]any{"filename": "Button.tsx"}},
		{"long code replaced", map[string]any{"code": string(make([]byte, 200))}, map[string]any{"code_len": 200}},
		{"non-strings kept", map[string]any{"pretty": true, "extra": nil}, map[string]any{"pretty": true, "extra": nil}},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, SanitizeParams(tc.input))
		})
	}
}

func TestResponseBytes(t *testing.T) {
	assert.Zero(t, ResponseBytes(nil))
	assert.Positive(t, ResponseBytes(mcp.NewToolResultText("[]")))
}

func TestNewEntry(t *testing.T) {
	start := time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	Now = func() time.Time { return start.Add(42 * time.Millisecond) }
	t.Cleanup(func() { Now = time.Now })

	result := mcp.NewToolResultError("no suitable component definition found")
	e := NewEntry("parse_file_docs", map[string]any{"path": "src/A.js"}, start, result, nil)
	assert.Equal(t, "2025-01-02T03:04:05Z", e.Ts)
	assert.Equal(t, "src/A.js", e.Source)
	assert.Equal(t, int64(42), e.DurationMs)
	assert.True(t, e.ToolError)
	assert.Nil(t, e.Error)
	assert.Equal(t, e.ResponseBytes/4, e.TokensEst)

	e = NewEntry("parse_component_docs", map[string]any{"filename": "B.tsx"}, start, nil, errors.New("boom"))
	assert.Equal(t, "B.tsx", e.Source)
	require.NotNil(t, e.Error)
	assert.Equal(t, "boom", *e.Error)
	assert.False(t, e.ToolError)
}

func TestLoggerWriteAndRead(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.jsonl")
	logger, err := NewLogger(path)
	require.NoError(t, err)

	entries := []LogEntry{
		{Tool: "parse_component_docs", Params: map[string]any{"code_len": 1200}, DurationMs: 5},
		{Tool: "parse_file_docs", Source: "src/A.js", Params: map[string]any{"path": "src/A.js"}, DurationMs: 42},
	}
	for _, e := range entries {
		require.NoError(t, logger.Write(e))
	}
	require.NoError(t, logger.Close())

	got := readEntries(t, path)
	require.Len(t, got, 2)
	assert.Equal(t, "parse_component_docs", got[0].Tool)
	assert.Equal(t, "src/A.js", got[1].Source)
	assert.Equal(t, int64(42), got[1].DurationMs)
}

func TestLoggerConcurrency(t *testing.T) {
	path := filepath.Join(t.TempDir(), "concurrent.jsonl")
	logger, err := NewLogger(path)
	require.NoError(t, err)

	const goroutines, writesEach = 50, 10
	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < writesEach; j++ {
				_ = logger.Write(LogEntry{Tool: "parse_file_docs"})
			}
		}()
	}
	wg.Wait()
	require.NoError(t, logger.Close())

	assert.Len(t, readEntries(t, path), goroutines*writesEach)
}

func TestNewLoggerCreatesDirectory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "deep", "mcp.jsonl")
	logger, err := NewLogger(path)
	require.NoError(t, err)
	defer logger.Close()

	_, err = os.Stat(path)
	assert.NoError(t, err)
}

func TestNewLoggerEmptyPath(t *testing.T) {
	logger, err := NewLogger("")
	require.NoError(t, err)
	assert.Nil(t, logger)
}
