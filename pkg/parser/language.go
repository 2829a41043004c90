package parser

import (
	"bytes"
	"path/filepath"
	"regexp"
	"strings"
)

// Grammar identifies the tree-sitter grammar a source is parsed with.
type Grammar int

const (
	// GrammarJavaScript is the JavaScript grammar (JSX included).
	GrammarJavaScript Grammar = iota
	// GrammarTypeScript is the TypeScript grammar without JSX.
	GrammarTypeScript
	// GrammarTSX is the TypeScript grammar with JSX. Flow files are parsed with it too,
	// since it accepts the annotation syntax both dialects share.
	GrammarTSX
	// GrammarUnknown marks an unsupported input.
	GrammarUnknown
)

// String returns the grammar name used in logs and query cache keys.
func (g Grammar) String() string {
	switch g {
	case GrammarJavaScript:
		return "javascript"
	case GrammarTypeScript:
		return "typescript"
	case GrammarTSX:
		return "tsx"
	default:
		return "unknown"
	}
}

// Dialect is the type-annotation dialect of a source file. It selects which type
// descriptor builder documents annotated props.
type Dialect int

const (
	// DialectJS is plain JavaScript; annotations are not documented.
	DialectJS Dialect = iota
	// DialectFlow is a file carrying an @flow or @noflow pragma.
	DialectFlow
	// DialectTS is a TypeScript source.
	DialectTS
)

// String returns the dialect name.
func (d Dialect) String() string {
	switch d {
	case DialectFlow:
		return "flow"
	case DialectTS:
		return "typescript"
	default:
		return "javascript"
	}
}

// flowPragma matches the pragma inside the leading comment of a Flow file.
var flowPragma = regexp.MustCompile(`@(no)?flow\b`)

// pragmaWindow bounds how far into a file the pragma is searched for.
const pragmaWindow = 1024

// Detect picks the grammar and dialect for a file from its extension and, for
// JavaScript files, from a leading Flow pragma.
//
// An empty filePath is treated as a JavaScript file so inline snippets work.
func Detect(filePath string, source []byte) (Grammar, Dialect) {
	ext := strings.ToLower(filepath.Ext(filePath))

	switch ext {
	case ".ts", ".mts", ".cts":
		return GrammarTypeScript, DialectTS
	case ".tsx":
		return GrammarTSX, DialectTS
	case ".js", ".jsx", ".mjs", ".cjs", ".flow", "":
		if HasFlowPragma(source) {
			return GrammarTSX, DialectFlow
		}
		return GrammarJavaScript, DialectJS
	default:
		return GrammarUnknown, DialectJS
	}
}

// HasFlowPragma reports whether the first comment of source carries @flow or @noflow.
func HasFlowPragma(source []byte) bool {
	head := source
	if len(head) > pragmaWindow {
		head = head[:pragmaWindow]
	}
	head = bytes.TrimLeft(head, " \t\r\n")
	if !bytes.HasPrefix(head, []byte("/*")) && !bytes.HasPrefix(head, []byte("//")) {
		return false
	}
	end := len(head)
	if bytes.HasPrefix(head, []byte("/*")) {
		if i := bytes.Index(head, []byte("*/")); i >= 0 {
			end = i
		}
	} else if i := bytes.IndexByte(head, '\n'); i >= 0 {
		end = i
	}
	return flowPragma.Match(head[:end])
}

// IsSupportedFile reports whether filePath has an extension this package can parse.
func IsSupportedFile(filePath string) bool {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".ts", ".mts", ".cts", ".tsx", ".js", ".jsx", ".mjs", ".cjs":
		return true
	default:
		return false
	}
}

// ParseGrammarString converts a grammar name to a Grammar.
// Returns GrammarUnknown if the string is not recognized.
func ParseGrammarString(name string) Grammar {
	switch strings.ToLower(name) {
	case "typescript", "ts":
		return GrammarTypeScript
	case "tsx":
		return GrammarTSX
	case "javascript", "js", "jsx":
		return GrammarJavaScript
	default:
		return GrammarUnknown
	}
}

// SupportedGrammars returns every grammar the manager can load.
func SupportedGrammars() []Grammar {
	return []Grammar{GrammarJavaScript, GrammarTypeScript, GrammarTSX}
}
