// Package docblock reads `/** ... */` comments attached to syntax nodes and
// parses the JSDoc tags the handlers care about.
package docblock

import (
	"strings"

	"github.com/gnana997/uidocgen/pkg/ast"
)

// Get returns the text of the last docblock directly preceding p, or "".
// Line comments and punctuation between the docblock and p are skipped;
// any other node in between detaches the comment.
func Get(p ast.Path) string {
	for sib := p.PrevSibling(); !sib.IsNil(); sib = sib.PrevSibling() {
		if sib.Is(ast.KindComment) {
			text := sib.Text()
			if IsDocblock(text) {
				return Parse(text)
			}
			continue
		}
		if sib.IsNamed() {
			break
		}
	}
	return ""
}

// Nearest returns the docblock of a definition, climbing through the
// statements that wrap it: variable declarations, exports, assignments and
// HOC calls (`export default wrap(class extends Component {})`).
func Nearest(p ast.Path) string {
	for cur := p; !cur.IsNil(); cur = cur.Parent() {
		if doc := Get(cur); doc != "" {
			return doc
		}
		parent := cur.Parent()
		if !parent.Is(ast.KindVariableDeclarator, ast.KindLexicalDeclaration, ast.KindVariableDeclaration,
			ast.KindExportStatement, ast.KindAssignment, ast.KindExpressionStatement,
			ast.KindCallExpression, ast.KindArguments, ast.KindParenthesized) {
			return ""
		}
	}
	return ""
}

// IsDocblock reports whether comment is a `/** */` block comment.
func IsDocblock(comment string) bool {
	return strings.HasPrefix(comment, "/**") && strings.HasSuffix(comment, "*/") && comment != "/**/"
}

// Parse strips the comment markers and leading asterisks from a docblock.
// Line breaks are preserved.
func Parse(comment string) string {
	comment = strings.TrimPrefix(comment, "/**")
	comment = strings.TrimSuffix(comment, "*/")

	lines := strings.Split(comment, "\n")
	for i, line := range lines {
		line = strings.TrimLeft(line, " \t")
		line = strings.TrimPrefix(line, "*")
		line = strings.TrimPrefix(line, " ")
		lines[i] = strings.TrimRight(line, " \t\r")
	}
	return strings.TrimSpace(strings.Join(lines, "\n"))
}
