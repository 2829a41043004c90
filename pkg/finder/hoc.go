package finder

import (
	"github.com/gnana997/uidocgen/pkg/ast"
	"github.com/gnana997/uidocgen/pkg/resolve"
)

// maxHOCDepth bounds HOC unwrapping. The seen-set catches cycles through
// the same call; the depth bound catches distinct but unbounded chains.
const maxHOCDepth = 32

// ResolveHOC unwraps higher-order component calls such as
// `connect(mapState)(withStyles(styles, Button))` down to the wrapped
// component. Calls to createClass and forwardRef are definitions and are
// returned as is, as is anything that is not a call.
//
// Of a call's arguments, the first is taken unless there are several and
// the first looks like options (a literal, object, array or spread), in
// which case the last is taken.
func ResolveHOC(p ast.Path) ast.Path {
	seen := make(map[ast.Key]bool)
	for depth := 0; depth < maxHOCDepth; depth++ {
		p = ast.Unparen(p)
		if !p.Is(ast.KindCallExpression) || IsReactCreateClassCall(p) || IsReactForwardRefCall(p) {
			return p
		}
		if seen[p.Key()] {
			return p
		}
		seen[p.Key()] = true

		args := callArguments(p)
		if len(args) == 0 {
			return p
		}
		arg := args[0]
		if len(args) > 1 && looksLikeOptions(args[0]) {
			arg = args[len(args)-1]
		}
		p = resolve.ToValue(arg)
	}
	return p
}

func looksLikeOptions(arg ast.Path) bool {
	return ast.IsLiteral(arg) || arg.Is(ast.KindObject, ast.KindArray, ast.KindSpreadElement)
}

// NormalizeClass records the `ClassName.member = value` statements that
// follow a class declaration, so member lookups on the class see them as if
// they were declared static inside the body. The tree is not modified; the
// members live in the file's statics table.
func NormalizeClass(class ast.Path) []ast.StaticMember {
	if !ast.IsClass(class) {
		return nil
	}
	members, err := resolve.Statics(class)
	if err != nil {
		return nil
	}
	return members
}
