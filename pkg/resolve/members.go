package resolve

import (
	"github.com/gnana997/uidocgen/pkg/ast"
)

// ComputedPrefix marks property names taken from unresolvable computed keys.
const ComputedPrefix = "@computed#"

// Member is one step of a member/call chain such as `a.b(c).d`.
type Member struct {
	// Path is the property (or the chain root, see Members).
	Path ast.Path
	// Computed is set for `a[b]` accesses.
	Computed bool
	// Arguments holds the arguments when the member is called.
	Arguments []ast.Path
}

// Members decomposes a member/call chain into its steps, root first. With
// includeRoot the innermost object is reported as the first member.
func Members(p ast.Path, includeRoot bool) []Member {
	var result []Member
	var args []ast.Path

	cur := ast.Unparen(p)
	for {
		switch {
		case cur.Is(ast.KindMemberExpression):
			result = append(result, Member{Path: cur.Field("property"), Arguments: args})
			args = nil
			cur = ast.Unparen(cur.Field("object"))
			continue
		case cur.Is(ast.KindSubscript):
			result = append(result, Member{Path: cur.Field("index"), Computed: true, Arguments: args})
			args = nil
			cur = ast.Unparen(cur.Field("object"))
			continue
		case cur.Is(ast.KindCallExpression):
			args = cur.Field("arguments").NamedChildren()
			cur = ast.Unparen(cur.Field("function"))
			continue
		}
		break
	}

	if includeRoot && len(result) > 0 {
		result = append(result, Member{Path: cur, Arguments: args})
	}
	for i, j := 0, len(result)-1; i < j; i, j = i+1, j-1 {
		result[i], result[j] = result[j], result[i]
	}
	return result
}

// PropertyName returns the static name of a property key: identifiers and
// literals by value, computed keys by their resolved literal value. Keys
// that cannot be resolved are reported as ComputedPrefix plus their source.
func PropertyName(key ast.Path) string {
	return propertyName(key, 0)
}

func propertyName(key ast.Path, depth int) string {
	switch key.Kind() {
	case ast.KindPropertyIdentifier, ast.KindIdentifier, ast.KindShorthandProperty,
		ast.KindShorthandPattern, ast.KindPrivateProperty, ast.KindTypeIdentifier:
		return key.Text()
	case ast.KindString:
		s, _ := ast.StringValue(key)
		return s
	case ast.KindNumber:
		return key.Text()
	case ast.KindComputedProperty:
		inner := key.FirstNamedChild()
		v := toValue(inner, depth+1)
		if s, ok := ast.StringValue(v); ok {
			return s
		}
		if v.Is(ast.KindNumber) {
			return v.Text()
		}
		return ComputedPrefix + inner.Text()
	}
	return ""
}

// PropertyKey returns the key node of an object property, or of a class or
// object member.
func PropertyKey(prop ast.Path) ast.Path {
	switch prop.Kind() {
	case ast.KindShorthandProperty:
		return prop
	case ast.KindFieldDefinition:
		return prop.Field("property")
	case ast.KindPair:
		return prop.Field("key")
	default:
		return prop.Field("name")
	}
}

// IsComputedKey reports whether a property key is a non-literal computed key.
func IsComputedKey(key ast.Path) bool {
	if !key.Is(ast.KindComputedProperty) {
		return false
	}
	inner := key.FirstNamedChild()
	return !inner.Is(ast.KindString, ast.KindNumber)
}

// PropertyValue returns the value of the property name in an object
// literal, following spreads. Later properties win, as at runtime. Methods
// are returned whole.
func PropertyValue(obj ast.Path, name string) ast.Path {
	return propertyValue(obj, name, 0)
}

func propertyValue(obj ast.Path, name string, depth int) ast.Path {
	if !obj.Is(ast.KindObject) || depth > maxResolveDepth {
		return ast.Path{}
	}
	var found ast.Path
	for _, prop := range obj.NamedChildren() {
		switch prop.Kind() {
		case ast.KindPair:
			if propertyName(prop.Field("key"), depth+1) == name {
				found = prop.Field("value")
			}
		case ast.KindShorthandProperty:
			if prop.Text() == name {
				found = prop
			}
		case ast.KindMethodDefinition:
			if propertyName(prop.Field("name"), depth+1) == name {
				found = prop
			}
		case ast.KindSpreadElement:
			spread := toValue(prop.FirstNamedChild(), depth+1)
			if v := propertyValue(spread, name, depth+1); !v.IsNil() {
				found = v
			}
		}
	}
	return found
}

// PrintValue returns the source text of p, as written.
func PrintValue(p ast.Path) string {
	return p.Text()
}

// ClassMember returns the member name declared in the class body: the
// value of a field, or the method itself. Setters are ignored.
func ClassMember(class ast.Path, name string) ast.Path {
	for _, member := range ClassBody(class) {
		switch member.Kind() {
		case ast.KindMethodDefinition:
			if member.HasToken("set") || IsComputedKey(member.Field("name")) {
				continue
			}
			if PropertyName(member.Field("name")) == name {
				return member
			}
		case ast.KindFieldDefinition, ast.KindPublicFieldDefinition:
			key := PropertyKey(member)
			if IsComputedKey(key) {
				continue
			}
			if PropertyName(key) == name {
				return member.Field("value")
			}
		}
	}
	return ast.Path{}
}

// ClassBody returns the members of a class body.
func ClassBody(class ast.Path) []ast.Path {
	return class.Field("body").NamedChildren()
}

// IsStatic reports whether a class member carries the static modifier.
func IsStatic(member ast.Path) bool {
	return member.HasToken("static")
}
