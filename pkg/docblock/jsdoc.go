package docblock

import (
	"strings"
)

// JSDoc is the parsed form of a docblock.
type JSDoc struct {
	Description string
	Params      []Param
	Returns     *Returns
	Deprecated  bool
}

// Param is one `@param {type} name description` tag.
type Param struct {
	Name        string
	Type        string
	Description string
	Optional    bool
}

// Returns is the `@returns {type} description` tag.
type Returns struct {
	Type        string
	Description string
}

// Param returns the tag documenting name, or nil.
func (d JSDoc) Param(name string) *Param {
	for i := range d.Params {
		if d.Params[i].Name == name {
			return &d.Params[i]
		}
	}
	return nil
}

// ParseJSDoc parses docblock text as returned by Get. Text before the first
// tag is the description; multi-line tag descriptions are joined.
func ParseJSDoc(text string) JSDoc {
	var doc JSDoc
	var desc []string

	// appendTo receives continuation lines of the current tag.
	var appendTo *string

	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if !strings.HasPrefix(line, "@") {
			switch {
			case appendTo != nil:
				if line != "" {
					*appendTo = strings.TrimSpace(*appendTo + " " + line)
				}
			default:
				desc = append(desc, line)
			}
			continue
		}

		tag, rest, _ := strings.Cut(line, " ")
		rest = strings.TrimSpace(rest)
		appendTo = nil

		switch tag {
		case "@param", "@arg", "@argument":
			p := parseParam(rest)
			if p.Name == "" {
				continue
			}
			doc.Params = append(doc.Params, p)
			appendTo = &doc.Params[len(doc.Params)-1].Description
		case "@returns", "@return":
			typ, rest := parseTypeExpr(rest)
			doc.Returns = &Returns{Type: typ, Description: trimDash(rest)}
			appendTo = &doc.Returns.Description
		case "@deprecated":
			doc.Deprecated = true
		}
	}

	doc.Description = strings.TrimSpace(strings.Join(desc, "\n"))
	return doc
}

func parseParam(s string) Param {
	var p Param
	p.Type, s = parseTypeExpr(s)

	name, rest, _ := strings.Cut(s, " ")
	if strings.HasPrefix(name, "[") {
		// [name] or [name=default]; the default may contain spaces.
		end := strings.Index(s, "]")
		if end < 0 {
			return Param{}
		}
		name = s[1:end]
		rest = s[end+1:]
		if n, _, ok := strings.Cut(name, "="); ok {
			name = n
		}
		p.Optional = true
	}
	p.Name = strings.TrimSpace(name)
	p.Description = trimDash(rest)
	return p
}

// parseTypeExpr splits a leading `{type}` from s, honouring nested braces.
func parseTypeExpr(s string) (string, string) {
	if !strings.HasPrefix(s, "{") {
		return "", s
	}
	depth := 0
	for i, r := range s {
		switch r {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return strings.TrimSpace(s[1:i]), strings.TrimSpace(s[i+1:])
			}
		}
	}
	return "", s
}

func trimDash(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "-")
	return strings.TrimSpace(s)
}
