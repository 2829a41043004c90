package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/gnana997/uidocgen/pkg/docs"
	"github.com/gnana997/uidocgen/pkg/handlers"
	"github.com/gnana997/uidocgen/pkg/proptypes"
	"github.com/gnana997/uidocgen/pkg/typedesc"
)

const maxWidth = 80

// printDocsHuman prints a human-readable summary of every definition in a
// file.
func printDocsHuman(w io.Writer, path string, records []*docs.Documentation) {
	fmt.Fprintf(w, "%s\n", path)
	fmt.Fprintln(w, strings.Repeat("═", min(len(path), maxWidth)))
	for _, doc := range records {
		fmt.Fprintln(w)
		printDocHuman(w, doc)
	}
}

func printDocHuman(w io.Writer, doc *docs.Documentation) {
	name := doc.GetString("displayName")
	if name == "" {
		name = "(anonymous)"
	}
	fmt.Fprintf(w, "%s  [%s]\n", name, doc.Kind())

	if description := doc.GetString("description"); description != "" {
		fmt.Fprintln(w)
		printWrapped(w, description, 2, maxWidth)
	}

	if composes := doc.Composes(); len(composes) > 0 {
		fmt.Fprintln(w)
		fmt.Fprintf(w, "Composes  %s\n", strings.Join(composes, ", "))
	}

	fmt.Fprintln(w)
	printPropsSection(w, doc)

	v, _ := doc.Get("methods")
	if methods, _ := v.([]*handlers.MethodDescriptor); len(methods) > 0 {
		fmt.Fprintln(w)
		printMethodsSection(w, methods)
	}
}

// printPropsSection renders the props table with dynamic column widths.
func printPropsSection(w io.Writer, doc *docs.Documentation) {
	names := doc.Props()
	if len(names) == 0 {
		fmt.Fprintln(w, "Props  (none)")
		return
	}
	fmt.Fprintln(w, "Props")

	type row struct {
		name, typ, req, def, description string
	}
	rows := make([]row, 0, len(names))
	nameW, typeW, defW := len("NAME"), len("TYPE"), len("DEFAULT")
	for _, name := range names {
		p, _ := doc.Prop(name)
		r := row{name: name, typ: typeLabel(p), req: "no", def: "—", description: p.Description}
		if p.IsRequired() {
			r.req = "yes"
		}
		if p.DefaultValue != nil {
			r.def = p.DefaultValue.Value
		}
		nameW = max(nameW, len(r.name))
		typeW = max(typeW, len(r.typ))
		defW = max(defW, len(r.def))
		rows = append(rows, r)
	}

	sepLen := nameW + typeW + 5 + defW + 4
	fmt.Fprintf(w, "  %-*s  %-*s  %-3s  %-*s\n", nameW, "NAME", typeW, "TYPE", "REQ", defW, "DEFAULT")
	fmt.Fprintf(w, "  %s\n", strings.Repeat("─", sepLen))
	for _, r := range rows {
		fmt.Fprintf(w, "  %-*s  %-*s  %-3s  %s\n", nameW, r.name, typeW, r.typ, r.req, r.def)
		if r.description != "" {
			printWrapped(w, r.description, nameW+4, maxWidth)
		}
	}
}

func printMethodsSection(w io.Writer, methods []*handlers.MethodDescriptor) {
	fmt.Fprintln(w, "Methods")
	for _, m := range methods {
		params := make([]string, 0, len(m.Params))
		for _, p := range m.Params {
			s := p.Name
			if p.Optional {
				s += "?"
			}
			if p.Type != nil {
				s += ": " + typeString(p.Type)
			}
			params = append(params, s)
		}
		sig := fmt.Sprintf("%s(%s)", m.Name, strings.Join(params, ", "))
		if m.Returns != nil && m.Returns.Type != nil {
			sig += ": " + typeString(m.Returns.Type)
		}
		if len(m.Modifiers) > 0 {
			sig = strings.Join(m.Modifiers, " ") + " " + sig
		}
		fmt.Fprintf(w, "  %s\n", sig)
		if m.Description != "" {
			printWrapped(w, m.Description, 4, maxWidth)
		}
	}
}

// typeLabel picks the most specific type known for a prop: the annotated
// type if any, else the prop-type.
func typeLabel(p *docs.PropDescriptor) string {
	switch {
	case p.TSType != nil:
		return typeString(p.TSType)
	case p.FlowType != nil:
		return typeString(p.FlowType)
	case p.Type != nil:
		return propTypeString(p.Type)
	}
	return "?"
}

func typeString(t typedesc.Type) string {
	switch t := t.(type) {
	case *typedesc.Simple:
		if t.Raw != "" {
			return t.Raw
		}
		return t.Name
	case *typedesc.Literal:
		return t.Value
	case *typedesc.Elements:
		if t.Raw != "" {
			return t.Raw
		}
	case *typedesc.ObjectSignature:
		if t.Raw != "" {
			return t.Raw
		}
	case *typedesc.FunctionSignature:
		if t.Raw != "" {
			return t.Raw
		}
	}
	return t.TypeName()
}

func propTypeString(d *proptypes.Descriptor) string {
	switch v := d.Value.(type) {
	case []proptypes.EnumValue:
		values := make([]string, len(v))
		for i, e := range v {
			values[i] = e.Value
		}
		return strings.Join(values, " | ")
	case *proptypes.Descriptor:
		return fmt.Sprintf("%s<%s>", d.Name, propTypeString(v))
	case string:
		if d.Name == "instanceOf" {
			return v
		}
	}
	return d.Name
}

// printWrapped prints text word-wrapped at width with the given left indent.
func printWrapped(w io.Writer, text string, indent, width int) {
	words := strings.Fields(text)
	prefix := strings.Repeat(" ", indent)
	line := prefix
	for _, word := range words {
		if len(line)+len(word)+1 > width && line != prefix {
			fmt.Fprintln(w, line)
			line = prefix + word
		} else if line == prefix {
			line += word
		} else {
			line += " " + word
		}
	}
	if line != prefix {
		fmt.Fprintln(w, line)
	}
}
