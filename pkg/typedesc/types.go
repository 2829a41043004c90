// Package typedesc builds language-agnostic type descriptors from Flow and
// TypeScript type annotations.
package typedesc

import (
	"encoding/json"
)

// Type is a type descriptor. The set of implementations is closed: *Simple,
// *Literal, *Elements, *ObjectSignature and *FunctionSignature.
type Type interface {
	// TypeName returns the descriptor's name field.
	TypeName() string

	flags() *Flags
	clone() Type
}

// Flags are the optional markers shared by every descriptor.
type Flags struct {
	Required *bool `json:"required,omitempty"`
	Nullable bool  `json:"nullable,omitempty"`
}

// Simple is a named type: a primitive, a nominal reference or "unknown".
type Simple struct {
	Name string `json:"name"`
	Raw  string `json:"raw,omitempty"`
	Flags
}

// Literal is a literal type. Value is the literal as written.
type Literal struct {
	Name  string `json:"name"`
	Value string `json:"value"`
	Flags
}

// Elements is a type built from other types: unions, intersections,
// tuples, arrays and generic instantiations.
type Elements struct {
	Name     string `json:"name"`
	Raw      string `json:"raw,omitempty"`
	Elements []Type `json:"elements"`
	Flags
}

// ObjectSignature describes an object type.
type ObjectSignature struct {
	Name      string              `json:"name"`
	Type      string              `json:"type"`
	Raw       string              `json:"raw,omitempty"`
	Signature ObjectSignatureBody `json:"signature"`
	Flags
}

// ObjectSignatureBody holds the members of an object type. Constructor is
// set for callable or constructible object types.
type ObjectSignatureBody struct {
	Properties  []ObjectProperty `json:"properties"`
	Constructor Type             `json:"constructor,omitempty"`
}

// ObjectProperty is one member of an object type. Index signatures have a
// KeyType instead of a Key.
type ObjectProperty struct {
	Key         string
	KeyType     Type
	Value       Type
	Description string
}

// MarshalJSON writes the key as a string, or as a descriptor for index
// signatures.
func (p ObjectProperty) MarshalJSON() ([]byte, error) {
	var key any = p.Key
	if p.KeyType != nil {
		key = p.KeyType
	}
	return json.Marshal(struct {
		Key         any    `json:"key"`
		Value       Type   `json:"value"`
		Description string `json:"description,omitempty"`
	}{key, p.Value, p.Description})
}

// FunctionSignature describes a function type.
type FunctionSignature struct {
	Name      string                `json:"name"`
	Type      string                `json:"type"`
	Raw       string                `json:"raw,omitempty"`
	Signature FunctionSignatureBody `json:"signature"`
	Flags
}

// FunctionSignatureBody holds the positional arguments, the return type and
// an explicit `this` parameter.
type FunctionSignatureBody struct {
	Arguments []FunctionArgument `json:"arguments"`
	Return    Type               `json:"return,omitempty"`
	This      Type               `json:"this,omitempty"`
}

// FunctionArgument is one positional parameter. Type is nil when the
// parameter is not annotated.
type FunctionArgument struct {
	Name string `json:"name"`
	Type Type   `json:"type,omitempty"`
	Rest bool   `json:"rest,omitempty"`
}

func (t *Simple) TypeName() string            { return t.Name }
func (t *Literal) TypeName() string           { return t.Name }
func (t *Elements) TypeName() string          { return t.Name }
func (t *ObjectSignature) TypeName() string   { return t.Name }
func (t *FunctionSignature) TypeName() string { return t.Name }

func (t *Simple) flags() *Flags            { return &t.Flags }
func (t *Literal) flags() *Flags           { return &t.Flags }
func (t *Elements) flags() *Flags          { return &t.Flags }
func (t *ObjectSignature) flags() *Flags   { return &t.Flags }
func (t *FunctionSignature) flags() *Flags { return &t.Flags }

func (t *Simple) clone() Type            { c := *t; return &c }
func (t *Literal) clone() Type           { c := *t; return &c }
func (t *Elements) clone() Type          { c := *t; return &c }
func (t *ObjectSignature) clone() Type   { c := *t; return &c }
func (t *FunctionSignature) clone() Type { c := *t; return &c }

// Unknown returns the descriptor used for anything that cannot be described.
func Unknown() Type { return &Simple{Name: "unknown"} }

// IsUnknown reports whether t is nil or the unknown descriptor.
func IsUnknown(t Type) bool {
	if t == nil {
		return true
	}
	s, ok := t.(*Simple)
	return ok && s.Name == "unknown"
}

// GetFlags returns a copy of the flags of t.
func GetFlags(t Type) Flags {
	if t == nil {
		return Flags{}
	}
	return *t.flags()
}

// WithRequired returns a copy of t with the required flag set. Descriptors
// may be shared between properties, so flags are never set in place.
func WithRequired(t Type, required bool) Type {
	c := t.clone()
	c.flags().Required = &required
	return c
}

// WithNullable returns a copy of t marked nullable.
func WithNullable(t Type) Type {
	c := t.clone()
	c.flags().Nullable = true
	return c
}

// withoutRequired returns t with the required flag cleared.
func withoutRequired(t Type) Type {
	if t.flags().Required == nil {
		return t
	}
	c := t.clone()
	c.flags().Required = nil
	return c
}

func simple(name string) Type { return &Simple{Name: name} }

func literal(value string) Type { return &Literal{Name: "literal", Value: value} }
