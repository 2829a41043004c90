// Package docs holds the documentation record the handlers fill in for one
// component definition.
package docs

import (
	"encoding/json"
	"sort"

	"github.com/gnana997/uidocgen/pkg/proptypes"
	"github.com/gnana997/uidocgen/pkg/typedesc"
)

// DefaultValue is the source text of a prop's default.
type DefaultValue struct {
	Value    string `json:"value"`
	Computed bool   `json:"computed"`
}

// PropDescriptor documents one prop or context entry. Handlers write the
// fields they know about; later writers overwrite earlier ones, except for
// Description, which handlers only set when empty.
type PropDescriptor struct {
	Type         *proptypes.Descriptor `json:"type,omitempty"`
	FlowType     typedesc.Type         `json:"flowType,omitempty"`
	TSType       typedesc.Type         `json:"tsType,omitempty"`
	Required     *bool                 `json:"required,omitempty"`
	DefaultValue *DefaultValue         `json:"defaultValue,omitempty"`
	Description  string                `json:"description"`
}

// SetRequired sets the required flag.
func (d *PropDescriptor) SetRequired(required bool) {
	d.Required = &required
}

// IsRequired reports whether the prop is known to be required.
func (d *PropDescriptor) IsRequired() bool {
	return d.Required != nil && *d.Required
}

// Documentation accumulates what the handlers learn about one definition.
type Documentation struct {
	props        map[string]*PropDescriptor
	propOrder    []string
	context      map[string]*PropDescriptor
	childContext map[string]*PropDescriptor
	composes     map[string]bool
	data         map[string]any
	kind         string
}

// New returns an empty record.
func New() *Documentation {
	return &Documentation{
		props:        make(map[string]*PropDescriptor),
		context:      make(map[string]*PropDescriptor),
		childContext: make(map[string]*PropDescriptor),
		composes:     make(map[string]bool),
		data:         make(map[string]any),
	}
}

// GetPropDescriptor returns the descriptor of prop name, creating it on
// first use.
func (d *Documentation) GetPropDescriptor(name string) *PropDescriptor {
	if desc, ok := d.props[name]; ok {
		return desc
	}
	desc := &PropDescriptor{}
	d.props[name] = desc
	d.propOrder = append(d.propOrder, name)
	return desc
}

// Prop returns the descriptor of prop name without creating it.
func (d *Documentation) Prop(name string) (*PropDescriptor, bool) {
	desc, ok := d.props[name]
	return desc, ok
}

// GetContextDescriptor returns the descriptor of context entry name.
func (d *Documentation) GetContextDescriptor(name string) *PropDescriptor {
	return getOrCreate(d.context, name)
}

// GetChildContextDescriptor returns the descriptor of child context entry
// name.
func (d *Documentation) GetChildContextDescriptor(name string) *PropDescriptor {
	return getOrCreate(d.childContext, name)
}

func getOrCreate(m map[string]*PropDescriptor, name string) *PropDescriptor {
	if desc, ok := m[name]; ok {
		return desc
	}
	desc := &PropDescriptor{}
	m[name] = desc
	return desc
}

// Props returns the prop names in the order they were first described.
func (d *Documentation) Props() []string {
	return append([]string(nil), d.propOrder...)
}

// HasProps reports whether any prop was described.
func (d *Documentation) HasProps() bool {
	return len(d.props) > 0
}

// AddComposes records a module whose props are spread into this
// component's props.
func (d *Documentation) AddComposes(module string) {
	d.composes[module] = true
}

// Composes returns the composed modules, sorted.
func (d *Documentation) Composes() []string {
	out := make([]string, 0, len(d.composes))
	for m := range d.composes {
		out = append(out, m)
	}
	sort.Strings(out)
	return out
}

// Set stores a free-form field such as description or displayName.
func (d *Documentation) Set(key string, value any) {
	d.data[key] = value
}

// Get returns a free-form field.
func (d *Documentation) Get(key string) (any, bool) {
	v, ok := d.data[key]
	return v, ok
}

// GetString returns a free-form string field, or "".
func (d *Documentation) GetString(key string) string {
	s, _ := d.data[key].(string)
	return s
}

// SetKind records the kind of definition the record documents.
func (d *Documentation) SetKind(kind string) {
	d.kind = kind
}

// Kind returns the kind of definition the record documents.
func (d *Documentation) Kind() string {
	return d.kind
}

// PostProcessProps lowers every prop that has a default value to not
// required. It must run after all handlers.
func PostProcessProps(d *Documentation) {
	for _, desc := range d.props {
		if desc.DefaultValue != nil {
			desc.SetRequired(false)
		}
	}
}

// MarshalJSON renders the free fields next to props, context, childContext
// and composes, each omitted when empty. The definition kind is not part of
// the output.
func (d *Documentation) MarshalJSON() ([]byte, error) {
	out := make(map[string]any, len(d.data)+4)
	for k, v := range d.data {
		out[k] = v
	}
	if len(d.props) > 0 {
		out["props"] = d.props
	}
	if len(d.context) > 0 {
		out["context"] = d.context
	}
	if len(d.childContext) > 0 {
		out["childContext"] = d.childContext
	}
	if len(d.composes) > 0 {
		out["composes"] = d.Composes()
	}
	return json.Marshal(out)
}
