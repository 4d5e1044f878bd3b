// Package manifest holds the declarative block manifests that govern every
// block type: field and config schemas, region schemas, directive syntax
// mapping and behavioral flags. The Registry is the single source of truth
// consulted by the blockmark codec and the tree operations; it never touches
// a tree itself.
package manifest

import (
	"regexp"

	"github.com/sparktype-project/sparkblocks/pkg/block"
)

// Field types a manifest may declare.
const (
	FieldText    = "text"
	FieldNumber  = "number"
	FieldBoolean = "boolean"
	FieldSelect  = "select"
	FieldArray   = "array"
	FieldObject  = "object"
)

// Directive kinds.
const (
	KindLeaf      = "leaf"
	KindContainer = "container"
)

// Manifest is the schema governing one block type. Fields and Regions are
// ordered slices keyed by Name so that "manifest iteration order" is the
// document order of the manifest source, not map order.
type Manifest struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Category    string   `json:"category,omitempty"`
	Description string   `json:"description,omitempty"`
	Keywords    []string `json:"keywords,omitempty"`

	Fields  []FieldSpec  `json:"fields,omitempty"`
	Config  []FieldSpec  `json:"config,omitempty"`
	Regions []RegionSpec `json:"regions,omitempty"`

	Directive DirectiveSpec `json:"directive,omitempty"`
	Behavior  BehaviorSpec  `json:"behavior,omitempty"`
}

// FieldSpec declares one field in the content or config bucket.
type FieldSpec struct {
	Name       string          `json:"name"`
	Type       string          `json:"type"`
	Label      string          `json:"label,omitempty"`
	Required   bool            `json:"required,omitempty"`
	Default    any             `json:"default,omitempty"`
	Options    []string        `json:"options,omitempty"`
	Validation *ValidationSpec `json:"validation,omitempty"`
}

// ValidationSpec bounds a field value. Min/Max apply to the numeric value for
// number fields, to the rune length for text fields, and to the element count
// for array fields.
type ValidationSpec struct {
	Min     *float64 `json:"min,omitempty"`
	Max     *float64 `json:"max,omitempty"`
	Pattern string   `json:"pattern,omitempty"`

	pattern *regexp.Regexp
}

// RegionSpec declares one named child slot of a container block.
type RegionSpec struct {
	Name          string   `json:"name"`
	Label         string   `json:"label,omitempty"`
	AllowedBlocks []string `json:"allowedBlocks,omitempty"` // empty means unrestricted
	Required      bool     `json:"required,omitempty"`
	MaxItems      int      `json:"maxItems,omitempty"` // 0 means unlimited
}

// DirectiveSpec maps the manifest onto the blockmark syntax.
type DirectiveSpec struct {
	Name       string   `json:"name,omitempty"`
	Kind       string   `json:"kind,omitempty"` // leaf or container
	Attributes []string `json:"attributes,omitempty"`
}

// BehaviorSpec carries the editor-facing behavioral flags.
type BehaviorSpec struct {
	Insertable   bool         `json:"insertable,omitempty"`
	Searchable   bool         `json:"searchable,omitempty"`
	Duplicatable bool         `json:"duplicatable,omitempty"`
	Deletable    bool         `json:"deletable,omitempty"`
	Moveable     bool         `json:"moveable,omitempty"`
	Patterns     *PatternSpec `json:"patterns,omitempty"`
}

// PatternSpec drives type detection from typed text and the auto-format
// behaviors (split) that depend on it.
type PatternSpec struct {
	Trigger    string `json:"trigger,omitempty"`
	Regex      string `json:"regex,omitempty"`
	AutoFormat bool   `json:"autoFormat,omitempty"`

	regex *regexp.Regexp
}

// IsContainer reports whether the manifest declares at least one region.
// Container-ness is always derived from the manifest, never stored on blocks.
func (m *Manifest) IsContainer() bool {
	return len(m.Regions) > 0
}

// Field returns the content field spec with the given name.
func (m *Manifest) Field(name string) (*FieldSpec, bool) {
	return findField(m.Fields, name)
}

// ConfigField returns the config field spec with the given name.
func (m *Manifest) ConfigField(name string) (*FieldSpec, bool) {
	return findField(m.Config, name)
}

// Region returns the region spec with the given name.
func (m *Manifest) Region(name string) (*RegionSpec, bool) {
	for i := range m.Regions {
		if m.Regions[i].Name == name {
			return &m.Regions[i], true
		}
	}
	return nil, false
}

// RegionNames returns the declared region names in document order.
func (m *Manifest) RegionNames() []string {
	names := make([]string, 0, len(m.Regions))
	for i := range m.Regions {
		names = append(names, m.Regions[i].Name)
	}
	return names
}

// AutoFormat reports whether the manifest opts into auto-format behaviors.
func (m *Manifest) AutoFormat() bool {
	return m.Behavior.Patterns != nil && m.Behavior.Patterns.AutoFormat
}

func findField(specs []FieldSpec, name string) (*FieldSpec, bool) {
	for i := range specs {
		if specs[i].Name == name {
			return &specs[i], true
		}
	}
	return nil, false
}

// compile prepares the manifest's regular expressions. The first compile
// error is returned; failed patterns stay nil and simply never match.
func (m *Manifest) compile() error {
	var firstErr error

	if p := m.Behavior.Patterns; p != nil && p.Regex != "" {
		re, err := regexp.Compile(p.Regex)
		if err != nil {
			firstErr = err
		} else {
			p.regex = re
		}
	}

	for _, specs := range [][]FieldSpec{m.Fields, m.Config} {
		for i := range specs {
			v := specs[i].Validation
			if v == nil || v.Pattern == "" {
				continue
			}
			re, err := regexp.Compile(v.Pattern)
			if err != nil {
				if firstErr == nil {
					firstErr = err
				}
				continue
			}
			v.pattern = re
		}
	}

	return firstErr
}

// DefaultValue returns the field's declared default, normalized, or the type
// zero value when no default is declared.
func (f *FieldSpec) DefaultValue() any {
	if f.Default != nil {
		return block.Normalize(f.Default)
	}
	return ZeroValue(f.Type)
}

// ZeroValue returns the type-appropriate zero for a field type: "", 0, false,
// an empty list or an empty object.
func ZeroValue(fieldType string) any {
	switch fieldType {
	case FieldNumber:
		return 0
	case FieldBoolean:
		return false
	case FieldArray:
		return []any{}
	case FieldObject:
		return map[string]any{}
	default:
		// text and select are string-valued
		return ""
	}
}
