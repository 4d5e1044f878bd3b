package manifest

import (
	"fmt"
	"unicode/utf8"

	"github.com/sparktype-project/sparkblocks/pkg/block"
)

// ValidationResult collects the problems found in one block. Validation never
// panics and never mutates; an empty Errors slice means the block is valid.
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors,omitempty"`
}

// Validate checks a block against its manifest: required fields, declared
// types, bounds and patterns for both buckets, then region cardinality and
// allow-lists. Error messages are prefixed with the field or region name so
// the editor can attach them inline.
func (r *Registry) Validate(b *block.Block) ValidationResult {
	if b == nil {
		return ValidationResult{Valid: false, Errors: []string{"block: nil"}}
	}

	m, ok := r.Get(b.Type)
	if !ok {
		return ValidationResult{
			Valid:  false,
			Errors: []string{fmt.Sprintf("type: unknown block type %q", b.Type)},
		}
	}

	var errs []string
	errs = append(errs, validateBucket(m.Fields, b.Content)...)
	errs = append(errs, validateBucket(m.Config, b.Config)...)
	errs = append(errs, validateRegions(m, b)...)

	return ValidationResult{Valid: len(errs) == 0, Errors: errs}
}

func validateBucket(specs []FieldSpec, values map[string]any) []string {
	var errs []string
	for i := range specs {
		f := &specs[i]
		v, present := values[f.Name]

		if isMissing(v, present) {
			if f.Required {
				errs = append(errs, fmt.Sprintf("%s: required field missing", f.Name))
			}
			continue
		}

		if !matchesType(f.Type, v) {
			errs = append(errs, fmt.Sprintf("%s: expected %s, got %T", f.Name, f.Type, v))
			continue
		}

		errs = append(errs, validateValue(f, v)...)
	}
	return errs
}

// isMissing treats an absent key, a nil value and an empty string all as
// "not provided": the empty string is the zero fill for text fields, and the
// editor's required-field prompt must fire for it.
func isMissing(v any, present bool) bool {
	if !present || v == nil {
		return true
	}
	s, isStr := v.(string)
	return isStr && s == ""
}

func matchesType(fieldType string, v any) bool {
	switch fieldType {
	case FieldText, FieldSelect:
		_, ok := v.(string)
		return ok
	case FieldNumber:
		_, ok := asNumber(v)
		return ok
	case FieldBoolean:
		_, ok := v.(bool)
		return ok
	case FieldArray:
		_, ok := v.([]any)
		return ok
	case FieldObject:
		_, ok := v.(map[string]any)
		return ok
	default:
		// Unknown declared type: nothing to check against.
		return true
	}
}

func validateValue(f *FieldSpec, v any) []string {
	var errs []string

	if f.Type == FieldSelect && len(f.Options) > 0 {
		s := v.(string)
		if !contains(f.Options, s) {
			errs = append(errs, fmt.Sprintf("%s: %q is not one of the allowed options", f.Name, s))
		}
	}

	val := f.Validation
	if val == nil {
		return errs
	}

	switch f.Type {
	case FieldNumber:
		n, _ := asNumber(v)
		if val.Min != nil && n < *val.Min {
			errs = append(errs, fmt.Sprintf("%s: must be at least %v", f.Name, formatBound(*val.Min)))
		}
		if val.Max != nil && n > *val.Max {
			errs = append(errs, fmt.Sprintf("%s: must be at most %v", f.Name, formatBound(*val.Max)))
		}
	case FieldText, FieldSelect:
		s := v.(string)
		length := float64(utf8.RuneCountInString(s))
		if val.Min != nil && length < *val.Min {
			errs = append(errs, fmt.Sprintf("%s: must be at least %v characters", f.Name, formatBound(*val.Min)))
		}
		if val.Max != nil && length > *val.Max {
			errs = append(errs, fmt.Sprintf("%s: must be at most %v characters", f.Name, formatBound(*val.Max)))
		}
		if val.pattern != nil && !val.pattern.MatchString(s) {
			errs = append(errs, fmt.Sprintf("%s: does not match required pattern", f.Name))
		}
	case FieldArray:
		length := float64(len(v.([]any)))
		if val.Min != nil && length < *val.Min {
			errs = append(errs, fmt.Sprintf("%s: must have at least %v items", f.Name, formatBound(*val.Min)))
		}
		if val.Max != nil && length > *val.Max {
			errs = append(errs, fmt.Sprintf("%s: must have at most %v items", f.Name, formatBound(*val.Max)))
		}
	}

	return errs
}

func validateRegions(m *Manifest, b *block.Block) []string {
	var errs []string

	for i := range m.Regions {
		spec := &m.Regions[i]
		children := b.Regions[spec.Name]

		if spec.Required && len(children) == 0 {
			errs = append(errs, fmt.Sprintf("%s: required region is empty", spec.Name))
		}
		if spec.MaxItems > 0 && len(children) > spec.MaxItems {
			errs = append(errs, fmt.Sprintf("%s: exceeds maximum of %d items", spec.Name, spec.MaxItems))
		}
		if len(spec.AllowedBlocks) > 0 {
			for _, child := range children {
				if !contains(spec.AllowedBlocks, child.Type) {
					errs = append(errs, fmt.Sprintf("%s: block type %q is not allowed", spec.Name, child.Type))
				}
			}
		}
	}

	// Region keys the manifest does not declare may not persist; the
	// serializer drops them, validation reports them.
	for _, name := range b.RegionNames() {
		if _, declared := m.Region(name); !declared {
			errs = append(errs, fmt.Sprintf("%s: region not declared by manifest", name))
		}
	}

	return errs
}

func asNumber(v any) (float64, bool) {
	switch n := v.(type) {
	case int:
		return float64(n), true
	case int64:
		return float64(n), true
	case float64:
		return n, true
	case float32:
		return float64(n), true
	default:
		return 0, false
	}
}

// formatBound prints integral bounds without a trailing ".0" so messages read
// "at least 1", not "at least 1.0".
func formatBound(f float64) any {
	return block.Normalize(f)
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}
