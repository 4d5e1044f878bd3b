package manifest

import (
	"strings"
	"sync"

	"github.com/sparktype-project/sparkblocks/pkg/block"
)

// Registry holds the merged manifest set for an editing session. Lookup,
// creation-with-defaults and validation all go through it. The set is
// immutable between Reload calls; Reload is an explicit full replace.
type Registry struct {
	mu    sync.RWMutex
	order []string
	types map[string]*Manifest
}

// NewRegistry builds a registry over the given manifests. Registration order
// is preserved and is the DetectType iteration order; a manifest with an id
// already registered replaces the earlier one in place. Pattern compile
// errors are swallowed here (the pattern never matches); Load surfaces them.
func NewRegistry(manifests ...*Manifest) *Registry {
	r := &Registry{types: map[string]*Manifest{}}
	r.replace(manifests)
	return r
}

// Reload replaces the entire manifest set. Used when site overrides change on
// disk; there is no incremental update.
func (r *Registry) Reload(manifests []*Manifest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.order = nil
	r.types = map[string]*Manifest{}
	r.replaceLocked(manifests)
}

func (r *Registry) replace(manifests []*Manifest) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replaceLocked(manifests)
}

func (r *Registry) replaceLocked(manifests []*Manifest) {
	for _, m := range manifests {
		if m == nil || m.ID == "" {
			continue
		}
		_ = m.compile()
		if _, exists := r.types[m.ID]; !exists {
			r.order = append(r.order, m.ID)
		}
		r.types[m.ID] = m
	}
}

// Get looks up the manifest for a block type. Absence is a normal outcome.
func (r *Registry) Get(blockType string) (*Manifest, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	m, ok := r.types[blockType]
	return m, ok
}

// Len returns the number of registered manifests.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// List returns the manifests in registration order.
func (r *Registry) List() []*Manifest {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]*Manifest, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.types[id])
	}
	return out
}

// CreateBlock builds a block of the given type with manifest defaults
// applied. Content values are chosen per field in priority order: caller
// value, manifest default, type zero value. Config fields get defaults or
// zero values. Every declared region starts as an empty, non-nil child list.
// Initial keys not declared by the manifest are kept verbatim.
//
// The second return is false when the type is unknown; no block is created.
func (r *Registry) CreateBlock(blockType string, initial map[string]any) (*block.Block, bool) {
	m, ok := r.Get(blockType)
	if !ok {
		return nil, false
	}

	b := block.New(blockType)

	for i := range m.Fields {
		f := &m.Fields[i]
		b.Content[f.Name] = fieldValue(f, initial)
	}
	for name, v := range initial {
		if _, declared := m.Field(name); !declared {
			b.Content[name] = block.Normalize(v)
		}
	}

	for i := range m.Config {
		f := &m.Config[i]
		b.Config[f.Name] = fieldValue(f, nil)
	}

	for _, name := range m.RegionNames() {
		b.Regions[name] = make([]*block.Block, 0)
	}

	return b, true
}

func fieldValue(f *FieldSpec, initial map[string]any) any {
	if initial != nil {
		if v, ok := initial[f.Name]; ok {
			return block.Normalize(v)
		}
	}
	return f.DefaultValue()
}

// Detection is a successful DetectType result.
type Detection struct {
	Type     string
	Manifest *Manifest
}

// DetectType matches typed text against each manifest's behavior patterns in
// registration order. Within a manifest the trigger prefix is checked before
// the regex; across manifests the first registered match wins, so callers
// needing priority control the registration order.
func (r *Registry) DetectType(text string) (*Detection, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, id := range r.order {
		m := r.types[id]
		p := m.Behavior.Patterns
		if p == nil {
			continue
		}
		if p.Trigger != "" && strings.HasPrefix(text, p.Trigger) {
			return &Detection{Type: m.ID, Manifest: m}, true
		}
		if p.regex != nil && p.regex.MatchString(text) {
			return &Detection{Type: m.ID, Manifest: m}, true
		}
	}
	return nil, false
}

// Merge combines a core manifest set with site overrides. An override with a
// core id replaces the core entry whole (no field-level merge, same as the
// site bundle format); new ids append after the core set in override order.
func Merge(core, overrides []*Manifest) []*Manifest {
	byID := make(map[string]int, len(core))
	combined := make([]*Manifest, len(core))
	copy(combined, core)
	for i, m := range combined {
		byID[m.ID] = i
	}

	for _, o := range overrides {
		if o == nil || o.ID == "" {
			continue
		}
		if i, exists := byID[o.ID]; exists {
			combined[i] = o
			continue
		}
		byID[o.ID] = len(combined)
		combined = append(combined, o)
	}
	return combined
}
