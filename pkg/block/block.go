// Package block defines the Block content model: one node of a page's content
// tree. A block's shape (fields, regions, directive syntax) is governed by the
// manifest registered for its type; the model itself stays schema-free so that
// unknown types survive a parse/serialize round trip.
package block

import (
	"sort"

	"github.com/sparktype-project/sparkblocks/internal/rand"
)

// IDLength is the number of base62 characters in a generated block id.
const IDLength = 12

const idPrefix = "blk_"

// Block is the fundamental content unit. Content holds user-authored field
// values, Config holds structural options (a separate bucket so that e.g. a
// collection view's collectionId is never confused with its display title),
// and Regions holds ordered child lists for container blocks.
//
// Blocks produced by this module always carry non-nil Content/Config maps and
// non-nil region slices; the omitempty tags keep serialized forms compact.
type Block struct {
	ID      string              `json:"id" yaml:"id"`
	Type    string              `json:"type" yaml:"type"`
	Content map[string]any      `json:"content,omitempty" yaml:"content,omitempty"`
	Config  map[string]any      `json:"config,omitempty" yaml:"config,omitempty"`
	Regions map[string][]*Block `json:"regions,omitempty" yaml:"regions,omitempty"`
}

// New returns an empty block of the given type with a fresh id and non-nil
// buckets. Manifest defaulting is the registry's concern, not New's.
func New(blockType string) *Block {
	return &Block{
		ID:      NewID(),
		Type:    blockType,
		Content: map[string]any{},
		Config:  map[string]any{},
		Regions: map[string][]*Block{},
	}
}

// NewID returns a fresh block id.
func NewID() string {
	return idPrefix + rand.String(IDLength)
}

// HasChildren reports whether any region holds at least one child.
func (b *Block) HasChildren() bool {
	for _, children := range b.Regions {
		if len(children) > 0 {
			return true
		}
	}
	return false
}

// RegionNames returns the block's region names in sorted order. Manifest-aware
// callers should prefer the manifest's declared order; this is the
// deterministic fallback when no manifest is known.
func (b *Block) RegionNames() []string {
	names := make([]string, 0, len(b.Regions))
	for name := range b.Regions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Clone deep-copies the block and its entire subtree. Ids are preserved;
// callers that need fresh ids (duplication) reassign them afterwards.
func (b *Block) Clone() *Block {
	if b == nil {
		return nil
	}
	clone := &Block{
		ID:      b.ID,
		Type:    b.Type,
		Content: cloneBucket(b.Content),
		Config:  cloneBucket(b.Config),
		Regions: make(map[string][]*Block, len(b.Regions)),
	}
	for name, children := range b.Regions {
		clone.Regions[name] = CloneTree(children)
	}
	return clone
}

// CloneTree deep-copies a block list. The result is non-nil even for empty
// input so that cloned trees compare equal to freshly built ones.
func CloneTree(tree []*Block) []*Block {
	clones := make([]*Block, 0, len(tree))
	for _, b := range tree {
		clones = append(clones, b.Clone())
	}
	return clones
}

func cloneBucket(bucket map[string]any) map[string]any {
	clone := make(map[string]any, len(bucket))
	for k, v := range bucket {
		clone[k] = cloneValue(v)
	}
	return clone
}

func cloneValue(v any) any {
	switch val := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(val))
		for k, item := range val {
			m[k] = cloneValue(item)
		}
		return m
	case []any:
		s := make([]any, len(val))
		for i, item := range val {
			s[i] = cloneValue(item)
		}
		return s
	default:
		// Scalars are immutable; share them.
		return v
	}
}
