// Package tree implements pure operations over block trees: lookup, insertion,
// removal, moves, duplication and field edits. Every operation returns a fresh
// tree and leaves its input untouched; an id that cannot be resolved returns
// the original tree unchanged, so callers never need a found/not-found branch
// before applying an edit.
package tree

import (
	"sort"

	"github.com/sparktype-project/sparkblocks/pkg/block"
	"github.com/sparktype-project/sparkblocks/pkg/manifest"
)

// Step is one hop in a block's path: the region descended into and the index
// within that region's child list. Steps at the root level have Region "".
type Step struct {
	Region string `json:"region"`
	Index  int    `json:"index"`
}

// Found pairs a located block with the path from the root to it.
type Found struct {
	Block *block.Block
	Path  []Step
}

// Parent describes where a block sits: the containing block (nil for root
// children), the region name ("" at the root) and the child index.
type Parent struct {
	Block  *block.Block
	Region string
	Index  int
}

// Walk visits every block pre-order, depth-first. A container's regions are
// visited in its manifest's declared order; regions the manifest does not
// declare (or all of them, when the type is unknown) follow in sorted name
// order. The path slice is reused between calls, so copy it if it outlives
// the visit. Returning false stops the walk.
func Walk(reg *manifest.Registry, tree []*block.Block, visit func(b *block.Block, path []Step) bool) {
	walk(reg, tree, nil, "", visit)
}

func walk(reg *manifest.Registry, tree []*block.Block, prefix []Step, region string, visit func(*block.Block, []Step) bool) bool {
	for i, b := range tree {
		path := append(prefix, Step{Region: region, Index: i})
		if !visit(b, path) {
			return false
		}
		for _, name := range regionOrder(reg, b) {
			if !walk(reg, b.Regions[name], path, name, visit) {
				return false
			}
		}
	}
	return true
}

// regionOrder returns the order in which a block's regions are visited:
// manifest-declared regions first, in declared order, then any undeclared
// region keys sorted by name.
func regionOrder(reg *manifest.Registry, b *block.Block) []string {
	if len(b.Regions) == 0 {
		return nil
	}

	var order []string
	seen := make(map[string]bool, len(b.Regions))
	if reg != nil {
		if m, ok := reg.Get(b.Type); ok {
			for _, name := range m.RegionNames() {
				if _, present := b.Regions[name]; present {
					order = append(order, name)
					seen[name] = true
				}
			}
		}
	}

	var rest []string
	for name := range b.Regions {
		if !seen[name] {
			rest = append(rest, name)
		}
	}
	sort.Strings(rest)
	return append(order, rest...)
}

// FindByID locates a block anywhere in the tree.
func FindByID(reg *manifest.Registry, tree []*block.Block, id string) (*Found, bool) {
	var found *Found
	Walk(reg, tree, func(b *block.Block, path []Step) bool {
		if b.ID != id {
			return true
		}
		found = &Found{Block: b, Path: append([]Step(nil), path...)}
		return false
	})
	return found, found != nil
}

// FindParent locates the block containing id. Root-level blocks have a parent
// with a nil Block and empty Region.
func FindParent(reg *manifest.Registry, tree []*block.Block, id string) (*Parent, bool) {
	for i, b := range tree {
		if b.ID == id {
			return &Parent{Index: i}, true
		}
	}

	var parent *Parent
	Walk(reg, tree, func(b *block.Block, _ []Step) bool {
		for _, name := range regionOrder(reg, b) {
			for i, child := range b.Regions[name] {
				if child.ID == id {
					parent = &Parent{Block: b, Region: name, Index: i}
					return false
				}
			}
		}
		return true
	})
	return parent, parent != nil
}

// FlattenIDs returns every block id in visit order.
func FlattenIDs(reg *manifest.Registry, tree []*block.Block) []string {
	ids := make([]string, 0, len(tree))
	Walk(reg, tree, func(b *block.Block, _ []Step) bool {
		ids = append(ids, b.ID)
		return true
	})
	return ids
}
