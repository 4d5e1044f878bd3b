package tree

import (
	"github.com/sparktype-project/sparkblocks/pkg/block"
	"github.com/sparktype-project/sparkblocks/pkg/manifest"
)

// Position says where an inserted or moved block lands relative to its target.
type Position string

const (
	Before Position = "before"
	After  Position = "after"
	Inside Position = "inside"
)

// Insert places a copy of blk relative to the target block. An empty targetID
// appends at the root; Inside appends to the target's named region, creating
// the region key when absent. Insert applies no legality checks; allow-list
// and cardinality problems surface through validation afterwards. An
// unresolvable target returns the tree unchanged.
func Insert(reg *manifest.Registry, tree []*block.Block, blk *block.Block, targetID string, pos Position, region string) []*block.Block {
	if blk == nil {
		return tree
	}
	if targetID == "" {
		return append(block.CloneTree(tree), blk.Clone())
	}

	out, ok := insertIn(reg, block.CloneTree(tree), blk.Clone(), targetID, pos, region)
	if !ok {
		return tree
	}
	return out
}

func insertIn(reg *manifest.Registry, list []*block.Block, blk *block.Block, targetID string, pos Position, region string) ([]*block.Block, bool) {
	for i, b := range list {
		if b.ID != targetID {
			continue
		}
		switch pos {
		case Inside:
			if b.Regions == nil {
				b.Regions = map[string][]*block.Block{}
			}
			b.Regions[region] = append(b.Regions[region], blk)
		case Before:
			list = splice(list, i, blk)
		default:
			list = splice(list, i+1, blk)
		}
		return list, true
	}

	for _, b := range list {
		for _, name := range regionOrder(reg, b) {
			if updated, ok := insertIn(reg, b.Regions[name], blk, targetID, pos, region); ok {
				b.Regions[name] = updated
				return list, true
			}
		}
	}
	return list, false
}

func splice(list []*block.Block, at int, blk *block.Block) []*block.Block {
	list = append(list, nil)
	copy(list[at+1:], list[at:])
	list[at] = blk
	return list
}

// Remove deletes the block and its whole subtree. A missing id is a no-op.
// Emptied region keys stay in place so declared regions survive the edit.
func Remove(reg *manifest.Registry, tree []*block.Block, id string) []*block.Block {
	out, ok := removeIn(reg, block.CloneTree(tree), id)
	if !ok {
		return tree
	}
	return out
}

func removeIn(reg *manifest.Registry, list []*block.Block, id string) ([]*block.Block, bool) {
	for i, b := range list {
		if b.ID == id {
			return append(list[:i], list[i+1:]...), true
		}
	}

	for _, b := range list {
		for _, name := range regionOrder(reg, b) {
			if updated, ok := removeIn(reg, b.Regions[name], id); ok {
				b.Regions[name] = updated
				return list, true
			}
		}
	}
	return list, false
}

// Move relocates a subtree next to (or inside) the target block. Moving a
// block relative to itself or to one of its own descendants is a no-op, as is
// a missing id or target.
func Move(reg *manifest.Registry, tree []*block.Block, id, targetID string, pos Position, region string) []*block.Block {
	if id == targetID {
		return tree
	}
	found, ok := FindByID(reg, tree, id)
	if !ok {
		return tree
	}
	if targetID != "" {
		if _, inSubtree := FindByID(reg, []*block.Block{found.Block}, targetID); inSubtree {
			return tree
		}
		if _, exists := FindByID(reg, tree, targetID); !exists {
			return tree
		}
	}

	moved := found.Block.Clone()
	return Insert(reg, Remove(reg, tree, id), moved, targetID, pos, region)
}

// Duplicate deep-copies the block, assigns fresh ids to the copy and every
// descendant, and inserts the copy immediately after the original.
func Duplicate(reg *manifest.Registry, tree []*block.Block, id string) []*block.Block {
	found, ok := FindByID(reg, tree, id)
	if !ok {
		return tree
	}

	dup := found.Block.Clone()
	refreshIDs(dup)
	return Insert(reg, tree, dup, id, After, "")
}

func refreshIDs(b *block.Block) {
	b.ID = block.NewID()
	for _, children := range b.Regions {
		for _, child := range children {
			refreshIDs(child)
		}
	}
}
