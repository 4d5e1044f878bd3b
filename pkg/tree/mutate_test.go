package tree

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparktype-project/sparkblocks/pkg/block"
)

func TestInsert(t *testing.T) {
	reg := demoRegistry()

	t.Run("empty target appends at root", func(t *testing.T) {
		out := Insert(reg, sampleTree(), textBlock("x", "new"), "", After, "")
		assert.Equal(t, []string{"a", "box", "b", "c", "d", "e", "x"}, FlattenIDs(reg, out))
	})

	t.Run("before a root block", func(t *testing.T) {
		out := Insert(reg, sampleTree(), textBlock("x", "new"), "a", Before, "")
		assert.Equal(t, []string{"x", "a", "box", "b", "c", "d", "e"}, FlattenIDs(reg, out))
	})

	t.Run("after a nested block", func(t *testing.T) {
		out := Insert(reg, sampleTree(), textBlock("x", "new"), "c", After, "")

		found, ok := FindByID(reg, out, "x")
		require.True(t, ok)
		assert.Equal(t, []Step{{Index: 1}, {Region: "body", Index: 1}}, found.Path)
	})

	t.Run("inside appends to the region", func(t *testing.T) {
		out := Insert(reg, sampleTree(), textBlock("x", "new"), "box", Inside, "body")

		found, ok := FindByID(reg, out, "x")
		require.True(t, ok)
		assert.Equal(t, []Step{{Index: 1}, {Region: "body", Index: 2}}, found.Path)
	})

	t.Run("inside creates a missing region", func(t *testing.T) {
		out := Insert(reg, sampleTree(), textBlock("x", "new"), "a", Inside, "notes")

		a, _ := FindByID(reg, out, "a")
		require.Contains(t, a.Block.Regions, "notes")
		assert.Equal(t, "x", a.Block.Regions["notes"][0].ID)
	})

	t.Run("missing target leaves the tree unchanged", func(t *testing.T) {
		tr := sampleTree()
		out := Insert(reg, tr, textBlock("x", "new"), "nope", After, "")
		assert.Equal(t, tr, out)
	})

	t.Run("nil block is a no-op", func(t *testing.T) {
		tr := sampleTree()
		assert.Equal(t, tr, Insert(reg, tr, nil, "", After, ""))
	})

	t.Run("input tree is never mutated", func(t *testing.T) {
		tr := sampleTree()
		snapshot := block.CloneTree(tr)

		Insert(reg, tr, textBlock("x", "new"), "c", Before, "")
		assert.Equal(t, snapshot, tr)
	})

	t.Run("the tree holds a copy of the inserted block", func(t *testing.T) {
		blk := textBlock("x", "original")
		out := Insert(reg, sampleTree(), blk, "", After, "")

		blk.Content["text"] = "mutated afterwards"
		found, _ := FindByID(reg, out, "x")
		assert.Equal(t, "original", found.Block.Content["text"])
	})
}

func TestRemove(t *testing.T) {
	reg := demoRegistry()

	t.Run("root block and its subtree", func(t *testing.T) {
		out := Remove(reg, sampleTree(), "box")
		assert.Equal(t, []string{"a", "e"}, FlattenIDs(reg, out))
	})

	t.Run("nested block keeps the emptied region key", func(t *testing.T) {
		out := Remove(reg, Remove(reg, sampleTree(), "c"), "d")

		box, _ := FindByID(reg, out, "box")
		require.Contains(t, box.Block.Regions, "body")
		assert.Empty(t, box.Block.Regions["body"])
	})

	t.Run("missing id leaves the tree unchanged", func(t *testing.T) {
		tr := sampleTree()
		assert.Equal(t, tr, Remove(reg, tr, "nope"))
	})

	t.Run("input tree is never mutated", func(t *testing.T) {
		tr := sampleTree()
		snapshot := block.CloneTree(tr)

		Remove(reg, tr, "box")
		assert.Equal(t, snapshot, tr)
	})
}

func TestInsertRemove_inverse(t *testing.T) {
	// Inserting a block and removing it again restores the original tree.
	reg := demoRegistry()
	tr := sampleTree()

	out := Insert(reg, tr, textBlock("x", "temp"), "c", After, "")
	require.NotEqual(t, FlattenIDs(reg, tr), FlattenIDs(reg, out))

	back := Remove(reg, out, "x")
	assert.Equal(t, tr, back)
}

func TestMove(t *testing.T) {
	reg := demoRegistry()

	t.Run("reorders root blocks", func(t *testing.T) {
		out := Move(reg, sampleTree(), "e", "a", Before, "")
		assert.Equal(t, []string{"e", "a", "box", "b", "c", "d"}, FlattenIDs(reg, out))
	})

	t.Run("moves a root block into a region", func(t *testing.T) {
		out := Move(reg, sampleTree(), "a", "box", Inside, "header")
		assert.Equal(t, []string{"box", "b", "a", "c", "d", "e"}, FlattenIDs(reg, out))
	})

	t.Run("moves a nested block to the root", func(t *testing.T) {
		out := Move(reg, sampleTree(), "c", "", After, "")
		assert.Equal(t, []string{"a", "box", "b", "d", "e", "c"}, FlattenIDs(reg, out))
	})

	t.Run("subtree moves intact", func(t *testing.T) {
		out := Move(reg, sampleTree(), "box", "e", After, "")
		assert.Equal(t, []string{"a", "e", "box", "b", "c", "d"}, FlattenIDs(reg, out))
	})

	t.Run("moving into itself is a no-op", func(t *testing.T) {
		tr := sampleTree()
		assert.Equal(t, tr, Move(reg, tr, "box", "box", Inside, "body"))
	})

	t.Run("moving into its own subtree is a no-op", func(t *testing.T) {
		tr := sampleTree()
		assert.Equal(t, tr, Move(reg, tr, "box", "c", Before, ""))
		assert.Equal(t, tr, Move(reg, tr, "box", "b", Inside, "notes"))
	})

	t.Run("missing id or target is a no-op", func(t *testing.T) {
		tr := sampleTree()
		assert.Equal(t, tr, Move(reg, tr, "nope", "a", Before, ""))
		assert.Equal(t, tr, Move(reg, tr, "a", "nope", Before, ""))
	})
}

func TestDuplicate(t *testing.T) {
	reg := demoRegistry()

	t.Run("copy lands right after the original", func(t *testing.T) {
		out := Duplicate(reg, sampleTree(), "a")

		require.Len(t, out, 4)
		assert.Equal(t, "a", out[0].ID)
		assert.Equal(t, "demo:text", out[1].Type)
		assert.Equal(t, "alpha", out[1].Content["text"])
		assert.NotEqual(t, "a", out[1].ID)
	})

	t.Run("every id in the copied subtree is fresh", func(t *testing.T) {
		tr := sampleTree()
		out := Duplicate(reg, tr, "box")

		originals := map[string]bool{}
		for _, id := range FlattenIDs(reg, tr) {
			originals[id] = true
		}

		copyRoot := out[2]
		assert.Equal(t, "demo:box", copyRoot.Type)
		for _, id := range FlattenIDs(reg, []*block.Block{copyRoot}) {
			assert.False(t, originals[id], "id %s should have been reassigned", id)
		}
	})

	t.Run("copied subtree matches the original shape", func(t *testing.T) {
		out := Duplicate(reg, sampleTree(), "box")

		copyRoot := out[2]
		require.Len(t, copyRoot.Regions["body"], 2)
		assert.Equal(t, "gamma", copyRoot.Regions["body"][0].Content["text"])
	})

	t.Run("missing id is a no-op", func(t *testing.T) {
		tr := sampleTree()
		assert.Equal(t, tr, Duplicate(reg, tr, "nope"))
	})
}
