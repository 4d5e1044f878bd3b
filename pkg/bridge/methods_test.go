package bridge_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparktype-project/sparkblocks"
	"github.com/sparktype-project/sparkblocks/pkg/block"
	"github.com/sparktype-project/sparkblocks/pkg/bridge"
	"github.com/sparktype-project/sparkblocks/pkg/manifest"
)

func TestMethods_createBlock(t *testing.T) {
	conn := dial(t, bridge.NewServer(sparkblocks.Default()))

	t.Run("content merges over defaults", func(t *testing.T) {
		res := resultAs[blockResult](t, call(t, conn, "createBlock", map[string]any{
			"type":    "core:paragraph",
			"content": map[string]any{"text": "hello"},
		}))
		require.NotNil(t, res.Block)
		assert.True(t, strings.HasPrefix(res.Block.ID, "blk_"))
		assert.Equal(t, "core:paragraph", res.Block.Type)
		assert.Equal(t, "hello", res.Block.Content["text"])
	})

	t.Run("config defaults apply", func(t *testing.T) {
		res := resultAs[blockResult](t, call(t, conn, "createBlock", map[string]any{
			"type": "core:heading",
		}))
		assert.EqualValues(t, 2, res.Block.Config["level"])
	})
}

func TestMethods_validate(t *testing.T) {
	conn := dial(t, bridge.NewServer(sparkblocks.Default()))

	t.Run("validateBlock reports missing fields", func(t *testing.T) {
		res := resultAs[manifest.ValidationResult](t, call(t, conn, "validateBlock", map[string]any{
			"block": map[string]any{"id": "i1", "type": "core:image", "content": map[string]any{}},
		}))
		assert.False(t, res.Valid)
		require.NotEmpty(t, res.Errors)
		assert.Contains(t, res.Errors[0], "src")
	})

	t.Run("validateTree pins failures to block ids", func(t *testing.T) {
		resp := call(t, conn, "validateTree", map[string]any{
			"blocks": []map[string]any{
				{"id": "p1", "type": "core:paragraph", "content": map[string]any{"text": "ok"}},
				{"id": "i1", "type": "core:image", "content": map[string]any{}},
			},
		})
		res := resultAs[struct {
			Valid  bool `json:"valid"`
			Errors []struct {
				BlockID string   `json:"blockId"`
				Errors  []string `json:"errors"`
			} `json:"errors"`
		}](t, resp)
		assert.False(t, res.Valid)
		require.Len(t, res.Errors, 1)
		assert.Equal(t, "i1", res.Errors[0].BlockID)
	})
}

func TestMethods_treeEditing(t *testing.T) {
	conn := dial(t, bridge.NewServer(sparkblocks.Default()))

	para := resultAs[blockResult](t, call(t, conn, "createBlock", map[string]any{
		"type":    "core:paragraph",
		"content": map[string]any{"text": "hello"},
	})).Block
	sec := resultAs[blockResult](t, call(t, conn, "createBlock", map[string]any{
		"type": "core:section",
	})).Block

	var blocks []*block.Block

	t.Run("insert appends at the root", func(t *testing.T) {
		blocks = resultAs[treeResult](t, call(t, conn, "insert", map[string]any{
			"blocks": blocks, "block": para,
		})).Blocks
		blocks = resultAs[treeResult](t, call(t, conn, "insert", map[string]any{
			"blocks": blocks, "block": sec,
		})).Blocks
		require.Len(t, blocks, 2)
		assert.Equal(t, para.ID, blocks[0].ID)
		assert.Equal(t, sec.ID, blocks[1].ID)
	})

	t.Run("move nests into a region", func(t *testing.T) {
		blocks = resultAs[treeResult](t, call(t, conn, "move", map[string]any{
			"blocks": blocks, "id": para.ID, "targetId": sec.ID,
			"position": "inside", "region": "main",
		})).Blocks
		require.Len(t, blocks, 1)

		ids := resultAs[idsResult](t, call(t, conn, "flattenIds", map[string]any{"blocks": blocks}))
		assert.Equal(t, []string{sec.ID, para.ID}, ids.IDs)
	})

	t.Run("update reaches nested blocks", func(t *testing.T) {
		blocks = resultAs[treeResult](t, call(t, conn, "update", map[string]any{
			"blocks": blocks, "id": para.ID,
			"content": map[string]any{"text": "edited"},
		})).Blocks
		assert.Equal(t, "edited", blocks[0].Regions["main"][0].Content["text"])
	})

	t.Run("duplicate re-ids the whole subtree", func(t *testing.T) {
		out := resultAs[treeResult](t, call(t, conn, "duplicate", map[string]any{
			"blocks": blocks, "id": sec.ID,
		})).Blocks
		require.Len(t, out, 2)
		assert.NotEqual(t, sec.ID, out[1].ID)
		require.Len(t, out[1].Regions["main"], 1)
		assert.NotEqual(t, para.ID, out[1].Regions["main"][0].ID)
	})

	t.Run("remove drops the subtree", func(t *testing.T) {
		out := resultAs[treeResult](t, call(t, conn, "remove", map[string]any{
			"blocks": blocks, "id": sec.ID,
		})).Blocks
		assert.Empty(t, out)
	})
}

func TestMethods_textEditing(t *testing.T) {
	conn := dial(t, bridge.NewServer(sparkblocks.Default()))

	para := resultAs[blockResult](t, call(t, conn, "createBlock", map[string]any{
		"type":    "core:paragraph",
		"content": map[string]any{"text": "HelloWorld"},
	})).Block
	blocks := resultAs[treeResult](t, call(t, conn, "insert", map[string]any{
		"blocks": []*block.Block{}, "block": para,
	})).Blocks

	t.Run("split", func(t *testing.T) {
		blocks = resultAs[treeResult](t, call(t, conn, "split", map[string]any{
			"blocks": blocks, "id": para.ID, "splitPoint": 5,
		})).Blocks
		require.Len(t, blocks, 2)
		assert.Equal(t, "Hello", blocks[0].Content["text"])
		assert.Equal(t, "World", blocks[1].Content["text"])
		assert.NotEqual(t, blocks[0].ID, blocks[1].ID)
	})

	t.Run("merge", func(t *testing.T) {
		blocks = resultAs[treeResult](t, call(t, conn, "merge", map[string]any{
			"blocks": blocks, "firstId": blocks[0].ID, "secondId": blocks[1].ID,
		})).Blocks
		require.Len(t, blocks, 1)
		assert.Equal(t, "HelloWorld", blocks[0].Content["text"])
	})

	t.Run("convertType", func(t *testing.T) {
		blocks = resultAs[treeResult](t, call(t, conn, "convertType", map[string]any{
			"blocks": blocks, "id": blocks[0].ID, "newType": "core:heading",
		})).Blocks
		assert.Equal(t, "core:heading", blocks[0].Type)
		assert.Equal(t, "HelloWorld", blocks[0].Content["text"])
		assert.EqualValues(t, 2, blocks[0].Config["level"])
	})
}

func TestMethods_lookup(t *testing.T) {
	conn := dial(t, bridge.NewServer(sparkblocks.Default()))
	doc := "```block:container\ntype: core:section\nid: s1\n```\n" +
		"---region:main---\n" +
		"```block:content\ntype: core:paragraph\nid: p1\ncontent:\n    text: hi\n```\n" +
		"```block:end\n```\n"
	blocks := resultAs[treeResult](t, call(t, conn, "parse", map[string]any{"text": doc})).Blocks
	require.Len(t, blocks, 1)

	t.Run("findById returns the path", func(t *testing.T) {
		res := resultAs[findResult](t, call(t, conn, "findById", map[string]any{
			"blocks": blocks, "id": "p1",
		}))
		require.True(t, res.Found)
		assert.Equal(t, "p1", res.Block.ID)
		require.Len(t, res.Path, 2)
		assert.Equal(t, "main", res.Path[1].Region)
	})

	t.Run("findById miss", func(t *testing.T) {
		res := resultAs[findResult](t, call(t, conn, "findById", map[string]any{
			"blocks": blocks, "id": "ghost",
		}))
		assert.False(t, res.Found)
		assert.Nil(t, res.Block)
	})

	t.Run("findParent names the region", func(t *testing.T) {
		res := resultAs[parentResult](t, call(t, conn, "findParent", map[string]any{
			"blocks": blocks, "id": "p1",
		}))
		require.True(t, res.Found)
		assert.Equal(t, "s1", res.Parent.ID)
		assert.Equal(t, "main", res.Region)
		assert.Equal(t, 0, res.Index)
	})

	t.Run("findParent at the root has no parent block", func(t *testing.T) {
		res := resultAs[parentResult](t, call(t, conn, "findParent", map[string]any{
			"blocks": blocks, "id": "s1",
		}))
		require.True(t, res.Found)
		assert.Nil(t, res.Parent)
		assert.Equal(t, "", res.Region)
		assert.Equal(t, 0, res.Index)
	})

	t.Run("detectType", func(t *testing.T) {
		res := resultAs[detectResult](t, call(t, conn, "detectType", map[string]any{"text": "## Prices"}))
		require.True(t, res.Found)
		assert.Equal(t, "core:heading", res.Type)

		miss := resultAs[detectResult](t, call(t, conn, "detectType", map[string]any{"text": "plain words"}))
		assert.False(t, miss.Found)
	})

	t.Run("listManifests", func(t *testing.T) {
		res := resultAs[manifestsResult](t, call(t, conn, "listManifests", nil))
		ids := make([]string, 0, len(res.Manifests))
		for _, m := range res.Manifests {
			ids = append(ids, m.ID)
		}
		assert.Contains(t, ids, "core:paragraph")
		assert.Contains(t, ids, "core:section")
	})
}
