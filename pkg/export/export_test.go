package export

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sparktype-project/sparkblocks/pkg/block"
	"github.com/sparktype-project/sparkblocks/pkg/manifest"
)

func leaf(blockType string, content map[string]any, config map[string]any) *block.Block {
	return &block.Block{
		ID:      block.NewID(),
		Type:    blockType,
		Content: content,
		Config:  config,
	}
}

func TestMarkdown_leafTypes(t *testing.T) {
	reg := manifest.CoreRegistry()

	cases := []struct {
		name string
		b    *block.Block
		want string
	}{
		{
			"paragraph",
			leaf("core:paragraph", map[string]any{"text": "plain words"}, nil),
			"plain words",
		},
		{
			"heading at level",
			leaf("core:heading", map[string]any{"text": "Prices"}, map[string]any{"level": 3}),
			"### Prices",
		},
		{
			"heading without level falls back",
			leaf("core:heading", map[string]any{"text": "Prices"}, nil),
			"## Prices",
		},
		{
			"heading with out of range level falls back",
			leaf("core:heading", map[string]any{"text": "Prices"}, map[string]any{"level": 9}),
			"## Prices",
		},
		{
			"quote",
			leaf("core:quote", map[string]any{"text": "stay hungry"}, nil),
			"> stay hungry",
		},
		{
			"quote with attribution",
			leaf("core:quote", map[string]any{"text": "stay hungry", "attribution": "Jobs"}, nil),
			"> stay hungry\n>\n> — Jobs",
		},
		{
			"multiline quote",
			leaf("core:quote", map[string]any{"text": "first\nsecond"}, nil),
			"> first\n> second",
		},
		{
			"code with language",
			leaf("core:code", map[string]any{"code": "x := 1"}, map[string]any{"language": "go"}),
			"```go\nx := 1\n```",
		},
		{
			"code without language",
			leaf("core:code", map[string]any{"code": "make build"}, nil),
			"```\nmake build\n```",
		},
		{
			"unordered list",
			leaf("core:list", map[string]any{"items": []any{"milk", "eggs"}}, nil),
			"- milk\n- eggs",
		},
		{
			"ordered list",
			leaf("core:list", map[string]any{"items": []any{"first", "second"}}, map[string]any{"ordered": true}),
			"1. first\n2. second",
		},
		{
			"image",
			leaf("core:image", map[string]any{"src": "/a.png", "alt": "chart"}, nil),
			"![chart](/a.png)",
		},
		{
			"image with caption",
			leaf("core:image", map[string]any{"src": "/a.png", "alt": "chart", "caption": "Q3"}, nil),
			"![chart](/a.png)\n*Q3*",
		},
		{
			"divider",
			leaf("core:divider", nil, nil),
			"---",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, Markdown(reg, []*block.Block{tc.b}))
		})
	}
}

func TestMarkdown_document(t *testing.T) {
	reg := manifest.CoreRegistry()

	t.Run("siblings joined by a blank line", func(t *testing.T) {
		got := Markdown(reg, []*block.Block{
			leaf("core:heading", map[string]any{"text": "Title"}, nil),
			leaf("core:paragraph", map[string]any{"text": "Body."}, nil),
		})
		assert.Equal(t, "## Title\n\nBody.", got)
	})

	t.Run("empty blocks drop out", func(t *testing.T) {
		got := Markdown(reg, []*block.Block{
			leaf("core:paragraph", map[string]any{"text": ""}, nil),
			leaf("core:paragraph", map[string]any{"text": "kept"}, nil),
			nil,
		})
		assert.Equal(t, "kept", got)
	})

	t.Run("empty tree", func(t *testing.T) {
		assert.Equal(t, "", Markdown(reg, nil))
	})
}

func TestMarkdown_containers(t *testing.T) {
	reg := manifest.CoreRegistry()

	t.Run("section flattens to its region", func(t *testing.T) {
		sec := &block.Block{
			ID:   "s1",
			Type: "core:section",
			Regions: map[string][]*block.Block{
				"main": {
					leaf("core:heading", map[string]any{"text": "Hero"}, nil),
					leaf("core:paragraph", map[string]any{"text": "tagline"}, nil),
				},
			},
		}
		assert.Equal(t, "## Hero\n\ntagline", Markdown(reg, []*block.Block{sec}))
	})

	t.Run("columns render left before right", func(t *testing.T) {
		cols := &block.Block{
			ID:   "c1",
			Type: "core:columns",
			Regions: map[string][]*block.Block{
				"right": {leaf("core:paragraph", map[string]any{"text": "second"}, nil)},
				"left":  {leaf("core:paragraph", map[string]any{"text": "first"}, nil)},
			},
		}
		assert.Equal(t, "first\n\nsecond", Markdown(reg, []*block.Block{cols}))
	})

	t.Run("nested sections", func(t *testing.T) {
		inner := &block.Block{
			ID:   "inner",
			Type: "core:section",
			Regions: map[string][]*block.Block{
				"main": {leaf("core:paragraph", map[string]any{"text": "deep"}, nil)},
			},
		}
		outer := &block.Block{
			ID:      "outer",
			Type:    "core:section",
			Regions: map[string][]*block.Block{"main": {inner}},
		}
		assert.Equal(t, "deep", Markdown(reg, []*block.Block{outer}))
	})

	t.Run("empty container renders nothing", func(t *testing.T) {
		sec := &block.Block{ID: "s1", Type: "core:section", Regions: map[string][]*block.Block{"main": {}}}
		assert.Equal(t, "", Markdown(reg, []*block.Block{sec}))
	})
}

func TestMarkdown_fallbacks(t *testing.T) {
	t.Run("collection view renders its title", func(t *testing.T) {
		reg := manifest.CoreRegistry()
		view := leaf("core:collection-view", map[string]any{"title": "Latest posts"}, nil)
		assert.Equal(t, "Latest posts", Markdown(reg, []*block.Block{view}))
	})

	t.Run("first declared text field wins", func(t *testing.T) {
		reg := manifest.NewRegistry(&manifest.Manifest{
			ID:   "site:callout",
			Name: "Callout",
			Fields: []manifest.FieldSpec{
				{Name: "icon", Type: manifest.FieldSelect, Options: []string{"info", "warn"}},
				{Name: "note", Type: manifest.FieldText},
			},
		})
		b := leaf("site:callout", map[string]any{"icon": "info", "note": "heads up"}, nil)
		assert.Equal(t, "heads up", Markdown(reg, []*block.Block{b}))
	})

	t.Run("unknown type uses first string value in key order", func(t *testing.T) {
		reg := manifest.CoreRegistry()
		b := leaf("site:mystery", map[string]any{"zeta": "later", "alpha": "sooner"}, nil)
		assert.Equal(t, "sooner", Markdown(reg, []*block.Block{b}))
	})

	t.Run("nothing text like renders empty", func(t *testing.T) {
		reg := manifest.CoreRegistry()
		b := leaf("site:counter", map[string]any{"count": 4}, nil)
		assert.Equal(t, "", Markdown(reg, []*block.Block{b}))
	})
}

func TestHTML(t *testing.T) {
	reg := manifest.CoreRegistry()

	t.Run("headings carry generated ids", func(t *testing.T) {
		out, err := HTML(reg, []*block.Block{
			leaf("core:heading", map[string]any{"text": "Prices"}, nil),
		})
		require.NoError(t, err)
		assert.Contains(t, out, `<h2 id="prices">Prices</h2>`)
	})

	t.Run("hard wraps inside paragraphs", func(t *testing.T) {
		out, err := HTML(reg, []*block.Block{
			leaf("core:paragraph", map[string]any{"text": "one\ntwo"}, nil),
		})
		require.NoError(t, err)
		assert.Contains(t, out, "one<br>\ntwo")
	})

	t.Run("gfm strikethrough", func(t *testing.T) {
		out, err := HTML(reg, []*block.Block{
			leaf("core:paragraph", map[string]any{"text": "~~old~~ new"}, nil),
		})
		require.NoError(t, err)
		assert.Contains(t, out, "<del>old</del>")
	})

	t.Run("lists become markup", func(t *testing.T) {
		out, err := HTML(reg, []*block.Block{
			leaf("core:list", map[string]any{"items": []any{"milk"}}, nil),
		})
		require.NoError(t, err)
		assert.Contains(t, out, "<ul>")
		assert.Contains(t, out, "<li>milk</li>")
	})
}
