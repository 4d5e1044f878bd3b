package tree

import (
	"github.com/sparktype-project/sparkblocks/pkg/block"
	"github.com/sparktype-project/sparkblocks/pkg/manifest"
)

// The demo set: two leaf text types (one splittable, one not), a container
// with two regions declared in non-alphabetical order, and a leaf with a
// required field.
func demoRegistry() *manifest.Registry {
	return manifest.NewRegistry(
		&manifest.Manifest{
			ID:   "demo:text",
			Name: "Text",
			Fields: []manifest.FieldSpec{
				{Name: "text", Type: manifest.FieldText, Default: ""},
			},
			Behavior: manifest.BehaviorSpec{
				Patterns: &manifest.PatternSpec{AutoFormat: true},
			},
		},
		&manifest.Manifest{
			ID:   "demo:plain",
			Name: "Plain",
			Fields: []manifest.FieldSpec{
				{Name: "text", Type: manifest.FieldText, Default: ""},
			},
		},
		&manifest.Manifest{
			ID:   "demo:box",
			Name: "Box",
			Fields: []manifest.FieldSpec{
				{Name: "title", Type: manifest.FieldText, Default: ""},
			},
			Regions: []manifest.RegionSpec{
				{Name: "header"},
				{Name: "body"},
			},
		},
		&manifest.Manifest{
			ID:   "demo:figure",
			Name: "Figure",
			Fields: []manifest.FieldSpec{
				{Name: "src", Type: manifest.FieldText, Required: true},
				{Name: "text", Type: manifest.FieldText, Default: ""},
			},
		},
	)
}

func textBlock(id, text string) *block.Block {
	b := block.New("demo:text")
	b.ID = id
	b.Content["text"] = text
	return b
}

func boxBlock(id string, header, body []*block.Block) *block.Block {
	b := block.New("demo:box")
	b.ID = id
	b.Regions["header"] = header
	b.Regions["body"] = body
	return b
}

// sampleTree is [a, box(header: [b], body: [c, d]), e].
func sampleTree() []*block.Block {
	return []*block.Block{
		textBlock("a", "alpha"),
		boxBlock("box",
			[]*block.Block{textBlock("b", "beta")},
			[]*block.Block{textBlock("c", "gamma"), textBlock("d", "delta")},
		),
		textBlock("e", "epsilon"),
	}
}
