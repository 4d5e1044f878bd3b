package tree

import (
	"sort"

	"github.com/sparktype-project/sparkblocks/pkg/block"
	"github.com/sparktype-project/sparkblocks/pkg/manifest"
)

// Update shallow-merges values into the block's content and config buckets.
// A nil map leaves that bucket untouched; regions are never modified here.
func Update(reg *manifest.Registry, tree []*block.Block, id string, content, config map[string]any) []*block.Block {
	out := block.CloneTree(tree)
	found, ok := FindByID(reg, out, id)
	if !ok {
		return tree
	}

	b := found.Block
	if content != nil {
		if b.Content == nil {
			b.Content = make(map[string]any, len(content))
		}
		for k, v := range content {
			b.Content[k] = block.Normalize(v)
		}
	}
	if config != nil {
		if b.Config == nil {
			b.Config = make(map[string]any, len(config))
		}
		for k, v := range config {
			b.Config[k] = block.Normalize(v)
		}
	}
	return out
}

// Split cuts a string field at a rune index: the original keeps the prefix
// and a fresh block of the same type (manifest defaults, new id) carries the
// suffix, inserted immediately after. Only types whose manifest opts into
// autoFormat split; field defaults to "text" and splitPoint is clamped to
// [0, rune length]. Anything else is a no-op.
func Split(reg *manifest.Registry, tree []*block.Block, id string, splitPoint int, field string) []*block.Block {
	if reg == nil {
		return tree
	}
	if field == "" {
		field = "text"
	}

	found, ok := FindByID(reg, tree, id)
	if !ok {
		return tree
	}
	m, ok := reg.Get(found.Block.Type)
	if !ok || !m.AutoFormat() {
		return tree
	}
	text, ok := found.Block.Content[field].(string)
	if !ok {
		return tree
	}

	runes := []rune(text)
	at := splitPoint
	if at < 0 {
		at = 0
	}
	if at > len(runes) {
		at = len(runes)
	}

	out := block.CloneTree(tree)
	head, _ := FindByID(reg, out, id)
	head.Block.Content[field] = string(runes[:at])

	rest, ok := reg.CreateBlock(found.Block.Type, map[string]any{field: string(runes[at:])})
	if !ok {
		return tree
	}
	return Insert(reg, out, rest, id, After, "")
}

// Merge joins two blocks of the same type: the first keeps its field text
// plus the second's, and the second block (subtree included) is removed.
// Non-string field values read as "". Different types, a missing id or
// identical ids leave the tree unchanged.
func Merge(reg *manifest.Registry, tree []*block.Block, firstID, secondID, field string) []*block.Block {
	if firstID == secondID {
		return tree
	}
	if field == "" {
		field = "text"
	}

	first, ok := FindByID(reg, tree, firstID)
	if !ok {
		return tree
	}
	second, ok := FindByID(reg, tree, secondID)
	if !ok {
		return tree
	}
	if first.Block.Type != second.Block.Type {
		return tree
	}

	out := block.CloneTree(tree)
	target, _ := FindByID(reg, out, firstID)
	if target.Block.Content == nil {
		target.Block.Content = map[string]any{}
	}
	target.Block.Content[field] = stringField(first.Block, field) + stringField(second.Block, field)
	return Remove(reg, out, secondID)
}

func stringField(b *block.Block, field string) string {
	s, _ := b.Content[field].(string)
	return s
}

// ConvertType rebuilds the block as newType in place: same id, content fields
// shared by both field sets carried over, everything else (config, regions,
// the old subtree) restarting from the new manifest's defaults. The old field
// set is the old manifest's fields when the registry knows the old type, or
// the block's own content keys when it does not. An unknown newType or a
// missing id leaves the tree unchanged.
func ConvertType(reg *manifest.Registry, tree []*block.Block, id, newType string) []*block.Block {
	if reg == nil {
		return tree
	}
	newM, ok := reg.Get(newType)
	if !ok {
		return tree
	}

	out := block.CloneTree(tree)
	found, ok := FindByID(reg, out, id)
	if !ok {
		return tree
	}
	old := found.Block

	fresh, _ := reg.CreateBlock(newType, nil)
	fresh.ID = old.ID
	for _, name := range sharedFields(reg, old, newM) {
		if v, present := old.Content[name]; present {
			fresh.Content[name] = v
		}
	}

	replaceIn(reg, out, id, fresh)
	return out
}

func sharedFields(reg *manifest.Registry, old *block.Block, newM *manifest.Manifest) []string {
	var oldNames []string
	if m, ok := reg.Get(old.Type); ok {
		for i := range m.Fields {
			oldNames = append(oldNames, m.Fields[i].Name)
		}
	} else {
		for name := range old.Content {
			oldNames = append(oldNames, name)
		}
		sort.Strings(oldNames)
	}

	shared := make([]string, 0, len(oldNames))
	for _, name := range oldNames {
		if _, ok := newM.Field(name); ok {
			shared = append(shared, name)
		}
	}
	return shared
}

func replaceIn(reg *manifest.Registry, list []*block.Block, id string, repl *block.Block) bool {
	for i, b := range list {
		if b.ID == id {
			list[i] = repl
			return true
		}
	}
	for _, b := range list {
		for _, name := range regionOrder(reg, b) {
			if replaceIn(reg, b.Regions[name], id, repl) {
				return true
			}
		}
	}
	return false
}
