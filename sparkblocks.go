package sparkblocks

import (
	"github.com/sparktype-project/sparkblocks/blockmark"
	"github.com/sparktype-project/sparkblocks/pkg/block"
	"github.com/sparktype-project/sparkblocks/pkg/logger"
	"github.com/sparktype-project/sparkblocks/pkg/manifest"
	"github.com/sparktype-project/sparkblocks/pkg/tree"
)

// Position places a block relative to its target; see [Engine.Insert].
type Position = tree.Position

const (
	Before = tree.Before
	After  = tree.After
	Inside = tree.Inside
)

// Engine binds a manifest registry to a blockmark codec and exposes the block
// operations behind one handle. An Engine is safe for concurrent use.
type Engine struct {
	reg   *manifest.Registry
	codec *blockmark.Codec
	log   logger.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger routes parse warnings and engine diagnostics to l. The default
// discards them.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// New builds an engine over the given registry.
func New(reg *manifest.Registry, opts ...Option) *Engine {
	e := &Engine{reg: reg, log: logger.Nop{}}
	for _, opt := range opts {
		opt(e)
	}
	e.codec = blockmark.NewCodec(reg, blockmark.WithLogger(e.log))
	return e
}

// Default returns an engine over the built-in core block types.
func Default() *Engine {
	return New(manifest.CoreRegistry())
}

// Registry exposes the engine's manifest registry, for callers that manage
// manifests directly.
func (e *Engine) Registry() *manifest.Registry {
	return e.reg
}

// Parse converts blockmark text into a block tree. It never fails; malformed
// sections are skipped with a warning.
func (e *Engine) Parse(text string) []*block.Block {
	return e.codec.Parse(text)
}

// Serialize renders a block tree as blockmark text.
func (e *Engine) Serialize(blocks []*block.Block) (string, error) {
	return e.codec.Serialize(blocks)
}

// CreateBlock builds a block of the given type with manifest defaults
// applied. The second return is false when the type is unknown.
func (e *Engine) CreateBlock(blockType string, content map[string]any) (*block.Block, bool) {
	return e.reg.CreateBlock(blockType, content)
}

// DetectType matches typed text against the registered behavior patterns.
func (e *Engine) DetectType(text string) (*manifest.Detection, bool) {
	return e.reg.DetectType(text)
}

// Validate checks one block against its manifest.
func (e *Engine) Validate(b *block.Block) manifest.ValidationResult {
	return e.reg.Validate(b)
}

// ValidateTree validates every block in the tree, collecting failures per
// block id.
func (e *Engine) ValidateTree(blocks []*block.Block) tree.TreeValidation {
	return tree.ValidateTree(e.reg, blocks)
}

// FindByID locates a block anywhere in the tree, returning it with its path.
func (e *Engine) FindByID(blocks []*block.Block, id string) (*tree.Found, bool) {
	return tree.FindByID(e.reg, blocks, id)
}

// FindParent locates the parent of a block. Root blocks report a nil parent
// block with their root index.
func (e *Engine) FindParent(blocks []*block.Block, id string) (*tree.Parent, bool) {
	return tree.FindParent(e.reg, blocks, id)
}

// FlattenIDs lists every block id in depth-first visit order.
func (e *Engine) FlattenIDs(blocks []*block.Block) []string {
	return tree.FlattenIDs(e.reg, blocks)
}

// Insert places blk relative to the target block and returns the new tree.
// An empty targetID appends at the root. The input tree is never mutated;
// when the target is missing the original tree comes back unchanged.
func (e *Engine) Insert(blocks []*block.Block, blk *block.Block, targetID string, pos Position, region string) []*block.Block {
	return tree.Insert(e.reg, blocks, blk, targetID, pos, region)
}

// Remove deletes the block with the given id, subtree included.
func (e *Engine) Remove(blocks []*block.Block, id string) []*block.Block {
	return tree.Remove(e.reg, blocks, id)
}

// Move relocates a block relative to the target. Moving a block into its own
// subtree is a no-op.
func (e *Engine) Move(blocks []*block.Block, id, targetID string, pos Position, region string) []*block.Block {
	return tree.Move(e.reg, blocks, id, targetID, pos, region)
}

// Duplicate deep-copies the block with the given id, giving every copied
// block a fresh id, and places the copy right after the original.
func (e *Engine) Duplicate(blocks []*block.Block, id string) []*block.Block {
	return tree.Duplicate(e.reg, blocks, id)
}

// Update shallow-merges new content and config values into the block with the
// given id. A nil map leaves that bucket unchanged.
func (e *Engine) Update(blocks []*block.Block, id string, content, config map[string]any) []*block.Block {
	return tree.Update(e.reg, blocks, id, content, config)
}

// Split cuts a text field in two at a rune index, keeping the prefix and
// inserting a new block of the same type holding the suffix. Only types whose
// manifest enables auto-format split.
func (e *Engine) Split(blocks []*block.Block, id string, splitPoint int, field string) []*block.Block {
	return tree.Split(e.reg, blocks, id, splitPoint, field)
}

// Merge appends the second block's text field to the first's and removes the
// second block. Both blocks must exist and share a type.
func (e *Engine) Merge(blocks []*block.Block, firstID, secondID, field string) []*block.Block {
	return tree.Merge(e.reg, blocks, firstID, secondID, field)
}

// ConvertType rebuilds a block as newType, keeping its id and the field
// values both types declare.
func (e *Engine) ConvertType(blocks []*block.Block, id, newType string) []*block.Block {
	return tree.ConvertType(e.reg, blocks, id, newType)
}
