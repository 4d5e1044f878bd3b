package blockmark

import (
	"github.com/sparktype-project/sparkblocks/pkg/block"
	"github.com/sparktype-project/sparkblocks/pkg/logger"
	"github.com/sparktype-project/sparkblocks/pkg/manifest"
)

// Codec parses and serializes blockmark text against one manifest registry.
// The registry tells the parser which defaults to fill in and tells the
// serializer which blocks are containers. A Codec is safe for concurrent use;
// it holds no per-call state.
type Codec struct {
	reg *manifest.Registry
	log logger.Logger
}

// Option configures a Codec.
type Option func(*Codec)

// WithLogger routes parse warnings (skipped sections) to l. The default
// discards them.
func WithLogger(l logger.Logger) Option {
	return func(c *Codec) { c.log = l }
}

// NewCodec builds a codec over the given registry.
func NewCodec(reg *manifest.Registry, opts ...Option) *Codec {
	c := &Codec{reg: reg, log: logger.Nop{}}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Parse converts blockmark text into a block tree. It never fails: malformed
// sections are skipped with a warning, and empty input yields an empty,
// non-nil tree.
func (c *Codec) Parse(text string) []*block.Block {
	p := &parser{lines: splitLines(text), reg: c.reg, log: c.log}
	return p.parseBlocks()
}

// Serialize renders a block tree as blockmark text. An empty tree renders as
// "". The only error case is the YAML encoder rejecting a field value; the
// caller must then treat the content as corrupt and not persist the result.
func (c *Codec) Serialize(blocks []*block.Block) (string, error) {
	if len(blocks) == 0 {
		return "", nil
	}
	s := &serializer{reg: c.reg}
	text, err := s.renderBlocks(blocks)
	if err != nil {
		return "", err
	}
	return text + "\n", nil
}

// Marshal renders a block tree with a codec over the built-in core registry.
func Marshal(blocks []*block.Block) (string, error) {
	return NewCodec(manifest.CoreRegistry()).Serialize(blocks)
}

// Unmarshal parses blockmark text with a codec over the built-in core
// registry.
func Unmarshal(text string) []*block.Block {
	return NewCodec(manifest.CoreRegistry()).Parse(text)
}
