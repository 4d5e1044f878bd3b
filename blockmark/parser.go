package blockmark

import (
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sparktype-project/sparkblocks/pkg/block"
	"github.com/sparktype-project/sparkblocks/pkg/logger"
	"github.com/sparktype-project/sparkblocks/pkg/manifest"
)

// parser walks the input line by line. pos always sits on the next unread
// line; every parse method leaves it past what it consumed so that a failed
// section cannot stall the loop.
type parser struct {
	lines []string
	pos   int
	reg   *manifest.Registry
	log   logger.Logger
}

func (p *parser) parseBlocks() []*block.Block {
	blocks := make([]*block.Block, 0)
	for p.pos < len(p.lines) {
		kind := classify(p.lines[p.pos])
		if kind != lineContent && kind != lineContainer {
			p.pos++
			continue
		}
		if b, ok := p.parseSection(kind == lineContainer); ok {
			blocks = append(blocks, b)
		}
	}
	return blocks
}

// parseSection consumes one fenced section starting at the opener under pos.
// A malformed body skips just the fence; any nested sections that follow are
// then picked up by the main loop, which keeps as much content as possible.
func (p *parser) parseSection(container bool) (*block.Block, bool) {
	start := p.pos
	p.pos++

	b, ok := p.decodeBody(p.collectBody(), start)
	if !ok {
		return nil, false
	}
	if container {
		p.parseRegions(b)
	}
	return b, true
}

// collectBody gathers body lines up to the closing fence. A foreign token
// before the close means the body was left unterminated; the token is not
// consumed so the caller's loop sees it next.
func (p *parser) collectBody() []string {
	var lines []string
	for p.pos < len(p.lines) {
		switch classify(p.lines[p.pos]) {
		case lineClose:
			p.pos++
			return lines
		case lineText:
			lines = append(lines, p.lines[p.pos])
			p.pos++
		default:
			return lines
		}
	}
	return lines
}

func (p *parser) decodeBody(lines []string, start int) (*block.Block, bool) {
	var doc body
	if err := yaml.Unmarshal([]byte(strings.Join(lines, "\n")), &doc); err != nil {
		p.log.Warn("skipping unparsable block section", "line", start+1, "err", err)
		return nil, false
	}
	if doc.Type == "" {
		p.log.Warn("skipping block section without a type", "line", start+1)
		return nil, false
	}

	b := &block.Block{
		ID:      doc.ID,
		Type:    doc.Type,
		Content: block.NormalizeMap(doc.Content),
		Config:  block.NormalizeMap(doc.Config),
		Regions: map[string][]*block.Block{},
	}
	if b.ID == "" {
		b.ID = block.NewID()
	}
	p.applyDefaults(b)
	return b, true
}

// applyDefaults fills manifest-declared fields that the body left out, the
// same priority CreateBlock uses. Unknown types parse as-is.
func (p *parser) applyDefaults(b *block.Block) {
	if p.reg == nil {
		return
	}
	m, ok := p.reg.Get(b.Type)
	if !ok {
		return
	}
	for i := range m.Fields {
		f := &m.Fields[i]
		if _, present := b.Content[f.Name]; !present {
			b.Content[f.Name] = f.DefaultValue()
		}
	}
	for i := range m.Config {
		f := &m.Config[i]
		if _, present := b.Config[f.Name]; !present {
			b.Config[f.Name] = f.DefaultValue()
		}
	}
}

// parseRegions consumes everything between a container's body fence and its
// matching terminator. Nested containers are tracked by depth so their
// terminators pass through as region text; region markers count only at
// depth 0. Text ahead of the first marker has no region to live in and is
// dropped. At EOF without a terminator the remainder belongs to the last
// opened region.
func (p *parser) parseRegions(b *block.Block) {
	depth := 0
	name := ""
	var section []string

	flush := func() {
		if name == "" {
			section = nil
			return
		}
		sub := &parser{lines: section, reg: p.reg, log: p.log}
		b.Regions[name] = append(b.Regions[name], sub.parseBlocks()...)
		section = nil
	}

	for p.pos < len(p.lines) {
		line := p.lines[p.pos]
		switch classify(line) {
		case lineContainer:
			depth++
			section = append(section, line)
		case lineEnd:
			if depth == 0 {
				flush()
				p.pos++
				if p.pos < len(p.lines) && classify(p.lines[p.pos]) == lineClose {
					p.pos++
				}
				return
			}
			depth--
			section = append(section, line)
		case lineRegion:
			if depth == 0 {
				flush()
				name = regionName(line)
				if _, exists := b.Regions[name]; !exists {
					b.Regions[name] = make([]*block.Block, 0)
				}
			} else {
				section = append(section, line)
			}
		default:
			section = append(section, line)
		}
		p.pos++
	}
	flush()
}
