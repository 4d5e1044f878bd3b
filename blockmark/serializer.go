package blockmark

import (
	"fmt"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/sparktype-project/sparkblocks/pkg/block"
	"github.com/sparktype-project/sparkblocks/pkg/manifest"
)

type serializer struct {
	reg *manifest.Registry
}

// renderBlocks joins sibling sections with one blank line.
func (s *serializer) renderBlocks(blocks []*block.Block) (string, error) {
	sections := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b == nil {
			continue
		}
		section, err := s.renderBlock(b)
		if err != nil {
			return "", err
		}
		sections = append(sections, section)
	}
	return strings.Join(sections, "\n\n"), nil
}

func (s *serializer) renderBlock(b *block.Block) (string, error) {
	doc := body{Type: b.Type, ID: b.ID, Content: b.Content, Config: b.Config}
	raw, err := yaml.Marshal(&doc)
	if err != nil {
		return "", fmt.Errorf("encode block %s: %w", b.ID, err)
	}

	regions, container := s.regionPlan(b)
	if !container {
		return fenceContent + "\n" + string(raw) + fenceClose, nil
	}

	var sb strings.Builder
	sb.WriteString(fenceContainer + "\n")
	sb.Write(raw)
	sb.WriteString(fenceClose + "\n")
	for _, name := range regions {
		sb.WriteString(regionPrefix + name + regionSuffix + "\n")
		if children := b.Regions[name]; len(children) > 0 {
			text, err := s.renderBlocks(children)
			if err != nil {
				return "", err
			}
			sb.WriteString(text)
			sb.WriteString("\n")
		}
	}
	sb.WriteString(fenceEnd + "\n" + fenceClose)
	return sb.String(), nil
}

// regionPlan decides whether a block serializes as a container and which
// regions it emits. The manifest is the source of truth: a known type is a
// container exactly when its manifest declares regions, and only declared
// regions are written (stale keys drop out here). Declared-but-empty regions
// still emit their marker so that parse reproduces them. Unknown types use
// the runtime rule: container when some region is non-empty, non-empty
// regions in sorted name order.
func (s *serializer) regionPlan(b *block.Block) ([]string, bool) {
	if s.reg != nil {
		if m, ok := s.reg.Get(b.Type); ok {
			if !m.IsContainer() {
				return nil, false
			}
			return m.RegionNames(), true
		}
	}

	if !b.HasChildren() {
		return nil, false
	}
	names := make([]string, 0, len(b.Regions))
	for name, children := range b.Regions {
		if len(children) > 0 {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	return names, true
}
