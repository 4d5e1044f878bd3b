// Package export flattens block trees into publishable markdown and HTML.
// Layout concerns (section widths, column splits) are the site generator's
// job; export keeps the content and drops the chrome.
package export

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"

	"github.com/sparktype-project/sparkblocks/pkg/block"
	"github.com/sparktype-project/sparkblocks/pkg/manifest"
)

// Markdown renders a block tree as plain markdown. Core leaf types map onto
// their markdown forms, containers flatten to their regions in declared
// order, and anything else falls back to its first text field.
func Markdown(reg *manifest.Registry, blocks []*block.Block) string {
	r := renderer{reg: reg}
	return r.blocks(blocks)
}

// HTML converts the markdown rendering with goldmark: GFM, auto heading ids,
// hard line breaks.
func HTML(reg *manifest.Registry, blocks []*block.Block) (string, error) {
	var buf bytes.Buffer
	if err := md.Convert([]byte(Markdown(reg, blocks)), &buf); err != nil {
		return "", fmt.Errorf("export: render html: %w", err)
	}
	return buf.String(), nil
}

// md is stateless after construction and safe for concurrent Convert calls.
var md = goldmark.New(
	goldmark.WithExtensions(extension.GFM),
	goldmark.WithParserOptions(parser.WithAutoHeadingID()),
	goldmark.WithRendererOptions(html.WithHardWraps()),
)

type renderer struct {
	reg *manifest.Registry
}

func (r renderer) blocks(blocks []*block.Block) string {
	parts := make([]string, 0, len(blocks))
	for _, b := range blocks {
		if b == nil {
			continue
		}
		if s := r.block(b); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

func (r renderer) block(b *block.Block) string {
	switch b.Type {
	case "core:paragraph":
		return stringValue(b, "text")
	case "core:heading":
		return r.heading(b)
	case "core:quote":
		return r.quote(b)
	case "core:code":
		return r.code(b)
	case "core:list":
		return r.list(b)
	case "core:image":
		return r.image(b)
	case "core:divider":
		return "---"
	}

	if out := r.regions(b); out != "" {
		return out
	}
	return r.textish(b)
}

func (r renderer) heading(b *block.Block) string {
	level := 2
	if n, ok := b.Config["level"].(int); ok && n >= 1 && n <= 6 {
		level = n
	}
	return strings.Repeat("#", level) + " " + stringValue(b, "text")
}

func (r renderer) quote(b *block.Block) string {
	var sb strings.Builder
	for i, line := range strings.Split(stringValue(b, "text"), "\n") {
		if i > 0 {
			sb.WriteString("\n")
		}
		sb.WriteString("> ")
		sb.WriteString(line)
	}
	if attr := stringValue(b, "attribution"); attr != "" {
		sb.WriteString("\n>\n> — ")
		sb.WriteString(attr)
	}
	return sb.String()
}

func (r renderer) code(b *block.Block) string {
	lang, _ := b.Config["language"].(string)
	return "```" + lang + "\n" + stringValue(b, "code") + "\n```"
}

func (r renderer) list(b *block.Block) string {
	items, _ := b.Content["items"].([]any)
	ordered, _ := b.Config["ordered"].(bool)
	lines := make([]string, 0, len(items))
	for i, item := range items {
		s, _ := item.(string)
		if ordered {
			lines = append(lines, fmt.Sprintf("%d. %s", i+1, s))
		} else {
			lines = append(lines, "- "+s)
		}
	}
	return strings.Join(lines, "\n")
}

func (r renderer) image(b *block.Block) string {
	out := fmt.Sprintf("![%s](%s)", stringValue(b, "alt"), stringValue(b, "src"))
	if caption := stringValue(b, "caption"); caption != "" {
		out += "\n*" + caption + "*"
	}
	return out
}

// regions flattens a container's regions in declared order; region keys not
// declared by the manifest (and unknown types) render in sorted name order.
func (r renderer) regions(b *block.Block) string {
	parts := make([]string, 0, len(b.Regions))
	for _, name := range r.regionNames(b) {
		if s := r.blocks(b.Regions[name]); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n\n")
}

func (r renderer) regionNames(b *block.Block) []string {
	if r.reg == nil {
		return b.RegionNames()
	}
	m, ok := r.reg.Get(b.Type)
	if !ok || !m.IsContainer() {
		return b.RegionNames()
	}

	names := m.RegionNames()
	declared := make(map[string]bool, len(names))
	for _, name := range names {
		declared[name] = true
	}
	extras := make([]string, 0)
	for name := range b.Regions {
		if !declared[name] {
			extras = append(extras, name)
		}
	}
	sort.Strings(extras)
	return append(names, extras...)
}

// textish picks the block's first declared text field with a value, falling
// back to the first string content value in key order.
func (r renderer) textish(b *block.Block) string {
	if r.reg != nil {
		if m, ok := r.reg.Get(b.Type); ok {
			for i := range m.Fields {
				f := &m.Fields[i]
				if f.Type != manifest.FieldText {
					continue
				}
				if s := stringValue(b, f.Name); s != "" {
					return s
				}
			}
		}
	}

	keys := make([]string, 0, len(b.Content))
	for k := range b.Content {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		if s, ok := b.Content[k].(string); ok && s != "" {
			return s
		}
	}
	return ""
}

func stringValue(b *block.Block, key string) string {
	s, _ := b.Content[key].(string)
	return s
}
