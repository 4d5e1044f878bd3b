// Package content reads and writes SparkType page files: YAML frontmatter
// between --- delimiters, then a blockmark body.
package content

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/sparktype-project/sparkblocks/blockmark"
	"github.com/sparktype-project/sparkblocks/pkg/block"
)

// ErrNoFrontmatter reports input without the two --- delimiters every page
// file starts with.
var ErrNoFrontmatter = errors.New("content: missing frontmatter")

// dateLayout is the date-only form SparkType writes in frontmatter.
const dateLayout = "2006-01-02"

// File is one parsed page: the typed frontmatter fields every layout uses,
// the full frontmatter map, and the block tree from the body.
type File struct {
	Title       string
	Layout      string
	Description string
	Date        time.Time
	Published   bool

	// Meta holds the complete frontmatter, typed keys included.
	Meta map[string]any

	Blocks []*block.Block
}

// Parse splits text into frontmatter and body. The first two --- delimiters
// bound the frontmatter; the body parses with the given codec. Typed fields
// are extracted from the frontmatter map, which is kept whole in Meta.
func Parse(c *blockmark.Codec, text string) (*File, error) {
	parts := strings.SplitN(text, "---", 3)
	if len(parts) < 3 {
		return nil, ErrNoFrontmatter
	}

	var meta map[string]any
	if err := yaml.Unmarshal([]byte(parts[1]), &meta); err != nil {
		return nil, fmt.Errorf("content: parse frontmatter: %w", err)
	}
	if meta == nil {
		meta = map[string]any{}
	}

	f := &File{
		Meta:   meta,
		Blocks: c.Parse(strings.TrimSpace(parts[2])),
	}
	if title, ok := meta["title"].(string); ok {
		f.Title = title
	}
	if layout, ok := meta["layout"].(string); ok {
		f.Layout = layout
	}
	if description, ok := meta["description"].(string); ok {
		f.Description = description
	}
	if published, ok := meta["published"].(bool); ok {
		f.Published = published
	}
	switch d := meta["date"].(type) {
	case time.Time:
		// yaml.v3 resolves unquoted dates itself.
		f.Date = d
	case string:
		if parsed, err := time.Parse(dateLayout, d); err == nil {
			f.Date = parsed
		}
	}
	return f, nil
}

// Serialize renders the file back to frontmatter plus blockmark body. Typed
// fields win over their Meta keys, and yaml.v3's sorted map keys keep the
// frontmatter deterministic.
func (f *File) Serialize(c *blockmark.Codec) (string, error) {
	meta := make(map[string]any, len(f.Meta)+5)
	for k, v := range f.Meta {
		meta[k] = v
	}
	if f.Title != "" {
		meta["title"] = f.Title
	}
	if f.Layout != "" {
		meta["layout"] = f.Layout
	}
	if f.Description != "" {
		meta["description"] = f.Description
	}
	if !f.Date.IsZero() {
		meta["date"] = f.Date.Format(dateLayout)
	}
	if f.Published {
		meta["published"] = true
	} else if _, explicit := f.Meta["published"]; explicit {
		meta["published"] = false
	}

	var raw []byte
	if len(meta) > 0 {
		var err error
		raw, err = yaml.Marshal(meta)
		if err != nil {
			return "", fmt.Errorf("content: encode frontmatter: %w", err)
		}
	}

	body, err := c.Serialize(f.Blocks)
	if err != nil {
		return "", err
	}

	var sb strings.Builder
	sb.WriteString("---\n")
	sb.Write(raw)
	sb.WriteString("---\n")
	if body != "" {
		sb.WriteString("\n")
		sb.WriteString(body)
	}
	return sb.String(), nil
}

// MarshalBlockmark implements [blockmark.Marshaler].
func (f *File) MarshalBlockmark(c *blockmark.Codec) (string, error) {
	return f.Serialize(c)
}

// UnmarshalBlockmark implements [blockmark.Unmarshaler].
func (f *File) UnmarshalBlockmark(c *blockmark.Codec, text string) error {
	parsed, err := Parse(c, text)
	if err != nil {
		return err
	}
	*f = *parsed
	return nil
}
