package manifest

import (
	"encoding/json"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/sparktype-project/sparkblocks/pkg/block"
)

// LoadBytes decodes one manifest document. The raw document is checked
// against the embedded JSON-Schema first, so decode errors past that point
// indicate a schema gap rather than bad input.
func LoadBytes(data []byte) (*Manifest, error) {
	var instance any
	if err := json.Unmarshal(data, &instance); err != nil {
		return nil, fmt.Errorf("parse manifest: %w", err)
	}
	if err := documentSchema().Validate(instance); err != nil {
		return nil, fmt.Errorf("invalid manifest: %w", err)
	}

	var m Manifest
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("decode manifest: %w", err)
	}

	normalizeDefaults(&m)
	if err := m.compile(); err != nil {
		return nil, fmt.Errorf("manifest %s: %w", m.ID, err)
	}
	return &m, nil
}

// LoadFile loads a single manifest document from disk.
func LoadFile(p string) (*Manifest, error) {
	data, err := os.ReadFile(p)
	if err != nil {
		return nil, fmt.Errorf("read manifest: %w", err)
	}
	m, err := LoadBytes(data)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filepath.Base(p), err)
	}
	return m, nil
}

// Load reads every *.json manifest under dir. Directory entries come back in
// filename order, so the resulting registration order is deterministic.
func Load(fsys fs.FS, dir string) ([]*Manifest, error) {
	entries, err := fs.ReadDir(fsys, dir)
	if err != nil {
		return nil, fmt.Errorf("read manifest dir: %w", err)
	}

	var manifests []*Manifest
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		data, err := fs.ReadFile(fsys, path.Join(dir, entry.Name()))
		if err != nil {
			return nil, fmt.Errorf("read manifest: %w", err)
		}
		m, err := LoadBytes(data)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", entry.Name(), err)
		}
		manifests = append(manifests, m)
	}
	return manifests, nil
}

// LoadDir loads every *.json manifest from an on-disk directory.
func LoadDir(dir string) ([]*Manifest, error) {
	return Load(os.DirFS(dir), ".")
}

// normalizeDefaults runs declared defaults through the shared value
// canonicalization so a default written as 2 in JSON and a value parsed as 2
// from YAML compare equal.
func normalizeDefaults(m *Manifest) {
	for i := range m.Fields {
		m.Fields[i].Default = block.Normalize(m.Fields[i].Default)
	}
	for i := range m.Config {
		m.Config[i].Default = block.Normalize(m.Config[i].Default)
	}
}
