package blockmark

// body is the YAML document inside a block fence. Struct field order here is
// the emitted key order.
type body struct {
	Type    string         `yaml:"type"`
	ID      string         `yaml:"id,omitempty"`
	Content map[string]any `yaml:"content,omitempty"`
	Config  map[string]any `yaml:"config,omitempty"`
}
