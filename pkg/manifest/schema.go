package manifest

import (
	"bytes"
	_ "embed"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

//go:embed schema/manifest.schema.json
var schemaJSON []byte

var (
	schemaOnce sync.Once
	schema     *jsonschema.Schema
)

// documentSchema returns the compiled manifest document schema. The schema
// ships embedded in the binary, so a compile failure is a programming error.
func documentSchema() *jsonschema.Schema {
	schemaOnce.Do(func() {
		compiler := jsonschema.NewCompiler()
		if err := compiler.AddResource("manifest.schema.json", bytes.NewReader(schemaJSON)); err != nil {
			panic(err)
		}
		s, err := compiler.Compile("manifest.schema.json")
		if err != nil {
			panic(err)
		}
		schema = s
	})
	return schema
}
