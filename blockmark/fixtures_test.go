package blockmark

import (
	"strings"

	"github.com/sparktype-project/sparkblocks/pkg/manifest"
)

// bm joins lines into a document. Test sources use it because Go raw string
// literals cannot hold the backtick fences.
func bm(lines ...string) string {
	return strings.Join(lines, "\n")
}

// demoRegistry returns a small registry with one leaf and one container type.
// The box declares its regions in non-alphabetical order so that tests can
// tell declared order apart from sorted order.
func demoRegistry() *manifest.Registry {
	return manifest.NewRegistry(
		&manifest.Manifest{
			ID:   "demo:note",
			Name: "Note",
			Fields: []manifest.FieldSpec{
				{Name: "text", Type: manifest.FieldText, Default: ""},
				{Name: "mood", Type: manifest.FieldSelect, Options: []string{"calm", "urgent"}, Default: "calm"},
			},
			Config: []manifest.FieldSpec{
				{Name: "pinned", Type: manifest.FieldBoolean, Default: false},
			},
		},
		&manifest.Manifest{
			ID:   "demo:box",
			Name: "Box",
			Fields: []manifest.FieldSpec{
				{Name: "title", Type: manifest.FieldText, Default: ""},
			},
			Regions: []manifest.RegionSpec{
				{Name: "header"},
				{Name: "body"},
			},
		},
	)
}

// recordingLogger captures warnings so tests can assert on parser recovery.
type recordingLogger struct {
	warns []logEntry
}

type logEntry struct {
	msg  string
	args []any
}

func (r *recordingLogger) Debug(string, ...any) {}
func (r *recordingLogger) Info(string, ...any)  {}
func (r *recordingLogger) Error(string, ...any) {}

func (r *recordingLogger) Warn(msg string, args ...any) {
	r.warns = append(r.warns, logEntry{msg: msg, args: args})
}

// argValue returns the value following key in an alternating key/value list.
func argValue(args []any, key string) any {
	for i := 0; i+1 < len(args); i += 2 {
		if args[i] == key {
			return args[i+1]
		}
	}
	return nil
}
