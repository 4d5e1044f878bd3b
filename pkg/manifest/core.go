package manifest

import "embed"

//go:embed manifests/*.json
var coreFS embed.FS

// CoreManifests returns the built-in block set. Each call decodes fresh
// copies, so callers may hand them to Merge or mutate them without affecting
// other registries.
func CoreManifests() []*Manifest {
	manifests, err := Load(coreFS, "manifests")
	if err != nil {
		panic(err)
	}
	return manifests
}

// CoreRegistry returns a registry holding only the built-in block set.
func CoreRegistry() *Registry {
	return NewRegistry(CoreManifests()...)
}
