// The [sparkblocks] package implements SparkType's block content model in the Go way.
//
// A document is a tree of blocks. Each block has a stable id, a namespaced
// type such as "core:paragraph", a content bucket, a config bucket, and named
// regions holding child blocks. What a type means is declared by a JSON
// manifest; the code never hard-codes block semantics.
//
// # Manifests and the registry
//
// [github.com/sparktype-project/sparkblocks/pkg/manifest] loads manifest
// documents, checks them against an embedded JSON schema, and serves them from
// a [github.com/sparktype-project/sparkblocks/pkg/manifest.Registry]. The
// registry creates blocks with their declared defaults, validates field
// values, and detects block types from typed text prefixes.
//
// # Blockmark
//
// [github.com/sparktype-project/sparkblocks/blockmark] converts block trees to
// and from the fenced directive syntax stored inside markdown files. Parsing
// never fails: malformed sections are skipped with a warning so one broken
// fence cannot take a document down.
//
// # Tree operations
//
// [github.com/sparktype-project/sparkblocks/pkg/tree] holds the pure
// operations: find, insert, remove, move, duplicate, update, split, merge, and
// type conversion. Every operation returns a new tree and leaves its input
// untouched.
//
// # The Engine
//
// [Engine] binds one registry to one codec and re-exposes the surface above,
// so most collaborators import this package alone. [Default] returns an
// engine over the built-in core block types.
//
// Higher layers live in their own packages:
// [github.com/sparktype-project/sparkblocks/pkg/content] for whole files with
// frontmatter, [github.com/sparktype-project/sparkblocks/pkg/export] for
// markdown and HTML output, and
// [github.com/sparktype-project/sparkblocks/pkg/bridge] for the websocket RPC
// surface the visual editor speaks.
package sparkblocks
