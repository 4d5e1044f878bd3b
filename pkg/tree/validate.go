package tree

import (
	"github.com/sparktype-project/sparkblocks/pkg/block"
	"github.com/sparktype-project/sparkblocks/pkg/manifest"
)

// TreeValidation aggregates validation results over a whole tree. Valid is
// true when no block reported a problem.
type TreeValidation struct {
	Valid  bool         `json:"valid"`
	Errors []BlockError `json:"errors,omitempty"`
}

// BlockError ties one failing block to its validation messages.
type BlockError struct {
	BlockID string   `json:"blockId"`
	Errors  []string `json:"errors"`
}

// ValidateTree validates every block in visit order and collects the failures.
// Like single-block validation it never mutates and never stops early; the
// caller gets the full problem list in one pass.
func ValidateTree(reg *manifest.Registry, tree []*block.Block) TreeValidation {
	result := TreeValidation{Valid: true}
	Walk(reg, tree, func(b *block.Block, _ []Step) bool {
		res := reg.Validate(b)
		if !res.Valid {
			result.Valid = false
			result.Errors = append(result.Errors, BlockError{BlockID: b.ID, Errors: res.Errors})
		}
		return true
	})
	return result
}
