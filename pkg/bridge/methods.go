package bridge

import (
	"encoding/json"
	"fmt"

	"github.com/sparktype-project/sparkblocks"
	"github.com/sparktype-project/sparkblocks/pkg/block"
	"github.com/sparktype-project/sparkblocks/pkg/manifest"
	"github.com/sparktype-project/sparkblocks/pkg/tree"
)

// Param shapes, one per method family. Trees always travel under "blocks" so
// the editor can thread the result of one call into the next.
type textParams struct {
	Text string `json:"text"`
}

type treeParams struct {
	Blocks []*block.Block `json:"blocks"`
}

type createBlockParams struct {
	Type    string         `json:"type"`
	Content map[string]any `json:"content,omitempty"`
}

type blockParams struct {
	Block *block.Block `json:"block"`
}

type targetParams struct {
	Blocks []*block.Block `json:"blocks"`
	ID     string         `json:"id"`
}

type insertParams struct {
	Blocks   []*block.Block `json:"blocks"`
	Block    *block.Block   `json:"block"`
	TargetID string         `json:"targetId,omitempty"`
	Position string         `json:"position,omitempty"`
	Region   string         `json:"region,omitempty"`
}

type moveParams struct {
	Blocks   []*block.Block `json:"blocks"`
	ID       string         `json:"id"`
	TargetID string         `json:"targetId"`
	Position string         `json:"position"`
	Region   string         `json:"region,omitempty"`
}

type updateParams struct {
	Blocks  []*block.Block `json:"blocks"`
	ID      string         `json:"id"`
	Content map[string]any `json:"content,omitempty"`
	Config  map[string]any `json:"config,omitempty"`
}

type splitParams struct {
	Blocks     []*block.Block `json:"blocks"`
	ID         string         `json:"id"`
	SplitPoint int            `json:"splitPoint"`
	Field      string         `json:"field,omitempty"`
}

type mergeParams struct {
	Blocks   []*block.Block `json:"blocks"`
	FirstID  string         `json:"firstId"`
	SecondID string         `json:"secondId"`
	Field    string         `json:"field,omitempty"`
}

type convertParams struct {
	Blocks  []*block.Block `json:"blocks"`
	ID      string         `json:"id"`
	NewType string         `json:"newType"`
}

type noParams struct{}

// Result shapes.
type treeResult struct {
	Blocks []*block.Block `json:"blocks"`
}

type textResult struct {
	Text string `json:"text"`
}

type blockResult struct {
	Block *block.Block `json:"block"`
}

type findResult struct {
	Found bool         `json:"found"`
	Block *block.Block `json:"block,omitempty"`
	Path  []tree.Step  `json:"path,omitempty"`
}

type parentResult struct {
	Found  bool         `json:"found"`
	Parent *block.Block `json:"parent,omitempty"`
	Region string       `json:"region"`
	Index  int          `json:"index"`
}

type idsResult struct {
	IDs []string `json:"ids"`
}

type detectResult struct {
	Found    bool               `json:"found"`
	Type     string             `json:"type,omitempty"`
	Manifest *manifest.Manifest `json:"manifest,omitempty"`
}

type manifestsResult struct {
	Manifests []*manifest.Manifest `json:"manifests"`
}

type handler func(*sparkblocks.Engine, *RPCRequest) RPCResponse

// method adapts a typed handler to the wire: params decode into P, and a
// decode failure answers invalid params without calling fn.
func method[P any](fn func(*sparkblocks.Engine, P) (any, *RPCError)) handler {
	return func(e *sparkblocks.Engine, req *RPCRequest) RPCResponse {
		var params P
		if len(req.Params) > 0 {
			if err := json.Unmarshal(req.Params, &params); err != nil {
				return errResponse(req.ID, CodeInvalidParams, "invalid params: "+err.Error())
			}
		}
		result, rpcErr := fn(e, params)
		if rpcErr != nil {
			return RPCResponse{ID: req.ID, Error: rpcErr}
		}
		return okResponse(req.ID, result)
	}
}

func operationFailed(format string, args ...any) *RPCError {
	return &RPCError{Code: CodeOperationFailed, Message: fmt.Sprintf(format, args...)}
}

var methods = map[string]handler{
	"parse": method(func(e *sparkblocks.Engine, p textParams) (any, *RPCError) {
		return treeResult{Blocks: e.Parse(p.Text)}, nil
	}),
	"serialize": method(func(e *sparkblocks.Engine, p treeParams) (any, *RPCError) {
		text, err := e.Serialize(p.Blocks)
		if err != nil {
			return nil, operationFailed("serialize: %v", err)
		}
		return textResult{Text: text}, nil
	}),
	"createBlock": method(func(e *sparkblocks.Engine, p createBlockParams) (any, *RPCError) {
		b, ok := e.CreateBlock(p.Type, p.Content)
		if !ok {
			return nil, operationFailed("unknown block type %q", p.Type)
		}
		return blockResult{Block: b}, nil
	}),
	"validateBlock": method(func(e *sparkblocks.Engine, p blockParams) (any, *RPCError) {
		return e.Validate(p.Block), nil
	}),
	"validateTree": method(func(e *sparkblocks.Engine, p treeParams) (any, *RPCError) {
		return e.ValidateTree(p.Blocks), nil
	}),
	"insert": method(func(e *sparkblocks.Engine, p insertParams) (any, *RPCError) {
		out := e.Insert(p.Blocks, p.Block, p.TargetID, sparkblocks.Position(p.Position), p.Region)
		return treeResult{Blocks: out}, nil
	}),
	"remove": method(func(e *sparkblocks.Engine, p targetParams) (any, *RPCError) {
		return treeResult{Blocks: e.Remove(p.Blocks, p.ID)}, nil
	}),
	"move": method(func(e *sparkblocks.Engine, p moveParams) (any, *RPCError) {
		out := e.Move(p.Blocks, p.ID, p.TargetID, sparkblocks.Position(p.Position), p.Region)
		return treeResult{Blocks: out}, nil
	}),
	"duplicate": method(func(e *sparkblocks.Engine, p targetParams) (any, *RPCError) {
		return treeResult{Blocks: e.Duplicate(p.Blocks, p.ID)}, nil
	}),
	"update": method(func(e *sparkblocks.Engine, p updateParams) (any, *RPCError) {
		return treeResult{Blocks: e.Update(p.Blocks, p.ID, p.Content, p.Config)}, nil
	}),
	"split": method(func(e *sparkblocks.Engine, p splitParams) (any, *RPCError) {
		return treeResult{Blocks: e.Split(p.Blocks, p.ID, p.SplitPoint, p.Field)}, nil
	}),
	"merge": method(func(e *sparkblocks.Engine, p mergeParams) (any, *RPCError) {
		return treeResult{Blocks: e.Merge(p.Blocks, p.FirstID, p.SecondID, p.Field)}, nil
	}),
	"convertType": method(func(e *sparkblocks.Engine, p convertParams) (any, *RPCError) {
		return treeResult{Blocks: e.ConvertType(p.Blocks, p.ID, p.NewType)}, nil
	}),
	"findById": method(func(e *sparkblocks.Engine, p targetParams) (any, *RPCError) {
		found, ok := e.FindByID(p.Blocks, p.ID)
		if !ok {
			return findResult{}, nil
		}
		return findResult{Found: true, Block: found.Block, Path: found.Path}, nil
	}),
	"findParent": method(func(e *sparkblocks.Engine, p targetParams) (any, *RPCError) {
		parent, ok := e.FindParent(p.Blocks, p.ID)
		if !ok {
			return parentResult{}, nil
		}
		return parentResult{Found: true, Parent: parent.Block, Region: parent.Region, Index: parent.Index}, nil
	}),
	"flattenIds": method(func(e *sparkblocks.Engine, p treeParams) (any, *RPCError) {
		return idsResult{IDs: e.FlattenIDs(p.Blocks)}, nil
	}),
	"detectType": method(func(e *sparkblocks.Engine, p textParams) (any, *RPCError) {
		det, ok := e.DetectType(p.Text)
		if !ok {
			return detectResult{}, nil
		}
		return detectResult{Found: true, Type: det.Type, Manifest: det.Manifest}, nil
	}),
	"listManifests": method(func(e *sparkblocks.Engine, _ noParams) (any, *RPCError) {
		return manifestsResult{Manifests: e.Registry().List()}, nil
	}),
}

func (s *Server) dispatch(req *RPCRequest) RPCResponse {
	h, ok := methods[req.Method]
	if !ok {
		return errResponse(req.ID, CodeMethodNotFound, fmt.Sprintf("method %q not found", req.Method))
	}
	return h(s.engine, req)
}
