package bridge

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/sparktype-project/sparkblocks"
	"github.com/sparktype-project/sparkblocks/internal/rand"
	"github.com/sparktype-project/sparkblocks/pkg/block"
	"github.com/sparktype-project/sparkblocks/pkg/logger"
	"github.com/sparktype-project/sparkblocks/pkg/manifest"
	"github.com/sparktype-project/sparkblocks/pkg/tree"
)

const requestIDLength = 12

// ErrClientClosed is returned by calls made after Close, and by calls in
// flight when the connection drops.
var ErrClientClosed = errors.New("bridge: connection closed")

// Client is a Go-side connection to a running bridge. It speaks the same
// wire protocol as the editor, so tooling can drive a live bridge with typed
// calls instead of raw frames. A Client is safe for concurrent use; responses
// are routed back to their callers by request id.
type Client struct {
	conn *websocket.Conn
	log  logger.Logger

	writeMu sync.Mutex

	respMu    sync.Mutex
	responses map[string]chan clientResponse

	notifications chan RPCNotification

	closeOnce sync.Once
	closeCh   chan struct{}
	closeErr  error
}

// clientResponse keeps the result raw until the caller names a type for it.
type clientResponse struct {
	ID     any             `json:"id"`
	Method string          `json:"method"`
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
	Params json.RawMessage `json:"params"`
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithClientLogger routes connection diagnostics to l. The default discards
// them.
func WithClientLogger(l logger.Logger) ClientOption {
	return func(c *Client) { c.log = l }
}

// Dial connects to a bridge at a ws:// or wss:// URL.
func Dial(ctx context.Context, url string, opts ...ClientOption) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.DialContext(ctx, url, nil)
	if err != nil {
		return nil, fmt.Errorf("bridge: dial %s: %w", url, err)
	}

	c := &Client{
		conn:          conn,
		log:           logger.Nop{},
		responses:     map[string]chan clientResponse{},
		notifications: make(chan RPCNotification, 16),
		closeCh:       make(chan struct{}),
	}
	for _, opt := range opts {
		opt(c)
	}

	go c.readLoop()
	return c, nil
}

// Close sends a close frame and drops the connection. Calls in flight return
// [ErrClientClosed].
func (c *Client) Close() error {
	c.closeWithError(ErrClientClosed)

	c.writeMu.Lock()
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.writeMu.Unlock()

	return c.conn.Close()
}

// Done closes when the connection ends, however that happens. Receivers of
// [Client.Notifications] should select on it; the notification channel itself
// is never closed.
func (c *Client) Done() <-chan struct{} {
	return c.closeCh
}

// Notifications delivers server-initiated messages, such as
// manifests/reloaded after a registry reload. Slow receivers lose
// notifications rather than stalling the connection.
func (c *Client) Notifications() <-chan RPCNotification {
	return c.notifications
}

// Call performs one RPC and decodes its result into result, which may be nil
// when the caller only cares about success. Server-side failures come back as
// an [*RPCError].
func (c *Client) Call(ctx context.Context, method string, params, result any) error {
	select {
	case <-c.closeCh:
		return c.closeErr
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	var raw json.RawMessage
	if params != nil {
		data, err := json.Marshal(params)
		if err != nil {
			return fmt.Errorf("bridge: marshal params: %w", err)
		}
		raw = data
	}

	id := "req_" + rand.String(requestIDLength)
	ch := c.createResponseChannel(id)
	defer c.removeResponseChannel(id)

	if err := c.write(RPCRequest{ID: id, Method: method, Params: raw}); err != nil {
		return err
	}

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-c.closeCh:
		return c.closeErr
	case resp := <-ch:
		if resp.Error != nil {
			return resp.Error
		}
		if result == nil || len(resp.Result) == 0 {
			return nil
		}
		if err := json.Unmarshal(resp.Result, result); err != nil {
			return fmt.Errorf("bridge: decode %s result: %w", method, err)
		}
		return nil
	}
}

func (c *Client) write(v any) error {
	c.writeMu.Lock()
	defer c.writeMu.Unlock()
	err := c.conn.WriteJSON(v)
	if errors.Is(err, websocket.ErrCloseSent) {
		c.closeWithError(ErrClientClosed)
	}
	return err
}

func (c *Client) closeWithError(err error) {
	c.closeOnce.Do(func() {
		c.closeErr = err
		close(c.closeCh)
	})
}

func (c *Client) createResponseChannel(id string) chan clientResponse {
	ch := make(chan clientResponse, 1)
	c.respMu.Lock()
	c.responses[id] = ch
	c.respMu.Unlock()
	return ch
}

func (c *Client) removeResponseChannel(id string) {
	c.respMu.Lock()
	delete(c.responses, id)
	c.respMu.Unlock()
}

func (c *Client) readLoop() {
	for {
		_, data, err := c.conn.ReadMessage()
		if err != nil {
			c.closeWithError(ErrClientClosed)
			return
		}
		c.handleFrame(data)
	}
}

func (c *Client) handleFrame(data []byte) {
	var resp clientResponse
	if err := json.Unmarshal(data, &resp); err != nil {
		c.log.Warn("unreadable frame", "error", err)
		return
	}

	// Frames without an id are notifications.
	if resp.ID == nil && resp.Method != "" {
		n := RPCNotification{Method: resp.Method}
		if len(resp.Params) > 0 {
			n.Params = resp.Params
		}
		select {
		case c.notifications <- n:
		default:
			c.log.Warn("notification dropped", "method", resp.Method)
		}
		return
	}

	c.respMu.Lock()
	ch, ok := c.responses[fmt.Sprintf("%v", resp.ID)]
	c.respMu.Unlock()
	if !ok {
		c.log.Warn("response for unknown request", "id", resp.ID)
		return
	}
	ch <- resp
}

// Typed wrappers over Call, one per bridge method. They mirror the engine's
// own surface so code can swap between in-process and over-the-wire use.

func (c *Client) Parse(ctx context.Context, text string) ([]*block.Block, error) {
	var res treeResult
	if err := c.Call(ctx, "parse", textParams{Text: text}, &res); err != nil {
		return nil, err
	}
	return res.Blocks, nil
}

func (c *Client) Serialize(ctx context.Context, blocks []*block.Block) (string, error) {
	var res textResult
	if err := c.Call(ctx, "serialize", treeParams{Blocks: blocks}, &res); err != nil {
		return "", err
	}
	return res.Text, nil
}

func (c *Client) CreateBlock(ctx context.Context, blockType string, content map[string]any) (*block.Block, error) {
	var res blockResult
	if err := c.Call(ctx, "createBlock", createBlockParams{Type: blockType, Content: content}, &res); err != nil {
		return nil, err
	}
	return res.Block, nil
}

func (c *Client) Validate(ctx context.Context, b *block.Block) (manifest.ValidationResult, error) {
	var res manifest.ValidationResult
	err := c.Call(ctx, "validateBlock", blockParams{Block: b}, &res)
	return res, err
}

func (c *Client) ValidateTree(ctx context.Context, blocks []*block.Block) (tree.TreeValidation, error) {
	var res tree.TreeValidation
	err := c.Call(ctx, "validateTree", treeParams{Blocks: blocks}, &res)
	return res, err
}

func (c *Client) Insert(ctx context.Context, blocks []*block.Block, blk *block.Block, targetID string, pos sparkblocks.Position, region string) ([]*block.Block, error) {
	var res treeResult
	err := c.Call(ctx, "insert", insertParams{
		Blocks: blocks, Block: blk, TargetID: targetID,
		Position: string(pos), Region: region,
	}, &res)
	return res.Blocks, err
}

func (c *Client) Remove(ctx context.Context, blocks []*block.Block, id string) ([]*block.Block, error) {
	var res treeResult
	err := c.Call(ctx, "remove", targetParams{Blocks: blocks, ID: id}, &res)
	return res.Blocks, err
}

func (c *Client) Move(ctx context.Context, blocks []*block.Block, id, targetID string, pos sparkblocks.Position, region string) ([]*block.Block, error) {
	var res treeResult
	err := c.Call(ctx, "move", moveParams{
		Blocks: blocks, ID: id, TargetID: targetID,
		Position: string(pos), Region: region,
	}, &res)
	return res.Blocks, err
}

func (c *Client) Duplicate(ctx context.Context, blocks []*block.Block, id string) ([]*block.Block, error) {
	var res treeResult
	err := c.Call(ctx, "duplicate", targetParams{Blocks: blocks, ID: id}, &res)
	return res.Blocks, err
}

func (c *Client) Update(ctx context.Context, blocks []*block.Block, id string, content, config map[string]any) ([]*block.Block, error) {
	var res treeResult
	err := c.Call(ctx, "update", updateParams{Blocks: blocks, ID: id, Content: content, Config: config}, &res)
	return res.Blocks, err
}

func (c *Client) Split(ctx context.Context, blocks []*block.Block, id string, splitPoint int, field string) ([]*block.Block, error) {
	var res treeResult
	err := c.Call(ctx, "split", splitParams{Blocks: blocks, ID: id, SplitPoint: splitPoint, Field: field}, &res)
	return res.Blocks, err
}

func (c *Client) Merge(ctx context.Context, blocks []*block.Block, firstID, secondID, field string) ([]*block.Block, error) {
	var res treeResult
	err := c.Call(ctx, "merge", mergeParams{Blocks: blocks, FirstID: firstID, SecondID: secondID, Field: field}, &res)
	return res.Blocks, err
}

func (c *Client) ConvertType(ctx context.Context, blocks []*block.Block, id, newType string) ([]*block.Block, error) {
	var res treeResult
	err := c.Call(ctx, "convertType", convertParams{Blocks: blocks, ID: id, NewType: newType}, &res)
	return res.Blocks, err
}

func (c *Client) FindByID(ctx context.Context, blocks []*block.Block, id string) (*tree.Found, bool, error) {
	var res findResult
	if err := c.Call(ctx, "findById", targetParams{Blocks: blocks, ID: id}, &res); err != nil {
		return nil, false, err
	}
	if !res.Found {
		return nil, false, nil
	}
	return &tree.Found{Block: res.Block, Path: res.Path}, true, nil
}

func (c *Client) FindParent(ctx context.Context, blocks []*block.Block, id string) (*tree.Parent, bool, error) {
	var res parentResult
	if err := c.Call(ctx, "findParent", targetParams{Blocks: blocks, ID: id}, &res); err != nil {
		return nil, false, err
	}
	if !res.Found {
		return nil, false, nil
	}
	return &tree.Parent{Block: res.Parent, Region: res.Region, Index: res.Index}, true, nil
}

func (c *Client) FlattenIDs(ctx context.Context, blocks []*block.Block) ([]string, error) {
	var res idsResult
	err := c.Call(ctx, "flattenIds", treeParams{Blocks: blocks}, &res)
	return res.IDs, err
}

func (c *Client) DetectType(ctx context.Context, text string) (*manifest.Detection, bool, error) {
	var res detectResult
	if err := c.Call(ctx, "detectType", textParams{Text: text}, &res); err != nil {
		return nil, false, err
	}
	if !res.Found {
		return nil, false, nil
	}
	return &manifest.Detection{Type: res.Type, Manifest: res.Manifest}, true, nil
}

func (c *Client) ListManifests(ctx context.Context) ([]*manifest.Manifest, error) {
	var res manifestsResult
	err := c.Call(ctx, "listManifests", nil, &res)
	return res.Manifests, err
}
