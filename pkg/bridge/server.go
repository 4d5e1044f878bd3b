// Package bridge exposes the block engine to a visual editor over a local
// websocket. Calls use JSON-RPC framing and are stateless: the editor sends
// the whole block tree with each mutating call and receives the new tree
// back, so the bridge never holds document state between requests.
package bridge

import (
	"encoding/json"
	"net/http"
	"sync"

	"github.com/gorilla/websocket"

	"github.com/sparktype-project/sparkblocks"
	"github.com/sparktype-project/sparkblocks/pkg/logger"
)

// Server upgrades HTTP requests to websocket sessions and serves RPC calls
// against one engine. A Server is safe for concurrent use; each session gets
// its own read loop.
type Server struct {
	engine   *sparkblocks.Engine
	log      logger.Logger
	upgrader websocket.Upgrader

	mu       sync.Mutex
	sessions map[*session]struct{}
}

// Option configures a Server.
type Option func(*Server)

// WithLogger routes session and reload diagnostics to l. The default
// discards them.
func WithLogger(l logger.Logger) Option {
	return func(s *Server) { s.log = l }
}

// NewServer builds a bridge over the given engine.
func NewServer(engine *sparkblocks.Engine, opts ...Option) *Server {
	s := &Server{
		engine: engine,
		log:    logger.Nop{},
		upgrader: websocket.Upgrader{
			// The editor webview connects from an app scheme, not from
			// the bridge's own origin.
			CheckOrigin: func(*http.Request) bool { return true },
		},
		sessions: map[*session]struct{}{},
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// ServeHTTP upgrades the request and serves RPC calls until the connection
// drops. It implements [http.Handler] so the bridge can mount anywhere on an
// existing mux.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.log.Error("websocket upgrade failed", "remote", r.RemoteAddr, "error", err)
		return
	}

	sess := &session{conn: conn, server: s}
	s.addSession(sess)
	defer s.removeSession(sess)

	s.log.Debug("session opened", "remote", r.RemoteAddr)
	sess.run()
	s.log.Debug("session closed", "remote", r.RemoteAddr)
}

// Close drops every connected session. The per-session read loops exit as
// their connections fail.
func (s *Server) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for sess := range s.sessions {
		sess.conn.Close()
	}
	s.sessions = map[*session]struct{}{}
	return nil
}

func (s *Server) addSession(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[sess] = struct{}{}
}

func (s *Server) removeSession(sess *session) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, sess)
}

// broadcast sends a notification to every connected session. Write failures
// are logged and left for the session's own read loop to clean up.
func (s *Server) broadcast(n RPCNotification) {
	s.mu.Lock()
	sessions := make([]*session, 0, len(s.sessions))
	for sess := range s.sessions {
		sessions = append(sessions, sess)
	}
	s.mu.Unlock()

	for _, sess := range sessions {
		if err := sess.send(n); err != nil {
			s.log.Warn("notification write failed", "method", n.Method, "error", err)
		}
	}
}

// session is one editor connection. Requests are handled in arrival order;
// the write lock keeps broadcast notifications from interleaving with
// response frames.
type session struct {
	conn    *websocket.Conn
	server  *Server
	writeMu sync.Mutex
}

func (s *session) run() {
	defer s.conn.Close()
	for {
		_, data, err := s.conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseNoStatusReceived) {
				s.server.log.Warn("session read failed", "error", err)
			}
			return
		}

		var req RPCRequest
		if err := json.Unmarshal(data, &req); err != nil {
			// A frame that is not JSON has no usable ID to echo.
			if werr := s.send(errResponse(nil, CodeParseError, "parse error: "+err.Error())); werr != nil {
				return
			}
			continue
		}

		s.server.log.Debug("rpc request", "method", req.Method)
		if err := s.send(s.server.dispatch(&req)); err != nil {
			s.server.log.Warn("response write failed", "method", req.Method, "error", err)
			return
		}
	}
}

func (s *session) send(v any) error {
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteJSON(v)
}
