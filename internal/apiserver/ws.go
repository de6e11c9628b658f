// ws.go — WebSocket ingest and event push.
package apiserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/bio-agent/go-bridge-v2/internal/stream"
	pkgerr "github.com/bio-agent/go-bridge-v2/pkg/errors"
	"github.com/bio-agent/go-bridge-v2/pkg/logger"
	"github.com/bio-agent/go-bridge-v2/pkg/util"
)

const (
	connOutboxSize = 256
	writeTimeout   = 10 * time.Second
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  4096,
	WriteBufferSize: 4096,
	CheckOrigin:     checkLocalOrigin,
}

// checkLocalOrigin admits only localhost browsers and non-browser clients
// (no Origin header).
func checkLocalOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	origin = strings.ToLower(origin)
	for _, allowed := range []string{
		"http://localhost", "https://localhost",
		"http://127.0.0.1", "https://127.0.0.1",
		"http://[::1]", "https://[::1]",
	} {
		if strings.HasPrefix(origin, allowed) {
			return true
		}
	}
	logger.Warn("rejected non-local websocket origin", "origin", origin)
	return false
}

// inboundMessage is the client-to-bridge frame.
//
//	block — a complete raw block, classified immediately
//	chunk — a partial fragment, buffered until done
//	done  — out-of-band terminal signal; flushes the buffer
type inboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
}

// connEntry wraps one WebSocket connection. gorilla/websocket forbids
// concurrent writes, so all sends go through the outbox and one writeLoop.
type connEntry struct {
	ws        *websocket.Conn
	wrMu      sync.Mutex
	outbox    chan []byte
	closeCh   chan struct{}
	closeOnce sync.Once
}

func newConnEntry(ws *websocket.Conn) *connEntry {
	return &connEntry{
		ws:      ws,
		outbox:  make(chan []byte, connOutboxSize),
		closeCh: make(chan struct{}),
	}
}

func (c *connEntry) enqueue(data []byte) bool {
	select {
	case <-c.closeCh:
		return false
	default:
	}
	select {
	case c.outbox <- data:
		return true
	default:
		// slow consumer; drop rather than block the broadcast path
		return false
	}
}

func (c *connEntry) writeMsg(data []byte) error {
	c.wrMu.Lock()
	defer c.wrMu.Unlock()
	_ = c.ws.SetWriteDeadline(time.Now().Add(writeTimeout))
	return c.ws.WriteMessage(websocket.TextMessage, data)
}

func (c *connEntry) writeLoop() {
	for {
		select {
		case <-c.closeCh:
			return
		case data := <-c.outbox:
			if err := c.writeMsg(data); err != nil {
				c.closeNow()
				return
			}
		}
	}
}

func (c *connEntry) closeNow() {
	c.closeOnce.Do(func() {
		close(c.closeCh)
		_ = c.ws.Close()
	})
}

// Hub tracks connections per session and fans classified events out to them.
type Hub struct {
	mu    sync.RWMutex
	conns map[string]map[*connEntry]struct{}
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{conns: make(map[string]map[*connEntry]struct{})}
}

func (h *Hub) add(sessionID string, c *connEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if h.conns[sessionID] == nil {
		h.conns[sessionID] = make(map[*connEntry]struct{})
	}
	h.conns[sessionID][c] = struct{}{}
}

func (h *Hub) remove(sessionID string, c *connEntry) {
	h.mu.Lock()
	defer h.mu.Unlock()
	delete(h.conns[sessionID], c)
	if len(h.conns[sessionID]) == 0 {
		delete(h.conns, sessionID)
	}
}

// Broadcast pushes one event to every connection of the session.
func (h *Hub) Broadcast(sessionID string, ev stream.Event) {
	data, err := json.Marshal(gin.H{"type": "event", "event": ev})
	if err != nil {
		logger.Error("marshal event failed", logger.FieldError, err)
		return
	}
	h.mu.RLock()
	defer h.mu.RUnlock()
	for c := range h.conns[sessionID] {
		if !c.enqueue(data) {
			logger.Warn("dropped event for slow consumer",
				logger.FieldSessionID, sessionID, logger.FieldEventType, string(ev.Category))
		}
	}
}

// CloseSession drops every connection of one session.
func (h *Hub) CloseSession(sessionID string) {
	h.mu.Lock()
	entries := h.conns[sessionID]
	delete(h.conns, sessionID)
	h.mu.Unlock()
	for c := range entries {
		c.closeNow()
	}
}

// CloseAll drops every connection.
func (h *Hub) CloseAll() {
	h.mu.Lock()
	all := h.conns
	h.conns = make(map[string]map[*connEntry]struct{})
	h.mu.Unlock()
	for _, entries := range all {
		for c := range entries {
			c.closeNow()
		}
	}
}

// handleWebSocket upgrades the connection and serves the ingest/push loop
// for one session.
func (s *Server) handleWebSocket(c *gin.Context) {
	sessionID := c.Param("id")
	if !s.sessions.Exists(sessionID) {
		notFound(c, "unknown session "+sessionID)
		return
	}
	ws, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		logger.Warn("websocket upgrade failed",
			logger.FieldSessionID, sessionID, logger.FieldError, err)
		return
	}
	entry := newConnEntry(ws)
	s.hub.add(sessionID, entry)
	util.SafeGo(entry.writeLoop)

	defer func() {
		s.hub.remove(sessionID, entry)
		entry.closeNow()
	}()

	for {
		_, raw, err := ws.ReadMessage()
		if err != nil {
			if !websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				logger.Debug("websocket read ended",
					logger.FieldSessionID, sessionID, logger.FieldError, err)
			}
			return
		}
		var msg inboundMessage
		if err := json.Unmarshal(raw, &msg); err != nil {
			s.sendWSError(entry, "invalid_json", "message is not valid JSON")
			continue
		}
		s.handleInbound(c.Request.Context(), sessionID, entry, msg)
	}
}

func (s *Server) handleInbound(ctx context.Context, sessionID string, entry *connEntry, msg inboundMessage) {
	switch msg.Type {
	case "block":
		if _, err := s.ingest(ctx, sessionID, msg.Text); err != nil {
			s.sendSessionWSError(entry, sessionID, err)
		}
	case "chunk":
		if err := s.sessions.Buffer(sessionID, msg.Text); err != nil {
			s.sendSessionWSError(entry, sessionID, err)
		}
	case "done":
		flushed, events, err := s.sessions.Finish(sessionID)
		if err != nil {
			s.sendSessionWSError(entry, sessionID, err)
			return
		}
		if flushed != "" {
			s.appendTranscript(ctx, sessionID, flushed)
		}
		s.persistAndPush(ctx, sessionID, events)
		data, _ := json.Marshal(gin.H{"type": "done", "sessionId": sessionID})
		entry.enqueue(data)
	default:
		s.sendWSError(entry, "unknown_type", "message type must be block, chunk or done")
	}
}

func (s *Server) sendSessionWSError(entry *connEntry, sessionID string, err error) {
	code := "internal_error"
	switch {
	case errors.Is(err, pkgerr.ErrNotFound):
		code = "not_found"
	case errors.Is(err, pkgerr.ErrSessionClosed):
		code = "session_closed"
	}
	logger.Warn("websocket ingest failed",
		logger.FieldSessionID, sessionID, logger.FieldError, err)
	s.sendWSError(entry, code, err.Error())
}

func (s *Server) sendWSError(entry *connEntry, code, message string) {
	data, err := json.Marshal(gin.H{"type": "error", "code": code, "message": message})
	if err != nil {
		return
	}
	entry.enqueue(data)
}
