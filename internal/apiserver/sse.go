// sse.go — server-sent event push for UI clients that cannot hold a
// WebSocket.
package apiserver

import (
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bio-agent/go-bridge-v2/internal/stream"
	"github.com/bio-agent/go-bridge-v2/pkg/logger"
)

const sseKeepalive = 30 * time.Second

// EventBus fans classified events out to SSE subscribers, keyed by session.
type EventBus struct {
	mu          sync.RWMutex
	subscribers map[string]map[string]chan stream.Event
}

// NewEventBus creates an empty bus.
func NewEventBus() *EventBus {
	return &EventBus{subscribers: make(map[string]map[string]chan stream.Event)}
}

// Publish delivers one event to every subscriber of the session. Full
// subscriber channels drop the event rather than block.
func (b *EventBus) Publish(sessionID string, ev stream.Event) {
	b.mu.RLock()
	defer b.mu.RUnlock()
	for _, ch := range b.subscribers[sessionID] {
		select {
		case ch <- ev:
		default:
		}
	}
}

// Subscribe registers a client for one session's events.
func (b *EventBus) Subscribe(sessionID, clientID string) chan stream.Event {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.subscribers[sessionID] == nil {
		b.subscribers[sessionID] = make(map[string]chan stream.Event)
	}
	ch := make(chan stream.Event, 32)
	b.subscribers[sessionID][clientID] = ch
	return ch
}

// Unsubscribe removes a client. The channel is not closed; the handler
// exits through the request context and the channel is collected.
func (b *EventBus) Unsubscribe(sessionID, clientID string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.subscribers[sessionID], clientID)
	if len(b.subscribers[sessionID]) == 0 {
		delete(b.subscribers, sessionID)
	}
}

// handleSSE streams one session's classified events as server-sent events.
func (s *Server) handleSSE(c *gin.Context) {
	sessionID := c.Param("id")
	if !s.sessions.Exists(sessionID) {
		notFound(c, "unknown session "+sessionID)
		return
	}
	clientID := fmt.Sprintf("sse-%d", time.Now().UnixNano())
	ch := s.bus.Subscribe(sessionID, clientID)
	defer func() {
		s.bus.Unsubscribe(sessionID, clientID)
		logger.Debug("sse client disconnected",
			logger.FieldSessionID, sessionID, logger.FieldID, clientID)
	}()

	c.Stream(func(w io.Writer) bool {
		keepalive := time.NewTimer(sseKeepalive)
		defer keepalive.Stop()
		select {
		case ev := <-ch:
			c.SSEvent("event", ev)
			return true
		case <-keepalive.C:
			c.SSEvent("ping", "keepalive")
			return true
		case <-c.Request.Context().Done():
			return false
		}
	})
}
