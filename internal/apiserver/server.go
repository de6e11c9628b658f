// Package apiserver exposes the bridge over HTTP: a REST surface for
// session management and snapshots, and a WebSocket surface for live block
// ingest and event push.
package apiserver

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/bio-agent/go-bridge-v2/internal/session"
	"github.com/bio-agent/go-bridge-v2/internal/store"
	"github.com/bio-agent/go-bridge-v2/internal/stream"
	"github.com/bio-agent/go-bridge-v2/pkg/logger"
)

// Server wires the session manager, the stores and the push hub behind one
// gin engine.
type Server struct {
	router       *gin.Engine
	sessions     *session.Manager
	logs         store.LogStore
	events       store.EventStore
	hub          *Hub
	bus          *EventBus
	cache        *stream.LRUCache
	summaryLimit int

	http *http.Server
}

// Deps carries the server's collaborators.
type Deps struct {
	Sessions     *session.Manager
	Logs         store.LogStore
	Events       store.EventStore
	Cache        *stream.LRUCache
	SummaryLimit int
}

// NewServer builds the engine and registers all routes.
func NewServer(deps Deps) *Server {
	s := &Server{
		router:       gin.Default(),
		sessions:     deps.Sessions,
		logs:         deps.Logs,
		events:       deps.Events,
		hub:          NewHub(),
		bus:          NewEventBus(),
		cache:        deps.Cache,
		summaryLimit: deps.SummaryLimit,
	}
	s.registerRoutes()
	return s
}

// Engine returns the gin engine, mainly for httptest.
func (s *Server) Engine() *gin.Engine { return s.router }

func (s *Server) registerRoutes() {
	s.router.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := s.router.Group("/api")
	{
		api.POST("/sessions", s.handleCreateSession)
		api.GET("/sessions", s.handleListSessions)
		api.DELETE("/sessions/:id", s.handleCloseSession)
		api.POST("/sessions/:id/blocks", s.handleIngestBlock)
		api.POST("/sessions/:id/finish", s.handleFinish)
		api.GET("/sessions/:id/state", s.handleState)
		api.GET("/sessions/:id/events", s.handleEvents)
		api.GET("/sessions/:id/stream", s.handleSSE)
		api.POST("/sessions/:id/replay", s.handleReplay)
		api.POST("/sessions/:id/plan/:stepId/complete", s.handleMarkStep)
	}

	s.router.GET("/ws/sessions/:id", s.handleWebSocket)
}

// Start begins serving on addr. Blocks until the listener fails or Shutdown
// is called.
func (s *Server) Start(addr string) error {
	s.http = &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}
	logger.Info("api server listening", logger.FieldAddr, addr)
	err := s.http.ListenAndServe()
	if err == http.ErrServerClosed {
		return nil
	}
	return err
}

// Shutdown drains in-flight requests and closes push connections.
func (s *Server) Shutdown(ctx context.Context) error {
	s.hub.CloseAll()
	if s.http == nil {
		return nil
	}
	return s.http.Shutdown(ctx)
}
