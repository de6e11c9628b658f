package apiserver

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/bio-agent/go-bridge-v2/internal/replay"
	"github.com/bio-agent/go-bridge-v2/internal/stream"
	pkgerr "github.com/bio-agent/go-bridge-v2/pkg/errors"
	"github.com/bio-agent/go-bridge-v2/pkg/logger"
	"github.com/bio-agent/go-bridge-v2/pkg/util"
)

const defaultEventLimit = 500

type createSessionRequest struct {
	SessionID string `json:"sessionId"`
}

func (s *Server) handleCreateSession(c *gin.Context) {
	var req createSessionRequest
	// body is optional; a missing or blank id gets a generated one
	_ = c.ShouldBindJSON(&req)
	id := util.FirstNonEmpty(req.SessionID)
	if id == "" {
		id = uuid.NewString()
	}
	s.sessions.Create(id)
	created(c, gin.H{"sessionId": id})
}

func (s *Server) handleListSessions(c *gin.Context) {
	success(c, gin.H{"sessions": s.sessions.SessionIDs()})
}

func (s *Server) handleCloseSession(c *gin.Context) {
	id := c.Param("id")
	if !s.sessions.Exists(id) {
		notFound(c, "unknown session "+id)
		return
	}
	s.sessions.Close(id)
	s.hub.CloseSession(id)
	success(c, gin.H{"closed": id})
}

type ingestBlockRequest struct {
	Text string `json:"text" binding:"required"`
}

func (s *Server) handleIngestBlock(c *gin.Context) {
	id := c.Param("id")
	var req ingestBlockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, "invalid_body", "text is required")
		return
	}
	events, err := s.ingest(c.Request.Context(), id, req.Text)
	if err != nil {
		s.respondSessionError(c, id, err)
		return
	}
	success(c, gin.H{"events": events})
}

func (s *Server) handleFinish(c *gin.Context) {
	id := c.Param("id")
	flushed, events, err := s.sessions.Finish(id)
	if err != nil {
		s.respondSessionError(c, id, err)
		return
	}
	if flushed != "" {
		s.appendTranscript(c.Request.Context(), id, flushed)
	}
	s.persistAndPush(c.Request.Context(), id, events)
	success(c, gin.H{"events": events})
}

func (s *Server) handleState(c *gin.Context) {
	id := c.Param("id")
	snap, err := s.sessions.Snapshot(id)
	if err != nil {
		s.respondSessionError(c, id, err)
		return
	}
	success(c, snap)
}

func (s *Server) handleEvents(c *gin.Context) {
	id := c.Param("id")
	limit := defaultEventLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			badRequest(c, "invalid_limit", "limit must be a positive integer")
			return
		}
		limit = n
	}
	records, err := s.events.BySession(c.Request.Context(), id, limit)
	if err != nil {
		serverError(c, err)
		return
	}
	logger.Debug("stored events fetched",
		logger.String(logger.FieldSessionID, id),
		logger.Int64(logger.FieldCount, int64(len(records))))
	success(c, gin.H{"events": records})
}

// handleReplay re-derives the event sequence for a stored transcript through
// the same pipeline the live stream used. The replay pipeline shares the
// process-wide cache, so byte-identical blocks yield byte-identical events.
func (s *Server) handleReplay(c *gin.Context) {
	id := c.Param("id")
	transcript, err := s.logs.Transcript(c.Request.Context(), id)
	if err != nil {
		serverError(c, err)
		return
	}
	if transcript == "" {
		notFound(c, "no stored log for session "+id)
		return
	}
	pipeline := stream.NewPipeline(s.cache, s.summaryLimit)
	events := replay.Parse(transcript, pipeline)
	success(c, gin.H{"events": events})
}

func (s *Server) handleMarkStep(c *gin.Context) {
	id := c.Param("id")
	stepID := c.Param("stepId")
	if err := s.sessions.MarkStepCompleted(id, stepID); err != nil {
		s.respondSessionError(c, id, err)
		return
	}
	success(c, gin.H{"completed": stepID})
}

// appendTranscript records one raw block in the session log. Best-effort;
// classification proceeds when the store fails.
func (s *Server) appendTranscript(ctx context.Context, sessionID, text string) {
	if err := s.logs.Append(ctx, sessionID, text); err != nil {
		logger.Warn("transcript append failed",
			logger.String(logger.FieldSessionID, sessionID),
			logger.Any(logger.FieldError, err))
	}
}

// ingest runs one raw block through the session and fans the results out to
// the log store, the event store and connected clients.
func (s *Server) ingest(ctx context.Context, sessionID, text string) ([]stream.Event, error) {
	s.appendTranscript(ctx, sessionID, text)
	events, err := s.sessions.ProcessBlock(sessionID, text)
	if err != nil {
		return nil, err
	}
	s.persistAndPush(ctx, sessionID, events)
	return events, nil
}

func (s *Server) persistAndPush(ctx context.Context, sessionID string, events []stream.Event) {
	for _, ev := range events {
		if err := s.events.Insert(ctx, sessionID, ev); err != nil {
			logger.Warn("event persist failed",
				logger.FieldSessionID, sessionID,
				logger.FieldEventType, string(ev.Category),
				logger.FieldError, err)
		}
		s.hub.Broadcast(sessionID, ev)
		s.bus.Publish(sessionID, ev)
	}
}

func (s *Server) respondSessionError(c *gin.Context, id string, err error) {
	switch {
	case errors.Is(err, pkgerr.ErrNotFound):
		notFound(c, "unknown session "+id)
	case errors.Is(err, pkgerr.ErrSessionClosed):
		conflict(c, "session "+id+" is finished")
	default:
		serverError(c, err)
	}
}
