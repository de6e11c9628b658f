package session

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/bio-agent/go-bridge-v2/internal/stream"
	pkgerr "github.com/bio-agent/go-bridge-v2/pkg/errors"
	"github.com/bio-agent/go-bridge-v2/pkg/logger"
	"github.com/bio-agent/go-bridge-v2/pkg/util"
)

// finalAnswerBanner prefixes the left-panel message produced by a final
// answer event.
const finalAnswerBanner = "=== FINAL PROTOCOL ==="

// defaultEnrichTimeout bounds a single fire-and-forget enrichment call.
const defaultEnrichTimeout = 30 * time.Second

// Manager owns the execution state of all live sessions. Blocks of one
// session are applied strictly in arrival order; distinct sessions share
// nothing but the classification cache inside the pipelines.
type Manager struct {
	mu       sync.RWMutex
	sessions map[string]*sessionState

	cache         *stream.LRUCache
	summaryLimit  int
	matcher       TraceMatcher
	enricher      stream.Enricher
	enrichTimeout time.Duration
	newID         func() string
}

type sessionState struct {
	pipeline *stream.Pipeline
	plan     *PlanTracker

	messages        []Message
	trace           []TraceEntry
	toolCalls       int
	totalSteps      int
	activeTool      string
	currentThinking string
	partial         strings.Builder
	lastFinalTS     time.Time
	done            bool
}

// NewManager builds a manager whose pipelines share cache. A nil cache gets
// a default-capacity one; a nil enricher disables enrichment.
func NewManager(cache *stream.LRUCache, summaryLimit int, enricher stream.Enricher) *Manager {
	if cache == nil {
		cache = stream.NewLRUCache(stream.DefaultCacheCapacity)
	}
	return &Manager{
		sessions:      make(map[string]*sessionState),
		cache:         cache,
		summaryLimit:  summaryLimit,
		matcher:       backwardScanMatcher{},
		enricher:      enricher,
		enrichTimeout: defaultEnrichTimeout,
		newID:         uuid.NewString,
	}
}

// WithMatcher overrides the observation matching rule. Test hook.
func (m *Manager) WithMatcher(matcher TraceMatcher) *Manager {
	m.matcher = matcher
	return m
}

// WithEnrichTimeout overrides the per-call enrichment deadline.
func (m *Manager) WithEnrichTimeout(d time.Duration) *Manager {
	if d > 0 {
		m.enrichTimeout = d
	}
	return m
}

// Create registers a session id. Creating an existing id is a no-op.
func (m *Manager) Create(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ensureSessionLocked(sessionID)
}

// Exists reports whether the session is live.
func (m *Manager) Exists(sessionID string) bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	_, ok := m.sessions[sessionID]
	return ok
}

// ProcessBlock runs one raw block through the session's pipeline and applies
// the resulting events to its state. The events are returned for persistence
// and push delivery.
func (m *Manager) ProcessBlock(sessionID, block string) ([]stream.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.sessions[sessionID]
	if !ok {
		return nil, pkgerr.Wrap(pkgerr.ErrNotFound, "Manager.ProcessBlock", "unknown session "+sessionID)
	}
	if st.done {
		return nil, pkgerr.Wrap(pkgerr.ErrSessionClosed, "Manager.ProcessBlock", sessionID)
	}
	return m.processLocked(sessionID, st, block), nil
}

// Buffer accumulates a partial chunk that has not reached a block boundary
// yet. Finish flushes whatever is buffered.
func (m *Manager) Buffer(sessionID, chunk string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.sessions[sessionID]
	if !ok {
		return pkgerr.Wrap(pkgerr.ErrNotFound, "Manager.Buffer", "unknown session "+sessionID)
	}
	if st.done {
		return pkgerr.Wrap(pkgerr.ErrSessionClosed, "Manager.Buffer", sessionID)
	}
	st.partial.WriteString(chunk)
	return nil
}

// Finish handles the transport's out-of-band done signal: any buffered
// partial block is flushed through the pipeline, then the session stops
// accepting input. Returns the flushed block and its derived events; the
// caller owns persisting the block to the transcript so batch replay sees
// the same content the live stream did.
func (m *Manager) Finish(sessionID string) (string, []stream.Event, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.sessions[sessionID]
	if !ok {
		return "", nil, pkgerr.Wrap(pkgerr.ErrNotFound, "Manager.Finish", "unknown session "+sessionID)
	}
	if st.done {
		return "", nil, nil
	}
	var events []stream.Event
	flushed := strings.TrimSpace(st.partial.String())
	if flushed != "" {
		events = m.processLocked(sessionID, st, flushed)
	}
	st.partial.Reset()
	st.done = true
	return flushed, events, nil
}

// MarkStepCompleted completes one plan step by id, outside the streamed
// plan. Unknown ids are reported via ErrNotFound.
func (m *Manager) MarkStepCompleted(sessionID, stepID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.sessions[sessionID]
	if !ok {
		return pkgerr.Wrap(pkgerr.ErrNotFound, "Manager.MarkStepCompleted", "unknown session "+sessionID)
	}
	if !st.plan.MarkCompleted(stepID) {
		return pkgerr.Wrap(pkgerr.ErrNotFound, "Manager.MarkStepCompleted", "step "+stepID)
	}
	return nil
}

// Snapshot returns a deep copy of the session's derived state.
func (m *Manager) Snapshot(sessionID string) (Snapshot, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	st, ok := m.sessions[sessionID]
	if !ok {
		return Snapshot{}, pkgerr.Wrap(pkgerr.ErrNotFound, "Manager.Snapshot", "unknown session "+sessionID)
	}
	snap := Snapshot{
		SessionID:       sessionID,
		Messages:        make([]Message, len(st.messages)),
		Trace:           make([]TraceEntry, len(st.trace)),
		Plan:            st.plan.Steps(),
		ToolCallCount:   st.toolCalls,
		TotalSteps:      st.totalSteps,
		ActiveTool:      st.activeTool,
		CurrentThinking: st.currentThinking,
		Done:            st.done,
	}
	copy(snap.Messages, st.messages)
	copy(snap.Trace, st.trace)
	return snap, nil
}

// Close tears a session down, discarding its state machine and plan.
func (m *Manager) Close(sessionID string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, sessionID)
}

// SessionIDs lists the live sessions.
func (m *Manager) SessionIDs() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	ids := make([]string, 0, len(m.sessions))
	for id := range m.sessions {
		ids = append(ids, id)
	}
	return ids
}

func (m *Manager) ensureSessionLocked(sessionID string) *sessionState {
	if st, ok := m.sessions[sessionID]; ok {
		return st
	}
	st := &sessionState{
		pipeline: stream.NewPipeline(m.cache, m.summaryLimit),
		plan:     NewPlanTracker(nil),
	}
	m.sessions[sessionID] = st
	return st
}

func (m *Manager) processLocked(sessionID string, st *sessionState, block string) []stream.Event {
	events := st.pipeline.Process(block)
	for _, ev := range events {
		m.applyLocked(st, ev)
		m.enrichAsync(sessionID, block, ev)
	}
	return events
}

// applyLocked mutates the session projections for one event.
func (m *Manager) applyLocked(st *sessionState, ev stream.Event) {
	switch ev.Category {
	case stream.CategoryReasoning:
		st.currentThinking = ev.Content

	case stream.CategoryPlanning:
		if ev.Metadata == nil || len(ev.Metadata.Steps) == 0 {
			return
		}
		if st.plan.Replace(ev.Metadata.Steps) {
			st.totalSteps = len(ev.Metadata.Steps)
		}

	case stream.CategoryToolCall, stream.CategoryVisualization:
		st.toolCalls++
		st.activeTool = toolName(ev)
		st.plan.CompleteThrough(st.toolCalls)
		st.trace = append(st.trace, TraceEntry{
			ID:         ev.ID,
			Category:   stream.CategoryToolCall,
			Content:    ev.Content,
			Status:     StatusActive,
			StepNumber: st.toolCalls,
			TotalSteps: st.totalSteps,
			Tool:       st.activeTool,
			Timestamp:  ev.Timestamp,
		})

	case stream.CategoryObservation:
		st.activeTool = ""
		if i := m.matcher.MatchObservation(st.trace); i >= 0 {
			st.trace[i].Status = StatusCompleted
		}
		// no matching active tool call is a tolerated mismatch

	case stream.CategoryFinalAnswer:
		if !ev.Timestamp.Equal(st.lastFinalTS) {
			st.messages = append(st.messages, Message{
				ID:        ev.ID,
				Text:      finalAnswerBanner + "\n" + finalAnswerText(ev),
				Timestamp: ev.Timestamp,
			})
			st.lastFinalTS = ev.Timestamp
		}
		st.plan.CompleteLast()
		st.activeTool = ""
		st.currentThinking = ""

	case stream.CategoryError:
		st.trace = append(st.trace, TraceEntry{
			ID:        ev.ID,
			Category:  stream.CategoryError,
			Content:   ev.Content,
			Status:    StatusError,
			Timestamp: ev.Timestamp,
		})

	case stream.CategoryStatus:
		// status events mutate no projections
	}
}

// enrichAsync fires the best-effort deep-analysis call. Its result lands in
// the trace when it arrives; failures are logged and dropped.
func (m *Manager) enrichAsync(sessionID, block string, ev stream.Event) {
	if m.enricher == nil {
		return
	}
	switch ev.Category {
	case stream.CategoryToolCall, stream.CategoryVisualization, stream.CategoryFinalAnswer:
	default:
		return
	}
	entryID := m.newID()
	util.SafeGo(func() {
		ctx, cancel := context.WithTimeout(context.Background(), m.enrichTimeout)
		defer cancel()
		note, err := m.enricher.Enrich(ctx, block, ev)
		if err != nil {
			logger.Warn("enrichment failed",
				logger.FieldSessionID, sessionID,
				logger.FieldEventType, string(ev.Category),
				logger.FieldError, err,
			)
			return
		}
		if note == "" {
			return
		}
		m.appendEnrichment(sessionID, entryID, note)
	})
}

func (m *Manager) appendEnrichment(sessionID, entryID, note string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	st, ok := m.sessions[sessionID]
	if !ok {
		// session torn down while the call was in flight
		return
	}
	st.trace = append(st.trace, TraceEntry{
		ID:        entryID,
		Category:  stream.CategoryStatus,
		Content:   note,
		Status:    StatusCompleted,
		Timestamp: time.Now(),
	})
}

func toolName(ev stream.Event) string {
	if ev.Metadata != nil && ev.Metadata.Tool != "" {
		return ev.Metadata.Tool
	}
	return "python"
}

func finalAnswerText(ev stream.Event) string {
	if ev.Metadata != nil && ev.Metadata.Solution != "" {
		return ev.Metadata.Solution
	}
	return ev.Content
}
