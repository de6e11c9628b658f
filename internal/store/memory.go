// memory.go — in-memory stores for DSN-less runs and tests.
package store

import (
	"context"
	"encoding/json"
	"strings"
	"sync"

	"github.com/bio-agent/go-bridge-v2/internal/stream"
)

// MemoryLogStore keeps transcripts in process memory. Data does not survive
// a restart; replay still works within the process lifetime.
type MemoryLogStore struct {
	mu     sync.RWMutex
	blocks map[string][]string
	order  []string
}

// NewMemoryLogStore creates an empty in-memory log store.
func NewMemoryLogStore() *MemoryLogStore {
	return &MemoryLogStore{blocks: make(map[string][]string)}
}

func (s *MemoryLogStore) Append(_ context.Context, sessionID, content string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.blocks[sessionID]; !ok {
		s.order = append(s.order, sessionID)
	}
	s.blocks[sessionID] = append(s.blocks[sessionID], content)
	return nil
}

func (s *MemoryLogStore) Transcript(_ context.Context, sessionID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return strings.Join(s.blocks[sessionID], "\n\n"), nil
}

func (s *MemoryLogStore) Sessions(_ context.Context, limit int) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	// newest first, mirroring the SQL implementation
	ids := make([]string, 0, len(s.order))
	for i := len(s.order) - 1; i >= 0 && len(ids) < limit; i-- {
		ids = append(ids, s.order[i])
	}
	return ids, nil
}

// MemoryEventStore keeps classified events in process memory.
type MemoryEventStore struct {
	mu     sync.RWMutex
	events map[string][]EventRecord
	seen   map[string]map[string]bool // session id -> event ids
	nextID int64
}

// NewMemoryEventStore creates an empty in-memory event store.
func NewMemoryEventStore() *MemoryEventStore {
	return &MemoryEventStore{
		events: make(map[string][]EventRecord),
		seen:   make(map[string]map[string]bool),
	}
}

// Insert dedupes per session, mirroring the SQL (session_id, event_id)
// conflict target: cache hits replay the same event id across sessions.
func (s *MemoryEventStore) Insert(_ context.Context, sessionID string, ev stream.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.seen[sessionID][ev.ID] {
		return nil
	}
	if s.seen[sessionID] == nil {
		s.seen[sessionID] = make(map[string]bool)
	}
	s.seen[sessionID][ev.ID] = true
	var meta []byte
	if ev.Metadata != nil {
		meta, _ = json.Marshal(ev.Metadata)
	}
	s.nextID++
	s.events[sessionID] = append(s.events[sessionID], EventRecord{
		ID:          s.nextID,
		EventID:     ev.ID,
		SessionID:   sessionID,
		Category:    string(ev.Category),
		Content:     ev.Content,
		DisplaySide: string(ev.DisplaySide),
		Priority:    string(ev.Priority),
		Metadata:    meta,
		CreatedAt:   ev.Timestamp,
	})
	return nil
}

func (s *MemoryEventStore) BySession(_ context.Context, sessionID string, limit int) ([]EventRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	src := s.events[sessionID]
	if limit > 0 && limit < len(src) {
		src = src[:limit]
	}
	out := make([]EventRecord, len(src))
	copy(out, src)
	return out, nil
}
