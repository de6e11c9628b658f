// event.go — Postgres persistence of classified events.
package store

import (
	"context"
	"encoding/json"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bio-agent/go-bridge-v2/internal/stream"
	pkgerr "github.com/bio-agent/go-bridge-v2/pkg/errors"
)

// PGEventStore persists events into session_events.
type PGEventStore struct{ BaseStore }

// NewPGEventStore creates a Postgres-backed event store.
func NewPGEventStore(pool *pgxpool.Pool) *PGEventStore {
	return &PGEventStore{NewBaseStore(pool)}
}

// Insert stores one classified event. Replays within a session carry the
// same event id and are ignored on conflict; the conflict target includes
// session_id because the shared classification cache hands the same event
// to every session that submits an identical block.
func (s *PGEventStore) Insert(ctx context.Context, sessionID string, ev stream.Event) error {
	var meta []byte
	if ev.Metadata != nil {
		raw, err := json.Marshal(ev.Metadata)
		if err != nil {
			return pkgerr.Wrap(err, "PGEventStore.Insert", "marshal metadata")
		}
		meta = raw
	}
	_, err := s.pool.Exec(ctx,
		`INSERT INTO session_events
		   (event_id, session_id, category, content, display_side, priority, metadata, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		 ON CONFLICT (session_id, event_id) DO NOTHING`,
		ev.ID, sessionID, string(ev.Category), ev.Content,
		string(ev.DisplaySide), string(ev.Priority), meta, ev.Timestamp,
	)
	if err != nil {
		return pkgerr.Wrap(err, "PGEventStore.Insert", sessionID)
	}
	return nil
}

// BySession returns a session's stored events in emission order.
func (s *PGEventStore) BySession(ctx context.Context, sessionID string, limit int) ([]EventRecord, error) {
	sql, params := NewQueryBuilder().
		Eq("session_id", sessionID).
		Build(
			`SELECT id, event_id, session_id, category, content,
			        display_side, priority, metadata, created_at
			 FROM session_events`,
			"id", limit,
		)
	rows, err := s.pool.Query(ctx, sql, params...)
	if err != nil {
		return nil, pkgerr.Wrap(err, "PGEventStore.BySession", sessionID)
	}
	records, err := collectRows[EventRecord](rows)
	if err != nil {
		return nil, pkgerr.Wrap(err, "PGEventStore.BySession", sessionID)
	}
	return records, nil
}
