package store

import (
	"context"

	"github.com/bio-agent/go-bridge-v2/internal/stream"
)

// LogStore keeps the append-only raw block transcript per session. The
// replay path reads the joined transcript back.
type LogStore interface {
	Append(ctx context.Context, sessionID, content string) error
	Transcript(ctx context.Context, sessionID string) (string, error)
	Sessions(ctx context.Context, limit int) ([]string, error)
}

// EventStore keeps classified events for later retrieval.
type EventStore interface {
	Insert(ctx context.Context, sessionID string, ev stream.Event) error
	BySession(ctx context.Context, sessionID string, limit int) ([]EventRecord, error)
}
