// session_log.go — Postgres transcript persistence.
package store

import (
	"context"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	pkgerr "github.com/bio-agent/go-bridge-v2/pkg/errors"
)

// SessionLogStore persists raw blocks in arrival order.
type SessionLogStore struct{ BaseStore }

// NewSessionLogStore creates a Postgres-backed log store.
func NewSessionLogStore(pool *pgxpool.Pool) *SessionLogStore {
	return &SessionLogStore{NewBaseStore(pool)}
}

// Append stores one raw block at the end of the session transcript.
func (s *SessionLogStore) Append(ctx context.Context, sessionID, content string) error {
	_, err := s.pool.Exec(ctx,
		`INSERT INTO session_logs (session_id, content) VALUES ($1, $2)`,
		sessionID, content,
	)
	if err != nil {
		return pkgerr.Wrap(err, "SessionLogStore.Append", sessionID)
	}
	return nil
}

// Transcript returns the session's blocks joined in insertion order,
// separated by blank lines. An unknown session yields an empty transcript.
func (s *SessionLogStore) Transcript(ctx context.Context, sessionID string) (string, error) {
	rows, err := s.pool.Query(ctx,
		`SELECT id, session_id, content, created_at FROM session_logs
		 WHERE session_id = $1 ORDER BY id`,
		sessionID,
	)
	if err != nil {
		return "", pkgerr.Wrap(err, "SessionLogStore.Transcript", sessionID)
	}
	logs, err := collectRows[SessionLog](rows)
	if err != nil {
		return "", pkgerr.Wrap(err, "SessionLogStore.Transcript", sessionID)
	}
	parts := make([]string, 0, len(logs))
	for _, l := range logs {
		parts = append(parts, l.Content)
	}
	return strings.Join(parts, "\n\n"), nil
}

// Sessions lists session ids with stored transcripts, newest first.
func (s *SessionLogStore) Sessions(ctx context.Context, limit int) ([]string, error) {
	sql, params := NewQueryBuilder().Build(
		`SELECT DISTINCT session_id, MAX(id) AS latest FROM session_logs
		 GROUP BY session_id`,
		"latest DESC", limit,
	)
	rows, err := s.pool.Query(ctx, sql, params...)
	if err != nil {
		return nil, pkgerr.Wrap(err, "SessionLogStore.Sessions", "query")
	}
	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id string
		var latest int64
		if err := rows.Scan(&id, &latest); err != nil {
			return nil, pkgerr.Wrap(err, "SessionLogStore.Sessions", "scan")
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}
