package store

import "time"

// SessionLog is one appended raw-block row of a session transcript.
type SessionLog struct {
	ID        int64     `db:"id" json:"id"`
	SessionID string    `db:"session_id" json:"sessionId"`
	Content   string    `db:"content" json:"content"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
}

// EventRecord is a persisted classified event.
type EventRecord struct {
	ID          int64     `db:"id" json:"-"`
	EventID     string    `db:"event_id" json:"eventId"`
	SessionID   string    `db:"session_id" json:"sessionId"`
	Category    string    `db:"category" json:"category"`
	Content     string    `db:"content" json:"content"`
	DisplaySide string    `db:"display_side" json:"displaySide"`
	Priority    string    `db:"priority" json:"priority"`
	Metadata    []byte    `db:"metadata" json:"metadata,omitempty"`
	CreatedAt   time.Time `db:"created_at" json:"createdAt"`
}
