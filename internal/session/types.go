// Package session derives per-conversation UI state from classified stream
// events. One Manager serves many sessions; each session's state is mutated
// by exactly one goroutine at a time through the manager's lock.
package session

import (
	"time"

	"github.com/bio-agent/go-bridge-v2/internal/stream"
)

// TraceStatus is the lifecycle of an execution trace entry.
type TraceStatus string

const (
	StatusPending   TraceStatus = "pending"
	StatusActive    TraceStatus = "active"
	StatusCompleted TraceStatus = "completed"
	StatusError     TraceStatus = "error"
)

// Message is a left-panel conversation entry.
type Message struct {
	ID        string    `json:"id"`
	Text      string    `json:"text"`
	Timestamp time.Time `json:"timestamp"`
}

// TraceEntry is one right-panel execution trace row.
type TraceEntry struct {
	ID         string          `json:"id"`
	Category   stream.Category `json:"category"`
	Content    string          `json:"content"`
	Status     TraceStatus     `json:"status"`
	StepNumber int             `json:"stepNumber,omitempty"`
	TotalSteps int             `json:"totalSteps,omitempty"`
	Tool       string          `json:"tool,omitempty"`
	Timestamp  time.Time       `json:"timestamp"`
}

// Snapshot is a deep copy of one session's derived state, safe to hand to
// JSON encoders and UI clients.
type Snapshot struct {
	SessionID       string            `json:"sessionId"`
	Messages        []Message         `json:"messages"`
	Trace           []TraceEntry      `json:"trace"`
	Plan            []stream.PlanStep `json:"plan"`
	ToolCallCount   int               `json:"toolCallCount"`
	TotalSteps      int               `json:"totalSteps"`
	ActiveTool      string            `json:"activeTool,omitempty"`
	CurrentThinking string            `json:"currentThinking,omitempty"`
	Done            bool              `json:"done"`
}
