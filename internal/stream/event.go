// Package stream classifies raw agent output blocks into typed, routable
// events.
//
// The pipeline is pure computation over strings: classify → extract →
// summarize → route, fronted by a memoizing cache. One block in, one
// classified event out; the same code path serves live streaming and
// offline log replay.
package stream

import "time"

// Category is the closed set of event classifications.
type Category string

const (
	CategoryReasoning     Category = "reasoning"
	CategoryPlanning      Category = "planning"
	CategoryToolCall      Category = "tool_call"
	CategoryObservation   Category = "observation"
	CategoryFinalAnswer   Category = "final_answer"
	CategoryError         Category = "error"
	CategoryStatus        Category = "status"
	CategoryVisualization Category = "visualization"
)

// DisplaySide says which UI surface consumes an event.
type DisplaySide string

const (
	SideLeft  DisplaySide = "left"  // conversation answer stream
	SideRight DisplaySide = "right" // execution trace stream
	SideBoth  DisplaySide = "both"
)

// Priority is the event delivery priority.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// PlanStep is one checklist entry extracted from a planning block.
type PlanStep struct {
	ID        string `json:"id"`
	Number    int    `json:"number"`
	Text      string `json:"text"`
	Completed bool   `json:"completed"`
	Failed    bool   `json:"failed,omitempty"`
	Source    string `json:"source,omitempty"` // "stream" | "manual"
}

// Metadata is the category-specific structured payload. Fields not relevant
// to the category stay zero and are omitted from JSON.
type Metadata struct {
	Tool          string     `json:"tool,omitempty"`
	Code          string     `json:"code,omitempty"`
	Language      string     `json:"language,omitempty"`
	Steps         []PlanStep `json:"steps,omitempty"`
	Observation   string     `json:"observation,omitempty"`
	HasErrors     bool       `json:"has_errors,omitempty"`
	Solution      string     `json:"solution,omitempty"`
	Library       string     `json:"library,omitempty"`
	ProducesImage bool       `json:"produces_image,omitempty"`
}

// Event is the classified output unit handed to the state machine, the
// persistence layer, and connected UI clients.
type Event struct {
	ID          string      `json:"id"`
	Category    Category    `json:"category"`
	Content     string      `json:"content"` // bounded summary, never the raw block
	Metadata    *Metadata   `json:"metadata,omitempty"`
	DisplaySide DisplaySide `json:"displaySide"`
	Priority    Priority    `json:"priority"`
	Timestamp   time.Time   `json:"timestamp"`
}
