package session

import "github.com/bio-agent/go-bridge-v2/internal/stream"

// TraceMatcher decides which trace entry an observation completes. The
// matching rule is positional today; keying by an explicit call id would slot
// in behind the same interface.
type TraceMatcher interface {
	// MatchObservation returns the index of the trace entry the observation
	// resolves, or -1 when nothing matches.
	MatchObservation(trace []TraceEntry) int
}

// backwardScanMatcher picks the most recent still-active tool call.
type backwardScanMatcher struct{}

func (backwardScanMatcher) MatchObservation(trace []TraceEntry) int {
	for i := len(trace) - 1; i >= 0; i-- {
		if trace[i].Category == stream.CategoryToolCall && trace[i].Status == StatusActive {
			return i
		}
	}
	return -1
}
