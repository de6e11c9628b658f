package session

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"

	"github.com/bio-agent/go-bridge-v2/internal/stream"
)

// PlanTracker holds one session's plan-step list and suppresses duplicate
// planning events by structural hash. Not safe for concurrent use; the
// owning Manager serializes access.
type PlanTracker struct {
	steps    []stream.PlanStep
	hash     string
	onUpdate func([]stream.PlanStep)
}

// NewPlanTracker creates an empty tracker. onUpdate may be nil; when set it
// fires once per effective plan mutation, never for discarded duplicates.
func NewPlanTracker(onUpdate func([]stream.PlanStep)) *PlanTracker {
	return &PlanTracker{onUpdate: onUpdate}
}

// Replace swaps in a new step list wholesale. A payload structurally equal
// to the previous planning event is discarded; reports whether the plan
// changed.
func (t *PlanTracker) Replace(steps []stream.PlanStep) bool {
	h := hashSteps(steps)
	if h == t.hash {
		return false
	}
	t.steps = make([]stream.PlanStep, len(steps))
	copy(t.steps, steps)
	t.hash = h
	t.notify()
	return true
}

// Reset clears the plan and the duplicate-suppression hash.
func (t *PlanTracker) Reset() {
	t.steps = nil
	t.hash = ""
	t.notify()
}

// MarkCompleted completes a single step by id, independent of the stream.
// Reports whether the step existed and was not already completed.
func (t *PlanTracker) MarkCompleted(id string) bool {
	for i := range t.steps {
		if t.steps[i].ID != id {
			continue
		}
		if t.steps[i].Completed {
			return false
		}
		t.steps[i].Completed = true
		t.steps[i].Source = "manual"
		t.notify()
		return true
	}
	return false
}

// CompleteThrough marks the first n steps completed. Completion is
// monotonic: already-completed steps stay completed. Reports whether any
// step changed.
func (t *PlanTracker) CompleteThrough(n int) bool {
	if n > len(t.steps) {
		n = len(t.steps)
	}
	changed := false
	for i := 0; i < n; i++ {
		if !t.steps[i].Completed {
			t.steps[i].Completed = true
			changed = true
		}
	}
	if changed {
		t.notify()
	}
	return changed
}

// CompleteLast marks the final step completed. Earlier steps the agent
// never reached stay untouched. Reports whether the step changed.
func (t *PlanTracker) CompleteLast() bool {
	n := len(t.steps)
	if n == 0 || t.steps[n-1].Completed {
		return false
	}
	t.steps[n-1].Completed = true
	t.notify()
	return true
}

// Steps returns a copy of the current plan.
func (t *PlanTracker) Steps() []stream.PlanStep {
	out := make([]stream.PlanStep, len(t.steps))
	copy(out, t.steps)
	return out
}

// Len reports the current step count.
func (t *PlanTracker) Len() int { return len(t.steps) }

func (t *PlanTracker) notify() {
	if t.onUpdate != nil {
		t.onUpdate(t.Steps())
	}
}

// hashSteps derives a structural fingerprint of a step payload. JSON
// marshaling of the slice is canonical here: field order is fixed by the
// struct definition.
func hashSteps(steps []stream.PlanStep) string {
	raw, err := json.Marshal(steps)
	if err != nil {
		// PlanStep contains only marshalable scalar fields
		return ""
	}
	sum := sha256.Sum256(raw)
	return hex.EncodeToString(sum[:])
}
