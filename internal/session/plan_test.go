package session

import (
	"testing"

	"github.com/bio-agent/go-bridge-v2/internal/stream"
)

func threeSteps() []stream.PlanStep {
	return []stream.PlanStep{
		{ID: "step-1", Number: 1, Text: "Extract DNA", Source: "stream"},
		{ID: "step-2", Number: 2, Text: "Run PCR", Source: "stream"},
		{ID: "step-3", Number: 3, Text: "Sequence sample", Source: "stream"},
	}
}

func TestPlanTracker_ReplaceDedupes(t *testing.T) {
	calls := 0
	tr := NewPlanTracker(func([]stream.PlanStep) { calls++ })

	if !tr.Replace(threeSteps()) {
		t.Fatal("first Replace reported no change")
	}
	if tr.Replace(threeSteps()) {
		t.Fatal("identical payload was not discarded")
	}
	if calls != 1 {
		t.Fatalf("callback fired %d times, want 1", calls)
	}

	changed := threeSteps()
	changed[1].Completed = true
	if !tr.Replace(changed) {
		t.Fatal("structurally different payload was discarded")
	}
	if calls != 2 {
		t.Fatalf("callback fired %d times, want 2", calls)
	}
}

func TestPlanTracker_Reset(t *testing.T) {
	tr := NewPlanTracker(nil)
	tr.Replace(threeSteps())
	tr.Reset()
	if tr.Len() != 0 {
		t.Fatalf("Len = %d after Reset, want 0", tr.Len())
	}
	// hash cleared: the old payload is new again
	if !tr.Replace(threeSteps()) {
		t.Fatal("Replace after Reset treated payload as duplicate")
	}
}

func TestPlanTracker_MarkCompleted(t *testing.T) {
	calls := 0
	tr := NewPlanTracker(func([]stream.PlanStep) { calls++ })
	tr.Replace(threeSteps())
	calls = 0

	if !tr.MarkCompleted("step-2") {
		t.Fatal("MarkCompleted(step-2) = false")
	}
	steps := tr.Steps()
	if !steps[1].Completed || steps[1].Source != "manual" {
		t.Errorf("step 2 = %+v, want manual completion", steps[1])
	}
	if calls != 1 {
		t.Errorf("callback fired %d times, want 1", calls)
	}
	if tr.MarkCompleted("step-2") {
		t.Error("re-completing a step reported a change")
	}
	if tr.MarkCompleted("step-99") {
		t.Error("unknown id reported a change")
	}
}

func TestPlanTracker_CompleteThroughMonotonic(t *testing.T) {
	tr := NewPlanTracker(nil)
	tr.Replace(threeSteps())

	if !tr.CompleteThrough(2) {
		t.Fatal("CompleteThrough(2) reported no change")
	}
	if tr.CompleteThrough(1) {
		t.Fatal("shrinking the bound reverted completions")
	}
	steps := tr.Steps()
	if !steps[0].Completed || !steps[1].Completed || steps[2].Completed {
		t.Fatalf("steps = %+v, want first two completed", steps)
	}

	// bound past the end clamps
	if !tr.CompleteThrough(10) {
		t.Fatal("CompleteThrough past end reported no change")
	}
	if !tr.Steps()[2].Completed {
		t.Error("third step not completed")
	}
}

func TestPlanTracker_CompleteLast(t *testing.T) {
	tr := NewPlanTracker(nil)
	if tr.CompleteLast() {
		t.Fatal("CompleteLast on empty plan reported a change")
	}
	tr.Replace(threeSteps())

	if !tr.CompleteLast() {
		t.Fatal("CompleteLast reported no change")
	}
	steps := tr.Steps()
	if steps[0].Completed || steps[1].Completed {
		t.Fatalf("steps = %+v, want earlier steps untouched", steps)
	}
	if !steps[2].Completed {
		t.Fatal("last step not completed")
	}
	if tr.CompleteLast() {
		t.Error("re-completing the last step reported a change")
	}
}

func TestPlanTracker_StepsIsACopy(t *testing.T) {
	tr := NewPlanTracker(nil)
	tr.Replace(threeSteps())
	got := tr.Steps()
	got[0].Text = "mutated"
	if tr.Steps()[0].Text != "Extract DNA" {
		t.Fatal("Steps returned internal slice, want copy")
	}
}
