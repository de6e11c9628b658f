package stream

import (
	"strings"
	"testing"
	"time"
)

func TestPipeline_ProcessSingleBlock(t *testing.T) {
	p := NewPipeline(nil, 0)
	events := p.Process("<execute>\nfrom biotools import blast_search\n</execute>")
	if len(events) != 1 {
		t.Fatalf("got %d events, want 1", len(events))
	}
	ev := events[0]
	if ev.Category != CategoryToolCall {
		t.Errorf("Category = %q, want tool_call", ev.Category)
	}
	if ev.Content != "Executing: blast_search" {
		t.Errorf("Content = %q", ev.Content)
	}
	if ev.DisplaySide != SideRight {
		t.Errorf("DisplaySide = %q, want right", ev.DisplaySide)
	}
	if ev.ID == "" {
		t.Error("ID empty, want generated")
	}
	if ev.Timestamp.IsZero() {
		t.Error("Timestamp zero, want assigned")
	}
}

func TestPipeline_EmptyBlock(t *testing.T) {
	p := NewPipeline(nil, 0)
	if events := p.Process(""); events != nil {
		t.Fatalf("Process(\"\") = %v, want nil", events)
	}
}

func TestPipeline_CacheHitReturnsSameEvents(t *testing.T) {
	p := NewPipeline(NewLRUCache(8), 0)
	block := "**Reasoning:** the plasmid backbone must carry a selection marker"
	first := p.Process(block)
	second := p.Process(block)
	if len(second) != 1 || second[0].ID != first[0].ID {
		t.Fatalf("cache hit produced new event ID %q, want %q", second[0].ID, first[0].ID)
	}
	if !second[0].Timestamp.Equal(first[0].Timestamp) {
		t.Errorf("cache hit changed timestamp")
	}
}

func TestPipeline_SharedPrefixHitsCache(t *testing.T) {
	p := NewPipeline(NewLRUCache(8), 0)
	prefix := strings.Repeat("x", 100)
	a := p.Process(prefix + " tail one")
	b := p.Process(prefix + " completely different tail")
	if a[0].ID != b[0].ID {
		t.Fatalf("blocks sharing a 100-rune prefix classified separately: %q vs %q", a[0].ID, b[0].ID)
	}
}

func TestPipeline_MonotonicTimestamps(t *testing.T) {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	// a clock that jumps backwards
	seq := []time.Time{base, base.Add(time.Second), base.Add(-time.Minute), base.Add(2 * time.Second)}
	i := 0
	p := NewPipeline(NewLRUCache(8), 0).WithClock(func() time.Time {
		ts := seq[i%len(seq)]
		i++
		return ts
	})
	blocks := []string{
		"first status line",
		"second status line",
		"third status line",
		"fourth status line",
	}
	var prev time.Time
	for _, b := range blocks {
		ev := p.Process(b)[0]
		if ev.Timestamp.Before(prev) {
			t.Fatalf("timestamp went backwards: %v after %v", ev.Timestamp, prev)
		}
		prev = ev.Timestamp
	}
}

func TestPipeline_DistinctIDsPerBlock(t *testing.T) {
	p := NewPipeline(NewLRUCache(8), 0)
	a := p.Process("status update alpha")
	b := p.Process("status update beta")
	if a[0].ID == b[0].ID {
		t.Fatal("distinct blocks shared an event ID")
	}
}

func TestPipeline_MixedSessionFlow(t *testing.T) {
	p := NewPipeline(nil, 0)
	flow := []struct {
		block string
		want  Category
	}{
		{"**Reasoning:** need to identify the restriction sites first", CategoryReasoning},
		{"1. [ ] Digest vector\n2. [ ] Ligate insert\n3. [ ] Transform cells", CategoryPlanning},
		{"<execute>\nfrom biotools import digest\ndigest(vector)\n</execute>", CategoryToolCall},
		{"<observation>Digest complete: 2 fragments</observation>", CategoryObservation},
		{"<solution>Ligate at 16C overnight, transform into DH5a</solution>", CategoryFinalAnswer},
	}
	for _, step := range flow {
		events := p.Process(step.block)
		if len(events) != 1 {
			t.Fatalf("block %q produced %d events", step.block, len(events))
		}
		if events[0].Category != step.want {
			t.Errorf("block %q classified %q, want %q", step.block, events[0].Category, step.want)
		}
	}
}
