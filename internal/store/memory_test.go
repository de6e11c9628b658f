package store

import (
	"context"
	"testing"
	"time"

	"github.com/bio-agent/go-bridge-v2/internal/stream"
)

func TestMemoryLogStore_AppendAndTranscript(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryLogStore()

	s.Append(ctx, "s1", "**Reasoning:** first")
	s.Append(ctx, "s1", "<execute>\nrun()\n</execute>")

	got, err := s.Transcript(ctx, "s1")
	if err != nil {
		t.Fatal(err)
	}
	want := "**Reasoning:** first\n\n<execute>\nrun()\n</execute>"
	if got != want {
		t.Fatalf("transcript = %q, want %q", got, want)
	}

	if got, _ := s.Transcript(ctx, "unknown"); got != "" {
		t.Errorf("unknown session transcript = %q, want empty", got)
	}
}

func TestMemoryLogStore_SessionsNewestFirst(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryLogStore()
	s.Append(ctx, "a", "x")
	s.Append(ctx, "b", "y")
	s.Append(ctx, "a", "z") // existing session keeps its slot

	ids, _ := s.Sessions(ctx, 10)
	if len(ids) != 2 || ids[0] != "b" || ids[1] != "a" {
		t.Fatalf("ids = %v, want [b a]", ids)
	}
	ids, _ = s.Sessions(ctx, 1)
	if len(ids) != 1 || ids[0] != "b" {
		t.Fatalf("ids = %v, want [b]", ids)
	}
}

func TestMemoryEventStore_InsertDedupes(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryEventStore()
	ev := stream.Event{
		ID:          "e1",
		Category:    stream.CategoryToolCall,
		Content:     "Executing: blast",
		Metadata:    &stream.Metadata{Tool: "blast", Language: "python"},
		DisplaySide: stream.SideRight,
		Priority:    stream.PriorityMedium,
		Timestamp:   time.Now(),
	}
	s.Insert(ctx, "s1", ev)
	s.Insert(ctx, "s1", ev) // replay of the same event id

	records, err := s.BySession(ctx, "s1", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(records) != 1 {
		t.Fatalf("records = %d, want 1", len(records))
	}
	r := records[0]
	if r.EventID != "e1" || r.Category != "tool_call" || r.DisplaySide != "right" {
		t.Errorf("record = %+v", r)
	}
	if len(r.Metadata) == 0 {
		t.Error("metadata not marshaled")
	}
}

func TestMemoryEventStore_DedupIsPerSession(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryEventStore()
	// identical blocks in two sessions hit the shared cache and carry the
	// same event id; both sessions must still keep their record
	ev := stream.Event{ID: "e1", Category: stream.CategoryError, Content: "Error: BLAST unreachable"}
	s.Insert(ctx, "a", ev)
	s.Insert(ctx, "b", ev)

	for _, id := range []string{"a", "b"} {
		records, err := s.BySession(ctx, id, 10)
		if err != nil {
			t.Fatal(err)
		}
		if len(records) != 1 {
			t.Fatalf("session %s records = %d, want 1", id, len(records))
		}
	}
}

func TestMemoryEventStore_BySessionLimit(t *testing.T) {
	ctx := context.Background()
	s := NewMemoryEventStore()
	for _, id := range []string{"e1", "e2", "e3"} {
		s.Insert(ctx, "s1", stream.Event{ID: id, Category: stream.CategoryStatus})
	}
	records, _ := s.BySession(ctx, "s1", 2)
	if len(records) != 2 || records[0].EventID != "e1" {
		t.Fatalf("records = %+v, want first two", records)
	}
}
