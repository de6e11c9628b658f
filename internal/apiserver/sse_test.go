package apiserver

import (
	"testing"

	"github.com/bio-agent/go-bridge-v2/internal/stream"
)

func TestEventBus_PublishReachesSubscribers(t *testing.T) {
	bus := NewEventBus()
	ch := bus.Subscribe("s1", "c1")
	other := bus.Subscribe("s2", "c2")

	bus.Publish("s1", stream.Event{ID: "e1", Category: stream.CategoryStatus})

	select {
	case ev := <-ch:
		if ev.ID != "e1" {
			t.Errorf("received %q, want e1", ev.ID)
		}
	default:
		t.Fatal("subscriber received nothing")
	}
	select {
	case ev := <-other:
		t.Fatalf("wrong session received %q", ev.ID)
	default:
	}
}

func TestEventBus_Unsubscribe(t *testing.T) {
	bus := NewEventBus()
	ch := bus.Subscribe("s1", "c1")
	bus.Unsubscribe("s1", "c1")
	bus.Publish("s1", stream.Event{ID: "e1"})
	select {
	case ev := <-ch:
		t.Fatalf("unsubscribed client received %q", ev.ID)
	default:
	}
}

func TestEventBus_FullChannelDrops(t *testing.T) {
	bus := NewEventBus()
	bus.Subscribe("s1", "c1")
	// nobody drains; publishing must never block
	for range 100 {
		bus.Publish("s1", stream.Event{ID: "x"})
	}
}
