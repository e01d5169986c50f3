package playback

import (
	"testing"
	"time"

	"github.com/llehouerou/lull/internal/catalog"
)

func TestBus_PublishWithoutObserverUpdatesSnapshot(t *testing.T) {
	b := NewBus()

	b.Publish(StreamChange{Current: catalog.Stream{ID: 2, Title: "Drone Zone"}})
	b.Publish(StateChange{Previous: StateStopped, Current: StateLoading})
	b.Publish(TimerSet{Option: 1, Duration: 15 * time.Second})

	snap := b.Snapshot()
	if snap.Stream == nil || snap.Stream.ID != 2 {
		t.Fatalf("Stream = %v, want id 2", snap.Stream)
	}
	if snap.State != StateLoading {
		t.Errorf("State = %v, want Loading", snap.State)
	}
	if snap.TimerRemaining != 15*time.Second {
		t.Errorf("TimerRemaining = %v, want 15s", snap.TimerRemaining)
	}

	b.Publish(TimerTick{Remaining: 14 * time.Second})
	if got := b.Snapshot().TimerRemaining; got != 14*time.Second {
		t.Errorf("after tick = %v, want 14s", got)
	}
	b.Publish(TimerTick{})
	if got := b.Snapshot().TimerRemaining; got != 0 {
		t.Errorf("after clear = %v, want 0", got)
	}
}

func TestBus_SnapshotIsCopy(t *testing.T) {
	b := NewBus()
	b.setStream(catalog.Stream{ID: 1, Title: "Groove Salad"})

	snap := b.Snapshot()
	snap.Stream.Title = "changed"

	if got := b.Snapshot().Stream.Title; got != "Groove Salad" {
		t.Errorf("Title = %q, snapshot mutation leaked", got)
	}
}

func TestBus_AttachReplacesObserver(t *testing.T) {
	b := NewBus()
	first, _ := b.Attach()
	second, _ := b.Attach()

	select {
	case <-first.Done:
	default:
		t.Fatal("first subscription still open")
	}
	if b.Detach(first) {
		t.Error("Detach(first) = true, want false for stale subscription")
	}

	b.Publish(StateChange{Previous: StateStopped, Current: StateLoading})
	if n := len(second.Events); n != 1 {
		t.Errorf("second buffered = %d, want 1", n)
	}
	if n := len(first.Events); n != 0 {
		t.Errorf("first buffered = %d, want 0", n)
	}

	if !b.Detach(second) {
		t.Error("Detach(second) = false, want true")
	}
	if b.attached() {
		t.Error("Attached() = true after detach")
	}
}

func TestBus_AttachReturnsCurrentSnapshot(t *testing.T) {
	b := NewBus()
	b.Publish(StreamChange{Current: catalog.Stream{ID: 5}})
	b.Publish(StateChange{Previous: StateStopped, Current: StatePlaying})

	_, snap := b.Attach()
	if snap.State != StatePlaying || snap.Stream == nil || snap.Stream.ID != 5 {
		t.Errorf("snapshot = %+v, want stream 5 playing", snap)
	}
}

func TestBus_CloseDetaches(t *testing.T) {
	b := NewBus()
	sub, _ := b.Attach()
	b.Close()

	<-sub.Done
	if b.attached() {
		t.Error("Attached() = true after Close")
	}
	// Publishing after close only updates the snapshot
	b.Publish(StateChange{Previous: StateStopped, Current: StateLoading})
	if b.Snapshot().State != StateLoading {
		t.Error("snapshot not updated after Close")
	}
}
