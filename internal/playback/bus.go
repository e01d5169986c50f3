package playback

import (
	"sync"
	"time"

	"github.com/llehouerou/lull/internal/catalog"
)

// Snapshot is the current session truth handed to a new observer.
type Snapshot struct {
	Stream         *catalog.Stream
	State          State
	TimerRemaining time.Duration // zero when no timer is running
}

// Bus keeps the latest snapshot and forwards events to at most one observer.
// With no observer attached, events only update the snapshot.
type Bus struct {
	mu   sync.Mutex
	sub  *Subscription
	snap Snapshot
}

// NewBus creates an empty bus.
func NewBus() *Bus {
	return &Bus{}
}

// Publish applies e to the snapshot and forwards it to the observer.
func (b *Bus) Publish(e Event) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.apply(e)
	if b.sub != nil {
		b.sub.send(e)
	}
}

func (b *Bus) apply(e Event) {
	switch e := e.(type) {
	case StateChange:
		b.snap.State = e.Current
	case StreamChange:
		s := e.Current
		b.snap.Stream = &s
	case TimerTick:
		b.snap.TimerRemaining = e.Remaining
	case TimerSet:
		b.snap.TimerRemaining = e.Duration
	}
}

// setStream records the selected stream without publishing, used when the
// stream is restored from settings.
func (b *Bus) setStream(s catalog.Stream) {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.snap.Stream = &s
}

// Attach registers a new observer, replacing and closing any previous one.
// The snapshot is read atomically with the registration.
func (b *Bus) Attach() (*Subscription, Snapshot) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sub != nil {
		b.sub.close()
	}
	b.sub = newSubscription()
	return b.sub, b.snapshotLocked()
}

// Detach removes sub if it is the current observer. Returns false otherwise.
func (b *Bus) Detach(sub *Subscription) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if sub == nil || b.sub != sub {
		return false
	}
	b.sub.close()
	b.sub = nil
	return true
}

func (b *Bus) attached() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.sub != nil
}

// Snapshot returns a copy of the current truth.
func (b *Bus) Snapshot() Snapshot {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.snapshotLocked()
}

func (b *Bus) snapshotLocked() Snapshot {
	snap := b.snap
	if snap.Stream != nil {
		s := *snap.Stream
		snap.Stream = &s
	}
	return snap
}

// Close detaches the observer.
func (b *Bus) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.sub != nil {
		b.sub.close()
		b.sub = nil
	}
}
