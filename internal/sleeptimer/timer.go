// Package sleeptimer provides a cancellable countdown with one-second ticks.
package sleeptimer

import (
	"errors"
	"sync"
	"time"
)

const tickInterval = time.Second

// ErrInvalidDuration is returned by Start for negative durations.
var ErrInvalidDuration = errors.New("invalid sleep timer duration")

// Kind distinguishes timer events.
type Kind int

const (
	Tick Kind = iota
	Expired
)

func (k Kind) String() string {
	switch k {
	case Tick:
		return "Tick"
	case Expired:
		return "Expired"
	default:
		return "Unknown"
	}
}

// Event is emitted by a running timer. Run identifies the Start call that
// produced it so consumers can discard events from superseded runs.
type Event struct {
	Run       uint64
	Kind      Kind
	Remaining time.Duration
}

// Timer is a single-shot countdown. At most one run is active at a time.
//
// The state machine:
//
//	Idle ──Start(d>0)──▶ Running ──Cancel──▶ Idle
//	                       │
//	                       └──deadline──▶ Expired event ──▶ Idle
//
// Start while Running cancels the old run first.
type Timer struct {
	mu      sync.Mutex
	run     uint64
	active  bool
	stop    chan struct{}
	onEvent func(Event)
}

// New creates an idle timer. onEvent is called from the timer goroutine.
func New(onEvent func(Event)) *Timer {
	return &Timer{onEvent: onEvent}
}

// Start cancels any running countdown and starts a new one of length d.
// A zero duration only cancels and returns run 0.
func (t *Timer) Start(d time.Duration) (uint64, error) {
	if d < 0 {
		return 0, ErrInvalidDuration
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	t.cancelLocked()
	if d == 0 {
		return 0, nil
	}

	t.run++
	t.active = true
	t.stop = make(chan struct{})
	go t.loop(t.run, d, t.stop)
	return t.run, nil
}

// Cancel stops the running countdown. Safe to call when idle.
func (t *Timer) Cancel() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.cancelLocked()
}

func (t *Timer) running() bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active
}

func (t *Timer) cancelLocked() {
	if !t.active {
		return
	}
	close(t.stop)
	t.stop = nil
	t.active = false
}

func (t *Timer) loop(run uint64, d time.Duration, stop <-chan struct{}) {
	deadline := time.Now().Add(d)
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()
	expiry := time.NewTimer(d)
	defer expiry.Stop()

	for {
		select {
		case <-stop:
			return
		case <-expiry.C:
			if t.finish(run) {
				t.onEvent(Event{Run: run, Kind: Expired})
			}
			return
		case now := <-ticker.C:
			remaining := deadline.Sub(now).Round(time.Second)
			if remaining <= 0 {
				continue
			}
			if t.current(run) {
				t.onEvent(Event{Run: run, Kind: Tick, Remaining: remaining})
			}
		}
	}
}

func (t *Timer) current(run uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active && t.run == run
}

// finish moves the timer to idle if run is still the active one.
func (t *Timer) finish(run uint64) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	if !t.active || t.run != run {
		return false
	}
	t.active = false
	t.stop = nil
	return true
}
