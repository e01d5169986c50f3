package playback

import (
	"time"

	"github.com/llehouerou/lull/internal/catalog"
	"github.com/llehouerou/lull/internal/errmsg"
	"github.com/llehouerou/lull/internal/sleeptimer"
)

// Event is implemented by every value delivered on Subscription.Events.
type Event interface {
	isEvent()
}

// Restored is delivered first to every new subscriber so it can rebuild its
// view without relying on its own stored state.
type Restored struct {
	Stream  catalog.Stream
	Playing bool
}

// StateChange is emitted when the session state changes.
type StateChange struct {
	Previous State
	Current  State
}

// StreamChange is emitted when the selected stream changes.
//
// Emitted by Next, Previous and PickStream before any load they trigger, so
// the observer can update the title while the new stream connects.
type StreamChange struct {
	Previous *catalog.Stream
	Current  catalog.Stream
}

// TimerTick carries the sleep timer countdown. Zero means the timer was
// cleared (cancelled, expired or playback stopped).
type TimerTick struct {
	Remaining time.Duration
}

// Formatted returns the countdown for display, "" when cleared.
func (e TimerTick) Formatted() string {
	return sleeptimer.FormatRemaining(e.Remaining)
}

// TimerSet is emitted when a sleep timer is armed.
type TimerSet struct {
	Option   int
	Duration time.Duration
}

// ErrorEvent is emitted when an operation fails. Err wraps one of the
// package sentinel errors when applicable.
type ErrorEvent struct {
	Op      errmsg.Op
	Subject string // what the operation acted on, such as a stream title
	Err     error
}

// Message returns the user-facing text.
func (e ErrorEvent) Message() string {
	return errmsg.FormatWith(e.Op, e.Subject, e.Err)
}

// Warning is a non-fatal notice, such as streaming off wifi.
type Warning struct {
	Message string
}

func (Restored) isEvent()     {}
func (StateChange) isEvent()  {}
func (StreamChange) isEvent() {}
func (TimerTick) isEvent()    {}
func (TimerSet) isEvent()     {}
func (ErrorEvent) isEvent()   {}
func (Warning) isEvent()      {}
