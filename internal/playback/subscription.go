package playback

const eventBufferSize = 16

// Subscription delivers events to one observer in publication order.
type Subscription struct {
	Events <-chan Event
	Done   <-chan struct{}

	// Internal write channels
	eventCh chan Event
	doneCh  chan struct{}
}

// newSubscription creates a new subscription with a buffered channel.
func newSubscription() *Subscription {
	s := &Subscription{
		eventCh: make(chan Event, eventBufferSize),
		doneCh:  make(chan struct{}),
	}
	s.Events = s.eventCh
	s.Done = s.doneCh
	return s
}

// close signals the observer to stop by closing doneCh.
func (s *Subscription) close() {
	close(s.doneCh)
}

// send delivers an event (non-blocking).
func (s *Subscription) send(e Event) {
	select {
	case s.eventCh <- e:
	default:
		// Drop if buffer full
	}
}
