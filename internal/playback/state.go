// internal/playback/state.go
package playback

// State represents the session state.
type State int

const (
	StateStopped State = iota
	StateLoading
	StatePlaying
	StatePaused
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateStopped:
		return "Stopped"
	case StateLoading:
		return "Loading"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a stream is open (playing or paused).
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused
}

// HoldsStream returns true if the engine owns a stream (loading, playing or paused).
func (s State) HoldsStream() bool {
	return s != StateStopped
}
