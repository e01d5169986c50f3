// internal/player/state.go
package player

// State represents the engine state machine.
//
// The state machine has four states with the following valid transitions:
//
//	┌──────────┐      load       ┌──────────┐   prepared   ┌──────────┐
//	│  Stopped │ ───────────────▶│  Loading │ ────────────▶│  Playing │
//	└──────────┘                 └──────────┘              └──────────┘
//	     ▲                            │                        │ ▲
//	     │      stop / failed         │                  pause │ │ resume
//	     ├────────────────────────────┘                        ▼ │
//	     │                                                 ┌──────────┐
//	     └─────────────── stop / failed / ended ───────────│  Paused  │
//	                                                       └──────────┘
//
// Valid transitions:
//   - Stopped → Loading (via Load)
//   - Loading → Playing (source opened)
//   - Loading → Stopped (via Stop, or open failed)
//   - Playing → Paused  (via Pause)
//   - Paused  → Playing (via Resume)
//   - Playing/Paused → Stopped (via Stop, stream error, or end of stream)
//
// Load from any state releases the current source first and restarts at Loading.
type State int

const (
	Stopped State = iota
	Loading
	Playing
	Paused
)

// String returns the state name for debugging.
func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Loading:
		return "Loading"
	case Playing:
		return "Playing"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// IsActive returns true if a source is open (Playing or Paused).
func (s State) IsActive() bool {
	return s == Playing || s == Paused
}

// CanPause returns true if the state allows pausing.
func (s State) CanPause() bool {
	return s == Playing
}

// CanResume returns true if the state allows resuming.
func (s State) CanResume() bool {
	return s == Paused
}
