// internal/player/interface.go
package player

import "github.com/llehouerou/lull/internal/catalog"

// Token identifies one Load request. Tokens increase monotonically so a
// completion carrying an older token is known to be stale.
type Token uint64

// EventKind classifies engine completions.
type EventKind int

const (
	Ready EventKind = iota
	Failed
	Completed
)

func (k EventKind) String() string {
	switch k {
	case Ready:
		return "Ready"
	case Failed:
		return "Failed"
	case Completed:
		return "Completed"
	default:
		return "Unknown"
	}
}

// Event reports the asynchronous outcome of a Load.
type Event struct {
	Token Token
	Kind  EventKind
	Err   error
}

// Interface defines the engine contract for dependency injection and testing.
type Interface interface {
	// Load releases any current media and starts preparing s. It returns
	// immediately; the outcome arrives as a Ready or Failed event.
	Load(s catalog.Stream) Token
	Resume()
	Pause()
	// Stop releases the decoder. Safe to call in any state.
	Stop()
	SetVolume(level float64)
	IsActive() bool
	CurrentlyLoaded() *catalog.Stream
	OnEvent(fn func(Event))
}

// Verify Engine implements Interface at compile time.
var _ Interface = (*Engine)(nil)
