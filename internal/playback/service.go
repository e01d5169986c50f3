package playback

import (
	"github.com/llehouerou/lull/internal/catalog"
)

// Service defines the playback session contract.
type Service interface {
	// Observer lifecycle
	Attach() (*Subscription, Snapshot, error)
	Detach(sub *Subscription)

	// Playback control
	Play() error // Start when stopped, resume when paused, pause when playing
	Stop() error
	Next() error
	Previous() error
	PickStream(id int) error

	// Sleep timer
	SetSleepTimer(option int) error

	// Settings
	WifiOnly() bool
	SetWifiOnly(enabled bool) error

	// Queries
	Streams() []catalog.Stream
	Snapshot() Snapshot

	// Lifecycle
	Close() error
}
