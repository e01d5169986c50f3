// internal/state/interface.go
package state

// Interface defines the settings store contract for dependency injection and testing.
type Interface interface {
	LastStreamID() (int, error)
	SetLastStreamID(id int) error
	WifiOnly() (bool, error)
	SetWifiOnly(enabled bool) error
	Close() error
}

// Verify Manager implements Interface at compile time.
var _ Interface = (*Manager)(nil)
