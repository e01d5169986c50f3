package playback

import "errors"

var (
	// ErrClosed is returned by commands issued after Close.
	ErrClosed = errors.New("playback session closed")
	// ErrPolicyViolation means wifi-only is enabled and the device is off wifi.
	ErrPolicyViolation = errors.New("wifi-only is enabled and the device is not on wifi")
	// ErrNotPlaying is reported when a sleep timer is requested while not playing.
	ErrNotPlaying = errors.New("start a stream first")
	// ErrDecode wraps engine preparation and streaming failures.
	ErrDecode = errors.New("stream could not be played")
	// ErrInvalidTimerOption is returned for an option outside the sleep timer table.
	ErrInvalidTimerOption = errors.New("invalid sleep timer option")
)

const (
	warnOffWifi       = "Not on wifi: streaming over a metered connection"
	warnStoppedOnWifi = "Playback stopped: wifi-only is enabled and the device is not on wifi"
)
