//go:build windows

package stderr

import "github.com/rs/zerolog"

// Capture is a no-op on Windows, where audio output does not write to stderr.
func Capture(_ zerolog.Logger) (func(), error) {
	return func() {}, nil
}
