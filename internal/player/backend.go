package player

import (
	"context"

	"github.com/llehouerou/lull/internal/catalog"
)

// Backend opens a stream for output. Open may block on the network and must
// honor ctx cancellation.
type Backend interface {
	Open(ctx context.Context, s catalog.Stream) (Source, error)
}

// Source is an opened stream ready to be played.
type Source interface {
	// Play starts output. onEnd is called at most once, from an audio
	// goroutine, with nil at end of stream or the stream error.
	Play(onEnd func(error))
	SetPaused(paused bool)
	SetVolume(level float64)
	Close() error
}
