package player

import (
	"context"
	"sync"

	"github.com/rs/zerolog"

	"github.com/llehouerou/lull/internal/catalog"
)

// Engine drives a Backend on behalf of one session. All methods are safe for
// concurrent use; none of them block on the network.
type Engine struct {
	mu      sync.Mutex
	backend Backend
	logger  zerolog.Logger

	token   Token
	state   State
	stream  *catalog.Stream
	source  Source
	cancel  context.CancelFunc
	volume  float64
	onEvent func(Event)
}

// New creates an engine over backend.
func New(backend Backend, logger zerolog.Logger) *Engine {
	return &Engine{
		backend: backend,
		logger:  logger.With().Str("component", "engine").Logger(),
		state:   Stopped,
		volume:  1,
	}
}

// OnEvent registers the completion callback. It is called outside the
// engine lock, from engine goroutines.
func (e *Engine) OnEvent(fn func(Event)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onEvent = fn
}

func (e *Engine) Load(s catalog.Stream) Token {
	e.mu.Lock()
	e.releaseLocked()
	e.token++
	tok := e.token
	ctx, cancel := context.WithCancel(context.Background())
	e.cancel = cancel
	e.stream = &s
	e.state = Loading
	e.mu.Unlock()

	e.logger.Debug().Uint64("token", uint64(tok)).Str("url", s.URL).Msg("load")
	go e.prepare(ctx, tok, s)
	return tok
}

func (e *Engine) prepare(ctx context.Context, tok Token, s catalog.Stream) {
	src, err := e.backend.Open(ctx, s)

	e.mu.Lock()
	if tok != e.token || e.state != Loading {
		e.mu.Unlock()
		if src != nil {
			_ = src.Close()
		}
		e.logger.Debug().Uint64("token", uint64(tok)).Msg("prepare superseded")
		return
	}
	if err != nil {
		e.releaseLocked()
		e.mu.Unlock()
		e.emit(Event{Token: tok, Kind: Failed, Err: err})
		return
	}
	e.source = src
	e.state = Playing
	src.SetVolume(e.volume)
	e.mu.Unlock()

	e.emit(Event{Token: tok, Kind: Ready})

	e.mu.Lock()
	defer e.mu.Unlock()
	if tok != e.token || e.source != src {
		return
	}
	src.Play(func(err error) {
		// Runs under the audio lock; finish must not block it.
		go e.finish(tok, src, err)
	})
}

func (e *Engine) finish(tok Token, src Source, err error) {
	e.mu.Lock()
	if tok != e.token || e.source != src {
		e.mu.Unlock()
		return
	}
	e.releaseLocked()
	e.mu.Unlock()

	if err != nil {
		e.emit(Event{Token: tok, Kind: Failed, Err: err})
		return
	}
	e.emit(Event{Token: tok, Kind: Completed})
}

func (e *Engine) emit(ev Event) {
	e.mu.Lock()
	fn := e.onEvent
	e.mu.Unlock()
	if fn != nil {
		fn(ev)
	}
}

func (e *Engine) Pause() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state.CanPause() || e.source == nil {
		return
	}
	e.source.SetPaused(true)
	e.state = Paused
}

func (e *Engine) Resume() {
	e.mu.Lock()
	defer e.mu.Unlock()
	if !e.state.CanResume() || e.source == nil {
		return
	}
	e.source.SetPaused(false)
	e.state = Playing
}

func (e *Engine) Stop() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.releaseLocked()
}

// SetVolume sets the output level (0.0 to 1.0). The level outlives sources.
func (e *Engine) SetVolume(level float64) {
	level = clampLevel(level)
	e.mu.Lock()
	defer e.mu.Unlock()
	e.volume = level
	if e.source != nil {
		e.source.SetVolume(level)
	}
}

func (e *Engine) volumeLevel() float64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.volume
}

func (e *Engine) IsActive() bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.IsActive()
}

func (e *Engine) currentState() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state
}

// CurrentlyLoaded returns a copy of the loading or playing stream, or nil.
func (e *Engine) CurrentlyLoaded() *catalog.Stream {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.stream == nil {
		return nil
	}
	s := *e.stream
	return &s
}

func (e *Engine) releaseLocked() {
	if e.cancel != nil {
		e.cancel()
		e.cancel = nil
	}
	if e.source != nil {
		if err := e.source.Close(); err != nil {
			e.logger.Debug().Err(err).Msg("close source")
		}
		e.source = nil
	}
	e.stream = nil
	e.state = Stopped
}
