package player

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/gopxl/beep/v2"
	"github.com/gopxl/beep/v2/effects"
	"github.com/gopxl/beep/v2/speaker"
	"github.com/rs/zerolog"

	"github.com/llehouerou/lull/internal/catalog"
)

const (
	decodeAhead        = 2 * time.Second
	defaultReadTimeout = 5 * time.Second
)

var (
	speakerMu          sync.Mutex
	speakerInitialized bool
	speakerSampleRate  beep.SampleRate
)

// SpeakerConfig configures audio output.
type SpeakerConfig struct {
	BufferSize time.Duration
	UserAgent  string
	// ReadTimeout fails the stream when the server sends no data for this
	// long. Zero means the default.
	ReadTimeout time.Duration
}

// SpeakerBackend streams over HTTP to the system audio device.
type SpeakerBackend struct {
	client *http.Client
	cfg    SpeakerConfig
	logger zerolog.Logger
}

// NewSpeakerBackend creates the production backend.
func NewSpeakerBackend(cfg SpeakerConfig, logger zerolog.Logger) *SpeakerBackend {
	if cfg.BufferSize <= 0 {
		cfg.BufferSize = 250 * time.Millisecond
	}
	if cfg.ReadTimeout <= 0 {
		cfg.ReadTimeout = defaultReadTimeout
	}
	return &SpeakerBackend{
		client: newHTTPClient(),
		cfg:    cfg,
		logger: logger.With().Str("component", "speaker").Logger(),
	}
}

func (b *SpeakerBackend) Open(ctx context.Context, s catalog.Stream) (Source, error) {
	body, err := openHTTP(ctx, b.client, s.URL, b.cfg.UserAgent, b.cfg.ReadTimeout)
	if err != nil {
		return nil, err
	}

	c := detectCodec(body.contentType, s.URL)
	b.logger.Debug().
		Str("stream", s.Title).
		Str("content_type", body.contentType).
		Stringer("codec", c).
		Msg("stream connected")

	streamer, format, err := decode(body, c)
	if err != nil {
		body.Close()
		if stalled := body.Stalled(); stalled != nil {
			return nil, stalled
		}
		return nil, err
	}

	rate, err := b.initSpeaker(format.SampleRate)
	if err != nil {
		streamer.Close()
		body.Close()
		return nil, err
	}

	p := newPump(streamer, format.SampleRate.N(decodeAhead)/pumpChunk)
	var out beep.Streamer = p
	if format.SampleRate != rate {
		out = beep.Resample(4, format.SampleRate, rate, p)
	}
	ctrl := &beep.Ctrl{Streamer: out}

	return &speakerSource{
		body:   body,
		pump:   p,
		ctrl:   ctrl,
		volume: &effects.Volume{Streamer: ctrl, Base: 2},
		title:  s.Title,
		logger: b.logger,
	}, nil
}

func (b *SpeakerBackend) initSpeaker(rate beep.SampleRate) (beep.SampleRate, error) {
	speakerMu.Lock()
	defer speakerMu.Unlock()

	if speakerInitialized {
		return speakerSampleRate, nil
	}
	if err := speaker.Init(rate, rate.N(b.cfg.BufferSize)); err != nil {
		return 0, fmt.Errorf("initialize audio output: %w", err)
	}
	speakerSampleRate = rate
	speakerInitialized = true
	b.logger.Debug().Int("sample_rate", int(rate)).Dur("buffer", b.cfg.BufferSize).Msg("speaker initialized")
	return rate, nil
}

type speakerSource struct {
	body   *httpStream
	pump   *pump
	ctrl   *beep.Ctrl
	volume *effects.Volume
	title  string
	logger zerolog.Logger

	started   time.Time
	closeOnce sync.Once
}

func (s *speakerSource) Play(onEnd func(error)) {
	s.started = time.Now()
	speaker.Play(beep.Seq(s.volume, beep.Callback(func() {
		if stalled := s.body.Stalled(); stalled != nil {
			onEnd(stalled)
			return
		}
		onEnd(s.pump.Err())
	})))
}

func (s *speakerSource) SetPaused(paused bool) {
	speaker.Lock()
	s.ctrl.Paused = paused
	speaker.Unlock()
}

func (s *speakerSource) SetVolume(level float64) {
	v, silent := levelToVolume(level)
	speaker.Lock()
	s.volume.Volume = v
	s.volume.Silent = silent
	speaker.Unlock()
}

func (s *speakerSource) Close() error {
	var err error
	s.closeOnce.Do(func() {
		speaker.Clear()
		err = s.pump.Close()
		s.body.Close()
		ev := s.logger.Debug().
			Str("stream", s.title).
			Str("received", humanize.Bytes(s.body.BytesRead()))
		if !s.started.IsZero() {
			ev = ev.Dur("played", time.Since(s.started))
		}
		ev.Msg("stream closed")
	})
	return err
}
