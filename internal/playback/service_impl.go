// internal/playback/service_impl.go
package playback

import (
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/llehouerou/lull/internal/catalog"
	"github.com/llehouerou/lull/internal/errmsg"
	"github.com/llehouerou/lull/internal/network"
	"github.com/llehouerou/lull/internal/player"
	"github.com/llehouerou/lull/internal/sleeptimer"
)

const queueSize = 64

// Verify serviceImpl implements Service at compile time.
var _ Service = (*serviceImpl)(nil)

// Store persists the last selected stream.
type Store interface {
	LastStreamID() (int, error)
	SetLastStreamID(id int) error
}

// Options tunes session behavior.
type Options struct {
	// FadeWindow is the final part of a sleep timer countdown during which
	// volume ramps down. Zero disables the fade.
	FadeWindow time.Duration
}

// serviceImpl owns all session state on a single worker goroutine. Public
// methods marshal closures onto queue; engine and timer callbacks are
// posted onto the same queue.
type serviceImpl struct {
	catalog *catalog.Catalog
	engine  player.Interface
	policy  network.Interface
	store   Store
	timer   *sleeptimer.Timer
	bus     *Bus
	opts    Options
	logger  zerolog.Logger

	// Worker-owned
	state    State
	stream   *catalog.Stream
	token    player.Token
	timerRun uint64
	faded    bool

	queue     chan func()
	done      chan struct{}
	closeOnce sync.Once
}

// New creates a playback session and starts its worker.
func New(
	cat *catalog.Catalog,
	engine player.Interface,
	policy network.Interface,
	store Store,
	opts Options,
	logger zerolog.Logger,
) Service {
	s := &serviceImpl{
		catalog: cat,
		engine:  engine,
		policy:  policy,
		store:   store,
		bus:     NewBus(),
		opts:    opts,
		logger:  logger.With().Str("component", "session").Logger(),
		state:   StateStopped,
		queue:   make(chan func(), queueSize),
		done:    make(chan struct{}),
	}
	s.timer = sleeptimer.New(func(ev sleeptimer.Event) {
		s.post(func() { s.handleTimerEvent(ev) })
	})
	engine.OnEvent(func(ev player.Event) {
		s.post(func() { s.handleEngineEvent(ev) })
	})
	go s.run()
	return s
}

func (s *serviceImpl) run() {
	for {
		select {
		case fn := <-s.queue:
			fn()
		case <-s.done:
			return
		}
	}
}

// do runs fn on the worker and waits for it to finish.
func (s *serviceImpl) do(fn func()) error {
	finished := make(chan struct{})
	select {
	case s.queue <- func() { fn(); close(finished) }:
	case <-s.done:
		return ErrClosed
	}
	select {
	case <-finished:
		return nil
	case <-s.done:
		return ErrClosed
	}
}

// post queues fn without waiting. Dropped after Close.
func (s *serviceImpl) post(fn func()) {
	select {
	case s.queue <- fn:
	case <-s.done:
	}
}

func (s *serviceImpl) Attach() (*Subscription, Snapshot, error) {
	var sub *Subscription
	var snap Snapshot
	err := s.do(func() {
		s.ensureCurrent()
		sub, snap = s.bus.Attach()
		sub.send(Restored{Stream: *s.stream, Playing: s.state == StatePlaying})
		s.logger.Debug().Int("stream", s.stream.ID).Stringer("state", s.state).Msg("observer attached")
	})
	if err != nil {
		return nil, Snapshot{}, err
	}
	return sub, snap, nil
}

func (s *serviceImpl) Detach(sub *Subscription) {
	_ = s.do(func() {
		if s.bus.Detach(sub) {
			s.logger.Debug().Msg("observer detached")
			s.persistLastStream()
		}
	})
}

func (s *serviceImpl) Play() error {
	return s.do(s.play)
}

func (s *serviceImpl) Stop() error {
	return s.do(s.enterStopped)
}

func (s *serviceImpl) Next() error {
	return s.do(func() {
		s.ensureCurrent()
		next, err := s.catalog.Next(s.stream.ID)
		if err != nil {
			s.logger.Error().Err(err).Msg(errmsg.Format(errmsg.OpStreamSelect, err))
			return
		}
		s.switchTo(next)
	})
}

func (s *serviceImpl) Previous() error {
	return s.do(func() {
		s.ensureCurrent()
		prev, err := s.catalog.Previous(s.stream.ID)
		if err != nil {
			s.logger.Error().Err(err).Msg(errmsg.Format(errmsg.OpStreamSelect, err))
			return
		}
		s.switchTo(prev)
	})
}

func (s *serviceImpl) PickStream(id int) error {
	picked, err := s.catalog.Get(id)
	if err != nil {
		return err
	}
	return s.do(func() {
		s.ensureCurrent()
		if s.stream.ID == picked.ID {
			return
		}
		s.switchTo(picked)
	})
}

func (s *serviceImpl) SetSleepTimer(option int) error {
	d, err := sleeptimer.DurationFor(option)
	if err != nil {
		return fmt.Errorf("%w: %d", ErrInvalidTimerOption, option)
	}
	return s.do(func() { s.setSleepTimer(option, d) })
}

func (s *serviceImpl) WifiOnly() bool {
	return s.policy.WifiOnly()
}

func (s *serviceImpl) SetWifiOnly(enabled bool) error {
	var persistErr error
	err := s.do(func() { persistErr = s.setWifiOnly(enabled) })
	if err != nil {
		return err
	}
	return persistErr
}

func (s *serviceImpl) Streams() []catalog.Stream {
	return s.catalog.All()
}

func (s *serviceImpl) Snapshot() Snapshot {
	return s.bus.Snapshot()
}

// Close stops playback, persists the selected stream and stops the worker.
func (s *serviceImpl) Close() error {
	s.closeOnce.Do(func() {
		_ = s.do(func() {
			s.timer.Cancel()
			s.timerRun = 0
			s.engine.Stop()
			s.persistLastStream()
			s.bus.Close()
		})
		close(s.done)
	})
	return nil
}
