package playback

import (
	"fmt"
	"time"

	"github.com/llehouerou/lull/internal/catalog"
	"github.com/llehouerou/lull/internal/errmsg"
	"github.com/llehouerou/lull/internal/player"
	"github.com/llehouerou/lull/internal/sleeptimer"
)

// Everything in this file runs on the worker goroutine.

func (s *serviceImpl) play() {
	s.ensureCurrent()
	switch s.state {
	case StateStopped:
		s.startLoad(errmsg.OpPlaybackStart)
	case StatePaused:
		allowed, offWifi := s.checkPolicy(errmsg.OpPlaybackResume)
		if !allowed {
			return
		}
		s.engine.Resume()
		s.setState(StatePlaying)
		if offWifi {
			s.bus.Publish(Warning{Message: warnOffWifi})
		}
	case StatePlaying:
		s.engine.Pause()
		s.setState(StatePaused)
	case StateLoading:
		// Load already in flight
	}
}

// startLoad gates on the network policy and begins loading the selected
// stream. Returns false if the policy blocked it.
func (s *serviceImpl) startLoad(op errmsg.Op) bool {
	allowed, offWifi := s.checkPolicy(op)
	if !allowed {
		return false
	}
	s.token = s.engine.Load(*s.stream)
	s.logger.Debug().Int("stream", s.stream.ID).Uint64("token", uint64(s.token)).Msg("loading")
	s.setState(StateLoading)
	if offWifi {
		s.bus.Publish(Warning{Message: warnOffWifi})
	}
	return true
}

// checkPolicy asks for connectivity once. Off wifi, playback is blocked when
// wifi-only is enabled and allowed with a warning otherwise.
func (s *serviceImpl) checkPolicy(op errmsg.Op) (allowed, offWifi bool) {
	if s.policy.OnWifi() {
		return true, false
	}
	if s.policy.WifiOnly() {
		s.logger.Warn().Str("op", string(op)).Msg("blocked by wifi-only policy")
		s.bus.Publish(ErrorEvent{Op: op, Err: ErrPolicyViolation})
		return false, true
	}
	return true, true
}

func (s *serviceImpl) switchTo(next catalog.Stream) {
	var prev *catalog.Stream
	if s.stream != nil {
		p := *s.stream
		prev = &p
	}
	s.stream = &next
	s.bus.Publish(StreamChange{Previous: prev, Current: next})

	if !s.state.HoldsStream() {
		return
	}
	s.engine.Stop()
	s.token = 0
	if !s.startLoad(errmsg.OpPlaybackStart) {
		s.enterStopped()
	}
}

// enterStopped releases the engine, clears the sleep timer and restores
// volume. Safe to call in any state.
func (s *serviceImpl) enterStopped() {
	s.engine.Stop()
	s.token = 0
	s.cancelTimer()
	s.restoreVolume()
	s.setState(StateStopped)
}

func (s *serviceImpl) setState(next State) {
	if next == s.state {
		return
	}
	prev := s.state
	s.state = next
	s.logger.Debug().Stringer("from", prev).Stringer("to", next).Msg("state")
	s.bus.Publish(StateChange{Previous: prev, Current: next})
}

func (s *serviceImpl) handleEngineEvent(ev player.Event) {
	if ev.Token == 0 || ev.Token != s.token {
		s.logger.Debug().
			Uint64("token", uint64(ev.Token)).
			Uint64("current", uint64(s.token)).
			Stringer("kind", ev.Kind).
			Msg("stale engine event")
		return
	}

	switch ev.Kind {
	case player.Ready:
		if s.state == StateLoading {
			s.setState(StatePlaying)
		}
	case player.Failed:
		if !s.state.HoldsStream() {
			return
		}
		s.logger.Warn().Err(ev.Err).Int("stream", s.stream.ID).Msg("stream failed")
		s.enterStopped()
		s.bus.Publish(ErrorEvent{
			Op:      errmsg.OpStreamLoad,
			Subject: s.stream.Title,
			Err:     fmt.Errorf("%w: %w", ErrDecode, ev.Err),
		})
	case player.Completed:
		if s.state.IsActive() {
			s.logger.Info().Int("stream", s.stream.ID).Msg("stream ended")
			s.enterStopped()
		}
	}
}

func (s *serviceImpl) setSleepTimer(option int, d time.Duration) {
	if s.state != StatePlaying {
		s.bus.Publish(ErrorEvent{Op: errmsg.OpSleepTimer, Err: ErrNotPlaying})
		return
	}
	if d == 0 {
		s.timer.Cancel()
		s.timerRun = 0
		s.restoreVolume()
		s.bus.Publish(TimerTick{})
		return
	}

	run, err := s.timer.Start(d)
	if err != nil {
		s.bus.Publish(ErrorEvent{Op: errmsg.OpSleepTimer, Err: err})
		return
	}
	s.timerRun = run
	s.restoreVolume()
	s.logger.Debug().Int("option", option).Dur("duration", d).Msg("sleep timer armed")
	s.bus.Publish(TimerSet{Option: option, Duration: d})
}

func (s *serviceImpl) cancelTimer() {
	if s.timerRun == 0 {
		return
	}
	s.timer.Cancel()
	s.timerRun = 0
	s.bus.Publish(TimerTick{})
}

func (s *serviceImpl) handleTimerEvent(ev sleeptimer.Event) {
	if s.timerRun == 0 || ev.Run != s.timerRun {
		return
	}

	switch ev.Kind {
	case sleeptimer.Tick:
		s.applyFade(ev.Remaining)
		s.bus.Publish(TimerTick{Remaining: ev.Remaining})
	case sleeptimer.Expired:
		s.logger.Info().Msg("sleep timer expired")
		s.timerRun = 0
		s.bus.Publish(TimerTick{})
		s.enterStopped()
	}
}

// applyFade lowers volume linearly over the final FadeWindow of the countdown.
func (s *serviceImpl) applyFade(remaining time.Duration) {
	if s.opts.FadeWindow <= 0 || remaining > s.opts.FadeWindow {
		return
	}
	s.engine.SetVolume(float64(remaining) / float64(s.opts.FadeWindow))
	s.faded = true
}

func (s *serviceImpl) restoreVolume() {
	if !s.faded {
		return
	}
	s.engine.SetVolume(1)
	s.faded = false
}

func (s *serviceImpl) setWifiOnly(enabled bool) error {
	if enabled && s.state.HoldsStream() && !s.policy.OnWifi() {
		s.enterStopped()
		s.bus.Publish(Warning{Message: warnStoppedOnWifi})
	}
	if err := s.policy.SetWifiOnly(enabled); err != nil {
		s.logger.Error().Err(err).Bool("enabled", enabled).Msg("persist wifi-only")
		s.bus.Publish(ErrorEvent{Op: errmsg.OpWifiOnly, Err: err})
		return err
	}
	return nil
}

// ensureCurrent selects the persisted stream the first time one is needed.
// An unknown id falls back to the first stream.
func (s *serviceImpl) ensureCurrent() {
	if s.stream != nil {
		return
	}
	id, err := s.store.LastStreamID()
	if err != nil {
		s.logger.Warn().Err(err).Msg(errmsg.Format(errmsg.OpSettingsLoad, err))
		id = 0
	}
	st, err := s.catalog.Get(id)
	if err != nil {
		s.logger.Debug().Int("stream", id).Msg("persisted stream unknown, using first")
		st, _ = s.catalog.Get(0)
	}
	s.stream = &st
	s.bus.setStream(st)
}

func (s *serviceImpl) persistLastStream() {
	if s.stream == nil {
		return
	}
	if err := s.store.SetLastStreamID(s.stream.ID); err != nil {
		s.logger.Warn().Err(err).Msg(errmsg.Format(errmsg.OpSettingsSave, err))
	}
}
