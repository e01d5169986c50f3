package app

import (
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/lull/internal/playback"
	"github.com/llehouerou/lull/internal/sleeptimer"
)

// Update handles messages and returns updated model and commands.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case attachedMsg:
		m.sub = msg.sub
		m.applySnapshot(msg.snap)
		return m, waitForEvent(m.sub)

	case eventMsg:
		cmd := m.applyEvent(msg.event)
		return m, tea.Batch(waitForEvent(m.sub), cmd)

	case detachedMsg:
		m.sub = nil
		return m, nil

	case commandErrMsg:
		if errors.Is(msg.err, playback.ErrClosed) {
			return m, tea.Quit
		}
		return m, m.showNotice(msg.err.Error(), noticeError)

	case wifiOnlyMsg:
		m.wifiOnly = msg.enabled
		state := "off"
		if msg.enabled {
			state = "on"
		}
		return m, m.showNotice("Wifi only "+state, noticeInfo)

	case clearNoticeMsg:
		if msg.seq == m.noticeSeq {
			m.notice = ""
		}
		return m, nil

	case tea.KeyMsg:
		if m.picking {
			return m.handlePickerKey(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m *Model) applySnapshot(snap playback.Snapshot) {
	m.stream = snap.Stream
	m.state = snap.State
	m.timer = snap.TimerRemaining
	if m.stream != nil {
		m.cursor = m.stream.ID
	}
}

func (m *Model) applyEvent(e playback.Event) tea.Cmd {
	switch e := e.(type) {
	case playback.Restored:
		s := e.Stream
		m.stream = &s
		m.cursor = s.ID
		if e.Playing {
			m.state = playback.StatePlaying
		}
	case playback.StateChange:
		m.state = e.Current
		if e.Current == playback.StatePlaying && m.reporter != nil {
			m.reporter.Dismiss()
		}
	case playback.StreamChange:
		s := e.Current
		m.stream = &s
		m.cursor = s.ID
	case playback.TimerTick:
		m.timer = e.Remaining
	case playback.TimerSet:
		m.timer = e.Duration
		return m.showNotice(fmt.Sprintf("Sleep in %s", sleeptimer.Label(e.Option)), noticeInfo)
	case playback.Warning:
		if m.reporter != nil {
			m.reporter.Warn(e.Message)
		}
		return m.showNotice(e.Message, noticeWarning)
	case playback.ErrorEvent:
		msg := e.Message()
		if m.reporter != nil {
			m.reporter.Error(msg)
		}
		return m.showNotice(msg, noticeError)
	}
	return nil
}

func (m *Model) showNotice(text string, kind noticeKind) tea.Cmd {
	m.noticeSeq++
	m.notice = text
	m.noticeKind = kind
	return clearNoticeCmd(m.noticeSeq)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	s := m.session
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, detachAndQuit(s, m.sub)
	case key.Matches(msg, m.keys.PlayPause):
		return m, sessionCmd(s.Play)
	case key.Matches(msg, m.keys.Next):
		return m, sessionCmd(s.Next)
	case key.Matches(msg, m.keys.Previous):
		return m, sessionCmd(s.Previous)
	case key.Matches(msg, m.keys.Stop):
		return m, sessionCmd(s.Stop)
	case key.Matches(msg, m.keys.Timer):
		option := int(msg.Runes[0] - '0')
		return m, sessionCmd(func() error { return s.SetSleepTimer(option) })
	case key.Matches(msg, m.keys.WifiOnly):
		return m, toggleWifiOnlyCmd(s)
	case key.Matches(msg, m.keys.List):
		m.picking = true
		return m, nil
	}
	return m, nil
}

func (m Model) handlePickerKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, detachAndQuit(m.session, m.sub)
	case key.Matches(msg, m.keys.Close):
		m.picking = false
	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.streams)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.keys.Pick):
		m.picking = false
		id := m.cursor
		s := m.session
		return m, sessionCmd(func() error {
			if err := s.PickStream(id); err != nil {
				return err
			}
			if s.Snapshot().State == playback.StateStopped {
				return s.Play()
			}
			return nil
		})
	}
	return m, nil
}
