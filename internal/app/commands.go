package app

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/lull/internal/playback"
)

const noticeTTL = 4 * time.Second

func attachCmd(session playback.Service) tea.Cmd {
	return func() tea.Msg {
		sub, snap, err := session.Attach()
		if err != nil {
			return commandErrMsg{err: err}
		}
		return attachedMsg{sub: sub, snap: snap}
	}
}

// waitForEvent blocks until the next session event or the subscription ends.
func waitForEvent(sub *playback.Subscription) tea.Cmd {
	if sub == nil {
		return nil
	}
	return func() tea.Msg {
		select {
		case e := <-sub.Events:
			return eventMsg{event: e}
		case <-sub.Done:
			return detachedMsg{}
		}
	}
}

// sessionCmd runs a session command off the UI goroutine.
func sessionCmd(fn func() error) tea.Cmd {
	return func() tea.Msg {
		if err := fn(); err != nil {
			return commandErrMsg{err: err}
		}
		return nil
	}
}

func toggleWifiOnlyCmd(session playback.Service) tea.Cmd {
	return func() tea.Msg {
		next := !session.WifiOnly()
		if err := session.SetWifiOnly(next); err != nil {
			return commandErrMsg{err: err}
		}
		return wifiOnlyMsg{enabled: next}
	}
}

func clearNoticeCmd(seq int) tea.Cmd {
	return tea.Tick(noticeTTL, func(time.Time) tea.Msg {
		return clearNoticeMsg{seq: seq}
	})
}

// detachAndQuit releases the subscription before the program exits.
func detachAndQuit(session playback.Service, sub *playback.Subscription) tea.Cmd {
	return func() tea.Msg {
		if sub != nil {
			session.Detach(sub)
		}
		return tea.Quit()
	}
}
