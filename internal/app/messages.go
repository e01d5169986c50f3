// Package app is the terminal observer for the playback session.
package app

import (
	"github.com/llehouerou/lull/internal/playback"
)

// attachedMsg carries a new subscription and the truth at attach time.
type attachedMsg struct {
	sub  *playback.Subscription
	snap playback.Snapshot
}

// eventMsg wraps one session event.
type eventMsg struct {
	event playback.Event
}

// detachedMsg is sent when the subscription is closed by the session,
// either because another observer attached or the session shut down.
type detachedMsg struct{}

// commandErrMsg reports an error returned by a session command.
type commandErrMsg struct {
	err error
}

// wifiOnlyMsg reports the flag after a toggle.
type wifiOnlyMsg struct {
	enabled bool
}

// clearNoticeMsg hides the transient notice if it is still the one with seq.
type clearNoticeMsg struct {
	seq int
}
