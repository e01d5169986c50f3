package app

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/llehouerou/lull/internal/catalog"
	"github.com/llehouerou/lull/internal/network"
	"github.com/llehouerou/lull/internal/notify"
	"github.com/llehouerou/lull/internal/player"
	"github.com/llehouerou/lull/internal/playback"
	"github.com/llehouerou/lull/internal/state"
)

type testEnv struct {
	session playback.Service
	engine  *player.Mock
	policy  *network.Mock
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{
		engine: player.NewMock(),
		policy: network.NewMock(),
	}
	env.session = playback.New(catalog.Default(), env.engine, env.policy, state.NewMock(), playback.Options{}, zerolog.Nop())
	t.Cleanup(func() { _ = env.session.Close() })
	return env
}

// attached returns a model that has processed its attach command.
func attached(t *testing.T, env *testEnv, opts Options) Model {
	t.Helper()
	m := New(env.session, opts)
	msg := m.Init()()
	next, _ := m.Update(msg)
	return next.(Model)
}

// nextEvent feeds the next session event to the model.
func nextEvent(t *testing.T, m Model) Model {
	t.Helper()
	require.NotNil(t, m.sub, "model is not attached")
	msg := waitForEvent(m.sub)()
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(t *testing.T, m Model, k tea.KeyMsg) Model {
	t.Helper()
	next, cmd := m.Update(k)
	if cmd != nil {
		if msg := cmd(); msg != nil {
			next, _ = next.Update(msg)
		}
	}
	return next.(Model)
}

func runes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

var space = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}

func TestModel_AttachRestoresStream(t *testing.T) {
	env := newTestEnv(t)
	m := attached(t, env, Options{})

	require.NotNil(t, m.stream)
	assert.Equal(t, 0, m.stream.ID)
	assert.Equal(t, playback.StateStopped, m.state)

	m = nextEvent(t, m)
	assert.Contains(t, m.View(), "Drone Zone")
	assert.Contains(t, m.View(), "Stopped")
}

func TestModel_PlayKeyStartsLoading(t *testing.T) {
	env := newTestEnv(t)
	m := attached(t, env, Options{})
	m = nextEvent(t, m) // Restored

	m = press(t, m, space)
	m = nextEvent(t, m)
	assert.Equal(t, playback.StateLoading, m.state)
	assert.Contains(t, m.View(), "Connecting")

	env.engine.SimulateReady(env.engine.LastToken())
	m = nextEvent(t, m)
	assert.Equal(t, playback.StatePlaying, m.state)
	assert.Contains(t, m.View(), "Playing")
}

func TestModel_NextKeyChangesTitle(t *testing.T) {
	env := newTestEnv(t)
	m := attached(t, env, Options{})
	m = nextEvent(t, m)

	m = press(t, m, runes("n"))
	m = nextEvent(t, m)

	require.NotNil(t, m.stream)
	assert.Equal(t, 1, m.stream.ID)
	assert.Equal(t, 1, m.cursor)
}

func TestModel_TimerKeyWhileStoppedShowsError(t *testing.T) {
	env := newTestEnv(t)
	m := attached(t, env, Options{})
	m = nextEvent(t, m)

	m = press(t, m, runes("3"))
	m = nextEvent(t, m)

	assert.Equal(t, noticeError, m.noticeKind)
	assert.Contains(t, m.notice, playback.ErrNotPlaying.Error())
}

func TestModel_TimerSetShowsCountdown(t *testing.T) {
	env := newTestEnv(t)
	m := attached(t, env, Options{})
	m = nextEvent(t, m)
	m = press(t, m, space)
	m = nextEvent(t, m)
	env.engine.SimulateReady(env.engine.LastToken())
	m = nextEvent(t, m)

	m = press(t, m, runes("2"))
	m = nextEvent(t, m)

	assert.Equal(t, 20*time.Minute, m.timer)
	assert.Contains(t, m.View(), "sleep 20:00")
	assert.Contains(t, m.notice, "20 minutes")

	_ = env.session.Stop()
}

func TestModel_ErrorEventNotifies(t *testing.T) {
	env := newTestEnv(t)
	rec := &recordingNotifier{}
	m := attached(t, env, Options{Reporter: notify.NewReporter(rec, zerolog.Nop())})
	m = nextEvent(t, m)

	m = press(t, m, space)
	m = nextEvent(t, m)
	env.engine.SimulateFailed(env.engine.LastToken(), errors.New("status 503"))
	m = nextEvent(t, m) // Stopped
	m = nextEvent(t, m) // ErrorEvent

	assert.Equal(t, playback.StateStopped, m.state)
	assert.Equal(t, noticeError, m.noticeKind)
	require.Len(t, rec.sent, 1)
	assert.Equal(t, m.notice, rec.sent[0].Body)
}

func TestModel_OffWifiWarningNotifiesAndPlayingDismisses(t *testing.T) {
	env := newTestEnv(t)
	env.policy.SetOnWifi(false)
	rec := &recordingNotifier{}
	m := attached(t, env, Options{Reporter: notify.NewReporter(rec, zerolog.Nop())})
	m = nextEvent(t, m)

	m = press(t, m, space)
	m = nextEvent(t, m) // Loading
	m = nextEvent(t, m) // Warning

	assert.Equal(t, noticeWarning, m.noticeKind)
	require.Len(t, rec.sent, 1)
	assert.Equal(t, notify.UrgencyLow, rec.sent[0].Urgency)
	assert.Equal(t, m.notice, rec.sent[0].Body)

	env.engine.SimulateReady(env.engine.LastToken())
	m = nextEvent(t, m)
	assert.Equal(t, playback.StatePlaying, m.state)
	assert.Equal(t, []uint32{1}, rec.closed)
}

func TestModel_WifiOnlyToggle(t *testing.T) {
	env := newTestEnv(t)
	m := attached(t, env, Options{})
	assert.False(t, m.wifiOnly)

	m = press(t, m, runes("w"))
	assert.True(t, m.wifiOnly)
	assert.True(t, env.session.WifiOnly())
	assert.Contains(t, m.View(), "wifi only")

	m = press(t, m, runes("w"))
	assert.False(t, m.wifiOnly)
}

func TestModel_PickerPlaysChosenStream(t *testing.T) {
	env := newTestEnv(t)
	m := attached(t, env, Options{})
	m = nextEvent(t, m)

	m = press(t, m, runes("l"))
	require.True(t, m.picking)
	assert.Contains(t, m.View(), "Mission Control")

	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(t, m, tea.KeyMsg{Type: tea.KeyDown})
	m = press(t, m, runes("k"))
	assert.Equal(t, 1, m.cursor)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	assert.False(t, m.picking)

	calls := env.engine.LoadCalls()
	require.Len(t, calls, 1)
	assert.Equal(t, 1, calls[0].ID)
}

func TestModel_PickerCursorBounds(t *testing.T) {
	env := newTestEnv(t)
	m := attached(t, env, Options{})
	m = press(t, m, runes("l"))

	m = press(t, m, runes("k"))
	assert.Equal(t, 0, m.cursor)

	for range 20 {
		m = press(t, m, runes("j"))
	}
	assert.Equal(t, len(m.streams)-1, m.cursor)

	m = press(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	assert.False(t, m.picking)
}

func TestModel_NoticeExpires(t *testing.T) {
	env := newTestEnv(t)
	m := attached(t, env, Options{})

	cmd := m.showNotice("Streaming off wifi", noticeWarning)
	require.NotNil(t, cmd)
	seq := m.noticeSeq

	// A newer notice makes the old timeout a no-op
	m.showNotice("Wifi only on", noticeInfo)
	next, _ := m.Update(clearNoticeMsg{seq: seq})
	m = next.(Model)
	assert.Equal(t, "Wifi only on", m.notice)

	next, _ = m.Update(clearNoticeMsg{seq: m.noticeSeq})
	m = next.(Model)
	assert.Empty(t, m.notice)
}

func TestModel_QuitDetaches(t *testing.T) {
	env := newTestEnv(t)
	m := attached(t, env, Options{})
	sub := m.sub

	_, cmd := m.Update(runes("q"))
	require.NotNil(t, cmd)
	msg := cmd()

	assert.IsType(t, tea.QuitMsg{}, msg)
	select {
	case <-sub.Done:
	default:
		t.Fatal("subscription still open after quit")
	}
}

func TestModel_ReplacedObserverStopsListening(t *testing.T) {
	env := newTestEnv(t)
	m := attached(t, env, Options{})
	m = nextEvent(t, m)

	_, _, err := env.session.Attach()
	require.NoError(t, err)

	m = nextEvent(t, m)
	assert.Nil(t, m.sub)
}

func TestModel_ClosedSessionQuits(t *testing.T) {
	env := newTestEnv(t)
	m := attached(t, env, Options{})
	require.NoError(t, env.session.Close())

	next, cmd := m.Update(commandErrMsg{err: playback.ErrClosed})
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
	assert.True(t, strings.Contains(next.View(), "Drone Zone"))
}

type recordingNotifier struct {
	sent   []notify.Notification
	closed []uint32
}

func (r *recordingNotifier) Notify(n notify.Notification) (uint32, error) {
	r.sent = append(r.sent, n)
	return uint32(len(r.sent)), nil
}

func (r *recordingNotifier) Close(id uint32) error {
	r.closed = append(r.closed, id)
	return nil
}
