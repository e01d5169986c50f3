package app

import (
	"time"

	"github.com/charmbracelet/bubbles/help"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/llehouerou/lull/internal/catalog"
	"github.com/llehouerou/lull/internal/notify"
	"github.com/llehouerou/lull/internal/playback"
)

type noticeKind int

const (
	noticeInfo noticeKind = iota
	noticeWarning
	noticeError
)

// Options configures the observer.
type Options struct {
	// Reporter receives error events as desktop notifications. May be nil.
	Reporter *notify.Reporter
}

// Model renders the session and forwards key presses to it. It holds no
// playback truth of its own beyond what the session last reported.
type Model struct {
	session  playback.Service
	reporter *notify.Reporter
	sub      *playback.Subscription

	streams  []catalog.Stream
	stream   *catalog.Stream
	state    playback.State
	timer    time.Duration
	wifiOnly bool

	notice     string
	noticeKind noticeKind
	noticeSeq  int

	picking bool
	cursor  int

	keys  keyMap
	help  help.Model
	width int
}

// New creates the observer. It attaches to the session on Init.
func New(session playback.Service, opts Options) Model {
	return Model{
		session:  session,
		reporter: opts.Reporter,
		streams:  session.Streams(),
		wifiOnly: session.WifiOnly(),
		keys:     defaultKeys(),
		help:     help.New(),
		width:    60,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return attachCmd(m.session)
}
