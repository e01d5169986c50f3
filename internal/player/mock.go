// internal/player/mock.go
package player

import (
	"sync"

	"github.com/llehouerou/lull/internal/catalog"
)

// Mock is a test double for Engine. Loads never complete on their own; use
// SimulateReady, SimulateFailed and SimulateCompleted to drive them.
type Mock struct {
	mu          sync.Mutex
	state       State
	token       Token
	stream      *catalog.Stream
	volume      float64
	loadCalls   []catalog.Stream
	stopCalls   int
	pauseCalls  int
	resumeCalls int
	volumes     []float64
	onEvent     func(Event)
}

// NewMock creates a new mock engine for testing.
func NewMock() *Mock {
	return &Mock{state: Stopped, volume: 1}
}

func (m *Mock) Load(s catalog.Stream) Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.loadCalls = append(m.loadCalls, s)
	m.token++
	m.stream = &s
	m.state = Loading
	return m.token
}

func (m *Mock) Resume() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.resumeCalls++
	if m.state == Paused {
		m.state = Playing
	}
}

func (m *Mock) Pause() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.pauseCalls++
	if m.state == Playing {
		m.state = Paused
	}
}

func (m *Mock) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.stopCalls++
	m.state = Stopped
	m.stream = nil
}

func (m *Mock) SetVolume(level float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.volume = clampLevel(level)
	m.volumes = append(m.volumes, m.volume)
}

func (m *Mock) IsActive() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.IsActive()
}

func (m *Mock) CurrentlyLoaded() *catalog.Stream {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.stream == nil {
		return nil
	}
	s := *m.stream
	return &s
}

func (m *Mock) OnEvent(fn func(Event)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onEvent = fn
}

// Test helpers

func (m *Mock) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

func (m *Mock) LastToken() Token {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.token
}

func (m *Mock) LoadCalls() []catalog.Stream {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]catalog.Stream(nil), m.loadCalls...)
}

func (m *Mock) StopCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.stopCalls
}

func (m *Mock) PauseCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.pauseCalls
}

func (m *Mock) ResumeCalls() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.resumeCalls
}

func (m *Mock) Volume() float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.volume
}

func (m *Mock) VolumeCalls() []float64 {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]float64(nil), m.volumes...)
}

// SimulateReady reports tok as prepared. Only the latest token changes state.
func (m *Mock) SimulateReady(tok Token) {
	m.mu.Lock()
	if tok == m.token && m.state == Loading {
		m.state = Playing
	}
	fn := m.onEvent
	m.mu.Unlock()
	if fn != nil {
		fn(Event{Token: tok, Kind: Ready})
	}
}

// SimulateFailed reports tok as failed with err.
func (m *Mock) SimulateFailed(tok Token, err error) {
	m.mu.Lock()
	if tok == m.token {
		m.state = Stopped
		m.stream = nil
	}
	fn := m.onEvent
	m.mu.Unlock()
	if fn != nil {
		fn(Event{Token: tok, Kind: Failed, Err: err})
	}
}

// SimulateCompleted reports the natural end of tok's stream.
func (m *Mock) SimulateCompleted(tok Token) {
	m.mu.Lock()
	if tok == m.token {
		m.state = Stopped
		m.stream = nil
	}
	fn := m.onEvent
	m.mu.Unlock()
	if fn != nil {
		fn(Event{Token: tok, Kind: Completed})
	}
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
