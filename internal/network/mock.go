package network

import "sync"

// Mock is a test double for Policy.
type Mock struct {
	mu       sync.Mutex
	onWifi   bool
	wifiOnly bool
	setErr   error
	sets     []bool
}

// NewMock creates a mock policy that reports wifi with wifi-only disabled.
func NewMock() *Mock {
	return &Mock{onWifi: true}
}

func (m *Mock) OnWifi() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.onWifi
}

func (m *Mock) WifiOnly() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.wifiOnly
}

func (m *Mock) SetWifiOnly(enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sets = append(m.sets, enabled)
	if m.setErr != nil {
		return m.setErr
	}
	m.wifiOnly = enabled
	return nil
}

// Test helpers

func (m *Mock) SetOnWifi(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.onWifi = on
}

func (m *Mock) SetSetError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.setErr = err
}

func (m *Mock) SetCalls() []bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]bool(nil), m.sets...)
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
