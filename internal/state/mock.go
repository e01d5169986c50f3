// internal/state/mock.go
package state

import "sync"

// Mock is a test double for Manager.
type Mock struct {
	mu           sync.Mutex
	lastStreamID int
	wifiOnly     bool
	saveErr      error
	saves        int
	closed       bool
}

// NewMock creates a new mock settings store for testing.
func NewMock() *Mock {
	return &Mock{}
}

func (m *Mock) LastStreamID() (int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.lastStreamID, nil
}

func (m *Mock) SetLastStreamID(id int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.lastStreamID = id
	m.saves++
	return nil
}

func (m *Mock) WifiOnly() (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.wifiOnly, nil
}

func (m *Mock) SetWifiOnly(enabled bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.saveErr != nil {
		return m.saveErr
	}
	m.wifiOnly = enabled
	return nil
}

func (m *Mock) Close() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.closed = true
	return nil
}

// Test helpers

func (m *Mock) SetSaveError(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saveErr = err
}

// LastStreamSaves returns how many times the last stream id was persisted.
func (m *Mock) LastStreamSaves() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.saves
}

func (m *Mock) Closed() bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.closed
}

// Verify Mock implements Interface at compile time.
var _ Interface = (*Mock)(nil)
