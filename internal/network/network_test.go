package network

import (
	"errors"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"

	"github.com/llehouerou/lull/internal/state"
)

type failingStore struct{}

func (failingStore) WifiOnly() (bool, error) { return true, errors.New("disk gone") }
func (failingStore) SetWifiOnly(bool) error { return errors.New("disk gone") }

func TestPolicy_OnWifiDelegatesToDetector(t *testing.T) {
	for _, on := range []bool{true, false} {
		p := NewPolicy(Static(on), state.NewMock(), zerolog.Nop())
		assert.Equal(t, on, p.OnWifi())
	}
}

func TestPolicy_WifiOnlyReadsStoreEachTime(t *testing.T) {
	store := state.NewMock()
	p := NewPolicy(Static(true), store, zerolog.Nop())

	assert.False(t, p.WifiOnly())

	// Changed behind the policy's back
	_ = store.SetWifiOnly(true)
	assert.True(t, p.WifiOnly())
}

func TestPolicy_SetWifiOnlyPersists(t *testing.T) {
	store := state.NewMock()
	p := NewPolicy(Static(true), store, zerolog.Nop())

	if err := p.SetWifiOnly(true); err != nil {
		t.Fatalf("SetWifiOnly: %v", err)
	}
	on, _ := store.WifiOnly()
	assert.True(t, on)
}

func TestPolicy_StoreErrorCountsAsDisabled(t *testing.T) {
	p := NewPolicy(Static(false), failingStore{}, zerolog.Nop())

	assert.False(t, p.WifiOnly())
	assert.Error(t, p.SetWifiOnly(true))
}
