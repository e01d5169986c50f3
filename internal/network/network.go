// Package network decides whether streaming is allowed on the current connection.
package network

import (
	"github.com/rs/zerolog"
)

// Detector reports whether the active connection is wifi.
type Detector interface {
	OnWifi() bool
}

// Static is a Detector with a fixed answer, used when detection is unavailable.
type Static bool

func (s Static) OnWifi() bool { return bool(s) }

// Store persists the wifi-only flag.
type Store interface {
	WifiOnly() (bool, error)
	SetWifiOnly(enabled bool) error
}

// Interface defines the network policy contract for dependency injection and testing.
type Interface interface {
	OnWifi() bool
	WifiOnly() bool
	SetWifiOnly(enabled bool) error
}

// Policy combines connectivity detection with the persisted wifi-only flag.
type Policy struct {
	detector Detector
	store    Store
	logger   zerolog.Logger
}

// NewPolicy creates a network policy.
func NewPolicy(d Detector, s Store, logger zerolog.Logger) *Policy {
	return &Policy{
		detector: d,
		store:    s,
		logger:   logger.With().Str("component", "network").Logger(),
	}
}

// OnWifi reports whether the current connection is wifi.
func (p *Policy) OnWifi() bool {
	return p.detector.OnWifi()
}

// WifiOnly reads the persisted flag. A store error counts as disabled.
func (p *Policy) WifiOnly() bool {
	on, err := p.store.WifiOnly()
	if err != nil {
		p.logger.Warn().Err(err).Msg("read wifi-only flag")
		return false
	}
	return on
}

// SetWifiOnly persists the flag.
func (p *Policy) SetWifiOnly(enabled bool) error {
	return p.store.SetWifiOnly(enabled)
}

// Verify Policy implements Interface at compile time.
var _ Interface = (*Policy)(nil)
