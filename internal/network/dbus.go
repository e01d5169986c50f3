//go:build linux

package network

import (
	"context"
	"time"

	"github.com/godbus/dbus/v5"
	"github.com/rs/zerolog"
)

const (
	nmDest        = "org.freedesktop.NetworkManager"
	nmPath        = "/org/freedesktop/NetworkManager"
	nmInterface   = "org.freedesktop.NetworkManager"
	propertiesGet = "org.freedesktop.DBus.Properties.Get"

	connTypeWireless = "802-11-wireless"
)

// nmDetector asks NetworkManager for the primary connection type.
type nmDetector struct {
	obj      dbus.BusObject
	timeout  time.Duration
	fallback bool
	logger   zerolog.Logger
}

// NewDetector returns a NetworkManager-backed detector.
// Returns Static(fallback) if the system bus is unavailable.
func NewDetector(timeout time.Duration, fallback bool, logger zerolog.Logger) Detector {
	logger = logger.With().Str("component", "network").Logger()
	conn, err := dbus.SystemBus()
	if err != nil {
		logger.Debug().Err(err).Bool("assume_wifi", fallback).Msg("system bus unavailable")
		return Static(fallback)
	}
	return &nmDetector{
		obj:      conn.Object(nmDest, nmPath),
		timeout:  timeout,
		fallback: fallback,
		logger:   logger,
	}
}

func (d *nmDetector) OnWifi() bool {
	ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
	defer cancel()

	var v dbus.Variant
	err := d.obj.CallWithContext(ctx, propertiesGet, 0, nmInterface, "PrimaryConnectionType").Store(&v)
	if err != nil {
		d.logger.Debug().Err(err).Msg("query primary connection type")
		return d.fallback
	}
	return isWifi(v)
}

// isWifi treats "no primary connection" as wifi so an idle link never blocks.
func isWifi(v dbus.Variant) bool {
	t, ok := v.Value().(string)
	if !ok {
		return false
	}
	return t == "" || t == connTypeWireless
}
