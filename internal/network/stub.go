//go:build !linux

package network

import (
	"time"

	"github.com/rs/zerolog"
)

// NewDetector returns Static(fallback) on non-Linux platforms.
func NewDetector(_ time.Duration, fallback bool, _ zerolog.Logger) Detector {
	return Static(fallback)
}
