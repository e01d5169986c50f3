// Package notify provides desktop notifications via D-Bus.
package notify

import (
	"sync"

	"github.com/rs/zerolog"
)

// Urgency represents notification priority levels per freedesktop spec.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

const defaultTimeoutMs = 5000

// Notification contains data for a desktop notification.
type Notification struct {
	Title      string  // Summary text (required)
	Body       string  // Body text (optional, supports basic markup)
	Icon       string  // Icon name or URL (optional)
	Timeout    int32   // ms, -1 = server default, 0 = never expire
	ReplacesID uint32  // 0 = new notification, >0 = replace existing
	Urgency    Urgency // Low, Normal, Critical
	Category   string  // freedesktop category hint, e.g. "network.error"
}

// Notification categories used by Reporter.
const (
	CategoryError   = "network.error"
	CategoryWarning = "network"
)

// Notifier sends desktop notifications.
type Notifier interface {
	// Notify sends a notification and returns its ID.
	// Returns 0 and nil error if notifications are disabled or unavailable.
	Notify(n Notification) (uint32, error)
	// Close closes a notification by ID.
	Close(id uint32) error
}

// Reporter surfaces playback problems as a single desktop notification that
// is replaced on each report instead of stacking.
type Reporter struct {
	notifier Notifier
	logger   zerolog.Logger

	mu     sync.Mutex
	lastID uint32
}

// NewReporter wraps n. A nil notifier disables reporting.
func NewReporter(n Notifier, logger zerolog.Logger) *Reporter {
	if n == nil {
		n = &stubNotifier{}
	}
	return &Reporter{notifier: n, logger: logger.With().Str("component", "notify").Logger()}
}

// Error reports a failed operation.
func (r *Reporter) Error(message string) {
	r.send(Notification{
		Title:    "lull",
		Body:     message,
		Icon:     "dialog-error",
		Urgency:  UrgencyNormal,
		Category: CategoryError,
	})
}

// Warn reports a non-fatal notice.
func (r *Reporter) Warn(message string) {
	r.send(Notification{
		Title:    "lull",
		Body:     message,
		Icon:     "network-wireless-disconnected",
		Urgency:  UrgencyLow,
		Category: CategoryWarning,
	})
}

// Dismiss closes the current notification, if any.
func (r *Reporter) Dismiss() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.lastID == 0 {
		return
	}
	if err := r.notifier.Close(r.lastID); err != nil {
		r.logger.Debug().Err(err).Msg("close notification")
	}
	r.lastID = 0
}

func (r *Reporter) send(n Notification) {
	r.mu.Lock()
	defer r.mu.Unlock()
	n.Timeout = defaultTimeoutMs
	n.ReplacesID = r.lastID
	id, err := r.notifier.Notify(n)
	if err != nil {
		r.logger.Warn().Err(err).Msg("send notification")
		return
	}
	r.lastID = id
}

// stubNotifier drops everything. Used when no notification service exists.
type stubNotifier struct{}

func (stubNotifier) Notify(Notification) (uint32, error) { return 0, nil }

func (stubNotifier) Close(uint32) error { return nil }
