package player

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"sync/atomic"
	"time"
)

// ErrStalled is returned when the server stops sending body data for longer
// than the read timeout.
var ErrStalled = errors.New("stream stalled")

// StatusError is returned when the stream server answers with a non-200 status.
type StatusError struct {
	StatusCode int
	Status     string
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("stream returned status %d: %s", e.StatusCode, e.Status)
}

func newHTTPClient() *http.Client {
	return &http.Client{
		// Streams are long-lived; only connection setup is bounded.
		Timeout: 0,
		Transport: &http.Transport{
			Proxy: http.ProxyFromEnvironment,
			DialContext: (&net.Dialer{
				Timeout: 10 * time.Second,
			}).DialContext,
			TLSHandshakeTimeout:   10 * time.Second,
			ResponseHeaderTimeout: 15 * time.Second,
			MaxIdleConns:          4,
			IdleConnTimeout:       90 * time.Second,
			DisableCompression:    true,
		},
	}
}

// httpStream is an open response body that counts bytes read. Each Read
// must return within the idle timeout or the request is cancelled.
type httpStream struct {
	body        io.ReadCloser
	contentType string
	idle        time.Duration
	ctx         context.Context
	cancel      context.CancelCauseFunc
	read        atomic.Uint64
}

func (h *httpStream) Read(p []byte) (int, error) {
	var timer *time.Timer
	if h.idle > 0 {
		timer = time.AfterFunc(h.idle, func() {
			h.cancel(fmt.Errorf("%w: no data for %v", ErrStalled, h.idle))
		})
	}
	n, err := h.body.Read(p)
	if timer != nil {
		timer.Stop()
	}
	h.read.Add(uint64(n)) //nolint:gosec // n is never negative
	if err != nil {
		if stalled := h.Stalled(); stalled != nil {
			return n, stalled
		}
	}
	return n, err
}

// Close cancels the request. A stall recorded earlier is kept.
func (h *httpStream) Close() error {
	h.cancel(nil)
	return h.body.Close()
}

// Stalled returns the stall error if the idle timeout fired.
func (h *httpStream) Stalled() error {
	if cause := context.Cause(h.ctx); errors.Is(cause, ErrStalled) {
		return cause
	}
	return nil
}

// BytesRead returns the number of body bytes consumed so far.
func (h *httpStream) BytesRead() uint64 {
	return h.read.Load()
}

// openHTTP fetches url. Cancelling ctx aborts the body; idle bounds each
// body read, zero disables it.
func openHTTP(ctx context.Context, client *http.Client, url, userAgent string, idle time.Duration) (*httpStream, error) {
	reqCtx, cancel := context.WithCancelCause(ctx)
	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, url, nil)
	if err != nil {
		cancel(nil)
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	resp, err := client.Do(req)
	if err != nil {
		cancel(nil)
		return nil, fmt.Errorf("fetch stream: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		cancel(nil)
		return nil, &StatusError{StatusCode: resp.StatusCode, Status: resp.Status}
	}

	return &httpStream{
		body:        resp.Body,
		contentType: resp.Header.Get("Content-Type"),
		idle:        idle,
		ctx:         reqCtx,
		cancel:      cancel,
	}, nil
}
