//go:build !windows

// Package stderr captures output that C audio libraries (ALSA through oto)
// write straight to file descriptor 2, so it lands in the log instead of
// corrupting the terminal UI.
package stderr

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"golang.org/x/sys/unix"
)

// Capture redirects fd 2 into logger until the returned restore func is
// called. Restore is safe to call more than once.
func Capture(logger zerolog.Logger) (restore func(), err error) {
	r, w, err := os.Pipe()
	if err != nil {
		return func() {}, fmt.Errorf("create pipe: %w", err)
	}

	fd := int(os.Stderr.Fd())
	orig, err := unix.Dup(fd)
	if err != nil {
		r.Close()
		w.Close()
		return func() {}, fmt.Errorf("dup stderr: %w", err)
	}
	if err := unix.Dup2(int(w.Fd()), fd); err != nil {
		unix.Close(orig)
		r.Close()
		w.Close()
		return func() {}, fmt.Errorf("redirect stderr: %w", err)
	}

	logger = logger.With().Str("component", "stderr").Logger()
	done := make(chan struct{})
	go func() {
		defer close(done)
		forward(r, logger)
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			_ = unix.Dup2(orig, fd)
			_ = unix.Close(orig)
			w.Close()
			<-done
			r.Close()
		})
	}, nil
}

// forward logs each non-empty line until r is closed.
func forward(r *os.File, logger zerolog.Logger) {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		if line := strings.TrimSpace(scanner.Text()); line != "" {
			logger.Warn().Msg(line)
		}
	}
}
