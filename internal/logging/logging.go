package logging

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/adrg/xdg"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Options selects where and how verbosely the process logs.
type Options struct {
	Level string // debug, info, warn, error
	File  string // empty means $XDG_STATE_HOME/lull/lull.log
	// Stderr writes human-readable output to stderr instead of a file.
	// The TUI owns the terminal, so only non-interactive commands use it.
	Stderr bool
}

type nopCloser struct{}

func (nopCloser) Close() error { return nil }

// Setup configures zerolog for the process. The returned closer releases the
// log file.
func Setup(opts Options) (zerolog.Logger, io.Closer, error) {
	level, err := ParseLevel(opts.Level)
	if err != nil {
		return zerolog.Nop(), nopCloser{}, err
	}

	var (
		writer io.Writer
		closer io.Closer = nopCloser{}
	)
	if opts.Stderr {
		writer = zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}
	} else {
		path, err := logPath(opts.File)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, err
		}
		f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o600)
		if err != nil {
			return zerolog.Nop(), nopCloser{}, fmt.Errorf("open log file: %w", err)
		}
		writer, closer = f, f
	}

	logger := zerolog.New(writer).With().Timestamp().Logger().Level(level)
	log.Logger = logger
	return logger, closer, nil
}

// ParseLevel maps a config level to zerolog. Empty means info.
func ParseLevel(s string) (zerolog.Level, error) {
	if s == "" {
		return zerolog.InfoLevel, nil
	}
	level, err := zerolog.ParseLevel(s)
	if err != nil {
		return zerolog.NoLevel, fmt.Errorf("invalid log level %q", s)
	}
	return level, nil
}

func logPath(path string) (string, error) {
	if path == "" {
		p, err := xdg.StateFile("lull/lull.log")
		if err != nil {
			return "", fmt.Errorf("resolve log path: %w", err)
		}
		return p, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return "", fmt.Errorf("create log dir: %w", err)
	}
	return path, nil
}
