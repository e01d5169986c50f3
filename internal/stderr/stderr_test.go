//go:build !windows

package stderr

import (
	"bytes"
	"os"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestForward_LogsNonEmptyLines(t *testing.T) {
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatal(err)
	}
	var buf bytes.Buffer
	logger := zerolog.New(&buf)

	go func() {
		_, _ = w.WriteString("ALSA lib pcm.c:8545: underrun occurred\n\n   \nsecond line\n")
		w.Close()
	}()
	forward(r, logger)
	r.Close()

	out := buf.String()
	if n := strings.Count(out, "\n"); n != 2 {
		t.Errorf("logged %d lines, want 2: %s", n, out)
	}
	if !strings.Contains(out, "underrun occurred") || !strings.Contains(out, "second line") {
		t.Errorf("missing lines in %s", out)
	}
}

func TestCapture_RedirectsAndRestores(t *testing.T) {
	var buf bytes.Buffer
	restore, err := Capture(zerolog.New(&buf))
	if err != nil {
		t.Skipf("cannot redirect stderr: %v", err)
	}

	_, _ = os.Stderr.WriteString("snd_pcm_open failed\n")
	restore()
	restore()

	if !strings.Contains(buf.String(), "snd_pcm_open failed") {
		t.Errorf("captured = %q, want redirected line", buf.String())
	}
}
