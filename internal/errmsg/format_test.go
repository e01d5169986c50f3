//nolint:goconst // test cases intentionally repeat strings for readability
package errmsg

import (
	"errors"
	"testing"
)

func TestFormat(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpPlaybackStart,
			err:      nil,
			expected: "",
		},
		{
			name:     "playback operation",
			op:       OpPlaybackStart,
			err:      errors.New("no audio device"),
			expected: "Failed to start playback: no audio device",
		},
		{
			name:     "stream load",
			op:       OpStreamLoad,
			err:      errors.New("stream returned status 503"),
			expected: "Failed to load stream: stream returned status 503",
		},
		{
			name:     "sleep timer",
			op:       OpSleepTimer,
			err:      errors.New("start a stream first"),
			expected: "Failed to set sleep timer: start a stream first",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := Format(tt.op, tt.err)
			if result != tt.expected {
				t.Errorf("Format(%q, %v) = %q, want %q", tt.op, tt.err, result, tt.expected)
			}
		})
	}
}

func TestFormatWith(t *testing.T) {
	tests := []struct {
		name     string
		op       Op
		context  string
		err      error
		expected string
	}{
		{
			name:     "nil error returns empty string",
			op:       OpStreamLoad,
			context:  "Drone Zone",
			err:      nil,
			expected: "",
		},
		{
			name:     "formats error with context",
			op:       OpStreamLoad,
			context:  "Drone Zone",
			err:      errors.New("connection refused"),
			expected: "Failed to load stream 'Drone Zone': connection refused",
		},
		{
			name:     "empty context falls back to Format",
			op:       OpSettingsSave,
			context:  "",
			err:      errors.New("database is locked"),
			expected: "Failed to save settings: database is locked",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := FormatWith(tt.op, tt.context, tt.err)
			if result != tt.expected {
				t.Errorf("FormatWith(%q, %q, %v) = %q, want %q", tt.op, tt.context, tt.err, result, tt.expected)
			}
		})
	}
}

func TestOpConstants(t *testing.T) {
	ops := []Op{
		OpPlaybackStart, OpPlaybackResume, OpStreamLoad, OpStreamSelect,
		OpSleepTimer,
		OpSettingsLoad, OpSettingsSave, OpWifiOnly,
		OpInitialize,
	}

	testErr := errors.New("test error")

	for _, op := range ops {
		t.Run(string(op), func(t *testing.T) {
			if op == "" {
				t.Error("Op constant should not be empty")
			}

			expected := "Failed to " + string(op) + ": test error"
			if result := Format(op, testErr); result != expected {
				t.Errorf("Format = %q, want %q", result, expected)
			}
		})
	}
}
