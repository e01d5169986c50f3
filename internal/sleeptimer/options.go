package sleeptimer

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidOption is returned for an option outside the table.
var ErrInvalidOption = errors.New("invalid sleep timer option")

// options maps a user-facing choice to its countdown length. Option 0 is off.
var options = []time.Duration{
	0,
	15 * time.Second,
	20 * time.Minute,
	30 * time.Minute,
	40 * time.Minute,
	50 * time.Minute,
	1 * time.Hour,
	2 * time.Hour,
	3 * time.Hour,
}

var optionLabels = []string{
	"Off",
	"15 seconds",
	"20 minutes",
	"30 minutes",
	"40 minutes",
	"50 minutes",
	"1 hour",
	"2 hours",
	"3 hours",
}

// NumOptions is the number of entries in the option table.
func NumOptions() int {
	return len(options)
}

// DurationFor returns the countdown length for option.
func DurationFor(option int) (time.Duration, error) {
	if option < 0 || option >= len(options) {
		return 0, fmt.Errorf("%w: %d", ErrInvalidOption, option)
	}
	return options[option], nil
}

// Label returns the display name for option, or "" if invalid.
func Label(option int) string {
	if option < 0 || option >= len(optionLabels) {
		return ""
	}
	return optionLabels[option]
}

// FormatRemaining renders a countdown as HH:MM:SS above one hour and MM:SS
// otherwise. Zero or negative renders as "".
func FormatRemaining(d time.Duration) string {
	if d <= 0 {
		return ""
	}
	secs := int64(d.Round(time.Second) / time.Second)
	if d > time.Hour {
		return fmt.Sprintf("%02d:%02d:%02d", secs/3600, (secs/60)%60, secs%60)
	}
	return fmt.Sprintf("%02d:%02d", secs/60, secs%60)
}
