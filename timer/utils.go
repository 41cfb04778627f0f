package timer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrInvalidTime is returned when a time input is not SS, MM:SS or HH:MM:SS.
var ErrInvalidTime = errors.New("invalid time format")

const (
	// MaxSeconds is the longest accepted duration, 99:59:59.
	MaxSeconds = 100*3600 - 1
	// MaxCount is the largest accepted repeat count.
	MaxCount = 10000
)

// ParseTimeInput converts "SS", "MM:SS" or "HH:MM:SS" into seconds. Every
// field must be a non-negative integer; fields are not range checked, so
// "90" and "1:30" are equivalent. Totals above MaxSeconds are rejected.
func ParseTimeInput(input string) (int, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return 0, ErrInvalidTime
	}

	parts := strings.Split(input, ":")
	if len(parts) > 3 {
		return 0, ErrInvalidTime
	}

	total := 0
	for _, p := range parts {
		if !isDigits(p) {
			return 0, ErrInvalidTime
		}
		n, err := strconv.Atoi(p)
		if err != nil || n > MaxSeconds {
			return 0, ErrInvalidTime
		}
		total = total*60 + n
		if total > MaxSeconds {
			return 0, ErrInvalidTime
		}
	}
	return total, nil
}

// FormatTime converts a number of seconds into HH:MM:SS.
func FormatTime(sec int) string {
	if sec < 0 {
		sec = 0
	}
	return fmt.Sprintf("%02d:%02d:%02d", sec/3600, (sec/60)%60, sec%60)
}

// FormatClock is the countdown display form: MM:SS below one hour,
// HH:MM:SS otherwise.
func FormatClock(sec int) string {
	if sec < 0 {
		sec = 0
	}
	if sec < 3600 {
		return fmt.Sprintf("%02d:%02d", sec/60, sec%60)
	}
	return FormatTime(sec)
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func parseCount(input string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(input))
	if err != nil {
		return 0, err
	}
	if n > MaxCount {
		return 0, strconv.ErrRange
	}
	return n, nil
}
