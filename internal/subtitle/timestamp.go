package subtitle

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"time"
)

// largest hour value whose HH:59:59,999 still fits in a time.Duration
const maxHours = int64(math.MaxInt64/time.Hour) - 1

var timestampRegex = regexp.MustCompile(`^(\d{2,}):([0-5]\d):([0-5]\d),(\d{3})$`)

// ParseTimestamp parses the fixed HH:MM:SS,mmm form. Hours may be wider than
// two digits; minutes and seconds must be 00-59.
func ParseTimestamp(s string) (time.Duration, error) {
	matches := timestampRegex.FindStringSubmatch(s)
	if matches == nil {
		return 0, fmt.Errorf("invalid timestamp %q: want HH:MM:SS,mmm", s)
	}

	h, err := strconv.ParseInt(matches[1], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid hours in %q: %w", s, err)
	}
	if h > maxHours {
		return 0, fmt.Errorf("hours in %q exceed %d", s, maxHours)
	}
	m, _ := strconv.Atoi(matches[2])
	sec, _ := strconv.Atoi(matches[3])
	ms, _ := strconv.Atoi(matches[4])

	return time.Duration(h)*time.Hour +
		time.Duration(m)*time.Minute +
		time.Duration(sec)*time.Second +
		time.Duration(ms)*time.Millisecond, nil
}

// FormatTimestamp renders d as HH:MM:SS,mmm, truncating below milliseconds.
// Negative durations clamp to zero.
func FormatTimestamp(d time.Duration) string {
	return formatClock(d, ',')
}

func formatClock(d time.Duration, msSep byte) string {
	if d < 0 {
		d = 0
	}
	hours := int64(d / time.Hour)
	minutes := int64(d/time.Minute) % 60
	seconds := int64(d/time.Second) % 60
	millis := int64(d/time.Millisecond) % 1000

	return fmt.Sprintf("%02d:%02d:%02d%c%03d", hours, minutes, seconds, msSep, millis)
}
