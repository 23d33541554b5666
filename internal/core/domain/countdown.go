package domain

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// CountdownNow is reported when a departure is due or already overdue.
const CountdownNow = "now"

const (
	secondsPerDay     = 24 * 60 * 60
	secondsPerHalfDay = secondsPerDay / 2
)

// clockPattern finds an HH:MM:SS time of day anywhere in a timestamp.
var clockPattern = regexp.MustCompile(`(\d{2}):(\d{2}):(\d{2})`)

// Countdown is the time remaining until a departure.
type Countdown struct {
	// Remaining is zero or negative when the departure is due.
	Remaining time.Duration
}

// IsNow returns true when the departure is due.
func (c Countdown) IsNow() bool {
	return c.Remaining <= 0
}

// String returns HH:MM:SS, or CountdownNow when the departure is due.
func (c Countdown) String() string {
	if c.IsNow() {
		return CountdownNow
	}
	total := int(c.Remaining / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}

// CountdownTo computes the time left until estimated, which is compared by time
// of day only (date and sub-second precision are discarded).
//
// A delta further than half a day away is assumed to have crossed midnight and
// is shifted by one day: 00:05 seen at 23:58 is seven minutes away, and 23:58
// seen at 00:05 is already due.
func CountdownTo(estimated string, now time.Time) (Countdown, error) {
	estSeconds, err := secondsSinceMidnight(estimated)
	if err != nil {
		return Countdown{}, err
	}
	h, m, s := now.Clock()
	nowSeconds := h*3600 + m*60 + s

	delta := estSeconds - nowSeconds
	switch {
	case delta < -secondsPerHalfDay:
		delta += secondsPerDay
	case delta > secondsPerHalfDay:
		delta -= secondsPerDay
	}

	if delta <= 0 {
		return Countdown{}, nil
	}
	return Countdown{Remaining: time.Duration(delta) * time.Second}, nil
}

// secondsSinceMidnight reads the wall-clock time of day written in text.
func secondsSinceMidnight(text string) (int, error) {
	text = strings.TrimSpace(text)
	if t, err := time.Parse(time.RFC3339Nano, text); err == nil {
		h, m, s := t.Clock()
		return h*3600 + m*60 + s, nil
	}

	match := clockPattern.FindStringSubmatch(text)
	if match == nil {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, text)
	}
	h, _ := strconv.Atoi(match[1])
	m, _ := strconv.Atoi(match[2])
	s, _ := strconv.Atoi(match[3])
	if h > 23 || m > 59 || s > 59 {
		return 0, fmt.Errorf("%w: %q", ErrInvalidTimestamp, text)
	}
	return h*3600 + m*60 + s, nil
}
