package clock

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Clock abstracts wall-clock time so schedule resolution and the promotion
// sweep can be tested without waiting on the calendar.
type Clock interface {
	Now() time.Time
}

// Real reads the system clock.
type Real struct{}

func (Real) Now() time.Time { return time.Now() }

// Fixed always returns the same instant.
type Fixed struct {
	T time.Time
}

func (f Fixed) Now() time.Time { return f.T }

// ParseClock converts a 12-hour wall-clock string ("H:MM AM" / "H:MM PM") into
// minutes since midnight. Hour 12 is normalized to 0 before the PM offset is
// applied, so "12:00 AM" is 0 and "12:00 PM" is 720.
//
// Malformed or empty input returns 0. That is a documented fallback, not an
// error: the dashboards rely on it for sessions with no time set.
func ParseClock(s string) int {
	if s == "" {
		return 0
	}
	fields := strings.SplitN(s, " ", 2)
	if len(fields) != 2 {
		return 0
	}
	hm := strings.SplitN(fields[0], ":", 2)
	if len(hm) != 2 {
		return 0
	}
	hours, err := strconv.Atoi(hm[0])
	if err != nil {
		return 0
	}
	minutes, err := strconv.Atoi(hm[1])
	if err != nil {
		return 0
	}
	if hours == 12 {
		hours = 0
	}
	if fields[1] == "PM" {
		hours += 12
	}
	total := hours*60 + minutes
	if total < 0 || total > 1439 {
		return 0
	}
	return total
}

// FormatMinutes renders minutes since midnight back into the 12-hour form
// used everywhere in the API ("9:05 AM", "12:30 PM").
func FormatMinutes(m int) string {
	if m < 0 || m > 1439 {
		m = 0
	}
	hours := m / 60
	minutes := m % 60
	modifier := "AM"
	if hours >= 12 {
		modifier = "PM"
	}
	h := hours % 12
	if h == 0 {
		h = 12
	}
	return fmt.Sprintf("%d:%02d %s", h, minutes, modifier)
}

// MinutesOfDay collapses a time.Time to its minute offset within the day.
func MinutesOfDay(t time.Time) int {
	return t.Hour()*60 + t.Minute()
}
