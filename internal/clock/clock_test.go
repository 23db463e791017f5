package clock

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestParseClock(t *testing.T) {
	cases := []struct {
		in   string
		want int
	}{
		{"12:00 AM", 0},
		{"12:00 PM", 720},
		{"1:30 PM", 810},
		{"9:05 AM", 545},
		{"11:59 PM", 1439},
		{"12:45 AM", 45},
		{"", 0},
		{"garbage", 0},
		{"10:15", 0},
		{"ten:15 AM", 0},
		{"10:xx AM", 0},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, ParseClock(tc.in), "input %q", tc.in)
	}
}

func TestFormatMinutes(t *testing.T) {
	cases := []struct {
		in   int
		want string
	}{
		{0, "12:00 AM"},
		{720, "12:00 PM"},
		{810, "1:30 PM"},
		{545, "9:05 AM"},
		{1439, "11:59 PM"},
		{-5, "12:00 AM"},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, FormatMinutes(tc.in))
	}
}

func TestFormatRoundTrip(t *testing.T) {
	for m := 0; m < 1440; m += 7 {
		require.Equal(t, m, ParseClock(FormatMinutes(m)), "minute %d", m)
	}
}

func TestMinutesOfDay(t *testing.T) {
	ts := time.Date(2026, 3, 9, 14, 25, 59, 0, time.UTC)
	require.Equal(t, 14*60+25, MinutesOfDay(ts))
}

func TestFixedClock(t *testing.T) {
	ts := time.Date(2026, 1, 1, 8, 0, 0, 0, time.UTC)
	var c Clock = Fixed{T: ts}
	require.Equal(t, ts, c.Now())
}
