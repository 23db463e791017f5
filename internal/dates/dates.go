package dates

import "time"

// Two date formats cross this codebase: stored dates and API query dates use
// DD-MM-YYYY, while calendar widgets on the client expect YYYY-MM-DD.
const (
	LayoutDMY = "02-01-2006"
	LayoutISO = "2006-01-02"
)

// ParseDMY parses a DD-MM-YYYY date string.
func ParseDMY(s string) (time.Time, error) {
	return time.Parse(LayoutDMY, s)
}

// FormatDMY renders a date in the persisted DD-MM-YYYY form.
func FormatDMY(t time.Time) string {
	return t.Format(LayoutDMY)
}

// ParseISO parses a YYYY-MM-DD date string.
func ParseISO(s string) (time.Time, error) {
	return time.Parse(LayoutISO, s)
}

// FormatISO renders a date in the YYYY-MM-DD calendar form.
func FormatISO(t time.Time) string {
	return t.Format(LayoutISO)
}

// ToISO converts a stored DD-MM-YYYY string to YYYY-MM-DD.
func ToISO(dmy string) (string, error) {
	t, err := ParseDMY(dmy)
	if err != nil {
		return "", err
	}
	return FormatISO(t), nil
}

// FromISO converts a YYYY-MM-DD string to the stored DD-MM-YYYY form.
func FromISO(iso string) (string, error) {
	t, err := ParseISO(iso)
	if err != nil {
		return "", err
	}
	return FormatDMY(t), nil
}

var dayCodes = [...]string{"Sun", "Mon", "Tue", "Wed", "Thu", "Fri", "Sat"}

// DayCode returns the three-letter weekday code used by the session catalog.
func DayCode(t time.Time) string {
	return dayCodes[int(t.Weekday())]
}

// NextDayCode returns the code of the weekday following t's weekday.
func NextDayCode(t time.Time) string {
	return dayCodes[(int(t.Weekday())+1)%7]
}

// Expand lists every date from start through end inclusive, in DD-MM-YYYY form.
func Expand(start, end time.Time) []string {
	var out []string
	for cur := start; !cur.After(end); cur = cur.AddDate(0, 0, 1) {
		out = append(out, FormatDMY(cur))
	}
	return out
}
