package timetable

import (
	"sort"

	"github.com/dikshanttatrari/not-again-sir-backend/internal/clock"
)

// Status classifies a session relative to the current minute of the day.
type Status string

const (
	StatusLive      Status = "LIVE"
	StatusUpcoming  Status = "UPCOMING"
	StatusCompleted Status = "COMPLETED"
)

// Classified pairs a session with its resolved state.
type Classified struct {
	Session Session
	Status  Status
	Label   string
}

// SortByStart orders sessions ascending by start minute, in place.
func SortByStart(sessions []Session) {
	sort.SliceStable(sessions, func(i, j int) bool {
		return clock.ParseClock(sessions[i].StartTime) < clock.ParseClock(sessions[j].StartTime)
	})
}

// Classify assigns exactly one status to each session for the given minute.
// start <= now <= end is LIVE, now < start is UPCOMING, the rest COMPLETED.
func Classify(nowMinutes int, sessions []Session) []Classified {
	out := make([]Classified, 0, len(sessions))
	for _, s := range sessions {
		start := clock.ParseClock(s.StartTime)
		end := clock.ParseClock(s.EndTime)
		var st Status
		switch {
		case nowMinutes >= start && nowMinutes <= end:
			st = StatusLive
		case nowMinutes < start:
			st = StatusUpcoming
		default:
			st = StatusCompleted
		}
		out = append(out, Classified{Session: s, Status: st, Label: label(st)})
	}
	return out
}

func label(st Status) string {
	switch st {
	case StatusLive:
		return "HAPPENING NOW (Live)"
	case StatusCompleted:
		return "RECENT CLASS"
	default:
		return "UPCOMING CLASS"
	}
}

// NextSession picks the first session, in chronological order, whose end
// minute is still ahead of now. A nil result means the viewer is free for the
// rest of the day; there is no fallback to tomorrow here.
func NextSession(nowMinutes int, today []Session) *Session {
	sorted := append([]Session(nil), today...)
	SortByStart(sorted)
	for i := range sorted {
		if clock.ParseClock(sorted[i].EndTime) > nowMinutes {
			return &sorted[i]
		}
	}
	return nil
}

// NextResult is the resolved next/active session for a dashboard.
type NextResult struct {
	Session    Session
	IsLive     bool
	IsTomorrow bool
	Progress   float64
}

// NextForStudent resolves the student dashboard's next class. Free day yields nil.
func NextForStudent(nowMinutes int, today []Session) *NextResult {
	s := NextSession(nowMinutes, today)
	if s == nil {
		return nil
	}
	res := &NextResult{Session: *s}
	start := clock.ParseClock(s.StartTime)
	if start <= nowMinutes {
		res.IsLive = true
		res.Progress = Progress(nowMinutes, *s)
	}
	return res
}

// NextForTeacher resolves the teacher dashboard's next session: same rule as
// the student view, plus a fallback to the earliest session of the following
// weekday when today has nothing left.
func NextForTeacher(nowMinutes int, today, tomorrow []Session) *NextResult {
	if res := NextForStudent(nowMinutes, today); res != nil {
		return res
	}
	sorted := append([]Session(nil), tomorrow...)
	SortByStart(sorted)
	if len(sorted) == 0 {
		return nil
	}
	return &NextResult{Session: sorted[0], IsTomorrow: true}
}

// Progress reports how far a live session has run, clamped to [0,1].
// Non-live sessions report 0.
func Progress(nowMinutes int, s Session) float64 {
	start := clock.ParseClock(s.StartTime)
	end := clock.ParseClock(s.EndTime)
	if nowMinutes < start || nowMinutes > end || end <= start {
		return 0
	}
	p := float64(nowMinutes-start) / float64(end-start)
	if p > 1 {
		p = 1
	}
	return p
}

// ActiveOrdering emits live sessions first, then upcoming chronologically,
// then completed most-recent-first. The ordering is a UX contract the clients
// depend on; keep it exactly.
func ActiveOrdering(nowMinutes int, sessions []Session) []Classified {
	sorted := append([]Session(nil), sessions...)
	SortByStart(sorted)

	var active, upcoming, completed []Classified
	for _, c := range Classify(nowMinutes, sorted) {
		switch c.Status {
		case StatusLive:
			active = append(active, c)
		case StatusUpcoming:
			upcoming = append(upcoming, c)
		default:
			completed = append(completed, c)
		}
	}
	for i, j := 0, len(completed)-1; i < j; i, j = i+1, j-1 {
		completed[i], completed[j] = completed[j], completed[i]
	}

	out := make([]Classified, 0, len(sorted))
	out = append(out, active...)
	out = append(out, upcoming...)
	out = append(out, completed...)
	return out
}
