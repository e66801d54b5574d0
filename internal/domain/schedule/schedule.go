// Package schedule holds the wall-clock arithmetic shared by availability,
// crew conflict detection and workload reports.
package schedule

import (
	"fmt"
	"time"
)

const (
	DateLayout  = "2006-01-02"
	ClockLayout = "15:04"
)

// Window is a half-open [Start, End) range in minutes since midnight.
type Window struct {
	Start int
	End   int
}

// ParseClock parses "HH:MM" into minutes since midnight.
func ParseClock(s string) (int, error) {
	t, err := time.Parse(ClockLayout, s)
	if err != nil || len(s) != len(ClockLayout) {
		return 0, fmt.Errorf("invalid time %q, expected HH:MM", s)
	}
	return t.Hour()*60 + t.Minute(), nil
}

func FormatClock(minutes int) string {
	return fmt.Sprintf("%02d:%02d", minutes/60, minutes%60)
}

// ParseWindow parses a start/end pair and requires start < end.
func ParseWindow(start, end string) (Window, error) {
	s, err := ParseClock(start)
	if err != nil {
		return Window{}, err
	}
	e, err := ParseClock(end)
	if err != nil {
		return Window{}, err
	}
	if s >= e {
		return Window{}, fmt.Errorf("start time %s must be before end time %s", start, end)
	}
	return Window{Start: s, End: e}, nil
}

// Overlaps reports whether w and o share any minute: w.Start < o.End && w.End > o.Start.
// Windows that only touch (10:00-11:00 and 11:00-12:00) do not overlap.
func (w Window) Overlaps(o Window) bool {
	return w.Start < o.End && w.End > o.Start
}

func (w Window) Minutes() int {
	return w.End - w.Start
}

func (w Window) StartClock() string {
	return FormatClock(w.Start)
}

func (w Window) EndClock() string {
	return FormatClock(w.End)
}

// ParseDate parses a "YYYY-MM-DD" calendar date in loc.
func ParseDate(s string, loc *time.Location) (time.Time, error) {
	d, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q, expected YYYY-MM-DD", s)
	}
	return d, nil
}

// WeekBounds returns the Monday and Sunday dates of the week containing t.
func WeekBounds(t time.Time) (string, string) {
	offset := (int(t.Weekday()) + 6) % 7
	monday := t.AddDate(0, 0, -offset)
	sunday := monday.AddDate(0, 0, 6)
	return monday.Format(DateLayout), sunday.Format(DateLayout)
}
