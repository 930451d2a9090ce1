package activity

import (
	"fmt"
	"strings"
	"time"
)

// TimeLayout is the on-disk timestamp format of the activities table.
// Timestamps are local wall-clock time without a zone suffix.
const TimeLayout = "2006-01-02 15:04:05"

// Event is one completed tracked interval.
type Event struct {
	Start time.Time
	End   time.Time
	Label string
}

// Seconds returns End-Start in seconds. The value is signed: legacy rows
// with an end before their start yield a negative duration.
func (e Event) Seconds() float64 {
	return e.End.Sub(e.Start).Seconds()
}

// Validate reports whether the event can be written to the store.
func (e Event) Validate() error {
	if strings.TrimSpace(e.Label) == "" {
		return ErrEmptyLabel
	}
	if e.End.Before(e.Start) {
		return fmt.Errorf("%w: %s before %s", ErrInvertedInterval, FormatTime(e.End), FormatTime(e.Start))
	}
	return nil
}

// ParseTime parses a stored timestamp in the local time zone.
func ParseTime(s string) (time.Time, error) {
	return time.ParseInLocation(TimeLayout, strings.TrimSpace(s), time.Local)
}

// FormatTime renders t in the stored timestamp format.
func FormatTime(t time.Time) string {
	return t.Format(TimeLayout)
}

// ParseDate accepts either a bare date (YYYY-MM-DD) or a full timestamp.
func ParseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	if t, err := time.ParseInLocation("2006-01-02", s, time.Local); err == nil {
		return t, nil
	}
	t, err := ParseTime(s)
	if err != nil {
		return time.Time{}, fmt.Errorf("parse %q: want YYYY-MM-DD or %q", s, TimeLayout)
	}
	return t, nil
}
