package activity

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

var (
	ErrEmptyLabel       = errors.New("empty activity label")
	ErrInvertedInterval = errors.New("end before start")
)

// Kind selects the reporting cadence.
type Kind string

const (
	Weekly  Kind = "weekly"
	Monthly Kind = "monthly"
)

// ParseKind converts a command-line value to a Kind.
func ParseKind(s string) (Kind, error) {
	switch Kind(strings.ToLower(strings.TrimSpace(s))) {
	case Weekly:
		return Weekly, nil
	case Monthly:
		return Monthly, nil
	}
	return "", fmt.Errorf("unknown report kind %q (want weekly or monthly)", s)
}

// Period is the inclusive range a report aggregates over.
type Period struct {
	Kind  Kind
	Start time.Time
	End   time.Time
}

// PeriodFor returns the report period ending on the calendar day of today.
// Weekly covers the seven days before today plus today; monthly starts on
// the first of the current month. The end bound is the last second of today.
func PeriodFor(kind Kind, today time.Time) Period {
	day := midnight(today)
	end := time.Date(day.Year(), day.Month(), day.Day(), 23, 59, 59, 0, day.Location())

	var start time.Time
	switch kind {
	case Monthly:
		start = time.Date(day.Year(), day.Month(), 1, 0, 0, 0, 0, day.Location())
	default:
		kind = Weekly
		start = day.AddDate(0, 0, -7)
	}
	return Period{Kind: kind, Start: start, End: end}
}

// Contains compares the event start against the bounds as formatted
// strings, so rows are matched exactly as they sit in the table.
func (p Period) Contains(e Event) bool {
	s := FormatTime(e.Start)
	return FormatTime(p.Start) <= s && s <= FormatTime(p.End)
}

// Filter returns the events whose start falls inside the period.
func (p Period) Filter(events []Event) []Event {
	var out []Event
	for _, e := range events {
		if p.Contains(e) {
			out = append(out, e)
		}
	}
	return out
}

// Previous returns the period of the same kind immediately before p.
func (p Period) Previous() Period {
	switch p.Kind {
	case Monthly:
		first := time.Date(p.Start.Year(), p.Start.Month()-1, 1, 0, 0, 0, 0, p.Start.Location())
		return Period{Kind: Monthly, Start: first, End: p.Start.Add(-time.Second)}
	default:
		return Period{Kind: Weekly, Start: p.Start.AddDate(0, 0, -7), End: p.Start.Add(-time.Second)}
	}
}

// Title is the report heading, e.g. "Hawk Eye Report 20240101~20240107".
func (p Period) Title() string {
	return fmt.Sprintf("Hawk Eye Report %s~%s", p.Start.Format("20060102"), p.End.Format("20060102"))
}

func (p Period) String() string {
	return fmt.Sprintf("%s %s..%s", p.Kind, p.Start.Format("2006-01-02"), p.End.Format("2006-01-02"))
}

// DueKind reports which report, if any, is due on today. The last day of
// the month takes precedence over Sunday.
func DueKind(today time.Time) (Kind, bool) {
	if IsLastDayOfMonth(today) {
		return Monthly, true
	}
	if today.Weekday() == time.Sunday {
		return Weekly, true
	}
	return "", false
}

// IsLastDayOfMonth reports whether the next calendar day starts a new month.
func IsLastDayOfMonth(t time.Time) bool {
	return midnight(t).AddDate(0, 0, 1).Day() == 1
}

func midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
