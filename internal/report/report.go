// Package report runs one weekly or monthly report end to end: read the
// activity log, aggregate the period, detect absences, draft the narrative
// and render the document.
package report

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/suykerbuyk/habit-hawk/internal/activity"
	"github.com/suykerbuyk/habit-hawk/internal/anomaly"
	"github.com/suykerbuyk/habit-hawk/internal/canon"
	"github.com/suykerbuyk/habit-hawk/internal/document"
	"github.com/suykerbuyk/habit-hawk/internal/narrative"
	"github.com/suykerbuyk/habit-hawk/internal/stats"
	"github.com/suykerbuyk/habit-hawk/internal/store"
)

// Observer receives the outcome of every run. *metrics.Metrics satisfies it.
type Observer interface {
	ObserveRun(kind, mode string, placeholder bool, events int, took time.Duration, err error)
}

// Pipeline holds the collaborators shared by every run.
type Pipeline struct {
	StorePath   string
	ReportsDir  string
	AbsenceDays int

	Canon    *canon.Canonicalizer
	Detector *anomaly.Detector
	Composer *narrative.Composer
	Renderer document.Renderer
	Observer Observer // optional

	Log logrus.FieldLogger
	Now func() time.Time
}

// Result describes a finished run.
type Result struct {
	RunID       string
	Kind        activity.Kind
	Period      activity.Period
	Path        string
	Mode        narrative.Mode
	Placeholder bool
	Events      int // events inside the period
	Skipped     int // malformed rows ignored while reading
}

// Run produces the kind report for the period ending on today.
func (p *Pipeline) Run(ctx context.Context, kind activity.Kind, today time.Time) (Result, error) {
	started := p.now()
	period := activity.PeriodFor(kind, today)
	res := Result{RunID: uuid.NewString(), Kind: kind, Period: period}

	log := p.logger().WithFields(logrus.Fields{
		"run_id": res.RunID,
		"kind":   string(kind),
		"period": period.String(),
	})
	log.Info("report run started")

	err := p.run(ctx, log, today, &res)

	if p.Observer != nil {
		p.Observer.ObserveRun(string(kind), res.Mode.String(), res.Placeholder, res.Events, p.now().Sub(started), err)
	}
	if err != nil {
		log.WithError(err).Error("report run failed")
		return res, err
	}

	log.WithFields(logrus.Fields{
		"path":        res.Path,
		"mode":        res.Mode.String(),
		"events":      res.Events,
		"placeholder": res.Placeholder,
	}).Info("report written")
	return res, nil
}

// RunDue runs the report due on today, if any. Monthly wins over weekly
// when the last day of the month is a Sunday.
func (p *Pipeline) RunDue(ctx context.Context, today time.Time) (Result, bool, error) {
	kind, due := activity.DueKind(today)
	if !due {
		return Result{}, false, nil
	}
	res, err := p.Run(ctx, kind, today)
	return res, true, err
}

func (p *Pipeline) run(ctx context.Context, log logrus.FieldLogger, today time.Time, res *Result) error {
	var all []activity.Event
	err := store.WithStore(ctx, p.StorePath, log, func(s *store.Store) error {
		rr, err := s.All(ctx)
		if err != nil {
			return err
		}
		all = rr.Events
		res.Skipped = rr.Skipped
		return nil
	})
	if err != nil {
		return fmt.Errorf("read activity log: %w", err)
	}

	period := res.Period
	events := period.Filter(all)
	res.Events = len(events)

	current := stats.Aggregate(events, p.Canon)
	previous := stats.Aggregate(period.Previous().Filter(all), p.Canon)

	// A backfilled report judges absence as of its own period end.
	now := p.now()
	if now.After(period.End) {
		now = period.End
	}

	in := narrative.Input{
		Period:      period,
		Stats:       current,
		Histogram:   stats.TimeOfDay(startedBy(all, period.End)),
		Absences:    p.Detector.Detect(all, current, now),
		Deltas:      anomaly.Compare(previous, current),
		AbsenceDays: p.AbsenceDays,
	}

	text, mode := p.Composer.Narrate(ctx, in)
	res.Mode = mode
	res.Placeholder = narrative.IsPlaceholder(text)

	doc := document.Report{
		Title:     period.Title(),
		Narrative: text,
		Stats:     current,
		Mode:      mode,
		Period:    period,
	}

	path := OutputPath(p.ReportsDir, res.Kind, today, extension(p.Renderer))
	if err := p.Renderer.Render(doc.Title, document.Build(doc), path); err != nil {
		return fmt.Errorf("render report: %w", err)
	}
	res.Path = path
	return nil
}

// startedBy returns the events that started no later than end. For a
// report run today that is the whole history.
func startedBy(events []activity.Event, end time.Time) []activity.Event {
	var out []activity.Event
	for _, e := range events {
		if !e.Start.After(end) {
			out = append(out, e)
		}
	}
	return out
}

// OutputPath is <dir>/<kind>/<kind>_report_<YYYYMMDD><ext>.
func OutputPath(dir string, kind activity.Kind, today time.Time, ext string) string {
	name := fmt.Sprintf("%s_report_%s%s", kind, today.Format("20060102"), ext)
	return filepath.Join(dir, string(kind), name)
}

func extension(r document.Renderer) string {
	if e, ok := r.(document.Extension); ok {
		return e.Ext()
	}
	return ".pdf"
}

func (p *Pipeline) now() time.Time {
	if p.Now != nil {
		return p.Now()
	}
	return time.Now()
}

func (p *Pipeline) logger() logrus.FieldLogger {
	if p.Log != nil {
		return p.Log
	}
	return logrus.StandardLogger()
}
