// Package schedule runs due reports from a long-lived daemon.
package schedule

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/suykerbuyk/habit-hawk/internal/activity"
	"github.com/suykerbuyk/habit-hawk/internal/report"
)

// Runner produces the report due on a day. *report.Pipeline satisfies it.
type Runner interface {
	RunDue(ctx context.Context, today time.Time) (report.Result, bool, error)
}

// Daemon checks on every tick whether a report is due and runs it at most
// once per kind and calendar day.
type Daemon struct {
	StatePath string
	Log       logrus.FieldLogger
	Now       func() time.Time

	mu       sync.Mutex
	runner   Runner
	interval time.Duration
	hour     int
	minute   int
}

// Settings is the reloadable part of a Daemon.
type Settings struct {
	Runner   Runner
	Interval time.Duration
	Hour     int // run_at, local time
	Minute   int
}

// New returns a Daemon storing its bookkeeping at statePath.
func New(statePath string, s Settings, log logrus.FieldLogger) *Daemon {
	if log == nil {
		log = logrus.StandardLogger()
	}
	d := &Daemon{StatePath: statePath, Log: log, Now: time.Now}
	d.Update(s)
	return d
}

// Update swaps in new settings. Takes effect on the next tick.
func (d *Daemon) Update(s Settings) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.runner = s.Runner
	d.interval = s.Interval
	d.hour = s.Hour
	d.minute = s.Minute
}

func (d *Daemon) settings() Settings {
	d.mu.Lock()
	defer d.mu.Unlock()
	return Settings{Runner: d.runner, Interval: d.interval, Hour: d.hour, Minute: d.minute}
}

// Tick runs the due report if run_at has passed today and it has not run
// yet. It reports whether a report was written.
func (d *Daemon) Tick(ctx context.Context) (bool, error) {
	s := d.settings()
	now := d.Now()

	runAt := time.Date(now.Year(), now.Month(), now.Day(), s.Hour, s.Minute, 0, 0, now.Location())
	if now.Before(runAt) {
		return false, nil
	}
	kind, due := activity.DueKind(now)
	if !due {
		return false, nil
	}

	st, err := loadState(d.StatePath)
	if errors.Is(err, errCorruptState) {
		d.Log.WithError(err).Warn("ignoring unreadable schedule state")
		st, err = state{}, nil
	}
	if err != nil {
		return false, err
	}
	today := now.Format("2006-01-02")
	if st[string(kind)] == today {
		return false, nil
	}

	res, ran, err := s.Runner.RunDue(ctx, now)
	if err != nil {
		return false, fmt.Errorf("%s report: %w", kind, err)
	}
	if !ran {
		return false, nil
	}

	st[string(res.Kind)] = today
	if err := saveState(d.StatePath, st); err != nil {
		return true, err
	}
	d.Log.WithFields(logrus.Fields{"kind": string(res.Kind), "path": res.Path}).Info("scheduled report written")
	return true, nil
}

// Loop ticks immediately and then every interval until ctx is cancelled.
// Ticks never overlap; a failed tick is logged and retried next time.
func (d *Daemon) Loop(ctx context.Context) error {
	for {
		if _, err := d.Tick(ctx); err != nil {
			d.Log.WithError(err).Error("scheduled report failed")
		}

		interval := d.settings().Interval
		if interval <= 0 {
			interval = time.Minute
		}
		timer := time.NewTimer(interval)
		select {
		case <-ctx.Done():
			timer.Stop()
			return ctx.Err()
		case <-timer.C:
		}
	}
}

// state maps a report kind to the last date it ran.
type state map[string]string

var errCorruptState = errors.New("corrupt schedule state")

// loadState reads the last-run dates. A missing file is an empty state.
func loadState(path string) (state, error) {
	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return state{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read schedule state: %w", err)
	}
	st := state{}
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("%w %s: %v", errCorruptState, path, err)
	}
	return st, nil
}

func saveState(path string, st state) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create state dir: %w", err)
	}
	data, err := json.MarshalIndent(st, "", "  ")
	if err != nil {
		return err
	}
	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, append(data, '\n'), 0o644); err != nil {
		return fmt.Errorf("write schedule state: %w", err)
	}
	return os.Rename(tmp, path)
}
