package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/sirupsen/logrus"

	"github.com/suykerbuyk/habit-hawk/internal/activity"
	"github.com/suykerbuyk/habit-hawk/internal/canon"
	"github.com/suykerbuyk/habit-hawk/internal/config"
	"github.com/suykerbuyk/habit-hawk/internal/stats"
	"github.com/suykerbuyk/habit-hawk/internal/store"
)

func runRecord(ctx context.Context, cfg config.Config, log logrus.FieldLogger, args []string) {
	pos := positional(args, "--start", "--end")
	if len(pos) == 0 {
		fatal("usage: hawk record <label> --start <time> [--end <time>]")
	}
	label := strings.Join(pos, " ")

	startArg := flagValue(args, "--start")
	if startArg == "" {
		fatal("record: --start is required")
	}
	start, err := activity.ParseTime(startArg)
	if err != nil {
		fatal("record: --start: %v", err)
	}
	end := time.Now().Truncate(time.Second)
	if v := flagValue(args, "--end"); v != "" {
		if end, err = activity.ParseTime(v); err != nil {
			fatal("record: --end: %v", err)
		}
	}

	e := activity.Event{Start: start, End: end, Label: label}
	if err := appendEvent(ctx, cfg, log, e); err != nil {
		fatal("record: %v", err)
	}
	fmt.Printf("recorded %s %s (%s)\n", strings.TrimSpace(label), stats.FormatHMS(e.Seconds()), activity.FormatTime(start))
}

func runTrack(cfg config.Config, log logrus.FieldLogger, args []string) {
	label := strings.TrimSpace(strings.Join(positional(args), " "))
	if label == "" {
		fatal("usage: hawk track <label>")
	}

	start := time.Now().Truncate(time.Second)
	fmt.Printf("tracking %s since %s (Ctrl-C to stop)\n", label, start.Format("15:04:05"))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	<-ctx.Done()
	stop()

	end := time.Now().Truncate(time.Second)
	e := activity.Event{Start: start, End: end, Label: label}
	if err := appendEvent(context.Background(), cfg, log, e); err != nil {
		fatal("track: %v", err)
	}
	fmt.Printf("\nrecorded %s %s\n", label, stats.FormatHMS(e.Seconds()))
}

func appendEvent(ctx context.Context, cfg config.Config, log logrus.FieldLogger, e activity.Event) error {
	return store.WithStore(ctx, cfg.DBPath(), log, func(s *store.Store) error {
		return s.Append(ctx, e)
	})
}

func readAll(ctx context.Context, cfg config.Config, log logrus.FieldLogger) []activity.Event {
	var rr store.ReadResult
	err := store.WithStore(ctx, cfg.DBPath(), log, func(s *store.Store) error {
		var err error
		rr, err = s.All(ctx)
		return err
	})
	if err != nil {
		fatal("read activity log: %v", err)
	}
	if rr.Skipped > 0 {
		fmt.Fprintf(os.Stderr, "hawk: skipped %s malformed rows\n", humanize.Comma(int64(rr.Skipped)))
	}
	return rr.Events
}

func runLog(ctx context.Context, cfg config.Config, log logrus.FieldLogger, args []string) {
	events := readAll(ctx, cfg, log)

	if v := flagValue(args, "--since"); v != "" {
		since, err := activity.ParseDate(v)
		if err != nil {
			fatal("log: --since: %v", err)
		}
		var kept []activity.Event
		for _, e := range events {
			if !e.Start.Before(since) {
				kept = append(kept, e)
			}
		}
		events = kept
	}

	if len(events) == 0 {
		fmt.Println("no activities recorded")
		return
	}
	for _, e := range events {
		fmt.Printf("%s  %s  %s  %s\n", activity.FormatTime(e.Start), activity.FormatTime(e.End), stats.FormatHMS(e.Seconds()), e.Label)
	}
	fmt.Printf("\n%s activities\n", humanize.Comma(int64(len(events))))
}

func runStats(ctx context.Context, cfg config.Config, log logrus.FieldLogger, args []string) {
	events := readAll(ctx, cfg, log)
	c := canon.New(cfg.Clusters)

	heading := "All activities"
	if !hasFlag(args, "--all") {
		kind := activity.Weekly
		if v := flagValue(args, "--kind"); v != "" {
			k, err := activity.ParseKind(v)
			if err != nil {
				fatal("stats: %v", err)
			}
			kind = k
		}
		today := dateArg(args, "stats")
		period := activity.PeriodFor(kind, today)
		events = period.Filter(events)
		heading = period.String()
	}

	fmt.Print(stats.Format(heading, stats.Aggregate(events, c), stats.TimeOfDay(events)))
}

func runCanon(cfg config.Config, args []string) {
	labels := positional(args)
	if len(labels) == 0 {
		fatal("usage: hawk canon <label>...")
	}
	c := canon.New(cfg.Clusters)

	width := 0
	for _, l := range labels {
		if n := len([]rune(l)); n > width {
			width = n
		}
	}
	for _, l := range labels {
		m := c.Explain(strings.TrimSpace(l))
		pad := strings.Repeat(" ", width-len([]rune(l)))
		switch m.Kind {
		case canon.AdHoc:
			fmt.Printf("%s%s  -> %s (ad-hoc)\n", l, pad, m.Cluster)
		default:
			fmt.Printf("%s%s  -> %s (%s via %q, ratio %.3f)\n", l, pad, m.Cluster, m.Kind, m.Synonym, m.Ratio)
		}
	}
}

// dateArg returns --date, or today when absent.
func dateArg(args []string, cmd string) time.Time {
	v := flagValue(args, "--date")
	if v == "" {
		return time.Now()
	}
	d, err := activity.ParseDate(v)
	if err != nil {
		fatal("%s: --date: %v", cmd, err)
	}
	return d
}
