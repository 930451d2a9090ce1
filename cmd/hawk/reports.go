package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/suykerbuyk/habit-hawk/internal/activity"
	"github.com/suykerbuyk/habit-hawk/internal/anomaly"
	"github.com/suykerbuyk/habit-hawk/internal/canon"
	"github.com/suykerbuyk/habit-hawk/internal/config"
	"github.com/suykerbuyk/habit-hawk/internal/document"
	"github.com/suykerbuyk/habit-hawk/internal/generation"
	"github.com/suykerbuyk/habit-hawk/internal/metrics"
	"github.com/suykerbuyk/habit-hawk/internal/narrative"
	"github.com/suykerbuyk/habit-hawk/internal/report"
	"github.com/suykerbuyk/habit-hawk/internal/schedule"
)

// newPipeline builds the collaborators for report runs from cfg. obs may
// be nil.
func newPipeline(cfg config.Config, log logrus.FieldLogger, obs report.Observer) *report.Pipeline {
	c := canon.New(cfg.Clusters)
	gen := generation.New(cfg.Generation, cfg.Report.Language)
	rng := rand.New(rand.NewSource(time.Now().UnixNano()))

	var r document.Renderer = document.NewPDF(cfg.FontPath())
	if cfg.Report.Format == config.FormatMarkdown {
		r = document.NewMarkdown()
	}

	return &report.Pipeline{
		StorePath:   cfg.DBPath(),
		ReportsDir:  cfg.ReportsDir(),
		AbsenceDays: cfg.Report.AbsenceDays,
		Canon:       c,
		Detector:    anomaly.NewDetector(c, cfg.AbsenceThreshold()),
		Composer:    narrative.NewComposer(gen, rng, cfg.Report.PraiseProbability, log),
		Renderer:    r,
		Observer:    obs,
		Log:         log,
	}
}

func runReport(ctx context.Context, cfg config.Config, log logrus.FieldLogger, args []string) {
	today := dateArg(args, "report")
	force := hasFlag(args, "--force")

	var kind activity.Kind
	if v := flagValue(args, "--kind"); v != "" {
		k, err := activity.ParseKind(v)
		if err != nil {
			fatal("report: %v", err)
		}
		kind = k
	}

	due, isDue := activity.DueKind(today)
	switch {
	case force && kind == "":
		kind = activity.Weekly
		if isDue {
			kind = due
		}
	case !force && !isDue:
		fmt.Printf("no report due on %s (use --force)\n", today.Format("2006-01-02"))
		return
	case !force && kind != "" && kind != due:
		fmt.Printf("no %s report due on %s (use --force)\n", kind, today.Format("2006-01-02"))
		return
	case !force:
		kind = due
	}

	res, err := newPipeline(cfg, log, nil).Run(ctx, kind, today)
	if err != nil {
		fatal("%s report failed: %v", kind, err)
	}

	fmt.Printf("wrote %s\n", config.CompressHome(res.Path))
	fmt.Printf("  %d activities, %s mode\n", res.Events, res.Mode)
	if res.Placeholder {
		fmt.Println("  narrative unavailable; placeholder written (see hawk check)")
	}
}

func daemonSettings(cfg config.Config, log logrus.FieldLogger, m *metrics.Metrics) (schedule.Settings, error) {
	interval, err := cfg.Daemon.Interval()
	if err != nil {
		return schedule.Settings{}, err
	}
	hour, minute, err := cfg.Daemon.RunAtClock()
	if err != nil {
		return schedule.Settings{}, err
	}
	return schedule.Settings{
		Runner:   newPipeline(cfg, log, m),
		Interval: interval,
		Hour:     hour,
		Minute:   minute,
	}, nil
}

func runDaemon(cfg config.Config, log *logrus.Logger) {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	m := metrics.New()
	settings, err := daemonSettings(cfg, log, m)
	if err != nil {
		fatal("daemon: %v", err)
	}
	d := schedule.New(filepath.Join(cfg.StateDir(), "last_run.json"), settings, log)

	if addr := cfg.Daemon.MetricsAddr; addr != "" {
		srv := m.Server(addr)
		go func() {
			if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				log.WithError(err).Error("metrics server stopped")
			}
		}()
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			srv.Shutdown(shutdownCtx)
		}()
		log.WithField("addr", addr).Info("serving metrics")
	}

	if path := cfg.Source(); path != "" {
		go func() {
			err := schedule.Watch(ctx, path, schedule.DefaultDebounce, log, func() {
				reload(path, log, m, d)
			})
			if err != nil {
				log.WithError(err).Warn("config reload disabled")
			}
		}()
	}

	log.WithFields(logrus.Fields{
		"interval": settings.Interval.String(),
		"run_at":   cfg.Daemon.RunAt,
		"config":   cfg.Source(),
	}).Info("daemon started")

	if err := d.Loop(ctx); err != nil && !errors.Is(err, context.Canceled) {
		fatal("daemon: %v", err)
	}
	log.Info("daemon stopped")
}

// reload re-reads the config file and swaps the daemon onto it. A bad
// file keeps the previous settings.
func reload(path string, log *logrus.Logger, m *metrics.Metrics, d *schedule.Daemon) {
	cfg, err := config.LoadFile(path)
	if err == nil {
		var s schedule.Settings
		if s, err = daemonSettings(cfg, log, m); err == nil {
			if lvl, lerr := logrus.ParseLevel(cfg.Log.Level); lerr == nil {
				log.SetLevel(lvl)
			}
			d.Update(s)
		}
	}
	m.ObserveReload(err)
	if err != nil {
		log.WithError(err).Warn("config reload failed, keeping previous settings")
		return
	}
	log.WithField("config", path).Info("config reloaded")
}
