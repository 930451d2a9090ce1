package check

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dustin/go-humanize"

	"github.com/suykerbuyk/habit-hawk/internal/canon"
	"github.com/suykerbuyk/habit-hawk/internal/config"
	"github.com/suykerbuyk/habit-hawk/internal/logging"
	"github.com/suykerbuyk/habit-hawk/internal/store"
)

// Status represents the outcome of a single check.
type Status int

const (
	Pass Status = iota
	Warn
	Fail
)

func (s Status) String() string {
	switch s {
	case Pass:
		return "pass"
	case Warn:
		return "warn"
	case Fail:
		return "FAIL"
	default:
		return "unknown"
	}
}

// Result holds the outcome of a single check.
type Result struct {
	Name   string
	Status Status
	Detail string
}

// Report aggregates all check results.
type Report struct {
	Results []Result
}

// HasFailures returns true if any result has Fail status.
func (r Report) HasFailures() bool {
	for _, res := range r.Results {
		if res.Status == Fail {
			return true
		}
	}
	return false
}

// Format returns the human-readable report string.
func (r Report) Format() string {
	if len(r.Results) == 0 {
		return "hawk check\n\n  no checks ran\n"
	}

	// Find max name length for alignment.
	maxName := 0
	for _, res := range r.Results {
		if len(res.Name) > maxName {
			maxName = len(res.Name)
		}
	}

	var b strings.Builder
	b.WriteString("hawk check\n\n")

	var passed, warnings, failures int
	for _, res := range r.Results {
		switch res.Status {
		case Pass:
			passed++
		case Warn:
			warnings++
		case Fail:
			failures++
		}
		fmt.Fprintf(&b, "  %-4s  %-*s  %s\n", res.Status, maxName, res.Name, res.Detail)
	}

	fmt.Fprintf(&b, "\n%d passed, %d warning, %d failure\n", passed, warnings, failures)
	return b.String()
}

// CheckConfig reports which config file is in effect. Broken TOML never
// gets here: Load fails first.
func CheckConfig(cfg config.Config) Result {
	if cfg.Source() == "" {
		return Result{Name: "config", Status: Warn, Detail: "no config file, using defaults (run `hawk init`)"}
	}
	return Result{Name: "config", Status: Pass, Detail: config.CompressHome(cfg.Source())}
}

// CheckDataDir checks whether the data directory exists.
func CheckDataDir(path string) Result {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return Result{Name: "data", Status: Pass, Detail: config.CompressHome(path)}
	}
	return Result{Name: "data", Status: Warn, Detail: config.CompressHome(path) + " not found (created on first record)"}
}

// CheckStore opens the activity log and counts its rows.
func CheckStore(ctx context.Context, path string) Result {
	info, err := os.Stat(path)
	if err != nil {
		return Result{Name: "store", Status: Warn, Detail: config.CompressHome(path) + " not created yet"}
	}

	var res store.ReadResult
	err = store.WithStore(ctx, path, logging.Discard(), func(s *store.Store) error {
		var err error
		res, err = s.All(ctx)
		return err
	})
	if err != nil {
		return Result{Name: "store", Status: Fail, Detail: err.Error()}
	}

	detail := fmt.Sprintf("%s (%s activities, %s)",
		config.CompressHome(path), humanize.Comma(int64(len(res.Events))), humanize.Bytes(uint64(info.Size())))
	if res.Skipped > 0 {
		return Result{Name: "store", Status: Warn, Detail: fmt.Sprintf("%s, %d malformed rows skipped", detail, res.Skipped)}
	}
	return Result{Name: "store", Status: Pass, Detail: detail}
}

// CheckFont checks the PDF font. Markdown output does not need one.
func CheckFont(cfg config.Config) Result {
	if cfg.Report.Format == config.FormatMarkdown {
		return Result{Name: "font", Status: Pass, Detail: "not needed (markdown output)"}
	}
	path := cfg.FontPath()
	if info, err := os.Stat(path); err == nil && !info.IsDir() {
		return Result{Name: "font", Status: Pass, Detail: config.CompressHome(path)}
	}
	return Result{Name: "font", Status: Fail, Detail: config.CompressHome(path) + " not found (PDF reports will fail)"}
}

// CheckReportsDir checks the report output directory.
func CheckReportsDir(path string) Result {
	if info, err := os.Stat(path); err == nil && info.IsDir() {
		return Result{Name: "reports", Status: Pass, Detail: config.CompressHome(path)}
	}
	return Result{Name: "reports", Status: Warn, Detail: config.CompressHome(path) + " not found (created on first report)"}
}

// CheckGeneration checks narrative generation configuration.
func CheckGeneration(gcfg config.GenerationConfig) Result {
	if !gcfg.Enabled {
		return Result{Name: "generation", Status: Warn, Detail: "disabled (reports carry a placeholder narrative)"}
	}
	keyEnv := gcfg.APIKeyEnv
	if keyEnv == "" {
		keyEnv = "GEMINI_API_KEY"
	}
	if os.Getenv(keyEnv) != "" {
		return Result{Name: "generation", Status: Pass, Detail: fmt.Sprintf("%s set, model %s", keyEnv, gcfg.Model)}
	}
	return Result{Name: "generation", Status: Warn, Detail: keyEnv + " not set"}
}

// CheckClusters summarizes the synonym table.
func CheckClusters(table canon.Table) Result {
	if len(table) == 0 {
		return Result{Name: "clusters", Status: Warn, Detail: "no clusters configured (every label is ad-hoc)"}
	}
	synonyms := 0
	for _, c := range table {
		synonyms += len(c.Synonyms)
	}
	return Result{Name: "clusters", Status: Pass, Detail: fmt.Sprintf("%d clusters, %d synonyms", len(table), synonyms)}
}

// Run executes all checks against the given config and returns a report.
func Run(ctx context.Context, cfg config.Config) Report {
	var results []Result

	results = append(results, CheckConfig(cfg))
	results = append(results, CheckDataDir(cfg.DataDir))
	results = append(results, CheckStore(ctx, cfg.DBPath()))
	results = append(results, CheckReportsDir(cfg.ReportsDir()))
	results = append(results, CheckFont(cfg))
	results = append(results, CheckGeneration(cfg.Generation))
	results = append(results, CheckClusters(cfg.Clusters))

	return Report{Results: results}
}
