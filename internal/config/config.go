package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"

	"github.com/suykerbuyk/habit-hawk/internal/canon"
)

// Config holds all habit-hawk configuration.
type Config struct {
	DataDir string `toml:"data_dir"`

	Store      StoreConfig      `toml:"store"`
	Report     ReportConfig     `toml:"report"`
	Generation GenerationConfig `toml:"generation"`
	Log        LogConfig        `toml:"log"`
	Daemon     DaemonConfig     `toml:"daemon"`
	Clusters   canon.Table      `toml:"clusters"`

	source string
}

type StoreConfig struct {
	Path string `toml:"path"` // default: <data_dir>/habit_log.db
}

type ReportConfig struct {
	Dir               string  `toml:"dir"`    // default: <data_dir>/reports
	Format            string  `toml:"format"` // "pdf" or "markdown"
	FontPath          string  `toml:"font_path"`
	Language          string  `toml:"language"`
	PraiseProbability float64 `toml:"praise_probability"`
	AbsenceDays       int     `toml:"absence_days"`
}

type GenerationConfig struct {
	Enabled        bool    `toml:"enabled"`
	TimeoutSeconds int     `toml:"timeout_seconds"`
	Provider       string  `toml:"provider"`
	Model          string  `toml:"model"`
	APIKeyEnv      string  `toml:"api_key_env"`
	BaseURL        string  `toml:"base_url"`
	Temperature    float64 `toml:"temperature"`
}

type LogConfig struct {
	Level  string `toml:"level"`
	Format string `toml:"format"` // "text" or "json"
}

type DaemonConfig struct {
	CheckInterval string `toml:"check_interval"`
	RunAt         string `toml:"run_at"` // HH:MM local time
	MetricsAddr   string `toml:"metrics_addr"`
}

const (
	FormatPDF      = "pdf"
	FormatMarkdown = "markdown"
)

// DefaultConfig returns config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		DataDir: defaultDataDir(),
		Report: ReportConfig{
			Format:            FormatPDF,
			Language:          "Japanese",
			PraiseProbability: 0.05,
			AbsenceDays:       30,
		},
		Generation: GenerationConfig{
			Enabled:        true,
			TimeoutSeconds: 60,
			Provider:       "openai",
			Model:          "gemini-2.5-flash",
			APIKeyEnv:      "GEMINI_API_KEY",
			BaseURL:        "https://generativelanguage.googleapis.com/v1beta/openai/",
			Temperature:    0.7,
		},
		Log: LogConfig{
			Level:  "info",
			Format: "text",
		},
		Daemon: DaemonConfig{
			CheckInterval: "15m",
			RunAt:         "21:00",
		},
		Clusters: canon.DefaultTable(),
	}
}

// Load reads config from the standard path, falling back to defaults.
// A .env file next to the config or in the working directory is loaded
// into the environment first; variables already set win.
func Load() (Config, error) {
	LoadEnv()

	for _, p := range configPaths() {
		if _, err := os.Stat(p); err == nil {
			return LoadFile(p)
		}
	}

	cfg := DefaultConfig()
	cfg.expand()
	return cfg, nil
}

// LoadFile reads config from path on top of the defaults.
func LoadFile(path string) (Config, error) {
	cfg := DefaultConfig()
	cfg.Clusters = nil

	if _, err := toml.DecodeFile(path, &cfg); err != nil {
		return cfg, fmt.Errorf("parse config %s: %w", path, err)
	}
	if len(cfg.Clusters) == 0 {
		cfg.Clusters = canon.DefaultTable()
	}
	cfg.Clusters = cfg.Clusters.Normalize()
	cfg.source = path
	cfg.expand()

	if err := cfg.Validate(); err != nil {
		return cfg, fmt.Errorf("invalid config %s: %w", path, err)
	}
	return cfg, nil
}

// LoadEnv loads .env files from the config dir and the working directory.
// Missing files are ignored.
func LoadEnv() {
	for _, p := range []string{filepath.Join(ConfigDir(), ".env"), ".env"} {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
		}
	}
}

// Validate checks values that would otherwise fail deep inside a run.
func (c Config) Validate() error {
	var errs []error

	if p := c.Report.PraiseProbability; p < 0 || p > 1 {
		errs = append(errs, fmt.Errorf("report.praise_probability must be within [0, 1], got %v", p))
	}
	if c.Report.AbsenceDays <= 0 {
		errs = append(errs, fmt.Errorf("report.absence_days must be > 0, got %d", c.Report.AbsenceDays))
	}
	switch c.Report.Format {
	case FormatPDF, FormatMarkdown:
	default:
		errs = append(errs, fmt.Errorf("report.format must be %q or %q, got %q", FormatPDF, FormatMarkdown, c.Report.Format))
	}
	if c.Generation.TimeoutSeconds < 0 {
		errs = append(errs, errors.New("generation.timeout_seconds must be >= 0"))
	}
	if _, err := c.Daemon.Interval(); err != nil {
		errs = append(errs, err)
	}
	if _, _, err := c.Daemon.RunAtClock(); err != nil {
		errs = append(errs, err)
	}

	seen := make(map[string]bool)
	for i, cl := range c.Clusters {
		if cl.Name == "" {
			errs = append(errs, fmt.Errorf("clusters[%d]: empty name", i))
			continue
		}
		if seen[cl.Name] {
			errs = append(errs, fmt.Errorf("clusters[%d]: duplicate name %q", i, cl.Name))
		}
		seen[cl.Name] = true
	}

	return errors.Join(errs...)
}

// Source returns the config file that was loaded, or "" for defaults.
func (c Config) Source() string {
	return c.source
}

// DBPath returns the event store location.
func (c Config) DBPath() string {
	if c.Store.Path != "" {
		return c.Store.Path
	}
	return filepath.Join(c.DataDir, "habit_log.db")
}

// ReportsDir returns the root directory for rendered reports.
func (c Config) ReportsDir() string {
	if c.Report.Dir != "" {
		return c.Report.Dir
	}
	return filepath.Join(c.DataDir, "reports")
}

// FontPath returns the TrueType font used for PDF output.
func (c Config) FontPath() string {
	if c.Report.FontPath != "" {
		return c.Report.FontPath
	}
	return filepath.Join(c.DataDir, "fonts", "ZenAntique-Regular.ttf")
}

// BackupDir returns where event-log backups are written.
func (c Config) BackupDir() string {
	return filepath.Join(c.DataDir, "backups")
}

// StateDir holds daemon bookkeeping such as the last report run.
func (c Config) StateDir() string {
	return filepath.Join(c.DataDir, "state")
}

// AbsenceThreshold converts report.absence_days to a duration.
func (c Config) AbsenceThreshold() time.Duration {
	return time.Duration(c.Report.AbsenceDays) * 24 * time.Hour
}

// Timeout returns the per-call generation timeout, 0 for none.
func (g GenerationConfig) Timeout() time.Duration {
	return time.Duration(g.TimeoutSeconds) * time.Second
}

// Interval parses daemon.check_interval.
func (d DaemonConfig) Interval() (time.Duration, error) {
	iv, err := time.ParseDuration(d.CheckInterval)
	if err != nil {
		return 0, fmt.Errorf("daemon.check_interval: %w", err)
	}
	if iv <= 0 {
		return 0, fmt.Errorf("daemon.check_interval must be > 0, got %s", iv)
	}
	return iv, nil
}

// RunAtClock parses daemon.run_at as hour and minute.
func (d DaemonConfig) RunAtClock() (int, int, error) {
	t, err := time.Parse("15:04", d.RunAt)
	if err != nil {
		return 0, 0, fmt.Errorf("daemon.run_at: want HH:MM, got %q", d.RunAt)
	}
	return t.Hour(), t.Minute(), nil
}

func (c *Config) expand() {
	c.DataDir = expandHome(c.DataDir)
	c.Store.Path = expandHome(c.Store.Path)
	c.Report.Dir = expandHome(c.Report.Dir)
	c.Report.FontPath = expandHome(c.Report.FontPath)
}

func configPaths() []string {
	var paths []string

	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		paths = append(paths, filepath.Join(xdg, "habit-hawk", "config.toml"))
	}

	home, _ := os.UserHomeDir()
	if home != "" {
		paths = append(paths, filepath.Join(home, ".config", "habit-hawk", "config.toml"))
	}

	return paths
}

func defaultDataDir() string {
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		return filepath.Join(xdg, "habit-hawk")
	}
	return "~/.local/share/habit-hawk"
}

func expandHome(path string) string {
	if !strings.HasPrefix(path, "~/") {
		return path
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return path
	}
	return filepath.Join(home, path[2:])
}
