package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestDefaultConfig(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "")
	cfg := DefaultConfig()

	if cfg.DataDir != "~/.local/share/habit-hawk" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Report.Format != FormatPDF {
		t.Errorf("Report.Format = %q", cfg.Report.Format)
	}
	if cfg.Report.PraiseProbability != 0.05 {
		t.Errorf("Report.PraiseProbability = %v", cfg.Report.PraiseProbability)
	}
	if cfg.Report.AbsenceDays != 30 {
		t.Errorf("Report.AbsenceDays = %d", cfg.Report.AbsenceDays)
	}
	if cfg.Generation.Model != "gemini-2.5-flash" {
		t.Errorf("Generation.Model = %q", cfg.Generation.Model)
	}
	if cfg.Generation.APIKeyEnv != "GEMINI_API_KEY" {
		t.Errorf("Generation.APIKeyEnv = %q", cfg.Generation.APIKeyEnv)
	}
	if len(cfg.Clusters) != 5 {
		t.Errorf("Clusters = %d entries, want 5", len(cfg.Clusters))
	}
	if err := cfg.Validate(); err != nil {
		t.Errorf("defaults do not validate: %v", err)
	}
}

func TestDefaultConfig_XDGDataHome(t *testing.T) {
	t.Setenv("XDG_DATA_HOME", "/xdg/data")
	if got := DefaultConfig().DataDir; got != "/xdg/data/habit-hawk" {
		t.Errorf("DataDir = %q", got)
	}
}

func TestLoad_NoConfig(t *testing.T) {
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("XDG_DATA_HOME", "")
	t.Setenv("HOME", t.TempDir())

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if strings.HasPrefix(cfg.DataDir, "~/") {
		t.Errorf("DataDir not expanded: %q", cfg.DataDir)
	}
	if !strings.HasSuffix(cfg.DataDir, ".local/share/habit-hawk") {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.Source() != "" {
		t.Errorf("Source = %q, want empty", cfg.Source())
	}
}

func TestLoad_ValidConfig(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())

	configDir := filepath.Join(xdg, "habit-hawk")
	os.MkdirAll(configDir, 0o755)

	tomlContent := `data_dir = "/custom/data"

[store]
path = "/custom/log.db"

[report]
format = "markdown"
praise_probability = 0.5
absence_days = 14

[generation]
enabled = false
model = "gpt-4o-mini"
temperature = 0.2

[log]
level = "debug"

[daemon]
check_interval = "1h"
run_at = "06:30"

[[clusters]]
name = "Reading"
synonyms = ["reading", "book"]
`
	path := filepath.Join(configDir, "config.toml")
	os.WriteFile(path, []byte(tomlContent), 0o644)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DataDir != "/custom/data" {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.DBPath() != "/custom/log.db" {
		t.Errorf("DBPath = %q", cfg.DBPath())
	}
	if cfg.Report.Format != FormatMarkdown {
		t.Errorf("Report.Format = %q", cfg.Report.Format)
	}
	if cfg.AbsenceThreshold() != 14*24*time.Hour {
		t.Errorf("AbsenceThreshold = %v", cfg.AbsenceThreshold())
	}
	if cfg.Generation.Enabled {
		t.Error("Generation.Enabled should be false")
	}
	if cfg.Generation.Model != "gpt-4o-mini" {
		t.Errorf("Generation.Model = %q", cfg.Generation.Model)
	}
	// Unset keys keep defaults.
	if cfg.Generation.APIKeyEnv != "GEMINI_API_KEY" {
		t.Errorf("Generation.APIKeyEnv = %q", cfg.Generation.APIKeyEnv)
	}
	if cfg.Log.Level != "debug" {
		t.Errorf("Log.Level = %q", cfg.Log.Level)
	}
	if iv, _ := cfg.Daemon.Interval(); iv != time.Hour {
		t.Errorf("Interval = %v", iv)
	}
	if h, m, _ := cfg.Daemon.RunAtClock(); h != 6 || m != 30 {
		t.Errorf("RunAtClock = %d:%d", h, m)
	}
	if len(cfg.Clusters) != 1 || cfg.Clusters[0].Name != "Reading" {
		t.Errorf("Clusters = %+v", cfg.Clusters)
	}
	if cfg.Source() != path {
		t.Errorf("Source = %q, want %q", cfg.Source(), path)
	}
}

func TestLoad_NoClustersKeepsDefaultTable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte(`data_dir = "/d"`+"\n"), 0o644)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile: %v", err)
	}
	if len(cfg.Clusters) != 5 {
		t.Errorf("Clusters = %d entries, want default 5", len(cfg.Clusters))
	}
	if cfg.Clusters[0].Name != "入浴" {
		t.Errorf("first cluster = %q", cfg.Clusters[0].Name)
	}
}

func TestLoad_ExpandsHome(t *testing.T) {
	xdg := t.TempDir()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", home)

	configDir := filepath.Join(xdg, "habit-hawk")
	os.MkdirAll(configDir, 0o755)
	os.WriteFile(filepath.Join(configDir, "config.toml"),
		[]byte("data_dir = \"~/hawk\"\n[report]\nfont_path = \"~/fonts/x.ttf\"\n"), 0o644)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}

	if cfg.DataDir != filepath.Join(home, "hawk") {
		t.Errorf("DataDir = %q", cfg.DataDir)
	}
	if cfg.FontPath() != filepath.Join(home, "fonts", "x.ttf") {
		t.Errorf("FontPath = %q", cfg.FontPath())
	}
	if cfg.DBPath() != filepath.Join(home, "hawk", "habit_log.db") {
		t.Errorf("DBPath = %q", cfg.DBPath())
	}
	if cfg.ReportsDir() != filepath.Join(home, "hawk", "reports") {
		t.Errorf("ReportsDir = %q", cfg.ReportsDir())
	}
}

func TestLoad_XDGPriority(t *testing.T) {
	xdg := t.TempDir()
	home := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", home)

	xdgDir := filepath.Join(xdg, "habit-hawk")
	os.MkdirAll(xdgDir, 0o755)
	os.WriteFile(filepath.Join(xdgDir, "config.toml"), []byte(`data_dir = "/from/xdg"`), 0o644)

	homeDir := filepath.Join(home, ".config", "habit-hawk")
	os.MkdirAll(homeDir, 0o755)
	os.WriteFile(filepath.Join(homeDir, "config.toml"), []byte(`data_dir = "/from/home"`), 0o644)

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if cfg.DataDir != "/from/xdg" {
		t.Errorf("DataDir = %q, want /from/xdg", cfg.DataDir)
	}
}

func TestLoad_InvalidTOML(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())

	configDir := filepath.Join(xdg, "habit-hawk")
	os.MkdirAll(configDir, 0o755)
	os.WriteFile(filepath.Join(configDir, "config.toml"), []byte("not valid [[[toml"), 0o644)

	if _, err := Load(); err == nil {
		t.Fatal("expected error for invalid TOML")
	}
}

func TestLoad_DotEnv(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HAWK_TEST_KEY", "")
	os.Unsetenv("HAWK_TEST_KEY")

	configDir := filepath.Join(xdg, "habit-hawk")
	os.MkdirAll(configDir, 0o755)
	os.WriteFile(filepath.Join(configDir, ".env"), []byte("HAWK_TEST_KEY=from-dotenv\n"), 0o644)

	if _, err := Load(); err != nil {
		t.Fatalf("Load: %v", err)
	}
	if got := os.Getenv("HAWK_TEST_KEY"); got != "from-dotenv" {
		t.Errorf("HAWK_TEST_KEY = %q", got)
	}
}

func TestLoad_DotEnvDoesNotOverride(t *testing.T) {
	xdg := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", xdg)
	t.Setenv("HOME", t.TempDir())
	t.Setenv("HAWK_TEST_KEY", "from-env")

	configDir := filepath.Join(xdg, "habit-hawk")
	os.MkdirAll(configDir, 0o755)
	os.WriteFile(filepath.Join(configDir, ".env"), []byte("HAWK_TEST_KEY=from-dotenv\n"), 0o644)

	Load()
	if got := os.Getenv("HAWK_TEST_KEY"); got != "from-env" {
		t.Errorf("HAWK_TEST_KEY = %q, want from-env", got)
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
		want   string
	}{
		{"probability above 1", func(c *Config) { c.Report.PraiseProbability = 1.5 }, "praise_probability"},
		{"probability below 0", func(c *Config) { c.Report.PraiseProbability = -0.1 }, "praise_probability"},
		{"zero absence days", func(c *Config) { c.Report.AbsenceDays = 0 }, "absence_days"},
		{"unknown format", func(c *Config) { c.Report.Format = "docx" }, "report.format"},
		{"bad interval", func(c *Config) { c.Daemon.CheckInterval = "soon" }, "check_interval"},
		{"bad run_at", func(c *Config) { c.Daemon.RunAt = "9pm" }, "run_at"},
		{"duplicate cluster", func(c *Config) { c.Clusters = append(c.Clusters, c.Clusters[0]) }, "duplicate"},
		{"empty cluster name", func(c *Config) { c.Clusters[0].Name = "" }, "empty name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(&cfg)
			err := cfg.Validate()
			if err == nil {
				t.Fatal("expected error")
			}
			if !strings.Contains(err.Error(), tt.want) {
				t.Errorf("error = %q, want substring %q", err, tt.want)
			}
		})
	}
}

func TestLoadFile_RejectsInvalid(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	os.WriteFile(path, []byte("[report]\npraise_probability = 2.0\n"), 0o644)

	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected validation error")
	}
}

func TestGenerationTimeout(t *testing.T) {
	g := GenerationConfig{TimeoutSeconds: 45}
	if g.Timeout() != 45*time.Second {
		t.Errorf("Timeout = %v", g.Timeout())
	}
}
