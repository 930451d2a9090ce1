package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ConfigDir returns the habit-hawk config directory path.
// Uses $XDG_CONFIG_HOME/habit-hawk if set, otherwise ~/.config/habit-hawk.
func ConfigDir() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "habit-hawk")
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config", "habit-hawk")
}

// ConfigPath returns the path WriteDefault writes to.
func ConfigPath() string {
	return filepath.Join(ConfigDir(), "config.toml")
}

// WriteDefault writes a default config.toml with data_dir set to dataDir.
// Returns the config file path. Skips if config.toml already exists.
func WriteDefault(dataDir string) (string, bool, error) {
	path := ConfigPath()

	if _, err := os.Stat(path); err == nil {
		return path, false, nil // already exists
	}

	if err := os.MkdirAll(ConfigDir(), 0o755); err != nil {
		return "", false, fmt.Errorf("create config dir: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "data_dir = %q\n", CompressHome(dataDir))
	b.WriteString(`
[report]
format = "pdf"
# font_path = "~/.local/share/habit-hawk/fonts/ZenAntique-Regular.ttf"
language = "Japanese"
praise_probability = 0.05
absence_days = 30

[generation]
enabled = true
timeout_seconds = 60
provider = "openai"
model = "gemini-2.5-flash"
api_key_env = "GEMINI_API_KEY"
base_url = "https://generativelanguage.googleapis.com/v1beta/openai/"
temperature = 0.7

[log]
level = "info"
format = "text"

[daemon]
check_interval = "15m"
run_at = "21:00"
# metrics_addr = "127.0.0.1:9273"
`)

	for _, cl := range DefaultConfig().Clusters {
		b.WriteString("\n[[clusters]]\n")
		fmt.Fprintf(&b, "name = %q\n", cl.Name)
		quoted := make([]string, len(cl.Synonyms))
		for i, s := range cl.Synonyms {
			quoted[i] = fmt.Sprintf("%q", s)
		}
		fmt.Fprintf(&b, "synonyms = [%s]\n", strings.Join(quoted, ", "))
	}

	if err := os.WriteFile(path, []byte(b.String()), 0o644); err != nil {
		return "", false, fmt.Errorf("write config: %w", err)
	}

	return path, true, nil
}

// CompressHome replaces $HOME prefix with ~/ for portable config values.
func CompressHome(path string) string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		return path
	}
	if strings.HasPrefix(path, home+"/") {
		return "~/" + path[len(home)+1:]
	}
	if path == home {
		return "~"
	}
	return path
}
