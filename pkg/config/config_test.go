package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/odvcencio/panelkit/pkg/config"
	pkerrors "github.com/odvcencio/panelkit/pkg/errors"
	"github.com/odvcencio/panelkit/pkg/logging"
	"github.com/odvcencio/panelkit/pkg/ui/terminal"
)

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir %s: %v", filepath.Dir(path), err)
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

func chdir(t *testing.T, dir string) {
	t.Helper()
	oldWD, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(oldWD)
	})
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir: %v", err)
	}
}

func TestDefaultConfig(t *testing.T) {
	cfg := config.DefaultConfig()

	if err := cfg.Validate(); err != nil {
		t.Fatalf("default config should validate: %v", err)
	}
	if cfg.Input.PollTimeout != 40*time.Millisecond {
		t.Fatalf("unexpected poll timeout: %s", cfg.Input.PollTimeout)
	}
	if cfg.LogLevel() != logging.LevelInfo {
		t.Fatalf("unexpected log level: %s", cfg.LogLevel())
	}
	if cfg.Metrics.Enabled {
		t.Fatalf("metrics should be off by default")
	}
	if !cfg.UI.Borders || cfg.UI.Title != "Main" {
		t.Fatalf("unexpected ui defaults: %+v", cfg.UI)
	}
}

func TestLoadHierarchy(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PANELKIT_LOG_LEVEL", "")
	t.Setenv("PANELKIT_LOG_DIR", "")
	t.Setenv("PANELKIT_POLL_TIMEOUT", "")
	t.Setenv("PANELKIT_METRICS_ADDR", "")

	writeFile(t, filepath.Join(home, ".panelkit", "config.yaml"), `
ui:
  title: User Title
  borders: false
input:
  poll_timeout: 100ms
  keys:
    next: tab
`)
	writeFile(t, filepath.Join(project, ".panelkit", "config.yaml"), `
ui:
  title: Project Title
logging:
  level: debug
`)
	chdir(t, project)
	t.Setenv("PANELKIT_LOG_DIR", "/tmp/panelkit-env")

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load returned error: %v", err)
	}

	if cfg.UI.Title != "Project Title" {
		t.Fatalf("expected project title override, got %s", cfg.UI.Title)
	}
	if cfg.UI.Borders {
		t.Fatalf("expected user borders override to stick")
	}
	if cfg.Input.PollTimeout != 100*time.Millisecond {
		t.Fatalf("expected user poll timeout, got %s", cfg.Input.PollTimeout)
	}
	if cfg.Input.Keys.Next != "tab" || cfg.Input.Keys.Quit != "q" {
		t.Fatalf("unexpected keys: %+v", cfg.Input.Keys)
	}
	if cfg.LogLevel() != logging.LevelDebug {
		t.Fatalf("expected project log level, got %s", cfg.Logging.Level)
	}
	if cfg.LogDir() != "/tmp/panelkit-env" {
		t.Fatalf("expected env log dir, got %s", cfg.LogDir())
	}
}

func TestLoadWithoutFiles(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	t.Setenv("PANELKIT_METRICS_ADDR", "")
	chdir(t, t.TempDir())

	cfg, err := config.Load()
	if err != nil {
		t.Fatalf("config.Load returned error: %v", err)
	}
	if cfg.UI.Title != config.DefaultTitle {
		t.Fatalf("expected defaults, got %+v", cfg.UI)
	}
}

func TestLoadFromPathMissingFile(t *testing.T) {
	_, err := config.LoadFromPath(filepath.Join(t.TempDir(), "missing.yaml"))
	if !pkerrors.IsCode(err, pkerrors.ErrCodeConfigLoad) {
		t.Fatalf("expected CONFIG_LOAD, got %v", err)
	}
}

func TestLoadFromPathMalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "ui: [unclosed")

	_, err := config.LoadFromPath(path)
	if !pkerrors.IsCode(err, pkerrors.ErrCodeConfigParse) {
		t.Fatalf("expected CONFIG_PARSE, got %v", err)
	}
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("HOME", t.TempDir())
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "ui:\n  title: File\n")

	t.Setenv("PANELKIT_LOG_LEVEL", "warn")
	t.Setenv("PANELKIT_POLL_TIMEOUT", "250ms")
	t.Setenv("PANELKIT_METRICS_ADDR", "127.0.0.1:9999")

	cfg, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.LogLevel() != logging.LevelWarn {
		t.Fatalf("expected env log level, got %s", cfg.Logging.Level)
	}
	if cfg.Input.PollTimeout != 250*time.Millisecond {
		t.Fatalf("expected env poll timeout, got %s", cfg.Input.PollTimeout)
	}
	if !cfg.Metrics.Enabled || cfg.Metrics.Addr != "127.0.0.1:9999" {
		t.Fatalf("expected env metrics addr to enable metrics: %+v", cfg.Metrics)
	}
}

func TestConfigEnvFile(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	t.Setenv("PANELKIT_LOG_LEVEL", "")
	writeFile(t, filepath.Join(home, ".panelkit", "config.env"), `
# comment
export PANELKIT_LOG_LEVEL="error"
not-a-pair
`)
	path := filepath.Join(t.TempDir(), "config.yaml")
	writeFile(t, path, "ui:\n  title: File\n")

	cfg, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatalf("LoadFromPath: %v", err)
	}
	if cfg.LogLevel() != logging.LevelError {
		t.Fatalf("expected config.env log level, got %s", cfg.Logging.Level)
	}
}

func TestValidateRejects(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*config.Config)
	}{
		{"log level", func(c *config.Config) { c.Logging.Level = "chatty" }},
		{"poll timeout", func(c *config.Config) { c.Input.PollTimeout = 0 }},
		{"unknown key", func(c *config.Config) { c.Input.Keys.Next = "hyper+q" }},
		{"shared key", func(c *config.Config) { c.Input.Keys.Interact = "q" }},
		{"metrics addr", func(c *config.Config) {
			c.Metrics.Enabled = true
			c.Metrics.Addr = "nope"
		}},
		{"layout", func(c *config.Config) {
			c.Layout = []config.ElementConfig{{Kind: "window", ID: "w"}}
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := config.DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if !pkerrors.IsCode(err, pkerrors.ErrCodeConfigInvalid) {
				t.Fatalf("expected CONFIG_INVALID, got %v", err)
			}
		})
	}
}

func TestKeyBindings(t *testing.T) {
	keys := config.KeysConfig{Next: "tab", Reset: "alt+r", Interact: "space", Quit: "ctrl+c"}
	b, err := keys.Bindings()
	if err != nil {
		t.Fatalf("Bindings: %v", err)
	}
	if !b.Next.Matches(terminal.KeyEvent{Key: terminal.KeyTab}) {
		t.Fatalf("next should match tab: %+v", b.Next)
	}
	if !b.Reset.Matches(terminal.KeyEvent{Key: terminal.KeyRune, Rune: 'r', Alt: true}) {
		t.Fatalf("reset should match alt+r: %+v", b.Reset)
	}
	if !b.Interact.Matches(terminal.KeyEvent{Key: terminal.KeyRune, Rune: ' '}) {
		t.Fatalf("interact should match space: %+v", b.Interact)
	}
	if !b.Quit.Matches(terminal.KeyEvent{Key: terminal.KeyCtrlC}) {
		t.Fatalf("quit should match ctrl+c: %+v", b.Quit)
	}
}

func TestLogDirExpandsHome(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)

	cfg := config.DefaultConfig()
	if got, want := cfg.LogDir(), filepath.Join(home, ".panelkit", "logs"); got != want {
		t.Fatalf("LogDir = %s, want %s", got, want)
	}
}
