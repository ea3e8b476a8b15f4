package config

import (
	"errors"
	"io/fs"
	"net"
	"os"
	"path/filepath"
	"strings"
	"time"

	pkerrors "github.com/odvcencio/panelkit/pkg/errors"
	"github.com/odvcencio/panelkit/pkg/logging"
	"github.com/odvcencio/panelkit/pkg/ui/terminal"
)

// Default configuration values exported for documentation and validation
const (
	DefaultTitle       = "Main"
	DefaultLogLevel    = logging.LevelInfo
	DefaultLogDir      = "~/.panelkit/logs"
	DefaultPollTimeout = 40 * time.Millisecond
	DefaultMetricsAddr = "127.0.0.1:9464"

	DefaultNextKey     = "a"
	DefaultResetKey    = "r"
	DefaultInteractKey = "e"
	DefaultQuitKey     = "q"
)

// Config represents the complete panelkit configuration
type Config struct {
	UI      UIConfig        `yaml:"ui"`
	Input   InputConfig     `yaml:"input"`
	Logging LoggingConfig   `yaml:"logging"`
	Metrics MetricsConfig   `yaml:"metrics"`
	Layout  []ElementConfig `yaml:"layout"`
}

// UIConfig configures the demo window.
type UIConfig struct {
	Title   string `yaml:"title"`
	Borders bool   `yaml:"borders"`
}

// InputConfig configures polling and key bindings.
type InputConfig struct {
	PollTimeout time.Duration `yaml:"poll_timeout"`
	Keys        KeysConfig    `yaml:"keys"`
}

// KeysConfig holds key binding specs such as "a", "tab" or "alt+n".
type KeysConfig struct {
	Next     string `yaml:"next"`
	Reset    string `yaml:"reset"`
	Interact string `yaml:"interact"`
	Quit     string `yaml:"quit"`
}

// Bindings is the parsed form of KeysConfig.
type Bindings struct {
	Next     terminal.Binding
	Reset    terminal.Binding
	Interact terminal.Binding
	Quit     terminal.Binding
}

// LoggingConfig configures the JSONL event logger.
type LoggingConfig struct {
	Level string `yaml:"level"`
	Dir   string `yaml:"dir"`
}

// MetricsConfig configures the Prometheus endpoint.
type MetricsConfig struct {
	Enabled bool   `yaml:"enabled"`
	Addr    string `yaml:"addr"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		UI: UIConfig{
			Title:   DefaultTitle,
			Borders: true,
		},
		Input: InputConfig{
			PollTimeout: DefaultPollTimeout,
			Keys: KeysConfig{
				Next:     DefaultNextKey,
				Reset:    DefaultResetKey,
				Interact: DefaultInteractKey,
				Quit:     DefaultQuitKey,
			},
		},
		Logging: LoggingConfig{
			Level: string(DefaultLogLevel),
			Dir:   DefaultLogDir,
		},
		Metrics: MetricsConfig{
			Addr: DefaultMetricsAddr,
		},
	}
}

// UserConfigPath returns ~/.panelkit/config.yaml, or "" without a home directory.
func UserConfigPath() string {
	home := userHome()
	if home == "" {
		return ""
	}
	return filepath.Join(home, ".panelkit", "config.yaml")
}

// ProjectConfigPath returns ./.panelkit/config.yaml.
func ProjectConfigPath() string {
	return filepath.Join(".", ".panelkit", "config.yaml")
}

// Load loads configuration from default locations with proper precedence
func Load() (*Config, error) {
	cfg := DefaultConfig()
	configEnv := loadConfigEnvVars()

	if path := UserConfigPath(); path != "" {
		if err := loadAndMerge(cfg, path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, err
		}
	}
	if err := loadAndMerge(cfg, ProjectConfigPath()); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, err
	}

	applyEnvOverrides(cfg, configEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// LoadFromPath loads configuration from a specific file path
func LoadFromPath(path string) (*Config, error) {
	cfg := DefaultConfig()
	configEnv := loadConfigEnvVars()

	if err := loadAndMerge(cfg, path); err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg, configEnv)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides. Process
// environment wins over ~/.panelkit/config.env.
func applyEnvOverrides(cfg *Config, configEnv map[string]string) {
	lookup := func(key string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return configEnv[key]
	}

	if v := lookup("PANELKIT_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}
	if v := lookup("PANELKIT_LOG_DIR"); v != "" {
		cfg.Logging.Dir = v
	}
	if v := lookup("PANELKIT_POLL_TIMEOUT"); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			cfg.Input.PollTimeout = d
		}
	}
	if v := lookup("PANELKIT_METRICS_ADDR"); v != "" {
		cfg.Metrics.Addr = v
		cfg.Metrics.Enabled = true
	}
}

// Validate checks the configuration for invalid values.
func (c *Config) Validate() error {
	if _, err := logging.ParseLevel(c.Logging.Level); err != nil {
		return invalid("logging.level", err)
	}
	if c.Input.PollTimeout <= 0 {
		return pkerrors.Newf(pkerrors.ErrCodeConfigInvalid,
			"input.poll_timeout must be positive, got %s", c.Input.PollTimeout)
	}
	if _, err := c.Input.Keys.Bindings(); err != nil {
		return err
	}
	if c.Metrics.Enabled {
		if _, _, err := net.SplitHostPort(strings.TrimSpace(c.Metrics.Addr)); err != nil {
			return invalid("metrics.addr", err)
		}
	}
	if _, err := BuildLayout(c.Layout); err != nil {
		return err
	}
	return nil
}

// LogLevel returns the parsed logging level, falling back to the default.
func (c *Config) LogLevel() logging.Level {
	level, err := logging.ParseLevel(c.Logging.Level)
	if err != nil {
		return DefaultLogLevel
	}
	return level
}

// LogDir returns the logging directory with ~ expanded.
func (c *Config) LogDir() string {
	return expandHomeDir(c.Logging.Dir)
}

// Bindings parses every key spec. Two actions may not share a key.
func (k KeysConfig) Bindings() (Bindings, error) {
	var b Bindings
	specs := []struct {
		name string
		spec string
		dst  *terminal.Binding
	}{
		{"next", k.Next, &b.Next},
		{"reset", k.Reset, &b.Reset},
		{"interact", k.Interact, &b.Interact},
		{"quit", k.Quit, &b.Quit},
	}
	seen := make(map[terminal.Binding]string, len(specs))
	for _, s := range specs {
		parsed, err := terminal.ParseBinding(s.spec)
		if err != nil {
			return Bindings{}, invalid("input.keys."+s.name, err)
		}
		if other, dup := seen[parsed]; dup {
			return Bindings{}, pkerrors.Newf(pkerrors.ErrCodeConfigInvalid,
				"input.keys.%s uses the same key as input.keys.%s", s.name, other)
		}
		seen[parsed] = s.name
		*s.dst = parsed
	}
	return b, nil
}

func invalid(field string, err error) error {
	return pkerrors.Wrap(err, pkerrors.ErrCodeConfigInvalid, "invalid "+field)
}

func userHome() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = os.Getenv("HOME")
	}
	return strings.TrimSpace(home)
}

func expandHomeDir(path string) string {
	path = strings.TrimSpace(path)
	if path == "" {
		return ""
	}
	if path == "~" {
		if home := userHome(); home != "" {
			return home
		}
		return path
	}
	if rest, ok := strings.CutPrefix(path, "~/"); ok {
		if home := userHome(); home != "" {
			return filepath.Join(home, rest)
		}
	}
	return path
}

// loadConfigEnvVars reads KEY=value lines from ~/.panelkit/config.env.
func loadConfigEnvVars() map[string]string {
	home := userHome()
	if home == "" {
		return nil
	}
	data, err := os.ReadFile(filepath.Join(home, ".panelkit", "config.env"))
	if err != nil {
		return nil
	}

	vars := make(map[string]string)
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimSpace(strings.TrimPrefix(line, "export "))
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		if key == "" {
			continue
		}
		vars[key] = strings.Trim(strings.TrimSpace(value), "\"'")
	}
	return vars
}
