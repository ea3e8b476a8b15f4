package config

import (
	"os"

	pkerrors "github.com/odvcencio/panelkit/pkg/errors"
	"gopkg.in/yaml.v3"
)

// loadAndMerge loads a YAML file and merges it into the config.
func loadAndMerge(cfg *Config, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return pkerrors.Wrap(err, pkerrors.ErrCodeConfigLoad, "reading config").
			WithContext("path", path)
	}

	var override Config
	if err := yaml.Unmarshal(data, &override); err != nil {
		return pkerrors.Wrap(err, pkerrors.ErrCodeConfigParse, "parsing YAML").
			WithContext("path", path)
	}

	var raw map[string]any
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return pkerrors.Wrap(err, pkerrors.ErrCodeConfigParse, "parsing YAML").
			WithContext("path", path)
	}

	mergeConfigs(cfg, &override, raw)
	return nil
}

// mergeConfigs merges override into base. Strings and durations override
// when non-zero; booleans and the layout only when the key is present.
func mergeConfigs(base, override *Config, raw map[string]any) {
	if override == nil {
		return
	}

	if override.UI.Title != "" {
		base.UI.Title = override.UI.Title
	}
	if fieldSet(raw, "ui", "borders") {
		base.UI.Borders = override.UI.Borders
	}

	if override.Input.PollTimeout != 0 {
		base.Input.PollTimeout = override.Input.PollTimeout
	}
	if override.Input.Keys.Next != "" {
		base.Input.Keys.Next = override.Input.Keys.Next
	}
	if override.Input.Keys.Reset != "" {
		base.Input.Keys.Reset = override.Input.Keys.Reset
	}
	if override.Input.Keys.Interact != "" {
		base.Input.Keys.Interact = override.Input.Keys.Interact
	}
	if override.Input.Keys.Quit != "" {
		base.Input.Keys.Quit = override.Input.Keys.Quit
	}

	if override.Logging.Level != "" {
		base.Logging.Level = override.Logging.Level
	}
	if override.Logging.Dir != "" {
		base.Logging.Dir = override.Logging.Dir
	}

	if fieldSet(raw, "metrics", "enabled") {
		base.Metrics.Enabled = override.Metrics.Enabled
	}
	if override.Metrics.Addr != "" {
		base.Metrics.Addr = override.Metrics.Addr
	}

	if fieldSet(raw, "layout") {
		base.Layout = append([]ElementConfig(nil), override.Layout...)
	}
}

func fieldSet(raw map[string]any, path ...string) bool {
	if len(path) == 0 || raw == nil {
		return false
	}
	current := any(raw)
	for _, key := range path {
		m, ok := current.(map[string]any)
		if !ok {
			return false
		}
		val, ok := m[key]
		if !ok {
			return false
		}
		current = val
	}
	return true
}
