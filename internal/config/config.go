// Package config implements ugit's ambient configuration: user identity
// and front-end preferences (editor, pager, merge tool, color toggles).
// The object and commit codecs never read it (the commit grammar, spec
// §4.4, has no author field). internal/repo reads core.tool to choose the
// external merge tool, and the `config` command gets and sets every key;
// the user, editor, pager and color values are stored but no command
// consults them.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// Config is ugit's front-end configuration.
type Config struct {
	User  UserConfig  `json:"user"`
	Core  CoreConfig  `json:"core"`
	Color ColorConfig `json:"color"`
}

// UserConfig holds user identity information used only by front-end
// reporting, never by the core object/commit format.
type UserConfig struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// CoreConfig holds core front-end settings.
type CoreConfig struct {
	Editor string `json:"editor,omitempty"`
	Pager  string `json:"pager,omitempty"`
	Tool   string `json:"tool,omitempty"` // external three-way merge tool name
}

// ColorConfig toggles colorized output per CLI area.
type ColorConfig struct {
	UI     bool `json:"ui"`
	Status bool `json:"status"`
	Diff   bool `json:"diff"`
}

// Default returns a Config with sensible defaults.
func Default() *Config {
	return &Config{
		Core: CoreConfig{
			Editor: os.Getenv("EDITOR"),
			Pager:  os.Getenv("PAGER"),
		},
		Color: ColorConfig{UI: true, Status: true, Diff: true},
	}
}

func globalConfigPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("get home directory: %w", err)
	}
	return filepath.Join(home, ".ugitconfig"), nil
}

func repoConfigPath(repoDir string) string {
	return filepath.Join(repoDir, "config")
}

// Load reads the global config (~/.ugitconfig) then, if repoDir is
// non-empty, the repository config (<repoDir>/config), with the
// repository config taking precedence.
func Load(repoDir string) (*Config, error) {
	cfg := Default()

	if globalPath, err := globalConfigPath(); err == nil {
		if data, err := os.ReadFile(globalPath); err == nil {
			var global Config
			if err := json.Unmarshal(data, &global); err == nil {
				merge(cfg, &global)
			}
		}
	}

	if repoDir != "" {
		if data, err := os.ReadFile(repoConfigPath(repoDir)); err == nil {
			var local Config
			if err := json.Unmarshal(data, &local); err == nil {
				merge(cfg, &local)
			}
		}
	}

	return cfg, nil
}

// SaveGlobal writes cfg to ~/.ugitconfig.
func SaveGlobal(cfg *Config) error {
	path, err := globalConfigPath()
	if err != nil {
		return err
	}
	return writeJSON(path, cfg)
}

// SaveRepo writes cfg to <repoDir>/config.
func SaveRepo(repoDir string, cfg *Config) error {
	return writeJSON(repoConfigPath(repoDir), cfg)
}

func writeJSON(path string, cfg *Config) error {
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal config: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config dir: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// GetValue reads a dotted key ("user.name", "core.editor", "color.ui").
func GetValue(cfg *Config, key string) (string, error) {
	section, field, err := splitKey(key)
	if err != nil {
		return "", err
	}
	switch section {
	case "user":
		switch field {
		case "name":
			return cfg.User.Name, nil
		case "email":
			return cfg.User.Email, nil
		}
	case "core":
		switch field {
		case "editor":
			return cfg.Core.Editor, nil
		case "pager":
			return cfg.Core.Pager, nil
		case "tool":
			return cfg.Core.Tool, nil
		}
	case "color":
		switch field {
		case "ui":
			return fmt.Sprintf("%t", cfg.Color.UI), nil
		case "status":
			return fmt.Sprintf("%t", cfg.Color.Status), nil
		case "diff":
			return fmt.Sprintf("%t", cfg.Color.Diff), nil
		}
	}
	return "", fmt.Errorf("unknown config key %q", key)
}

// SetValue sets a dotted key to value on cfg, in place.
func SetValue(cfg *Config, key, value string) error {
	section, field, err := splitKey(key)
	if err != nil {
		return err
	}
	switch section {
	case "user":
		switch field {
		case "name":
			cfg.User.Name = value
			return nil
		case "email":
			cfg.User.Email = value
			return nil
		}
	case "core":
		switch field {
		case "editor":
			cfg.Core.Editor = value
			return nil
		case "pager":
			cfg.Core.Pager = value
			return nil
		case "tool":
			cfg.Core.Tool = value
			return nil
		}
	case "color":
		switch field {
		case "ui":
			cfg.Color.UI = value == "true"
			return nil
		case "status":
			cfg.Color.Status = value == "true"
			return nil
		case "diff":
			cfg.Color.Diff = value == "true"
			return nil
		}
	}
	return fmt.Errorf("unknown config key %q", key)
}

func splitKey(key string) (section, field string, err error) {
	parts := strings.SplitN(key, ".", 2)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("invalid config key %q (want section.field)", key)
	}
	return parts[0], parts[1], nil
}

// merge overlays the non-empty string fields of src onto dst. The Color
// section is copied from src as a whole, false values included.
func merge(dst, src *Config) {
	if src.User.Name != "" {
		dst.User.Name = src.User.Name
	}
	if src.User.Email != "" {
		dst.User.Email = src.User.Email
	}
	if src.Core.Editor != "" {
		dst.Core.Editor = src.Core.Editor
	}
	if src.Core.Pager != "" {
		dst.Core.Pager = src.Core.Pager
	}
	if src.Core.Tool != "" {
		dst.Core.Tool = src.Core.Tool
	}
	dst.Color = src.Color
}
