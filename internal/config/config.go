// Package config loads gitplus configuration from YAML, git config and CLI
// overrides.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/daichongdev/gitplus/internal/git"
	"github.com/daichongdev/gitplus/internal/theme"
	"gopkg.in/yaml.v3"
)

const keyPrefix = "gp."

// AppConfig defines the gitplus configuration options.
type AppConfig struct {
	IgnoreFile         string // Name of the ignore file rules are appended to
	VCSDir             string // Repository marker directory
	DebugLog           string
	MaxWorkers         int
	AutoRefresh        bool // Reload the browser when the index or ignore files change
	ShowIcons          bool // Render Nerd Font icons in the browser
	ShowHidden         bool // List dot files in the browser
	Theme              string
	UntrackAlsoIgnores bool // After a successful untrack, also add the path to the ignore file
}

// DefaultConfig returns the default configuration values.
func DefaultConfig() *AppConfig {
	return &AppConfig{
		IgnoreFile:  ".gitignore",
		VCSDir:      ".git",
		MaxWorkers:  git.DefaultConcurrency(),
		AutoRefresh: true,
		ShowIcons:   true,
		Theme:       theme.DefaultDark(),
	}
}

func coerceBool(value any, defaultVal bool) bool {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case bool:
		return v
	case int:
		return v != 0
	case string:
		text := strings.ToLower(strings.TrimSpace(v))
		switch text {
		case "1", "true", "yes", "y", "on":
			return true
		case "0", "false", "no", "n", "off":
			return false
		}
	}
	return defaultVal
}

func coerceInt(value any, defaultVal int) int {
	if value == nil {
		return defaultVal
	}

	switch v := value.(type) {
	case int:
		return v
	case float64:
		return int(v)
	case string:
		if n, err := strconv.Atoi(strings.TrimSpace(v)); err == nil {
			return n
		}
	}
	return defaultVal
}

func coerceString(value any) (string, bool) {
	v, ok := value.(string)
	if !ok {
		return "", false
	}
	v = strings.TrimSpace(v)
	return v, v != ""
}

// apply overlays the keys present in data onto cfg. Absent keys keep their
// current value so sources can be layered.
func (c *AppConfig) apply(data map[string]any) {
	if v, ok := coerceString(data["ignore_file"]); ok && !strings.ContainsAny(v, `/\`) {
		c.IgnoreFile = v
	}
	if v, ok := coerceString(data["vcs_dir"]); ok && !strings.ContainsAny(v, `/\`) {
		c.VCSDir = v
	}
	if v, ok := coerceString(data["debug_log"]); ok {
		c.DebugLog = v
	}
	if v, ok := coerceString(data["theme"]); ok {
		if normalized := NormalizeThemeName(v); normalized != "" {
			c.Theme = normalized
		}
	}
	if _, ok := data["max_workers"]; ok {
		if n := coerceInt(data["max_workers"], c.MaxWorkers); n > 0 {
			c.MaxWorkers = n
		}
	}
	c.AutoRefresh = coerceBool(data["auto_refresh"], c.AutoRefresh)
	c.ShowIcons = coerceBool(data["show_icons"], c.ShowIcons)
	c.ShowHidden = coerceBool(data["show_hidden"], c.ShowHidden)
	c.UntrackAlsoIgnores = coerceBool(data["untrack_also_ignores"], c.UntrackAlsoIgnores)
}

func parseConfig(data map[string]any) *AppConfig {
	cfg := DefaultConfig()
	cfg.apply(data)
	return cfg
}

func getConfigDir() string {
	if xdgConfigHome := os.Getenv("XDG_CONFIG_HOME"); xdgConfigHome != "" {
		return xdgConfigHome
	}
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".config")
}

// LoadConfig reads the YAML configuration file, then layers git config
// (global, then local to repoPath) on top. An empty configPath searches
// $XDG_CONFIG_HOME/gitplus/config.{yaml,yml}.
func LoadConfig(configPath, repoPath string) (*AppConfig, error) {
	configBase := filepath.Clean(filepath.Join(getConfigDir(), "gitplus"))

	var paths []string
	if configPath != "" {
		expanded, err := ExpandPath(configPath)
		if err != nil {
			return DefaultConfig(), err
		}
		absPath, err := filepath.Abs(expanded)
		if err != nil {
			return DefaultConfig(), err
		}
		if !isPathWithin(configBase, absPath) {
			return DefaultConfig(), fmt.Errorf("config path must reside inside %s", configBase)
		}
		paths = []string{absPath}
	} else {
		paths = []string{
			filepath.Join(configBase, "config.yaml"),
			filepath.Join(configBase, "config.yml"),
		}
	}

	cfg := DefaultConfig()
	for _, path := range paths {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			continue
		}

		// #nosec G304 -- path is constrained to the config directory after validation
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}

		var yamlData map[string]any
		if err := yaml.Unmarshal(data, &yamlData); err != nil {
			return DefaultConfig(), fmt.Errorf("parse %s: %w", path, err)
		}
		cfg.apply(yamlData)
		break
	}

	for _, globalOnly := range []bool{true, false} {
		if !globalOnly && repoPath == "" {
			continue
		}
		gitData, err := loadGitConfig(globalOnly, repoPath)
		if err != nil {
			return cfg, fmt.Errorf("read git config: %w", err)
		}
		cfg.apply(gitData)
	}

	return cfg, nil
}

// ApplyCLIOverrides applies --config=gp.key=value overrides, which take
// precedence over every other source.
func (c *AppConfig) ApplyCLIOverrides(overrides []string) error {
	data, err := parseCLIConfigOverrides(overrides)
	if err != nil {
		return err
	}
	c.apply(data)
	return nil
}

// ExpandPath expands a leading ~ and environment variables.
func ExpandPath(path string) (string, error) {
	if strings.HasPrefix(path, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, path[1:])
	}
	return os.ExpandEnv(path), nil
}

func isPathWithin(base, target string) bool {
	base = filepath.Clean(base)
	target = filepath.Clean(target)

	rel, err := filepath.Rel(base, target)
	if err != nil {
		return false
	}
	if rel == "." {
		return true
	}
	if rel == ".." || strings.HasPrefix(rel, ".."+string(os.PathSeparator)) {
		return false
	}
	return true
}

// NormalizeThemeName returns the canonical theme name if it is supported.
func NormalizeThemeName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	for _, available := range theme.AvailableThemes() {
		if name == available {
			return name
		}
	}
	return ""
}
