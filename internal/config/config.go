// Package config loads snaptick's settings from an XDG-compliant YAML file
// (typically ~/.config/snaptick/config.yaml) on top of built-in defaults.
//
// Theme, sort order and streak are not configuration: they are preferences
// owned by the app and stored in the data directory.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"snaptick/internal/fsutil"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration.
type Config struct {
	// DataDir overrides the default data directory (~/.snaptick)
	DataDir string `yaml:"data_dir,omitempty"`

	// Colors overrides the accent colors of the active theme
	Colors ColorsConfig `yaml:"colors,omitempty"`

	// Keys customizes keyboard shortcuts
	Keys KeysConfig `yaml:"keys,omitempty"`

	// Notifications configures task reminders
	Notifications NotificationConfig `yaml:"notifications,omitempty"`

	// Links configures the targets of the drawer actions
	Links LinksConfig `yaml:"links,omitempty"`

	// Log configures the log file
	Log LogConfig `yaml:"log,omitempty"`
}

// ColorsConfig holds hex colors (e.g. "#7C3AED"). Empty means theme default.
type ColorsConfig struct {
	Primary string `yaml:"primary,omitempty"`
	Accent  string `yaml:"accent,omitempty"`
	Muted   string `yaml:"muted,omitempty"`
}

// KeysConfig defines customizable keyboard shortcuts.
// Each field accepts a comma-separated list of key bindings, e.g. "q,ctrl+c".
type KeysConfig struct {
	Quit     string `yaml:"quit,omitempty"`      // default: "q,ctrl+c"
	Help     string `yaml:"help,omitempty"`      // default: "?"
	Up       string `yaml:"up,omitempty"`        // default: "k,up"
	Down     string `yaml:"down,omitempty"`      // default: "j,down"
	Add      string `yaml:"add,omitempty"`       // default: "a"
	Edit     string `yaml:"edit,omitempty"`      // default: "e"
	Toggle   string `yaml:"toggle,omitempty"`    // default: "space,d"
	Delete   string `yaml:"delete,omitempty"`    // default: "x"
	FreeTime string `yaml:"free_time,omitempty"` // default: "f"
	Settings string `yaml:"settings,omitempty"`  // default: "s"
	Back     string `yaml:"back,omitempty"`      // default: "esc"
	Confirm  string `yaml:"confirm,omitempty"`   // default: "enter"
}

// NotificationConfig defines reminder settings.
type NotificationConfig struct {
	// Enabled enables desktop notifications; reminders are still tracked when off
	Enabled bool `yaml:"enabled,omitempty"`

	// Sound requests an audible notification
	Sound bool `yaml:"sound,omitempty"`

	// Retries is how many extra attempts a failed schedule/cancel gets
	Retries int `yaml:"retries,omitempty"`
}

// LinksConfig defines where the drawer actions point.
type LinksConfig struct {
	FeedbackEmail string `yaml:"feedback_email,omitempty"`
	ProjectURL    string `yaml:"project_url,omitempty"`
	ShareText     string `yaml:"share_text,omitempty"`
}

// LogConfig defines logging settings.
type LogConfig struct {
	// Level is one of debug, info, warn, error
	Level string `yaml:"level,omitempty"`

	// File is the log path; relative paths live in the data directory
	File string `yaml:"file,omitempty"`
}

// Default returns the default configuration.
func Default() *Config {
	return &Config{
		DataDir: defaultDataDir(),
		Colors: ColorsConfig{
			Primary: "#7C3AED", // Violet
			Accent:  "#10B981", // Emerald
			Muted:   "#6B7280", // Gray
		},
		Notifications: NotificationConfig{
			Enabled: true,
			Sound:   false,
			Retries: 1,
		},
		Links: LinksConfig{
			FeedbackEmail: "snaptick@example.com",
			ProjectURL:    "https://github.com/snaptick/snaptick",
			ShareText:     "Plan your day with snaptick: https://github.com/snaptick/snaptick",
		},
		Log: LogConfig{
			Level: "info",
			File:  "snaptick.log",
		},
	}
}

func defaultDataDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return ".snaptick"
	}
	return filepath.Join(home, ".snaptick")
}

// DefaultPath returns the config file path, honoring XDG_CONFIG_HOME.
func DefaultPath() string {
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		return filepath.Join(xdg, "snaptick", "config.yaml")
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".config", "snaptick", "config.yaml")
}

// Load reads the config at path (DefaultPath when empty) and merges it over
// the defaults. A missing file yields the defaults.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return cfg, nil
		}
		return nil, fmt.Errorf("read config: %w", err)
	}

	var userCfg Config
	if err := yaml.Unmarshal(data, &userCfg); err != nil {
		return nil, fmt.Errorf("parse config %s: %w", path, err)
	}

	var doc yaml.Node
	_ = yaml.Unmarshal(data, &doc) // best-effort; fall back to conservative merge if this fails

	cfg.mergeFromYAML(&userCfg, &doc)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return cfg, nil
}

// Validate checks values that cannot be caught by YAML decoding.
func (c *Config) Validate() error {
	if c.Notifications.Retries < 0 {
		return fmt.Errorf("notifications.retries must not be negative")
	}
	if _, err := parseLevel(c.Log.Level); err != nil {
		return err
	}
	return nil
}

// mergeNonEmpty applies non-empty strings from other. Booleans and ints are
// handled presence-aware in mergeFromYAML.
func (c *Config) mergeNonEmpty(other *Config) {
	setString := func(dst *string, src string) {
		if src != "" {
			*dst = src
		}
	}

	setString(&c.DataDir, other.DataDir)

	setString(&c.Colors.Primary, other.Colors.Primary)
	setString(&c.Colors.Accent, other.Colors.Accent)
	setString(&c.Colors.Muted, other.Colors.Muted)

	setString(&c.Keys.Quit, other.Keys.Quit)
	setString(&c.Keys.Help, other.Keys.Help)
	setString(&c.Keys.Up, other.Keys.Up)
	setString(&c.Keys.Down, other.Keys.Down)
	setString(&c.Keys.Add, other.Keys.Add)
	setString(&c.Keys.Edit, other.Keys.Edit)
	setString(&c.Keys.Toggle, other.Keys.Toggle)
	setString(&c.Keys.Delete, other.Keys.Delete)
	setString(&c.Keys.FreeTime, other.Keys.FreeTime)
	setString(&c.Keys.Settings, other.Keys.Settings)
	setString(&c.Keys.Back, other.Keys.Back)
	setString(&c.Keys.Confirm, other.Keys.Confirm)

	setString(&c.Links.FeedbackEmail, other.Links.FeedbackEmail)
	setString(&c.Links.ProjectURL, other.Links.ProjectURL)
	setString(&c.Links.ShareText, other.Links.ShareText)

	setString(&c.Log.Level, other.Log.Level)
	setString(&c.Log.File, other.Log.File)
}

func (c *Config) mergeFromYAML(other *Config, doc *yaml.Node) {
	c.mergeNonEmpty(other)

	// Without a node tree we cannot tell "false" from "absent"; keep defaults.
	if doc == nil || len(doc.Content) == 0 {
		if other.Notifications.Retries > 0 {
			c.Notifications.Retries = other.Notifications.Retries
		}
		return
	}

	if yamlHasPath(doc, "notifications", "enabled") {
		c.Notifications.Enabled = other.Notifications.Enabled
	}
	if yamlHasPath(doc, "notifications", "sound") {
		c.Notifications.Sound = other.Notifications.Sound
	}
	if yamlHasPath(doc, "notifications", "retries") {
		c.Notifications.Retries = other.Notifications.Retries
	}
}

func yamlHasPath(doc *yaml.Node, path ...string) bool {
	if doc == nil || len(path) == 0 {
		return false
	}

	n := doc
	if n.Kind == yaml.DocumentNode && len(n.Content) > 0 {
		n = n.Content[0]
	}
	for _, key := range path {
		if n == nil || n.Kind != yaml.MappingNode {
			return false
		}
		var next *yaml.Node
		for i := 0; i+1 < len(n.Content); i += 2 {
			if k := n.Content[i]; k.Kind == yaml.ScalarNode && k.Value == key {
				next = n.Content[i+1]
				break
			}
		}
		if next == nil {
			return false
		}
		n = next
	}
	return true
}

// Save writes the configuration to path (DefaultPath when empty).
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultPath()
	}
	if path == "" {
		return nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0700); err != nil {
		return err
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return err
	}
	return fsutil.WriteFileAtomic(path, data, 0600)
}

// GetDataDir returns the data directory with a leading ~ expanded.
func (c *Config) GetDataDir() string {
	if c.DataDir == "" {
		return defaultDataDir()
	}
	return expandHome(c.DataDir)
}

// LogPath returns the absolute log file path, or "" when logging to a file
// is disabled with `file: "-"`.
func (c *Config) LogPath() string {
	switch c.Log.File {
	case "-":
		return ""
	case "":
		return filepath.Join(c.GetDataDir(), "snaptick.log")
	}
	p := expandHome(c.Log.File)
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(c.GetDataDir(), p)
}

// LogLevel returns the configured slog level.
func (c *Config) LogLevel() slog.Level {
	lvl, _ := parseLevel(c.Log.Level)
	return lvl
}

func parseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "info":
		return slog.LevelInfo, nil
	case "debug":
		return slog.LevelDebug, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("log.level %q: must be debug, info, warn or error", s)
}

func expandHome(p string) string {
	if p == "~" {
		if home, err := os.UserHomeDir(); err == nil {
			return home
		}
		return p
	}
	if strings.HasPrefix(p, "~/") || strings.HasPrefix(p, `~\`) {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, p[2:])
		}
	}
	return p
}
