// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

package config

import (
	"bytes"
	"errors"
	"fmt"
	"net/url"
	"os"
	"path/filepath"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/rs/zerolog"

	"github.com/jeranaias/rigchat/internal/util"
)

// =============================================================================
// CONFIG STRUCTURES
// =============================================================================

// Config represents the complete rigchat configuration.
type Config struct {
	Backend BackendConfig `toml:"backend"`
	UI      UIConfig      `toml:"ui"`
	Log     LogConfig     `toml:"log"`
}

// BackendConfig contains chat backend connection settings.
type BackendConfig struct {
	// BaseURL is the backend root URL
	BaseURL string `toml:"base_url"`
	// TimeoutSecs caps each request, including reply generation
	TimeoutSecs int `toml:"timeout_secs"`
	// MaxRetries for idempotent requests; 0 disables retries
	MaxRetries int `toml:"max_retries"`
	// RetryDelayMs between retries
	RetryDelayMs int `toml:"retry_delay_ms"`
	// RequestsPerSecond caps outbound requests; 0 means unlimited
	RequestsPerSecond float64 `toml:"requests_per_second"`
}

// UIConfig contains UI configuration.
type UIConfig struct {
	// DefaultModel is selected on startup when set
	DefaultModel string `toml:"default_model"`
	// DefaultCodeLanguage labels code fences without a language tag
	DefaultCodeLanguage string `toml:"default_code_language"`
	// SidebarWidth is the session list width in columns
	SidebarWidth int `toml:"sidebar_width"`
	// Theme is "dark", "light" or "auto"
	Theme string `toml:"theme"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// Level is trace, debug, info, warn or error
	Level string `toml:"level"`
	// File receives JSON log lines; empty disables file logging
	File string `toml:"file"`
	// Console also writes logs to stderr in line-mode commands
	Console bool `toml:"console"`
}

// Timeout returns the request timeout as a duration.
func (b BackendConfig) Timeout() time.Duration {
	return time.Duration(b.TimeoutSecs) * time.Second
}

// RetryDelay returns the retry delay as a duration.
func (b BackendConfig) RetryDelay() time.Duration {
	return time.Duration(b.RetryDelayMs) * time.Millisecond
}

// =============================================================================
// DEFAULT CONFIGURATION
// =============================================================================

// Default returns a configuration with default values.
func Default() *Config {
	return &Config{
		Backend: BackendConfig{
			BaseURL:           "http://localhost:8000",
			TimeoutSecs:       120,
			MaxRetries:        2,
			RetryDelayMs:      500,
			RequestsPerSecond: 10,
		},
		UI: UIConfig{
			DefaultCodeLanguage: "text",
			SidebarWidth:        32,
			Theme:               "auto",
		},
		Log: LogConfig{
			Level: "info",
			File:  "~/.rigchat/rigchat.log",
		},
	}
}

// =============================================================================
// CONFIG PATH HELPERS
// =============================================================================

// ConfigDir returns the rigchat configuration directory path.
func ConfigDir() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".rigchat"), nil
}

// ConfigPath returns the path to the default config file.
func ConfigPath() (string, error) {
	dir, err := ConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.toml"), nil
}

// ResolvePath returns path, or the default config path when path is empty.
func ResolvePath(path string) (string, error) {
	if path != "" {
		return util.ExpandHome(path)
	}
	return ConfigPath()
}

// =============================================================================
// LOAD FUNCTIONS
// =============================================================================

// Load reads the config file at path (the default location when empty).
// A missing file is not an error; defaults are used. Environment overrides
// are applied before validation.
func Load(path string) (*Config, error) {
	cfg, err := LoadFile(path)
	if err != nil {
		return nil, err
	}

	cfg.ApplyEnvOverrides()
	if err := cfg.Validate(); err != nil {
		resolved, _ := ResolvePath(path)
		return nil, fmt.Errorf("invalid config %s: %w", resolved, err)
	}
	return cfg, nil
}

// LoadFile reads the config file at path without environment overrides, for
// editing. A missing file yields defaults.
func LoadFile(path string) (*Config, error) {
	path, err := ResolvePath(path)
	if err != nil {
		return nil, err
	}
	cfg := Default()
	if _, statErr := os.Stat(path); statErr == nil {
		if err := LoadTOML(cfg, path); err != nil {
			return nil, err
		}
	} else if !errors.Is(statErr, os.ErrNotExist) {
		return nil, fmt.Errorf("failed to stat config file: %w", statErr)
	}
	return cfg, nil
}

// LoadTOML decodes the TOML file at path into cfg and fills unset values.
// Unknown keys are rejected so typos surface early.
func LoadTOML(cfg *Config, path string) error {
	md, err := toml.DecodeFile(path, cfg)
	if err != nil {
		return fmt.Errorf("failed to decode TOML file: %w", err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		keys := make([]string, len(undecoded))
		for i, k := range undecoded {
			keys[i] = k.String()
		}
		return fmt.Errorf("unknown config keys in %s: %s", path, strings.Join(keys, ", "))
	}
	fillDefaults(cfg)
	return nil
}

// fillDefaults fills in any missing values with defaults.
func fillDefaults(cfg *Config) {
	defaults := Default()

	if cfg.Backend.BaseURL == "" {
		cfg.Backend.BaseURL = defaults.Backend.BaseURL
	}
	if cfg.Backend.TimeoutSecs == 0 {
		cfg.Backend.TimeoutSecs = defaults.Backend.TimeoutSecs
	}
	if cfg.Backend.RetryDelayMs == 0 {
		cfg.Backend.RetryDelayMs = defaults.Backend.RetryDelayMs
	}

	if cfg.UI.DefaultCodeLanguage == "" {
		cfg.UI.DefaultCodeLanguage = defaults.UI.DefaultCodeLanguage
	}
	if cfg.UI.SidebarWidth == 0 {
		cfg.UI.SidebarWidth = defaults.UI.SidebarWidth
	}
	if cfg.UI.Theme == "" {
		cfg.UI.Theme = defaults.UI.Theme
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = defaults.Log.Level
	}
}

// =============================================================================
// SAVE FUNCTIONS
// =============================================================================

// Save writes the configuration to path (the default location when empty).
// The file is written atomically with 0600 permissions.
func Save(cfg *Config, path string) error {
	path, err := ResolvePath(path)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	buf.WriteString("# rigchat configuration file\n")
	buf.WriteString("# Environment variables RIGCHAT_* override these values.\n\n")
	if err := toml.NewEncoder(&buf).Encode(cfg); err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}

	if err := util.AtomicWriteFile(path, buf.Bytes(), 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// =============================================================================
// VALIDATION
// =============================================================================

// ValidationError represents a configuration validation error.
type ValidationError struct {
	Field   string
	Message string
}

func (e ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// ValidateErrors is a collection of validation errors.
type ValidateErrors []ValidationError

func (e ValidateErrors) Error() string {
	if len(e) == 0 {
		return "no validation errors"
	}
	msgs := make([]string, len(e))
	for i, err := range e {
		msgs[i] = err.Error()
	}
	return strings.Join(msgs, "; ")
}

// Validate checks the configuration and returns ValidateErrors listing every
// problem, or nil.
func (c *Config) Validate() error {
	var errs ValidateErrors
	add := func(field, format string, args ...interface{}) {
		errs = append(errs, ValidationError{Field: field, Message: fmt.Sprintf(format, args...)})
	}

	if u, err := url.Parse(c.Backend.BaseURL); err != nil || u.Host == "" {
		add("backend.base_url", "must be an absolute URL, got %q", c.Backend.BaseURL)
	} else if u.Scheme != "http" && u.Scheme != "https" {
		add("backend.base_url", "scheme must be http or https, got %q", u.Scheme)
	}
	if c.Backend.TimeoutSecs < 1 || c.Backend.TimeoutSecs > 3600 {
		add("backend.timeout_secs", "must be between 1 and 3600, got %d", c.Backend.TimeoutSecs)
	}
	if c.Backend.MaxRetries < 0 || c.Backend.MaxRetries > 10 {
		add("backend.max_retries", "must be between 0 and 10, got %d", c.Backend.MaxRetries)
	}
	if c.Backend.RetryDelayMs < 0 {
		add("backend.retry_delay_ms", "must not be negative, got %d", c.Backend.RetryDelayMs)
	}
	if c.Backend.RequestsPerSecond < 0 {
		add("backend.requests_per_second", "must not be negative, got %g", c.Backend.RequestsPerSecond)
	}

	if strings.ContainsAny(c.UI.DefaultCodeLanguage, " \t\r\n`") {
		add("ui.default_code_language", "must be a single word, got %q", c.UI.DefaultCodeLanguage)
	}
	if c.UI.SidebarWidth < 16 || c.UI.SidebarWidth > 80 {
		add("ui.sidebar_width", "must be between 16 and 80, got %d", c.UI.SidebarWidth)
	}
	switch c.UI.Theme {
	case "dark", "light", "auto":
	default:
		add("ui.theme", "must be dark, light or auto, got %q", c.UI.Theme)
	}

	if _, err := zerolog.ParseLevel(c.Log.Level); err != nil || c.Log.Level == "" {
		add("log.level", "unknown level %q", c.Log.Level)
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

// =============================================================================
// ENVIRONMENT OVERRIDES
// =============================================================================

// ApplyEnvOverrides applies environment variable overrides to the config.
//
// Supported environment variables:
//   - RIGCHAT_BASE_URL: overrides backend.base_url
//   - RIGCHAT_MODEL: overrides ui.default_model
//   - RIGCHAT_LOG_LEVEL: overrides log.level
//   - RIGCHAT_CODE_LANGUAGE: overrides ui.default_code_language
func (c *Config) ApplyEnvOverrides() {
	if v := os.Getenv("RIGCHAT_BASE_URL"); v != "" {
		c.Backend.BaseURL = v
	}
	if v := os.Getenv("RIGCHAT_MODEL"); v != "" {
		c.UI.DefaultModel = v
	}
	if v := os.Getenv("RIGCHAT_LOG_LEVEL"); v != "" {
		c.Log.Level = strings.ToLower(v)
	}
	if v := os.Getenv("RIGCHAT_CODE_LANGUAGE"); v != "" {
		c.UI.DefaultCodeLanguage = v
	}
}

// =============================================================================
// GET/SET HELPERS (DOT NOTATION)
// =============================================================================

// Keys returns every configuration key in dot notation, in file order.
func Keys() []string {
	var keys []string
	walkFields(reflect.TypeOf(Config{}), "", func(key string, _ []int) {
		keys = append(keys, key)
	})
	return keys
}

// Get retrieves a value by dot-notation key, e.g. "backend.base_url".
func (c *Config) Get(key string) (interface{}, error) {
	field, err := c.field(key)
	if err != nil {
		return nil, err
	}
	return field.Interface(), nil
}

// Set parses value for the field named by key and assigns it.
func (c *Config) Set(key, value string) error {
	field, err := c.field(key)
	if err != nil {
		return err
	}

	switch field.Kind() {
	case reflect.String:
		field.SetString(value)
	case reflect.Int:
		n, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("%s: invalid integer %q", key, value)
		}
		field.SetInt(int64(n))
	case reflect.Float64:
		f, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("%s: invalid number %q", key, value)
		}
		field.SetFloat(f)
	case reflect.Bool:
		b, err := strconv.ParseBool(value)
		if err != nil {
			return fmt.Errorf("%s: invalid boolean %q", key, value)
		}
		field.SetBool(b)
	default:
		return fmt.Errorf("%s: unsupported type %s", key, field.Kind())
	}
	return nil
}

func (c *Config) field(key string) (reflect.Value, error) {
	var index []int
	walkFields(reflect.TypeOf(Config{}), "", func(k string, idx []int) {
		if k == key {
			index = idx
		}
	})
	if index == nil {
		return reflect.Value{}, fmt.Errorf("unknown config key %q", key)
	}
	return reflect.ValueOf(c).Elem().FieldByIndex(index), nil
}

// walkFields visits leaf fields of t, naming them by their toml tags.
func walkFields(t reflect.Type, prefix string, visit func(key string, index []int)) {
	var walk func(t reflect.Type, prefix string, index []int)
	walk = func(t reflect.Type, prefix string, index []int) {
		for i := 0; i < t.NumField(); i++ {
			f := t.Field(i)
			name := strings.Split(f.Tag.Get("toml"), ",")[0]
			if name == "" || name == "-" {
				continue
			}
			key := name
			if prefix != "" {
				key = prefix + "." + name
			}
			idx := append(append([]int{}, index...), i)
			if f.Type.Kind() == reflect.Struct {
				walk(f.Type, key, idx)
				continue
			}
			visit(key, idx)
		}
	}
	walk(t, prefix, nil)
}
