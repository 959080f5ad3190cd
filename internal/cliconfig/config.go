// Package cliconfig resolves the daemon's startup configuration from
// defaults, the TOML config file, CLIPSHOT_* environment variables, and
// command-line flags, in ascending precedence.
package cliconfig

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/rs/zerolog"

	"github.com/clipshot/clipshot/internal/clipboard"
	"github.com/clipshot/clipshot/internal/logging"
	"github.com/clipshot/clipshot/internal/sink"
	"github.com/clipshot/clipshot/internal/source"
)

// Config holds CLI configuration for clipshot.
type Config struct {
	// Target is the positional delivery target ("local" or a host spec).
	// It comes from argv only, never from file or environment.
	Target string

	PollInterval   time.Duration
	Debounce       time.Duration
	AcquireTimeout time.Duration
	WriteTimeout   time.Duration
	RemoteTimeout  time.Duration

	LogDir       string
	LogRotateAge time.Duration

	LocalDir      string // local delivery directory
	ScreenshotDir string // macOS screenshot watch dir ("" = OS-configured)

	Multiplex bool
}

// DefaultConfig returns a Config with default values.
func DefaultConfig() Config {
	return Config{
		PollInterval:   200 * time.Millisecond,
		Debounce:       source.DefaultDebounce,
		AcquireTimeout: source.DefaultAcquireTimeout,
		WriteTimeout:   clipboard.DefaultWriteTimeout,
		RemoteTimeout:  sink.DefaultRemoteTimeout,
		LogRotateAge:   logging.DefaultRotateAge,
	}
}

// Validate checks the configuration for errors and sets derived defaults.
func (c *Config) Validate() error {
	if c.Target == "" {
		return fmt.Errorf("delivery target is required (\"local\" or user@host)")
	}
	if c.PollInterval <= 0 {
		return fmt.Errorf("poll interval must be positive")
	}
	if c.Debounce <= 0 {
		return fmt.Errorf("debounce must be positive")
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return fmt.Errorf("resolve home dir: %w", err)
	}
	if c.LogDir == "" {
		c.LogDir = filepath.Join(home, ".clipshot", "logs")
	}
	if c.LocalDir == "" {
		c.LocalDir = filepath.Join(home, sink.RemoteDirName)
	}
	return nil
}

// configSetter helps apply configuration values while respecting flag precedence.
// It only applies values if the corresponding flag hasn't been explicitly set.
type configSetter struct {
	changed map[string]bool
}

// newConfigSetter creates a new setter with the given changed flags map.
func newConfigSetter(changed map[string]bool) *configSetter {
	return &configSetter{changed: changed}
}

// setString sets a string value if not empty and flag not changed.
func (s *configSetter) setString(flag, value string, dst *string) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value
}

// setDuration parses and sets a duration from string if valid and flag not changed.
func (s *configSetter) setDuration(flag, value string, dst *time.Duration) error {
	if value == "" || s.changed[flag] {
		return nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return fmt.Errorf("parse %s: %w", flag, err)
	}
	*dst = d
	return nil
}

// setBool sets a bool value from a pointer if not nil and flag not changed.
func (s *configSetter) setBool(flag string, value *bool, dst *bool) {
	if value == nil || s.changed[flag] {
		return
	}
	*dst = *value
}

// setBoolFromString parses a string to bool and sets the destination.
// Accepts "true", "1" as true, anything else as false.
// Used for environment variables that come as strings.
func (s *configSetter) setBoolFromString(flag, value string, dst *bool) {
	if value == "" || s.changed[flag] {
		return
	}
	*dst = value == "true" || value == "1"
}

var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.RFC3339}).
	With().Timestamp().Logger()

// Logger returns the startup logger used before the rotating log session
// is established.
func Logger() zerolog.Logger {
	return logger
}
