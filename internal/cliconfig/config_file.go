package cliconfig

import (
	"os"
	"path/filepath"

	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig mirrors Config but uses strings for durations to make TOML friendly.
type FileConfig struct {
	PollInterval   string `toml:"poll_interval"`
	Debounce       string `toml:"debounce"`
	AcquireTimeout string `toml:"acquire_timeout"`
	WriteTimeout   string `toml:"write_timeout"`
	RemoteTimeout  string `toml:"remote_timeout"`
	LogDir         string `toml:"log_dir"`
	LogRotateAge   string `toml:"log_rotate_age"`
	LocalDir       string `toml:"local_dir"`
	ScreenshotDir  string `toml:"screenshot_dir"`
	Multiplex      *bool  `toml:"multiplex"`
}

// LoadFileConfig reads and parses a TOML config file.
func LoadFileConfig(path string) (FileConfig, error) {
	var fc FileConfig
	b, err := os.ReadFile(path)
	if err != nil {
		return fc, err
	}
	if err := toml.Unmarshal(b, &fc); err != nil {
		return fc, err
	}
	return fc, nil
}

// DefaultConfigPath returns the default configuration file path.
// Returns ~/.clipshot/config.toml if user home directory is accessible.
func DefaultConfigPath() string {
	if h, err := os.UserHomeDir(); err == nil {
		return filepath.Join(h, ".clipshot", "config.toml")
	}
	return ""
}

// ApplyFileConfig applies configuration from a file to the Config struct.
// It respects flags that have been explicitly set (changed map).
func ApplyFileConfig(cfg *Config, fc FileConfig, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("log-dir", fc.LogDir, &cfg.LogDir)
	s.setString("local-dir", fc.LocalDir, &cfg.LocalDir)
	s.setString("screenshot-dir", fc.ScreenshotDir, &cfg.ScreenshotDir)

	if err := s.setDuration("poll", fc.PollInterval, &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("debounce", fc.Debounce, &cfg.Debounce); err != nil {
		return err
	}
	if err := s.setDuration("acquire-timeout", fc.AcquireTimeout, &cfg.AcquireTimeout); err != nil {
		return err
	}
	if err := s.setDuration("write-timeout", fc.WriteTimeout, &cfg.WriteTimeout); err != nil {
		return err
	}
	if err := s.setDuration("remote-timeout", fc.RemoteTimeout, &cfg.RemoteTimeout); err != nil {
		return err
	}
	if err := s.setDuration("log-rotate-age", fc.LogRotateAge, &cfg.LogRotateAge); err != nil {
		return err
	}

	s.setBool("multiplex", fc.Multiplex, &cfg.Multiplex)

	return nil
}

// FileExists checks if a file exists at the given path.
func FileExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
