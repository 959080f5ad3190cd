package cliconfig

import "os"

// ApplyEnvConfig applies configuration from environment variables (CLIPSHOT_*).
// It respects flags that have been explicitly set (changed map).
// Returns error if any environment variable has an invalid format.
func ApplyEnvConfig(cfg *Config, changed map[string]bool) error {
	s := newConfigSetter(changed)

	s.setString("log-dir", os.Getenv("CLIPSHOT_LOG_DIR"), &cfg.LogDir)
	s.setString("local-dir", os.Getenv("CLIPSHOT_LOCAL_DIR"), &cfg.LocalDir)
	s.setString("screenshot-dir", os.Getenv("CLIPSHOT_SCREENSHOT_DIR"), &cfg.ScreenshotDir)

	if err := s.setDuration("poll", os.Getenv("CLIPSHOT_POLL_INTERVAL"), &cfg.PollInterval); err != nil {
		return err
	}
	if err := s.setDuration("debounce", os.Getenv("CLIPSHOT_DEBOUNCE"), &cfg.Debounce); err != nil {
		return err
	}
	if err := s.setDuration("acquire-timeout", os.Getenv("CLIPSHOT_ACQUIRE_TIMEOUT"), &cfg.AcquireTimeout); err != nil {
		return err
	}
	if err := s.setDuration("write-timeout", os.Getenv("CLIPSHOT_WRITE_TIMEOUT"), &cfg.WriteTimeout); err != nil {
		return err
	}
	if err := s.setDuration("remote-timeout", os.Getenv("CLIPSHOT_REMOTE_TIMEOUT"), &cfg.RemoteTimeout); err != nil {
		return err
	}
	if err := s.setDuration("log-rotate-age", os.Getenv("CLIPSHOT_LOG_ROTATE_AGE"), &cfg.LogRotateAge); err != nil {
		return err
	}

	s.setBoolFromString("multiplex", os.Getenv("CLIPSHOT_MULTIPLEX"), &cfg.Multiplex)

	return nil
}
