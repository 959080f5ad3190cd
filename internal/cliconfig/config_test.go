package cliconfig

import (
	"strings"
	"testing"
	"time"
)

func TestValidate_DerivesDirectories(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Target = "local"
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate: %v", err)
	}
	if cfg.LogDir == "" || !strings.Contains(cfg.LogDir, ".clipshot") {
		t.Fatalf("expected derived log dir, got %q", cfg.LogDir)
	}
	if cfg.LocalDir == "" || !strings.Contains(cfg.LocalDir, "clipshot-screenshots") {
		t.Fatalf("expected derived local dir, got %q", cfg.LocalDir)
	}
}

func TestValidate_RequiresTarget(t *testing.T) {
	cfg := DefaultConfig()
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for missing target")
	}
}

func TestValidate_RejectsNonPositiveIntervals(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Target = "local"
	cfg.PollInterval = 0
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for zero poll interval")
	}

	cfg = DefaultConfig()
	cfg.Target = "local"
	cfg.Debounce = -time.Millisecond
	if err := cfg.Validate(); err == nil {
		t.Fatal("expected error for negative debounce")
	}
}

func TestConfigSetter_RespectsChangedFlags(t *testing.T) {
	cfg := DefaultConfig()
	s := newConfigSetter(map[string]bool{"log-dir": true})

	s.setString("log-dir", "/from/file", &cfg.LogDir)
	if cfg.LogDir != "" {
		t.Fatalf("changed flag must win over file value, got %q", cfg.LogDir)
	}

	s.setString("local-dir", "/from/file", &cfg.LocalDir)
	if cfg.LocalDir != "/from/file" {
		t.Fatalf("unchanged flag should take file value, got %q", cfg.LocalDir)
	}
}
