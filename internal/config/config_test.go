package config

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"maxuptime/internal/escalation"
	"maxuptime/internal/trigger"
)

func writeFile(t *testing.T, name, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestDefaultsResolve(t *testing.T) {
	cfg, err := Load("")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s, err := Resolve(cfg)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.Thresholds != escalation.DefaultThresholds() {
		t.Fatalf("thresholds = %+v, want %+v", s.Thresholds, escalation.DefaultThresholds())
	}
	if s.Registry.Scope != trigger.ScopeUser || s.Program == "" {
		t.Fatalf("unexpected registry settings: %+v program=%q", s.Registry, s.Program)
	}
	if s.Notify.ProgressRate != 5*time.Second {
		t.Fatalf("progress rate = %v", s.Notify.ProgressRate)
	}
}

func TestLoadYAMLOverlaysDefaults(t *testing.T) {
	path := writeFile(t, "config.yaml", `
thresholds:
  max_uptime: 336h
  check_frequency: 30m
registry:
  scope: system
  program: /usr/local/bin/maxuptime
audit:
  driver: file
  path: /var/lib/maxuptime/audit.jsonl
metrics:
  textfile: /var/lib/node_exporter/maxuptime.prom
`)
	cfg, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	s, err := Resolve(cfg)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if s.Thresholds.MaxUptime != 336*3600 || s.Thresholds.CheckFrequency != 1800 {
		t.Fatalf("overrides not applied: %+v", s.Thresholds)
	}
	if s.Thresholds.InitialNotification != 345600 {
		t.Fatalf("omitted field lost its default: %+v", s.Thresholds)
	}
	if s.Registry.Scope != trigger.ScopeSystem || s.Program != "/usr/local/bin/maxuptime" {
		t.Fatalf("registry = %+v program=%q", s.Registry, s.Program)
	}
	if s.Audit.Driver != "file" || s.Metrics != "/var/lib/node_exporter/maxuptime.prom" {
		t.Fatalf("audit=%+v metrics=%q", s.Audit, s.Metrics)
	}
}

func TestLoadJSONRejectsUnknownAndTrailing(t *testing.T) {
	path := writeFile(t, "config.json", `{"thresholds": {"max_uptim": "1h"}}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected unknown field error")
	}
	path = writeFile(t, "config.json", `{"logging": {"level": "debug"}} {}`)
	if _, err := Load(path); err == nil {
		t.Fatal("expected trailing data error")
	}
}

func TestResolveRejectsBadThresholds(t *testing.T) {
	cfg := Default()
	cfg.Thresholds.InitialNotification = "200h"
	_, err := Resolve(cfg)
	var ce *escalation.ConfigError
	if !errors.As(err, &ce) {
		t.Fatalf("expected *escalation.ConfigError, got %v", err)
	}

	cfg = Default()
	cfg.Thresholds.MaxUptime = "a week"
	if _, err := Resolve(cfg); err == nil {
		t.Fatal("expected invalid duration error")
	}

	cfg = Default()
	cfg.Registry.Scope = "global"
	if _, err := Resolve(cfg); err == nil {
		t.Fatal("expected invalid scope error")
	}
}

func TestLoadMissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected not-exist error, got %v", err)
	}
}

func TestParseDurationFieldDays(t *testing.T) {
	cases := []struct {
		raw  string
		want time.Duration
	}{
		{"", 0},
		{"15m", 15 * time.Minute},
		{"7d", 7 * 24 * time.Hour},
		{"4d12h", 108 * time.Hour},
		{" 1d ", 24 * time.Hour},
	}
	for _, tc := range cases {
		got, err := ParseDurationField("x", tc.raw)
		if err != nil {
			t.Fatalf("%q: %v", tc.raw, err)
		}
		if got != tc.want {
			t.Fatalf("%q: got %v want %v", tc.raw, got, tc.want)
		}
	}
	for _, raw := range []string{"xd", "1d2", "-1h", "soon"} {
		if _, err := ParseDurationField("x", raw); err == nil {
			t.Fatalf("%q: expected error", raw)
		}
	}
}

func TestParseSecondsFieldRejectsFractions(t *testing.T) {
	if _, err := ParseSecondsField("thresholds.max_uptime", "1500ms"); err == nil {
		t.Fatalf("expected error for sub-second value")
	}
	v, err := ParseSecondsField("thresholds.max_uptime", "7d")
	if err != nil || v != 604800 {
		t.Fatalf("v=%d err=%v", v, err)
	}
}

func TestLoadEmptyYAMLKeepsDefaults(t *testing.T) {
	path := writeFile(t, "empty.yml", "")
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.Thresholds.MaxUptime != Default().Thresholds.MaxUptime {
		t.Fatalf("max_uptime=%q", cfg.Thresholds.MaxUptime)
	}
}
