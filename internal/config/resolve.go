package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"maxuptime/internal/escalation"
	"maxuptime/internal/storage"
	"maxuptime/internal/trigger"
	logx "maxuptime/pkg/logx"
)

// Settings is the validated runtime form of Config.
type Settings struct {
	Thresholds escalation.Thresholds
	Registry   trigger.Options
	Program    string
	Logging    logx.Config
	Notify     NotifySettings
	Audit      storage.Config
	Metrics    string

	RestartTimeLayout string
}

type NotifySettings struct {
	Desktop      bool
	AppName      string
	Icon         string
	ProgressRate time.Duration
	Terminal     bool
}

// Resolve parses durations and validates cfg. Any error is a configuration
// error and must stop the program before it touches the machine.
func Resolve(cfg *Config) (*Settings, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	th, err := resolveThresholds(cfg.Thresholds)
	if err != nil {
		return nil, err
	}
	if err := th.Validate(); err != nil {
		return nil, err
	}

	scope := trigger.Scope(strings.ToLower(strings.TrimSpace(cfg.Registry.Scope)))
	switch scope {
	case "":
		scope = trigger.ScopeUser
	case trigger.ScopeUser, trigger.ScopeSystem:
	default:
		return nil, fmt.Errorf("registry.scope: must be %q or %q (got %q)", trigger.ScopeUser, trigger.ScopeSystem, cfg.Registry.Scope)
	}

	program := strings.TrimSpace(cfg.Registry.Program)
	if program == "" {
		exe, err := os.Executable()
		if err != nil {
			return nil, fmt.Errorf("registry.program: resolve executable: %w", err)
		}
		program = exe
	}

	progress, err := ParseDurationOrDefault("notify.progress_rate", cfg.Notify.ProgressRate, 5*time.Second)
	if err != nil {
		return nil, err
	}
	busy, err := ParseDurationField("audit.busy_timeout", cfg.Audit.BusyTimeout)
	if err != nil {
		return nil, err
	}

	layout := cfg.RestartTimeLayout
	if strings.TrimSpace(layout) == "" {
		layout = Default().RestartTimeLayout
	}

	return &Settings{
		Thresholds: th,
		Registry: trigger.Options{
			Scope:   scope,
			UnitDir: strings.TrimSpace(cfg.Registry.UnitDir),
			Prefix:  strings.TrimSpace(cfg.Registry.Prefix),
		},
		Program: program,
		Logging: logx.Config{
			Level:    cfg.Logging.Level,
			Console:  cfg.Logging.Console,
			File:     logx.FileConfig{Enabled: cfg.Logging.File.Enabled, Path: cfg.Logging.File.Path},
			Journald: cfg.Logging.Journald,
		},
		Notify: NotifySettings{
			Desktop:      cfg.Notify.Desktop,
			AppName:      cfg.Notify.AppName,
			Icon:         cfg.Notify.Icon,
			ProgressRate: progress,
			Terminal:     cfg.Notify.Terminal,
		},
		Audit: storage.Config{
			Driver:      cfg.Audit.Driver,
			Path:        cfg.Audit.Path,
			BusyTimeout: busy,
		},
		Metrics:           strings.TrimSpace(cfg.Metrics.Textfile),
		RestartTimeLayout: layout,
	}, nil
}

func resolveThresholds(tc ThresholdsConfig) (escalation.Thresholds, error) {
	var th escalation.Thresholds
	fields := []struct {
		path string
		raw  string
		dst  *int64
	}{
		{"thresholds.initial_notification", tc.InitialNotification, &th.InitialNotification},
		{"thresholds.max_uptime", tc.MaxUptime, &th.MaxUptime},
		{"thresholds.increase_urgency", tc.IncreaseUrgency, &th.IncreaseUrgency},
		{"thresholds.check_frequency", tc.CheckFrequency, &th.CheckFrequency},
		{"thresholds.accelerated_check_frequency", tc.AcceleratedCheckFrequency, &th.AcceleratedCheckFrequency},
	}
	for _, f := range fields {
		v, err := ParseSecondsField(f.path, f.raw)
		if err != nil {
			return escalation.Thresholds{}, err
		}
		*f.dst = v
	}
	return th, nil
}
