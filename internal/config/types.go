package config

// Config is the on-disk configuration. Every field is optional; omitted
// fields keep the compiled-in defaults from Default().
//
// All durations are Go duration strings, optionally prefixed with a day
// count (e.g. "4d", "96h", "15m").
type Config struct {
	Thresholds ThresholdsConfig `json:"thresholds"`
	Registry   RegistryConfig   `json:"registry"`
	Logging    LoggingConfig    `json:"logging"`
	Notify     NotifyConfig     `json:"notify"`
	Audit      AuditConfig      `json:"audit"`
	Metrics    MetricsConfig    `json:"metrics"`

	// RestartTimeLayout formats the restart deadline in urgent warnings
	// (Go time layout).
	RestartTimeLayout string `json:"restart_time_layout,omitempty"`
}

// ThresholdsConfig controls escalation. Values must be whole seconds.
//
// Invariant: 0 < max_uptime - increase_urgency < max_uptime and
// initial_notification < max_uptime - increase_urgency.
type ThresholdsConfig struct {
	InitialNotification       string `json:"initial_notification"`
	MaxUptime                 string `json:"max_uptime"`
	IncreaseUrgency           string `json:"increase_urgency"`
	CheckFrequency            string `json:"check_frequency"`
	AcceleratedCheckFrequency string `json:"accelerated_check_frequency"`
}

// RegistryConfig controls where the periodic timer units live.
//
// Scope "user" installs into the user's systemd manager (desktop sessions);
// "system" installs into /etc/systemd/system.
type RegistryConfig struct {
	Scope   string `json:"scope"`
	UnitDir string `json:"unit_dir,omitempty"`
	Prefix  string `json:"prefix,omitempty"`
	// Program is the binary the timers invoke. Empty means the running executable.
	Program string `json:"program,omitempty"`
}

type LoggingConfig struct {
	Level    string      `json:"level"`
	Console  bool        `json:"console"`
	File     LoggingFile `json:"file"`
	Journald bool        `json:"journald"`
}

type LoggingFile struct {
	Enabled bool   `json:"enabled"`
	Path    string `json:"path"`
}

// NotifyConfig controls user-facing notifications.
type NotifyConfig struct {
	Desktop bool   `json:"desktop"`
	AppName string `json:"app_name,omitempty"`
	Icon    string `json:"icon,omitempty"`
	// ProgressRate is the minimum spacing between desktop countdown updates.
	ProgressRate string `json:"progress_rate,omitempty"`
	// Terminal renders the countdown on stdout when it is a TTY.
	Terminal bool `json:"terminal"`
}

// AuditConfig controls the optional audit journal.
//
// Example:
//
//	"audit": { "driver": "sqlite", "path": "/var/lib/maxuptime/audit.db" }
type AuditConfig struct {
	Driver      string `json:"driver"`
	Path        string `json:"path"`
	BusyTimeout string `json:"busy_timeout,omitempty"` // sqlite only
}

// MetricsConfig controls the optional node_exporter textfile.
type MetricsConfig struct {
	Textfile string `json:"textfile,omitempty"`
}

// Default returns the compiled-in configuration.
func Default() *Config {
	return &Config{
		Thresholds: ThresholdsConfig{
			InitialNotification:       "96h",
			MaxUptime:                 "168h",
			IncreaseUrgency:           "24h",
			CheckFrequency:            "1h",
			AcceleratedCheckFrequency: "15m",
		},
		Registry: RegistryConfig{
			Scope:  "user",
			Prefix: "maxuptime",
		},
		Logging: LoggingConfig{
			Level:   "info",
			Console: true,
			File: LoggingFile{
				Enabled: false,
				Path:    "/var/log/maxuptime.log",
			},
			Journald: true,
		},
		Notify: NotifyConfig{
			Desktop:      true,
			AppName:      "maxuptime",
			Icon:         "system-reboot",
			ProgressRate: "5s",
			Terminal:     true,
		},
		RestartTimeLayout: "15:04 on Monday, January 2",
	}
}
