package escalation

import (
	"fmt"
	"strings"
)

// Countdown lengths in seconds. These are fixed and not configurable.
const (
	ForcedCountdown = 300
	GraceCountdown  = 7200
)

// Thresholds holds the escalation settings. All values are whole seconds.
type Thresholds struct {
	InitialNotification       int64
	MaxUptime                 int64
	IncreaseUrgency           int64
	CheckFrequency            int64
	AcceleratedCheckFrequency int64
}

// DefaultThresholds are the compiled-in settings used when no config file is given.
func DefaultThresholds() Thresholds {
	return Thresholds{
		InitialNotification:       345600, // 4 days
		MaxUptime:                 604800, // 7 days
		IncreaseUrgency:           86400,  // 1 day
		CheckFrequency:            3600,
		AcceleratedCheckFrequency: 900,
	}
}

// UrgentThreshold is the uptime at which warnings become urgent.
func (t Thresholds) UrgentThreshold() int64 { return t.MaxUptime - t.IncreaseUrgency }

// Remaining returns the seconds left before uptime reaches MaxUptime (never negative).
func (t Thresholds) Remaining(uptime int64) int64 {
	if r := t.MaxUptime - uptime; r > 0 {
		return r
	}
	return 0
}

// ConfigError reports threshold settings that violate the ordering invariant.
type ConfigError struct {
	Problems []string
}

func (e *ConfigError) Error() string {
	return "invalid thresholds: " + strings.Join(e.Problems, "; ")
}

// Validate checks 0 < urgent < max, initial < urgent and positive check intervals.
func (t Thresholds) Validate() error {
	var probs []string
	urgent := t.UrgentThreshold()
	if t.MaxUptime <= 0 {
		probs = append(probs, fmt.Sprintf("max_uptime must be > 0 (got %d)", t.MaxUptime))
	}
	if t.IncreaseUrgency <= 0 {
		probs = append(probs, fmt.Sprintf("increase_urgency must be > 0 (got %d)", t.IncreaseUrgency))
	}
	if urgent <= 0 {
		probs = append(probs, fmt.Sprintf("urgent threshold (max_uptime - increase_urgency) must be > 0 (got %d)", urgent))
	}
	if t.InitialNotification < 0 {
		probs = append(probs, fmt.Sprintf("initial_notification must be >= 0 (got %d)", t.InitialNotification))
	}
	if t.InitialNotification >= urgent {
		probs = append(probs, fmt.Sprintf("initial_notification (%d) must be below the urgent threshold (%d)", t.InitialNotification, urgent))
	}
	if t.CheckFrequency <= 0 {
		probs = append(probs, fmt.Sprintf("check_frequency must be > 0 (got %d)", t.CheckFrequency))
	}
	if t.AcceleratedCheckFrequency <= 0 {
		probs = append(probs, fmt.Sprintf("accelerated_check_frequency must be > 0 (got %d)", t.AcceleratedCheckFrequency))
	}
	if len(probs) > 0 {
		return &ConfigError{Problems: probs}
	}
	return nil
}
