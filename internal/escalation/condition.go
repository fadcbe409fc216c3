package escalation

// Condition is the escalation level computed for a single run.
// It is never persisted; every run recomputes it from a fresh uptime sample.
type Condition int

const (
	Normal Condition = iota
	SoftWarning
	UrgentWarning
	ForcedShutdown
	InitialGraceShutdown
)

var conditionNames = map[Condition]string{
	Normal:               "Normal",
	SoftWarning:          "SoftWarning",
	UrgentWarning:        "UrgentWarning",
	ForcedShutdown:       "ForcedShutdown",
	InitialGraceShutdown: "InitialGraceShutdown",
}

func (c Condition) String() string {
	if s, ok := conditionNames[c]; ok {
		return s
	}
	return "Unknown"
}

// Terminal reports whether the condition always ends in a restart.
func (c Condition) Terminal() bool {
	return c == ForcedShutdown || c == InitialGraceShutdown
}

// Conditions returns every condition in escalation order.
func Conditions() []Condition {
	return []Condition{Normal, SoftWarning, UrgentWarning, ForcedShutdown, InitialGraceShutdown}
}

// Classify returns the condition for uptime (seconds since boot).
//
// Thresholds are inclusive and the first match wins. The grace branch is only
// reachable when isFirstRun is set.
func Classify(uptime int64, th Thresholds, isFirstRun bool) Condition {
	switch {
	case isFirstRun && uptime >= th.MaxUptime:
		return InitialGraceShutdown
	case uptime >= th.MaxUptime:
		return ForcedShutdown
	case uptime >= th.UrgentThreshold():
		return UrgentWarning
	case uptime >= th.InitialNotification:
		return SoftWarning
	default:
		return Normal
	}
}
