package controller

import (
	"context"
	"errors"
	"time"

	"maxuptime/internal/escalation"
)

var ErrRestartFailed = errors.New("restart failed")

// Countdown blocks for the given number of seconds while showing progress.
type Countdown interface {
	Run(ctx context.Context, seconds int64, title, message string)
}

// Result summarises one run.
type Result struct {
	RunID    string
	Sampled  bool
	Uptime   int64
	FirstRun bool

	Condition   escalation.Condition
	Accelerated bool
	// RestartAt is the deadline announced by an urgent warning.
	RestartAt time.Time
	Restarted bool
}

// StateReporter is implemented by registries that can report the
// scheduler's own view of a registration.
type StateReporter interface {
	State(ctx context.Context, name string) (string, error)
}

// Status is a read-only view of the machine's escalation state.
type Status struct {
	Uptime               int64
	FirstRun             bool
	Condition            escalation.Condition
	StandardInstalled    bool
	AcceleratedInstalled bool
	// StandardState and AcceleratedState are filled when the registry is a
	// StateReporter.
	StandardState    string
	AcceleratedState string
	Remaining        int64
	RestartAt        time.Time
	NextCheck        time.Time
}
