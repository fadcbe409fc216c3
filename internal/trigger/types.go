package trigger

import (
	"context"
	"errors"
	"time"
)

// Registration names managed by the controller.
const (
	Standard    = "standard"
	Accelerated = "accelerated"
)

var (
	ErrNoSystemd = errors.New("trigger: systemd is not running")
	ErrClosed    = errors.New("trigger: systemd connection is closed")
)

// Registration describes a periodic re-invocation of Program.
type Registration struct {
	Name        string
	Description string
	Program     string
	Args        []string
	Interval    time.Duration
}

// Registry installs, queries and removes named registrations.
//
// Install of an identical registration and Remove of an absent one are no-ops.
type Registry interface {
	Exists(ctx context.Context, name string) (bool, error)
	Install(ctx context.Context, r Registration) error
	Remove(ctx context.Context, name string) error
}

// Scope selects which systemd manager owns the units.
type Scope string

const (
	ScopeSystem Scope = "system"
	ScopeUser   Scope = "user"
)

// Unavailable is a Registry whose every operation fails with Err. It stands in
// when the scheduler cannot be reached so a run can still classify and restart.
type Unavailable struct{ Err error }

func (u Unavailable) Exists(context.Context, string) (bool, error) { return false, u.Err }
func (u Unavailable) Install(context.Context, Registration) error  { return u.Err }
func (u Unavailable) Remove(context.Context, string) error         { return u.Err }
