package controller

import (
	"context"
	"errors"
	"fmt"
	"os"
	"time"

	"maxuptime/internal/escalation"
	"maxuptime/internal/notify"
	"maxuptime/internal/restart"
	"maxuptime/internal/storage"
	"maxuptime/internal/trigger"
	"maxuptime/internal/uptime"
	logx "maxuptime/pkg/logx"
)

// Options are the per-process settings of a Controller.
type Options struct {
	Thresholds escalation.Thresholds
	// Program and Args are what the registrations invoke.
	Program string
	Args    []string
	// RestartTimeLayout formats the urgent-warning deadline.
	RestartTimeLayout string
}

// Deps are the collaborators a Controller drives. Audit and Report are optional.
type Deps struct {
	Uptime    uptime.Source
	Clock     uptime.Clock
	Registry  trigger.Registry
	Countdown Countdown
	Notifier  notify.Notifier
	Restarter restart.Executor
	Audit     storage.Store
	// Report receives the run's result before any countdown starts and at
	// the end of non-terminal runs.
	Report func(Result)
	Log    logx.Logger
}

type Controller struct {
	opts Options
	deps Deps
	host string
	log  logx.Logger
}

// New validates opts and returns a Controller. A threshold error is returned
// as *escalation.ConfigError.
func New(opts Options, deps Deps) (*Controller, error) {
	if err := opts.Thresholds.Validate(); err != nil {
		return nil, err
	}
	switch {
	case deps.Uptime == nil:
		return nil, errors.New("controller: uptime source required")
	case deps.Registry == nil:
		return nil, errors.New("controller: registry required")
	case deps.Countdown == nil:
		return nil, errors.New("controller: countdown required")
	case deps.Restarter == nil:
		return nil, errors.New("controller: restart executor required")
	}
	if deps.Clock == nil {
		deps.Clock = uptime.SystemClock{}
	}
	log := deps.Log
	if log.IsZero() {
		log = logx.Nop()
	}
	if deps.Notifier == nil {
		deps.Notifier = notify.LogNotifier{Log: log}
	}
	if opts.RestartTimeLayout == "" {
		opts.RestartTimeLayout = time.Kitchen
	}
	host, _ := os.Hostname()
	return &Controller{opts: opts, deps: deps, host: host, log: log}, nil
}

func (c *Controller) registration(name string) trigger.Registration {
	interval := c.opts.Thresholds.CheckFrequency
	desc := "maxuptime periodic uptime check"
	if name == trigger.Accelerated {
		interval = c.opts.Thresholds.AcceleratedCheckFrequency
		desc = "maxuptime accelerated uptime check"
	}
	return trigger.Registration{
		Name:        name,
		Description: desc,
		Program:     c.opts.Program,
		Args:        c.opts.Args,
		Interval:    time.Duration(interval) * time.Second,
	}
}

func (c *Controller) audit(ctx context.Context, log logx.Logger, e storage.AuditEntry) {
	if c.deps.Audit == nil {
		return
	}
	if e.Host == "" {
		e.Host = c.host
	}
	if e.At.IsZero() {
		e.At = c.deps.Clock.Now()
	}
	if err := c.deps.Audit.AppendAudit(ctx, e); err != nil {
		log.Debug("audit append failed", logx.String("action", e.Action), logx.Err(err))
	}
}

func (c *Controller) report(res Result) {
	if c.deps.Report != nil {
		c.deps.Report(res)
	}
}

func errString(err error) string {
	if err == nil {
		return ""
	}
	return err.Error()
}

// Uninstall removes both registrations. The next run will be treated as a
// first run again.
func (c *Controller) Uninstall(ctx context.Context) error {
	var errs []error
	for _, name := range []string{trigger.Accelerated, trigger.Standard} {
		if err := c.deps.Registry.Remove(ctx, name); err != nil {
			errs = append(errs, fmt.Errorf("remove %s: %w", name, err))
			continue
		}
		c.log.Info("registration removed", logx.String("name", name))
	}
	return errors.Join(errs...)
}
