// Package app wires configuration, logging and the machine collaborators into
// a controller.
package app

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/mattn/go-isatty"

	"maxuptime/internal/config"
	"maxuptime/internal/controller"
	"maxuptime/internal/countdown"
	"maxuptime/internal/metrics"
	"maxuptime/internal/notify"
	"maxuptime/internal/restart"
	"maxuptime/internal/storage"
	"maxuptime/internal/trigger"
	"maxuptime/internal/uptime"
	logx "maxuptime/pkg/logx"
)

// ConfigError marks failures that happen before any collaborator is touched.
type ConfigError struct{ Err error }

func (e *ConfigError) Error() string { return "config: " + e.Err.Error() }
func (e *ConfigError) Unwrap() error { return e.Err }

type App struct {
	set *config.Settings

	log  logx.Logger
	logs *logx.Sinks

	store storage.Store
	ctl   *controller.Controller

	closers []io.Closer
}

// New loads cfgPath (empty means defaults) and connects every collaborator.
// Unreachable collaborators are replaced by stand-ins that fail at use, so a
// run can still reach its restart decision.
func New(ctx context.Context, cfgPath string, out *os.File) (*App, error) {
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}
	set, err := config.Resolve(cfg)
	if err != nil {
		return nil, &ConfigError{Err: err}
	}

	sinks, log := logx.Open(set.Logging)
	a := &App{set: set, log: log.With(logx.String("comp", "app")), logs: sinks}

	var reg trigger.Registry
	if sr, err := trigger.NewSystemdRegistry(ctx, set.Registry, log.With(logx.String("comp", "trigger"))); err != nil {
		a.log.Warn("trigger registry unavailable", logx.Err(err))
		reg = trigger.Unavailable{Err: err}
	} else {
		reg = sr
		a.closers = append(a.closers, sr)
	}

	var notifier notify.Notifier = notify.LogNotifier{Log: log.With(logx.String("comp", "notify"))}
	runner := &countdown.Runner{
		Clock:    uptime.SystemClock{},
		Log:      log.With(logx.String("comp", "countdown")),
		Displays: []countdown.Display{countdown.LogDisplay{Log: log.With(logx.String("comp", "countdown"))}},
	}
	if set.Notify.Desktop {
		if d, err := notify.DialDesktop(set.Notify.AppName, set.Notify.Icon); err != nil {
			a.log.Warn("desktop notifications unavailable", logx.Err(err))
		} else {
			notifier = d
			runner.Displays = append(runner.Displays, countdown.NewDesktopDisplay(d, set.Notify.ProgressRate))
			a.closers = append(a.closers, d)
		}
	}
	if set.Notify.Terminal && out != nil && isatty.IsTerminal(out.Fd()) {
		runner.Displays = append(runner.Displays, countdown.NewTerminalDisplay(out))
	}

	var exec restart.Executor
	if l, err := restart.DialLogind(); err != nil {
		a.log.Warn("logind unavailable", logx.Err(err))
		exec = restart.Func(func(context.Context) error { return err })
	} else {
		exec = l
	}

	if st, err := storage.Open(set.Audit, log.With(logx.String("comp", "storage"))); err != nil {
		a.log.Warn("audit store unavailable", logx.Err(err))
	} else if st != nil {
		a.store = st
		a.closers = append(a.closers, st)
	}

	deps := controller.Deps{
		Uptime:    uptime.System(),
		Clock:     uptime.SystemClock{},
		Registry:  reg,
		Countdown: runner,
		Notifier:  notifier,
		Restarter: exec,
		Audit:     a.store,
		Report:    a.writeMetrics,
		Log:       log.With(logx.String("comp", "controller")),
	}
	ctl, err := controller.New(controller.Options{
		Thresholds:        set.Thresholds,
		Program:           set.Program,
		RestartTimeLayout: set.RestartTimeLayout,
	}, deps)
	if err != nil {
		_ = a.Close()
		return nil, &ConfigError{Err: err}
	}
	a.ctl = ctl
	return a, nil
}

func (a *App) Controller() *controller.Controller { return a.ctl }

func (a *App) Settings() *config.Settings { return a.set }

func (a *App) Logger() logx.Logger { return a.log }

func (a *App) writeMetrics(res controller.Result) {
	if a.set.Metrics == "" || !res.Sampled {
		return
	}
	err := metrics.WriteTextfile(a.set.Metrics, metrics.Snapshot{
		Uptime:      res.Uptime,
		Condition:   res.Condition,
		Thresholds:  a.set.Thresholds,
		Accelerated: res.Accelerated,
		LastRun:     uptime.SystemClock{}.Now().Unix(),
	})
	if err != nil {
		a.log.Warn("metrics write failed", logx.Err(err))
	}
}

// Close releases collaborators in reverse order, then the log sinks.
func (a *App) Close() error {
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i].Close(); err != nil {
			errs = append(errs, err)
		}
	}
	a.closers = nil
	if a.logs != nil {
		if err := a.logs.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close logs: %w", err))
		}
	}
	return errors.Join(errs...)
}
