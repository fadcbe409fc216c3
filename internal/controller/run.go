package controller

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"maxuptime/internal/escalation"
	"maxuptime/internal/notify"
	"maxuptime/internal/storage"
	"maxuptime/internal/trigger"
	logx "maxuptime/pkg/logx"
)

// RunOnce performs one wake-up.
//
// Collaborator failures are logged and do not fail the run. The only error
// returned is ErrRestartFailed, after a terminal condition's countdown.
// When Result.Restarted is set the caller should expect to be terminated.
func (c *Controller) RunOnce(ctx context.Context) (Result, error) {
	res := Result{RunID: uuid.NewString()}
	log := c.log.With(logx.String("run_id", res.RunID))
	th := c.opts.Thresholds

	up, uerr := c.deps.Uptime.Uptime(ctx)
	res.Uptime = up
	res.Sampled = uerr == nil

	exists, err := c.deps.Registry.Exists(ctx, trigger.Standard)
	if err != nil {
		// Unknown is treated as installed: the grace path is never granted
		// on a guess.
		log.Warn("standard registration check failed; assuming installed", logx.Err(err))
		exists = true
	}
	res.FirstRun = !exists

	if res.FirstRun {
		c.install(ctx, log, res, trigger.Standard)
	}

	if uerr != nil {
		log.Warn("uptime unavailable; skipping classification", logx.Err(uerr))
		return res, nil
	}

	res.Condition = escalation.Classify(up, th, res.FirstRun)
	log.Info("classified",
		logx.String("condition", res.Condition.String()),
		logx.Int64("uptime_s", up),
		logx.Bool("first_run", res.FirstRun),
	)
	c.audit(ctx, log, storage.AuditEntry{RunID: res.RunID, Action: storage.ActionClassify, Condition: res.Condition.String(), Uptime: up})

	if res.Condition == escalation.InitialGraceShutdown {
		return c.terminate(ctx, log, res, escalation.GraceCountdown, "Restart required",
			fmt.Sprintf("This computer has been running for %s without a restart. "+
				"It will restart automatically when this countdown ends. Save your work now.",
				escalation.FormatSeconds(up)))
	}

	res.Accelerated = c.removeAccelerated(ctx, log, res)

	// From here on the standard registration is known to exist.
	res.Condition = escalation.Classify(up, th, false)

	switch res.Condition {
	case escalation.ForcedShutdown:
		return c.terminate(ctx, log, res, escalation.ForcedCountdown, "Restart required",
			fmt.Sprintf("This computer has reached its maximum uptime of %s and will restart in %s. Save your work now.",
				escalation.FormatSeconds(th.MaxUptime), escalation.FormatSeconds(escalation.ForcedCountdown)))

	case escalation.UrgentWarning:
		if c.install(ctx, log, res, trigger.Accelerated) {
			res.Accelerated = true
		}
		remaining := th.Remaining(up)
		res.RestartAt = c.deps.Clock.Now().Add(time.Duration(remaining) * time.Second)
		msg := notify.Message{
			Title: "Restart required soon",
			Body: fmt.Sprintf("This computer will restart automatically at %s (in %s). Restart now to avoid losing work.",
				res.RestartAt.Format(c.opts.RestartTimeLayout), escalation.FormatSeconds(remaining)),
		}
		c.notify(ctx, log, res, msg, true)

	case escalation.SoftWarning:
		msg := notify.Message{
			Title: "Restart recommended",
			Body: fmt.Sprintf("This computer has been running for %s. Please restart soon.",
				escalation.FormatSeconds(up)),
		}
		c.notify(ctx, log, res, msg, false)
	}

	c.report(res)
	return res, nil
}

// install requests a registration and reports whether it is now in place.
func (c *Controller) install(ctx context.Context, log logx.Logger, res Result, name string) bool {
	reg := c.registration(name)
	err := c.deps.Registry.Install(ctx, reg)
	c.audit(ctx, log, storage.AuditEntry{RunID: res.RunID, Action: storage.ActionInstall, Target: name, Uptime: res.Uptime, Error: errString(err)})
	if err != nil {
		log.Warn("registration install failed", logx.String("name", name), logx.Err(err))
		return false
	}
	log.Info("registration installed", logx.String("name", name), logx.Duration("interval", reg.Interval))
	return true
}

// removeAccelerated removes the accelerated registration and reports whether
// it is still in place afterwards.
func (c *Controller) removeAccelerated(ctx context.Context, log logx.Logger, res Result) bool {
	present, err := c.deps.Registry.Exists(ctx, trigger.Accelerated)
	if err != nil {
		log.Debug("accelerated registration check failed; removing anyway", logx.Err(err))
		present = true
	}
	if !present {
		return false
	}
	err = c.deps.Registry.Remove(ctx, trigger.Accelerated)
	c.audit(ctx, log, storage.AuditEntry{RunID: res.RunID, Action: storage.ActionRemove, Target: trigger.Accelerated, Uptime: res.Uptime, Error: errString(err)})
	if err != nil {
		log.Warn("registration remove failed", logx.String("name", trigger.Accelerated), logx.Err(err))
		return true
	}
	log.Info("registration removed", logx.String("name", trigger.Accelerated))
	return false
}

func (c *Controller) notify(ctx context.Context, log logx.Logger, res Result, m notify.Message, urgent bool) {
	var err error
	if urgent {
		err = c.deps.Notifier.Urgent(ctx, m)
	} else {
		err = c.deps.Notifier.Soft(ctx, m)
	}
	c.audit(ctx, log, storage.AuditEntry{RunID: res.RunID, Action: storage.ActionNotify, Condition: res.Condition.String(), Uptime: res.Uptime, Error: errString(err)})
	if err != nil {
		log.Warn("notification failed", logx.Bool("urgent", urgent), logx.Err(err))
		return
	}
	log.Info("notification sent", logx.Bool("urgent", urgent), logx.String("body", m.Body))
}

// terminate runs the countdown and then requests the restart. Nothing may
// follow the restart request.
func (c *Controller) terminate(ctx context.Context, log logx.Logger, res Result, seconds int64, title, message string) (Result, error) {
	ctx = context.WithoutCancel(ctx)
	log.Warn("restart countdown starting",
		logx.String("condition", res.Condition.String()),
		logx.Int64("countdown_s", seconds),
	)
	c.report(res)

	c.deps.Countdown.Run(ctx, seconds, title, message)

	log.Warn("requesting restart", logx.String("condition", res.Condition.String()))
	c.audit(ctx, log, storage.AuditEntry{RunID: res.RunID, Action: storage.ActionRestart, Condition: res.Condition.String(), Uptime: res.Uptime})
	if err := c.deps.Restarter.Restart(ctx); err != nil {
		log.Error("restart request failed", logx.Err(err))
		return res, fmt.Errorf("%w: %w", ErrRestartFailed, err)
	}
	res.Restarted = true
	return res, nil
}
