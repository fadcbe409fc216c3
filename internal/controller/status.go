package controller

import (
	"context"
	"time"

	"github.com/robfig/cron/v3"

	"maxuptime/internal/escalation"
	"maxuptime/internal/trigger"
)

// Inspect reports the current escalation state without changing anything.
// Registry lookup failures are returned since nothing depends on a guess here.
func (c *Controller) Inspect(ctx context.Context) (Status, error) {
	var st Status
	up, err := c.deps.Uptime.Uptime(ctx)
	if err != nil {
		return st, err
	}
	st.Uptime = up

	if st.StandardInstalled, err = c.deps.Registry.Exists(ctx, trigger.Standard); err != nil {
		return st, err
	}
	if st.AcceleratedInstalled, err = c.deps.Registry.Exists(ctx, trigger.Accelerated); err != nil {
		return st, err
	}
	st.FirstRun = !st.StandardInstalled
	if sr, ok := c.deps.Registry.(StateReporter); ok {
		st.StandardState = reportedState(ctx, sr, trigger.Standard)
		st.AcceleratedState = reportedState(ctx, sr, trigger.Accelerated)
	}

	th := c.opts.Thresholds
	st.Condition = escalation.Classify(up, th, st.FirstRun)
	st.Remaining = th.Remaining(up)

	now := c.deps.Clock.Now()
	if st.Remaining > 0 {
		st.RestartAt = now.Add(time.Duration(st.Remaining) * time.Second)
	}
	interval := th.CheckFrequency
	if st.AcceleratedInstalled {
		interval = th.AcceleratedCheckFrequency
	}
	if st.StandardInstalled || st.AcceleratedInstalled {
		st.NextCheck = cron.Every(time.Duration(interval) * time.Second).Next(now)
	}
	return st, nil
}

func reportedState(ctx context.Context, sr StateReporter, name string) string {
	s, err := sr.State(ctx, name)
	if err != nil {
		return "unknown"
	}
	return s
}
