package countdown

import (
	"context"

	logx "maxuptime/pkg/logx"
)

// LogDisplay writes countdown progress to the log.
type LogDisplay struct {
	Log logx.Logger
}

func (d LogDisplay) Start(ctx context.Context, info Info) error {
	d.Log.Info("countdown started",
		logx.String("title", info.Title),
		logx.Int64("duration_s", info.Duration),
	)
	return nil
}

func (d LogDisplay) Update(ctx context.Context, t Tick) error {
	d.Log.Trace("countdown", logx.Int64("seconds_left", t.SecondsLeft), logx.Int("percent", t.Percent))
	return nil
}

func (d LogDisplay) Finish(ctx context.Context) error {
	d.Log.Info("countdown finished")
	return nil
}
