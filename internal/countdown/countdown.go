package countdown

import (
	"context"
	"time"

	"maxuptime/internal/escalation"
	"maxuptime/internal/uptime"
	logx "maxuptime/pkg/logx"
)

// Info describes a countdown when it starts.
type Info struct {
	Title    string
	Message  string
	Duration int64 // seconds
}

// Tick is one progress update.
type Tick struct {
	SecondsLeft int64
	// Percent remaining, secondsLeft*100/duration truncated.
	Percent   int
	Remaining string
}

// Display renders countdown progress.
type Display interface {
	Start(ctx context.Context, info Info) error
	Update(ctx context.Context, t Tick) error
	Finish(ctx context.Context) error
}

// Runner drives a countdown across a set of displays.
type Runner struct {
	Clock    uptime.Clock
	Displays []Display
	Log      logx.Logger
	// Interval between updates; defaults to one second.
	Interval time.Duration
}

// NewTick computes the progress for secondsLeft of duration.
func NewTick(secondsLeft, duration int64) Tick {
	if secondsLeft < 0 {
		secondsLeft = 0
	}
	pct := 0
	if duration > 0 {
		pct = int(secondsLeft * 100 / duration)
	}
	return Tick{SecondsLeft: secondsLeft, Percent: pct, Remaining: escalation.FormatSeconds(secondsLeft)}
}

// Run blocks for seconds, updating every display roughly once per second.
func (r *Runner) Run(ctx context.Context, seconds int64, title, message string) {
	ctx = context.WithoutCancel(ctx)
	clock := r.Clock
	if clock == nil {
		clock = uptime.SystemClock{}
	}
	interval := r.Interval
	if interval <= 0 {
		interval = time.Second
	}
	log := r.Log
	if log.IsZero() {
		log = logx.Nop()
	}

	info := Info{Title: title, Message: message, Duration: seconds}
	for _, d := range r.Displays {
		if err := d.Start(ctx, info); err != nil {
			log.Warn("countdown display failed to start", logx.Err(err))
		}
	}

	deadline := clock.Now().Add(time.Duration(seconds) * time.Second)
	for {
		wait := deadline.Sub(clock.Now())
		if wait <= 0 {
			break
		}
		t := NewTick(int64((wait+time.Second-1)/time.Second), seconds)
		for _, d := range r.Displays {
			if err := d.Update(ctx, t); err != nil {
				log.Debug("countdown display update failed", logx.Err(err))
			}
		}
		clock.Sleep(min(interval, wait))
	}

	for _, d := range r.Displays {
		if err := d.Finish(ctx); err != nil {
			log.Debug("countdown display failed to finish", logx.Err(err))
		}
	}
}
