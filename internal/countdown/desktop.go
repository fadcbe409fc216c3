package countdown

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"maxuptime/internal/notify"
)

type desktopNotifier interface {
	Notify(ctx context.Context, r notify.Request) (uint32, error)
}

// DesktopDisplay keeps one persistent desktop notification up to date.
// Updates are rate limited so the notification daemon is not flooded.
type DesktopDisplay struct {
	mu      sync.Mutex
	n       desktopNotifier
	limiter *rate.Limiter
	id      uint32
	info    Info
}

// NewDesktopDisplay creates a display updating at most once per every.
func NewDesktopDisplay(n desktopNotifier, every time.Duration) *DesktopDisplay {
	if every <= 0 {
		every = 5 * time.Second
	}
	return &DesktopDisplay{n: n, limiter: rate.NewLimiter(rate.Every(every), 1)}
}

func (d *DesktopDisplay) Start(ctx context.Context, info Info) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.info = info
	return nil
}

func (d *DesktopDisplay) Update(ctx context.Context, t Tick) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.limiter.Allow() && d.id != 0 {
		return nil
	}
	return d.sendLocked(ctx, t.Percent, d.info.Message+"\n\nTime remaining: "+t.Remaining)
}

func (d *DesktopDisplay) Finish(ctx context.Context) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.sendLocked(ctx, 0, "Restarting now.")
}

func (d *DesktopDisplay) sendLocked(ctx context.Context, percent int, body string) error {
	id, err := d.n.Notify(ctx, notify.Request{
		ReplacesID: d.id,
		Summary:    d.info.Title,
		Body:       body,
		Urgency:    notify.UrgencyCritical,
		Timeout:    notify.ExpireNever,
		Progress:   percent,
	})
	if err != nil {
		return err
	}
	d.id = id
	return nil
}
