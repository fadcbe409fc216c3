package countdown

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"maxuptime/internal/notify"
)

type fakeClock struct {
	now   time.Time
	slept time.Duration
}

func (c *fakeClock) Now() time.Time { return c.now }
func (c *fakeClock) Sleep(d time.Duration) {
	c.now = c.now.Add(d)
	c.slept += d
}

type recordingDisplay struct {
	started  []Info
	ticks    []Tick
	finished int
	err      error
}

func (d *recordingDisplay) Start(ctx context.Context, info Info) error {
	d.started = append(d.started, info)
	return d.err
}

func (d *recordingDisplay) Update(ctx context.Context, t Tick) error {
	d.ticks = append(d.ticks, t)
	return d.err
}

func (d *recordingDisplay) Finish(ctx context.Context) error {
	d.finished++
	return d.err
}

func TestRunTicksOncePerSecond(t *testing.T) {
	clock := &fakeClock{now: time.Unix(1_700_000_000, 0)}
	disp := &recordingDisplay{}
	r := &Runner{Clock: clock, Displays: []Display{disp}}

	r.Run(context.Background(), 5, "Restart", "Your computer will restart.")

	if clock.slept != 5*time.Second {
		t.Fatalf("slept %v, want 5s", clock.slept)
	}
	if len(disp.started) != 1 || disp.started[0].Duration != 5 || disp.started[0].Title != "Restart" {
		t.Fatalf("unexpected start: %+v", disp.started)
	}
	wantPct := []int{100, 80, 60, 40, 20}
	if len(disp.ticks) != len(wantPct) {
		t.Fatalf("got %d ticks, want %d", len(disp.ticks), len(wantPct))
	}
	for i, tk := range disp.ticks {
		if tk.Percent != wantPct[i] || tk.SecondsLeft != int64(5-i) {
			t.Fatalf("tick %d = %+v, want %d%% with %d left", i, tk, wantPct[i], 5-i)
		}
	}
	if disp.finished != 1 {
		t.Fatalf("finished %d times, want 1", disp.finished)
	}
}

func TestRunIgnoresCancellationAndDisplayErrors(t *testing.T) {
	clock := &fakeClock{now: time.Unix(0, 0)}
	disp := &recordingDisplay{err: errors.New("display gone")}
	r := &Runner{Clock: clock, Displays: []Display{disp}}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	r.Run(ctx, 300, "Restart", "")

	if clock.slept != 300*time.Second {
		t.Fatalf("countdown shortened to %v", clock.slept)
	}
	if len(disp.ticks) != 300 || disp.finished != 1 {
		t.Fatalf("ticks=%d finished=%d", len(disp.ticks), disp.finished)
	}
	last := disp.ticks[len(disp.ticks)-1]
	if last.SecondsLeft != 1 || last.Percent != 0 {
		t.Fatalf("last tick = %+v, want 1s left at 0%%", last)
	}
}

func TestNewTick(t *testing.T) {
	tests := []struct {
		left, dur int64
		pct       int
		remaining string
	}{
		{7200, 7200, 100, "2 hours 0 minutes 0 seconds"},
		{7199, 7200, 99, "1 hour 59 minutes 59 seconds"},
		{150, 300, 50, "2 minutes 30 seconds"},
		{2, 300, 0, "2 seconds"},
		{-1, 300, 0, "0 seconds"},
	}
	for _, tt := range tests {
		got := NewTick(tt.left, tt.dur)
		if got.Percent != tt.pct || got.Remaining != tt.remaining {
			t.Fatalf("NewTick(%d, %d) = %+v, want %d%% %q", tt.left, tt.dur, got, tt.pct, tt.remaining)
		}
	}
}

type fakeNotifier struct {
	reqs []notify.Request
}

func (f *fakeNotifier) Notify(ctx context.Context, r notify.Request) (uint32, error) {
	f.reqs = append(f.reqs, r)
	return 12, nil
}

func TestDesktopDisplayReplacesAndThrottles(t *testing.T) {
	n := &fakeNotifier{}
	d := NewDesktopDisplay(n, time.Hour)
	ctx := context.Background()

	_ = d.Start(ctx, Info{Title: "Restart", Message: "Save your work", Duration: 300})
	_ = d.Update(ctx, NewTick(300, 300))
	_ = d.Update(ctx, NewTick(299, 300))
	_ = d.Update(ctx, NewTick(298, 300))
	_ = d.Finish(ctx)

	if len(n.reqs) != 2 {
		t.Fatalf("got %d notifications, want first update plus finish", len(n.reqs))
	}
	first, last := n.reqs[0], n.reqs[1]
	if first.ReplacesID != 0 || first.Progress != 100 || first.Urgency != notify.UrgencyCritical {
		t.Fatalf("unexpected first request: %+v", first)
	}
	if first.Body != "Save your work\n\nTime remaining: 5 minutes 0 seconds" {
		t.Fatalf("body = %q", first.Body)
	}
	if last.ReplacesID != 12 || last.Progress != 0 {
		t.Fatalf("finish should replace the same notification: %+v", last)
	}
}

func TestTerminalModelIgnoresKeys(t *testing.T) {
	m := terminalModel{info: Info{Title: "Restart", Duration: 300}, tick: NewTick(300, 300)}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyCtrlC}); cmd != nil {
		t.Fatal("ctrl+c must not end the countdown")
	}
	if _, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("q")}); cmd != nil {
		t.Fatal("q must not end the countdown")
	}
	next, cmd := m.Update(NewTick(150, 300))
	if cmd != nil {
		t.Fatal("tick should not produce a command")
	}
	tm := next.(terminalModel)
	if tm.tick.Percent != 50 {
		t.Fatalf("percent = %d, want 50", tm.tick.Percent)
	}
	_, cmd = tm.Update(finishMsg{})
	if cmd == nil {
		t.Fatal("finish should quit the program")
	}
}
