package notify

import (
	"context"
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
)

type recordedCall struct {
	method string
	args   []interface{}
}

type fakeObject struct {
	calls []recordedCall
	err   error
	id    uint32
}

func (f *fakeObject) CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call {
	f.calls = append(f.calls, recordedCall{method: method, args: args})
	if f.err != nil {
		return &dbus.Call{Err: f.err}
	}
	return &dbus.Call{Body: []interface{}{f.id}}
}

func hintsOf(t *testing.T, c recordedCall) map[string]dbus.Variant {
	t.Helper()
	h, ok := c.args[6].(map[string]dbus.Variant)
	if !ok {
		t.Fatalf("hints arg has type %T", c.args[6])
	}
	return h
}

func TestUrgentIsCriticalAndPersistent(t *testing.T) {
	obj := &fakeObject{id: 9}
	d := newDesktop(obj, "", "")
	if err := d.Urgent(context.Background(), Message{Title: "Restart required", Body: "at 17:00"}); err != nil {
		t.Fatalf("Urgent: %v", err)
	}
	if len(obj.calls) != 1 {
		t.Fatalf("got %d calls, want 1", len(obj.calls))
	}
	c := obj.calls[0]
	if c.method != "org.freedesktop.Notifications.Notify" {
		t.Fatalf("method = %s", c.method)
	}
	if c.args[0] != "maxuptime" || c.args[3] != "Restart required" || c.args[4] != "at 17:00" {
		t.Fatalf("unexpected args: %v", c.args)
	}
	if c.args[7] != ExpireNever {
		t.Fatalf("timeout = %v, want never", c.args[7])
	}
	h := hintsOf(t, c)
	if h["urgency"].Value() != byte(UrgencyCritical) {
		t.Fatalf("urgency hint = %v", h["urgency"].Value())
	}
	if _, ok := h["value"]; ok {
		t.Fatal("urgent notification should not carry a progress hint")
	}
}

func TestSoftUsesDefaultExpiry(t *testing.T) {
	obj := &fakeObject{id: 1}
	d := newDesktop(obj, "fleet", "dialog-warning")
	if err := d.Soft(context.Background(), Message{Title: "t", Body: "b"}); err != nil {
		t.Fatal(err)
	}
	c := obj.calls[0]
	if c.args[0] != "fleet" || c.args[2] != "dialog-warning" || c.args[7] != ExpireDefault {
		t.Fatalf("unexpected args: %v", c.args)
	}
	if hintsOf(t, c)["urgency"].Value() != byte(UrgencyNormal) {
		t.Fatal("soft notification should use normal urgency")
	}
}

func TestNotifyProgressAndReplace(t *testing.T) {
	obj := &fakeObject{id: 33}
	d := newDesktop(obj, "", "")
	id, err := d.Notify(context.Background(), Request{ReplacesID: 33, Summary: "s", Progress: 150, Timeout: ExpireNever})
	if err != nil || id != 33 {
		t.Fatalf("Notify = %d, %v", id, err)
	}
	c := obj.calls[0]
	if c.args[1] != uint32(33) {
		t.Fatalf("replaces id = %v", c.args[1])
	}
	if hintsOf(t, c)["value"].Value() != int32(100) {
		t.Fatalf("progress not clamped: %v", hintsOf(t, c)["value"].Value())
	}
}

func TestNotifyError(t *testing.T) {
	boom := errors.New("no notification daemon")
	d := newDesktop(&fakeObject{err: boom}, "", "")
	if err := d.Soft(context.Background(), Message{Title: "x"}); !errors.Is(err, boom) {
		t.Fatalf("Soft error = %v, want wrapped %v", err, boom)
	}
}
