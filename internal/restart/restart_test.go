package restart

import (
	"context"
	"errors"
	"testing"

	"github.com/godbus/dbus/v5"
)

type fakeObject struct {
	method string
	args   []interface{}
	err    error
}

func (f *fakeObject) CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call {
	f.method = method
	f.args = args
	return &dbus.Call{Err: f.err}
}

func TestLogindRestart(t *testing.T) {
	obj := &fakeObject{}
	if err := (&Logind{obj: obj}).Restart(context.Background()); err != nil {
		t.Fatalf("Restart: %v", err)
	}
	if obj.method != "org.freedesktop.login1.Manager.Reboot" {
		t.Fatalf("method = %s", obj.method)
	}
	if len(obj.args) != 1 || obj.args[0] != false {
		t.Fatalf("args = %v, want [false]", obj.args)
	}
}

func TestLogindRestartError(t *testing.T) {
	denied := errors.New("access denied")
	err := (&Logind{obj: &fakeObject{err: denied}}).Restart(context.Background())
	if !errors.Is(err, denied) {
		t.Fatalf("Restart error = %v, want %v", err, denied)
	}
	if err := (*Logind)(nil).Restart(context.Background()); err == nil {
		t.Fatal("nil executor should fail")
	}
}

func TestFuncAdaptsExecutor(t *testing.T) {
	want := errors.New("no bus")
	var e Executor = Func(func(context.Context) error { return want })
	if err := e.Restart(context.Background()); !errors.Is(err, want) {
		t.Fatalf("Restart error = %v", err)
	}
}
