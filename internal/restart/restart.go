// Package restart performs the terminal reboot action.
package restart

import (
	"context"
	"fmt"

	"github.com/godbus/dbus/v5"
)

const (
	login1Dest   = "org.freedesktop.login1"
	login1Path   = dbus.ObjectPath("/org/freedesktop/login1")
	login1Reboot = "org.freedesktop.login1.Manager.Reboot"
)

// Executor performs an irreversible machine restart. A nil error means the
// request was accepted and the caller should expect to be terminated.
type Executor interface {
	Restart(ctx context.Context) error
}

type callObject interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// Logind reboots through systemd-logind.
type Logind struct {
	obj callObject
}

// DialLogind connects to the system bus. The connection is shared and stays
// open for the life of the process.
func DialLogind() (*Logind, error) {
	conn, err := dbus.SystemBus()
	if err != nil {
		return nil, fmt.Errorf("connect system bus: %w", err)
	}
	return &Logind{obj: conn.Object(login1Dest, login1Path)}, nil
}

// Restart asks logind to reboot without interactive authorization.
func (l *Logind) Restart(ctx context.Context) error {
	if l == nil || l.obj == nil {
		return fmt.Errorf("logind reboot: not connected")
	}
	if call := l.obj.CallWithContext(ctx, login1Reboot, 0, false); call.Err != nil {
		return fmt.Errorf("logind reboot: %w", call.Err)
	}
	return nil
}

// Func adapts a function to Executor.
type Func func(ctx context.Context) error

func (f Func) Restart(ctx context.Context) error { return f(ctx) }
