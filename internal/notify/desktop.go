package notify

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/godbus/dbus/v5"
)

const (
	notificationsDest  = "org.freedesktop.Notifications"
	notificationsPath  = dbus.ObjectPath("/org/freedesktop/Notifications")
	notificationsIface = "org.freedesktop.Notifications"
)

// notifyObject is the subset of dbus.BusObject used here.
type notifyObject interface {
	CallWithContext(ctx context.Context, method string, flags dbus.Flags, args ...interface{}) *dbus.Call
}

// Request is a raw Notify call.
type Request struct {
	ReplacesID uint32
	Summary    string
	Body       string
	Urgency    Urgency
	Timeout    int32
	// Progress in percent (0..100); negative omits the hint.
	Progress int
}

// Desktop sends notifications through the session bus.
type Desktop struct {
	mu      sync.Mutex
	conn    *dbus.Conn
	obj     notifyObject
	appName string
	icon    string
}

// DialDesktop connects to the session bus.
func DialDesktop(appName, icon string) (*Desktop, error) {
	conn, err := dbus.ConnectSessionBus()
	if err != nil {
		return nil, fmt.Errorf("connect session bus: %w", err)
	}
	d := newDesktop(conn.Object(notificationsDest, notificationsPath), appName, icon)
	d.conn = conn
	return d, nil
}

func newDesktop(obj notifyObject, appName, icon string) *Desktop {
	if strings.TrimSpace(appName) == "" {
		appName = "maxuptime"
	}
	return &Desktop{obj: obj, appName: appName, icon: icon}
}

// Close releases the bus connection.
func (d *Desktop) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.conn == nil {
		return nil
	}
	err := d.conn.Close()
	d.conn = nil
	return err
}

// Notify shows or replaces a notification and returns its id.
func (d *Desktop) Notify(ctx context.Context, r Request) (uint32, error) {
	hints := map[string]dbus.Variant{
		"urgency": dbus.MakeVariant(byte(r.Urgency)),
	}
	if r.Progress >= 0 {
		p := r.Progress
		if p > 100 {
			p = 100
		}
		hints["value"] = dbus.MakeVariant(int32(p))
	}
	if r.Urgency == UrgencyCritical {
		hints["resident"] = dbus.MakeVariant(true)
	}

	call := d.obj.CallWithContext(ctx, notificationsIface+".Notify", 0,
		d.appName, r.ReplacesID, d.icon, r.Summary, r.Body, []string{}, hints, r.Timeout)
	if call.Err != nil {
		return 0, fmt.Errorf("notify %q: %w", r.Summary, call.Err)
	}
	var id uint32
	if err := call.Store(&id); err != nil {
		return 0, fmt.Errorf("notify %q: decode id: %w", r.Summary, err)
	}
	return id, nil
}

// Soft shows an informational notification with the server's default expiry.
func (d *Desktop) Soft(ctx context.Context, m Message) error {
	_, err := d.Notify(ctx, Request{Summary: m.Title, Body: m.Body, Urgency: UrgencyNormal, Timeout: ExpireDefault, Progress: -1})
	return err
}

// Urgent shows a critical notification that stays until dismissed.
func (d *Desktop) Urgent(ctx context.Context, m Message) error {
	_, err := d.Notify(ctx, Request{Summary: m.Title, Body: m.Body, Urgency: UrgencyCritical, Timeout: ExpireNever, Progress: -1})
	return err
}
