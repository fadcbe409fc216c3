// Package notify delivers user-facing warnings.
//
// The desktop implementation talks to org.freedesktop.Notifications on the
// session bus. Delivery is fire-and-forget: callers log failures and carry on,
// since a missed warning never changes what the controller does next.
package notify
