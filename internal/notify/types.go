package notify

import "context"

// Message is a single user-facing notification.
type Message struct {
	Title string
	Body  string
}

// Notifier emits the non-blocking warnings used outside of countdowns.
//
// Soft notifications may expire per the desktop's own policy; urgent ones
// persist until dismissed.
type Notifier interface {
	Soft(ctx context.Context, m Message) error
	Urgent(ctx context.Context, m Message) error
}

// Urgency hint values used by freedesktop notification servers.
type Urgency byte

const (
	UrgencyLow      Urgency = 0
	UrgencyNormal   Urgency = 1
	UrgencyCritical Urgency = 2
)

// Expiry values for Request.Timeout (milliseconds otherwise).
const (
	ExpireDefault int32 = -1
	ExpireNever   int32 = 0
)
