package notify

import (
	"context"

	logx "maxuptime/pkg/logx"
)

// LogNotifier writes notifications to the log only. It is used when no
// desktop session is reachable.
type LogNotifier struct {
	Log logx.Logger
}

func (n LogNotifier) Soft(ctx context.Context, m Message) error {
	_ = ctx
	n.Log.Info("notification", logx.String("title", m.Title), logx.String("body", m.Body))
	return nil
}

func (n LogNotifier) Urgent(ctx context.Context, m Message) error {
	_ = ctx
	n.Log.Warn("urgent notification", logx.String("title", m.Title), logx.String("body", m.Body))
	return nil
}
