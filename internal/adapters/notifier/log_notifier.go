package notifier

import (
	"context"

	"github.com/jeffgoval/arena-sub003/internal/core/ports"
	"github.com/jeffgoval/arena-sub003/internal/middleware"
)

// LogNotifier writes notifications to the log. Used when no Sendgrid API
// key is configured.
type LogNotifier struct{}

func NewLogNotifier() *LogNotifier {
	return &LogNotifier{}
}

var _ ports.Notifier = (*LogNotifier)(nil)

func (n *LogNotifier) Notify(ctx context.Context, recipientRef string, subject string, body string) {
	middleware.GetLoggerFromCtx(ctx).Info("notification (log only)",
		"recipient", recipientRef,
		"subject", subject,
		"body", body,
	)
}
