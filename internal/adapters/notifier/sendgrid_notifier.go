package notifier

import (
	"context"

	"github.com/sendgrid/sendgrid-go"
	"github.com/sendgrid/sendgrid-go/helpers/mail"

	"github.com/jeffgoval/arena-sub003/internal/core/ports"
	"github.com/jeffgoval/arena-sub003/internal/middleware"
)

// SendgridNotifier delivers settlement notifications by email. Notify is
// fire-and-forget: delivery failures are logged, never propagated.
type SendgridNotifier struct {
	client    *sendgrid.Client
	fromEmail string
	fromName  string
}

func NewSendgridNotifier(apiKey, fromEmail, fromName string) *SendgridNotifier {
	return &SendgridNotifier{
		client:    sendgrid.NewSendClient(apiKey),
		fromEmail: fromEmail,
		fromName:  fromName,
	}
}

var _ ports.Notifier = (*SendgridNotifier)(nil)

func (n *SendgridNotifier) Notify(ctx context.Context, recipientRef string, subject string, body string) {
	logger := middleware.GetLoggerFromCtx(ctx)

	from := mail.NewEmail(n.fromName, n.fromEmail)
	to := mail.NewEmail("", recipientRef)
	message := mail.NewSingleEmail(from, subject, to, body, body)

	resp, err := n.client.SendWithContext(ctx, message)
	if err != nil {
		logger.Warn("notification delivery failed", "recipient", recipientRef, "error", err)
		return
	}
	if resp.StatusCode >= 400 {
		logger.Warn("notification rejected", "recipient", recipientRef, "statusCode", resp.StatusCode)
		return
	}
	logger.Debug("notification sent", "recipient", recipientRef, "subject", subject)
}
