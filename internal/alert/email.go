package alert

import (
	"context"
	"time"

	"github.com/khanghh/kaudit/internal/mail"
)

type EmailChannel struct {
	sender     mail.MailSender
	recipients []string
}

func (c *EmailChannel) Name() string {
	return "email"
}

// Send gives up waiting when ctx ends. The SMTP exchange itself cannot be
// interrupted and finishes in the background.
func (c *EmailChannel) Send(ctx context.Context, a *Alert) error {
	if len(c.recipients) == 0 {
		return ErrNoRecipients
	}
	content := mail.AlertContent{
		CriticalEventID: a.ID(),
		SourceEventID:   a.SourceEventID,
		Rule:            a.Rule,
		ThreatType:      a.ThreatType,
		Severity:        a.Severity.String(),
		Subject:         a.Subject,
		Summary:         a.Summary,
		Findings:        a.Findings,
		DetectedAt:      a.DetectedAt.UTC().Format(time.RFC3339),
	}
	errCh := make(chan error, 1)
	go func() {
		errCh <- mail.SendCriticalAlert(c.sender, c.recipients, content)
	}()
	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		return ctx.Err()
	}
}

func NewEmailChannel(sender mail.MailSender, recipients []string) *EmailChannel {
	return &EmailChannel{sender: sender, recipients: recipients}
}
