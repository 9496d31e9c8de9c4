package mail

import (
	"fmt"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/khanghh/kaudit/internal/render"
)

// AlertContent is what an alert email shows about a critical event.
type AlertContent struct {
	CriticalEventID string
	SourceEventID   string
	Rule            string
	ThreatType      string
	Severity        string
	Subject         string
	Summary         string
	Findings        []string
	DetectedAt      string
}

func SendCriticalAlert(sender MailSender, to []string, content AlertContent) error {
	if len(to) == 0 {
		return fmt.Errorf("no alert recipients")
	}
	body, err := render.RenderHTML("mail/critical-alert", fiber.Map{
		"criticalEventId": content.CriticalEventID,
		"sourceEventId":   content.SourceEventID,
		"rule":            content.Rule,
		"threatType":      content.ThreatType,
		"severity":        content.Severity,
		"subject":         content.Subject,
		"summary":         content.Summary,
		"findings":        content.Findings,
		"detectedAt":      content.DetectedAt,
	})
	if err != nil {
		return err
	}
	return sender.Send(&Message{
		To:      to,
		Subject: fmt.Sprintf("[%s] %s", strings.ToUpper(content.Severity), content.Summary),
		Body:    body,
		IsHTML:  true,
		Headers: alertHeaders(content),
	})
}

const (
	headerPriority        = "X-Priority"
	headerCriticalEventID = "X-Critical-Event-ID"
)

func alertHeaders(content AlertContent) map[string]string {
	headers := map[string]string{headerCriticalEventID: content.CriticalEventID}
	if strings.EqualFold(content.Severity, "critical") {
		headers[headerPriority] = "1"
	}
	return headers
}
