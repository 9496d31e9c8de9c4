package alert

import (
	"context"
	"log/slog"

	"github.com/khanghh/kaudit/model"
)

// LogChannel writes alerts to the process log. It never fails.
type LogChannel struct{}

func (LogChannel) Name() string {
	return "log"
}

func (LogChannel) Send(ctx context.Context, a *Alert) error {
	level := slog.LevelWarn
	if a.Severity >= model.SeverityCritical {
		level = slog.LevelError
	}
	slog.Log(ctx, level, "Critical event detected",
		"critical_event_id", a.CriticalEventID,
		"source_event_id", a.SourceEventID,
		"rule", a.Rule,
		"threat_type", a.ThreatType,
		"severity", a.Severity.String(),
		"subject", a.Subject,
		"summary", a.Summary,
	)
	return nil
}
