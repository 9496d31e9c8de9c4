package alert

import (
	"context"
	"strconv"
	"time"

	"github.com/khanghh/kaudit/model"
)

// Alert is the notification sent for one critical event.
type Alert struct {
	CriticalEventID uint64         `json:"criticalEventId,string"`
	SourceEventID   string         `json:"sourceEventId"`
	Rule            string         `json:"rule"`
	ThreatType      string         `json:"threatType"`
	Severity        model.Severity `json:"severity"`
	Subject         string         `json:"subject,omitempty"`
	Summary         string         `json:"summary"`
	Findings        []string       `json:"findings,omitempty"`
	DetectedAt      time.Time      `json:"detectedAt"`
}

func FromCriticalEvent(ce *model.CriticalEvent) *Alert {
	return &Alert{
		CriticalEventID: ce.ID,
		SourceEventID:   ce.SourceEventID,
		Rule:            ce.Rule,
		ThreatType:      ce.ThreatType,
		Severity:        ce.ThreatLevel,
		Subject:         ce.Subject,
		Summary:         ce.Summary,
		Findings:        ce.Findings,
		DetectedAt:      ce.DetectedAt,
	}
}

func (a *Alert) ID() string {
	return strconv.FormatUint(a.CriticalEventID, 10)
}

// Channel delivers alerts to one destination. Send must honor ctx.
type Channel interface {
	Name() string
	Send(ctx context.Context, a *Alert) error
}
