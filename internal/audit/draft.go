package audit

import (
	"context"
	"encoding/json"
	"time"

	"github.com/khanghh/kaudit/model"
)

// Draft is a partially filled event as submitted by a producer.
type Draft struct {
	ID        string          `json:"id,omitempty"`
	Timestamp *time.Time      `json:"timestamp,omitempty"`
	EventType model.EventType `json:"eventType"`
	Category  string          `json:"category,omitempty"`
	Severity  string          `json:"severity,omitempty"`

	ActorType  model.ActorType `json:"actorType"`
	ActorID    string          `json:"actorId,omitempty"`
	ActorRoles []string        `json:"actorRoles,omitempty"`
	OnBehalfOf string          `json:"onBehalfOf,omitempty"`

	TargetType string `json:"targetType,omitempty"`
	TargetID   string `json:"targetId,omitempty"`
	TargetName string `json:"targetName,omitempty"`

	Action       string       `json:"action"`
	Result       model.Result `json:"result,omitempty"`
	ErrorCode    string       `json:"errorCode,omitempty"`
	ErrorMessage string       `json:"errorMessage,omitempty"`

	Before        json.RawMessage   `json:"before,omitempty"`
	After         json.RawMessage   `json:"after,omitempty"`
	ChangedFields []string          `json:"changedFields,omitempty"`
	Sensitivity   model.Sensitivity `json:"sensitivity,omitempty"`

	RequestID     string `json:"requestId,omitempty"`
	SessionID     string `json:"sessionId,omitempty"`
	CorrelationID string `json:"correlationId,omitempty"`
	ParentEventID string `json:"parentEventId,omitempty"`

	IP          string `json:"ip,omitempty"`
	GeoLocation string `json:"geoLocation,omitempty"`
	UserAgent   string `json:"userAgent,omitempty"`
	DeviceID    string `json:"deviceId,omitempty"`

	ComplianceTags []string `json:"complianceTags,omitempty"`
	RetentionDays  int      `json:"retentionDays,omitempty"`
	LegalHold      bool     `json:"legalHold,omitempty"`
}

// RequestContext carries ambient request attributes merged into drafts that
// left them empty.
type RequestContext struct {
	RequestID     string
	SessionID     string
	CorrelationID string
	IP            string
	UserAgent     string
	DeviceID      string
	GeoLocation   string
}

type requestContextKey struct{}

func WithRequestContext(ctx context.Context, rc RequestContext) context.Context {
	return context.WithValue(ctx, requestContextKey{}, rc)
}

func RequestContextFrom(ctx context.Context) RequestContext {
	rc, _ := ctx.Value(requestContextKey{}).(RequestContext)
	return rc
}
