package model

import (
	"encoding/json"
	"time"

	"gorm.io/datatypes"
)

// AuditEvent is the canonical, chained audit record. Everything except
// LegalHold, ArchivedAt and CreatedAt is covered by EventHash.
type AuditEvent struct {
	ID        string    `gorm:"primaryKey;size:36" json:"id"`
	Chain     string    `gorm:"size:64;not null;uniqueIndex:,composite:chain_seq" json:"chain"`
	Seq       uint64    `gorm:"not null;uniqueIndex:,composite:chain_seq" json:"seq"`
	Timestamp time.Time `gorm:"not null;index" json:"timestamp"`

	EventType EventType `gorm:"size:32;not null;index" json:"eventType"`
	Category  string    `gorm:"size:64;not null;index" json:"category"`
	Severity  Severity  `gorm:"not null;index" json:"severity"`

	ActorType  ActorType                   `gorm:"size:16;not null" json:"actorType"`
	ActorID    string                      `gorm:"size:128;index" json:"actorId,omitempty"`
	ActorRoles datatypes.JSONSlice[string] `json:"actorRoles,omitempty"`
	OnBehalfOf string                      `gorm:"size:128" json:"onBehalfOf,omitempty"`

	TargetType string `gorm:"size:64" json:"targetType,omitempty"`
	TargetID   string `gorm:"size:128;index" json:"targetId,omitempty"`
	TargetName string `gorm:"size:256" json:"targetName,omitempty"`

	Action       string `gorm:"size:128;not null" json:"action"`
	Result       Result `gorm:"size:16;not null;index" json:"result"`
	ErrorCode    string `gorm:"size:64" json:"errorCode,omitempty"`
	ErrorMessage string `gorm:"size:1024" json:"errorMessage,omitempty"`

	// Snapshots are stored as text, a JSON column would rewrite the hashed bytes.
	Before        json.RawMessage             `gorm:"type:longtext" json:"before,omitempty"`
	After         json.RawMessage             `gorm:"type:longtext" json:"after,omitempty"`
	ChangedFields datatypes.JSONSlice[string] `json:"changedFields,omitempty"`
	Sensitivity   Sensitivity                 `gorm:"size:16;not null" json:"sensitivity"`

	RequestID     string `gorm:"size:64" json:"requestId,omitempty"`
	SessionID     string `gorm:"size:128" json:"sessionId,omitempty"`
	CorrelationID string `gorm:"size:64;index" json:"correlationId,omitempty"`
	ParentEventID string `gorm:"size:36" json:"parentEventId,omitempty"`

	IP          string `gorm:"size:45;index" json:"ip,omitempty"`
	GeoLocation string `gorm:"size:64" json:"geoLocation,omitempty"`
	UserAgent   string `gorm:"size:512" json:"userAgent,omitempty"`
	DeviceID    string `gorm:"size:128" json:"deviceId,omitempty"`

	EventHash    string `gorm:"size:64;not null;index" json:"eventHash"`
	PreviousHash string `gorm:"size:64;not null" json:"previousHash"`
	Signature    string `gorm:"size:64" json:"signature,omitempty"`

	RiskScore      uint8                       `gorm:"not null;default:0" json:"riskScore"`
	ComplianceTags datatypes.JSONSlice[string] `json:"complianceTags,omitempty"`
	RetentionDays  int                         `gorm:"not null" json:"retentionDays"`
	LegalHold      bool                        `gorm:"not null;default:false;index" json:"legalHold"`

	ArchivedAt *time.Time `gorm:"index" json:"archivedAt,omitempty"`
	CreatedAt  time.Time  `gorm:"autoCreateTime" json:"createdAt"`
}

// IsUrgent reports whether the event must bypass the flush interval.
func (e *AuditEvent) IsUrgent() bool {
	return e.Severity >= SeverityCritical || e.EventType == EventTypeSecurity
}

func (e *AuditEvent) HasTag(tag string) bool {
	for _, t := range e.ComplianceTags {
		if t == tag {
			return true
		}
	}
	return false
}

func (e *AuditEvent) HasRole(roles ...string) bool {
	for _, r := range e.ActorRoles {
		for _, want := range roles {
			if r == want {
				return true
			}
		}
	}
	return false
}

// AuditEventArchive is the cold copy of an AuditEvent, same identity and columns.
type AuditEventArchive struct {
	AuditEvent `gorm:"embedded"`
}

func NewAuditEventArchive(ev *AuditEvent) *AuditEventArchive {
	return &AuditEventArchive{AuditEvent: *ev}
}
