package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type CriticalStatus string

const (
	CriticalStatusDetected      CriticalStatus = "detected"
	CriticalStatusAlerted       CriticalStatus = "alerted"
	CriticalStatusAcknowledged  CriticalStatus = "acknowledged"
	CriticalStatusResolved      CriticalStatus = "resolved"
	CriticalStatusFalsePositive CriticalStatus = "false_positive"
)

func (s CriticalStatus) Terminal() bool {
	return s == CriticalStatusResolved || s == CriticalStatusFalsePositive
}

// CriticalEvent links a severe AuditEvent to its investigation state.
type CriticalEvent struct {
	ID              uint64                      `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	SourceEventID   string                      `gorm:"size:36;not null;index" json:"sourceEventId"`
	Rule            string                      `gorm:"size:64;not null;index" json:"rule"`
	ThreatType      string                      `gorm:"size:64;not null" json:"threatType"`
	ThreatLevel     Severity                    `gorm:"not null" json:"threatLevel"`
	Status          CriticalStatus              `gorm:"size:32;not null;index" json:"status"`
	Subject         string                      `gorm:"size:128" json:"subject,omitempty"`
	Summary         string                      `gorm:"size:1024;not null" json:"summary"`
	Findings        datatypes.JSONSlice[string] `json:"findings,omitempty"`
	DedupKey        string                      `gorm:"size:191;not null;uniqueIndex" json:"-"`
	DetectedAt      time.Time                   `gorm:"not null;index" json:"detectedAt"`
	AlertedAt       *time.Time                  `json:"alertedAt,omitempty"`
	AlertFailures   datatypes.JSONSlice[string] `json:"alertFailures,omitempty"`
	AcknowledgedBy  string                      `gorm:"size:128" json:"acknowledgedBy,omitempty"`
	AcknowledgedAt  *time.Time                  `json:"acknowledgedAt,omitempty"`
	ResolvedBy      string                      `gorm:"size:128" json:"resolvedBy,omitempty"`
	ResolvedAt      *time.Time                  `json:"resolvedAt,omitempty"`
	ResolutionNotes string                      `gorm:"type:text" json:"resolutionNotes,omitempty"`
	CreatedAt       time.Time                   `json:"createdAt"`
	UpdatedAt       time.Time                   `json:"updatedAt"`
}

func (c *CriticalEvent) BeforeCreate(tx *gorm.DB) error {
	if c.ID == 0 {
		c.ID = GenerateID()
	}
	return nil
}
