package model

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type ComplianceStatus string

const (
	ComplianceStatusCompliant    ComplianceStatus = "compliant"
	ComplianceStatusNeedsReview  ComplianceStatus = "needs_review"
	ComplianceStatusNonCompliant ComplianceStatus = "non_compliant"
)

type ReportSummary struct {
	TotalEvents         int64            `json:"totalEvents"`
	ByResult            map[string]int64 `json:"byResult"`
	ByType              map[string]int64 `json:"byType"`
	BySeverity          map[string]int64 `json:"bySeverity"`
	FailureRate         float64          `json:"failureRate"`
	CriticalEvents      int64            `json:"criticalEvents"`
	UnresolvedCritical  int64            `json:"unresolvedCritical"`
	IntegrityViolations int              `json:"integrityViolations"`
	LegalHolds          int64            `json:"legalHolds"`
}

type ComplianceReport struct {
	ID              uint64                           `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	Framework       string                           `gorm:"size:32;not null;index" json:"framework"`
	PeriodStart     time.Time                        `gorm:"not null" json:"periodStart"`
	PeriodEnd       time.Time                        `gorm:"not null" json:"periodEnd"`
	Status          ComplianceStatus                 `gorm:"size:32;not null" json:"status"`
	TotalEvents     int64                            `gorm:"not null" json:"totalEvents"`
	Summary         datatypes.JSONType[ReportSummary] `json:"summary"`
	EventIDs        datatypes.JSONSlice[string]      `json:"eventIds,omitempty"`
	Truncated       bool                             `gorm:"not null;default:false" json:"truncated"`
	Findings        datatypes.JSONSlice[string]      `json:"findings,omitempty"`
	Recommendations datatypes.JSONSlice[string]      `json:"recommendations,omitempty"`
	GeneratedBy     string                           `gorm:"size:128;not null" json:"generatedBy"`
	CreatedAt       time.Time                        `json:"createdAt"`
}

func (r *ComplianceReport) BeforeCreate(tx *gorm.DB) error {
	if r.ID == 0 {
		r.ID = GenerateID()
	}
	return nil
}
