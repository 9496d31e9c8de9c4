package model

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// RetentionPolicy maps an event classification to archive and delete ages.
// Empty EventType or Category match any value.
type RetentionPolicy struct {
	ID                uint64    `gorm:"primaryKey;autoIncrement:false" json:"id,string"`
	Name              string    `gorm:"size:128;not null;uniqueIndex" json:"name"`
	EventType         EventType `gorm:"size:32" json:"eventType,omitempty"`
	Category          string    `gorm:"size:64" json:"category,omitempty"`
	RetentionDays     int       `gorm:"not null" json:"retentionDays"`
	ArchiveAfterDays  int       `gorm:"not null" json:"archiveAfterDays"`
	DeleteAfterDays   int       `gorm:"not null" json:"deleteAfterDays"`
	LegalHoldOverride bool      `gorm:"not null;default:false" json:"legalHoldOverride"`
	Priority          int       `gorm:"not null;default:0;index" json:"priority"`
	Active            bool      `gorm:"not null;default:true" json:"active"`
	CreatedAt         time.Time `json:"createdAt"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

func (p *RetentionPolicy) Validate() error {
	if p.Name == "" {
		return errors.New("policy name is required")
	}
	if p.EventType != "" && !p.EventType.Valid() {
		return errors.New("unknown event type")
	}
	if p.ArchiveAfterDays <= 0 {
		return errors.New("archive_after_days must be positive")
	}
	if p.DeleteAfterDays != 0 && p.DeleteAfterDays < p.ArchiveAfterDays {
		return errors.New("delete_after_days must not be before archive_after_days")
	}
	return nil
}

func (p *RetentionPolicy) Matches(ev *AuditEvent) bool {
	if p.EventType != "" && p.EventType != ev.EventType {
		return false
	}
	if p.Category != "" && p.Category != ev.Category {
		return false
	}
	return true
}

func (p *RetentionPolicy) ArchiveCutoff(now time.Time) time.Time {
	return now.AddDate(0, 0, -p.ArchiveAfterDays)
}

// DeleteCutoff returns the zero time when the policy never purges.
func (p *RetentionPolicy) DeleteCutoff(now time.Time) time.Time {
	if p.DeleteAfterDays == 0 {
		return time.Time{}
	}
	return now.AddDate(0, 0, -p.DeleteAfterDays)
}

func (p *RetentionPolicy) BeforeCreate(tx *gorm.DB) error {
	if p.ID == 0 {
		p.ID = GenerateID()
	}
	return nil
}
