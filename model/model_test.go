package model

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/schema"
)

func TestSeverityOrderingAndText(t *testing.T) {
	assert.True(t, SeverityDebug < SeverityInfo)
	assert.True(t, SeverityCritical < SeverityEmergency)

	data, err := json.Marshal(struct {
		Level Severity `json:"level"`
	}{SeverityCritical})
	require.NoError(t, err)
	assert.JSONEq(t, `{"level":"critical"}`, string(data))

	var decoded struct {
		Level Severity `json:"level"`
	}
	require.NoError(t, json.Unmarshal([]byte(`{"level":"Emergency"}`), &decoded))
	assert.Equal(t, SeverityEmergency, decoded.Level)

	_, err = ParseSeverity("fatal")
	assert.Error(t, err)
}

func TestAuditEventIsUrgent(t *testing.T) {
	assert.False(t, (&AuditEvent{Severity: SeverityError, EventType: EventTypeSystem}).IsUrgent())
	assert.True(t, (&AuditEvent{Severity: SeverityCritical, EventType: EventTypeSystem}).IsUrgent())
	assert.True(t, (&AuditEvent{Severity: SeverityInfo, EventType: EventTypeSecurity}).IsUrgent())
}

func TestRetentionPolicyMatchAndCutoffs(t *testing.T) {
	policy := &RetentionPolicy{Name: "auth", EventType: EventTypeAuthentication, ArchiveAfterDays: 30, DeleteAfterDays: 90}
	require.NoError(t, policy.Validate())

	assert.True(t, policy.Matches(&AuditEvent{EventType: EventTypeAuthentication, Category: "login"}))
	assert.False(t, policy.Matches(&AuditEvent{EventType: EventTypeAuthorization}))

	now := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	assert.Equal(t, time.Date(2024, 5, 2, 0, 0, 0, 0, time.UTC), policy.ArchiveCutoff(now))
	assert.Equal(t, time.Date(2024, 3, 3, 0, 0, 0, 0, time.UTC), policy.DeleteCutoff(now))

	keep := &RetentionPolicy{Name: "keep", ArchiveAfterDays: 30}
	assert.True(t, keep.DeleteCutoff(now).IsZero())

	bad := &RetentionPolicy{Name: "bad", ArchiveAfterDays: 90, DeleteAfterDays: 30}
	assert.Error(t, bad.Validate())
}

func TestAuditEventSchema(t *testing.T) {
	s, err := schema.Parse(&AuditEvent{}, &sync.Map{}, schema.NamingStrategy{SingularTable: true})
	require.NoError(t, err)

	for _, name := range []string{"Before", "After"} {
		field := s.LookUpField(name)
		require.NotNil(t, field, name)
		assert.EqualValues(t, "longtext", field.DataType, name)
	}

	idx := s.LookIndex("idx_audit_event_chain_seq")
	require.NotNil(t, idx)
	assert.Equal(t, "UNIQUE", idx.Class)
	var columns []string
	for _, f := range idx.Fields {
		columns = append(columns, f.DBName)
	}
	assert.ElementsMatch(t, []string{"chain", "seq"}, columns)
}
