package audit

import (
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/khanghh/kaudit/model"
	"github.com/khanghh/kaudit/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var fixedNow = time.Date(2024, 5, 6, 7, 8, 9, 123456789, time.FixedZone("ICT", 7*3600))

func fixedID() string { return "6f1c2a4e-9d7b-4c1e-8f3a-2b5d6e7f8a9b" }

func TestNormalizeRejectsMissingClassification(t *testing.T) {
	cases := map[string]struct {
		draft Draft
		field string
	}{
		"event type":    {Draft{Action: "login", ActorType: model.ActorTypeUser}, "eventType"},
		"unknown type":  {Draft{EventType: "audit", Action: "login", ActorType: model.ActorTypeUser}, "eventType"},
		"action":        {Draft{EventType: model.EventTypeAuthentication, Action: "  ", ActorType: model.ActorTypeUser}, "action"},
		"actor type":    {Draft{EventType: model.EventTypeAuthentication, Action: "login"}, "actorType"},
		"severity":      {Draft{EventType: model.EventTypeSystem, Action: "boot", ActorType: model.ActorTypeSystem, Severity: "fatal"}, "severity"},
		"result":        {Draft{EventType: model.EventTypeSystem, Action: "boot", ActorType: model.ActorTypeSystem, Result: "ok"}, "result"},
		"before json":   {Draft{EventType: model.EventTypeSystem, Action: "boot", ActorType: model.ActorTypeSystem, Before: json.RawMessage(`{`)}, "before"},
		"malformed id":  {Draft{ID: "42", EventType: model.EventTypeSystem, Action: "boot", ActorType: model.ActorTypeSystem}, "id"},
		"negative days": {Draft{EventType: model.EventTypeSystem, Action: "boot", ActorType: model.ActorTypeSystem, RetentionDays: -1}, "retentionDays"},
	}
	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Normalize(&tc.draft, RequestContext{}, fixedNow, fixedID)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidEvent))
			var ie *InvalidEventError
			require.ErrorAs(t, err, &ie)
			assert.Equal(t, tc.field, ie.Field)
		})
	}
}

func TestNormalizeFillsDefaultsAndAmbientContext(t *testing.T) {
	draft := &Draft{
		EventType: model.EventTypeDataAccess,
		Action:    "export",
		ActorType: model.ActorTypeUser,
		ActorID:   "alice",
		IP:        "203.0.113.9",
	}
	ambient := RequestContext{
		RequestID: "req-1",
		SessionID: "sess-1",
		IP:        "198.51.100.1",
		UserAgent: "curl/8.0",
	}
	ev, err := Normalize(draft, ambient, fixedNow, fixedID)
	require.NoError(t, err)

	assert.Equal(t, fixedID(), ev.ID)
	assert.Equal(t, time.Date(2024, 5, 6, 0, 8, 9, 123000000, time.UTC), ev.Timestamp)
	assert.Equal(t, "data_access", ev.Category)
	assert.Equal(t, model.SeverityInfo, ev.Severity)
	assert.Equal(t, model.ResultSuccess, ev.Result)
	assert.Equal(t, model.SensitivityInternal, ev.Sensitivity)
	assert.Equal(t, "req-1", ev.RequestID)
	assert.Equal(t, "sess-1", ev.SessionID)
	assert.Equal(t, "203.0.113.9", ev.IP, "producer supplied value wins")
	assert.Equal(t, "curl/8.0", ev.UserAgent)
	assert.Equal(t, params.DefaultRetentionDays, ev.RetentionDays)
	assert.Empty(t, ev.EventHash, "hashing belongs to the chain")
}

func TestNormalizeIsPure(t *testing.T) {
	draft := &Draft{
		EventType:      model.EventTypeDataModification,
		Action:         "update",
		ActorType:      model.ActorTypeService,
		ActorID:        "billing",
		After:          json.RawMessage(`{"plan":"pro"}`),
		ComplianceTags: []string{"SOC2", "pci", "soc2", " "},
	}
	a, err := Normalize(draft, RequestContext{}, fixedNow, fixedID)
	require.NoError(t, err)
	b, err := Normalize(draft, RequestContext{}, fixedNow, fixedID)
	require.NoError(t, err)
	assert.Equal(t, a, b)
	assert.Equal(t, []string{"soc2", "pci"}, []string(a.ComplianceTags))
	assert.Equal(t, 2555, a.RetentionDays)
}

func TestNormalizeKeepsProducerTimestampAndLongerRetention(t *testing.T) {
	ts := time.Date(2023, 12, 31, 23, 59, 59, 999999999, time.UTC)
	draft := &Draft{
		ID:             "0b8f8f36-3c48-4bd2-9f1e-5ac2b3f6f6a1",
		Timestamp:      &ts,
		EventType:      model.EventTypeCompliance,
		Action:         "attest",
		ActorType:      model.ActorTypeUser,
		ComplianceTags: []string{"pci"},
		RetentionDays:  4000,
	}
	ev, err := Normalize(draft, RequestContext{}, fixedNow, fixedID)
	require.NoError(t, err)
	assert.Equal(t, "0b8f8f36-3c48-4bd2-9f1e-5ac2b3f6f6a1", ev.ID)
	assert.Equal(t, ts.Truncate(time.Millisecond), ev.Timestamp)
	assert.Equal(t, 4000, ev.RetentionDays)
}

func TestProducerDrafts(t *testing.T) {
	failed := LoginDraft(LoginRecord{UserID: "alice", Method: "password", Success: false, Reason: "bad password"})
	assert.Equal(t, model.ResultFailure, failed.Result)
	assert.Equal(t, "warning", failed.Severity)

	anonymous := LoginDraft(LoginRecord{Method: "token"})
	assert.Equal(t, model.ActorTypeAnonymous, anonymous.ActorType)

	change, err := DataChangeDraft(DataChangeRecord{
		ActorID:    "admin",
		Action:     "delete",
		TargetType: "user",
		TargetID:   "u-1",
		Before:     map[string]string{"email": "bob@example.com"},
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"email":"bob@example.com"}`, string(change.Before))
	assert.Nil(t, change.After)

	_, err = Normalize(change, RequestContext{}, fixedNow, fixedID)
	require.NoError(t, err)
}
