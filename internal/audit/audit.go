package audit

import (
	"context"
	"encoding/json"
	"errors"
	"sync"

	"github.com/khanghh/kaudit/model"
)

var defaultRecorder Recorder
var initOnce sync.Once

var ErrRecorderNotInitialized = errors.New("audit recorder not initialized")

// Initialize sets the recorder used by the Record helpers.
func Initialize(r Recorder) {
	initOnce.Do(func() {
		defaultRecorder = r
	})
}

type LoginRecord struct {
	UserID    string
	Method    string
	IP        string
	UserAgent string
	Success   bool
	Reason    string
}

type AuthorizationRecord struct {
	ActorID     string
	ActorType   model.ActorType
	Roles       []string
	Action      string
	Resource    string
	ResourceID  string
	Granted     bool
	Sensitivity model.Sensitivity
	Reason      string
}

type DataChangeRecord struct {
	ActorID     string
	ActorType   model.ActorType
	Roles       []string
	Action      string
	TargetType  string
	TargetID    string
	TargetName  string
	Before      any
	After       any
	Fields      []string
	Sensitivity model.Sensitivity
	Tags        []string
}

type ConfigChangeRecord struct {
	ActorID string
	Setting string
	Before  any
	After   any
}

func LoginDraft(record LoginRecord) *Draft {
	d := &Draft{
		EventType:    model.EventTypeAuthentication,
		Category:     "login",
		Severity:     model.SeverityInfo.String(),
		ActorType:    model.ActorTypeUser,
		ActorID:      record.UserID,
		Action:       "login",
		Result:       model.ResultSuccess,
		IP:           record.IP,
		UserAgent:    record.UserAgent,
		TargetType:   "auth_method",
		TargetName:   record.Method,
		ErrorMessage: record.Reason,
	}
	if record.UserID == "" {
		d.ActorType = model.ActorTypeAnonymous
	}
	if !record.Success {
		d.Result = model.ResultFailure
		d.Severity = model.SeverityWarning.String()
	}
	return d
}

func AuthorizationDraft(record AuthorizationRecord) *Draft {
	d := &Draft{
		EventType:    model.EventTypeAuthorization,
		Category:     "access",
		ActorType:    record.ActorType,
		ActorID:      record.ActorID,
		ActorRoles:   record.Roles,
		Action:       record.Action,
		TargetType:   record.Resource,
		TargetID:     record.ResourceID,
		Result:       model.ResultSuccess,
		Sensitivity:  record.Sensitivity,
		ErrorMessage: record.Reason,
	}
	if d.ActorType == "" {
		d.ActorType = model.ActorTypeUser
	}
	if !record.Granted {
		d.Result = model.ResultFailure
		d.Severity = model.SeverityWarning.String()
	}
	return d
}

func DataChangeDraft(record DataChangeRecord) (*Draft, error) {
	before, err := marshalSnapshot(record.Before)
	if err != nil {
		return nil, err
	}
	after, err := marshalSnapshot(record.After)
	if err != nil {
		return nil, err
	}
	d := &Draft{
		EventType:      model.EventTypeDataModification,
		Category:       record.TargetType,
		ActorType:      record.ActorType,
		ActorID:        record.ActorID,
		ActorRoles:     record.Roles,
		Action:         record.Action,
		TargetType:     record.TargetType,
		TargetID:       record.TargetID,
		TargetName:     record.TargetName,
		Before:         before,
		After:          after,
		ChangedFields:  record.Fields,
		Sensitivity:    record.Sensitivity,
		ComplianceTags: record.Tags,
	}
	if d.ActorType == "" {
		d.ActorType = model.ActorTypeUser
	}
	return d, nil
}

func ConfigChangeDraft(record ConfigChangeRecord) (*Draft, error) {
	before, err := marshalSnapshot(record.Before)
	if err != nil {
		return nil, err
	}
	after, err := marshalSnapshot(record.After)
	if err != nil {
		return nil, err
	}
	return &Draft{
		EventType:  model.EventTypeConfiguration,
		Category:   "configuration",
		Severity:   model.SeverityWarning.String(),
		ActorType:  model.ActorTypeUser,
		ActorID:    record.ActorID,
		Action:     "update",
		TargetType: "setting",
		TargetName: record.Setting,
		Before:     before,
		After:      after,
	}, nil
}

func RecordLogin(ctx context.Context, record LoginRecord) error {
	return submit(ctx, LoginDraft(record))
}

func RecordAuthorization(ctx context.Context, record AuthorizationRecord) error {
	return submit(ctx, AuthorizationDraft(record))
}

func RecordDataChange(ctx context.Context, record DataChangeRecord) error {
	d, err := DataChangeDraft(record)
	if err != nil {
		return err
	}
	return submit(ctx, d)
}

func RecordConfigChange(ctx context.Context, record ConfigChangeRecord) error {
	d, err := ConfigChangeDraft(record)
	if err != nil {
		return err
	}
	return submit(ctx, d)
}

func submit(ctx context.Context, d *Draft) error {
	if defaultRecorder == nil {
		return ErrRecorderNotInitialized
	}
	_, err := defaultRecorder.Submit(ctx, d)
	return err
}

func marshalSnapshot(v any) (json.RawMessage, error) {
	switch s := v.(type) {
	case nil:
		return nil, nil
	case json.RawMessage:
		return s, nil
	case []byte:
		return json.RawMessage(s), nil
	}
	return json.Marshal(v)
}
