package audit

import (
	"bytes"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/khanghh/kaudit/internal/chain"
	"github.com/khanghh/kaudit/model"
	"github.com/khanghh/kaudit/params"
	"gorm.io/datatypes"
)

// frameworkRetentionDays is the minimum retention each compliance framework
// requires. An event keeps the longest period among its tags.
var frameworkRetentionDays = map[string]int{
	"sox":      2555,
	"soc2":     2555,
	"hipaa":    2190,
	"gdpr":     1095,
	"iso27001": 1095,
	"pci":      365,
	"pci-dss":  365,
}

func RetentionDaysFor(tags []string) int {
	days := params.DefaultRetentionDays
	for _, tag := range tags {
		if d, ok := frameworkRetentionDays[tag]; ok && d > days {
			days = d
		}
	}
	return days
}

// IsFramework reports whether tag names a known compliance framework.
func IsFramework(tag string) bool {
	_, ok := frameworkRetentionDays[strings.ToLower(strings.TrimSpace(tag))]
	return ok
}

// Normalize validates d and builds the canonical event. It performs no I/O and
// reads no clock, now and newID are supplied by the caller.
func Normalize(d *Draft, ambient RequestContext, now time.Time, newID func() string) (*model.AuditEvent, error) {
	if d == nil {
		return nil, invalid("draft", "is empty")
	}
	if d.EventType == "" {
		return nil, invalid("eventType", "is required")
	}
	if !d.EventType.Valid() {
		return nil, invalid("eventType", "is unknown")
	}
	action := strings.TrimSpace(d.Action)
	if action == "" {
		return nil, invalid("action", "is required")
	}
	if d.ActorType == "" {
		return nil, invalid("actorType", "is required")
	}
	if !d.ActorType.Valid() {
		return nil, invalid("actorType", "is unknown")
	}

	severity := model.SeverityInfo
	if d.Severity != "" {
		sev, err := model.ParseSeverity(d.Severity)
		if err != nil {
			return nil, invalid("severity", "is unknown")
		}
		severity = sev
	}
	result := d.Result
	if result == "" {
		result = model.ResultSuccess
	}
	if !result.Valid() {
		return nil, invalid("result", "is unknown")
	}
	sensitivity := d.Sensitivity
	if sensitivity == "" {
		sensitivity = model.SensitivityInternal
	}
	if !sensitivity.Valid() {
		return nil, invalid("sensitivity", "is unknown")
	}
	if len(d.Before) > 0 && !json.Valid(d.Before) {
		return nil, invalid("before", "is not valid JSON")
	}
	if len(d.After) > 0 && !json.Valid(d.After) {
		return nil, invalid("after", "is not valid JSON")
	}
	if d.RetentionDays < 0 {
		return nil, invalid("retentionDays", "must not be negative")
	}

	id := d.ID
	if id == "" {
		id = newID()
	} else if _, err := uuid.Parse(id); err != nil {
		return nil, invalid("id", "is not a UUID")
	}
	ts := now
	if d.Timestamp != nil && !d.Timestamp.IsZero() {
		ts = *d.Timestamp
	}
	category := strings.TrimSpace(d.Category)
	if category == "" {
		category = string(d.EventType)
	}
	tags := normalizeTags(d.ComplianceTags)
	retention := d.RetentionDays
	if floor := RetentionDaysFor(tags); retention < floor {
		retention = floor
	}

	ev := &model.AuditEvent{
		ID:             id,
		Timestamp:      chain.TruncateTimestamp(ts),
		EventType:      d.EventType,
		Category:       category,
		Severity:       severity,
		ActorType:      d.ActorType,
		ActorID:        d.ActorID,
		ActorRoles:     datatypes.JSONSlice[string](nonEmpty(d.ActorRoles)),
		OnBehalfOf:     d.OnBehalfOf,
		TargetType:     d.TargetType,
		TargetID:       d.TargetID,
		TargetName:     d.TargetName,
		Action:         action,
		Result:         result,
		ErrorCode:      d.ErrorCode,
		ErrorMessage:   d.ErrorMessage,
		Before:         snapshot(d.Before),
		After:          snapshot(d.After),
		ChangedFields:  datatypes.JSONSlice[string](nonEmpty(d.ChangedFields)),
		Sensitivity:    sensitivity,
		RequestID:      firstNonEmpty(d.RequestID, ambient.RequestID),
		SessionID:      firstNonEmpty(d.SessionID, ambient.SessionID),
		CorrelationID:  firstNonEmpty(d.CorrelationID, ambient.CorrelationID),
		ParentEventID:  d.ParentEventID,
		IP:             firstNonEmpty(d.IP, ambient.IP),
		GeoLocation:    firstNonEmpty(d.GeoLocation, ambient.GeoLocation),
		UserAgent:      firstNonEmpty(d.UserAgent, ambient.UserAgent),
		DeviceID:       firstNonEmpty(d.DeviceID, ambient.DeviceID),
		ComplianceTags: datatypes.JSONSlice[string](tags),
		RetentionDays:  retention,
		LegalHold:      d.LegalHold,
	}
	return ev, nil
}

// snapshot stores a state document in its canonical form, the exact bytes the
// hash covers. An absent or null document is stored as nil.
func snapshot(doc json.RawMessage) json.RawMessage {
	if len(bytes.TrimSpace(doc)) == 0 {
		return nil
	}
	canonical := chain.CanonicalValue(doc)
	if bytes.Equal(canonical, []byte("null")) {
		return nil
	}
	return canonical
}

func normalizeTags(tags []string) []string {
	if len(tags) == 0 {
		return nil
	}
	seen := make(map[string]struct{}, len(tags))
	out := make([]string, 0, len(tags))
	for _, tag := range tags {
		tag = strings.ToLower(strings.TrimSpace(tag))
		if tag == "" {
			continue
		}
		if _, dup := seen[tag]; dup {
			continue
		}
		seen[tag] = struct{}{}
		out = append(out, tag)
	}
	return nonEmpty(out)
}

func nonEmpty(values []string) []string {
	if len(values) == 0 {
		return nil
	}
	return values
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
