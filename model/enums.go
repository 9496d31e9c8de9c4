package model

import (
	"fmt"
	"strings"
)

type EventType string

const (
	EventTypeAuthentication   EventType = "authentication"
	EventTypeAuthorization    EventType = "authorization"
	EventTypeDataAccess       EventType = "data_access"
	EventTypeDataModification EventType = "data_modification"
	EventTypeConfiguration    EventType = "configuration"
	EventTypeSystem           EventType = "system"
	EventTypeSecurity         EventType = "security"
	EventTypeCompliance       EventType = "compliance"
	EventTypeError            EventType = "error"
	EventTypeCustom           EventType = "custom"
)

func (t EventType) Valid() bool {
	switch t {
	case EventTypeAuthentication, EventTypeAuthorization, EventTypeDataAccess,
		EventTypeDataModification, EventTypeConfiguration, EventTypeSystem,
		EventTypeSecurity, EventTypeCompliance, EventTypeError, EventTypeCustom:
		return true
	}
	return false
}

// Severity is ordered, comparisons between levels are meaningful.
type Severity uint8

const (
	SeverityDebug Severity = iota
	SeverityInfo
	SeverityWarning
	SeverityError
	SeverityCritical
	SeverityEmergency
)

var severityNames = [...]string{"debug", "info", "warning", "error", "critical", "emergency"}

func (s Severity) Valid() bool {
	return int(s) < len(severityNames)
}

func (s Severity) String() string {
	if !s.Valid() {
		return fmt.Sprintf("severity(%d)", uint8(s))
	}
	return severityNames[s]
}

func (s Severity) MarshalText() ([]byte, error) {
	if !s.Valid() {
		return nil, fmt.Errorf("invalid severity %d", uint8(s))
	}
	return []byte(s.String()), nil
}

func (s *Severity) UnmarshalText(text []byte) error {
	sev, err := ParseSeverity(string(text))
	if err != nil {
		return err
	}
	*s = sev
	return nil
}

func ParseSeverity(name string) (Severity, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range severityNames {
		if n == name {
			return Severity(i), nil
		}
	}
	return 0, fmt.Errorf("unknown severity %q", name)
}

type ActorType string

const (
	ActorTypeUser      ActorType = "user"
	ActorTypeSystem    ActorType = "system"
	ActorTypeService   ActorType = "service"
	ActorTypeAnonymous ActorType = "anonymous"
)

func (t ActorType) Valid() bool {
	switch t {
	case ActorTypeUser, ActorTypeSystem, ActorTypeService, ActorTypeAnonymous:
		return true
	}
	return false
}

type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
	ResultError   Result = "error"
	ResultPartial Result = "partial"
	ResultPending Result = "pending"
	ResultTimeout Result = "timeout"
)

func (r Result) Valid() bool {
	switch r {
	case ResultSuccess, ResultFailure, ResultError, ResultPartial, ResultPending, ResultTimeout:
		return true
	}
	return false
}

// Failed reports whether the outcome counts as a failed attempt.
func (r Result) Failed() bool {
	return r == ResultFailure || r == ResultError || r == ResultTimeout
}

type Sensitivity string

const (
	SensitivityPublic       Sensitivity = "public"
	SensitivityInternal     Sensitivity = "internal"
	SensitivityConfidential Sensitivity = "confidential"
	SensitivityRestricted   Sensitivity = "restricted"
)

func (s Sensitivity) Valid() bool {
	switch s {
	case SensitivityPublic, SensitivityInternal, SensitivityConfidential, SensitivityRestricted:
		return true
	}
	return false
}
