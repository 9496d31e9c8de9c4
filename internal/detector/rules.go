package detector

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/khanghh/kaudit/internal/risk"
	"github.com/khanghh/kaudit/internal/store"
	"github.com/khanghh/kaudit/model"
	"github.com/khanghh/kaudit/params"
)

const (
	RuleBruteForce          = "brute_force"
	RuleSensitiveAuthDenied = "sensitive_authorization_denied"
	RuleIdentityDestruction = "identity_destruction"
	RuleCriticalSeverity    = "critical_severity"
	RuleHighRisk            = "high_risk"
)

// Finding is a rule match on a single event.
type Finding struct {
	Rule       string
	ThreatType string
	Level      model.Severity
	Subject    string
	Summary    string

	// release undoes rule state claimed for this finding when the critical
	// event could not be recorded.
	release func(ctx context.Context) error
}

type Rule interface {
	Name() string
	Evaluate(ctx context.Context, ev *model.AuditEvent) (*Finding, error)
}

type bruteForceRule struct {
	failures  store.Storage
	markers   store.Storage
	threshold int64
	window    time.Duration
	now       func() time.Time
}

func (r *bruteForceRule) Name() string { return RuleBruteForce }

// Evaluate counts failed authentications per subject by event time. Once the
// threshold is reached a marker suppresses the rule for that subject until
// the window opened by the triggering event has passed.
func (r *bruteForceRule) Evaluate(ctx context.Context, ev *model.AuditEvent) (*Finding, error) {
	if ev.EventType != model.EventTypeAuthentication || !ev.Result.Failed() {
		return nil, nil
	}
	subject := risk.Subject(ev)
	if subject == "" {
		return nil, nil
	}
	count, err := r.failures.WindowAdd(ctx, subject, ev.ID, ev.Timestamp, r.window)
	if err != nil {
		return nil, fmt.Errorf("count failed logins: %w", err)
	}
	if count < r.threshold {
		return nil, nil
	}

	ttl := ev.Timestamp.Add(r.window).Sub(r.now())
	if ttl <= 0 {
		// a replayed old event cannot open a window that already closed
		return nil, nil
	}
	marker := RuleBruteForce + ":" + subject
	first, err := r.markers.SetNX(ctx, marker, ev.ID, ttl)
	if err != nil {
		return nil, fmt.Errorf("set brute force marker: %w", err)
	}
	if !first {
		return nil, nil
	}
	return &Finding{
		Rule:       RuleBruteForce,
		ThreatType: "credential_attack",
		Level:      model.SeverityCritical,
		Subject:    subject,
		Summary:    fmt.Sprintf("%d failed authentications for %s within %s", count, subject, r.window),
		release:    func(ctx context.Context) error {
			return r.markers.Delete(ctx, marker)
		},
	}, nil
}

type sensitiveAuthDeniedRule struct {
	actions map[string]struct{}
}

func (r *sensitiveAuthDeniedRule) Name() string { return RuleSensitiveAuthDenied }

func (r *sensitiveAuthDeniedRule) Evaluate(_ context.Context, ev *model.AuditEvent) (*Finding, error) {
	if ev.EventType != model.EventTypeAuthorization || !ev.Result.Failed() {
		return nil, nil
	}
	_, sensitiveAction := r.actions[strings.ToLower(ev.Action)]
	level := model.SeverityError
	switch {
	case ev.Sensitivity == model.SensitivityRestricted:
		level = model.SeverityCritical
	case ev.Sensitivity == model.SensitivityConfidential, sensitiveAction:
	default:
		return nil, nil
	}
	return &Finding{
		Rule:       RuleSensitiveAuthDenied,
		ThreatType: "unauthorized_access",
		Level:      level,
		Subject:    risk.Subject(ev),
		Summary:    fmt.Sprintf("%s denied %s on %s %s", describeActor(ev), ev.Action, ev.Sensitivity, describeTarget(ev)),
	}, nil
}

var identityTargets = map[string]struct{}{
	"user":       {},
	"account":    {},
	"identity":   {},
	"role":       {},
	"credential": {},
}

var destructiveVerbs = []string{"delete", "destroy", "purge", "remove", "wipe"}

type identityDestructionRule struct{}

func (identityDestructionRule) Name() string { return RuleIdentityDestruction }

func (identityDestructionRule) Evaluate(_ context.Context, ev *model.AuditEvent) (*Finding, error) {
	if ev.EventType != model.EventTypeDataModification && ev.EventType != model.EventTypeSecurity {
		return nil, nil
	}
	if _, ok := identityTargets[strings.ToLower(ev.TargetType)]; !ok {
		return nil, nil
	}
	action := strings.ToLower(ev.Action)
	for _, verb := range destructiveVerbs {
		if strings.Contains(action, verb) {
			return &Finding{
				Rule:       RuleIdentityDestruction,
				ThreatType: "account_tampering",
				Level:      model.SeverityCritical,
				Subject:    risk.Subject(ev),
				Summary:    fmt.Sprintf("%s performed %s on %s", describeActor(ev), ev.Action, describeTarget(ev)),
			}, nil
		}
	}
	return nil, nil
}

type criticalSeverityRule struct{}

func (criticalSeverityRule) Name() string { return RuleCriticalSeverity }

func (criticalSeverityRule) Evaluate(_ context.Context, ev *model.AuditEvent) (*Finding, error) {
	if ev.Severity < model.SeverityCritical {
		return nil, nil
	}
	return &Finding{
		Rule:       RuleCriticalSeverity,
		ThreatType: "critical_event",
		Level:      ev.Severity,
		Subject:    risk.Subject(ev),
		Summary:    fmt.Sprintf("%s %s event: %s by %s", ev.Severity, ev.EventType, ev.Action, describeActor(ev)),
	}, nil
}

type highRiskRule struct {
	threshold uint8
}

func (r *highRiskRule) Name() string { return RuleHighRisk }

func (r *highRiskRule) Evaluate(_ context.Context, ev *model.AuditEvent) (*Finding, error) {
	if ev.RiskScore < r.threshold {
		return nil, nil
	}
	return &Finding{
		Rule:       RuleHighRisk,
		ThreatType: "anomalous_activity",
		Level:      model.SeverityError,
		Subject:    risk.Subject(ev),
		Summary:    fmt.Sprintf("risk score %d for %s by %s", ev.RiskScore, ev.Action, describeActor(ev)),
	}, nil
}

func describeActor(ev *model.AuditEvent) string {
	if subject := risk.Subject(ev); subject != "" {
		return subject
	}
	return string(ev.ActorType)
}

func describeTarget(ev *model.AuditEvent) string {
	target := ev.TargetType
	if ev.TargetID != "" {
		target += " " + ev.TargetID
	}
	if target == "" {
		return "resource"
	}
	return target
}

// DefaultRules builds the built-in rule set in evaluation order.
func DefaultRules(cfg Config, storage store.Storage, now func() time.Time) []Rule {
	cfg.Sanitize()
	if now == nil {
		now = time.Now
	}
	actions := make(map[string]struct{}, len(cfg.SensitiveActions))
	for _, a := range cfg.SensitiveActions {
		actions[strings.ToLower(a)] = struct{}{}
	}
	return []Rule{
		&bruteForceRule{
			failures:  store.StorageWithPrefix(storage, params.BruteForceKeyPrefix),
			markers:   store.StorageWithPrefix(storage, params.CriticalEventIDsKeyPrefix),
			threshold: int64(cfg.BruteForceThreshold),
			window:    cfg.BruteForceWindow,
			now:       now,
		},
		&sensitiveAuthDeniedRule{actions: actions},
		identityDestructionRule{},
		criticalSeverityRule{},
		&highRiskRule{threshold: cfg.HighRiskThreshold},
	}
}
