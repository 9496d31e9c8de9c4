package query

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/khanghh/kaudit/internal/audit"
	"github.com/khanghh/kaudit/model"
	"github.com/khanghh/kaudit/params"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

const (
	reportBatchSize       = 1000
	reviewFailureRate     = 0.2
	reportGenerateAction  = "compliance_report.generate"
	reportTargetType      = "compliance_report"
	reportSystemGenerator = "system"
)

// AuditCategory is the category report generation records are chained under.
const AuditCategory = "report"

type seqSpan struct {
	lo, hi uint64
}

type reportAggregate struct {
	summary  model.ReportSummary
	seen     map[string]struct{}
	eventIDs []string
	spans    map[string]*seqSpan
}

func newReportAggregate() *reportAggregate {
	return &reportAggregate{
		summary: model.ReportSummary{
			ByResult:   make(map[string]int64),
			ByType:     make(map[string]int64),
			BySeverity: make(map[string]int64),
		},
		seen:  make(map[string]struct{}),
		spans: make(map[string]*seqSpan),
	}
}

func (a *reportAggregate) add(ev *model.AuditEvent) {
	if _, ok := a.seen[ev.ID]; ok {
		return
	}
	a.seen[ev.ID] = struct{}{}
	a.summary.TotalEvents++
	a.summary.ByResult[string(ev.Result)]++
	a.summary.ByType[string(ev.EventType)]++
	a.summary.BySeverity[ev.Severity.String()]++
	if ev.LegalHold {
		a.summary.LegalHolds++
	}
	a.eventIDs = append(a.eventIDs, ev.ID)

	span, ok := a.spans[ev.Chain]
	if !ok {
		a.spans[ev.Chain] = &seqSpan{lo: ev.Seq, hi: ev.Seq}
		return
	}
	span.lo = min(span.lo, ev.Seq)
	span.hi = max(span.hi, ev.Seq)
}

func (a *reportAggregate) failureRate() float64 {
	if a.summary.TotalEvents == 0 {
		return 0
	}
	failed := a.summary.ByResult[string(model.ResultFailure)] + a.summary.ByResult[string(model.ResultError)]
	return float64(failed) / float64(a.summary.TotalEvents)
}

// GenerateReport aggregates every event tagged with framework whose timestamp
// falls in [start, end), persists the report and records its generation.
func (e *Engine) GenerateReport(ctx context.Context, framework string, start, end time.Time, generatedBy string) (*model.ComplianceReport, error) {
	framework = strings.ToLower(strings.TrimSpace(framework))
	if !audit.IsFramework(framework) {
		return nil, ErrUnknownFramework
	}
	start, end = start.UTC(), end.UTC()
	if !end.After(start) {
		return nil, ErrInvalidPeriod
	}
	if generatedBy == "" {
		generatedBy = reportSystemGenerator
	}

	agg := newReportAggregate()
	scope := func(tx *gorm.DB) *gorm.DB {
		return tx.Where("timestamp >= ? AND timestamp < ?", start, end).
			Where(datatypes.JSONArrayQuery("compliance_tags").Contains(framework))
	}
	if err := e.collect(ctx, scope, agg); err != nil {
		return nil, fmt.Errorf("aggregate events: %w", err)
	}
	agg.summary.FailureRate = agg.failureRate()

	if err := e.countCriticalEvents(ctx, start, end, &agg.summary); err != nil {
		return nil, fmt.Errorf("count critical events: %w", err)
	}

	chains := make([]string, 0, len(agg.spans))
	for name := range agg.spans {
		chains = append(chains, name)
	}
	sort.Strings(chains)
	for _, name := range chains {
		span := agg.spans[name]
		integrity, err := e.VerifyIntegrity(ctx, Range{Chain: name, FromSeq: span.lo, ToSeq: span.hi})
		if err != nil {
			return nil, fmt.Errorf("verify chain %s: %w", name, err)
		}
		agg.summary.IntegrityViolations += len(integrity.Violations)
	}

	report := &model.ComplianceReport{
		Framework:   framework,
		PeriodStart: start,
		PeriodEnd:   end,
		TotalEvents: agg.summary.TotalEvents,
		GeneratedBy: generatedBy,
		CreatedAt:   e.now().UTC(),
	}
	sort.Strings(agg.eventIDs)
	if len(agg.eventIDs) > params.ReportMaxEventIDs {
		agg.eventIDs = agg.eventIDs[:params.ReportMaxEventIDs]
		report.Truncated = true
	}
	report.EventIDs = agg.eventIDs
	report.Status, report.Findings, report.Recommendations = assess(framework, &agg.summary)
	report.Summary = datatypes.NewJSONType(agg.summary)

	if err := e.db.WithContext(ctx).Create(report).Error; err != nil {
		return nil, fmt.Errorf("persist report: %w", err)
	}
	e.recordGeneration(ctx, report)
	return report, nil
}

// collect streams matching rows from the archive and primary tables into agg.
func (e *Engine) collect(ctx context.Context, scope func(*gorm.DB) *gorm.DB, agg *reportAggregate) error {
	var archived []*model.AuditEventArchive
	err := e.reader(ctx).Scopes(scope).FindInBatches(&archived, reportBatchSize, func(tx *gorm.DB, batch int) error {
		for _, row := range archived {
			agg.add(&row.AuditEvent)
		}
		return nil
	}).Error
	if err != nil {
		return err
	}

	var events []*model.AuditEvent
	return e.reader(ctx).Scopes(scope).FindInBatches(&events, reportBatchSize, func(tx *gorm.DB, batch int) error {
		for _, ev := range events {
			agg.add(ev)
		}
		return nil
	}).Error
}

func (e *Engine) countCriticalEvents(ctx context.Context, start, end time.Time, summary *model.ReportSummary) error {
	inPeriod := func(tx *gorm.DB) *gorm.DB {
		return tx.Model(&model.CriticalEvent{}).Where("detected_at >= ? AND detected_at < ?", start, end)
	}
	if err := e.reader(ctx).Scopes(inPeriod).Count(&summary.CriticalEvents).Error; err != nil {
		return err
	}
	return e.reader(ctx).Scopes(inPeriod).
		Where("status NOT IN ?", []model.CriticalStatus{model.CriticalStatusResolved, model.CriticalStatusFalsePositive}).
		Count(&summary.UnresolvedCritical).Error
}

func assess(framework string, s *model.ReportSummary) (model.ComplianceStatus, []string, []string) {
	var findings, recommendations []string
	status := model.ComplianceStatusCompliant

	if s.TotalEvents == 0 {
		status = model.ComplianceStatusNeedsReview
		findings = append(findings, fmt.Sprintf("no events tagged %s in the reporting period", framework))
		recommendations = append(recommendations, fmt.Sprintf("confirm that producers tag %s-relevant events", framework))
	}
	if s.IntegrityViolations > 0 {
		status = model.ComplianceStatusNonCompliant
		findings = append(findings, fmt.Sprintf("hash chain integrity violations detected: %d", s.IntegrityViolations))
		recommendations = append(recommendations, "investigate the reported chain breaks and preserve the affected records")
	}
	if s.UnresolvedCritical > 0 {
		if status == model.ComplianceStatusCompliant {
			status = model.ComplianceStatusNeedsReview
		}
		findings = append(findings, fmt.Sprintf("%d of %d critical events are unresolved", s.UnresolvedCritical, s.CriticalEvents))
		recommendations = append(recommendations, "resolve or close outstanding critical event investigations")
	}
	if s.FailureRate > reviewFailureRate {
		if status == model.ComplianceStatusCompliant {
			status = model.ComplianceStatusNeedsReview
		}
		findings = append(findings, fmt.Sprintf("failure rate %.1f%% exceeds %.0f%%", s.FailureRate*100, reviewFailureRate*100))
		recommendations = append(recommendations, "review failed operations for misconfiguration or abuse")
	}
	if s.LegalHolds > 0 {
		findings = append(findings, fmt.Sprintf("%d events are under legal hold", s.LegalHolds))
	}
	return status, findings, recommendations
}

func (e *Engine) recordGeneration(ctx context.Context, report *model.ComplianceReport) {
	if e.recorder == nil {
		return
	}
	actorType := model.ActorTypeUser
	if report.GeneratedBy == reportSystemGenerator {
		actorType = model.ActorTypeSystem
	}
	draft := &audit.Draft{
		EventType:      model.EventTypeCompliance,
		Category:       AuditCategory,
		Severity:       model.SeverityInfo.String(),
		ActorType:      actorType,
		ActorID:        report.GeneratedBy,
		Action:         reportGenerateAction,
		TargetType:     reportTargetType,
		TargetID:       strconv.FormatUint(report.ID, 10),
		TargetName:     report.Framework,
		ComplianceTags: []string{report.Framework},
	}
	if _, err := e.recorder.Submit(ctx, draft); err != nil {
		slog.Error("Failed to record report generation", "report_id", report.ID, "error", err)
	}
}

func (e *Engine) GetReport(ctx context.Context, id uint64) (*model.ComplianceReport, error) {
	var report model.ComplianceReport
	if err := e.reader(ctx).First(&report, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrReportNotFound
		}
		return nil, err
	}
	return &report, nil
}
