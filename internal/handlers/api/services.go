package api

import (
	"context"
	"time"

	"github.com/khanghh/kaudit/internal/detector"
	"github.com/khanghh/kaudit/internal/query"
	"github.com/khanghh/kaudit/internal/retention"
	"github.com/khanghh/kaudit/model"
)

type QueryEngine interface {
	Search(ctx context.Context, f query.Filter) (*query.Page, error)
	VerifyIntegrity(ctx context.Context, r query.Range) (*query.IntegrityReport, error)
	VerifyEvents(ctx context.Context, fromID, toID string) (*query.IntegrityReport, error)
	VerifyAll(ctx context.Context) ([]*query.IntegrityReport, error)
	GenerateReport(ctx context.Context, framework string, start, end time.Time, generatedBy string) (*model.ComplianceReport, error)
	GetReport(ctx context.Context, id uint64) (*model.ComplianceReport, error)
}

type InvestigationService interface {
	Get(ctx context.Context, id uint64) (*model.CriticalEvent, error)
	List(ctx context.Context, opts detector.ListOptions) ([]*model.CriticalEvent, int64, error)
	Acknowledge(ctx context.Context, id uint64, investigator string) (*model.CriticalEvent, error)
	Resolve(ctx context.Context, id uint64, investigator, notes string) (*model.CriticalEvent, error)
	MarkFalsePositive(ctx context.Context, id uint64, investigator, notes string) (*model.CriticalEvent, error)
}

type RetentionService interface {
	SetLegalHold(ctx context.Context, ids []string, hold bool, actor string) (int64, error)
	Policies(ctx context.Context) ([]*model.RetentionPolicy, error)
	SavePolicy(ctx context.Context, p *model.RetentionPolicy, actor string) error
	DeletePolicy(ctx context.Context, id uint64, actor string) error
}

var (
	_ QueryEngine          = (*query.Engine)(nil)
	_ InvestigationService = (*detector.Investigations)(nil)
	_ RetentionService     = (*retention.Manager)(nil)
)
