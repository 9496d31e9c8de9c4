package retention

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/khanghh/kaudit/internal/audit"
	"github.com/khanghh/kaudit/internal/metrics"
	"github.com/khanghh/kaudit/model"
	"github.com/khanghh/kaudit/params"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const retentionActor = "retention-manager"

// AuditCategory is the category purge records are chained under.
const AuditCategory = "retention"

type Config struct {
	Interval  time.Duration `mapstructure:"interval"`
	BatchSize int           `mapstructure:"batchSize"`
	S3        S3Config      `mapstructure:"s3"`
}

func (c *Config) Sanitize() {
	if c.Interval <= 0 {
		c.Interval = params.RetentionInterval
	}
	if c.BatchSize <= 0 {
		c.BatchSize = params.RetentionBatchSize
	}
}

type SweepResult struct {
	Policies int `json:"policies"`
	Archived int `json:"archived"`
	Purged   int `json:"purged"`
}

// Manager archives and purges aged events according to retention policies.
type Manager struct {
	cfg      Config
	db       *gorm.DB
	policies PolicyRepository
	recorder audit.Recorder
	exporter Exporter
	now      func() time.Time
	running  sync.Mutex
}

// policyScope restricts a query to the events governed by one policy: those
// it matches and no higher priority policy matches.
type policyScope struct {
	policy *model.RetentionPolicy
	higher []*model.RetentionPolicy
}

func matchExpr(p *model.RetentionPolicy) (string, []any) {
	var conds []string
	var args []any
	if p.EventType != "" {
		conds = append(conds, "event_type = ?")
		args = append(args, p.EventType)
	}
	if p.Category != "" {
		conds = append(conds, "category = ?")
		args = append(args, p.Category)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return strings.Join(conds, " AND "), args
}

func (s policyScope) apply(tx *gorm.DB) *gorm.DB {
	if expr, args := matchExpr(s.policy); expr != "" {
		tx = tx.Where(expr, args...)
	}
	for _, h := range s.higher {
		expr, args := matchExpr(h)
		tx = tx.Where("NOT ("+expr+")", args...)
	}
	return tx
}

// RunOnce performs one sweep. Committed batches stay committed when ctx is
// cancelled, the batch in flight rolls back.
func (m *Manager) RunOnce(ctx context.Context) (*SweepResult, error) {
	if !m.running.TryLock() {
		return nil, ErrSweepInProgress
	}
	defer m.running.Unlock()

	policies, err := m.policies.List(ctx, true)
	if err != nil {
		return nil, fmt.Errorf("list policies: %w", err)
	}
	now := m.now().UTC()
	result := &SweepResult{}

	var higher []*model.RetentionPolicy
	for _, p := range policies {
		scope := policyScope{policy: p, higher: higher}
		higher = append(higher, p)
		if !p.LegalHoldOverride {
			result.Policies++
			archived, err := m.archive(ctx, scope, p.ArchiveCutoff(now), now)
			result.Archived += archived
			if err != nil {
				return result, fmt.Errorf("archive policy %s: %w", p.Name, err)
			}
			if cutoff := p.DeleteCutoff(now); !cutoff.IsZero() {
				purged, err := m.purge(ctx, scope, cutoff)
				result.Purged += purged
				if err != nil {
					return result, fmt.Errorf("purge policy %s: %w", p.Name, err)
				}
			}
		}
		// a policy without filters governs every remaining event
		if expr, _ := matchExpr(p); expr == "" {
			break
		}
	}
	slog.Info("Retention sweep finished", "policies", result.Policies, "archived", result.Archived, "purged", result.Purged)
	return result, nil
}

func (m *Manager) archive(ctx context.Context, scope policyScope, cutoff, now time.Time) (int, error) {
	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		n, err := m.archiveBatch(ctx, scope, cutoff, now)
		total += n
		if err != nil || n == 0 {
			return total, err
		}
	}
}

func (m *Manager) archiveBatch(ctx context.Context, scope policyScope, cutoff, now time.Time) (int, error) {
	var count int
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var events []*model.AuditEvent
		err := tx.Scopes(scope.apply).
			Where("timestamp < ? AND legal_hold = ? AND archived_at IS NULL", cutoff, false).
			Order("timestamp ASC, seq ASC").
			Limit(m.cfg.BatchSize).
			Find(&events).Error
		if err != nil || len(events) == 0 {
			return err
		}

		rows := make([]*model.AuditEventArchive, len(events))
		ids := make([]string, len(events))
		for i, ev := range events {
			ev.ArchivedAt = &now
			rows[i] = model.NewAuditEventArchive(ev)
			ids[i] = ev.ID
		}
		if err := tx.Clauses(clause.OnConflict{DoNothing: true}).Create(&rows).Error; err != nil {
			return err
		}
		if err := tx.Model(&model.AuditEvent{}).Where("id IN ?", ids).Update("archived_at", now).Error; err != nil {
			return err
		}
		if m.exporter != nil {
			if err := m.exporter.Export(ctx, exportKey(scope.policy, events), events); err != nil {
				return err
			}
		}
		count = len(events)
		return nil
	})
	if err != nil {
		return 0, err
	}
	if count > 0 {
		metrics.Add(metrics.RetentionArchived, float64(count), metrics.L("policy", scope.policy.Name))
	}
	return count, nil
}

func exportKey(p *model.RetentionPolicy, events []*model.AuditEvent) string {
	first := events[0]
	return fmt.Sprintf("%s/%s/%s-%s.jsonl", first.Chain, first.Timestamp.Format("2006/01/02"), p.Name, first.ID)
}

func (m *Manager) purge(ctx context.Context, scope policyScope, cutoff time.Time) (int, error) {
	total := 0
	for {
		if err := ctx.Err(); err != nil {
			return total, err
		}
		purged, found, err := m.purgeBatch(ctx, scope, cutoff)
		total += purged
		if err != nil || found == 0 {
			return total, err
		}
	}
}

func (m *Manager) archivedIDs(tx *gorm.DB) *gorm.DB {
	return tx.Session(&gorm.Session{NewDB: true}).Model(&model.AuditEventArchive{}).Select("id")
}

// purgeBatch returns the number of rows deleted and the number of candidates
// it selected.
func (m *Manager) purgeBatch(ctx context.Context, scope policyScope, cutoff time.Time) (int, int, error) {
	db := m.db.WithContext(ctx)
	var candidates []*model.AuditEvent
	err := db.Scopes(scope.apply).
		Select("id").
		Where("timestamp < ? AND legal_hold = ? AND archived_at IS NOT NULL", cutoff, false).
		Where("id IN (?)", m.archivedIDs(db)).
		Order("timestamp ASC, seq ASC").
		Limit(m.cfg.BatchSize).
		Find(&candidates).Error
	if err != nil || len(candidates) == 0 {
		return 0, 0, err
	}
	ids := make([]string, len(candidates))
	for i, ev := range candidates {
		ids[i] = ev.ID
	}

	if err := m.recordPurge(ctx, scope.policy, ids); err != nil {
		return 0, len(ids), err
	}

	var purged int64
	err = db.Transaction(func(tx *gorm.DB) error {
		res := tx.Where("id IN ? AND legal_hold = ? AND archived_at IS NOT NULL", ids, false).
			Where("id IN (?)", m.archivedIDs(tx).Where("id IN ?", ids)).
			Delete(&model.AuditEvent{})
		purged = res.RowsAffected
		return res.Error
	})
	if err != nil {
		return 0, len(ids), err
	}
	if purged > 0 {
		metrics.Add(metrics.RetentionPurged, float64(purged), metrics.L("policy", scope.policy.Name))
	}
	if int(purged) < len(ids) {
		slog.Warn("Some purge candidates changed before deletion", "policy", scope.policy.Name, "candidates", len(ids), "purged", purged)
	}
	return int(purged), len(ids), nil
}

type purgeSnapshot struct {
	Policy   string   `json:"policy"`
	Count    int      `json:"count"`
	EventIDs []string `json:"eventIds"`
}

// recordPurge makes the purge record durable before any row is deleted.
func (m *Manager) recordPurge(ctx context.Context, p *model.RetentionPolicy, ids []string) error {
	snapshot := purgeSnapshot{Policy: p.Name, Count: len(ids), EventIDs: ids}
	d, err := audit.DataChangeDraft(audit.DataChangeRecord{
		ActorID:    retentionActor,
		ActorType:  model.ActorTypeSystem,
		Action:     "retention.purge",
		TargetType: "audit_event",
		TargetName: p.Name,
		After:      snapshot,
	})
	if err != nil {
		return err
	}
	d.EventType = model.EventTypeSystem
	d.Category = AuditCategory
	d.Severity = model.SeverityWarning.String()
	if _, err := m.recorder.SubmitSync(ctx, d); err != nil {
		return fmt.Errorf("%w: %w", ErrPurgeNotRecorded, err)
	}
	return nil
}

// Run sweeps every Interval until ctx is done.
func (m *Manager) Run(ctx context.Context) {
	ticker := time.NewTicker(m.cfg.Interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := m.RunOnce(ctx); err != nil {
				if errors.Is(err, ErrSweepInProgress) {
					slog.Debug("Skipping retention tick, previous sweep still running")
					continue
				}
				if ctx.Err() == nil {
					slog.Error("Retention sweep failed", "error", err)
				}
			}
		}
	}
}

type legalHoldSnapshot struct {
	EventIDs  []string `json:"eventIds"`
	LegalHold bool     `json:"legalHold"`
}

// SetLegalHold sets or releases the hold on the given events in both tables
// and records who did it. It returns the number of primary rows changed.
func (m *Manager) SetLegalHold(ctx context.Context, ids []string, hold bool, actor string) (int64, error) {
	if len(ids) == 0 {
		return 0, ErrNoEventIDs
	}
	var updated int64
	err := m.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&model.AuditEvent{}).Where("id IN ?", ids).Update("legal_hold", hold)
		if res.Error != nil {
			return res.Error
		}
		updated = res.RowsAffected
		return tx.Model(&model.AuditEventArchive{}).Where("id IN ?", ids).Update("legal_hold", hold).Error
	})
	if err != nil {
		return 0, err
	}

	action := "legal_hold.release"
	if hold {
		action = "legal_hold.set"
	}
	d, err := audit.DataChangeDraft(audit.DataChangeRecord{
		ActorID:    actor,
		Action:     action,
		TargetType: "audit_event",
		TargetID:   ids[0],
		Before:     legalHoldSnapshot{EventIDs: ids, LegalHold: !hold},
		After:      legalHoldSnapshot{EventIDs: ids, LegalHold: hold},
		Fields:     []string{"legal_hold"},
	})
	if err != nil {
		return updated, err
	}
	d.EventType = model.EventTypeCompliance
	d.Category = "legal_hold"
	d.Severity = model.SeverityWarning.String()
	if _, err := m.recorder.Submit(ctx, d); err != nil {
		slog.Error("Failed to record legal hold change", "actor", actor, "count", len(ids), "error", err)
	}
	return updated, nil
}

// SavePolicy validates and upserts p, recording the change.
func (m *Manager) SavePolicy(ctx context.Context, p *model.RetentionPolicy, actor string) error {
	if err := p.Validate(); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidPolicy, err)
	}
	previous, err := m.policies.Upsert(ctx, p)
	if err != nil {
		return err
	}
	m.recordPolicyChange(ctx, actor, p.Name, previous, p)
	return nil
}

func (m *Manager) DeletePolicy(ctx context.Context, id uint64, actor string) error {
	deleted, err := m.policies.Delete(ctx, id)
	if err != nil {
		return err
	}
	m.recordPolicyChange(ctx, actor, deleted.Name, deleted, nil)
	return nil
}

func (m *Manager) Policies(ctx context.Context) ([]*model.RetentionPolicy, error) {
	return m.policies.List(ctx, false)
}

func (m *Manager) recordPolicyChange(ctx context.Context, actor, name string, before, after *model.RetentionPolicy) {
	var beforeVal, afterVal any
	if before != nil {
		beforeVal = before
	}
	if after != nil {
		afterVal = after
	}
	d, err := audit.ConfigChangeDraft(audit.ConfigChangeRecord{
		ActorID: actor,
		Setting: "retention_policy:" + name,
		Before:  beforeVal,
		After:   afterVal,
	})
	if err == nil {
		if after == nil {
			d.Action = "delete"
		}
		_, err = m.recorder.Submit(ctx, d)
	}
	if err != nil {
		slog.Error("Failed to record policy change", "policy", name, "error", err)
	}
}

type Option func(*Manager)

func WithExporter(e Exporter) Option {
	return func(m *Manager) { m.exporter = e }
}

func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

func NewManager(cfg Config, db *gorm.DB, policies PolicyRepository, recorder audit.Recorder, opts ...Option) *Manager {
	cfg.Sanitize()
	m := &Manager{
		cfg:      cfg,
		db:       db,
		policies: policies,
		recorder: recorder,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}
