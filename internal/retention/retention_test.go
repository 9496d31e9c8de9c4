package retention

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/khanghh/kaudit/internal/audit"
	"github.com/khanghh/kaudit/internal/dbtest"
	"github.com/khanghh/kaudit/model"
	"github.com/khanghh/kaudit/model/query"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var now = time.Date(2026, 6, 1, 3, 0, 0, 0, time.UTC)

type fakeRecorder struct {
	mu     sync.Mutex
	err    error
	drafts []*audit.Draft
}

func (r *fakeRecorder) Submit(_ context.Context, d *audit.Draft) (string, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.err != nil {
		return "", r.err
	}
	r.drafts = append(r.drafts, d)
	return uuid.NewString(), nil
}

func (r *fakeRecorder) SubmitSync(ctx context.Context, d *audit.Draft) (string, error) {
	return r.Submit(ctx, d)
}

func (r *fakeRecorder) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	actions := make([]string, len(r.drafts))
	for i, d := range r.drafts {
		actions[i] = d.Action
	}
	return actions
}

type fakeExporter struct {
	err     error
	batches map[string]int
}

func (e *fakeExporter) Export(_ context.Context, key string, events []*model.AuditEvent) error {
	if e.err != nil {
		return e.err
	}
	if e.batches == nil {
		e.batches = make(map[string]int)
	}
	e.batches[key] = len(events)
	return nil
}

type fixture struct {
	db       *gorm.DB
	recorder *fakeRecorder
	manager  *Manager
}

func newFixture(t *testing.T, batchSize int, opts ...Option) *fixture {
	t.Helper()
	db := dbtest.Open(t)
	rec := &fakeRecorder{}
	opts = append(opts, WithClock(func() time.Time { return now }))
	m := NewManager(Config{BatchSize: batchSize}, db, NewPolicyRepository(query.Use(db)), rec, opts...)
	return &fixture{db: db, recorder: rec, manager: m}
}

var seq uint64

func (f *fixture) event(t *testing.T, ageDays int, category string, hold bool) *model.AuditEvent {
	t.Helper()
	seq++
	ev := &model.AuditEvent{
		ID:            uuid.NewString(),
		Chain:         "main",
		Seq:           seq,
		Timestamp:     now.AddDate(0, 0, -ageDays),
		EventType:     model.EventTypeDataAccess,
		Category:      category,
		Severity:      model.SeverityInfo,
		ActorType:     model.ActorTypeUser,
		Action:        "read",
		Result:        model.ResultSuccess,
		Sensitivity:   model.SensitivityInternal,
		EventHash:     "h",
		PreviousHash:  "p",
		RetentionDays: 365,
		LegalHold:     hold,
	}
	require.NoError(t, f.db.Create(ev).Error)
	return ev
}

func (f *fixture) policy(t *testing.T, p *model.RetentionPolicy) {
	t.Helper()
	p.Active = true
	require.NoError(t, f.manager.SavePolicy(context.Background(), p, "admin"))
}

func (f *fixture) primaryIDs(t *testing.T) []string {
	t.Helper()
	var ids []string
	require.NoError(t, f.db.Model(&model.AuditEvent{}).Order("id").Pluck("id", &ids).Error)
	return ids
}

func (f *fixture) archiveIDs(t *testing.T) []string {
	t.Helper()
	var ids []string
	require.NoError(t, f.db.Model(&model.AuditEventArchive{}).Order("id").Pluck("id", &ids).Error)
	return ids
}

func sorted(ids ...string) []string {
	sort.Strings(ids)
	return ids
}

func TestArchiveAndPurgeHonorLegalHold(t *testing.T) {
	f := newFixture(t, 1)
	f.policy(t, &model.RetentionPolicy{Name: "default", RetentionDays: 90, ArchiveAfterDays: 30, DeleteAfterDays: 90})
	young := f.event(t, 10, "records", false)
	mid := f.event(t, 45, "records", false)
	old1 := f.event(t, 100, "records", false)
	old2 := f.event(t, 120, "records", false)
	oldHeld := f.event(t, 100, "records", true)
	midHeld := f.event(t, 45, "records", true)

	ctx := context.Background()
	result, err := f.manager.RunOnce(ctx)
	require.NoError(t, err)
	assert.Equal(t, 3, result.Archived)
	assert.Equal(t, 2, result.Purged)

	assert.Equal(t, sorted(young.ID, mid.ID, oldHeld.ID, midHeld.ID), f.primaryIDs(t))
	assert.Equal(t, sorted(mid.ID, old1.ID, old2.ID), f.archiveIDs(t))

	var stored model.AuditEvent
	require.NoError(t, f.db.Take(&stored, "id = ?", mid.ID).Error)
	require.NotNil(t, stored.ArchivedAt)
	assert.True(t, stored.ArchivedAt.Equal(now))
	require.NoError(t, f.db.Take(&stored, "id = ?", young.ID).Error)
	assert.Nil(t, stored.ArchivedAt)

	var purges []*audit.Draft
	for _, d := range f.recorder.drafts {
		if d.Action == "retention.purge" {
			purges = append(purges, d)
		}
	}
	require.Len(t, purges, 2, "one record per purged batch")
	assert.Equal(t, model.EventTypeSystem, purges[0].EventType)
	assert.Equal(t, "retention", purges[0].Category)
	assert.Contains(t, string(purges[0].After), old2.ID, "oldest batch first")

	again, err := f.manager.RunOnce(ctx)
	require.NoError(t, err)
	assert.Zero(t, again.Archived)
	assert.Zero(t, again.Purged)
	assert.Len(t, f.archiveIDs(t), 3)
}

func TestHighestPriorityPolicyGoverns(t *testing.T) {
	f := newFixture(t, 10)
	f.policy(t, &model.RetentionPolicy{Name: "billing-hold", Category: "billing", ArchiveAfterDays: 1, LegalHoldOverride: true, Priority: 10})
	f.policy(t, &model.RetentionPolicy{Name: "short", Category: "login", ArchiveAfterDays: 5, DeleteAfterDays: 5, Priority: 5})
	f.policy(t, &model.RetentionPolicy{Name: "catch-all", ArchiveAfterDays: 30, DeleteAfterDays: 90})
	f.policy(t, &model.RetentionPolicy{Name: "never-reached", ArchiveAfterDays: 1, DeleteAfterDays: 1, Priority: -1})

	billing := f.event(t, 200, "billing", false)
	login := f.event(t, 10, "login", false)
	misc := f.event(t, 10, "misc", false)

	result, err := f.manager.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 2, result.Policies)
	assert.Equal(t, sorted(billing.ID, misc.ID), f.primaryIDs(t))
	assert.Equal(t, []string{login.ID}, f.archiveIDs(t))
}

func TestExportFailureRollsBackBatch(t *testing.T) {
	exporter := &fakeExporter{err: errors.New("bucket unavailable")}
	f := newFixture(t, 10, WithExporter(exporter))
	f.policy(t, &model.RetentionPolicy{Name: "default", ArchiveAfterDays: 30, DeleteAfterDays: 90})
	ev := f.event(t, 40, "records", false)

	_, err := f.manager.RunOnce(context.Background())
	require.ErrorIs(t, err, exporter.err)
	assert.Empty(t, f.archiveIDs(t))
	var stored model.AuditEvent
	require.NoError(t, f.db.Take(&stored, "id = ?", ev.ID).Error)
	assert.Nil(t, stored.ArchivedAt)

	exporter.err = nil
	result, err := f.manager.RunOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, result.Archived)
	require.Len(t, exporter.batches, 1)
	for key, n := range exporter.batches {
		assert.Contains(t, key, "main/2026/04/22/default-")
		assert.Equal(t, 1, n)
	}
}

func TestPurgeRequiresDurableRecord(t *testing.T) {
	f := newFixture(t, 10)
	f.policy(t, &model.RetentionPolicy{Name: "default", ArchiveAfterDays: 30, DeleteAfterDays: 90})
	ev := f.event(t, 100, "records", false)
	f.recorder.err = errors.New("writer overloaded")

	result, err := f.manager.RunOnce(context.Background())
	require.ErrorIs(t, err, ErrPurgeNotRecorded)
	assert.Equal(t, 1, result.Archived)
	assert.Zero(t, result.Purged)
	assert.Equal(t, []string{ev.ID}, f.primaryIDs(t))
}

func TestOverlappingSweepIsSkipped(t *testing.T) {
	f := newFixture(t, 10)
	f.manager.running.Lock()
	_, err := f.manager.RunOnce(context.Background())
	f.manager.running.Unlock()
	assert.ErrorIs(t, err, ErrSweepInProgress)
}

func TestCancelledSweepLeavesEventsUntouched(t *testing.T) {
	f := newFixture(t, 10)
	f.policy(t, &model.RetentionPolicy{Name: "default", ArchiveAfterDays: 30, DeleteAfterDays: 90})
	f.event(t, 100, "records", false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := f.manager.RunOnce(ctx)
	require.Error(t, err)
	assert.Empty(t, f.archiveIDs(t))
	assert.Len(t, f.primaryIDs(t), 1)
}

func TestSetLegalHold(t *testing.T) {
	f := newFixture(t, 10)
	a := f.event(t, 1, "records", false)
	b := f.event(t, 1, "records", false)
	ctx := context.Background()

	_, err := f.manager.SetLegalHold(ctx, nil, true, "counsel")
	assert.ErrorIs(t, err, ErrNoEventIDs)

	n, err := f.manager.SetLegalHold(ctx, []string{a.ID, b.ID, "unknown"}, true, "counsel")
	require.NoError(t, err)
	assert.EqualValues(t, 2, n)

	var held int64
	require.NoError(t, f.db.Model(&model.AuditEvent{}).Where("legal_hold = ?", true).Count(&held).Error)
	assert.EqualValues(t, 2, held)

	require.Len(t, f.recorder.drafts, 1)
	d := f.recorder.drafts[0]
	assert.Equal(t, "legal_hold.set", d.Action)
	assert.Equal(t, "counsel", d.ActorID)
	assert.Equal(t, model.EventTypeCompliance, d.EventType)
}

func TestPolicyChangesAreRecorded(t *testing.T) {
	f := newFixture(t, 10)
	ctx := context.Background()

	err := f.manager.SavePolicy(ctx, &model.RetentionPolicy{Name: "bad", ArchiveAfterDays: 0}, "admin")
	assert.ErrorIs(t, err, ErrInvalidPolicy)

	p := &model.RetentionPolicy{Name: "logins", Category: "login", ArchiveAfterDays: 30, Active: true}
	require.NoError(t, f.manager.SavePolicy(ctx, p, "admin"))
	id := p.ID

	replacement := &model.RetentionPolicy{Name: "logins", Category: "login", ArchiveAfterDays: 60, Active: false}
	require.NoError(t, f.manager.SavePolicy(ctx, replacement, "admin"))
	assert.Equal(t, id, replacement.ID)

	policies, err := f.manager.Policies(ctx)
	require.NoError(t, err)
	require.Len(t, policies, 1)
	assert.Equal(t, 60, policies[0].ArchiveAfterDays)
	assert.False(t, policies[0].Active)

	require.NoError(t, f.manager.DeletePolicy(ctx, id, "admin"))
	assert.ErrorIs(t, f.manager.DeletePolicy(ctx, id, "admin"), ErrPolicyNotFound)

	assert.Equal(t, []string{"update", "update", "delete"}, f.recorder.actions())
	assert.Equal(t, model.EventTypeConfiguration, f.recorder.drafts[0].EventType)
	assert.Equal(t, "retention_policy:logins", f.recorder.drafts[0].TargetName)
}

func TestPolicyRepositoryWithTx(t *testing.T) {
	ctx := context.Background()
	q := query.Use(dbtest.Open(t))
	repo := NewPolicyRepository(q)

	errAbort := errors.New("abort")
	err := q.Transaction(func(tx *query.Query) error {
		_, err := repo.WithTx(tx).Upsert(ctx, &model.RetentionPolicy{Name: "logins", ArchiveAfterDays: 30, Active: true})
		require.NoError(t, err)
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	policies, err := repo.List(ctx, false)
	require.NoError(t, err)
	assert.Empty(t, policies)

	p := &model.RetentionPolicy{Name: "logins", ArchiveAfterDays: 30, Active: false}
	require.NoError(t, q.Transaction(func(tx *query.Query) error {
		_, err := repo.WithTx(tx).Upsert(ctx, p)
		return err
	}))
	stored, err := repo.Get(ctx, p.ID)
	require.NoError(t, err)
	assert.False(t, stored.Active)

	active, err := repo.List(ctx, true)
	require.NoError(t, err)
	assert.Empty(t, active)
}
