package detector

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/google/uuid"
	"github.com/khanghh/kaudit/internal/alert"
	"github.com/khanghh/kaudit/internal/audit"
	"github.com/khanghh/kaudit/internal/dbtest"
	"github.com/khanghh/kaudit/internal/store"
	"github.com/khanghh/kaudit/model"
	"github.com/khanghh/kaudit/model/query"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var base = time.Date(2024, 5, 6, 9, 0, 0, 0, time.UTC)

func clock() time.Time { return base.Add(10 * time.Minute) }

type fakeDispatcher struct {
	mu       sync.Mutex
	alerts   []*alert.Alert
	sent     int
	failures []error
}

func (f *fakeDispatcher) Dispatch(_ context.Context, a *alert.Alert) (int, []error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.alerts = append(f.alerts, a)
	return f.sent, f.failures
}

type fakeRecorder struct {
	mu     sync.Mutex
	drafts []*audit.Draft
}

func (f *fakeRecorder) Submit(_ context.Context, d *audit.Draft) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.drafts = append(f.drafts, d)
	return uuid.NewString(), nil
}

func (f *fakeRecorder) SubmitSync(ctx context.Context, d *audit.Draft) (string, error) {
	return f.Submit(ctx, d)
}

type fixture struct {
	repo       Repository
	dispatcher *fakeDispatcher
	detector   *Detector
}

func newFixture(t *testing.T, cfg Config) *fixture {
	t.Helper()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { rdb.Close() })

	repo := NewRepository(query.Use(dbtest.Open(t)))
	dispatcher := &fakeDispatcher{sent: 1}
	rules := DefaultRules(cfg, store.NewRedisStorage(rdb), clock)
	return &fixture{
		repo:       repo,
		dispatcher: dispatcher,
		detector:   New(cfg, rules, repo, dispatcher, WithClock(clock)),
	}
}

func failedLogin(actor string, at time.Time) *model.AuditEvent {
	return &model.AuditEvent{
		ID:          uuid.NewString(),
		Timestamp:   at,
		EventType:   model.EventTypeAuthentication,
		Category:    "login",
		Severity:    model.SeverityWarning,
		ActorType:   model.ActorTypeUser,
		ActorID:     actor,
		Action:      "login",
		Result:      model.ResultFailure,
		Sensitivity: model.SensitivityInternal,
	}
}

func TestBruteForceYieldsExactlyOneCriticalEvent(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{})

	var created []*model.CriticalEvent
	for i := 0; i < 6; i++ {
		ce, err := f.detector.Process(ctx, failedLogin("alice", base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
		if ce != nil {
			created = append(created, ce)
		}
	}
	require.Len(t, created, 1)
	ce := created[0]
	assert.Equal(t, RuleBruteForce, ce.Rule)
	assert.Equal(t, "alice", ce.Subject)
	assert.Equal(t, model.SeverityCritical, ce.ThreatLevel)
	assert.Equal(t, model.CriticalStatusAlerted, ce.Status)

	items, total, err := f.repo.List(ctx, ListOptions{Rule: RuleBruteForce, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Len(t, items, 1)
	assert.Len(t, f.dispatcher.alerts, 1)
}

type failingRepo struct {
	Repository
	failures int
}

func (r *failingRepo) Create(ctx context.Context, ce *model.CriticalEvent) (bool, error) {
	if r.failures > 0 {
		r.failures--
		return false, errors.New("deadlock found when trying to get lock")
	}
	return r.Repository.Create(ctx, ce)
}

func TestFailedCriticalEventWriteReleasesMarker(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{})
	f.detector.repo = &failingRepo{Repository: f.repo, failures: 1}

	for i := 0; i < 4; i++ {
		ce, err := f.detector.Process(ctx, failedLogin("alice", base.Add(time.Duration(i)*time.Minute)))
		require.NoError(t, err)
		require.Nil(t, ce)
	}
	_, err := f.detector.Process(ctx, failedLogin("alice", base.Add(4*time.Minute)))
	require.Error(t, err)

	ce, err := f.detector.Process(ctx, failedLogin("alice", base.Add(5*time.Minute)))
	require.NoError(t, err)
	require.NotNil(t, ce)
	assert.Equal(t, RuleBruteForce, ce.Rule)

	_, total, err := f.repo.List(ctx, ListOptions{Rule: RuleBruteForce, Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestBruteForceCountsPerSubject(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{})

	for i := 0; i < 4; i++ {
		for _, actor := range []string{"alice", "bob"} {
			ce, err := f.detector.Process(ctx, failedLogin(actor, base.Add(time.Duration(i)*time.Minute)))
			require.NoError(t, err)
			assert.Nil(t, ce)
		}
	}
	// anonymous attempts are keyed by address
	for i := 0; i < 5; i++ {
		ev := failedLogin("", base.Add(time.Duration(i)*time.Minute))
		ev.ActorType = model.ActorTypeAnonymous
		ev.IP = "203.0.113.7"
		ce, err := f.detector.Process(ctx, ev)
		require.NoError(t, err)
		if i == 4 {
			require.NotNil(t, ce)
			assert.Equal(t, "ip:203.0.113.7", ce.Subject)
		}
	}
}

func TestHighestThreatLevelWins(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{})

	ev := &model.AuditEvent{
		ID:          uuid.NewString(),
		Timestamp:   base,
		EventType:   model.EventTypeDataModification,
		Severity:    model.SeverityEmergency,
		ActorType:   model.ActorTypeUser,
		ActorID:     "mallory",
		Action:      "delete",
		TargetType:  "user",
		TargetID:    "u-1",
		Result:      model.ResultSuccess,
		RiskScore:   90,
		Sensitivity: model.SensitivityRestricted,
	}
	ce, err := f.detector.Process(ctx, ev)
	require.NoError(t, err)
	require.NotNil(t, ce)
	assert.Equal(t, RuleCriticalSeverity, ce.Rule)
	assert.Equal(t, model.SeverityEmergency, ce.ThreatLevel)
	require.Len(t, ce.Findings, 2)
	assert.Contains(t, ce.Findings[0], RuleIdentityDestruction)
	assert.Contains(t, ce.Findings[1], RuleHighRisk)

	again, err := f.detector.Process(ctx, ev)
	require.NoError(t, err)
	assert.Nil(t, again, "one critical event per source event")
}

func TestSensitiveAuthorizationDenied(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{SensitiveActions: []string{"export"}})

	denied := func(action string, sensitivity model.Sensitivity) *model.AuditEvent {
		return &model.AuditEvent{
			ID:          uuid.NewString(),
			Timestamp:   base,
			EventType:   model.EventTypeAuthorization,
			Severity:    model.SeverityWarning,
			ActorType:   model.ActorTypeUser,
			ActorID:     "eve",
			Action:      action,
			TargetType:  "payroll",
			Result:      model.ResultFailure,
			Sensitivity: sensitivity,
		}
	}

	ce, err := f.detector.Process(ctx, denied("read", model.SensitivityInternal))
	require.NoError(t, err)
	assert.Nil(t, ce)

	ce, err = f.detector.Process(ctx, denied("export", model.SensitivityInternal))
	require.NoError(t, err)
	require.NotNil(t, ce)
	assert.Equal(t, model.SeverityError, ce.ThreatLevel)

	ce, err = f.detector.Process(ctx, denied("read", model.SensitivityRestricted))
	require.NoError(t, err)
	require.NotNil(t, ce)
	assert.Equal(t, RuleSensitiveAuthDenied, ce.Rule)
	assert.Equal(t, model.SeverityCritical, ce.ThreatLevel)
}

func TestFailedAlertsKeepEventDetected(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{})
	f.dispatcher.sent = 0
	f.dispatcher.failures = []error{&alert.DeliveryError{Channel: "email", Err: errors.New("smtp down")}}

	ev := failedLogin("root", base)
	ev.Severity = model.SeverityCritical
	ce, err := f.detector.Process(ctx, ev)
	require.NoError(t, err)
	require.NotNil(t, ce)

	stored, err := f.repo.Get(ctx, ce.ID)
	require.NoError(t, err)
	assert.Equal(t, model.CriticalStatusDetected, stored.Status)
	assert.Nil(t, stored.AlertedAt)
	assert.Equal(t, []string{"alert channel email: smtp down"}, []string(stored.AlertFailures))
}

func TestObserveDropsWhenQueueFull(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{QueueSize: 1})

	critical := func() *model.AuditEvent {
		ev := failedLogin("svc", base)
		ev.Severity = model.SeverityCritical
		return ev
	}
	f.detector.Observe(critical())
	f.detector.Observe(critical())

	f.detector.Start()
	require.NoError(t, f.detector.Stop(ctx))

	_, total, err := f.repo.List(ctx, ListOptions{Limit: 10})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
}

func TestInvestigationWorkflow(t *testing.T) {
	ctx := context.Background()
	f := newFixture(t, Config{})
	recorder := &fakeRecorder{}
	inv := NewInvestigations(f.repo, recorder, clock)

	newCritical := func() *model.CriticalEvent {
		ev := failedLogin(fmt.Sprintf("user-%s", uuid.NewString()[:8]), base)
		ev.Severity = model.SeverityCritical
		ce, err := f.detector.Process(ctx, ev)
		require.NoError(t, err)
		require.NotNil(t, ce)
		return ce
	}

	ce := newCritical()
	_, err := inv.Resolve(ctx, ce.ID, "ivy", "contained")
	var te *TransitionError
	require.ErrorAs(t, err, &te)
	assert.Equal(t, model.CriticalStatusAlerted, te.From)

	_, err = inv.Acknowledge(ctx, ce.ID, " ")
	assert.ErrorIs(t, err, ErrInvestigatorRequired)

	acked, err := inv.Acknowledge(ctx, ce.ID, "ivy")
	require.NoError(t, err)
	assert.Equal(t, model.CriticalStatusAcknowledged, acked.Status)
	assert.Equal(t, "ivy", acked.AcknowledgedBy)
	require.NotNil(t, acked.AcknowledgedAt)

	_, err = inv.Resolve(ctx, ce.ID, "ivy", "")
	assert.ErrorIs(t, err, ErrNotesRequired)

	resolved, err := inv.Resolve(ctx, ce.ID, "ivy", "password rotated, source blocked")
	require.NoError(t, err)
	assert.Equal(t, model.CriticalStatusResolved, resolved.Status)
	assert.Equal(t, "password rotated, source blocked", resolved.ResolutionNotes)

	_, err = inv.MarkFalsePositive(ctx, ce.ID, "ivy", "")
	require.ErrorAs(t, err, &te)
	assert.Equal(t, model.CriticalStatusResolved, te.From)

	other := newCritical()
	fp, err := inv.MarkFalsePositive(ctx, other.ID, "ivy", "pen test")
	require.NoError(t, err)
	assert.Equal(t, model.CriticalStatusFalsePositive, fp.Status)

	_, err = inv.Get(ctx, 12345)
	assert.ErrorIs(t, err, ErrCriticalEventNotFound)

	require.Len(t, recorder.drafts, 3)
	assert.Equal(t, "critical_event.acknowledged", recorder.drafts[0].Action)
	assert.Equal(t, model.EventTypeSecurity, recorder.drafts[0].EventType)
	assert.Equal(t, ce.SourceEventID, recorder.drafts[0].ParentEventID)

	page, total, err := inv.List(ctx, ListOptions{Status: model.CriticalStatusFalsePositive})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	assert.Equal(t, other.ID, page[0].ID)
}

func TestRepositoryWithTxRollsBack(t *testing.T) {
	ctx := context.Background()
	q := query.Use(dbtest.Open(t))
	repo := NewRepository(q)

	ce := &model.CriticalEvent{
		SourceEventID: uuid.NewString(),
		Rule:          RuleBruteForce,
		ThreatType:    "credential_stuffing",
		ThreatLevel:   model.SeverityCritical,
		Status:        model.CriticalStatusDetected,
		Subject:       "alice",
		Summary:       "5 failed logins",
		DedupKey:      "brute_force:alice:tx",
		DetectedAt:    base,
	}
	errAbort := errors.New("abort")
	err := q.Transaction(func(tx *query.Query) error {
		created, err := repo.WithTx(tx).Create(ctx, ce)
		require.NoError(t, err)
		require.True(t, created)
		return errAbort
	})
	require.ErrorIs(t, err, errAbort)

	_, err = repo.Get(ctx, ce.ID)
	assert.ErrorIs(t, err, ErrCriticalEventNotFound)

	require.NoError(t, q.Transaction(func(tx *query.Query) error {
		_, err := repo.WithTx(tx).Create(ctx, ce)
		return err
	}))
	stored, err := repo.Get(ctx, ce.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", stored.Subject)
}
