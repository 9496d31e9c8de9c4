package writer

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/khanghh/kaudit/internal/chain"
	"github.com/khanghh/kaudit/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type memStore struct {
	mu      sync.Mutex
	batches [][]*model.AuditEvent
	writes  map[string]int
	failing bool
	gate    chan struct{}
	entered chan struct{}
}

func newMemStore() *memStore {
	return &memStore{writes: make(map[string]int)}
}

func (s *memStore) WriteBatch(ctx context.Context, events []*model.AuditEvent) error {
	s.mu.Lock()
	gate, entered := s.gate, s.entered
	s.gate, s.entered = nil, nil
	s.mu.Unlock()
	if gate != nil {
		close(entered)
		<-gate
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.failing {
		return errors.New("connection refused")
	}
	batch := make([]*model.AuditEvent, 0, len(events))
	for _, ev := range events {
		s.writes[ev.ID]++
		if s.writes[ev.ID] == 1 {
			batch = append(batch, ev)
		}
	}
	s.batches = append(s.batches, batch)
	return nil
}

func (s *memStore) batchIDs() [][]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([][]string, 0, len(s.batches))
	for _, b := range s.batches {
		ids := make([]string, 0, len(b))
		for _, ev := range b {
			ids = append(ids, ev.ID)
		}
		out = append(out, ids)
	}
	return out
}

func (s *memStore) stored() []*model.AuditEvent {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []*model.AuditEvent
	for _, b := range s.batches {
		out = append(out, b...)
	}
	return out
}

func (s *memStore) setFailing(v bool) {
	s.mu.Lock()
	s.failing = v
	s.mu.Unlock()
}

func newTestWriter(t *testing.T, store BatchStore, cfg Config) *Writer {
	t.Helper()
	if cfg.FlushInterval == 0 {
		cfg.FlushInterval = time.Hour
	}
	if cfg.FallbackPath == "" {
		cfg.FallbackPath = filepath.Join(t.TempDir(), "fallback.jsonl")
	}
	w, err := New(cfg, store)
	require.NoError(t, err)
	return w
}

func event(id string, sev model.Severity) *model.AuditEvent {
	return &model.AuditEvent{
		ID:          id,
		Timestamp:   time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC),
		EventType:   model.EventTypeDataAccess,
		Category:    "records",
		Severity:    sev,
		ActorType:   model.ActorTypeUser,
		ActorID:     "alice",
		Action:      "read",
		Result:      model.ResultSuccess,
		Sensitivity: model.SensitivityInternal,
	}
}

func TestCriticalEventFlushesPrefixImmediately(t *testing.T) {
	store := newMemStore()
	w := newTestWriter(t, store, Config{})
	w.Start()
	defer w.Close(context.Background())

	seq := chain.NewSequencer("main", 0, "", nil)
	commit := func(ev *model.AuditEvent) error { return w.Enqueue(ev, nil) }

	require.NoError(t, seq.Append(event("A", model.SeverityInfo), commit))
	require.NoError(t, seq.Append(event("B", model.SeverityCritical), commit))
	require.Eventually(t, func() bool { return len(store.batchIDs()) == 1 }, 2*time.Second, 5*time.Millisecond)
	assert.Equal(t, [][]string{{"A", "B"}}, store.batchIDs())

	require.NoError(t, seq.Append(event("C", model.SeverityInfo), commit))
	require.NoError(t, w.Flush(context.Background()))
	assert.Equal(t, [][]string{{"A", "B"}, {"C"}}, store.batchIDs())
	assert.Empty(t, chain.Verify(store.stored(), ""))
}

func TestForcedFlushDuringTimedFlushPersistsOnce(t *testing.T) {
	store := newMemStore()
	store.gate = make(chan struct{})
	store.entered = make(chan struct{})
	entered, gate := store.entered, store.gate

	w := newTestWriter(t, store, Config{})
	w.Start()
	defer w.Close(context.Background())

	require.NoError(t, w.Enqueue(event("e1", model.SeverityInfo), nil))
	require.NoError(t, w.Enqueue(event("e2", model.SeverityInfo), nil))

	timed := make(chan error, 1)
	go func() { timed <- w.Flush(context.Background()) }()
	<-entered

	require.NoError(t, w.Enqueue(event("e3", model.SeverityEmergency), nil))
	require.NoError(t, w.Enqueue(event("e4", model.SeverityInfo), nil))
	close(gate)
	require.NoError(t, <-timed)

	require.Eventually(t, func() bool { return len(store.batchIDs()) == 2 }, 2*time.Second, 5*time.Millisecond)
	require.NoError(t, w.Flush(context.Background()))

	assert.Equal(t, [][]string{{"e1", "e2"}, {"e3"}, {"e4"}}, store.batchIDs())
	for id, n := range store.writes {
		assert.Equal(t, 1, n, "event %s written more than once", id)
	}
	assert.Zero(t, w.Len())
}

func TestFailedBatchIsRequeuedThenFallsBack(t *testing.T) {
	store := newMemStore()
	store.setFailing(true)
	w := newTestWriter(t, store, Config{MaxRetries: 2})
	ctx := context.Background()

	done := make(chan error, 1)
	require.NoError(t, w.Enqueue(event("e1", model.SeverityInfo), done))

	var perr *PersistenceError
	err := w.Flush(ctx)
	require.ErrorAs(t, err, &perr)
	assert.False(t, perr.Exhausted)
	assert.Equal(t, 1, w.Len())

	err = w.Flush(ctx)
	require.ErrorAs(t, err, &perr)
	assert.True(t, perr.Exhausted)
	assert.Zero(t, w.Len())
	assert.NoError(t, <-done)

	logged, err := w.fallback.readAll()
	require.NoError(t, err)
	require.Len(t, logged, 1)
	assert.Equal(t, "e1", logged[0].ID)

	store.setFailing(false)
	require.NoError(t, w.Enqueue(event("e2", model.SeverityInfo), nil))
	require.NoError(t, w.Flush(ctx))

	assert.ElementsMatch(t, []string{"e1", "e2"}, idsOf(store.stored()))
	assert.True(t, w.fallback.Empty())
}

func TestRequeuedBatchKeepsOrder(t *testing.T) {
	store := newMemStore()
	store.setFailing(true)
	w := newTestWriter(t, store, Config{MaxRetries: 10})
	ctx := context.Background()

	require.NoError(t, w.Enqueue(event("e1", model.SeverityInfo), nil))
	require.Error(t, w.Flush(ctx))
	require.NoError(t, w.Enqueue(event("e2", model.SeverityInfo), nil))

	store.setFailing(false)
	require.NoError(t, w.Flush(ctx))
	assert.Equal(t, [][]string{{"e1", "e2"}}, store.batchIDs())
}

func TestEnqueueAppliesBackpressure(t *testing.T) {
	w := newTestWriter(t, newMemStore(), Config{MaxBuffer: 2})
	require.NoError(t, w.Enqueue(event("e1", model.SeverityInfo), nil))
	require.NoError(t, w.Enqueue(event("e2", model.SeverityInfo), nil))
	assert.ErrorIs(t, w.Enqueue(event("e3", model.SeverityInfo), nil), ErrOverloaded)
}

func TestCloseDrainsAndRejects(t *testing.T) {
	store := newMemStore()
	w := newTestWriter(t, store, Config{})
	w.Start()

	require.NoError(t, w.Enqueue(event("e1", model.SeverityInfo), nil))
	require.NoError(t, w.Close(context.Background()))
	assert.Equal(t, []string{"e1"}, idsOf(store.stored()))
	assert.ErrorIs(t, w.Enqueue(event("e2", model.SeverityInfo), nil), ErrClosed)
}

func TestReconcileReplaysFallbackIdempotently(t *testing.T) {
	store := newMemStore()
	w := newTestWriter(t, store, Config{})
	ctx := context.Background()

	require.NoError(t, w.fallback.Append([]*model.AuditEvent{event("e1", model.SeverityInfo), event("e2", model.SeverityInfo)}))
	require.NoError(t, w.Reconcile(ctx))
	require.NoError(t, w.fallback.Append([]*model.AuditEvent{event("e1", model.SeverityInfo)}))
	require.NoError(t, w.Reconcile(ctx))

	assert.ElementsMatch(t, []string{"e1", "e2"}, idsOf(store.stored()))
	assert.True(t, w.fallback.Empty())
}

func TestJournalReplaysAfterCrash(t *testing.T) {
	ctx := context.Background()
	cfg := Config{FallbackPath: filepath.Join(t.TempDir(), "fallback.jsonl")}
	crashed := newTestWriter(t, newMemStore(), cfg)

	require.NoError(t, crashed.Enqueue(event("e1", model.SeverityInfo), nil))
	require.NoError(t, crashed.Enqueue(event("e2", model.SeverityInfo), nil))
	// the process dies here without Flush or Close

	store := newMemStore()
	restarted := newTestWriter(t, store, cfg)
	require.NoError(t, restarted.Reconcile(ctx))
	assert.Equal(t, [][]string{{"e1", "e2"}}, store.batchIDs())
	assert.True(t, restarted.journal.Empty())

	// a second replay finds nothing left
	require.NoError(t, restarted.Reconcile(ctx))
	assert.Len(t, store.batchIDs(), 1)
}

func TestJournalShrinksAfterFlush(t *testing.T) {
	ctx := context.Background()
	store := newMemStore()
	w := newTestWriter(t, store, Config{})

	require.NoError(t, w.Enqueue(event("e1", model.SeverityInfo), nil))
	require.NoError(t, w.Enqueue(event("e2", model.SeverityInfo), nil))
	journaled, err := w.journal.readAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"e1", "e2"}, idsOf(journaled))

	require.NoError(t, w.Flush(ctx))
	assert.True(t, w.journal.Empty())

	require.NoError(t, w.Enqueue(event("e3", model.SeverityInfo), nil))
	journaled, err = w.journal.readAll()
	require.NoError(t, err)
	assert.Equal(t, []string{"e3"}, idsOf(journaled))
}

func TestJournalFailureRejectsEvent(t *testing.T) {
	dir := t.TempDir()
	w := newTestWriter(t, newMemStore(), Config{JournalPath: filepath.Join(dir, "journal.jsonl")})
	// a directory in place of the journal file cannot be opened for append
	require.NoError(t, os.Mkdir(filepath.Join(dir, "journal.jsonl"), 0o700))

	assert.Error(t, w.Enqueue(event("e1", model.SeverityInfo), nil))
	assert.Zero(t, w.Len())
}

func idsOf(events []*model.AuditEvent) []string {
	ids := make([]string, 0, len(events))
	for _, ev := range events {
		ids = append(ids, ev.ID)
	}
	return ids
}
