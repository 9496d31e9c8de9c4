package chain

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/khanghh/kaudit/model"
	"github.com/khanghh/kaudit/params"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newEvent(i int) *model.AuditEvent {
	return &model.AuditEvent{
		ID:          fmt.Sprintf("00000000-0000-4000-8000-%012d", i),
		Timestamp:   time.Date(2024, 1, 1, 12, 0, i, 0, time.UTC),
		EventType:   model.EventTypeAuthentication,
		Category:    "login",
		Severity:    model.SeverityInfo,
		ActorType:   model.ActorTypeUser,
		ActorID:     fmt.Sprintf("user-%d", i%3),
		Action:      "login",
		Result:      model.ResultSuccess,
		Sensitivity: model.SensitivityInternal,
	}
}

func appendN(t *testing.T, seq *Sequencer, n int) []*model.AuditEvent {
	t.Helper()
	events := make([]*model.AuditEvent, 0, n)
	for i := 0; i < n; i++ {
		ev := newEvent(i)
		require.NoError(t, seq.Append(ev, nil))
		events = append(events, ev)
	}
	return events
}

func TestSequencerBuildsValidChain(t *testing.T) {
	seq := NewSequencer("main", 0, "", nil)
	events := appendN(t, seq, 50)

	assert.Equal(t, params.GenesisHash, events[0].PreviousHash)
	assert.Equal(t, uint64(1), events[0].Seq)
	for i := 1; i < len(events); i++ {
		assert.Equal(t, events[i-1].EventHash, events[i].PreviousHash)
	}
	assert.Empty(t, Verify(events, ""))

	lastSeq, tail := seq.Tail()
	assert.Equal(t, uint64(50), lastSeq)
	assert.Equal(t, events[49].EventHash, tail)
}

func TestTamperingIsDetected(t *testing.T) {
	mutations := map[string]func(ev *model.AuditEvent){
		"action":      func(ev *model.AuditEvent) { ev.Action = "logout" },
		"actor":       func(ev *model.AuditEvent) { ev.ActorID = "mallory" },
		"result":      func(ev *model.AuditEvent) { ev.Result = model.ResultFailure },
		"timestamp":   func(ev *model.AuditEvent) { ev.Timestamp = ev.Timestamp.Add(time.Millisecond) },
		"severity":    func(ev *model.AuditEvent) { ev.Severity = model.SeverityDebug },
		"risk":        func(ev *model.AuditEvent) { ev.RiskScore = 99 },
		"after":       func(ev *model.AuditEvent) { ev.After = json.RawMessage(`{"role":"admin"}`) },
		"ip":          func(ev *model.AuditEvent) { ev.IP = "10.0.0.1" },
		"roles":       func(ev *model.AuditEvent) { ev.ActorRoles = []string{"admin"} },
		"sensitivity": func(ev *model.AuditEvent) { ev.Sensitivity = model.SensitivityRestricted },
	}
	for name, mutate := range mutations {
		t.Run(name, func(t *testing.T) {
			events := appendN(t, NewSequencer("main", 0, "", nil), 5)
			stored := events[2].EventHash
			mutate(events[2])
			assert.NotEqual(t, stored, ComputeHash(events[2]))

			violations := Verify(events, "")
			require.NotEmpty(t, violations)
			assert.Equal(t, 2, violations[0].Index)
			assert.Equal(t, ViolationHashMismatch, violations[0].Kind)
		})
	}
}

func TestBookkeepingFieldsAreNotHashed(t *testing.T) {
	events := appendN(t, NewSequencer("main", 0, "", nil), 3)
	now := time.Now()
	events[1].LegalHold = true
	events[1].ArchivedAt = &now
	events[1].CreatedAt = now
	assert.Empty(t, Verify(events, ""))
}

func TestCanonicalJSONIgnoresSnapshotKeyOrder(t *testing.T) {
	a := newEvent(1)
	b := newEvent(1)
	a.Before = json.RawMessage(`{"name":"alice","email":"a@example.com","n":12345678901234567890}`)
	b.Before = json.RawMessage(`{ "n": 12345678901234567890, "email":"a@example.com","name":"alice"}`)
	assert.Equal(t, ComputeHash(a), ComputeHash(b))
}

func TestCanonicalValueKeepsNumberLiterals(t *testing.T) {
	doc := []byte(`{ "qty": 1e2, "price": 19.90, "tags": ["a", 10.0] }`)
	canonical := CanonicalValue(doc)
	assert.Equal(t, `{"price":19.90,"qty":1e2,"tags":["a",10.0]}`, string(canonical))
	assert.Equal(t, canonical, CanonicalValue(canonical))
	assert.Equal(t, "null", string(CanonicalValue(nil)))
}

func TestVerifyReportsBrokenLinkAndGap(t *testing.T) {
	events := appendN(t, NewSequencer("main", 0, "", nil), 6)

	withGap := append(append([]*model.AuditEvent{}, events[:3]...), events[4:]...)
	violations := Verify(withGap, "")
	require.NotEmpty(t, violations)
	assert.Equal(t, 3, violations[0].Index)
	assert.Equal(t, ViolationSequenceGap, violations[0].Kind)

	var iv *IntegrityViolation
	require.True(t, errors.As(error(violations[0]), &iv))

	// window verification with the predecessor hash
	assert.Empty(t, Verify(events[3:], events[2].EventHash))
	broken := Verify(events[3:], events[1].EventHash)
	require.Len(t, broken, 1)
	assert.Equal(t, ViolationLinkBroken, broken[0].Kind)
}

func TestCommitRejectionDoesNotAdvanceTail(t *testing.T) {
	seq := NewSequencer("main", 0, "", nil)
	first := newEvent(1)
	require.NoError(t, seq.Append(first, nil))

	rejected := newEvent(2)
	err := seq.Append(rejected, func(*model.AuditEvent) error { return errors.New("buffer full") })
	require.Error(t, err)
	assert.Empty(t, rejected.EventHash)

	next := newEvent(3)
	require.NoError(t, seq.Append(next, nil))
	assert.Equal(t, uint64(2), next.Seq)
	assert.Empty(t, Verify([]*model.AuditEvent{first, next}, ""))
}

func TestConcurrentAppendsYieldSingleOrdering(t *testing.T) {
	seq := NewSequencer("main", 0, "", nil)
	var (
		mu        sync.Mutex
		committed []*model.AuditEvent
		wg        sync.WaitGroup
	)
	for i := 0; i < 200; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			ev := newEvent(i)
			err := seq.Append(ev, func(ev *model.AuditEvent) error {
				mu.Lock()
				committed = append(committed, ev)
				mu.Unlock()
				return nil
			})
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	require.Len(t, committed, 200)
	assert.Empty(t, Verify(committed, ""))
}

func TestSignerRoundTrip(t *testing.T) {
	signer, err := NewSigner("test-master-key")
	require.NoError(t, err)

	seq := NewSequencer("main", 0, "", signer)
	events := appendN(t, seq, 3)
	require.NotEmpty(t, events[0].Signature)

	verifier := Verifier{Signer: signer}
	assert.Empty(t, verifier.Verify(events, ""))

	other, err := NewSigner("another-key")
	require.NoError(t, err)
	violations := Verifier{Signer: other}.Verify(events, "")
	require.Len(t, violations, 3)
	assert.Equal(t, ViolationSignatureInvalid, violations[0].Kind)

	_, err = NewSigner("")
	assert.Error(t, err)
}

type memoryLoader map[string]*model.AuditEvent

func (m memoryLoader) LastInChain(_ context.Context, chain string) (*model.AuditEvent, error) {
	return m[chain], nil
}

func TestRegistryRestoresTailAndPartitions(t *testing.T) {
	prev := appendN(t, NewSequencer("main", 0, "", nil), 4)
	loader := memoryLoader{"main": prev[3]}

	reg, err := NewRegistry(ModeGlobal, "", loader, nil)
	require.NoError(t, err)
	ev := newEvent(10)
	ev.Category = "billing"
	require.NoError(t, reg.Append(context.Background(), ev, nil))
	assert.Equal(t, "main", ev.Chain)
	assert.Equal(t, uint64(5), ev.Seq)
	assert.Empty(t, Verify(append(prev, ev), ""))

	byCategory, err := NewRegistry(ModeCategory, "", loader, nil)
	require.NoError(t, err)
	billing := newEvent(11)
	billing.Category = "billing"
	require.NoError(t, byCategory.Append(context.Background(), billing, nil))
	assert.Equal(t, "billing", billing.Chain)
	assert.Equal(t, uint64(1), billing.Seq)
	assert.Equal(t, params.GenesisHash, billing.PreviousHash)

	_, err = NewRegistry("sharded", "", nil, nil)
	assert.ErrorIs(t, err, ErrUnknownMode)
}

func TestLockedChainHasOneOwner(t *testing.T) {
	ctx := context.Background()
	locker := NewMemoryLocker()
	loader := memoryLoader{}

	server, err := NewRegistry(ModeGlobal, "main", loader, nil, WithLocker(locker))
	require.NoError(t, err)
	cli, err := NewRegistry(ModeGlobal, "main", loader, nil, WithLocker(locker))
	require.NoError(t, err)

	first := newEvent(1)
	require.NoError(t, server.Append(ctx, first, func(ev *model.AuditEvent) error {
		loader["main"] = ev
		return nil
	}))

	assert.ErrorIs(t, cli.Claim(ctx, "retention"), ErrChainLocked)
	second := newEvent(2)
	assert.ErrorIs(t, cli.Append(ctx, second, nil), ErrChainLocked)
	assert.Empty(t, second.EventHash)

	require.NoError(t, server.Close())
	assert.ErrorIs(t, server.Append(ctx, newEvent(3), nil), ErrClosed)

	// the next owner resumes from the persisted tail
	require.NoError(t, cli.Append(ctx, second, nil))
	assert.Equal(t, uint64(2), second.Seq)
	assert.Empty(t, Verify([]*model.AuditEvent{first, second}, ""))
	require.NoError(t, cli.Close())
}
