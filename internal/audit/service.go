package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/khanghh/kaudit/internal/chain"
	"github.com/khanghh/kaudit/internal/metrics"
	"github.com/khanghh/kaudit/internal/risk"
	"github.com/khanghh/kaudit/model"
)

// Recorder is the ingestion interface used by producers.
type Recorder interface {
	Submit(ctx context.Context, d *Draft) (string, error)
	SubmitSync(ctx context.Context, d *Draft) (string, error)
}

// EventWriter admits chained events for persistence.
type EventWriter interface {
	Enqueue(ev *model.AuditEvent, done chan<- error) error
	Flush(ctx context.Context) error
}

// EventObserver receives every admitted event after chaining. Observe must not
// block.
type EventObserver interface {
	Observe(ev *model.AuditEvent)
}

type Service struct {
	chains    *chain.Registry
	scorer    *risk.Scorer
	history   risk.HistoryStore
	writer    EventWriter
	ids       *IDGuard
	observers []EventObserver
	now       func() time.Time
	newID     func() string
}

// Submit normalizes, scores and chains d, then admits it to the writer. It
// returns once the event is buffered, not once it is durable.
func (s *Service) Submit(ctx context.Context, d *Draft) (string, error) {
	ev, err := s.submit(ctx, d, nil)
	if err != nil {
		return "", err
	}
	return ev.ID, nil
}

// SubmitSync returns only after the event is durable, in storage or in the
// fallback log.
func (s *Service) SubmitSync(ctx context.Context, d *Draft) (string, error) {
	done := make(chan error, 1)
	ev, err := s.submit(ctx, d, done)
	if err != nil {
		return "", err
	}
	if err := s.writer.Flush(ctx); err != nil {
		slog.Warn("Synchronous flush failed, waiting for retry", "event_id", ev.ID, "error", err)
	}
	select {
	case err := <-done:
		return ev.ID, err
	case <-ctx.Done():
		return ev.ID, ctx.Err()
	}
}

func (s *Service) submit(ctx context.Context, d *Draft, done chan<- error) (*model.AuditEvent, error) {
	ev, err := Normalize(d, RequestContextFrom(ctx), s.now(), s.newID)
	if err != nil {
		metrics.Inc(metrics.EventsRejected, metrics.L("reason", "invalid"))
		return nil, err
	}
	// generated ids are fresh, only producer supplied ones can repeat
	reserved := d.ID != ""
	if reserved {
		if err := s.ids.Reserve(ctx, ev.ID); err != nil {
			if errors.Is(err, ErrDuplicateEvent) {
				metrics.Inc(metrics.EventsRejected, metrics.L("reason", "duplicate"))
			}
			return nil, err
		}
	}

	history, err := s.history.Snapshot(ctx, ev)
	if err != nil {
		slog.Warn("Risk history unavailable, scoring without it", "event_id", ev.ID, "error", err)
	}
	ev.RiskScore = s.scorer.Score(ev, history)

	err = s.chains.Append(ctx, ev, func(ev *model.AuditEvent) error {
		return s.writer.Enqueue(ev, done)
	})
	if err != nil {
		if reserved {
			s.ids.Release(ctx, ev.ID)
		}
		if errors.Is(err, ErrOverloaded) {
			metrics.Inc(metrics.EventsRejected, metrics.L("reason", "overloaded"))
			return nil, err
		}
		return nil, fmt.Errorf("admit event: %w", err)
	}

	if err := s.history.Observe(ctx, ev); err != nil {
		slog.Warn("Failed to update risk history", "event_id", ev.ID, "error", err)
	}
	for _, o := range s.observers {
		o.Observe(ev)
	}
	metrics.Inc(metrics.EventsSubmitted, metrics.L("type", string(ev.EventType)))
	slog.Debug("Audit event admitted", "event_id", ev.ID, "chain", ev.Chain, "seq", ev.Seq, "risk", ev.RiskScore)
	return ev, nil
}

// AddObserver registers o for every subsequently admitted event. It is not
// safe to call concurrently with Submit.
func (s *Service) AddObserver(o EventObserver) {
	s.observers = append(s.observers, o)
}

type ServiceOption func(*Service)

func WithClock(now func() time.Time) ServiceOption {
	return func(s *Service) { s.now = now }
}

func WithIDGenerator(newID func() string) ServiceOption {
	return func(s *Service) { s.newID = newID }
}

// WithIDGuard shares id reservations across nodes. Without it reservations
// are kept in process and stored events are not consulted.
func WithIDGuard(g *IDGuard) ServiceOption {
	return func(s *Service) { s.ids = g }
}

func NewService(chains *chain.Registry, scorer *risk.Scorer, history risk.HistoryStore, writer EventWriter, opts ...ServiceOption) *Service {
	s := &Service{
		chains:  chains,
		scorer:  scorer,
		history: history,
		writer:  writer,
		ids:     NewIDGuard(nil, nil),
		now:     time.Now,
		newID:   func() string { return uuid.NewString() },
	}
	if s.history == nil {
		s.history = risk.NoHistory()
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}
