package audit

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/khanghh/kaudit/internal/store"
	"github.com/khanghh/kaudit/model"
	"github.com/khanghh/kaudit/params"
)

// EventLookup finds stored events, primary or archived.
type EventLookup interface {
	GetByID(ctx context.Context, id string) (*model.AuditEvent, error)
}

// IDGuard makes sure a producer supplied id is chained at most once. An id is
// reserved in the shared store before it is chained, which covers events that
// are still buffered, and checked against storage for older ones.
type IDGuard struct {
	markers store.Storage
	events  EventLookup
	ttl     time.Duration

	mu    sync.Mutex
	local map[string]struct{} // reservations when no shared store is given
}

// Reserve claims id. It returns a DuplicateEventError when the id is taken.
func (g *IDGuard) Reserve(ctx context.Context, id string) error {
	first, err := g.mark(ctx, id)
	if err != nil {
		return fmt.Errorf("reserve event id: %w", err)
	}
	if !first {
		return &DuplicateEventError{ID: id}
	}
	if g.events == nil {
		return nil
	}
	_, err = g.events.GetByID(ctx, id)
	if err == nil {
		return &DuplicateEventError{ID: id}
	}
	if !errors.Is(err, ErrEventNotFound) {
		g.Release(ctx, id)
		return fmt.Errorf("look up event id: %w", err)
	}
	return nil
}

// Release drops a reservation for an event that was not admitted.
func (g *IDGuard) Release(ctx context.Context, id string) {
	if g.markers == nil {
		g.mu.Lock()
		delete(g.local, id)
		g.mu.Unlock()
		return
	}
	if err := g.markers.Delete(ctx, id); err != nil && !errors.Is(err, store.ErrNotFound) {
		slog.Warn("Failed to release event id", "event_id", id, "error", err)
	}
}

func (g *IDGuard) mark(ctx context.Context, id string) (bool, error) {
	if g.markers != nil {
		return g.markers.SetNX(ctx, id, 1, g.ttl)
	}
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, ok := g.local[id]; ok {
		return false, nil
	}
	g.local[id] = struct{}{}
	return true, nil
}

// NewIDGuard reserves ids in markers and checks them against events. Either
// may be nil, a nil markers keeps reservations in process.
func NewIDGuard(markers store.Storage, events EventLookup) *IDGuard {
	g := &IDGuard{
		events: events,
		ttl:    params.EventIDReservationTTL,
		local:  make(map[string]struct{}),
	}
	if markers != nil {
		g.markers = store.StorageWithPrefix(markers, params.EventIDKeyPrefix)
	}
	return g
}
