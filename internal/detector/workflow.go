package detector

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/khanghh/kaudit/internal/audit"
	"github.com/khanghh/kaudit/model"
	"github.com/khanghh/kaudit/params"
)

// Investigations drives critical events through the investigation workflow.
// Every accepted transition is itself recorded as an audit event.
type Investigations struct {
	repo     Repository
	recorder audit.Recorder
	now      func() time.Time
}

func (s *Investigations) Get(ctx context.Context, id uint64) (*model.CriticalEvent, error) {
	return s.repo.Get(ctx, id)
}

// List returns one page of critical events, newest first.
func (s *Investigations) List(ctx context.Context, opts ListOptions) ([]*model.CriticalEvent, int64, error) {
	if opts.Limit <= 0 {
		opts.Limit = params.QueryDefaultPageSize
	}
	if opts.Limit > params.QueryMaxPageSize {
		opts.Limit = params.QueryMaxPageSize
	}
	if opts.Offset < 0 {
		opts.Offset = 0
	}
	return s.repo.List(ctx, opts)
}

// Acknowledge is allowed from detected as well as alerted, alerts may have
// failed on every channel.
func (s *Investigations) Acknowledge(ctx context.Context, id uint64, investigator string) (*model.CriticalEvent, error) {
	investigator = strings.TrimSpace(investigator)
	if investigator == "" {
		return nil, ErrInvestigatorRequired
	}
	now := s.now().UTC()
	return s.transition(ctx, id, investigator, model.CriticalStatusAcknowledged,
		[]model.CriticalStatus{model.CriticalStatusDetected, model.CriticalStatusAlerted},
		map[string]any{
			"status":          model.CriticalStatusAcknowledged,
			"acknowledged_by": investigator,
			"acknowledged_at": now,
		}, "")
}

func (s *Investigations) Resolve(ctx context.Context, id uint64, investigator, notes string) (*model.CriticalEvent, error) {
	investigator = strings.TrimSpace(investigator)
	notes = strings.TrimSpace(notes)
	if investigator == "" {
		return nil, ErrInvestigatorRequired
	}
	if notes == "" {
		return nil, ErrNotesRequired
	}
	now := s.now().UTC()
	return s.transition(ctx, id, investigator, model.CriticalStatusResolved,
		[]model.CriticalStatus{model.CriticalStatusAcknowledged},
		map[string]any{
			"status":           model.CriticalStatusResolved,
			"resolved_by":      investigator,
			"resolved_at":      now,
			"resolution_notes": notes,
		}, notes)
}

// MarkFalsePositive closes the event from any non-terminal status.
func (s *Investigations) MarkFalsePositive(ctx context.Context, id uint64, investigator, notes string) (*model.CriticalEvent, error) {
	investigator = strings.TrimSpace(investigator)
	if investigator == "" {
		return nil, ErrInvestigatorRequired
	}
	now := s.now().UTC()
	return s.transition(ctx, id, investigator, model.CriticalStatusFalsePositive,
		[]model.CriticalStatus{model.CriticalStatusDetected, model.CriticalStatusAlerted, model.CriticalStatusAcknowledged},
		map[string]any{
			"status":           model.CriticalStatusFalsePositive,
			"resolved_by":      investigator,
			"resolved_at":      now,
			"resolution_notes": strings.TrimSpace(notes),
		}, notes)
}

func (s *Investigations) transition(ctx context.Context, id uint64, investigator string, to model.CriticalStatus, from []model.CriticalStatus, updates map[string]any, notes string) (*model.CriticalEvent, error) {
	current, err := s.repo.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.repo.Transition(ctx, id, from, updates)
	if err != nil {
		return nil, err
	}
	if !ok {
		// reload, another investigator may have moved it meanwhile
		if latest, err := s.repo.Get(ctx, id); err == nil {
			current = latest
		}
		return nil, &TransitionError{ID: id, From: current.Status, To: to}
	}

	s.record(ctx, current, investigator, to, notes)
	return s.repo.Get(ctx, id)
}

func (s *Investigations) record(ctx context.Context, ce *model.CriticalEvent, investigator string, to model.CriticalStatus, notes string) {
	if s.recorder == nil {
		return
	}
	d, err := audit.DataChangeDraft(audit.DataChangeRecord{
		ActorID:     investigator,
		ActorType:   model.ActorTypeUser,
		Action:      "critical_event." + string(to),
		TargetType:  "critical_event",
		TargetID:    strconv.FormatUint(ce.ID, 10),
		TargetName:  ce.Rule,
		Before:      map[string]any{"status": ce.Status},
		After:       map[string]any{"status": to, "notes": notes},
		Fields:      []string{"status"},
		Sensitivity: model.SensitivityConfidential,
	})
	if err == nil {
		d.EventType = model.EventTypeSecurity
		d.Category = "investigation"
		d.ParentEventID = ce.SourceEventID
		_, err = s.recorder.Submit(ctx, d)
	}
	if err != nil && !errors.Is(err, context.Canceled) {
		slog.Error("Failed to record investigation step", "id", ce.ID, "status", to, "error", err)
	}
}

func NewInvestigations(repo Repository, recorder audit.Recorder, now func() time.Time) *Investigations {
	if now == nil {
		now = time.Now
	}
	return &Investigations{repo: repo, recorder: recorder, now: now}
}
