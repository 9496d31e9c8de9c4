package audit

import (
	"context"
	"errors"
	"log/slog"

	"github.com/khanghh/kaudit/model"
	"github.com/khanghh/kaudit/params"
	"gorm.io/gorm"
)

type EventRepository interface {
	WriteBatch(ctx context.Context, events []*model.AuditEvent) error
	LastInChain(ctx context.Context, chain string) (*model.AuditEvent, error)
	GetByID(ctx context.Context, id string) (*model.AuditEvent, error)
}

type eventRepository struct {
	db *gorm.DB
}

type storedHash struct {
	ID        string
	EventHash string
}

// WriteBatch inserts events in one transaction. Events whose id is already
// stored are skipped, so replaying a batch is harmless. Any other conflict,
// such as a second event at the same chain position, fails the batch.
func (r *eventRepository) WriteBatch(ctx context.Context, events []*model.AuditEvent) error {
	if len(events) == 0 {
		return nil
	}
	ids := make([]string, len(events))
	for i, ev := range events {
		ids[i] = ev.ID
	}
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		known := make(map[string]string, len(events))
		for _, table := range []any{&model.AuditEvent{}, &model.AuditEventArchive{}} {
			var stored []storedHash
			err := tx.Model(table).Select("id", "event_hash").Where("id IN ?", ids).Find(&stored).Error
			if err != nil {
				return err
			}
			for _, row := range stored {
				known[row.ID] = row.EventHash
			}
		}

		fresh := make([]*model.AuditEvent, 0, len(events))
		for _, ev := range events {
			hash, ok := known[ev.ID]
			if !ok {
				fresh = append(fresh, ev)
				continue
			}
			if hash != ev.EventHash {
				slog.Error("Replayed event differs from the stored copy", "event_id", ev.ID, "stored", hash, "replayed", ev.EventHash)
			}
		}
		if len(fresh) == 0 {
			return nil
		}
		return tx.CreateInBatches(fresh, params.WriterBatchSize).Error
	})
}

// LastInChain looks at both the primary and the archive table, the tail may
// already be archived and purged.
func (r *eventRepository) LastInChain(ctx context.Context, chain string) (*model.AuditEvent, error) {
	var primary model.AuditEvent
	err := r.db.WithContext(ctx).Where("chain = ?", chain).Order("seq DESC").Take(&primary).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	found := err == nil

	var archived model.AuditEventArchive
	err = r.db.WithContext(ctx).Where("chain = ?", chain).Order("seq DESC").Take(&archived).Error
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}
	if err == nil && (!found || archived.Seq > primary.Seq) {
		return &archived.AuditEvent, nil
	}
	if found {
		return &primary, nil
	}
	return nil, nil
}

func (r *eventRepository) GetByID(ctx context.Context, id string) (*model.AuditEvent, error) {
	var ev model.AuditEvent
	err := r.db.WithContext(ctx).Where("id = ?", id).Take(&ev).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		var archived model.AuditEventArchive
		err = r.db.WithContext(ctx).Where("id = ?", id).Take(&archived).Error
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrEventNotFound
		}
		if err != nil {
			return nil, err
		}
		return &archived.AuditEvent, nil
	}
	if err != nil {
		return nil, err
	}
	return &ev, nil
}

func NewEventRepository(db *gorm.DB) EventRepository {
	return &eventRepository{db: db}
}
