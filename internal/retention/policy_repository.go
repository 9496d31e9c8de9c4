package retention

import (
	"context"
	"errors"
	"time"

	"github.com/khanghh/kaudit/model"
	"github.com/khanghh/kaudit/model/query"
	"gorm.io/gorm"
)

type PolicyRepository interface {
	WithTx(tx *query.Query) PolicyRepository
	List(ctx context.Context, activeOnly bool) ([]*model.RetentionPolicy, error)
	Get(ctx context.Context, id uint64) (*model.RetentionPolicy, error)
	Upsert(ctx context.Context, p *model.RetentionPolicy) (*model.RetentionPolicy, error)
	Delete(ctx context.Context, id uint64) (*model.RetentionPolicy, error)
}

type policyRepository struct {
	query *query.Query
}

// List returns policies highest priority first.
func (r *policyRepository) List(ctx context.Context, activeOnly bool) ([]*model.RetentionPolicy, error) {
	q := r.query.RetentionPolicy
	do := q.WithContext(ctx)
	if activeOnly {
		do = do.Where(q.Active.Is(true))
	}
	return do.Order(q.Priority.Desc(), q.ID).Find()
}

func (r *policyRepository) Get(ctx context.Context, id uint64) (*model.RetentionPolicy, error) {
	q := r.query.RetentionPolicy
	p, err := q.WithContext(ctx).Where(q.ID.Eq(id)).Take()
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrPolicyNotFound
	}
	return p, err
}

// Upsert creates p or replaces the policy with the same name. It returns the
// replaced policy, nil when p is new.
func (r *policyRepository) Upsert(ctx context.Context, p *model.RetentionPolicy) (*model.RetentionPolicy, error) {
	var previous *model.RetentionPolicy
	err := r.query.Transaction(func(tx *query.Query) error {
		q := tx.RetentionPolicy
		existing, err := q.WithContext(ctx).Where(q.Name.Eq(p.Name)).Take()
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Select("*") keeps zero values such as active=false
			return q.WithContext(ctx).UnderlyingDB().Select("*").Create(p).Error
		}
		if err != nil {
			return err
		}
		previous = existing
		p.ID = existing.ID
		p.CreatedAt = existing.CreatedAt
		p.UpdatedAt = time.Now()
		_, err = q.WithContext(ctx).Where(q.ID.Eq(existing.ID)).UpdateSimple(
			q.EventType.Value(string(p.EventType)),
			q.Category.Value(p.Category),
			q.RetentionDays.Value(p.RetentionDays),
			q.ArchiveAfterDays.Value(p.ArchiveAfterDays),
			q.DeleteAfterDays.Value(p.DeleteAfterDays),
			q.LegalHoldOverride.Value(p.LegalHoldOverride),
			q.Priority.Value(p.Priority),
			q.Active.Value(p.Active),
			q.UpdatedAt.Value(p.UpdatedAt),
		)
		return err
	})
	if err != nil {
		return nil, err
	}
	return previous, nil
}

func (r *policyRepository) Delete(ctx context.Context, id uint64) (*model.RetentionPolicy, error) {
	var deleted *model.RetentionPolicy
	err := r.query.Transaction(func(tx *query.Query) error {
		var err error
		if deleted, err = r.WithTx(tx).Get(ctx, id); err != nil {
			return err
		}
		q := tx.RetentionPolicy
		_, err = q.WithContext(ctx).Where(q.ID.Eq(id)).Delete()
		return err
	})
	if err != nil {
		return nil, err
	}
	return deleted, nil
}

func (r *policyRepository) WithTx(tx *query.Query) PolicyRepository {
	return NewPolicyRepository(tx)
}

func NewPolicyRepository(query *query.Query) PolicyRepository {
	return &policyRepository{query}
}
