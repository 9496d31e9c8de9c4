package detector

import (
	"context"
	"errors"
	"time"

	"github.com/go-sql-driver/mysql"
	"github.com/khanghh/kaudit/model"
	"github.com/khanghh/kaudit/model/query"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type ListOptions struct {
	Status model.CriticalStatus
	Rule   string
	Since  time.Time
	Offset int
	Limit  int
}

type Repository interface {
	WithTx(tx *query.Query) Repository
	Create(ctx context.Context, ce *model.CriticalEvent) (bool, error)
	MarkAlerted(ctx context.Context, id uint64, alerted bool, at time.Time, failures []string) error
	Transition(ctx context.Context, id uint64, from []model.CriticalStatus, updates map[string]any) (bool, error)
	Get(ctx context.Context, id uint64) (*model.CriticalEvent, error)
	List(ctx context.Context, opts ListOptions) ([]*model.CriticalEvent, int64, error)
}

type repository struct {
	query *query.Query
}

func isDuplicateKey(err error) bool {
	var mysqlErr *mysql.MySQLError
	if errors.As(err, &mysqlErr) && mysqlErr.Number == 1062 {
		return true
	}
	return errors.Is(err, gorm.ErrDuplicatedKey)
}

// Create inserts ce unless a critical event with the same dedup key exists.
// It reports whether a row was inserted.
func (r *repository) Create(ctx context.Context, ce *model.CriticalEvent) (bool, error) {
	// the typed Create drops RowsAffected, which tells a skipped duplicate apart
	res := r.query.CriticalEvent.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "dedup_key"}}, DoNothing: true}).
		UnderlyingDB().
		Create(ce)
	if res.Error != nil {
		if isDuplicateKey(res.Error) {
			return false, nil
		}
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

func (r *repository) MarkAlerted(ctx context.Context, id uint64, alerted bool, at time.Time, failures []string) error {
	q := r.query.CriticalEvent
	updates := map[string]any{
		"alert_failures": datatypes.JSONSlice[string](failures),
	}
	if alerted {
		updates["status"] = model.CriticalStatusAlerted
		updates["alerted_at"] = at
	}
	_, err := q.WithContext(ctx).
		Where(q.ID.Eq(id), q.Status.Eq(string(model.CriticalStatusDetected))).
		Updates(updates)
	return err
}

// Transition applies updates only while the event is in one of the from
// statuses, so concurrent investigators cannot both win.
func (r *repository) Transition(ctx context.Context, id uint64, from []model.CriticalStatus, updates map[string]any) (bool, error) {
	q := r.query.CriticalEvent
	statuses := make([]string, len(from))
	for i, s := range from {
		statuses[i] = string(s)
	}
	info, err := q.WithContext(ctx).Where(q.ID.Eq(id), q.Status.In(statuses...)).Updates(updates)
	if err != nil {
		return false, err
	}
	return info.RowsAffected > 0, nil
}

func (r *repository) Get(ctx context.Context, id uint64) (*model.CriticalEvent, error) {
	q := r.query.CriticalEvent
	ce, err := q.WithContext(ctx).Where(q.ID.Eq(id)).Take()
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrCriticalEventNotFound
	}
	return ce, err
}

func (r *repository) List(ctx context.Context, opts ListOptions) ([]*model.CriticalEvent, int64, error) {
	q := r.query.CriticalEvent
	do := q.WithContext(ctx)
	if opts.Status != "" {
		do = do.Where(q.Status.Eq(string(opts.Status)))
	}
	if opts.Rule != "" {
		do = do.Where(q.Rule.Eq(opts.Rule))
	}
	if !opts.Since.IsZero() {
		do = do.Where(q.DetectedAt.Gte(opts.Since))
	}
	items, total, err := do.Order(q.DetectedAt.Desc(), q.ID.Desc()).FindByPage(opts.Offset, opts.Limit)
	if err != nil {
		return nil, 0, err
	}
	return items, total, nil
}

func (r *repository) WithTx(tx *query.Query) Repository {
	return NewRepository(tx)
}

func NewRepository(query *query.Query) Repository {
	return &repository{query}
}
