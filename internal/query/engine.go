package query

import (
	"context"
	"time"

	"github.com/khanghh/kaudit/internal/audit"
	"github.com/khanghh/kaudit/internal/chain"
	"github.com/khanghh/kaudit/model"
	"gorm.io/gorm"
	"gorm.io/plugin/dbresolver"
)

// Engine answers searches, integrity checks and compliance reports. It holds
// no mutable state and is safe for concurrent use.
type Engine struct {
	db           *gorm.DB
	verifier     chain.Verifier
	defaultChain string
	recorder     audit.Recorder
	now          func() time.Time
}

// reader routes a query to a read replica when one is configured.
func (e *Engine) reader(ctx context.Context) *gorm.DB {
	return e.db.WithContext(ctx).Clauses(dbresolver.Read)
}

// findEvents loads rows matching scope from the primary or the archive table.
func findEvents(tx *gorm.DB, archive bool, scope func(*gorm.DB) *gorm.DB) ([]*model.AuditEvent, error) {
	if !archive {
		var events []*model.AuditEvent
		err := tx.Scopes(scope).Find(&events).Error
		return events, err
	}
	var rows []*model.AuditEventArchive
	if err := tx.Scopes(scope).Find(&rows).Error; err != nil {
		return nil, err
	}
	events := make([]*model.AuditEvent, len(rows))
	for i, row := range rows {
		events[i] = &row.AuditEvent
	}
	return events, nil
}

type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) { e.now = now }
}

func NewEngine(db *gorm.DB, signer *chain.Signer, defaultChain string, recorder audit.Recorder, opts ...Option) *Engine {
	e := &Engine{
		db:           db,
		verifier:     chain.Verifier{Signer: signer},
		defaultChain: defaultChain,
		recorder:     recorder,
		now:          time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}
