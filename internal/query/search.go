package query

import (
	"context"
	"strings"
	"time"

	"github.com/khanghh/kaudit/model"
	"github.com/khanghh/kaudit/params"
	"gorm.io/gorm"
)

type IntegrityStatus string

const (
	IntegrityValid  IntegrityStatus = "integrity_valid"
	IntegrityBroken IntegrityStatus = "integrity_broken"
)

type Filter struct {
	From        time.Time
	To          time.Time
	EventTypes  []model.EventType
	ActorID     string
	ActorType   model.ActorType
	Category    string
	MinSeverity *model.Severity
	Result      model.Result
	Chain       string
	Text        string
	Archive     bool // search the archive table instead of primary storage
	Page        int
	PageSize    int
	Ascending   bool
	Verify      bool
}

func (f *Filter) normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize <= 0 {
		f.PageSize = params.QueryDefaultPageSize
	}
	if f.PageSize > params.QueryMaxPageSize {
		f.PageSize = params.QueryMaxPageSize
	}
}

func (f *Filter) scope(tx *gorm.DB) *gorm.DB {
	if !f.From.IsZero() {
		tx = tx.Where("timestamp >= ?", f.From.UTC())
	}
	if !f.To.IsZero() {
		tx = tx.Where("timestamp < ?", f.To.UTC())
	}
	if len(f.EventTypes) > 0 {
		tx = tx.Where("event_type IN ?", f.EventTypes)
	}
	if f.ActorID != "" {
		tx = tx.Where("actor_id = ?", f.ActorID)
	}
	if f.ActorType != "" {
		tx = tx.Where("actor_type = ?", f.ActorType)
	}
	if f.Category != "" {
		tx = tx.Where("category = ?", f.Category)
	}
	if f.MinSeverity != nil {
		tx = tx.Where("severity >= ?", *f.MinSeverity)
	}
	if f.Result != "" {
		tx = tx.Where("result = ?", f.Result)
	}
	if f.Chain != "" {
		tx = tx.Where("chain = ?", f.Chain)
	}
	if text := strings.TrimSpace(f.Text); text != "" {
		like := "%" + escapeLike(text) + "%"
		tx = tx.Where(
			"(action LIKE ? ESCAPE '!' OR target_name LIKE ? ESCAPE '!' OR target_id LIKE ? ESCAPE '!' OR actor_id LIKE ? ESCAPE '!' OR error_message LIKE ? ESCAPE '!')",
			like, like, like, like, like,
		)
	}
	return tx
}

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")

func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

type Result struct {
	*model.AuditEvent
	Integrity IntegrityStatus `json:"integrity,omitempty"`
}

type Page struct {
	Items    []*Result `json:"items"`
	Total    int64     `json:"total"`
	Page     int       `json:"page"`
	PageSize int       `json:"pageSize"`
}

// Search returns one page of events matching f, newest first unless
// f.Ascending is set.
func (e *Engine) Search(ctx context.Context, f Filter) (*Page, error) {
	f.normalize()
	var countModel any = &model.AuditEvent{}
	if f.Archive {
		countModel = &model.AuditEventArchive{}
	}

	var total int64
	if err := e.reader(ctx).Model(countModel).Scopes(f.scope).Count(&total).Error; err != nil {
		return nil, err
	}

	order := "timestamp DESC, seq DESC"
	if f.Ascending {
		order = "timestamp ASC, seq ASC"
	}
	events, err := findEvents(e.reader(ctx), f.Archive, func(tx *gorm.DB) *gorm.DB {
		return f.scope(tx).Order(order).Offset((f.Page - 1) * f.PageSize).Limit(f.PageSize)
	})
	if err != nil {
		return nil, err
	}

	page := &Page{
		Items:    make([]*Result, len(events)),
		Total:    total,
		Page:     f.Page,
		PageSize: f.PageSize,
	}
	for i, ev := range events {
		page.Items[i] = &Result{AuditEvent: ev}
	}
	if f.Verify {
		if err := e.annotate(ctx, page.Items); err != nil {
			return nil, err
		}
	}
	return page, nil
}
