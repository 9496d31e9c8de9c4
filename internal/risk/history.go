package risk

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/khanghh/kaudit/internal/store"
	"github.com/khanghh/kaudit/model"
	"github.com/khanghh/kaudit/params"
)

// HistoryStore supplies History snapshots and learns from admitted events.
type HistoryStore interface {
	Snapshot(ctx context.Context, ev *model.AuditEvent) (History, error)
	Observe(ctx context.Context, ev *model.AuditEvent) error
}

const (
	fieldTotal  = "total"
	hourPrefix  = "h"
	geoPrefix   = "geo:"
	fieldLastAt = "last_at"
)

type redisHistory struct {
	profiles store.Storage
	failures store.Storage
	window   time.Duration
	maxAge   time.Duration
}

// Subject identifies whose history an event belongs to.
func Subject(ev *model.AuditEvent) string {
	if ev.ActorID != "" && ev.ActorType != model.ActorTypeAnonymous {
		return ev.ActorID
	}
	if ev.IP != "" {
		return "ip:" + ev.IP
	}
	return ""
}

func (r *redisHistory) Snapshot(ctx context.Context, ev *model.AuditEvent) (History, error) {
	var h History
	subject := Subject(ev)
	if subject == "" {
		return h, nil
	}

	failures, err := r.failures.WindowCount(ctx, subject, ev.Timestamp, r.window)
	if err != nil {
		return h, fmt.Errorf("count auth failures: %w", err)
	}
	h.RecentAuthFailures = failures

	fields, err := r.profiles.GetAll(ctx, subject)
	if err != nil {
		return h, fmt.Errorf("load actor profile: %w", err)
	}
	h.KnownCountries = make(map[string]struct{})
	for field, raw := range fields {
		switch {
		case field == fieldTotal:
			h.TotalEvents, _ = strconv.ParseInt(raw, 10, 64)
		case strings.HasPrefix(field, geoPrefix):
			h.KnownCountries[strings.TrimPrefix(field, geoPrefix)] = struct{}{}
		case strings.HasPrefix(field, hourPrefix):
			hour, err := strconv.Atoi(strings.TrimPrefix(field, hourPrefix))
			if err != nil || hour < 0 || hour > 23 {
				continue
			}
			h.HourCounts[hour], _ = strconv.ParseInt(raw, 10, 64)
		}
	}
	return h, nil
}

func (r *redisHistory) Observe(ctx context.Context, ev *model.AuditEvent) error {
	subject := Subject(ev)
	if subject == "" {
		return nil
	}
	if ev.EventType == model.EventTypeAuthentication && ev.Result.Failed() {
		if _, err := r.failures.WindowAdd(ctx, subject, ev.ID, ev.Timestamp, r.window); err != nil {
			return fmt.Errorf("record auth failure: %w", err)
		}
	}
	if _, err := r.profiles.IncrAttr(ctx, subject, fieldTotal, 1); err != nil {
		return fmt.Errorf("update actor profile: %w", err)
	}
	hourField := fmt.Sprintf("%s%02d", hourPrefix, ev.Timestamp.UTC().Hour())
	if _, err := r.profiles.IncrAttr(ctx, subject, hourField, 1); err != nil {
		return fmt.Errorf("update actor profile: %w", err)
	}
	if country := Country(ev.GeoLocation); country != "" {
		if _, err := r.profiles.IncrAttr(ctx, subject, geoPrefix+country, 1); err != nil {
			return fmt.Errorf("update actor profile: %w", err)
		}
	}
	if err := r.profiles.SetAttr(ctx, subject, fieldLastAt, ev.Timestamp.UnixMilli()); err != nil {
		return err
	}
	return r.profiles.Expire(ctx, subject, time.Now().Add(r.maxAge))
}

func NewRedisHistory(storage store.Storage, window time.Duration) HistoryStore {
	if window <= 0 {
		window = params.RiskHistoryWindow
	}
	return &redisHistory{
		profiles: store.StorageWithPrefix(storage, params.ActorProfileKeyPrefix),
		failures: store.StorageWithPrefix(storage, params.AuthFailureKeyPrefix),
		window:   window,
		maxAge:   params.RiskProfileMaxAge,
	}
}

type noHistory struct{}

func (noHistory) Snapshot(context.Context, *model.AuditEvent) (History, error) { return History{}, nil }
func (noHistory) Observe(context.Context, *model.AuditEvent) error            { return nil }

// NoHistory scores every event as if the actor had no past.
func NoHistory() HistoryStore {
	return noHistory{}
}
