package store

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
)

type Storage interface {
	Get(ctx context.Context, key string, val any) error
	GetAll(ctx context.Context, key string) (map[string]string, error)
	Set(ctx context.Context, key string, val any, expiresIn time.Duration) error
	Save(ctx context.Context, key string, val any) error
	Delete(ctx context.Context, key string) error
	Expire(ctx context.Context, key string, expiresAt time.Time) error
	SetAttr(ctx context.Context, key string, field string, val any) error
	GetAttr(ctx context.Context, key, field string, val any) error
	IncrAttr(ctx context.Context, key, field string, delta int64) (int64, error)
	SetNX(ctx context.Context, key string, val any, expiresIn time.Duration) (bool, error)
	Exists(ctx context.Context, key string) (bool, error)
	WindowAdd(ctx context.Context, key, member string, at time.Time, window time.Duration) (int64, error)
	WindowCount(ctx context.Context, key string, at time.Time, window time.Duration) (int64, error)
}
