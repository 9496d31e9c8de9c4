package chain

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"sync"
	"time"

	"github.com/khanghh/kaudit/params"
	"gorm.io/gorm"
)

// Locker grants one process at a time the right to append to a chain.
type Locker interface {
	// Lock acquires chain or fails with ErrChainLocked. release gives it back.
	Lock(ctx context.Context, chain string) (release func() error, err error)
}

// MySQLLocker holds a named lock (GET_LOCK) per chain on a dedicated
// connection. The server releases it when the connection drops, so a crashed
// process never keeps a chain.
type MySQLLocker struct {
	db   *gorm.DB
	wait time.Duration
}

func lockName(chain string) string {
	name := params.ChainLockPrefix + chain
	if len(name) > 64 {
		sum := sha256.Sum256([]byte(chain))
		name = params.ChainLockPrefix + hex.EncodeToString(sum[:20])
	}
	return name
}

func (l *MySQLLocker) Lock(ctx context.Context, chain string) (func() error, error) {
	sqlDB, err := l.db.DB()
	if err != nil {
		return nil, err
	}
	conn, err := sqlDB.Conn(ctx)
	if err != nil {
		return nil, err
	}
	name := lockName(chain)
	var acquired sql.NullInt64
	err = conn.QueryRowContext(ctx, "SELECT GET_LOCK(?, ?)", name, int(l.wait.Seconds())).Scan(&acquired)
	if err != nil {
		conn.Close()
		return nil, fmt.Errorf("lock chain %s: %w", chain, err)
	}
	if !acquired.Valid || acquired.Int64 != 1 {
		conn.Close()
		return nil, fmt.Errorf("%w: %s", ErrChainLocked, chain)
	}
	return func() error {
		defer conn.Close()
		_, err := conn.ExecContext(context.Background(), "SELECT RELEASE_LOCK(?)", name)
		return err
	}, nil
}

// NewMySQLLocker waits up to wait for a chain held by another process. A
// zero wait fails right away.
func NewMySQLLocker(db *gorm.DB, wait time.Duration) *MySQLLocker {
	return &MySQLLocker{db: db, wait: wait}
}

// MemoryLocker arbitrates between registries of one process.
type MemoryLocker struct {
	mu   sync.Mutex
	held map[string]struct{}
}

func (l *MemoryLocker) Lock(_ context.Context, chain string) (func() error, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if _, ok := l.held[chain]; ok {
		return nil, fmt.Errorf("%w: %s", ErrChainLocked, chain)
	}
	l.held[chain] = struct{}{}
	var once sync.Once
	return func() error {
		once.Do(func() {
			l.mu.Lock()
			delete(l.held, chain)
			l.mu.Unlock()
		})
		return nil
	}, nil
}

func NewMemoryLocker() *MemoryLocker {
	return &MemoryLocker{held: make(map[string]struct{})}
}
