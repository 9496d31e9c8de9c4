package writer

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/khanghh/kaudit/internal/metrics"
	"github.com/khanghh/kaudit/model"
	"github.com/khanghh/kaudit/params"
)

// BatchStore persists a batch atomically. Replaying an already stored event
// must be a no-op.
type BatchStore interface {
	WriteBatch(ctx context.Context, events []*model.AuditEvent) error
}

type Config struct {
	FlushInterval time.Duration `mapstructure:"flushInterval"`
	MaxBuffer     int           `mapstructure:"maxBuffer"`
	MaxRetries    int           `mapstructure:"maxRetries"`
	WriteTimeout  time.Duration `mapstructure:"writeTimeout"`
	FallbackPath  string        `mapstructure:"fallbackPath"`
	JournalPath   string        `mapstructure:"journalPath"`
}

func (c *Config) Sanitize() {
	if c.FlushInterval <= 0 {
		c.FlushInterval = params.WriterFlushInterval
	}
	if c.MaxBuffer <= 0 {
		c.MaxBuffer = params.WriterMaxBuffer
	}
	if c.MaxRetries <= 0 {
		c.MaxRetries = params.WriterMaxRetries
	}
	if c.WriteTimeout <= 0 {
		c.WriteTimeout = 30 * time.Second
	}
	if c.FallbackPath == "" {
		c.FallbackPath = params.WriterFallbackPath
	}
	if c.JournalPath == "" {
		c.JournalPath = filepath.Join(filepath.Dir(c.FallbackPath), params.WriterJournalFile)
	}
}

type entry struct {
	ev   *model.AuditEvent
	done chan<- error
}

// Writer buffers chained events and flushes them in atomic batches, either on
// its interval or right away when an urgent event is admitted. Every admitted
// event is journaled first so a crash loses nothing that was acknowledged.
type Writer struct {
	cfg      Config
	store    BatchStore
	fallback *FallbackLog
	journal  *FallbackLog

	mu     sync.Mutex
	buf    []entry
	urgent int // length of the prefix that must be flushed immediately
	closed bool

	flushMu  sync.Mutex // serializes flushes, guards failures
	failures int

	urgentCh  chan struct{}
	stopCh    chan struct{}
	doneCh    chan struct{}
	startOnce sync.Once
	stopOnce  sync.Once
}

// Enqueue admits ev to the buffer without blocking on storage. When done is
// non-nil it receives nil once ev is durable. done must be buffered.
func (w *Writer) Enqueue(ev *model.AuditEvent, done chan<- error) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return ErrClosed
	}
	if len(w.buf) >= w.cfg.MaxBuffer {
		return ErrOverloaded
	}
	if err := w.journal.Append([]*model.AuditEvent{ev}); err != nil {
		return fmt.Errorf("journal event: %w", err)
	}
	w.buf = append(w.buf, entry{ev: ev, done: done})
	if ev.IsUrgent() {
		w.urgent = len(w.buf)
		select {
		case w.urgentCh <- struct{}{}:
		default:
		}
	}
	metrics.Set(metrics.BufferSize, float64(len(w.buf)))
	return nil
}

func (w *Writer) Len() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return len(w.buf)
}

// Flush persists everything buffered at the time of the call.
func (w *Writer) Flush(ctx context.Context) error {
	return w.flush(ctx, false)
}

func (w *Writer) flush(ctx context.Context, urgentOnly bool) error {
	w.flushMu.Lock()
	defer w.flushMu.Unlock()

	w.mu.Lock()
	n := len(w.buf)
	if urgentOnly {
		n = w.urgent
	}
	if n == 0 {
		w.mu.Unlock()
		return nil
	}
	events := make([]*model.AuditEvent, n)
	for i := 0; i < n; i++ {
		events[i] = w.buf[i].ev
	}
	w.mu.Unlock()

	start := time.Now()
	err := w.write(ctx, events)
	metrics.Observe(metrics.FlushDuration, time.Since(start).Seconds())
	if err == nil {
		w.failures = 0
		w.complete(n)
		metrics.Add(metrics.FlushedEvents, float64(n))
		if !w.fallback.Empty() {
			if err := w.reconcile(ctx); err != nil {
				slog.Warn("Fallback log reconciliation failed", "error", err)
			}
		}
		return nil
	}

	w.failures++
	metrics.Inc(metrics.FlushFailures)
	slog.Warn("Flush audit batch failed", "events", n, "attempt", w.failures, "error", err)
	if w.failures < w.cfg.MaxRetries {
		return &PersistenceError{Events: n, Attempts: w.failures, Err: err}
	}

	if ferr := w.fallback.Append(events); ferr != nil {
		slog.Error("Fallback log write failed, batch stays queued", "events", n, "error", ferr)
		return &PersistenceError{Events: n, Attempts: w.failures, Err: errors.Join(err, ferr)}
	}
	attempts := w.failures
	w.failures = 0
	w.complete(n)
	metrics.Add(metrics.FallbackEvents, float64(n))
	slog.Error("Storage unavailable, batch moved to fallback log", "events", n, "path", w.fallback.Path())
	return &PersistenceError{Events: n, Attempts: attempts, Exhausted: true, Err: err}
}

func (w *Writer) write(ctx context.Context, events []*model.AuditEvent) error {
	ctx, cancel := context.WithTimeout(ctx, w.cfg.WriteTimeout)
	defer cancel()
	return w.store.WriteBatch(ctx, events)
}

// complete drops the first n entries, which only the flusher ever removes, and
// shrinks the journal to what is still buffered.
func (w *Writer) complete(n int) {
	w.mu.Lock()
	flushed := w.buf[:n]
	w.buf = append([]entry(nil), w.buf[n:]...)
	w.urgent -= n
	if w.urgent < 0 {
		w.urgent = 0
	}
	pending := make([]*model.AuditEvent, len(w.buf))
	for i, e := range w.buf {
		pending[i] = e.ev
	}
	// a stale journal only replays events the store already skips
	if err := w.journal.Rewrite(pending); err != nil {
		slog.Warn("Failed to compact writer journal", "path", w.journal.Path(), "error", err)
	}
	metrics.Set(metrics.BufferSize, float64(len(w.buf)))
	w.mu.Unlock()

	for _, e := range flushed {
		if e.done != nil {
			e.done <- nil
		}
	}
}

// Reconcile replays the fallback log and then the journal of events a previous
// process admitted but never flushed. Call it before the writer is started.
func (w *Writer) Reconcile(ctx context.Context) error {
	w.flushMu.Lock()
	defer w.flushMu.Unlock()
	if err := w.reconcile(ctx); err != nil {
		return err
	}
	n, err := w.journal.Drain(func(events []*model.AuditEvent) error {
		return w.write(ctx, events)
	})
	if n > 0 {
		metrics.Add(metrics.ReconciledEvents, float64(n))
		slog.Info("Replayed writer journal", "events", n)
	}
	return err
}

func (w *Writer) reconcile(ctx context.Context) error {
	n, err := w.fallback.Drain(func(events []*model.AuditEvent) error {
		return w.write(ctx, events)
	})
	if n > 0 {
		metrics.Add(metrics.ReconciledEvents, float64(n))
		slog.Info("Reconciled fallback log", "events", n)
	}
	return err
}

func (w *Writer) Start() {
	w.startOnce.Do(func() {
		go w.loop()
	})
}

func (w *Writer) loop() {
	defer close(w.doneCh)
	ticker := time.NewTicker(w.cfg.FlushInterval)
	defer ticker.Stop()

	for {
		select {
		case <-w.stopCh:
			return
		case <-ticker.C:
			w.flush(context.Background(), false)
		case <-w.urgentCh:
			w.flush(context.Background(), true)
		}
	}
}

// Close rejects new events, stops the flush loop and drains the buffer, moving
// whatever storage refuses into the fallback log.
func (w *Writer) Close(ctx context.Context) error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()

	w.stopOnce.Do(func() {
		close(w.stopCh)
	})
	// a writer that was never started has no loop to wait for
	w.startOnce.Do(func() { close(w.doneCh) })
	select {
	case <-w.doneCh:
	case <-ctx.Done():
		return ctx.Err()
	}

	var err error
	for attempt := 0; attempt < w.cfg.MaxRetries; attempt++ {
		err = w.Flush(ctx)
		var perr *PersistenceError
		if err == nil || (errors.As(err, &perr) && perr.Exhausted) {
			return err
		}
		if ctx.Err() != nil {
			return ctx.Err()
		}
	}
	return err
}

func New(cfg Config, store BatchStore) (*Writer, error) {
	cfg.Sanitize()
	fallback, err := NewFallbackLog(cfg.FallbackPath)
	if err != nil {
		return nil, err
	}
	journal, err := NewFallbackLog(cfg.JournalPath)
	if err != nil {
		return nil, err
	}
	return &Writer{
		cfg:      cfg,
		store:    store,
		fallback: fallback,
		journal:  journal,
		urgentCh: make(chan struct{}, 1),
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}
