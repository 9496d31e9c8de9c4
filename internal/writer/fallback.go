package writer

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sync"

	"github.com/khanghh/kaudit/model"
)

// FallbackLog is an append-only JSON lines file. The writer keeps one for
// batches storage refused and one as the journal of buffered events.
type FallbackLog struct {
	mu   sync.Mutex
	path string
}

func (l *FallbackLog) Path() string {
	return l.path
}

// Append writes events and fsyncs before returning.
func (l *FallbackLog) Append(events []*model.AuditEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	f, err := os.OpenFile(l.path, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, ev := range events {
		if err := enc.Encode(ev); err != nil {
			return err
		}
	}
	if err := w.Flush(); err != nil {
		return err
	}
	return f.Sync()
}

// Rewrite atomically replaces the log content with events.
func (l *FallbackLog) Rewrite(events []*model.AuditEvent) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if len(events) == 0 {
		err := os.Truncate(l.path, 0)
		if errors.Is(err, os.ErrNotExist) {
			return nil
		}
		return err
	}

	f, err := os.CreateTemp(filepath.Dir(l.path), filepath.Base(l.path)+".*")
	if err != nil {
		return err
	}
	defer os.Remove(f.Name())

	w := bufio.NewWriter(f)
	enc := json.NewEncoder(w)
	for _, ev := range events {
		if err := enc.Encode(ev); err != nil {
			f.Close()
			return err
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		return err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	return os.Rename(f.Name(), l.path)
}

// readAll returns every event in the log, skipping a torn trailing line.
func (l *FallbackLog) readAll() ([]*model.AuditEvent, error) {
	f, err := os.Open(l.path)
	if errors.Is(err, os.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var events []*model.AuditEvent
	dec := json.NewDecoder(f)
	for {
		var ev model.AuditEvent
		err := dec.Decode(&ev)
		if err == io.EOF {
			break
		}
		if err != nil {
			if errors.Is(err, io.ErrUnexpectedEOF) {
				break
			}
			return events, fmt.Errorf("decode fallback log: %w", err)
		}
		events = append(events, &ev)
	}
	return events, nil
}

// Drain hands the logged events to persist and truncates the log only when
// persist succeeds. It returns the number of events handed over.
func (l *FallbackLog) Drain(persist func([]*model.AuditEvent) error) (int, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	events, err := l.readAll()
	if err != nil || len(events) == 0 {
		return 0, err
	}
	if err := persist(events); err != nil {
		return 0, err
	}
	if err := os.Truncate(l.path, 0); err != nil {
		return len(events), err
	}
	return len(events), nil
}

func (l *FallbackLog) Empty() bool {
	info, err := os.Stat(l.path)
	return err != nil || info.Size() == 0
}

func NewFallbackLog(path string) (*FallbackLog, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return nil, err
	}
	return &FallbackLog{path: path}, nil
}
