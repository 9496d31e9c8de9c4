package writer

import (
	"errors"
	"fmt"
)

var (
	ErrOverloaded = errors.New("audit buffer overloaded")
	ErrClosed     = errors.New("writer closed")
)

// PersistenceError reports a batch that storage refused. The events are either
// still queued for retry or, once retries are exhausted, in the fallback log.
type PersistenceError struct {
	Events    int
	Attempts  int
	Exhausted bool
	Err       error
}

func (e *PersistenceError) Error() string {
	state := "requeued"
	if e.Exhausted {
		state = "moved to fallback log"
	}
	return fmt.Sprintf("persist %d events failed after %d attempts (%s): %v", e.Events, e.Attempts, state, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}
