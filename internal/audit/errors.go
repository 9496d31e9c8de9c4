package audit

import (
	"errors"
	"fmt"

	"github.com/khanghh/kaudit/internal/writer"
)

var (
	ErrInvalidEvent   = errors.New("invalid event")
	ErrDuplicateEvent = errors.New("duplicate event id")
	ErrOverloaded     = writer.ErrOverloaded
	ErrEventNotFound  = errors.New("event not found")
)

// InvalidEventError is returned for drafts rejected before chaining.
type InvalidEventError struct {
	Field  string
	Reason string
}

func (e *InvalidEventError) Error() string {
	return fmt.Sprintf("invalid event: %s %s", e.Field, e.Reason)
}

func (e *InvalidEventError) Is(target error) bool {
	return target == ErrInvalidEvent
}

func invalid(field, reason string) error {
	return &InvalidEventError{Field: field, Reason: reason}
}

// DuplicateEventError rejects a producer supplied id that was already chained.
type DuplicateEventError struct {
	ID string
}

func (e *DuplicateEventError) Error() string {
	return fmt.Sprintf("event %s is already recorded", e.ID)
}

func (e *DuplicateEventError) Is(target error) bool {
	return target == ErrDuplicateEvent
}
