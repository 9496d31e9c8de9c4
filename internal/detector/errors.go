package detector

import (
	"errors"
	"fmt"

	"github.com/khanghh/kaudit/model"
)

var (
	ErrCriticalEventNotFound = errors.New("critical event not found")
	ErrInvestigatorRequired  = errors.New("investigator identity is required")
	ErrNotesRequired         = errors.New("resolution notes are required")
	ErrDetectorStopped       = errors.New("detector stopped")
)

// TransitionError is returned when a workflow step is not allowed from the
// current status of a critical event.
type TransitionError struct {
	ID   uint64
	From model.CriticalStatus
	To   model.CriticalStatus
}

func (e *TransitionError) Error() string {
	return fmt.Sprintf("critical event %d: cannot move from %s to %s", e.ID, e.From, e.To)
}
