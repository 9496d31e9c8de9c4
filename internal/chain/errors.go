package chain

import (
	"errors"
	"fmt"
)

var (
	ErrUnknownMode = errors.New("unknown chain mode")
	ErrChainLocked = errors.New("chain is owned by another process")
	ErrClosed      = errors.New("chain registry closed")
)

type ViolationKind string

const (
	ViolationLinkBroken       ViolationKind = "link_broken"
	ViolationHashMismatch     ViolationKind = "hash_mismatch"
	ViolationSequenceGap      ViolationKind = "sequence_gap"
	ViolationSignatureInvalid ViolationKind = "signature_invalid"
)

// IntegrityViolation is a finding, it is reported as-is and never repaired.
type IntegrityViolation struct {
	Index    int           `json:"index"`
	EventID  string        `json:"eventId"`
	Chain    string        `json:"chain"`
	Seq      uint64        `json:"seq"`
	Kind     ViolationKind `json:"kind"`
	Expected string        `json:"expected,omitempty"`
	Actual   string        `json:"actual,omitempty"`
}

func (v *IntegrityViolation) Error() string {
	return fmt.Sprintf("integrity violation (%s) at %s#%d event %s: expected %q got %q",
		v.Kind, v.Chain, v.Seq, v.EventID, v.Expected, v.Actual)
}
