package chain

import (
	"strconv"

	"github.com/khanghh/kaudit/model"
	"github.com/khanghh/kaudit/params"
)

// Verifier checks ordered slices of one chain. Signatures are checked only when
// a signer is configured.
type Verifier struct {
	Signer *Signer
}

// Verify checks hashes, links and sequence continuity of events, which must be
// ordered by seq. prevHash is the event_hash preceding events[0], or empty to
// skip the first link check. The first element of the result is the first break.
func (v Verifier) Verify(events []*model.AuditEvent, prevHash string) []*IntegrityViolation {
	var violations []*IntegrityViolation
	report := func(i int, kind ViolationKind, expected, actual string) {
		ev := events[i]
		violations = append(violations, &IntegrityViolation{
			Index:    i,
			EventID:  ev.ID,
			Chain:    ev.Chain,
			Seq:      ev.Seq,
			Kind:     kind,
			Expected: expected,
			Actual:   actual,
		})
	}

	for i, ev := range events {
		if i > 0 && ev.Seq != events[i-1].Seq+1 {
			report(i, ViolationSequenceGap, strconv.FormatUint(events[i-1].Seq+1, 10), strconv.FormatUint(ev.Seq, 10))
		}
		if i == 0 && prevHash == "" && ev.Seq == 1 {
			prevHash = params.GenesisHash
		}
		expectedPrev := prevHash
		if i > 0 {
			expectedPrev = events[i-1].EventHash
		}
		if expectedPrev != "" && ev.PreviousHash != expectedPrev {
			report(i, ViolationLinkBroken, expectedPrev, ev.PreviousHash)
		}
		if computed := ComputeHash(ev); computed != ev.EventHash {
			report(i, ViolationHashMismatch, computed, ev.EventHash)
		}
		if v.Signer != nil && ev.Signature != "" && !v.Signer.Verify(ev.EventHash, ev.Signature) {
			report(i, ViolationSignatureInvalid, "", ev.Signature)
		}
	}
	return violations
}

// Verify runs an unsigned Verifier over events.
func Verify(events []*model.AuditEvent, prevHash string) []*IntegrityViolation {
	return Verifier{}.Verify(events, prevHash)
}
