package query

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"strconv"

	"github.com/khanghh/kaudit/internal/audit"
	"github.com/khanghh/kaudit/internal/chain"
	"github.com/khanghh/kaudit/internal/metrics"
	"github.com/khanghh/kaudit/model"
	"github.com/khanghh/kaudit/params"
	"gorm.io/gorm"
)

// Range selects a span of one chain. Zero bounds mean the chain's first and
// last event.
type Range struct {
	Chain   string
	FromSeq uint64
	ToSeq   uint64
}

type IntegrityReport struct {
	Chain      string                      `json:"chain"`
	FromSeq    uint64                      `json:"fromSeq"`
	ToSeq      uint64                      `json:"toSeq"`
	Checked    int                         `json:"checked"`
	Valid      bool                        `json:"valid"`
	Violations []*chain.IntegrityViolation `json:"violations,omitempty"`
}

// VerifyIntegrity walks the chain in pages over primary and archived events
// and reports every violation found. The first violation is the first break.
func (e *Engine) VerifyIntegrity(ctx context.Context, r Range) (*IntegrityReport, error) {
	if r.Chain == "" {
		r.Chain = e.defaultChain
	}
	if r.FromSeq == 0 {
		r.FromSeq = 1
	}
	if r.ToSeq == 0 {
		tail, err := e.tailSeq(ctx, r.Chain)
		if err != nil {
			return nil, err
		}
		r.ToSeq = tail
	}
	report := &IntegrityReport{Chain: r.Chain, FromSeq: r.FromSeq, ToSeq: r.ToSeq, Valid: true}
	if r.ToSeq == 0 {
		return report, nil
	}
	if r.ToSeq < r.FromSeq {
		return nil, ErrInvalidRange
	}

	var prevHash string
	if r.FromSeq > 1 {
		prev, err := e.loadSeqRange(ctx, r.Chain, r.FromSeq-1, r.FromSeq-1)
		if err != nil {
			return nil, err
		}
		if len(prev) > 0 {
			prevHash = prev[len(prev)-1].EventHash
		}
	}

	expected := r.FromSeq
	for lo := r.FromSeq; lo <= r.ToSeq; lo += params.VerifyPageSize {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		hi := min(lo+params.VerifyPageSize-1, r.ToSeq)
		events, err := e.loadSeqRange(ctx, r.Chain, lo, hi)
		if err != nil {
			return nil, err
		}
		if len(events) == 0 {
			report.Violations = append(report.Violations, &chain.IntegrityViolation{
				Index:    report.Checked,
				Chain:    r.Chain,
				Seq:      lo,
				Kind:     chain.ViolationSequenceGap,
				Expected: strconv.FormatUint(lo, 10),
				Actual:   "missing through " + strconv.FormatUint(hi, 10),
			})
			expected = hi + 1
			continue
		}
		if first := events[0]; first.Seq != expected {
			report.Violations = append(report.Violations, &chain.IntegrityViolation{
				Index:    report.Checked,
				EventID:  first.ID,
				Chain:    r.Chain,
				Seq:      first.Seq,
				Kind:     chain.ViolationSequenceGap,
				Expected: strconv.FormatUint(expected, 10),
				Actual:   strconv.FormatUint(first.Seq, 10),
			})
		}
		for _, v := range e.verifier.Verify(events, prevHash) {
			v.Index += report.Checked
			report.Violations = append(report.Violations, v)
		}
		report.Checked += len(events)
		last := events[len(events)-1]
		prevHash = last.EventHash
		expected = last.Seq + 1
	}

	report.Valid = len(report.Violations) == 0
	if !report.Valid {
		metrics.Add(metrics.IntegrityViolations, float64(len(report.Violations)), metrics.L("chain", r.Chain))
		first := report.Violations[0]
		slog.Warn("Integrity violations found", "chain", r.Chain, "count", len(report.Violations), "first_seq", first.Seq, "kind", first.Kind)
	}
	return report, nil
}

// VerifyEvents verifies the span between two events of the same chain.
func (e *Engine) VerifyEvents(ctx context.Context, fromID, toID string) (*IntegrityReport, error) {
	from, err := e.eventByID(ctx, fromID)
	if err != nil {
		return nil, err
	}
	to, err := e.eventByID(ctx, toID)
	if err != nil {
		return nil, err
	}
	if from.Chain != to.Chain {
		return nil, ErrChainMismatch
	}
	lo, hi := from.Seq, to.Seq
	if lo > hi {
		lo, hi = hi, lo
	}
	return e.VerifyIntegrity(ctx, Range{Chain: from.Chain, FromSeq: lo, ToSeq: hi})
}

// VerifyAll verifies every chain found in primary or archived storage.
func (e *Engine) VerifyAll(ctx context.Context) ([]*IntegrityReport, error) {
	chains, err := e.chains(ctx)
	if err != nil {
		return nil, err
	}
	reports := make([]*IntegrityReport, 0, len(chains))
	for _, name := range chains {
		report, err := e.VerifyIntegrity(ctx, Range{Chain: name})
		if err != nil {
			return nil, fmt.Errorf("verify chain %s: %w", name, err)
		}
		reports = append(reports, report)
	}
	return reports, nil
}

func (e *Engine) chains(ctx context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	for _, m := range []any{&model.AuditEvent{}, &model.AuditEventArchive{}} {
		var names []string
		if err := e.db.WithContext(ctx).Model(m).Distinct().Pluck("chain", &names).Error; err != nil {
			return nil, err
		}
		for _, n := range names {
			seen[n] = struct{}{}
		}
	}
	chains := make([]string, 0, len(seen))
	for n := range seen {
		chains = append(chains, n)
	}
	sort.Strings(chains)
	return chains, nil
}

func (e *Engine) tailSeq(ctx context.Context, chainName string) (uint64, error) {
	var tail uint64
	for _, m := range []any{&model.AuditEvent{}, &model.AuditEventArchive{}} {
		var seq uint64
		err := e.db.WithContext(ctx).Model(m).
			Select("COALESCE(MAX(seq), 0)").
			Where("chain = ?", chainName).
			Scan(&seq).Error
		if err != nil {
			return 0, err
		}
		tail = max(tail, seq)
	}
	return tail, nil
}

// loadSeqRange merges primary and archived events with lo <= seq <= hi,
// ordered by seq. An event present in both tables is returned once.
func (e *Engine) loadSeqRange(ctx context.Context, chainName string, lo, hi uint64) ([]*model.AuditEvent, error) {
	return e.loadMerged(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("chain = ? AND seq BETWEEN ? AND ?", chainName, lo, hi)
	})
}

func (e *Engine) loadMerged(ctx context.Context, scope func(*gorm.DB) *gorm.DB) ([]*model.AuditEvent, error) {
	byID := make(map[string]*model.AuditEvent)
	for _, archive := range []bool{true, false} {
		events, err := findEvents(e.db.WithContext(ctx), archive, scope)
		if err != nil {
			return nil, err
		}
		for _, ev := range events {
			byID[ev.ID] = ev
		}
	}
	merged := make([]*model.AuditEvent, 0, len(byID))
	for _, ev := range byID {
		merged = append(merged, ev)
	}
	sort.Slice(merged, func(i, j int) bool {
		if merged[i].Seq != merged[j].Seq {
			return merged[i].Seq < merged[j].Seq
		}
		return merged[i].ID < merged[j].ID
	})
	return merged, nil
}

func (e *Engine) eventByID(ctx context.Context, id string) (*model.AuditEvent, error) {
	events, err := e.loadMerged(ctx, func(tx *gorm.DB) *gorm.DB {
		return tx.Where("id = ?", id).Limit(1)
	})
	if err != nil {
		return nil, err
	}
	if len(events) == 0 {
		return nil, audit.ErrEventNotFound
	}
	return events[0], nil
}

// annotate marks each result valid when its hash recomputes and it links to
// its stored predecessor.
func (e *Engine) annotate(ctx context.Context, items []*Result) error {
	wanted := make(map[string][]uint64)
	for _, it := range items {
		if it.Seq > 1 {
			wanted[it.Chain] = append(wanted[it.Chain], it.Seq-1)
		}
	}
	prevHashes := make(map[string]map[uint64]string, len(wanted))
	for chainName, seqs := range wanted {
		events, err := e.loadMerged(ctx, func(tx *gorm.DB) *gorm.DB {
			return tx.Where("chain = ? AND seq IN ?", chainName, seqs)
		})
		if err != nil {
			return err
		}
		hashes := make(map[uint64]string, len(events))
		for _, ev := range events {
			hashes[ev.Seq] = ev.EventHash
		}
		prevHashes[chainName] = hashes
	}

	for _, it := range items {
		prevHash := params.GenesisHash
		if it.Seq > 1 {
			var ok bool
			if prevHash, ok = prevHashes[it.Chain][it.Seq-1]; !ok {
				it.Integrity = IntegrityBroken
				continue
			}
		}
		if len(e.verifier.Verify([]*model.AuditEvent{it.AuditEvent}, prevHash)) == 0 {
			it.Integrity = IntegrityValid
		} else {
			it.Integrity = IntegrityBroken
		}
	}
	return nil
}
