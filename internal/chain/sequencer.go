package chain

import (
	"sync"

	"github.com/khanghh/kaudit/model"
	"github.com/khanghh/kaudit/params"
)

// CommitFunc admits a chained event downstream. The tail only advances when it
// returns nil.
type CommitFunc func(ev *model.AuditEvent) error

// Sequencer owns the tail of a single chain. All hash assignments for the
// chain go through Append and are totally ordered by mu.
type Sequencer struct {
	mu     sync.Mutex
	name   string
	seq    uint64
	tail   string
	signer *Signer
}

func (s *Sequencer) Name() string {
	return s.name
}

// Tail returns the last assigned sequence number and hash.
func (s *Sequencer) Tail() (uint64, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq, s.tail
}

// Append links ev to the tail, computes its hash and hands it to commit while
// still holding the lock, so downstream order equals chain order.
func (s *Sequencer) Append(ev *model.AuditEvent, commit CommitFunc) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	ev.Chain = s.name
	ev.Seq = s.seq + 1
	ev.PreviousHash = s.tail
	ev.EventHash = ComputeHash(ev)
	if s.signer != nil {
		ev.Signature = s.signer.Sign(ev.EventHash)
	}
	if commit != nil {
		if err := commit(ev); err != nil {
			ev.Seq, ev.PreviousHash, ev.EventHash, ev.Signature = 0, "", "", ""
			return err
		}
	}
	s.seq = ev.Seq
	s.tail = ev.EventHash
	return nil
}

// NewSequencer resumes a chain at (seq, tail). An empty tail starts at genesis.
func NewSequencer(name string, seq uint64, tail string, signer *Signer) *Sequencer {
	if tail == "" {
		tail = params.GenesisHash
		seq = 0
	}
	return &Sequencer{
		name:   name,
		seq:    seq,
		tail:   tail,
		signer: signer,
	}
}
