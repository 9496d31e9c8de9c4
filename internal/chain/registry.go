package chain

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/khanghh/kaudit/model"
	"github.com/khanghh/kaudit/params"
)

type Mode string

const (
	ModeGlobal   Mode = "global"
	ModeCategory Mode = "category"
)

// TailLoader returns the last persisted event of a chain, or nil when the
// chain is empty.
type TailLoader interface {
	LastInChain(ctx context.Context, chain string) (*model.AuditEvent, error)
}

// Registry resolves the chain of an event and owns one Sequencer per chain.
// With a Locker, a chain is locked before its tail is loaded and stays locked
// until Close, so no other process appends to it meanwhile.
type Registry struct {
	mode       Mode
	globalName string
	loader     TailLoader
	signer     *Signer
	locker     Locker

	mu         sync.Mutex
	sequencers map[string]*Sequencer
	releases   []func() error
	closed     bool
}

func (r *Registry) ChainFor(ev *model.AuditEvent) string {
	if r.mode == ModeCategory && ev.Category != "" {
		return ev.Category
	}
	return r.globalName
}

// Sequencer returns the sequencer for name, locking the chain and restoring
// its tail from storage the first time it is requested.
func (r *Registry) Sequencer(ctx context.Context, name string) (*Sequencer, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed {
		return nil, ErrClosed
	}
	if seq, ok := r.sequencers[name]; ok {
		return seq, nil
	}

	release := func() error { return nil }
	if r.locker != nil {
		var err error
		if release, err = r.locker.Lock(ctx, name); err != nil {
			return nil, err
		}
	}

	var (
		lastSeq  uint64
		lastHash string
	)
	if r.loader != nil {
		last, err := r.loader.LastInChain(ctx, name)
		if err != nil {
			release()
			return nil, fmt.Errorf("restore chain %s: %w", name, err)
		}
		if last != nil {
			lastSeq, lastHash = last.Seq, last.EventHash
		}
	}
	seq := NewSequencer(name, lastSeq, lastHash, r.signer)
	r.sequencers[name] = seq
	r.releases = append(r.releases, release)
	return seq, nil
}

// Claim takes the chain that events of category are appended to, so a
// process fails before doing any work when another one owns it.
func (r *Registry) Claim(ctx context.Context, category string) error {
	_, err := r.Sequencer(ctx, r.ChainFor(&model.AuditEvent{Category: category}))
	return err
}

// Append routes ev to its chain's sequencer.
func (r *Registry) Append(ctx context.Context, ev *model.AuditEvent, commit CommitFunc) error {
	seq, err := r.Sequencer(ctx, r.ChainFor(ev))
	if err != nil {
		return err
	}
	return seq.Append(ev, commit)
}

// Close gives up every chain. Close the writer first so nothing admitted is
// still in flight.
func (r *Registry) Close() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.closed = true
	var errs []error
	for _, release := range r.releases {
		if err := release(); err != nil {
			errs = append(errs, err)
		}
	}
	r.releases = nil
	r.sequencers = make(map[string]*Sequencer)
	return errors.Join(errs...)
}

type RegistryOption func(*Registry)

func WithLocker(l Locker) RegistryOption {
	return func(r *Registry) { r.locker = l }
}

func NewRegistry(mode Mode, globalName string, loader TailLoader, signer *Signer, opts ...RegistryOption) (*Registry, error) {
	if mode == "" {
		mode = ModeGlobal
	}
	if mode != ModeGlobal && mode != ModeCategory {
		return nil, fmt.Errorf("%w: %s", ErrUnknownMode, mode)
	}
	if globalName == "" {
		globalName = params.DefaultChainName
	}
	r := &Registry{
		mode:       mode,
		globalName: globalName,
		loader:     loader,
		signer:     signer,
		sequencers: make(map[string]*Sequencer),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}
