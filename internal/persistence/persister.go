package persistence

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/rs/zerolog"
)

// Persister writes snapshots to storage in the background. Save never
// blocks; when several snapshots queue up only the latest is written.
type Persister struct {
	storage Storage
	key     string
	log     *zerolog.Logger

	mu      sync.Mutex
	pending *Snapshot
	wake    chan struct{}

	// writeMu keeps writes in the order their snapshots were taken.
	writeMu sync.Mutex

	saved   atomic.Uint64
	written atomic.Uint64
	failed  atomic.Uint64
}

// Stats counts snapshots handed to Save, written, and failed to write.
type Stats struct {
	Saved   uint64
	Written uint64
	Failed  uint64
}

func NewPersister(storage Storage, key string, log *zerolog.Logger) *Persister {
	if key == "" {
		key = DefaultKey
	}
	return &Persister{
		storage: storage,
		key:     key,
		log:     log,
		wake:    make(chan struct{}, 1),
	}
}

// Save queues s for writing, replacing any snapshot not yet written.
func (p *Persister) Save(s Snapshot) {
	p.mu.Lock()
	p.pending = &s
	p.mu.Unlock()
	p.saved.Add(1)

	select {
	case p.wake <- struct{}{}:
	default:
	}
}

// Run writes queued snapshots until ctx is done, then flushes what is left.
func (p *Persister) Run(ctx context.Context) error {
	for {
		select {
		case <-p.wake:
			p.writePending(ctx)
		case <-ctx.Done():
			p.writePending(context.WithoutCancel(ctx))
			return nil
		}
	}
}

// Flush writes the queued snapshot, if any, before returning.
func (p *Persister) Flush(ctx context.Context) {
	p.writePending(ctx)
}

func (p *Persister) Stats() Stats {
	return Stats{Saved: p.saved.Load(), Written: p.written.Load(), Failed: p.failed.Load()}
}

func (p *Persister) writePending(ctx context.Context) {
	p.writeMu.Lock()
	defer p.writeMu.Unlock()

	p.mu.Lock()
	s := p.pending
	p.pending = nil
	p.mu.Unlock()
	if s == nil {
		return
	}

	data, err := Encode(*s)
	if err != nil {
		p.failed.Add(1)
		p.log.Error().Err(err).Msg("failed to serialize state snapshot")
		return
	}
	if err := p.storage.Set(ctx, p.key, data); err != nil {
		p.failed.Add(1)
		p.log.Error().Err(err).Str("key", p.key).Msg("failed to write state snapshot")
		return
	}
	p.written.Add(1)
	p.log.Debug().Str("key", p.key).Int("bytes", len(data)).Msg("state snapshot written")
}
