// Package directory maintains the paginated, deduplicated cache of people
// fetched from the remote provider.
package directory

import (
	"context"
	"errors"
	"sync"

	"github.com/EO-DataHub/eodhp-staff-directory/internal/query"
	"github.com/EO-DataHub/eodhp-staff-directory/models"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Provider fetches one page of raw person records.
type Provider interface {
	FetchPeople(ctx context.Context, page int) ([]models.RawPerson, error)
}

// CommitHook receives the directory state after every committed transition.
// It runs while the engine lock is held and must not call back into the engine.
type CommitHook func(State)

type Engine struct {
	mu       sync.Mutex
	state    State
	epoch    uint64
	inFlight *Fetch

	provider Provider
	assign   Assigner
	onCommit CommitHook
	log      *zerolog.Logger
}

type Option func(*Engine)

// WithAssigner overrides how departments and job titles are derived.
func WithAssigner(a Assigner) Option {
	return func(e *Engine) { e.assign = a }
}

func WithCommitHook(h CommitHook) Option {
	return func(e *Engine) { e.onCommit = h }
}

func WithLogger(l *zerolog.Logger) Option {
	return func(e *Engine) { e.log = l }
}

// NewEngine returns an engine in the empty initial state.
func NewEngine(provider Provider, opts ...Option) *Engine {
	e := &Engine{
		state:    NewState(),
		provider: provider,
		assign:   HashAssigner,
		log:      &log.Logger,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Start marks the directory as loading and requests the page in the
// background. The in-flight marker is taken before Start returns, so a second
// call fails with ErrFetchInFlight until this fetch resolves or the directory
// is reset.
func (e *Engine) Start(ctx context.Context, page int) (*Fetch, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inFlight != nil {
		return nil, ErrFetchInFlight
	}

	f := newFetch(page)
	e.inFlight = f
	e.state.Status = StatusLoading
	e.commit()

	// Fetches are not cancellable: the result commits even if the caller has gone.
	go e.run(context.WithoutCancel(ctx), f, e.epoch)

	return f, nil
}

// RequestPage fetches the page and waits for it to be merged.
func (e *Engine) RequestPage(ctx context.Context, page int) error {
	f, err := e.Start(ctx, page)
	if err != nil {
		return err
	}
	return f.Wait(ctx)
}

// RequestNext fetches the page at the current cursor.
func (e *Engine) RequestNext(ctx context.Context) error {
	return e.RequestPage(ctx, e.NextPage())
}

// Reset empties the directory and rewinds the cursor. A fetch still in
// flight runs to completion but its result is dropped.
func (e *Engine) Reset() {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.epoch++
	e.inFlight = nil
	e.state = NewState()
	e.commit()
}

// Refresh resets the directory and fetches the first page.
func (e *Engine) Refresh(ctx context.Context) error {
	e.Reset()
	return e.RequestPage(ctx, FirstPage)
}

// Filter returns the people whose full name or department contains q.
func (e *Engine) Filter(q string) []models.Person {
	return query.Search(e.State().People, q)
}

// State returns a copy of the current directory state.
func (e *Engine) State() State {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.clone()
}

// NextPage returns the cursor.
func (e *Engine) NextPage() int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.state.Page
}

// Restore replaces the state with a persisted one. No fetch survives a
// restart, so a persisted loading status comes back as idle.
func (e *Engine) Restore(s State) {
	s.People = Merge(nil, s.People)
	if s.Page < FirstPage {
		s.Page = FirstPage
	}
	switch s.Status {
	case StatusSucceeded, StatusFailed:
	default:
		s.Status = StatusIdle
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	e.state = s
}

func (e *Engine) run(ctx context.Context, f *Fetch, epoch uint64) {
	raws, err := e.provider.FetchPeople(ctx, f.page)

	e.mu.Lock()
	if epoch != e.epoch {
		e.mu.Unlock()
		e.log.Debug().Int("page", f.page).Msg("dropping directory page fetched before reset")
		f.resolve(ErrFetchDiscarded)
		return
	}

	e.inFlight = nil
	if err != nil {
		msg := err.Error()
		if msg == "" {
			msg = defaultErrorMessage
		}
		e.state.Status = StatusFailed
		e.state.Error = msg
		e.log.Warn().Err(err).Int("page", f.page).Msg("directory fetch failed")
	} else {
		before := len(e.state.People)
		e.state.People = Merge(e.state.People, Transform(raws, e.assign))
		e.state.Page++
		e.state.Status = StatusSucceeded
		e.state.Error = ""
		e.log.Debug().Int("page", f.page).Int("received", len(raws)).
			Int("added", len(e.state.People)-before).Msg("directory page merged")
	}
	e.commit()
	e.mu.Unlock()

	f.resolve(err)
}

func (e *Engine) commit() {
	if e.onCommit != nil {
		e.onCommit(e.state.clone())
	}
}

// IsInFlight reports whether err means a fetch was already running.
func IsInFlight(err error) bool {
	return errors.Is(err, ErrFetchInFlight)
}
