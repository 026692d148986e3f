package directory

import (
	"context"
	"errors"
	"sync"
)

var (
	// ErrFetchInFlight is returned when a page is requested while another fetch is running.
	ErrFetchInFlight = errors.New("directory: fetch already in flight")
	// ErrFetchDiscarded is the error of a fetch whose result arrived after a reset.
	ErrFetchDiscarded = errors.New("directory: fetch result discarded after reset")
)

// Outcome is the state of a single fetch.
type Outcome string

const (
	OutcomePending   Outcome = "pending"
	OutcomeSucceeded Outcome = "succeeded"
	OutcomeFailed    Outcome = "failed"
)

// Fetch is a handle on one page request.
type Fetch struct {
	page int
	done chan struct{}

	mu      sync.Mutex
	outcome Outcome
	err     error
}

func newFetch(page int) *Fetch {
	return &Fetch{page: page, done: make(chan struct{}), outcome: OutcomePending}
}

// Page returns the requested page number.
func (f *Fetch) Page() int { return f.page }

// Done is closed once the fetch has resolved.
func (f *Fetch) Done() <-chan struct{} { return f.done }

// Outcome returns pending until the fetch resolves.
func (f *Fetch) Outcome() Outcome {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.outcome
}

// Err returns the failure, if any.
func (f *Fetch) Err() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.err
}

// Wait blocks until the fetch resolves or ctx is done. Giving up on the wait
// does not stop the fetch; its result still commits.
func (f *Fetch) Wait(ctx context.Context) error {
	select {
	case <-f.done:
		return f.Err()
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (f *Fetch) resolve(err error) {
	f.mu.Lock()
	if err != nil {
		f.outcome = OutcomeFailed
		f.err = err
	} else {
		f.outcome = OutcomeSucceeded
	}
	f.mu.Unlock()
	close(f.done)
}
