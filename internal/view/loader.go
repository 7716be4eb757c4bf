package view

import (
	"context"
	"errors"
	"sync"
)

// Fetch produces a view payload.
type Fetch[T any] func(ctx context.Context) (T, error)

// Loader runs fetches for one page and publishes their states.
//
// Each Load cancels the fetch still in flight and bumps a generation; a result
// whose generation is no longer current is discarded, so a slow earlier
// response never overwrites a later one.
type Loader[T any] struct {
	// IsEmpty decides Empty vs Populated. Nil means never empty.
	IsEmpty func(T) bool
	// ErrorMessage maps a fetch error to the text shown to the user.
	ErrorMessage func(error) string
	// EmptyMessage is shown in the Empty state.
	EmptyMessage string
	// OnState observes every published state. It runs on the loading goroutine.
	OnState func(State[T])

	mu     sync.Mutex
	gen    uint64
	cancel context.CancelFunc
	state  State[T]
}

// Load fetches synchronously and returns the resulting state. A superseded
// call returns a Loading state and publishes nothing.
func (l *Loader[T]) Load(ctx context.Context, fetch Fetch[T]) State[T] {
	ctx, cancel := context.WithCancel(ctx)
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
	}
	l.gen++
	gen := l.gen
	l.cancel = cancel
	l.mu.Unlock()
	defer cancel()

	l.publish(gen, NewLoading[T]())

	data, err := fetch(ctx)
	var next State[T]
	switch {
	case err != nil:
		next = NewErrored[T](l.errorMessage(err), err)
	case l.IsEmpty != nil && l.IsEmpty(data):
		next = NewEmpty[T](l.EmptyMessage)
	default:
		next = NewPopulated(data)
	}
	if !l.publish(gen, next) {
		return NewLoading[T]()
	}
	return next
}

// Set publishes s as the current state, superseding any load in flight.
func (l *Loader[T]) Set(s State[T]) {
	l.mu.Lock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.gen++
	gen := l.gen
	l.mu.Unlock()
	l.publish(gen, s)
}

// Cancel aborts the load in flight, if any. The current state is kept.
func (l *Loader[T]) Cancel() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.gen++
}

// State returns the last published state; Loading before the first Load.
func (l *Loader[T]) State() State[T] {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

func (l *Loader[T]) publish(gen uint64, s State[T]) bool {
	l.mu.Lock()
	if gen != l.gen {
		l.mu.Unlock()
		return false
	}
	l.state = s
	cb := l.OnState
	l.mu.Unlock()
	if cb != nil {
		cb(s)
	}
	return true
}

func (l *Loader[T]) errorMessage(err error) string {
	if l.ErrorMessage != nil {
		if msg := l.ErrorMessage(err); msg != "" {
			return msg
		}
	}
	if errors.Is(err, context.Canceled) {
		return "cancelled"
	}
	return "Something went wrong"
}
