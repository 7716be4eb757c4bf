// Package view holds the remote-data view state shared by page controllers.
package view

import "fmt"

type Kind int

const (
	Loading Kind = iota
	Populated
	Empty
	Errored
)

func (k Kind) String() string {
	switch k {
	case Loading:
		return "loading"
	case Populated:
		return "populated"
	case Empty:
		return "empty"
	case Errored:
		return "errored"
	}
	return fmt.Sprintf("kind(%d)", int(k))
}

// State is a tagged union: data is meaningful only when Populated, message
// only when Errored (or Empty, where it is the blank-slate text).
type State[T any] struct {
	kind    Kind
	data    T
	message string
	err     error
}

func NewLoading[T any]() State[T] { return State[T]{kind: Loading} }

func NewPopulated[T any](data T) State[T] { return State[T]{kind: Populated, data: data} }

func NewEmpty[T any](message string) State[T] { return State[T]{kind: Empty, message: message} }

// NewErrored carries the user-facing message and, for logs, the cause.
func NewErrored[T any](message string, cause error) State[T] {
	return State[T]{kind: Errored, message: message, err: cause}
}

func (s State[T]) Kind() Kind { return s.kind }

// Data returns the payload and whether the state is Populated.
func (s State[T]) Data() (T, bool) { return s.data, s.kind == Populated }

func (s State[T]) Message() string { return s.message }

func (s State[T]) Err() error { return s.err }

func (s State[T]) String() string {
	switch s.kind {
	case Errored, Empty:
		return s.kind.String() + ": " + s.message
	}
	return s.kind.String()
}
