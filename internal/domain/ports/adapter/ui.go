package adapter

import "context"

// Navigator moves the frontend to another route (path plus optional query).
type Navigator interface {
	Push(ctx context.Context, route string) error
}

// Confirmer asks the user to approve a destructive action.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) bool
}

// Notifier shows a transient message (the browser alert equivalent).
type Notifier interface {
	Notify(ctx context.Context, msg string)
}
