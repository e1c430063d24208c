package ports

import "context"

// Actor is the caller as the bookings domain sees it.
type Actor struct {
	ID    string
	Name  string
	Email string
	Phone string
	Role  string
}

// ActorProvider resolves the current caller from the request context.
// ok is false for anonymous calls and background jobs.
type ActorProvider interface {
	CurrentActor(ctx context.Context) (actor Actor, ok bool)
}
