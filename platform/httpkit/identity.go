package httpkit

import (
	"context"
	"slices"
)

const (
	RoleBroker = "broker"
	RoleBuyer  = "buyer"
	RoleGuest  = "guest"
)

// Actor is the authenticated caller as read from the access token.
type Actor struct {
	ID    string
	Name  string
	Email string
	Phone string
	Roles []string
}

// HasRole checks if the actor has a specific role.
func (a Actor) HasRole(role string) bool {
	return slices.Contains(a.Roles, role)
}

// PrimaryRole returns the first role, or guest when there is none.
func (a Actor) PrimaryRole() string {
	if len(a.Roles) == 0 {
		return RoleGuest
	}
	return a.Roles[0]
}

type actorKey struct{}

// WithActor stores the actor on ctx.
func WithActor(ctx context.Context, actor Actor) context.Context {
	return context.WithValue(ctx, actorKey{}, actor)
}

// ActorFromContext returns the actor placed by AuthRequired, if any.
func ActorFromContext(ctx context.Context) (Actor, bool) {
	actor, ok := ctx.Value(actorKey{}).(Actor)
	return actor, ok
}
