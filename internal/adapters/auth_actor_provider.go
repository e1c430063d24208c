package adapters

import (
	"context"

	"brokerage_portal_backend/internal/bookings/ports"
	"brokerage_portal_backend/platform/httpkit"
)

// AuthActorProvider exposes the token actor placed on the request context by
// httpkit.AuthRequired, satisfying ports.ActorProvider. Brokers are reported
// as brokers whatever the order of their roles.
type AuthActorProvider struct{}

func NewAuthActorProvider() *AuthActorProvider {
	return &AuthActorProvider{}
}

func (AuthActorProvider) CurrentActor(ctx context.Context) (ports.Actor, bool) {
	actor, ok := httpkit.ActorFromContext(ctx)
	if !ok {
		return ports.Actor{}, false
	}
	role := actor.PrimaryRole()
	if actor.HasRole(httpkit.RoleBroker) {
		role = httpkit.RoleBroker
	}
	return ports.Actor{
		ID:    actor.ID,
		Name:  actor.Name,
		Email: actor.Email,
		Phone: actor.Phone,
		Role:  role,
	}, true
}

var _ ports.ActorProvider = AuthActorProvider{}
