package auth

import (
	"context"

	"github.com/dangerclosesec/socioplus/internal/model"
	"github.com/google/uuid"
)

// Identity is the caller of an operation. The zero value is anonymous.
type Identity struct {
	ID    uuid.UUID
	Email string
	Role  model.Role
}

// Anonymous is the identity of an unauthenticated caller.
var Anonymous = Identity{}

func IdentityFor(user *model.User) Identity {
	return Identity{ID: user.ID, Email: user.Email, Role: user.Role}
}

func (i Identity) IsAuthenticated() bool {
	return i.ID != uuid.Nil
}

func (i Identity) IsVolunteer() bool {
	return i.IsAuthenticated() && i.Role == model.RoleVolunteer
}

func (i Identity) IsOrganization() bool {
	return i.IsAuthenticated() && i.Role == model.RoleOrganization
}

func (i Identity) Subject() model.Subject {
	return model.UserSubject(i.ID)
}

type identityKey struct{}

// WithIdentity stores the caller identity on the context.
func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFromContext returns the caller identity, or Anonymous.
func IdentityFromContext(ctx context.Context) Identity {
	if id, ok := ctx.Value(identityKey{}).(Identity); ok {
		return id
	}
	return Anonymous
}
