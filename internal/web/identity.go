package web

import (
	"context"
	"slices"
	"time"

	"shopfront/internal/auth"
	"shopfront/internal/model"

	"github.com/go-faster/errors"
	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// Identity is what the storefront knows about the signed-in visitor. It is
// read from the API token without verifying it; the API verifies every call.
type Identity struct {
	UserID    uuid.UUID
	Email     string
	UserName  string
	Roles     []string
	ExpiresAt time.Time
}

// IsAdmin reports whether the visitor holds the Admin role.
func (i Identity) IsAdmin() bool {
	return slices.Contains(i.Roles, model.RoleAdmin)
}

// Expired reports whether the token behind the identity has expired at now.
func (i Identity) Expired(now time.Time) bool {
	return !i.ExpiresAt.IsZero() && !now.Before(i.ExpiresAt)
}

// IdentityFromToken parses the claims of an access token without checking
// its signature.
func IdentityFromToken(token string) (Identity, error) {
	var claims auth.Claims
	if _, _, err := jwt.NewParser().ParseUnverified(token, &claims); err != nil {
		return Identity{}, errors.Wrap(err, "parse token")
	}

	id, err := uuid.Parse(claims.Subject)
	if err != nil {
		return Identity{}, errors.Wrap(err, "parse subject")
	}

	identity := Identity{
		UserID:   id,
		Email:    claims.Email,
		UserName: claims.UserName,
		Roles:    claims.Roles,
	}
	if claims.ExpiresAt != nil {
		identity.ExpiresAt = claims.ExpiresAt.Time
	}
	return identity, nil
}

type identityKey struct{}

func withIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

// IdentityFrom returns the identity loaded for the request, if any.
func IdentityFrom(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	return id, ok
}
