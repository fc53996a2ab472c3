// Package auth carries the signed-in user's identity explicitly through
// request contexts. Nothing here is process-wide state.
package auth

import (
	"context"
	"strings"

	"github.com/golang-jwt/jwt"
)

type Identity struct {
	Subject string
	Token   string
}

type identityKey struct{}

func WithIdentity(ctx context.Context, id Identity) context.Context {
	return context.WithValue(ctx, identityKey{}, id)
}

func FromContext(ctx context.Context) (Identity, bool) {
	id, ok := ctx.Value(identityKey{}).(Identity)
	if !ok || id.Token == "" {
		return Identity{}, false
	}
	return id, true
}

// ParseBearer extracts the token from an Authorization header. The subject is
// read without verifying the signature; the booking API verifies every call.
func ParseBearer(header string) (Identity, bool) {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return Identity{}, false
	}
	token = strings.TrimSpace(token)
	if token == "" {
		return Identity{}, false
	}

	id := Identity{Token: token}
	claims := jwt.MapClaims{}
	if _, _, err := new(jwt.Parser).ParseUnverified(token, claims); err == nil {
		if sub, ok := claims["sub"].(string); ok {
			id.Subject = sub
		}
	}
	return id, true
}
