package auth

import (
	"context"

	gormModels "karaoke-events/kjhub/internal/models/gorm"
)

type contextKey string

var identityKey contextKey = "identity_claims"
var userKey contextKey = "directory_user"

func SetIdentity(ctx context.Context, claims *IdentityClaims) context.Context {
	return context.WithValue(ctx, identityKey, claims)
}

func GetIdentity(ctx context.Context) *IdentityClaims {
	if claims, ok := ctx.Value(identityKey).(*IdentityClaims); ok {
		return claims
	}
	return nil
}

// SetUser stores the caller's directory record, loaded by RequireUser.
func SetUser(ctx context.Context, user *gormModels.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

func GetUser(ctx context.Context) *gormModels.User {
	if user, ok := ctx.Value(userKey).(*gormModels.User); ok {
		return user
	}
	return nil
}
