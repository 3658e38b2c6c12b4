package middleware

import (
	"context"
	"net/http"
	"time"

	"karaoke-events/kjhub/internal/auth"
	"karaoke-events/kjhub/internal/common"
	"karaoke-events/kjhub/internal/logging"
	"karaoke-events/kjhub/internal/models/dtos"
	gormModels "karaoke-events/kjhub/internal/models/gorm"
)

// UserEnsurer finds or creates the directory record for a verified identity.
type UserEnsurer interface {
	EnsureUser(ctx context.Context, identityID string, profile dtos.IdentityProfile) (*gormModels.User, bool, error)
}

// RequireUser loads the caller's directory record, creating a KS record on
// first sign-in. Must run after AuthMiddleware.
func RequireUser(users UserEnsurer) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			initTime := time.Now()

			claims := auth.GetIdentity(r.Context())
			if claims == nil {
				common.RespondError(w, initTime, nil, "Unauthorized: missing claims", http.StatusUnauthorized)
				return
			}

			user, created, err := users.EnsureUser(r.Context(), claims.IdentityID(), claims.Profile())
			if err != nil {
				common.RespondError(w, initTime, err, "Failed to load user")
				return
			}
			if created {
				logging.Info("Created directory record on first sign-in",
					"user_id", user.ID,
					"username", user.Username,
				)
			}

			ctx := auth.SetUser(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
