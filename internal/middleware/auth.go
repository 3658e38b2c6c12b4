package middleware

import (
	"net/http"
	"strings"
	"time"

	"karaoke-events/kjhub/internal/auth"
	"karaoke-events/kjhub/internal/common"
	"karaoke-events/kjhub/internal/config"
)

// AuthMiddleware verifies the identity provider's bearer token and stores its
// claims in the request context.
func AuthMiddleware(cfg config.IdentityConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			initTime := time.Now()

			authHeader := r.Header.Get("Authorization")
			if !strings.HasPrefix(authHeader, "Bearer ") {
				common.RespondError(w, initTime, nil, "Unauthorized. Missing bearer token", http.StatusUnauthorized)
				return
			}

			claims, err := auth.ParseIdentityToken(cfg.JWTSecret, cfg.Issuer, strings.TrimPrefix(authHeader, "Bearer "))
			if err != nil {
				common.RespondError(w, initTime, nil, "Unauthorized. Invalid token", http.StatusUnauthorized)
				return
			}

			recordIdentity(r.Context(), claims.IdentityID())
			ctx := auth.SetIdentity(r.Context(), claims)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
