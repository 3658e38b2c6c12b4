package middleware

import (
	"net/http"
	"time"

	"karaoke-events/kjhub/internal/auth"
	"karaoke-events/kjhub/internal/common"
	"karaoke-events/kjhub/internal/config"
)

// RequireOperator gates verification review to configured operator subjects.
func RequireOperator(cfg *config.Config) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims := auth.GetIdentity(r.Context())
			if claims == nil || !cfg.IsOperator(claims.IdentityID()) {
				common.RespondError(w, time.Now(), nil, "Forbidden: operators only", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
