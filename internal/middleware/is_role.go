package middleware

import (
	"net/http"
	"slices"
	"time"

	"karaoke-events/kjhub/internal/auth"
	"karaoke-events/kjhub/internal/common"
	"karaoke-events/kjhub/internal/constants"
)

// RequireRole lets the request through only when the loaded user holds one of
// roles. Must run after RequireUser.
func RequireRole(roles ...constants.Role) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user := auth.GetUser(r.Context())
			if user == nil || !slices.Contains(roles, user.Role) {
				common.RespondError(w, time.Now(), nil, "Forbidden: role not allowed", http.StatusForbidden)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
