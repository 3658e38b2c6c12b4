package api

import (
	"net/http"
	"time"

	"karaoke-events/kjhub/internal/auth"
	"karaoke-events/kjhub/internal/common"
	gormModels "karaoke-events/kjhub/internal/models/gorm"
)

type Handlers struct {
	deps *Dependencies
}

// NewHandlers creates a new handlers instance with injected dependencies
func NewHandlers(deps *Dependencies) *Handlers {
	return &Handlers{
		deps: deps,
	}
}

// identity returns the verified identity subject or answers 401.
func identity(w http.ResponseWriter, r *http.Request, initTime time.Time) (string, bool) {
	claims := auth.GetIdentity(r.Context())
	if claims == nil {
		common.RespondError(w, initTime, nil, "Unauthorized: missing claims", http.StatusUnauthorized)
		return "", false
	}
	return claims.IdentityID(), true
}

// currentUser returns the directory record loaded by RequireUser or answers 401.
func currentUser(w http.ResponseWriter, r *http.Request, initTime time.Time) (*gormModels.User, bool) {
	user := auth.GetUser(r.Context())
	if user == nil {
		common.RespondError(w, initTime, nil, "Unauthorized: missing user", http.StatusUnauthorized)
		return nil, false
	}
	return user, true
}
