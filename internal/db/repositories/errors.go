package repositories

import (
	"gorm.io/gorm"

	"karaoke-events/kjhub/internal/apperr"
)

func readErr(op string, err error, notFound string) error {
	return apperr.FromStore(op, err, notFound, "")
}

func writeErr(op string, err error, conflict string) error {
	return apperr.FromStore(op, err, "", conflict)
}

// publicProfile limits a preloaded user to the columns other users may see.
func publicProfile(db *gorm.DB) *gorm.DB {
	return db.Select("id", "username", "first_name", "last_name", "photo_avatar", "role")
}
