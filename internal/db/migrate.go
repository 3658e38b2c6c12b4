package db

import (
	"fmt"

	"gorm.io/gorm"

	gormModels "karaoke-events/kjhub/internal/models/gorm"
)

// Models lists every table owned by the service, in dependency order.
func Models() []any {
	return []any{
		&gormModels.User{},
		&gormModels.Category{},
		&gormModels.Event{},
		&gormModels.Registration{},
		&gormModels.Rating{},
		&gormModels.Notification{},
	}
}

func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("failed to migrate schema: %w", err)
	}
	return nil
}
