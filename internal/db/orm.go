package db

import (
	"fmt"
	"io"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"karaoke-events/kjhub/internal/logging"
)

// OpenORM connects GORM to Postgres. The handle is created once at process
// start and shared by every repository.
func OpenORM(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), ORMConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, fmt.Errorf("failed to get sql.DB from gorm: %w", err)
	}
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(5)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)

	logging.Info("Connected to Postgres via GORM")
	return db, nil
}

// ORMConfig is shared with tests so unique-index violations surface as
// gorm.ErrDuplicatedKey on every driver.
func ORMConfig() *gorm.Config {
	return &gorm.Config{
		TranslateError: true,
		Logger:         newGormLogger(os.Stdout),
	}
}

// newGormLogger reports slow queries and errors. Missing rows are an expected
// lookup outcome and are mapped to not-found errors by the repositories.
func newGormLogger(w io.Writer) gormlogger.Interface {
	return gormlogger.New(log.New(w, "\r\n", log.LstdFlags), gormlogger.Config{
		SlowThreshold:             200 * time.Millisecond,
		LogLevel:                  gormlogger.Warn,
		IgnoreRecordNotFoundError: true,
	})
}
