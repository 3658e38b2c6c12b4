package db

import (
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"karaoke-events/kjhub/internal/logging"
)

// OpenSQLX connects the read-side handle used for aggregate queries,
// retrying while the database comes up.
func OpenSQLX(dsn string) (*sqlx.DB, error) {
	var (
		db  *sqlx.DB
		err error
	)

	for i := 0; i < 10; i++ {
		db, err = sqlx.Connect("postgres", dsn)
		if err == nil {
			logging.Info("Connected to Postgres via sqlx")
			return db, nil
		}
		logging.Warn("Postgres not ready, retrying", "attempt", i+1, "error", err)
		time.Sleep(500 * time.Millisecond)
	}
	return nil, fmt.Errorf("failed to connect to postgres after retries: %w", err)
}
