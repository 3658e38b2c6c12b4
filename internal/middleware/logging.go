package middleware

import (
	"net/http"
	"time"

	"karaoke-events/kjhub/internal/logging"
)

// Logging traces request start and end at debug level. Headers and bodies
// are never logged since they carry bearer tokens and profile data.
func Logging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		logging.Debug("HTTP request started",
			"request_id", RequestIDFromContext(r.Context()),
			"method", r.Method,
			"path", r.URL.Path,
		)

		lw := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}
		next.ServeHTTP(lw, r)

		logging.Debug("HTTP request finished",
			"request_id", RequestIDFromContext(r.Context()),
			"status_code", lw.statusCode,
			"duration", time.Since(start).String(),
		)
	})
}
