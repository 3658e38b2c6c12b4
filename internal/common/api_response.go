package common

import (
	"encoding/json"
	"net/http"
	"time"

	"karaoke-events/kjhub/internal/apperr"
	"karaoke-events/kjhub/internal/constants"
	"karaoke-events/kjhub/internal/logging"
	"karaoke-events/kjhub/internal/models/dtos"
)

// RespondSuccess sends a standardized JSON success response.
func RespondSuccess(w http.ResponseWriter, initTime time.Time, message string, data any, statusCode ...int) {
	code := http.StatusOK
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	response := dtos.APIResponse{
		Status:       string(constants.APIStatusOk),
		Message:      message,
		ResponseTime: GetResponseTime(initTime),
		Data:         data,
	}

	writeJSON(w, code, response)
}

// RespondError sends a standardized JSON error response. The status comes from
// the error kind unless one is given; uncategorized errors are logged and
// answered with an opaque message.
func RespondError(w http.ResponseWriter, initTime time.Time, err error, message string, statusCode ...int) {
	code := apperr.HTTPStatus(err)
	if err == nil {
		code = http.StatusInternalServerError
	}
	if len(statusCode) > 0 {
		code = statusCode[0]
	}

	msg := message
	switch {
	case err == nil:
	case apperr.KindOf(err) == apperr.KindInternal:
		logging.Error("Request failed", "error", err, "message", message)
		if msg == "" {
			msg = apperr.PublicMessage(err)
		}
	default:
		msg = apperr.PublicMessage(err)
	}

	response := dtos.APIResponse{
		Status:       string(constants.APIStatusError),
		Message:      msg,
		ResponseTime: GetResponseTime(initTime),
	}

	writeJSON(w, code, response)
}

// writeJSON marshals data and writes it to the HTTP response.
func writeJSON(w http.ResponseWriter, code int, body dtos.APIResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)

	if err := json.NewEncoder(w).Encode(body); err != nil {
		logging.Error("JSON encode failed", "error", err)
	}
}
