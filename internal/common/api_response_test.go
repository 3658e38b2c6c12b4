package common

import (
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"karaoke-events/kjhub/internal/apperr"
	"karaoke-events/kjhub/internal/constants"
	"karaoke-events/kjhub/internal/models/dtos"
)

func decodeEnvelope(t *testing.T, rec *httptest.ResponseRecorder) dtos.APIResponse {
	t.Helper()
	var body dtos.APIResponse
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	return body
}

func TestRespondError_MapsKind(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, time.Now(), apperr.Conflict("Event is full"), "could not approve")

	if rec.Code != http.StatusConflict {
		t.Errorf("Expected 409, got %d", rec.Code)
	}

	body := decodeEnvelope(t, rec)
	if body.Status != string(constants.APIStatusError) || body.Message != "Event is full" {
		t.Errorf("Unexpected body: %+v", body)
	}
}

func TestRespondError_HidesInternalDetail(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondError(rec, time.Now(), errors.New("pq: password authentication failed"), "")

	if rec.Code != http.StatusInternalServerError {
		t.Errorf("Expected 500, got %d", rec.Code)
	}

	body := decodeEnvelope(t, rec)
	if body.Message != constants.MsgInternal {
		t.Errorf("Expected opaque message, got %q", body.Message)
	}
}

func TestRespondSuccess(t *testing.T) {
	rec := httptest.NewRecorder()
	RespondSuccess(rec, time.Now(), "created", map[string]string{"id": "1"}, http.StatusCreated)

	if rec.Code != http.StatusCreated {
		t.Errorf("Expected 201, got %d", rec.Code)
	}
	body := decodeEnvelope(t, rec)
	if body.Status != string(constants.APIStatusOk) || body.Data == nil {
		t.Errorf("Unexpected body: %+v", body)
	}
}

func TestTotalPages(t *testing.T) {
	cases := []struct {
		total int64
		limit int
		want  int
	}{
		{0, 6, 0},
		{6, 6, 1},
		{7, 6, 2},
		{5, 0, 0},
	}
	for _, c := range cases {
		if got := TotalPages(c.total, c.limit); got != c.want {
			t.Errorf("TotalPages(%d, %d) = %d, want %d", c.total, c.limit, got, c.want)
		}
	}
}
