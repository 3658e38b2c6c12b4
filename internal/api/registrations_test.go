package api

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"karaoke-events/kjhub/internal/apperr"
	"karaoke-events/kjhub/internal/constants"
	"karaoke-events/kjhub/internal/models/dtos"
)

func TestRegistrationFilter(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/?type=registered&status=pending,%20approved", nil)
	filter, err := registrationFilter(req)
	if err != nil {
		t.Fatalf("registrationFilter failed: %v", err)
	}
	if filter.Type != constants.RegistrationTypeRegistered {
		t.Errorf("Expected type registered, got %q", filter.Type)
	}
	if len(filter.Statuses) != 2 || filter.Statuses[1] != constants.RegistrationStatusApproved {
		t.Errorf("Unexpected statuses %v", filter.Statuses)
	}

	for _, q := range []string{"?type=vip", "?status=pending,lost"} {
		if _, err := registrationFilter(httptest.NewRequest(http.MethodGet, "/"+q, nil)); !apperr.Is(err, apperr.KindValidation) {
			t.Errorf("%s: expected Validation, got %v", q, err)
		}
	}
}

func TestDecodeOptional(t *testing.T) {
	var req dtos.DecisionRequest
	if err := decodeOptional(httptest.NewRequest(http.MethodPost, "/", nil), &req); err != nil {
		t.Errorf("empty body should be accepted, got %v", err)
	}

	body := strings.NewReader(`{"notes":"great set"}`)
	if err := decodeOptional(httptest.NewRequest(http.MethodPost, "/", body), &req); err != nil || req.Notes != "great set" {
		t.Errorf("Expected notes decoded, got %q, %v", req.Notes, err)
	}

	bad := strings.NewReader(`{"unknown":1}`)
	if err := decodeOptional(httptest.NewRequest(http.MethodPost, "/", bad), &req); !apperr.Is(err, apperr.KindValidation) {
		t.Errorf("Expected Validation for unknown field, got %v", err)
	}
}
