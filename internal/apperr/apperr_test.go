package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"gorm.io/gorm"

	"karaoke-events/kjhub/internal/constants"
)

func TestHTTPStatus(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", Validation("bad"), http.StatusBadRequest},
		{"conflict", Conflict("dup"), http.StatusConflict},
		{"not found", NotFound("missing"), http.StatusNotFound},
		{"unauthorized", Unauthorized("nope"), http.StatusForbidden},
		{"internal", Internal("op", errors.New("boom")), http.StatusInternalServerError},
		{"plain error", errors.New("boom"), http.StatusInternalServerError},
		{"wrapped", fmt.Errorf("outer: %w", Conflict("dup")), http.StatusConflict},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := HTTPStatus(tc.err); got != tc.want {
				t.Errorf("HTTPStatus() = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestPublicMessageHidesInternalDetail(t *testing.T) {
	err := Internal("load event", errors.New("pq: connection refused"))
	if msg := PublicMessage(err); msg != constants.MsgInternal {
		t.Errorf("expected opaque message, got %q", msg)
	}

	if msg := PublicMessage(NotFound("Event not found")); msg != "Event not found" {
		t.Errorf("expected user message, got %q", msg)
	}
}

func TestFromStore(t *testing.T) {
	if err := FromStore("op", nil, "nf", "dup"); err != nil {
		t.Fatalf("expected nil, got %v", err)
	}

	if err := FromStore("op", gorm.ErrRecordNotFound, "Event not found", "dup"); !Is(err, KindNotFound) {
		t.Errorf("expected NotFound, got %v", err)
	}

	if err := FromStore("op", fmt.Errorf("insert: %w", gorm.ErrDuplicatedKey), "nf", "Already exists"); !Is(err, KindConflict) {
		t.Errorf("expected Conflict, got %v", err)
	}

	if err := FromStore("op", errors.New("disk full"), "nf", "dup"); !Is(err, KindInternal) {
		t.Errorf("expected Internal, got %v", err)
	}

	original := Unauthorized("not yours")
	if err := FromStore("op", original, "nf", "dup"); err != original {
		t.Errorf("expected categorized error to pass through unchanged")
	}
}
