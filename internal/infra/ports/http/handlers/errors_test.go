package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/qrave1/RoomRadio/internal/domain/models"
)

func TestErrorMapping(t *testing.T) {
	tests := []struct {
		err    error
		code   string
		status int
	}{
		{models.ErrInvalidRoom, "invalid_room", http.StatusNotFound},
		{fmt.Errorf("update room x: %w", models.ErrStaleWrite), "stale_write", http.StatusConflict},
		{models.ErrNotHost, "not_host", http.StatusForbidden},
		{models.ErrUnauthenticated, "unauthenticated", http.StatusUnauthorized},
		{fmt.Errorf("%w: unknown type", errBadMessage), "bad_message", http.StatusBadRequest},
		{errors.New("valkey down"), "internal", http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			if got := errorCode(tt.err); got != tt.code {
				t.Fatalf("expected code %s, got %s", tt.code, got)
			}
			if got := errorStatus(tt.err); got != tt.status {
				t.Fatalf("expected status %d, got %d", tt.status, got)
			}
		})
	}
}
