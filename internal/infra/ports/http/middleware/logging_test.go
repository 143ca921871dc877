package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"testing"
)

func TestRequestLevel(t *testing.T) {
	tests := []struct {
		status int
		err    error
		want   slog.Level
	}{
		{http.StatusOK, nil, slog.LevelInfo},
		{http.StatusSwitchingProtocols, nil, slog.LevelInfo},
		{http.StatusForbidden, nil, slog.LevelWarn},
		{http.StatusOK, errors.New("write failed"), slog.LevelError},
		{http.StatusServiceUnavailable, nil, slog.LevelError},
	}

	for _, tt := range tests {
		if got := requestLevel(tt.status, tt.err); got != tt.want {
			t.Fatalf("status %d err %v: expected %s, got %s", tt.status, tt.err, tt.want, got)
		}
	}
}
