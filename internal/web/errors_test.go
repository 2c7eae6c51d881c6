package web

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"testing"

	"github.com/JonMunkholm/TableEdit/internal/core"
)

func TestStatusFor(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{"validation", core.ValidationError{Kind: core.ValidationRequired}, http.StatusUnprocessableEntity},
		{"read only", core.ErrReadOnly, http.StatusConflict},
		{"not found", fmt.Errorf("get: %w", core.ErrSessionNotFound), http.StatusNotFound},
		{"too many", core.ErrTooManySessions, http.StatusServiceUnavailable},
		{"bad request", fmt.Errorf("%w: empty body", errBadRequest), http.StatusBadRequest},
		{"deadline", context.DeadlineExceeded, http.StatusGatewayTimeout},
		{"unknown", errors.New("boom"), http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := statusFor(tt.err); got != tt.want {
				t.Errorf("statusFor(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestLogLevelFor(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		status int
		want   slog.Level
	}{
		{"known client error", core.ErrReadOnly, http.StatusConflict, slog.LevelWarn},
		{"bad request", fmt.Errorf("%w: empty body", errBadRequest), http.StatusBadRequest, slog.LevelWarn},
		{"unmapped client error", errors.New("odd input"), http.StatusBadRequest, slog.LevelError},
		{"known server error", core.ErrTooManySessions, http.StatusServiceUnavailable, slog.LevelError},
		{"unmapped server error", errors.New("boom"), http.StatusInternalServerError, slog.LevelError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := logLevelFor(tt.err, tt.status); got != tt.want {
				t.Errorf("logLevelFor(%v, %d) = %v, want %v", tt.err, tt.status, got, tt.want)
			}
		})
	}
}
