package web

// errors.go turns errors into responses. The technical error is logged with
// the request ID; the client gets the mapped core.UserMessage as JSON for
// API calls or an HTML alert for page requests.

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/JonMunkholm/TableEdit/internal/core"
	"github.com/JonMunkholm/TableEdit/internal/logging"
	"github.com/JonMunkholm/TableEdit/internal/web/templates"
)

// ErrorResponse is the JSON body of an API error.
type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message"`
	Action  string `json:"action,omitempty"`
	Code    string `json:"code"`
}

func newErrorResponse(err error) ErrorResponse {
	msg := core.MapError(err)
	text := msg.Message
	var ve core.ValidationError
	if errors.As(err, &ve) {
		text = ve.Error()
	}
	return ErrorResponse{Error: text, Message: msg.Message, Action: msg.Action, Code: msg.Code}
}

// statusFor maps domain errors to HTTP status codes.
func statusFor(err error) int {
	var ve core.ValidationError
	switch {
	case errors.As(err, &ve):
		return http.StatusUnprocessableEntity
	case errors.Is(err, core.ErrReadOnly):
		return http.StatusConflict
	case errors.Is(err, core.ErrSessionNotFound):
		return http.StatusNotFound
	case errors.Is(err, core.ErrTooManySessions):
		return http.StatusServiceUnavailable
	case errors.Is(err, core.ErrUnknownColumn),
		errors.Is(err, core.ErrRowOutOfRange),
		errors.Is(err, core.ErrUnknownCommand),
		errors.Is(err, errBadRequest):
		return http.StatusBadRequest
	case errors.Is(err, context.DeadlineExceeded):
		return http.StatusGatewayTimeout
	default:
		return http.StatusInternalServerError
	}
}

// respondError logs err and writes the user-facing form of it.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error, status int) {
	resp := newErrorResponse(err)

	logger := logging.FromContext(r.Context())
	logger.Log(r.Context(), logLevelFor(err, status), "request error",
		"path", r.URL.Path, "method", r.Method, "status", status, "error", err.Error(), "code", resp.Code)

	if wantsJSON(r) {
		writeJSON(w, r, status, resp)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	if err := templates.ErrorPage(resp.Message, resp.Action, resp.Code).Render(r.Context(), w); err != nil {
		logger.Error("render error page", "error", err)
	}
}

// logLevelFor picks warn for client mistakes with a known message. Server
// errors and anything that fell through to ERR000 are logged as errors.
func logLevelFor(err error, status int) slog.Level {
	if status >= http.StatusInternalServerError || !core.IsUserFacing(err) {
		return slog.LevelError
	}
	return slog.LevelWarn
}

// wantsJSON reports whether the client expects a JSON response.
func wantsJSON(r *http.Request) bool {
	if strings.HasPrefix(r.URL.Path, "/api/") {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), "application/json") ||
		strings.Contains(r.Header.Get("Content-Type"), "application/json")
}
