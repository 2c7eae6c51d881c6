package web

import (
	"net/http"

	"github.com/JonMunkholm/TableEdit/internal/core"
)

// CommandResponse is the body of POST /api/sessions/{id}/commands. State is
// always present; Error is set when the command was rejected.
type CommandResponse struct {
	State core.State     `json:"state"`
	Error *ErrorResponse `json:"error,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, map[string]any{
		"status":   "ok",
		"sessions": s.sessions.Len(),
	})
}

func (s *Server) handleColumns(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, r, http.StatusOK, core.BuildColumnMeta(s.sessions.Specs()))
}

func (s *Server) handleCreateSession(w http.ResponseWriter, r *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)

	state, err := s.sessions.Create(ctx)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	w.Header().Set("Location", "/api/sessions/"+state.SessionID)
	writeJSON(w, r, http.StatusCreated, state)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	state, err := s.sessions.State(sessionIDParam(r))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	writeJSON(w, r, http.StatusOK, state)
}

func (s *Server) handleCloseSession(w http.ResponseWriter, r *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)

	if err := s.sessions.Close(ctx, sessionIDParam(r)); err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// handleCommand dispatches one JSON command. A rejected command still
// returns the session state so the client can render the warning notice.
func (s *Server) handleCommand(w http.ResponseWriter, r *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)

	cmd, err := decodeCommand(w, r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	state, err := s.sessions.Dispatch(ctx, sessionIDParam(r), cmd)
	if err != nil {
		status := statusFor(err)
		if status == http.StatusNotFound {
			s.respondError(w, r, err, status)
			return
		}
		resp := newErrorResponse(err)
		writeJSON(w, r, status, CommandResponse{State: state, Error: &resp})
		return
	}

	writeJSON(w, r, http.StatusOK, CommandResponse{State: state})
}
