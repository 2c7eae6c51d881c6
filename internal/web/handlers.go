package web

import (
	"errors"
	"net/http"

	"github.com/JonMunkholm/TableEdit/internal/core"
	"github.com/JonMunkholm/TableEdit/internal/logging"
	"github.com/JonMunkholm/TableEdit/internal/web/templates"
)

// handleIndex starts a new session and redirects to its page.
func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)

	state, err := s.sessions.Create(ctx)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	http.Redirect(w, r, "/sessions/"+state.SessionID, http.StatusSeeOther)
}

// handleSessionPage renders the editor for an existing session.
func (s *Server) handleSessionPage(w http.ResponseWriter, r *http.Request) {
	state, err := s.sessions.State(sessionIDParam(r))
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	s.renderPage(w, r, http.StatusOK, state)
}

// handleSessionAction applies a form post and redirects back to the page.
// Rejected edits are not request errors here: the warning notice is part
// of the session state and shows up on the redirected page.
func (s *Server) handleSessionAction(w http.ResponseWriter, r *http.Request) {
	ctx := WithRequestMetadata(r.Context(), r)
	id := sessionIDParam(r)

	cmds, err := commandsFromForm(r)
	if err != nil {
		s.respondError(w, r, err, http.StatusBadRequest)
		return
	}

	for _, cmd := range cmds {
		if _, err = s.sessions.Dispatch(ctx, id, cmd); err != nil {
			break
		}
	}
	if errors.Is(err, core.ErrSessionNotFound) {
		s.respondError(w, r, err, http.StatusNotFound)
		return
	}

	http.Redirect(w, r, "/sessions/"+id, http.StatusSeeOther)
}

func (s *Server) renderPage(w http.ResponseWriter, r *http.Request, status int, state core.State) {
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.Header().Set("Cache-Control", "no-store")
	w.WriteHeader(status)
	if err := templates.SessionPage(state).Render(r.Context(), w); err != nil {
		logging.FromContext(r.Context()).Error("render session page", "session_id", state.SessionID, "error", err)
	}
}
