package web

import (
	"net/http"

	"github.com/JonMunkholm/TableEdit/internal/core"
)

const defaultAuditLimit = 50

// handleSessionAudit returns the session's recent audit entries, newest
// first. ?limit= caps the count.
func (s *Server) handleSessionAudit(w http.ResponseWriter, r *http.Request) {
	limit := parseIntParam(r, "limit", defaultAuditLimit)

	entries, err := s.sessions.RecentAudit(r.Context(), sessionIDParam(r), limit)
	if err != nil {
		s.respondError(w, r, err, statusFor(err))
		return
	}
	if entries == nil {
		entries = []core.AuditEntry{}
	}

	writeJSON(w, r, http.StatusOK, map[string]any{
		"entries": entries,
		"count":   len(entries),
	})
}
