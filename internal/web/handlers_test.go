package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	"github.com/JonMunkholm/TableEdit/internal/config"
	"github.com/JonMunkholm/TableEdit/internal/core"
)

func newTestServer(t *testing.T, mutate func(*config.Config)) (*Server, *core.Manager) {
	t.Helper()
	cfg := &config.Config{
		Server:   config.ServerConfig{Port: 8080, RequestTimeout: 5 * time.Second},
		Session:  config.SessionConfig{IdleTimeout: time.Hour, MaxSessions: 5},
		Security: config.SecurityConfig{EnableCSP: true},
	}
	if mutate != nil {
		mutate(cfg)
	}
	manager := core.NewManager(core.ManagerConfig{
		IdleTimeout: cfg.Session.IdleTimeout,
		MaxSessions: cfg.Session.MaxSessions,
	}, nil)
	return NewServer(manager, cfg), manager
}

func do(t *testing.T, s *Server, method, target, body string, headers map[string]string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, req)
	return rec
}

func createSession(t *testing.T, s *Server) core.State {
	t.Helper()
	rec := do(t, s, http.MethodPost, "/api/sessions", "", nil)
	if rec.Code != http.StatusCreated {
		t.Fatalf("create status = %d, body = %s", rec.Code, rec.Body.String())
	}
	var state core.State
	if err := json.Unmarshal(rec.Body.Bytes(), &state); err != nil {
		t.Fatalf("decode state: %v", err)
	}
	return state
}

func command(t *testing.T, s *Server, id string, cmd core.Command) (*httptest.ResponseRecorder, CommandResponse) {
	t.Helper()
	body, _ := json.Marshal(cmd)
	rec := do(t, s, http.MethodPost, "/api/sessions/"+id+"/commands", string(body), map[string]string{"Content-Type": "application/json"})
	var resp CommandResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode command response: %v (body %s)", err, rec.Body.String())
	}
	return rec, resp
}

func TestHealth(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/healthz", "", nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	if rec.Header().Get("X-Content-Type-Options") != "nosniff" {
		t.Error("security headers missing")
	}
	if rec.Header().Get("Content-Security-Policy") == "" {
		t.Error("CSP header missing")
	}
}

func TestColumns(t *testing.T) {
	s, _ := newTestServer(t, nil)
	rec := do(t, s, http.MethodGet, "/api/columns", "", nil)

	var cols []core.ColumnMeta
	if err := json.Unmarshal(rec.Body.Bytes(), &cols); err != nil {
		t.Fatal(err)
	}
	if len(cols) != 5 || cols[0].Name != core.ColManufacturer {
		t.Errorf("columns = %+v", cols)
	}
}

func TestCreateSession(t *testing.T) {
	s, manager := newTestServer(t, nil)
	state := createSession(t, s)

	if state.SessionID == "" || state.Mode != core.ModeReadOnly || state.Dirty {
		t.Errorf("unexpected initial state: %+v", state)
	}
	if len(state.Rows) != 3 {
		t.Errorf("rows = %d, want 3", len(state.Rows))
	}
	if manager.Len() != 1 {
		t.Errorf("manager.Len() = %d, want 1", manager.Len())
	}
}

func TestCreateSession_Limit(t *testing.T) {
	s, _ := newTestServer(t, func(c *config.Config) { c.Session.MaxSessions = 1 })
	createSession(t, s)

	rec := do(t, s, http.MethodPost, "/api/sessions", "", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "SES003") {
		t.Errorf("body = %s", rec.Body.String())
	}
}

func TestCommand_EditAndSave(t *testing.T) {
	s, _ := newTestServer(t, nil)
	id := createSession(t, s).SessionID

	_, resp := command(t, s, id, core.Command{Kind: core.CmdToggleMode})
	if !resp.State.Editing() {
		t.Fatal("expected edit mode after toggle")
	}

	rec, resp := command(t, s, id, core.Command{Kind: core.CmdEditCell, Row: 1, Column: core.ColDescription, Value: "New text"})
	if rec.Code != http.StatusOK || !resp.State.Dirty {
		t.Fatalf("edit: status %d, dirty %v", rec.Code, resp.State.Dirty)
	}

	_, resp = command(t, s, id, core.Command{Kind: core.CmdSave})
	if resp.State.Dirty || resp.State.Notice == nil || resp.State.Notice.Level != core.NoticeSuccess {
		t.Errorf("save state = %+v", resp.State)
	}
	if resp.State.Rows[1][core.ColDescription] != "New text" {
		t.Error("saved value missing from state")
	}

	rec = do(t, s, http.MethodGet, "/api/sessions/"+id+"/audit", "", nil)
	var audit struct {
		Entries []core.AuditEntry `json:"entries"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &audit); err != nil {
		t.Fatal(err)
	}
	var actions []core.AuditAction
	for _, e := range audit.Entries {
		actions = append(actions, e.Action)
	}
	if len(actions) != 3 || actions[0] != core.ActionSave || actions[1] != core.ActionCellEdit || actions[2] != core.ActionSessionStart {
		t.Errorf("audit actions = %v", actions)
	}
}

func TestCommand_Errors(t *testing.T) {
	s, _ := newTestServer(t, nil)
	id := createSession(t, s).SessionID

	// Read-only session.
	rec, resp := command(t, s, id, core.Command{Kind: core.CmdEditCell, Row: 0, Column: core.ColDescription, Value: "x"})
	if rec.Code != http.StatusConflict || resp.Error == nil || resp.Error.Code != "SES001" {
		t.Errorf("read-only edit: status %d, error %+v", rec.Code, resp.Error)
	}

	command(t, s, id, core.Command{Kind: core.CmdToggleMode})

	tests := []struct {
		name   string
		cmd    core.Command
		status int
		code   string
	}{
		{"too long", core.Command{Kind: core.CmdEditCell, Column: core.ColDescription, Value: strings.Repeat("a", 41)}, http.StatusUnprocessableEntity, "VAL002"},
		{"not an option", core.Command{Kind: core.CmdEditCell, Column: core.ColProductStatus, Value: "retired"}, http.StatusUnprocessableEntity, "VAL003"},
		{"unknown column", core.Command{Kind: core.CmdEditCell, Column: "Price", Value: "1"}, http.StatusBadRequest, "VAL004"},
		{"row out of range", core.Command{Kind: core.CmdEditCell, Row: 7, Column: core.ColDescription, Value: "x"}, http.StatusBadRequest, "TBL001"},
		{"unknown kind", core.Command{Kind: "explode"}, http.StatusBadRequest, "SES004"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := command(t, s, id, tt.cmd)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if resp.Error == nil || resp.Error.Code != tt.code {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.code)
			}
			if resp.State.Dirty {
				t.Error("rejected command must not dirty the session")
			}
			if resp.State.Notice == nil || resp.State.Notice.Level != core.NoticeWarning {
				t.Errorf("notice = %+v, want warning", resp.State.Notice)
			}
		})
	}
}

func TestCommand_BadBody(t *testing.T) {
	s, _ := newTestServer(t, nil)
	id := createSession(t, s).SessionID

	for _, body := range []string{"", "{", `{"kind":"save","extra":1}`, `{}`} {
		rec := do(t, s, http.MethodPost, "/api/sessions/"+id+"/commands", body, nil)
		if rec.Code != http.StatusBadRequest {
			t.Errorf("body %q: status = %d, want 400", body, rec.Code)
		}
	}
}

func TestCommand_EditCellNeedsRow(t *testing.T) {
	s, _ := newTestServer(t, nil)
	state := createSession(t, s)
	id := state.SessionID
	command(t, s, id, core.Command{Kind: core.CmdToggleMode})

	post := func(body string) *httptest.ResponseRecorder {
		return do(t, s, http.MethodPost, "/api/sessions/"+id+"/commands", body, map[string]string{"Content-Type": "application/json"})
	}

	rec := post(`{"kind":"edit_cell","column":"Description","value":"Changed"}`)
	if rec.Code != http.StatusBadRequest || !strings.Contains(rec.Body.String(), "REQ003") {
		t.Errorf("missing row: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = post(`{"kind":"edit_cell","row":0,"column":"Description","value":"Changed"}`)
	if rec.Code != http.StatusOK {
		t.Fatalf("explicit row 0: status %d body %s", rec.Code, rec.Body.String())
	}
	var resp CommandResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if len(resp.State.Changes) != 1 || resp.State.Changes[0].Row != 0 {
		t.Errorf("changes = %+v, want one change on row 0", resp.State.Changes)
	}

	page := "/sessions/" + id + "/actions"
	form := url.Values{"kind": {"edit_cell"}, "column": {core.ColDescription}, "value": {"Other"}}
	rec = do(t, s, http.MethodPost, page, form.Encode(), map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
	if rec.Code != http.StatusBadRequest {
		t.Errorf("form without row: status = %d, want 400", rec.Code)
	}
	got := do(t, s, http.MethodGet, "/api/sessions/"+id, "", nil)
	var after core.State
	if err := json.Unmarshal(got.Body.Bytes(), &after); err != nil {
		t.Fatal(err)
	}
	if after.Rows[0][core.ColDescription] != "Changed" {
		t.Errorf("row 0 description = %q, form without row must not edit it", after.Rows[0][core.ColDescription])
	}
}

// Column names and command kinds come from the client; their text must not
// steer the error code.
func TestCommand_ErrorCodeIgnoresClientText(t *testing.T) {
	s, _ := newTestServer(t, nil)
	id := createSession(t, s).SessionID
	command(t, s, id, core.Command{Kind: core.CmdToggleMode})

	tests := []struct {
		name   string
		cmd    core.Command
		status int
		code   string
	}{
		{"column named like a constraint", core.Command{Kind: core.CmdEditCell, Column: "Required Field", Value: "x"}, http.StatusBadRequest, "VAL004"},
		{"column named like a sentinel", core.Command{Kind: core.CmdOpenBulkPanel, Column: "session not found"}, http.StatusBadRequest, "VAL004"},
		{"kind named like a constraint", core.Command{Kind: "must be one of"}, http.StatusBadRequest, "SES004"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec, resp := command(t, s, id, tt.cmd)
			if rec.Code != tt.status {
				t.Errorf("status = %d, want %d", rec.Code, tt.status)
			}
			if resp.Error == nil || resp.Error.Code != tt.code {
				t.Errorf("error = %+v, want code %s", resp.Error, tt.code)
			}
			if resp.State.Notice == nil || resp.State.Notice.Code != tt.code {
				t.Errorf("notice = %+v, want code %s", resp.State.Notice, tt.code)
			}
		})
	}
}

func TestSessionNotFound(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/api/sessions/missing", "", nil)
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Body.String(), "SES002") {
		t.Errorf("api: status %d body %s", rec.Code, rec.Body.String())
	}

	rec = do(t, s, http.MethodGet, "/sessions/missing", "", nil)
	if rec.Code != http.StatusNotFound || !strings.Contains(rec.Header().Get("Content-Type"), "text/html") {
		t.Errorf("page: status %d, content type %q", rec.Code, rec.Header().Get("Content-Type"))
	}
}

func TestCloseSession(t *testing.T) {
	s, manager := newTestServer(t, nil)
	id := createSession(t, s).SessionID

	if rec := do(t, s, http.MethodDelete, "/api/sessions/"+id, "", nil); rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d", rec.Code)
	}
	if manager.Len() != 0 {
		t.Error("session not removed")
	}
	if rec := do(t, s, http.MethodDelete, "/api/sessions/"+id, "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("second delete status = %d, want 404", rec.Code)
	}
}

func TestPageFlow(t *testing.T) {
	s, _ := newTestServer(t, nil)

	rec := do(t, s, http.MethodGet, "/", "", nil)
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("index status = %d", rec.Code)
	}
	page := rec.Header().Get("Location")
	if !strings.HasPrefix(page, "/sessions/") {
		t.Fatalf("Location = %q", page)
	}

	form := func(values url.Values) *httptest.ResponseRecorder {
		return do(t, s, http.MethodPost, page+"/actions", values.Encode(),
			map[string]string{"Content-Type": "application/x-www-form-urlencoded"})
	}

	if rec := form(url.Values{"kind": {"toggle_mode"}}); rec.Code != http.StatusSeeOther {
		t.Fatalf("toggle status = %d", rec.Code)
	}
	form(url.Values{"kind": {"open_bulk_panel"}, "column": {core.ColProductStatus}})
	form(url.Values{"kind": {"apply_bulk"}, "column": {core.ColProductStatus}, "value": {"inactive"}})

	rec = do(t, s, http.MethodGet, page, "", nil)
	body := rec.Body.String()
	if rec.Code != http.StatusOK {
		t.Fatalf("page status = %d", rec.Code)
	}
	for _, want := range []string{"Edit mode: on", "for all 3 rows", "notice-success", "Save changes"} {
		if !strings.Contains(body, want) {
			t.Errorf("page missing %q", want)
		}
	}
	if strings.Contains(body, "Apply to all") {
		t.Error("bulk panel should close after a successful apply")
	}

	// A rejected edit still redirects; the warning shows on the page.
	rec = form(url.Values{"kind": {"edit_cell"}, "row": {"0"}, "column": {core.ColDescription}, "value": {strings.Repeat("x", 41)}})
	if rec.Code != http.StatusSeeOther {
		t.Fatalf("rejected edit status = %d", rec.Code)
	}
	body = do(t, s, http.MethodGet, page, "", nil).Body.String()
	if !strings.Contains(body, "notice-warning") || !strings.Contains(body, "VAL002") {
		t.Error("warning notice not shown after rejected edit")
	}

	if rec := form(url.Values{"kind": {"edit_cell"}, "row": {"abc"}}); rec.Code != http.StatusBadRequest {
		t.Errorf("bad row status = %d, want 400", rec.Code)
	}
}

func TestAPIKeyRequired(t *testing.T) {
	s, _ := newTestServer(t, func(c *config.Config) {
		c.Security.RequireAPIKey = true
		c.Security.APIKeys = []string{"secret"}
	})

	if rec := do(t, s, http.MethodGet, "/api/columns", "", nil); rec.Code != http.StatusUnauthorized {
		t.Errorf("no key status = %d, want 401", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/api/columns", "", map[string]string{"X-API-Key": "secret"}); rec.Code != http.StatusOK {
		t.Errorf("valid key status = %d, want 200", rec.Code)
	}
	if rec := do(t, s, http.MethodGet, "/healthz", "", nil); rec.Code != http.StatusOK {
		t.Errorf("healthz should not need a key, got %d", rec.Code)
	}
}

func TestRateLimit(t *testing.T) {
	s, _ := newTestServer(t, func(c *config.Config) {
		c.Rate = config.RateLimitConfig{Enabled: true, RequestsPerMinute: 2}
	})

	for i := 0; i < 2; i++ {
		if rec := do(t, s, http.MethodGet, "/healthz", "", nil); rec.Code != http.StatusOK {
			t.Fatalf("request %d status = %d", i, rec.Code)
		}
	}
	if rec := do(t, s, http.MethodGet, "/healthz", "", nil); rec.Code != http.StatusTooManyRequests {
		t.Errorf("status = %d, want 429", rec.Code)
	}
}
