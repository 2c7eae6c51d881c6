package web

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/JonMunkholm/TableEdit/internal/core"
	"github.com/go-chi/chi/v5"
)

// maxCommandBody bounds a JSON command request.
const maxCommandBody = 64 * 1024

var errBadRequest = errors.New("invalid request")

// parseIntParam parses a positive integer query parameter with a default.
func parseIntParam(r *http.Request, name string, defaultVal int) int {
	val := r.URL.Query().Get(name)
	if val == "" {
		return defaultVal
	}
	i, err := strconv.Atoi(val)
	if err != nil || i < 1 {
		return defaultVal
	}
	return i
}

func sessionIDParam(r *http.Request) string {
	return chi.URLParam(r, "sessionID")
}

// commandRequest is the wire form of core.Command. Row is a pointer so a
// missing row can be told apart from row 0.
type commandRequest struct {
	Kind   core.CommandKind `json:"kind"`
	Row    *int             `json:"row"`
	Column string           `json:"column"`
	Value  string           `json:"value"`
}

// decodeCommand reads a JSON command body. Unknown fields are rejected, and
// edit_cell must name its row.
func decodeCommand(w http.ResponseWriter, r *http.Request) (core.Command, error) {
	var req commandRequest

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxCommandBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return core.Command{}, fmt.Errorf("%w: empty body", errBadRequest)
		}
		return core.Command{}, fmt.Errorf("%w: %v", errBadRequest, err)
	}
	if req.Kind == "" {
		return core.Command{}, fmt.Errorf("%w: missing command kind", errBadRequest)
	}
	if req.Kind == core.CmdEditCell && req.Row == nil {
		return core.Command{}, fmt.Errorf("%w: edit_cell needs a row", errBadRequest)
	}

	cmd := core.Command{Kind: req.Kind, Column: req.Column, Value: req.Value}
	if req.Row != nil {
		cmd.Row = *req.Row
	}
	return cmd, nil
}

// commandsFromForm builds the commands for a page form post. The bulk apply
// button submits the typed value too, so it expands to set_bulk_value
// followed by apply_bulk.
func commandsFromForm(r *http.Request) ([]core.Command, error) {
	if err := r.ParseForm(); err != nil {
		return nil, fmt.Errorf("%w: %v", errBadRequest, err)
	}

	cmd := core.Command{
		Kind:   core.CommandKind(strings.TrimSpace(r.PostForm.Get("kind"))),
		Column: r.PostForm.Get("column"),
		Value:  r.PostForm.Get("value"),
	}
	if cmd.Kind == "" {
		return nil, fmt.Errorf("%w: missing command kind", errBadRequest)
	}
	if raw := r.PostForm.Get("row"); raw != "" {
		row, err := strconv.Atoi(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: row %q", errBadRequest, raw)
		}
		cmd.Row = row
	} else if cmd.Kind == core.CmdEditCell {
		return nil, fmt.Errorf("%w: edit_cell needs a row", errBadRequest)
	}

	if cmd.Kind == core.CmdApplyBulk && r.PostForm.Has("value") {
		return []core.Command{
			{Kind: core.CmdSetBulkValue, Column: cmd.Column, Value: cmd.Value},
			{Kind: core.CmdApplyBulk, Column: cmd.Column},
		}, nil
	}
	return []core.Command{cmd}, nil
}
