// Package templates holds the templ components for the table edit pages.
//
// The *_templ.go files are generated from the .templ sources; run
// `templ generate` in this directory after editing them.
package templates

import (
	"fmt"
	"strconv"

	"github.com/JonMunkholm/TableEdit/internal/core"
)

const pageTitle = "Directly Editable Data Table"

// sessionAction is the form target for every editor control.
func sessionAction(sessionID string) string {
	return "/sessions/" + sessionID + "/actions"
}

func cellKey(row int, column string) string {
	return strconv.Itoa(row) + "\x00" + column
}

// changedCells indexes the pending changes by cell for highlighting.
func changedCells(state core.State) map[string]bool {
	changed := make(map[string]bool, len(state.Changes))
	for _, c := range state.Changes {
		changed[cellKey(c.Row, c.Column)] = true
	}
	return changed
}

func anyPanelOpen(state core.State) bool {
	for _, p := range state.BulkPanels {
		if p.Open {
			return true
		}
	}
	return false
}

func isEnum(col core.ColumnMeta) bool {
	return col.Type == core.FieldEnum.String()
}

func cellLabel(col core.ColumnMeta, row int) string {
	return fmt.Sprintf("%s, row %d", col.Name, row+1)
}

func changeSummary(n int) string {
	return fmt.Sprintf("%d unsaved change(s)", n)
}
