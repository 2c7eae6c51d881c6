package core

// CellChange is one cell that differs between two table snapshots.
type CellChange struct {
	Row      int    `json:"row"`
	Column   string `json:"column"`
	OldValue string `json:"oldValue"`
	NewValue string `json:"newValue"`
}

// Diff returns the cells of next that differ from prev, in row then column
// order. Both tables must share the row count; rows beyond the shorter
// table are ignored.
func Diff(prev, next Table, columns []string) []CellChange {
	var changes []CellChange

	n := min(len(prev), len(next))
	for i := 0; i < n; i++ {
		for _, col := range columns {
			if prev[i][col] != next[i][col] {
				changes = append(changes, CellChange{
					Row:      i,
					Column:   col,
					OldValue: prev[i][col],
					NewValue: next[i][col],
				})
			}
		}
	}

	return changes
}

// Equal reports whether two tables hold the same values for columns.
func Equal(a, b Table, columns []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		for _, col := range columns {
			if a[i][col] != b[i][col] {
				return false
			}
		}
	}
	return true
}

// Clone returns a deep copy of t.
func (t Table) Clone() Table {
	if t == nil {
		return nil
	}
	out := make(Table, len(t))
	for i, row := range t {
		out[i] = row.Clone()
	}
	return out
}

// Clone returns a copy of r.
func (r Row) Clone() Row {
	out := make(Row, len(r))
	for k, v := range r {
		out[k] = v
	}
	return out
}
