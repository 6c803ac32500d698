package asset

import (
	"fmt"
	"slices"
)

// Table is the in-memory result format shared by all reader and writer
// strategies. Cell values are strings, matching what the workspace SQL API
// returns.
type Table struct {
	Columns []string
	Rows    [][]string
}

// Select returns a new table restricted to the named columns, in the given
// order. Unknown columns are an error.
func (t *Table) Select(columns []string) (*Table, error) {
	if len(columns) == 0 {
		return t, nil
	}

	idx := make([]int, 0, len(columns))
	for _, col := range columns {
		i := slices.Index(t.Columns, col)
		if i < 0 {
			return nil, fmt.Errorf("column %q not found (have %v)", col, t.Columns)
		}
		idx = append(idx, i)
	}

	out := &Table{Columns: slices.Clone(columns)}
	for _, row := range t.Rows {
		selected := make([]string, len(idx))
		for j, i := range idx {
			if i < len(row) {
				selected[j] = row[i]
			}
		}
		out.Rows = append(out.Rows, selected)
	}
	return out, nil
}
