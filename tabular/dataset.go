// Package tabular parses heterogeneous tabular sources (delimited text,
// spreadsheet binaries, HTML tables) into a common Dataset and classifies
// each Dataset into a record kind by column-name signature.
package tabular

import (
	"fmt"
	"strings"
)

// Cell is one value in a row. Spreadsheet cells may additionally carry a
// hyperlink target distinct from the displayed value.
type Cell struct {
	Value     string
	Hyperlink string
}

// Row is an ordered column-name → cell mapping. Index is the row's 1-based
// position in the original source, header row excluded; blank rows keep
// their position so error messages stay aligned with what the user sees.
type Row struct {
	Index int
	Cells map[string]Cell
}

// Get returns the first non-empty cell value among the given column names.
// Names are matched in normalized form.
func (r Row) Get(names ...string) string {
	for _, n := range names {
		if c, ok := r.Cells[NormalizeColumn(n)]; ok {
			if v := strings.TrimSpace(c.Value); v != "" {
				return v
			}
		}
	}
	return ""
}

// Cell returns the first present cell among the given column names, even
// when its value is empty (hyperlink-only cells).
func (r Row) Cell(names ...string) (Cell, bool) {
	for _, n := range names {
		if c, ok := r.Cells[NormalizeColumn(n)]; ok {
			return c, true
		}
	}
	return Cell{}, false
}

// Blank reports whether every cell of the row is empty or whitespace.
func (r Row) Blank() bool {
	for _, c := range r.Cells {
		if strings.TrimSpace(c.Value) != "" || c.Hyperlink != "" {
			return false
		}
	}
	return true
}

// Dataset is an ordered sequence of rows sharing one column set. Column
// names are normalized once at construction; the set is stable across rows.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// NormalizeColumn trims and case-folds a column name.
func NormalizeColumn(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}

// newDataset builds a Dataset from a raw header and cell rows. Extra cells
// beyond the header width are dropped; missing cells become empty. Row
// indices are assigned from position (1-based, header excluded).
func newDataset(header []string, rows [][]Cell) *Dataset {
	cols := make([]string, 0, len(header))
	for i, h := range header {
		name := NormalizeColumn(h)
		if name == "" {
			name = fmt.Sprintf("col_%d", i+1)
		}
		cols = append(cols, name)
	}

	d := &Dataset{Columns: cols}
	for i, raw := range rows {
		cells := make(map[string]Cell, len(cols))
		for j, col := range cols {
			if j < len(raw) {
				cells[col] = raw[j]
			} else {
				cells[col] = Cell{}
			}
		}
		d.Rows = append(d.Rows, Row{Index: i + 1, Cells: cells})
	}
	return d
}
