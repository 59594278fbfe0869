package tabular

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX parses spreadsheet bytes into a Dataset, preserving each cell's
// hyperlink target alongside its display value. Only the first sheet is
// read. The header is the first non-blank sheet row; rows above it are
// ignored.
func ReadXLSX(data []byte) (*Dataset, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open spreadsheet: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, ErrNoTable
	}
	sheet := sheets[0]

	sheetRows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read rows: %w", err)
	}

	// Header: first non-blank sheet row.
	headerIdx := -1
	for i, row := range sheetRows {
		if !recordBlank(row) {
			headerIdx = i
			break
		}
	}
	if headerIdx < 0 {
		return nil, ErrNoTable
	}
	header := sheetRows[headerIdx]

	var rows [][]Cell
	for i := headerIdx + 1; i < len(sheetRows); i++ {
		raw := sheetRows[i]
		cells := make([]Cell, len(header))
		for col := range header {
			var value string
			if col < len(raw) {
				value = strings.TrimSpace(raw[col])
			}
			cells[col] = Cell{
				Value:     value,
				Hyperlink: cellHyperlink(f, sheet, col+1, i+1),
			}
		}
		rows = append(rows, cells)
	}

	return newDataset(header, rows), nil
}

// cellHyperlink returns a cell's hyperlink target, or "" when the cell has
// none. Coordinates are 1-based sheet positions.
func cellHyperlink(f *excelize.File, sheet string, col, row int) string {
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return ""
	}
	has, target, err := f.GetCellHyperLink(sheet, name)
	if err != nil || !has {
		return ""
	}
	return target
}
