package tabular

import "errors"

// ErrNoTable is returned when no table can be located in the input
// (empty delimited text, HTML page with zero tables, blank spreadsheet).
var ErrNoTable = errors.New("tabular: no table found")
