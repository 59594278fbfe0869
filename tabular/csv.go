package tabular

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
)

// ReadCSV parses delimited text into a Dataset. The delimiter is sniffed
// from the first line; exported Brazilian spreadsheets commonly use
// semicolons. The header is the first non-blank record.
func ReadCSV(data []byte) (*Dataset, error) {
	data = bytes.TrimPrefix(data, []byte("\xef\xbb\xbf"))
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, ErrNoTable
	}

	r := csv.NewReader(bytes.NewReader(data))
	r.Comma = sniffDelimiter(data)
	r.LazyQuotes = true
	r.TrimLeadingSpace = true
	r.FieldsPerRecord = -1

	var header []string
	var rows [][]Cell
	for {
		record, err := r.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("read record: %w", err)
		}
		if header == nil {
			if recordBlank(record) {
				continue
			}
			header = record
			continue
		}
		cells := make([]Cell, len(record))
		for i, v := range record {
			cells[i] = Cell{Value: strings.TrimSpace(v)}
		}
		rows = append(rows, cells)
	}

	if header == nil {
		return nil, ErrNoTable
	}
	return newDataset(header, rows), nil
}

func recordBlank(record []string) bool {
	for _, v := range record {
		if strings.TrimSpace(v) != "" {
			return false
		}
	}
	return true
}

// sniffDelimiter picks the delimiter with the most occurrences in the first
// line; comma wins ties.
func sniffDelimiter(data []byte) rune {
	line := data
	if i := bytes.IndexByte(data, '\n'); i >= 0 {
		line = data[:i]
	}
	if bytes.Count(line, []byte{';'}) > bytes.Count(line, []byte{','}) {
		return ';'
	}
	return ','
}
