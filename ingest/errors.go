package ingest

import "errors"

var (
	// ErrFetch marks a network failure for one source; siblings in a
	// batch are unaffected.
	ErrFetch = errors.New("ingest: fetch failed")

	// ErrParse marks a source with no extractable table.
	ErrParse = errors.New("ingest: no table found")

	// ErrSchemaUnknown marks a dataset whose columns match no known
	// record kind.
	ErrSchemaUnknown = errors.New("ingest: unrecognized dataset schema")
)
