package docpipe

import "errors"

// Format identifies a document type.
type Format string

const (
	FormatPDF  Format = "pdf"
	FormatDocx Format = "docx"
	FormatHTML Format = "html"
)

// ErrUnknownFormat is returned when neither the extension nor the content
// type identify a supported document format.
var ErrUnknownFormat = errors.New("docpipe: unknown document format")

// truncationMarker is appended when extracted text exceeds the configured cap.
const truncationMarker = "\n\n[...]"
