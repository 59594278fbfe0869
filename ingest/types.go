package ingest

import "gestor/tabular"

// Outcome is the result of ingesting one tabular dataset. Errors is always
// non-nil so an empty batch serializes as [].
type Outcome struct {
	Kind    tabular.Kind `json:"-"`
	Created int          `json:"criados"`
	Errors  []string     `json:"erros"`
}

func newOutcome(kind tabular.Kind) *Outcome {
	return &Outcome{Kind: kind, Errors: make([]string, 0)}
}

// LinkItem is the outcome of one link found inside a document.
type LinkItem struct {
	Link   string `json:"link"`
	Result any    `json:"resultado"`
}

// LinkBatch is the result of ingesting a document whose content is a list
// of links to tabular resources.
type LinkBatch struct {
	Processed int        `json:"links_processados"`
	Items     []LinkItem `json:"itens"`
}

// DocResult is the isolated outcome of one document in a multi-document
// batch.
type DocResult struct {
	DocURL string `json:"doc_url"`
	OK     bool   `json:"ok"`
	Result any    `json:"resultado,omitempty"`
	Err    string `json:"erro,omitempty"`
}

// DocBatch is the result of a multi-document ingestion request.
type DocBatch struct {
	Processed int         `json:"documentos_processados"`
	Results   []DocResult `json:"resultados"`
}

// Extract is returned for a URL that is neither tabular nor a link
// container: the page or document text, capped.
type Extract struct {
	Type string `json:"tipo"`
	Text string `json:"extract"`
}
