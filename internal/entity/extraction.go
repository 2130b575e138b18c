package entity

// FieldValue is one typed value from the expense-extraction service, with
// the service's own confidence in [0,1].
type FieldValue struct {
	Value      string  `json:"value"`
	Confidence float32 `json:"confidence"`
}

// RawExtraction is the full output of the OCR/expense-extraction collaborator
// for one receipt image. It is created once per upload, read-only, and
// discarded after parsing.
type RawExtraction struct {
	SummaryFields map[string]FieldValue   `json:"summary_fields"`
	LineItems     []map[string]FieldValue `json:"line_items"`
	RawText       string                  `json:"raw_text"`
}

// HasStructuredData reports whether the extraction carries any typed fields
// at all. Empty structured output is a valid, common input and only means
// the heuristic text parser carries the whole load.
func (r RawExtraction) HasStructuredData() bool {
	return len(r.SummaryFields) > 0 || len(r.LineItems) > 0
}
