package extract

import (
	"strings"

	"github.com/joseph-ayodele/receipt-extractor/internal/entity"
)

// NormalizeKeys uppercases every summary-field and line-item key so the
// parsing stages can match the fixed field-key vocabulary regardless of the
// casing a given service variant emits. The input extraction is not
// modified.
func NormalizeKeys(raw entity.RawExtraction) entity.RawExtraction {
	out := entity.RawExtraction{RawText: raw.RawText}

	if len(raw.SummaryFields) > 0 {
		out.SummaryFields = make(map[string]entity.FieldValue, len(raw.SummaryFields))
		for k, v := range raw.SummaryFields {
			out.SummaryFields[strings.ToUpper(strings.TrimSpace(k))] = v
		}
	}
	if len(raw.LineItems) > 0 {
		out.LineItems = make([]map[string]entity.FieldValue, 0, len(raw.LineItems))
		for _, row := range raw.LineItems {
			normalized := make(map[string]entity.FieldValue, len(row))
			for k, v := range row {
				normalized[strings.ToUpper(strings.TrimSpace(k))] = v
			}
			out.LineItems = append(out.LineItems, normalized)
		}
	}
	return out
}
