package llm

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/joseph-ayodele/receipt-extractor/internal/entity"
)

// BuildPrompt renders the extraction prompt for one receipt. The output is
// byte-deterministic for a given extraction: summary fields are emitted in
// sorted key order and the schema is serialized with sorted map keys, so
// tests can assert exact prompt text and the interpreter sees a predictable
// response shape.
func BuildPrompt(raw entity.RawExtraction) string {
	var b strings.Builder

	b.WriteString("You are a receipts parser. Extract the purchase data from the receipt below.\n")
	b.WriteString("Return ONLY valid JSON matching this schema, with no commentary and no markdown:\n\n")
	b.WriteString(mustJSON(BuildReceiptJSONSchema()))
	b.WriteString("\n\n")
	b.WriteString("Rules:\n")
	b.WriteString("- All prices are plain decimals formatted X.XX with no currency symbol.\n")
	b.WriteString("- The date is formatted YYYY-MM-DD.\n")
	b.WriteString("- quantity is a positive integer; omit line_total if not printed.\n")
	b.WriteString("- If a field is not present on the receipt, omit it rather than guessing.\n")

	if len(raw.SummaryFields) > 0 {
		b.WriteString("\nStructured fields from the OCR service (key, value, confidence):\n")
		keys := make([]string, 0, len(raw.SummaryFields))
		for k := range raw.SummaryFields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fv := raw.SummaryFields[k]
			fmt.Fprintf(&b, "- %s: %s (confidence %.2f)\n", k, fv.Value, fv.Confidence)
		}
	}

	if len(raw.LineItems) > 0 {
		b.WriteString("\nStructured line items from the OCR service:\n")
		for i, row := range raw.LineItems {
			keys := make([]string, 0, len(row))
			for k := range row {
				keys = append(keys, k)
			}
			sort.Strings(keys)
			parts := make([]string, 0, len(keys))
			for _, k := range keys {
				parts = append(parts, fmt.Sprintf("%s=%s (%.2f)", k, row[k].Value, row[k].Confidence))
			}
			fmt.Fprintf(&b, "%d. %s\n", i+1, strings.Join(parts, ", "))
		}
	}

	b.WriteString("\nRaw OCR text:\n")
	b.WriteString(raw.RawText)
	b.WriteString("\n")

	return b.String()
}

func mustJSON(v any) string {
	b, _ := json.MarshalIndent(v, "", "  ")
	return string(b)
}
