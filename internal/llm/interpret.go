package llm

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/joseph-ayodele/receipt-extractor/constants"
	"github.com/joseph-ayodele/receipt-extractor/internal/entity"
	"github.com/joseph-ayodele/receipt-extractor/internal/parser"
)

// reJSONObject grabs the first greedy brace-delimited span; the model is
// told to emit exactly one object, so greedy matching captures nested
// braces correctly.
var reJSONObject = regexp.MustCompile(`\{[\s\S]*\}`)

// modelReceipt is the wire shape the model emits, after sanitizing.
type modelReceipt struct {
	Merchant string      `json:"merchant"`
	Date     string      `json:"date"`
	Subtotal string      `json:"subtotal"`
	Tax      string      `json:"tax"`
	Total    string      `json:"total"`
	Items    []modelItem `json:"items"`
}

type modelItem struct {
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
}

// Interpret extracts the receipt object from free-form model output and
// normalizes it into a complete ParsedReceipt. Every failure mode recovers
// locally: unparseable output falls back to the reconciled/heuristic record
// and the caller always receives a usable receipt.
func Interpret(modelText string, raw entity.RawExtraction, now time.Time, logger *slog.Logger) entity.ParsedReceipt {
	if logger == nil {
		logger = slog.Default()
	}

	obj := reJSONObject.FindString(stripFences(modelText))
	if obj == "" {
		logger.Warn("llm.interpret.no_json_object", "response_bytes", len(modelText))
		return Fallback(raw, now)
	}

	var m map[string]any
	if err := json.Unmarshal([]byte(obj), &m); err != nil {
		logger.Warn("llm.interpret.invalid_json", "error", err)
		return Fallback(raw, now)
	}

	sanitizeReceiptMap(m)
	cleaned, err := json.Marshal(m)
	if err != nil {
		logger.Warn("llm.interpret.encode_failed", "error", err)
		return Fallback(raw, now)
	}

	needsReview := false
	if err := ValidateJSONAgainstSchema(BuildReceiptJSONSchema(), cleaned); err != nil {
		// Normalization below repairs what it can; flag for review instead
		// of discarding model output wholesale.
		logger.Warn("llm.interpret.schema_mismatch", "error", err)
		needsReview = true
	}

	var mr modelReceipt
	if err := json.Unmarshal(cleaned, &mr); err != nil {
		logger.Warn("llm.interpret.decode_failed", "error", err)
		return Fallback(raw, now)
	}

	receipt := normalizeReceipt(mr, now)
	receipt.NeedsReview = needsReview
	receipt.StructuredFieldCount = len(raw.SummaryFields)
	receipt.StructuredItemCount = len(raw.LineItems)
	return receipt
}

// Fallback is the recovery path when no JSON could be interpreted: typed
// structured fields first, heuristic text parse filling every gap.
func Fallback(raw entity.RawExtraction, now time.Time) entity.ParsedReceipt {
	structured := parser.Reconcile(raw)
	heuristic := parser.ParseText(raw.RawText, now)
	receipt := parser.Merge(structured, heuristic.Receipt)
	receipt.StructuredFieldCount = len(raw.SummaryFields)
	receipt.StructuredItemCount = len(raw.LineItems)
	return receipt
}

// stripFences removes markdown code fences models wrap JSON in despite
// instructions.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(s, "```")
	return strings.TrimSpace(s)
}

// sanitizeReceiptMap renames known synonyms, coerces numeric money values
// to strings and quantities to integers, so the typed decode cannot choke
// on benign model variance.
func sanitizeReceiptMap(m map[string]any) {
	rename := func(from, to string) {
		if v, ok := m[from]; ok {
			if _, exists := m[to]; !exists {
				m[to] = v
			}
			delete(m, from)
		}
	}
	rename("vendor", "merchant")
	rename("store", "merchant")
	rename("merchant_name", "merchant")
	rename("tx_date", "date")
	rename("line_items", "items")

	for _, k := range []string{"subtotal", "tax", "total"} {
		coerceMoney(m, k)
	}

	// Drop unknown keys so strict additionalProperties validation only
	// trips on genuinely malformed output.
	allowed := map[string]struct{}{
		"merchant": {}, "date": {}, "subtotal": {}, "tax": {}, "total": {}, "items": {},
	}
	for k := range m {
		if _, ok := allowed[k]; !ok {
			delete(m, k)
		}
	}

	items, ok := m["items"].([]any)
	if !ok {
		m["items"] = []any{}
		return
	}
	for _, it := range items {
		row, ok := it.(map[string]any)
		if !ok {
			continue
		}
		if v, ok := row["description"]; ok {
			if _, exists := row["name"]; !exists {
				row["name"] = v
			}
			delete(row, "description")
		}
		if v, ok := row["lineTotal"]; ok {
			if _, exists := row["line_total"]; !exists {
				row["line_total"] = v
			}
			delete(row, "lineTotal")
		}
		coerceMoney(row, "price")
		coerceMoney(row, "line_total")
		coerceQuantity(row)
	}
}

func coerceMoney(m map[string]any, key string) {
	v, ok := m[key]
	if !ok {
		return
	}
	switch t := v.(type) {
	case float64:
		m[key] = fmt.Sprintf("%.2f", t)
	case string:
		if strings.TrimSpace(t) == "" {
			delete(m, key)
		}
	case nil:
		delete(m, key)
	default:
		delete(m, key)
	}
}

func coerceQuantity(row map[string]any) {
	v, ok := row["quantity"]
	if !ok {
		return
	}
	switch t := v.(type) {
	case float64:
		n := int(t)
		if n < 1 {
			n = 1
		}
		row["quantity"] = n
	case string:
		row["quantity"] = parser.NormalizeQuantity(t)
	default:
		delete(row, "quantity")
	}
}

// normalizeReceipt applies sentinel defaults and price/date/quantity
// normalization to the decoded model output.
func normalizeReceipt(mr modelReceipt, now time.Time) entity.ParsedReceipt {
	receipt := entity.ParsedReceipt{
		Merchant: strings.TrimSpace(mr.Merchant),
		TxDate:   parser.CanonicalDateOr(mr.Date, now),
		Total:    parser.NormalizePrice(mr.Total),
		Items:    []entity.LineItem{},
	}
	if receipt.Merchant == "" {
		receipt.Merchant = constants.UnknownMerchant
	}
	if mr.Subtotal != "" {
		receipt.Subtotal = parser.NormalizePrice(mr.Subtotal)
	}
	if mr.Tax != "" {
		receipt.Tax = parser.NormalizePrice(mr.Tax)
	}

	for _, it := range mr.Items {
		item := entity.LineItem{
			Name:     strings.TrimSpace(it.Name),
			Price:    parser.NormalizePrice(it.Price),
			Quantity: it.Quantity,
		}
		if item.Name == "" {
			item.Name = constants.UnknownItem
		}
		if item.Quantity < 1 {
			item.Quantity = 1
		}
		if it.LineTotal != "" {
			// Model-supplied line totals pass through unenforced.
			item.LineTotal = parser.NormalizePrice(it.LineTotal)
		} else {
			item.LineTotal = parser.MultiplyPrice(item.Price, item.Quantity)
		}
		receipt.Items = append(receipt.Items, item)
	}
	return receipt
}
