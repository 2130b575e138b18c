package llm

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/receipt-extractor/internal/entity"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func TestInterpretCleanResponse(t *testing.T) {
	modelText := `{
		"merchant": "ACME MARKET",
		"date": "2024-01-15",
		"subtotal": "6.49",
		"tax": "0.52",
		"total": "7.01",
		"items": [
			{"name": "MILK", "price": "3.99", "quantity": 1},
			{"name": "BREAD", "price": "2.50", "quantity": 1}
		]
	}`

	r := Interpret(modelText, entity.RawExtraction{}, fixedNow, nil)
	assert.Equal(t, "ACME MARKET", r.Merchant)
	assert.Equal(t, "2024-01-15", r.TxDate)
	assert.Equal(t, "6.49", r.Subtotal)
	assert.Equal(t, "0.52", r.Tax)
	assert.Equal(t, "7.01", r.Total)
	assert.False(t, r.NeedsReview)
	require.Len(t, r.Items, 2)
	assert.Equal(t, entity.LineItem{Name: "MILK", Price: "3.99", Quantity: 1, LineTotal: "3.99"}, r.Items[0])
}

func TestInterpretObjectEmbeddedInProse(t *testing.T) {
	modelText := "Sure! Here is the receipt data:\n```json\n" +
		`{"merchant": "Corner Deli", "date": "2024-03-02", "total": "10.99", "items": []}` +
		"\n```\nLet me know if you need anything else."

	r := Interpret(modelText, entity.RawExtraction{}, fixedNow, nil)
	assert.Equal(t, "Corner Deli", r.Merchant)
	assert.Equal(t, "2024-03-02", r.TxDate)
	assert.Equal(t, "10.99", r.Total)
	assert.NotNil(t, r.Items)
	assert.Empty(t, r.Items)
}

func TestInterpretSynonymAndTypeCoercion(t *testing.T) {
	modelText := `{
		"vendor": "Corner Deli",
		"tx_date": "03/02/2024",
		"total": 10.99,
		"line_items": [
			{"description": "Sandwich", "price": 8.99, "quantity": "1"},
			{"name": "Soda", "price": 1.00, "quantity": 2, "lineTotal": 2.00}
		]
	}`

	r := Interpret(modelText, entity.RawExtraction{}, fixedNow, nil)
	assert.Equal(t, "Corner Deli", r.Merchant)
	assert.Equal(t, "2024-03-02", r.TxDate)
	assert.Equal(t, "10.99", r.Total)
	require.Len(t, r.Items, 2)
	assert.Equal(t, entity.LineItem{Name: "Sandwich", Price: "8.99", Quantity: 1, LineTotal: "8.99"}, r.Items[0])
	assert.Equal(t, entity.LineItem{Name: "Soda", Price: "1.00", Quantity: 2, LineTotal: "2.00"}, r.Items[1])
}

func TestInterpretIgnoresUnknownKeys(t *testing.T) {
	modelText := `{"merchant": "Corner Deli", "date": "2024-03-02", "total": "5.00", "items": [], "notes": "looks blurry"}`

	r := Interpret(modelText, entity.RawExtraction{}, fixedNow, nil)
	assert.Equal(t, "Corner Deli", r.Merchant)
	assert.False(t, r.NeedsReview)
}

func TestInterpretNoJSONFallsBack(t *testing.T) {
	raw := entity.RawExtraction{
		RawText: "ACME MARKET\n01/15/2024\nMILK 3.99\nTOTAL 7.01",
	}

	got := Interpret("I could not read this receipt, sorry.", raw, fixedNow, nil)
	want := Fallback(raw, fixedNow)
	assert.Equal(t, want, got)
	assert.Equal(t, "ACME MARKET", got.Merchant)
	assert.Equal(t, "2024-01-15", got.TxDate)
}

func TestInterpretMalformedJSONFallsBack(t *testing.T) {
	raw := entity.RawExtraction{RawText: "CORNER SHOP\nTOTAL 5.00"}

	got := Interpret(`{"merchant": "Corner`, raw, fixedNow, nil)
	assert.Equal(t, Fallback(raw, fixedNow), got)
}

func TestInterpretMissingFieldsGetSentinels(t *testing.T) {
	r := Interpret(`{"items": []}`, entity.RawExtraction{}, fixedNow, nil)

	assert.Equal(t, "Unknown Vendor", r.Merchant)
	assert.Equal(t, "2024-06-01", r.TxDate)
	assert.Equal(t, "0.00", r.Total)
	// Required keys were absent, so strict validation flags the record.
	assert.True(t, r.NeedsReview)
}

func TestInterpretCarriesStructuredCounts(t *testing.T) {
	raw := entity.RawExtraction{
		SummaryFields: map[string]entity.FieldValue{
			"TOTAL": {Value: "5.00", Confidence: 0.9},
		},
		LineItems: []map[string]entity.FieldValue{
			{"ITEM": {Value: "Gum", Confidence: 0.8}},
		},
	}

	r := Interpret(`{"merchant": "Kiosk", "date": "2024-05-05", "total": "5.00", "items": []}`, raw, fixedNow, nil)
	assert.Equal(t, 1, r.StructuredFieldCount)
	assert.Equal(t, 1, r.StructuredItemCount)
}

func TestFallbackMergesStructuredOverHeuristic(t *testing.T) {
	raw := entity.RawExtraction{
		SummaryFields: map[string]entity.FieldValue{
			"VENDOR_NAME": {Value: "Structured Grocer", Confidence: 0.97},
		},
		RawText: "HEURISTIC MART\n01/15/2024\nMILK 3.99\nTOTAL 7.01",
	}

	r := Fallback(raw, fixedNow)
	assert.Equal(t, "Structured Grocer", r.Merchant)
	assert.Equal(t, "2024-01-15", r.TxDate)
	assert.Equal(t, "7.01", r.Total)
	assert.Equal(t, 1, r.StructuredFieldCount)
}
