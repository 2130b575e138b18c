package score

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joseph-ayodele/receipt-extractor/internal/entity"
)

const today = "2024-06-01"

func fullReceipt() entity.ParsedReceipt {
	return entity.ParsedReceipt{
		Merchant: "ACME MARKET",
		TxDate:   "2024-01-15",
		Total:    "7.01",
		Items: []entity.LineItem{
			{Name: "MILK", Price: "3.99", Quantity: 1, LineTotal: "3.99"},
		},
	}
}

func TestScoreAllSignals(t *testing.T) {
	raw := entity.RawExtraction{
		SummaryFields: map[string]entity.FieldValue{
			"TOTAL": {Value: "7.01", Confidence: 0.95},
		},
	}
	assert.InDelta(t, 1.0, Score(fullReceipt(), raw, today), 0.001)
}

func TestScoreWithoutStructuredContext(t *testing.T) {
	assert.InDelta(t, 0.90, Score(fullReceipt(), entity.RawExtraction{}, today), 0.001)
}

func TestScoreEmptyReceipt(t *testing.T) {
	r := entity.ParsedReceipt{
		Merchant: "Unknown Vendor",
		TxDate:   today,
		Total:    "0.00",
		Items:    []entity.LineItem{},
	}
	assert.InDelta(t, 0.0, Score(r, entity.RawExtraction{}, today), 0.001)
}

func TestScoreSentinelsEarnNothing(t *testing.T) {
	r := fullReceipt()
	r.Merchant = "Unknown Vendor"
	assert.InDelta(t, 0.65, Score(r, entity.RawExtraction{}, today), 0.001)

	r = fullReceipt()
	r.TxDate = today // the fallback date earns no credit
	assert.InDelta(t, 0.70, Score(r, entity.RawExtraction{}, today), 0.001)

	r = fullReceipt()
	r.Total = "0.00"
	assert.InDelta(t, 0.65, Score(r, entity.RawExtraction{}, today), 0.001)
}

func TestScoreMonotonicInSignals(t *testing.T) {
	full := Score(fullReceipt(), entity.RawExtraction{}, today)

	for _, degrade := range []func(*entity.ParsedReceipt){
		func(r *entity.ParsedReceipt) { r.Merchant = "Unknown Vendor" },
		func(r *entity.ParsedReceipt) { r.TxDate = today },
		func(r *entity.ParsedReceipt) { r.Total = "0.00" },
		func(r *entity.ParsedReceipt) { r.Items = nil },
	} {
		r := fullReceipt()
		degrade(&r)
		assert.Less(t, Score(r, entity.RawExtraction{}, today), full)
	}
}
