// Package score computes an aggregate confidence for a parsed receipt from
// presence/quality signals. It is a fixed-point heuristic, not a statistical
// estimate: the weights below are a contract so tests can assert exact
// scores for known inputs.
package score

import (
	"strconv"

	"github.com/joseph-ayodele/receipt-extractor/constants"
	"github.com/joseph-ayodele/receipt-extractor/internal/entity"
)

// Signal weights on the 0..1 scale. They sum to 1.0, so the score is the
// plain sum of awarded increments, clamped at 1.
const (
	MerchantWeight   float32 = 0.25
	DateWeight       float32 = 0.20
	TotalWeight      float32 = 0.25
	ItemsWeight      float32 = 0.20
	StructuredWeight float32 = 0.10
)

// Score awards a fixed increment per true-positive signal: merchant found,
// date found (not the today fallback), positive total, any items, and any
// structured context at all. "today" is the date the pipeline would have
// substituted for a missing date, formatted YYYY-MM-DD.
func Score(receipt entity.ParsedReceipt, raw entity.RawExtraction, today string) float32 {
	var s float32

	if receipt.Merchant != "" && receipt.Merchant != constants.UnknownMerchant {
		s += MerchantWeight
	}
	if receipt.TxDate != "" && receipt.TxDate != today {
		s += DateWeight
	}
	if total, err := strconv.ParseFloat(receipt.Total, 64); err == nil && total > 0 {
		s += TotalWeight
	}
	if len(receipt.Items) > 0 {
		s += ItemsWeight
	}
	if raw.HasStructuredData() {
		s += StructuredWeight
	}

	if s > 1 {
		s = 1
	}
	return s
}
