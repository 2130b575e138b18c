package parser

import (
	"github.com/joseph-ayodele/receipt-extractor/constants"
	"github.com/joseph-ayodele/receipt-extractor/internal/entity"
)

// Reconcile maps typed expense-extraction fields onto a candidate receipt.
// It is purely a key mapper: fields absent from the structured source stay
// empty and the caller falls back to the heuristic parse for them. No
// heuristic scanning happens here.
func Reconcile(raw entity.RawExtraction) entity.ParsedReceipt {
	receipt := entity.ParsedReceipt{Items: []entity.LineItem{}}

	if v, ok := summaryValue(raw, constants.FieldVendorName); ok {
		receipt.Merchant = v
	}
	if v, ok := summaryValue(raw, constants.FieldReceiptDate); ok {
		if d, parsed := CanonicalDate(v); parsed {
			receipt.TxDate = d
		}
	}
	if v, ok := summaryValue(raw, constants.FieldTotal); ok {
		receipt.Total = NormalizePrice(v)
	}
	if v, ok := summaryValue(raw, constants.FieldSubtotal); ok {
		receipt.Subtotal = NormalizePrice(v)
	}
	if v, ok := summaryValue(raw, constants.FieldTax); ok {
		receipt.Tax = NormalizePrice(v)
	}

	for _, row := range raw.LineItems {
		item := entity.LineItem{Quantity: 1}
		if v, ok := rowValue(row, constants.FieldItem); ok {
			item.Name = v
		}
		if item.Name == "" {
			item.Name = constants.UnknownItem
		}
		if v, ok := rowValue(row, constants.FieldPrice); ok {
			item.Price = NormalizePrice(v)
		} else {
			item.Price = constants.ZeroAmount
		}
		if v, ok := rowValue(row, constants.FieldQuantity); ok {
			item.Quantity = NormalizeQuantity(v)
		}
		item.LineTotal = MultiplyPrice(item.Price, item.Quantity)
		receipt.Items = append(receipt.Items, item)
	}

	receipt.StructuredFieldCount = len(raw.SummaryFields)
	receipt.StructuredItemCount = len(raw.LineItems)
	return receipt
}

// Merge prefers non-empty fields from primary and fills the rest from
// secondary. This is the reconciliation step between the structured mapping
// and the heuristic parse: structured data wins where it produced a value.
func Merge(primary, secondary entity.ParsedReceipt) entity.ParsedReceipt {
	out := primary
	if out.Merchant == "" {
		out.Merchant = secondary.Merchant
	}
	if out.TxDate == "" {
		out.TxDate = secondary.TxDate
	}
	if out.Total == "" {
		out.Total = secondary.Total
	}
	if out.Subtotal == "" {
		out.Subtotal = secondary.Subtotal
	}
	if out.Tax == "" {
		out.Tax = secondary.Tax
	}
	if len(out.Items) == 0 {
		out.Items = secondary.Items
	}
	if out.Items == nil {
		out.Items = []entity.LineItem{}
	}
	return out
}

func summaryValue(raw entity.RawExtraction, key string) (string, bool) {
	fv, ok := raw.SummaryFields[key]
	if !ok || fv.Value == "" {
		return "", false
	}
	return fv.Value, true
}

func rowValue(row map[string]entity.FieldValue, key string) (string, bool) {
	fv, ok := row[key]
	if !ok || fv.Value == "" {
		return "", false
	}
	return fv.Value, true
}
