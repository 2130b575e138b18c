package parser

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/receipt-extractor/constants"
	"github.com/joseph-ayodele/receipt-extractor/internal/entity"
)

func field(v string) entity.FieldValue {
	return entity.FieldValue{Value: v, Confidence: 0.9}
}

func TestReconcileMapsSummaryFields(t *testing.T) {
	raw := entity.RawExtraction{
		SummaryFields: map[string]entity.FieldValue{
			constants.FieldVendorName:  field("Trader Joe's #552"),
			constants.FieldReceiptDate: field("01/15/2024"),
			constants.FieldTotal:       field("$7.01"),
			constants.FieldSubtotal:    field("6.49"),
			constants.FieldTax:         field("0.52"),
		},
	}

	r := Reconcile(raw)
	assert.Equal(t, "Trader Joe's #552", r.Merchant)
	assert.Equal(t, "2024-01-15", r.TxDate)
	assert.Equal(t, "7.01", r.Total)
	assert.Equal(t, "6.49", r.Subtotal)
	assert.Equal(t, "0.52", r.Tax)
	assert.Equal(t, 5, r.StructuredFieldCount)
	assert.Equal(t, 0, r.StructuredItemCount)
	assert.NotNil(t, r.Items)
}

func TestReconcileLineItems(t *testing.T) {
	raw := entity.RawExtraction{
		LineItems: []map[string]entity.FieldValue{
			{
				constants.FieldItem:     field("Olive Oil"),
				constants.FieldPrice:    field("$12.99"),
				constants.FieldQuantity: field("2"),
			},
			{
				constants.FieldPrice: field("3.49"),
			},
		},
	}

	r := Reconcile(raw)
	require.Len(t, r.Items, 2)
	assert.Equal(t, entity.LineItem{Name: "Olive Oil", Price: "12.99", Quantity: 2, LineTotal: "25.98"}, r.Items[0])
	assert.Equal(t, entity.LineItem{Name: "Unknown Item", Price: "3.49", Quantity: 1, LineTotal: "3.49"}, r.Items[1])
	assert.Equal(t, 2, r.StructuredItemCount)
}

func TestReconcileLeavesMissingFieldsEmpty(t *testing.T) {
	raw := entity.RawExtraction{
		SummaryFields: map[string]entity.FieldValue{
			constants.FieldTotal: field("9.99"),
		},
	}

	r := Reconcile(raw)
	assert.Equal(t, "", r.Merchant)
	assert.Equal(t, "", r.TxDate)
	assert.Equal(t, "9.99", r.Total)
}

func TestReconcileSkipsUnparseableDate(t *testing.T) {
	raw := entity.RawExtraction{
		SummaryFields: map[string]entity.FieldValue{
			constants.FieldReceiptDate: field("sometime last week"),
		},
	}
	assert.Equal(t, "", Reconcile(raw).TxDate)
}

func TestMergePrefersPrimary(t *testing.T) {
	primary := entity.ParsedReceipt{
		Merchant: "Structured Store",
		Total:    "10.00",
	}
	secondary := entity.ParsedReceipt{
		Merchant: "Heuristic Store",
		TxDate:   "2024-02-01",
		Total:    "99.99",
		Subtotal: "9.00",
		Items:    []entity.LineItem{{Name: "Thing", Price: "10.00", Quantity: 1, LineTotal: "10.00"}},
	}

	merged := Merge(primary, secondary)
	assert.Equal(t, "Structured Store", merged.Merchant)
	assert.Equal(t, "10.00", merged.Total)
	assert.Equal(t, "2024-02-01", merged.TxDate)
	assert.Equal(t, "9.00", merged.Subtotal)
	require.Len(t, merged.Items, 1)
	assert.Equal(t, "Thing", merged.Items[0].Name)
}

func TestMergeItemsNeverNil(t *testing.T) {
	merged := Merge(entity.ParsedReceipt{}, entity.ParsedReceipt{})
	assert.NotNil(t, merged.Items)
	assert.Empty(t, merged.Items)
}
