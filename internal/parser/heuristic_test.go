package parser

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/joseph-ayodele/receipt-extractor/internal/entity"
)

var fixedNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

const groceryReceipt = "ACME MARKET\n01/15/2024\nMILK 3.99\nBREAD 2.50\nSUBTOTAL 6.49\nTAX 0.52\nTOTAL 7.01"

func TestParseTextGroceryReceipt(t *testing.T) {
	result := ParseText(groceryReceipt, fixedNow)
	r := result.Receipt

	assert.Equal(t, "ACME MARKET", r.Merchant)
	assert.Equal(t, "2024-01-15", r.TxDate)
	assert.Equal(t, "6.49", r.Subtotal)
	assert.Equal(t, "0.52", r.Tax)
	assert.Equal(t, "7.01", r.Total)

	require.Len(t, r.Items, 2)
	assert.Equal(t, entity.LineItem{Name: "MILK", Price: "3.99", Quantity: 1, LineTotal: "3.99"}, r.Items[0])
	assert.Equal(t, entity.LineItem{Name: "BREAD", Price: "2.50", Quantity: 1, LineTotal: "2.50"}, r.Items[1])
}

func TestParseTextDeterministic(t *testing.T) {
	first := ParseText(groceryReceipt, fixedNow)
	for i := 0; i < 5; i++ {
		assert.Equal(t, first, ParseText(groceryReceipt, fixedNow))
	}
}

func TestParseTextSentinelDefaults(t *testing.T) {
	result := ParseText("", fixedNow)
	r := result.Receipt

	assert.Equal(t, "Unknown Vendor", r.Merchant)
	assert.Equal(t, "2024-06-01", r.TxDate)
	assert.Equal(t, "0.00", r.Total)
	assert.NotNil(t, r.Items)
	assert.Empty(t, r.Items)
}

func TestParseTextKnownChainWins(t *testing.T) {
	raw := "Store #1234\nWALMART SUPERCENTER\n02/03/2024\nTOTAL 10.00"
	result := ParseText(raw, fixedNow)

	assert.Equal(t, "WALMART SUPERCENTER", result.Receipt.Merchant)
	assert.InDelta(t, 0.95, result.Confidence.Merchant, 0.001)
}

func TestParseTextTotalPriority(t *testing.T) {
	// "grand total" outranks a plain "total" even when it appears later.
	raw := "CORNER SHOP\nTOTAL 5.00\nGRAND TOTAL 6.00"
	result := ParseText(raw, fixedNow)
	assert.Equal(t, "6.00", result.Receipt.Total)
}

func TestParseTextSubtotalNotMistakenForTotal(t *testing.T) {
	raw := "CORNER SHOP\nSUBTOTAL 6.49\nTOTAL 7.01"
	result := ParseText(raw, fixedNow)
	assert.Equal(t, "7.01", result.Receipt.Total)
	assert.Equal(t, "6.49", result.Receipt.Subtotal)
}

func TestParseTextQuantityMarkers(t *testing.T) {
	raw := "Corner Deli\n05/02/2024\n2 x Soda 3.00\nQTY 3 Chips 1.50\nTOTAL 10.50"
	result := ParseText(raw, fixedNow)

	require.Len(t, result.Receipt.Items, 2)
	assert.Equal(t, entity.LineItem{Name: "Soda", Price: "3.00", Quantity: 2, LineTotal: "6.00"}, result.Receipt.Items[0])
	assert.Equal(t, entity.LineItem{Name: "Chips", Price: "1.50", Quantity: 3, LineTotal: "4.50"}, result.Receipt.Items[1])
}

func TestParseTextSplitLineItem(t *testing.T) {
	raw := "Corner Deli\n05/02/2024\nPastrami Sandwich\n10.99\nTOTAL 10.99"
	result := ParseText(raw, fixedNow)

	require.Len(t, result.Receipt.Items, 1)
	item := result.Receipt.Items[0]
	assert.Equal(t, "Pastrami Sandwich", item.Name)
	assert.Equal(t, "10.99", item.Price)
	assert.Equal(t, 1, item.Quantity)
}

func TestParseTextRelaxedFallback(t *testing.T) {
	// The only candidate line carries a name too long for the primary pass;
	// the relaxed rescan still recovers it.
	raw := "SUPERSTORE EXTRA LONG PRODUCT DESCRIPTION LINE ROW 9.99"
	result := ParseText(raw, fixedNow)

	require.Len(t, result.Receipt.Items, 1)
	assert.Equal(t, "9.99", result.Receipt.Items[0].Price)
	assert.Equal(t, 1, result.Receipt.Items[0].Quantity)
}

func TestParseTextExcludesPaymentLines(t *testing.T) {
	raw := "ACME MARKET\nMILK 3.99\nVISA 7.01\nCHANGE 0.00\nTOTAL 7.01"
	result := ParseText(raw, fixedNow)

	require.Len(t, result.Receipt.Items, 1)
	assert.Equal(t, "MILK", result.Receipt.Items[0].Name)
}

func TestParseTextQuantityAlwaysPositive(t *testing.T) {
	result := ParseText(groceryReceipt, fixedNow)
	for _, item := range result.Receipt.Items {
		assert.GreaterOrEqual(t, item.Quantity, 1)
	}
}
