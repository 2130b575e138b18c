package export

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/joseph-ayodele/receipt-extractor/internal/entity"
	"github.com/joseph-ayodele/receipt-extractor/internal/repository"
)

func TestExportReceiptsXLSX(t *testing.T) {
	db, err := repository.Open(filepath.Join(t.TempDir(), "receipts.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })
	repo := repository.NewReceiptRepository(db)

	ctx := context.Background()
	require.NoError(t, repo.Save(ctx, &entity.Receipt{
		ID: uuid.New(),
		ParsedReceipt: entity.ParsedReceipt{
			Merchant:   "ACME MARKET",
			TxDate:     "2024-01-15",
			Subtotal:   "6.49",
			Tax:        "0.52",
			Total:      "7.01",
			Category:   "Groceries",
			Confidence: 0.9,
			Items: []entity.LineItem{
				{Name: "MILK", Price: "3.99", Quantity: 1, LineTotal: "3.99"},
				{Name: "BREAD", Price: "2.50", Quantity: 2, LineTotal: "5.00"},
			},
		},
		CreatedAt: time.Now().UTC(),
	}))

	payload, err := NewService(repo, nil).ExportReceiptsXLSX(ctx, repository.ListFilter{})
	require.NoError(t, err)
	require.NotEmpty(t, payload)

	f, err := excelize.OpenReader(bytes.NewReader(payload))
	require.NoError(t, err)
	t.Cleanup(func() { _ = f.Close() })

	header, err := f.GetCellValue("Receipts", "A1")
	require.NoError(t, err)
	assert.Equal(t, "Transaction Date", header)

	date, _ := f.GetCellValue("Receipts", "A2")
	merchant, _ := f.GetCellValue("Receipts", "B2")
	total, _ := f.GetCellValue("Receipts", "F2")
	items, _ := f.GetCellValue("Receipts", "G2")
	assert.Equal(t, "2024-01-15", date)
	assert.Equal(t, "ACME MARKET", merchant)
	assert.Equal(t, "7.01", total)
	assert.Contains(t, items, "MILK (3.99)")
	assert.Contains(t, items, "2x BREAD (5.00)")
}

func TestExportEmptyStore(t *testing.T) {
	db, err := repository.Open(filepath.Join(t.TempDir(), "receipts.db"), nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	payload, err := NewService(repository.NewReceiptRepository(db), nil).ExportReceiptsXLSX(context.Background(), repository.ListFilter{})
	require.NoError(t, err)
	assert.NotEmpty(t, payload)
}
