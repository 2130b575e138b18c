package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/joseph-ayodele/receipt-extractor/internal/common"
	"github.com/joseph-ayodele/receipt-extractor/internal/entity"
)

// ListFilter narrows List results. Zero values mean no filtering on
// that axis.
type ListFilter struct {
	Category string
	FromDate string // inclusive, YYYY-MM-DD
	ToDate   string // inclusive, YYYY-MM-DD
	Limit    int
}

// ReceiptRepository persists parsed receipts and their line items.
type ReceiptRepository interface {
	Save(ctx context.Context, receipt *entity.Receipt) error
	GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error)
	List(ctx context.Context, filter ListFilter) ([]*entity.Receipt, error)
}

type receiptRepository struct {
	db *sql.DB
}

func NewReceiptRepository(db *sql.DB) ReceiptRepository {
	return &receiptRepository{db: db}
}

func (r *receiptRepository) Save(ctx context.Context, receipt *entity.Receipt) error {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	needsReview := 0
	if receipt.NeedsReview {
		needsReview = 1
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO receipts
			(id, merchant, tx_date, subtotal, tax, total, category, confidence,
			 structured_field_count, structured_item_count, needs_review, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		receipt.ID.String(),
		receipt.Merchant,
		receipt.TxDate,
		receipt.Subtotal,
		receipt.Tax,
		receipt.Total,
		receipt.Category,
		receipt.Confidence,
		receipt.StructuredFieldCount,
		receipt.StructuredItemCount,
		needsReview,
		receipt.CreatedAt.UTC().Format(time.RFC3339),
	)
	if err != nil {
		return fmt.Errorf("insert receipt: %w", err)
	}

	for i, item := range receipt.Items {
		_, err = tx.ExecContext(ctx, `
			INSERT INTO line_items
				(receipt_id, position, name, price, quantity, line_total, category)
			VALUES (?, ?, ?, ?, ?, ?, ?)`,
			receipt.ID.String(), i, item.Name, item.Price, item.Quantity, item.LineTotal, item.Category,
		)
		if err != nil {
			return fmt.Errorf("insert line item %d: %w", i, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit transaction: %w", err)
	}
	return nil
}

func (r *receiptRepository) GetByID(ctx context.Context, id uuid.UUID) (*entity.Receipt, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT id, merchant, tx_date, subtotal, tax, total, category, confidence,
		       structured_field_count, structured_item_count, needs_review, created_at
		FROM receipts WHERE id = ?`, id.String())

	receipt, err := scanReceipt(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("receipt %s: %w", id, common.ErrNotFound)
		}
		return nil, fmt.Errorf("query receipt: %w", err)
	}

	if err := r.loadItems(ctx, receipt); err != nil {
		return nil, err
	}
	return receipt, nil
}

func (r *receiptRepository) List(ctx context.Context, filter ListFilter) ([]*entity.Receipt, error) {
	query := `
		SELECT id, merchant, tx_date, subtotal, tax, total, category, confidence,
		       structured_field_count, structured_item_count, needs_review, created_at
		FROM receipts WHERE 1=1`
	var args []any

	if filter.Category != "" {
		query += " AND category = ?"
		args = append(args, filter.Category)
	}
	if filter.FromDate != "" {
		query += " AND tx_date >= ?"
		args = append(args, filter.FromDate)
	}
	if filter.ToDate != "" {
		query += " AND tx_date <= ?"
		args = append(args, filter.ToDate)
	}
	query += " ORDER BY tx_date DESC, created_at DESC"
	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	}

	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list receipts: %w", err)
	}
	defer rows.Close()

	var receipts []*entity.Receipt
	for rows.Next() {
		receipt, err := scanReceipt(rows)
		if err != nil {
			return nil, fmt.Errorf("scan receipt: %w", err)
		}
		receipts = append(receipts, receipt)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate receipts: %w", err)
	}

	for _, receipt := range receipts {
		if err := r.loadItems(ctx, receipt); err != nil {
			return nil, err
		}
	}
	return receipts, nil
}

func (r *receiptRepository) loadItems(ctx context.Context, receipt *entity.Receipt) error {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name, price, quantity, line_total, category
		FROM line_items WHERE receipt_id = ? ORDER BY position`, receipt.ID.String())
	if err != nil {
		return fmt.Errorf("query line items: %w", err)
	}
	defer rows.Close()

	items := make([]entity.LineItem, 0)
	for rows.Next() {
		var item entity.LineItem
		if err := rows.Scan(&item.Name, &item.Price, &item.Quantity, &item.LineTotal, &item.Category); err != nil {
			return fmt.Errorf("scan line item: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return fmt.Errorf("iterate line items: %w", err)
	}
	receipt.Items = items
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanReceipt(row rowScanner) (*entity.Receipt, error) {
	var (
		receipt     entity.Receipt
		idStr       string
		needsReview int
		createdAt   string
	)
	err := row.Scan(
		&idStr,
		&receipt.Merchant,
		&receipt.TxDate,
		&receipt.Subtotal,
		&receipt.Tax,
		&receipt.Total,
		&receipt.Category,
		&receipt.Confidence,
		&receipt.StructuredFieldCount,
		&receipt.StructuredItemCount,
		&needsReview,
		&createdAt,
	)
	if err != nil {
		return nil, err
	}

	receipt.ID, err = uuid.Parse(idStr)
	if err != nil {
		return nil, fmt.Errorf("parsing receipt id %q: %w", idStr, err)
	}
	receipt.NeedsReview = needsReview != 0
	receipt.CreatedAt, err = time.Parse(time.RFC3339, createdAt)
	if err != nil {
		return nil, fmt.Errorf("parsing created_at %q: %w", createdAt, err)
	}
	return &receipt, nil
}
