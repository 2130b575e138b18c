package entity

import (
	"time"

	"github.com/google/uuid"
)

// LineItem is one purchased product/service row. Money fields are decimal
// strings with exactly two fractional digits; Quantity is always >= 1.
type LineItem struct {
	Name      string `json:"name"`
	Price     string `json:"price"`
	Quantity  int    `json:"quantity"`
	LineTotal string `json:"line_total"`
	Category  string `json:"category,omitempty"`
}

// ParsedReceipt is the canonical output of the parsing pipeline. Required
// fields carry sentinel defaults rather than empty values; Items is never
// nil. Dates are YYYY-MM-DD.
type ParsedReceipt struct {
	Merchant   string     `json:"merchant"`
	TxDate     string     `json:"tx_date"`
	Subtotal   string     `json:"subtotal,omitempty"`
	Tax        string     `json:"tax,omitempty"`
	Total      string     `json:"total"`
	Items      []LineItem `json:"items"`
	Confidence float32    `json:"confidence"`
	Category   string     `json:"category"`

	// Processing metadata: how much structured context was available when
	// the record was produced, and whether a reviewer should look at it.
	StructuredFieldCount int  `json:"structured_field_count"`
	StructuredItemCount  int  `json:"structured_item_count"`
	NeedsReview          bool `json:"needs_review"`
}

// Receipt is a persisted ParsedReceipt. The ID and timestamps are the
// repository's concern, not the parsing pipeline's.
type Receipt struct {
	ID uuid.UUID `json:"id"`
	ParsedReceipt
	CreatedAt time.Time `json:"created_at"`
}
