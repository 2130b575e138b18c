package extract

import (
	"context"

	"github.com/joseph-ayodele/receipt-extractor/internal/entity"
)

// Extractor is the OCR/expense-extraction collaborator: image bytes in,
// structured extraction out. Zero summary fields and zero line items are
// valid, common outputs; only transport/service failures return an error,
// and those propagate to the orchestrating caller untouched.
type Extractor interface {
	ExtractReceipt(ctx context.Context, image []byte, contentType string) (entity.RawExtraction, error)
}
