package constants

// FieldKey is a typed summary-field or line-item key produced by the
// expense-extraction service. Keys are normalized to this exact casing
// before any parsing stage touches them.
type FieldKey = string

const (
	FieldVendorName  FieldKey = "VENDOR_NAME"
	FieldTotal       FieldKey = "TOTAL"
	FieldSubtotal    FieldKey = "SUBTOTAL"
	FieldTax         FieldKey = "TAX"
	FieldReceiptDate FieldKey = "INVOICE_RECEIPT_DATE"
	FieldItem        FieldKey = "ITEM"
	FieldPrice       FieldKey = "PRICE"
	FieldQuantity    FieldKey = "QUANTITY"
)

// Sentinel defaults substituted when a field cannot be determined, so
// downstream consumers never see an empty required field.
const (
	UnknownMerchant = "Unknown Vendor"
	UnknownItem     = "Unknown Item"
	ZeroAmount      = "0.00"
)

// DateLayout is the canonical date format for every stage and for storage.
const DateLayout = "2006-01-02"
