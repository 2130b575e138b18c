package parser

import "regexp"

// The scanning algorithm in heuristic.go is driven entirely by the ordered
// tables below; extending vendor/date/amount recognition means editing data
// here, not control flow there.

// knownChains match immediately and with high confidence during vendor
// detection. Substring match, case-insensitive.
var knownChains = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bwal[\s-]?mart\b`),
	regexp.MustCompile(`(?i)\btarget\b`),
	regexp.MustCompile(`(?i)\bcostco\b`),
	regexp.MustCompile(`(?i)\bkroger\b`),
	regexp.MustCompile(`(?i)\bsafeway\b`),
	regexp.MustCompile(`(?i)\baldi\b`),
	regexp.MustCompile(`(?i)\bpublix\b`),
	regexp.MustCompile(`(?i)\btrader\s+joe`),
	regexp.MustCompile(`(?i)\bwhole\s+foods\b`),
	regexp.MustCompile(`(?i)\bwalgreens\b`),
	regexp.MustCompile(`(?i)\bcvs\b`),
	regexp.MustCompile(`(?i)\brite\s+aid\b`),
	regexp.MustCompile(`(?i)\bhome\s+depot\b`),
	regexp.MustCompile(`(?i)\blowe'?s\b`),
	regexp.MustCompile(`(?i)\bbest\s+buy\b`),
	regexp.MustCompile(`(?i)\bdollar\s+(general|tree)\b`),
	regexp.MustCompile(`(?i)\b7[\s-]?eleven\b`),
	regexp.MustCompile(`(?i)\bshell\b`),
	regexp.MustCompile(`(?i)\bchevron\b`),
	regexp.MustCompile(`(?i)\bexxon\b`),
	regexp.MustCompile(`(?i)\bmcdonald`),
	regexp.MustCompile(`(?i)\bstarbucks\b`),
	regexp.MustCompile(`(?i)\bsubway\b`),
	regexp.MustCompile(`(?i)\bchipotle\b`),
	regexp.MustCompile(`(?i)\bikea\b`),
}

// datePatterns are tried in listed order; the first line with a match wins
// the date field. Pattern order therefore encodes priority among ambiguous
// numeric layouts (US month-first before day-first).
var datePatterns = []*regexp.Regexp{
	regexp.MustCompile(`\b\d{4}[-/.]\d{1,2}[-/.]\d{1,2}\b`),
	regexp.MustCompile(`\b\d{1,2}[-/.]\d{1,2}[-/.]\d{2,4}\b`),
	regexp.MustCompile(`(?i)\b(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?\s+\d{1,2},?\s+\d{4}\b`),
	regexp.MustCompile(`(?i)\b\d{1,2}\s+(?:jan|feb|mar|apr|may|jun|jul|aug|sep|oct|nov|dec)[a-z]*\.?,?\s+\d{4}\b`),
}

// Label+amount tables. First matching line wins per field, independently.
var totalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bgrand\s*total\b[^0-9]*(\d+\.\d{2})`),
	regexp.MustCompile(`(?i)\bamount\s*due\b[^0-9]*(\d+\.\d{2})`),
	regexp.MustCompile(`(?i)\bbalance\s*due\b[^0-9]*(\d+\.\d{2})`),
	regexp.MustCompile(`(?i)\btotal\b[^0-9]*(\d+\.\d{2})`),
}

var subtotalPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bsub[\s-]?total\b[^0-9]*(\d+\.\d{2})`),
}

var taxPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)\bsales\s*tax\b[^0-9]*(\d+\.\d{2})`),
	regexp.MustCompile(`(?i)\btax\b[^0-9]*(\d+\.\d{2})`),
	regexp.MustCompile(`(?i)\bhst\b[^0-9]*(\d+\.\d{2})`),
	regexp.MustCompile(`(?i)\bgst\b[^0-9]*(\d+\.\d{2})`),
	regexp.MustCompile(`(?i)\bpst\b[^0-9]*(\d+\.\d{2})`),
	regexp.MustCompile(`(?i)\bvat\b[^0-9]*(\d+\.\d{2})`),
}

// nonItemLine excludes payment/footer/header noise from line-item scanning.
var nonItemLine = regexp.MustCompile(`(?i)\b(total|subtotal|sub-total|tax|hst|gst|pst|vat|change|cash|credit|debit|visa|mastercard|amex|discover|card|balance|payment|tender|approved|auth|ref\s*#|thank|welcome|receipt|invoice|cashier|register|store\s*#|tel|phone|fax|www\.|\.com)\b`)

var (
	rePrice        = regexp.MustCompile(`\$?\d{1,4}\.\d{2}`)
	rePriceAmount  = regexp.MustCompile(`\d{1,4}\.\d{2}`)
	reDivider      = regexp.MustCompile(`^[\s\-=*_.#~]{3,}$`)
	reTimeOfDay    = regexp.MustCompile(`\b\d{1,2}:\d{2}(:\d{2})?\s*(AM|PM|am|pm)?\b`)
	reLeadingQty   = regexp.MustCompile(`^(?:(\d{1,3})\s*[xX]\s+|(?i:qty)\s*:?\s*(\d{1,3})\s+|(\d{1,3})\s*@\s*|\*(\d{1,3})\s+)`)
	reNameCleanup  = regexp.MustCompile(`[*#@|\\]+`)
	reInlineSpaces = regexp.MustCompile(`\s{2,}`)
)
