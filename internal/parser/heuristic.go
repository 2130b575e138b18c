package parser

import (
	"regexp"
	"strings"
	"time"

	"github.com/joseph-ayodele/receipt-extractor/constants"
	"github.com/joseph-ayodele/receipt-extractor/internal/entity"
)

const (
	// vendorScanWindow bounds how deep into the receipt vendor detection looks.
	vendorScanWindow = 10
	// vendorEarlyStop ends the scan once a candidate scores this high
	// (proper-case line within the first three lines).
	vendorEarlyStop = 3

	chainConfidence  = 0.95
	scoredConfidence = 0.60
	fieldConfidence  = 0.90
	maxItemName      = 40
)

// FieldConfidence carries the per-field detection confidence the heuristic
// scan assigns while it classifies lines.
type FieldConfidence struct {
	Merchant float32
	Date     float32
	Total    float32
	Items    float32
}

// Result is the output of a heuristic text parse.
type Result struct {
	Receipt    entity.ParsedReceipt
	Confidence FieldConfidence
}

// ParseText segments raw OCR line-text into vendor, date, totals and line
// items using only pattern tables and structural checks; no structured
// fields are consulted. It never fails: undetectable fields get sentinel
// defaults, with "now" supplying the date fallback so callers can fix time
// in tests. Identical input always yields an identical result.
func ParseText(rawText string, now time.Time) Result {
	lines := splitLines(rawText)
	consumed := make(map[int]bool, 4)

	receipt := entity.ParsedReceipt{Items: []entity.LineItem{}}
	var conf FieldConfidence

	if vendor, c, idx := detectVendor(lines); vendor != "" {
		receipt.Merchant = vendor
		conf.Merchant = c
		consumed[idx] = true
	}
	if date, idx := detectDate(lines); date != "" {
		receipt.TxDate = date
		conf.Date = fieldConfidence
		consumed[idx] = true
	}
	if amount, idx := detectAmount(totalPatterns, lines); amount != "" {
		receipt.Total = NormalizePrice(amount)
		conf.Total = fieldConfidence
		consumed[idx] = true
	}
	if amount, idx := detectAmount(subtotalPatterns, lines); amount != "" {
		receipt.Subtotal = NormalizePrice(amount)
		consumed[idx] = true
	}
	if amount, idx := detectAmount(taxPatterns, lines); amount != "" {
		receipt.Tax = NormalizePrice(amount)
		consumed[idx] = true
	}

	receipt.Items = extractItems(lines, consumed)
	if len(receipt.Items) == 0 {
		receipt.Items = extractItemsRelaxed(lines, consumed)
	}
	if n := len(receipt.Items); n > 0 {
		c := 0.3 + 0.1*float32(n)
		if c > 0.9 {
			c = 0.9
		}
		conf.Items = c
	}

	// Sentinel defaults: the parse always yields a complete record.
	if receipt.Merchant == "" {
		receipt.Merchant = constants.UnknownMerchant
	}
	if receipt.TxDate == "" {
		receipt.TxDate = now.Format(constants.DateLayout)
	}
	if receipt.Total == "" {
		receipt.Total = constants.ZeroAmount
	}
	return Result{Receipt: receipt, Confidence: conf}
}

// detectVendor scans the top of the receipt. Known chain names win
// immediately; otherwise candidate lines are scored structurally and the
// best survivor is kept.
func detectVendor(lines []string) (string, float32, int) {
	limit := len(lines)
	if limit > vendorScanWindow {
		limit = vendorScanWindow
	}

	for i := 0; i < limit; i++ {
		for _, chain := range knownChains {
			if chain.MatchString(lines[i]) {
				return lines[i], chainConfidence, i
			}
		}
	}

	bestScore := -1 << 16
	bestIdx := -1
	for i := 0; i < limit; i++ {
		line := lines[i]
		if rejectVendorLine(line) {
			continue
		}
		score := 0
		if i < 3 {
			score += 2
		}
		if isProperCase(line) {
			score++
		}
		if line == strings.ToUpper(line) && len(line) > 10 {
			score -= 2
		}
		if hasDigit(line) {
			score--
		}
		if score > bestScore {
			bestScore = score
			bestIdx = i
		}
		if score >= vendorEarlyStop {
			break
		}
	}
	if bestIdx < 0 {
		return "", 0, -1
	}
	return lines[bestIdx], scoredConfidence, bestIdx
}

func rejectVendorLine(line string) bool {
	if isDigitsOnly(line) || !hasLetter(line) {
		return true
	}
	lower := strings.ToLower(line)
	if strings.Contains(lower, "receipt") || strings.Contains(lower, "invoice") {
		return true
	}
	if rePriceAmount.MatchString(line) || reTimeOfDay.MatchString(line) {
		return true
	}
	for _, p := range datePatterns {
		if p.MatchString(line) {
			return true
		}
	}
	return false
}

// isProperCase reports a mixed-case line starting with an uppercase letter,
// the shape of a printed store name rather than OCR shouting.
func isProperCase(line string) bool {
	if !hasLetter(line) {
		return false
	}
	if line == strings.ToUpper(line) {
		return false
	}
	first := rune(line[0])
	return first >= 'A' && first <= 'Z'
}

// detectDate returns the first canonicalizable date in document order.
func detectDate(lines []string) (string, int) {
	for i, line := range lines {
		for _, p := range datePatterns {
			if m := p.FindString(line); m != "" {
				if d, ok := CanonicalDate(m); ok {
					return d, i
				}
			}
		}
	}
	return "", -1
}

// detectAmount runs the ordered label+amount table; earlier patterns take
// priority over later ones across the whole document.
func detectAmount(patterns []*regexp.Regexp, lines []string) (string, int) {
	for _, p := range patterns {
		for i, line := range lines {
			if m := p.FindStringSubmatch(line); m != nil {
				return m[1], i
			}
		}
	}
	return "", -1
}

// extractItems is the primary two-pass item scan: price-bearing lines become
// items directly; a price-less line followed by a bare price line pairs with
// it (split-line fallback for wrapped OCR columns).
func extractItems(lines []string, consumed map[int]bool) []entity.LineItem {
	items := []entity.LineItem{}
	skipNext := false
	for i, line := range lines {
		if skipNext {
			skipNext = false
			continue
		}
		if consumed[i] || excludeItemLine(line) {
			continue
		}

		if item, ok := buildItem(line); ok {
			items = append(items, item)
			continue
		}

		// Split-line fallback: name on this line, price alone on the next.
		if i+1 < len(lines) && !consumed[i+1] && isPriceLike(lines[i+1]) {
			if name, ok := cleanItemName(line); ok {
				price := NormalizePrice(rePriceAmount.FindString(lines[i+1]))
				items = append(items, entity.LineItem{
					Name:      name,
					Price:     price,
					Quantity:  1,
					LineTotal: price,
				})
				skipNext = true
			}
		}
	}
	return items
}

// extractItemsRelaxed rescans with relaxed rules when the primary pass found
// nothing: any non-excluded line holding both a letter and an extractable
// price is accepted.
func extractItemsRelaxed(lines []string, consumed map[int]bool) []entity.LineItem {
	items := []entity.LineItem{}
	for i, line := range lines {
		if consumed[i] || nonItemLine.MatchString(line) || reDivider.MatchString(line) {
			continue
		}
		if !hasLetter(line) || !hasDigit(line) {
			continue
		}
		m := rePriceAmount.FindString(line)
		if m == "" {
			continue
		}
		name := strings.TrimSpace(strings.Replace(line, m, "", 1))
		name = strings.Trim(reNameCleanup.ReplaceAllString(name, " "), " .,;:-_$")
		if name == "" {
			name = constants.UnknownItem
		}
		price := NormalizePrice(m)
		items = append(items, entity.LineItem{
			Name:      name,
			Price:     price,
			Quantity:  1,
			LineTotal: price,
		})
	}
	return items
}

// buildItem parses one line into name/price/quantity. The rightmost price
// token is the line price; an optional leading quantity marker ("2 x",
// "QTY 2", "2 @", "*2") sets the quantity.
func buildItem(line string) (entity.LineItem, bool) {
	locs := rePrice.FindAllStringIndex(line, -1)
	if locs == nil {
		return entity.LineItem{}, false
	}
	loc := locs[len(locs)-1]
	remainder := strings.TrimSpace(line[:loc[0]] + line[loc[1]:])

	quantity := 1
	if m := reLeadingQty.FindStringSubmatch(remainder); m != nil {
		for _, g := range m[1:] {
			if g != "" {
				quantity = NormalizeQuantity(g)
				break
			}
		}
		remainder = strings.TrimSpace(remainder[len(m[0]):])
	}

	name, ok := cleanItemName(remainder)
	if !ok {
		return entity.LineItem{}, false
	}
	price := NormalizePrice(line[loc[0]:loc[1]])
	return entity.LineItem{
		Name:      name,
		Price:     price,
		Quantity:  quantity,
		LineTotal: MultiplyPrice(price, quantity),
	}, true
}

// cleanItemName strips OCR punctuation noise and validates the result as a
// plausible product name.
func cleanItemName(s string) (string, bool) {
	s = reNameCleanup.ReplaceAllString(s, " ")
	s = reInlineSpaces.ReplaceAllString(s, " ")
	s = strings.Trim(s, " .,;:-_$")
	if s == "" || !hasLetter(s) || isDigitsOnly(s) || len(s) >= maxItemName {
		return "", false
	}
	return s, true
}

// excludeItemLine applies the keyword denylist and structural checks that
// keep non-item lines out of the primary pass.
func excludeItemLine(line string) bool {
	if len(line) < 2 {
		return true
	}
	if nonItemLine.MatchString(line) || reDivider.MatchString(line) {
		return true
	}
	if line == strings.ToUpper(line) && !hasDigit(line) && len(line) > 30 {
		return true
	}
	if isDigitsOnly(line) && len(line) > 8 {
		return true
	}
	return false
}

// isPriceLike reports a line that is essentially just a price token, the
// trailing half of a split item row.
func isPriceLike(line string) bool {
	if !rePriceAmount.MatchString(line) {
		return false
	}
	letters := 0
	for _, r := range line {
		if (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z') {
			letters++
		}
	}
	return letters <= 2
}
