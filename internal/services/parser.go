// internal/services/parser.go
package services

import (
	"regexp"
	"strings"
)

var (
	priceOnlyLine  = regexp.MustCompile(`^[\d.,:\s€$£*x-]+$`)
	trailingPrice  = regexp.MustCompile(`\s+\d+[.,]\d{2}\s*$`)
	leadingQty     = regexp.MustCompile(`^\d+\s*[xX]?\s+`)
	minNameLength  = 2
	maxParsedLines = 50
)

// Receipt noise that never names a product. Matched as lowercase substrings.
var skipMarkers = []string{
	"total", "subtotal", "sub-total", "cash", "change", "card", "visa",
	"mastercard", "tax", "vat", "iva", "thank", "receipt", "invoice",
	"cashier", "store", "tel:", "www.", "http",
}

// parseReceiptText extracts candidate product names from raw OCR output, one
// per line: trims quantities and prices, drops totals and store chrome,
// de-duplicates case-insensitively while keeping receipt order.
func parseReceiptText(raw string) []string {
	seen := make(map[string]struct{})
	var names []string

	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || priceOnlyLine.MatchString(line) {
			continue
		}

		lower := strings.ToLower(line)
		skip := false
		for _, marker := range skipMarkers {
			if strings.Contains(lower, marker) {
				skip = true
				break
			}
		}
		if skip {
			continue
		}

		name := trailingPrice.ReplaceAllString(line, "")
		name = leadingQty.ReplaceAllString(name, "")
		name = strings.TrimSpace(name)
		if len(name) < minNameLength {
			continue
		}

		key := strings.ToLower(name)
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		names = append(names, name)

		if len(names) >= maxParsedLines {
			break
		}
	}
	return names
}
