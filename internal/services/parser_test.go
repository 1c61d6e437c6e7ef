// internal/services/parser_test.go
package services

import (
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseReceiptText(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{
			name:     "strips trailing prices",
			raw:      "Milk 1.99\nBread 2.49",
			expected: []string{"Milk", "Bread"},
		},
		{
			name:     "strips leading quantities",
			raw:      "2x Eggs 3.29\n3 Bananas 1.50",
			expected: []string{"Eggs", "Bananas"},
		},
		{
			name:     "drops price-only and empty lines",
			raw:      "Milk 1.99\n\n  \n4.48\n1,99",
			expected: []string{"Milk"},
		},
		{
			name:     "drops totals and store chrome",
			raw:      "SuperMart Store\nMilk 1.99\nSUBTOTAL 1.99\nTOTAL 1.99\nVAT 0.20\nCard ****1234\nThank you!",
			expected: []string{"Milk"},
		},
		{
			name:     "deduplicates case-insensitively keeping first spelling",
			raw:      "Milk 1.99\nMILK 1.99\nmilk 1.99",
			expected: []string{"Milk"},
		},
		{
			name:     "drops names below minimum length",
			raw:      "A 0.99\nOk 1.00",
			expected: []string{"Ok"},
		},
		{
			name:     "keeps receipt order",
			raw:      "Yogurt 0.89\nApples 2.10\nBread 2.49",
			expected: []string{"Yogurt", "Apples", "Bread"},
		},
		{
			name:     "empty input",
			raw:      "",
			expected: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseReceiptText(tt.raw))
		})
	}
}

func TestParseReceiptTextCapsLineCount(t *testing.T) {
	var b strings.Builder
	for i := 0; i < maxParsedLines+20; i++ {
		fmt.Fprintf(&b, "Item%03d 1.00\n", i)
	}
	names := parseReceiptText(b.String())
	assert.Len(t, names, maxParsedLines)
}
