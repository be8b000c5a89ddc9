package utils

import (
	"fmt"
	"math"
	"strings"
)

// RoundCents rounds a baht amount to two decimal places.
func RoundCents(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// FormatBaht formats an amount as a Thai baht string with thousands
// separators, e.g. 1234.5 -> "฿1,234.50".
func FormatBaht(amount float64) string {
	negative := amount < 0
	formatted := fmt.Sprintf("%.2f", math.Abs(amount))

	parts := strings.Split(formatted, ".")
	integerPart := parts[0]
	decimalPart := parts[1]

	var groups []string
	for i := len(integerPart); i > 0; i -= 3 {
		start := i - 3
		if start < 0 {
			start = 0
		}
		groups = append([]string{integerPart[start:i]}, groups...)
	}

	out := "฿" + strings.Join(groups, ",") + "." + decimalPart
	if negative {
		out = "-" + out
	}
	return out
}
