package cart

import (
	"fmt"
	"math"
)

// Subtotal sums unitPrice x quantity across lines. No per-line rounding:
// full floating precision is kept until the display step to avoid
// cumulative rounding error.
func Subtotal(lines []Line) float64 {
	sum := 0.0
	for _, line := range lines {
		sum += line.UnitPrice * float64(line.Quantity)
	}
	return sum
}

// Total applies the percentage discount to the subtotal.
func Total(subtotal, discountPercent float64) float64 {
	if discountPercent > 0 {
		return subtotal * (1 - discountPercent/100)
	}
	return subtotal
}

// FormatAmount renders an amount for display, truncated (not rounded) to
// two decimal places.
func FormatAmount(amount float64) string {
	truncated := math.Trunc(amount*100) / 100
	return fmt.Sprintf("%.2f", truncated)
}
