package extract

import (
	"regexp"
	"strconv"
	"strings"
)

// Compiled price patterns.
var (
	// currencyAmountPattern captures the first number following a currency
	// indicator, e.g. "₹ 1,234.50", "Rs. 99", "INR 45".
	currencyAmountPattern = regexp.MustCompile(`(?:₹|Rs\.?|INR)\s*([\d,]+(?:\.\d+)?)`)

	// bareAmountPattern captures a bare numeric amount.
	bareAmountPattern = regexp.MustCompile(`([\d,]+(?:\.\d+)?)`)
)

// ParsePrice extracts a price from free text. The first number following a
// currency indicator wins; a bare number is accepted as a fallback.
// Returns 0 when no amount can be found.
func ParsePrice(text string) float64 {
	if m := currencyAmountPattern.FindStringSubmatch(text); m != nil {
		return parseAmount(m[1])
	}
	if m := bareAmountPattern.FindStringSubmatch(text); m != nil {
		return parseAmount(m[1])
	}
	return 0
}

// parseAmount strips thousands separators and parses a decimal amount.
func parseAmount(raw string) float64 {
	cleaned := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil || value < 0 {
		return 0
	}
	return value
}

// DerivedDiscount computes a discount percentage from MRP and selling price.
// Sources that expose an explicit discount field are trusted over this
// derivation. Returns 0 when the inputs cannot produce a meaningful discount.
func DerivedDiscount(mrp, price float64) float64 {
	if mrp <= 0 || price <= 0 || mrp <= price {
		return 0
	}
	pct := (mrp - price) / mrp * 100
	// one decimal place, matching what the sites themselves display
	return float64(int(pct*10+0.5)) / 10
}
