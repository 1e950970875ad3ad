package output

import (
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var yenPrinter = message.NewPrinter(language.Japanese)

var hundred = decimal.NewFromInt(100)

// FormatYenAmount groups a whole-yen amount with thousands separators, without a symbol
func FormatYenAmount(amount decimal.Decimal) string {
	return yenPrinter.Sprintf("%d", amount.Truncate(0).IntPart())
}

// FormatYen formats a decimal as yen, e.g. ¥6,000,000 or -¥1,000
func FormatYen(amount decimal.Decimal) string {
	if amount.IsNegative() {
		return "-¥" + FormatYenAmount(amount.Abs())
	}
	return "¥" + FormatYenAmount(amount)
}

// FormatSignedYen formats a delta with an explicit sign
func FormatSignedYen(amount decimal.Decimal) string {
	if amount.IsPositive() {
		return "+" + FormatYen(amount)
	}
	return FormatYen(amount)
}

// FormatPercentage formats a value that is already a percentage
func FormatPercentage(pct decimal.Decimal) string {
	return pct.StringFixed(2) + "%"
}

// FormatRate formats a fractional rate (0.2 -> 20%, 0.021 -> 2.1%)
func FormatRate(rate decimal.Decimal) string {
	pct := rate.Mul(hundred)
	if pct.Equal(pct.Truncate(0)) {
		return pct.StringFixed(0) + "%"
	}
	return pct.StringFixed(1) + "%"
}
