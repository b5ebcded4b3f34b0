// Package money normalizes and formats rial amounts entered in
// Persian-locale forms. Inputs may mix ASCII, Extended Arabic-Indic
// (Persian) and Arabic-Indic digits with arbitrary grouping separators.
package money

import (
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const (
	persianZero = '۰' // ۰
	arabicZero  = '٠' // ٠

	// U+066C, the Arabic thousands separator used by the fa-IR locale.
	thousandsSeparator = '٬'
)

var printer = message.NewPrinter(language.Persian)

// NormalizeDigits maps Extended Arabic-Indic and Arabic-Indic digits to
// their ASCII equivalents. All other runes pass through unchanged.
func NormalizeDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= persianZero && r <= persianZero+9:
			return '0' + (r - persianZero)
		case r >= arabicZero && r <= arabicZero+9:
			return '0' + (r - arabicZero)
		}

		return r
	}, s)
}

// ParseAmount parses a user-entered amount into whole rials. Digits are
// normalized first, everything except digits and the decimal point is
// discarded, and fractional rials are truncated. ok is false when no
// digits remain.
func ParseAmount(s string) (int64, bool) {
	cleaned := strings.Map(func(r rune) rune {
		if (r >= '0' && r <= '9') || r == '.' {
			return r
		}

		return -1
	}, NormalizeDigits(s))

	if cleaned == "" || cleaned == "." {
		return 0, false
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, false
	}

	return d.IntPart(), true
}

// FormatAmount renders whole rials with fa-IR grouping and Persian digits,
// e.g. 5000000 -> "۵٬۰۰۰٬۰۰۰".
func FormatAmount(v int64) string {
	return PersianDigits(printer.Sprintf("%d", v))
}

// PersianDigits maps ASCII digits to Persian digits and the ASCII comma to
// the fa-IR thousands separator. Already-Persian text passes through.
func PersianDigits(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= '0' && r <= '9':
			return persianZero + (r - '0')
		case r == ',':
			return thousandsSeparator
		}

		return r
	}, s)
}
