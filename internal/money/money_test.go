package money_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/melkban/dealdesk/internal/money"
)

func TestNormalizeDigits(t *testing.T) {
	type testCase struct {
		name string
		in   string
		want string
	}

	tests := []testCase{
		{name: "ASCII", in: "12345", want: "12345"},
		{name: "Persian", in: "۱۲۳۴۵", want: "12345"},
		{name: "ArabicIndic", in: "١٢٣٤٥", want: "12345"},
		{name: "Mixed", in: "۱2٣4۵", want: "12345"},
		{name: "NonDigitsPassThrough", in: "مبلغ ۵۰۰ ریال", want: "مبلغ 500 ریال"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, money.NormalizeDigits(tt.in))
		})
	}
}

func TestParseAmount(t *testing.T) {
	type testCase struct {
		name   string
		in     string
		want   int64
		wantOK bool
	}

	tests := []testCase{
		{name: "Plain", in: "5000000", want: 5000000, wantOK: true},
		{name: "PersianGrouped", in: "۵٬۰۰۰٬۰۰۰", want: 5000000, wantOK: true},
		{name: "ArabicIndicGrouped", in: "٥,٠٠٠,٠٠٠", want: 5000000, wantOK: true},
		{name: "ASCIICommas", in: "5,000,000", want: 5000000, wantOK: true},
		{name: "SpacesAndCurrency", in: " ۲۵۰۰ ریال ", want: 2500, wantOK: true},
		{name: "FractionTruncated", in: "1234.75", want: 1234, wantOK: true},
		{name: "Zero", in: "0", want: 0, wantOK: true},
		{name: "Empty", in: "", wantOK: false},
		{name: "NoDigits", in: "ریال", wantOK: false},
		{name: "LonePoint", in: ".", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := money.ParseAmount(tt.in)

			assert.Equal(t, tt.wantOK, ok)

			if tt.wantOK {
				assert.Equal(t, tt.want, got)
			}
		})
	}
}

func TestFormatAmount(t *testing.T) {
	assert.Equal(t, "۵٬۰۰۰٬۰۰۰", money.FormatAmount(5000000))
	assert.Equal(t, "۰", money.FormatAmount(0))
	assert.Equal(t, "۱۲۳", money.FormatAmount(123))
}

func TestFormatAmount_RoundTrips(t *testing.T) {
	for _, v := range []int64{0, 9, 1000, 2500000, 987654321} {
		got, ok := money.ParseAmount(money.FormatAmount(v))

		assert.True(t, ok)
		assert.Equal(t, v, got)
	}
}

func TestPersianDigits_Idempotent(t *testing.T) {
	once := money.PersianDigits("5,000,000")
	twice := money.PersianDigits(once)

	assert.Equal(t, "۵٬۰۰۰٬۰۰۰", once)
	assert.Equal(t, once, twice)
}
