package money_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/payflow/internal/money"
)

func TestFormatter_Number(t *testing.T) {
	f := money.MustFormatter("en-US")

	assert.Equal(t, "150.00", f.Number(decimal.RequireFromString("150")))
	assert.Equal(t, "1,234.50", f.Number(decimal.RequireFromString("1234.5")))
	assert.Equal(t, "0.05", f.Number(decimal.RequireFromString("0.049")))
	assert.Equal(t, "-0.50", f.Number(decimal.RequireFromString("-0.5")))
}

func TestFormatter_NumberIsExact(t *testing.T) {
	type testCase struct {
		name   string
		locale string
		in     string
		want   string
	}

	tests := []testCase{
		{name: "BeyondFloatPrecision", locale: "en-US", in: "12345678901234567.89", want: "12,345,678,901,234,567.89"},
		{name: "CentsSurviveLargeWhole", locale: "en-US", in: "9007199254740993.01", want: "9,007,199,254,740,993.01"},
		{name: "CommaDecimalLocale", locale: "de-DE", in: "1234567.05", want: "1.234.567,05"},
		{name: "PastInt64", locale: "en-US", in: "123456789012345678901.10", want: "123456789012345678901.10"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := money.MustFormatter(tt.locale)
			assert.Equal(t, tt.want, f.Number(decimal.RequireFromString(tt.in)))
		})
	}
}

func TestFormatter_Format(t *testing.T) {
	f := money.MustFormatter("en-US")

	usd := f.Format(decimal.RequireFromString("150"), "usd")
	assert.Contains(t, usd, "$")
	assert.Contains(t, usd, "150.00")

	eur := f.Format(decimal.RequireFromString("99.9"), "EUR")
	assert.Contains(t, eur, "99.90")
	assert.NotContains(t, eur, "$")

	neg := f.Format(decimal.RequireFromString("-15"), "USD")
	assert.True(t, neg[0] == '-')
	assert.Contains(t, neg, "15.00")

	unknown := f.Format(decimal.RequireFromString("10"), "ZZZ")
	assert.Equal(t, "ZZZ 10.00", unknown)
}

func TestNewFormatter_BadLocale(t *testing.T) {
	_, err := money.NewFormatter("!!")
	require.Error(t, err)
}
