package money

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

const fractionDigits = 2

// Formatter prints amounts with one fixed display locale. The currency is
// always supplied per call.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
	point   string
}

// NewFormatter parses a BCP 47 locale such as "en-US".
func NewFormatter(locale string) (*Formatter, error) {
	tag, err := language.Parse(locale)
	if err != nil {
		return nil, fmt.Errorf("parsing locale %q: %w", locale, err)
	}

	p := message.NewPrinter(tag)

	return &Formatter{tag: tag, printer: p, point: decimalPoint(p)}, nil
}

// decimalPoint is the locale's decimal separator, read off a formatted 1.5.
func decimalPoint(p *message.Printer) string {
	s := p.Sprint(number.Decimal(1.5, number.MinFractionDigits(1), number.MaxFractionDigits(1)))
	s = strings.TrimPrefix(s, p.Sprint(number.Decimal(1)))

	return strings.TrimSuffix(s, p.Sprint(number.Decimal(5)))
}

// MustFormatter is NewFormatter for compile-time constant locales.
func MustFormatter(locale string) *Formatter {
	f, err := NewFormatter(locale)
	if err != nil {
		panic(err)
	}

	return f
}

func (f *Formatter) Locale() language.Tag { return f.tag }

// Number prints d with locale grouping and exactly two fraction digits. The
// whole and fractional parts are formatted as integers so no precision is
// lost; magnitudes past int64 print ungrouped.
func (f *Formatter) Number(d decimal.Decimal) string {
	d = d.Round(fractionDigits)

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	whole := d.Truncate(0)
	if !whole.BigInt().IsInt64() {
		return sign + d.StringFixed(fractionDigits)
	}

	cents := d.Sub(whole).Shift(fractionDigits).IntPart()

	return sign +
		f.printer.Sprint(number.Decimal(whole.IntPart())) +
		f.point +
		f.printer.Sprint(number.Decimal(cents, number.MinIntegerDigits(fractionDigits)))
}

// Format prints d in the given ISO 4217 currency. Unknown codes print as
// "<CODE> <amount>".
func (f *Formatter) Format(d decimal.Decimal, code string) string {
	code = strings.ToUpper(strings.TrimSpace(code))

	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Neg()
	}

	digits := f.Number(d)

	sym := f.Symbol(code)
	if code == "" {
		return sign + digits
	}

	if sym == "" || sym == code {
		return sign + code + " " + digits
	}

	return sign + sym + digits
}

// Symbol is the locale's narrow-or-standard symbol for the currency, or ""
// when the code is not a known ISO 4217 unit.
func (f *Formatter) Symbol(code string) string {
	unit, err := currency.ParseISO(code)
	if err != nil {
		return ""
	}

	return strings.TrimSpace(f.printer.Sprint(currency.Symbol(unit)))
}
