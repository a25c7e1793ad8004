package money

import "github.com/shopspring/decimal"

// Formatter renders prices with an explicit currency symbol instead of a
// literal baked into display code.
type Formatter struct {
	Symbol string
	Places int32
}

func NewFormatter(symbol string) Formatter {
	return Formatter{Symbol: symbol, Places: 2}
}

// Format renders d with a fixed number of decimal places, e.g. "£9.99".
func (f Formatter) Format(d decimal.Decimal) string {
	return f.Symbol + d.StringFixed(f.Places)
}

// Short renders d without trailing zeros, e.g. "£5" or "£9.5".
func (f Formatter) Short(d decimal.Decimal) string {
	return f.Symbol + d.String()
}

// Range renders a price bracket label. A nil max means the bracket is open
// at the top ("£15+").
func (f Formatter) Range(min decimal.Decimal, max *decimal.Decimal) string {
	if max == nil {
		return f.Short(min) + "+"
	}
	return f.Short(min) + " - " + f.Short(*max)
}
