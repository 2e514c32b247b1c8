// Package format renders amounts and rates for display.
package format

import (
	"fmt"

	"github.com/shopspring/decimal"
	goldex "go-gold-exchange"
	"golang.org/x/text/language"
	"golang.org/x/text/message"
	"golang.org/x/text/number"
)

var printer = message.NewPrinter(language.AmericanEnglish)

// Amount renders value with the symbol of code and exactly two fraction
// digits, grouped the en-US way: Amount(1234.5, "EUR") == "€1,234.50".
// Codes outside the currency list use the code itself as the symbol.
func Amount(value goldex.Amount, code goldex.Code) string {
	return goldex.Symbol(code) + Number(float64(value), 2)
}

// Number rounds half away from zero to places digits and groups thousands.
func Number(value float64, places int) string {
	rounded, _ := decimal.NewFromFloat(value).Round(int32(places)).Float64()
	return printer.Sprintf("%v", number.Decimal(rounded, number.Scale(places)))
}

// Rate renders an exchange rate with four fraction digits and no grouping.
func Rate(rate goldex.Rate) string {
	return decimal.NewFromFloat(float64(rate)).StringFixed(4)
}

// GoldBreakdown renders how a gold value was computed, e.g. "10g × $65.50 USD/g".
// The price is not grouped: "1g × $2000.00 USD/g".
func GoldBreakdown(weightGrams float64, quote goldex.GoldQuote) string {
	return fmt.Sprintf("%sg × %s%s %s/g",
		decimal.NewFromFloat(weightGrams).String(),
		goldex.Symbol(quote.Currency),
		decimal.NewFromFloat(float64(quote.PricePerGram)).StringFixed(2),
		quote.Currency,
	)
}

// RateCell one entry of the rate grid
type RateCell struct {
	Code    goldex.Code
	Symbol  string
	Rate    goldex.Rate
	Display string
}

// gridSize how many currencies after the pivot the grid shows
const gridSize = 8

// RateGrid renders the rates of the currencies that follow the pivot in the
// currency list. Missing rates show as zero.
func RateGrid(rates goldex.Rates) []RateCell {
	currencies := goldex.Currencies()
	end := 1 + gridSize
	if end > len(currencies) {
		end = len(currencies)
	}

	cells := make([]RateCell, 0, end-1)
	for _, c := range currencies[1:end] {
		rate := rates[c.Code]
		cells = append(cells, RateCell{
			Code:    c.Code,
			Symbol:  c.Symbol,
			Rate:    rate,
			Display: c.Symbol + Rate(rate),
		})
	}
	return cells
}
