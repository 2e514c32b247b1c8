package exchange

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	goldex "go-gold-exchange"
)

var testRates = goldex.Rates{
	"EUR": 0.9,
	"INR": 83,
	"GBP": 0.79,
	"JPY": 149.5,
}

func TestConvert_Identity(t *testing.T) {
	for _, code := range []goldex.Code{"USD", "EUR", "INR", "XYZ"} {
		t.Run(string(code), func(t *testing.T) {
			got, err := Convert(123.456, code, code, testRates, Strict)
			require.NoError(t, err)
			assert.Equal(t, goldex.Amount(123.456), got)
		})
	}
}

func TestConvert_RoundTrip(t *testing.T) {
	codes := []goldex.Code{"USD", "EUR", "INR", "GBP", "JPY"}
	for _, a := range codes {
		for _, b := range codes {
			there, err := Convert(250, a, b, testRates, Strict)
			require.NoError(t, err)
			back, err := Convert(there, b, a, testRates, Strict)
			require.NoError(t, err)
			assert.InEpsilon(t, 250.0, float64(back), 1e-12, "%v -> %v -> %v", a, b, a)
		}
	}
}

func TestConvert_PivotFormulas(t *testing.T) {
	for code, rate := range testRates {
		from, err := Convert(10, goldex.Pivot, code, testRates, Strict)
		require.NoError(t, err)
		assert.Equal(t, goldex.Amount(10*float64(rate)), from)

		to, err := Convert(10, code, goldex.Pivot, testRates, Strict)
		require.NoError(t, err)
		assert.Equal(t, goldex.Amount(10/float64(rate)), to)
	}
}

func TestConvert_Scenarios(t *testing.T) {
	got, err := Convert(100, "USD", "EUR", goldex.Rates{"EUR": 0.9, "INR": 83}, Strict)
	require.NoError(t, err)
	assert.InDelta(t, 90.00, float64(got), 1e-9)

	got, err = Convert(90, "EUR", "USD", goldex.Rates{"EUR": 0.9}, Strict)
	require.NoError(t, err)
	assert.InDelta(t, 100.00, float64(got), 1e-9)

	got, err = Convert(90, "EUR", "INR", testRates, Strict)
	require.NoError(t, err)
	assert.InDelta(t, 8300.00, float64(got), 1e-9)
}

func TestConvert_UnknownCurrency(t *testing.T) {
	tests := []struct {
		name     string
		from, to goldex.Code
	}{
		{"unknown from", "XYZ", "EUR"},
		{"unknown to", "EUR", "XYZ"},
		{"unknown to from pivot", "USD", "XYZ"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Convert(1, tt.from, tt.to, testRates, Strict)
			assert.ErrorIs(t, err, goldex.ErrUnknownCurrency)
		})
	}
}

func TestConvert_PivotFallback(t *testing.T) {
	got, err := Convert(50, "XYZ", "EUR", testRates, PivotFallback)
	require.NoError(t, err)
	assert.InDelta(t, 45.0, float64(got), 1e-9)

	got, err = Convert(50, "EUR", "XYZ", goldex.Rates{}, PivotFallback)
	require.NoError(t, err)
	assert.Equal(t, goldex.Amount(50), got)
}

func TestConvert_NonPositiveRateIsMissing(t *testing.T) {
	_, err := Convert(1, "USD", "EUR", goldex.Rates{"EUR": 0}, Strict)
	assert.ErrorIs(t, err, goldex.ErrUnknownCurrency)
}

func TestConvert_InvalidAmount(t *testing.T) {
	for _, amount := range []float64{math.NaN(), math.Inf(1), math.Inf(-1), -1} {
		_, err := Convert(goldex.Amount(amount), "USD", "EUR", testRates, Strict)
		assert.ErrorIs(t, err, goldex.ErrInvalidInput)
	}
}

func TestValueOfGold(t *testing.T) {
	quote := goldex.GoldQuote{PricePerGram: 65.50, Currency: "USD"}

	t.Run("zero weight", func(t *testing.T) {
		for _, code := range []goldex.Code{"USD", "EUR", "INR"} {
			got, err := ValueOfGold(0, quote, code, testRates, Strict)
			require.NoError(t, err)
			assert.Equal(t, goldex.Amount(0), got)
		}
	})

	t.Run("quote currency needs no rates", func(t *testing.T) {
		got, err := ValueOfGold(10, quote, "USD", goldex.Rates{}, Strict)
		require.NoError(t, err)
		assert.Equal(t, goldex.Amount(655.00), got)
	})

	t.Run("display currency", func(t *testing.T) {
		got, err := ValueOfGold(10, quote, "EUR", testRates, Strict)
		require.NoError(t, err)
		assert.InDelta(t, 589.5, float64(got), 1e-9)
	})

	t.Run("invalid weight", func(t *testing.T) {
		for _, w := range []float64{math.NaN(), math.Inf(1), -0.5} {
			_, err := ValueOfGold(w, quote, "USD", testRates, Strict)
			assert.ErrorIs(t, err, goldex.ErrInvalidWeight)
			assert.ErrorIs(t, err, goldex.ErrInvalidInput)
		}
	})
}

func TestParsePolicy(t *testing.T) {
	p, err := ParsePolicy("")
	require.NoError(t, err)
	assert.Equal(t, Strict, p)

	p, err = ParsePolicy("Pivot")
	require.NoError(t, err)
	assert.Equal(t, PivotFallback, p)
	assert.Equal(t, "pivot", p.String())

	_, err = ParsePolicy("guess")
	assert.Error(t, err)
}
