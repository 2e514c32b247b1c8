package goldex

import "time"

// Pivot is the currency every conversion is routed through.
const Pivot Code = "USD"

// Code a currency code
type Code string

// Amount a monetary amount... which should be a float...
type Amount float64

// Rate units of a currency per one unit of the Pivot currency
type Rate float64

// Rates maps currency codes to their rate against the Pivot.
// The Pivot itself is implicitly 1.0 and need not be present.
// A published Rates value is never mutated.
type Rates map[Code]Rate

// Exchanged the outcome of a conversion
type Exchanged struct {
	From     Code
	To       Code
	Original Amount
	// Rate effective rate applied, i.e. units of To per unit of From
	Rate   Rate
	Amount Amount
}

// GoldQuote a priced observation of one gram of gold
type GoldQuote struct {
	PricePerGram Amount
	Currency     Code
	ObservedAt   time.Time
}

// GoldValuation the value of a weight of gold in a display currency
type GoldValuation struct {
	WeightGrams float64
	Quote       GoldQuote
	Currency    Code
	Value       Amount
}

// Pair a from/to currency selection
type Pair struct {
	From Code
	To   Code
}

// Swapped exchanges the from and to selections.
func (p Pair) Swapped() Pair {
	return Pair{From: p.To, To: p.From}
}

// Status of the refresh cycle as shown to users
type Status struct {
	Loading     bool
	LastUpdated time.Time
	// Notice single user-visible failure message, empty when the last refresh succeeded
	Notice string
}
