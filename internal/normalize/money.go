package normalize

import "github.com/shopspring/decimal"

// MinorUnitThreshold is the cut-off of the unit heuristic: raw amounts above it are read as minor units.
const MinorUnitThreshold = 100

var hundred = decimal.NewFromInt(100)

// FromUpstream converts a raw monetary amount from the remote API into major (decimal) units.
//
// The server is inconsistent about units, so any amount above MinorUnitThreshold is treated as
// minor units and divided by 100. This is lossy: a genuine 150.00 total sent as 150 reads as 1.50.
// Every read path goes through this function so the rule can be replaced in one place once the
// server's unit convention is confirmed.
func FromUpstream(v float64) float64 {
	if v > MinorUnitThreshold {
		return decimal.NewFromFloat(v).Div(hundred).InexactFloat64()
	}
	return v
}

// ToMinorUnits converts a major-unit amount into the minor units every write path sends.
func ToMinorUnits(v float64) int64 {
	return decimal.NewFromFloat(v).Mul(hundred).Round(0).IntPart()
}

// Sum adds major-unit amounts without accumulating float error.
func Sum(values ...float64) float64 {
	total := decimal.Zero
	for _, v := range values {
		total = total.Add(decimal.NewFromFloat(v))
	}
	return total.InexactFloat64()
}
