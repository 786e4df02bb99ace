package calculator

import (
	"math"

	"github.com/shopspring/decimal"

	"github.com/mmynk/splitledger/internal/models"
)

// Tolerance is the band around zero inside which a net position counts as
// settled. Every comparison of a net value against zero goes through it.
const Tolerance = 0.01

var (
	tolerance = decimal.New(1, -2)
	hundred   = decimal.NewFromInt(100)
)

// dec converts an input amount to a decimal. Non-finite values become zero
// so corrupt history cannot panic the calculator.
func dec(v float64) decimal.Decimal {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return decimal.Zero
	}
	return decimal.NewFromFloat(v)
}

// cents rounds d to two decimal places.
func cents(d decimal.Decimal) float64 {
	return d.Round(2).InexactFloat64()
}

// Round rounds v to two decimal places, half away from zero.
func Round(v float64) float64 {
	return cents(dec(v))
}

// StatusOf classifies a net position using the settled band.
func StatusOf(net float64) models.Status {
	switch {
	case net > Tolerance:
		return models.StatusToReceive
	case net < -Tolerance:
		return models.StatusToPay
	default:
		return models.StatusSettled
	}
}

// IsSettled reports whether v is within the settled band.
func IsSettled(v float64) bool {
	return math.Abs(v) <= Tolerance
}
