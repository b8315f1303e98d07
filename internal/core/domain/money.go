package domain

import (
	"fmt"
	"math"
)

// Money is a monetary amount in minor currency units (agorot).
// Integer arithmetic keeps price maths exact; floats only appear at the
// boundary when converting collaborator payloads or formatting output.
type Money int64

// MoneyFromFloat converts a major-unit amount (e.g. 12.90) to Money,
// rounding to the nearest minor unit.
func MoneyFromFloat(v float64) Money {
	return Money(math.Round(v * 100))
}

// Float64 returns the amount in major units.
func (m Money) Float64() float64 {
	return float64(m) / 100
}

// String formats the amount in major units with two decimals.
func (m Money) String() string {
	return fmt.Sprintf("%.2f", m.Float64())
}

// RoundDisplay adjusts an amount for display so it never ends in a 1 or 9
// minor unit: ...1 drops to the cent below, ...9 bumps to the cent above.
func RoundDisplay(m Money) Money {
	switch m % 10 {
	case 1:
		return m - 1
	case 9:
		return m + 1
	default:
		return m
	}
}

// UnitPrice divides a product total across qty units, rounding the result up
// to the next minor unit and then applying display rounding.
func UnitPrice(total Money, qty int) Money {
	if qty <= 0 {
		return RoundDisplay(total)
	}
	q := Money(qty)
	unit := (total + q - 1) / q
	return RoundDisplay(unit)
}
