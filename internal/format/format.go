// Package format renders quote values for display. Every function uses the
// same fixed locale: en-US with US dollars.
package format

import (
	"fmt"
	"math"
	"math/big"
	"strconv"

	"github.com/dustin/go-humanize"
)

const currencySymbol = "$"

// Currency renders amount as "$1,234.57"; negative amounts as "-$1,234.57".
// Cents are rounded half away from zero on the exact binary value.
func Currency(amount float64) string {
	sign := ""
	if amount < 0 {
		sign = "-"
		amount = -amount
	}
	if math.IsNaN(amount) {
		return currencySymbol + "NaN"
	}
	if math.IsInf(amount, 0) {
		return sign + currencySymbol + "∞"
	}

	// floor(amount*100 + 1/2), computed exactly.
	cents := new(big.Rat).SetFloat64(amount)
	cents.Mul(cents, big.NewRat(100, 1))
	cents.Add(cents, big.NewRat(1, 2))
	whole := new(big.Int).Quo(cents.Num(), cents.Denom())

	dollars, rem := new(big.Int).QuoRem(whole, big.NewInt(100), new(big.Int))
	return sign + currencySymbol + humanize.BigComma(dollars) + fmt.Sprintf(".%02d", rem.Int64())
}

// Weight renders grams, switching to kilograms from 1000 g upward.
func Weight(grams float64) string {
	if grams >= 1000 {
		return fmt.Sprintf("%.2f kg", grams/1000)
	}
	return strconv.FormatFloat(roundHalfUp(grams), 'f', 0, 64) + " g"
}

// Duration renders fractional hours as "4h 30m", "4h" or "30m".
func Duration(hours float64) string {
	h := math.Floor(hours)
	m := roundHalfUp((hours - h) * 60)
	if m == 60 {
		h++
		m = 0
	}

	switch {
	case h == 0:
		return fmt.Sprintf("%.0fm", m)
	case m == 0:
		return fmt.Sprintf("%.0fh", h)
	default:
		return fmt.Sprintf("%.0fh %.0fm", h, m)
	}
}

// Percent renders a heuristic percentage without trailing zeros, e.g. "12%".
func Percent(p float64) string {
	return strconv.FormatFloat(p, 'f', -1, 64) + "%"
}

func roundHalfUp(v float64) float64 {
	return math.Floor(v + 0.5)
}
