package service

import (
	"math"
	"regexp"
	"strconv"
	"strings"
)

// MaxLineAmount bounds |price * quantity| of one additional line item.
// Any number of lines within the bound sums to a finite total.
const MaxLineAmount = 1e15

var (
	leadingInt   = regexp.MustCompile(`^[+-]?\d+`)
	leadingFloat = regexp.MustCompile(`^[+-]?(\d+\.?\d*|\.\d+)([eE][+-]?\d+)?`)
)

// NormalizeQuantity coerces operator input into a quantity.
// The leading integer of the input is used ("3.7" is 3, "12abc" is 12);
// input without one, or a quantity of 0, falls back to 1.
func NormalizeQuantity(value string) int {
	m := leadingInt.FindString(strings.TrimSpace(value))
	if m == "" {
		return 1
	}
	n, err := strconv.Atoi(m)
	if err != nil || n == 0 {
		return 1
	}
	return n
}

// NormalizePrice coerces operator input into a unit price.
// The leading decimal number of the input is used; anything else is 0.
// Negative prices are kept.
func NormalizePrice(value string) float64 {
	m := leadingFloat.FindString(strings.TrimSpace(value))
	if m == "" {
		return 0
	}
	f, err := strconv.ParseFloat(m, 64)
	if err != nil {
		return 0
	}
	return f
}

// LineAmountInRange reports whether price * quantity is a finite amount within MaxLineAmount
func LineAmountInRange(price float64, quantity int) bool {
	amount := price * float64(quantity)
	return !math.IsNaN(amount) && math.Abs(amount) <= MaxLineAmount
}
