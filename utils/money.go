package utils

import (
	"math"
	"strconv"
	"strings"
	"time"
)

// maxExactCents is the largest cent count float64 holds exactly
const maxExactCents = 1 << 53

// FormatUSD formats an amount as US dollars like "$12,500.00".
// Uses comma as thousands separator and rounds half away from zero to cents.
// NaN and infinities are rendered by strconv as "NaN", "+Inf" and "-Inf".
func FormatUSD(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return strconv.FormatFloat(amount, 'f', -1, 64)
	}

	var dollars, frac string
	if c := math.Round(math.Abs(amount) * 100); c < maxExactCents {
		cents := int64(c)
		dollars = strconv.FormatInt(cents/100, 10)
		frac = strconv.FormatInt(cents%100+100, 10)[1:]
	} else {
		// cents no longer fit a float64 exactly; format the amount directly
		s := strconv.FormatFloat(math.Abs(amount), 'f', 2, 64)
		dollars, frac = s[:len(s)-3], s[len(s)-2:]
	}
	neg := amount < 0 && (dollars != "0" || frac != "00")

	var b strings.Builder
	// Pre-allocate: digits + separators + sign + $ + cents
	b.Grow(len(dollars) + len(dollars)/3 + 5)
	if neg {
		b.WriteString("-$")
	} else {
		b.WriteString("$")
	}

	// Insert separators from the left.
	rem := len(dollars) % 3
	if rem == 0 {
		rem = 3
	}
	b.WriteString(dollars[:rem])
	for i := rem; i < len(dollars); i += 3 {
		b.WriteByte(',')
		b.WriteString(dollars[i : i+3])
	}

	b.WriteByte('.')
	b.WriteString(frac)

	return b.String()
}

// dateLayouts are the input formats accepted by FormatDate
var dateLayouts = []string{
	time.RFC3339Nano,
	time.RFC3339,
	"2006-01-02",
}

// FormatDate renders a timestamp or calendar date as M/D/YYYY.
// Input that cannot be parsed is returned unchanged.
func FormatDate(value string) string {
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.Format("1/2/2006")
		}
	}
	return value
}
