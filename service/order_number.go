package service

import (
	"strconv"
	"time"
)

// RenewalOrderPrefix starts every generated renewal order number
const RenewalOrderPrefix = "REN-"

// RenewalOrderNumber derives an order number from the creation time in
// milliseconds since the epoch. Two renewals created within the same
// millisecond get the same number; the store's unique index rejects the second.
func RenewalOrderNumber(now time.Time) string {
	return RenewalOrderPrefix + strconv.FormatInt(now.UnixMilli(), 10)
}
