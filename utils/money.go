package utils

import "math"

// Round2 rounds an INR amount to two decimal places.
func Round2(amount float64) float64 {
	return math.Round(amount*100) / 100
}

// ToPaise converts an INR amount to paise. Rounds rather than truncates so
// fractional paise never systematically under-charge.
func ToPaise(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// SplitInclusive back-computes the exclusive-of-GST portion of a
// GST-inclusive amount at the given percentage rate. The GST portion is the
// remainder, so exclusive+gst always reassembles the inclusive amount.
func SplitInclusive(inclusive, ratePercent float64) (exclusive, gst float64) {
	exclusive = Round2(inclusive / (1 + ratePercent/100))
	gst = Round2(inclusive - exclusive)
	return exclusive, gst
}
