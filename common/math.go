package common

import (
	"math"

	"github.com/shopspring/decimal"
)

// https://stackoverflow.com/questions/18390266/how-can-we-truncate-float64-type-to-a-particular-precision
func Round(num float64) int {
	return int(num + math.Copysign(0.5, num))
}

func DecimalToFixed(num float64, precision int) float64 {
	output := math.Pow(10, float64(precision))
	return float64(Round(num*output)) / output
}

// RoundDown rounds num toward zero, keeping places decimal places.
// Unlike DecimalToFixed it never rounds up, and it works on the
// decimal representation, so 8.3 stays 8.3 rather than becoming 8.2.
func RoundDown(num float64, places int32) float64 {
	return decimal.NewFromFloat(num).Truncate(places).InexactFloat64()
}

// IsFinite is true unless v is NaN or +/-Inf.
func IsFinite(vs ...float64) bool {
	for _, v := range vs {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}
