// backend/utils/round.go
package utils

import "math"

// Round2 rounds a value to two decimal places. AQI costs, class exposures
// and percentages are all stored with this precision.
func Round2(value float64) float64 {
	return math.Round(value*100) / 100
}
