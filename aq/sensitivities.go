// backend/aq/sensitivities.go
package aq

// Sensitivities returns the AQ sensitivity coefficients used to fan one
// exposure out into the family of "aqc_<sensitivity>" cost attributes.
// The subset is a prefix of the full set: cost attribute names are assigned
// to the graph from the full set, so a subset deployment must only ever
// produce names the full vocabulary already contains.
func Sensitivities(subset bool) []float64 {
	if subset {
		return []float64{0.2, 0.5, 1, 3, 6, 10, 20}
	}
	return []float64{0.2, 0.5, 1, 3, 6, 10, 20, 35}
}
