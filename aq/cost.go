// backend/aq/cost.go
package aq

import (
	"errors"

	"github.com/gewnthar/greenpaths/backend/models"
	"github.com/gewnthar/greenpaths/backend/utils"
)

var (
	// ErrNoCoefficientSource is returned by Cost when neither a precomputed
	// coefficient nor a raw AQI value is supplied. Programmer error.
	ErrNoCoefficientSource = errors.New("either aqiCoeff or aqi argument must be defined")

	// ErrZeroTotalDistance is returned by MeanAqi when the exposures sum to
	// zero distance.
	ErrZeroTotalDistance = errors.New("total exposure distance is zero")

	// ErrZeroLength is returned by ClassPercentages for a zero-length path.
	ErrZeroLength = errors.New("path length is zero")

	// ErrMissingExposure is returned by LinkEdgeCostEstimates when the parent
	// edge carries no well-formed exposure. Callers log it and carry on.
	ErrMissingExposure = errors.New("no valid aqi exposure on parent edge")
)

// Coefficient returns the cost coefficient for an AQI value: 0 at AQI 1,
// 1 at AQI 5, linear in between. Not clamped; values below 1 yield negative
// coefficients, which the validator flags upstream.
func Coefficient(aqi float64) float64 {
	return (aqi - 1) / 4
}

// Cost returns the AQI based cost of traversing length meters. Exactly one
// of aqiCoeff or aqi must be non-nil; if a sensitivity is given the cost is
// multiplied by it.
func Cost(length float64, aqiCoeff *float64, aqi *float64, sen float64) (float64, error) {
	switch {
	case aqiCoeff != nil:
		return utils.Round2(length * *aqiCoeff * sen), nil
	case aqi != nil:
		return utils.Round2(length * Coefficient(*aqi) * sen), nil
	default:
		return 0, ErrNoCoefficientSource
	}
}

// CostForExposure returns the AQI cost for a single exposure at the given
// sensitivity.
func CostForExposure(exp models.AqiExposure, sen float64) float64 {
	return utils.Round2(exp.Distance * Coefficient(exp.Aqi) * sen)
}

// TotalCostForExposures returns the summed AQI cost of a list of exposures
// at the given sensitivity.
func TotalCostForExposures(exps []models.AqiExposure, sen float64) float64 {
	var total float64
	for _, exp := range exps {
		total += CostForExposure(exp, sen)
	}
	return total
}

// CostsForExposure fans one exposure out into the full set of AQI cost
// attributes, one "aqc_<sensitivity>" entry per sensitivity, with baseLength
// added to each as the base cost.
func CostsForExposure(exp models.AqiExposure, sens []float64, baseLength float64) map[string]float64 {
	coeff := Coefficient(exp.Aqi)
	costs := make(map[string]float64, len(sens))
	for _, sen := range sens {
		costs["aqc_"+models.SensitivityLabel(sen)] = utils.Round2(baseLength + exp.Distance*coeff*sen)
	}
	return costs
}

// LinkEdgeCostEstimates derives the exposure and AQI costs for a linking
// edge that was split from a parent edge: the parent's AQI is kept but the
// exposure distance becomes the link's own length. Returns
// ErrMissingExposure if the parent has no exposure to derive from.
func LinkEdgeCostEstimates(sens []float64, parentExp *models.AqiExposure, linkLength float64) (models.AqiExposure, map[string]float64, error) {
	if parentExp == nil {
		return models.AqiExposure{}, nil, ErrMissingExposure
	}
	linkExp := models.AqiExposure{Aqi: parentExp.Aqi, Distance: utils.Round2(linkLength)}
	return linkExp, CostsForExposure(linkExp, sens, linkLength), nil
}

// MeanAqi returns the distance-weighted mean AQI of a list of exposures,
// rounded to two decimals.
func MeanAqi(exps []models.AqiExposure) (float64, error) {
	var totalDist, totalAqi float64
	for _, exp := range exps {
		totalDist += exp.Distance
		totalAqi += exp.Aqi * exp.Distance
	}
	if totalDist == 0 {
		return 0, ErrZeroTotalDistance
	}
	return utils.Round2(totalAqi / totalDist), nil
}
