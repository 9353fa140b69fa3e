// backend/aq/class.go
package aq

import (
	"github.com/gewnthar/greenpaths/backend/models"
	"github.com/gewnthar/greenpaths/backend/utils"
)

// ClassExposure is an exposure bucketed to an AQI class.
type ClassExposure struct {
	Class    int
	Distance float64
}

// ClassOf buckets an AQI value to its class, returning the lower limit of
// the class (e.g. 2.45 -> 2). Values below 1 fall into class 1 as well;
// that matches the long-standing classification behaviour, and the
// validator flags sub-1 values separately instead of this function guessing.
func ClassOf(aqi float64) int {
	switch {
	case aqi < 2.0:
		return 1
	case aqi < 3.0:
		return 2
	case aqi < 4.0:
		return 3
	case aqi < 5.0:
		return 4
	default:
		return 5
	}
}

// ClassExposures turns a list of AQI exposures into AQI class exposures,
// e.g. [(1.5, 42.4), (2.7, 52.3)] -> [(1, 42.4), (2, 52.3)].
func ClassExposures(exps []models.AqiExposure) []ClassExposure {
	clExps := make([]ClassExposure, len(exps))
	for i, exp := range exps {
		clExps[i] = ClassExposure{Class: ClassOf(exp.Aqi), Distance: exp.Distance}
	}
	return clExps
}

// AggregateClassExposures returns the total exposure distance per AQI class,
// rounded to two decimals (e.g. { 1: 305, 2: 205, 3: 50.4 }).
func AggregateClassExposures(exps []models.AqiExposure) map[int]float64 {
	totals := make(map[int]float64)
	for _, clExp := range ClassExposures(exps) {
		totals[clExp.Class] += clExp.Distance
	}
	for cl := range totals {
		totals[cl] = utils.Round2(totals[cl])
	}
	return totals
}

// ClassPercentages returns the share of a path's length spent in each AQI
// class as percentages (e.g. { 1: 75.0, 2: 25.0 }).
func ClassPercentages(classTotals map[int]float64, length float64) (map[int]float64, error) {
	if length == 0 {
		return nil, ErrZeroLength
	}
	pcts := make(map[int]float64, len(classTotals))
	for cl, total := range classTotals {
		pcts[cl] = utils.Round2(total * 100 / length)
	}
	return pcts, nil
}
