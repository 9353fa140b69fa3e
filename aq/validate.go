// backend/aq/validate.go
package aq

import (
	"fmt"
	"math"

	"github.com/gewnthar/greenpaths/backend/models"
	"github.com/gewnthar/greenpaths/backend/utils"
)

// Validity codes assigned to exposures. Codes 0 and 1 are tolerated; the
// rest mark a batch as degraded but never abort an update (fail-open).
const (
	ValidityOK          = 0 // well formed, in range
	ValidityMissing     = 1 // aqi == 0.0, value simply missing
	ValidityOutOfRange  = 3 // negative or sub-1 aqi, or negative distance
	ValidityBadDistance = 4 // distance is not a finite number
	ValidityBadExposure = 5 // exposure absent or aqi not a finite number
)

// ValidationReport summarizes the validity of a batch of exposures.
type ValidationReport struct {
	Total  int
	Counts map[int]int
}

// OK reports whether every exposure in the batch was valid or tolerated
// missing.
func (r ValidationReport) OK() bool {
	return r.okCount() == r.Total
}

// MissingCount returns the number of tolerated missing exposures.
func (r ValidationReport) MissingCount() int {
	return r.Counts[ValidityMissing]
}

// ErrorCount returns the number of exposures outside the tolerated set.
func (r ValidationReport) ErrorCount() int {
	return r.Total - r.okCount()
}

// ValidRatio returns the tolerated share of the batch as a percentage,
// rounded to two decimals. A zero-row batch counts as fully valid.
func (r ValidationReport) ValidRatio() float64 {
	if r.Total == 0 {
		return 100
	}
	return utils.Round2(float64(r.okCount()) * 100 / float64(r.Total))
}

func (r ValidationReport) okCount() int {
	return r.Counts[ValidityOK] + r.Counts[ValidityMissing]
}

func (r ValidationReport) String() string {
	return fmt.Sprintf("row count: %d of which has valid aqi exp: %d = %v %%",
		r.Total, r.okCount(), r.ValidRatio())
}

// ValidateExposure classifies a single exposure against the range rules.
// A nil exposure means the edge never received a value (code 5).
func ValidateExposure(exp *models.AqiExposure) int {
	switch {
	case exp == nil:
		return ValidityBadExposure
	case math.IsNaN(exp.Aqi) || math.IsInf(exp.Aqi, 0):
		return ValidityBadExposure
	case math.IsNaN(exp.Distance) || math.IsInf(exp.Distance, 0):
		return ValidityBadDistance
	case exp.Aqi == 0.0:
		return ValidityMissing
	case exp.Aqi < 0:
		return ValidityOutOfRange
	case exp.Aqi < 1:
		return ValidityOutOfRange
	case exp.Distance < 0:
		return ValidityOutOfRange
	default:
		return ValidityOK
	}
}

// ValidateExposures classifies a batch of exposures and returns the
// aggregate report. It never fails; callers decide whether a degraded
// report is worth more than a log line.
func ValidateExposures(exps []*models.AqiExposure) ValidationReport {
	report := ValidationReport{Total: len(exps), Counts: make(map[int]int)}
	for _, exp := range exps {
		report.Counts[ValidateExposure(exp)]++
	}
	return report
}
