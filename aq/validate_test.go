// backend/aq/validate_test.go
package aq

import (
	"math"
	"testing"

	"github.com/gewnthar/greenpaths/backend/models"
	"github.com/stretchr/testify/assert"
)

func TestValidateExposure(t *testing.T) {
	tests := []struct {
		name string
		exp  *models.AqiExposure
		want int
	}{
		{"valid", &models.AqiExposure{Aqi: 2.5, Distance: 10}, ValidityOK},
		{"missing aqi", &models.AqiExposure{Aqi: 0.0, Distance: 10}, ValidityMissing},
		{"negative aqi", &models.AqiExposure{Aqi: -1.0, Distance: 10}, ValidityOutOfRange},
		{"sub one aqi", &models.AqiExposure{Aqi: 0.5, Distance: 10}, ValidityOutOfRange},
		{"negative distance", &models.AqiExposure{Aqi: 2.0, Distance: -5}, ValidityOutOfRange},
		{"nan distance", &models.AqiExposure{Aqi: 2.0, Distance: math.NaN()}, ValidityBadDistance},
		{"nan aqi", &models.AqiExposure{Aqi: math.NaN(), Distance: 10}, ValidityBadExposure},
		{"no exposure", nil, ValidityBadExposure},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ValidateExposure(tt.exp))
		})
	}
}

func TestValidateExposures_ToleratedBatch(t *testing.T) {
	report := ValidateExposures([]*models.AqiExposure{
		{Aqi: 2.5, Distance: 10},
		{Aqi: 0.0, Distance: 10},
		{Aqi: 1.0, Distance: 0},
	})

	assert.True(t, report.OK())
	assert.Equal(t, 3, report.Total)
	assert.Equal(t, 1, report.MissingCount())
	assert.Equal(t, 0, report.ErrorCount())
	assert.Equal(t, 100.0, report.ValidRatio())
}

func TestValidateExposures_DegradedBatch(t *testing.T) {
	report := ValidateExposures([]*models.AqiExposure{
		{Aqi: 2.5, Distance: 10},
		{Aqi: -3.0, Distance: 10},
		nil,
		{Aqi: 4.0, Distance: 25},
	})

	assert.False(t, report.OK())
	assert.Equal(t, 2, report.ErrorCount())
	assert.Equal(t, 1, report.Counts[ValidityOutOfRange])
	assert.Equal(t, 1, report.Counts[ValidityBadExposure])
	assert.Equal(t, 50.0, report.ValidRatio())
}

func TestValidateExposures_EmptyBatch(t *testing.T) {
	report := ValidateExposures(nil)

	assert.True(t, report.OK())
	assert.Equal(t, 100.0, report.ValidRatio())
}
