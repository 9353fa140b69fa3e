// backend/models/constants.go
package models

import (
	"fmt"
	"strconv"
)

// TravelMode is the mode of travel a route is optimized for.
type TravelMode string

// RoutingMode selects which exposure a route is optimized against.
type RoutingMode string

const (
	TravelModeWalk TravelMode = "walk"
	TravelModeBike TravelMode = "bike"

	RoutingModeClean RoutingMode = "clean" // i.e. "fresh air"
	RoutingModeQuiet RoutingMode = "quiet"
	RoutingModeGreen RoutingMode = "green"
)

// costPrefixes maps (travel mode, routing mode) to the cost attribute prefix
// the path-finder reads. The realized column name is <prefix><sensitivity>.
var costPrefixes = map[TravelMode]map[RoutingMode]string{
	TravelModeWalk: {
		RoutingModeClean: "c_aq_",
		RoutingModeQuiet: "c_n_",
		RoutingModeGreen: "c_g_",
	},
	TravelModeBike: {
		RoutingModeClean: "c_aq_b_",
		RoutingModeQuiet: "c_n_b_",
		RoutingModeGreen: "c_g_b_",
	},
}

// CostPrefix returns the cost attribute prefix for a travel/routing mode pair.
func CostPrefix(tm TravelMode, rm RoutingMode) (string, error) {
	prefixes, ok := costPrefixes[tm]
	if !ok {
		return "", fmt.Errorf("unknown travel mode: %s", tm)
	}
	prefix, ok := prefixes[rm]
	if !ok {
		return "", fmt.Errorf("unknown routing mode: %s", rm)
	}
	return prefix, nil
}

// CostColumn returns the realized cost column name for a travel/routing mode
// pair and sensitivity, e.g. ("walk", "clean", 3) -> "c_aq_3".
func CostColumn(tm TravelMode, rm RoutingMode, sen float64) (string, error) {
	prefix, err := CostPrefix(tm, rm)
	if err != nil {
		return "", err
	}
	return prefix + SensitivityLabel(sen), nil
}

// SensitivityLabel formats a sensitivity coefficient the way cost column
// names encode it: no exponent, no trailing zeros (1 -> "1", 0.2 -> "0.2").
func SensitivityLabel(sen float64) string {
	return strconv.FormatFloat(sen, 'f', -1, 64)
}

// Error keys returned to API clients. Translation to transport-level errors
// is owned by the external API layer.
const (
	ErrKeyNoRealTimeAqiAvailable  = "no_real_time_aqi_available"
	ErrKeyAqiRoutingNotAvailable  = "air_quality_routing_not_available"
	ErrKeyInvalidTravelModeParam  = "invalid_travel_mode_in_request_params"
	ErrKeyInvalidRoutingModeParam = "invalid_exposure_mode_in_request_params"
)
