// backend/models/aqi.go
package models

import (
	"fmt"
	"strconv"
	"strings"
)

// AqiExposure pairs an air quality index with the distance (in meters) over
// which a traveller experiences it on a single edge. An Aqi of 0.0 means the
// value is missing for that edge; the edge is kept but gets no AQ costs.
type AqiExposure struct {
	Aqi      float64
	Distance float64
}

// MarshalText encodes the exposure in the tuple literal used by the AQI
// pipeline CSVs, e.g. "(2.5, 87.4)".
func (e AqiExposure) MarshalText() ([]byte, error) {
	return []byte("(" + formatFloat(e.Aqi) + ", " + formatFloat(e.Distance) + ")"), nil
}

// UnmarshalText parses the tuple literal encoding of an exposure.
func (e *AqiExposure) UnmarshalText(text []byte) error {
	parts, err := splitTuple(string(text), 2)
	if err != nil {
		return fmt.Errorf("invalid aqi_exp %q: %w", string(text), err)
	}
	aqi, err := strconv.ParseFloat(parts[0], 64)
	if err != nil {
		return fmt.Errorf("invalid aqi in aqi_exp %q: %w", string(text), err)
	}
	dist, err := strconv.ParseFloat(parts[1], 64)
	if err != nil {
		return fmt.Errorf("invalid distance in aqi_exp %q: %w", string(text), err)
	}
	e.Aqi = aqi
	e.Distance = dist
	return nil
}

// EdgeKey is the stable composite identifier of a directed graph edge
// (the node pair it connects). It is the join key between the edge dataset
// and incoming AQI updates.
type EdgeKey struct {
	U int64
	V int64
}

// MarshalText encodes the key in the tuple literal used by the AQI pipeline
// CSVs, e.g. "(25216594, 319894281)".
func (k EdgeKey) MarshalText() ([]byte, error) {
	return []byte("(" + strconv.FormatInt(k.U, 10) + ", " + strconv.FormatInt(k.V, 10) + ")"), nil
}

// UnmarshalText parses the tuple literal encoding of an edge key.
func (k *EdgeKey) UnmarshalText(text []byte) error {
	parts, err := splitTuple(string(text), 2)
	if err != nil {
		return fmt.Errorf("invalid uvkey %q: %w", string(text), err)
	}
	u, err := strconv.ParseInt(parts[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid u in uvkey %q: %w", string(text), err)
	}
	v, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid v in uvkey %q: %w", string(text), err)
	}
	k.U = u
	k.V = v
	return nil
}

func (k EdgeKey) String() string {
	return "(" + strconv.FormatInt(k.U, 10) + ", " + strconv.FormatInt(k.V, 10) + ")"
}

// EdgeAqiUpdate is one row of an hourly aqi_<YYYY-MM-DDTHH>.csv file.
type EdgeAqiUpdate struct {
	Uvkey  EdgeKey     `csv:"uvkey"`
	AqiExp AqiExposure `csv:"aqi_exp"`
}

// BaseEdge is one row of the base edge list CSV produced by the graph
// construction pipeline (uvkey and geometric length only).
type BaseEdge struct {
	Uvkey  EdgeKey `csv:"uvkey"`
	Length float64 `csv:"length"`
}

// EdgeRecord is one edge of the shared dataset read by the path-finder.
// AqiExp is nil until an update has been merged for the edge. AqCosts holds
// the full "aqc_<sensitivity>" column set for the active sensitivities.
// Records are replaced whole on update, never mutated in place.
type EdgeRecord struct {
	Uvkey   EdgeKey
	Length  float64
	AqiExp  *AqiExposure
	AqCosts map[string]float64
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func splitTuple(s string, arity int) ([]string, error) {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "(") || !strings.HasSuffix(s, ")") {
		return nil, fmt.Errorf("expected parenthesized tuple")
	}
	parts := strings.Split(s[1:len(s)-1], ",")
	if len(parts) != arity {
		return nil, fmt.Errorf("expected %d elements, got %d", arity, len(parts))
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}
	return parts, nil
}
