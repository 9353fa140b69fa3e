// backend/models/api_models.go
package models

// AqiStatusResponse is the JSON body of the /api/aqi/status endpoint.
// Clients use b_updated to decide whether real-time AQ routing can be
// offered at the moment.
type AqiStatusResponse struct {
	Updated          bool   `json:"b_updated"`
	LatestData       string `json:"latest_data"`
	UpdateTimeUTC    string `json:"update_time_utc,omitempty"`
	UpdatedSinceSecs *int   `json:"updated_since_secs"`
}
