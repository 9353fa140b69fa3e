// backend/models/meta.go
package models

import "time"

// AqiUpdateRecord tracks one applied AQI update in the aqi_update_history
// table. The latest row re-seeds the updater's "latest applied file" state
// across restarts so an already applied hour is not re-applied.
type AqiUpdateRecord struct {
	ID          int64     `db:"id" json:"id"`
	FileName    string    `db:"file_name" json:"file_name"` // e.g. "aqi_2019-11-11T17.csv"
	AppliedAt   time.Time `db:"applied_at" json:"applied_at"`
	EdgeCount   int       `db:"edge_count" json:"edge_count"`
	UpdateCount int       `db:"update_count" json:"update_count"`
	ValidRatio  float64   `db:"valid_ratio" json:"valid_ratio"` // % of rows with tolerated validity
	CreatedAt   time.Time `db:"created_at" json:"created_at"`
}
