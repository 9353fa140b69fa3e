// backend/database/aqi_history_store.go
package database

import (
	"database/sql"
	"fmt"
	"log"

	"github.com/gewnthar/greenpaths/backend/models"
)

// AqiHistoryStore persists applied AQI updates to the aqi_update_history
// table. The table is an audit trail for operators; the in-memory dataset
// re-applies the current hour after a restart regardless.
type AqiHistoryStore struct{}

// RecordUpdate inserts or refreshes the history row for one applied hourly
// AQI file.
func (AqiHistoryStore) RecordUpdate(rec models.AqiUpdateRecord) error {
	if DB == nil {
		return fmt.Errorf("database connection is not initialized")
	}

	query := `
		INSERT INTO aqi_update_history (
			file_name, applied_at, edge_count, update_count, valid_ratio, created_at
		) VALUES (?, ?, ?, ?, ?, NOW())
		ON DUPLICATE KEY UPDATE
			applied_at = VALUES(applied_at),
			edge_count = VALUES(edge_count),
			update_count = VALUES(update_count),
			valid_ratio = VALUES(valid_ratio)
	`

	_, err := DB.Exec(query,
		rec.FileName, rec.AppliedAt, rec.EdgeCount, rec.UpdateCount, rec.ValidRatio,
	)
	if err != nil {
		log.Printf("ERROR Database: Failed to record AQI update for '%s': %v", rec.FileName, err)
		return fmt.Errorf("failed to record AQI update for %s: %w", rec.FileName, err)
	}

	log.Printf("Database: Recorded AQI update %s (%d/%d edges, %.2f %% valid)\n",
		rec.FileName, rec.UpdateCount, rec.EdgeCount, rec.ValidRatio)
	return nil
}

// LatestUpdate returns the most recently applied AQI update, or nil if the
// history is empty.
func (AqiHistoryStore) LatestUpdate() (*models.AqiUpdateRecord, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}

	var rec models.AqiUpdateRecord
	err := DB.QueryRow(`
		SELECT id, file_name, applied_at, edge_count, update_count, valid_ratio, created_at
		FROM aqi_update_history
		ORDER BY applied_at DESC
		LIMIT 1
	`).Scan(&rec.ID, &rec.FileName, &rec.AppliedAt, &rec.EdgeCount, &rec.UpdateCount, &rec.ValidRatio, &rec.CreatedAt)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query aqi_update_history: %w", err)
	}
	return &rec, nil
}

// GetUpdateHistory retrieves the applied AQI updates, newest first.
func (AqiHistoryStore) GetUpdateHistory(limit int) ([]models.AqiUpdateRecord, error) {
	if DB == nil {
		return nil, fmt.Errorf("database connection is not initialized")
	}

	rows, err := DB.Query(`
		SELECT id, file_name, applied_at, edge_count, update_count, valid_ratio, created_at
		FROM aqi_update_history
		ORDER BY applied_at DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query aqi_update_history: %w", err)
	}
	defer rows.Close()

	var records []models.AqiUpdateRecord
	for rows.Next() {
		var rec models.AqiUpdateRecord
		err := rows.Scan(&rec.ID, &rec.FileName, &rec.AppliedAt, &rec.EdgeCount, &rec.UpdateCount, &rec.ValidRatio, &rec.CreatedAt)
		if err != nil {
			log.Printf("ERROR Database: Failed to scan aqi_update_history row: %v", err)
			continue
		}
		records = append(records, rec)
	}
	if err = rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating aqi_update_history rows: %w", err)
	}
	return records, nil
}
