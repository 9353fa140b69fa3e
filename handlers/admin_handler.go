// backend/handlers/admin_handler.go
package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gewnthar/greenpaths/backend/database"
	"github.com/gewnthar/greenpaths/backend/services"
)

// ForceRefreshAqiHandler handles requests to immediately re-apply the
// expected hourly AQI file, bypassing the already-applied check.
// Expects POST requests to /api/admin/refresh-aqi
func ForceRefreshAqiHandler(updater *services.AqiUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondWithError(w, http.StatusMethodNotAllowed, "Only POST method is allowed")
			return
		}

		if err := updater.ForceUpdate(); err != nil {
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to force AQI refresh: %v", err))
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]string{"message": "AQI refresh completed successfully."})
	}
}

// AqiHistoryHandler returns the recently applied AQI updates from the
// history table. Expects GET requests to /api/admin/aqi-history?limit=N
func AqiHistoryHandler(store database.AqiHistoryStore) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
			return
		}

		limit := 24
		if raw := r.URL.Query().Get("limit"); raw != "" {
			parsed, err := strconv.Atoi(raw)
			if err != nil || parsed < 1 {
				respondWithError(w, http.StatusBadRequest, fmt.Sprintf("Invalid limit '%s'", raw))
				return
			}
			limit = parsed
		}

		records, err := store.GetUpdateHistory(limit)
		if err != nil {
			respondWithError(w, http.StatusInternalServerError, fmt.Sprintf("Failed to load AQI update history: %v", err))
			return
		}
		respondWithJSON(w, http.StatusOK, records)
	}
}
