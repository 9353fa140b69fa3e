// backend/handlers/aqi_status_handler.go
package handlers

import (
	"encoding/json"
	"log"
	"net/http"

	"github.com/gewnthar/greenpaths/backend/models"
	"github.com/gewnthar/greenpaths/backend/services"
)

// Helper to respond with JSON
func respondWithJSON(w http.ResponseWriter, code int, payload interface{}) {
	response, err := json.Marshal(payload)
	if err != nil {
		log.Printf("Error marshalling JSON response: %v", err)
		http.Error(w, `{"error":"Failed to marshal JSON response"}`, http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	w.Write(response)
}

// Helper to respond with an error
func respondWithError(w http.ResponseWriter, code int, message string) {
	log.Printf("API Error %d: %s", code, message)
	respondWithJSON(w, code, map[string]string{"error": message})
}

// AqiStatusHandler serves the AQI update status. The routing API layer
// calls this to decide whether real-time AQ routing can be offered; when
// b_updated is false it answers clean path requests with the
// no_real_time_aqi_available error key.
func AqiStatusHandler(updater *services.AqiUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
			return
		}
		respondWithJSON(w, http.StatusOK, updater.StatusResponse())
	}
}

// AqiAvailabilityHandler answers whether AQ routing may be requested right
// now, carrying the error key the API layer translates for clients.
func AqiAvailabilityHandler(updater *services.AqiUpdater) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			respondWithError(w, http.StatusMethodNotAllowed, "Only GET method is allowed")
			return
		}
		status := updater.StatusResponse()
		if !status.Updated {
			respondWithJSON(w, http.StatusOK, map[string]interface{}{
				"available": false,
				"error_key": models.ErrKeyNoRealTimeAqiAvailable,
			})
			return
		}
		respondWithJSON(w, http.StatusOK, map[string]interface{}{"available": true})
	}
}
