// backend/handlers/aqi_status_handler_test.go
package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gewnthar/greenpaths/backend/config"
	"github.com/gewnthar/greenpaths/backend/graph"
	"github.com/gewnthar/greenpaths/backend/models"
	"github.com/gewnthar/greenpaths/backend/services"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestUpdater(t *testing.T) *services.AqiUpdater {
	t.Helper()
	dataset := graph.NewEdgeDataset([]models.BaseEdge{
		{Uvkey: models.EdgeKey{U: 1, V: 2}, Length: 10},
	})
	cfg := config.AqiDataConfig{CacheDir: t.TempDir(), FailureBackoff: time.Minute}
	return services.NewAqiUpdater(cfg, dataset, []float64{1}, nil)
}

func TestAqiStatusHandler(t *testing.T) {
	handler := AqiStatusHandler(newTestUpdater(t))

	req := httptest.NewRequest(http.MethodGet, "/api/aqi/status", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var status models.AqiStatusResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &status))
	assert.False(t, status.Updated)
	assert.Empty(t, status.LatestData)
	assert.Nil(t, status.UpdatedSinceSecs)
}

func TestAqiStatusHandler_MethodNotAllowed(t *testing.T) {
	handler := AqiStatusHandler(newTestUpdater(t))

	req := httptest.NewRequest(http.MethodPost, "/api/aqi/status", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestAqiAvailabilityHandler_NotFresh(t *testing.T) {
	handler := AqiAvailabilityHandler(newTestUpdater(t))

	req := httptest.NewRequest(http.MethodGet, "/api/aqi/availability", nil)
	rec := httptest.NewRecorder()
	handler(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]interface{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["available"])
	assert.Equal(t, models.ErrKeyNoRealTimeAqiAvailable, body["error_key"])
}
