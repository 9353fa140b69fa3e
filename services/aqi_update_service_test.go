// backend/services/aqi_update_service_test.go
package services

import (
	"bytes"
	"log"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/gewnthar/greenpaths/backend/config"
	"github.com/gewnthar/greenpaths/backend/graph"
	"github.com/gewnthar/greenpaths/backend/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testTime = time.Date(2019, 11, 11, 17, 30, 0, 0, time.UTC)

type fakeHistoryStore struct {
	records []models.AqiUpdateRecord
}

func (s *fakeHistoryStore) RecordUpdate(rec models.AqiUpdateRecord) error {
	s.records = append(s.records, rec)
	return nil
}

func newTestUpdater(t *testing.T, history UpdateHistoryStore) (*AqiUpdater, *graph.EdgeDataset, string) {
	t.Helper()
	dir := t.TempDir()
	dataset := graph.NewEdgeDataset([]models.BaseEdge{
		{Uvkey: models.EdgeKey{U: 1, V: 2}, Length: 10},
		{Uvkey: models.EdgeKey{U: 2, V: 3}, Length: 20},
		{Uvkey: models.EdgeKey{U: 5, V: 6}, Length: 30},
	})
	cfg := config.AqiDataConfig{CacheDir: dir, FailureBackoff: time.Minute}
	updater := NewAqiUpdater(cfg, dataset, []float64{1, 2}, history)
	updater.now = func() time.Time { return testTime }
	return updater, dataset, dir
}

func writeAqiCsv(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0644))
}

const goodAqiCsv = "uvkey,aqi_exp\n" +
	"\"(1, 2)\",\"(3.0, 10.0)\"\n" +
	"\"(2, 3)\",\"(2.0, 20.0)\"\n"

func TestExpectedAqiFileName(t *testing.T) {
	assert.Equal(t, "aqi_2019-11-11T17.csv", ExpectedAqiFileName(testTime))

	// Non-UTC times are converted before formatting.
	helsinki := time.FixedZone("EET", 2*60*60)
	assert.Equal(t, "aqi_2019-11-11T17.csv", ExpectedAqiFileName(testTime.In(helsinki)))
}

func TestMaybeUpdate_AppliesNewData(t *testing.T) {
	history := &fakeHistoryStore{}
	updater, dataset, dir := newTestUpdater(t, history)
	writeAqiCsv(t, dir, "aqi_2019-11-11T17.csv", goodAqiCsv)

	updater.MaybeUpdate()

	snapshot := dataset.Snapshot()
	updated := snapshot.Edges[models.EdgeKey{U: 1, V: 2}]
	require.NotNil(t, updated.AqiExp)
	assert.Equal(t, models.AqiExposure{Aqi: 3.0, Distance: 10.0}, *updated.AqiExp)
	assert.Equal(t, map[string]float64{"aqc_1": 15.0, "aqc_2": 20.0}, updated.AqCosts)

	// The edge missing from the batch is kept with no exposure or AQ costs.
	missing := snapshot.Edges[models.EdgeKey{U: 5, V: 6}]
	assert.Nil(t, missing.AqiExp)
	assert.Nil(t, missing.AqCosts)

	assert.True(t, updater.IsFresh(testTime))
	status := updater.StatusResponse()
	assert.True(t, status.Updated)
	assert.Equal(t, "aqi_2019-11-11T17.csv", status.LatestData)
	require.NotNil(t, status.UpdatedSinceSecs)
	assert.Equal(t, 0, *status.UpdatedSinceSecs)

	require.Len(t, history.records, 1)
	assert.Equal(t, "aqi_2019-11-11T17.csv", history.records[0].FileName)
	assert.Equal(t, 3, history.records[0].EdgeCount)
	assert.Equal(t, 2, history.records[0].UpdateCount)
}

func TestMaybeUpdate_SkipsAlreadyAppliedFile(t *testing.T) {
	updater, dataset, dir := newTestUpdater(t, nil)
	writeAqiCsv(t, dir, "aqi_2019-11-11T17.csv", goodAqiCsv)

	updater.MaybeUpdate()
	applied := dataset.Snapshot()

	updater.MaybeUpdate()
	assert.Same(t, applied, dataset.Snapshot())
}

func TestMaybeUpdate_SingleFlight(t *testing.T) {
	updater, dataset, dir := newTestUpdater(t, nil)
	writeAqiCsv(t, dir, "aqi_2019-11-11T17.csv", goodAqiCsv)
	before := dataset.Snapshot()

	// Simulate a cycle in flight: an overlapping tick must perform no merge.
	updater.cycleMu.Lock()
	updater.MaybeUpdate()
	updater.cycleMu.Unlock()

	assert.Same(t, before, dataset.Snapshot())
}

func TestMaybeUpdate_NoDataAvailable(t *testing.T) {
	updater, dataset, _ := newTestUpdater(t, nil)
	before := dataset.Snapshot()

	updater.MaybeUpdate()

	assert.Same(t, before, dataset.Snapshot())
	assert.False(t, updater.IsFresh(testTime))
	status := updater.StatusResponse()
	assert.False(t, status.Updated)
	assert.Empty(t, status.LatestData)
	assert.Nil(t, status.UpdatedSinceSecs)
}

func TestMaybeUpdate_FailedCycleBacksOffThenRetries(t *testing.T) {
	updater, dataset, dir := newTestUpdater(t, nil)
	writeAqiCsv(t, dir, "aqi_2019-11-11T17.csv", "uvkey,aqi_exp\n\"(1, 2)\",not-a-tuple\n")
	before := dataset.Snapshot()

	updater.MaybeUpdate()

	// Failed cycle: no publication, wip cleared so the hour can be retried.
	assert.Same(t, before, dataset.Snapshot())
	updater.stateMu.Lock()
	assert.Empty(t, updater.wipFile)
	assert.True(t, updater.backoffUntil.After(testTime))
	updater.stateMu.Unlock()

	// Still inside the backoff window: even good data is not picked up.
	writeAqiCsv(t, dir, "aqi_2019-11-11T17.csv", goodAqiCsv)
	updater.MaybeUpdate()
	assert.Same(t, before, dataset.Snapshot())

	// After the backoff the same hour is retried and succeeds.
	updater.now = func() time.Time { return testTime.Add(2 * time.Minute) }
	updater.MaybeUpdate()
	assert.NotSame(t, before, dataset.Snapshot())
	assert.True(t, updater.IsFresh(testTime.Add(2*time.Minute)))
}

func TestIsFresh_Window(t *testing.T) {
	updater, _, dir := newTestUpdater(t, nil)
	writeAqiCsv(t, dir, "aqi_2019-11-11T17.csv", goodAqiCsv)

	assert.False(t, updater.IsFresh(testTime))

	updater.MaybeUpdate()

	assert.True(t, updater.IsFresh(testTime))
	assert.True(t, updater.IsFresh(testTime.Add(69*time.Minute)))
	assert.False(t, updater.IsFresh(testTime.Add(70*time.Minute)))
	assert.False(t, updater.IsFresh(testTime.Add(3*time.Hour)))
}

func TestNewAqiDataAvailable_DedupsStatusLogging(t *testing.T) {
	updater, _, _ := newTestUpdater(t, nil)

	var buf bytes.Buffer
	log.SetOutput(&buf)
	defer log.SetOutput(os.Stderr)

	updater.newAqiDataAvailable()
	assert.Contains(t, buf.String(), "not available")

	// Same status on the next tick: nothing new is logged.
	buf.Reset()
	updater.newAqiDataAvailable()
	assert.Empty(t, buf.String())
}

func TestForceUpdate_ReappliesCurrentHour(t *testing.T) {
	updater, dataset, dir := newTestUpdater(t, nil)
	writeAqiCsv(t, dir, "aqi_2019-11-11T17.csv", goodAqiCsv)

	updater.MaybeUpdate()
	applied := dataset.Snapshot()

	require.NoError(t, updater.ForceUpdate())
	assert.NotSame(t, applied, dataset.Snapshot())
}

func TestForceUpdate_NoDataAvailable(t *testing.T) {
	updater, _, _ := newTestUpdater(t, nil)

	assert.Error(t, updater.ForceUpdate())
}
