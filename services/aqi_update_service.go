// backend/services/aqi_update_service.go
package services

import (
	"fmt"
	"log"
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/gewnthar/greenpaths/backend/aq"
	"github.com/gewnthar/greenpaths/backend/config"
	"github.com/gewnthar/greenpaths/backend/graph"
	"github.com/gewnthar/greenpaths/backend/models"
	"github.com/gewnthar/greenpaths/backend/scraper"
)

// Real-time AQ routing is offered only while the last applied update is
// younger than this. The AQI processor publishes hourly, so 70 minutes
// covers one missed file before routing falls back to non-AQ modes.
const freshnessWindow = 70 * time.Minute

// UpdateHistoryStore records applied AQI updates. Satisfied by
// database.AqiHistoryStore; the updater tolerates a nil store.
type UpdateHistoryStore interface {
	RecordUpdate(rec models.AqiUpdateRecord) error
}

// AqiUpdater polls the AQI cache for new hourly data and merges it into the
// shared edge dataset: parse, validate, left-join, recompute AQ costs,
// publish a new snapshot. A failed cycle leaves the previous snapshot
// authoritative and backs off before the next check.
type AqiUpdater struct {
	cfg     config.AqiDataConfig
	dataset *graph.EdgeDataset
	sens    []float64
	history UpdateHistoryStore

	checkInterval time.Duration
	now           func() time.Time
	stop          chan struct{}

	// cycleMu makes the whole update cycle single-flight: however many
	// timer ticks or forced refreshes overlap, at most one cycle runs.
	cycleMu sync.Mutex

	// stateMu guards the update cycle state below.
	stateMu       sync.Mutex
	wipFile       string
	latestFile    string
	updatedAt     *time.Time
	statusMessage string
	backoffUntil  time.Time
}

// NewAqiUpdater wires an updater to the shared edge dataset. The check
// interval is jittered per instance so replicas polling the same data
// source do not hit it in lockstep.
func NewAqiUpdater(cfg config.AqiDataConfig, dataset *graph.EdgeDataset, sens []float64, history UpdateHistoryStore) *AqiUpdater {
	return &AqiUpdater{
		cfg:           cfg,
		dataset:       dataset,
		sens:          sens,
		history:       history,
		checkInterval: time.Duration(5+rand.Intn(10)+1) * time.Second,
		now:           time.Now,
		stop:          make(chan struct{}),
	}
}

// Start launches the background check loop.
func (u *AqiUpdater) Start() {
	log.Printf("Service: Starting graph AQI updater with check interval %v\n", u.checkInterval)
	go func() {
		ticker := time.NewTicker(u.checkInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				u.MaybeUpdate()
			case <-u.stop:
				return
			}
		}
	}()
}

// Stop terminates the background check loop. A cycle already in flight runs
// to completion.
func (u *AqiUpdater) Stop() {
	close(u.stop)
}

// ExpectedAqiFileName returns the name of the hourly AQI CSV expected for
// the given time, e.g. "aqi_2019-11-11T17.csv".
func ExpectedAqiFileName(t time.Time) string {
	return "aqi_" + t.UTC().Format("2006-01-02T15") + ".csv"
}

// MaybeUpdate runs one CHECKING pass: if new AQI data is available and no
// cycle is in flight, it applies the update. Safe to call concurrently.
func (u *AqiUpdater) MaybeUpdate() {
	u.stateMu.Lock()
	inBackoff := u.now().Before(u.backoffUntil)
	u.stateMu.Unlock()
	if inBackoff {
		return
	}

	candidate := u.newAqiDataAvailable()
	if candidate == "" {
		return
	}

	if !u.cycleMu.TryLock() {
		// Another cycle holds the lock; this tick simply yields.
		return
	}
	defer u.cycleMu.Unlock()

	if err := u.runUpdate(candidate); err != nil {
		u.failCycle(candidate, err)
	}
}

// ForceUpdate applies the expected hourly file immediately, even if it was
// already applied, still under the single-flight guard. Used by the admin
// refresh endpoint.
func (u *AqiUpdater) ForceUpdate() error {
	candidate := ExpectedAqiFileName(u.now())
	if _, err := os.Stat(filepath.Join(u.cfg.CacheDir, candidate)); err != nil {
		if !u.fetchRemote(candidate) {
			return fmt.Errorf("expected AQI data is not available (%s)", candidate)
		}
	}

	u.cycleMu.Lock()
	defer u.cycleMu.Unlock()
	if err := u.runUpdate(candidate); err != nil {
		u.failCycle(candidate, err)
		return err
	}
	return nil
}

// newAqiDataAvailable returns the name of a new hourly AQI CSV if it is not
// yet applied nor being applied and it exists in the AQI cache, else "".
// The human-readable status is only logged when it changes between checks;
// an hourly cadence polled every few seconds would flood the log otherwise.
func (u *AqiUpdater) newAqiDataAvailable() string {
	var available string
	var status string

	expected := ExpectedAqiFileName(u.now())
	u.stateMu.Lock()
	latest, wip := u.latestFile, u.wipFile
	u.stateMu.Unlock()

	switch {
	case expected == latest:
		status = "latest AQI was updated to graph"
	case expected == wip:
		status = "AQI update already in progress"
	case u.inCacheDir(expected) || u.fetchRemote(expected):
		status = "AQI update will be done from: " + expected
		available = expected
	default:
		status = "expected AQI data is not available (" + expected + ")"
	}

	u.stateMu.Lock()
	changed := status != u.statusMessage
	u.statusMessage = status
	u.stateMu.Unlock()
	if changed {
		if strings.Contains(status, "not available") {
			log.Printf("WARN Service: %s\n", status)
		} else {
			log.Printf("Service: %s\n", status)
		}
	}
	return available
}

func (u *AqiUpdater) inCacheDir(fileName string) bool {
	_, err := os.Stat(filepath.Join(u.cfg.CacheDir, fileName))
	return err == nil
}

// fetchRemote downloads the expected file from the remote AQI data index if
// downloading is enabled and the file is already linked there.
func (u *AqiUpdater) fetchRemote(fileName string) bool {
	if !u.cfg.DownloadEnabled || u.cfg.IndexURL == "" {
		return false
	}
	available, err := scraper.RemoteAqiFileAvailable(u.cfg.IndexURL, fileName)
	if err != nil {
		log.Printf("WARN Service: Failed to check remote AQI index: %v\n", err)
		return false
	}
	if !available {
		return false
	}
	if _, err := scraper.DownloadAqiCsv(u.cfg.IndexURL, u.cfg.CacheDir, fileName); err != nil {
		log.Printf("ERROR Service: %v\n", err)
		return false
	}
	return true
}

// runUpdate executes one UPDATING cycle for the given file. Any error aborts
// the cycle before publication, so readers keep the previous snapshot.
func (u *AqiUpdater) runUpdate(aqiFile string) error {
	u.stateMu.Lock()
	u.wipFile = aqiFile
	u.stateMu.Unlock()

	file, err := os.Open(filepath.Join(u.cfg.CacheDir, aqiFile))
	if err != nil {
		return fmt.Errorf("failed to open AQI update file: %w", err)
	}
	updates, err := scraper.ParseAqiCsv(file)
	file.Close()
	if err != nil {
		return fmt.Errorf("failed to parse %s: %w", aqiFile, err)
	}

	current := u.dataset.Snapshot()

	// Ensure that all edges will get an AQI value. A mismatch is worth a
	// warning but a partial update beats no update.
	updateKeys := distinctKeyCount(updates)
	if current.Len() != updateKeys {
		log.Printf("WARN Service: Non matching edge key vs update key counts: %d %d\n", current.Len(), updateKeys)
	}

	batchReport := aq.ValidateExposures(batchExposures(updates))
	if !batchReport.OK() {
		log.Printf("WARN Service: Invalid aqi_exp data in %s: %v\n", aqiFile, batchReport)
	}

	merged := current.MergeAqiUpdates(updates)

	mergedReport := aq.ValidateExposures(merged.Exposures())
	if !mergedReport.OK() {
		log.Printf("WARN Service: Failed to update all AQI exposures to edge dataset: %v\n", mergedReport)
	} else {
		log.Printf("Service: Missing AQI count: %d\n", mergedReport.MissingCount())
	}

	merged.RecomputeAqCosts(u.sens)
	u.dataset.Publish(merged)

	updatedAt := u.now().UTC()
	u.stateMu.Lock()
	u.latestFile = aqiFile
	u.updatedAt = &updatedAt
	u.wipFile = ""
	u.stateMu.Unlock()
	log.Println("Service: AQI update succeeded")

	if u.history != nil {
		err := u.history.RecordUpdate(models.AqiUpdateRecord{
			FileName:    aqiFile,
			AppliedAt:   updatedAt,
			EdgeCount:   merged.Len(),
			UpdateCount: updateKeys,
			ValidRatio:  mergedReport.ValidRatio(),
		})
		if err != nil {
			// History is an audit trail; losing a row must not fail the cycle.
			log.Printf("ERROR Service: Failed to record AQI update history: %v\n", err)
		}
	}
	return nil
}

// failCycle logs a failed update and schedules a backoff window. The work-
// in-progress marker is cleared so the same hour can be retried; leaving it
// set would block every retry until the next hourly file.
func (u *AqiUpdater) failCycle(aqiFile string, err error) {
	status := "could not complete AQI update from: " + aqiFile
	log.Printf("ERROR Service: %s: %v\n", status, err)

	u.stateMu.Lock()
	u.statusMessage = status
	u.wipFile = ""
	u.backoffUntil = u.now().Add(u.cfg.FailureBackoff)
	u.stateMu.Unlock()
}

// IsFresh reports whether the latest applied AQI update is recent enough
// for real-time AQ routing to be offered.
func (u *AqiUpdater) IsFresh(t time.Time) bool {
	u.stateMu.Lock()
	defer u.stateMu.Unlock()
	if u.updatedAt == nil {
		return false
	}
	return t.UTC().Sub(*u.updatedAt) < freshnessWindow
}

// UpdatedSinceSecs returns the whole seconds since the last applied update,
// or nil before any update has completed.
func (u *AqiUpdater) UpdatedSinceSecs() *int {
	u.stateMu.Lock()
	defer u.stateMu.Unlock()
	if u.updatedAt == nil {
		return nil
	}
	secs := int(u.now().UTC().Sub(*u.updatedAt).Round(time.Second) / time.Second)
	return &secs
}

// StatusResponse returns the AQI update status surface served to clients
// that need to decide whether AQ routing modes can be offered.
func (u *AqiUpdater) StatusResponse() models.AqiStatusResponse {
	resp := models.AqiStatusResponse{
		Updated:          u.IsFresh(u.now()),
		UpdatedSinceSecs: u.UpdatedSinceSecs(),
	}
	u.stateMu.Lock()
	resp.LatestData = u.latestFile
	if u.updatedAt != nil {
		resp.UpdateTimeUTC = u.updatedAt.Format("06/01/02 15:04:05")
	}
	u.stateMu.Unlock()
	return resp
}

func distinctKeyCount(updates []models.EdgeAqiUpdate) int {
	keys := make(map[models.EdgeKey]struct{}, len(updates))
	for _, update := range updates {
		keys[update.Uvkey] = struct{}{}
	}
	return len(keys)
}

func batchExposures(updates []models.EdgeAqiUpdate) []*models.AqiExposure {
	exps := make([]*models.AqiExposure, len(updates))
	for i := range updates {
		exps[i] = &updates[i].AqiExp
	}
	return exps
}
