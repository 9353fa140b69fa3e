// backend/graph/edge_dataset.go
package graph

import (
	"sync/atomic"

	"github.com/gewnthar/greenpaths/backend/aq"
	"github.com/gewnthar/greenpaths/backend/models"
)

// Snapshot is one immutable generation of the edge dataset. A snapshot is
// never modified after publication; updates build a new snapshot from the
// old one and swap it in, so path-finding readers mid-query keep a fully
// consistent view.
type Snapshot struct {
	Edges map[models.EdgeKey]*models.EdgeRecord
}

// EdgeDataset is the shared edge table read concurrently by the path-finder
// and refreshed by the AQI updater via whole-snapshot replacement.
type EdgeDataset struct {
	current atomic.Pointer[Snapshot]
}

// NewEdgeDataset builds a dataset from the base edge list. Exposures and
// AQ costs start empty until the first AQI update is merged.
func NewEdgeDataset(edges []models.BaseEdge) *EdgeDataset {
	snapshot := &Snapshot{Edges: make(map[models.EdgeKey]*models.EdgeRecord, len(edges))}
	for _, edge := range edges {
		snapshot.Edges[edge.Uvkey] = &models.EdgeRecord{Uvkey: edge.Uvkey, Length: edge.Length}
	}
	dataset := &EdgeDataset{}
	dataset.current.Store(snapshot)
	return dataset
}

// Snapshot returns the most recently published snapshot. Lock-free; safe to
// call from any goroutine.
func (d *EdgeDataset) Snapshot() *Snapshot {
	return d.current.Load()
}

// Publish atomically replaces the current snapshot.
func (d *EdgeDataset) Publish(s *Snapshot) {
	d.current.Store(s)
}

// Len returns the number of edges in the snapshot.
func (s *Snapshot) Len() int {
	return len(s.Edges)
}

// Exposures returns the exposure of every edge in the snapshot, nil entries
// included, for validation.
func (s *Snapshot) Exposures() []*models.AqiExposure {
	exps := make([]*models.AqiExposure, 0, len(s.Edges))
	for _, rec := range s.Edges {
		exps = append(exps, rec.AqiExp)
	}
	return exps
}

// MergeAqiUpdates left-joins an AQI update batch onto the snapshot's full
// edge key space and returns the result as a new snapshot. Every edge of the
// current snapshot is carried over with a fresh record; edges missing from
// the batch get a nil exposure rather than being dropped. Update keys that
// match no edge are ignored. The receiver is left untouched.
func (s *Snapshot) MergeAqiUpdates(updates []models.EdgeAqiUpdate) *Snapshot {
	byKey := make(map[models.EdgeKey]models.AqiExposure, len(updates))
	for _, update := range updates {
		byKey[update.Uvkey] = update.AqiExp
	}

	merged := &Snapshot{Edges: make(map[models.EdgeKey]*models.EdgeRecord, len(s.Edges))}
	for key, rec := range s.Edges {
		newRec := &models.EdgeRecord{Uvkey: rec.Uvkey, Length: rec.Length}
		if exp, ok := byKey[key]; ok {
			newRec.AqiExp = &exp
		}
		merged.Edges[key] = newRec
	}
	return merged
}

// RecomputeAqCosts materializes the full "aqc_<sensitivity>" column set for
// every edge from its current exposure. Edges without an exposure get no AQ
// cost columns. Must only be called on a snapshot that has not yet been
// published.
func (s *Snapshot) RecomputeAqCosts(sens []float64) {
	for _, rec := range s.Edges {
		if rec.AqiExp == nil {
			rec.AqCosts = nil
			continue
		}
		rec.AqCosts = aq.CostsForExposure(*rec.AqiExp, sens, rec.Length)
	}
}
