// backend/graph/loader.go
package graph

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/gewnthar/greenpaths/backend/models"
	"github.com/jszwec/csvutil"
)

// ParseBaseEdges takes an io.Reader containing the base edge list CSV
// (uvkey, length) and returns the decoded edges.
func ParseBaseEdges(reader io.Reader) ([]models.BaseEdge, error) {
	var edges []models.BaseEdge

	decoder, err := csvutil.NewDecoder(csv.NewReader(reader))
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV decoder for base edges: %w", err)
	}
	if err := decoder.Decode(&edges); err != nil {
		return nil, fmt.Errorf("failed to decode base edge CSV data: %w", err)
	}
	return edges, nil
}

// LoadEdgeDataset reads the base edge list produced by the graph
// construction pipeline and builds the initial edge dataset from it.
func LoadEdgeDataset(edgeFile string) (*EdgeDataset, error) {
	file, err := os.Open(edgeFile)
	if err != nil {
		return nil, fmt.Errorf("failed to open edge file %s: %w", edgeFile, err)
	}
	defer file.Close()

	edges, err := ParseBaseEdges(file)
	if err != nil {
		return nil, fmt.Errorf("failed to parse edge file %s: %w", edgeFile, err)
	}
	log.Printf("Graph: Loaded %d edges from %s\n", len(edges), edgeFile)
	return NewEdgeDataset(edges), nil
}
