// backend/scraper/csv_parser.go
package scraper

import (
	"encoding/csv"
	"fmt"
	"io"
	"log"

	"github.com/gewnthar/greenpaths/backend/models"
	"github.com/jszwec/csvutil"
)

// ParseAqiCsv takes an io.Reader containing one hourly AQI update CSV and
// returns a slice of EdgeAqiUpdate rows.
//
// csvutil maps the header to struct fields via the `csv:"..."` tags; the
// uvkey and aqi_exp columns carry tuple literals which the models types
// decode through encoding.TextUnmarshaler.
func ParseAqiCsv(reader io.Reader) ([]models.EdgeAqiUpdate, error) {
	var updates []models.EdgeAqiUpdate

	decoder, err := csvutil.NewDecoder(csv.NewReader(reader))
	if err != nil {
		return nil, fmt.Errorf("failed to create CSV decoder for AQI updates: %w", err)
	}

	if err := decoder.Decode(&updates); err != nil {
		return nil, fmt.Errorf("failed to decode AQI update CSV data: %w", err)
	}

	log.Printf("Scraper: Parsed %d edge AQI updates from CSV.\n", len(updates))
	return updates, nil
}
