// backend/scraper/aqi_index_checker.go
package scraper

import (
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
)

// Regex matching hourly AQI file names, e.g. "aqi_2019-11-11T17.csv".
var aqiFileNameRegex = regexp.MustCompile(`^aqi_\d{4}-\d{2}-\d{2}T\d{2}\.csv$`)

// ListRemoteAqiFiles scrapes the HTML directory index of the AQI data server
// and returns the names of the hourly AQI CSV files it links to. The AQI
// processor publishes its output as a plain directory listing, so the file
// links are the only structure we rely on.
func ListRemoteAqiFiles(indexURL string) ([]string, error) {
	if indexURL == "" {
		return nil, fmt.Errorf("AQI data index URL is not configured")
	}

	client := http.Client{Timeout: 20 * time.Second}
	res, err := client.Get(indexURL)
	if err != nil {
		return nil, fmt.Errorf("failed to get URL %s: %w", indexURL, err)
	}
	defer res.Body.Close()

	if res.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("failed to get URL %s: status code %d", indexURL, res.StatusCode)
	}

	doc, err := goquery.NewDocumentFromReader(res.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML from %s: %w", indexURL, err)
	}

	var files []string
	doc.Find("a").Each(func(i int, link *goquery.Selection) {
		href, ok := link.Attr("href")
		if !ok {
			return
		}
		name := strings.TrimSpace(href)
		if idx := strings.LastIndex(name, "/"); idx >= 0 {
			name = name[idx+1:]
		}
		if aqiFileNameRegex.MatchString(name) {
			files = append(files, name)
		}
	})

	if len(files) == 0 {
		log.Printf("WARN Scraper: No AQI CSV links found on index page %s\n", indexURL)
	}
	return files, nil
}

// RemoteAqiFileAvailable reports whether the expected hourly AQI CSV is
// already linked from the remote index page.
func RemoteAqiFileAvailable(indexURL string, fileName string) (bool, error) {
	files, err := ListRemoteAqiFiles(indexURL)
	if err != nil {
		return false, err
	}
	for _, f := range files {
		if f == fileName {
			return true, nil
		}
	}
	return false, nil
}
