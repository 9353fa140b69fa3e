// backend/scraper/csv_downloader.go
package scraper

import (
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"os"
	"path/filepath"
	"time"
)

// DownloadFile is a utility function to download a file from a URL and save
// it to a local path. It returns an error if any step fails.
func DownloadFile(fileURL string, localSavePath string) error {
	log.Printf("Scraper: Downloading %s to %s\n", fileURL, localSavePath)

	client := http.Client{
		Timeout: 30 * time.Second, // Sensible timeout for a file download
	}

	resp, err := client.Get(fileURL)
	if err != nil {
		return fmt.Errorf("failed to make GET request to %s: %w", fileURL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("failed to download file from %s: received status code %d", fileURL, resp.StatusCode)
	}

	dir := filepath.Dir(localSavePath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	outFile, err := os.Create(localSavePath)
	if err != nil {
		return fmt.Errorf("failed to create local file %s: %w", localSavePath, err)
	}
	defer outFile.Close()

	if _, err := io.Copy(outFile, resp.Body); err != nil {
		return fmt.Errorf("failed to copy downloaded content to %s: %w", localSavePath, err)
	}

	log.Printf("Scraper: Successfully downloaded %s to %s\n", fileURL, localSavePath)
	return nil
}

// DownloadAqiCsv downloads one hourly AQI CSV from the configured data
// directory URL into the local AQI cache and returns its local path.
func DownloadAqiCsv(indexURL string, aqiDir string, fileName string) (string, error) {
	if indexURL == "" {
		return "", fmt.Errorf("AQI data index URL is not configured")
	}
	if aqiDir == "" {
		return "", fmt.Errorf("local AQI cache directory is not configured")
	}

	fileURL, err := url.JoinPath(indexURL, fileName)
	if err != nil {
		return "", fmt.Errorf("failed to build URL for %s: %w", fileName, err)
	}

	localPath := filepath.Join(aqiDir, fileName)
	if err := DownloadFile(fileURL, localPath); err != nil {
		return "", fmt.Errorf("failed to download AQI CSV %s: %w", fileName, err)
	}
	return localPath, nil
}
