// backend/config/config.go
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/gewnthar/greenpaths/backend/aq"
	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Port string `yaml:"port"`
}

type DatabaseConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
}

type AqiDataConfig struct {
	CacheDir          string `yaml:"cache_dir"`        // watched directory for hourly CSVs
	IndexURL          string `yaml:"index_url"`        // remote AQI data directory (optional)
	DownloadEnabled   bool   `yaml:"download_enabled"` // fetch missing hourly files from IndexURL
	FailureBackoffStr string `yaml:"failure_backoff"`  // pause after a failed update cycle
	FailureBackoff    time.Duration
}

type RoutingConfig struct {
	GraphSubset       bool      `yaml:"graph_subset"`
	EdgeFile          string    `yaml:"edge_file"`
	SubsetEdgeFile    string    `yaml:"subset_edge_file"`
	WalkingEnabled    bool      `yaml:"walking_enabled"`
	CyclingEnabled    bool      `yaml:"cycling_enabled"`
	QuietPathsEnabled bool      `yaml:"quiet_paths_enabled"`
	CleanPathsEnabled bool      `yaml:"clean_paths_enabled"`
	GreenPathsEnabled bool      `yaml:"green_paths_enabled"`
	SensitivitySubset bool      `yaml:"sensitivity_subset"`
	AqSensitivities   []float64 `yaml:"aq_sensitivities"` // optional override, must be within the full catalog
}

type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	AqiData  AqiDataConfig  `yaml:"aqi_data"`
	Routing  RoutingConfig  `yaml:"routing"`
}

// LoadConfig reads the YAML configuration and applies environment overrides.
// The returned Config is constructed once at startup and passed into the
// components that need it; nothing reads it as ambient state afterwards.
func LoadConfig(configPath string) (*Config, error) {
	file, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(file, &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	// GRAPH_SUBSET selects the smaller test graph without editing the file.
	if subset := os.Getenv("GRAPH_SUBSET"); subset != "" {
		cfg.Routing.GraphSubset = subset == "True" || subset == "true"
	}

	if cfg.AqiData.FailureBackoffStr != "" {
		cfg.AqiData.FailureBackoff, err = time.ParseDuration(cfg.AqiData.FailureBackoffStr)
		if err != nil {
			return nil, fmt.Errorf("failed to parse failure_backoff: %w", err)
		}
	} else {
		cfg.AqiData.FailureBackoff = time.Minute // Default
	}

	if cfg.AqiData.CacheDir == "" {
		cfg.AqiData.CacheDir = "aqi_cache/"
	}
	if err := os.MkdirAll(cfg.AqiData.CacheDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create AQI cache directory: %w", err)
	}

	if err := validateSensitivities(cfg.Routing.AqSensitivities); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Sensitivities resolves the active sensitivity set: the configured
// override when present, else the catalog (full or subset).
func (r RoutingConfig) Sensitivities() []float64 {
	if len(r.AqSensitivities) > 0 {
		return r.AqSensitivities
	}
	return aq.Sensitivities(r.SensitivitySubset)
}

// EdgeFilePath returns the base edge list to load for the selected graph.
func (r RoutingConfig) EdgeFilePath() string {
	if r.GraphSubset {
		return r.SubsetEdgeFile
	}
	return r.EdgeFile
}

// validateSensitivities rejects override values outside the full catalog:
// cost attribute names are generated from the full set, so an unknown
// sensitivity would produce a column no consumer recognizes.
func validateSensitivities(sens []float64) error {
	catalog := aq.Sensitivities(false)
	for _, sen := range sens {
		found := false
		for _, known := range catalog {
			if sen == known {
				found = true
				break
			}
		}
		if !found {
			return fmt.Errorf("aq_sensitivities value %v is not in the sensitivity catalog", sen)
		}
	}
	return nil
}
