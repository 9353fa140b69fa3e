// backend/main.go
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"

	"github.com/gewnthar/greenpaths/backend/config"
	"github.com/gewnthar/greenpaths/backend/database"
	"github.com/gewnthar/greenpaths/backend/graph"
	"github.com/gewnthar/greenpaths/backend/handlers"
	"github.com/gewnthar/greenpaths/backend/services"
	"github.com/joho/godotenv"
)

func main() {
	log.Println("Starting Green Paths AQI Backend Application...")

	// .env is optional; it carries local overrides like GRAPH_SUBSET.
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using process environment only")
	}

	configPath := "backend/config/config.yaml"
	if _, err := os.Stat(configPath); os.IsNotExist(err) {
		configPath = "config/config.yaml"
		if _, errFallback := os.Stat(configPath); os.IsNotExist(errFallback) {
			log.Fatalf("Config file not found at default paths. Error: %v", errFallback)
		}
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		log.Fatalf("Error loading configuration: %v", err)
	}
	log.Printf("Configuration loaded. Server port: %s, AQI cache: %s, graph subset: %v",
		cfg.Server.Port, cfg.AqiData.CacheDir, cfg.Routing.GraphSubset)

	err = database.InitDB(cfg.Database)
	if err != nil {
		log.Fatalf("Error initializing database: %v", err)
	}
	defer database.CloseDB()

	dataset, err := graph.LoadEdgeDataset(cfg.Routing.EdgeFilePath())
	if err != nil {
		log.Fatalf("Error loading edge dataset: %v", err)
	}

	historyStore := database.AqiHistoryStore{}
	if last, err := historyStore.LatestUpdate(); err != nil {
		log.Printf("WARN: Could not read AQI update history: %v", err)
	} else if last != nil {
		// The dataset is in-memory, so the current hour is re-applied after a
		// restart regardless; the history row is for operators.
		log.Printf("Last AQI update before restart: %s at %s", last.FileName, last.AppliedAt.Format("2006-01-02 15:04:05"))
	}

	sens := cfg.Routing.Sensitivities()
	log.Printf("Active AQ sensitivities: %v", sens)

	updater := services.NewAqiUpdater(cfg.AqiData, dataset, sens, historyStore)
	if cfg.Routing.CleanPathsEnabled {
		updater.Start()
		defer updater.Stop()
	} else {
		log.Println("Clean paths disabled; AQI updater not started")
	}

	// --- Setup HTTP routes ---
	http.HandleFunc("/api/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		if err := database.DB.Ping(); err != nil {
			http.Error(w, `{"status": "error", "message": "database connection error"}`, http.StatusInternalServerError)
			log.Printf("Health check failed: DB ping error: %v", err)
			return
		}
		fmt.Fprintln(w, `{"status": "ok", "message": "green paths backend is healthy"}`)
	})

	http.HandleFunc("/api/aqi/status", handlers.AqiStatusHandler(updater))
	http.HandleFunc("/api/aqi/availability", handlers.AqiAvailabilityHandler(updater))

	// Admin routes for managing AQI data
	http.HandleFunc("/api/admin/refresh-aqi", handlers.ForceRefreshAqiHandler(updater))
	http.HandleFunc("/api/admin/aqi-history", handlers.AqiHistoryHandler(historyStore))

	serverAddr := ":" + cfg.Server.Port
	log.Printf("Server starting on http://localhost%s\n", serverAddr)
	err = http.ListenAndServe(serverAddr, nil)
	if err != nil {
		log.Fatalf("Error starting server: %v", err)
	}
}
