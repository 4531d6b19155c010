package main

import (
	"fmt"
	"net/http"
	"os"

	"ryokan-explorer/config"
	"ryokan-explorer/rates"
	"ryokan-explorer/storage"
	"ryokan-explorer/utils"
	"ryokan-explorer/viewer"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	if err := run(cfg, logger); err != nil {
		logger.Error("Viewer failed: %v", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *utils.Logger) error {
	ryokans, err := storage.ReadCSV(cfg.OutputPath)
	if err != nil {
		return fmt.Errorf("load %s (run the scraper first): %w", cfg.OutputPath, err)
	}
	logger.Info("Loaded %d ryokans from %s", len(ryokans), cfg.OutputPath)

	ratesClient := rates.NewClient(cfg.RatesURL, logger)
	srv := viewer.NewServer(ryokans, ratesClient, logger)

	logger.Info("Viewer listening on %s", cfg.ViewerAddr)
	return http.ListenAndServe(cfg.ViewerAddr, srv.Router())
}
