package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"ryokan-explorer/config"
	"ryokan-explorer/geocode"
	"ryokan-explorer/models"
	"ryokan-explorer/scraper/ryokan"
	"ryokan-explorer/services"
	"ryokan-explorer/storage"
	"ryokan-explorer/utils"
)

func main() {
	logger := utils.NewLogger()
	cfg := config.Load()

	logger.Info("=== Ryokan Explorer batch run starting ===")
	logger.Info("Config: pages %d | output: %s | resume: %v",
		cfg.TotalPages, cfg.OutputPath, cfg.Resume)

	if err := run(context.Background(), cfg, logger); err != nil {
		logger.Error("Batch run failed: %v", err)
		os.Exit(1)
	}
}

// run executes the batch stages in strict sequence:
// fetching → checkpoint → geocoding → written.
func run(ctx context.Context, cfg *config.Config, logger *utils.Logger) error {
	checkpoint := storage.NewCheckpoint(cfg.CheckpointPath)

	var raws []*models.RawRyokan
	var err error

	if cfg.Resume && checkpoint.Exists() {
		logger.Info("Resuming from checkpoint %s, skipping collection", cfg.CheckpointPath)
		raws, err = checkpoint.Load()
		if err != nil {
			return fmt.Errorf("resume: %w", err)
		}
	} else {
		raws, err = ryokan.New(cfg, logger).Scrape(ctx)
		if err != nil {
			return fmt.Errorf("collect: %w", err)
		}
		if len(raws) == 0 {
			return errors.New("collect: no listings scraped")
		}
		if err := checkpoint.Save(raws); err != nil {
			return fmt.Errorf("checkpoint: %w", err)
		}
		logger.Info("Collected %d listings, checkpoint saved to %s", len(raws), cfg.CheckpointPath)
	}

	geocoder := geocode.NewNominatim(geocode.Options{
		BaseURL:     cfg.GeocoderURL,
		UserAgent:   cfg.GeocoderUserAgent,
		RateLimitMs: cfg.GeocoderRateLimitMs,
		TimeoutSec:  cfg.HTTPTimeoutSec,
	})
	ryokans := services.NewResolver(geocoder, logger).Resolve(ctx, raws)

	if err := storage.NewCSVStore(cfg.OutputPath).Write(ryokans); err != nil {
		return fmt.Errorf("persist: %w", err)
	}
	logger.Info("Table written to %s (%d rows)", cfg.OutputPath, len(ryokans))

	if cfg.PostgresEnabled {
		pg, err := storage.NewPostgresStore(cfg.DSN())
		if err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		defer pg.Close()
		if err := pg.Write(ryokans); err != nil {
			return fmt.Errorf("postgres: %w", err)
		}
		logger.Info("Mirrored %d rows to PostgreSQL (table: ryokans)", len(ryokans))
	}

	if err := checkpoint.Remove(); err != nil {
		logger.Warn("Could not remove checkpoint: %v", err)
	}

	insights := services.NewInsightService(logger)
	insights.Print(insights.Generate(ryokans))

	return nil
}
