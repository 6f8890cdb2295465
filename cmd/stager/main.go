package main

import (
	"context"
	"flag"
	"log"
	"time"

	"github.com/joho/godotenv"

	s3store "github.com/juun0-h/korean-english-oral-test-data-analysis/adapters/s3"
	"github.com/juun0-h/korean-english-oral-test-data-analysis/internal/config"
	"github.com/juun0-h/korean-english-oral-test-data-analysis/internal/stager"
)

func main() {
	date := flag.String("date", time.Now().Format("20060102"), "execution date (YYYYMMDD)")
	flag.Parse()

	// Load environment variables from .env file
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment variables")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()
	store, err := s3store.New(ctx, cfg.Storage.Region, cfg.Storage.Bucket)
	if err != nil {
		log.Fatalf("Failed to initialize object storage: %v", err)
	}

	run := stager.New(store, cfg.Ingestion.DatasetPath, cfg.Storage.RawPrefix)
	result, err := run.Run(ctx, *date)
	if err != nil {
		log.Fatalf("Staging run failed: %v", err)
	}

	if result.Uploaded == 0 {
		log.Println("no new files uploaded, skipping notifications")
		return
	}

	notifier := stager.NewNotifier(cfg.Ingestion.APIBaseURL, cfg.Ingestion.NotifyTimeout)
	notifier.AnnounceNewData(ctx, result.Uploaded)
	notifier.RequestReload(ctx, *date, result.Uploaded)
}
