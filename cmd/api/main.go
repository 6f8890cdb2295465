package main

import (
	"context"
	"log"
	"net/http"

	"github.com/joho/godotenv"

	s3store "github.com/juun0-h/korean-english-oral-test-data-analysis/adapters/s3"
	"github.com/juun0-h/korean-english-oral-test-data-analysis/app"
	"github.com/juun0-h/korean-english-oral-test-data-analysis/internal/api"
	"github.com/juun0-h/korean-english-oral-test-data-analysis/internal/config"
	"github.com/juun0-h/korean-english-oral-test-data-analysis/internal/dataset"
)

func main() {
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

	builder := dataset.New(store, cfg.Storage)
	service := app.NewAnalysisService(builder)
	server := api.NewServer(service)

	addr := ":" + cfg.Server.Port
	log.Printf("analysis API listening on %s (bucket=%s prefix=%s)", addr, cfg.Storage.Bucket, cfg.Storage.RawPrefix)
	if err := http.ListenAndServe(addr, server.Router()); err != nil {
		log.Fatal("Server failed:", err)
	}
}
