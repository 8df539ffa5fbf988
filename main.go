package main

import (
	"context"
	"log"

	"github.com/jmoiron/sqlx"
	"github.com/joho/godotenv"
	_ "github.com/lib/pq"

	"datalens/adapters/memory"
	"datalens/adapters/postgres"
	"datalens/adapters/webhook"
	"datalens/app"
	"datalens/internal"
	"datalens/internal/config"
	"datalens/internal/errors"
	"datalens/internal/profiling"
	"datalens/ports"
	"datalens/ui"
)

// initDatabase initializes the PostgreSQL database connection
func initDatabase(appConfig *config.Config) (*sqlx.DB, error) {
	db, err := sqlx.Connect("postgres", appConfig.Database.URL)
	if err != nil {
		return nil, errors.Wrap(err, "failed to connect to database")
	}

	if err := postgres.Migrate(context.Background(), db); err != nil {
		return nil, errors.Wrap(err, "database migration failed")
	}

	return db, nil
}

func main() {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	appConfig, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger := internal.NewDefaultLogger()

	var sessions ports.SessionRepository
	var statuses ports.StatusRepository
	if appConfig.Database.URL != "" {
		db, err := initDatabase(appConfig)
		if err != nil {
			log.Fatalf("Failed to initialize database: %v", err)
		}
		defer db.Close()
		sessions = postgres.NewSessionRepository(db)
		statuses = postgres.NewStatusRepository(db)
		logger.Info("Using PostgreSQL session storage")
	} else {
		sessions = memory.NewSessionRepository()
		statuses = memory.NewStatusRepository()
		logger.Warn("DATABASE_URL not set, using in-memory storage")
	}

	fetcher := webhook.NewFetcher(appConfig.Fetch.Timeout)
	inferencer := profiling.NewSchemaInferencer()
	analyzer := profiling.NewColumnAnalyzerWith(
		appConfig.Analytics.MaxBins,
		appConfig.Analytics.TopCategories,
		appConfig.Analytics.TrendPoints,
	)
	service := app.NewAnalyticsService(fetcher, sessions, inferencer, analyzer, appConfig.Analytics.PreviewRows)

	server := ui.NewServer(appConfig, service, statuses, logger)
	if err := server.Start("0.0.0.0:" + appConfig.Server.Port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
