// Package main is the entry point for the product catalog API server.
// It initializes all dependencies and starts the HTTP server.
package main

import (
	"context"
	"log"
	"os"

	"prodcatalog/src/app/server"
	"prodcatalog/src/infra/config"
	"prodcatalog/src/infra/db"
	"prodcatalog/src/infra/logger"
	"prodcatalog/src/infra/repo"
)

func main() {
	if err := run(); err != nil {
		log.Printf("fatal error: %v\n", err)
		os.Exit(1)
	}
}

func run() error {
	// Load configuration from environment variables
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	// Initialize logger
	log := logger.New(cfg.Log)
	log.Info("starting application",
		"port", cfg.Server.Port,
		"log_level", cfg.Log.Level,
	)

	ctx := context.Background()

	// Apply schema migrations before opening the pool
	if cfg.Database.Migrate {
		if err := db.Migrate(ctx, cfg.Database, log); err != nil {
			return err
		}
	}

	// Initialize database connection
	pg, err := db.New(ctx, cfg.Database, log)
	if err != nil {
		return err
	}
	defer pg.Close()

	// One unit of work per request; the factory shares the pool
	uowFactory := repo.NewPostgresUnitOfWorkFactory(pg, log)

	// Create and run HTTP server
	srv := server.New(cfg, log, uowFactory, pg)

	// Run blocks until shutdown signal is received
	return srv.Run()
}
