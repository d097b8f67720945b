package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"meridian/internal/config"
	"meridian/internal/repository/postgres"
	"meridian/internal/seed"
)

func main() {
	fixturePath := flag.String("fixture", "internal/seed/fixtures/demo.yaml", "path to the YAML seed fixture")
	flag.Parse()

	_ = godotenv.Load()
	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo}))

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to create connection pool: %v", err)
	}
	defer pool.Close()

	tables := postgres.NewTableNames(cfg.TablePrefix)
	repoConfig := &postgres.RepositoryConfig{Pool: pool, Tables: tables, Logger: logger}

	users := postgres.NewUserRepository(repoConfig)
	sequences := postgres.NewSequenceRepository(repoConfig)
	blocks := postgres.NewBlockRepository(repoConfig)
	variables := postgres.NewVariableRepository(repoConfig)
	globalLists := postgres.NewGlobalListRepository(repoConfig)

	fixture, err := seed.LoadFixture(*fixturePath)
	if err != nil {
		log.Fatalf("failed to load fixture: %v", err)
	}

	seeder := seed.NewSeeder(users, sequences, blocks, variables, globalLists, logger)
	if err := seeder.Run(ctx, fixture); err != nil {
		log.Fatalf("seeding failed: %v", err)
	}

	logger.Info("seed complete")
}
