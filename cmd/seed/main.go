package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"syscall"

	"StorefrontAPI/internal/auth/credentials"
	"StorefrontAPI/internal/config"
	"StorefrontAPI/internal/db"
	"StorefrontAPI/internal/logger"
	"StorefrontAPI/internal/repository"
	"StorefrontAPI/internal/seed"

	"go.uber.org/zap"
)

func main() {
	file := flag.String("file", "", "fixtures YAML file (defaults to the bundled demo content)")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	zl, err := logger.New(cfg.App.Env)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer func() { _ = zl.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *file, zl); err != nil {
		zl.Fatal("seed failed", zap.Error(err))
	}
}

func run(ctx context.Context, cfg *config.Config, file string, zl *zap.Logger) error {
	fixtures, err := loadFixtures(file)
	if err != nil {
		return err
	}

	pool, err := db.Connect(ctx, cfg.Database)
	if err != nil {
		return err
	}
	defer pool.Close()

	// the seed always needs the schema, whatever DB_AUTO_MIGRATE says
	if err := db.Migrate(ctx, pool); err != nil {
		return err
	}

	return seed.Run(ctx, repository.NewSeedRepository(pool), credentials.NewHasher(cfg.BcryptCost), fixtures, zl)
}

func loadFixtures(file string) (*seed.Fixtures, error) {
	if file == "" {
		return seed.Default()
	}
	return seed.Load(file)
}
