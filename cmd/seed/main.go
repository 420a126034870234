package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/maroccart/backend/internal/infrastructure/config"
	"github.com/maroccart/backend/internal/infrastructure/logger"
	"github.com/maroccart/backend/internal/infrastructure/persistence"
	infraseed "github.com/maroccart/backend/internal/infrastructure/seed"
	"github.com/maroccart/backend/seed"
	"go.uber.org/zap"
	gormlogger "gorm.io/gorm/logger"
)

func main() {
	var (
		destroy      bool
		fixturePath  string
		fakeUsers    int
		fakeProducts int
		randomSeed   uint64
		logLevel     string
	)

	flag.BoolVar(&destroy, "d", false, "Destroy products with their orders and reviews instead of importing")
	flag.StringVar(&fixturePath, "fixture", "", "YAML fixture file (default: the catalog built into the binary)")
	flag.IntVar(&fakeUsers, "fake-users", 0, "Number of generated customers to add")
	flag.IntVar(&fakeProducts, "fake-products", 0, "Number of generated products to add")
	flag.Uint64Var(&randomSeed, "random-seed", 0, "Seed for generated data (0 uses the current time)")
	flag.StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	log, err := logger.New(&logger.Config{
		Level:      logLevel,
		Format:     "console",
		Output:     "stdout",
		TimeFormat: "2006-01-02 15:04:05",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		_ = log.Sync()
	}()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration", zap.Error(err))
	}

	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, logger.NewGormLogger(log, gormlogger.Warn))
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	seeder := infraseed.NewSeeder(db.DB, log)

	if destroy {
		if err := seeder.Destroy(ctx); err != nil {
			log.Fatal("Failed to destroy data", zap.Error(err))
		}
		log.Info("Data destroyed")
		return
	}

	var fixture *infraseed.Fixture
	if fixturePath != "" {
		fixture, err = infraseed.LoadFixtureFile(fixturePath)
	} else {
		fixture, err = infraseed.ParseFixture(seed.Catalog)
	}
	if err != nil {
		log.Fatal("Failed to load fixture", zap.Error(err))
	}

	if randomSeed == 0 {
		randomSeed = uint64(time.Now().UnixNano())
	}

	result, err := seeder.Import(ctx, fixture, infraseed.Options{
		FakeUsers:    fakeUsers,
		FakeProducts: fakeProducts,
		RandomSeed:   randomSeed,
	})
	if err != nil {
		log.Fatal("Failed to import data", zap.Error(err))
	}

	log.Info("Data imported",
		zap.Int("users", result.Users),
		zap.Int("products", result.Products),
		zap.Int("skipped", result.Skipped),
	)
}
