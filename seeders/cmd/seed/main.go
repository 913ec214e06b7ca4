package main

import (
	"context"

	"lab-system/pkg/config"
	"lab-system/pkg/database/postgresql"
	"lab-system/pkg/logger"
	"lab-system/seeders"

	"go.uber.org/zap"
)

func main() {
	log := logger.NewLogger()
	defer func() { _ = log.Sync() }()

	cfg := config.New()

	if err := postgresql.Migrate(cfg.Postgres.DSN); err != nil {
		log.Fatal("migrations failed", zap.Error(err))
	}

	dbPool := postgresql.ConnectDB(cfg.Postgres.DSN)
	defer dbPool.Close()

	if err := seeders.Run(context.Background(), dbPool, log); err != nil {
		log.Fatal("seeding failed", zap.Error(err))
	}
}
