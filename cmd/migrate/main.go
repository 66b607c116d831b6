package main

// Run database migrations for the configured SQL record store:
//   RECORD_STORE=postgres go run ./cmd/migrate
//   RECORD_STORE=sqlite go run ./cmd/migrate

import (
	"context"
	"database/sql"
	"os"

	"go.uber.org/zap"

	"contract-backend/internal/shared/config"
	"contract-backend/internal/shared/storage/db"
	"contract-backend/internal/shared/telemetry"
)

func main() {
	cfg := config.Load()
	telemetry.Init(cfg.LogLevel, cfg.Env)
	defer telemetry.Sync()
	log := telemetry.L()
	ctx := context.Background()

	var (
		sqlDB   *sql.DB
		dialect db.Dialect
		err     error
	)
	switch cfg.RecordStore {
	case config.StorePostgres:
		dialect = db.Postgres
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, db.OptionsFromEnv(db.DefaultServerOptions()))
	case config.StoreSQLite:
		dialect = db.SQLite
		sqlDB, err = db.OpenSQLite(ctx, cfg.SQLitePath)
	default:
		log.Info("migrate.skip", zap.String("record_store", cfg.RecordStore))
		return
	}
	if err != nil {
		log.Error("failed to connect database", zap.Error(err))
		os.Exit(1)
	}
	defer sqlDB.Close()

	if err := db.RunMigrations(ctx, sqlDB, dialect); err != nil {
		log.Error("failed to run migrations", zap.Error(err))
		os.Exit(1)
	}
	log.Info("migrate.done", zap.String("dialect", string(dialect)))
}
