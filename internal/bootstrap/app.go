package bootstrap

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"contract-backend/internal/admin"
	authhttp "contract-backend/internal/auth"
	"contract-backend/internal/contracts"
	"contract-backend/internal/extract"
	"contract-backend/internal/records"
	"contract-backend/internal/services/health"
	"contract-backend/internal/sessions"
	"contract-backend/internal/shared/auth"
	"contract-backend/internal/shared/config"
	"contract-backend/internal/shared/server"
	"contract-backend/internal/shared/server/middleware"
	"contract-backend/internal/shared/storage/cache"
	"contract-backend/internal/shared/storage/db"
	localstore "contract-backend/internal/shared/storage/object/local"
	s3store "contract-backend/internal/shared/storage/object/s3"
	"contract-backend/internal/shared/telemetry"
)

// App holds shared dependencies and the wired router.
type App struct {
	Config           config.Config
	Router           *gin.Engine
	DB               *sql.DB
	Redis            *redis.Client
	Records          records.Repo
	SessionStore     sessions.Store
	Sessions         *sessions.Service
	ContractsService *contracts.Service
	AdminService     *admin.Service
	Health           *health.Service
}

// Build prepares shared dependencies and wires routes.
func Build(cfg config.Config) (*App, error) {
	if strings.TrimSpace(cfg.Env) == "" {
		cfg.Env = "dev"
	}
	ctx := context.Background()
	app := &App{Config: cfg, Health: health.NewService()}

	repo, sqlDB, err := BuildRecords(ctx, cfg)
	if err != nil {
		return nil, err
	}
	app.Records = repo
	app.DB = sqlDB
	if sqlDB != nil {
		app.Health.Register("database", sqlDB.PingContext)
	}

	store, rdb, err := buildSessionStore(ctx, cfg)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.SessionStore = store
	app.Redis = rdb
	if rdb != nil {
		app.Health.Register("sessions", func(ctx context.Context) error {
			return rdb.Ping(ctx).Err()
		})
	}

	signer, err := auth.NewSigner(cfg.JWTSecret, cfg.Env, cfg.SessionTTL)
	if err != nil {
		app.Close()
		return nil, err
	}
	app.Sessions = sessions.NewService(store, signer)
	app.ContractsService = contracts.NewService(extract.New(), repo, app.Sessions)
	app.AdminService = admin.NewService(repo, app.Sessions)

	app.Router = server.NewRouter(server.RouterDeps{
		Config:           cfg,
		Authenticator:    app.Sessions,
		AuthHandler:      authhttp.NewHandler(app.Sessions),
		ContractsHandler: contracts.NewHandler(app.ContractsService, cfg.MaxUploadBytes),
		AdminHandler:     admin.NewHandler(app.AdminService),
		Health:           app.Health,
		RateLimiter:      middleware.NewRateLimiter(nil),
	})

	telemetry.L().Info("bootstrap.ready",
		zap.String("env", cfg.Env),
		zap.String("record_store", cfg.RecordStore),
		zap.Bool("redis_sessions", rdb != nil),
	)
	return app, nil
}

// Close releases database and cache connections.
func (a *App) Close() {
	if a == nil {
		return
	}
	if a.Redis != nil {
		_ = a.Redis.Close()
	}
	if a.DB != nil && !db.IsLambdaRuntime() {
		_ = a.DB.Close()
	}
}

// BuildRecords selects the record store configured by cfg.RecordStore. The
// returned *sql.DB is nil for non-SQL backends.
func BuildRecords(ctx context.Context, cfg config.Config) (records.Repo, *sql.DB, error) {
	switch cfg.RecordStore {
	case config.StoreMemory:
		return records.NewMemoryRepo(), nil, nil
	case config.StoreS3:
		store, err := s3store.New(ctx, cfg.AWSRegion, cfg.S3Bucket, cfg.S3Prefix, cfg.SSEKMSKeyID)
		if err != nil {
			return nil, nil, err
		}
		return records.NewObjectRepo(store), nil, nil
	case config.StorePostgres:
		sqlDB, err := buildPostgres(ctx, cfg)
		if err != nil {
			return nil, nil, err
		}
		return &records.PGRepo{DB: sqlDB}, sqlDB, nil
	case config.StoreSQLite:
		sqlDB, err := db.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, nil, err
		}
		if err := db.RunMigrations(ctx, sqlDB, db.SQLite); err != nil {
			_ = sqlDB.Close()
			return nil, nil, err
		}
		return &records.SQLiteRepo{DB: sqlDB}, sqlDB, nil
	default:
		return records.NewObjectRepo(localstore.New(cfg.RecordsDir)), nil, nil
	}
}

func buildPostgres(ctx context.Context, cfg config.Config) (*sql.DB, error) {
	if strings.TrimSpace(cfg.DatabaseURL) == "" {
		return nil, fmt.Errorf("RECORD_STORE=postgres requires DATABASE_URL")
	}

	var (
		sqlDB *sql.DB
		err   error
	)
	if db.IsLambdaRuntime() {
		opts := db.OptionsFromEnv(db.DefaultLambdaOptions())
		sqlDB, err = db.GetSingleton(ctx, cfg.DatabaseURL, opts)
	} else {
		opts := db.OptionsFromEnv(db.DefaultServerOptions())
		sqlDB, err = db.Connect(ctx, cfg.DatabaseURL, opts)
	}
	if err != nil {
		return nil, err
	}
	if err := db.RunMigrations(ctx, sqlDB, db.Postgres); err != nil {
		return nil, err
	}
	return sqlDB, nil
}

func buildSessionStore(ctx context.Context, cfg config.Config) (sessions.Store, *redis.Client, error) {
	if strings.TrimSpace(cfg.RedisURL) == "" {
		return sessions.NewMemoryStore(), nil, nil
	}
	rdb, err := cache.Connect(ctx, cfg.RedisURL)
	if err != nil {
		if cfg.IsDevLike() {
			telemetry.Warn("bootstrap.redis_unavailable", map[string]any{"error": err.Error()})
			return sessions.NewMemoryStore(), nil, nil
		}
		return nil, nil, err
	}
	return sessions.NewRedisStore(rdb, cfg.SessionTTL), rdb, nil
}
