package main

import (
	"context"
	"log/slog"
	"os"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	storagemongo "github.com/dmitrymomot/twofa/internal/storage/mongo"
	storagepg "github.com/dmitrymomot/twofa/internal/storage/postgres"
	"github.com/dmitrymomot/twofa/internal/transport/httpapi"
	"github.com/dmitrymomot/twofa/internal/twofa"
	"github.com/dmitrymomot/twofa/pkg/config"
	"github.com/dmitrymomot/twofa/pkg/httpserver"
	"github.com/dmitrymomot/twofa/pkg/logger"
	"github.com/dmitrymomot/twofa/pkg/mongo"
	"github.com/dmitrymomot/twofa/pkg/pg"
	"github.com/dmitrymomot/twofa/pkg/ratelimiter"
	"github.com/dmitrymomot/twofa/pkg/redis"
	"github.com/dmitrymomot/twofa/pkg/session"
	"github.com/dmitrymomot/twofa/pkg/totp"
)

type appConfig struct {
	Env string `env:"APP_ENV" envDefault:"development"`

	// StorageDriver selects the settings/users backend: postgres or mongo.
	StorageDriver string `env:"TWOFA_STORAGE_DRIVER" envDefault:"postgres"`

	// PendingStore selects where unconfirmed setup secrets live: memory or
	// redis. Memory is single-instance only.
	PendingStore string `env:"TWOFA_PENDING_STORE" envDefault:"memory"`

	// MongoDatabase is used only with the mongo storage driver.
	MongoDatabase string `env:"MONGODB_DATABASE" envDefault:"twofa"`
}

func main() {
	var appCfg appConfig
	config.MustLoad(&appCfg)

	log := newLogger(appCfg.Env)
	logger.SetAsDefault(log)

	if err := run(context.Background(), appCfg, log); err != nil {
		log.Error("service terminated", logger.Error(err))
		os.Exit(1)
	}
}

func run(ctx context.Context, appCfg appConfig, log *slog.Logger) error {
	var totpCfg totp.Config
	config.MustLoad(&totpCfg)

	// Refuses to start without a valid master key; secrets are never
	// persisted in plaintext.
	masterKey, err := totpCfg.MasterKey()
	if err != nil {
		return err
	}

	var twofaCfg twofa.Config
	config.MustLoad(&twofaCfg)

	var sessionCfg session.Config
	config.MustLoad(&sessionCfg)

	settings, users, storageHealth, cleanup, err := newStorage(ctx, appCfg, log)
	if err != nil {
		return err
	}
	defer cleanup()

	pending, pendingHealth, err := newPendingStore(ctx, appCfg, twofaCfg.PendingSetupTTL)
	if err != nil {
		return err
	}

	sessionStore := session.NewMemoryStore(sessionCfg.CleanupInterval)
	defer sessionStore.Close()
	sessions := session.NewManager(sessionStore, sessionCfg)

	svc, err := twofa.NewService(
		twofaCfg,
		masterKey,
		settings,
		pending,
		users,
		twofa.NewBcryptVerifier(users),
		sessions,
		twofa.WithLogger(log),
	)
	if err != nil {
		return err
	}

	var limiterCfg ratelimiter.Config
	config.MustLoad(&limiterCfg)

	limiterStore := ratelimiter.NewMemoryStore()
	defer limiterStore.Close()
	limiter, err := ratelimiter.NewBucket(limiterStore, limiterCfg)
	if err != nil {
		return err
	}

	readiness := []func(context.Context) error{storageHealth}
	if pendingHealth != nil {
		readiness = append(readiness, pendingHealth)
	}

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Get("/healthz", httpserver.HealthCheckHandler(ctx, log))
	router.Get("/readyz", httpserver.HealthCheckHandler(ctx, log, readiness...))
	router.Mount("/", httpapi.NewHandler(svc, sessions, log, httpapi.WithRateLimiter(limiter)).Router())

	var serverCfg httpserver.Config
	config.MustLoad(&serverCfg)

	return httpserver.NewFromConfig(serverCfg, httpserver.WithLogger(log)).Run(ctx, router)
}

func newStorage(ctx context.Context, appCfg appConfig, log *slog.Logger) (twofa.SettingsStore, twofa.UserStore, func(context.Context) error, func(), error) {
	switch appCfg.StorageDriver {
	case "mongo":
		var mongoCfg mongo.Config
		config.MustLoad(&mongoCfg)

		db, err := mongo.NewWithDatabase(ctx, mongoCfg, appCfg.MongoDatabase)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		cleanup := func() {
			disconnectCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_ = db.Client().Disconnect(disconnectCtx)
		}
		return storagemongo.NewSettingsStore(db), storagemongo.NewUserStore(db), mongo.Healthcheck(db.Client()), cleanup, nil

	default:
		var pgCfg pg.Config
		config.MustLoad(&pgCfg)

		pool, err := pg.Connect(ctx, pgCfg)
		if err != nil {
			return nil, nil, nil, nil, err
		}
		if err := pg.Migrate(ctx, pool, pgCfg, log); err != nil {
			pool.Close()
			return nil, nil, nil, nil, err
		}
		return storagepg.NewSettingsStore(pool), storagepg.NewUserStore(pool), pg.Healthcheck(pool), pool.Close, nil
	}
}

func newPendingStore(ctx context.Context, appCfg appConfig, ttl time.Duration) (twofa.PendingStore, func(context.Context) error, error) {
	if appCfg.PendingStore != "redis" {
		return twofa.NewMemoryPendingStore(ttl, time.Minute), nil, nil
	}

	var redisCfg redis.Config
	config.MustLoad(&redisCfg)

	client, err := redis.Connect(ctx, redisCfg)
	if err != nil {
		return nil, nil, err
	}
	return twofa.NewRedisPendingStore(client, ttl), redis.Healthcheck(client), nil
}

func newLogger(env string) *slog.Logger {
	if env == "production" {
		return logger.New(logger.WithProduction("twofa"))
	}
	return logger.New(logger.WithDevelopment("twofa"))
}
