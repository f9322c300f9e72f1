package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"firstaid-progress-service/internal/app"
	"firstaid-progress-service/internal/config"
	"firstaid-progress-service/internal/infra/memory"
	"firstaid-progress-service/internal/infra/postgres"
	infraredis "firstaid-progress-service/internal/infra/redis"
	transport "firstaid-progress-service/internal/transport/http"
	"github.com/jackc/pgx/v4/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewStartCmd builds the CLI subcommand to start the server.
func NewStartCmd(configPath, port *string) *cobra.Command {
	return &cobra.Command{
		Use:   "start",
		Short: "Start the progress service",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadRuntime(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()
			return runServer(cmd.Context(), cfg, *port, log)
		},
	}
}

func runServer(ctx context.Context, cfg config.Config, portFlag string, log *zap.Logger) error {
	finalPort := portFlag
	if finalPort == "" {
		finalPort = cfg.Server.Port
	}
	if finalPort == "" {
		finalPort = "8080"
	}

	var (
		attempts app.AttemptLedger = memory.NewAttemptStore()
		progress app.ProgressStore = memory.NewProgressStore()
		badges   app.BadgeStore    = memory.NewBadgeStore()
		loader   memory.CatalogLoader
	)

	if cfg.Postgres.URL != "" {
		if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
			return err
		}

		db := postgres.OpenDB(cfg.Postgres.URL)
		defer db.Close()
		attempts = postgres.NewAttemptStore(db)
		progress = postgres.NewProgressStore(db)
		badges = postgres.NewBadgeStore(db)

		pool, err := pgxpool.Connect(ctx, cfg.Postgres.URL)
		if err != nil {
			return err
		}
		defer pool.Close()
		loader = postgres.NewCatalogLoader(pool)
		log.Info("using postgres stores")
	} else {
		log.Warn("postgres not configured, progress is kept in memory")
		if cfg.Catalog.Path != "" {
			loader = memory.NewFileCatalogLoader(cfg.Catalog.Path)
		} else {
			loader = memory.NewStaticCatalogLoader(memory.SampleCatalog())
		}
	}

	if client := newRedisClient(cfg); client != nil {
		defer client.Close()
		// Redis holds the shared snapshot; the local cache in front of it keeps
		// submissions off the network for most lookups.
		loader = infraredis.NewCatalogRepository(client, loader, config.TTLDuration(cfg.Redis.TTL, 10*time.Minute))
	}
	catalogRepo := memory.NewCatalogRepository(loader, config.TTLDuration(cfg.Catalog.TTL, time.Minute))

	service := app.NewProgressService(catalogRepo, attempts, progress, badges, app.WithLogger(log))
	if cfg.Auth.JWTSecret == "" {
		log.Warn("auth.jwt_secret not set, trusting X-User-ID header")
	}

	server := &http.Server{
		Addr:         ":" + finalPort,
		Handler:      transport.NewRouter(service, cfg.Auth.JWTSecret, log),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
	}

	go func() {
		log.Info("starting progress service", zap.String("port", finalPort))
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Error("failed to start server", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case <-stop:
		log.Info("shutting down server...")
	case <-ctx.Done():
		log.Info("context canceled, shutting down server...")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newRedisClient(cfg config.Config) *redis.Client {
	if cfg.Redis.Addr == "" {
		return nil
	}
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr,
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
}
