package cli

import (
	"context"
	"fmt"

	"firstaid-progress-service/internal/config"
	"firstaid-progress-service/internal/domain"
	"firstaid-progress-service/internal/infra/memory"
	"firstaid-progress-service/internal/infra/postgres"
	infraredis "firstaid-progress-service/internal/infra/redis"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// NewSeedCmd upserts a YAML catalog into Postgres.
func NewSeedCmd(configPath *string) *cobra.Command {
	var file string
	cmd := &cobra.Command{
		Use:   "seed",
		Short: "Load levels, scenarios, steps and badges into Postgres",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, log, err := loadRuntime(*configPath)
			if err != nil {
				return err
			}
			defer log.Sync()
			return runSeed(cmd.Context(), cfg, file, log)
		},
	}
	cmd.Flags().StringVar(&file, "file", "", "catalog YAML file (defaults to the built-in sample)")
	return cmd
}

func runSeed(ctx context.Context, cfg config.Config, file string, log *zap.Logger) error {
	if cfg.Postgres.URL == "" {
		return fmt.Errorf("postgres url not configured")
	}

	var data domain.CatalogData
	if file != "" {
		var err error
		data, err = memory.NewFileCatalogLoader(file).LoadCatalog(ctx)
		if err != nil {
			return err
		}
	} else {
		data = memory.SampleCatalog()
	}

	if err := runMigrationsWithConfig(ctx, cfg, log); err != nil {
		return err
	}

	db := postgres.OpenDB(cfg.Postgres.URL)
	defer db.Close()
	if err := postgres.SeedCatalog(ctx, db, data); err != nil {
		return err
	}

	if client := newRedisClient(cfg); client != nil {
		defer client.Close()
		repo := infraredis.NewCatalogRepository(client, nil, 0)
		if err := repo.Invalidate(ctx); err != nil {
			log.Warn("catalog cache invalidation failed", zap.Error(err))
		}
	}

	log.Info("catalog seeded",
		zap.Int("levels", len(data.Levels)),
		zap.Int("scenarios", len(data.Scenarios)),
		zap.Int("steps", len(data.Steps)),
		zap.Int("badges", len(data.Badges)),
	)
	return nil
}
