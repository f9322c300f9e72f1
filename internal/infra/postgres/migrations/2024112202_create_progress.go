package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
)

//go:embed 0002_create_progress.sql
var createProgressSQL string

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			return execStatements(ctx, db, createProgressSQL)
		},
		func(ctx context.Context, db *bun.DB) error {
			return execStatements(ctx, db, `
				DROP TABLE IF EXISTS user_badges;
				DROP TABLE IF EXISTS user_level_progress;
				DROP TABLE IF EXISTS attempts`)
		},
	)
}
