package migrations

import (
	"context"
	_ "embed"

	"github.com/uptrace/bun"
)

//go:embed 0001_create_catalog.sql
var createCatalogSQL string

func init() {
	Migrations.MustRegister(
		func(ctx context.Context, db *bun.DB) error {
			return execStatements(ctx, db, createCatalogSQL)
		},
		func(ctx context.Context, db *bun.DB) error {
			return execStatements(ctx, db, `
				DROP TABLE IF EXISTS badges;
				DROP TABLE IF EXISTS scenario_steps;
				DROP TABLE IF EXISTS scenarios;
				DROP TABLE IF EXISTS levels`)
		},
	)
}
