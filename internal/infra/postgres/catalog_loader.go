package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"firstaid-progress-service/internal/domain"
	"github.com/jackc/pgx/v4/pgxpool"
)

// CatalogLoader loads the catalog tables from Postgres.
type CatalogLoader struct {
	pool *pgxpool.Pool
}

func NewCatalogLoader(pool *pgxpool.Pool) *CatalogLoader {
	return &CatalogLoader{pool: pool}
}

func (l *CatalogLoader) LoadCatalog(ctx context.Context) (domain.CatalogData, error) {
	var data domain.CatalogData

	rows, err := l.pool.Query(ctx, `SELECT id, position, title, description FROM levels ORDER BY position, id`)
	if err != nil {
		return data, fmt.Errorf("load levels: %w", err)
	}
	for rows.Next() {
		var lvl domain.Level
		if err := rows.Scan(&lvl.ID, &lvl.Position, &lvl.Title, &lvl.Description); err != nil {
			rows.Close()
			return data, fmt.Errorf("scan level: %w", err)
		}
		data.Levels = append(data.Levels, lvl)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return data, fmt.Errorf("load levels: %w", err)
	}

	rows, err = l.pool.Query(ctx, `SELECT id, level_id, title, description FROM scenarios ORDER BY id`)
	if err != nil {
		return data, fmt.Errorf("load scenarios: %w", err)
	}
	for rows.Next() {
		var s domain.Scenario
		if err := rows.Scan(&s.ID, &s.LevelID, &s.Title, &s.Description); err != nil {
			rows.Close()
			return data, fmt.Errorf("scan scenario: %w", err)
		}
		data.Scenarios = append(data.Scenarios, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return data, fmt.Errorf("load scenarios: %w", err)
	}

	rows, err = l.pool.Query(ctx, `
		SELECT id, scenario_id, step_order, question, options, correct_option
		FROM scenario_steps
		ORDER BY scenario_id, step_order`)
	if err != nil {
		return data, fmt.Errorf("load steps: %w", err)
	}
	for rows.Next() {
		var (
			st  domain.ScenarioStep
			raw []byte
		)
		if err := rows.Scan(&st.ID, &st.ScenarioID, &st.Order, &st.Question, &raw, &st.CorrectOption); err != nil {
			rows.Close()
			return data, fmt.Errorf("scan step: %w", err)
		}
		if err := json.Unmarshal(raw, &st.Options); err != nil {
			rows.Close()
			return data, fmt.Errorf("unmarshal step %d options: %w", st.ID, err)
		}
		data.Steps = append(data.Steps, st)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return data, fmt.Errorf("load steps: %w", err)
	}

	rows, err = l.pool.Query(ctx, `
		SELECT id, level_id, name, description, icon_url
		FROM badges
		WHERE active
		ORDER BY id`)
	if err != nil {
		return data, fmt.Errorf("load badges: %w", err)
	}
	for rows.Next() {
		var b domain.Badge
		if err := rows.Scan(&b.ID, &b.LevelID, &b.Name, &b.Description, &b.IconURL); err != nil {
			rows.Close()
			return data, fmt.Errorf("scan badge: %w", err)
		}
		data.Badges = append(data.Badges, b)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return data, fmt.Errorf("load badges: %w", err)
	}

	return data, nil
}
