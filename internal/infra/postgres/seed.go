package postgres

import (
	"context"
	"fmt"

	"firstaid-progress-service/internal/domain"
	"github.com/uptrace/bun"
)

// SeedCatalog upserts catalog content in one transaction. Rows missing from
// data are left untouched.
func SeedCatalog(ctx context.Context, db *bun.DB, data domain.CatalogData) error {
	return db.RunInTx(ctx, nil, func(ctx context.Context, tx bun.Tx) error {
		if len(data.Levels) > 0 {
			rows := make([]levelRow, 0, len(data.Levels))
			for _, l := range data.Levels {
				rows = append(rows, levelRow{ID: l.ID, Position: l.Position, Title: l.Title, Description: l.Description})
			}
			if _, err := tx.NewInsert().Model(&rows).
				On("CONFLICT (id) DO UPDATE").
				Set("position = EXCLUDED.position").
				Set("title = EXCLUDED.title").
				Set("description = EXCLUDED.description").
				Exec(ctx); err != nil {
				return fmt.Errorf("seed levels: %w", err)
			}
		}

		if len(data.Scenarios) > 0 {
			rows := make([]scenarioRow, 0, len(data.Scenarios))
			for _, s := range data.Scenarios {
				rows = append(rows, scenarioRow{ID: s.ID, LevelID: s.LevelID, Title: s.Title, Description: s.Description})
			}
			if _, err := tx.NewInsert().Model(&rows).
				On("CONFLICT (id) DO UPDATE").
				Set("level_id = EXCLUDED.level_id").
				Set("title = EXCLUDED.title").
				Set("description = EXCLUDED.description").
				Exec(ctx); err != nil {
				return fmt.Errorf("seed scenarios: %w", err)
			}
		}

		if len(data.Steps) > 0 {
			rows := make([]stepRow, 0, len(data.Steps))
			for _, st := range data.Steps {
				opts := st.Options
				if opts == nil {
					opts = []domain.Option{}
				}
				rows = append(rows, stepRow{
					ID:            st.ID,
					ScenarioID:    st.ScenarioID,
					Order:         st.Order,
					Question:      st.Question,
					Options:       opts,
					CorrectOption: st.CorrectOption,
				})
			}
			if _, err := tx.NewInsert().Model(&rows).
				On("CONFLICT (id) DO UPDATE").
				Set("scenario_id = EXCLUDED.scenario_id").
				Set("step_order = EXCLUDED.step_order").
				Set("question = EXCLUDED.question").
				Set("options = EXCLUDED.options").
				Set("correct_option = EXCLUDED.correct_option").
				Exec(ctx); err != nil {
				return fmt.Errorf("seed steps: %w", err)
			}
		}

		if len(data.Badges) > 0 {
			rows := make([]badgeRow, 0, len(data.Badges))
			for _, b := range data.Badges {
				rows = append(rows, badgeRow{
					ID:          b.ID,
					LevelID:     b.LevelID,
					Name:        b.Name,
					Description: b.Description,
					IconURL:     b.IconURL,
					Active:      true,
				})
			}
			if _, err := tx.NewInsert().Model(&rows).
				On("CONFLICT (id) DO UPDATE").
				Set("level_id = EXCLUDED.level_id").
				Set("name = EXCLUDED.name").
				Set("description = EXCLUDED.description").
				Set("icon_url = EXCLUDED.icon_url").
				Set("active = EXCLUDED.active").
				Exec(ctx); err != nil {
				return fmt.Errorf("seed badges: %w", err)
			}
		}
		return nil
	})
}
