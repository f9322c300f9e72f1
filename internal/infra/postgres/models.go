package postgres

import (
	"time"

	"firstaid-progress-service/internal/domain"
	"github.com/uptrace/bun"
)

type attemptRow struct {
	bun.BaseModel `bun:"table:attempts,alias:a"`

	UserID      string    `bun:"user_id,pk"`
	ScenarioID  int64     `bun:"scenario_id,pk"`
	Score       int       `bun:"score,notnull"`
	CompletedAt time.Time `bun:"completed_at,notnull"`
}

func (r attemptRow) toDomain() domain.Attempt {
	return domain.Attempt{
		UserID:      r.UserID,
		ScenarioID:  r.ScenarioID,
		Score:       r.Score,
		CompletedAt: r.CompletedAt,
	}
}

type levelProgressRow struct {
	bun.BaseModel `bun:"table:user_level_progress,alias:ulp"`

	UserID    string    `bun:"user_id,pk"`
	LevelID   int64     `bun:"level_id,pk"`
	Unlocked  bool      `bun:"unlocked,notnull"`
	Completed bool      `bun:"completed,notnull"`
	UpdatedAt time.Time `bun:"updated_at,notnull"`
}

func (r levelProgressRow) toDomain() domain.UserLevelProgress {
	return domain.UserLevelProgress{
		UserID:    r.UserID,
		LevelID:   r.LevelID,
		Unlocked:  r.Unlocked,
		Completed: r.Completed,
		UpdatedAt: r.UpdatedAt,
	}
}

type userBadgeRow struct {
	bun.BaseModel `bun:"table:user_badges,alias:ub"`

	UserID   string    `bun:"user_id,pk"`
	BadgeID  int64     `bun:"badge_id,pk"`
	EarnedAt time.Time `bun:"earned_at,notnull"`
}

func (r userBadgeRow) toDomain() domain.UserBadge {
	return domain.UserBadge{UserID: r.UserID, BadgeID: r.BadgeID, EarnedAt: r.EarnedAt}
}

// Catalog tables, written by the seed command only.

type levelRow struct {
	bun.BaseModel `bun:"table:levels,alias:l"`

	ID          int64  `bun:"id,pk"`
	Position    int    `bun:"position,notnull"`
	Title       string `bun:"title,notnull"`
	Description string `bun:"description,notnull"`
}

type scenarioRow struct {
	bun.BaseModel `bun:"table:scenarios,alias:s"`

	ID          int64  `bun:"id,pk"`
	LevelID     int64  `bun:"level_id,notnull"`
	Title       string `bun:"title,notnull"`
	Description string `bun:"description,notnull"`
}

type stepRow struct {
	bun.BaseModel `bun:"table:scenario_steps,alias:st"`

	ID            int64           `bun:"id,pk"`
	ScenarioID    int64           `bun:"scenario_id,notnull"`
	Order         int             `bun:"step_order,notnull"`
	Question      string          `bun:"question,notnull"`
	Options       []domain.Option `bun:"options,type:jsonb,notnull"`
	CorrectOption string          `bun:"correct_option,notnull"`
}

type badgeRow struct {
	bun.BaseModel `bun:"table:badges,alias:b"`

	ID          int64  `bun:"id,pk"`
	LevelID     int64  `bun:"level_id,notnull"`
	Name        string `bun:"name,notnull"`
	Description string `bun:"description,notnull"`
	IconURL     string `bun:"icon_url,notnull"`
	Active      bool   `bun:"active,notnull"`
}
