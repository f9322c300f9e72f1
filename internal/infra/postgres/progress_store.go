package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"firstaid-progress-service/internal/domain"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/driver/pgdriver"
)

const uniqueViolation = "23505"

// AttemptStore is the Postgres app.AttemptLedger. The best score is kept by a
// single INSERT ... ON CONFLICT, so concurrent writers never lose the maximum.
type AttemptStore struct {
	db bun.IDB
}

func NewAttemptStore(db bun.IDB) *AttemptStore {
	return &AttemptStore{db: db}
}

func (s *AttemptStore) RecordBestScore(ctx context.Context, userID string, scenarioID int64, score int, at time.Time) (domain.Attempt, error) {
	row := &attemptRow{UserID: userID, ScenarioID: scenarioID, Score: score, CompletedAt: at}
	_, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (user_id, scenario_id) DO UPDATE").
		Set("score = GREATEST(a.score, EXCLUDED.score)").
		Set("completed_at = EXCLUDED.completed_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return domain.Attempt{}, fmt.Errorf("upsert attempt: %w", err)
	}
	return row.toDomain(), nil
}

func (s *AttemptStore) CountPerfect(ctx context.Context, userID string, scenarioIDs []int64) (int, error) {
	if len(scenarioIDs) == 0 {
		return 0, nil
	}
	n, err := s.db.NewSelect().
		Model((*attemptRow)(nil)).
		Where("user_id = ?", userID).
		Where("scenario_id IN (?)", bun.In(scenarioIDs)).
		Where("score = 100").
		Count(ctx)
	if err != nil {
		return 0, fmt.Errorf("count perfect attempts: %w", err)
	}
	return n, nil
}

func (s *AttemptStore) ListAttempts(ctx context.Context, userID string) ([]domain.Attempt, error) {
	var rows []attemptRow
	if err := s.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Order("scenario_id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("list attempts: %w", err)
	}
	out := make([]domain.Attempt, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// ProgressStore is the Postgres app.ProgressStore.
type ProgressStore struct {
	db bun.IDB
}

func NewProgressStore(db bun.IDB) *ProgressStore {
	return &ProgressStore{db: db}
}

func (s *ProgressStore) MarkPlayed(ctx context.Context, userID string, levelID int64, completed bool, at time.Time) (domain.UserLevelProgress, error) {
	row := &levelProgressRow{UserID: userID, LevelID: levelID, Unlocked: true, Completed: completed, UpdatedAt: at}
	_, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (user_id, level_id) DO UPDATE").
		Set("unlocked = TRUE").
		Set("completed = ulp.completed OR EXCLUDED.completed").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return domain.UserLevelProgress{}, fmt.Errorf("upsert level progress: %w", err)
	}
	return row.toDomain(), nil
}

func (s *ProgressStore) Unlock(ctx context.Context, userID string, levelID int64, at time.Time) (domain.UserLevelProgress, error) {
	row := &levelProgressRow{UserID: userID, LevelID: levelID, Unlocked: true, UpdatedAt: at}
	_, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (user_id, level_id) DO UPDATE").
		Set("unlocked = TRUE").
		Set("updated_at = EXCLUDED.updated_at").
		Returning("*").
		Exec(ctx)
	if err != nil {
		return domain.UserLevelProgress{}, fmt.Errorf("unlock level: %w", err)
	}
	return row.toDomain(), nil
}

func (s *ProgressStore) ListProgress(ctx context.Context, userID string) ([]domain.UserLevelProgress, error) {
	var rows []levelProgressRow
	if err := s.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Order("level_id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("list level progress: %w", err)
	}
	out := make([]domain.UserLevelProgress, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

// BadgeStore is the Postgres app.BadgeStore. The (user_id, badge_id) primary
// key is the backstop against duplicate grants.
type BadgeStore struct {
	db bun.IDB
}

func NewBadgeStore(db bun.IDB) *BadgeStore {
	return &BadgeStore{db: db}
}

func (s *BadgeStore) FindUserBadge(ctx context.Context, userID string, badgeID int64) (domain.UserBadge, bool, error) {
	var row userBadgeRow
	err := s.db.NewSelect().
		Model(&row).
		Where("user_id = ?", userID).
		Where("badge_id = ?", badgeID).
		Limit(1).
		Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.UserBadge{}, false, nil
	}
	if err != nil {
		return domain.UserBadge{}, false, fmt.Errorf("find user badge: %w", err)
	}
	return row.toDomain(), true, nil
}

func (s *BadgeStore) CreateUserBadge(ctx context.Context, grant domain.UserBadge) error {
	row := &userBadgeRow{UserID: grant.UserID, BadgeID: grant.BadgeID, EarnedAt: grant.EarnedAt}
	res, err := s.db.NewInsert().
		Model(row).
		On("CONFLICT (user_id, badge_id) DO NOTHING").
		Exec(ctx)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrConflict
		}
		return fmt.Errorf("insert user badge: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("insert user badge: %w", err)
	}
	if n == 0 {
		return domain.ErrConflict
	}
	return nil
}

func (s *BadgeStore) ListUserBadges(ctx context.Context, userID string) ([]domain.UserBadge, error) {
	var rows []userBadgeRow
	if err := s.db.NewSelect().
		Model(&rows).
		Where("user_id = ?", userID).
		Order("earned_at ASC", "badge_id ASC").
		Scan(ctx); err != nil {
		return nil, fmt.Errorf("list user badges: %w", err)
	}
	out := make([]domain.UserBadge, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toDomain())
	}
	return out, nil
}

func isUniqueViolation(err error) bool {
	var pgErr pgdriver.Error
	return errors.As(err, &pgErr) && pgErr.Field('C') == uniqueViolation
}
