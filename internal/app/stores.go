package app

import (
	"context"
	"time"

	"firstaid-progress-service/internal/domain"
)

// AttemptLedger keeps the best score per (user, scenario).
type AttemptLedger interface {
	// RecordBestScore atomically stores max(existing, score) and refreshes
	// CompletedAt to at, even when the stored score does not change.
	RecordBestScore(ctx context.Context, userID string, scenarioID int64, score int, at time.Time) (domain.Attempt, error)
	// CountPerfect counts the user's attempts scoring 100 among scenarioIDs.
	CountPerfect(ctx context.Context, userID string, scenarioIDs []int64) (int, error)
	ListAttempts(ctx context.Context, userID string) ([]domain.Attempt, error)
}

// ProgressStore persists per-user level flags. Both writes are single
// conditional upserts; neither ever clears Completed.
type ProgressStore interface {
	// MarkPlayed sets Unlocked and ORs completed into the stored flag.
	MarkPlayed(ctx context.Context, userID string, levelID int64, completed bool, at time.Time) (domain.UserLevelProgress, error)
	// Unlock sets Unlocked and keeps any stored Completed flag.
	Unlock(ctx context.Context, userID string, levelID int64, at time.Time) (domain.UserLevelProgress, error)
	ListProgress(ctx context.Context, userID string) ([]domain.UserLevelProgress, error)
}

// BadgeStore persists badge grants with a unique (user, badge) key.
type BadgeStore interface {
	FindUserBadge(ctx context.Context, userID string, badgeID int64) (domain.UserBadge, bool, error)
	// CreateUserBadge returns domain.ErrConflict when the grant already exists.
	CreateUserBadge(ctx context.Context, grant domain.UserBadge) error
	ListUserBadges(ctx context.Context, userID string) ([]domain.UserBadge, error)
}
