package app

import (
	"context"
	"fmt"
	"time"

	"firstaid-progress-service/internal/domain"
)

// ProgressionUnlocker records level state and unlocks the next level on completion.
type ProgressionUnlocker struct {
	catalog  Catalog
	progress ProgressStore
	now      func() time.Time
}

func NewProgressionUnlocker(catalog Catalog, progress ProgressStore, now func() time.Time) *ProgressionUnlocker {
	if now == nil {
		now = time.Now
	}
	return &ProgressionUnlocker{catalog: catalog, progress: progress, now: now}
}

// ApplyProgress marks the level as played (and completed when completed is
// true), then unlocks the next level in catalog order. The next level keeps
// its Completed flag if the user already finished it.
func (u *ProgressionUnlocker) ApplyProgress(ctx context.Context, userID string, levelID int64, completed bool) (domain.ProgressOutcome, error) {
	now := u.now()
	progress, err := u.progress.MarkPlayed(ctx, userID, levelID, completed, now)
	if err != nil {
		return domain.ProgressOutcome{}, domain.NewStoreError("mark level played", err)
	}
	out := domain.ProgressOutcome{Progress: progress}
	if !completed {
		return out, nil
	}

	next, ok, err := u.catalog.GetNextLevelID(ctx, levelID)
	if err != nil {
		return out, fmt.Errorf("next level: %w", err)
	}
	if !ok {
		return out, nil
	}
	if _, err := u.progress.Unlock(ctx, userID, next, now); err != nil {
		return out, domain.NewStoreError("unlock next level", err)
	}
	out.NextLevelUnlocked = &next
	return out, nil
}
