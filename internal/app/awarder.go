package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"firstaid-progress-service/internal/domain"
)

// BadgeAwarder grants a level's badge at most once per user.
type BadgeAwarder struct {
	catalog Catalog
	badges  BadgeStore
	now     func() time.Time
}

func NewBadgeAwarder(catalog Catalog, badges BadgeStore, now func() time.Time) *BadgeAwarder {
	if now == nil {
		now = time.Now
	}
	return &BadgeAwarder{catalog: catalog, badges: badges, now: now}
}

// AwardLevelBadge returns the badge when this call created the grant, and nil
// when the level has no badge or the user already holds it.
//
// The lookup and the insert are separate store calls, so two concurrent
// completions can both miss the lookup. The store's unique (user, badge) key
// rejects the second insert and that conflict is reported as "already awarded".
func (a *BadgeAwarder) AwardLevelBadge(ctx context.Context, userID string, levelID int64) (*domain.Badge, error) {
	badge, ok, err := a.catalog.GetBadgeByLevel(ctx, levelID)
	if err != nil {
		return nil, fmt.Errorf("badge by level: %w", err)
	}
	if !ok {
		return nil, nil
	}

	_, found, err := a.badges.FindUserBadge(ctx, userID, badge.ID)
	if err != nil {
		return nil, domain.NewStoreError("find user badge", err)
	}
	if found {
		return nil, nil
	}

	err = a.badges.CreateUserBadge(ctx, domain.UserBadge{
		UserID:   userID,
		BadgeID:  badge.ID,
		EarnedAt: a.now(),
	})
	if errors.Is(err, domain.ErrConflict) {
		return nil, nil
	}
	if err != nil {
		return nil, domain.NewStoreError("create user badge", err)
	}
	return &badge, nil
}
