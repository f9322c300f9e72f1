package app

import (
	"context"

	"firstaid-progress-service/internal/domain"
)

// CatalogRepository loads the catalog snapshot (from cache/backing store).
type CatalogRepository interface {
	GetCatalog(ctx context.Context) (*domain.Catalog, error)
}

// Catalog is the read-only lookup surface the progress engine depends on.
type Catalog interface {
	GetScenario(ctx context.Context, id int64) (domain.Scenario, error)
	GetStepsByScenario(ctx context.Context, scenarioID int64) ([]domain.ScenarioStep, error)
	CountScenariosInLevel(ctx context.Context, levelID int64) (int, error)
	ScenarioIDsInLevel(ctx context.Context, levelID int64) ([]int64, error)
	GetBadgeByLevel(ctx context.Context, levelID int64) (domain.Badge, bool, error)
	GetBadge(ctx context.Context, id int64) (domain.Badge, bool, error)
	GetNextLevelID(ctx context.Context, levelID int64) (int64, bool, error)
	ListLevels(ctx context.Context) ([]domain.Level, error)
}

type snapshotCatalog struct {
	repo CatalogRepository
}

// NewCatalog answers catalog lookups from the repository's current snapshot.
func NewCatalog(repo CatalogRepository) Catalog {
	return &snapshotCatalog{repo: repo}
}

func (c *snapshotCatalog) GetScenario(ctx context.Context, id int64) (domain.Scenario, error) {
	cat, err := c.repo.GetCatalog(ctx)
	if err != nil {
		return domain.Scenario{}, err
	}
	s, ok := cat.Scenario(id)
	if !ok {
		return domain.Scenario{}, domain.ErrScenarioNotFound
	}
	return s, nil
}

func (c *snapshotCatalog) GetStepsByScenario(ctx context.Context, scenarioID int64) ([]domain.ScenarioStep, error) {
	cat, err := c.repo.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return cat.Steps(scenarioID), nil
}

func (c *snapshotCatalog) CountScenariosInLevel(ctx context.Context, levelID int64) (int, error) {
	cat, err := c.repo.GetCatalog(ctx)
	if err != nil {
		return 0, err
	}
	return cat.CountScenarios(levelID), nil
}

func (c *snapshotCatalog) ScenarioIDsInLevel(ctx context.Context, levelID int64) ([]int64, error) {
	cat, err := c.repo.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return cat.ScenarioIDs(levelID), nil
}

func (c *snapshotCatalog) GetBadgeByLevel(ctx context.Context, levelID int64) (domain.Badge, bool, error) {
	cat, err := c.repo.GetCatalog(ctx)
	if err != nil {
		return domain.Badge{}, false, err
	}
	b, ok := cat.BadgeForLevel(levelID)
	return b, ok, nil
}

func (c *snapshotCatalog) GetBadge(ctx context.Context, id int64) (domain.Badge, bool, error) {
	cat, err := c.repo.GetCatalog(ctx)
	if err != nil {
		return domain.Badge{}, false, err
	}
	b, ok := cat.Badge(id)
	return b, ok, nil
}

func (c *snapshotCatalog) GetNextLevelID(ctx context.Context, levelID int64) (int64, bool, error) {
	cat, err := c.repo.GetCatalog(ctx)
	if err != nil {
		return 0, false, err
	}
	next, ok := cat.NextLevelID(levelID)
	return next, ok, nil
}

func (c *snapshotCatalog) ListLevels(ctx context.Context) ([]domain.Level, error) {
	cat, err := c.repo.GetCatalog(ctx)
	if err != nil {
		return nil, err
	}
	return cat.Levels(), nil
}
