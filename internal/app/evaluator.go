package app

import (
	"context"
	"fmt"

	"firstaid-progress-service/internal/domain"
)

// LevelEvaluator recomputes level completion from source rows on every call.
type LevelEvaluator struct {
	catalog  Catalog
	attempts AttemptLedger
}

func NewLevelEvaluator(catalog Catalog, attempts AttemptLedger) *LevelEvaluator {
	return &LevelEvaluator{catalog: catalog, attempts: attempts}
}

// EvaluateLevel reports whether the user has a perfect score on every scenario
// of the level. A level without scenarios is never completed.
func (e *LevelEvaluator) EvaluateLevel(ctx context.Context, userID string, levelID int64) (domain.LevelEvaluation, error) {
	total, err := e.catalog.CountScenariosInLevel(ctx, levelID)
	if err != nil {
		return domain.LevelEvaluation{}, fmt.Errorf("count scenarios: %w", err)
	}
	ids, err := e.catalog.ScenarioIDsInLevel(ctx, levelID)
	if err != nil {
		return domain.LevelEvaluation{}, fmt.Errorf("list scenarios: %w", err)
	}

	perfect := 0
	if len(ids) > 0 {
		perfect, err = e.attempts.CountPerfect(ctx, userID, ids)
		if err != nil {
			return domain.LevelEvaluation{}, domain.NewStoreError("count perfect attempts", err)
		}
	}

	return domain.LevelEvaluation{
		LevelID:        levelID,
		PerfectCount:   perfect,
		TotalScenarios: total,
		Completed:      total > 0 && perfect == total,
	}, nil
}
