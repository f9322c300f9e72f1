package app

import (
	"context"
	"fmt"
	"time"

	"firstaid-progress-service/internal/domain"
	"go.uber.org/zap"
)

// ProgressService runs the scenario submission pipeline:
// score -> attempt ledger -> level evaluation -> unlock -> badge -> result.
type ProgressService struct {
	catalog   Catalog
	attempts  AttemptLedger
	progress  ProgressStore
	badges    BadgeStore
	evaluator *LevelEvaluator
	unlocker  *ProgressionUnlocker
	awarder   *BadgeAwarder
	log       *zap.Logger
	now       func() time.Time
}

// Option customizes a ProgressService.
type Option func(*ProgressService)

// WithClock overrides time.Now, mostly for deterministic tests.
func WithClock(now func() time.Time) Option {
	return func(s *ProgressService) { s.now = now }
}

// WithLogger sets the logger used for best-effort stage failures.
func WithLogger(log *zap.Logger) Option {
	return func(s *ProgressService) { s.log = log }
}

func NewProgressService(catalog CatalogRepository, attempts AttemptLedger, progress ProgressStore, badges BadgeStore, opts ...Option) *ProgressService {
	s := &ProgressService{
		catalog:  NewCatalog(catalog),
		attempts: attempts,
		progress: progress,
		badges:   badges,
		log:      zap.NewNop(),
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	clock := func() time.Time { return s.now() }
	s.evaluator = NewLevelEvaluator(s.catalog, attempts)
	s.unlocker = NewProgressionUnlocker(s.catalog, progress, clock)
	s.awarder = NewBadgeAwarder(s.catalog, badges, clock)
	return s
}

// Submit scores answers for a scenario and, for identified users, records the
// attempt and advances level progression.
//
// Validation and catalog errors abort before any write. Once scoring succeeds
// the result is always returned: store failures in later stages are logged and
// the fields they would have produced are left empty.
func (s *ProgressService) Submit(ctx context.Context, userID string, scenarioID int64, answers []string) (domain.SubmissionResult, error) {
	if answers == nil {
		return domain.SubmissionResult{}, fmt.Errorf("user answers must be an array: %w", domain.ErrInvalidInput)
	}

	scenario, err := s.catalog.GetScenario(ctx, scenarioID)
	if err != nil {
		return domain.SubmissionResult{}, err
	}
	steps, err := s.catalog.GetStepsByScenario(ctx, scenarioID)
	if err != nil {
		return domain.SubmissionResult{}, err
	}
	if len(steps) == 0 {
		return domain.SubmissionResult{}, domain.ErrNoSteps
	}

	score, err := ScoreAnswers(answers, steps)
	if err != nil {
		return domain.SubmissionResult{}, err
	}
	result := assembleResult(scenario, len(steps), score)

	if userID == "" {
		// Anonymous callers are scored but nothing is persisted.
		return result, nil
	}

	log := s.log.With(
		zap.String("user_id", userID),
		zap.Int64("scenario_id", scenarioID),
		zap.Int64("level_id", scenario.LevelID),
	)

	attempt, err := s.attempts.RecordBestScore(ctx, userID, scenarioID, score.Score, s.now())
	if err != nil {
		log.Warn("record best score failed", zap.Error(domain.NewStoreError("record best score", err)))
		return result, nil
	}
	withAttempt(&result, attempt)

	eval, err := s.evaluator.EvaluateLevel(ctx, userID, scenario.LevelID)
	if err != nil {
		log.Warn("evaluate level failed", zap.Error(err))
		return result, nil
	}

	outcome, err := s.unlocker.ApplyProgress(ctx, userID, scenario.LevelID, eval.Completed)
	if err != nil {
		log.Warn("apply progress failed", zap.Error(err))
	}
	result.LevelProgress = levelProgressFrom(eval, outcome.NextLevelUnlocked)

	if eval.Completed {
		badge, err := s.awarder.AwardLevelBadge(ctx, userID, scenario.LevelID)
		if err != nil {
			log.Warn("award level badge failed", zap.Error(err))
		}
		if badge != nil {
			result.AwardedBadge = badge
			log.Info("badge awarded", zap.Int64("badge_id", badge.ID))
		}
	}

	return result, nil
}

// ListProgress returns the state of every catalog level for a user. The first
// level is unlocked by default.
func (s *ProgressService) ListProgress(ctx context.Context, userID string) ([]domain.LevelStatus, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}

	levels, err := s.catalog.ListLevels(ctx)
	if err != nil {
		return nil, err
	}
	stored, err := s.progress.ListProgress(ctx, userID)
	if err != nil {
		return nil, domain.NewStoreError("list progress", err)
	}
	attempts, err := s.attempts.ListAttempts(ctx, userID)
	if err != nil {
		return nil, domain.NewStoreError("list attempts", err)
	}

	byLevel := make(map[int64]domain.UserLevelProgress, len(stored))
	for _, p := range stored {
		byLevel[p.LevelID] = p
	}
	bestByScenario := make(map[int64]int, len(attempts))
	for _, a := range attempts {
		bestByScenario[a.ScenarioID] = a.Score
	}

	out := make([]domain.LevelStatus, 0, len(levels))
	for i, level := range levels {
		ids, err := s.catalog.ScenarioIDsInLevel(ctx, level.ID)
		if err != nil {
			return nil, err
		}
		perfect := 0
		for _, id := range ids {
			if bestByScenario[id] == 100 {
				perfect++
			}
		}

		state := byLevel[level.ID].State()
		if i == 0 && state == domain.StateLocked {
			state = domain.StateUnlocked
		}
		out = append(out, domain.LevelStatus{
			Level:          level,
			State:          state,
			PerfectInLevel: perfect,
			TotalInLevel:   len(ids),
		})
	}
	return out, nil
}

// ListBadges returns the user's badges in the order they were earned.
func (s *ProgressService) ListBadges(ctx context.Context, userID string) ([]domain.EarnedBadge, error) {
	if userID == "" {
		return nil, domain.ErrUnauthenticated
	}
	grants, err := s.badges.ListUserBadges(ctx, userID)
	if err != nil {
		return nil, domain.NewStoreError("list user badges", err)
	}
	out := make([]domain.EarnedBadge, 0, len(grants))
	for _, g := range grants {
		badge, ok, err := s.catalog.GetBadge(ctx, g.BadgeID)
		if err != nil {
			return nil, err
		}
		if !ok {
			// Badge removed from the catalog after it was earned.
			badge = domain.Badge{ID: g.BadgeID}
		}
		out = append(out, domain.EarnedBadge{Badge: badge, EarnedAt: g.EarnedAt})
	}
	return out, nil
}
