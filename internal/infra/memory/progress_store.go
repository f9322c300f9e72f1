package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"firstaid-progress-service/internal/domain"
)

type attemptKey struct {
	userID     string
	scenarioID int64
}

// AttemptStore is an in-memory implementation of app.AttemptLedger.
// Each write holds the lock for the whole read-modify-write, which makes it
// the same single conditional write the SQL upsert performs.
type AttemptStore struct {
	mu       sync.RWMutex
	attempts map[attemptKey]domain.Attempt
}

func NewAttemptStore() *AttemptStore {
	return &AttemptStore{attempts: make(map[attemptKey]domain.Attempt)}
}

func (s *AttemptStore) RecordBestScore(_ context.Context, userID string, scenarioID int64, score int, at time.Time) (domain.Attempt, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := attemptKey{userID: userID, scenarioID: scenarioID}
	attempt, ok := s.attempts[key]
	if !ok {
		attempt = domain.Attempt{UserID: userID, ScenarioID: scenarioID, Score: score}
	} else if score > attempt.Score {
		attempt.Score = score
	}
	attempt.CompletedAt = at
	s.attempts[key] = attempt
	return attempt, nil
}

func (s *AttemptStore) CountPerfect(_ context.Context, userID string, scenarioIDs []int64) (int, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	seen := make(map[int64]struct{}, len(scenarioIDs))
	count := 0
	for _, id := range scenarioIDs {
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if a, ok := s.attempts[attemptKey{userID: userID, scenarioID: id}]; ok && a.Score == 100 {
			count++
		}
	}
	return count, nil
}

func (s *AttemptStore) ListAttempts(_ context.Context, userID string) ([]domain.Attempt, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.Attempt, 0)
	for k, a := range s.attempts {
		if k.userID == userID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ScenarioID < out[j].ScenarioID })
	return out, nil
}

type levelKey struct {
	userID  string
	levelID int64
}

// ProgressStore is an in-memory implementation of app.ProgressStore.
type ProgressStore struct {
	mu       sync.RWMutex
	progress map[levelKey]domain.UserLevelProgress
}

func NewProgressStore() *ProgressStore {
	return &ProgressStore{progress: make(map[levelKey]domain.UserLevelProgress)}
}

func (s *ProgressStore) MarkPlayed(_ context.Context, userID string, levelID int64, completed bool, at time.Time) (domain.UserLevelProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := levelKey{userID: userID, levelID: levelID}
	p := s.progress[key]
	p.UserID, p.LevelID = userID, levelID
	p.Unlocked = true
	p.Completed = p.Completed || completed
	p.UpdatedAt = at
	s.progress[key] = p
	return p, nil
}

func (s *ProgressStore) Unlock(_ context.Context, userID string, levelID int64, at time.Time) (domain.UserLevelProgress, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	key := levelKey{userID: userID, levelID: levelID}
	p := s.progress[key]
	p.UserID, p.LevelID = userID, levelID
	p.Unlocked = true
	p.UpdatedAt = at
	s.progress[key] = p
	return p, nil
}

func (s *ProgressStore) ListProgress(_ context.Context, userID string) ([]domain.UserLevelProgress, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.UserLevelProgress, 0)
	for k, p := range s.progress {
		if k.userID == userID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].LevelID < out[j].LevelID })
	return out, nil
}

type badgeKey struct {
	userID  string
	badgeID int64
}

// BadgeStore is an in-memory implementation of app.BadgeStore. The map key
// plays the role of the unique (user, badge) index.
type BadgeStore struct {
	mu     sync.RWMutex
	grants map[badgeKey]domain.UserBadge
}

func NewBadgeStore() *BadgeStore {
	return &BadgeStore{grants: make(map[badgeKey]domain.UserBadge)}
}

func (s *BadgeStore) FindUserBadge(_ context.Context, userID string, badgeID int64) (domain.UserBadge, bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	g, ok := s.grants[badgeKey{userID: userID, badgeID: badgeID}]
	return g, ok, nil
}

func (s *BadgeStore) CreateUserBadge(_ context.Context, grant domain.UserBadge) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	key := badgeKey{userID: grant.UserID, badgeID: grant.BadgeID}
	if _, ok := s.grants[key]; ok {
		return domain.ErrConflict
	}
	s.grants[key] = grant
	return nil
}

func (s *BadgeStore) ListUserBadges(_ context.Context, userID string) ([]domain.UserBadge, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.UserBadge, 0)
	for k, g := range s.grants {
		if k.userID == userID {
			out = append(out, g)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].EarnedAt.Equal(out[j].EarnedAt) {
			return out[i].EarnedAt.Before(out[j].EarnedAt)
		}
		return out[i].BadgeID < out[j].BadgeID
	})
	return out, nil
}
