package http

import (
	"time"

	"firstaid-progress-service/internal/domain"
)

type levelProgressBody struct {
	LevelID           int64  `json:"level_id"`
	Completed         bool   `json:"completed"`
	NextLevelUnlocked *int64 `json:"next_level_unlocked,omitempty"`
	PerfectInLevel    *int   `json:"perfect_in_level,omitempty"`
	TotalInLevel      *int   `json:"total_in_level,omitempty"`
}

type badgeBody struct {
	BadgeID     int64  `json:"badge_id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	IconURL     string `json:"icon_url"`
}

type scenarioBody struct {
	ID          int64      `json:"id"`
	LevelID     int64      `json:"level_id"`
	Title       string     `json:"title"`
	Description string     `json:"description"`
	StepCount   int        `json:"step_count"`
	BestScore   *int       `json:"best_score,omitempty"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

type submissionBody struct {
	Score           int                 `json:"score"`
	AllCorrect      bool                `json:"all_correct"`
	CorrectCount    int                 `json:"correct_count"`
	Total           int                 `json:"total"`
	LevelID         int64               `json:"level_id"`
	ScenarioID      int64               `json:"scenario_id"`
	Steps           []domain.StepResult `json:"steps"`
	LevelProgress   *levelProgressBody  `json:"level_progress,omitempty"`
	AwardedBadge    *badgeBody          `json:"awarded_badge,omitempty"`
	UpdatedScenario *scenarioBody       `json:"updated_scenario,omitempty"`
}

func toSubmissionBody(res domain.SubmissionResult) submissionBody {
	out := submissionBody{
		Score:        res.Score,
		AllCorrect:   res.AllCorrect,
		CorrectCount: res.CorrectCount,
		Total:        res.Total,
		LevelID:      res.LevelID,
		ScenarioID:   res.ScenarioID,
		Steps:        res.Steps,
	}

	switch p := res.LevelProgress.(type) {
	case domain.LevelCompleted:
		out.LevelProgress = &levelProgressBody{
			LevelID:           p.LevelID,
			Completed:         true,
			NextLevelUnlocked: p.NextLevelUnlocked,
		}
	case domain.LevelNotCompleted:
		perfect, total := p.PerfectInLevel, p.TotalInLevel
		out.LevelProgress = &levelProgressBody{
			LevelID:        p.LevelID,
			PerfectInLevel: &perfect,
			TotalInLevel:   &total,
		}
	}

	if b := res.AwardedBadge; b != nil {
		out.AwardedBadge = &badgeBody{BadgeID: b.ID, Name: b.Name, Description: b.Description, IconURL: b.IconURL}
	}
	if v := res.UpdatedScenario; v != nil {
		out.UpdatedScenario = &scenarioBody{
			ID:          v.ID,
			LevelID:     v.LevelID,
			Title:       v.Title,
			Description: v.Description,
			StepCount:   v.StepCount,
			BestScore:   v.BestScore,
			CompletedAt: v.CompletedAt,
		}
	}
	return out
}

type levelStatusBody struct {
	LevelID        int64  `json:"level_id"`
	Position       int    `json:"position"`
	Title          string `json:"title"`
	State          string `json:"state"`
	PerfectInLevel int    `json:"perfect_in_level"`
	TotalInLevel   int    `json:"total_in_level"`
}

func toLevelStatusBodies(levels []domain.LevelStatus) []levelStatusBody {
	out := make([]levelStatusBody, 0, len(levels))
	for _, l := range levels {
		out = append(out, levelStatusBody{
			LevelID:        l.Level.ID,
			Position:       l.Level.Position,
			Title:          l.Level.Title,
			State:          string(l.State),
			PerfectInLevel: l.PerfectInLevel,
			TotalInLevel:   l.TotalInLevel,
		})
	}
	return out
}

type earnedBadgeBody struct {
	badgeBody
	LevelID  int64     `json:"level_id"`
	EarnedAt time.Time `json:"earned_at"`
}

func toEarnedBadgeBodies(badges []domain.EarnedBadge) []earnedBadgeBody {
	out := make([]earnedBadgeBody, 0, len(badges))
	for _, b := range badges {
		out = append(out, earnedBadgeBody{
			badgeBody: badgeBody{
				BadgeID:     b.Badge.ID,
				Name:        b.Badge.Name,
				Description: b.Badge.Description,
				IconURL:     b.Badge.IconURL,
			},
			LevelID:  b.Badge.LevelID,
			EarnedAt: b.EarnedAt,
		})
	}
	return out
}

type errorBody struct {
	Error string `json:"error"`
}
