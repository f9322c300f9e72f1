package app

import "firstaid-progress-service/internal/domain"

func assembleResult(scenario domain.Scenario, stepCount int, score domain.ScoreResult) domain.SubmissionResult {
	return domain.SubmissionResult{
		Score:        score.Score,
		AllCorrect:   score.AllCorrect,
		CorrectCount: score.CorrectCount,
		Total:        score.Total,
		LevelID:      scenario.LevelID,
		ScenarioID:   scenario.ID,
		Steps:        score.Steps,
		UpdatedScenario: &domain.ScenarioView{
			ID:          scenario.ID,
			LevelID:     scenario.LevelID,
			Title:       scenario.Title,
			Description: scenario.Description,
			StepCount:   stepCount,
		},
	}
}

func withAttempt(res *domain.SubmissionResult, attempt domain.Attempt) {
	if res.UpdatedScenario == nil {
		return
	}
	best := attempt.Score
	at := attempt.CompletedAt
	res.UpdatedScenario.BestScore = &best
	res.UpdatedScenario.CompletedAt = &at
}

func levelProgressFrom(eval domain.LevelEvaluation, nextLevel *int64) domain.LevelProgress {
	if eval.Completed {
		return domain.LevelCompleted{LevelID: eval.LevelID, NextLevelUnlocked: nextLevel}
	}
	return domain.LevelNotCompleted{
		LevelID:        eval.LevelID,
		PerfectInLevel: eval.PerfectCount,
		TotalInLevel:   eval.TotalScenarios,
	}
}
