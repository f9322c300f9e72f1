package app

import (
	"sort"
	"strings"

	"firstaid-progress-service/internal/domain"
)

// ScoreAnswers grades answers against steps, ignoring case. answers[i] is matched to the
// i-th step in ascending Order; missing, empty or extra answers never fail,
// they are simply incorrect or ignored.
func ScoreAnswers(answers []string, steps []domain.ScenarioStep) (domain.ScoreResult, error) {
	if len(steps) == 0 {
		return domain.ScoreResult{}, domain.ErrNoSteps
	}

	ordered := append([]domain.ScenarioStep(nil), steps...)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].Order < ordered[j].Order })

	result := domain.ScoreResult{
		Total: len(ordered),
		Steps: make([]domain.StepResult, 0, len(ordered)),
	}
	for i, step := range ordered {
		submitted := ""
		if i < len(answers) {
			submitted = answers[i]
		}
		correct := submitted != "" && strings.ToUpper(submitted) == strings.ToUpper(step.CorrectOption)
		if correct {
			result.CorrectCount++
		}
		result.Steps = append(result.Steps, domain.StepResult{
			Order:     step.Order,
			Submitted: submitted,
			Correct:   correct,
		})
	}

	result.Score = percentRoundHalfUp(result.CorrectCount, result.Total)
	result.AllCorrect = result.CorrectCount == result.Total
	return result, nil
}

// percentRoundHalfUp returns round(part/total*100) with halves rounded up,
// in integer arithmetic so 0.5 boundaries are exact.
func percentRoundHalfUp(part, total int) int {
	if total <= 0 {
		return 0
	}
	return (200*part + total) / (2 * total)
}
