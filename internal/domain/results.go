package domain

import "time"

// StepResult is the per-step outcome of a scored submission.
type StepResult struct {
	Order     int    `json:"order"`
	Submitted string `json:"submitted"`
	Correct   bool   `json:"correct"`
}

// ScoreResult is the output of the score engine.
type ScoreResult struct {
	Score        int
	AllCorrect   bool
	CorrectCount int
	Total        int
	Steps        []StepResult
}

// LevelEvaluation reports how close a user is to completing a level.
type LevelEvaluation struct {
	LevelID        int64
	PerfectCount   int
	TotalScenarios int
	Completed      bool
}

// ProgressOutcome is what the unlocker persisted for a submission.
type ProgressOutcome struct {
	Progress          UserLevelProgress
	NextLevelUnlocked *int64
}

// LevelProgress is either LevelNotCompleted or LevelCompleted.
type LevelProgress interface {
	ProgressLevelID() int64
	IsCompleted() bool
	levelProgress()
}

// LevelNotCompleted carries how many scenarios of the level are already perfect.
type LevelNotCompleted struct {
	LevelID        int64
	PerfectInLevel int
	TotalInLevel   int
}

func (p LevelNotCompleted) ProgressLevelID() int64 { return p.LevelID }
func (p LevelNotCompleted) IsCompleted() bool      { return false }
func (LevelNotCompleted) levelProgress()           {}

// LevelCompleted carries the next level unlocked by the completion, if any.
type LevelCompleted struct {
	LevelID           int64
	NextLevelUnlocked *int64
}

func (p LevelCompleted) ProgressLevelID() int64 { return p.LevelID }
func (p LevelCompleted) IsCompleted() bool      { return true }
func (LevelCompleted) levelProgress()           {}

// ScenarioView is the refreshed scenario returned with a submission.
type ScenarioView struct {
	ID          int64
	LevelID     int64
	Title       string
	Description string
	StepCount   int
	BestScore   *int
	CompletedAt *time.Time
}

// SubmissionResult is the assembled response of one scenario submission.
// LevelProgress and AwardedBadge stay nil for anonymous callers or when the
// progression stages could not run.
type SubmissionResult struct {
	Score           int
	AllCorrect      bool
	CorrectCount    int
	Total           int
	LevelID         int64
	ScenarioID      int64
	Steps           []StepResult
	LevelProgress   LevelProgress
	AwardedBadge    *Badge
	UpdatedScenario *ScenarioView
}

// LevelStatus is one row of a user's progress overview.
type LevelStatus struct {
	Level          Level
	State          LevelState
	PerfectInLevel int
	TotalInLevel   int
}

// EarnedBadge joins a grant with its catalog badge.
type EarnedBadge struct {
	Badge    Badge
	EarnedAt time.Time
}
