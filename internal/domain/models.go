package domain

import "time"

// Level is an ordered grouping of scenarios.
type Level struct {
	ID          int64  `json:"id" yaml:"id"`
	Position    int    `json:"position" yaml:"position"` // catalog order; ties fall back to ID
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// Scenario is a themed quiz made of ordered steps. It belongs to one level.
type Scenario struct {
	ID          int64  `json:"id" yaml:"id"`
	LevelID     int64  `json:"levelId" yaml:"level_id"`
	Title       string `json:"title" yaml:"title"`
	Description string `json:"description" yaml:"description"`
}

// Option is one labeled choice of a step (e.g. "A", "B").
type Option struct {
	Label string `json:"label" yaml:"label"`
	Text  string `json:"text" yaml:"text"`
}

// ScenarioStep models a multiple-choice question with a single correct label.
type ScenarioStep struct {
	ID            int64    `json:"id" yaml:"id"`
	ScenarioID    int64    `json:"scenarioId" yaml:"scenario_id"`
	Order         int      `json:"order" yaml:"order"`
	Question      string   `json:"question" yaml:"question"`
	Options       []Option `json:"options" yaml:"options"`
	CorrectOption string   `json:"correctOption" yaml:"correct_option"`
}

// Badge is awarded once per user when the linked level is completed.
type Badge struct {
	ID          int64  `json:"id" yaml:"id"`
	LevelID     int64  `json:"levelId" yaml:"level_id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	IconURL     string `json:"iconUrl" yaml:"icon_url"`
}

// Attempt is the best known result of one (user, scenario) pair.
type Attempt struct {
	UserID      string
	ScenarioID  int64
	Score       int
	CompletedAt time.Time
}

// UserLevelProgress is the per-user state of one level. Completed implies Unlocked.
type UserLevelProgress struct {
	UserID    string
	LevelID   int64
	Unlocked  bool
	Completed bool
	UpdatedAt time.Time
}

// UserBadge is a badge grant. At most one exists per (user, badge).
type UserBadge struct {
	UserID   string
	BadgeID  int64
	EarnedAt time.Time
}

// LevelState is the position of a level in the Locked -> Unlocked -> Completed machine.
type LevelState string

const (
	StateLocked    LevelState = "locked"
	StateUnlocked  LevelState = "unlocked"
	StateCompleted LevelState = "completed"
)

// State reports the level state implied by the stored flags.
func (p UserLevelProgress) State() LevelState {
	switch {
	case p.Completed:
		return StateCompleted
	case p.Unlocked:
		return StateUnlocked
	default:
		return StateLocked
	}
}
