package domain

import "testing"

func testCatalog() *Catalog {
	return NewCatalog(CatalogData{
		Levels: []Level{
			{ID: 30, Position: 3, Title: "Advanced"},
			{ID: 10, Position: 1, Title: "Intro"},
			{ID: 20, Position: 2, Title: "Middle"},
		},
		Scenarios: []Scenario{
			{ID: 2, LevelID: 10},
			{ID: 1, LevelID: 10},
			{ID: 3, LevelID: 20},
		},
		Steps: []ScenarioStep{
			{ID: 11, ScenarioID: 1, Order: 2, CorrectOption: "B"},
			{ID: 10, ScenarioID: 1, Order: 1, CorrectOption: "A"},
		},
		Badges: []Badge{
			{ID: 8, LevelID: 10, Name: "Later"},
			{ID: 5, LevelID: 10, Name: "First"},
		},
	})
}

func TestCatalogNextLevelFollowsPosition(t *testing.T) {
	c := testCatalog()

	if first, ok := c.FirstLevelID(); !ok || first != 10 {
		t.Fatalf("expected first level 10, got %d", first)
	}
	if next, ok := c.NextLevelID(10); !ok || next != 20 {
		t.Fatalf("expected 20 after 10, got %d ok=%v", next, ok)
	}
	if next, ok := c.NextLevelID(20); !ok || next != 30 {
		t.Fatalf("expected 30 after 20, got %d ok=%v", next, ok)
	}
	if _, ok := c.NextLevelID(30); ok {
		t.Fatalf("last level must have no next")
	}
	if _, ok := c.NextLevelID(99); ok {
		t.Fatalf("unknown level must have no next")
	}
}

func TestCatalogNextLevelSkipsGapsInIDs(t *testing.T) {
	c := NewCatalog(CatalogData{Levels: []Level{{ID: 1, Position: 1}, {ID: 7, Position: 2}}})
	if next, ok := c.NextLevelID(1); !ok || next != 7 {
		t.Fatalf("expected 7 after 1, got %d", next)
	}
}

func TestCatalogStepsSortedAndCopied(t *testing.T) {
	c := testCatalog()

	steps := c.Steps(1)
	if len(steps) != 2 || steps[0].Order != 1 || steps[1].Order != 2 {
		t.Fatalf("steps not sorted: %+v", steps)
	}
	steps[0].CorrectOption = "Z"
	if c.Steps(1)[0].CorrectOption != "A" {
		t.Fatalf("Steps must return a copy")
	}
	if len(c.Steps(3)) != 0 {
		t.Fatalf("scenario without steps must return none")
	}
}

func TestCatalogScenariosByLevel(t *testing.T) {
	c := testCatalog()

	if n := c.CountScenarios(10); n != 2 {
		t.Fatalf("expected 2 scenarios in level 10, got %d", n)
	}
	if ids := c.ScenarioIDs(10); len(ids) != 2 || ids[0] != 1 || ids[1] != 2 {
		t.Fatalf("unexpected ids %v", ids)
	}
	if n := c.CountScenarios(30); n != 0 {
		t.Fatalf("expected empty level, got %d", n)
	}
}

func TestCatalogBadgePerLevel(t *testing.T) {
	c := testCatalog()

	b, ok := c.BadgeForLevel(10)
	if !ok || b.ID != 5 {
		t.Fatalf("expected lowest badge id 5, got %+v", b)
	}
	if _, ok := c.BadgeForLevel(20); ok {
		t.Fatalf("level 20 has no badge")
	}
	if b, ok := c.Badge(8); !ok || b.Name != "Later" {
		t.Fatalf("expected badge 8 by id, got %+v", b)
	}
}

func TestLevelState(t *testing.T) {
	cases := []struct {
		p    UserLevelProgress
		want LevelState
	}{
		{UserLevelProgress{}, StateLocked},
		{UserLevelProgress{Unlocked: true}, StateUnlocked},
		{UserLevelProgress{Unlocked: true, Completed: true}, StateCompleted},
	}
	for _, tc := range cases {
		if got := tc.p.State(); got != tc.want {
			t.Fatalf("State(%+v) = %s, want %s", tc.p, got, tc.want)
		}
	}
}
