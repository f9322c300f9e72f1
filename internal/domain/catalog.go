package domain

import "sort"

// CatalogData is the raw, serializable form of the read-only catalog.
type CatalogData struct {
	Levels    []Level        `json:"levels" yaml:"levels"`
	Scenarios []Scenario     `json:"scenarios" yaml:"scenarios"`
	Steps     []ScenarioStep `json:"steps" yaml:"steps"`
	Badges    []Badge        `json:"badges" yaml:"badges"`
}

// Catalog is an indexed, immutable snapshot of CatalogData.
// It is safe for concurrent use once built.
type Catalog struct {
	data           CatalogData
	levels         []Level // sorted by Position, then ID
	levelIndex     map[int64]int
	scenarios      map[int64]Scenario
	steps          map[int64][]ScenarioStep
	levelScenarios map[int64][]int64
	badges         map[int64]Badge
}

// NewCatalog indexes data. Steps are sorted ascending by Order per scenario.
func NewCatalog(data CatalogData) *Catalog {
	c := &Catalog{
		data:           data,
		levelIndex:     make(map[int64]int, len(data.Levels)),
		scenarios:      make(map[int64]Scenario, len(data.Scenarios)),
		steps:          make(map[int64][]ScenarioStep),
		levelScenarios: make(map[int64][]int64),
		badges:         make(map[int64]Badge),
	}

	c.levels = append([]Level(nil), data.Levels...)
	sort.SliceStable(c.levels, func(i, j int) bool {
		if c.levels[i].Position != c.levels[j].Position {
			return c.levels[i].Position < c.levels[j].Position
		}
		return c.levels[i].ID < c.levels[j].ID
	})
	for i, l := range c.levels {
		c.levelIndex[l.ID] = i
	}

	for _, s := range data.Scenarios {
		c.scenarios[s.ID] = s
		c.levelScenarios[s.LevelID] = append(c.levelScenarios[s.LevelID], s.ID)
	}
	for levelID := range c.levelScenarios {
		ids := c.levelScenarios[levelID]
		sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	}

	for _, st := range data.Steps {
		c.steps[st.ScenarioID] = append(c.steps[st.ScenarioID], st)
	}
	for id := range c.steps {
		steps := c.steps[id]
		sort.SliceStable(steps, func(i, j int) bool { return steps[i].Order < steps[j].Order })
	}

	// One active badge per level; the lowest id wins if the data has more.
	for _, b := range data.Badges {
		if existing, ok := c.badges[b.LevelID]; ok && existing.ID < b.ID {
			continue
		}
		c.badges[b.LevelID] = b
	}
	return c
}

// Data returns the raw catalog used to build c.
func (c *Catalog) Data() CatalogData {
	return c.data
}

// Levels returns every level in catalog order.
func (c *Catalog) Levels() []Level {
	return append([]Level(nil), c.levels...)
}

// Level returns a level by id.
func (c *Catalog) Level(id int64) (Level, bool) {
	i, ok := c.levelIndex[id]
	if !ok {
		return Level{}, false
	}
	return c.levels[i], true
}

// FirstLevelID returns the first level in catalog order.
func (c *Catalog) FirstLevelID() (int64, bool) {
	if len(c.levels) == 0 {
		return 0, false
	}
	return c.levels[0].ID, true
}

// NextLevelID returns the level immediately after levelID in catalog order.
// The last level, or an unknown one, has no next level.
func (c *Catalog) NextLevelID(levelID int64) (int64, bool) {
	i, ok := c.levelIndex[levelID]
	if !ok || i+1 >= len(c.levels) {
		return 0, false
	}
	return c.levels[i+1].ID, true
}

// Scenario returns a scenario by id.
func (c *Catalog) Scenario(id int64) (Scenario, bool) {
	s, ok := c.scenarios[id]
	return s, ok
}

// Steps returns a copy of the scenario's steps sorted by Order.
func (c *Catalog) Steps(scenarioID int64) []ScenarioStep {
	return append([]ScenarioStep(nil), c.steps[scenarioID]...)
}

// ScenarioIDs returns the ids of every scenario in a level.
func (c *Catalog) ScenarioIDs(levelID int64) []int64 {
	return append([]int64(nil), c.levelScenarios[levelID]...)
}

// CountScenarios returns how many scenarios belong to a level.
func (c *Catalog) CountScenarios(levelID int64) int {
	return len(c.levelScenarios[levelID])
}

// BadgeForLevel returns the badge configured for a level, if any.
func (c *Catalog) BadgeForLevel(levelID int64) (Badge, bool) {
	b, ok := c.badges[levelID]
	return b, ok
}

// Badge returns a badge by id.
func (c *Catalog) Badge(id int64) (Badge, bool) {
	for _, b := range c.data.Badges {
		if b.ID == id {
			return b, true
		}
	}
	return Badge{}, false
}
