package entity

const (
	startingLevel          = 1
	startingExpToNextLevel = 100

	levelUpHP      = 10
	levelUpAttack  = 2
	levelUpDefense = 1
)

// Progression holds player-only leveling and inventory data.
type Progression struct {
	Level                 int
	Experience            int
	ExperienceToNextLevel int
	Inventory             []Item
}

// NewProgression returns level 1 progression with an empty inventory.
func NewProgression() *Progression {
	return &Progression{
		Level:                 startingLevel,
		ExperienceToNextLevel: startingExpToNextLevel,
	}
}

// Level returns the player's level, or 0 for combatants without progression.
func (c *Combatant) Level() int {
	if c.Progression == nil {
		return 0
	}
	return c.Progression.Level
}

// GainExperience adds experience and levels up at most once.
// Leftover experience carries toward the next threshold.
func (c *Combatant) GainExperience(amount int) bool {
	p := c.Progression
	if p == nil || amount <= 0 {
		return false
	}
	p.Experience += amount
	if p.Experience >= p.ExperienceToNextLevel {
		c.LevelUp()
		return true
	}
	return false
}

// LevelUp raises the level, grows the threshold by half and improves stats.
// HP is fully restored to the new maximum.
func (c *Combatant) LevelUp() {
	p := c.Progression
	if p == nil {
		return
	}
	p.Level++
	p.Experience -= p.ExperienceToNextLevel
	if p.Experience < 0 {
		p.Experience = 0
	}
	p.ExperienceToNextLevel = p.ExperienceToNextLevel * 3 / 2

	c.MaxHP += levelUpHP
	c.HP = c.MaxHP
	c.BaseAttack += levelUpAttack
	c.BaseDefense += levelUpDefense
}
