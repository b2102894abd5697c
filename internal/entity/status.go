package entity

// Stat names a stat that status effects can modify.
type Stat string

const (
	StatAttack  Stat = "attack"
	StatDefense Stat = "defense"
)

// StatusEffect is a timed additive modifier on a combatant's stats.
type StatusEffect struct {
	Name           string
	RemainingTurns int
	StatChanges    map[Stat]int
}

// NewStatusEffect creates an effect lasting the given number of turns.
func NewStatusEffect(name string, turns int, changes map[Stat]int) StatusEffect {
	copied := make(map[Stat]int, len(changes))
	for stat, delta := range changes {
		copied[stat] = delta
	}
	return StatusEffect{
		Name:           name,
		RemainingTurns: turns,
		StatChanges:    copied,
	}
}

// StatusTick reports what happened to one effect during UpdateStatusEffects.
type StatusTick struct {
	Name  string
	Ended bool // True if the effect expired on this tick
}

// StatusEffects returns a copy of the active effects in application order.
func (c *Combatant) StatusEffects() []StatusEffect {
	out := make([]StatusEffect, len(c.effects))
	copy(out, c.effects)
	return out
}

// HasStatusEffect reports whether any active effect has the given name.
func (c *Combatant) HasStatusEffect(name string) bool {
	for _, e := range c.effects {
		if e.Name == name {
			return true
		}
	}
	return false
}

// AddStatusEffect appends an effect. Effects with the same name stack.
func (c *Combatant) AddStatusEffect(effect StatusEffect) {
	c.effects = append(c.effects, effect)
}

// UpdateStatusEffects counts every active effect down by one turn and drops
// the ones that reach zero. Effective stats are derived on read, so removing
// an effect is all it takes to restore its contribution.
func (c *Combatant) UpdateStatusEffects() []StatusTick {
	if len(c.effects) == 0 {
		return nil
	}

	ticks := make([]StatusTick, 0, len(c.effects))
	remaining := c.effects[:0]
	for _, effect := range c.effects {
		effect.RemainingTurns--
		tick := StatusTick{Name: effect.Name}
		if effect.RemainingTurns <= 0 {
			tick.Ended = true
		} else {
			remaining = append(remaining, effect)
		}
		ticks = append(ticks, tick)
	}

	// Clear the tail so expired maps are not kept alive by the backing array.
	for i := len(remaining); i < len(c.effects); i++ {
		c.effects[i] = StatusEffect{}
	}
	c.effects = remaining
	return ticks
}
