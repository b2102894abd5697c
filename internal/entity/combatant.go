// Package entity provides the combatants that take part in a battle.
package entity

// Kind distinguishes the variant data carried by a Combatant.
type Kind int

const (
	// KindPlayer combatants carry Progression data.
	KindPlayer Kind = iota
	// KindEnemy combatants carry Foe data.
	KindEnemy
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindPlayer:
		return "player"
	case KindEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// DamageResult is the outcome of a single hit.
type DamageResult struct {
	Damage int  // HP actually removed, always at least 1
	IsDead bool // True if the hit left the target at 0 HP
}

// Combatant is a battle participant. Player and enemy specific data hang off
// Progression and Foe; exactly one of them is set, matching Kind.
type Combatant struct {
	Name        string
	MaxHP       int
	HP          int
	BaseAttack  int
	BaseDefense int

	// Sprite is an opaque presentation handle. The battle core never reads it.
	Sprite any

	Kind        Kind
	Progression *Progression // KindPlayer only
	Foe         *Foe         // KindEnemy only

	effects []StatusEffect
}

// NewPlayer creates a level 1 player combatant at full health.
func NewPlayer(name string, maxHP, attack, defense int, sprite any) *Combatant {
	return &Combatant{
		Name:        name,
		MaxHP:       maxHP,
		HP:          maxHP,
		BaseAttack:  attack,
		BaseDefense: defense,
		Sprite:      sprite,
		Kind:        KindPlayer,
		Progression: NewProgression(),
	}
}

// NewEnemy creates an enemy combatant at full health.
func NewEnemy(name string, maxHP, attack, defense int, sprite any, experienceValue int, policy Policy) *Combatant {
	return &Combatant{
		Name:        name,
		MaxHP:       maxHP,
		HP:          maxHP,
		BaseAttack:  attack,
		BaseDefense: defense,
		Sprite:      sprite,
		Kind:        KindEnemy,
		Foe: &Foe{
			ExperienceValue: experienceValue,
			Policy:          policy,
		},
	}
}

// IsAlive returns true if the combatant has HP remaining.
func (c *Combatant) IsAlive() bool { return c.HP > 0 }

// IsPlayer reports whether the combatant is player controlled.
func (c *Combatant) IsPlayer() bool { return c.Kind == KindPlayer }

// Attack returns the effective attack: base plus all active effect deltas.
func (c *Combatant) Attack() int {
	return c.effective(StatAttack, c.BaseAttack)
}

// Defense returns the effective defense: base plus all active effect deltas.
func (c *Combatant) Defense() int {
	return c.effective(StatDefense, c.BaseDefense)
}

func (c *Combatant) effective(stat Stat, base int) int {
	v := base
	for _, e := range c.effects {
		v += e.StatChanges[stat]
	}
	if v < 0 {
		v = 0
	}
	return v
}

// TakeDamage applies an incoming hit reduced by effective defense.
// At least 1 damage is always dealt.
func (c *Combatant) TakeDamage(amount int) DamageResult {
	if amount < 0 {
		amount = 0
	}
	actual := amount - c.Defense()
	if actual < 1 {
		actual = 1
	}
	c.HP -= actual
	if c.HP < 0 {
		c.HP = 0
	}
	return DamageResult{Damage: actual, IsDead: c.HP == 0}
}

// Heal restores HP up to MaxHP and returns the new HP.
func (c *Combatant) Heal(amount int) int {
	if amount < 0 {
		amount = 0
	}
	c.HP += amount
	if c.HP > c.MaxHP {
		c.HP = c.MaxHP
	}
	return c.HP
}

// PerformAttack hits target with this combatant's effective attack.
func (c *Combatant) PerformAttack(target *Combatant) DamageResult {
	return target.TakeDamage(c.Attack())
}

// Restore refills HP and drops every active status effect.
func (c *Combatant) Restore() {
	c.HP = c.MaxHP
	c.effects = nil
}
