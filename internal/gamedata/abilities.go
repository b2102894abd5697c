package gamedata

import "github.com/samdwyer/turnbattle/internal/entity"

// =============================================================================
// ABILITY DATA
// =============================================================================
//
// Every battle action resolves through an ability definition so the numbers
// behind an action live in abilities.json rather than in the battle code:
//
//   strike      damage  opponent  effective attack + basePower
//   defend      buff    self      "Defending" defense +5 for 1 turn
//   potion      heal    self      basePower HP
//   regenerate  heal    self      basePower HP (enemy heal)
//   weaken      debuff  opponent  "Weakened" attack -5 for 2 turns
//
// JSON Schema:
// ------------
// {
//   "id": "defend",
//   "name": "Defend",
//   "effectType": "buff",
//   "targetType": "self",
//   "basePower": 0,
//   "statusName": "Defending",
//   "statusDuration": 1,
//   "statChanges": {"defense": 5}
// }

// EffectType represents what an ability does.
type EffectType string

const (
	EffectDamage EffectType = "damage"
	EffectHeal   EffectType = "heal"
	EffectBuff   EffectType = "buff"
	EffectDebuff EffectType = "debuff"
)

// TargetType represents who an ability affects.
type TargetType string

const (
	TargetSelf     TargetType = "self"
	TargetOpponent TargetType = "opponent"
)

// Ability IDs the battle resolves actions through.
const (
	AbilityStrike     = "strike"
	AbilityDefend     = "defend"
	AbilityPotion     = "potion"
	AbilityRegenerate = "regenerate"
	AbilityWeaken     = "weaken"
)

// AbilityDef defines an ability loaded from JSON.
type AbilityDef struct {
	ID             string              `json:"id" yaml:"id"`
	Name           string              `json:"name" yaml:"name"`
	Description    string              `json:"description" yaml:"description"`
	EffectType     EffectType          `json:"effectType" yaml:"effectType"`
	TargetType     TargetType          `json:"targetType" yaml:"targetType"`
	BasePower      int                 `json:"basePower" yaml:"basePower"`
	StatusName     string              `json:"statusName,omitempty" yaml:"statusName,omitempty"`
	StatusDuration int                 `json:"statusDuration,omitempty" yaml:"statusDuration,omitempty"`
	StatChanges    map[entity.Stat]int `json:"statChanges,omitempty" yaml:"statChanges,omitempty"`
}

// TargetsSelf returns true if the ability affects its user.
func (a *AbilityDef) TargetsSelf() bool {
	return a.TargetType == TargetSelf
}

// HasStatus returns true if the ability applies a status effect.
func (a *AbilityDef) HasStatus() bool {
	return a.StatusName != "" && a.StatusDuration > 0
}

// StatusEffect builds a fresh status effect from the definition.
func (a *AbilityDef) StatusEffect() entity.StatusEffect {
	return entity.NewStatusEffect(a.StatusName, a.StatusDuration, a.StatChanges)
}

// AbilitiesFile represents the structure of abilities.json.
type AbilitiesFile struct {
	Abilities []AbilityDef `json:"abilities" yaml:"abilities"`
}

// LoadAbilities loads ability definitions from the embedded abilities.json file.
func LoadAbilities() ([]AbilityDef, error) {
	file, err := Load[AbilitiesFile]("abilities.json")
	if err != nil {
		return nil, err
	}
	return file.Abilities, nil
}
