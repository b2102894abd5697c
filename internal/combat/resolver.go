// Package combat resolves battle actions and enemy decisions.
package combat

import (
	"github.com/samdwyer/turnbattle/internal/entity"
	"github.com/samdwyer/turnbattle/internal/gamedata"
)

// EffectResult contains the outcome of resolving an ability.
type EffectResult struct {
	Success        bool
	Ability        *gamedata.AbilityDef
	Target         *entity.Combatant
	Damage         int    // For damage abilities
	Healing        int    // HP actually restored by heal abilities
	TargetDefeated bool   // True if a damage ability left the target at 0 HP
	StatusAdded    string // Name of the status effect applied, if any
}

// EffectResolver calculates and applies ability effects.
type EffectResolver struct {
	abilityRegistry *gamedata.AbilityRegistry
}

// NewEffectResolver creates a new effect resolver.
func NewEffectResolver(abilityRegistry *gamedata.AbilityRegistry) *EffectResolver {
	return &EffectResolver{
		abilityRegistry: abilityRegistry,
	}
}

// Ability returns the definition for id, or nil if it is not registered.
func (r *EffectResolver) Ability(id string) *gamedata.AbilityDef {
	if r == nil || r.abilityRegistry == nil {
		return nil
	}
	return r.abilityRegistry.GetByID(id)
}

// Resolve applies the ability with the given id from user. Self-targeted
// abilities land on user, everything else on opponent.
func (r *EffectResolver) Resolve(abilityID string, user, opponent *entity.Combatant) EffectResult {
	ability := r.Ability(abilityID)
	if ability == nil || user == nil {
		return EffectResult{Success: false}
	}

	target := opponent
	if ability.TargetsSelf() {
		target = user
	}
	if target == nil {
		return EffectResult{Success: false, Ability: ability}
	}

	switch ability.EffectType {
	case gamedata.EffectDamage:
		return r.resolveDamage(ability, user, target)
	case gamedata.EffectHeal:
		return r.resolveHeal(ability, target)
	case gamedata.EffectBuff, gamedata.EffectDebuff:
		return r.resolveStatusEffect(ability, target)
	default:
		return EffectResult{Success: false, Ability: ability, Target: target}
	}
}

// resolveDamage hits the target with the user's effective attack plus the
// ability's base power; the target's defense is applied by TakeDamage.
func (r *EffectResolver) resolveDamage(ability *gamedata.AbilityDef, user, target *entity.Combatant) EffectResult {
	hit := target.TakeDamage(user.Attack() + ability.BasePower)

	result := EffectResult{
		Success:        true,
		Ability:        ability,
		Target:         target,
		Damage:         hit.Damage,
		TargetDefeated: hit.IsDead,
	}

	// A damage ability may also carry a status effect.
	if ability.HasStatus() && !hit.IsDead {
		target.AddStatusEffect(ability.StatusEffect())
		result.StatusAdded = ability.StatusName
	}

	return result
}

// resolveHeal restores basePower HP to the target.
func (r *EffectResolver) resolveHeal(ability *gamedata.AbilityDef, target *entity.Combatant) EffectResult {
	before := target.HP
	after := target.Heal(ability.BasePower)

	return EffectResult{
		Success: true,
		Ability: ability,
		Target:  target,
		Healing: after - before,
	}
}

// resolveStatusEffect handles buff and debuff abilities.
func (r *EffectResolver) resolveStatusEffect(ability *gamedata.AbilityDef, target *entity.Combatant) EffectResult {
	if !ability.HasStatus() {
		return EffectResult{Success: false, Ability: ability, Target: target}
	}

	target.AddStatusEffect(ability.StatusEffect())

	return EffectResult{
		Success:     true,
		Ability:     ability,
		Target:      target,
		StatusAdded: ability.StatusName,
	}
}
