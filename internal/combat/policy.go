package combat

import (
	"github.com/samdwyer/turnbattle/internal/entity"
	"github.com/samdwyer/turnbattle/internal/gamedata"
)

// Action is an enemy decision.
type Action int

const (
	ActionAttack Action = iota
	ActionHeal
	ActionSpecial
)

// String returns a human-readable action name.
func (a Action) String() string {
	switch a {
	case ActionAttack:
		return "attack"
	case ActionHeal:
		return "heal"
	case ActionSpecial:
		return "special"
	default:
		return "unknown"
	}
}

// AbilityID returns the ability an enemy action resolves through.
func (a Action) AbilityID() string {
	switch a {
	case ActionHeal:
		return gamedata.AbilityRegenerate
	case ActionSpecial:
		return gamedata.AbilityWeaken
	default:
		return gamedata.AbilityStrike
	}
}

// Rand is the random source used for decisions and escape rolls.
// *math/rand.Rand satisfies it.
type Rand interface {
	Float64() float64
	Intn(n int) int
}

// Decision is the action an enemy chose and who it is aimed at.
type Decision struct {
	Action Action
	Target *entity.Combatant
}

// lowHealthNumerator / lowHealthDenominator is the HP fraction below which a
// defensive enemy considers healing.
const (
	lowHealthNumerator   = 3
	lowHealthDenominator = 10
)

// randomSlots are the choices of the random policy. The defend slot has no
// enemy resolution of its own and resolves as special.
var randomSlots = [...]Action{ActionAttack, ActionSpecial, ActionSpecial}

// DecideAction picks the enemy's next action. It has no side effects beyond
// drawing from rng.
func DecideAction(self, player *entity.Combatant, rng Rand) Decision {
	attack := Decision{Action: ActionAttack, Target: player}

	switch self.Policy() {
	case entity.PolicyAggressive:
		return attack

	case entity.PolicyDefensive:
		lowHealth := self.HP*lowHealthDenominator < self.MaxHP*lowHealthNumerator
		if lowHealth && rng.Float64() > 0.5 {
			return Decision{Action: ActionHeal, Target: self}
		}
		return attack

	case entity.PolicyRandom:
		choice := randomSlots[rng.Intn(len(randomSlots))]
		return Decision{Action: choice, Target: player}

	default:
		return attack
	}
}
