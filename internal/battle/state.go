// Package battle implements the one-on-one battle state machine: turn
// sequencing, action resolution, victory and defeat detection, and the
// battle log.
package battle

// State is the battle state. Values double as looplab/fsm state names.
type State string

const (
	// StateIdle means no battle is running.
	StateIdle State = "idle"
	// StatePlayerAction is waiting for the player's choice.
	StatePlayerAction State = "playerAction"
	// StateEnemyAction is waiting for the scheduled enemy resolution.
	StateEnemyAction State = "enemyAction"
	// StateVictory is terminal: the enemy was defeated.
	StateVictory State = "victory"
	// StateDefeat is terminal: the player was defeated.
	StateDefeat State = "defeat"
)

// String returns the state name.
func (s State) String() string { return string(s) }

// IsTerminal reports whether no further turns can be processed.
func (s State) IsTerminal() bool {
	return s == StateVictory || s == StateDefeat
}

// InProgress reports whether a battle is currently being fought.
func (s State) InProgress() bool {
	return s == StatePlayerAction || s == StateEnemyAction
}

// Side identifies whose turn it is.
type Side int

const (
	SidePlayer Side = iota
	SideEnemy
)

// String returns a human-readable side name.
func (s Side) String() string {
	switch s {
	case SidePlayer:
		return "player"
	case SideEnemy:
		return "enemy"
	default:
		return "unknown"
	}
}

// Other returns the opposing side.
func (s Side) Other() Side {
	if s == SidePlayer {
		return SideEnemy
	}
	return SidePlayer
}

// Action is a player's choice on their turn.
type Action int

const (
	ActionAttack Action = iota
	ActionDefend
	ActionItem
	ActionRun
)

// String returns the action name.
func (a Action) String() string {
	switch a {
	case ActionAttack:
		return "attack"
	case ActionDefend:
		return "defend"
	case ActionItem:
		return "item"
	case ActionRun:
		return "run"
	default:
		return "unknown"
	}
}

// Outcome is how a battle ended.
type Outcome int

const (
	OutcomeNone Outcome = iota
	OutcomeVictory
	OutcomeDefeat
	OutcomeEscaped
)

// String returns the outcome name.
func (o Outcome) String() string {
	switch o {
	case OutcomeNone:
		return "none"
	case OutcomeVictory:
		return "victory"
	case OutcomeDefeat:
		return "defeat"
	case OutcomeEscaped:
		return "escaped"
	default:
		return "unknown"
	}
}
