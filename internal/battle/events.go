package battle

import (
	"github.com/google/uuid"

	"github.com/samdwyer/turnbattle/internal/entity"
)

// EventKind distinguishes what a subscriber is being told about.
type EventKind int

const (
	// EventLog carries a new battle log line.
	EventLog EventKind = iota
	// EventEnded carries the outcome of a finished battle.
	EventEnded
)

// Event is delivered to subscribers synchronously, in log order.
type Event struct {
	Kind     EventKind
	BattleID uuid.UUID
	Line     string  // set for EventLog
	Outcome  Outcome // set for EventEnded
}

// Listener receives session events. It runs on the caller's goroutine and
// must not drive the session re-entrantly.
type Listener func(Event)

// CombatantSnapshot is the display view of one combatant.
type CombatantSnapshot struct {
	Name    string
	HP      int
	MaxHP   int
	Attack  int
	Defense int
	Level   int
	Effects []string
}

// Snapshot is a point-in-time view of the battle for presentation.
type Snapshot struct {
	BattleID  uuid.UUID
	State     State
	Turn      Side
	TurnCount int
	Outcome   Outcome
	Player    CombatantSnapshot
	Enemy     CombatantSnapshot
	Log       []string // most recent lines, oldest first
}

func snapshotOf(c *entity.Combatant) CombatantSnapshot {
	if c == nil {
		return CombatantSnapshot{}
	}
	effects := c.StatusEffects()
	names := make([]string, 0, len(effects))
	for _, e := range effects {
		names = append(names, e.Name)
	}
	return CombatantSnapshot{
		Name:    c.Name,
		HP:      c.HP,
		MaxHP:   c.MaxHP,
		Attack:  c.Attack(),
		Defense: c.Defense(),
		Level:   c.Level(),
		Effects: names,
	}
}
