package battle

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
	"github.com/looplab/fsm"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/samdwyer/turnbattle/internal/combat"
	"github.com/samdwyer/turnbattle/internal/entity"
	"github.com/samdwyer/turnbattle/internal/gamedata"
	"github.com/samdwyer/turnbattle/internal/logger"
	"github.com/samdwyer/turnbattle/internal/telemetry"
)

// LogWindow is how many recent log lines the battle screen shows.
const LogWindow = 5

// DefaultEnemyDelay is the pause before the enemy acts.
const DefaultEnemyDelay = time.Second

// fsm event names.
const (
	eventStart        = "start"
	eventToEnemy      = "end_player_turn"
	eventToPlayer     = "end_enemy_turn"
	eventWin          = "win"
	eventLose         = "lose"
	eventEscape       = "escape"
	enterStateHandler = "enter_state"
)

// An escape succeeds when a roll exceeds runSuccessChance.
const runSuccessChance = 0.5

// requiredAbilities are the abilities battle actions resolve through.
var requiredAbilities = []string{
	gamedata.AbilityStrike,
	gamedata.AbilityDefend,
	gamedata.AbilityPotion,
	gamedata.AbilityRegenerate,
	gamedata.AbilityWeaken,
}

// EnemyFactory builds the opponent for a new battle.
type EnemyFactory func() *entity.Combatant

// Config holds the collaborators a Session needs. Zero values get defaults.
type Config struct {
	Abilities  *gamedata.AbilityRegistry // built-in abilities if nil
	Rand       combat.Rand               // time-seeded if nil
	Scheduler  Scheduler                 // ImmediateScheduler if nil
	EnemyDelay time.Duration             // DefaultEnemyDelay if zero
	Tracer     trace.Tracer              // global "battle" tracer if nil
}

// Session runs one battle at a time between a player and an enemy. It is not
// safe for concurrent use; the Scheduler must call back on the owning
// goroutine.
type Session struct {
	id      uuid.UUID
	machine *fsm.FSM

	player *entity.Combatant
	enemy  *entity.Combatant

	currentTurn Side
	turnCount   int
	outcome     Outcome
	log         []string

	resolver   *combat.EffectResolver
	rng        combat.Rand
	scheduler  Scheduler
	enemyDelay time.Duration
	pending    Timer

	listeners []Listener
	tracer    trace.Tracer
	logger    *logrus.Entry
}

// NewSession creates an idle session. It fails if the ability registry lacks
// any ability a battle action needs.
func NewSession(cfg Config) (*Session, error) {
	abilities := cfg.Abilities
	if abilities == nil {
		abilities = gamedata.MustLoadAbilityRegistry()
	}
	for _, id := range requiredAbilities {
		if abilities.GetByID(id) == nil {
			return nil, fmt.Errorf("%w: %q", ErrMissingAbility, id)
		}
	}
	rng := cfg.Rand
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	scheduler := cfg.Scheduler
	if scheduler == nil {
		scheduler = ImmediateScheduler{}
	}
	delay := cfg.EnemyDelay
	if delay <= 0 {
		delay = DefaultEnemyDelay
	}
	tracer := cfg.Tracer
	if tracer == nil {
		tracer = telemetry.Tracer("battle")
	}

	s := &Session{
		resolver:   combat.NewEffectResolver(abilities),
		rng:        rng,
		scheduler:  scheduler,
		enemyDelay: delay,
		tracer:     tracer,
		logger:     logger.Component("battle"),
	}
	s.machine = fsm.NewFSM(
		string(StateIdle),
		fsm.Events{
			{Name: eventStart, Src: []string{string(StateIdle), string(StateVictory), string(StateDefeat)}, Dst: string(StatePlayerAction)},
			{Name: eventToEnemy, Src: []string{string(StatePlayerAction)}, Dst: string(StateEnemyAction)},
			{Name: eventToPlayer, Src: []string{string(StateEnemyAction)}, Dst: string(StatePlayerAction)},
			{Name: eventWin, Src: []string{string(StatePlayerAction)}, Dst: string(StateVictory)},
			{Name: eventLose, Src: []string{string(StateEnemyAction)}, Dst: string(StateDefeat)},
			{Name: eventEscape, Src: []string{string(StatePlayerAction)}, Dst: string(StateIdle)},
		},
		fsm.Callbacks{
			enterStateHandler: func(_ context.Context, e *fsm.Event) {
				s.logger.WithFields(logrus.Fields{
					"battle": s.id.String(),
					"event":  e.Event,
					"from":   e.Src,
					"to":     e.Dst,
				}).Debug("Battle state changed.")
			},
		},
	)
	return s, nil
}

// ID identifies the current (or last) battle.
func (s *Session) ID() uuid.UUID { return s.id }

// State returns the current battle state.
func (s *Session) State() State { return State(s.machine.Current()) }

// CurrentTurn returns whose turn it is.
func (s *Session) CurrentTurn() Side { return s.currentTurn }

// TurnCount returns the number of completed turn handovers this battle.
func (s *Session) TurnCount() int { return s.turnCount }

// Outcome returns how the last battle ended, or OutcomeNone while one runs.
func (s *Session) Outcome() Outcome { return s.outcome }

// Player returns the player combatant.
func (s *Session) Player() *entity.Combatant { return s.player }

// Enemy returns the current enemy combatant.
func (s *Session) Enemy() *entity.Combatant { return s.enemy }

// Log returns a copy of every line logged this battle.
func (s *Session) Log() []string {
	out := make([]string, len(s.log))
	copy(out, s.log)
	return out
}

// RecentLog returns up to n of the newest log lines, oldest first.
func (s *Session) RecentLog(n int) []string {
	if n <= 0 {
		return nil
	}
	start := len(s.log) - n
	if start < 0 {
		start = 0
	}
	out := make([]string, len(s.log)-start)
	copy(out, s.log[start:])
	return out
}

// Snapshot returns the display view of the battle.
func (s *Session) Snapshot() Snapshot {
	return Snapshot{
		BattleID:  s.id,
		State:     s.State(),
		Turn:      s.currentTurn,
		TurnCount: s.turnCount,
		Outcome:   s.outcome,
		Player:    snapshotOf(s.player),
		Enemy:     snapshotOf(s.enemy),
		Log:       s.RecentLog(LogWindow),
	}
}

// Subscribe registers a listener for log lines and battle endings.
func (s *Session) Subscribe(l Listener) {
	if l != nil {
		s.listeners = append(s.listeners, l)
	}
}

// Tick advances presentation time. The core has no time-driven behavior.
func (s *Session) Tick(time.Duration) {}

// Close cancels a scheduled enemy turn, if any.
func (s *Session) Close() {
	s.cancelPending()
}

// StartNewBattle begins a battle against a fresh enemy from newEnemy. A nil
// player reuses the previous battle's player. The player is restored to full
// health with no status effects.
func (s *Session) StartNewBattle(ctx context.Context, player *entity.Combatant, newEnemy EnemyFactory) error {
	if s.State().InProgress() {
		return fmt.Errorf("%w: battle %s still in progress", ErrIllegalTransition, s.id)
	}
	if player == nil {
		player = s.player
	}
	if player == nil {
		return fmt.Errorf("%w: no player", ErrIllegalTransition)
	}
	if newEnemy == nil {
		return fmt.Errorf("%w: no enemy factory", ErrIllegalTransition)
	}
	enemy := newEnemy()
	if enemy == nil || !enemy.IsAlive() {
		return fmt.Errorf("%w: enemy factory returned no live enemy", ErrIllegalTransition)
	}

	s.cancelPending()
	player.Restore()

	s.id = uuid.New()
	s.player = player
	s.enemy = enemy
	s.currentTurn = SidePlayer
	s.turnCount = 0
	s.outcome = OutcomeNone
	s.log = nil

	ctx, span := s.tracer.Start(ctx, "battle.start")
	defer span.End()
	span.SetAttributes(
		attribute.String("battle.id", s.id.String()),
		attribute.String("player.name", player.Name),
		attribute.Int("player.level", player.Level()),
		attribute.String("enemy.name", enemy.Name),
		attribute.String("enemy.ai", enemy.Policy().String()),
	)

	if err := s.transition(ctx, eventStart); err != nil {
		return err
	}
	s.logger.WithFields(logrus.Fields{
		"battle": s.id.String(),
		"player": player.Name,
		"enemy":  enemy.Name,
	}).Info("Battle started.")

	s.appendLog("A new battle has begun!")
	s.appendLog("It's your turn.")
	return nil
}

// SubmitPlayerAction resolves the player's choice. It returns
// ErrInvalidAction outside the player's turn.
func (s *Session) SubmitPlayerAction(ctx context.Context, action Action) error {
	if s.State() != StatePlayerAction {
		return fmt.Errorf("%w: %s during %s", ErrInvalidAction, action, s.State())
	}

	ctx, span := s.tracer.Start(ctx, "battle.player_action")
	defer span.End()
	span.SetAttributes(
		attribute.String("battle.id", s.id.String()),
		attribute.String("action", action.String()),
		attribute.Int("turn", s.turnCount),
	)

	p, e := s.player, s.enemy
	switch action {
	case ActionAttack:
		res := s.resolver.Resolve(gamedata.AbilityStrike, p, e)
		span.SetAttributes(attribute.Int("damage", res.Damage))
		s.appendLog(fmt.Sprintf("%s attacks %s for %d damage!", p.Name, e.Name, res.Damage))
		if res.TargetDefeated {
			return s.win(ctx)
		}

	case ActionDefend:
		s.resolver.Resolve(gamedata.AbilityDefend, p, e)
		s.appendLog(fmt.Sprintf("%s takes a defensive stance!", p.Name))

	case ActionItem:
		res := s.resolver.Resolve(gamedata.AbilityPotion, p, e)
		amount := 0
		if res.Ability != nil {
			amount = res.Ability.BasePower
		}
		span.SetAttributes(attribute.Int("healing", res.Healing))
		s.appendLog(fmt.Sprintf("%s uses a potion and recovers %d HP!", p.Name, amount))

	case ActionRun:
		escaped := s.rng.Float64() > runSuccessChance
		span.SetAttributes(attribute.Bool("escaped", escaped))
		if escaped {
			s.appendLog(fmt.Sprintf("%s successfully escaped!", p.Name))
			return s.escape(ctx)
		}
		s.appendLog(fmt.Sprintf("%s failed to escape!", p.Name))

	default:
		return fmt.Errorf("%w: %d", ErrInvalidAction, int(action))
	}

	return s.endTurn(ctx)
}

// ResolveEnemyTurn lets the enemy act. Scheduled callbacks call it after the
// enemy delay; collaborators with their own timing may call it directly.
func (s *Session) ResolveEnemyTurn(ctx context.Context) error {
	if s.State() != StateEnemyAction || s.enemy == nil || !s.enemy.IsAlive() {
		return fmt.Errorf("%w: enemy turn during %s", ErrIllegalTransition, s.State())
	}
	s.cancelPending()

	ctx, span := s.tracer.Start(ctx, "battle.enemy_turn")
	defer span.End()

	p, e := s.player, s.enemy
	decision := combat.DecideAction(e, p, s.rng)
	res := s.resolver.Resolve(decision.Action.AbilityID(), e, p)
	span.SetAttributes(
		attribute.String("battle.id", s.id.String()),
		attribute.String("enemy.action", decision.Action.String()),
		attribute.Int("damage", res.Damage),
		attribute.Int("healing", res.Healing),
	)

	switch decision.Action {
	case combat.ActionHeal:
		amount := 0
		if res.Ability != nil {
			amount = res.Ability.BasePower
		}
		s.appendLog(fmt.Sprintf("%s heals itself for %d HP!", e.Name, amount))
	case combat.ActionSpecial:
		s.appendLog(fmt.Sprintf("%s weakens %s!", e.Name, p.Name))
	default:
		s.appendLog(fmt.Sprintf("%s attacks %s for %d damage!", e.Name, p.Name, res.Damage))
		if res.TargetDefeated {
			return s.lose(ctx)
		}
	}

	return s.endTurn(ctx)
}

// endTurn hands the turn to the other side. Status effects tick for the
// combatant whose turn is starting, so a one-turn buff lasts through the
// opponent's reply.
func (s *Session) endTurn(ctx context.Context) error {
	next := s.currentTurn.Other()
	incoming := s.player
	event := eventToPlayer
	if next == SideEnemy {
		incoming = s.enemy
		event = eventToEnemy
	}

	for _, tick := range incoming.UpdateStatusEffects() {
		if tick.Ended {
			s.logger.WithFields(logrus.Fields{
				"battle":    s.id.String(),
				"combatant": incoming.Name,
				"effect":    tick.Name,
			}).Debug("Status effect expired.")
		}
	}

	s.currentTurn = next
	s.turnCount++
	if err := s.transition(ctx, event); err != nil {
		return err
	}

	if next == SidePlayer {
		s.appendLog("It's your turn.")
		return nil
	}
	s.appendLog(fmt.Sprintf("It's %s's turn.", s.enemy.Name))
	s.scheduleEnemyTurn(ctx)
	return nil
}

// scheduleEnemyTurn arms the enemy's move. The callback is dropped if a
// different battle is running by the time it fires.
func (s *Session) scheduleEnemyTurn(ctx context.Context) {
	id := s.id
	ctx = context.WithoutCancel(ctx)
	s.pending = s.scheduler.AfterFunc(s.enemyDelay, func() {
		if s.id != id || s.State() != StateEnemyAction {
			return
		}
		if err := s.ResolveEnemyTurn(ctx); err != nil {
			s.logger.WithError(err).WithField("battle", id.String()).Warn("Scheduled enemy turn failed.")
		}
	})
}

func (s *Session) cancelPending() {
	if s.pending != nil {
		s.pending.Stop()
		s.pending = nil
	}
}

func (s *Session) win(ctx context.Context) error {
	if err := s.transition(ctx, eventWin); err != nil {
		return err
	}
	p, e := s.player, s.enemy
	s.appendLog(fmt.Sprintf("%s has been defeated!", e.Name))

	exp := e.ExperienceValue()
	s.appendLog(fmt.Sprintf("You gained %d experience!", exp))
	if p.GainExperience(exp) {
		s.appendLog(fmt.Sprintf("%s leveled up to level %d!", p.Name, p.Level()))
	}
	s.finish(ctx, OutcomeVictory)
	return nil
}

func (s *Session) lose(ctx context.Context) error {
	if err := s.transition(ctx, eventLose); err != nil {
		return err
	}
	s.appendLog(fmt.Sprintf("%s has been defeated!", s.player.Name))
	s.finish(ctx, OutcomeDefeat)
	return nil
}

func (s *Session) escape(ctx context.Context) error {
	if err := s.transition(ctx, eventEscape); err != nil {
		return err
	}
	s.finish(ctx, OutcomeEscaped)
	return nil
}

func (s *Session) finish(ctx context.Context, outcome Outcome) {
	s.outcome = outcome
	s.cancelPending()

	_, span := s.tracer.Start(ctx, "battle.end")
	span.SetAttributes(
		attribute.String("battle.id", s.id.String()),
		attribute.String("outcome", outcome.String()),
		attribute.Int("turns", s.turnCount),
		attribute.Int("player.hp", s.player.HP),
		attribute.Int("player.level", s.player.Level()),
	)
	span.End()

	s.logger.WithFields(logrus.Fields{
		"battle":  s.id.String(),
		"outcome": outcome.String(),
		"turns":   s.turnCount,
	}).Info("Battle ended.")

	s.emit(Event{Kind: EventEnded, BattleID: s.id, Outcome: outcome})
}

func (s *Session) transition(ctx context.Context, event string) error {
	if err := s.machine.Event(ctx, event); err != nil {
		var invalid fsm.InvalidEventError
		if errors.As(err, &invalid) {
			return fmt.Errorf("%w: %s from %s", ErrIllegalTransition, event, s.State())
		}
		return fmt.Errorf("battle %s: %w", event, err)
	}
	return nil
}

func (s *Session) appendLog(line string) {
	s.log = append(s.log, line)
	s.emit(Event{Kind: EventLog, BattleID: s.id, Line: line})
}

func (s *Session) emit(ev Event) {
	for _, l := range s.listeners {
		l(ev)
	}
}
