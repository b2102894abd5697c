package battle

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/samdwyer/turnbattle/internal/entity"
	"github.com/samdwyer/turnbattle/internal/gamedata"
	"github.com/samdwyer/turnbattle/internal/telemetry"
)

// scriptedRand replays fixed draws, then returns zero.
type scriptedRand struct {
	floats []float64
	ints   []int
}

func (r *scriptedRand) Float64() float64 {
	if len(r.floats) == 0 {
		return 0
	}
	v := r.floats[0]
	r.floats = r.floats[1:]
	return v
}

func (r *scriptedRand) Intn(n int) int {
	if len(r.ints) == 0 {
		return 0
	}
	v := r.ints[0]
	r.ints = r.ints[1:]
	return v % n
}

func newTestSession(t *testing.T, rng *scriptedRand) (*Session, *ManualScheduler) {
	t.Helper()
	if rng == nil {
		rng = &scriptedRand{}
	}
	sched := NewManualScheduler()
	s, err := NewSession(Config{
		Rand:      rng,
		Scheduler: sched,
		Tracer:    telemetry.NoopTracer(),
	})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	return s, sched
}

func newHero() *entity.Combatant {
	return entity.NewPlayer("Hero", 100, 20, 5, nil)
}

func goblinFactory() *entity.Combatant {
	return entity.NewEnemy("Goblin", 50, 10, 3, nil, 10, entity.PolicyAggressive)
}

func enemyFactory(e *entity.Combatant) EnemyFactory {
	return func() *entity.Combatant { return e }
}

func mustStart(t *testing.T, s *Session, player *entity.Combatant, f EnemyFactory) {
	t.Helper()
	if err := s.StartNewBattle(context.Background(), player, f); err != nil {
		t.Fatalf("StartNewBattle() error = %v", err)
	}
}

func mustAct(t *testing.T, s *Session, a Action) {
	t.Helper()
	if err := s.SubmitPlayerAction(context.Background(), a); err != nil {
		t.Fatalf("SubmitPlayerAction(%s) error = %v", a, err)
	}
}

func lastLine(s *Session) string {
	log := s.Log()
	if len(log) == 0 {
		return ""
	}
	return log[len(log)-1]
}

func TestNewSessionIsIdle(t *testing.T) {
	s, _ := newTestSession(t, nil)
	if s.State() != StateIdle {
		t.Errorf("State() = %s, want idle", s.State())
	}
	if len(s.Log()) != 0 {
		t.Errorf("Log() = %v, want empty", s.Log())
	}
}

func TestStartNewBattle(t *testing.T) {
	s, _ := newTestSession(t, nil)
	hero := newHero()
	mustStart(t, s, hero, goblinFactory)

	if s.State() != StatePlayerAction {
		t.Errorf("State() = %s, want playerAction", s.State())
	}
	if s.CurrentTurn() != SidePlayer {
		t.Errorf("CurrentTurn() = %s, want player", s.CurrentTurn())
	}
	if s.TurnCount() != 0 {
		t.Errorf("TurnCount() = %d, want 0", s.TurnCount())
	}
	want := []string{"A new battle has begun!", "It's your turn."}
	got := s.Log()
	if len(got) != len(want) {
		t.Fatalf("Log() = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Log()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if s.Player() != hero || s.Enemy().Name != "Goblin" {
		t.Error("session should hold the given player and a fresh goblin")
	}
}

func TestFullBattleToVictory(t *testing.T) {
	s, sched := newTestSession(t, nil)
	hero := newHero()
	mustStart(t, s, hero, goblinFactory)
	goblin := s.Enemy()

	mustAct(t, s, ActionAttack)
	if goblin.HP != 33 {
		t.Fatalf("goblin HP = %d, want 33", goblin.HP)
	}
	if s.State() != StateEnemyAction {
		t.Fatalf("State() = %s, want enemyAction", s.State())
	}
	if sched.Pending() != 1 {
		t.Fatalf("Pending() = %d, want 1 scheduled enemy turn", sched.Pending())
	}

	// Nothing happens before the delay elapses.
	sched.Advance(DefaultEnemyDelay / 2)
	if hero.HP != 100 {
		t.Fatalf("enemy acted early, hero HP = %d", hero.HP)
	}
	sched.Advance(DefaultEnemyDelay / 2)
	if hero.HP != 95 {
		t.Fatalf("hero HP = %d, want 95", hero.HP)
	}
	if s.State() != StatePlayerAction {
		t.Fatalf("State() = %s, want playerAction", s.State())
	}

	mustAct(t, s, ActionAttack)
	if goblin.HP != 16 {
		t.Fatalf("goblin HP = %d, want 16", goblin.HP)
	}
	sched.Advance(DefaultEnemyDelay)
	if hero.HP != 90 {
		t.Fatalf("hero HP = %d, want 90", hero.HP)
	}

	mustAct(t, s, ActionAttack)
	if goblin.HP != 0 {
		t.Fatalf("goblin HP = %d, want 0", goblin.HP)
	}
	if s.State() != StateVictory {
		t.Fatalf("State() = %s, want victory", s.State())
	}
	if s.Outcome() != OutcomeVictory {
		t.Errorf("Outcome() = %s, want victory", s.Outcome())
	}
	if hero.Progression.Experience != 10 {
		t.Errorf("hero experience = %d, want 10", hero.Progression.Experience)
	}
	if s.TurnCount() != 4 {
		t.Errorf("TurnCount() = %d, want 4", s.TurnCount())
	}
	if sched.Pending() != 0 {
		t.Errorf("Pending() = %d, want nothing scheduled after victory", sched.Pending())
	}

	want := []string{
		"A new battle has begun!",
		"It's your turn.",
		"Hero attacks Goblin for 17 damage!",
		"It's Goblin's turn.",
		"Goblin attacks Hero for 5 damage!",
		"It's your turn.",
		"Hero attacks Goblin for 17 damage!",
		"It's Goblin's turn.",
		"Goblin attacks Hero for 5 damage!",
		"It's your turn.",
		"Hero attacks Goblin for 17 damage!",
		"Goblin has been defeated!",
		"You gained 10 experience!",
	}
	got := s.Log()
	if len(got) != len(want) {
		t.Fatalf("Log() has %d lines, want %d:\n%v", len(got), len(want), got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Log()[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestDefendBlocksOneEnemyAttack(t *testing.T) {
	s, sched := newTestSession(t, nil)
	hero := newHero()
	brute := entity.NewEnemy("Brute", 50, 20, 3, nil, 10, entity.PolicyAggressive)
	mustStart(t, s, hero, enemyFactory(brute))

	mustAct(t, s, ActionDefend)
	if !hero.HasStatusEffect("Defending") {
		t.Fatal("defend should add the Defending effect")
	}
	if hero.Defense() != 10 {
		t.Errorf("Defense() while defending = %d, want 10", hero.Defense())
	}
	if lastLine(s) != "It's Brute's turn." {
		t.Errorf("last line = %q", lastLine(s))
	}

	sched.Advance(DefaultEnemyDelay)
	// 20 - (5+5) instead of 20 - 5.
	if hero.HP != 90 {
		t.Errorf("hero HP = %d, want 90", hero.HP)
	}
	if hero.HasStatusEffect("Defending") {
		t.Error("Defending should expire when the player's next turn starts")
	}
	if hero.Defense() != 5 {
		t.Errorf("Defense() after expiry = %d, want 5", hero.Defense())
	}

	mustAct(t, s, ActionAttack)
	sched.Advance(DefaultEnemyDelay)
	if hero.HP != 75 {
		t.Errorf("hero HP = %d, want 75 after an undefended hit", hero.HP)
	}
}

func TestItemHealsPlayer(t *testing.T) {
	s, sched := newTestSession(t, nil)
	hero := newHero()
	brute := entity.NewEnemy("Brute", 50, 45, 3, nil, 10, entity.PolicyAggressive)
	mustStart(t, s, hero, enemyFactory(brute))

	mustAct(t, s, ActionAttack)
	sched.Advance(DefaultEnemyDelay)
	if hero.HP != 60 {
		t.Fatalf("hero HP = %d, want 60", hero.HP)
	}

	mustAct(t, s, ActionItem)
	if hero.HP != 80 {
		t.Errorf("hero HP = %d, want 80", hero.HP)
	}
	log := s.Log()
	if got := log[len(log)-2]; got != "Hero uses a potion and recovers 20 HP!" {
		t.Errorf("item line = %q", got)
	}
	if len(hero.Inventory()) != 0 {
		t.Errorf("the item action does not consume inventory, got %v", hero.Inventory())
	}
}

func TestRunAction(t *testing.T) {
	tests := []struct {
		name      string
		roll      float64
		wantState State
		wantLine  string
		wantOut   Outcome
	}{
		{"success", 0.9, StateIdle, "Hero successfully escaped!", OutcomeEscaped},
		{"failure", 0.1, StateEnemyAction, "Hero failed to escape!", OutcomeNone},
		{"boundary fails", 0.5, StateEnemyAction, "Hero failed to escape!", OutcomeNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s, _ := newTestSession(t, &scriptedRand{floats: []float64{tt.roll}})
			var ended []Outcome
			s.Subscribe(func(ev Event) {
				if ev.Kind == EventEnded {
					ended = append(ended, ev.Outcome)
				}
			})
			mustStart(t, s, newHero(), goblinFactory)
			mustAct(t, s, ActionRun)

			if s.State() != tt.wantState {
				t.Errorf("State() = %s, want %s", s.State(), tt.wantState)
			}
			if s.Outcome() != tt.wantOut {
				t.Errorf("Outcome() = %s, want %s", s.Outcome(), tt.wantOut)
			}
			found := false
			for _, line := range s.Log() {
				if line == tt.wantLine {
					found = true
				}
			}
			if !found {
				t.Errorf("Log() = %v, missing %q", s.Log(), tt.wantLine)
			}
			if tt.wantOut == OutcomeEscaped && (len(ended) != 1 || ended[0] != OutcomeEscaped) {
				t.Errorf("ended events = %v, want [escaped]", ended)
			}
			if tt.wantOut == OutcomeNone && len(ended) != 0 {
				t.Errorf("ended events = %v, want none", ended)
			}
		})
	}
}

func TestSubmitPlayerActionOutsidePlayerTurn(t *testing.T) {
	s, _ := newTestSession(t, nil)
	ctx := context.Background()

	if err := s.SubmitPlayerAction(ctx, ActionAttack); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("idle SubmitPlayerAction() error = %v, want ErrInvalidAction", err)
	}

	mustStart(t, s, newHero(), goblinFactory)
	mustAct(t, s, ActionAttack)
	before := len(s.Log())
	enemyHP := s.Enemy().HP

	if err := s.SubmitPlayerAction(ctx, ActionAttack); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("enemy-turn SubmitPlayerAction() error = %v, want ErrInvalidAction", err)
	}
	if len(s.Log()) != before {
		t.Error("a rejected action must not add log lines")
	}
	if s.Enemy().HP != enemyHP {
		t.Error("a rejected action must not change the enemy")
	}
}

func TestSubmitUnknownAction(t *testing.T) {
	s, _ := newTestSession(t, nil)
	mustStart(t, s, newHero(), goblinFactory)
	before := len(s.Log())

	err := s.SubmitPlayerAction(context.Background(), Action(42))
	if !errors.Is(err, ErrInvalidAction) {
		t.Errorf("error = %v, want ErrInvalidAction", err)
	}
	if s.State() != StatePlayerAction || len(s.Log()) != before {
		t.Error("an unknown action must leave the battle untouched")
	}
}

func TestIllegalTransitions(t *testing.T) {
	s, _ := newTestSession(t, nil)
	ctx := context.Background()

	if err := s.ResolveEnemyTurn(ctx); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("idle ResolveEnemyTurn() error = %v, want ErrIllegalTransition", err)
	}
	if err := s.StartNewBattle(ctx, nil, goblinFactory); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("StartNewBattle() without a player error = %v, want ErrIllegalTransition", err)
	}
	if err := s.StartNewBattle(ctx, newHero(), nil); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("StartNewBattle() without a factory error = %v, want ErrIllegalTransition", err)
	}
	if err := s.StartNewBattle(ctx, newHero(), enemyFactory(nil)); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("StartNewBattle() with a nil enemy error = %v, want ErrIllegalTransition", err)
	}

	mustStart(t, s, newHero(), goblinFactory)
	before := len(s.Log())
	id := s.ID()

	if err := s.ResolveEnemyTurn(ctx); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("player-turn ResolveEnemyTurn() error = %v, want ErrIllegalTransition", err)
	}
	if err := s.StartNewBattle(ctx, nil, goblinFactory); !errors.Is(err, ErrIllegalTransition) {
		t.Errorf("StartNewBattle() mid-battle error = %v, want ErrIllegalTransition", err)
	}
	if len(s.Log()) != before || s.ID() != id {
		t.Error("illegal transitions must not touch the battle")
	}
}

func TestResolveEnemyTurnDirectlyCancelsSchedule(t *testing.T) {
	s, sched := newTestSession(t, nil)
	hero := newHero()
	mustStart(t, s, hero, goblinFactory)
	mustAct(t, s, ActionAttack)

	if err := s.ResolveEnemyTurn(context.Background()); err != nil {
		t.Fatalf("ResolveEnemyTurn() error = %v", err)
	}
	if hero.HP != 95 {
		t.Fatalf("hero HP = %d, want 95", hero.HP)
	}
	if ran := sched.Advance(DefaultEnemyDelay); ran != 0 {
		t.Errorf("Advance() ran %d callbacks, want the resolved turn cancelled", ran)
	}
	if hero.HP != 95 {
		t.Errorf("enemy acted twice, hero HP = %d", hero.HP)
	}
}

func TestCloseCancelsPendingEnemyTurn(t *testing.T) {
	s, sched := newTestSession(t, nil)
	mustStart(t, s, newHero(), goblinFactory)
	mustAct(t, s, ActionAttack)

	s.Close()
	if sched.Pending() != 0 {
		t.Errorf("Pending() = %d, want 0", sched.Pending())
	}
	if s.State() != StateEnemyAction {
		t.Errorf("State() = %s, want enemyAction", s.State())
	}
}

func TestDefeatAndRestart(t *testing.T) {
	s, sched := newTestSession(t, nil)
	hero := entity.NewPlayer("Hero", 10, 1, 0, nil)
	mustStart(t, s, hero, goblinFactory)

	mustAct(t, s, ActionAttack)
	sched.Advance(DefaultEnemyDelay)

	if s.State() != StateDefeat {
		t.Fatalf("State() = %s, want defeat", s.State())
	}
	if s.Outcome() != OutcomeDefeat {
		t.Errorf("Outcome() = %s, want defeat", s.Outcome())
	}
	if lastLine(s) != "Hero has been defeated!" {
		t.Errorf("last line = %q", lastLine(s))
	}
	if err := s.SubmitPlayerAction(context.Background(), ActionAttack); !errors.Is(err, ErrInvalidAction) {
		t.Errorf("post-defeat action error = %v, want ErrInvalidAction", err)
	}

	oldID := s.ID()
	mustStart(t, s, nil, goblinFactory)
	if s.Player() != hero {
		t.Error("a nil player should reuse the previous player")
	}
	if hero.HP != hero.MaxHP {
		t.Errorf("hero HP = %d, want restored to %d", hero.HP, hero.MaxHP)
	}
	if s.ID() == oldID {
		t.Error("a new battle should get a new id")
	}
	if len(s.Log()) != 2 {
		t.Errorf("Log() = %v, want a fresh log", s.Log())
	}
}

func TestVictoryLevelUp(t *testing.T) {
	s, _ := newTestSession(t, nil)
	hero := newHero()
	boss := entity.NewEnemy("Slime", 1, 1, 0, nil, 100, entity.PolicyAggressive)
	mustStart(t, s, hero, enemyFactory(boss))

	mustAct(t, s, ActionAttack)

	if hero.Level() != 2 {
		t.Errorf("Level() = %d, want 2", hero.Level())
	}
	if lastLine(s) != "Hero leveled up to level 2!" {
		t.Errorf("last line = %q", lastLine(s))
	}
}

func TestEnemyWeakensPlayer(t *testing.T) {
	s, sched := newTestSession(t, &scriptedRand{ints: []int{1}})
	hero := newHero()
	imp := entity.NewEnemy("Imp", 50, 12, 3, nil, 15, entity.PolicyRandom)
	mustStart(t, s, hero, enemyFactory(imp))

	mustAct(t, s, ActionAttack)
	sched.Advance(DefaultEnemyDelay)

	log := s.Log()
	if got := log[len(log)-2]; got != "Imp weakens Hero!" {
		t.Errorf("enemy line = %q", got)
	}
	if hero.HP != 100 {
		t.Errorf("weaken should not damage, hero HP = %d", hero.HP)
	}
	// Weakened lasts two turns; one tick has run.
	if hero.Attack() != 15 {
		t.Errorf("Attack() = %d, want 15", hero.Attack())
	}

	impHP := imp.HP
	mustAct(t, s, ActionAttack)
	if dmg := impHP - imp.HP; dmg != 12 {
		t.Errorf("weakened attack dealt %d, want 12", dmg)
	}

	sched.Advance(DefaultEnemyDelay)
	if hero.HasStatusEffect("Weakened") {
		t.Error("Weakened should expire after its second tick")
	}
	if hero.Attack() != 20 {
		t.Errorf("Attack() after expiry = %d, want 20", hero.Attack())
	}
}

func TestDefensiveEnemyHeals(t *testing.T) {
	s, sched := newTestSession(t, &scriptedRand{floats: []float64{0.9}})
	hero := newHero()
	orc := entity.NewEnemy("Orc", 100, 14, 4, nil, 25, entity.PolicyDefensive)
	orc.HP = 40
	mustStart(t, s, hero, enemyFactory(orc))

	mustAct(t, s, ActionAttack)
	if orc.HP != 24 {
		t.Fatalf("orc HP = %d, want 24", orc.HP)
	}
	sched.Advance(DefaultEnemyDelay)

	if orc.HP != 34 {
		t.Errorf("orc HP = %d, want 34", orc.HP)
	}
	log := s.Log()
	if got := log[len(log)-2]; got != "Orc heals itself for 10 HP!" {
		t.Errorf("enemy line = %q", got)
	}
	if hero.HP != 100 {
		t.Errorf("hero HP = %d, want untouched", hero.HP)
	}
}

func TestSubscribeMirrorsLog(t *testing.T) {
	s, sched := newTestSession(t, nil)
	var lines []string
	var ended []Outcome
	s.Subscribe(func(ev Event) {
		switch ev.Kind {
		case EventLog:
			lines = append(lines, ev.Line)
		case EventEnded:
			ended = append(ended, ev.Outcome)
		}
	})

	mustStart(t, s, newHero(), goblinFactory)
	for s.State() == StatePlayerAction {
		mustAct(t, s, ActionAttack)
		sched.Advance(DefaultEnemyDelay)
	}

	log := s.Log()
	if len(lines) != len(log) {
		t.Fatalf("subscriber saw %d lines, log has %d", len(lines), len(log))
	}
	for i := range log {
		if lines[i] != log[i] {
			t.Errorf("line %d = %q, want %q", i, lines[i], log[i])
		}
	}
	if len(ended) != 1 || ended[0] != OutcomeVictory {
		t.Errorf("ended = %v, want [victory]", ended)
	}
}

func TestRecentLogAndSnapshot(t *testing.T) {
	s, sched := newTestSession(t, nil)
	mustStart(t, s, newHero(), goblinFactory)
	mustAct(t, s, ActionDefend)
	sched.Advance(DefaultEnemyDelay)

	if got := s.RecentLog(0); got != nil {
		t.Errorf("RecentLog(0) = %v, want nil", got)
	}
	if got := s.RecentLog(100); len(got) != len(s.Log()) {
		t.Errorf("RecentLog(100) has %d lines, want all %d", len(got), len(s.Log()))
	}

	snap := s.Snapshot()
	if len(snap.Log) != LogWindow {
		t.Fatalf("Snapshot().Log has %d lines, want %d", len(snap.Log), LogWindow)
	}
	if snap.Log[LogWindow-1] != "It's your turn." {
		t.Errorf("newest line = %q", snap.Log[LogWindow-1])
	}
	if snap.State != StatePlayerAction || snap.Turn != SidePlayer || snap.TurnCount != 2 {
		t.Errorf("snapshot = %+v", snap)
	}
	if snap.Player.Name != "Hero" || snap.Player.HP != 99 || snap.Player.MaxHP != 100 || snap.Player.Level != 1 {
		t.Errorf("player snapshot = %+v", snap.Player)
	}
	if snap.Enemy.Name != "Goblin" || snap.Enemy.HP != 50 {
		t.Errorf("enemy snapshot = %+v", snap.Enemy)
	}
}

func TestImmediateSchedulerRunsEnemyTurnInline(t *testing.T) {
	s, err := NewSession(Config{Rand: &scriptedRand{}, Tracer: telemetry.NoopTracer()})
	if err != nil {
		t.Fatalf("NewSession() error = %v", err)
	}
	hero := newHero()
	mustStart(t, s, hero, goblinFactory)

	mustAct(t, s, ActionAttack)
	if s.State() != StatePlayerAction {
		t.Errorf("State() = %s, want playerAction", s.State())
	}
	if hero.HP != 95 {
		t.Errorf("hero HP = %d, want 95", hero.HP)
	}
}

func TestTickIsNoop(t *testing.T) {
	s, _ := newTestSession(t, nil)
	mustStart(t, s, newHero(), goblinFactory)
	before := s.Snapshot()
	s.Tick(16 * time.Millisecond)
	after := s.Snapshot()
	if before.State != after.State || len(before.Log) != len(after.Log) {
		t.Error("Tick() should not change the battle")
	}
}

func TestNewSessionRejectsIncompleteAbilities(t *testing.T) {
	for _, missing := range requiredAbilities {
		t.Run(missing, func(t *testing.T) {
			var defs []gamedata.AbilityDef
			for _, a := range gamedata.MustLoadAbilityRegistry().All() {
				if a.ID != missing {
					defs = append(defs, a)
				}
			}

			s, err := NewSession(Config{
				Abilities: gamedata.NewAbilityRegistry(defs),
				Rand:      &scriptedRand{},
				Tracer:    telemetry.NoopTracer(),
			})
			if !errors.Is(err, ErrMissingAbility) {
				t.Errorf("NewSession() error = %v, want ErrMissingAbility", err)
			}
			if s != nil {
				t.Error("NewSession() should not return a session")
			}
		})
	}
}
