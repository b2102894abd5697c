package game

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"time"

	"github.com/gdamore/tcell/v2"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/turnbattle/internal/battle"
	"github.com/samdwyer/turnbattle/internal/entity"
	"github.com/samdwyer/turnbattle/internal/gamedata"
	"github.com/samdwyer/turnbattle/internal/logger"
	"github.com/samdwyer/turnbattle/internal/telemetry"
	"github.com/samdwyer/turnbattle/internal/ui"
)

// Game holds the entire game state.
type Game struct {
	cfg      Config
	screen   *ui.Screen
	renderer *ui.Renderer

	roster    *gamedata.Roster
	heroDef   *gamedata.HeroDef
	hero      *entity.Combatant
	enemyDef  *gamedata.EnemyDef
	rng       *rand.Rand
	scheduler battle.Scheduler
	session   *battle.Session

	scene     Scene
	running   bool
	lastFrame time.Time
	log       *logrus.Entry
}

// New creates a new game instance attached to the terminal.
func New(cfg Config) (*Game, error) {
	roster, err := loadRoster(cfg.Roster)
	if err != nil {
		return nil, err
	}
	seed, err := resolveSeed(cfg.Seed)
	if err != nil {
		return nil, err
	}

	screen, err := ui.NewScreen()
	if err != nil {
		return nil, err
	}

	log := logger.Component("game")
	sched := loopScheduler{
		poster: screen,
		onDrop: func(err error) {
			log.WithError(err).Warn("Dropped scheduled callback.")
		},
	}

	g, err := newGame(cfg, roster, sched, rand.New(rand.NewSource(seed)))
	if err != nil {
		screen.Close()
		return nil, err
	}
	g.screen = screen
	g.renderer = ui.NewRenderer(screen)
	g.log.WithField("seed", seed).Info("Game initialized.")
	return g, nil
}

func loadRoster(path string) (*gamedata.Roster, error) {
	if path == "" {
		return gamedata.LoadRoster()
	}
	return gamedata.LoadRosterFile(path)
}

// newGame wires everything except the terminal.
func newGame(cfg Config, roster *gamedata.Roster, sched battle.Scheduler, rng *rand.Rand) (*Game, error) {
	heroDef := roster.Hero(cfg.Hero)
	if heroDef == nil {
		return nil, fmt.Errorf("unknown hero %q", cfg.Hero)
	}
	hero, err := roster.NewHero(cfg.Hero)
	if err != nil {
		return nil, err
	}
	if cfg.Enemy != "" && roster.Enemies().GetByID(cfg.Enemy) == nil {
		return nil, fmt.Errorf("unknown enemy %q", cfg.Enemy)
	}

	g := &Game{
		cfg:       cfg,
		roster:    roster,
		heroDef:   heroDef,
		hero:      hero,
		rng:       rng,
		scheduler: sched,
		scene:     SceneMainMenu,
		running:   true,
		log:       logger.Component("game"),
	}
	g.session, err = battle.NewSession(battle.Config{
		Rand:       rng,
		Scheduler:  sched,
		EnemyDelay: cfg.EnemyDelay,
	})
	if err != nil {
		return nil, err
	}
	g.session.Subscribe(g.onBattleEvent)
	return g, nil
}

// Run executes the main game loop.
func (g *Game) Run(ctx context.Context) error {
	tracer := telemetry.Tracer("game")
	_, span := tracer.Start(ctx, "game.init")
	span.SetAttributes(
		attribute.String("hero", g.heroDef.ID),
		attribute.Int("enemy_kinds", g.roster.Enemies().Count()),
		attribute.String("enemy_override", g.cfg.Enemy),
	)
	span.End()

	defer g.Close()
	g.lastFrame = time.Now()

	for g.running {
		g.render()

		ev := g.screen.PollEvent()
		if ev == nil {
			break
		}
		g.handleEvent(ctx, ev)

		now := time.Now()
		g.session.Tick(now.Sub(g.lastFrame))
		g.lastFrame = now
	}
	return nil
}

// handleEvent processes a single input or scheduler event.
func (g *Game) handleEvent(ctx context.Context, ev tcell.Event) {
	switch ev := ev.(type) {
	case *tcell.EventKey:
		g.handleKey(ctx, ev.Key(), ev.Rune())
	case *tcell.EventInterrupt:
		runInterrupt(ev)
	case *tcell.EventResize:
		g.screen.Sync()
	}
}

// handleKey processes keyboard input for the current scene.
func (g *Game) handleKey(ctx context.Context, key tcell.Key, r rune) {
	cmd, action := keyCommand(key, r)
	if cmd == cmdQuit {
		g.running = false
		return
	}

	switch g.scene {
	case SceneMainMenu:
		if cmd == cmdConfirm {
			g.startBattle(ctx)
		}

	case SceneBattle:
		if cmd != cmdAction || g.session.State() != battle.StatePlayerAction {
			return
		}
		if err := g.session.SubmitPlayerAction(ctx, action); err != nil {
			g.log.WithError(err).Debug("Action ignored.")
		}

	case SceneVictory, SceneGameOver:
		switch cmd {
		case cmdConfirm:
			g.startBattle(ctx)
		case cmdMenu:
			g.scene = SceneMainMenu
		}
	}
}

// startBattle begins a new battle, reusing the hero.
func (g *Game) startBattle(ctx context.Context) {
	err := g.session.StartNewBattle(ctx, g.hero, g.spawnEnemy)
	if errors.Is(err, battle.ErrIllegalTransition) {
		g.log.WithError(err).Debug("Battle not started.")
		return
	}
	if err != nil {
		g.log.WithError(err).Error("Failed to start battle.")
		return
	}
	g.scene = SceneBattle
}

// spawnEnemy builds the next opponent: the configured enemy, or one picked
// by spawn weight.
func (g *Game) spawnEnemy() *entity.Combatant {
	var def *gamedata.EnemyDef
	if g.cfg.Enemy != "" {
		def = g.roster.Enemies().GetByID(g.cfg.Enemy)
	} else {
		def = g.roster.Enemies().SpawnRandom(g.rng)
	}
	g.enemyDef = def
	if def == nil {
		return nil
	}
	return def.NewCombatant()
}

// onBattleEvent switches scenes once a battle has ended.
func (g *Game) onBattleEvent(ev battle.Event) {
	if ev.Kind != battle.EventEnded {
		return
	}
	g.log.WithFields(logrus.Fields{
		"battle":  ev.BattleID.String(),
		"outcome": ev.Outcome.String(),
	}).Debug("Scheduling result screen.")

	id := ev.BattleID
	next := sceneAfter(ev.Outcome)
	g.scheduler.AfterFunc(g.cfg.ResultDelay, func() {
		if g.session.ID() != id || g.scene != SceneBattle {
			return
		}
		g.scene = next
	})
}

func (g *Game) render() {
	switch g.scene {
	case SceneMainMenu:
		g.renderer.RenderMenu(g.hero.Name, g.hero.Level(), g.enemyNames())
	case SceneBattle:
		g.renderer.RenderBattle(g.session.Snapshot(), g.palette())
	case SceneVictory, SceneGameOver:
		g.renderer.RenderResult(g.session.Snapshot())
	}
}

func (g *Game) palette() ui.Palette {
	p := ui.Palette{
		PlayerGlyph: g.heroDef.GlyphRune(),
		PlayerColor: g.heroDef.TCellColor(),
		EnemyGlyph:  '?',
		EnemyColor:  tcell.ColorWhite,
	}
	if g.enemyDef != nil {
		p.EnemyGlyph = g.enemyDef.GlyphRune()
		p.EnemyColor = g.enemyDef.TCellColor()
	}
	return p
}

func (g *Game) enemyNames() []string {
	if g.cfg.Enemy != "" {
		return []string{g.roster.Enemies().GetByID(g.cfg.Enemy).Name}
	}
	all := g.roster.Enemies().All()
	names := make([]string, 0, len(all))
	for _, e := range all {
		names = append(names, e.Name)
	}
	return names
}

// Scene returns the screen currently shown.
func (g *Game) Scene() Scene { return g.scene }

// Close cleans up game resources.
func (g *Game) Close() {
	if g.session != nil {
		g.session.Close()
	}
	if g.screen != nil {
		g.screen.Close()
		g.screen = nil
	}
}
