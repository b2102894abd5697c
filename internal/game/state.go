// Package game provides the main game loop and screen management.
package game

import "github.com/samdwyer/turnbattle/internal/battle"

// Scene is the application screen being shown.
type Scene int

const (
	// SceneMainMenu is the title screen.
	SceneMainMenu Scene = iota
	// SceneBattle shows the running (or just finished) battle.
	SceneBattle
	// SceneVictory follows a won battle.
	SceneVictory
	// SceneGameOver follows a lost battle.
	SceneGameOver
)

// String returns a human-readable scene name.
func (s Scene) String() string {
	switch s {
	case SceneMainMenu:
		return "main_menu"
	case SceneBattle:
		return "battle"
	case SceneVictory:
		return "victory"
	case SceneGameOver:
		return "game_over"
	default:
		return "unknown"
	}
}

// sceneAfter is the scene shown once a battle has ended with outcome.
func sceneAfter(outcome battle.Outcome) Scene {
	switch outcome {
	case battle.OutcomeVictory:
		return SceneVictory
	case battle.OutcomeDefeat:
		return SceneGameOver
	default:
		return SceneMainMenu
	}
}
