package ui

import (
	"fmt"
	"strings"

	"github.com/samdwyer/turnbattle/internal/battle"
)

// HPBarWidth is the number of cells in a health bar.
const HPBarWidth = 20

// HPBar renders hp out of maxHP as a fixed-width bar such as "[####......]".
func HPBar(hp, maxHP, width int) string {
	if width <= 0 {
		return "[]"
	}
	filled := 0
	if maxHP > 0 && hp > 0 {
		filled = (hp*width + maxHP - 1) / maxHP
		if filled > width {
			filled = width
		}
	}
	return "[" + strings.Repeat("#", filled) + strings.Repeat(".", width-filled) + "]"
}

// StatusLine is the one-line summary of a combatant: name, level, HP and any
// active effects.
func StatusLine(c battle.CombatantSnapshot) string {
	var b strings.Builder
	b.WriteString(c.Name)
	if c.Level > 0 {
		fmt.Fprintf(&b, " Lv%d", c.Level)
	}
	fmt.Fprintf(&b, "  HP %d/%d %s", c.HP, c.MaxHP, HPBar(c.HP, c.MaxHP, HPBarWidth))
	if len(c.Effects) > 0 {
		fmt.Fprintf(&b, "  (%s)", strings.Join(c.Effects, ", "))
	}
	return b.String()
}

// StatsLine shows a combatant's effective attack and defense.
func StatsLine(c battle.CombatantSnapshot) string {
	return fmt.Sprintf("ATK %d  DEF %d", c.Attack, c.Defense)
}

// ActionBar lists the player's actions. Outside the player's turn the bar
// reads as waiting.
func ActionBar(enabled bool) string {
	if !enabled {
		return "Waiting..."
	}
	return "[1] Attack  [2] Defend  [3] Item  [4] Run"
}

// TurnBanner describes whose turn it is.
func TurnBanner(snap battle.Snapshot) string {
	switch snap.State {
	case battle.StatePlayerAction:
		return fmt.Sprintf("Turn %d - your move", snap.TurnCount+1)
	case battle.StateEnemyAction:
		return fmt.Sprintf("Turn %d - %s is acting", snap.TurnCount+1, snap.Enemy.Name)
	case battle.StateVictory:
		return "Victory!"
	case battle.StateDefeat:
		return "Defeat..."
	default:
		return ""
	}
}

// MenuLines is the main menu text.
func MenuLines(heroName string, level int, enemies []string) []string {
	lines := []string{
		"TURN BATTLE",
		"",
		fmt.Sprintf("%s (level %d) is ready.", heroName, level),
	}
	if len(enemies) > 0 {
		lines = append(lines, "Foes: "+strings.Join(enemies, ", "))
	}
	return append(lines,
		"",
		"[Enter] Start Battle",
		"[Q] Quit",
	)
}

// ResultLines is the text of the victory and game over screens.
func ResultLines(snap battle.Snapshot) []string {
	switch snap.Outcome {
	case battle.OutcomeVictory:
		return []string{
			"VICTORY!",
			"",
			fmt.Sprintf("%s defeated %s.", snap.Player.Name, snap.Enemy.Name),
			fmt.Sprintf("%s is level %d.", snap.Player.Name, snap.Player.Level),
			"",
			"[Enter] Next Battle  [M] Main Menu  [Q] Quit",
		}
	case battle.OutcomeDefeat:
		return []string{
			"GAME OVER",
			"",
			fmt.Sprintf("%s was defeated by %s.", snap.Player.Name, snap.Enemy.Name),
			"",
			"[Enter] Try Again  [M] Main Menu  [Q] Quit",
		}
	default:
		return nil
	}
}
