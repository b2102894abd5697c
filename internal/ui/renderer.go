package ui

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/turnbattle/internal/battle"
)

// Palette carries how each combatant is drawn.
type Palette struct {
	PlayerGlyph rune
	PlayerColor tcell.Color
	EnemyGlyph  rune
	EnemyColor  tcell.Color
}

// Renderer handles drawing the game to the screen.
type Renderer struct {
	screen *Screen
}

// NewRenderer creates a new renderer for the given screen.
func NewRenderer(screen *Screen) *Renderer {
	return &Renderer{screen: screen}
}

var (
	textStyle  = tcell.StyleDefault.Foreground(tcell.ColorWhite)
	titleStyle = tcell.StyleDefault.Foreground(tcell.ColorYellow).Bold(true)
	dimStyle   = tcell.StyleDefault.Foreground(tcell.ColorDarkGray)
	logStyle   = tcell.StyleDefault.Foreground(tcell.ColorGray)
)

// RenderMenu draws the main menu.
func (r *Renderer) RenderMenu(heroName string, level int, enemies []string) {
	r.screen.Clear()
	r.drawCentered(MenuLines(heroName, level, enemies))
	r.screen.Show()
}

// RenderBattle draws both combatants, the recent battle log and the action
// bar.
func (r *Renderer) RenderBattle(snap battle.Snapshot, p Palette) {
	r.screen.Clear()

	y := 1
	r.screen.DrawText(2, y, TurnBanner(snap), titleStyle)
	y += 2

	enemyStyle := tcell.StyleDefault.Foreground(p.EnemyColor).Bold(true)
	r.screen.SetContent(2, y, p.EnemyGlyph, enemyStyle)
	r.screen.DrawText(4, y, StatusLine(snap.Enemy), textStyle)
	r.screen.DrawText(6, y+1, StatsLine(snap.Enemy), dimStyle)
	y += 3

	playerStyle := tcell.StyleDefault.Foreground(p.PlayerColor).Bold(true)
	r.screen.SetContent(2, y, p.PlayerGlyph, playerStyle)
	r.screen.DrawText(4, y, StatusLine(snap.Player), textStyle)
	r.screen.DrawText(6, y+1, StatsLine(snap.Player), dimStyle)
	y += 3

	for i, line := range snap.Log {
		r.screen.DrawText(2, y+i, line, logStyle)
	}
	y += battle.LogWindow + 1

	r.screen.DrawText(2, y, ActionBar(snap.State == battle.StatePlayerAction), textStyle)
	r.screen.Show()
}

// RenderResult draws the victory or game over screen.
func (r *Renderer) RenderResult(snap battle.Snapshot) {
	r.screen.Clear()
	r.drawCentered(ResultLines(snap))
	r.screen.Show()
}

func (r *Renderer) drawCentered(lines []string) {
	w, h := r.screen.Size()
	y := (h - len(lines)) / 2
	if y < 0 {
		y = 0
	}
	for i, line := range lines {
		style := textStyle
		if i == 0 {
			style = titleStyle
		}
		x := (w - len([]rune(line))) / 2
		if x < 0 {
			x = 0
		}
		r.screen.DrawText(x, y+i, line, style)
	}
}
