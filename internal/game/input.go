package game

import (
	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/turnbattle/internal/battle"
)

// command is what a key press asks the game to do, independent of scene.
type command int

const (
	cmdNone command = iota
	cmdQuit
	cmdConfirm
	cmdMenu
	cmdAction
)

// keyCommand maps a key press to a command. For cmdAction the battle action
// is returned too.
func keyCommand(key tcell.Key, r rune) (command, battle.Action) {
	switch key {
	case tcell.KeyEscape, tcell.KeyCtrlC:
		return cmdQuit, 0
	case tcell.KeyEnter:
		return cmdConfirm, 0
	case tcell.KeyRune:
	default:
		return cmdNone, 0
	}

	switch r {
	case 'q', 'Q':
		return cmdQuit, 0
	case 'm', 'M':
		return cmdMenu, 0
	case 'n', 'N', ' ':
		return cmdConfirm, 0
	case '1', 'a', 'A':
		return cmdAction, battle.ActionAttack
	case '2', 'd', 'D':
		return cmdAction, battle.ActionDefend
	case '3', 'i', 'I':
		return cmdAction, battle.ActionItem
	case '4', 'r', 'R':
		return cmdAction, battle.ActionRun
	default:
		return cmdNone, 0
	}
}
