// Package gamedata provides embedded combatant and ability definitions and
// utilities for loading them.
package gamedata

import "embed"

// dataFS holds the built-in roster and abilities.
//
//go:embed *.json
var dataFS embed.FS
