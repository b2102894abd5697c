package gamedata

import "github.com/samdwyer/turnbattle/internal/entity"

// HeroDef defines a playable hero loaded from JSON.
type HeroDef struct {
	ID        string   `json:"id" yaml:"id"`               // Unique identifier (e.g., "hero")
	Name      string   `json:"name" yaml:"name"`           // Display name (e.g., "Hero")
	Glyph     string   `json:"glyph" yaml:"glyph"`         // Single character for rendering
	Color     string   `json:"color" yaml:"color"`         // Hex color code
	Sprite    string   `json:"sprite" yaml:"sprite"`       // Opaque handle passed through to the presentation layer
	HP        int      `json:"hp" yaml:"hp"`               // Base hit points
	Attack    int      `json:"attack" yaml:"attack"`       // Base attack power
	Defense   int      `json:"defense" yaml:"defense"`     // Base defense value
	Inventory []string `json:"inventory" yaml:"inventory"` // Item IDs the hero starts with
}

// EnemyDef defines an enemy type loaded from JSON.
type EnemyDef struct {
	ID          string        `json:"id" yaml:"id"`
	Name        string        `json:"name" yaml:"name"`
	Glyph       string        `json:"glyph" yaml:"glyph"`
	Color       string        `json:"color" yaml:"color"`
	Sprite      string        `json:"sprite" yaml:"sprite"`
	HP          int           `json:"hp" yaml:"hp"`
	Attack      int           `json:"attack" yaml:"attack"`
	Defense     int           `json:"defense" yaml:"defense"`
	Experience  int           `json:"experience" yaml:"experience"`   // Awarded to the hero on defeat
	AI          entity.Policy `json:"ai" yaml:"ai"`                   // aggressive, defensive or random
	SpawnWeight int           `json:"spawnWeight" yaml:"spawnWeight"` // Relative spawn frequency (higher = more common)
}

// ItemDef defines an inventory item loaded from JSON.
type ItemDef struct {
	ID          string `json:"id" yaml:"id"`
	Name        string `json:"name" yaml:"name"`
	Description string `json:"description" yaml:"description"`
	HealAmount  int    `json:"healAmount" yaml:"healAmount"`
	Value       int    `json:"value" yaml:"value"`
}

// GlyphRune returns the glyph as a rune for rendering.
func (h *HeroDef) GlyphRune() rune {
	return glyphRune(h.Glyph)
}

// GlyphRune returns the glyph as a rune for rendering.
func (e *EnemyDef) GlyphRune() rune {
	return glyphRune(e.Glyph)
}

func glyphRune(glyph string) rune {
	for _, r := range glyph {
		return r
	}
	return '?'
}

// NewCombatant creates a full-health enemy combatant from the definition.
func (e *EnemyDef) NewCombatant() *entity.Combatant {
	return entity.NewEnemy(e.Name, e.HP, e.Attack, e.Defense, e.Sprite, e.Experience, e.AI)
}

// Item converts the definition into an inventory item.
func (d *ItemDef) Item() entity.Item {
	return entity.Item{
		Name:        d.Name,
		Description: d.Description,
		HealAmount:  d.HealAmount,
		Value:       d.Value,
	}
}

// RosterFile represents the structure of combatants.json and of roster
// override files.
type RosterFile struct {
	Heroes  []HeroDef  `json:"heroes" yaml:"heroes"`
	Enemies []EnemyDef `json:"enemies" yaml:"enemies"`
	Items   []ItemDef  `json:"items" yaml:"items"`
}

// LoadRosterFileData loads the embedded combatants.json file.
func LoadRosterFileData() (RosterFile, error) {
	return Load[RosterFile]("combatants.json")
}
