package gamedata

import (
	"errors"
	"fmt"
	"math/rand"
	"strings"

	"github.com/samdwyer/turnbattle/internal/entity"
)

// EnemyRegistry holds loaded enemy definitions and provides spawning utilities.
type EnemyRegistry struct {
	enemies     []EnemyDef
	totalWeight int
}

// NewEnemyRegistry creates a registry from loaded enemy definitions.
func NewEnemyRegistry(enemies []EnemyDef) *EnemyRegistry {
	totalWeight := 0
	for _, e := range enemies {
		totalWeight += e.SpawnWeight
	}
	return &EnemyRegistry{
		enemies:     enemies,
		totalWeight: totalWeight,
	}
}

// SpawnRandom selects a random enemy definition using weighted probability.
// Enemies with higher spawnWeight are more likely to be selected.
func (r *EnemyRegistry) SpawnRandom(rng *rand.Rand) *EnemyDef {
	if len(r.enemies) == 0 {
		return nil
	}
	if r.totalWeight <= 0 {
		return &r.enemies[rng.Intn(len(r.enemies))]
	}

	roll := rng.Intn(r.totalWeight)

	cumulative := 0
	for i := range r.enemies {
		cumulative += r.enemies[i].SpawnWeight
		if roll < cumulative {
			return &r.enemies[i]
		}
	}

	return &r.enemies[0]
}

// GetByID returns the enemy definition with the given ID, or nil if not found.
func (r *EnemyRegistry) GetByID(id string) *EnemyDef {
	for i := range r.enemies {
		if r.enemies[i].ID == id {
			return &r.enemies[i]
		}
	}
	return nil
}

// All returns all enemy definitions.
func (r *EnemyRegistry) All() []EnemyDef {
	return r.enemies
}

// Count returns the number of enemy types in the registry.
func (r *EnemyRegistry) Count() int {
	return len(r.enemies)
}

// =============================================================================
// AbilityRegistry
// =============================================================================

// AbilityRegistry holds loaded ability definitions and provides lookup utilities.
type AbilityRegistry struct {
	abilities map[string]*AbilityDef
	all       []AbilityDef
}

// NewAbilityRegistry creates a registry from loaded ability definitions.
func NewAbilityRegistry(abilities []AbilityDef) *AbilityRegistry {
	registry := &AbilityRegistry{
		abilities: make(map[string]*AbilityDef),
		all:       abilities,
	}
	for i := range abilities {
		registry.abilities[abilities[i].ID] = &abilities[i]
	}
	return registry
}

// LoadAbilityRegistry loads and creates a registry from the embedded abilities.json.
func LoadAbilityRegistry() (*AbilityRegistry, error) {
	abilities, err := LoadAbilities()
	if err != nil {
		return nil, err
	}
	if len(abilities) == 0 {
		return nil, errors.New("no abilities loaded from abilities.json")
	}
	return NewAbilityRegistry(abilities), nil
}

// MustLoadAbilityRegistry loads a registry, panicking on error.
func MustLoadAbilityRegistry() *AbilityRegistry {
	registry, err := LoadAbilityRegistry()
	if err != nil {
		panic(err)
	}
	return registry
}

// GetByID returns the ability definition with the given ID, or nil if not found.
func (r *AbilityRegistry) GetByID(id string) *AbilityDef {
	return r.abilities[id]
}

// All returns all ability definitions.
func (r *AbilityRegistry) All() []AbilityDef {
	return r.all
}

// Count returns the number of abilities in the registry.
func (r *AbilityRegistry) Count() int {
	return len(r.all)
}

// =============================================================================
// Roster
// =============================================================================

// Roster holds the validated heroes, enemies and items of one data set.
type Roster struct {
	heroes  []HeroDef
	items   map[string]*ItemDef
	enemies *EnemyRegistry
}

// NewRoster validates a roster file and builds lookup tables for it.
func NewRoster(file RosterFile) (*Roster, error) {
	if len(file.Heroes) == 0 {
		return nil, errors.New("roster has no heroes")
	}
	if len(file.Enemies) == 0 {
		return nil, errors.New("roster has no enemies")
	}

	items := make(map[string]*ItemDef, len(file.Items))
	for i := range file.Items {
		it := &file.Items[i]
		if strings.TrimSpace(it.ID) == "" {
			return nil, fmt.Errorf("item %q missing 'id'", it.Name)
		}
		if _, exists := items[it.ID]; exists {
			return nil, fmt.Errorf("duplicate item id '%s'", it.ID)
		}
		items[it.ID] = it
	}

	ids := make(map[string]struct{}, len(file.Heroes)+len(file.Enemies))
	checkStats := func(kind, id string, hp, attack, defense int) error {
		if strings.TrimSpace(id) == "" {
			return fmt.Errorf("%s entry missing 'id'", kind)
		}
		if _, exists := ids[id]; exists {
			return fmt.Errorf("duplicate combatant id '%s'", id)
		}
		ids[id] = struct{}{}
		if hp <= 0 {
			return fmt.Errorf("%s '%s': hp must be positive", kind, id)
		}
		if attack < 0 || defense < 0 {
			return fmt.Errorf("%s '%s': attack and defense must not be negative", kind, id)
		}
		return nil
	}

	for _, h := range file.Heroes {
		if err := checkStats("hero", h.ID, h.HP, h.Attack, h.Defense); err != nil {
			return nil, err
		}
		for _, itemID := range h.Inventory {
			if _, ok := items[itemID]; !ok {
				return nil, fmt.Errorf("hero '%s': unknown item '%s'", h.ID, itemID)
			}
		}
	}
	for _, e := range file.Enemies {
		if err := checkStats("enemy", e.ID, e.HP, e.Attack, e.Defense); err != nil {
			return nil, err
		}
		if e.SpawnWeight < 0 {
			return nil, fmt.Errorf("enemy '%s': spawnWeight must not be negative", e.ID)
		}
	}

	return &Roster{
		heroes:  file.Heroes,
		items:   items,
		enemies: NewEnemyRegistry(file.Enemies),
	}, nil
}

// LoadRoster loads the roster embedded in combatants.json.
func LoadRoster() (*Roster, error) {
	file, err := LoadRosterFileData()
	if err != nil {
		return nil, err
	}
	return NewRoster(file)
}

// MustLoadRoster loads the embedded roster, panicking on error.
func MustLoadRoster() *Roster {
	roster, err := LoadRoster()
	if err != nil {
		panic(err)
	}
	return roster
}

// LoadRosterFile loads a roster from a YAML or JSON file on disk.
func LoadRosterFile(path string) (*Roster, error) {
	file, err := LoadFile[RosterFile](path)
	if err != nil {
		return nil, err
	}
	roster, err := NewRoster(file)
	if err != nil {
		return nil, fmt.Errorf("roster %s: %w", path, err)
	}
	return roster, nil
}

// Hero returns the hero definition with the given ID, or nil if not found.
func (r *Roster) Hero(id string) *HeroDef {
	for i := range r.heroes {
		if r.heroes[i].ID == id {
			return &r.heroes[i]
		}
	}
	return nil
}

// Item returns the item definition with the given ID, or nil if not found.
func (r *Roster) Item(id string) *ItemDef {
	return r.items[id]
}

// Enemies returns the roster's enemy registry.
func (r *Roster) Enemies() *EnemyRegistry {
	return r.enemies
}

// NewHero creates a level 1 hero with its starting inventory.
func (r *Roster) NewHero(id string) (*entity.Combatant, error) {
	def := r.Hero(id)
	if def == nil {
		return nil, fmt.Errorf("unknown hero '%s'", id)
	}
	hero := entity.NewPlayer(def.Name, def.HP, def.Attack, def.Defense, def.Sprite)
	for _, itemID := range def.Inventory {
		hero.AddItem(r.items[itemID].Item())
	}
	return hero, nil
}
