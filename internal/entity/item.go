package entity

// Item is a consumable carried in a player's inventory.
type Item struct {
	Name        string
	Description string
	HealAmount  int
	Value       int // Gold value
}

// Use applies the item to target and returns target's new HP.
func (i Item) Use(target *Combatant) int {
	return target.Heal(i.HealAmount)
}

// Inventory returns the player's items, or nil for enemies.
func (c *Combatant) Inventory() []Item {
	if c.Progression == nil {
		return nil
	}
	return c.Progression.Inventory
}

// AddItem appends an item to the player's inventory.
func (c *Combatant) AddItem(item Item) {
	if c.Progression == nil {
		return
	}
	c.Progression.Inventory = append(c.Progression.Inventory, item)
}

// UseItem consumes the item at index on target (the user itself if nil).
// It returns false when the index is out of range or there is no inventory.
func (c *Combatant) UseItem(index int, target *Combatant) bool {
	p := c.Progression
	if p == nil || index < 0 || index >= len(p.Inventory) {
		return false
	}
	if target == nil {
		target = c
	}
	item := p.Inventory[index]
	item.Use(target)
	p.Inventory = append(p.Inventory[:index], p.Inventory[index+1:]...)
	return true
}
