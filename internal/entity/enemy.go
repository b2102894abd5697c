package entity

import "fmt"

// Policy selects how an enemy picks its action each turn.
type Policy int

const (
	PolicyAggressive Policy = iota
	PolicyDefensive
	PolicyRandom
)

// String returns the policy name used in game data.
func (p Policy) String() string {
	switch p {
	case PolicyAggressive:
		return "aggressive"
	case PolicyDefensive:
		return "defensive"
	case PolicyRandom:
		return "random"
	default:
		return "unknown"
	}
}

// ParsePolicy converts a policy name into a Policy.
func ParsePolicy(name string) (Policy, error) {
	switch name {
	case "aggressive", "":
		return PolicyAggressive, nil
	case "defensive":
		return PolicyDefensive, nil
	case "random":
		return PolicyRandom, nil
	default:
		return PolicyAggressive, fmt.Errorf("unknown ai policy %q", name)
	}
}

// MarshalText implements encoding.TextMarshaler.
func (p Policy) MarshalText() ([]byte, error) {
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler so policies can be read
// from JSON and YAML definitions.
func (p *Policy) UnmarshalText(text []byte) error {
	parsed, err := ParsePolicy(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}

// Foe holds enemy-only data.
type Foe struct {
	ExperienceValue int    // Awarded to the player on defeat
	Policy          Policy // Decision policy
}

// ExperienceValue returns the experience awarded for defeating c.
func (c *Combatant) ExperienceValue() int {
	if c.Foe == nil {
		return 0
	}
	return c.Foe.ExperienceValue
}

// Policy returns the enemy's decision policy. Non-enemies are aggressive.
func (c *Combatant) Policy() Policy {
	if c.Foe == nil {
		return PolicyAggressive
	}
	return c.Foe.Policy
}
