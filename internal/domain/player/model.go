package player

import "fmt"

// Player is an athlete sighted in any feed payload section.
type Player struct {
	ID         int64
	ExternalID string
	Name       string
	Position   string
}

func (p Player) Validate() error {
	if p.ExternalID == "" {
		return fmt.Errorf("player external id is required")
	}
	if p.Name == "" {
		return fmt.Errorf("player name is required")
	}

	return nil
}
