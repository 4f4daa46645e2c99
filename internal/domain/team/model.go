package team

import "fmt"

// Team is a club as reported by the feed. Display metadata follows the feed
// on every sighting since names and crests change season to season.
type Team struct {
	ID           int64
	ExternalID   string
	Name         string
	Abbreviation string
	LogoURL      string
}

func (t Team) Validate() error {
	if t.ExternalID == "" {
		return fmt.Errorf("team external id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
