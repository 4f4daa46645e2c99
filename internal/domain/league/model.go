package league

import "fmt"

// League is a competition tracked by the ingestion pipeline. The name is
// fixed on first sighting of an external code so display names do not
// oscillate across slightly different feed slugs.
type League struct {
	ID           int64
	ExternalCode string
	Name         string
	SourceSlug   string
}

func (l League) Validate() error {
	if l.Name == "" {
		return fmt.Errorf("league name is required")
	}

	return nil
}
