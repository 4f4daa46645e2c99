package match

import (
	"fmt"
	"strings"
	"time"
)

const (
	StatusScheduled = "scheduled"
	StatusLive      = "live"
	StatusCompleted = "completed"
)

// Match is one fixture keyed by the feed's event id. Re-sighting an event
// replaces every mutable field since scores and status move while a match
// is live.
type Match struct {
	ID              int64
	ExternalEventID string
	LeagueID        *int64
	HomeTeamID      int64
	AwayTeamID      int64
	Date            time.Time
	Venue           string
	Status          string
	HomeScore       int
	AwayScore       int
}

func (m Match) Validate() error {
	if m.ExternalEventID == "" {
		return fmt.Errorf("match external event id is required")
	}
	if m.HomeTeamID == 0 || m.AwayTeamID == 0 {
		return fmt.Errorf("match requires both team ids")
	}
	if m.HomeTeamID == m.AwayTeamID {
		return fmt.Errorf("match home and away teams must differ")
	}
	if m.Status != StatusScheduled && m.Status != StatusLive && m.Status != StatusCompleted {
		return fmt.Errorf("invalid match status: %s", m.Status)
	}

	return nil
}

// NormalizeStatus folds free-form feed state values onto the three states
// the store understands. Unknown values read as scheduled.
func NormalizeStatus(raw string) string {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case StatusCompleted, "full-time", "ft", "post":
		return StatusCompleted
	case StatusLive, "in", "in progress", "halftime", "ht":
		return StatusLive
	default:
		return StatusScheduled
	}
}

// Appearance records that a player appeared for a team in a match.
// Immutable once written.
type Appearance struct {
	ID       int64
	MatchID  int64
	PlayerID int64
	TeamID   int64
	IsHome   bool
}

// Odds is one decimal-odds snapshot for a match. Snapshots are append-only
// so odds movement over repeated ingestions stays visible.
type Odds struct {
	ID        int64
	MatchID   int64
	HomeOdds  *float64
	DrawOdds  *float64
	AwayOdds  *float64
	Provider  string
	FetchedAt time.Time
}
