package teamstats

// MatchStatistics is the team-level stat line for one side of a match.
// Exactly one row per (match, team); re-ingesting a match replaces the row
// rather than stacking duplicates.
type MatchStatistics struct {
	ID            int64
	MatchID       int64
	TeamID        int64
	Possession    float64
	Shots         int
	ShotsOnTarget int
	Corners       int
	Fouls         int
	YellowCards   int
	RedCards      int
}
