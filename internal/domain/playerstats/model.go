package playerstats

// PlayerMatchStats is one player's stat line for one match. Exactly one row
// per (match, player); season totals are computed by summing rows, never
// stored as running counters, which keeps re-ingestion safe by construction.
type PlayerMatchStats struct {
	ID              int64
	MatchID         int64
	PlayerID        int64
	TeamID          int64
	Goals           int
	ShotsOnTarget   int
	Assists         int
	Passes          int
	PassesCompleted int
	Tackles         int
	Interceptions   int
	Saves           int
	YellowCards     int
	RedCards        int
}

// Totals aggregates a player's per-match rows for rating computation.
type Totals struct {
	Goals         int
	ShotsOnTarget int
	Assists       int
	Matches       int
}
