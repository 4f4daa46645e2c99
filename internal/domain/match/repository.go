package match

import (
	"context"
	"time"
)

// Repository describes match persistence needs from use cases.
type Repository interface {
	// Upsert replaces every mutable field when the external event id is
	// already known, and inserts otherwise.
	Upsert(ctx context.Context, m Match) (Match, error)
	GetByID(ctx context.Context, id int64) (Match, bool, error)
	// LatestMatchDate is the backfill high-water mark. The bool is false
	// when no matches are stored yet.
	LatestMatchDate(ctx context.Context) (time.Time, bool, error)
	ListBetween(ctx context.Context, from, to time.Time) ([]Match, error)
	ListCompleted(ctx context.Context) ([]Match, error)
	ListCompletedByTeam(ctx context.Context, teamID int64, limit int) ([]Match, error)
	ListBetweenTeams(ctx context.Context, teamAID, teamBID int64) ([]Match, error)
}

// AppearanceRepository stores immutable player appearance rows.
type AppearanceRepository interface {
	// Ensure inserts the appearance unless the (match, player, team)
	// triple already exists.
	Ensure(ctx context.Context, a Appearance) error
	ListByMatch(ctx context.Context, matchID int64) ([]Appearance, error)
	CountByPlayer(ctx context.Context, playerID int64) (int, error)
}

// OddsRepository stores append-only odds snapshots.
type OddsRepository interface {
	Insert(ctx context.Context, o Odds) error
	ListByMatch(ctx context.Context, matchID int64) ([]Odds, error)
}
