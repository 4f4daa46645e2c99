package playerstats

import "context"

type Repository interface {
	// ReplaceForMatch deletes every existing row for the match and bulk
	// inserts the given rows in one transaction. Mandatory for
	// non-accumulation across repeated ingestions of the same event.
	ReplaceForMatch(ctx context.Context, matchID int64, rows []PlayerMatchStats) error
	ListByMatch(ctx context.Context, matchID int64) ([]PlayerMatchStats, error)
	SumByPlayer(ctx context.Context, playerID int64) (Totals, error)
}
