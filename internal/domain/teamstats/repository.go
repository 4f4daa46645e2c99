package teamstats

import "context"

type Repository interface {
	// ReplaceForMatch deletes every existing row for the match and inserts
	// the given rows in one transaction.
	ReplaceForMatch(ctx context.Context, matchID int64, rows []MatchStatistics) error
	ListByMatch(ctx context.Context, matchID int64) ([]MatchStatistics, error)
}
