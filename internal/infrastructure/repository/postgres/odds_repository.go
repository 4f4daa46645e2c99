package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pitchside/pitchside/internal/domain/match"
	qb "github.com/pitchside/pitchside/internal/platform/querybuilder"
)

type OddsRepository struct {
	db *sqlx.DB
}

func NewOddsRepository(db *sqlx.DB) *OddsRepository {
	return &OddsRepository{db: db}
}

// Insert appends a snapshot. Odds are intentionally never deduplicated so
// line movement across ingestions stays visible.
func (r *OddsRepository) Insert(ctx context.Context, o match.Odds) error {
	fetchedAt := o.FetchedAt
	if fetchedAt.IsZero() {
		fetchedAt = time.Now().UTC()
	}

	insertModel := oddsInsertModel{
		MatchID:   o.MatchID,
		HomeOdds:  nullableFloat64(o.HomeOdds),
		DrawOdds:  nullableFloat64(o.DrawOdds),
		AwayOdds:  nullableFloat64(o.AwayOdds),
		Provider:  o.Provider,
		FetchedAt: fetchedAt,
	}
	query, args, err := qb.InsertModel("match_odds", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert odds query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert odds match=%d: %w", o.MatchID, err)
	}

	return nil
}

func (r *OddsRepository) ListByMatch(ctx context.Context, matchID int64) ([]match.Odds, error) {
	query, args, err := qb.Select("*").From("match_odds").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("fetched_at", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list odds by match query: %w", err)
	}

	var rows []oddsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list odds by match: %w", err)
	}

	out := make([]match.Odds, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.Odds{
			ID:        row.ID,
			MatchID:   row.MatchID,
			HomeOdds:  nullFloat64ToPtr(row.HomeOdds),
			DrawOdds:  nullFloat64ToPtr(row.DrawOdds),
			AwayOdds:  nullFloat64ToPtr(row.AwayOdds),
			Provider:  row.Provider,
			FetchedAt: row.FetchedAt,
		})
	}

	return out, nil
}

type oddsTableModel struct {
	ID        int64           `db:"id"`
	MatchID   int64           `db:"match_id"`
	HomeOdds  sql.NullFloat64 `db:"home_odds"`
	DrawOdds  sql.NullFloat64 `db:"draw_odds"`
	AwayOdds  sql.NullFloat64 `db:"away_odds"`
	Provider  string          `db:"provider"`
	FetchedAt time.Time       `db:"fetched_at"`
}

type oddsInsertModel struct {
	MatchID   int64           `db:"match_id"`
	HomeOdds  sql.NullFloat64 `db:"home_odds"`
	DrawOdds  sql.NullFloat64 `db:"draw_odds"`
	AwayOdds  sql.NullFloat64 `db:"away_odds"`
	Provider  string          `db:"provider"`
	FetchedAt time.Time       `db:"fetched_at"`
}
