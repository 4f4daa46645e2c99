package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pitchside/pitchside/internal/domain/match"
	qb "github.com/pitchside/pitchside/internal/platform/querybuilder"
)

type MatchRepository struct {
	db *sqlx.DB
}

func NewMatchRepository(db *sqlx.DB) *MatchRepository {
	return &MatchRepository{db: db}
}

// Upsert replaces every mutable field on conflict. A live match's score and
// status legitimately change between polls, so unlike leagues there is no
// first-write-wins here.
func (r *MatchRepository) Upsert(ctx context.Context, m match.Match) (match.Match, error) {
	if err := m.Validate(); err != nil {
		return match.Match{}, fmt.Errorf("validate match: %w", err)
	}

	insertModel := matchInsertModel{
		ExternalEventID: m.ExternalEventID,
		LeagueID:        nullableInt64Ptr(m.LeagueID),
		HomeTeamID:      m.HomeTeamID,
		AwayTeamID:      m.AwayTeamID,
		MatchDate:       m.Date,
		Venue:           m.Venue,
		Status:          m.Status,
		HomeScore:       m.HomeScore,
		AwayScore:       m.AwayScore,
	}
	query, args, err := qb.InsertModel("matches", insertModel, `ON CONFLICT (external_event_id)
DO UPDATE SET
    league_id = EXCLUDED.league_id,
    home_team_id = EXCLUDED.home_team_id,
    away_team_id = EXCLUDED.away_team_id,
    match_date = EXCLUDED.match_date,
    venue = EXCLUDED.venue,
    status = EXCLUDED.status,
    home_score = EXCLUDED.home_score,
    away_score = EXCLUDED.away_score,
    updated_at = now()`)
	if err != nil {
		return match.Match{}, fmt.Errorf("build upsert match query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return match.Match{}, fmt.Errorf("upsert match external_event_id=%s: %w", m.ExternalEventID, err)
	}

	return r.getByExternalEventID(ctx, m.ExternalEventID)
}

func (r *MatchRepository) getByExternalEventID(ctx context.Context, externalEventID string) (match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("external_event_id", externalEventID)).
		ToSQL()
	if err != nil {
		return match.Match{}, fmt.Errorf("build get match by external event id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return match.Match{}, fmt.Errorf("get match by external event id: %w", err)
	}

	return row.toDomain(), nil
}

func (r *MatchRepository) GetByID(ctx context.Context, id int64) (match.Match, bool, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return match.Match{}, false, fmt.Errorf("build get match by id query: %w", err)
	}

	var row matchTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return match.Match{}, false, nil
		}
		return match.Match{}, false, fmt.Errorf("get match by id: %w", err)
	}

	return row.toDomain(), true, nil
}

// LatestMatchDate is the ingestion high-water mark used to plan backfill.
func (r *MatchRepository) LatestMatchDate(ctx context.Context) (time.Time, bool, error) {
	query, args, err := qb.Select("MAX(match_date) AS latest").From("matches").ToSQL()
	if err != nil {
		return time.Time{}, false, fmt.Errorf("build latest match date query: %w", err)
	}

	var row struct {
		Latest *time.Time `db:"latest"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return time.Time{}, false, fmt.Errorf("get latest match date: %w", err)
	}
	if row.Latest == nil {
		return time.Time{}, false, nil
	}

	return *row.Latest, true, nil
}

func (r *MatchRepository) ListBetween(ctx context.Context, from, to time.Time) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Expr("match_date >= ?", from),
			qb.Expr("match_date <= ?", to),
		).
		OrderBy("match_date", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches between query: %w", err)
	}

	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) ListCompleted(ctx context.Context) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(qb.Eq("status", match.StatusCompleted)).
		OrderBy("match_date", "id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list completed matches query: %w", err)
	}

	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) ListCompletedByTeam(ctx context.Context, teamID int64, limit int) ([]match.Match, error) {
	if limit <= 0 {
		limit = 5
	}

	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("status", match.StatusCompleted),
			qb.Expr("(home_team_id = ? OR away_team_id = ?)", teamID, teamID),
		).
		OrderBy("match_date DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list completed matches by team query: %w", err)
	}

	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) ListBetweenTeams(ctx context.Context, teamAID, teamBID int64) ([]match.Match, error) {
	query, args, err := qb.Select("*").From("matches").
		Where(
			qb.Eq("status", match.StatusCompleted),
			qb.Expr("((home_team_id = ? AND away_team_id = ?) OR (home_team_id = ? AND away_team_id = ?))",
				teamAID, teamBID, teamBID, teamAID),
		).
		OrderBy("match_date DESC", "id DESC").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list matches between teams query: %w", err)
	}

	return r.selectMatches(ctx, query, args)
}

func (r *MatchRepository) selectMatches(ctx context.Context, query string, args []any) ([]match.Match, error) {
	var rows []matchTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("select matches: %w", err)
	}

	out := make([]match.Match, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}
