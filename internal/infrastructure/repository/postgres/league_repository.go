package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pitchside/pitchside/internal/domain/league"
	qb "github.com/pitchside/pitchside/internal/platform/querybuilder"
)

type LeagueRepository struct {
	db *sqlx.DB
}

func NewLeagueRepository(db *sqlx.DB) *LeagueRepository {
	return &LeagueRepository{db: db}
}

// Upsert is first-write-wins: an already-known external code keeps its stored
// name no matter what the feed calls the league this time.
func (r *LeagueRepository) Upsert(ctx context.Context, l league.League) (league.League, error) {
	if l.ExternalCode == "" {
		return league.League{}, fmt.Errorf("league external code is required for upsert")
	}
	if err := l.Validate(); err != nil {
		return league.League{}, fmt.Errorf("validate league: %w", err)
	}

	insertModel := leagueInsertModel{
		ExternalCode: l.ExternalCode,
		Name:         l.Name,
		SourceSlug:   l.SourceSlug,
	}
	query, args, err := qb.InsertModel("leagues", insertModel, "ON CONFLICT (external_code) DO NOTHING")
	if err != nil {
		return league.League{}, fmt.Errorf("build upsert league query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return league.League{}, fmt.Errorf("upsert league external_code=%s: %w", l.ExternalCode, err)
	}

	return r.getByExternalCode(ctx, l.ExternalCode)
}

func (r *LeagueRepository) getByExternalCode(ctx context.Context, code string) (league.League, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Eq("external_code", code)).
		ToSQL()
	if err != nil {
		return league.League{}, fmt.Errorf("build get league by external code query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return league.League{}, fmt.Errorf("get league by external code: %w", err)
	}

	return row.toDomain(), nil
}

func (r *LeagueRepository) List(ctx context.Context) ([]league.League, error) {
	query, args, err := qb.Select("*").From("leagues").OrderBy("name").ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list leagues query: %w", err)
	}

	var rows []leagueTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list leagues: %w", err)
	}

	out := make([]league.League, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

func (r *LeagueRepository) GetByID(ctx context.Context, id int64) (league.League, bool, error) {
	query, args, err := qb.Select("*").From("leagues").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return league.League{}, false, fmt.Errorf("build get league by id query: %w", err)
	}

	var row leagueTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return league.League{}, false, nil
		}
		return league.League{}, false, fmt.Errorf("get league by id: %w", err)
	}

	return row.toDomain(), true, nil
}
