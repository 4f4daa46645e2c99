package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pitchside/pitchside/internal/domain/match"
	qb "github.com/pitchside/pitchside/internal/platform/querybuilder"
)

type AppearanceRepository struct {
	db *sqlx.DB
}

func NewAppearanceRepository(db *sqlx.DB) *AppearanceRepository {
	return &AppearanceRepository{db: db}
}

// Ensure inserts the appearance once; re-sighting the same player in the
// same match is a no-op.
func (r *AppearanceRepository) Ensure(ctx context.Context, a match.Appearance) error {
	insertModel := appearanceInsertModel{
		MatchID:  a.MatchID,
		PlayerID: a.PlayerID,
		TeamID:   a.TeamID,
		IsHome:   a.IsHome,
	}
	query, args, err := qb.InsertModel("match_players", insertModel, "ON CONFLICT (match_id, player_id, team_id) DO NOTHING")
	if err != nil {
		return fmt.Errorf("build ensure appearance query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("ensure appearance match=%d player=%d: %w", a.MatchID, a.PlayerID, err)
	}

	return nil
}

func (r *AppearanceRepository) ListByMatch(ctx context.Context, matchID int64) ([]match.Appearance, error) {
	query, args, err := qb.Select("*").From("match_players").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list appearances by match query: %w", err)
	}

	var rows []appearanceTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list appearances by match: %w", err)
	}

	out := make([]match.Appearance, 0, len(rows))
	for _, row := range rows {
		out = append(out, match.Appearance{
			ID:       row.ID,
			MatchID:  row.MatchID,
			PlayerID: row.PlayerID,
			TeamID:   row.TeamID,
			IsHome:   row.IsHome,
		})
	}

	return out, nil
}

func (r *AppearanceRepository) CountByPlayer(ctx context.Context, playerID int64) (int, error) {
	query, args, err := qb.Select("COUNT(1) AS appearances").From("match_players").
		Where(qb.Eq("player_id", playerID)).
		ToSQL()
	if err != nil {
		return 0, fmt.Errorf("build count appearances query: %w", err)
	}

	var row struct {
		Appearances int `db:"appearances"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return 0, fmt.Errorf("count appearances by player: %w", err)
	}

	return row.Appearances, nil
}

type appearanceTableModel struct {
	ID       int64 `db:"id"`
	MatchID  int64 `db:"match_id"`
	PlayerID int64 `db:"player_id"`
	TeamID   int64 `db:"team_id"`
	IsHome   bool  `db:"is_home"`
}

type appearanceInsertModel struct {
	MatchID  int64 `db:"match_id"`
	PlayerID int64 `db:"player_id"`
	TeamID   int64 `db:"team_id"`
	IsHome   bool  `db:"is_home"`
}
