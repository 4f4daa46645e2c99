package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pitchside/pitchside/internal/domain/playerstats"
	qb "github.com/pitchside/pitchside/internal/platform/querybuilder"
)

type PlayerStatsRepository struct {
	db *sqlx.DB
}

func NewPlayerStatsRepository(db *sqlx.DB) *PlayerStatsRepository {
	return &PlayerStatsRepository{db: db}
}

// ReplaceForMatch deletes every row for the match and bulk inserts the new
// set in one transaction. The extractor's in-memory merge already resolved
// duplicates within a single event; this keeps repeated ingestions of the
// same event from accumulating on top of that.
func (r *PlayerStatsRepository) ReplaceForMatch(ctx context.Context, matchID int64, rows []playerstats.PlayerMatchStats) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace player match stats: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM player_match_stats WHERE match_id = $1", matchID); err != nil {
		return fmt.Errorf("delete player match stats match=%d: %w", matchID, err)
	}

	for _, row := range rows {
		insertModel := playerStatsInsertModel{
			MatchID:         matchID,
			PlayerID:        row.PlayerID,
			TeamID:          row.TeamID,
			Goals:           row.Goals,
			ShotsOnTarget:   row.ShotsOnTarget,
			Assists:         row.Assists,
			Passes:          row.Passes,
			PassesCompleted: row.PassesCompleted,
			Tackles:         row.Tackles,
			Interceptions:   row.Interceptions,
			Saves:           row.Saves,
			YellowCards:     row.YellowCards,
			RedCards:        row.RedCards,
		}
		query, args, err := qb.InsertModel("player_match_stats", insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert player match stats query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert player match stats match=%d player=%d: %w", matchID, row.PlayerID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace player match stats tx: %w", err)
	}
	return nil
}

func (r *PlayerStatsRepository) ListByMatch(ctx context.Context, matchID int64) ([]playerstats.PlayerMatchStats, error) {
	query, args, err := qb.Select("*").From("player_match_stats").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("player_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list player match stats query: %w", err)
	}

	var rows []playerStatsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list player match stats: %w", err)
	}

	out := make([]playerstats.PlayerMatchStats, 0, len(rows))
	for _, row := range rows {
		out = append(out, row.toDomain())
	}

	return out, nil
}

// SumByPlayer aggregates per-match rows into season totals. Totals are never
// stored as running counters, which is what makes re-ingestion safe.
func (r *PlayerStatsRepository) SumByPlayer(ctx context.Context, playerID int64) (playerstats.Totals, error) {
	query, args, err := qb.Select(
		"COALESCE(SUM(goals), 0) AS goals",
		"COALESCE(SUM(shots_on_target), 0) AS shots_on_target",
		"COALESCE(SUM(assists), 0) AS assists",
		"COALESCE(COUNT(1), 0) AS matches",
	).From("player_match_stats").
		Where(qb.Eq("player_id", playerID)).
		ToSQL()
	if err != nil {
		return playerstats.Totals{}, fmt.Errorf("build sum player stats query: %w", err)
	}

	var row struct {
		Goals         int `db:"goals"`
		ShotsOnTarget int `db:"shots_on_target"`
		Assists       int `db:"assists"`
		Matches       int `db:"matches"`
	}
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return playerstats.Totals{}, fmt.Errorf("sum player stats: %w", err)
	}

	return playerstats.Totals{
		Goals:         row.Goals,
		ShotsOnTarget: row.ShotsOnTarget,
		Assists:       row.Assists,
		Matches:       row.Matches,
	}, nil
}

type playerStatsTableModel struct {
	ID              int64 `db:"id"`
	MatchID         int64 `db:"match_id"`
	PlayerID        int64 `db:"player_id"`
	TeamID          int64 `db:"team_id"`
	Goals           int   `db:"goals"`
	ShotsOnTarget   int   `db:"shots_on_target"`
	Assists         int   `db:"assists"`
	Passes          int   `db:"passes"`
	PassesCompleted int   `db:"passes_completed"`
	Tackles         int   `db:"tackles"`
	Interceptions   int   `db:"interceptions"`
	Saves           int   `db:"saves"`
	YellowCards     int   `db:"yellow_cards"`
	RedCards        int   `db:"red_cards"`
}

func (m playerStatsTableModel) toDomain() playerstats.PlayerMatchStats {
	return playerstats.PlayerMatchStats{
		ID:              m.ID,
		MatchID:         m.MatchID,
		PlayerID:        m.PlayerID,
		TeamID:          m.TeamID,
		Goals:           m.Goals,
		ShotsOnTarget:   m.ShotsOnTarget,
		Assists:         m.Assists,
		Passes:          m.Passes,
		PassesCompleted: m.PassesCompleted,
		Tackles:         m.Tackles,
		Interceptions:   m.Interceptions,
		Saves:           m.Saves,
		YellowCards:     m.YellowCards,
		RedCards:        m.RedCards,
	}
}

type playerStatsInsertModel struct {
	MatchID         int64 `db:"match_id"`
	PlayerID        int64 `db:"player_id"`
	TeamID          int64 `db:"team_id"`
	Goals           int   `db:"goals"`
	ShotsOnTarget   int   `db:"shots_on_target"`
	Assists         int   `db:"assists"`
	Passes          int   `db:"passes"`
	PassesCompleted int   `db:"passes_completed"`
	Tackles         int   `db:"tackles"`
	Interceptions   int   `db:"interceptions"`
	Saves           int   `db:"saves"`
	YellowCards     int   `db:"yellow_cards"`
	RedCards        int   `db:"red_cards"`
}
