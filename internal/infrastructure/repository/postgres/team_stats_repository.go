package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/pitchside/pitchside/internal/domain/teamstats"
	qb "github.com/pitchside/pitchside/internal/platform/querybuilder"
)

type TeamStatsRepository struct {
	db *sqlx.DB
}

func NewTeamStatsRepository(db *sqlx.DB) *TeamStatsRepository {
	return &TeamStatsRepository{db: db}
}

// ReplaceForMatch deletes prior rows for the match before inserting the new
// ones, inside one transaction. Plain inserts would stack duplicate rows on
// every re-ingestion of the same event.
func (r *TeamStatsRepository) ReplaceForMatch(ctx context.Context, matchID int64, rows []teamstats.MatchStatistics) error {
	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx replace match statistics: %w", err)
	}
	defer func() {
		_ = tx.Rollback()
	}()

	if _, err := tx.ExecContext(ctx, "DELETE FROM match_statistics WHERE match_id = $1", matchID); err != nil {
		return fmt.Errorf("delete match statistics match=%d: %w", matchID, err)
	}

	for _, row := range rows {
		insertModel := teamStatsInsertModel{
			MatchID:       matchID,
			TeamID:        row.TeamID,
			Possession:    row.Possession,
			Shots:         row.Shots,
			ShotsOnTarget: row.ShotsOnTarget,
			Corners:       row.Corners,
			Fouls:         row.Fouls,
			YellowCards:   row.YellowCards,
			RedCards:      row.RedCards,
		}
		query, args, err := qb.InsertModel("match_statistics", insertModel, "")
		if err != nil {
			return fmt.Errorf("build insert match statistics query: %w", err)
		}
		if _, err := tx.ExecContext(ctx, query, args...); err != nil {
			return fmt.Errorf("insert match statistics match=%d team=%d: %w", matchID, row.TeamID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit replace match statistics tx: %w", err)
	}
	return nil
}

func (r *TeamStatsRepository) ListByMatch(ctx context.Context, matchID int64) ([]teamstats.MatchStatistics, error) {
	query, args, err := qb.Select("*").From("match_statistics").
		Where(qb.Eq("match_id", matchID)).
		OrderBy("team_id").
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list match statistics query: %w", err)
	}

	var rows []teamStatsTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list match statistics: %w", err)
	}

	out := make([]teamstats.MatchStatistics, 0, len(rows))
	for _, row := range rows {
		out = append(out, teamstats.MatchStatistics{
			ID:            row.ID,
			MatchID:       row.MatchID,
			TeamID:        row.TeamID,
			Possession:    row.Possession,
			Shots:         row.Shots,
			ShotsOnTarget: row.ShotsOnTarget,
			Corners:       row.Corners,
			Fouls:         row.Fouls,
			YellowCards:   row.YellowCards,
			RedCards:      row.RedCards,
		})
	}

	return out, nil
}

type teamStatsTableModel struct {
	ID            int64   `db:"id"`
	MatchID       int64   `db:"match_id"`
	TeamID        int64   `db:"team_id"`
	Possession    float64 `db:"possession"`
	Shots         int     `db:"shots"`
	ShotsOnTarget int     `db:"shots_on_target"`
	Corners       int     `db:"corners"`
	Fouls         int     `db:"fouls"`
	YellowCards   int     `db:"yellow_cards"`
	RedCards      int     `db:"red_cards"`
}

type teamStatsInsertModel struct {
	MatchID       int64   `db:"match_id"`
	TeamID        int64   `db:"team_id"`
	Possession    float64 `db:"possession"`
	Shots         int     `db:"shots"`
	ShotsOnTarget int     `db:"shots_on_target"`
	Corners       int     `db:"corners"`
	Fouls         int     `db:"fouls"`
	YellowCards   int     `db:"yellow_cards"`
	RedCards      int     `db:"red_cards"`
}
