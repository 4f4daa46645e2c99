package postgres

import (
	"database/sql"
	"time"

	"github.com/pitchside/pitchside/internal/domain/match"
)

type matchTableModel struct {
	ID              int64         `db:"id"`
	ExternalEventID string        `db:"external_event_id"`
	LeagueID        sql.NullInt64 `db:"league_id"`
	HomeTeamID      int64         `db:"home_team_id"`
	AwayTeamID      int64         `db:"away_team_id"`
	MatchDate       time.Time     `db:"match_date"`
	Venue           string        `db:"venue"`
	Status          string        `db:"status"`
	HomeScore       int           `db:"home_score"`
	AwayScore       int           `db:"away_score"`
	UpdatedAt       time.Time     `db:"updated_at"`
}

func (m matchTableModel) toDomain() match.Match {
	return match.Match{
		ID:              m.ID,
		ExternalEventID: m.ExternalEventID,
		LeagueID:        nullInt64ToPtr(m.LeagueID),
		HomeTeamID:      m.HomeTeamID,
		AwayTeamID:      m.AwayTeamID,
		Date:            m.MatchDate,
		Venue:           m.Venue,
		Status:          m.Status,
		HomeScore:       m.HomeScore,
		AwayScore:       m.AwayScore,
	}
}

type matchInsertModel struct {
	ExternalEventID string        `db:"external_event_id"`
	LeagueID        sql.NullInt64 `db:"league_id"`
	HomeTeamID      int64         `db:"home_team_id"`
	AwayTeamID      int64         `db:"away_team_id"`
	MatchDate       time.Time     `db:"match_date"`
	Venue           string        `db:"venue"`
	Status          string        `db:"status"`
	HomeScore       int           `db:"home_score"`
	AwayScore       int           `db:"away_score"`
}
