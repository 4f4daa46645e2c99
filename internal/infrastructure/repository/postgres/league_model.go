package postgres

import (
	"database/sql"
	"time"

	"github.com/pitchside/pitchside/internal/domain/league"
)

type leagueTableModel struct {
	ID           int64          `db:"id"`
	ExternalCode sql.NullString `db:"external_code"`
	Name         string         `db:"name"`
	SourceSlug   string         `db:"source_slug"`
	CreatedAt    time.Time      `db:"created_at"`
}

func (m leagueTableModel) toDomain() league.League {
	return league.League{
		ID:           m.ID,
		ExternalCode: m.ExternalCode.String,
		Name:         m.Name,
		SourceSlug:   m.SourceSlug,
	}
}

type leagueInsertModel struct {
	ExternalCode string `db:"external_code"`
	Name         string `db:"name"`
	SourceSlug   string `db:"source_slug"`
}
