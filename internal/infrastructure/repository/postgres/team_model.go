package postgres

import (
	"time"

	"github.com/pitchside/pitchside/internal/domain/team"
)

type teamTableModel struct {
	ID           int64     `db:"id"`
	ExternalID   string    `db:"external_id"`
	Name         string    `db:"name"`
	Abbreviation string    `db:"abbreviation"`
	LogoURL      string    `db:"logo_url"`
	CreatedAt    time.Time `db:"created_at"`
	UpdatedAt    time.Time `db:"updated_at"`
}

func (m teamTableModel) toDomain() team.Team {
	return team.Team{
		ID:           m.ID,
		ExternalID:   m.ExternalID,
		Name:         m.Name,
		Abbreviation: m.Abbreviation,
		LogoURL:      m.LogoURL,
	}
}

type teamInsertModel struct {
	ExternalID   string `db:"external_id"`
	Name         string `db:"name"`
	Abbreviation string `db:"abbreviation"`
	LogoURL      string `db:"logo_url"`
}
