package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pitchside/pitchside/internal/domain/player"
	qb "github.com/pitchside/pitchside/internal/platform/querybuilder"
)

type PlayerRepository struct {
	db *sqlx.DB
}

func NewPlayerRepository(db *sqlx.DB) *PlayerRepository {
	return &PlayerRepository{db: db}
}

// Upsert is last-write-wins on display metadata.
func (r *PlayerRepository) Upsert(ctx context.Context, p player.Player) (player.Player, error) {
	if err := p.Validate(); err != nil {
		return player.Player{}, fmt.Errorf("validate player: %w", err)
	}

	insertModel := playerInsertModel{
		ExternalID: p.ExternalID,
		Name:       p.Name,
		Position:   p.Position,
	}
	query, args, err := qb.InsertModel("players", insertModel, `ON CONFLICT (external_id)
DO UPDATE SET
    name = EXCLUDED.name,
    position = EXCLUDED.position,
    updated_at = now()`)
	if err != nil {
		return player.Player{}, fmt.Errorf("build upsert player query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return player.Player{}, fmt.Errorf("upsert player external_id=%s: %w", p.ExternalID, err)
	}

	return r.getByExternalID(ctx, p.ExternalID)
}

func (r *PlayerRepository) getByExternalID(ctx context.Context, externalID string) (player.Player, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("external_id", externalID)).
		ToSQL()
	if err != nil {
		return player.Player{}, fmt.Errorf("build get player by external id query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		return player.Player{}, fmt.Errorf("get player by external id: %w", err)
	}

	return row.toDomain(), nil
}

func (r *PlayerRepository) GetByID(ctx context.Context, id int64) (player.Player, bool, error) {
	query, args, err := qb.Select("*").From("players").
		Where(qb.Eq("id", id)).
		ToSQL()
	if err != nil {
		return player.Player{}, false, fmt.Errorf("build get player by id query: %w", err)
	}

	var row playerTableModel
	if err := r.db.GetContext(ctx, &row, query, args...); err != nil {
		if isNotFound(err) {
			return player.Player{}, false, nil
		}
		return player.Player{}, false, fmt.Errorf("get player by id: %w", err)
	}

	return row.toDomain(), true, nil
}

type playerTableModel struct {
	ID         int64     `db:"id"`
	ExternalID string    `db:"external_id"`
	Name       string    `db:"name"`
	Position   string    `db:"position"`
	CreatedAt  time.Time `db:"created_at"`
	UpdatedAt  time.Time `db:"updated_at"`
}

func (m playerTableModel) toDomain() player.Player {
	return player.Player{
		ID:         m.ID,
		ExternalID: m.ExternalID,
		Name:       m.Name,
		Position:   m.Position,
	}
}

type playerInsertModel struct {
	ExternalID string `db:"external_id"`
	Name       string `db:"name"`
	Position   string `db:"position"`
}
