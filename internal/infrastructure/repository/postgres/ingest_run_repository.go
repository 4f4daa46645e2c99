package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/pitchside/pitchside/internal/domain/ingestrun"
	qb "github.com/pitchside/pitchside/internal/platform/querybuilder"
)

type IngestRunRepository struct {
	db *sqlx.DB
}

func NewIngestRunRepository(db *sqlx.DB) *IngestRunRepository {
	return &IngestRunRepository{db: db}
}

func (r *IngestRunRepository) Insert(ctx context.Context, run ingestrun.Run) error {
	insertModel := ingestRunInsertModel{
		RunType:      string(run.RunType),
		RunDay:       run.Day,
		Status:       string(run.Status),
		EventsSeen:   run.EventsSeen,
		EventsStored: run.EventsStored,
		ErrorMessage: run.ErrorMessage,
		StartedAt:    run.StartedAt,
		FinishedAt:   run.FinishedAt,
	}
	query, args, err := qb.InsertModel("ingestion_runs", insertModel, "")
	if err != nil {
		return fmt.Errorf("build insert ingestion run query: %w", err)
	}
	if _, err := r.db.ExecContext(ctx, query, args...); err != nil {
		return fmt.Errorf("insert ingestion run day=%s: %w", run.Day.Format("2006-01-02"), err)
	}

	return nil
}

func (r *IngestRunRepository) ListRecent(ctx context.Context, limit int) ([]ingestrun.Run, error) {
	if limit <= 0 {
		limit = 50
	}

	query, args, err := qb.Select("*").From("ingestion_runs").
		OrderBy("started_at DESC", "id DESC").
		Limit(limit).
		ToSQL()
	if err != nil {
		return nil, fmt.Errorf("build list recent ingestion runs query: %w", err)
	}

	var rows []ingestRunTableModel
	if err := r.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("list recent ingestion runs: %w", err)
	}

	out := make([]ingestrun.Run, 0, len(rows))
	for _, row := range rows {
		out = append(out, ingestrun.Run{
			ID:           row.ID,
			RunType:      ingestrun.RunType(row.RunType),
			Day:          row.RunDay,
			Status:       ingestrun.Status(row.Status),
			EventsSeen:   row.EventsSeen,
			EventsStored: row.EventsStored,
			ErrorMessage: row.ErrorMessage,
			StartedAt:    row.StartedAt,
			FinishedAt:   row.FinishedAt,
		})
	}

	return out, nil
}

type ingestRunTableModel struct {
	ID           int64     `db:"id"`
	RunType      string    `db:"run_type"`
	RunDay       time.Time `db:"run_day"`
	Status       string    `db:"status"`
	EventsSeen   int       `db:"events_seen"`
	EventsStored int       `db:"events_stored"`
	ErrorMessage string    `db:"error_message"`
	StartedAt    time.Time `db:"started_at"`
	FinishedAt   time.Time `db:"finished_at"`
}

type ingestRunInsertModel struct {
	RunType      string    `db:"run_type"`
	RunDay       time.Time `db:"run_day"`
	Status       string    `db:"status"`
	EventsSeen   int       `db:"events_seen"`
	EventsStored int       `db:"events_stored"`
	ErrorMessage string    `db:"error_message"`
	StartedAt    time.Time `db:"started_at"`
	FinishedAt   time.Time `db:"finished_at"`
}
