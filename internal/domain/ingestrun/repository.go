package ingestrun

import "context"

type Repository interface {
	Insert(ctx context.Context, r Run) error
	ListRecent(ctx context.Context, limit int) ([]Run, error)
}
