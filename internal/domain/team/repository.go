package team

import "context"

// Repository describes team persistence needs from use cases.
type Repository interface {
	// Upsert inserts or refreshes the team keyed by external id.
	// Mutable fields are last-write-wins.
	Upsert(ctx context.Context, t Team) (Team, error)
	GetByID(ctx context.Context, id int64) (Team, bool, error)
	List(ctx context.Context) ([]Team, error)
}
