package league

import "context"

// Repository describes league persistence needs from use cases.
type Repository interface {
	// Upsert inserts the league when its external code is unseen and
	// returns the stored row otherwise. Names are first-write-wins.
	Upsert(ctx context.Context, l League) (League, error)
	List(ctx context.Context) ([]League, error)
	GetByID(ctx context.Context, id int64) (League, bool, error)
}
