package player

import "context"

// Repository describes player persistence needs from use cases.
type Repository interface {
	// Upsert inserts or refreshes the player keyed by external id.
	// Mutable fields are last-write-wins.
	Upsert(ctx context.Context, p Player) (Player, error)
	GetByID(ctx context.Context, id int64) (Player, bool, error)
}
