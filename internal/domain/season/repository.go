package season

import "context"

// Repository describes season persistence needs from use cases.
type Repository interface {
	List(ctx context.Context) ([]Season, error)
	GetByID(ctx context.Context, seasonID string) (Season, bool, error)
}

// RoundProvider answers which round a season is currently playing. Swaps
// are stamped with this round number.
type RoundProvider interface {
	CurrentRound(ctx context.Context, seasonID string) (int, error)
}
