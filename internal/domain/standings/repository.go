package standings

import "context"

// Repository stores one standings snapshot per (season, round). The
// latest snapshot read doubles as the fallback resolver's standings
// source; its round tells callers which table they are looking at.
type Repository interface {
	FindLatestSnapshot(ctx context.Context, seasonID string) (Snapshot, bool, error)
	ReplaceForRound(ctx context.Context, snap Snapshot) error
}
