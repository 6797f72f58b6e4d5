package baseline

import (
	"context"

	"github.com/riskibarqy/prediction-league/internal/domain/ranking"
)

// Repository stores one baseline per season, written at seeding time.
type Repository interface {
	FindBySeason(ctx context.Context, seasonID string) (ranking.List, bool, error)
	Save(ctx context.Context, b Baseline) error
}
