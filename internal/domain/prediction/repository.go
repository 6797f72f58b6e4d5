package prediction

import "context"

// Repository is the sole persistence boundary for predictions. Save is an
// atomic overwrite keyed by the aggregate ID.
type Repository interface {
	ExistsByUserAndSeason(ctx context.Context, userID, seasonID string) (bool, error)
	FindByUserAndSeason(ctx context.Context, userID, seasonID string) (Prediction, bool, error)
	Save(ctx context.Context, p Prediction) (Prediction, error)
}
