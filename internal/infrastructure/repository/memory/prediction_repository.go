package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
)

type PredictionRepository struct {
	mu    sync.RWMutex
	items map[string]prediction.Prediction
}

func NewPredictionRepository() *PredictionRepository {
	return &PredictionRepository{items: map[string]prediction.Prediction{}}
}

func predictionKey(userID, seasonID string) string {
	return userID + "|" + seasonID
}

func (r *PredictionRepository) ExistsByUserAndSeason(_ context.Context, userID, seasonID string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, ok := r.items[predictionKey(userID, seasonID)]
	return ok, nil
}

func (r *PredictionRepository) FindByUserAndSeason(_ context.Context, userID, seasonID string) (prediction.Prediction, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.items[predictionKey(userID, seasonID)]
	if !ok {
		return prediction.Prediction{}, false, nil
	}

	return p, true, nil
}

func (r *PredictionRepository) Save(_ context.Context, p prediction.Prediction) (prediction.Prediction, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.items[predictionKey(p.UserID, p.SeasonID)] = p
	return p, nil
}
