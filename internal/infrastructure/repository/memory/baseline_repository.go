package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/baseline"
	"github.com/riskibarqy/prediction-league/internal/domain/ranking"
)

type BaselineRepository struct {
	mu       sync.RWMutex
	bySeason map[string]baseline.Baseline
}

func NewBaselineRepository(seeded []baseline.Baseline) *BaselineRepository {
	bySeason := make(map[string]baseline.Baseline, len(seeded))
	for _, b := range seeded {
		bySeason[b.SeasonID] = b
	}

	return &BaselineRepository{bySeason: bySeason}
}

func (r *BaselineRepository) FindBySeason(_ context.Context, seasonID string) (ranking.List, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	b, ok := r.bySeason[seasonID]
	if !ok {
		return ranking.List{}, false, nil
	}

	return b.Rankings, true, nil
}

func (r *BaselineRepository) Save(_ context.Context, b baseline.Baseline) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.bySeason[b.SeasonID] = b
	return nil
}
