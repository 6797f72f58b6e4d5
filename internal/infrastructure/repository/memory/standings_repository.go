package memory

import (
	"context"
	"sort"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/standings"
)

type StandingsRepository struct {
	mu       sync.RWMutex
	bySeason map[string][]standings.Snapshot
}

func NewStandingsRepository() *StandingsRepository {
	return &StandingsRepository{bySeason: map[string][]standings.Snapshot{}}
}

func (r *StandingsRepository) FindLatestSnapshot(_ context.Context, seasonID string) (standings.Snapshot, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	items := r.bySeason[seasonID]
	if len(items) == 0 {
		return standings.Snapshot{}, false, nil
	}

	return items[len(items)-1], true, nil
}

func (r *StandingsRepository) ReplaceForRound(_ context.Context, snap standings.Snapshot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := r.bySeason[snap.SeasonID]
	for i, item := range items {
		if item.Round == snap.Round {
			items[i] = snap
			r.bySeason[snap.SeasonID] = items
			return nil
		}
	}

	items = append(items, snap)
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Round < items[j].Round
	})
	r.bySeason[snap.SeasonID] = items

	return nil
}
