package memory

import (
	"context"
	"sync"

	"github.com/riskibarqy/prediction-league/internal/domain/team"
)

type teamKey struct {
	seasonID string
	teamID   string
}

type TeamRepository struct {
	mu       sync.RWMutex
	bySeason map[string][]team.Team
	byID     map[teamKey]team.Team
}

func NewTeamRepository(teams []team.Team) *TeamRepository {
	r := &TeamRepository{
		bySeason: make(map[string][]team.Team),
		byID:     make(map[teamKey]team.Team, len(teams)),
	}
	for _, item := range teams {
		r.bySeason[item.SeasonID] = append(r.bySeason[item.SeasonID], item)
		r.byID[teamKey{seasonID: item.SeasonID, teamID: item.ID}] = item
	}
	return r
}

func (r *TeamRepository) ListBySeason(_ context.Context, seasonID string) ([]team.Team, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]team.Team(nil), r.bySeason[seasonID]...), nil
}

func (r *TeamRepository) GetByID(_ context.Context, seasonID, teamID string) (team.Team, bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	item, ok := r.byID[teamKey{seasonID: seasonID, teamID: teamID}]
	return item, ok, nil
}
