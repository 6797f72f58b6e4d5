package usecase

import (
	"context"
	"fmt"

	"github.com/riskibarqy/prediction-league/internal/domain/standings"
)

// StandingsRoundProvider derives a season's current round from the newest
// recorded snapshot. Before any standings exist the round is zero.
type StandingsRoundProvider struct {
	standingsRepo standings.Repository
}

func NewStandingsRoundProvider(standingsRepo standings.Repository) *StandingsRoundProvider {
	return &StandingsRoundProvider{standingsRepo: standingsRepo}
}

func (p *StandingsRoundProvider) CurrentRound(ctx context.Context, seasonID string) (int, error) {
	snap, exists, err := p.standingsRepo.FindLatestSnapshot(ctx, seasonID)
	if err != nil {
		return 0, fmt.Errorf("find latest standings: %w", err)
	}
	if !exists {
		return 0, nil
	}

	return snap.Round, nil
}
