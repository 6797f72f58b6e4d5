package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/riskibarqy/prediction-league/internal/domain/season"
	"github.com/riskibarqy/prediction-league/internal/domain/team"
)

type SeasonService struct {
	seasonRepo season.Repository
	teamRepo   team.Repository
}

func NewSeasonService(seasonRepo season.Repository, teamRepo team.Repository) *SeasonService {
	return &SeasonService{
		seasonRepo: seasonRepo,
		teamRepo:   teamRepo,
	}
}

func (s *SeasonService) ListSeasons(ctx context.Context) ([]season.Season, error) {
	seasons, err := s.seasonRepo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list seasons: %w", err)
	}

	return seasons, nil
}

func (s *SeasonService) ListTeamsBySeason(ctx context.Context, seasonID string) ([]team.Team, error) {
	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return nil, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}

	_, exists, err := s.seasonRepo.GetByID(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("get season: %w", err)
	}
	if !exists {
		return nil, fmt.Errorf("%w: season=%s", ErrNotFound, seasonID)
	}

	teams, err := s.teamRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return nil, fmt.Errorf("list teams by season: %w", err)
	}

	return teams, nil
}
