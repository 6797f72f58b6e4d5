package usecase

import (
	"context"
	"strings"

	"github.com/riskibarqy/prediction-league/internal/domain/apperror"
	"github.com/riskibarqy/prediction-league/internal/domain/baseline"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/ranking"
	"github.com/riskibarqy/prediction-league/internal/domain/standings"
	"github.com/riskibarqy/prediction-league/internal/platform/result"
)

// ResolvedRanking is the table a caller should display, together with the
// source tier it came from and the round it reflects. Baseline
// resolutions report round zero.
type ResolvedRanking struct {
	Source   ranking.Source
	Rankings ranking.List
	AtRound  int
}

// RankingResolverService serves a ranking for any user at any point in
// the season by walking the source tiers in priority order.
type RankingResolverService struct {
	predictionRepo prediction.Repository
	standingsRepo  standings.Repository
	baselineRepo   baseline.Repository
}

func NewRankingResolverService(
	predictionRepo prediction.Repository,
	standingsRepo standings.Repository,
	baselineRepo baseline.Repository,
) *RankingResolverService {
	return &RankingResolverService{
		predictionRepo: predictionRepo,
		standingsRepo:  standingsRepo,
		baselineRepo:   baselineRepo,
	}
}

// Resolve returns the first non-empty ranking among the user's own
// prediction, the latest recorded standings, and the season baseline. A
// missing baseline is a seeding fault and surfaces as a system failure,
// never as not-found.
func (s *RankingResolverService) Resolve(ctx context.Context, userID, seasonID string) result.Result[*apperror.Error, ResolvedRanking] {
	ctx, span := startUsecaseSpan(ctx, "usecase.RankingResolverService.Resolve")
	defer span.End()

	userID = strings.TrimSpace(userID)
	seasonID = strings.TrimSpace(seasonID)
	if userID == "" || seasonID == "" {
		return result.Failure[ResolvedRanking](apperror.Validation("user id and season id are required"))
	}

	stored, exists, err := s.predictionRepo.FindByUserAndSeason(ctx, userID, seasonID)
	if err != nil {
		return result.Failure[ResolvedRanking](asFailure("load prediction")(err))
	}
	if exists && !stored.Rankings.IsEmpty() {
		return result.Success[*apperror.Error](ResolvedRanking{
			Source:   ranking.SourceUserPrediction,
			Rankings: stored.Rankings,
			AtRound:  stored.AtRound,
		})
	}

	snap, exists, err := s.standingsRepo.FindLatestSnapshot(ctx, seasonID)
	if err != nil {
		return result.Failure[ResolvedRanking](asFailure("load latest standings")(err))
	}
	if exists && !snap.Rankings.IsEmpty() {
		return result.Success[*apperror.Error](ResolvedRanking{
			Source:   ranking.SourceRoundStandings,
			Rankings: snap.Rankings,
			AtRound:  snap.Round,
		})
	}

	base, exists, err := s.baselineRepo.FindBySeason(ctx, seasonID)
	if err != nil {
		return result.Failure[ResolvedRanking](asFailure("load season baseline")(err))
	}
	if !exists || base.IsEmpty() {
		return result.Failure[ResolvedRanking](apperror.System(
			"season baseline is missing", "season "+seasonID))
	}

	return result.Success[*apperror.Error](ResolvedRanking{
		Source:   ranking.SourceSeasonBaseline,
		Rankings: base,
		AtRound:  0,
	})
}
