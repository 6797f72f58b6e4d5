package usecase

import (
	"context"
	"strings"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/apperror"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/ranking"
	"github.com/riskibarqy/prediction-league/internal/domain/season"
	"github.com/riskibarqy/prediction-league/internal/domain/team"
	"github.com/riskibarqy/prediction-league/internal/platform/id"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/platform/result"
)

// CreatePredictionInput is the create-prediction command. One prediction
// per user per season; the rankings must form a full table.
type CreatePredictionInput struct {
	UserID   string
	SeasonID string
	Rankings []ranking.TeamRanking
}

// SwapTeamsInput names the two teams to exchange together with the
// positions the caller last saw them at. Stale positions are rejected.
type SwapTeamsInput struct {
	UserID    string
	SeasonID  string
	TeamA     string
	PositionA int
	TeamB     string
	PositionB int
}

// SubmitRankingInput carries a full re-ranked table as submitted by the
// client. The service diffs it against the stored prediction and only
// accepts a single transposition.
type SubmitRankingInput struct {
	UserID   string
	SeasonID string
	Rankings []ranking.TeamRanking
}

type PredictionService struct {
	predictionRepo prediction.Repository
	seasonRepo     season.Repository
	teamRepo       team.Repository
	rounds         season.RoundProvider
	idGen          id.Generator
	logger         *logging.Logger
	now            func() time.Time
}

func NewPredictionService(
	predictionRepo prediction.Repository,
	seasonRepo season.Repository,
	teamRepo team.Repository,
	rounds season.RoundProvider,
	idGen id.Generator,
	logger *logging.Logger,
) *PredictionService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PredictionService{
		predictionRepo: predictionRepo,
		seasonRepo:     seasonRepo,
		teamRepo:       teamRepo,
		rounds:         rounds,
		idGen:          idGen,
		logger:         logger,
		now:            time.Now,
	}
}

func (s *PredictionService) Create(ctx context.Context, input CreatePredictionInput) result.Result[*apperror.Error, prediction.Prediction] {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.Create")
	defer span.End()

	userID := strings.TrimSpace(input.UserID)
	seasonID := strings.TrimSpace(input.SeasonID)
	if userID == "" {
		return result.Failure[prediction.Prediction](apperror.Validation("user id is required"))
	}
	if seasonID == "" {
		return result.Failure[prediction.Prediction](apperror.Validation("season id is required"))
	}

	if _, exists, err := s.seasonRepo.GetByID(ctx, seasonID); err != nil {
		return result.Failure[prediction.Prediction](asFailure("load season")(err))
	} else if !exists {
		return result.Failure[prediction.Prediction](apperror.NotFound("season not found", "season "+seasonID))
	}

	taken, err := s.predictionRepo.ExistsByUserAndSeason(ctx, userID, seasonID)
	if err != nil {
		return result.Failure[prediction.Prediction](asFailure("check existing prediction")(err))
	}
	if taken {
		return result.Failure[prediction.Prediction](apperror.Conflict(
			"a prediction already exists for this user and season"))
	}

	built := result.FlatMap(ranking.NewList(input.Rankings), func(list ranking.List) result.Result[*apperror.Error, prediction.Prediction] {
		if failure := s.checkSeasonTeams(ctx, seasonID, list); failure != nil {
			return result.Failure[prediction.Prediction](failure)
		}
		round, err := s.rounds.CurrentRound(ctx, seasonID)
		if err != nil {
			return result.Failure[prediction.Prediction](asFailure("resolve current round")(err))
		}
		newID, err := s.idGen.NewID()
		if err != nil {
			return result.Failure[prediction.Prediction](asFailure("generate prediction id")(err))
		}
		return prediction.New(newID, userID, seasonID, round, list, s.now())
	})

	return s.save(ctx, built).LogFailure(ctx, s.logger, "create prediction rejected")
}

func (s *PredictionService) GetByUserAndSeason(ctx context.Context, userID, seasonID string) result.Result[*apperror.Error, prediction.Prediction] {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.GetByUserAndSeason")
	defer span.End()

	userID = strings.TrimSpace(userID)
	seasonID = strings.TrimSpace(seasonID)
	if userID == "" || seasonID == "" {
		return result.Failure[prediction.Prediction](apperror.Validation("user id and season id are required"))
	}

	stored, exists, err := s.predictionRepo.FindByUserAndSeason(ctx, userID, seasonID)
	if err != nil {
		return result.Failure[prediction.Prediction](asFailure("load prediction")(err))
	}
	if !exists {
		return result.Failure[prediction.Prediction](apperror.NotFound(
			"no prediction for this user and season yet"))
	}

	return result.Success[*apperror.Error](stored)
}

// SwapTeams applies one explicitly requested transposition. The submitted
// positions act as an optimistic lock against the stored prediction.
func (s *PredictionService) SwapTeams(ctx context.Context, input SwapTeamsInput) result.Result[*apperror.Error, prediction.Prediction] {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.SwapTeams")
	defer span.End()

	pair := ranking.NewSwapPair(input.TeamA, input.PositionA, input.TeamB, input.PositionB)
	derive := func(prediction.Prediction) result.Result[*apperror.Error, ranking.SwapPair] {
		return pair
	}

	return s.applySwap(ctx, input.UserID, input.SeasonID, derive, "swap rejected")
}

// SubmitRanking accepts a full table and reduces it to a swap against the
// stored prediction. Any edit other than one transposition is rejected.
func (s *PredictionService) SubmitRanking(ctx context.Context, input SubmitRankingInput) result.Result[*apperror.Error, prediction.Prediction] {
	ctx, span := startUsecaseSpan(ctx, "usecase.PredictionService.SubmitRanking")
	defer span.End()

	derive := func(current prediction.Prediction) result.Result[*apperror.Error, ranking.SwapPair] {
		return ranking.FromRankingsChange(current.Rankings, input.Rankings)
	}

	return s.applySwap(ctx, input.UserID, input.SeasonID, derive, "ranking submission rejected")
}

func (s *PredictionService) applySwap(
	ctx context.Context,
	userID, seasonID string,
	derivePair func(prediction.Prediction) result.Result[*apperror.Error, ranking.SwapPair],
	rejectMsg string,
) result.Result[*apperror.Error, prediction.Prediction] {
	swapped := result.FlatMap(s.GetByUserAndSeason(ctx, userID, seasonID), func(current prediction.Prediction) result.Result[*apperror.Error, prediction.Prediction] {
		round, err := s.rounds.CurrentRound(ctx, current.SeasonID)
		if err != nil {
			return result.Failure[prediction.Prediction](asFailure("resolve current round")(err))
		}
		return result.FlatMap(derivePair(current), func(pair ranking.SwapPair) result.Result[*apperror.Error, prediction.Prediction] {
			return current.SwapTeams(pair, round, s.now())
		})
	})

	return s.save(ctx, swapped).LogFailure(ctx, s.logger, rejectMsg)
}

func (s *PredictionService) save(ctx context.Context, r result.Result[*apperror.Error, prediction.Prediction]) result.Result[*apperror.Error, prediction.Prediction] {
	return result.FlatMap(r, func(p prediction.Prediction) result.Result[*apperror.Error, prediction.Prediction] {
		return result.CatchCtx(ctx, func(ctx context.Context) (prediction.Prediction, error) {
			return s.predictionRepo.Save(ctx, p)
		}, asFailure("save prediction"))
	})
}

// checkSeasonTeams rejects rankings naming teams outside the season. An
// empty team table means reference data is not seeded yet; the list is
// accepted as-is in that case.
func (s *PredictionService) checkSeasonTeams(ctx context.Context, seasonID string, list ranking.List) *apperror.Error {
	teams, err := s.teamRepo.ListBySeason(ctx, seasonID)
	if err != nil {
		return asFailure("load season teams")(err)
	}
	if len(teams) == 0 {
		return nil
	}

	known := make(map[string]struct{}, len(teams))
	for _, item := range teams {
		known[item.ID] = struct{}{}
	}

	var unknown []string
	for _, entry := range list.Entries() {
		if _, ok := known[entry.TeamID]; !ok {
			unknown = append(unknown, "unknown team "+entry.TeamID)
		}
	}
	if len(unknown) > 0 {
		return apperror.Validation("ranking contains teams outside this season", unknown...)
	}

	return nil
}
