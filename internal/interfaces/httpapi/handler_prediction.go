package httpapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/ranking"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

type rankingEntryDTO struct {
	TeamID   string `json:"team_id" validate:"required"`
	Position int    `json:"position" validate:"required,gte=1,lte=20"`
}

type createPredictionRequest struct {
	SeasonID string            `json:"season_id" validate:"required"`
	Rankings []rankingEntryDTO `json:"rankings" validate:"required,len=20,dive"`
}

type submitRankingsRequest struct {
	SeasonID string            `json:"season_id" validate:"required"`
	Rankings []rankingEntryDTO `json:"rankings" validate:"required,len=20,dive"`
}

type swapTeamsRequest struct {
	SeasonID  string `json:"season_id" validate:"required"`
	TeamA     string `json:"team_a" validate:"required"`
	PositionA int    `json:"position_a" validate:"required,gte=1,lte=20"`
	TeamB     string `json:"team_b" validate:"required"`
	PositionB int    `json:"position_b" validate:"required,gte=1,lte=20"`
}

type predictionDTO struct {
	ID        string            `json:"id"`
	UserID    string            `json:"user_id"`
	SeasonID  string            `json:"season_id"`
	AtRound   int               `json:"at_round"`
	Rankings  []rankingEntryDTO `json:"rankings"`
	CreatedAt string            `json:"created_at"`
	UpdatedAt string            `json:"updated_at"`
}

type resolvedRankingDTO struct {
	SeasonID string            `json:"season_id"`
	Source   string            `json:"source"`
	AtRound  int               `json:"at_round"`
	Rankings []rankingEntryDTO `json:"rankings"`
}

func (h *Handler) CreatePrediction(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.CreatePrediction")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req createPredictionRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	res := h.predictionService.Create(ctx, usecase.CreatePredictionInput{
		UserID:   principal.UserID,
		SeasonID: req.SeasonID,
		Rankings: rankingsFromRequest(req.Rankings),
	})
	if failure, failed := res.Failure(); failed {
		h.logger.WarnContext(ctx, "create prediction failed", "season_id", req.SeasonID, "user_id", principal.UserID, "error", failure)
		writeError(ctx, w, failure)
		return
	}

	item, _ := res.Get()
	writeSuccess(ctx, w, http.StatusCreated, predictionToDTO(ctx, item))
}

func (h *Handler) GetMyRanking(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetMyRanking")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	seasonID := strings.TrimSpace(r.URL.Query().Get("season_id"))
	if seasonID == "" {
		writeError(ctx, w, fmt.Errorf("%w: season_id query parameter is required", usecase.ErrInvalidInput))
		return
	}

	res := h.resolverService.Resolve(ctx, principal.UserID, seasonID)
	if failure, failed := res.Failure(); failed {
		h.logger.WarnContext(ctx, "resolve ranking failed", "season_id", seasonID, "user_id", principal.UserID, "error", failure)
		writeError(ctx, w, failure)
		return
	}

	resolved, _ := res.Get()
	writeSuccess(ctx, w, http.StatusOK, resolvedRankingDTO{
		SeasonID: seasonID,
		Source:   string(resolved.Source),
		AtRound:  resolved.AtRound,
		Rankings: rankingsToDTO(resolved.Rankings.Entries()),
	})
}

func (h *Handler) SubmitMyRankings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SubmitMyRankings")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req submitRankingsRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	res := h.predictionService.SubmitRanking(ctx, usecase.SubmitRankingInput{
		UserID:   principal.UserID,
		SeasonID: req.SeasonID,
		Rankings: rankingsFromRequest(req.Rankings),
	})
	if failure, failed := res.Failure(); failed {
		h.logger.WarnContext(ctx, "submit rankings failed", "season_id", req.SeasonID, "user_id", principal.UserID, "error", failure)
		writeError(ctx, w, failure)
		return
	}

	item, _ := res.Get()
	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(ctx, item))
}

func (h *Handler) SwapMyTeams(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.SwapMyTeams")
	defer span.End()

	principal, ok := principalFromContext(ctx)
	if !ok {
		writeError(ctx, w, fmt.Errorf("%w: principal is missing from request context", usecase.ErrUnauthorized))
		return
	}

	var req swapTeamsRequest
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	if err := decoder.Decode(&req); err != nil {
		writeError(ctx, w, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err))
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	res := h.predictionService.SwapTeams(ctx, usecase.SwapTeamsInput{
		UserID:    principal.UserID,
		SeasonID:  req.SeasonID,
		TeamA:     req.TeamA,
		PositionA: req.PositionA,
		TeamB:     req.TeamB,
		PositionB: req.PositionB,
	})
	if failure, failed := res.Failure(); failed {
		h.logger.WarnContext(ctx, "swap teams failed", "season_id", req.SeasonID, "user_id", principal.UserID, "error", failure)
		writeError(ctx, w, failure)
		return
	}

	item, _ := res.Get()
	writeSuccess(ctx, w, http.StatusOK, predictionToDTO(ctx, item))
}

func predictionToDTO(ctx context.Context, v prediction.Prediction) predictionDTO {
	ctx, span := startSpan(ctx, "httpapi.predictionToDTO")
	defer span.End()

	return predictionDTO{
		ID:        v.ID,
		UserID:    v.UserID,
		SeasonID:  v.SeasonID,
		AtRound:   v.AtRound,
		Rankings:  rankingsToDTO(v.Rankings.Entries()),
		CreatedAt: v.CreatedAt.UTC().Format(time.RFC3339),
		UpdatedAt: v.UpdatedAt.UTC().Format(time.RFC3339),
	}
}

func rankingsToDTO(entries []ranking.TeamRanking) []rankingEntryDTO {
	items := make([]rankingEntryDTO, 0, len(entries))
	for _, entry := range entries {
		items = append(items, rankingEntryDTO{TeamID: entry.TeamID, Position: entry.Position})
	}
	return items
}

func rankingsFromRequest(entries []rankingEntryDTO) []ranking.TeamRanking {
	items := make([]ranking.TeamRanking, 0, len(entries))
	for _, entry := range entries {
		items = append(items, ranking.TeamRanking{TeamID: entry.TeamID, Position: entry.Position})
	}
	return items
}
