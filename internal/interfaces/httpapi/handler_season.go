package httpapi

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/season"
	"github.com/riskibarqy/prediction-league/internal/domain/standings"
	"github.com/riskibarqy/prediction-league/internal/domain/team"
)

type seasonDTO struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	CountryCode string `json:"country_code"`
	StartYear   int    `json:"start_year"`
	TotalRounds int    `json:"total_rounds"`
	IsActive    bool   `json:"is_active"`
}

type teamDTO struct {
	ID       string `json:"id"`
	SeasonID string `json:"season_id"`
	Name     string `json:"name"`
	Short    string `json:"short"`
}

type standingsSnapshotDTO struct {
	SeasonID   string            `json:"season_id"`
	Round      int               `json:"round"`
	Rankings   []rankingEntryDTO `json:"rankings"`
	RecordedAt string            `json:"recorded_at"`
}

type baselineDTO struct {
	SeasonID string            `json:"season_id"`
	Rankings []rankingEntryDTO `json:"rankings"`
}

func (h *Handler) ListSeasons(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListSeasons")
	defer span.End()

	seasons, err := h.seasonService.ListSeasons(ctx)
	if err != nil {
		h.logger.ErrorContext(ctx, "list seasons failed", "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]seasonDTO, 0, len(seasons))
	for _, s := range seasons {
		items = append(items, seasonToDTO(ctx, s))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) ListTeamsBySeason(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.ListTeamsBySeason")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))
	teams, err := h.seasonService.ListTeamsBySeason(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "list teams failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	items := make([]teamDTO, 0, len(teams))
	for _, t := range teams {
		items = append(items, teamToDTO(ctx, t))
	}

	writeSuccess(ctx, w, http.StatusOK, items)
}

func (h *Handler) GetLatestStandings(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetLatestStandings")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))
	snapshot, err := h.standingsService.LatestSnapshot(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "get latest standings failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, snapshotToDTO(ctx, snapshot))
}

func (h *Handler) GetBaseline(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.GetBaseline")
	defer span.End()

	seasonID := strings.TrimSpace(r.PathValue("seasonID"))
	list, err := h.standingsService.Baseline(ctx, seasonID)
	if err != nil {
		h.logger.WarnContext(ctx, "get baseline failed", "season_id", seasonID, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, baselineDTO{
		SeasonID: seasonID,
		Rankings: rankingsToDTO(list.Entries()),
	})
}

func seasonToDTO(ctx context.Context, v season.Season) seasonDTO {
	ctx, span := startSpan(ctx, "httpapi.seasonToDTO")
	defer span.End()

	return seasonDTO{
		ID:          v.ID,
		Name:        v.Name,
		CountryCode: v.CountryCode,
		StartYear:   v.StartYear,
		TotalRounds: v.TotalRounds,
		IsActive:    v.IsActive,
	}
}

func teamToDTO(ctx context.Context, v team.Team) teamDTO {
	ctx, span := startSpan(ctx, "httpapi.teamToDTO")
	defer span.End()

	return teamDTO{
		ID:       v.ID,
		SeasonID: v.SeasonID,
		Name:     v.Name,
		Short:    v.Short,
	}
}

func snapshotToDTO(ctx context.Context, v standings.Snapshot) standingsSnapshotDTO {
	ctx, span := startSpan(ctx, "httpapi.snapshotToDTO")
	defer span.End()

	return standingsSnapshotDTO{
		SeasonID:   v.SeasonID,
		Round:      v.Round,
		Rankings:   rankingsToDTO(v.Rankings.Entries()),
		RecordedAt: v.RecordedAt.UTC().Format(time.RFC3339),
	}
}
