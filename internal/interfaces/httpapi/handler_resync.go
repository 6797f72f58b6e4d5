package httpapi

import (
	"errors"
	"fmt"
	"io"
	"net/http"

	jsoniter "github.com/json-iterator/go"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

type resyncRequest struct {
	SeasonIDs  []string `json:"season_ids" validate:"omitempty,dive,required"`
	SyncData   []string `json:"sync_data" validate:"omitempty,dive,oneof=standings baseline"`
	MaxWorkers int      `json:"max_workers" validate:"omitempty,gte=1,lte=32"`
}

func (h *Handler) RunStandingsResync(w http.ResponseWriter, r *http.Request) {
	ctx, span := startSpan(r.Context(), "httpapi.Handler.RunStandingsResync")
	defer span.End()

	if h.resyncService == nil {
		writeError(ctx, w, fmt.Errorf("%w: resync service is not configured", usecase.ErrDependencyUnavailable))
		return
	}

	req, err := decodeResyncRequest(r)
	if err != nil {
		writeError(ctx, w, err)
		return
	}
	if err := h.validateRequest(ctx, req); err != nil {
		writeError(ctx, w, err)
		return
	}

	resyncResult, err := h.resyncService.Resync(ctx, usecase.ResyncInput{
		SeasonIDs:  req.SeasonIDs,
		SyncData:   req.SyncData,
		MaxWorkers: req.MaxWorkers,
	})
	if err != nil {
		h.logger.WarnContext(ctx, "standings resync failed", "season_ids", req.SeasonIDs, "error", err)
		writeError(ctx, w, err)
		return
	}

	writeSuccess(ctx, w, http.StatusOK, resyncResult)
}

// decodeResyncRequest tolerates an empty body so schedulers can POST the
// route with no payload and get the full default resync.
func decodeResyncRequest(r *http.Request) (resyncRequest, error) {
	decoder := jsoniter.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	var req resyncRequest
	if err := decoder.Decode(&req); err != nil {
		if errors.Is(err, io.EOF) {
			return resyncRequest{}, nil
		}
		return resyncRequest{}, fmt.Errorf("%w: invalid JSON payload: %v", usecase.ErrInvalidInput, err)
	}

	return req, nil
}
