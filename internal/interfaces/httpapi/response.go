package httpapi

import (
	"context"
	"errors"
	"net/http"

	sonic "github.com/bytedance/sonic"
	"github.com/riskibarqy/prediction-league/internal/domain/apperror"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

const (
	googleAPIVersion = "2.0"
	errorDomain      = "prediction-league"
)

type googleResponseEnvelope struct {
	APIVersion string           `json:"apiVersion"`
	Data       any              `json:"data,omitempty"`
	Error      *googleErrorBody `json:"error,omitempty"`
}

type googleErrorBody struct {
	Code    int               `json:"code"`
	Message string            `json:"message"`
	Status  string            `json:"status"`
	Errors  []googleErrorItem `json:"errors,omitempty"`
}

type googleErrorItem struct {
	Domain  string `json:"domain"`
	Reason  string `json:"reason"`
	Message string `json:"message"`
}

type mappedError struct {
	HTTPStatus int
	Reason     string
	Status     string
}

var internalMapping = mappedError{http.StatusInternalServerError, "internalError", "INTERNAL"}

var kindMappings = map[apperror.Kind]mappedError{
	apperror.KindValidation: {http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"},
	apperror.KindConflict:   {http.StatusConflict, "conflict", "ABORTED"},
	apperror.KindNotFound:   {http.StatusNotFound, "notFound", "NOT_FOUND"},
}

var sentinelMappings = []struct {
	target error
	mapped mappedError
}{
	{usecase.ErrInvalidInput, mappedError{http.StatusBadRequest, "invalidInput", "INVALID_ARGUMENT"}},
	{usecase.ErrNotFound, mappedError{http.StatusNotFound, "notFound", "NOT_FOUND"}},
	{usecase.ErrUnauthorized, mappedError{http.StatusUnauthorized, "unauthorized", "UNAUTHENTICATED"}},
	{usecase.ErrDependencyUnavailable, mappedError{http.StatusServiceUnavailable, "dependencyUnavailable", "UNAVAILABLE"}},
}

func writeJSON(ctx context.Context, w http.ResponseWriter, status int, payload any) {
	ctx, span := startSpan(ctx, "httpapi.writeJSON")
	defer span.End()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = sonic.ConfigDefault.NewEncoder(w).Encode(payload)
}

func writeSuccess(ctx context.Context, w http.ResponseWriter, status int, data any) {
	ctx, span := startSpan(ctx, "httpapi.writeSuccess")
	defer span.End()

	writeJSON(ctx, w, status, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Data:       data,
	})
}

func writeError(ctx context.Context, w http.ResponseWriter, err error) {
	ctx, span := startSpan(ctx, "httpapi.writeError")
	defer span.End()

	mapped := mapError(ctx, err)

	message := err.Error()
	var details []string
	if mapped.Status == "INTERNAL" {
		// System failures can carry driver or provider detail in their
		// message; callers get a generic line, the specifics stay in logs.
		message = "internal server error"
	} else {
		var appErr *apperror.Error
		if errors.As(err, &appErr) {
			details = appErr.Details
		}
	}

	writeFailure(ctx, w, mapped, message, details)
}

func writeInternalError(ctx context.Context, w http.ResponseWriter) {
	ctx, span := startSpan(ctx, "httpapi.writeInternalError")
	defer span.End()

	writeFailure(ctx, w, internalMapping, "internal server error", nil)
}

// writeFailure renders one mapped error as a Google-style envelope. The top
// line is repeated as the first detail item so clients can treat the errors
// array as the complete list.
func writeFailure(ctx context.Context, w http.ResponseWriter, mapped mappedError, message string, details []string) {
	items := make([]googleErrorItem, 0, 1+len(details))
	items = append(items, googleErrorItem{Domain: errorDomain, Reason: mapped.Reason, Message: message})
	for _, detail := range details {
		items = append(items, googleErrorItem{Domain: errorDomain, Reason: mapped.Reason, Message: detail})
	}

	writeJSON(ctx, w, mapped.HTTPStatus, googleResponseEnvelope{
		APIVersion: googleAPIVersion,
		Error: &googleErrorBody{
			Code:    mapped.HTTPStatus,
			Message: message,
			Status:  mapped.Status,
			Errors:  items,
		},
	})
}

func mapError(ctx context.Context, err error) mappedError {
	ctx, span := startSpan(ctx, "httpapi.mapError")
	defer span.End()

	var appErr *apperror.Error
	if errors.As(err, &appErr) {
		if mapped, ok := kindMappings[appErr.Kind]; ok {
			return mapped
		}
		return internalMapping
	}

	for _, rule := range sentinelMappings {
		if errors.Is(err, rule.target) {
			return rule.mapped
		}
	}
	return internalMapping
}
