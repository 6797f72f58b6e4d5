package usecase

import (
	"errors"
	"fmt"

	"github.com/riskibarqy/prediction-league/internal/domain/apperror"
)

var (
	ErrInvalidInput          = errors.New("invalid input")
	ErrNotFound              = errors.New("resource not found")
	ErrUnauthorized          = errors.New("unauthorized")
	ErrDependencyUnavailable = errors.New("dependency unavailable")
)

// asFailure adapts a collaborator error into the closed failure taxonomy,
// keeping the operation name in the wrapped cause for logs.
func asFailure(op string) func(error) *apperror.Error {
	return func(err error) *apperror.Error {
		if err == nil {
			return nil
		}
		return apperror.FromError(fmt.Errorf("%s: %w", op, err))
	}
}
