package httpapi

import (
	"context"

	"github.com/riskibarqy/prediction-league/internal/domain/user"
)

// principalKey is unexported so other packages cannot collide with or
// forge the request principal.
type principalKey struct{}

func withPrincipal(ctx context.Context, p user.Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

func principalFromContext(ctx context.Context) (user.Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(user.Principal)
	return p, ok
}
