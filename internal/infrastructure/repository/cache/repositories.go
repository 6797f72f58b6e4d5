package cache

import (
	"context"
	"slices"

	"github.com/riskibarqy/prediction-league/internal/domain/season"
	"github.com/riskibarqy/prediction-league/internal/domain/team"
	basecache "github.com/riskibarqy/prediction-league/internal/platform/cache"
)

// Season and team reference data changes once per season, so reads go
// through a TTL cache. Prediction and standings rows are deliberately not
// decorated: both change mid-request and staleness there shows up as wrong
// scores.

// load round-trips a typed value through the any-keyed store. A lookup
// result carries its found flag inside the cached value so misses are
// cached too.
func load[T any](ctx context.Context, store *basecache.Store, key string, loader func(context.Context) (T, error)) (T, error) {
	v, err := store.GetOrLoad(ctx, key, func(ctx context.Context) (any, error) {
		return loader(ctx)
	})
	if err != nil {
		var zero T
		return zero, err
	}
	typed, _ := v.(T)
	return typed, nil
}

type hit[T any] struct {
	value T
	found bool
}

type SeasonRepository struct {
	next  season.Repository
	cache *basecache.Store
}

func NewSeasonRepository(next season.Repository, cache *basecache.Store) *SeasonRepository {
	return &SeasonRepository{next: next, cache: cache}
}

func (r *SeasonRepository) List(ctx context.Context) ([]season.Season, error) {
	items, err := load(ctx, r.cache, "season:list", r.next.List)
	if err != nil {
		return nil, err
	}
	return slices.Clone(items), nil
}

func (r *SeasonRepository) GetByID(ctx context.Context, seasonID string) (season.Season, bool, error) {
	cached, err := load(ctx, r.cache, "season:id:"+seasonID, func(ctx context.Context) (hit[season.Season], error) {
		item, found, err := r.next.GetByID(ctx, seasonID)
		return hit[season.Season]{value: item, found: found}, err
	})
	if err != nil {
		return season.Season{}, false, err
	}
	return cached.value, cached.found, nil
}

type TeamRepository struct {
	next  team.Repository
	cache *basecache.Store
}

func NewTeamRepository(next team.Repository, cache *basecache.Store) *TeamRepository {
	return &TeamRepository{next: next, cache: cache}
}

func (r *TeamRepository) ListBySeason(ctx context.Context, seasonID string) ([]team.Team, error) {
	items, err := load(ctx, r.cache, "team:list:"+seasonID, func(ctx context.Context) ([]team.Team, error) {
		return r.next.ListBySeason(ctx, seasonID)
	})
	if err != nil {
		return nil, err
	}
	return slices.Clone(items), nil
}

func (r *TeamRepository) GetByID(ctx context.Context, seasonID, teamID string) (team.Team, bool, error) {
	cached, err := load(ctx, r.cache, "team:id:"+seasonID+":"+teamID, func(ctx context.Context) (hit[team.Team], error) {
		item, found, err := r.next.GetByID(ctx, seasonID, teamID)
		return hit[team.Team]{value: item, found: found}, err
	})
	if err != nil {
		return team.Team{}, false, err
	}
	return cached.value, cached.found, nil
}
