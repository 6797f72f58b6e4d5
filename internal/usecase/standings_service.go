package usecase

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/apperror"
	"github.com/riskibarqy/prediction-league/internal/domain/baseline"
	"github.com/riskibarqy/prediction-league/internal/domain/ranking"
	"github.com/riskibarqy/prediction-league/internal/domain/rawdata"
	"github.com/riskibarqy/prediction-league/internal/domain/season"
	"github.com/riskibarqy/prediction-league/internal/domain/standings"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

// FeedTable is one provider response reduced to what ingestion needs: the
// round it describes, the ranked teams, and the raw body for archiving.
type FeedTable struct {
	Round   int
	Entries []ranking.TeamRanking
	RawJSON string
}

// StandingsFeed pulls the current table for a season from the data
// provider.
type StandingsFeed interface {
	FetchSeasonStandings(ctx context.Context, seasonID string) (FeedTable, error)
}

type StandingsService struct {
	seasonRepo    season.Repository
	standingsRepo standings.Repository
	baselineRepo  baseline.Repository
	rawRepo       rawdata.Repository
	feed          StandingsFeed
	logger        *logging.Logger
	now           func() time.Time
}

func NewStandingsService(
	seasonRepo season.Repository,
	standingsRepo standings.Repository,
	baselineRepo baseline.Repository,
	rawRepo rawdata.Repository,
	feed StandingsFeed,
	logger *logging.Logger,
) *StandingsService {
	if logger == nil {
		logger = logging.Default()
	}

	return &StandingsService{
		seasonRepo:    seasonRepo,
		standingsRepo: standingsRepo,
		baselineRepo:  baselineRepo,
		rawRepo:       rawRepo,
		feed:          feed,
		logger:        logger,
		now:           time.Now,
	}
}

func (s *StandingsService) LatestSnapshot(ctx context.Context, seasonID string) (standings.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.LatestSnapshot")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return standings.Snapshot{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	if err := s.requireSeason(ctx, seasonID); err != nil {
		return standings.Snapshot{}, err
	}

	snap, exists, err := s.standingsRepo.FindLatestSnapshot(ctx, seasonID)
	if err != nil {
		return standings.Snapshot{}, fmt.Errorf("find latest standings: %w", err)
	}
	if !exists {
		return standings.Snapshot{}, fmt.Errorf("%w: no standings recorded for season %s", ErrNotFound, seasonID)
	}

	return snap, nil
}

// Baseline returns the season's seeded baseline ranking. Absence means
// the deployment skipped seeding and is reported as an internal fault,
// never as not-found.
func (s *StandingsService) Baseline(ctx context.Context, seasonID string) (ranking.List, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.Baseline")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return ranking.List{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	if err := s.requireSeason(ctx, seasonID); err != nil {
		return ranking.List{}, err
	}

	list, exists, err := s.baselineRepo.FindBySeason(ctx, seasonID)
	if err != nil {
		return ranking.List{}, fmt.Errorf("find season baseline: %w", err)
	}
	if !exists {
		return ranking.List{}, apperror.System("season baseline is missing", "season "+seasonID)
	}

	return list, nil
}

// SyncSeason ingests the provider's current table for one season:
// archive the raw payload, then replace the snapshot for that round.
func (s *StandingsService) SyncSeason(ctx context.Context, seasonID string) (standings.Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.SyncSeason")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return standings.Snapshot{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	if s.feed == nil {
		return standings.Snapshot{}, fmt.Errorf("%w: standings feed is not configured", ErrDependencyUnavailable)
	}
	if err := s.requireSeason(ctx, seasonID); err != nil {
		return standings.Snapshot{}, err
	}

	table, err := s.feed.FetchSeasonStandings(ctx, seasonID)
	if err != nil {
		return standings.Snapshot{}, fmt.Errorf("%w: fetch standings for season %s: %s", ErrDependencyUnavailable, seasonID, err)
	}

	list, err := tableToList(seasonID, table)
	if err != nil {
		return standings.Snapshot{}, err
	}

	snap := standings.Snapshot{
		SeasonID:   seasonID,
		Round:      table.Round,
		Rankings:   list,
		RecordedAt: s.now(),
	}
	if err := snap.Validate(); err != nil {
		return standings.Snapshot{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}

	s.archivePayload(ctx, seasonID, table)

	if err := s.standingsRepo.ReplaceForRound(ctx, snap); err != nil {
		return standings.Snapshot{}, fmt.Errorf("replace standings season=%s round=%d: %w", seasonID, snap.Round, err)
	}

	return snap, nil
}

// SeedBaseline writes the season baseline from the provider's current
// table. Seeding is idempotent: an existing baseline is kept untouched.
func (s *StandingsService) SeedBaseline(ctx context.Context, seasonID string) (baseline.Baseline, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.StandingsService.SeedBaseline")
	defer span.End()

	seasonID = strings.TrimSpace(seasonID)
	if seasonID == "" {
		return baseline.Baseline{}, fmt.Errorf("%w: season id is required", ErrInvalidInput)
	}
	if err := s.requireSeason(ctx, seasonID); err != nil {
		return baseline.Baseline{}, err
	}

	if existing, exists, err := s.baselineRepo.FindBySeason(ctx, seasonID); err != nil {
		return baseline.Baseline{}, fmt.Errorf("find season baseline: %w", err)
	} else if exists {
		return baseline.Baseline{SeasonID: seasonID, Rankings: existing}, nil
	}

	if s.feed == nil {
		return baseline.Baseline{}, fmt.Errorf("%w: standings feed is not configured", ErrDependencyUnavailable)
	}
	table, err := s.feed.FetchSeasonStandings(ctx, seasonID)
	if err != nil {
		return baseline.Baseline{}, fmt.Errorf("%w: fetch standings for season %s: %s", ErrDependencyUnavailable, seasonID, err)
	}

	list, err := tableToList(seasonID, table)
	if err != nil {
		return baseline.Baseline{}, err
	}

	seeded := baseline.Baseline{SeasonID: seasonID, Rankings: list, SeededAt: s.now()}
	if err := seeded.Validate(); err != nil {
		return baseline.Baseline{}, fmt.Errorf("%w: %s", ErrInvalidInput, err)
	}
	if err := s.baselineRepo.Save(ctx, seeded); err != nil {
		return baseline.Baseline{}, fmt.Errorf("save season baseline: %w", err)
	}

	return seeded, nil
}

func (s *StandingsService) requireSeason(ctx context.Context, seasonID string) error {
	_, exists, err := s.seasonRepo.GetByID(ctx, seasonID)
	if err != nil {
		return fmt.Errorf("load season: %w", err)
	}
	if !exists {
		return fmt.Errorf("%w: season %s", ErrNotFound, seasonID)
	}

	return nil
}

// archivePayload keeps the raw provider body for replay. Archive failures
// must not block the standings write.
func (s *StandingsService) archivePayload(ctx context.Context, seasonID string, table FeedTable) {
	if s.rawRepo == nil || strings.TrimSpace(table.RawJSON) == "" {
		return
	}

	sum := sha256.Sum256([]byte(table.RawJSON))
	item := rawdata.Payload{
		Source:      "sportmonks",
		EntityType:  "season_standings",
		EntityKey:   fmt.Sprintf("%s-round-%d", seasonID, table.Round),
		SeasonID:    seasonID,
		Round:       table.Round,
		PayloadJSON: table.RawJSON,
		PayloadHash: hex.EncodeToString(sum[:]),
		FetchedAt:   s.now(),
	}
	if err := s.rawRepo.UpsertMany(ctx, []rawdata.Payload{item}); err != nil {
		s.logger.WarnContext(ctx, "archive standings payload failed",
			"season_id", seasonID, "error", err)
	}
}

func tableToList(seasonID string, table FeedTable) (ranking.List, error) {
	listRes := ranking.NewList(table.Entries)
	list, ok := listRes.Get()
	if !ok {
		failure, _ := listRes.Failure()
		return ranking.List{}, fmt.Errorf("provider returned an invalid table for season %s: %s", seasonID, failure.Error())
	}

	return list, nil
}
