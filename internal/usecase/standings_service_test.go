package usecase

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/apperror"
	"github.com/riskibarqy/prediction-league/internal/domain/rawdata"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

func newTestStandingsService(
	standingsRepo *stubStandingsRepository,
	baselineRepo *stubBaselineRepository,
	rawRepo *stubRawRepository,
	feed *stubStandingsFeed,
) *StandingsService {
	svc := NewStandingsService(seasonFixture(), standingsRepo, baselineRepo, rawRepo, feed, logging.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func TestStandingsService_SyncSeason_ReplacesSnapshotAndArchives(t *testing.T) {
	t.Parallel()

	standingsRepo := &stubStandingsRepository{}
	rawRepo := &stubRawRepository{}
	feed := &stubStandingsFeed{table: FeedTable{
		Round:   4,
		Entries: tableWithSwap(2, 7),
		RawJSON: `{"data":[{"position":1}]}`,
	}}
	svc := newTestStandingsService(standingsRepo, &stubBaselineRepository{}, rawRepo, feed)

	snap, err := svc.SyncSeason(context.Background(), testSeasonID)
	if err != nil {
		t.Fatalf("SyncSeason error: %v", err)
	}
	if snap.Round != 4 {
		t.Fatalf("expected round 4, got %d", snap.Round)
	}
	if !snap.Rankings.Equal(mustList(t, tableWithSwap(2, 7))) {
		t.Fatalf("snapshot rankings differ from feed")
	}
	if len(standingsRepo.replaced) != 1 {
		t.Fatalf("expected one replace, got %d", len(standingsRepo.replaced))
	}
	if len(rawRepo.items) != 1 {
		t.Fatalf("expected one archived payload, got %d", len(rawRepo.items))
	}

	archived := rawRepo.items[0]
	if archived.Source != "sportmonks" || archived.EntityType != "season_standings" {
		t.Fatalf("unexpected archive identity: %+v", archived)
	}
	if archived.EntityKey != testSeasonID+"-round-4" {
		t.Fatalf("unexpected entity key %q", archived.EntityKey)
	}
	if archived.PayloadHash == "" {
		t.Fatalf("expected payload hash to be set")
	}
}

func TestStandingsService_SyncSeason_FeedDown(t *testing.T) {
	t.Parallel()

	feed := &stubStandingsFeed{err: errors.New("503 from provider")}
	svc := newTestStandingsService(&stubStandingsRepository{}, &stubBaselineRepository{}, &stubRawRepository{}, feed)

	_, err := svc.SyncSeason(context.Background(), testSeasonID)
	if !errors.Is(err, ErrDependencyUnavailable) {
		t.Fatalf("expected dependency unavailable, got %v", err)
	}
}

func TestStandingsService_SyncSeason_InvalidProviderTable(t *testing.T) {
	t.Parallel()

	feed := &stubStandingsFeed{table: FeedTable{
		Round:   4,
		Entries: fullTable()[:19],
		RawJSON: "{}",
	}}
	standingsRepo := &stubStandingsRepository{}
	svc := newTestStandingsService(standingsRepo, &stubBaselineRepository{}, &stubRawRepository{}, feed)

	_, err := svc.SyncSeason(context.Background(), testSeasonID)
	if err == nil {
		t.Fatalf("expected invalid provider table to fail")
	}
	if !strings.Contains(err.Error(), "invalid table") {
		t.Fatalf("unexpected error %v", err)
	}
	if len(standingsRepo.replaced) != 0 {
		t.Fatalf("invalid table must not be written")
	}
}

func TestStandingsService_SyncSeason_UnknownSeason(t *testing.T) {
	t.Parallel()

	svc := newTestStandingsService(&stubStandingsRepository{}, &stubBaselineRepository{}, &stubRawRepository{}, &stubStandingsFeed{})

	_, err := svc.SyncSeason(context.Background(), "no-such-season")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStandingsService_SyncSeason_ArchiveFailureDoesNotBlock(t *testing.T) {
	t.Parallel()

	standingsRepo := &stubStandingsRepository{}
	rawRepo := &stubRawRepository{err: errors.New("disk full")}
	feed := &stubStandingsFeed{table: FeedTable{
		Round:   6,
		Entries: fullTable(),
		RawJSON: "{}",
	}}
	svc := newTestStandingsService(standingsRepo, &stubBaselineRepository{}, rawRepo, feed)

	snap, err := svc.SyncSeason(context.Background(), testSeasonID)
	if err != nil {
		t.Fatalf("SyncSeason error: %v", err)
	}
	if snap.Round != 6 || len(standingsRepo.replaced) != 1 {
		t.Fatalf("standings write must survive archive failure")
	}
}

func TestStandingsService_LatestSnapshot_NotRecorded(t *testing.T) {
	t.Parallel()

	svc := newTestStandingsService(&stubStandingsRepository{}, &stubBaselineRepository{}, &stubRawRepository{}, &stubStandingsFeed{})

	_, err := svc.LatestSnapshot(context.Background(), testSeasonID)
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}

func TestStandingsService_Baseline_MissingIsSystemFault(t *testing.T) {
	t.Parallel()

	svc := newTestStandingsService(&stubStandingsRepository{}, &stubBaselineRepository{}, &stubRawRepository{}, &stubStandingsFeed{})

	_, err := svc.Baseline(context.Background(), testSeasonID)
	if err == nil {
		t.Fatalf("expected missing baseline to fail")
	}

	var failure *apperror.Error
	if !errors.As(err, &failure) || !apperror.IsSystem(failure) {
		t.Fatalf("expected system failure, got %v", err)
	}
}

func TestStandingsService_SeedBaseline_Idempotent(t *testing.T) {
	t.Parallel()

	baselineRepo := &stubBaselineRepository{}
	feed := &stubStandingsFeed{table: FeedTable{
		Round:   0,
		Entries: fullTable(),
		RawJSON: "{}",
	}}
	svc := newTestStandingsService(&stubStandingsRepository{}, baselineRepo, &stubRawRepository{}, feed)

	first, err := svc.SeedBaseline(context.Background(), testSeasonID)
	if err != nil {
		t.Fatalf("SeedBaseline error: %v", err)
	}
	if !first.SeededAt.Equal(testNow) {
		t.Fatalf("expected fresh seed timestamp, got %v", first.SeededAt)
	}

	second, err := svc.SeedBaseline(context.Background(), testSeasonID)
	if err != nil {
		t.Fatalf("second SeedBaseline error: %v", err)
	}
	if !second.SeededAt.IsZero() {
		t.Fatalf("existing baseline must be kept, got seed time %v", second.SeededAt)
	}
	if len(baselineRepo.saved) != 1 {
		t.Fatalf("expected exactly one baseline save, got %d", len(baselineRepo.saved))
	}
	if got := feed.calls.Load(); got != 1 {
		t.Fatalf("expected one provider call, got %d", got)
	}
}

type stubStandingsFeed struct {
	table FeedTable
	err   error
	calls atomic.Int32
}

func (s *stubStandingsFeed) FetchSeasonStandings(_ context.Context, _ string) (FeedTable, error) {
	s.calls.Add(1)
	if s.err != nil {
		return FeedTable{}, s.err
	}
	return s.table, nil
}

type stubRawRepository struct {
	mu    sync.Mutex
	items []rawdata.Payload
	err   error
}

func (s *stubRawRepository) UpsertMany(_ context.Context, items []rawdata.Payload) error {
	if s.err != nil {
		return s.err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, items...)
	return nil
}
