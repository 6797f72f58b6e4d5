package usecase

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/apperror"
	"github.com/riskibarqy/prediction-league/internal/domain/prediction"
	"github.com/riskibarqy/prediction-league/internal/domain/ranking"
	"github.com/riskibarqy/prediction-league/internal/domain/season"
	"github.com/riskibarqy/prediction-league/internal/domain/team"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
)

const (
	testUserID   = "user-1"
	testSeasonID = "epl-2025-26"
)

var testNow = time.Date(2025, 8, 1, 12, 0, 0, 0, time.UTC)

func fullTable() []ranking.TeamRanking {
	out := make([]ranking.TeamRanking, 0, ranking.TeamCount)
	for i := 1; i <= ranking.TeamCount; i++ {
		out = append(out, ranking.TeamRanking{TeamID: fmt.Sprintf("team-%d", i), Position: i})
	}
	return out
}

func tableWithSwap(posA, posB int) []ranking.TeamRanking {
	out := fullTable()
	out[posA-1].Position, out[posB-1].Position = posB, posA
	return out
}

func mustList(t *testing.T, entries []ranking.TeamRanking) ranking.List {
	t.Helper()
	list, ok := ranking.NewList(entries).Get()
	if !ok {
		t.Fatalf("fixture entries rejected by NewList")
	}
	return list
}

func seasonFixture() *stubSeasonRepository {
	return &stubSeasonRepository{byID: map[string]season.Season{
		testSeasonID: {ID: testSeasonID, Name: "Premier League 2025/26", CountryCode: "EN", StartYear: 2025, TotalRounds: 38, IsActive: true},
	}}
}

func teamsFixture() *stubTeamRepository {
	teams := make([]team.Team, 0, ranking.TeamCount)
	for i := 1; i <= ranking.TeamCount; i++ {
		teams = append(teams, team.Team{
			ID:       fmt.Sprintf("team-%d", i),
			SeasonID: testSeasonID,
			Name:     fmt.Sprintf("Team %d", i),
		})
	}
	return &stubTeamRepository{bySeason: map[string][]team.Team{testSeasonID: teams}}
}

func newTestPredictionService(repo *stubPredictionRepository, rounds stubRoundProvider) *PredictionService {
	svc := NewPredictionService(repo, seasonFixture(), teamsFixture(), rounds, &stubIDGenerator{}, logging.NewNop())
	svc.now = func() time.Time { return testNow }
	return svc
}

func seedPrediction(t *testing.T, repo *stubPredictionRepository, atRound int) prediction.Prediction {
	t.Helper()

	created := time.Date(2025, 7, 20, 9, 0, 0, 0, time.UTC)
	res := prediction.New("prediction-seed", testUserID, testSeasonID, atRound, mustList(t, fullTable()), created)
	seeded, ok := res.Get()
	if !ok {
		t.Fatalf("prediction fixture rejected")
	}

	if repo.byKey == nil {
		repo.byKey = map[string]prediction.Prediction{}
	}
	repo.byKey[predictionKey(testUserID, testSeasonID)] = seeded
	return seeded
}

func TestPredictionService_Create_PersistsAggregate(t *testing.T) {
	t.Parallel()

	repo := &stubPredictionRepository{}
	svc := newTestPredictionService(repo, stubRoundProvider{round: 7})

	res := svc.Create(context.Background(), CreatePredictionInput{
		UserID:   testUserID,
		SeasonID: testSeasonID,
		Rankings: fullTable(),
	})

	created, ok := res.Get()
	if !ok {
		failure, _ := res.Failure()
		t.Fatalf("Create failed: %v", failure)
	}
	if created.ID != "prediction-1" {
		t.Fatalf("unexpected id %q", created.ID)
	}
	if created.AtRound != 7 {
		t.Fatalf("expected round 7, got %d", created.AtRound)
	}
	if !created.CreatedAt.Equal(testNow) {
		t.Fatalf("unexpected CreatedAt %v", created.CreatedAt)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("expected one save, got %d", len(repo.saved))
	}
	if !created.Rankings.Equal(mustList(t, fullTable())) {
		t.Fatalf("persisted rankings differ from input")
	}
}

func TestPredictionService_Create_RejectsDuplicate(t *testing.T) {
	t.Parallel()

	repo := &stubPredictionRepository{}
	svc := newTestPredictionService(repo, stubRoundProvider{round: 1})
	seedPrediction(t, repo, 1)

	res := svc.Create(context.Background(), CreatePredictionInput{
		UserID:   testUserID,
		SeasonID: testSeasonID,
		Rankings: fullTable(),
	})

	failure, ok := res.Failure()
	if !ok {
		t.Fatalf("expected duplicate create to fail")
	}
	if !apperror.IsConflict(failure) {
		t.Fatalf("expected conflict, got %v", failure)
	}
}

func TestPredictionService_Create_UnknownSeason(t *testing.T) {
	t.Parallel()

	svc := newTestPredictionService(&stubPredictionRepository{}, stubRoundProvider{})

	res := svc.Create(context.Background(), CreatePredictionInput{
		UserID:   testUserID,
		SeasonID: "no-such-season",
		Rankings: fullTable(),
	})

	failure, ok := res.Failure()
	if !ok || !apperror.IsNotFound(failure) {
		t.Fatalf("expected not found, got %v", failure)
	}
}

func TestPredictionService_Create_RejectsShortTable(t *testing.T) {
	t.Parallel()

	svc := newTestPredictionService(&stubPredictionRepository{}, stubRoundProvider{})

	res := svc.Create(context.Background(), CreatePredictionInput{
		UserID:   testUserID,
		SeasonID: testSeasonID,
		Rankings: fullTable()[:19],
	})

	failure, ok := res.Failure()
	if !ok || !apperror.IsValidation(failure) {
		t.Fatalf("expected validation failure, got %v", failure)
	}
}

func TestPredictionService_Create_RejectsForeignTeam(t *testing.T) {
	t.Parallel()

	entries := fullTable()
	entries[19].TeamID = "team-x"

	svc := newTestPredictionService(&stubPredictionRepository{}, stubRoundProvider{})

	res := svc.Create(context.Background(), CreatePredictionInput{
		UserID:   testUserID,
		SeasonID: testSeasonID,
		Rankings: entries,
	})

	failure, ok := res.Failure()
	if !ok || !apperror.IsValidation(failure) {
		t.Fatalf("expected validation failure, got %v", failure)
	}
	if failure.Message != "ranking contains teams outside this season" {
		t.Fatalf("unexpected message %q", failure.Message)
	}
	if len(failure.Details) != 1 || failure.Details[0] != "unknown team team-x" {
		t.Fatalf("unexpected details %v", failure.Details)
	}
}

func TestPredictionService_SwapTeams_AppliesTransposition(t *testing.T) {
	t.Parallel()

	repo := &stubPredictionRepository{}
	svc := newTestPredictionService(repo, stubRoundProvider{round: 12})
	seedPrediction(t, repo, 3)

	res := svc.SwapTeams(context.Background(), SwapTeamsInput{
		UserID:    testUserID,
		SeasonID:  testSeasonID,
		TeamA:     "team-3",
		PositionA: 3,
		TeamB:     "team-9",
		PositionB: 9,
	})

	swapped, ok := res.Get()
	if !ok {
		failure, _ := res.Failure()
		t.Fatalf("SwapTeams failed: %v", failure)
	}

	entryA, _ := swapped.Rankings.ForTeam("team-3")
	entryB, _ := swapped.Rankings.ForTeam("team-9")
	if entryA.Position != 9 || entryB.Position != 3 {
		t.Fatalf("positions not exchanged: team-3=%d team-9=%d", entryA.Position, entryB.Position)
	}
	if swapped.AtRound != 12 {
		t.Fatalf("expected swap stamped with round 12, got %d", swapped.AtRound)
	}
	if !swapped.UpdatedAt.Equal(testNow) {
		t.Fatalf("unexpected UpdatedAt %v", swapped.UpdatedAt)
	}
	if len(repo.saved) != 1 {
		t.Fatalf("expected one save, got %d", len(repo.saved))
	}
}

func TestPredictionService_SwapTeams_StalePositions(t *testing.T) {
	t.Parallel()

	repo := &stubPredictionRepository{}
	svc := newTestPredictionService(repo, stubRoundProvider{round: 12})
	seedPrediction(t, repo, 3)

	res := svc.SwapTeams(context.Background(), SwapTeamsInput{
		UserID:    testUserID,
		SeasonID:  testSeasonID,
		TeamA:     "team-3",
		PositionA: 4,
		TeamB:     "team-9",
		PositionB: 9,
	})

	failure, ok := res.Failure()
	if !ok || !apperror.IsConflict(failure) {
		t.Fatalf("expected conflict on stale positions, got %v", failure)
	}
	if len(repo.saved) != 0 {
		t.Fatalf("stale swap must not be saved")
	}
}

func TestPredictionService_StaleSwapAfterSuccessfulSwap(t *testing.T) {
	t.Parallel()

	repo := &stubPredictionRepository{}
	svc := newTestPredictionService(repo, stubRoundProvider{round: 4})

	created := svc.Create(context.Background(), CreatePredictionInput{
		UserID:   testUserID,
		SeasonID: testSeasonID,
		Rankings: fullTable(),
	})
	if _, ok := created.Get(); !ok {
		failure, _ := created.Failure()
		t.Fatalf("Create failed: %v", failure)
	}

	firstSwap := SwapTeamsInput{
		UserID:    testUserID,
		SeasonID:  testSeasonID,
		TeamA:     "team-1",
		PositionA: 1,
		TeamB:     "team-5",
		PositionB: 5,
	}
	swapped, ok := svc.SwapTeams(context.Background(), firstSwap).Get()
	if !ok {
		t.Fatalf("first swap rejected")
	}

	entryA, _ := swapped.Rankings.ForTeam("team-1")
	entryB, _ := swapped.Rankings.ForTeam("team-5")
	if entryA.Position != 5 || entryB.Position != 1 {
		t.Fatalf("positions not exchanged: team-1=%d team-5=%d", entryA.Position, entryB.Position)
	}
	for i := 2; i <= ranking.TeamCount; i++ {
		if i == 5 {
			continue
		}
		entry, _ := swapped.Rankings.ForTeam(fmt.Sprintf("team-%d", i))
		if entry.Position != i {
			t.Fatalf("team-%d moved to %d", i, entry.Position)
		}
	}

	// The stored table moved on, so replaying the same claim is stale.
	failure, isFailure := svc.SwapTeams(context.Background(), firstSwap).Failure()
	if !isFailure || !apperror.IsConflict(failure) {
		t.Fatalf("expected conflict replaying the swap, got %v", failure)
	}
}

func TestPredictionService_SwapTeams_NoPredictionYet(t *testing.T) {
	t.Parallel()

	svc := newTestPredictionService(&stubPredictionRepository{}, stubRoundProvider{})

	res := svc.SwapTeams(context.Background(), SwapTeamsInput{
		UserID:    testUserID,
		SeasonID:  testSeasonID,
		TeamA:     "team-1",
		PositionA: 1,
		TeamB:     "team-2",
		PositionB: 2,
	})

	failure, ok := res.Failure()
	if !ok || !apperror.IsNotFound(failure) {
		t.Fatalf("expected not found, got %v", failure)
	}
}

func TestPredictionService_SubmitRanking_AcceptsSingleSwap(t *testing.T) {
	t.Parallel()

	repo := &stubPredictionRepository{}
	svc := newTestPredictionService(repo, stubRoundProvider{round: 20})
	seedPrediction(t, repo, 3)

	res := svc.SubmitRanking(context.Background(), SubmitRankingInput{
		UserID:   testUserID,
		SeasonID: testSeasonID,
		Rankings: tableWithSwap(5, 14),
	})

	updated, ok := res.Get()
	if !ok {
		failure, _ := res.Failure()
		t.Fatalf("SubmitRanking failed: %v", failure)
	}

	entryA, _ := updated.Rankings.ForTeam("team-5")
	entryB, _ := updated.Rankings.ForTeam("team-14")
	if entryA.Position != 14 || entryB.Position != 5 {
		t.Fatalf("positions not exchanged: team-5=%d team-14=%d", entryA.Position, entryB.Position)
	}
	if updated.AtRound != 20 {
		t.Fatalf("expected round 20, got %d", updated.AtRound)
	}
}

func TestPredictionService_SubmitRanking_RejectsMultipleMoves(t *testing.T) {
	t.Parallel()

	repo := &stubPredictionRepository{}
	svc := newTestPredictionService(repo, stubRoundProvider{round: 20})
	seedPrediction(t, repo, 3)

	// Rotate three teams so every change count check fires.
	entries := fullTable()
	entries[0].Position = 2
	entries[1].Position = 3
	entries[2].Position = 1

	res := svc.SubmitRanking(context.Background(), SubmitRankingInput{
		UserID:   testUserID,
		SeasonID: testSeasonID,
		Rankings: entries,
	})

	failure, ok := res.Failure()
	if !ok || !apperror.IsValidation(failure) {
		t.Fatalf("expected validation failure, got %v", failure)
	}
	if failure.Message != "a ranking update must swap exactly two teams, found 3 changed" {
		t.Fatalf("unexpected message %q", failure.Message)
	}
	if len(repo.saved) != 0 {
		t.Fatalf("rejected submission must not be saved")
	}
}

func TestPredictionService_SubmitRanking_RejectsUnchangedTable(t *testing.T) {
	t.Parallel()

	repo := &stubPredictionRepository{}
	svc := newTestPredictionService(repo, stubRoundProvider{round: 20})
	seedPrediction(t, repo, 3)

	res := svc.SubmitRanking(context.Background(), SubmitRankingInput{
		UserID:   testUserID,
		SeasonID: testSeasonID,
		Rankings: fullTable(),
	})

	failure, ok := res.Failure()
	if !ok || !apperror.IsValidation(failure) {
		t.Fatalf("expected validation failure, got %v", failure)
	}
	if failure.Message != "a ranking update must swap exactly two teams, found 0 changed" {
		t.Fatalf("unexpected message %q", failure.Message)
	}
}

func TestPredictionService_GetByUserAndSeason_NotFound(t *testing.T) {
	t.Parallel()

	svc := newTestPredictionService(&stubPredictionRepository{}, stubRoundProvider{})

	res := svc.GetByUserAndSeason(context.Background(), testUserID, testSeasonID)
	failure, ok := res.Failure()
	if !ok || !apperror.IsNotFound(failure) {
		t.Fatalf("expected not found, got %v", failure)
	}
}

func predictionKey(userID, seasonID string) string {
	return userID + "|" + seasonID
}

type stubPredictionRepository struct {
	byKey   map[string]prediction.Prediction
	findErr error
	saveErr error
	saved   []prediction.Prediction
}

func (s *stubPredictionRepository) ExistsByUserAndSeason(_ context.Context, userID, seasonID string) (bool, error) {
	if s.findErr != nil {
		return false, s.findErr
	}
	_, ok := s.byKey[predictionKey(userID, seasonID)]
	return ok, nil
}

func (s *stubPredictionRepository) FindByUserAndSeason(_ context.Context, userID, seasonID string) (prediction.Prediction, bool, error) {
	if s.findErr != nil {
		return prediction.Prediction{}, false, s.findErr
	}
	item, ok := s.byKey[predictionKey(userID, seasonID)]
	return item, ok, nil
}

func (s *stubPredictionRepository) Save(_ context.Context, p prediction.Prediction) (prediction.Prediction, error) {
	if s.saveErr != nil {
		return prediction.Prediction{}, s.saveErr
	}
	if s.byKey == nil {
		s.byKey = map[string]prediction.Prediction{}
	}
	s.byKey[predictionKey(p.UserID, p.SeasonID)] = p
	s.saved = append(s.saved, p)
	return p, nil
}

type stubSeasonRepository struct {
	byID map[string]season.Season
}

func (s *stubSeasonRepository) List(_ context.Context) ([]season.Season, error) {
	out := make([]season.Season, 0, len(s.byID))
	for _, item := range s.byID {
		out = append(out, item)
	}
	return out, nil
}

func (s *stubSeasonRepository) GetByID(_ context.Context, seasonID string) (season.Season, bool, error) {
	item, ok := s.byID[seasonID]
	return item, ok, nil
}

type stubTeamRepository struct {
	bySeason map[string][]team.Team
}

func (s *stubTeamRepository) ListBySeason(_ context.Context, seasonID string) ([]team.Team, error) {
	items := s.bySeason[seasonID]
	out := make([]team.Team, len(items))
	copy(out, items)
	return out, nil
}

func (s *stubTeamRepository) GetByID(_ context.Context, seasonID, teamID string) (team.Team, bool, error) {
	for _, item := range s.bySeason[seasonID] {
		if item.ID == teamID {
			return item, true, nil
		}
	}
	return team.Team{}, false, nil
}

type stubRoundProvider struct {
	round int
	err   error
}

func (s stubRoundProvider) CurrentRound(_ context.Context, _ string) (int, error) {
	return s.round, s.err
}

type stubIDGenerator struct {
	next int
}

func (s *stubIDGenerator) NewID() (string, error) {
	s.next++
	return fmt.Sprintf("prediction-%d", s.next), nil
}
