package sportmonks

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/riskibarqy/prediction-league/internal/domain/rawdata"
	"github.com/riskibarqy/prediction-league/internal/infrastructure/repository/memory"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/platform/resilience"
)

const feedTestSeasonRef = int64(25583)

type rawRepoStub struct {
	mu    sync.Mutex
	items []rawdata.Payload
}

func (s *rawRepoStub) UpsertMany(_ context.Context, items []rawdata.Payload) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = append(s.items, items...)
	return nil
}

func (s *rawRepoStub) snapshot() []rawdata.Payload {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]rawdata.Payload, len(s.items))
	copy(out, s.items)
	return out
}

func newProviderTestServer(t *testing.T, standingsBody, roundsBody string) *httptest.Server {
	t.Helper()

	mux := http.NewServeMux()
	mux.HandleFunc("/standings/seasons/25583", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Get("api_token") == "" {
			t.Errorf("expected api_token query parameter on standings request")
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(standingsBody))
	})
	if roundsBody != "" {
		mux.HandleFunc("/rounds/seasons/25583", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			_, _ = w.Write([]byte(roundsBody))
		})
	}

	return httptest.NewServer(mux)
}

func newProviderTestClient(baseURL string) *Client {
	return NewClient(ClientConfig{
		BaseURL:        baseURL,
		Token:          "test-token",
		MaxRetries:     0,
		Logger:         logging.NewNop(),
		CircuitBreaker: resilience.CircuitBreakerConfig{Enabled: false},
	})
}

const feedTestStandingsBody = `{
	"data": [
		{"participant_id": 8, "position": 1, "points": 9, "played": 3, "participant": {"data": {"id": 8, "name": "Liverpool", "short_code": "LIV"}}},
		{"participant_id": 19, "position": 2, "points": 7, "played": 3, "participant": {"data": {"id": 19, "name": "Arsenal", "short_code": "ARS"}}},
		{"participant_id": 999901, "position": 3, "points": 7, "played": 3, "participant": {"data": {"id": 999901, "name": "Manchester City FC", "short_code": ""}}}
	]
}`

const feedTestRoundsBody = `{
	"data": [
		{"id": 401, "season_id": 25583, "name": "1", "finished": true, "is_current": false},
		{"id": 402, "season_id": 25583, "name": "2", "finished": true, "is_current": false},
		{"id": 403, "season_id": 25583, "name": "3", "finished": true, "is_current": false},
		{"id": 404, "season_id": 25583, "name": "4", "finished": false, "is_current": true}
	]
}`

func TestFeedFetchSeasonStandings_MapsProviderTable(t *testing.T) {
	t.Parallel()

	server := newProviderTestServer(t, feedTestStandingsBody, feedTestRoundsBody)
	defer server.Close()

	rawRepo := &rawRepoStub{}
	feed := NewFeed(FeedConfig{
		Client:      newProviderTestClient(server.URL),
		Teams:       memory.NewTeamRepository(memory.SeedTeams()),
		RawRepo:     rawRepo,
		SeasonIDMap: map[string]int64{memory.SeasonIDPremierLeague: feedTestSeasonRef},
		Logger:      logging.NewNop(),
	})

	table, err := feed.FetchSeasonStandings(context.Background(), memory.SeasonIDPremierLeague)
	if err != nil {
		t.Fatalf("expected feed success, got err=%v", err)
	}

	if table.Round != 3 {
		t.Fatalf("expected round=3, got=%d", table.Round)
	}

	wantOrder := []string{"eng-liv", "eng-ars", "eng-mci"}
	if len(table.Entries) != len(wantOrder) {
		t.Fatalf("expected %d entries, got=%d", len(wantOrder), len(table.Entries))
	}
	for idx, entry := range table.Entries {
		if entry.TeamID != wantOrder[idx] {
			t.Fatalf("expected entry %d team=%s, got=%s", idx, wantOrder[idx], entry.TeamID)
		}
		if entry.Position != idx+1 {
			t.Fatalf("expected entry %d position=%d, got=%d", idx, idx+1, entry.Position)
		}
	}
	if !strings.Contains(table.RawJSON, "Liverpool") {
		t.Fatalf("expected raw body to carry the provider table")
	}

	archived := rawRepo.snapshot()
	if len(archived) != 2 {
		t.Fatalf("expected two archived payloads, got=%d", len(archived))
	}
	for _, payload := range archived {
		if payload.Source != "sportmonks" {
			t.Fatalf("expected payload source=sportmonks, got=%s", payload.Source)
		}
		if payload.EntityType != "api_response" {
			t.Fatalf("expected payload entity_type=api_response, got=%s", payload.EntityType)
		}
		if payload.SeasonID != memory.SeasonIDPremierLeague {
			t.Fatalf("expected payload season=%s, got=%s", memory.SeasonIDPremierLeague, payload.SeasonID)
		}
		if payload.Round != 3 {
			t.Fatalf("expected payload round=3, got=%d", payload.Round)
		}
		if payload.PayloadHash == "" {
			t.Fatalf("expected payload hash to be set")
		}
		if payload.FetchedAt.IsZero() {
			t.Fatalf("expected payload fetched_at to be set")
		}
	}
}

func TestFeedFetchSeasonStandings_RejectsUnmappedTeams(t *testing.T) {
	t.Parallel()

	standingsBody := `{
		"data": [
			{"participant_id": 424242, "position": 1, "points": 9, "played": 3, "participant": {"data": {"id": 424242, "name": "Atlantis United", "short_code": "ATL"}}}
		]
	}`

	server := newProviderTestServer(t, standingsBody, feedTestRoundsBody)
	defer server.Close()

	feed := NewFeed(FeedConfig{
		Client:      newProviderTestClient(server.URL),
		Teams:       memory.NewTeamRepository(memory.SeedTeams()),
		SeasonIDMap: map[string]int64{memory.SeasonIDPremierLeague: feedTestSeasonRef},
		Logger:      logging.NewNop(),
	})

	_, err := feed.FetchSeasonStandings(context.Background(), memory.SeasonIDPremierLeague)
	if err == nil {
		t.Fatalf("expected unmapped team error, got nil")
	}
	if !strings.Contains(err.Error(), "unmapped teams") {
		t.Fatalf("expected unmapped teams error, got=%v", err)
	}
	if !strings.Contains(err.Error(), "Atlantis United") {
		t.Fatalf("expected offending team name in error, got=%v", err)
	}
}

func TestFeedFetchSeasonStandings_RequiresSeasonMapping(t *testing.T) {
	t.Parallel()

	feed := NewFeed(FeedConfig{
		Client:      newProviderTestClient("http://localhost:0"),
		Teams:       memory.NewTeamRepository(memory.SeedTeams()),
		SeasonIDMap: map[string]int64{},
		Logger:      logging.NewNop(),
	})

	_, err := feed.FetchSeasonStandings(context.Background(), "ita-serie-a-2025-26")
	if err == nil {
		t.Fatalf("expected missing mapping error, got nil")
	}
	if !strings.Contains(err.Error(), "no provider season id") {
		t.Fatalf("expected missing mapping error, got=%v", err)
	}
}

func TestClientFetchSeasonTable_InfersRoundWithoutRoundsFeed(t *testing.T) {
	t.Parallel()

	standingsBody := `{
		"data": [
			{"participant_id": 8, "position": 1, "points": 19, "played": 7, "participant": {"data": {"id": 8, "name": "Liverpool", "short_code": "LIV"}}},
			{"participant_id": 19, "position": 2, "points": 16, "played": 6, "participant": {"data": {"id": 19, "name": "Arsenal", "short_code": "ARS"}}}
		]
	}`

	server := newProviderTestServer(t, standingsBody, "")
	defer server.Close()

	client := newProviderTestClient(server.URL)
	table, err := client.FetchSeasonTable(context.Background(), feedTestSeasonRef)
	if err != nil {
		t.Fatalf("expected table despite rounds outage, got err=%v", err)
	}

	if table.Round != 7 {
		t.Fatalf("expected round inferred from matches played=7, got=%d", table.Round)
	}
	if len(table.Payloads) != 1 {
		t.Fatalf("expected only the standings payload, got=%d", len(table.Payloads))
	}
}

func TestNormalizeTeamName(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   string
		want string
	}{
		{"AFC Bournemouth", "bournemouth"},
		{"Brighton & Hove Albion", "brighton and hove albion"},
		{"Manchester City FC", "manchester city"},
		{"  Wolverhampton  Wanderers ", "wolverhampton wanderers"},
		{"", ""},
	}
	for _, tc := range cases {
		if got := normalizeTeamName(tc.in); got != tc.want {
			t.Fatalf("normalizeTeamName(%q)=%q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestClientFetchSeasonTable_SurfacesProviderRejection(t *testing.T) {
	t.Parallel()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte(`{"message": "No result(s) found matching your request."}`))
	}))
	defer server.Close()

	client := newProviderTestClient(server.URL)
	_, err := client.FetchSeasonTable(context.Background(), feedTestSeasonRef)
	if err == nil {
		t.Fatalf("expected provider rejection error, got nil")
	}
	if !strings.Contains(err.Error(), "provider status=404") {
		t.Fatalf("expected status in error, got=%v", err)
	}
}
