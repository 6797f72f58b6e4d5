package sportmonks

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/ranking"
	"github.com/riskibarqy/prediction-league/internal/domain/rawdata"
	"github.com/riskibarqy/prediction-league/internal/domain/team"
	"github.com/riskibarqy/prediction-league/internal/platform/logging"
	"github.com/riskibarqy/prediction-league/internal/usecase"
)

type FeedConfig struct {
	Client      *Client
	Teams       team.Repository
	RawRepo     rawdata.Repository
	SeasonIDMap map[string]int64
	Logger      *logging.Logger
	Now         func() time.Time
}

// Feed adapts the SportMonks client to the standings ingestion port. It
// translates season public ids to provider season ids on the way out and
// provider team ids back to team public ids on the way in.
type Feed struct {
	client      *Client
	teams       team.Repository
	rawRepo     rawdata.Repository
	seasonIDMap map[string]int64
	logger      *logging.Logger
	now         func() time.Time
}

func NewFeed(cfg FeedConfig) *Feed {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.Default()
	}
	now := cfg.Now
	if now == nil {
		now = time.Now
	}

	seasonIDMap := make(map[string]int64, len(cfg.SeasonIDMap))
	for key, value := range cfg.SeasonIDMap {
		seasonIDMap[strings.TrimSpace(key)] = value
	}

	return &Feed{
		client:      cfg.Client,
		teams:       cfg.Teams,
		rawRepo:     cfg.RawRepo,
		seasonIDMap: seasonIDMap,
		logger:      logger,
		now:         now,
	}
}

func (f *Feed) FetchSeasonStandings(ctx context.Context, seasonID string) (usecase.FeedTable, error) {
	providerSeasonID, ok := f.seasonIDMap[seasonID]
	if !ok || providerSeasonID <= 0 {
		return usecase.FeedTable{}, fmt.Errorf("season %s has no provider season id configured", seasonID)
	}

	table, err := f.client.FetchSeasonTable(ctx, providerSeasonID)
	if err != nil {
		return usecase.FeedTable{}, err
	}

	f.archiveProviderPayloads(ctx, seasonID, table)

	teams, err := f.teams.ListBySeason(ctx, seasonID)
	if err != nil {
		return usecase.FeedTable{}, fmt.Errorf("list teams for season %s: %w", seasonID, err)
	}

	index := newTeamIndex(teams)
	entries := make([]ranking.TeamRanking, 0, len(table.Standings))
	var unmatched []string
	for _, row := range table.Standings {
		teamID, ok := index.resolve(row)
		if !ok {
			unmatched = append(unmatched, fmt.Sprintf("%s (provider id %d)", coalesce(row.TeamName, "unknown"), row.TeamExternalID))
			continue
		}
		entries = append(entries, ranking.TeamRanking{TeamID: teamID, Position: row.Position})
	}
	if len(unmatched) > 0 {
		return usecase.FeedTable{}, fmt.Errorf("season %s: provider table references unmapped teams: %s", seasonID, strings.Join(unmatched, ", "))
	}

	return usecase.FeedTable{
		Round:   table.Round,
		Entries: entries,
		RawJSON: table.RawJSON,
	}, nil
}

// archiveProviderPayloads keeps the per-request bodies next to the reduced
// snapshot the ingestion service stores. Archive failures never block the
// table itself.
func (f *Feed) archiveProviderPayloads(ctx context.Context, seasonID string, table SeasonTable) {
	if f.rawRepo == nil || len(table.Payloads) == 0 {
		return
	}

	fetchedAt := f.now().UTC()
	payloads := make([]rawdata.Payload, 0, len(table.Payloads))
	for _, payload := range table.Payloads {
		payload.Source = "sportmonks"
		payload.SeasonID = seasonID
		payload.Round = table.Round
		payload.PayloadHash = hashRawPayload(payload.PayloadJSON)
		payload.FetchedAt = fetchedAt
		payloads = append(payloads, payload)
	}

	if err := f.rawRepo.UpsertMany(ctx, payloads); err != nil {
		f.logger.WarnContext(ctx, "archive provider payloads failed", "season_id", seasonID, "error", err)
	}
}

func hashRawPayload(payload string) string {
	sum := sha256.Sum256([]byte(payload))
	return hex.EncodeToString(sum[:])
}

type teamIndex struct {
	byExternalRef map[int64]string
	byName        map[string]string
	byShort       map[string]string
}

func newTeamIndex(teams []team.Team) teamIndex {
	index := teamIndex{
		byExternalRef: make(map[int64]string, len(teams)),
		byName:        make(map[string]string, len(teams)),
		byShort:       make(map[string]string, len(teams)),
	}
	for _, item := range teams {
		if item.ExternalRef > 0 {
			index.byExternalRef[item.ExternalRef] = item.ID
		}
		if key := normalizeTeamName(item.Name); key != "" {
			index.byName[key] = item.ID
		}
		if key := strings.ToUpper(strings.TrimSpace(item.Short)); key != "" {
			index.byShort[key] = item.ID
		}
	}
	return index
}

// resolve prefers the provider id mapping; names and short codes are the
// fallback for teams whose external ref has not been backfilled yet.
func (i teamIndex) resolve(row Standing) (string, bool) {
	if id, ok := i.byExternalRef[row.TeamExternalID]; ok {
		return id, true
	}
	if key := normalizeTeamName(row.TeamName); key != "" {
		if id, ok := i.byName[key]; ok {
			return id, true
		}
	}
	if key := strings.ToUpper(strings.TrimSpace(row.TeamShort)); key != "" {
		if id, ok := i.byShort[key]; ok {
			return id, true
		}
	}
	return "", false
}

// normalizeTeamName flattens provider naming quirks ("AFC Bournemouth" vs
// "Bournemouth", ampersands, spacing) into a comparable key.
func normalizeTeamName(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return ""
	}
	raw = strings.ReplaceAll(raw, "&", " and ")

	var b strings.Builder
	for _, r := range raw {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
			continue
		}
		b.WriteByte(' ')
	}

	fields := strings.Fields(b.String())
	filtered := fields[:0]
	for _, field := range fields {
		switch field {
		case "fc", "afc", "cf":
			continue
		}
		filtered = append(filtered, field)
	}
	return strings.Join(filtered, " ")
}
