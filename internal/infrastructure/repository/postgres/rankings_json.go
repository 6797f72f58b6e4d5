package postgres

import (
	"fmt"
	"strings"

	"github.com/bytedance/sonic"
	"github.com/riskibarqy/prediction-league/internal/domain/ranking"
)

type rankingEntryJSON struct {
	TeamID   string `json:"team_id"`
	Position int    `json:"position"`
}

// encodeRankings renders a ranking list as the JSONB payload stored in the
// rankings column, ordered by position.
func encodeRankings(list ranking.List) (string, error) {
	entries := list.Entries()
	payload := make([]rankingEntryJSON, 0, len(entries))
	for _, entry := range entries {
		payload = append(payload, rankingEntryJSON{TeamID: entry.TeamID, Position: entry.Position})
	}

	encoded, err := sonic.Marshal(payload)
	if err != nil {
		return "", fmt.Errorf("encode rankings: %w", err)
	}
	return string(encoded), nil
}

// decodeRankings parses a rankings column back through the domain
// constructor, so a corrupted row can never produce a partial list.
func decodeRankings(raw string) (ranking.List, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ranking.List{}, fmt.Errorf("decode rankings: empty payload")
	}

	var payload []rankingEntryJSON
	if err := sonic.Unmarshal([]byte(raw), &payload); err != nil {
		return ranking.List{}, fmt.Errorf("decode rankings: %w", err)
	}

	entries := make([]ranking.TeamRanking, 0, len(payload))
	for _, entry := range payload {
		entries = append(entries, ranking.TeamRanking{TeamID: entry.TeamID, Position: entry.Position})
	}

	built := ranking.NewList(entries)
	if failure, failed := built.Failure(); failed {
		return ranking.List{}, fmt.Errorf("decode rankings: %s", failure.Message)
	}
	list, _ := built.Get()
	return list, nil
}
