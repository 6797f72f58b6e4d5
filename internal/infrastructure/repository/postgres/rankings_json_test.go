package postgres

import (
	"fmt"
	"testing"

	"github.com/riskibarqy/prediction-league/internal/domain/ranking"
)

func TestRankingsColumnCodec(t *testing.T) {
	entries := make([]ranking.TeamRanking, 0, ranking.TeamCount)
	for i := 1; i <= ranking.TeamCount; i++ {
		entries = append(entries, ranking.TeamRanking{TeamID: fmt.Sprintf("team-%d", i), Position: i})
	}
	list, ok := ranking.NewList(entries).Get()
	if !ok {
		t.Fatalf("fixture list did not build")
	}

	t.Run("round trips a full table", func(t *testing.T) {
		encoded, err := encodeRankings(list)
		if err != nil {
			t.Fatalf("encode rankings: %v", err)
		}

		decoded, err := decodeRankings(encoded)
		if err != nil {
			t.Fatalf("decode rankings: %v", err)
		}
		if !decoded.Equal(list) {
			t.Fatalf("decoded list differs from input")
		}
	})

	t.Run("rejects empty payload", func(t *testing.T) {
		if _, err := decodeRankings("   "); err == nil {
			t.Fatalf("expected error for empty payload")
		}
	})

	t.Run("rejects malformed json", func(t *testing.T) {
		if _, err := decodeRankings(`[{"team_id": "team-1"`); err == nil {
			t.Fatalf("expected error for malformed payload")
		}
	})

	t.Run("rejects a short table", func(t *testing.T) {
		if _, err := decodeRankings(`[{"team_id":"team-1","position":1}]`); err == nil {
			t.Fatalf("expected error for incomplete table")
		}
	})
}
