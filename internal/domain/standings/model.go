package standings

import (
	"fmt"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/ranking"
)

// Snapshot is the real table of a season after a given round, expressed
// as a full ranking list.
type Snapshot struct {
	SeasonID   string
	Round      int
	Rankings   ranking.List
	RecordedAt time.Time
}

func (s Snapshot) Validate() error {
	if s.SeasonID == "" {
		return fmt.Errorf("standings season id is required")
	}
	if s.Round < 1 {
		return fmt.Errorf("standings round must be positive, got %d", s.Round)
	}
	if s.Rankings.Len() != ranking.TeamCount {
		return fmt.Errorf("standings must rank exactly %d teams, got %d", ranking.TeamCount, s.Rankings.Len())
	}

	return nil
}
