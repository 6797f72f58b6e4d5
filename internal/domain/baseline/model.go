package baseline

import (
	"fmt"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/ranking"
)

// Baseline is the pre-season ranking a season is seeded with. It is the
// last resort of the fallback chain and must exist for every season.
type Baseline struct {
	SeasonID string
	Rankings ranking.List
	SeededAt time.Time
}

func (b Baseline) Validate() error {
	if b.SeasonID == "" {
		return fmt.Errorf("baseline season id is required")
	}
	if b.Rankings.Len() != ranking.TeamCount {
		return fmt.Errorf("baseline must rank exactly %d teams, got %d", ranking.TeamCount, b.Rankings.Len())
	}

	return nil
}
