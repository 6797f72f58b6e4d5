package season

import "fmt"

// Season is one edition of a competition, the scope every prediction and
// ranking lives in.
type Season struct {
	ID          string
	Name        string
	CountryCode string
	StartYear   int
	TotalRounds int
	IsActive    bool
}

func (s Season) Validate() error {
	if s.ID == "" {
		return fmt.Errorf("season id is required")
	}
	if s.Name == "" {
		return fmt.Errorf("season name is required")
	}
	if s.TotalRounds < 1 {
		return fmt.Errorf("season must have at least one round")
	}

	return nil
}
