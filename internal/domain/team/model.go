package team

import "fmt"

// Team is a real football club inside a season. ExternalRef carries the
// provider's team id so ingested standings can be matched without guessing
// from names; zero means the mapping is not known yet.
type Team struct {
	ID          string
	SeasonID    string
	Name        string
	Short       string
	ExternalRef int64
}

func (t Team) Validate() error {
	if t.ID == "" {
		return fmt.Errorf("team id is required")
	}
	if t.SeasonID == "" {
		return fmt.Errorf("team season id is required")
	}
	if t.Name == "" {
		return fmt.Errorf("team name is required")
	}

	return nil
}
