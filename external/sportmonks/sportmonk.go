package sportmonks

// Wire shapes for the two SportMonks v3 endpoints the client reads. The
// standings body is kept loose because its row shape varies by league; see
// parseStandingsPayload.

type standingsEnvelope struct {
	Data []map[string]any `json:"data"`
}

type roundsEnvelope struct {
	Data []Round `json:"data"`
}

type Round struct {
	ID         int64  `json:"id"`
	SeasonID   int64  `json:"season_id"`
	Name       string `json:"name"` // "1".."38"
	Finished   bool   `json:"finished"`
	IsCurrent  bool   `json:"is_current"`
	StartingAt string `json:"starting_at"` // "YYYY-MM-DD"
	EndingAt   string `json:"ending_at"`   // "YYYY-MM-DD"
}
