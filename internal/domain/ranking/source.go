package ranking

// Source identifies where a served ranking came from. Declaration order is
// the fallback priority: a user's own prediction beats round standings,
// which beat the pre-season baseline.
type Source string

const (
	SourceUserPrediction Source = "user_prediction"
	SourceRoundStandings Source = "round_standings"
	SourceSeasonBaseline Source = "season_baseline"
)
