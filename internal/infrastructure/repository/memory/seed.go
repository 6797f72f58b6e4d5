package memory

import (
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/baseline"
	"github.com/riskibarqy/prediction-league/internal/domain/ranking"
	"github.com/riskibarqy/prediction-league/internal/domain/season"
	"github.com/riskibarqy/prediction-league/internal/domain/team"
)

const SeasonIDPremierLeague = "eng-premier-league-2025-26"

func SeedSeasons() []season.Season {
	return []season.Season{
		{
			ID:          SeasonIDPremierLeague,
			Name:        "Premier League 2025/26",
			CountryCode: "GB",
			StartYear:   2025,
			TotalRounds: 38,
			IsActive:    true,
		},
	}
}

func SeedTeams() []team.Team {
	return []team.Team{
		{ID: "eng-ars", SeasonID: SeasonIDPremierLeague, Name: "Arsenal", Short: "ARS", ExternalRef: 19},
		{ID: "eng-avl", SeasonID: SeasonIDPremierLeague, Name: "Aston Villa", Short: "AVL", ExternalRef: 15},
		{ID: "eng-bou", SeasonID: SeasonIDPremierLeague, Name: "Bournemouth", Short: "BOU", ExternalRef: 52},
		{ID: "eng-bre", SeasonID: SeasonIDPremierLeague, Name: "Brentford", Short: "BRE", ExternalRef: 236},
		{ID: "eng-bha", SeasonID: SeasonIDPremierLeague, Name: "Brighton & Hove Albion", Short: "BHA", ExternalRef: 78},
		{ID: "eng-bur", SeasonID: SeasonIDPremierLeague, Name: "Burnley", Short: "BUR", ExternalRef: 27},
		{ID: "eng-che", SeasonID: SeasonIDPremierLeague, Name: "Chelsea", Short: "CHE", ExternalRef: 18},
		{ID: "eng-cry", SeasonID: SeasonIDPremierLeague, Name: "Crystal Palace", Short: "CRY", ExternalRef: 51},
		{ID: "eng-eve", SeasonID: SeasonIDPremierLeague, Name: "Everton", Short: "EVE", ExternalRef: 13},
		{ID: "eng-ful", SeasonID: SeasonIDPremierLeague, Name: "Fulham", Short: "FUL", ExternalRef: 11},
		{ID: "eng-lee", SeasonID: SeasonIDPremierLeague, Name: "Leeds United", Short: "LEE", ExternalRef: 2},
		{ID: "eng-liv", SeasonID: SeasonIDPremierLeague, Name: "Liverpool", Short: "LIV", ExternalRef: 8},
		{ID: "eng-mci", SeasonID: SeasonIDPremierLeague, Name: "Manchester City", Short: "MCI", ExternalRef: 9},
		{ID: "eng-mun", SeasonID: SeasonIDPremierLeague, Name: "Manchester United", Short: "MUN", ExternalRef: 14},
		{ID: "eng-new", SeasonID: SeasonIDPremierLeague, Name: "Newcastle United", Short: "NEW", ExternalRef: 20},
		{ID: "eng-nfo", SeasonID: SeasonIDPremierLeague, Name: "Nottingham Forest", Short: "NFO", ExternalRef: 63},
		{ID: "eng-sun", SeasonID: SeasonIDPremierLeague, Name: "Sunderland", Short: "SUN", ExternalRef: 116},
		{ID: "eng-tot", SeasonID: SeasonIDPremierLeague, Name: "Tottenham Hotspur", Short: "TOT", ExternalRef: 6},
		{ID: "eng-whu", SeasonID: SeasonIDPremierLeague, Name: "West Ham United", Short: "WHU", ExternalRef: 1},
		{ID: "eng-wol", SeasonID: SeasonIDPremierLeague, Name: "Wolverhampton Wanderers", Short: "WOL", ExternalRef: 29},
	}
}

// SeedBaselines ranks the seeded teams by last season's finishing order
// so the fallback chain always has a floor to land on.
func SeedBaselines() []baseline.Baseline {
	order := []string{
		"eng-liv", "eng-ars", "eng-mci", "eng-che", "eng-new",
		"eng-avl", "eng-nfo", "eng-bha", "eng-bou", "eng-bre",
		"eng-ful", "eng-cry", "eng-eve", "eng-whu", "eng-mun",
		"eng-wol", "eng-tot", "eng-lee", "eng-bur", "eng-sun",
	}

	entries := make([]ranking.TeamRanking, 0, len(order))
	for i, teamID := range order {
		entries = append(entries, ranking.TeamRanking{TeamID: teamID, Position: i + 1})
	}

	list, ok := ranking.NewList(entries).Get()
	if !ok {
		// The seed order is a compile-time constant covering all 20 teams.
		panic("memory: seed baseline entries are invalid")
	}

	return []baseline.Baseline{
		{
			SeasonID: SeasonIDPremierLeague,
			Rankings: list,
			SeededAt: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		},
	}
}
