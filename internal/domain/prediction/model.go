package prediction

import (
	"fmt"
	"strings"
	"time"

	"github.com/riskibarqy/prediction-league/internal/domain/apperror"
	"github.com/riskibarqy/prediction-league/internal/domain/ranking"
	"github.com/riskibarqy/prediction-league/internal/platform/result"
)

// Prediction is the season-prediction aggregate root: one user's full
// ranking of a season's teams. Instances are immutable; SwapTeams returns
// a new value and leaves the receiver untouched, so each saved instance
// supersedes the previous snapshot.
type Prediction struct {
	ID        string
	UserID    string
	SeasonID  string
	AtRound   int
	Rankings  ranking.List
	CreatedAt time.Time
	UpdatedAt time.Time
}

// New validates identity fields and requires a fully built ranking list.
// Uniqueness per (user, season) is the caller's concern, checked against
// the repository before construction.
func New(id, userID, seasonID string, atRound int, rankings ranking.List, now time.Time) result.Result[*apperror.Error, Prediction] {
	if strings.TrimSpace(id) == "" {
		return result.Failure[Prediction](apperror.Validation("prediction id is required"))
	}
	if strings.TrimSpace(userID) == "" {
		return result.Failure[Prediction](apperror.Validation("user id is required"))
	}
	if strings.TrimSpace(seasonID) == "" {
		return result.Failure[Prediction](apperror.Validation("season id is required"))
	}
	if atRound < 0 {
		return result.Failure[Prediction](apperror.Validation(
			fmt.Sprintf("round must not be negative, got %d", atRound),
		))
	}
	if rankings.Len() != ranking.TeamCount {
		return result.Failure[Prediction](apperror.Validation(
			fmt.Sprintf("a prediction must rank exactly %d teams, got %d", ranking.TeamCount, rankings.Len()),
		))
	}

	return result.Success[*apperror.Error](Prediction{
		ID:        id,
		UserID:    userID,
		SeasonID:  seasonID,
		AtRound:   atRound,
		Rankings:  rankings,
		CreatedAt: now,
		UpdatedAt: now,
	})
}

// SwapTeams applies one validated transposition. The pair's positions are
// the optimistic lock: they must match the aggregate's current positions
// exactly, otherwise the caller is working from a stale read and must
// reload. There is no other concurrency control on this path.
func (p Prediction) SwapTeams(pair ranking.SwapPair, currentRound int, now time.Time) result.Result[*apperror.Error, Prediction] {
	entryA, okA := p.Rankings.ForTeam(pair.TeamA)
	if !okA {
		return result.Failure[Prediction](apperror.NotFound(
			"team is not part of this prediction",
			fmt.Sprintf("team %s", pair.TeamA),
		))
	}
	entryB, okB := p.Rankings.ForTeam(pair.TeamB)
	if !okB {
		return result.Failure[Prediction](apperror.NotFound(
			"team is not part of this prediction",
			fmt.Sprintf("team %s", pair.TeamB),
		))
	}

	if entryA.Position != pair.PosA || entryB.Position != pair.PosB {
		return result.Failure[Prediction](apperror.StaleState(
			"prediction positions changed since they were read",
			fmt.Sprintf("team %s: expected position %d, actual %d", pair.TeamA, pair.PosA, entryA.Position),
			fmt.Sprintf("team %s: expected position %d, actual %d", pair.TeamB, pair.PosB, entryB.Position),
		))
	}

	entries := p.Rankings.Entries()
	for i, entry := range entries {
		switch entry.TeamID {
		case pair.TeamA:
			entries[i] = entry.WithPosition(pair.PosB)
		case pair.TeamB:
			entries[i] = entry.WithPosition(pair.PosA)
		}
	}

	return result.Map(ranking.NewList(entries), func(swapped ranking.List) Prediction {
		return Prediction{
			ID:        p.ID,
			UserID:    p.UserID,
			SeasonID:  p.SeasonID,
			AtRound:   currentRound,
			Rankings:  swapped,
			CreatedAt: p.CreatedAt,
			UpdatedAt: now,
		}
	})
}

// RankingForTeam reads one team's current entry.
func (p Prediction) RankingForTeam(teamID string) result.Result[*apperror.Error, ranking.TeamRanking] {
	entry, ok := p.Rankings.ForTeam(teamID)
	if !ok {
		return result.Failure[ranking.TeamRanking](apperror.NotFound(
			"team is not part of this prediction",
			fmt.Sprintf("team %s", teamID),
		))
	}
	return result.Success[*apperror.Error](entry)
}

// RankingAtPosition reads the entry at a table position.
func (p Prediction) RankingAtPosition(position int) result.Result[*apperror.Error, ranking.TeamRanking] {
	entry, ok := p.Rankings.AtPosition(position)
	if !ok {
		return result.Failure[ranking.TeamRanking](apperror.NotFound(
			"no team at that position",
			fmt.Sprintf("position %d", position),
		))
	}
	return result.Success[*apperror.Error](entry)
}

func (p Prediction) TopN(n int) []ranking.TeamRanking {
	return p.Rankings.Top(n)
}

func (p Prediction) BottomN(n int) []ranking.TeamRanking {
	return p.Rankings.Bottom(n)
}
