package ranking

import (
	"fmt"
	"strings"

	"github.com/riskibarqy/prediction-league/internal/domain/apperror"
	"github.com/riskibarqy/prediction-league/internal/platform/result"
)

// SwapPair is one validated transposition: two teams and the positions
// they held before the exchange. It carries no information about how it
// was derived.
type SwapPair struct {
	TeamA string
	PosA  int
	TeamB string
	PosB  int
}

// NewSwapPair validates an explicitly requested swap at construction.
func NewSwapPair(teamA string, posA int, teamB string, posB int) result.Result[*apperror.Error, SwapPair] {
	checks := result.Combine(
		check(strings.TrimSpace(teamA) != "" && strings.TrimSpace(teamB) != "",
			"both team ids are required"),
		check(posA >= 1 && posA <= TeamCount,
			fmt.Sprintf("position %d is outside 1..%d", posA, TeamCount)),
		check(posB >= 1 && posB <= TeamCount,
			fmt.Sprintf("position %d is outside 1..%d", posB, TeamCount)),
		check(teamA != teamB,
			"a team cannot be swapped with itself"),
		check(posA != posB,
			"swapped positions must differ"),
	)

	return result.Map(checks, func(result.Unit) SwapPair {
		return SwapPair{TeamA: teamA, PosA: posA, TeamB: teamB, PosB: posB}
	})
}

func check(ok bool, msg string) result.Result[*apperror.Error, result.Unit] {
	if !ok {
		return result.Failure[result.Unit](apperror.Validation(msg))
	}
	return result.OK[*apperror.Error]()
}

// FromRankingsChange diffs the stored ranking against a freshly submitted
// one and accepts the change only when it is exactly one transposition.
// The submitted side arrives raw, before list construction, so the server
// rather than the client is the source of truth for what moved; an O(n)
// diff at n=20 is cheap.
func FromRankingsChange(oldList List, submitted []TeamRanking) result.Result[*apperror.Error, SwapPair] {
	if len(submitted) != TeamCount {
		return result.Failure[SwapPair](apperror.Validation(
			fmt.Sprintf("a ranking must contain exactly %d teams, got %d", TeamCount, len(submitted)),
		))
	}

	newPositions := make(map[string]int, len(submitted))
	for _, entry := range submitted {
		if verr := entry.Validate(); verr != nil {
			return result.Failure[SwapPair](verr)
		}
		if _, dup := newPositions[entry.TeamID]; dup {
			return result.Failure[SwapPair](apperror.Validation(
				"every team may appear only once",
				fmt.Sprintf("team %s appears more than once", entry.TeamID),
			))
		}
		newPositions[entry.TeamID] = entry.Position
	}

	type change struct {
		teamID string
		oldPos int
		newPos int
	}

	var changes []change
	for _, entry := range oldList.Entries() {
		newPos, present := newPositions[entry.TeamID]
		if !present {
			return result.Failure[SwapPair](apperror.Validation(
				"both rankings must cover the same teams",
				fmt.Sprintf("team %s is missing from the new ranking", entry.TeamID),
			))
		}
		if newPos != entry.Position {
			changes = append(changes, change{teamID: entry.TeamID, oldPos: entry.Position, newPos: newPos})
		}
	}

	if len(changes) != 2 {
		details := make([]string, 0, len(changes))
		for _, c := range changes {
			details = append(details, fmt.Sprintf("team %s: %d -> %d", c.teamID, c.oldPos, c.newPos))
		}
		return result.Failure[SwapPair](apperror.Validation(
			fmt.Sprintf("a ranking update must swap exactly two teams, found %d changed", len(changes)),
			details...,
		))
	}

	a, b := changes[0], changes[1]
	if a.oldPos != b.newPos || b.oldPos != a.newPos {
		return result.Failure[SwapPair](apperror.Validation(
			"the two changed teams do not exchange positions, not a valid swap",
			fmt.Sprintf("team %s: %d -> %d", a.teamID, a.oldPos, a.newPos),
			fmt.Sprintf("team %s: %d -> %d", b.teamID, b.oldPos, b.newPos),
		))
	}

	return result.Success[*apperror.Error](SwapPair{
		TeamA: a.teamID,
		PosA:  a.oldPos,
		TeamB: b.teamID,
		PosB:  b.oldPos,
	})
}
