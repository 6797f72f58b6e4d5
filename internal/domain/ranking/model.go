package ranking

import (
	"fmt"
	"sort"
	"strings"

	"github.com/riskibarqy/prediction-league/internal/domain/apperror"
	"github.com/riskibarqy/prediction-league/internal/platform/result"
)

// TeamCount is the fixed size of a season table.
const TeamCount = 20

// TeamRanking pins one team to one table position. Values are immutable;
// WithPosition returns a new value.
type TeamRanking struct {
	TeamID   string
	Position int
}

func (tr TeamRanking) WithPosition(position int) TeamRanking {
	return TeamRanking{TeamID: tr.TeamID, Position: position}
}

func (tr TeamRanking) Validate() *apperror.Error {
	if strings.TrimSpace(tr.TeamID) == "" {
		return apperror.Validation("team id is required")
	}
	if tr.Position < 1 || tr.Position > TeamCount {
		return apperror.Validation(
			fmt.Sprintf("position must be between 1 and %d", TeamCount),
			fmt.Sprintf("team %s: position %d", tr.TeamID, tr.Position),
		)
	}
	return nil
}

// List is a full-season ranking: every team exactly once, every position
// 1..TeamCount exactly once. Built only through NewList; entries are kept
// sorted by position and defensively copied on the way in and out.
type List struct {
	entries []TeamRanking
}

func NewList(entries []TeamRanking) result.Result[*apperror.Error, List] {
	if len(entries) != TeamCount {
		return result.Failure[List](apperror.Validation(
			fmt.Sprintf("a ranking must contain exactly %d teams, got %d", TeamCount, len(entries)),
		))
	}

	byPosition := make(map[int]string, len(entries))
	seenTeams := make(map[string]struct{}, len(entries))
	for _, entry := range entries {
		if verr := entry.Validate(); verr != nil {
			return result.Failure[List](verr)
		}
		if holder, taken := byPosition[entry.Position]; taken {
			return result.Failure[List](apperror.Validation(
				"every position may be used only once",
				fmt.Sprintf("position %d claimed by %s and %s", entry.Position, holder, entry.TeamID),
			))
		}
		byPosition[entry.Position] = entry.TeamID
		if _, dup := seenTeams[entry.TeamID]; dup {
			return result.Failure[List](apperror.Validation(
				"every team may appear only once",
				fmt.Sprintf("team %s appears more than once", entry.TeamID),
			))
		}
		seenTeams[entry.TeamID] = struct{}{}
	}
	// TeamCount in-range pairwise-distinct positions necessarily cover the
	// whole 1..TeamCount set.

	sorted := append([]TeamRanking(nil), entries...)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Position < sorted[j].Position })

	return result.Success[*apperror.Error](List{entries: sorted})
}

func (l List) Len() int {
	return len(l.entries)
}

func (l List) IsEmpty() bool {
	return len(l.entries) == 0
}

// Entries returns the rankings sorted by position. The returned slice is a
// copy; mutating it does not touch the list.
func (l List) Entries() []TeamRanking {
	return append([]TeamRanking(nil), l.entries...)
}

func (l List) ForTeam(teamID string) (TeamRanking, bool) {
	for _, entry := range l.entries {
		if entry.TeamID == teamID {
			return entry, true
		}
	}
	return TeamRanking{}, false
}

func (l List) AtPosition(position int) (TeamRanking, bool) {
	if position < 1 || position > len(l.entries) {
		return TeamRanking{}, false
	}
	entry := l.entries[position-1]
	if entry.Position != position {
		return TeamRanking{}, false
	}
	return entry, true
}

// Top returns the first n entries by position.
func (l List) Top(n int) []TeamRanking {
	if n < 0 {
		n = 0
	}
	if n > len(l.entries) {
		n = len(l.entries)
	}
	return append([]TeamRanking(nil), l.entries[:n]...)
}

// Bottom returns the last n entries, still ordered by position.
func (l List) Bottom(n int) []TeamRanking {
	if n < 0 {
		n = 0
	}
	if n > len(l.entries) {
		n = len(l.entries)
	}
	return append([]TeamRanking(nil), l.entries[len(l.entries)-n:]...)
}

func (l List) Equal(other List) bool {
	if len(l.entries) != len(other.entries) {
		return false
	}
	for i := range l.entries {
		if l.entries[i] != other.entries[i] {
			return false
		}
	}
	return true
}
