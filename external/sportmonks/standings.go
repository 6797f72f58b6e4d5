package sportmonks

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	sonic "github.com/bytedance/sonic"
)

// tableMetric identifies one Standing counter that provider detail rows can
// fill in.
type tableMetric int

const (
	metricPlayed tableMetric = iota
	metricWon
	metricDraw
	metricLost
	metricGoalsFor
	metricGoalsAgainst
	metricGoalDifference
	metricPoints
	metricCount
)

// Detail rows arrive in home, away and season variants. Season totals win a
// metric, home or away splits only fill gaps, and rows whose variant cannot
// be determined sit in between.
const (
	scopeSplit   = 1
	scopeUnknown = 2
	scopeSeason  = 3
)

type detailType struct {
	metric tableMetric
	scope  int
}

// Provider detail type ids. 117 through 128 carry the home and away splits,
// 129 through 134 plus 179 and 187 carry the season totals.
var detailTypeByID = map[int64]detailType{
	117: {metricGoalsFor, scopeSplit},
	118: {metricGoalsAgainst, scopeSplit},
	119: {metricPlayed, scopeSplit},
	120: {metricPlayed, scopeSplit},
	121: {metricWon, scopeSplit},
	122: {metricWon, scopeSplit},
	123: {metricDraw, scopeSplit},
	124: {metricDraw, scopeSplit},
	125: {metricLost, scopeSplit},
	126: {metricLost, scopeSplit},
	127: {metricPoints, scopeSplit},
	128: {metricPoints, scopeSplit},
	129: {metricPlayed, scopeSeason},
	130: {metricWon, scopeSeason},
	131: {metricDraw, scopeSeason},
	132: {metricLost, scopeSeason},
	133: {metricGoalsFor, scopeSeason},
	134: {metricGoalsAgainst, scopeSeason},
	179: {metricGoalDifference, scopeSeason},
	187: {metricPoints, scopeSeason},
}

// field maps a metric onto the Standing counter it feeds.
func (s *Standing) field(m tableMetric) *int {
	switch m {
	case metricPlayed:
		return &s.Played
	case metricWon:
		return &s.Won
	case metricDraw:
		return &s.Draw
	case metricLost:
		return &s.Lost
	case metricGoalsFor:
		return &s.GoalsFor
	case metricGoalsAgainst:
		return &s.GoalsAgainst
	case metricGoalDifference:
		return &s.GoalDifference
	case metricPoints:
		return &s.Points
	default:
		return nil
	}
}

func parseStandings(items []map[string]any) []Standing {
	out := make([]Standing, 0, len(items))
	for _, item := range items {
		participant := unwrapRelation(item["participant"])

		row := Standing{
			TeamExternalID: participantRef(item),
			TeamName:       stringAt(participant, "name"),
			TeamShort:      strings.ToUpper(stringAt(participant, "short_code")),
			Position:       tablePosition(item),
			Played:         firstIntAt(item, "played", "matches_played", "games_played", "matches", "games"),
			Won:            firstIntAt(item, "won", "wins"),
			Draw:           firstIntAt(item, "draw", "draws", "drawn"),
			Lost:           firstIntAt(item, "lost", "loss", "losses", "defeats"),
			GoalsFor:       firstIntAt(item, "goals_for", "goals_scored", "scored_goals", "for"),
			GoalsAgainst:   firstIntAt(item, "goals_against", "goals_conceded", "against"),
			Points:         intAt(item, "points"),
			GoalDifference: intAt(item, "goal_difference"),
		}
		if row.Position <= 0 || row.TeamExternalID <= 0 {
			continue
		}

		acc := detailAccumulator{row: &row}
		for _, detail := range detailRows(item["details"]) {
			acc.apply(detail)
		}
		reconcileTotals(&row)

		out = append(out, row)
	}

	sort.SliceStable(out, func(i, j int) bool {
		left, right := out[i], out[j]
		if left.Position != right.Position {
			return left.Position < right.Position
		}
		if left.Points != right.Points {
			return left.Points > right.Points
		}
		return left.TeamExternalID < right.TeamExternalID
	})

	return out
}

// reconcileTotals repairs rows whose counters disagree after merging. Detail
// feeds sometimes leave a home or away aggregate in played, so the result
// columns are authoritative for it, and a missing goal difference is
// recomputed from the goal columns.
func reconcileTotals(row *Standing) {
	results := row.Won + row.Draw + row.Lost
	if results > 0 && row.Played != results {
		row.Played = results
	}
	if row.GoalDifference == 0 && (row.GoalsFor != 0 || row.GoalsAgainst != 0) {
		row.GoalDifference = row.GoalsFor - row.GoalsAgainst
	}
}

// detailAccumulator merges detail rows into one Standing. Scope decides which
// row wins a metric; within a scope the larger value wins so a season total
// beats a half-season split that claims the same scope.
type detailAccumulator struct {
	row    *Standing
	scopes [metricCount]int
}

func (a *detailAccumulator) apply(detail map[string]any) {
	typeInfo := unwrapRelation(detail["type"])
	name := normalizeDetailTypeName(coalesce(
		stringAt(typeInfo, "developer_name"),
		stringAt(typeInfo, "code"),
		stringAt(typeInfo, "name"),
	))
	if name == "" {
		name = normalizeDetailTypeName(stringAt(detail, "type"))
	}
	if strings.Contains(name, "percentage") || strings.Contains(name, "percent") || strings.Contains(name, "rate") {
		return
	}

	typeID := int64At(detail, "type_id")
	if typeID <= 0 {
		typeID = int64At(typeInfo, "id")
	}
	dt, ok := classifyDetail(typeID, name)
	if !ok {
		return
	}

	raw := detail["value"]
	if raw == nil {
		raw = detail["total"]
	}
	value := detailValue(raw)
	if value == 0 {
		return
	}

	a.merge(dt.metric, value, dt.scope)
}

// merge applies one classified detail value. The first row seen for a metric
// always lands, replacing whatever the flat columns carried.
func (a *detailAccumulator) merge(metric tableMetric, value, scope int) {
	field := a.row.field(metric)
	if field == nil {
		return
	}
	seen := a.scopes[metric]
	switch {
	case seen == 0 || scope > seen:
		a.scopes[metric] = scope
		*field = value
	case scope == seen && outranks(metric, value, *field):
		*field = value
	}
}

// outranks reports whether incoming should replace current at equal scope.
// Counters keep the larger value; goal difference keeps the larger magnitude
// since it is the only signed metric.
func outranks(metric tableMetric, incoming, current int) bool {
	if incoming == current {
		return false
	}
	if metric == metricGoalDifference {
		return absInt(incoming) > absInt(current)
	}
	return incoming > current
}

// classifyDetail resolves a detail row to a metric and scope. The type id
// table is authoritative; rows with unknown ids fall back to matching the
// normalized type name.
func classifyDetail(typeID int64, name string) (detailType, bool) {
	if dt, ok := detailTypeByID[typeID]; ok {
		return dt, true
	}
	metric, ok := metricFromTypeName(name)
	if !ok {
		return detailType{}, false
	}
	return detailType{metric: metric, scope: scopeFromTypeName(name)}, true
}

func metricFromTypeName(name string) (tableMetric, bool) {
	if name == "" {
		return 0, false
	}
	switch {
	case strings.Contains(name, "goal difference") || strings.Contains(name, "goaldifference"):
		return metricGoalDifference, true
	case strings.Contains(name, "goals against") || strings.Contains(name, "goals conceded") || strings.Contains(name, "conceded"):
		return metricGoalsAgainst, true
	case strings.Contains(name, "goals for") || strings.Contains(name, "goals scored") || strings.Contains(name, "scored goals"):
		return metricGoalsFor, true
	case strings.Contains(name, "matches played") || strings.Contains(name, "games played"):
		return metricPlayed, true
	case name == "played" || name == "matches" || name == "games":
		return metricPlayed, true
	case strings.Contains(name, "matches won") || strings.Contains(name, "games won") || name == "won" || name == "wins" || name == "win":
		return metricWon, true
	case strings.Contains(name, "matches drawn") || strings.Contains(name, "games drawn") || name == "draw" || name == "draws":
		return metricDraw, true
	case strings.Contains(name, "matches lost") || strings.Contains(name, "games lost") || name == "lost" || name == "loss" || name == "losses" || name == "defeats":
		return metricLost, true
	case name == "points" || name == "point" || strings.Contains(name, " points"):
		return metricPoints, true
	default:
		return 0, false
	}
}

func scopeFromTypeName(name string) int {
	switch {
	case strings.Contains(name, "overall") || strings.Contains(name, "total") ||
		strings.Contains(name, "aggregate") || strings.Contains(name, "all"):
		return scopeSeason
	case strings.Contains(name, "home") || strings.Contains(name, "away"):
		return scopeSplit
	default:
		return scopeUnknown
	}
}

func normalizeDetailTypeName(raw string) string {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if raw == "" {
		return ""
	}
	raw = strings.ReplaceAll(raw, "_", " ")
	raw = strings.ReplaceAll(raw, "-", " ")
	return strings.Join(strings.Fields(raw), " ")
}

// detailRows flattens the details relation, which arrives either as a bare
// array, a data-wrapped array, or a single object.
func detailRows(raw any) []map[string]any {
	switch typed := raw.(type) {
	case map[string]any:
		if nested, ok := typed["data"]; ok {
			return detailRows(nested)
		}
		return []map[string]any{typed}
	case []any:
		rows := make([]map[string]any, 0, len(typed))
		for _, item := range typed {
			if row, ok := item.(map[string]any); ok {
				rows = append(rows, row)
			}
		}
		return rows
	default:
		return nil
	}
}

// parseStandingsPayload reads the typed envelope first. Some league tables
// nest their rows inside stage or group containers the envelope does not
// model, so an empty result falls back to walking the raw document for
// anything shaped like a table row.
func parseStandingsPayload(raw []byte, direct []map[string]any) []Standing {
	if rows := parseStandings(direct); len(rows) > 0 {
		return rows
	}

	var document map[string]any
	if err := sonic.Unmarshal(raw, &document); err != nil {
		return nil
	}
	return parseStandings(findTableRows(document["data"]))
}

// findTableRows walks a provider document collecting everything shaped like
// a standings row. Containers are visited breadth first under a depth cap,
// and rows are deduplicated because the same row is reachable through both
// its container and the relation keys.
func findTableRows(root any) []map[string]any {
	type node struct {
		value any
		depth int
	}

	rows := make([]map[string]any, 0, 32)
	seen := make(map[string]struct{}, 64)
	queue := []node{{value: root}}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		if current.depth > 10 || current.value == nil {
			continue
		}

		switch typed := current.value.(type) {
		case []any:
			for _, child := range typed {
				queue = append(queue, node{value: child, depth: current.depth + 1})
			}
		case map[string]any:
			if looksLikeTableRow(typed) {
				key := fmt.Sprintf("%d:%d:%d", participantRef(typed), tablePosition(typed), intAt(typed, "points"))
				if _, dup := seen[key]; !dup {
					seen[key] = struct{}{}
					rows = append(rows, typed)
				}
			}
			for _, key := range []string{"data", "standings", "table", "rows", "items"} {
				if child, ok := typed[key]; ok {
					queue = append(queue, node{value: child, depth: current.depth + 1})
				}
			}
			for _, child := range typed {
				queue = append(queue, node{value: child, depth: current.depth + 1})
			}
		}
	}

	return rows
}

func looksLikeTableRow(item map[string]any) bool {
	return tablePosition(item) > 0 && participantRef(item) > 0
}

// participantRef digs the provider team id out of a table row. Flat columns
// come first; the embedded participant relation is the fallback.
func participantRef(item map[string]any) int64 {
	for _, key := range []string{"participant_id", "team_id", "participant"} {
		if id := int64At(item, key); id > 0 {
			return id
		}
	}
	return int64At(unwrapRelation(item["participant"]), "id")
}

func tablePosition(item map[string]any) int {
	if position := intAt(item, "position"); position > 0 {
		return position
	}
	return intAt(item, "rank")
}

// detailValue coerces the polymorphic value field of a detail row. Objects
// carry either an explicit total or home and away halves.
func detailValue(raw any) int {
	switch value := raw.(type) {
	case float64:
		return int(value)
	case float32:
		return int(value)
	case int:
		return value
	case int64:
		return int(value)
	case string:
		parsed, err := strconv.Atoi(strings.TrimSpace(value))
		if err != nil {
			return 0
		}
		return parsed
	case map[string]any:
		for _, key := range []string{"total", "all", "overall", "value"} {
			if total := detailValue(value[key]); total != 0 {
				return total
			}
		}
		return detailValue(value["home"]) + detailValue(value["away"])
	default:
		return 0
	}
}

func stringAt(src map[string]any, key string) string {
	value, _ := src[key].(string)
	return strings.TrimSpace(value)
}

func intAt(src map[string]any, key string) int {
	return int(int64At(src, key))
}

func firstIntAt(src map[string]any, keys ...string) int {
	for _, key := range keys {
		if value := intAt(src, key); value != 0 {
			return value
		}
	}
	return 0
}

func int64At(src map[string]any, key string) int64 {
	switch value := src[key].(type) {
	case float64:
		return int64(value)
	case float32:
		return int64(value)
	case int:
		return int64(value)
	case int64:
		return value
	case string:
		parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64)
		if err != nil {
			return 0
		}
		return parsed
	case map[string]any:
		return numberFromComposite(value)
	default:
		return 0
	}
}

// numberFromComposite digs a usable number out of an object-valued field.
// Explicit totals win, then the home and away halves summed, then whatever
// numeric member the object happens to carry.
func numberFromComposite(src map[string]any) int64 {
	for _, key := range []string{"total", "all", "overall", "value"} {
		if value := int64At(src, key); value != 0 {
			return value
		}
	}
	home, away := int64At(src, "home"), int64At(src, "away")
	if home != 0 || away != 0 {
		return home + away
	}
	for _, member := range src {
		switch value := member.(type) {
		case float64:
			return int64(value)
		case float32:
			return int64(value)
		case int:
			return int64(value)
		case int64:
			return value
		case string:
			if parsed, err := strconv.ParseInt(strings.TrimSpace(value), 10, 64); err == nil {
				return parsed
			}
		}
	}
	return 0
}

// unwrapRelation peels the data envelope SportMonks wraps embedded relations
// in. Bare objects pass through.
func unwrapRelation(raw any) map[string]any {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	if data, ok := obj["data"].(map[string]any); ok {
		return data
	}
	return obj
}

func coalesce(values ...string) string {
	for _, value := range values {
		if trimmed := strings.TrimSpace(value); trimmed != "" {
			return trimmed
		}
	}
	return ""
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}
