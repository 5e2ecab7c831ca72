package match

import (
	"fmt"
	"sort"

	"github.com/j-evans1/CPR/internal/platform/cell"
)

type Result string

const (
	ResultWin  Result = "win"
	ResultDraw Result = "draw"
	ResultLoss Result = "loss"
)

// Performance is one player's line in a single match.
type Performance struct {
	Name       string
	Appearance float64
	Goals      float64
	Assists    float64
	CleanSheet float64
	YellowCard float64
	RedCard    float64
	Points     float64
}

// Match groups every log row that shares a date and description.
type Match struct {
	Key           string
	Date          string
	Description   string
	Team          string
	Opponent      string
	TeamScore     int
	OpponentScore int
	Gameweek      string
	Players       []Performance
}

// Key builds the grouping key for a match-log row.
func Key(date, description string) string {
	return date + "-" + description
}

func (m Match) DateKey() cell.DateKey {
	return cell.ParseDateDMY(m.Date)
}

// Score renders the scoreline from the club side, e.g. "3-2".
func (m Match) Score() string {
	return fmt.Sprintf("%d-%d", m.TeamScore, m.OpponentScore)
}

func (m Match) Result() Result {
	switch {
	case m.TeamScore > m.OpponentScore:
		return ResultWin
	case m.TeamScore < m.OpponentScore:
		return ResultLoss
	default:
		return ResultDraw
	}
}

// SortByDateDesc puts the most recent match first. Unparseable dates sort
// last; matches on the same day keep input order.
func SortByDateDesc(matches []Match) {
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].DateKey().Compare(matches[j].DateKey()) > 0
	})
}

// FilterByTeam keeps matches whose team token equals team, ignoring case.
func FilterByTeam(matches []Match, team string) []Match {
	want := cell.NormalizeString(team)
	if want == "" {
		return matches
	}

	out := make([]Match, 0, len(matches))
	for _, m := range matches {
		if cell.NormalizeString(m.Team) == want {
			out = append(out, m)
		}
	}
	return out
}
