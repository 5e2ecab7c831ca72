package fantasy

import "sort"

// RankTeams recomputes every team total from its roster, orders teams by
// total descending and assigns 1-based ranks. Equal totals keep input order
// and still get distinct ranks. The input slice is not modified.
func RankTeams(teams []Team) []Team {
	ranked := make([]Team, len(teams))
	for i, team := range teams {
		team.Players = append([]TeamPlayer(nil), team.Players...)
		team.TotalPoints = team.RosterPoints()
		ranked[i] = team
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalPoints > ranked[j].TotalPoints
	})
	for i := range ranked {
		ranked[i].Rank = i + 1
	}

	return ranked
}
