package match

import "github.com/j-evans1/CPR/internal/platform/ordered"

// TeamRecord is the season record of one team token.
type TeamRecord struct {
	Team         string
	Played       int
	Won          int
	Drawn        int
	Lost         int
	GoalsFor     int
	GoalsAgainst int
}

func (r TeamRecord) GoalDifference() int {
	return r.GoalsFor - r.GoalsAgainst
}

// Summarize tallies results per team in order of first appearance.
func Summarize(matches []Match) []TeamRecord {
	records := ordered.NewMap[string, *TeamRecord]()
	for _, m := range matches {
		rec, _ := records.GetOrCreate(m.Team, func() *TeamRecord {
			return &TeamRecord{Team: m.Team}
		})

		rec.Played++
		rec.GoalsFor += m.TeamScore
		rec.GoalsAgainst += m.OpponentScore
		switch m.Result() {
		case ResultWin:
			rec.Won++
		case ResultLoss:
			rec.Lost++
		default:
			rec.Drawn++
		}
	}

	out := make([]TeamRecord, 0, records.Len())
	for _, rec := range records.Values() {
		out = append(out, *rec)
	}
	return out
}
