package playerstats

import "sort"

// Line is one player's season totals from the match log.
type Line struct {
	Name          string
	Appearances   int
	Goals         int
	Assists       int
	CleanSheets   int
	YellowCards   int
	RedCards      int
	MOM1          int
	MOM2          int
	MOM3          int
	DOD           int
	FantasyPoints float64
}

// MatchRow is the numeric content of one match-log row for a player.
type MatchRow struct {
	Appearance  float64
	Goals       float64
	Assists     float64
	CleanSheet  float64
	YellowCard  float64
	RedCard     float64
	MOM         float64
	MOM2        float64
	MOM3        float64
	DOD         float64
	TotalPoints float64
}

// Add folds one row into the line. Counters other than goals and assists
// only move for positive cells; points always accumulate.
func (l *Line) Add(row MatchRow) {
	if row.Appearance > 0 {
		l.Appearances += int(row.Appearance)
	}
	l.Goals += int(row.Goals)
	l.Assists += int(row.Assists)
	if row.CleanSheet > 0 {
		l.CleanSheets += int(row.CleanSheet)
	}
	if row.YellowCard > 0 {
		l.YellowCards += int(row.YellowCard)
	}
	if row.RedCard > 0 {
		l.RedCards += int(row.RedCard)
	}
	if row.MOM > 0 {
		l.MOM1 += int(row.MOM)
	}
	if row.MOM2 > 0 {
		l.MOM2 += int(row.MOM2)
	}
	if row.MOM3 > 0 {
		l.MOM3 += int(row.MOM3)
	}
	if row.DOD > 0 {
		l.DOD += int(row.DOD)
	}
	l.FantasyPoints += row.TotalPoints
}

// SortByPoints orders lines by fantasy points, highest first, keeping input
// order between equal scores.
func SortByPoints(lines []Line) {
	sort.SliceStable(lines, func(i, j int) bool {
		return lines[i].FantasyPoints > lines[j].FantasyPoints
	})
}
