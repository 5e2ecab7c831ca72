package memory

import (
	"strings"

	"github.com/j-evans1/CPR/internal/domain/sheet"
)

// matchLogWidth covers every default match column up to Total Points.
const matchLogWidth = 29

type seedMatchLine struct {
	date       string
	fee        string
	gameweek   string
	game       string
	player     string
	appearance string
	goals      string
	assists    string
	mom        string
	cleanSheet string
	points     string
}

func (l seedMatchLine) csv() string {
	cols := sheet.DefaultMatchColumns()
	cells := make([]string, matchLogWidth)
	cells[cols.Date] = l.date
	cells[cols.Fee] = l.fee
	cells[cols.Gameweek] = l.gameweek
	cells[cols.Game] = l.game
	cells[cols.Player] = l.player
	cells[cols.Appearance] = l.appearance
	cells[cols.Goals] = l.goals
	cells[cols.Assists] = l.assists
	cells[cols.MOM] = l.mom
	cells[cols.CleanSheet] = l.cleanSheet
	cells[cols.TotalPoints] = l.points
	return strings.Join(cells, ",")
}

func seedMatchDetails() string {
	lines := []string{
		"CPR match log 2025/26",
		strings.Repeat(",", matchLogWidth-1),
		"Date,Fee,Gameweek,Game,Player,App,Goals,Assists",
	}
	for _, l := range []seedMatchLine{
		{"06/09/2025", "£10", "GW1", "CPRA 3v2 Rovers", "Joe Bloggs", "1", "2", "0", "1", "0", "12"},
		{"06/09/2025", "£10", "GW1", "CPRA 3v2 Rovers", "Bob Smith", "1", "1", "1", "0", "0", "8"},
		{"06/09/2025", "£10", "GW1", "CPRA 3v2 Rovers", "Ann Lee", "1", "0", "0", "0", "0", "3"},
		{"13/09/2025", "£10", "GW2", "CPR 1v1 Athletic", "Joe Bloggs", "1", "0", "1", "0", "1", "7"},
		{"13/09/2025", "£10", "GW2", "CPR 1v1 Athletic", "Fred Hall", "1", "1", "0", "1", "1", "10"},
		{"20/09/2025", "£10", "GW3", "CPRA 0v2 United", "Bob Smith", "1", "0", "0", "0", "0", "2"},
		{"20/09/2025", "£10", "GW3", "CPRA 0v2 United", "Ann Lee", "1", "0", "0", "0", "0", "2"},
	} {
		lines = append(lines, l.csv())
	}
	return strings.Join(lines, "\n") + "\n"
}

// Ann Lee's Total-Points is hand-entered one point high so the audit has
// something to report.
const seedPlayerData = `Player,Fees,Payments,Due,Appearance,Goals,Assists,Clean Sheet,Misc-Points,Total-Points
Joe Bloggs,20,10,10,2,2,1,1,3,22
Bob Smith,20,20,0,2,1,1,0,0,10
Ann Lee,20,0,20,2,0,0,0,1,7
Fred Hall,10,10,0,1,1,0,1,0,10
Sam Quiet,0,0,0,0,0,0,0,0,0
`

const seedTeamSelection = `Team Name,Manager,Players,Position,Price,Total-Points,Team-Points
Goal Diggers,Alex,Joe Bloggs,FWD,9.5,22,0
Goal Diggers,Alex,Ann Lee,DEF,5.0,6,0
Sunday Legends,Chris,Fred Hall,MID,7.5,10,0
Sunday Legends,Chris,Bob Smith,FWD,8.0,10,0
`

const seedBankStatement = `Date,Description,Type,Credit,Debit,Balance,Player
28/07/2025,Early transfer,FPI,50,,50,Joe Bloggs
15/08/2025,Subs,FPI,10,,60,Joe Bloggs
16/08/2025,Subs,FPI,20,,80,Bob Smith
01/09/2025,Kit,FPI,"£10.00",,90,Fred Hall
02/09/2025,Pitch hire,DD,,40,50,
`

const seedFines = `CPR fines log
,,,,
Regular fines up to £5
,Date,Fines,Description,Player
,06/09/2025,£2,Late to warm-up,Joe Bloggs
,13/09/2025,£5,Wrong kit,Joe Bloggs
,20/09/2025,£10,Red card,Ann Lee
,20/09/2025,£1,Late,Bob Smith
`

// SeedSheets returns sample exports for every source.
func SeedSheets() map[sheet.Source][]byte {
	return map[sheet.Source][]byte{
		sheet.SourceMatchDetails:  []byte(seedMatchDetails()),
		sheet.SourcePlayerData:    []byte(seedPlayerData),
		sheet.SourceTeamSelection: []byte(seedTeamSelection),
		sheet.SourceBankStatement: []byte(seedBankStatement),
		sheet.SourceFines:         []byte(seedFines),
	}
}
