package usecase

import (
	"context"
	"sync"
	"testing"

	"github.com/j-evans1/CPR/internal/domain/sheet"
	"github.com/j-evans1/CPR/internal/platform/tabular"
)

type stubSheetRepository struct {
	mu          sync.Mutex
	rows        map[sheet.Source][]tabular.Row
	errs        map[sheet.Source]error
	calls       map[sheet.Source]int
	invalidated []sheet.Source
}

func newStubSheetRepository() *stubSheetRepository {
	return &stubSheetRepository{
		rows:  map[sheet.Source][]tabular.Row{},
		errs:  map[sheet.Source]error{},
		calls: map[sheet.Source]int{},
	}
}

func (r *stubSheetRepository) Rows(_ context.Context, source sheet.Source) ([]tabular.Row, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.calls[source]++
	if err := r.errs[source]; err != nil {
		return nil, err
	}
	return r.rows[source], nil
}

func (r *stubSheetRepository) Invalidate(_ context.Context, source sheet.Source) {
	r.mu.Lock()
	r.invalidated = append(r.invalidated, source)
	r.mu.Unlock()
}

func mustReadSheet(t *testing.T, source sheet.Source, payload string) []tabular.Row {
	t.Helper()

	rows, err := tabular.Read([]byte(payload), source.ReadOptions())
	if err != nil {
		t.Fatalf("read %s fixture: %v", source, err)
	}
	return rows
}

// matchCells describes one match-log row by field rather than by position.
type matchCells struct {
	date, fee, gameweek, game, player         string
	appearance, goals, assists, cleanSheet    string
	yellow, red, mom, mom2, mom3, dod, points string
}

func (c matchCells) row() tabular.Row {
	cols := sheet.DefaultMatchColumns()
	cells := make([]string, cols.TotalPoints+1)
	cells[cols.Date] = c.date
	cells[cols.Fee] = c.fee
	cells[cols.Gameweek] = c.gameweek
	cells[cols.Game] = c.game
	cells[cols.Player] = c.player
	cells[cols.Appearance] = c.appearance
	cells[cols.Goals] = c.goals
	cells[cols.Assists] = c.assists
	cells[cols.CleanSheet] = c.cleanSheet
	cells[cols.YellowCard] = c.yellow
	cells[cols.RedCard] = c.red
	cells[cols.MOM] = c.mom
	cells[cols.MOM2] = c.mom2
	cells[cols.MOM3] = c.mom3
	cells[cols.DOD] = c.dod
	cells[cols.TotalPoints] = c.points
	return tabular.NewRow(cells...)
}

func matchRows(items ...matchCells) []tabular.Row {
	rows := make([]tabular.Row, 0, len(items))
	for _, item := range items {
		rows = append(rows, item.row())
	}
	return rows
}

const playerDataFixture = `Player,Fees,Payments,Due,Appearance,Misc-Points
Joe Bloggs,£40.00,£20.00,£20.00,8,2
Ann Lee,10,10,0,2,0
Idle Ian,0,0,0,0,0
Fined Fred,0,0,0,0,0
Zed,0,0,0,0,100
`

const teamSelectionFixture = `Team Name,Manager,Players,Price,Position,Total-Points,Team-Points
Ten FC,Sam,Joe,5.5,MID,10,999
Thirty A,Kim,Ann,6,DEF,20,
Thirty A,Kim,Bob,4,FWD,10,
Thirty B,Lee,Cat,7,GK,30,
Five FC,Max,Dan,4,DEF,5,
No Manager,,Eve,4,DEF,50,
Empty FC,Pat,,,,,
`

func fixtureMatchRows() []tabular.Row {
	return matchRows(
		matchCells{date: "01/09/2025", fee: "£5.00", gameweek: "GW1", game: "CPR 3v2 Riverside", player: "Joe Bloggs", appearance: "1", goals: "2", points: "10"},
		matchCells{date: "01/09/2025", fee: "£5.00", gameweek: "GW1", game: "CPR 3v2 Riverside", player: "Ann Lee", appearance: "0", points: "12", cleanSheet: "-1"},
		matchCells{date: "08/09/2025", fee: "5", gameweek: "GW2", game: "CPRA 1v1 Hackney", player: "ann lee", appearance: "1", assists: "1", points: "0"},
		matchCells{date: "08/09/2025", fee: "0", gameweek: "GW2", game: "CPRA 1v1 Hackney", player: "joe bloggs ", appearance: "1", goals: "1", mom: "1", points: "5"},
		matchCells{date: "", fee: "5", game: "CPR 1v0 Nobody", player: "Joe Bloggs", appearance: "1", points: "100"},
		matchCells{date: "15/09/2025", fee: "5", game: "", player: "Bob", appearance: "1", points: "15"},
		matchCells{date: "garbage", fee: "5", gameweek: "GW?", game: "CPR 0v2 Dulwich", player: "Ghost Player", appearance: "1"},
		matchCells{date: "22/09/2025", fee: "5", game: "CPR 4v0 Lambeth", player: ""},
	)
}

func fixtureBankRows() []tabular.Row {
	return []tabular.Row{
		tabular.NewRow("Date", "Description", "", "Credit", "", "", "Player"),
		tabular.NewRow("02/09/2025", "BGC JOE", "", "£20.00", "", "", "JOE BLOGGS"),
		tabular.NewRow("31/07/2025", "last season", "", "50", "", "", "Joe Bloggs"),
		tabular.NewRow("31/09/2025", "bad date", "", "50", "", "", "Joe Bloggs"),
		tabular.NewRow("05/09/2025", "zero", "", "0", "", "", "Ann Lee"),
		tabular.NewRow("03/09/2025", "ann", "", "10", "", "", "ann lee"),
		tabular.NewRow("04/09/2025", "stranger", "", "10", "", "", "Ghost Player"),
		tabular.NewRow("04/09/2025", "short row"),
	}
}

func fixtureFineRows() []tabular.Row {
	return []tabular.Row{
		tabular.NewRow("", "10/09/2025", "£3.00", "Late", "Fined Fred"),
		tabular.NewRow("", "05/09/2025", "2", "Late", "Joe Bloggs"),
		tabular.NewRow("", "01/09/2025", "10", "Red card", "joe bloggs"),
		tabular.NewRow("", "06/09/2025", "0", "Warning", "Joe Bloggs"),
		tabular.NewRow("", "07/09/2025", "4", "Kit", "Ghost Player"),
		tabular.NewRow("", "", "4", "Undated", "Joe Bloggs"),
	}
}

func newFixtureRepository(t *testing.T) *stubSheetRepository {
	t.Helper()

	repo := newStubSheetRepository()
	repo.rows[sheet.SourceMatchDetails] = fixtureMatchRows()
	repo.rows[sheet.SourcePlayerData] = mustReadSheet(t, sheet.SourcePlayerData, playerDataFixture)
	repo.rows[sheet.SourceTeamSelection] = mustReadSheet(t, sheet.SourceTeamSelection, teamSelectionFixture)
	repo.rows[sheet.SourceBankStatement] = fixtureBankRows()
	repo.rows[sheet.SourceFines] = fixtureFineRows()
	return repo
}
