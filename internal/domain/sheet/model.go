package sheet

import (
	"fmt"
	"sort"
	"strings"

	"github.com/j-evans1/CPR/internal/platform/tabular"
)

// Source identifies one published spreadsheet export.
type Source string

const (
	SourceMatchDetails  Source = "match_details"
	SourcePlayerData    Source = "player_data"
	SourceTeamSelection Source = "team_selection"
	SourceBankStatement Source = "bank_statement"
	SourceFines         Source = "fines"
)

// Boilerplate rows at the top of the positional sheets.
const (
	MatchDetailsPrefixRows = 3
	FinesPrefixRows        = 4
)

// AllSources lists every source in a stable order.
func AllSources() []Source {
	return []Source{
		SourceMatchDetails,
		SourcePlayerData,
		SourceTeamSelection,
		SourceBankStatement,
		SourceFines,
	}
}

func ParseSource(raw string) (Source, error) {
	s := Source(strings.ToLower(strings.TrimSpace(raw)))
	for _, known := range AllSources() {
		if s == known {
			return s, nil
		}
	}
	return "", fmt.Errorf("unknown sheet source %q", raw)
}

func (s Source) String() string {
	return string(s)
}

// ReadOptions returns how rows of the source are laid out.
func (s Source) ReadOptions() tabular.Options {
	switch s {
	case SourceMatchDetails:
		return tabular.Options{SkipRows: MatchDetailsPrefixRows}
	case SourceFines:
		return tabular.Options{SkipRows: FinesPrefixRows}
	case SourcePlayerData, SourceTeamSelection:
		return tabular.Options{NamedHeaders: true}
	default:
		return tabular.Options{}
	}
}

// Named columns of the Player Data sheet.
const (
	PlayerDataPlayer      = "Player"
	PlayerDataFees        = "Fees"
	PlayerDataPayments    = "Payments"
	PlayerDataDue         = "Due"
	PlayerDataAppearance  = "Appearance"
	PlayerDataGoals       = "Goals"
	PlayerDataAssists     = "Assists"
	PlayerDataCleanSheet  = "Clean Sheet"
	PlayerDataMiscPoints  = "Misc-Points"
	PlayerDataTotalPoints = "Total-Points"
)

// Named columns of the Team Selection sheet.
const (
	TeamSelectionTeamName    = "Team Name"
	TeamSelectionManager     = "Manager"
	TeamSelectionPlayers     = "Players"
	TeamSelectionPrice       = "Price"
	TeamSelectionPosition    = "Position"
	TeamSelectionTotalPoints = "Total-Points"
	TeamSelectionTeamPoints  = "Team-Points"
)

// MatchColumns are 0-based positions in the match log.
type MatchColumns struct {
	Date        int
	Fee         int
	Gameweek    int
	Game        int
	Player      int
	Appearance  int
	Goals       int
	Assists     int
	MOM         int
	MOM2        int
	MOM3        int
	DOD         int
	YellowCard  int
	RedCard     int
	CleanSheet  int
	TotalPoints int
}

func DefaultMatchColumns() MatchColumns {
	return MatchColumns{
		Date:        0,
		Fee:         1,
		Gameweek:    2,
		Game:        3,
		Player:      4,
		Appearance:  5,
		Goals:       6,
		Assists:     7,
		MOM:         8,
		MOM2:        9,
		MOM3:        10,
		DOD:         11,
		YellowCard:  12,
		RedCard:     13,
		CleanSheet:  16,
		TotalPoints: 28,
	}
}

// BankColumns are 0-based positions in the bank statement.
type BankColumns struct {
	Date        int
	Description int
	Credit      int
	Player      int
}

func DefaultBankColumns() BankColumns {
	return BankColumns{Date: 0, Description: 1, Credit: 3, Player: 6}
}

// FineColumns are 0-based positions in the fines log.
type FineColumns struct {
	Date        int
	Fine        int
	Description int
	Player      int
}

func DefaultFineColumns() FineColumns {
	return FineColumns{Date: 1, Fine: 2, Description: 3, Player: 4}
}

// MatchColumnsFromMap overrides defaults with the named positions in m.
func MatchColumnsFromMap(m map[string]int) (MatchColumns, error) {
	cols := DefaultMatchColumns()
	err := applyColumns(m, map[string]*int{
		"date":         &cols.Date,
		"fee":          &cols.Fee,
		"gameweek":     &cols.Gameweek,
		"game":         &cols.Game,
		"player":       &cols.Player,
		"appearance":   &cols.Appearance,
		"goals":        &cols.Goals,
		"assists":      &cols.Assists,
		"mom":          &cols.MOM,
		"mom2":         &cols.MOM2,
		"mom3":         &cols.MOM3,
		"dod":          &cols.DOD,
		"yellow_card":  &cols.YellowCard,
		"red_card":     &cols.RedCard,
		"clean_sheet":  &cols.CleanSheet,
		"total_points": &cols.TotalPoints,
	})
	return cols, err
}

func BankColumnsFromMap(m map[string]int) (BankColumns, error) {
	cols := DefaultBankColumns()
	err := applyColumns(m, map[string]*int{
		"date":        &cols.Date,
		"description": &cols.Description,
		"credit":      &cols.Credit,
		"player":      &cols.Player,
	})
	return cols, err
}

func FineColumnsFromMap(m map[string]int) (FineColumns, error) {
	cols := DefaultFineColumns()
	err := applyColumns(m, map[string]*int{
		"date":        &cols.Date,
		"fine":        &cols.Fine,
		"description": &cols.Description,
		"player":      &cols.Player,
	})
	return cols, err
}

func applyColumns(m map[string]int, targets map[string]*int) error {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		target, ok := targets[key]
		if !ok {
			return fmt.Errorf("unknown column %q", key)
		}
		idx := m[key]
		if idx < 0 {
			return fmt.Errorf("column %q: index must be >= 0, got %d", key, idx)
		}
		*target = idx
	}
	return nil
}
