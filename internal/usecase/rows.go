package usecase

import (
	"context"
	"fmt"
	"strings"

	"github.com/j-evans1/CPR/internal/domain/ledger"
	"github.com/j-evans1/CPR/internal/domain/playerstats"
	"github.com/j-evans1/CPR/internal/domain/sheet"
	"github.com/j-evans1/CPR/internal/platform/cell"
	"github.com/j-evans1/CPR/internal/platform/logging"
	"github.com/j-evans1/CPR/internal/platform/tabular"
	"go.opentelemetry.io/otel/codes"
)

const (
	skipMissingPlayer   = "missing player"
	skipMissingDate     = "missing date"
	skipMissingGame     = "missing game description"
	skipMissingTeam     = "missing team name"
	skipMissingManager  = "missing manager"
	skipNoFee           = "no positive fee"
	skipZeroCredit      = "zero credit"
	skipMalformedDate   = "malformed date"
	skipBeforeCutoff    = "dated before payment start"
	skipNoFine          = "no positive fine"
	skipUnknownPlayer   = "player not in player data"
	skipHeaderLikeFirst = "header row"
)

// rowDecision is the outcome of validating one sheet row.
type rowDecision struct {
	keep   bool
	reason string
}

func keepRow() rowDecision {
	return rowDecision{keep: true}
}

func skipRow(reason string) rowDecision {
	return rowDecision{reason: reason}
}

// skipTally counts skipped rows of one aggregation pass.
type skipTally struct {
	pass    string
	logger  *logging.Logger
	kept    int
	skipped map[string]int
}

func newSkipTally(pass string, logger *logging.Logger) *skipTally {
	if logger == nil {
		logger = logging.Default()
	}
	return &skipTally{pass: pass, logger: logger, skipped: map[string]int{}}
}

// observe records d and reports whether the row should be kept.
func (t *skipTally) observe(ctx context.Context, row tabular.Row, d rowDecision) bool {
	if d.keep {
		t.kept++
		return true
	}
	t.skipped[d.reason]++
	t.logger.DebugContext(ctx, "sheet row skipped", "pass", t.pass, "line", row.Line(), "reason", d.reason)
	return false
}

func (t *skipTally) total() int {
	n := 0
	for _, c := range t.skipped {
		n += c
	}
	return n
}

func (t *skipTally) flush(ctx context.Context) {
	if len(t.skipped) == 0 {
		return
	}
	t.logger.DebugContext(ctx, "sheet pass finished",
		"pass", t.pass,
		"kept", t.kept,
		"skipped", t.total(),
		"skip_reasons", t.skipped,
	)
}

// matchLogEntry is the parsed content of one match-log row.
type matchLogEntry struct {
	date     string
	gameweek string
	game     string
	player   string
	fee      float64
	stats    playerstats.MatchRow
}

func readMatchLogEntry(row tabular.Row, cols sheet.MatchColumns) matchLogEntry {
	return matchLogEntry{
		date:     strings.TrimSpace(row.Cell(cols.Date)),
		gameweek: strings.TrimSpace(row.Cell(cols.Gameweek)),
		game:     strings.TrimSpace(row.Cell(cols.Game)),
		player:   cell.CleanName(row.Cell(cols.Player)),
		fee:      cell.ParseNumber(row.Cell(cols.Fee)),
		stats: playerstats.MatchRow{
			Appearance:  cell.ParseNumber(row.Cell(cols.Appearance)),
			Goals:       cell.ParseNumber(row.Cell(cols.Goals)),
			Assists:     cell.ParseNumber(row.Cell(cols.Assists)),
			CleanSheet:  cell.ParseNumber(row.Cell(cols.CleanSheet)),
			YellowCard:  cell.ParseNumber(row.Cell(cols.YellowCard)),
			RedCard:     cell.ParseNumber(row.Cell(cols.RedCard)),
			MOM:         cell.ParseNumber(row.Cell(cols.MOM)),
			MOM2:        cell.ParseNumber(row.Cell(cols.MOM2)),
			MOM3:        cell.ParseNumber(row.Cell(cols.MOM3)),
			DOD:         cell.ParseNumber(row.Cell(cols.DOD)),
			TotalPoints: cell.ParseNumber(row.Cell(cols.TotalPoints)),
		},
	}
}

func decideStatRow(e matchLogEntry) rowDecision {
	if e.player == "" {
		return skipRow(skipMissingPlayer)
	}
	return keepRow()
}

func decideMatchRow(e matchLogEntry) rowDecision {
	switch {
	case e.date == "":
		return skipRow(skipMissingDate)
	case e.game == "":
		return skipRow(skipMissingGame)
	case e.player == "":
		return skipRow(skipMissingPlayer)
	default:
		return keepRow()
	}
}

func decideMatchFeeRow(e matchLogEntry) rowDecision {
	switch {
	case e.player == "":
		return skipRow(skipMissingPlayer)
	case e.date == "":
		return skipRow(skipMissingDate)
	case e.fee <= 0:
		return skipRow(skipNoFee)
	default:
		return keepRow()
	}
}

// teamSelectionEntry is one row of the team-selection sheet.
type teamSelectionEntry struct {
	team       string
	manager    string
	player     string
	position   string
	price      float64
	points     float64
	teamPoints float64
}

func readTeamSelectionEntry(row tabular.Row) teamSelectionEntry {
	return teamSelectionEntry{
		team:       strings.TrimSpace(row.Get(sheet.TeamSelectionTeamName)),
		manager:    strings.TrimSpace(row.Get(sheet.TeamSelectionManager)),
		player:     cell.CleanName(row.Get(sheet.TeamSelectionPlayers)),
		position:   strings.TrimSpace(row.Get(sheet.TeamSelectionPosition)),
		price:      cell.ParseNumber(row.Get(sheet.TeamSelectionPrice)),
		points:     cell.ParseNumber(row.Get(sheet.TeamSelectionTotalPoints)),
		teamPoints: cell.ParseNumber(row.Get(sheet.TeamSelectionTeamPoints)),
	}
}

func decideTeamRow(e teamSelectionEntry) rowDecision {
	switch {
	case e.team == "":
		return skipRow(skipMissingTeam)
	case e.manager == "":
		return skipRow(skipMissingManager)
	default:
		return keepRow()
	}
}

// bankEntry is one bank-statement credit.
type bankEntry struct {
	player  string
	payment ledger.Payment
	date    cell.DateKey
}

func readBankEntry(row tabular.Row, cols sheet.BankColumns) bankEntry {
	date := strings.TrimSpace(row.Cell(cols.Date))
	return bankEntry{
		player: cell.CleanName(row.Cell(cols.Player)),
		payment: ledger.Payment{
			Date:        date,
			Amount:      cell.ParseNumber(row.Cell(cols.Credit)),
			Description: strings.TrimSpace(row.Cell(cols.Description)),
		},
		date: cell.ParseDateDMY(date),
	}
}

func decideBankRow(e bankEntry, settings ledger.Settings) rowDecision {
	switch {
	case e.player == "":
		return skipRow(skipMissingPlayer)
	case e.payment.Amount == 0:
		return skipRow(skipZeroCredit)
	case e.payment.Date == "":
		return skipRow(skipMissingDate)
	case !e.date.Valid():
		return skipRow(skipMalformedDate)
	case !settings.AcceptsPaymentOn(e.date):
		return skipRow(skipBeforeCutoff)
	default:
		return keepRow()
	}
}

// dropBankHeader discards a leading row whose first cell reads "date".
func dropBankHeader(rows []tabular.Row) ([]tabular.Row, bool) {
	if len(rows) == 0 || cell.NormalizeString(rows[0].Cell(0)) != "date" {
		return rows, false
	}
	return rows[1:], true
}

// fineEntry is one row of the fines log.
type fineEntry struct {
	player string
	fine   ledger.Fine
}

func readFineEntry(row tabular.Row, cols sheet.FineColumns) fineEntry {
	return fineEntry{
		player: cell.CleanName(row.Cell(cols.Player)),
		fine: ledger.Fine{
			Date:        strings.TrimSpace(row.Cell(cols.Date)),
			Amount:      cell.ParseNumber(row.Cell(cols.Fine)),
			Description: strings.TrimSpace(row.Cell(cols.Description)),
		},
	}
}

func decideFineRow(e fineEntry) rowDecision {
	switch {
	case e.player == "":
		return skipRow(skipMissingPlayer)
	case e.fine.Date == "":
		return skipRow(skipMissingDate)
	case e.fine.Amount <= 0:
		return skipRow(skipNoFine)
	default:
		return keepRow()
	}
}

func loadRows(ctx context.Context, repo sheet.Repository, source sheet.Source) ([]tabular.Row, error) {
	if repo == nil {
		return nil, fmt.Errorf("%w: sheet repository is not configured", ErrDependencyUnavailable)
	}
	ctx, span := startUsecaseSpan(ctx, "usecase.loadRows", sourceAttr(source))
	defer span.End()

	rows, err := repo.Rows(ctx, source)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "load rows")
		return nil, fmt.Errorf("load %s rows: %w", source, err)
	}
	span.SetAttributes(sheetRowsAttr.Int(len(rows)))
	return rows, nil
}
