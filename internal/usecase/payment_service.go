package usecase

import (
	"context"

	"github.com/j-evans1/CPR/internal/domain/ledger"
	"github.com/j-evans1/CPR/internal/domain/sheet"
	"github.com/j-evans1/CPR/internal/platform/cell"
	"github.com/j-evans1/CPR/internal/platform/logging"
	"github.com/j-evans1/CPR/internal/platform/ordered"
)

type PaymentService struct {
	repo   sheet.Repository
	cfg    PipelineConfig
	logger *logging.Logger
}

func NewPaymentService(repo sheet.Repository, cfg PipelineConfig, logger *logging.Logger) *PaymentService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PaymentService{
		repo:   repo,
		cfg:    cfg,
		logger: logger,
	}
}

// ListLedgers reconciles player data, match fees, bank credits and fines
// into one ledger per player, biggest debtor first. Only players listed in
// the player-data sheet get a ledger.
func (s *PaymentService) ListLedgers(ctx context.Context) ([]ledger.PlayerLedger, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PaymentService.ListLedgers")
	defer span.End()

	playerRows, err := loadRows(ctx, s.repo, sheet.SourcePlayerData)
	if err != nil {
		return nil, err
	}
	matchRows, err := loadRows(ctx, s.repo, sheet.SourceMatchDetails)
	if err != nil {
		return nil, err
	}
	bankRows, err := loadRows(ctx, s.repo, sheet.SourceBankStatement)
	if err != nil {
		return nil, err
	}
	fineRows, err := loadRows(ctx, s.repo, sheet.SourceFines)
	if err != nil {
		return nil, err
	}

	ledgers := ordered.NewMap[cell.NameKey, *ledger.PlayerLedger]()

	for _, row := range playerRows {
		name := cell.CleanName(row.Get(sheet.PlayerDataPlayer))
		if name == "" {
			continue
		}
		seed := &ledger.PlayerLedger{
			Name:       name,
			MatchFees:  cell.ParseNumber(row.Get(sheet.PlayerDataFees)),
			TotalOwed:  cell.ParseNumber(row.Get(sheet.PlayerDataFees)),
			Paid:       cell.ParseNumber(row.Get(sheet.PlayerDataPayments)),
			Balance:    cell.ParseNumber(row.Get(sheet.PlayerDataDue)),
			MatchCount: int(cell.ParseNumber(row.Get(sheet.PlayerDataAppearance))),
		}
		// A repeated player row replaces the earlier values in place but
		// keeps the first-seen display name.
		key := cell.KeyOf(name)
		if prev, ok := ledgers.Get(key); ok {
			seed.Name = prev.Name
		}
		ledgers.Set(key, seed)
	}

	feeTally := newSkipTally("match_fees", s.logger)
	for _, row := range matchRows {
		entry := readMatchLogEntry(row, s.cfg.MatchColumns)
		l, ok := ledgers.Get(cell.KeyOf(entry.player))
		if !feeTally.observe(ctx, row, requireKnownPlayer(decideMatchFeeRow(entry), ok)) {
			continue
		}
		l.MatchDetails = append(l.MatchDetails, ledger.MatchFee{
			Date: entry.date,
			Fee:  entry.fee,
			Game: entry.game,
		})
	}
	feeTally.flush(ctx)

	bankTally := newSkipTally("bank_credits", s.logger)
	if trimmed, dropped := dropBankHeader(bankRows); dropped {
		bankTally.observe(ctx, bankRows[0], skipRow(skipHeaderLikeFirst))
		bankRows = trimmed
	}
	for _, row := range bankRows {
		entry := readBankEntry(row, s.cfg.BankColumns)
		l, ok := ledgers.Get(cell.KeyOf(entry.player))
		if !bankTally.observe(ctx, row, requireKnownPlayer(decideBankRow(entry, s.cfg.Ledger), ok)) {
			continue
		}
		l.PaymentDetails = append(l.PaymentDetails, entry.payment)
	}
	bankTally.flush(ctx)

	fineTally := newSkipTally("ledger_fines", s.logger)
	for _, row := range fineRows {
		entry := readFineEntry(row, s.cfg.FineColumns)
		l, ok := ledgers.Get(cell.KeyOf(entry.player))
		if !fineTally.observe(ctx, row, requireKnownPlayer(decideFineRow(entry), ok)) {
			continue
		}
		l.AddFine(entry.fine)
	}
	fineTally.flush(ctx)

	out := make([]ledger.PlayerLedger, 0, ledgers.Len())
	for _, l := range ledgers.Values() {
		l.Finalize(s.cfg.Ledger)
		if !l.HasActivity() {
			continue
		}
		out = append(out, *l)
	}
	ledger.SortByBalance(out)

	return out, nil
}

// requireKnownPlayer turns a kept row into a skip when its player has no
// ledger.
func requireKnownPlayer(d rowDecision, found bool) rowDecision {
	if d.keep && !found {
		return skipRow(skipUnknownPlayer)
	}
	return d
}
