package usecase

import (
	"context"
	"fmt"
	"math"

	"github.com/j-evans1/CPR/internal/domain/ledger"
	"github.com/j-evans1/CPR/internal/domain/sheet"
	"github.com/j-evans1/CPR/internal/platform/cell"
	"github.com/j-evans1/CPR/internal/platform/logging"
	"github.com/j-evans1/CPR/internal/platform/ordered"
)

// PlayerFineReport pairs a player's fines with the summary of fines at or
// under a cap.
type PlayerFineReport struct {
	ledger.PlayerFines
	Regular ledger.FineSummary
}

type FineService struct {
	repo       sheet.Repository
	columns    sheet.FineColumns
	regularMax float64
	logger     *logging.Logger
}

func NewFineService(repo sheet.Repository, columns sheet.FineColumns, regularMax float64, logger *logging.Logger) *FineService {
	if logger == nil {
		logger = logging.Default()
	}

	return &FineService{
		repo:       repo,
		columns:    columns,
		regularMax: regularMax,
		logger:     logger,
	}
}

// ListPlayerFines folds the fines log per player without consulting the
// player-data sheet, most fined first.
func (s *FineService) ListPlayerFines(ctx context.Context) ([]ledger.PlayerFines, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FineService.ListPlayerFines")
	defer span.End()

	rows, err := loadRows(ctx, s.repo, sheet.SourceFines)
	if err != nil {
		return nil, err
	}

	players := ordered.NewMap[cell.NameKey, *ledger.PlayerFines]()
	tally := newSkipTally("player_fines", s.logger)
	for _, row := range rows {
		entry := readFineEntry(row, s.columns)
		if !tally.observe(ctx, row, decideFineRow(entry)) {
			continue
		}

		p, _ := players.GetOrCreate(cell.KeyOf(entry.player), func() *ledger.PlayerFines {
			return &ledger.PlayerFines{Name: entry.player}
		})
		p.Add(entry.fine)
	}
	tally.flush(ctx)

	out := make([]ledger.PlayerFines, 0, players.Len())
	for _, p := range players.Values() {
		ledger.SortFinesByDate(p.FineDetails)
		out = append(out, *p)
	}
	ledger.SortByTotalFines(out)

	return out, nil
}

// Reports returns every player's fines with the regular-fines summary. A
// maxAmount of 0 uses the configured cap.
func (s *FineService) Reports(ctx context.Context, maxAmount float64) ([]PlayerFineReport, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FineService.Reports")
	defer span.End()

	if maxAmount == 0 {
		maxAmount = s.regularMax
	}
	if maxAmount <= 0 || math.IsNaN(maxAmount) || math.IsInf(maxAmount, 0) {
		return nil, fmt.Errorf("%w: max amount must be a positive number", ErrInvalidInput)
	}

	players, err := s.ListPlayerFines(ctx)
	if err != nil {
		return nil, err
	}

	out := make([]PlayerFineReport, 0, len(players))
	for _, p := range players {
		out = append(out, PlayerFineReport{
			PlayerFines: p,
			Regular:     ledger.FilteredFineTotal(p.FineDetails, maxAmount),
		})
	}

	return out, nil
}
