package usecase

import (
	"context"

	"github.com/j-evans1/CPR/internal/domain/audit"
	"github.com/j-evans1/CPR/internal/domain/ledger"
	"github.com/j-evans1/CPR/internal/domain/playerstats"
	"github.com/j-evans1/CPR/internal/domain/sheet"
	"github.com/j-evans1/CPR/internal/platform/cell"
	"github.com/j-evans1/CPR/internal/platform/logging"
	"github.com/j-evans1/CPR/internal/platform/tabular"
	"github.com/sourcegraph/conc/pool"
)

// ValidationService audits the computed stats and ledgers against the
// totals the Player Data sheet keeps by hand.
type ValidationService struct {
	repo     sheet.Repository
	stats    *PlayerStatsService
	payments *PaymentService
	logger   *logging.Logger
}

func NewValidationService(repo sheet.Repository, stats *PlayerStatsService, payments *PaymentService, logger *logging.Logger) *ValidationService {
	if logger == nil {
		logger = logging.Default()
	}

	return &ValidationService{
		repo:     repo,
		stats:    stats,
		payments: payments,
		logger:   logger,
	}
}

// Run checks every named Player Data row. Stat fields are only compared for
// players with a match-log line and money fields only for players with a
// ledger.
func (s *ValidationService) Run(ctx context.Context) (audit.Report, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.ValidationService.Run")
	defer span.End()

	var (
		lines      []playerstats.Line
		ledgers    []ledger.PlayerLedger
		playerRows []tabular.Row
	)
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()
	p.Go(func(ctx context.Context) error {
		items, err := s.stats.List(ctx)
		lines = items
		return err
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.payments.ListLedgers(ctx)
		ledgers = items
		return err
	})
	p.Go(func(ctx context.Context) error {
		rows, err := loadRows(ctx, s.repo, sheet.SourcePlayerData)
		playerRows = rows
		return err
	})
	if err := p.Wait(); err != nil {
		return audit.Report{}, err
	}

	statsByKey := make(map[cell.NameKey]playerstats.Line, len(lines))
	for _, line := range lines {
		statsByKey[cell.KeyOf(line.Name)] = line
	}
	ledgersByKey := make(map[cell.NameKey]ledger.PlayerLedger, len(ledgers))
	for _, l := range ledgers {
		ledgersByKey[cell.KeyOf(l.Name)] = l
	}

	checks := make([]audit.Check, 0, len(playerRows)*8)
	for _, row := range playerRows {
		name := cell.CleanName(row.Get(sheet.PlayerDataPlayer))
		if name == "" {
			continue
		}
		key := cell.KeyOf(name)
		if line, ok := statsByKey[key]; ok {
			checks = append(checks, statChecks(name, line, row)...)
		}
		if l, ok := ledgersByKey[key]; ok {
			checks = append(checks, moneyChecks(name, l, row)...)
		}
	}

	report := audit.Summarize(checks)
	if len(report.Mismatches) > 0 {
		s.logger.WarnContext(ctx, "player data disagrees with computed totals",
			"checks", report.Total(),
			"mismatches", len(report.Mismatches),
		)
	}
	return report, nil
}

func statChecks(name string, line playerstats.Line, row tabular.Row) []audit.Check {
	number := func(column string) float64 { return cell.ParseNumber(row.Get(column)) }
	return []audit.Check{
		audit.Approx(name, audit.FieldFantasyPoints, line.FantasyPoints, number(sheet.PlayerDataTotalPoints)),
		audit.Exact(name, audit.FieldAppearances, line.Appearances, number(sheet.PlayerDataAppearance)),
		audit.Exact(name, audit.FieldGoals, line.Goals, number(sheet.PlayerDataGoals)),
		audit.Exact(name, audit.FieldAssists, line.Assists, number(sheet.PlayerDataAssists)),
		audit.Exact(name, audit.FieldCleanSheets, line.CleanSheets, number(sheet.PlayerDataCleanSheet)),
	}
}

// moneyChecks compare match fees before the season fee is applied.
func moneyChecks(name string, l ledger.PlayerLedger, row tabular.Row) []audit.Check {
	number := func(column string) float64 { return cell.ParseNumber(row.Get(column)) }
	return []audit.Check{
		audit.Approx(name, audit.FieldMatchFees, l.MatchFees, number(sheet.PlayerDataFees)),
		audit.Approx(name, audit.FieldPayments, l.Paid, number(sheet.PlayerDataPayments)),
		audit.Approx(name, audit.FieldBalanceDue, l.Balance, number(sheet.PlayerDataDue)),
	}
}
