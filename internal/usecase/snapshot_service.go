package usecase

import (
	"context"
	"time"

	"github.com/j-evans1/CPR/internal/domain/fantasy"
	"github.com/j-evans1/CPR/internal/domain/ledger"
	"github.com/j-evans1/CPR/internal/domain/match"
	"github.com/j-evans1/CPR/internal/domain/playerstats"
	"github.com/sourcegraph/conc/pool"
)

// Snapshot holds every collection the dashboard renders.
type Snapshot struct {
	PlayerStats []playerstats.Line
	Teams       []fantasy.Team
	Matches     []match.Match
	Ledgers     []ledger.PlayerLedger
	GeneratedAt time.Time
}

type SnapshotService struct {
	stats    *PlayerStatsService
	fantasy  *FantasyLeagueService
	matches  *MatchService
	payments *PaymentService
	now      func() time.Time
}

func NewSnapshotService(
	stats *PlayerStatsService,
	fantasy *FantasyLeagueService,
	matches *MatchService,
	payments *PaymentService,
) *SnapshotService {
	return &SnapshotService{
		stats:    stats,
		fantasy:  fantasy,
		matches:  matches,
		payments: payments,
		now:      time.Now,
	}
}

// Build runs the four aggregations concurrently. The first failure cancels
// the rest and is returned.
func (s *SnapshotService) Build(ctx context.Context) (Snapshot, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.SnapshotService.Build")
	defer span.End()

	var out Snapshot
	p := pool.New().WithContext(ctx).WithCancelOnError().WithFirstError()

	p.Go(func(ctx context.Context) error {
		items, err := s.stats.List(ctx)
		out.PlayerStats = items
		return err
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.fantasy.ListTeams(ctx)
		out.Teams = items
		return err
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.matches.List(ctx, "")
		out.Matches = items
		return err
	})
	p.Go(func(ctx context.Context) error {
		items, err := s.payments.ListLedgers(ctx)
		out.Ledgers = items
		return err
	})

	if err := p.Wait(); err != nil {
		return Snapshot{}, err
	}

	out.GeneratedAt = s.now().UTC()
	return out, nil
}
