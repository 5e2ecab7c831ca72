package usecase

import (
	"context"

	"github.com/j-evans1/CPR/internal/domain/playerstats"
	"github.com/j-evans1/CPR/internal/domain/sheet"
	"github.com/j-evans1/CPR/internal/platform/cell"
	"github.com/j-evans1/CPR/internal/platform/logging"
	"github.com/j-evans1/CPR/internal/platform/ordered"
)

type PlayerStatsService struct {
	repo    sheet.Repository
	columns sheet.MatchColumns
	logger  *logging.Logger
}

func NewPlayerStatsService(repo sheet.Repository, columns sheet.MatchColumns, logger *logging.Logger) *PlayerStatsService {
	if logger == nil {
		logger = logging.Default()
	}

	return &PlayerStatsService{
		repo:    repo,
		columns: columns,
		logger:  logger,
	}
}

// List returns season stat lines ranked by fantasy points. Misc-Points from
// the player-data sheet are added to players that appear in the match log.
func (s *PlayerStatsService) List(ctx context.Context) ([]playerstats.Line, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.PlayerStatsService.List")
	defer span.End()

	matchRows, err := loadRows(ctx, s.repo, sheet.SourceMatchDetails)
	if err != nil {
		return nil, err
	}
	playerRows, err := loadRows(ctx, s.repo, sheet.SourcePlayerData)
	if err != nil {
		return nil, err
	}

	lines := ordered.NewMap[cell.NameKey, *playerstats.Line]()
	tally := newSkipTally("player_stats", s.logger)
	for _, row := range matchRows {
		entry := readMatchLogEntry(row, s.columns)
		if !tally.observe(ctx, row, decideStatRow(entry)) {
			continue
		}

		line, _ := lines.GetOrCreate(cell.KeyOf(entry.player), func() *playerstats.Line {
			return &playerstats.Line{Name: entry.player}
		})
		line.Add(entry.stats)
	}
	tally.flush(ctx)

	for _, row := range playerRows {
		key := cell.KeyOf(row.Get(sheet.PlayerDataPlayer))
		if key.IsZero() {
			continue
		}
		if line, ok := lines.Get(key); ok {
			line.FantasyPoints += cell.ParseNumber(row.Get(sheet.PlayerDataMiscPoints))
		}
	}

	out := make([]playerstats.Line, 0, lines.Len())
	for _, line := range lines.Values() {
		out = append(out, *line)
	}
	playerstats.SortByPoints(out)

	return out, nil
}
