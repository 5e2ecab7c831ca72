package usecase

import (
	"context"
	"fmt"

	"github.com/j-evans1/CPR/internal/domain/match"
	"github.com/j-evans1/CPR/internal/domain/sheet"
	"github.com/j-evans1/CPR/internal/platform/logging"
	"github.com/j-evans1/CPR/internal/platform/ordered"
)

type MatchService struct {
	repo    sheet.Repository
	columns sheet.MatchColumns
	parser  *match.ScoreParser
	logger  *logging.Logger
}

func NewMatchService(repo sheet.Repository, columns sheet.MatchColumns, teamTokens []string, logger *logging.Logger) (*MatchService, error) {
	if logger == nil {
		logger = logging.Default()
	}

	parser, err := match.NewScoreParser(teamTokens)
	if err != nil {
		return nil, fmt.Errorf("build score parser: %w", err)
	}

	return &MatchService{
		repo:    repo,
		columns: columns,
		parser:  parser,
		logger:  logger,
	}, nil
}

// List groups the match log into matches, most recent first. A non-empty
// team narrows the result to that team token.
func (s *MatchService) List(ctx context.Context, team string) ([]match.Match, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.List")
	defer span.End()

	matches, err := s.group(ctx)
	if err != nil {
		return nil, err
	}

	return match.FilterByTeam(matches, team), nil
}

// Summary returns win/draw/loss records per team token.
func (s *MatchService) Summary(ctx context.Context) ([]match.TeamRecord, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.MatchService.Summary")
	defer span.End()

	matches, err := s.group(ctx)
	if err != nil {
		return nil, err
	}

	return match.Summarize(matches), nil
}

func (s *MatchService) group(ctx context.Context) ([]match.Match, error) {
	rows, err := loadRows(ctx, s.repo, sheet.SourceMatchDetails)
	if err != nil {
		return nil, err
	}

	grouped := ordered.NewMap[string, *match.Match]()
	tally := newSkipTally("matches", s.logger)
	for _, row := range rows {
		entry := readMatchLogEntry(row, s.columns)
		if !tally.observe(ctx, row, decideMatchRow(entry)) {
			continue
		}

		key := match.Key(entry.date, entry.game)
		m, _ := grouped.GetOrCreate(key, func() *match.Match {
			score := s.parser.Parse(entry.game)
			return &match.Match{
				Key:           key,
				Date:          entry.date,
				Description:   entry.game,
				Team:          score.Team,
				Opponent:      score.Opponent,
				TeamScore:     score.TeamScore,
				OpponentScore: score.OpponentScore,
				Gameweek:      entry.gameweek,
			}
		})
		m.Players = append(m.Players, match.Performance{
			Name:       entry.player,
			Appearance: entry.stats.Appearance,
			Goals:      entry.stats.Goals,
			Assists:    entry.stats.Assists,
			CleanSheet: entry.stats.CleanSheet,
			YellowCard: entry.stats.YellowCard,
			RedCard:    entry.stats.RedCard,
			Points:     entry.stats.TotalPoints,
		})
	}
	tally.flush(ctx)

	out := make([]match.Match, 0, grouped.Len())
	for _, m := range grouped.Values() {
		out = append(out, *m)
	}
	match.SortByDateDesc(out)

	return out, nil
}
