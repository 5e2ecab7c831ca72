package usecase

import (
	"context"

	"github.com/j-evans1/CPR/internal/domain/fantasy"
	"github.com/j-evans1/CPR/internal/domain/sheet"
	"github.com/j-evans1/CPR/internal/platform/logging"
	"github.com/j-evans1/CPR/internal/platform/ordered"
)

type FantasyLeagueService struct {
	repo   sheet.Repository
	logger *logging.Logger
}

func NewFantasyLeagueService(repo sheet.Repository, logger *logging.Logger) *FantasyLeagueService {
	if logger == nil {
		logger = logging.Default()
	}

	return &FantasyLeagueService{repo: repo, logger: logger}
}

// ListTeams builds rosters from the team-selection sheet and ranks them by
// roster points. The sheet's Team-Points column only seeds the total until
// ranking replaces it with the roster sum.
func (s *FantasyLeagueService) ListTeams(ctx context.Context) ([]fantasy.Team, error) {
	ctx, span := startUsecaseSpan(ctx, "usecase.FantasyLeagueService.ListTeams")
	defer span.End()

	rows, err := loadRows(ctx, s.repo, sheet.SourceTeamSelection)
	if err != nil {
		return nil, err
	}

	teams := ordered.NewMap[string, *fantasy.Team]()
	tally := newSkipTally("fantasy_teams", s.logger)
	for _, row := range rows {
		entry := readTeamSelectionEntry(row)
		if !tally.observe(ctx, row, decideTeamRow(entry)) {
			continue
		}

		team, _ := teams.GetOrCreate(entry.team, func() *fantasy.Team {
			return &fantasy.Team{Name: entry.team, Manager: entry.manager, TotalPoints: entry.teamPoints}
		})
		if entry.player == "" {
			continue
		}
		team.Players = append(team.Players, fantasy.TeamPlayer{
			Name:     entry.player,
			Position: entry.position,
			Price:    entry.price,
			Points:   entry.points,
		})
	}
	tally.flush(ctx)

	out := make([]fantasy.Team, 0, teams.Len())
	for _, team := range teams.Values() {
		out = append(out, *team)
	}

	return fantasy.RankTeams(out), nil
}
