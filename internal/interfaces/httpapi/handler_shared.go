package httpapi

import (
	"time"

	"github.com/j-evans1/CPR/internal/domain/audit"
	"github.com/j-evans1/CPR/internal/domain/fantasy"
	"github.com/j-evans1/CPR/internal/domain/ledger"
	"github.com/j-evans1/CPR/internal/domain/match"
	"github.com/j-evans1/CPR/internal/domain/playerstats"
	"github.com/j-evans1/CPR/internal/usecase"
)

type playerStatDTO struct {
	Name          string  `json:"name"`
	Appearances   int     `json:"appearances"`
	Goals         int     `json:"goals"`
	Assists       int     `json:"assists"`
	CleanSheets   int     `json:"clean_sheets"`
	YellowCards   int     `json:"yellow_cards"`
	RedCards      int     `json:"red_cards"`
	MOM1          int     `json:"mom1"`
	MOM2          int     `json:"mom2"`
	MOM3          int     `json:"mom3"`
	DOD           int     `json:"dod"`
	FantasyPoints float64 `json:"fantasy_points"`
}

type teamPlayerDTO struct {
	Name     string  `json:"name"`
	Position string  `json:"position"`
	Price    float64 `json:"price"`
	Points   float64 `json:"points"`
}

type fantasyTeamDTO struct {
	TeamName    string          `json:"team_name"`
	ManagerName string          `json:"manager_name"`
	Players     []teamPlayerDTO `json:"players"`
	TotalPoints float64         `json:"total_points"`
	Rank        int             `json:"rank"`
}

type performanceDTO struct {
	Name       string  `json:"name"`
	Appearance float64 `json:"appearance"`
	Goals      float64 `json:"goals"`
	Assists    float64 `json:"assists"`
	CleanSheet float64 `json:"clean_sheet"`
	YellowCard float64 `json:"yellow_card"`
	RedCard    float64 `json:"red_card"`
	Points     float64 `json:"points"`
}

type matchDTO struct {
	Key           string           `json:"key"`
	Date          string           `json:"date"`
	Description   string           `json:"description"`
	Team          string           `json:"team"`
	Opponent      string           `json:"opponent"`
	TeamScore     int              `json:"team_score"`
	OpponentScore int              `json:"opponent_score"`
	Score         string           `json:"score"`
	Result        string           `json:"result"`
	Gameweek      string           `json:"gameweek"`
	Players       []performanceDTO `json:"players"`
}

type teamRecordDTO struct {
	Team           string `json:"team"`
	Played         int    `json:"played"`
	Won            int    `json:"won"`
	Drawn          int    `json:"drawn"`
	Lost           int    `json:"lost"`
	GoalsFor       int    `json:"goals_for"`
	GoalsAgainst   int    `json:"goals_against"`
	GoalDifference int    `json:"goal_difference"`
}

type matchFeeDTO struct {
	Date string  `json:"date"`
	Fee  float64 `json:"fee"`
	Game string  `json:"game"`
}

type moneyLineDTO struct {
	Date        string  `json:"date"`
	Amount      float64 `json:"amount"`
	Description string  `json:"description"`
}

type playerLedgerDTO struct {
	Name           string         `json:"name"`
	MatchFees      float64        `json:"match_fees"`
	SeasonFees     float64        `json:"season_fees"`
	Fines          float64        `json:"fines"`
	TotalOwed      float64        `json:"total_owed"`
	Paid           float64        `json:"paid"`
	Balance        float64        `json:"balance"`
	MatchCount     int            `json:"match_count"`
	MatchDetails   []matchFeeDTO  `json:"match_details"`
	PaymentDetails []moneyLineDTO `json:"payment_details"`
	FineDetails    []moneyLineDTO `json:"fine_details"`
}

type fineSummaryDTO struct {
	MaxAmount float64        `json:"max_amount"`
	Total     float64        `json:"total"`
	Count     int            `json:"count"`
	Average   float64        `json:"average"`
	Details   []moneyLineDTO `json:"details"`
}

type playerFinesDTO struct {
	Name        string          `json:"name"`
	TotalFines  float64         `json:"total_fines"`
	FineCount   int             `json:"fine_count"`
	FineDetails []moneyLineDTO  `json:"fine_details"`
	Regular     *fineSummaryDTO `json:"regular,omitempty"`
}

type snapshotDTO struct {
	PlayerStats []playerStatDTO   `json:"player_stats"`
	Teams       []fantasyTeamDTO  `json:"teams"`
	Matches     []matchDTO        `json:"matches"`
	Payments    []playerLedgerDTO `json:"payments"`
	GeneratedAt string            `json:"generated_at"`
}

type validationCheckDTO struct {
	Player     string  `json:"player"`
	Field      string  `json:"field"`
	AppValue   float64 `json:"app_value"`
	SheetValue float64 `json:"sheet_value"`
	Money      bool    `json:"money"`
	Match      bool    `json:"match"`
}

type validationReportDTO struct {
	TotalChecks   int                  `json:"total_checks"`
	PassedChecks  int                  `json:"passed_checks"`
	PassRate      float64              `json:"pass_rate"`
	MismatchCount int                  `json:"mismatch_count"`
	Checks        []validationCheckDTO `json:"checks"`
}

type cacheWarmSourceDTO struct {
	Source     string `json:"source"`
	Status     string `json:"status"`
	Rows       int    `json:"rows"`
	DurationMs int64  `json:"duration_ms"`
	Message    string `json:"message,omitempty"`
}

type cacheWarmDTO struct {
	SourceCount  int                  `json:"source_count"`
	SuccessCount int                  `json:"success_count"`
	FailedCount  int                  `json:"failed_count"`
	WorkerCount  int                  `json:"worker_count"`
	Sources      []cacheWarmSourceDTO `json:"sources"`
}

func playerStatToDTO(line playerstats.Line) playerStatDTO {
	return playerStatDTO{
		Name:          line.Name,
		Appearances:   line.Appearances,
		Goals:         line.Goals,
		Assists:       line.Assists,
		CleanSheets:   line.CleanSheets,
		YellowCards:   line.YellowCards,
		RedCards:      line.RedCards,
		MOM1:          line.MOM1,
		MOM2:          line.MOM2,
		MOM3:          line.MOM3,
		DOD:           line.DOD,
		FantasyPoints: line.FantasyPoints,
	}
}

func fantasyTeamToDTO(team fantasy.Team) fantasyTeamDTO {
	players := make([]teamPlayerDTO, 0, len(team.Players))
	for _, p := range team.Players {
		players = append(players, teamPlayerDTO{
			Name:     p.Name,
			Position: p.Position,
			Price:    p.Price,
			Points:   p.Points,
		})
	}

	return fantasyTeamDTO{
		TeamName:    team.Name,
		ManagerName: team.Manager,
		Players:     players,
		TotalPoints: team.TotalPoints,
		Rank:        team.Rank,
	}
}

func matchToDTO(m match.Match) matchDTO {
	players := make([]performanceDTO, 0, len(m.Players))
	for _, p := range m.Players {
		players = append(players, performanceDTO{
			Name:       p.Name,
			Appearance: p.Appearance,
			Goals:      p.Goals,
			Assists:    p.Assists,
			CleanSheet: p.CleanSheet,
			YellowCard: p.YellowCard,
			RedCard:    p.RedCard,
			Points:     p.Points,
		})
	}

	return matchDTO{
		Key:           m.Key,
		Date:          m.Date,
		Description:   m.Description,
		Team:          m.Team,
		Opponent:      m.Opponent,
		TeamScore:     m.TeamScore,
		OpponentScore: m.OpponentScore,
		Score:         m.Score(),
		Result:        string(m.Result()),
		Gameweek:      m.Gameweek,
		Players:       players,
	}
}

func teamRecordToDTO(r match.TeamRecord) teamRecordDTO {
	return teamRecordDTO{
		Team:           r.Team,
		Played:         r.Played,
		Won:            r.Won,
		Drawn:          r.Drawn,
		Lost:           r.Lost,
		GoalsFor:       r.GoalsFor,
		GoalsAgainst:   r.GoalsAgainst,
		GoalDifference: r.GoalDifference(),
	}
}

func playerLedgerToDTO(l ledger.PlayerLedger) playerLedgerDTO {
	matches := make([]matchFeeDTO, 0, len(l.MatchDetails))
	for _, m := range l.MatchDetails {
		matches = append(matches, matchFeeDTO{Date: m.Date, Fee: m.Fee, Game: m.Game})
	}
	payments := make([]moneyLineDTO, 0, len(l.PaymentDetails))
	for _, p := range l.PaymentDetails {
		payments = append(payments, moneyLineDTO{Date: p.Date, Amount: p.Amount, Description: p.Description})
	}

	return playerLedgerDTO{
		Name:           l.Name,
		MatchFees:      l.MatchFees,
		SeasonFees:     l.SeasonFees,
		Fines:          l.Fines,
		TotalOwed:      l.TotalOwed,
		Paid:           l.Paid,
		Balance:        l.Balance,
		MatchCount:     l.MatchCount,
		MatchDetails:   matches,
		PaymentDetails: payments,
		FineDetails:    finesToDTO(l.FineDetails),
	}
}

func finesToDTO(fines []ledger.Fine) []moneyLineDTO {
	out := make([]moneyLineDTO, 0, len(fines))
	for _, f := range fines {
		out = append(out, moneyLineDTO{Date: f.Date, Amount: f.Amount, Description: f.Description})
	}
	return out
}

func fineSummaryToDTO(s ledger.FineSummary) fineSummaryDTO {
	return fineSummaryDTO{
		MaxAmount: s.MaxAmount,
		Total:     s.Total,
		Count:     s.Count,
		Average:   s.Average,
		Details:   finesToDTO(s.Details),
	}
}

func playerFinesToDTO(p ledger.PlayerFines, regular *fineSummaryDTO) playerFinesDTO {
	return playerFinesDTO{
		Name:        p.Name,
		TotalFines:  p.TotalFines,
		FineCount:   p.FineCount,
		FineDetails: finesToDTO(p.FineDetails),
		Regular:     regular,
	}
}

func snapshotToDTO(s usecase.Snapshot) snapshotDTO {
	out := snapshotDTO{
		PlayerStats: make([]playerStatDTO, 0, len(s.PlayerStats)),
		Teams:       make([]fantasyTeamDTO, 0, len(s.Teams)),
		Matches:     make([]matchDTO, 0, len(s.Matches)),
		Payments:    make([]playerLedgerDTO, 0, len(s.Ledgers)),
		GeneratedAt: s.GeneratedAt.Format(time.RFC3339),
	}
	for _, line := range s.PlayerStats {
		out.PlayerStats = append(out.PlayerStats, playerStatToDTO(line))
	}
	for _, team := range s.Teams {
		out.Teams = append(out.Teams, fantasyTeamToDTO(team))
	}
	for _, m := range s.Matches {
		out.Matches = append(out.Matches, matchToDTO(m))
	}
	for _, l := range s.Ledgers {
		out.Payments = append(out.Payments, playerLedgerToDTO(l))
	}
	return out
}

func validationReportToDTO(r audit.Report) validationReportDTO {
	checks := make([]validationCheckDTO, 0, len(r.Checks))
	for _, c := range r.Checks {
		checks = append(checks, validationCheckDTO{
			Player:     c.Player,
			Field:      string(c.Field),
			AppValue:   c.AppValue,
			SheetValue: c.SheetValue,
			Money:      c.Field.IsMoney(),
			Match:      c.Match,
		})
	}

	return validationReportDTO{
		TotalChecks:   r.Total(),
		PassedChecks:  r.Passed,
		PassRate:      r.PassRate(),
		MismatchCount: len(r.Mismatches),
		Checks:        checks,
	}
}

func cacheWarmToDTO(result usecase.CacheWarmResult) cacheWarmDTO {
	sources := make([]cacheWarmSourceDTO, 0, len(result.Sources))
	for _, s := range result.Sources {
		sources = append(sources, cacheWarmSourceDTO{
			Source:     s.Source,
			Status:     s.Status,
			Rows:       s.Rows,
			DurationMs: s.DurationMs,
			Message:    s.Message,
		})
	}

	return cacheWarmDTO{
		SourceCount:  result.SourceCount,
		SuccessCount: result.SuccessCount,
		FailedCount:  result.FailedCount,
		WorkerCount:  result.WorkerCount,
		Sources:      sources,
	}
}
