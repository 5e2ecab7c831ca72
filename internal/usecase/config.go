package usecase

import (
	"github.com/j-evans1/CPR/internal/domain/ledger"
	"github.com/j-evans1/CPR/internal/domain/match"
	"github.com/j-evans1/CPR/internal/domain/sheet"
	"github.com/j-evans1/CPR/internal/platform/cell"
)

// PipelineConfig carries the sheet layout and fee rules shared by the
// aggregation services.
type PipelineConfig struct {
	MatchColumns   sheet.MatchColumns
	BankColumns    sheet.BankColumns
	FineColumns    sheet.FineColumns
	Ledger         ledger.Settings
	TeamTokens     []string
	RegularFineMax float64
}

func DefaultPipelineConfig() PipelineConfig {
	return PipelineConfig{
		MatchColumns: sheet.DefaultMatchColumns(),
		BankColumns:  sheet.DefaultBankColumns(),
		FineColumns:  sheet.DefaultFineColumns(),
		Ledger: ledger.Settings{
			SeasonFee:          30,
			SeasonFeeThreshold: 5,
			PaymentStart:       cell.ParseDateDMY("01/08/2025"),
		},
		TeamTokens:     append([]string(nil), match.DefaultTeamTokens...),
		RegularFineMax: 5,
	}
}
