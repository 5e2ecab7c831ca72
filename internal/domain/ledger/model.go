package ledger

import (
	"sort"

	"github.com/j-evans1/CPR/internal/platform/cell"
)

// MatchFee is one charged appearance.
type MatchFee struct {
	Date string
	Fee  float64
	Game string
}

// Payment is one bank credit attributed to a player.
type Payment struct {
	Date        string
	Amount      float64
	Description string
}

// Fine is one entry of the fines log.
type Fine struct {
	Date        string
	Amount      float64
	Description string
}

// PlayerLedger is the money owed, paid and fined for one player.
type PlayerLedger struct {
	Name           string
	MatchFees      float64
	SeasonFees     float64
	Fines          float64
	TotalOwed      float64
	Paid           float64
	Balance        float64
	MatchCount     int
	MatchDetails   []MatchFee
	PaymentDetails []Payment
	FineDetails    []Fine
}

// Settings are the club's fee rules.
type Settings struct {
	SeasonFee          float64
	SeasonFeeThreshold int
	PaymentStart       cell.DateKey
}

// AppliesSeasonFee reports whether matchCount crosses the threshold.
func (s Settings) AppliesSeasonFee(matchCount int) bool {
	return matchCount > s.SeasonFeeThreshold
}

// AcceptsPaymentOn reports whether a bank credit dated d counts this season.
func (s Settings) AcceptsPaymentOn(d cell.DateKey) bool {
	return d.Compare(s.PaymentStart) >= 0
}

// AddFine records a fine against the ledger.
func (l *PlayerLedger) AddFine(f Fine) {
	l.Fines += f.Amount
	l.FineDetails = append(l.FineDetails, f)
}

// Finalize derives season fee, total owed and balance from the layered
// totals and orders every detail list by date, oldest first.
func (l *PlayerLedger) Finalize(s Settings) {
	l.SeasonFees = 0
	if s.AppliesSeasonFee(l.MatchCount) {
		l.SeasonFees = s.SeasonFee
	}
	l.TotalOwed = l.MatchFees + l.SeasonFees
	l.Balance = l.TotalOwed - l.Paid

	sort.SliceStable(l.MatchDetails, func(i, j int) bool {
		return dateBefore(l.MatchDetails[i].Date, l.MatchDetails[j].Date)
	})
	sort.SliceStable(l.PaymentDetails, func(i, j int) bool {
		return dateBefore(l.PaymentDetails[i].Date, l.PaymentDetails[j].Date)
	})
	SortFinesByDate(l.FineDetails)
}

// HasActivity is false for players with no matches and no fines.
func (l PlayerLedger) HasActivity() bool {
	return l.MatchCount > 0 || l.Fines > 0
}

// SortByBalance puts the biggest debtor first; ties keep input order.
func SortByBalance(ledgers []PlayerLedger) {
	sort.SliceStable(ledgers, func(i, j int) bool {
		return ledgers[i].Balance > ledgers[j].Balance
	})
}

func SortFinesByDate(fines []Fine) {
	sort.SliceStable(fines, func(i, j int) bool {
		return dateBefore(fines[i].Date, fines[j].Date)
	})
}

func dateBefore(a, b string) bool {
	return cell.ParseDateDMY(a).Before(cell.ParseDateDMY(b))
}
