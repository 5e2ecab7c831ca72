package ledger

import "sort"

// PlayerFines is the fines log folded for one player.
type PlayerFines struct {
	Name        string
	TotalFines  float64
	FineCount   int
	FineDetails []Fine
}

func (p *PlayerFines) Add(f Fine) {
	p.TotalFines += f.Amount
	p.FineCount++
	p.FineDetails = append(p.FineDetails, f)
}

// SortByTotalFines puts the most fined player first; ties keep input order.
func SortByTotalFines(players []PlayerFines) {
	sort.SliceStable(players, func(i, j int) bool {
		return players[i].TotalFines > players[j].TotalFines
	})
}

// FineSummary aggregates the fines at or under a cap.
type FineSummary struct {
	MaxAmount float64
	Total     float64
	Count     int
	Average   float64
	Details   []Fine
}

// FilteredFineTotal summarizes details with Amount <= maxAmount. The input
// slice is left untouched; Details is a fresh slice.
func FilteredFineTotal(details []Fine, maxAmount float64) FineSummary {
	summary := FineSummary{MaxAmount: maxAmount, Details: []Fine{}}
	for _, f := range details {
		if f.Amount > maxAmount {
			continue
		}
		summary.Total += f.Amount
		summary.Count++
		summary.Details = append(summary.Details, f)
	}
	if summary.Count > 0 {
		summary.Average = summary.Total / float64(summary.Count)
	}
	return summary
}
