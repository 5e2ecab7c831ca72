package fantasy

import "sort"

// TeamPlayer is one roster entry of a fantasy team.
type TeamPlayer struct {
	Name     string
	Position string
	Price    float64
	Points   float64
}

// Team is a manager's fantasy side.
type Team struct {
	Name        string
	Manager     string
	Players     []TeamPlayer
	TotalPoints float64
	Rank        int
}

// RosterPoints sums the points of every roster entry.
func (t Team) RosterPoints() float64 {
	var total float64
	for _, p := range t.Players {
		total += p.Points
	}
	return total
}

// RosterValue sums roster prices.
func (t Team) RosterValue() float64 {
	var total float64
	for _, p := range t.Players {
		total += p.Price
	}
	return total
}

// PlayersByPoints returns a copy of the roster, best scorer first.
func (t Team) PlayersByPoints() []TeamPlayer {
	out := make([]TeamPlayer, len(t.Players))
	copy(out, t.Players)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Points > out[j].Points
	})
	return out
}
