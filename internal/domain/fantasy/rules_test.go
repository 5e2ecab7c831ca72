package fantasy

import "testing"

func TestRankTeams(t *testing.T) {
	t.Parallel()

	teams := []Team{
		{Name: "ten", Players: []TeamPlayer{{Name: "a", Points: 10}}},
		{Name: "thirty-first", Players: []TeamPlayer{{Name: "b", Points: 20}, {Name: "c", Points: 10}}},
		{Name: "thirty-second", Players: []TeamPlayer{{Name: "d", Points: 30}}, TotalPoints: 999},
		{Name: "five", Players: []TeamPlayer{{Name: "e", Points: 5}}},
	}

	ranked := RankTeams(teams)

	tests := []struct {
		name  string
		total float64
		rank  int
	}{
		{name: "thirty-first", total: 30, rank: 1},
		{name: "thirty-second", total: 30, rank: 2},
		{name: "ten", total: 10, rank: 3},
		{name: "five", total: 5, rank: 4},
	}
	if len(ranked) != len(tests) {
		t.Fatalf("expected %d teams, got %d", len(tests), len(ranked))
	}
	for i, tc := range tests {
		got := ranked[i]
		if got.Name != tc.name || got.TotalPoints != tc.total || got.Rank != tc.rank {
			t.Fatalf("position %d: got %s total=%v rank=%d, want %s total=%v rank=%d",
				i, got.Name, got.TotalPoints, got.Rank, tc.name, tc.total, tc.rank)
		}
	}

	if teams[2].TotalPoints != 999 || teams[0].Rank != 0 {
		t.Fatalf("input teams were mutated: %+v", teams)
	}
}

func TestRankTeamsEmpty(t *testing.T) {
	t.Parallel()

	if got := RankTeams(nil); len(got) != 0 {
		t.Fatalf("expected no teams, got %d", len(got))
	}
}

func TestPlayersByPoints(t *testing.T) {
	t.Parallel()

	team := Team{Players: []TeamPlayer{
		{Name: "low", Points: 1},
		{Name: "high", Points: 9},
		{Name: "mid-a", Points: 4},
		{Name: "mid-b", Points: 4},
	}}

	sorted := team.PlayersByPoints()
	order := []string{"high", "mid-a", "mid-b", "low"}
	for i, name := range order {
		if sorted[i].Name != name {
			t.Fatalf("position %d: got %s want %s", i, sorted[i].Name, name)
		}
	}
	if team.Players[0].Name != "low" {
		t.Fatalf("roster order mutated")
	}
	if team.RosterValue() != 0 || team.RosterPoints() != 18 {
		t.Fatalf("unexpected roster sums value=%v points=%v", team.RosterValue(), team.RosterPoints())
	}
}
