package usecase

import (
	"context"
	"testing"
)

func TestFantasyLeagueService_ListTeams(t *testing.T) {
	t.Parallel()

	svc := NewFantasyLeagueService(newFixtureRepository(t), nil)

	teams, err := svc.ListTeams(context.Background())
	if err != nil {
		t.Fatalf("ListTeams error: %v", err)
	}

	want := []struct {
		name    string
		manager string
		total   float64
		rank    int
		players int
	}{
		{name: "Thirty A", manager: "Kim", total: 30, rank: 1, players: 2},
		{name: "Thirty B", manager: "Lee", total: 30, rank: 2, players: 1},
		{name: "Ten FC", manager: "Sam", total: 10, rank: 3, players: 1},
		{name: "Five FC", manager: "Max", total: 5, rank: 4, players: 1},
		{name: "Empty FC", manager: "Pat", total: 0, rank: 5, players: 0},
	}
	if len(teams) != len(want) {
		t.Fatalf("expected %d teams, got %d: %+v", len(want), len(teams), teams)
	}
	for i, w := range want {
		got := teams[i]
		if got.Name != w.name || got.Manager != w.manager || got.TotalPoints != w.total || got.Rank != w.rank || len(got.Players) != w.players {
			t.Fatalf("team %d: got %+v, want %+v", i, got, w)
		}
	}

	roster := teams[0].Players
	if roster[0].Name != "Ann" || roster[0].Position != "DEF" || roster[0].Price != 6 || roster[0].Points != 20 {
		t.Fatalf("unexpected roster entry %+v", roster[0])
	}
}
