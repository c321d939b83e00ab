package game

import "testing"

func auraFor(deltas []StatDelta, color string) float64 {
	var sum float64
	for _, d := range deltas {
		if d.Color == color {
			sum += d.Aura
		}
	}
	return sum
}

func TestResolveCollabsNoProposals(t *testing.T) {
	res := ResolveCollabs(nil)
	if res.Winner != nil || res.Tie || len(res.Deltas) != 0 {
		t.Fatalf("empty input produced %+v", res)
	}
}

func TestResolveCollabsLoneProposalWins(t *testing.T) {
	res := ResolveCollabs([]*CollabProposal{
		{ID: "p1", Proposer: "red", Votes: []string{"blue", "green"}},
	})

	if res.Tie {
		t.Fatalf("lone proposal resolved as tie")
	}
	if res.Winner == nil || res.Winner.Proposer != "red" {
		t.Fatalf("winner = %+v; want red's proposal", res.Winner)
	}
	if got := auraFor(res.Deltas, "red"); got != 2 {
		t.Fatalf("red aura delta = %v; want +2", got)
	}
	for _, c := range []string{"blue", "green"} {
		if got := auraFor(res.Deltas, c); got != 1 {
			t.Fatalf("%s aura delta = %v; want +1", c, got)
		}
	}
}

func TestResolveCollabsWinnerAndLosers(t *testing.T) {
	res := ResolveCollabs([]*CollabProposal{
		{ID: "p1", Proposer: "red", Votes: []string{"blue", "green"}},
		{ID: "p2", Proposer: "yellow", Votes: []string{"purple"}},
	})

	if res.Winner == nil || res.Winner.ID != "p1" {
		t.Fatalf("winner = %+v; want p1", res.Winner)
	}

	cases := []struct {
		color string
		want  float64
	}{
		{"red", 2}, {"blue", 1}, {"green", 1},
		{"yellow", -2}, {"purple", -1},
	}
	for _, tc := range cases {
		if got := auraFor(res.Deltas, tc.color); got != tc.want {
			t.Fatalf("%s aura delta = %v; want %v", tc.color, got, tc.want)
		}
	}
}

func TestResolveCollabsTie(t *testing.T) {
	res := ResolveCollabs([]*CollabProposal{
		{ID: "p1", Proposer: "red", Votes: []string{"blue", "green"}},
		{ID: "p2", Proposer: "yellow", Votes: []string{"purple", "orange"}},
	})

	if !res.Tie || res.Winner != nil {
		t.Fatalf("want tie with no winner, got tie=%v winner=%+v", res.Tie, res.Winner)
	}

	for _, c := range []string{"red", "blue", "green", "yellow", "purple", "orange"} {
		if got := auraFor(res.Deltas, c); got != 1 {
			t.Fatalf("%s aura delta = %v; want +1 on tie", c, got)
		}
	}
}

func TestResolveCollabsZeroVoteLoneProposalDoesNotWin(t *testing.T) {
	res := ResolveCollabs([]*CollabProposal{
		{ID: "p1", Proposer: "red"},
	})
	if res.Winner != nil || res.Tie || len(res.Deltas) != 0 {
		t.Fatalf("zero-vote proposal should resolve to nothing, got %+v", res)
	}
}
