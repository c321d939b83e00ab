package game

// CollabResult is the outcome of the proposal/voting phases.
type CollabResult struct {
	Winner *CollabProposal `json:"winner,omitempty"`
	Tie    bool            `json:"tie"`
	Deltas []StatDelta     `json:"deltas"`
}

// ResolveCollabs scores the round's proposals into a winner (or tie) and the
// associated aura deltas. It never mutates the session; the caller applies
// the deltas and assigns the collab host.
//
// Unique max -> proposer +2, backers +1, every losing proposer -2 and losing
// backers -1. Tie at the max -> +1 for every member of every tied proposal,
// no host. No proposals -> nothing.
func ResolveCollabs(proposals []*CollabProposal) CollabResult {
	if len(proposals) == 0 {
		return CollabResult{}
	}

	max := -1
	for _, c := range proposals {
		if len(c.Votes) > max {
			max = len(c.Votes)
		}
	}

	var top []*CollabProposal
	for _, c := range proposals {
		if len(c.Votes) == max {
			top = append(top, c)
		}
	}

	// a single proposal nobody backed doesn't win anything
	if max == 0 && len(top) == 1 {
		return CollabResult{}
	}

	if len(top) > 1 {
		res := CollabResult{Tie: true}
		for _, c := range top {
			res.Deltas = append(res.Deltas, StatDelta{Color: c.Proposer, Aura: 1, Reason: "collab tie"})
			for _, v := range c.Votes {
				res.Deltas = append(res.Deltas, StatDelta{Color: v, Aura: 1, Reason: "collab tie"})
			}
		}
		return res
	}

	winner := top[0]
	res := CollabResult{Winner: winner}
	res.Deltas = append(res.Deltas, StatDelta{Color: winner.Proposer, Aura: 2, Reason: "collab won"})
	for _, v := range winner.Votes {
		res.Deltas = append(res.Deltas, StatDelta{Color: v, Aura: 1, Reason: "backed winning collab"})
	}
	for _, c := range proposals {
		if c == winner {
			continue
		}
		res.Deltas = append(res.Deltas, StatDelta{Color: c.Proposer, Aura: -2, Reason: "collab flopped"})
		for _, v := range c.Votes {
			res.Deltas = append(res.Deltas, StatDelta{Color: v, Aura: -1, Reason: "backed flopped collab"})
		}
	}
	return res
}
