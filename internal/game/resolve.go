package game

// RoundResult is everything the action phase produced, consumed atomically
// by the engine: stat deltas, the narrative feed, and who got eliminated.
type RoundResult struct {
	Deltas     []StatDelta `json:"deltas"`
	Narratives []Narrative `json:"narratives"`
	VotedOut   string      `json:"voted_out,omitempty"`
	VoteTie    bool        `json:"vote_tie"`
	Eliminated []string    `json:"eliminated"`

	// doomer double-damage bookkeeping, applied by the caller together with
	// the deltas: granted on a wrong heal, consumed by an unblocked attack.
	BuffsGranted  []string `json:"-"`
	BuffsConsumed []string `json:"-"`
}

// ResolveRound resolves the round's submitted abilities and votes into stat
// deltas. Order is fixed: abilities first, then votes, then elimination by
// cumulative aura across everything produced before. The session itself is
// never mutated here.
func ResolveRound(s *Session) RoundResult {
	var res RoundResult

	// pass 1: who defends whom, who is getting hit. Needed before any
	// ability resolves because blocking and self-defense look across actors.
	defenders := make(map[string][]string) // victim -> defenders (other actors only)
	targeted := make(map[string]bool)      // attack or sabotage landed on this color
	for _, actor := range s.Players {
		use, ok := s.Abilities[actor.Color]
		if !ok || !actor.Alive {
			continue
		}
		switch use.Ability {
		case AbilityDefend:
			if use.Target != actor.Color {
				defenders[use.Target] = append(defenders[use.Target], actor.Color)
			}
		case AbilityAttack, AbilitySabotage, AbilityInvisibleSabotage:
			targeted[use.Target] = true
		}
	}

	vibeLoss := make(map[string]int)  // running vibe damage, for vibe-out detection
	rewarded := make(map[string]bool) // victims whose defender already earned the bonus

	// pass 2: resolve abilities in seat order so reruns are reproducible
	for _, actor := range s.Players {
		use, ok := s.Abilities[actor.Color]
		if !ok || !actor.Alive {
			continue
		}
		target := s.PlayerByColor(use.Target)

		switch use.Ability {
		case AbilityAttack:
			if actor.Role != RoleDoomer || target == nil || !target.Alive {
				continue
			}
			blocked := target.Color == s.CollabHost || s.collabImmune(target.Color)
			if ds := defenders[target.Color]; len(ds) > 0 {
				// a defended victim shrugs off every attack this round;
				// the defender's bonus is paid out once
				blocked = true
				if !rewarded[target.Color] {
					rewarded[target.Color] = true
					res.Deltas = append(res.Deltas, StatDelta{Color: ds[0], Aura: 1, Reason: "successful defense"})
					res.Narratives = append(res.Narratives, Narrative{
						Kind: "defense", Actor: ds[0], Target: target.Color,
						Text: ds[0] + " blocked an attack on " + target.Color,
					})
				}
			}
			if blocked {
				continue
			}
			dmg := 1
			if actor.BuffedAttack {
				dmg = 2
				res.BuffsConsumed = append(res.BuffsConsumed, actor.Color)
			}
			res.Deltas = append(res.Deltas, StatDelta{Color: target.Color, Aura: -1, Vibe: -dmg, Reason: "attacked"})
			res.Narratives = append(res.Narratives, Narrative{
				Kind: "attack", Target: target.Color,
				Text: target.Color + " got attacked in the night",
			})
			vibeLoss[target.Color] += dmg
			if target.Vibe-vibeLoss[target.Color] <= 0 {
				res.Deltas = append(res.Deltas, StatDelta{Color: target.Color, Eliminated: true, Reason: "vibed out"})
				res.Eliminated = append(res.Eliminated, target.Color)
			}

		case AbilityHeal:
			if target == nil || !target.Alive {
				continue
			}
			if target.Vibe-vibeLoss[target.Color] < MaxVibe {
				res.Deltas = append(res.Deltas,
					StatDelta{Color: actor.Color, Aura: 1, Reason: "successful heal"},
					StatDelta{Color: target.Color, Vibe: 1, Reason: "healed"})
				res.Narratives = append(res.Narratives, Narrative{
					Kind: "heal", Actor: actor.Color, Target: target.Color,
					Text: actor.Color + " healed " + target.Color,
				})
			} else {
				// wrong heal: target was already at full vibe
				res.Deltas = append(res.Deltas,
					StatDelta{Color: actor.Color, Aura: -1, Reason: "wrong heal"},
					StatDelta{Color: target.Color, Aura: 1, Reason: "wrongly healed"})
				res.Narratives = append(res.Narratives, Narrative{
					Kind: "wrong_heal", Actor: actor.Color, Target: target.Color,
					Text: actor.Color + " healed " + target.Color + " for nothing",
				})
				if target.Role == RoleDoomer {
					res.BuffsGranted = append(res.BuffsGranted, target.Color)
				}
			}

		case AbilityDefend:
			if use.Target != actor.Color {
				continue // covered by the blocking pass
			}
			if targeted[actor.Color] {
				res.Deltas = append(res.Deltas, StatDelta{Color: actor.Color, Aura: 1, Reason: "successful self-defense"})
			} else if actor.Color != s.CollabHost {
				// the collab host gets one penalty-free defend
				res.Deltas = append(res.Deltas, StatDelta{Color: actor.Color, Aura: -0.5, Reason: "unnecessary self-defense"})
			}

		case AbilitySabotage, AbilityInvisibleSabotage:
			if target == nil || !target.Alive || target.Color == actor.Color {
				continue
			}
			res.Deltas = append(res.Deltas,
				StatDelta{Color: target.Color, Aura: -1, Reason: "sabotaged"},
				StatDelta{Color: actor.Color, Aura: 1, Reason: "sabotage"})
			n := Narrative{Kind: "sabotage", Actor: actor.Color, Target: target.Color,
				Text: actor.Color + " sabotaged " + target.Color}
			if use.Ability == AbilityInvisibleSabotage {
				n.Hidden = true
				n.Text = target.Color + " got sabotaged"
			}
			res.Narratives = append(res.Narratives, n)
		}
	}

	// votes
	tally := make(map[string]int)
	for _, voter := range s.Players {
		target, ok := s.Votes[voter.Color]
		if !ok || !voter.Alive {
			continue
		}
		if t := s.PlayerByColor(target); t != nil && t.Alive {
			tally[target]++
		}
	}

	max := 0
	for _, n := range tally {
		if n > max {
			max = n
		}
	}
	if max > 0 {
		var top []string
		for _, p := range s.Players { // seat order, not map order
			if tally[p.Color] == max {
				top = append(top, p.Color)
			}
		}
		if len(top) > 1 {
			// tied vote: nobody goes home, nobody gains or loses aura
			res.VoteTie = true
			res.Narratives = append(res.Narratives, Narrative{Kind: "vote_tie", Text: "the vote tied, nobody got cancelled"})
		} else {
			out := top[0]
			res.VotedOut = out
			res.Deltas = append(res.Deltas, StatDelta{Color: out, Eliminated: true, Reason: "voted out"})
			res.Eliminated = append(res.Eliminated, out)
			res.Narratives = append(res.Narratives, Narrative{Kind: "voted_out", Target: out, Text: out + " got cancelled by vote"})
			for _, voter := range s.Players {
				target, ok := s.Votes[voter.Color]
				if !ok || !voter.Alive {
					continue
				}
				if target == out {
					res.Deltas = append(res.Deltas, StatDelta{Color: voter.Color, Aura: 0.5, Reason: "voted correctly"})
				} else {
					res.Deltas = append(res.Deltas, StatDelta{Color: voter.Color, Aura: -0.5, Reason: "voted incorrectly"})
				}
			}
		}
	}

	// elimination by cumulative aura, over everything produced above
	auraShift := make(map[string]float64)
	for _, d := range res.Deltas {
		auraShift[d.Color] += d.Aura
	}
	for _, p := range s.Players {
		if !p.Alive {
			continue
		}
		if p.Aura+auraShift[p.Color] <= AuraFloor {
			res.Deltas = append(res.Deltas, StatDelta{Color: p.Color, Eliminated: true, Reason: "Aura dropped below -5"})
			if !contains(res.Eliminated, p.Color) {
				res.Eliminated = append(res.Eliminated, p.Color)
			}
			res.Narratives = append(res.Narratives, Narrative{Kind: "aura_out", Target: p.Color, Text: p.Color + "'s aura hit rock bottom"})
		}
	}

	return res
}

// collabImmune reports whether color is shielded by the current collab.
// Skip voters never get the benefit even if state got into a weird shape.
func (s *Session) collabImmune(color string) bool {
	if s.CurrentCollab == nil || s.SkipVoters[color] {
		return false
	}
	for _, v := range s.CurrentCollab.Votes {
		if v == color {
			return true
		}
	}
	return false
}

// CheckWinners evaluates win conditions over alive players. Runs after
// resolver deltas are applied and before the round increments, so a finished
// match never re-enters the proposal phase.
func CheckWinners(s *Session) []string {
	alive := s.AlivePlayers()

	// a doomer reaching overlord aura takes it alone
	var doomersUp []string
	for _, p := range alive {
		if p.Role == RoleDoomer && p.Aura >= OverlordAura {
			doomersUp = append(doomersUp, p.Color)
		}
	}
	if len(doomersUp) > 0 {
		return doomersUp
	}

	// two or more vibers at overlord aura share the crown
	var vibersUp []string
	for _, p := range alive {
		if p.Role == RoleViber && p.Aura >= OverlordAura {
			vibersUp = append(vibersUp, p.Color)
		}
	}
	if len(vibersUp) >= 2 {
		return vibersUp
	}

	if len(alive) == 2 {
		a, b := alive[0], alive[1]
		if a.Role == b.Role {
			return []string{a.Color, b.Color}
		}
		// last doomer standing beats the last viber
		if a.Role == RoleDoomer {
			return []string{a.Color}
		}
		return []string{b.Color}
	}

	return nil
}

func contains(list []string, v string) bool {
	for _, x := range list {
		if x == v {
			return true
		}
	}
	return false
}
